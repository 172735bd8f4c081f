package session

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/spec-kit/booknow-hub/internal/domain"
	apperrors "github.com/spec-kit/booknow-hub/pkg/util/errorutil"
)

var (
	// ErrNoGlobalAccess is reported when valid credentials carry no active operator role.
	ErrNoGlobalAccess = apperrors.NewForbidden("no permission for the platform console")
	// ErrNoTenantAccess is reported when valid credentials carry no active membership in the tenant.
	ErrNoTenantAccess = apperrors.NewForbidden("no permission for this tenant")
)

// Phase is the lifecycle stage of a Store.
type Phase int

const (
	PhaseUninitialized Phase = iota
	PhaseHydrating
	PhaseReady
)

func (p Phase) String() string {
	switch p {
	case PhaseHydrating:
		return "hydrating"
	case PhaseReady:
		return "ready"
	}
	return "uninitialized"
}

// State is an immutable snapshot of a Store.
type State struct {
	Phase       Phase
	Context     Context
	Projection  *Projection
	Loading     bool
	Initialized bool
	Err         error
}

// Mode reports the live context mode. Before the first hydration completes a restored
// projection stands in, for display only.
func (s State) Mode() Mode {
	if s.Context != nil {
		return s.Context.Mode()
	}
	if !s.Initialized && s.Projection != nil {
		return s.Projection.Mode
	}
	return ModeNone
}

func (s State) IsAuthenticated() bool { return s.Mode() != ModeNone }

func (s State) IsGlobalAdmin() bool { return s.Mode() == ModeGlobal }

func (s State) IsTenantUser() bool { return s.Mode() == ModeTenant }

// GlobalUser returns the operator of a live global context.
func (s State) GlobalUser() *domain.GlobalOperator {
	if gc, ok := s.Context.(*GlobalContext); ok {
		operator := gc.Operator
		return &operator
	}
	return nil
}

// TenantUser returns the member of a live tenant context.
func (s State) TenantUser() *domain.TenantMember {
	if tc, ok := s.Context.(*TenantContext); ok {
		member := tc.Member
		return &member
	}
	return nil
}

// Tenant returns the tenant of a live tenant context.
func (s State) Tenant() *domain.Tenant {
	if tc, ok := s.Context.(*TenantContext); ok {
		tenant := tc.Tenant
		return &tenant
	}
	return nil
}

// Listener receives every committed state. Listeners run synchronously and must not call
// Store actions.
type Listener func(State)

type subscription struct {
	id uint64
	fn Listener
}

type cacheOp int

const (
	cacheKeep cacheOp = iota
	cacheWrite
	cacheClear
)

// Store holds the current session context and its loading flags.
// Concurrent actions are not de-duplicated: the last one to finish wins.
type Store struct {
	resolver *Resolver
	cache    ProjectionCache
	logger   *zap.Logger

	// notifyMu orders commits so listeners and the cache see writes in commit order.
	notifyMu sync.Mutex

	mu        sync.Mutex
	state     State
	inflight  int
	listeners []subscription
	nextID    uint64
}

// NewStore creates an uninitialized store. cache may be nil.
func NewStore(resolver *Resolver, cache ProjectionCache, logger *zap.Logger) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Store{resolver: resolver, cache: cache, logger: logger}
}

// Snapshot returns the current state.
func (s *Store) Snapshot() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Context returns the live context. It never reflects the cached projection.
func (s *Store) Context() Context {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Context
}

// Subscribe registers fn and returns a function that removes it. No state committed after the
// returned function is called reaches fn.
func (s *Store) Subscribe(fn Listener) func() {
	s.mu.Lock()
	s.nextID++
	id := s.nextID
	s.listeners = append(s.listeners, subscription{id: id, fn: fn})
	s.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			defer s.mu.Unlock()
			for i, sub := range s.listeners {
				if sub.id == id {
					s.listeners = append(s.listeners[:i:i], s.listeners[i+1:]...)
					return
				}
			}
		})
	}
}

// Restore loads the cached projection as a rendering hint. It has no effect once the store
// has been initialized.
func (s *Store) Restore(ctx context.Context) error {
	if s.cache == nil {
		return nil
	}
	projection, err := s.cache.Load(ctx)
	if err != nil {
		return err
	}
	s.commit(ctx, cacheKeep, func(st *State) {
		if !st.Initialized {
			st.Projection = projection
		}
	})
	return nil
}

// HydrateGlobal re-resolves the global context from the backend session.
func (s *Store) HydrateGlobal(ctx context.Context) error {
	return s.hydrate(ctx, s.resolveGlobal, func(p *Projection) bool {
		return p.Mode == ModeGlobal
	})
}

// HydrateTenant re-resolves the tenant context for slug from the backend session.
func (s *Store) HydrateTenant(ctx context.Context, slug string) error {
	return s.hydrate(ctx, s.tenantResolver(slug), func(p *Projection) bool {
		return p.Mode == ModeTenant && p.TenantSlug == slug
	})
}

// LoginGlobal signs in and resolves the global context, signing out again when there is none.
func (s *Store) LoginGlobal(ctx context.Context, email, password string) error {
	return s.login(ctx, email, password, s.resolveGlobal, ErrNoGlobalAccess)
}

// LoginTenant signs in and resolves the tenant context for slug, signing out again when there is none.
func (s *Store) LoginTenant(ctx context.Context, email, password, slug string) error {
	return s.login(ctx, email, password, s.tenantResolver(slug), ErrNoTenantAccess)
}

// Logout ends the backend session and resets local state. The reset happens even when the
// backend call fails; that failure is returned.
func (s *Store) Logout(ctx context.Context) error {
	err := s.resolver.SignOut(ctx)
	if err != nil {
		s.logger.Warn("backend sign-out failed", zap.Error(err))
	}
	s.commit(ctx, cacheClear, func(st *State) {
		st.Context = nil
		st.Projection = nil
		st.Err = nil
		st.Initialized = true
	})
	return err
}

// ClearError drops the recorded error.
func (s *Store) ClearError() {
	s.commit(context.Background(), cacheKeep, func(st *State) {
		st.Err = nil
	})
}

func (s *Store) resolveGlobal(ctx context.Context) (Context, error) {
	gc, err := s.resolver.ResolveGlobal(ctx)
	if gc == nil {
		return nil, err
	}
	return gc, err
}

func (s *Store) tenantResolver(slug string) func(context.Context) (Context, error) {
	return func(ctx context.Context) (Context, error) {
		tc, err := s.resolver.ResolveTenant(ctx, slug)
		if tc == nil {
			return nil, err
		}
		return tc, err
	}
}

// hydrate re-resolves one scope. covers reports whether a cached projection belongs to that scope;
// a none result only clears the cache when it does.
func (s *Store) hydrate(ctx context.Context, resolve func(context.Context) (Context, error), covers func(*Projection) bool) error {
	s.begin(ctx)

	resolved, err := resolve(ctx)
	if err != nil {
		// The previous context can no longer be verified; the cached projection stays as a hint.
		s.commit(ctx, cacheKeep, func(st *State) {
			s.inflight--
			st.Context = nil
			st.Err = err
			st.Initialized = true
		})
		return err
	}

	if resolved == nil && s.cachedOutside(ctx, covers) {
		s.commit(ctx, cacheKeep, func(st *State) {
			s.inflight--
			st.Context = nil
			st.Projection = nil
			st.Err = nil
			st.Initialized = true
		})
		return nil
	}

	s.settle(ctx, resolved, nil)
	return nil
}

func (s *Store) cachedOutside(ctx context.Context, covers func(*Projection) bool) bool {
	if s.cache == nil {
		return false
	}
	cached, err := s.cache.Load(ctx)
	if err != nil {
		s.logger.Warn("projection cache load failed", zap.Error(err))
		return false
	}
	return cached != nil && !covers(cached)
}

func (s *Store) login(ctx context.Context, email, password string, resolve func(context.Context) (Context, error), denied error) error {
	s.begin(ctx)

	if _, err := s.resolver.SignIn(ctx, email, password); err != nil {
		s.commit(ctx, cacheKeep, func(st *State) {
			s.inflight--
			st.Err = err
		})
		return err
	}

	resolved, err := resolve(ctx)
	if err != nil || resolved == nil {
		if err != nil {
			s.logger.Warn("context resolution failed after sign-in", zap.Error(err))
		}
		if signOutErr := s.resolver.SignOut(ctx); signOutErr != nil {
			s.logger.Error("rollback sign-out failed", zap.Error(signOutErr))
		}
		s.settle(ctx, nil, denied)
		return denied
	}

	s.settle(ctx, resolved, nil)
	return nil
}

func (s *Store) begin(ctx context.Context) {
	s.commit(ctx, cacheKeep, func(*State) {
		s.inflight++
	})
}

// settle records a definitive resolution result and mirrors it into the cache.
func (s *Store) settle(ctx context.Context, resolved Context, err error) {
	op := cacheClear
	if resolved != nil {
		op = cacheWrite
	}
	s.commit(ctx, op, func(st *State) {
		s.inflight--
		st.Context = resolved
		st.Projection = ProjectionOf(resolved)
		st.Err = err
		st.Initialized = true
	})
}

func (s *Store) commit(ctx context.Context, op cacheOp, mutate func(*State)) {
	s.notifyMu.Lock()
	defer s.notifyMu.Unlock()

	s.mu.Lock()
	mutate(&s.state)
	s.state.Loading = s.inflight > 0
	switch {
	case s.inflight > 0:
		s.state.Phase = PhaseHydrating
	case s.state.Initialized:
		s.state.Phase = PhaseReady
	default:
		s.state.Phase = PhaseUninitialized
	}
	snapshot := s.state
	listeners := make([]Listener, len(s.listeners))
	for i, sub := range s.listeners {
		listeners[i] = sub.fn
	}
	s.mu.Unlock()

	s.persist(ctx, op, snapshot.Projection)
	for _, fn := range listeners {
		fn(snapshot)
	}
}

func (s *Store) persist(ctx context.Context, op cacheOp, projection *Projection) {
	if s.cache == nil {
		return
	}
	var err error
	switch op {
	case cacheWrite:
		err = s.cache.Save(ctx, projection)
	case cacheClear:
		err = s.cache.Clear(ctx)
	}
	if err != nil {
		s.logger.Warn("projection cache update failed", zap.Error(err))
	}
}
