package session

import (
	"context"
	"sync"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/booknow-hub/internal/auth"
	"github.com/spec-kit/booknow-hub/internal/domain"
)

// fakeBackend is an in-memory credential backend with a single current session.
type fakeBackend struct {
	mu          sync.Mutex
	passwords   map[string]string
	userIDs     map[string]string
	current     *domain.Session
	getErr      error
	signOutErr  error
	signOutCall int
}

var _ auth.Backend = (*fakeBackend)(nil)

func newFakeBackend() *fakeBackend {
	return &fakeBackend{passwords: map[string]string{}, userIDs: map[string]string{}}
}

func (b *fakeBackend) addUser(userID, email, password string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.passwords[email] = password
	b.userIDs[email] = userID
}

func (b *fakeBackend) signedInAs(userID string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.current = &domain.Session{ID: "sess-" + userID, UserID: userID}
}

func (b *fakeBackend) SignInWithPassword(_ context.Context, email, password string) (*domain.Session, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if pw, ok := b.passwords[email]; !ok || pw != password {
		return nil, auth.ErrInvalidCredentials
	}
	b.current = &domain.Session{ID: "sess-" + b.userIDs[email], UserID: b.userIDs[email], Email: email}
	return b.current, nil
}

func (b *fakeBackend) SignOut(context.Context) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.signOutCall++
	b.current = nil
	return b.signOutErr
}

func (b *fakeBackend) GetSession(context.Context) (*domain.Session, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.getErr != nil {
		return nil, b.getErr
	}
	return b.current, nil
}

func (b *fakeBackend) hasSession() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.current != nil
}

// fakeDirectory serves operators, tenants and members from maps.
type fakeDirectory struct {
	mu        sync.Mutex
	operators map[string]*domain.GlobalOperator
	tenants   map[string]*domain.Tenant
	members   map[string]*domain.TenantMember
	gates     map[string]gate
	err       error
}

type gate struct {
	entered chan<- struct{}
	release <-chan struct{}
}

func newFakeDirectory() *fakeDirectory {
	return &fakeDirectory{
		operators: map[string]*domain.GlobalOperator{},
		tenants:   map[string]*domain.Tenant{},
		members:   map[string]*domain.TenantMember{},
		gates:     map[string]gate{},
	}
}

func (d *fakeDirectory) deps() ResolverDependencies {
	return ResolverDependencies{Operators: d, Tenants: d, Members: d}
}

func (d *fakeDirectory) addOperator(userID string, role domain.OperatorRole, active bool) {
	d.operators[userID] = &domain.GlobalOperator{ID: "op-" + userID, UserID: userID, Email: userID + "@ops.test", Role: role, IsActive: active}
}

func (d *fakeDirectory) addTenant(slug string, active bool) *domain.Tenant {
	t := &domain.Tenant{ID: "tenant-" + slug, Slug: slug, Name: slug + " salon", IsActive: active}
	d.tenants[slug] = t
	return t
}

func (d *fakeDirectory) addMember(userID string, tenant *domain.Tenant, role domain.MemberRole) *domain.TenantMember {
	m := &domain.TenantMember{ID: "member-" + userID, TenantID: tenant.ID, UserID: userID, Email: userID + "@salon.test", FullName: "Member " + userID, Role: role, IsActive: true}
	d.members[userID+"/"+tenant.ID] = m
	return m
}

// block makes member lookups in tenantID wait for release after signalling entered.
func (d *fakeDirectory) block(tenantID string, entered chan<- struct{}, release <-chan struct{}) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.gates[tenantID] = gate{entered: entered, release: release}
}

func (d *fakeDirectory) GetByUserID(_ context.Context, userID string) (*domain.GlobalOperator, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.err != nil {
		return nil, d.err
	}
	op, ok := d.operators[userID]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	copied := *op
	return &copied, nil
}

func (d *fakeDirectory) GetBySlug(_ context.Context, slug string) (*domain.Tenant, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.err != nil {
		return nil, d.err
	}
	t, ok := d.tenants[slug]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	copied := *t
	return &copied, nil
}

func (d *fakeDirectory) GetActive(_ context.Context, userID, tenantID string) (*domain.TenantMember, error) {
	d.mu.Lock()
	g, gated := d.gates[tenantID]
	d.mu.Unlock()
	if gated {
		g.entered <- struct{}{}
		<-g.release
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	if d.err != nil {
		return nil, d.err
	}
	m, ok := d.members[userID+"/"+tenantID]
	if !ok || !m.IsActive {
		return nil, pgx.ErrNoRows
	}
	copied := *m
	return &copied, nil
}

func (d *fakeDirectory) deactivateMember(userID, tenantID string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.members[userID+"/"+tenantID].IsActive = false
}

// memoryCache is an in-memory ProjectionCache.
type memoryCache struct {
	mu     sync.Mutex
	stored *Projection
}

func (c *memoryCache) Load(context.Context) (*Projection, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.stored == nil {
		return nil, nil
	}
	copied := *c.stored
	return &copied, nil
}

func (c *memoryCache) Save(_ context.Context, p *Projection) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	copied := *p
	c.stored = &copied
	return nil
}

func (c *memoryCache) Clear(context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.stored = nil
	return nil
}

func (c *memoryCache) get() *Projection {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.stored
}
