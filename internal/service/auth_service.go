package service

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/spec-kit/booknow-hub/internal/auth"
	"github.com/spec-kit/booknow-hub/internal/events"
	"github.com/spec-kit/booknow-hub/internal/session"
)

// AuthService runs session store flows for one credential client at a time and publishes
// their outcomes.
type AuthService struct {
	deps       session.ResolverDependencies
	dispatcher events.Dispatcher
	logger     *zap.Logger
}

// AuthDependencies bundles what session flows need.
type AuthDependencies struct {
	Resolver   session.ResolverDependencies
	Dispatcher events.Dispatcher
}

// NewAuthService builds the service.
func NewAuthService(deps AuthDependencies, logger *zap.Logger) *AuthService {
	return &AuthService{deps: deps.Resolver, dispatcher: deps.Dispatcher, logger: logger}
}

// NewStore returns a fresh store bound to backend. cache may be nil.
func (s *AuthService) NewStore(backend auth.Backend, cache session.ProjectionCache) *session.Store {
	return session.NewStore(session.NewResolver(backend, s.deps, s.logger), cache, s.logger)
}

// LoginGlobal signs in to the platform console.
func (s *AuthService) LoginGlobal(ctx context.Context, store *session.Store, email, password string) (session.State, error) {
	err := store.LoginGlobal(ctx, email, password)
	state := store.Snapshot()
	s.publishLogin(ctx, state, "global", "", err)
	return state, err
}

// LoginTenant signs in to the tenant named by slug.
func (s *AuthService) LoginTenant(ctx context.Context, store *session.Store, email, password, slug string) (session.State, error) {
	err := store.LoginTenant(ctx, email, password, slug)
	state := store.Snapshot()
	s.publishLogin(ctx, state, "tenant", slug, err)
	return state, err
}

// HydrateGlobal re-resolves the global context.
func (s *AuthService) HydrateGlobal(ctx context.Context, store *session.Store) (session.State, error) {
	err := store.HydrateGlobal(ctx)
	return store.Snapshot(), err
}

// HydrateTenant re-resolves the tenant context.
func (s *AuthService) HydrateTenant(ctx context.Context, store *session.Store, slug string) (session.State, error) {
	err := store.HydrateTenant(ctx, slug)
	return store.Snapshot(), err
}

// Logout signs out and resets the store. userID is the caller as known before sign-out, if any.
func (s *AuthService) Logout(ctx context.Context, store *session.Store, userID string) error {
	err := store.Logout(ctx)
	s.publish(ctx, events.Event{
		Type:    events.EventSessionSignedOut,
		Actor:   events.Actor{UserID: userID},
		Payload: events.SessionPayload{Flow: "logout"},
	})
	return err
}

func (s *AuthService) publishLogin(ctx context.Context, state session.State, flow, slug string, err error) {
	switch {
	case err == nil:
		event := events.Event{
			Type:    events.EventSessionEstablished,
			Payload: events.SessionPayload{Flow: flow, TenantSlug: slug},
		}
		if p := session.ProjectionOf(state.Context); p != nil {
			event.Actor = events.Actor{UserID: p.UserID, Mode: string(p.Mode), Role: p.Role}
			event.TenantID = p.TenantID
		}
		s.publish(ctx, event)
	case errors.Is(err, session.ErrNoGlobalAccess), errors.Is(err, session.ErrNoTenantAccess):
		s.publish(ctx, events.Event{
			Type:    events.EventSessionRolledBack,
			Payload: events.SessionPayload{Flow: flow, TenantSlug: slug, Reason: err.Error()},
		})
	}
}

func (s *AuthService) publish(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	if err := s.dispatcher.Publish(ctx, event); err != nil {
		s.logger.Warn("publish event failed", zap.String("event_type", string(event.Type)), zap.Error(err))
	}
}
