package cli

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/spec-kit/booknow-hub/internal/auth"
	"github.com/spec-kit/booknow-hub/internal/events"
	"github.com/spec-kit/booknow-hub/internal/observability"
	"github.com/spec-kit/booknow-hub/internal/persistence"
	"github.com/spec-kit/booknow-hub/internal/repository"
	"github.com/spec-kit/booknow-hub/internal/service"
	"github.com/spec-kit/booknow-hub/internal/session"
	"github.com/spec-kit/booknow-hub/internal/worker"
)

const (
	tokenFile   = "token.json"
	sessionFile = "session.json"
)

// runtime is the set of backends one hubctl invocation talks to.
type runtime struct {
	pg    *persistence.Postgres
	redis *persistence.Redis

	credentials *auth.CredentialService
	authService *service.AuthService
	tenants     *service.TenantService
	schedules   *service.ScheduleService
	store       *session.Store
}

// connect opens Postgres and Redis once per invocation and builds the file-backed session store.
func connect(ctx context.Context) (*runtime, error) {
	if hub != nil {
		return hub, nil
	}

	pg, err := persistence.NewPostgres(ctx, cfg.Postgres, appLogger)
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}
	redis := persistence.NewRedis(ctx, cfg.Redis, appLogger)

	pool := pg.PoolHandle()
	tenantRepo := repository.NewTenantRepository(pool)
	operatorRepo := repository.NewGlobalOperatorRepository(pool)
	memberRepo := repository.NewTenantMemberRepository(pool)
	branchRepo := repository.NewBranchRepository(pool)
	specialistRepo := repository.NewSpecialistRepository(pool)

	credentials := auth.NewCredentialService(cfg.Auth, auth.CredentialDependencies{
		IdentityRepo: repository.NewIdentityRepository(pool),
		SessionRepo:  repository.NewSessionRepository(redis.Client),
	}, appLogger)

	dispatcher := events.NewInMemoryDispatcher(appLogger)
	worker.StartAuditWorker(service.NewAuditService(dispatcher, appLogger, cfg.Audit))

	resolverDeps := session.ResolverDependencies{
		Operators: operatorRepo,
		Tenants:   tenantRepo,
		Members:   memberRepo,
		Metrics:   observability.NewMetrics("hubctl"),
	}

	rt := &runtime{
		pg:          pg,
		redis:       redis,
		credentials: credentials,
		authService: service.NewAuthService(service.AuthDependencies{
			Resolver:   resolverDeps,
			Dispatcher: dispatcher,
		}, appLogger),
		tenants: service.NewTenantService(service.TenantDependencies{
			TenantRepo:     tenantRepo,
			OperatorRepo:   operatorRepo,
			MemberRepo:     memberRepo,
			BranchRepo:     branchRepo,
			SpecialistRepo: specialistRepo,
			Identities:     credentials,
		}, appLogger),
		schedules: service.NewScheduleService(service.ScheduleDependencies{
			WeeklyRepo:     repository.NewWeeklyScheduleRepository(pool),
			ExceptionRepo:  repository.NewScheduleExceptionRepository(pool),
			SpecialistRepo: specialistRepo,
			BranchRepo:     branchRepo,
			Dispatcher:     dispatcher,
		}, appLogger),
	}

	store, err := openStore(rt.authService, credentials, cfg.CLI.StateDir)
	if err != nil {
		rt.close()
		return nil, err
	}
	rt.store = store

	hub = rt
	return hub, nil
}

// openStore builds a session store whose token and projection live in stateDir.
func openStore(authService *service.AuthService, authenticator auth.Authenticator, stateDir string) (*session.Store, error) {
	tokens, err := auth.NewFileTokenStore(filepath.Join(stateDir, tokenFile))
	if err != nil {
		return nil, fmt.Errorf("open token store: %w", err)
	}
	cache, err := session.NewFileProjectionCache(filepath.Join(stateDir, sessionFile))
	if err != nil {
		return nil, fmt.Errorf("open session cache: %w", err)
	}
	return authService.NewStore(auth.NewClient(authenticator, tokens), cache), nil
}

func (r *runtime) close() {
	if r.redis != nil {
		r.redis.Close()
	}
	if r.pg != nil {
		r.pg.Close()
	}
}

func closeRuntime() {
	if hub != nil {
		hub.close()
		hub = nil
	}
}
