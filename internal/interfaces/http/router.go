// Package http wires the application's use cases into a gin router.
package http

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	applyusecases "github.com/centrex-inc/centrex/internal/application/apply/usecases"
	appaudit "github.com/centrex-inc/centrex/internal/application/audit"
	didusecases "github.com/centrex-inc/centrex/internal/application/did/usecases"
	tenantusecases "github.com/centrex-inc/centrex/internal/application/tenant/usecases"
	userusecases "github.com/centrex-inc/centrex/internal/application/user/usecases"
	"github.com/centrex-inc/centrex/internal/domain/dialplan"
	"github.com/centrex-inc/centrex/internal/infrastructure/asterisk"
	"github.com/centrex-inc/centrex/internal/infrastructure/config"
	"github.com/centrex-inc/centrex/internal/infrastructure/configfile"
	"github.com/centrex-inc/centrex/internal/infrastructure/locking"
	"github.com/centrex-inc/centrex/internal/infrastructure/ratelimit"
	"github.com/centrex-inc/centrex/internal/infrastructure/repository"
	"github.com/centrex-inc/centrex/internal/interfaces/http/handlers"
	"github.com/centrex-inc/centrex/internal/interfaces/http/middleware"
	"github.com/centrex-inc/centrex/internal/shared/db"
	"github.com/centrex-inc/centrex/internal/shared/logger"
)

// Router holds the configured engine and its handlers.
type Router struct {
	engine        *gin.Engine
	tenantHandler *handlers.TenantHandler
	userHandler   *handlers.UserHandler
	numberHandler *handlers.NumberHandler
	applyHandler  *handlers.ApplyHandler
	auditHandler  *handlers.AuditHandler
	healthHandler *handlers.HealthHandler
	rateLimiter   gin.HandlerFunc
}

// amiReloader adapts the AMI client's result type to the apply use case's.
type amiReloader struct {
	client *asterisk.AMIClient
}

func (a *amiReloader) Reload(ctx context.Context, target string) applyusecases.ReloadResult {
	res := a.client.Reload(ctx, target)
	return applyusecases.ReloadResult{
		Target:     res.Target,
		Success:    res.Success,
		Kind:       string(res.Kind),
		Diagnostic: res.Diagnostic,
	}
}

// NewRouter creates a new HTTP router with all dependencies wired.
func NewRouter(gdb *gorm.DB, redisClient *redis.Client, cfg *config.Config, log logger.Interface) *Router {
	engine := gin.New()

	tenantRepo := repository.NewTenantRepository(gdb, log)
	userRepo := repository.NewUserRepository(gdb, log)
	phoneRepo := repository.NewPhoneNumberRepository(gdb, log)
	assignmentRepo := repository.NewDIDAssignmentRepository(gdb, log)
	jobRepo := repository.NewApplyJobRepository(gdb, log)
	auditRepo := repository.NewAuditLogRepository(gdb, log)

	txManager := db.NewTransactionManager(gdb)
	recorder := appaudit.NewRecorder(auditRepo, log)

	tenantHandler := handlers.NewTenantHandler(
		tenantusecases.NewCreateTenantUseCase(tenantRepo, recorder, log),
		tenantusecases.NewGetTenantUseCase(tenantRepo, log),
		tenantusecases.NewListTenantsUseCase(tenantRepo, log),
		tenantusecases.NewUpdateTenantUseCase(tenantRepo, recorder, log),
		tenantusecases.NewDeleteTenantUseCase(tenantRepo, userRepo, phoneRepo, assignmentRepo, txManager, recorder, log),
		log,
	)

	userHandler := handlers.NewUserHandler(
		userusecases.NewCreateUserUseCase(userRepo, tenantRepo, txManager, recorder, log),
		userusecases.NewGetUserUseCase(userRepo, log),
		userusecases.NewListUsersUseCase(userRepo, log),
		userusecases.NewUpdateUserUseCase(userRepo, recorder, log),
		userusecases.NewDeleteUserUseCase(userRepo, phoneRepo, assignmentRepo, txManager, recorder, log),
		log,
	)

	numberHandler := handlers.NewNumberHandler(
		didusecases.NewImportNumbersUseCase(phoneRepo, recorder, log),
		didusecases.NewAllocateNumberUseCase(phoneRepo, tenantRepo, recorder, log),
		didusecases.NewAssignNumberUseCase(phoneRepo, assignmentRepo, userRepo, txManager, recorder, log),
		didusecases.NewUnassignNumberUseCase(phoneRepo, assignmentRepo, txManager, recorder, log),
		didusecases.NewDeallocateNumberUseCase(phoneRepo, recorder, log),
		didusecases.NewListNumbersUseCase(phoneRepo, log),
		didusecases.NewGetNumberUseCase(phoneRepo, assignmentRepo, log),
		log,
	)

	reloader := &amiReloader{client: asterisk.NewAMIClient(
		cfg.Asterisk.GetAddr(),
		cfg.Asterisk.AMIUsername,
		cfg.Asterisk.AMISecret,
		cfg.Asterisk.GetReloadTimeout(),
		log,
	)}

	applyUC := applyusecases.NewApplyConfigurationUseCase(
		jobRepo,
		tenantRepo,
		userRepo,
		phoneRepo,
		assignmentRepo,
		locking.NewMySQLClusterLock(gdb, cfg.Apply.LockKey),
		configfile.NewAtomicWriter(),
		configfile.NewBackupManager(cfg.Apply.BackupDir),
		reloader,
		dialplan.NewGenerator(),
		dialplan.NewEndpointsGenerator(),
		cfg.Apply.DialplanPath,
		cfg.Apply.EndpointPath,
		recorder,
		log,
	)

	applyHandler := handlers.NewApplyHandler(
		applyUC,
		applyusecases.NewValidateConfigurationUseCase(tenantRepo, userRepo),
		applyusecases.NewGetApplyJobUseCase(jobRepo, log),
		applyusecases.NewListApplyJobsUseCase(jobRepo, log),
		log,
	)

	auditHandler := handlers.NewAuditHandler(appaudit.NewListLogsUseCase(auditRepo, log), log)
	healthHandler := handlers.NewHealthHandler(gdb, jobRepo, log)

	// Rate limiting guards the apply endpoint only; it needs Redis, and
	// without one the endpoint is simply unthrottled.
	var rateLimiter gin.HandlerFunc
	if redisClient != nil {
		rateLimiter = middleware.RateLimit(
			ratelimit.NewRedisRateLimiter(redisClient),
			ratelimit.Limit{PerMinute: 6, PerHour: 60},
			log,
		)
	}

	return &Router{
		engine:        engine,
		tenantHandler: tenantHandler,
		userHandler:   userHandler,
		numberHandler: numberHandler,
		applyHandler:  applyHandler,
		auditHandler:  auditHandler,
		healthHandler: healthHandler,
		rateLimiter:   rateLimiter,
	}
}

// SetupRoutes registers middleware and all API routes.
func (r *Router) SetupRoutes(log logger.Interface) {
	r.engine.Use(middleware.Recovery())
	r.engine.Use(middleware.Logger(log))
	r.engine.Use(middleware.Provenance())

	r.engine.GET("/health", r.healthHandler.Health)

	v1 := r.engine.Group("/api/v1")
	{
		tenants := v1.Group("/tenants")
		{
			tenants.POST("", r.tenantHandler.CreateTenant)
			tenants.GET("", r.tenantHandler.ListTenants)
			tenants.GET("/:id", r.tenantHandler.GetTenant)
			tenants.PUT("/:id", r.tenantHandler.UpdateTenant)
			tenants.DELETE("/:id", r.tenantHandler.DeleteTenant)
		}

		users := v1.Group("/users")
		{
			users.POST("", r.userHandler.CreateUser)
			users.GET("", r.userHandler.ListUsers)
			users.GET("/:id", r.userHandler.GetUser)
			users.PUT("/:id", r.userHandler.UpdateUser)
			users.DELETE("/:id", r.userHandler.DeleteUser)
		}

		numbers := v1.Group("/numbers")
		{
			numbers.POST("/import", r.numberHandler.ImportNumbers)
			numbers.GET("", r.numberHandler.ListNumbers)
			numbers.GET("/:id", r.numberHandler.GetNumber)
			numbers.POST("/:id/allocate", r.numberHandler.AllocateNumber)
			numbers.POST("/:id/assign", r.numberHandler.AssignNumber)
			numbers.POST("/:id/unassign", r.numberHandler.UnassignNumber)
			numbers.POST("/:id/deallocate", r.numberHandler.DeallocateNumber)
		}

		applyGroup := v1.Group("/apply")
		{
			if r.rateLimiter != nil {
				applyGroup.POST("", r.rateLimiter, r.applyHandler.Apply)
			} else {
				applyGroup.POST("", r.applyHandler.Apply)
			}
			applyGroup.POST("/validate", r.applyHandler.Validate)
			applyGroup.GET("/jobs", r.applyHandler.ListJobs)
			applyGroup.GET("/jobs/:id", r.applyHandler.GetJob)
		}

		v1.GET("/audit-logs", r.auditHandler.ListLogs)
	}
}

// GetEngine returns the underlying gin engine.
func (r *Router) GetEngine() *gin.Engine {
	return r.engine
}
