package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/aureeture/aureeture-api/config"
	"github.com/aureeture/aureeture-api/internal/cache"
	"github.com/aureeture/aureeture-api/internal/database/postgres"
	"github.com/aureeture/aureeture-api/internal/handlers"
	"github.com/aureeture/aureeture-api/internal/middleware"
	"github.com/aureeture/aureeture-api/internal/repository"
	"github.com/aureeture/aureeture-api/internal/services"
	"github.com/aureeture/aureeture-api/pkg/db"
	"github.com/aureeture/aureeture-api/pkg/httpclient"
	"github.com/aureeture/aureeture-api/pkg/identity"
	"github.com/aureeture/aureeture-api/pkg/jwt"
	"github.com/aureeture/aureeture-api/pkg/logger"
	"github.com/aureeture/aureeture-api/pkg/mailer"
	"github.com/aureeture/aureeture-api/pkg/metrics"
	"github.com/aureeture/aureeture-api/pkg/objectstorage"
	"github.com/aureeture/aureeture-api/pkg/payments"
	"github.com/aureeture/aureeture-api/pkg/profiling"
	"github.com/aureeture/aureeture-api/pkg/tracing"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.uber.org/zap"
)

// registerMentorRoutes registers the mentor-only API surface: session
// management, the mentee roster with its sub-resources, and the dashboard
// aggregation views.
func registerMentorRoutes(
	v1 *gin.RouterGroup,
	generalRateLimiter *middleware.RateLimiter,
	sessionHandler *handlers.SessionHandler,
	menteeHandler *handlers.MenteeHandler,
	dashboardHandler *handlers.DashboardHandler,
) {
	mentor := v1.Group("")
	mentor.Use(middleware.RequireRole("mentor"))

	mentor.GET("/mentor-sessions", generalRateLimiter.Middleware(), sessionHandler.ListSessions)
	mentor.POST("/mentor-sessions", generalRateLimiter.Middleware(), middleware.BodySizeLimitMiddleware(100*1024), sessionHandler.CreateSession)
	mentor.GET("/mentor-sessions/:id", generalRateLimiter.Middleware(), sessionHandler.GetSession)
	mentor.PATCH("/mentor-sessions/:id", generalRateLimiter.Middleware(), middleware.BodySizeLimitMiddleware(100*1024), sessionHandler.UpdateSession)
	mentor.POST("/mentor-sessions/:id/complete", generalRateLimiter.Middleware(), middleware.BodySizeLimitMiddleware(100*1024), sessionHandler.CompleteSession)
	mentor.DELETE("/mentor-sessions/:id", generalRateLimiter.Middleware(), sessionHandler.DeleteSession)

	mentor.GET("/mentor-mentees", generalRateLimiter.Middleware(), menteeHandler.GetRoster)
	mentor.POST("/mentor-mentees", generalRateLimiter.Middleware(), middleware.BodySizeLimitMiddleware(100*1024), menteeHandler.AddMentee)
	mentor.GET("/mentor-mentees/:id", generalRateLimiter.Middleware(), menteeHandler.GetMentee)
	mentor.PATCH("/mentor-mentees/:id/status", generalRateLimiter.Middleware(), middleware.BodySizeLimitMiddleware(100*1024), menteeHandler.UpdateStatus)
	mentor.PATCH("/mentor-mentees/:id/plan", generalRateLimiter.Middleware(), middleware.BodySizeLimitMiddleware(100*1024), menteeHandler.UpdatePlan)
	mentor.POST("/mentor-mentees/:id/milestones", generalRateLimiter.Middleware(), middleware.BodySizeLimitMiddleware(100*1024), menteeHandler.AddMilestone)
	mentor.PATCH("/mentor-mentees/milestones/:milestoneId", generalRateLimiter.Middleware(), middleware.BodySizeLimitMiddleware(100*1024), menteeHandler.UpdateMilestone)
	mentor.DELETE("/mentor-mentees/milestones/:milestoneId", generalRateLimiter.Middleware(), menteeHandler.DeleteMilestone)
	mentor.POST("/mentor-mentees/:id/messages", generalRateLimiter.Middleware(), middleware.BodySizeLimitMiddleware(100*1024), menteeHandler.AddMessage)

	mentor.GET("/mentor/dashboard/stats", generalRateLimiter.Middleware(), dashboardHandler.GetStats)
	mentor.GET("/mentor/dashboard/pending-requests", generalRateLimiter.Middleware(), dashboardHandler.GetPendingRequests)
	mentor.GET("/mentor/dashboard/earnings", generalRateLimiter.Middleware(), dashboardHandler.GetEarnings)
	mentor.GET("/mentor/dashboard/availability", generalRateLimiter.Middleware(), dashboardHandler.GetAvailability)
}

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	err = logger.Initialize(logger.Config{
		Level:       cfg.Logging.Level,
		LogDir:      cfg.Logging.Dir,
		Environment: cfg.Server.AppEnv,
		ServiceName: cfg.Observability.ServiceName,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("Starting Aureeture API",
		zap.String("version", cfg.Observability.ServiceVersion),
		zap.String("environment", cfg.Server.AppEnv),
	)

	// Initialize distributed tracing
	tracerShutdown, err := tracing.InitTracer(
		cfg.Observability.ServiceName,
		cfg.Observability.ServiceNamespace,
		cfg.Observability.ServiceVersion,
		cfg.Observability.ServiceInstanceID,
		cfg.Server.AppEnv,
		cfg.Observability.ExporterEndpoint,
	)
	if err != nil {
		logger.Fatal("Failed to initialize tracer", zap.Error(err))
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if shutdownErr := tracerShutdown(ctx); shutdownErr != nil {
			logger.Error("Failed to shutdown tracer", zap.Error(shutdownErr))
		}
	}()

	// Initialize metrics with service name from config
	metrics.Init(cfg.Observability.ServiceName)
	metrics.RecordInfrastructureMetrics()

	// Continuous profiling is optional and never blocks startup
	if cfg.Profiling.Enabled {
		stopProfiler, err := profiling.InitProfiler(
			cfg.Profiling,
			cfg.Observability.ServiceName,
			cfg.Observability.ServiceNamespace,
			cfg.Observability.ServiceVersion,
			cfg.Observability.ServiceInstanceID,
			cfg.Server.AppEnv,
		)
		if err != nil {
			logger.Warn("Failed to initialize profiler", zap.Error(err))
		} else {
			defer stopProfiler()
		}
	}

	// Initialize PostgreSQL connection pool
	pool, err := db.NewPool(context.Background(), db.PoolConfig{
		URL:      cfg.Database.URL,
		MaxConns: cfg.Database.MaxConns,
		MinConns: cfg.Database.MinConns,
	})
	if err != nil {
		logger.Fatal("Failed to initialize database connection pool", zap.Error(err))
	}
	defer pool.Close()

	// NOTE: Database migrations are run separately via the migrate command
	// before starting the app: ./migrate or docker-compose run migrate

	dbClient := postgres.NewClient(pool)
	store := repository.NewPostgresStore(dbClient)

	// External dependencies
	httpClient := httpclient.NewStandardClient()
	identityClient := identity.NewClient(cfg.Identity.APIBaseURL, cfg.Identity.APIKey, httpClient)
	identityCache := cache.NewIdentityCache(cfg.Cache.IdentityUserTTLSeconds)
	mail := mailer.New(mailer.Config{
		APIURL:    cfg.Email.APIURL,
		APIKey:    cfg.Email.APIKey,
		FromName:  cfg.Email.FromName,
		FromEmail: cfg.Email.FromEmail,
	}, httpClient)
	verifier := payments.NewVerifier(cfg.Payments.RazorpayKeySecret)

	// Object storage is optional: onboarding falls back to skipping uploads
	var storage *objectstorage.Client
	if cfg.ObjectStorage.AccessKeyID != "" && cfg.ObjectStorage.SecretAccessKey != "" {
		storage, err = objectstorage.NewClient(
			cfg.ObjectStorage.AccessKeyID,
			cfg.ObjectStorage.SecretAccessKey,
			cfg.ObjectStorage.BucketName,
			cfg.ObjectStorage.Endpoint,
			cfg.ObjectStorage.Region,
		)
		if err != nil {
			logger.Fatal("Failed to initialize object storage client", zap.Error(err))
		}
	}

	tokenManager := jwt.NewTokenManager(cfg.Identity.SessionSecret, cfg.Identity.SessionIssuer, 24)

	// Initialize services. The mentorship reconciler comes first because
	// session, payment, dashboard and mentee flows all feed it.
	mentorshipService := services.NewMentorshipService(store, store, store)
	sessionService := services.NewSessionService(store, cfg)
	paymentService := services.NewPaymentService(store, store, verifier, mentorshipService, mail, cfg)
	dashboardService := services.NewDashboardService(store, store, store, mentorshipService)
	menteeService := services.NewMenteeService(store, store, store, store, mentorshipService)
	onboardingService := services.NewOnboardingService(store, store, storage)
	directoryService := services.NewDirectoryService(store, store, store)
	authService := services.NewAuthService(store, mentorshipService)

	// Initialize handlers
	healthHandler := handlers.NewHealthHandler(dbClient.Ping)
	authHandler := handlers.NewAuthHandler(authService)
	onboardingHandler := handlers.NewOnboardingHandler(onboardingService)
	sessionHandler := handlers.NewSessionHandler(sessionService, paymentService)
	menteeHandler := handlers.NewMenteeHandler(menteeService, mentorshipService)
	dashboardHandler := handlers.NewDashboardHandler(dashboardService)
	directoryHandler := handlers.NewDirectoryHandler(directoryService)

	// Set up Gin router
	gin.SetMode(cfg.Server.GinMode)
	router := gin.New()

	// Global middleware
	router.Use(gin.Recovery())
	router.Use(otelgin.Middleware(cfg.Observability.ServiceName))
	router.Use(middleware.ObservabilityMiddleware())
	router.Use(middleware.SecurityHeadersMiddleware())

	// CORS configuration - SECURITY: Only allow specific origins
	allowedOrigins := cfg.Server.AllowedOrigins
	if cfg.IsDevelopment() {
		allowedOrigins = append(allowedOrigins, "http://localhost:3000", "http://127.0.0.1:3000")
	}

	router.Use(cors.New(cors.Config{
		AllowOrigins:     allowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", middleware.ActiveRoleHeader, "traceparent", "tracestate"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	// SECURITY: Rate limiters to prevent abuse and DoS attacks
	generalRateLimiter := middleware.NewRateLimiter(100, 200) // 100 req/sec, burst of 200
	bookingRateLimiter := middleware.NewRateLimiter(5, 10)    // 5 req/sec, burst of 10 (payment confirmation)
	uploadRateLimiter := middleware.NewRateLimiter(2, 5)      // 2 req/sec, burst of 5 (onboarding uploads)

	// Utility endpoints (not versioned - operational endpoints)
	api := router.Group("/api")
	api.GET("/healthcheck", generalRateLimiter.Middleware(), healthHandler.Healthcheck)
	api.GET("/metrics", generalRateLimiter.Middleware(), gin.WrapH(promhttp.HandlerFor(metrics.Registry, promhttp.HandlerOpts{})))

	v1 := router.Group("/api/v1")

	// Public routes
	v1.GET("/mentors", generalRateLimiter.Middleware(), directoryHandler.ListMentors)
	v1.POST("/mentor-sessions/confirm-payment", bookingRateLimiter.Middleware(), middleware.BodySizeLimitMiddleware(100*1024), sessionHandler.ConfirmPayment)

	// Authenticated routes: verify session token, sync the identity record,
	// then resolve which role profiles the caller holds.
	authed := v1.Group("")
	authed.Use(middleware.SessionAuthMiddleware(tokenManager))
	authed.Use(middleware.IdentitySyncMiddleware(identityClient, identityCache, store))
	authed.Use(middleware.RoleResolverMiddleware(store))

	authed.POST("/auth/verify", generalRateLimiter.Middleware(), authHandler.Verify)

	// Onboarding is an upsert, so POST and PATCH share a handler.
	for _, register := range []func(string, ...gin.HandlerFunc) gin.IRoutes{authed.POST, authed.PATCH} {
		register("/onboarding/mentor", uploadRateLimiter.Middleware(), middleware.BodySizeLimitMiddleware(10*1024*1024), onboardingHandler.OnboardMentor)
		register("/onboarding/student", uploadRateLimiter.Middleware(), middleware.BodySizeLimitMiddleware(10*1024*1024), onboardingHandler.OnboardStudent)
		register("/onboarding/founder", uploadRateLimiter.Middleware(), middleware.BodySizeLimitMiddleware(10*1024*1024), onboardingHandler.OnboardFounder)
	}
	authed.GET("/onboarding/status/:role", generalRateLimiter.Middleware(), onboardingHandler.Status)
	authed.GET("/onboarding/:role", generalRateLimiter.Middleware(), onboardingHandler.Profile)

	// Join verification is open to either participant of the session
	authed.GET("/mentor-sessions/:id/verify-join", generalRateLimiter.Middleware(), sessionHandler.VerifyJoin)

	registerMentorRoutes(authed, generalRateLimiter, sessionHandler, menteeHandler, dashboardHandler)

	student := authed.Group("")
	student.Use(middleware.RequireRole("student"))
	student.GET("/student/sessions", generalRateLimiter.Middleware(), sessionHandler.ListStudentSessions)
	student.GET("/student/sessions/:id", generalRateLimiter.Middleware(), sessionHandler.GetSession)
	student.GET("/student/my-mentors", generalRateLimiter.Middleware(), directoryHandler.MyMentors)

	// Create HTTP server
	// SECURITY: Bind to all interfaces for Docker Compose networking
	// Network isolation is enforced by Docker Compose (backend has no public ports)
	srv := &http.Server{
		Addr:              "0.0.0.0:" + cfg.Server.Port,
		Handler:           router,
		ReadHeaderTimeout: 15 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
		MaxHeaderBytes:    1 << 20,
	}

	// Start server in a goroutine
	go func() {
		logger.Info("Server started", zap.String("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Server failed to start", zap.Error(err))
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Fatal("Server forced to shutdown", zap.Error(err))
	}

	logger.Info("Server exited")
}
