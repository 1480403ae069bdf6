package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/medicompare/medicompare/internal/config"
	"github.com/medicompare/medicompare/internal/domain/admin"
	"github.com/medicompare/medicompare/internal/domain/doctor"
	"github.com/medicompare/medicompare/internal/domain/hospital"
	"github.com/medicompare/medicompare/internal/domain/identity"
	"github.com/medicompare/medicompare/internal/domain/loinc"
	"github.com/medicompare/medicompare/internal/domain/servicecatalog"
	"github.com/medicompare/medicompare/internal/platform/auth"
	"github.com/medicompare/medicompare/internal/platform/blobstore"
	"github.com/medicompare/medicompare/internal/platform/db"
	"github.com/medicompare/medicompare/internal/platform/middleware"
	"github.com/medicompare/medicompare/pkg/response"
)

// accountCreatorAdapter adapts the identity service to the
// hospital.AccountCreator interface, avoiding a circular import between
// the identity and hospital packages.
type accountCreatorAdapter struct {
	svc *identity.Service
}

func (a *accountCreatorAdapter) CreateAccount(ctx context.Context, name, email, password, phone, role string) (uuid.UUID, error) {
	u, err := a.svc.CreateAccount(ctx, name, email, password, phone, role)
	if err != nil {
		if errors.Is(err, identity.ErrDuplicateEmail) {
			return uuid.Nil, hospital.ErrDuplicate
		}
		return uuid.Nil, err
	}
	return u.ID, nil
}

func main() {
	rootCmd := &cobra.Command{
		Use:   "medicompare-server",
		Short: "Medicompare API server",
	}

	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(migrateCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer()
		},
	}
}

func migrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Run database migrations",
	}

	upCmd := &cobra.Command{
		Use:   "up",
		Short: "Apply pending migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, _ := cmd.Flags().GetString("dir")

			cfg, err := config.Load()
			if err != nil {
				return err
			}

			ctx := context.Background()
			pool, err := db.NewPool(ctx, cfg.DatabaseURL, cfg.DBMaxConns, cfg.DBMinConns)
			if err != nil {
				return err
			}
			defer pool.Close()

			migrator := db.NewMigrator(pool, dir)
			count, err := migrator.Up(ctx)
			if err != nil {
				return fmt.Errorf("migration failed: %w", err)
			}

			fmt.Printf("Applied %d migration(s) successfully.\n", count)
			return nil
		},
	}
	upCmd.Flags().String("dir", "./migrations", "Path to migrations directory")
	cmd.AddCommand(upCmd)

	statusCmd := &cobra.Command{
		Use:   "status",
		Short: "Show migration status",
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, _ := cmd.Flags().GetString("dir")

			cfg, err := config.Load()
			if err != nil {
				return err
			}

			ctx := context.Background()
			pool, err := db.NewPool(ctx, cfg.DatabaseURL, cfg.DBMaxConns, cfg.DBMinConns)
			if err != nil {
				return err
			}
			defer pool.Close()

			migrator := db.NewMigrator(pool, dir)
			statuses, err := migrator.Status(ctx)
			if err != nil {
				return fmt.Errorf("failed to get migration status: %w", err)
			}

			fmt.Printf("%-10s %-40s %-10s %s\n", "VERSION", "NAME", "STATUS", "APPLIED AT")
			for _, s := range statuses {
				status := "pending"
				appliedAt := ""
				if s.Applied {
					status = "applied"
					if s.AppliedAt != nil {
						appliedAt = s.AppliedAt.Format("2006-01-02 15:04:05")
					}
				}
				fmt.Printf("%-10d %-40s %-10s %s\n", s.Version, s.Name, status, appliedAt)
			}
			return nil
		},
	}
	statusCmd.Flags().String("dir", "./migrations", "Path to migrations directory")
	cmd.AddCommand(statusCmd)

	return cmd
}

func runServer() error {
	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()
	if os.Getenv("ENV") == "development" || os.Getenv("ENV") == "" {
		logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout}).With().Timestamp().Logger()
	}

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to load config")
	}
	if err := cfg.Validate(); err != nil {
		logger.Fatal().Err(err).Msg("invalid config")
	}

	ctx := context.Background()
	pool, err := db.NewPool(ctx, cfg.DatabaseURL, cfg.DBMaxConns, cfg.DBMinConns)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer pool.Close()
	logger.Info().Msg("connected to database")

	// Platform pieces
	issuer := auth.NewTokenIssuer(cfg.JWTSecret, cfg.TokenTTL())
	docs := blobstore.NewInMemoryStore()
	loincClient := loinc.NewClient(cfg.LOINCBaseURL, cfg.LOINCTimeout(), cfg.LOINCMaxResults)

	// Repositories
	userRepo := identity.NewUserRepo(pool)
	hospitalRepo := hospital.NewRepo(pool)
	doctorRepo := doctor.NewRepo(pool)
	catalogRepo := servicecatalog.NewRepo(pool)

	// Services. The identity and hospital services depend on each other
	// (login gating and account creation), so both links go through
	// interfaces and the gate is attached after construction.
	identitySvc := identity.NewService(userRepo, issuer, nil)
	hospitalSvc := hospital.NewService(hospitalRepo, &accountCreatorAdapter{svc: identitySvc}, docs, pool, logger)
	identitySvc.SetHospitalGate(hospitalSvc)

	adminSvc := admin.NewService(hospitalRepo, docs, logger)
	doctorSvc := doctor.NewService(doctorRepo)
	catalogSvc := servicecatalog.NewService(catalogRepo)
	loincSvc := loinc.NewService(loincClient)

	// Handlers
	identityHandler := identity.NewHandler(identitySvc, logger)
	hospitalHandler := hospital.NewHandler(hospitalSvc, logger)
	adminHandler := admin.NewHandler(adminSvc, logger)
	doctorHandler := doctor.NewHandler(doctorSvc, logger)
	catalogHandler := servicecatalog.NewHandler(catalogSvc, logger)
	loincHandler := loinc.NewHandler(loincSvc, logger)

	// Echo server
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = response.HTTPErrorHandler(logger)

	e.Use(middleware.Recovery(logger))
	e.Use(middleware.RequestID())
	e.Use(middleware.Logger(logger))
	e.Use(middleware.SecurityHeaders())
	e.Use(middleware.BodyLimit("1M", "12M"))
	e.Use(middleware.RequestTimeout(30 * time.Second))
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins: cfg.CORSOrigins,
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete},
		AllowHeaders: []string{"Authorization", "Content-Type", "X-Request-ID"},
	}))

	e.GET("/health", db.HealthHandler(pool))

	apiV1 := e.Group("/api/v1")

	rateLimitCfg := middleware.RateLimitConfig{
		RequestsPerSecond: cfg.RateLimitRPS,
		BurstSize:         cfg.RateLimitBurst,
	}
	if rateLimitCfg.RequestsPerSecond <= 0 {
		rateLimitCfg = middleware.DefaultRateLimitConfig()
	}
	apiV1.Use(middleware.RateLimit(rateLimitCfg))

	// Public routes: auth, onboarding and the map directory.
	identityHandler.RegisterRoutes(apiV1)
	hospitalHandler.RegisterRoutes(apiV1)

	// Test search requires a logged-in caller of any role.
	searchGroup := apiV1.Group("", auth.Middleware(issuer))
	loincHandler.RegisterRoutes(searchGroup)

	// Hospital-scoped routes: authenticated HOSPITAL role, verified profile.
	hospitalGroup := apiV1.Group("/hospital",
		auth.Middleware(issuer),
		auth.RequireRole(auth.RoleHospital),
		hospital.RequireVerified(hospitalSvc),
	)
	doctorHandler.RegisterRoutes(hospitalGroup)
	catalogHandler.RegisterRoutes(hospitalGroup)

	// The profile endpoint only needs authentication, not verification, so
	// pending hospitals can see their own status.
	profileGroup := apiV1.Group("",
		auth.Middleware(issuer),
		auth.RequireRole(auth.RoleHospital),
	)
	hospitalHandler.RegisterProfileRoutes(profileGroup)

	// Admin routes.
	adminGroup := apiV1.Group("/admin",
		auth.Middleware(issuer),
		auth.RequireRole(auth.RoleAdmin),
	)
	adminHandler.RegisterRoutes(adminGroup)

	// Start and shut down gracefully.
	go func() {
		addr := ":" + cfg.Port
		logger.Info().Str("addr", addr).Msg("server listening")
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal().Err(err).Msg("server failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return e.Shutdown(shutdownCtx)
}
