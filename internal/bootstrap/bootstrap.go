package bootstrap

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	appControllers "github.com/yigit/clubsite/internal/app/controllers"
	appMigrations "github.com/yigit/clubsite/internal/app/migrations"
	appRepos "github.com/yigit/clubsite/internal/app/repositories"
	appRoutes "github.com/yigit/clubsite/internal/app/routes"
	appServices "github.com/yigit/clubsite/internal/app/services"
	"github.com/yigit/clubsite/internal/config"
	"github.com/yigit/clubsite/internal/db"
	appMiddleware "github.com/yigit/clubsite/internal/middleware"
	pkgAuth "github.com/yigit/clubsite/internal/pkg/auth"
	"github.com/yigit/clubsite/internal/pkg/email"
	"github.com/yigit/clubsite/internal/pkg/filestorage"
	"github.com/yigit/clubsite/internal/pkg/helpers"
	"github.com/yigit/clubsite/internal/pkg/logger"
	"github.com/yigit/clubsite/internal/pkg/richtext"
	"github.com/yigit/clubsite/internal/pkg/validation"
	"github.com/yigit/clubsite/internal/seed"
)

const defaultConfigPath = "configs/config.yaml"

// Dependencies holds all the application dependencies
type Dependencies struct {
	Repos          *appRepos.Repositories
	Services       *appServices.Services
	Controllers    appRoutes.Controllers
	AuthMiddleware *appMiddleware.AuthMiddleware
	JWTService     *pkgAuth.JWTService
	Store          filestorage.MediaStore
	DB             db.DBTX
	// LocalMediaDir is set when media lives on this host and must be served by the router
	LocalMediaDir string
	Logger        zerolog.Logger
}

// LoadConfigAndSetupLogger loads .env, the YAML config and the environment, then
// configures the global logger.
func LoadConfigAndSetupLogger() (*config.Config, zerolog.Logger, error) {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		logger.Warn().Err(err).Msg("Failed to read .env file")
	}

	configPath := config.GetEnv("CONFIG_PATH", defaultConfigPath)
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		logger.Error().Err(err).Str("path", configPath).Msg("Failed to load configuration")
		return nil, zerolog.Logger{}, err
	}

	logLevel := logger.ParseLevel(cfg.Logging.Level)
	lgr := logger.Configure(logger.Config{
		Level:  logLevel,
		Format: cfg.Logging.Format,
		App:    "clubsite",
	})

	lgr.Info().Str("logLevel", string(logLevel)).Str("logFormat", cfg.Logging.Format).Msg("Logger configured")
	return cfg, lgr, nil
}

// SetupDatabase connects, applies migrations and makes sure an admin exists.
func SetupDatabase(cfg *config.Config, lgr zerolog.Logger) (*pgxpool.Pool, error) {
	lgr.Info().Msg("Establishing database connection...")
	database, err := db.NewPostgresDB(cfg)
	if err != nil {
		lgr.Error().Err(err).Msg("Failed to connect to database")
		return nil, err
	}
	dbPool := database.Pool

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	migrationsDir := cfg.Server.MigrationsPath
	if _, err := os.Stat(migrationsDir); err != nil {
		dbPool.Close()
		lgr.Error().Str("path", migrationsDir).Msg("Migrations directory not found")
		return nil, fmt.Errorf("migrations directory not found at %s: %w", migrationsDir, err)
	}

	lgr.Info().Str("path", migrationsDir).Msg("Running database migrations...")
	if err := appMigrations.NewMigrator(dbPool).MigrateFromDirectory(ctx, migrationsDir); err != nil {
		dbPool.Close()
		lgr.Error().Err(err).Msg("Database migration error")
		return nil, fmt.Errorf("database migrations failed: %w", err)
	}
	lgr.Info().Msg("Database migrations successfully applied.")

	admins := appRepos.NewAdminRepository(dbPool)
	if err := seed.EnsureAdmin(ctx, admins, seed.Admin{
		Username: cfg.Admin.Username,
		Password: cfg.Admin.Password,
		Name:     cfg.Admin.Name,
		Email:    cfg.Admin.Email,
	}, lgr); err != nil {
		// The site still serves public pages without an admin
		lgr.Error().Err(err).Msg("Failed to ensure admin account, proceeding anyway...")
	}

	return dbPool, nil
}

// NewMediaStore builds the configured storage backend. The returned directory is
// non-empty only for the local driver.
func NewMediaStore(ctx context.Context, cfg *config.Config) (filestorage.MediaStore, string, error) {
	sc := cfg.Storage
	switch strings.ToLower(sc.Driver) {
	case "ftp":
		return filestorage.NewFTPStorage(filestorage.FTPConfig{
			Host:          sc.FTP.Host,
			Port:          sc.FTP.Port,
			User:          sc.FTP.User,
			Password:      sc.FTP.Password,
			BasePath:      sc.FTP.BasePath,
			Timeout:       helpers.ParseDuration(sc.FTP.Timeout, 15*time.Second),
			PublicBaseURL: sc.PublicBaseURL,
		}), "", nil
	case "minio":
		store, err := filestorage.NewMinIOStorage(ctx, filestorage.MinIOConfig{
			Endpoint:      sc.MinIO.Endpoint,
			AccessKey:     sc.MinIO.AccessKey,
			SecretKey:     sc.MinIO.SecretKey,
			Bucket:        sc.MinIO.Bucket,
			UseSSL:        sc.MinIO.UseSSL,
			Region:        sc.MinIO.Region,
			PublicBaseURL: sc.PublicBaseURL,
		})
		if err != nil {
			return nil, "", err
		}
		return store, "", nil
	case "local":
		store, err := filestorage.NewLocalStorage(sc.Local.Path, sc.PublicBaseURL)
		if err != nil {
			return nil, "", err
		}
		return store, store.BasePath(), nil
	default:
		return nil, "", fmt.Errorf("unsupported storage driver %q", sc.Driver)
	}
}

// BuildDependencies initializes repositories, services and controllers.
func BuildDependencies(ctx context.Context, cfg *config.Config, dbPool *pgxpool.Pool, lgr zerolog.Logger) (*Dependencies, error) {
	deps := &Dependencies{Logger: lgr, DB: dbPool}

	store, localDir, err := NewMediaStore(ctx, cfg)
	if err != nil {
		lgr.Error().Err(err).Str("driver", cfg.Storage.Driver).Msg("Failed to initialize media storage")
		return nil, fmt.Errorf("failed to initialize media storage: %w", err)
	}
	deps.Store = store
	deps.LocalMediaDir = localDir
	lgr.Info().Str("driver", cfg.Storage.Driver).Str("baseURL", cfg.Storage.PublicBaseURL).Msg("Media storage ready")

	notifier := email.NewSMTPNotifier(email.SMTPConfig{
		Host:          cfg.SMTP.Host,
		Port:          cfg.SMTP.Port,
		Username:      cfg.SMTP.Username,
		Password:      cfg.SMTP.Password,
		FromName:      cfg.SMTP.FromName,
		FromEmail:     cfg.SMTP.FromEmail,
		NotifyAddress: cfg.SMTP.NotifyAddress,
		UseTLS:        cfg.SMTP.UseTLS,
		Timeout:       helpers.ParseDuration(cfg.SMTP.Timeout, email.DefaultTimeout),
	}, lgr)
	if !notifier.Enabled() {
		lgr.Info().Msg("SMTP not configured, contact notifications disabled")
	}

	deps.JWTService = pkgAuth.NewJWTService(pkgAuth.JWTConfig{
		SecretKey:  cfg.JWT.Secret,
		SessionExp: helpers.ParseDuration(cfg.JWT.SessionExpiration, 720*time.Hour),
		Issuer:     cfg.JWT.Issuer,
	})

	deps.Repos = appRepos.NewRepositories(dbPool)
	deps.Services = appServices.NewServices(appServices.Dependencies{
		Repos:    deps.Repos,
		Store:    store,
		Notifier: notifier,
		Sessions: deps.JWTService,
		Text:     richtext.NewRenderer(),
		TempDir:  cfg.Storage.TempDir,
		Cleanup: appServices.MediaCleanupConfig{
			Interval:    helpers.ParseDuration(cfg.MediaCleanup.Interval, 5*time.Minute),
			BatchSize:   cfg.MediaCleanup.BatchSize,
			MaxAttempts: cfg.MediaCleanup.MaxAttempts,
			BaseURL:     cfg.Storage.PublicBaseURL,
		},
		Logger: lgr,
	})

	deps.AuthMiddleware = appMiddleware.NewAuthMiddleware(deps.JWTService, cfg.JWT.CookieName)

	svc := deps.Services
	deps.Controllers = appRoutes.Controllers{
		Auth: appControllers.NewAuthController(svc.Auth, appControllers.CookieConfig{
			Name:   cfg.JWT.CookieName,
			Secure: cfg.JWT.CookieSecure,
		}, lgr),
		Membership:     appControllers.NewMembershipController(svc.Membership),
		Contact:        appControllers.NewContactController(svc.Contact),
		JobApplication: appControllers.NewJobApplicationController(svc.JobApplication),
		Job:            appControllers.NewJobController(svc.JobPost),
		Activity:       appControllers.NewActivityController(svc.Activity),
		Board:          appControllers.NewBoardController(svc.Board),
		Career:         appControllers.NewCareerController(svc.Career),
		SuccessStory:   appControllers.NewSuccessStoryController(svc.SuccessStory),
		Stats:          appControllers.NewStatsController(svc.Stats),
	}

	return deps, nil
}

// corsConfig allows credentialed requests from the configured origins. A "*"
// entry reflects the caller's origin since browsers reject a wildcard with credentials.
func corsConfig(origins []string) cors.Config {
	c := cors.Config{
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	for _, origin := range origins {
		if origin == "*" {
			c.AllowOriginFunc = func(string) bool { return true }
			return c
		}
	}
	c.AllowOrigins = origins
	return c
}

// SetupRouter configures the Gin engine with middleware and routes.
func SetupRouter(cfg *config.Config, deps *Dependencies, lgr zerolog.Logger) *gin.Engine {
	if strings.ToLower(cfg.Server.Mode) == "production" {
		gin.SetMode(gin.ReleaseMode)
		lgr.Info().Msg("Setting Gin mode to release")
	} else {
		gin.SetMode(gin.DebugMode)
		lgr.Info().Msg("Setting Gin mode to debug")
	}

	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		validation.UseTagFieldNames(v)
		if err := validation.RegisterCustomValidators(v); err != nil {
			lgr.Error().Err(err).Msg("Failed to register custom validators")
		}
	}

	router := gin.New()
	router.MaxMultipartMemory = cfg.Server.MaxMultipartMemory
	// nil disables forwarding headers; c.ClientIP() then reports the socket address
	if err := router.SetTrustedProxies(cfg.TrustedProxies()); err != nil {
		lgr.Warn().Err(err).Str("trustedProxies", cfg.Server.TrustedProxies).Msg("Invalid trusted proxy list, trusting none")
		_ = router.SetTrustedProxies(nil)
	}
	router.Use(
		appMiddleware.Recovery(),
		appMiddleware.RequestLogger(lgr),
		appMiddleware.SecurityHeaders(),
		cors.New(corsConfig(cfg.AllowedOrigins())),
	)

	appRoutes.SetupRouter(router, deps.Controllers, appRoutes.Options{
		AuthMiddleware:    deps.AuthMiddleware,
		SubmissionLimiter: appMiddleware.NewIPRateLimiter(cfg.RateLimit.RPS, cfg.RateLimit.Burst),
		LocalMediaDir:     deps.LocalMediaDir,
		HealthCheck: func(ctx context.Context) error {
			return db.HealthCheck(ctx, deps.DB)
		},
	})

	return router
}
