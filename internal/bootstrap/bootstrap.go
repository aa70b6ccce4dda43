package bootstrap

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/tahmid/qpaper/internal/app/controllers"
	appMigrations "github.com/tahmid/qpaper/internal/app/migrations"
	"github.com/tahmid/qpaper/internal/app/repositories"
	"github.com/tahmid/qpaper/internal/app/routes"
	"github.com/tahmid/qpaper/internal/app/services"
	"github.com/tahmid/qpaper/internal/config"
	"github.com/tahmid/qpaper/internal/db"
	"github.com/tahmid/qpaper/internal/middleware"
	pkgAuth "github.com/tahmid/qpaper/internal/pkg/auth"
	"github.com/tahmid/qpaper/internal/pkg/filestorage"
	"github.com/tahmid/qpaper/internal/pkg/logger"
	"github.com/tahmid/qpaper/internal/pkg/viewcache"
	"github.com/tahmid/qpaper/internal/seed"
)

// Dependencies holds everything the server needs at runtime.
type Dependencies struct {
	Repos          *repositories.Repositories
	Services       *services.Services
	Controllers    routes.Controllers
	AuthMiddleware *middleware.AuthMiddleware
	JWTService     *pkgAuth.JWTService
	FileStorage    filestorage.FileStorage
	ViewCache      *viewcache.ViewCache // nil when Redis is disabled
	Registry       *prometheus.Registry
	Metrics        *middleware.Metrics
	Logger         zerolog.Logger
}

// LoadConfigAndSetupLogger loads configuration and initializes the logger.
func LoadConfigAndSetupLogger() (*config.Config, zerolog.Logger, error) {
	configPath := filepath.Join("configs", "config.yaml")
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to load configuration")
		return nil, zerolog.Logger{}, err
	}

	logLevel := strings.ToLower(cfg.Logging.Level)
	prettyLog := strings.ToLower(cfg.Logging.Format) == "text"

	logger.Configure(logger.Config{
		Level:  logLevel,
		Pretty: prettyLog,
	})

	lgr := log.Logger
	lgr.Info().Str("logLevel", logLevel).Str("logFormat", cfg.Logging.Format).Msg("Logger configured")
	return cfg, lgr, nil
}

// SetupDatabase establishes the connection pool, runs migrations and
// seeds default data.
func SetupDatabase(cfg *config.Config, lgr zerolog.Logger) (*db.PostgresDB, error) {
	lgr.Info().Msg("Establishing database connection...")
	database, err := db.NewPostgresDB(cfg)
	if err != nil {
		lgr.Error().Err(err).Msg("Failed to connect to database")
		return nil, err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := database.Pool.Ping(ctx); err != nil {
		lgr.Error().Err(err).Msg("Failed to ping database")
		database.Pool.Close()
		return nil, err
	}
	lgr.Info().Msg("Database connection successfully established.")

	lgr.Info().Msg("Running database migrations...")
	migrator := appMigrations.NewMigrator(database.Pool)

	migrationsDir := "migrations"
	if _, err := os.Stat(migrationsDir); os.IsNotExist(err) {
		lgr.Error().Str("path", migrationsDir).Msg("Migrations directory not found")
		database.Pool.Close()
		return nil, fmt.Errorf("migrations directory not found at %s: %w", migrationsDir, err)
	}
	if err := migrator.ApplyDirectory(context.Background(), migrationsDir); err != nil {
		lgr.Error().Err(err).Msg("Database migration error")
		database.Pool.Close()
		return nil, fmt.Errorf("database migrations failed: %w", err)
	}
	lgr.Info().Msg("Database migrations successfully applied.")

	if err := seed.CreateDefaultData(context.Background(), database.Pool, lgr); err != nil {
		// Seeding failures are logged but do not stop the server.
		lgr.Error().Err(err).Msg("Failed to create default data, proceeding anyway...")
	}

	return database, nil
}

func buildFileStorage(cfg *config.Config) (filestorage.FileStorage, error) {
	switch strings.ToLower(cfg.Storage.Driver) {
	case "", "local":
		baseURL := cfg.Storage.PublicURL
		if baseURL == "" {
			baseURL = "/uploads"
		}
		return filestorage.NewLocalStorage(cfg.Storage.LocalPath, baseURL)
	case "s3":
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return filestorage.NewS3Storage(ctx, filestorage.S3Config{
			Endpoint:    cfg.Storage.S3.Endpoint,
			Region:      cfg.Storage.S3.Region,
			AccessKeyID: cfg.Storage.S3.AccessKeyID,
			SecretKey:   cfg.Storage.S3.SecretKey,
			Bucket:      cfg.Storage.S3.Bucket,
			PublicURL:   cfg.Storage.PublicURL,
		})
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.Storage.Driver)
	}
}

// BuildDependencies initializes repositories, services, controllers and
// the HTTP middleware stack.
func BuildDependencies(cfg *config.Config, database *db.PostgresDB, lgr zerolog.Logger) (*Dependencies, error) {
	deps := &Dependencies{Logger: lgr}

	deps.Repos = repositories.NewRepositories(database.Pool)

	storage, err := buildFileStorage(cfg)
	if err != nil {
		lgr.Error().Err(err).Msg("Failed to initialize file storage")
		return nil, fmt.Errorf("failed to initialize file storage: %w", err)
	}
	deps.FileStorage = storage

	deps.JWTService = pkgAuth.NewJWTService(pkgAuth.JWTConfig{
		SecretKey:       cfg.JWT.Secret,
		AccessTokenExp:  cfg.AccessTokenTTL(),
		RefreshTokenExp: cfg.RefreshTokenTTL(),
		TokenIssuer:     cfg.JWT.Issuer,
	})

	if cfg.Redis.Enabled {
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		interval, err := time.ParseDuration(cfg.Redis.FlushInterval)
		if err != nil {
			interval = 30 * time.Second
		}
		deps.ViewCache = viewcache.New(rdb, deps.Repos.Questions, interval)
		deps.ViewCache.Start()
		lgr.Info().Str("addr", cfg.Redis.Addr).Dur("flushInterval", interval).Msg("Redis view cache enabled")
	}

	maxUploadBytes := int64(cfg.Storage.MaxUploadSizeMB) << 20
	if deps.ViewCache != nil {
		deps.Services = services.NewServices(deps.Repos, database, deps.JWTService, storage, deps.ViewCache, maxUploadBytes)
	} else {
		// A typed nil would look non-nil behind the interface, so the
		// literal is passed explicitly.
		deps.Services = services.NewServices(deps.Repos, database, deps.JWTService, storage, nil, maxUploadBytes)
	}

	deps.AuthMiddleware = middleware.NewAuthMiddleware(deps.JWTService)

	deps.Registry = prometheus.NewRegistry()
	deps.Registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	deps.Metrics = middleware.NewMetrics(deps.Registry)

	deps.Controllers = routes.Controllers{
		Auth:       controllers.NewAuthController(deps.Services.Auth),
		User:       controllers.NewUserController(deps.Services.Users),
		Question:   controllers.NewQuestionController(deps.Services.Questions),
		Department: controllers.NewDepartmentController(deps.Services.Departments),
		Course:     controllers.NewCourseController(deps.Services.Courses),
		Semester:   controllers.NewSemesterController(deps.Services.Semesters),
		ExamType:   controllers.NewExamTypeController(deps.Services.ExamTypes),
		Contact:    controllers.NewContactController(deps.Services.Contact),
	}

	return deps, nil
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

	router := gin.New()
	router.Use(middleware.RequestLogger(), gin.Recovery(), deps.Metrics.Handler())

	// Local driver serves the PDFs straight off disk.
	if strings.ToLower(cfg.Storage.Driver) != "s3" {
		router.Static("/uploads", cfg.Storage.LocalPath)
	}

	routes.SetupRouter(router, deps.Controllers, deps.AuthMiddleware, deps.Registry)

	return router
}
