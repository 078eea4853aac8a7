package main

import (
	"context"
	"errors"
	"fmt"
	stdlog "log"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/rpupo63/designer-portfolio-backend/api"
	"github.com/rpupo63/designer-portfolio-backend/config"
	"github.com/rpupo63/designer-portfolio-backend/database"
	"github.com/rpupo63/designer-portfolio-backend/models"
	"github.com/rpupo63/designer-portfolio-backend/services"
)

func main() {
	// Load environment variables from .env file
	if err := godotenv.Load(); err != nil {
		fmt.Printf("Warning: Error loading .env file: %v\n", err)
	}

	c := config.New()
	setupLogging(c)
	log.Info().Msg("Initializing app...")

	if err := run(c); err != nil {
		log.Fatal().Err(err).Msg("Server stopped with error")
	}
}

func setupLogging(c map[string]string) {
	zerolog.TimeFieldFormat = time.RFC3339
	level, err := zerolog.ParseLevel(config.GetString(c, "LOG_LEVEL", "info"))
	if err != nil {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	if config.GetString(c, "LOG_FORMAT", "console") == "console" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	}
}

func run(c map[string]string) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := config.WithSSM(ctx, c); err != nil {
		return err
	}

	store, err := openStorage(ctx, c)
	if err != nil {
		return err
	}
	if store == nil {
		// model generation mode
		return nil
	}

	auth, err := services.NewAuthService(store, services.AuthConfig{
		Secret:            config.GetString(c, "JWT_SECRET", ""),
		TTL:               time.Duration(config.GetInt(c, "SESSION_TTL_HOURS", 24*7)) * time.Hour,
		AllowRegistration: config.GetBool(c, "ALLOW_REGISTRATION", false),
	})
	if err != nil {
		return err
	}
	if err := seedOwner(ctx, c, auth); err != nil {
		return err
	}

	deps := api.Dependencies{
		Projects: services.NewProjectService(store),
		Auth:     auth,
	}
	if bucket := config.GetString(c, "MEDIA_BUCKET", ""); bucket != "" {
		uploader, err := services.NewS3MediaUploader(ctx, bucket, config.GetString(c, "MEDIA_BASE_URL", ""))
		if err != nil {
			return err
		}
		deps.Uploader = uploader
		log.Info().Str("bucket", bucket).Msg("Media uploads enabled")
	}

	server, err := api.NewServer(c, deps)
	if err != nil {
		return fmt.Errorf("initialize server: %w", err)
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(server.Start)
	g.Go(func() error {
		// Wait for a signal or a failed listener, then drain connections
		<-gctx.Done()
		log.Info().Msg("Closing server")
		server.ShutdownGracefully(30 * time.Second)
		return nil
	})
	return g.Wait()
}

// openStorage returns the configured store. It returns nil, nil after a
// GENERATE_MODELS run, which only writes query helpers.
func openStorage(ctx context.Context, c map[string]string) (database.Storage, error) {
	switch store := config.GetString(c, "STORE", "memory"); store {
	case "memory":
		log.Warn().Msg("Using in-memory store; data is lost on restart")
		return database.NewMemStorage(), nil
	case "postgres":
		return openPostgres(ctx, c)
	default:
		return nil, fmt.Errorf("unknown STORE %q, expected memory or postgres", store)
	}
}

func openPostgres(ctx context.Context, c map[string]string) (database.Storage, error) {
	dsn := config.GetString(c, "DATABASE_URL", "")
	if dsn == "" {
		return nil, errors.New("DATABASE_URL is required when STORE=postgres")
	}

	newLogger := logger.New(
		stdlog.New(os.Stdout, "\r\n", stdlog.LstdFlags),
		logger.Config{
			SlowThreshold:             10 * time.Second,
			LogLevel:                  logger.Warn,
			IgnoreRecordNotFoundError: true,
			Colorful:                  true,
		},
	)

	db, err := gorm.Open(postgres.New(postgres.Config{
		DSN:                  dsn,
		PreferSimpleProtocol: true,
	}), &gorm.Config{
		PrepareStmt: false,
		Logger:      newLogger,
	})
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}

	// Test database connection
	var result int
	if err := db.WithContext(ctx).Raw("SELECT 1").Scan(&result).Error; err != nil {
		return nil, fmt.Errorf("test database connection: %w", err)
	}

	if config.GetBool(c, "GENERATE_MODELS", false) {
		log.Info().Msg("Generating models and query helpers...")
		return nil, models.GenerateModels(db, config.GetString(c, "GENERATED_OUT_PATH", "./generated"))
	}

	var replicas []gorm.Dialector
	for _, replicaDSN := range config.GetList(c, "DATABASE_REPLICA_URLS") {
		replicas = append(replicas, postgres.New(postgres.Config{DSN: replicaDSN, PreferSimpleProtocol: true}))
	}
	if err := database.UseReplicas(db, replicas...); err != nil {
		return nil, fmt.Errorf("register read replicas: %w", err)
	}

	store := database.New(db)
	if err := store.Migrate(ctx); err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}
	log.Info().Int("replicas", len(replicas)).Msg("Connected to PostgreSQL")
	return store, nil
}

// seedOwner makes sure the site owner can sign in on a fresh store.
func seedOwner(ctx context.Context, c map[string]string, auth *services.AuthService) error {
	username := config.GetString(c, "OWNER_USERNAME", "")
	password := config.GetString(c, "OWNER_PASSWORD", "")
	if username == "" || password == "" {
		log.Warn().Msg("OWNER_USERNAME or OWNER_PASSWORD not set; no owner account seeded")
		return nil
	}

	var avatarURL *string
	if v := strings.TrimSpace(config.GetString(c, "OWNER_AVATAR_URL", "")); v != "" {
		avatarURL = &v
	}

	_, err := auth.SeedOwner(ctx, services.RegisterInput{
		Username:  username,
		Password:  password,
		Name:      config.GetString(c, "OWNER_NAME", username),
		AvatarURL: avatarURL,
	})
	return err
}
