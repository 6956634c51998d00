package app

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/A-Malek-CH/Code4Pal-final-submission/auth"
	"github.com/A-Malek-CH/Code4Pal-final-submission/config"
	"github.com/A-Malek-CH/Code4Pal-final-submission/internal/observability"
	"github.com/A-Malek-CH/Code4Pal-final-submission/middleware"
	"github.com/A-Malek-CH/Code4Pal-final-submission/repositories"
	"github.com/A-Malek-CH/Code4Pal-final-submission/repositories/postgres"
	"github.com/A-Malek-CH/Code4Pal-final-submission/services"
	"github.com/A-Malek-CH/Code4Pal-final-submission/services/mail"
)

// Dependencies holds all application dependencies. This is the central wiring
// point for dependency injection.
type Dependencies struct {
	// Infrastructure
	Config  *config.Config
	DB      *postgres.DB
	Logger  *zap.Logger
	Metrics *observability.Metrics

	// Repository Factory
	RepoFactory *postgres.RepositoryFactory

	// Repositories
	Repos     *repositories.Repositories
	TxManager repositories.TransactionManager

	// Auth core
	Hasher *auth.PasswordHasher
	Codec  *auth.TokenCodec

	// Services
	AuthService        *services.AuthService
	RefreshService     *services.RefreshService
	UserService        *services.UserService
	ContributorService *services.ContributorService
	LocationService    *services.LocationService
	EmergencyService   *services.EmergencyService
	Mailer             mail.Mailer

	// Middleware
	AuthMiddleware *middleware.AuthMiddleware
}

// NewDependencies creates and wires up all application dependencies
func NewDependencies(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*Dependencies, error) {
	deps := &Dependencies{
		Config:  cfg,
		Logger:  logger,
		Metrics: observability.NewMetrics(),
	}

	if err := deps.initDatabase(ctx, cfg); err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	deps.initAuthCore(cfg)
	deps.initServices(cfg)

	logger.Info("all dependencies initialized successfully")
	return deps, nil
}

// initDatabase initializes the PostgreSQL connection, factory, and schema
func (d *Dependencies) initDatabase(ctx context.Context, cfg *config.Config) error {
	factory, err := postgres.NewRepositoryFactory(cfg, d.Logger)
	if err != nil {
		return fmt.Errorf("failed to create repository factory: %w", err)
	}

	d.RepoFactory = factory
	d.DB = factory.GetDB()

	if err := d.DB.PingContext(ctx); err != nil {
		return fmt.Errorf("database ping failed: %w", err)
	}

	if err := d.DB.InitSchema(ctx); err != nil {
		return fmt.Errorf("failed to initialize schema: %w", err)
	}

	d.Repos = factory.NewRepositories()
	d.TxManager = factory.GetTransactionManager()

	d.Logger.Info("database connection established",
		zap.String("connection", cfg.Database.LogString()))
	return nil
}

// initAuthCore builds the hasher, token codec, and resolver middleware
func (d *Dependencies) initAuthCore(cfg *config.Config) {
	d.Hasher = auth.NewPasswordHasher(cfg.Auth.BcryptCost)
	d.Codec = auth.NewTokenCodec(cfg.Auth)
	d.AuthMiddleware = middleware.NewAuthMiddleware(d.Codec, d.Repos.Admins, d.Logger)
}

// initServices wires the service layer
func (d *Dependencies) initServices(cfg *config.Config) {
	if cfg.Mail.Username != "" {
		d.Mailer = mail.NewSMTPMailer(cfg.Mail, d.Logger)
	} else {
		d.Logger.Warn("mail relay not configured, verification emails disabled")
		d.Mailer = mail.NewNoopMailer(d.Logger)
	}

	d.RefreshService = services.NewRefreshService(d.Repos.RefreshTokens, cfg.Auth.RefreshTokenTTL, d.Logger)
	d.AuthService = services.NewAuthService(
		d.Repos.Users,
		d.Repos.Contributors,
		d.Repos.Admins,
		d.RefreshService,
		d.Hasher,
		d.Codec,
		d.TxManager,
		d.Logger,
	)
	d.UserService = services.NewUserService(d.Repos.Users, d.Repos.EmailVerifications, d.Mailer, d.Logger)
	d.ContributorService = services.NewContributorService(d.Repos.Contributors, d.Logger)
	d.LocationService = services.NewLocationService(d.Repos.Locations, d.TxManager, d.Logger)
	d.EmergencyService = services.NewEmergencyService(d.Repos.Emergencies, d.Logger)
}

// Close releases held resources
func (d *Dependencies) Close() error {
	if d.RepoFactory != nil {
		return d.RepoFactory.Close()
	}
	return nil
}
