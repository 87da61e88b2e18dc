package main

import (
	"context"
	"log"

	"github.com/redis/go-redis/v9"

	"moneymind/internal/domain/advisor"
	"moneymind/internal/domain/goal"
	"moneymind/internal/domain/session"
	"moneymind/internal/domain/transaction"
	"moneymind/internal/domain/user"
	"moneymind/internal/infrastructure/gemini"
	"moneymind/internal/infrastructure/postgres"
	"moneymind/internal/infrastructure/redisstore"
	httphandlers "moneymind/internal/interfaces/http"
	"moneymind/internal/shared/auth"
	"moneymind/internal/shared/config"
)

// Dependencies holds all initialized application components.
type Dependencies struct {
	DB    *postgres.DB
	Redis *redis.Client

	// Handlers
	AuthHandler        *httphandlers.AuthHandler
	UserHandler        *httphandlers.UserHandler
	TransactionHandler *httphandlers.TransactionHandler
	GoalHandler        *httphandlers.GoalHandler
	AIHandler          *httphandlers.AIHandler

	// Auth
	Tokens      *auth.TokenService
	Revocations auth.Revocations
}

// NewDependencies connects to storage, runs migrations and wires every
// service and handler.
func NewDependencies(ctx context.Context, cfg *config.Config) (*Dependencies, error) {
	db, err := postgres.New(ctx, cfg.Database.ConnectionString(), cfg.Database.ConnectAttempts)
	if err != nil {
		return nil, err
	}
	log.Println("Connected to database")

	if err := db.Migrate(ctx); err != nil {
		db.Close()
		return nil, err
	}

	deps := &Dependencies{DB: db}

	// Redis is optional; without it logout cannot revoke access tokens early
	if cfg.Redis.URL != "" {
		client, err := redisstore.Connect(ctx, cfg.Redis.URL)
		if err != nil {
			log.Printf("Warning: Redis unavailable, access-token revocation disabled: %v", err)
		} else {
			deps.Redis = client
			deps.Revocations = redisstore.NewRevocations(client)
			log.Println("Connected to Redis")
		}
	}

	// Initialize repositories
	userRepo := postgres.NewUserRepository(db)
	transactionRepo := postgres.NewTransactionRepository(db)
	goalRepo := postgres.NewGoalRepository(db)

	// Initialize auth components
	deps.Tokens = auth.NewTokenService(cfg.JWT.Secret, auth.AccessTokenTTL, auth.RefreshTokenTTL)

	var oauth auth.OAuthProvider
	google := auth.NewGoogleOAuthProvider(
		cfg.OAuth.Google.ClientID,
		cfg.OAuth.Google.ClientSecret,
		cfg.OAuth.Google.CallbackURL,
	)
	if google.Configured() {
		oauth = google
	} else {
		log.Println("Google OAuth is not configured")
	}

	generator, err := gemini.New(ctx, cfg.AI.GeminiAPIKey, cfg.AI.Model)
	if err != nil {
		deps.Close()
		return nil, err
	}
	if cfg.AI.GeminiAPIKey == "" {
		log.Println("Warning: GEMINI_API_KEY not set, AI chat will report a configuration error")
	}

	// Initialize domain services
	sessions := session.NewService(userRepo, deps.Tokens)
	if deps.Revocations != nil {
		sessions.WithRevocations(deps.Revocations)
	}
	profiles := user.NewService(userRepo)
	transactions := transaction.NewService(transactionRepo)
	goals := goal.NewService(goalRepo)
	advice := advisor.NewService(transactionRepo, generator, cfg.AI.Timeout)

	// Initialize handlers
	cookies := httphandlers.CookieConfig{Production: cfg.Server.Production()}
	deps.AuthHandler = httphandlers.NewAuthHandler(sessions, oauth, cookies, cfg.Server.FrontendURL)
	deps.UserHandler = httphandlers.NewUserHandler(profiles)
	deps.TransactionHandler = httphandlers.NewTransactionHandler(transactions)
	deps.GoalHandler = httphandlers.NewGoalHandler(goals)
	deps.AIHandler = httphandlers.NewAIHandler(advice)

	return deps, nil
}

// Close releases all resources held by dependencies.
func (d *Dependencies) Close() {
	if d.Redis != nil {
		if err := d.Redis.Close(); err != nil {
			log.Printf("Error closing Redis client: %v", err)
		}
	}
	if d.DB != nil {
		d.DB.Close()
	}
}
