package main

import (
	"log"
	"net/http"

	httphandlers "moneymind/internal/interfaces/http"
	"moneymind/internal/shared/config"
	"moneymind/internal/shared/middleware"
)

// Limiters are the per-IP rate limiters guarding the expensive routes.
type Limiters struct {
	Auth *middleware.RateLimiter
	AI   *middleware.RateLimiter
}

func NewLimiters(cfg *config.Config) *Limiters {
	return &Limiters{
		Auth: middleware.NewRateLimiter(cfg.RateLimit.AuthRPS, cfg.RateLimit.AuthBurst),
		AI:   middleware.NewRateLimiter(cfg.RateLimit.AIRPS, cfg.RateLimit.AIBurst),
	}
}

// SetupRoutes configures all HTTP routes and returns the final handler with middleware.
func SetupRoutes(deps *Dependencies, limiters *Limiters, cfg *config.Config) http.Handler {
	mux := http.NewServeMux()

	// Health check
	mux.HandleFunc("GET /health", httphandlers.HandleHealth(deps.DB))

	authLimited := func(h http.HandlerFunc) http.Handler {
		return limiters.Auth.Middleware(h)
	}

	// Public auth routes
	mux.Handle("POST /api/signup", authLimited(deps.AuthHandler.HandleSignUp))
	mux.Handle("POST /api/login", authLimited(deps.AuthHandler.HandleLogin))
	mux.Handle("POST /api/auth/refresh-token", authLimited(deps.AuthHandler.HandleRefresh))
	mux.HandleFunc("POST /api/auth/logout", deps.AuthHandler.HandleLogout)

	// Google OAuth
	mux.HandleFunc("GET /api/auth/google", deps.AuthHandler.HandleGoogleLogin)
	mux.HandleFunc("GET /api/auth/google/callback", deps.AuthHandler.HandleGoogleCallback)

	// Protected routes
	authMiddleware := middleware.Auth(deps.Tokens, deps.Revocations)
	protected := func(h http.HandlerFunc) http.Handler {
		return authMiddleware(h)
	}

	mux.Handle("GET /api/profile", protected(deps.UserHandler.HandleGetProfile))
	mux.Handle("PUT /api/profile", protected(deps.UserHandler.HandleUpdateProfile))

	mux.Handle("GET /api/transactions", protected(deps.TransactionHandler.HandleListTransactions))
	mux.Handle("POST /api/transactions", protected(deps.TransactionHandler.HandleCreateTransaction))
	mux.Handle("PUT /api/transactions/{id}", protected(deps.TransactionHandler.HandleUpdateTransaction))
	mux.Handle("DELETE /api/transactions/{id}", protected(deps.TransactionHandler.HandleDeleteTransaction))

	mux.Handle("GET /api/goals", protected(deps.GoalHandler.HandleListGoals))
	mux.Handle("POST /api/goals", protected(deps.GoalHandler.HandleCreateGoal))
	mux.Handle("PUT /api/goals/{id}", protected(deps.GoalHandler.HandleUpdateGoal))
	mux.Handle("DELETE /api/goals/{id}", protected(deps.GoalHandler.HandleDeleteGoal))

	// AI chat: auth first, then the per-IP limiter
	mux.Handle("POST /api/ai/chat", authMiddleware(limiters.AI.Middleware(http.HandlerFunc(deps.AIHandler.HandleChat))))

	// Apply global middleware
	handler := middleware.SecurityHeaders(mux)
	handler = middleware.CORS([]string{cfg.Server.FrontendURL})(handler)
	handler = middleware.Logging(handler)

	if cfg.Telemetry.Enabled {
		handler = middleware.Telemetry(handler)
	}

	// Apply security middleware when TLS is enabled
	if cfg.TLS.Enabled {
		handler = middleware.HSTS(handler)
		log.Println("TLS security middleware enabled (HSTS)")
	}

	return handler
}
