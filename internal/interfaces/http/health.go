package http

import (
	"context"
	"log"
	"net/http"
	"time"

	"moneymind/internal/shared/respond"
)

type Pinger interface {
	PingContext(ctx context.Context) error
}

type HealthResponse struct {
	Status string `json:"status"`
}

// HandleHealth reports ok while the database answers a ping within two
// seconds. db may be nil for a liveness-only check.
func HandleHealth(db Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if db != nil {
			ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
			defer cancel()
			if err := db.PingContext(ctx); err != nil {
				log.Printf("Health check failed: %v", err)
				respond.JSON(w, http.StatusServiceUnavailable, HealthResponse{Status: "unavailable"})
				return
			}
		}
		respond.JSON(w, http.StatusOK, HealthResponse{Status: "ok"})
	}
}
