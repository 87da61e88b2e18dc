package http

import (
	"fmt"
	"log"
	"net/http"

	"moneymind/internal/shared/middleware"
)

// logError logs a handler failure tagged with the request id assigned by
// middleware.Logging, so it can be matched to its access log line.
func logError(r *http.Request, format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	if id := middleware.RequestIDFromContext(r.Context()); id != "" {
		msg += " id=" + id
	}
	log.Print(msg)
}
