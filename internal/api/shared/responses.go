package shared

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/tasknest/tasknest-api/internal/platform/logger"
)

// ErrorResponse is the standard JSON shape for error responses.
type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`
	TraceID string `json:"trace_id,omitempty"`
}

// RespondWithJSON writes a JSON response with the given status code and payload.
// A nil payload writes only the status code.
func RespondWithJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if payload == nil {
		return
	}

	if err := json.NewEncoder(w).Encode(payload); err != nil {
		// Headers are already sent; all we can do is log.
		slog.Default().Error("failed to encode JSON response", slog.String("error", err.Error()))
	}
}

// RespondWithError writes a standardized error response with the given
// status code and message, attaching the trace ID from the context.
func RespondWithError(w http.ResponseWriter, r *http.Request, status int, message string, codes ...string) {
	resp := ErrorResponse{
		Error:   message,
		TraceID: GetTraceID(r.Context()),
	}
	if len(codes) > 0 {
		resp.Code = codes[0]
	}
	RespondWithJSON(w, status, resp)
}

// RespondWithErrorAndLog logs the underlying error with request context
// and then writes a sanitized error response to the client. The logged
// error and the client-visible message are deliberately separate.
func RespondWithErrorAndLog(w http.ResponseWriter, r *http.Request, status int, message string, err error, codes ...string) {
	log := loggerFromRequest(r.Context())

	attrs := []any{
		slog.Int("status", status),
		slog.String("path", r.URL.Path),
		slog.String("method", r.Method),
	}
	if traceID := GetTraceID(r.Context()); traceID != "" {
		attrs = append(attrs, slog.String("trace_id", traceID))
	}
	if err != nil {
		attrs = append(attrs, slog.String("error", err.Error()))
	}

	if status >= http.StatusInternalServerError {
		log.Error(message, attrs...)
	} else {
		log.Warn(message, attrs...)
	}

	RespondWithError(w, r, status, message, codes...)
}

func loggerFromRequest(ctx context.Context) *slog.Logger {
	return logger.FromContextOrDefault(ctx, slog.Default())
}
