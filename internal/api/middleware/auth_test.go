package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tasknest/tasknest-api/internal/api/shared"
	"github.com/tasknest/tasknest-api/internal/service/auth"
)

type stubJWTService struct {
	validateTokenFunc func(ctx context.Context, tokenString string) (*auth.Claims, error)
}

func (s *stubJWTService) GenerateToken(context.Context, uuid.UUID) (string, error) {
	return "", nil
}

func (s *stubJWTService) ValidateToken(ctx context.Context, tokenString string) (*auth.Claims, error) {
	return s.validateTokenFunc(ctx, tokenString)
}

func TestAuthenticate(t *testing.T) {
	t.Parallel()

	userID := uuid.New()

	validService := &stubJWTService{
		validateTokenFunc: func(_ context.Context, token string) (*auth.Claims, error) {
			if token == "good-token" {
				return &auth.Claims{UserID: userID}, nil
			}
			return nil, auth.ErrInvalidToken
		},
	}

	nextHandler := func(captured *uuid.UUID, called *bool) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			*called = true
			if id, ok := r.Context().Value(shared.UserIDContextKey).(uuid.UUID); ok {
				*captured = id
			}
			w.WriteHeader(http.StatusOK)
		})
	}

	tests := []struct {
		name       string
		authHeader string
		wantStatus int
		wantNext   bool
	}{
		{
			name:       "valid bearer token passes through",
			authHeader: "Bearer good-token",
			wantStatus: http.StatusOK,
			wantNext:   true,
		},
		{
			name:       "missing header is rejected",
			authHeader: "",
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "wrong scheme is rejected",
			authHeader: "Basic good-token",
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "invalid token is rejected",
			authHeader: "Bearer bad-token",
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "scheme without token is rejected",
			authHeader: "Bearer",
			wantStatus: http.StatusUnauthorized,
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			var captured uuid.UUID
			var nextCalled bool

			mw := NewAuthMiddleware(validService, nil)
			handler := mw.Authenticate(nextHandler(&captured, &nextCalled))

			req := httptest.NewRequest(http.MethodGet, "/tasks", nil)
			if tc.authHeader != "" {
				req.Header.Set("Authorization", tc.authHeader)
			}
			rec := httptest.NewRecorder()

			handler.ServeHTTP(rec, req)

			assert.Equal(t, tc.wantStatus, rec.Code)
			assert.Equal(t, tc.wantNext, nextCalled)
			if tc.wantNext {
				require.Equal(t, userID, captured)
			}
		})
	}
}
