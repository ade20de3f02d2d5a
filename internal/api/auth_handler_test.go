package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/tasknest/tasknest-api/internal/domain"
	"github.com/tasknest/tasknest-api/internal/service/auth"
	"github.com/tasknest/tasknest-api/internal/store"
)

// mockUserStore implements store.UserStore with overridable functions.
type mockUserStore struct {
	createFunc     func(ctx context.Context, user *domain.User) error
	getByIDFunc    func(ctx context.Context, id uuid.UUID) (*domain.User, error)
	getByEmailFunc func(ctx context.Context, email string) (*domain.User, error)
	deleteFunc     func(ctx context.Context, id uuid.UUID) (*domain.User, error)
}

var _ store.UserStore = (*mockUserStore)(nil)

func (m *mockUserStore) Create(ctx context.Context, user *domain.User) error {
	if m.createFunc != nil {
		return m.createFunc(ctx, user)
	}
	return nil
}

func (m *mockUserStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	if m.getByIDFunc != nil {
		return m.getByIDFunc(ctx, id)
	}
	return nil, store.ErrUserNotFound
}

func (m *mockUserStore) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	if m.getByEmailFunc != nil {
		return m.getByEmailFunc(ctx, email)
	}
	return nil, store.ErrUserNotFound
}

func (m *mockUserStore) Delete(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	if m.deleteFunc != nil {
		return m.deleteFunc(ctx, id)
	}
	return nil, store.ErrUserNotFound
}

// mockJWTService implements auth.JWTService for handler tests.
type mockJWTService struct {
	generateTokenFunc func(ctx context.Context, userID uuid.UUID) (string, error)
	validateTokenFunc func(ctx context.Context, tokenString string) (*auth.Claims, error)
}

var _ auth.JWTService = (*mockJWTService)(nil)

func (m *mockJWTService) GenerateToken(ctx context.Context, userID uuid.UUID) (string, error) {
	if m.generateTokenFunc != nil {
		return m.generateTokenFunc(ctx, userID)
	}
	return "test-token", nil
}

func (m *mockJWTService) ValidateToken(ctx context.Context, tokenString string) (*auth.Claims, error) {
	if m.validateTokenFunc != nil {
		return m.validateTokenFunc(ctx, tokenString)
	}
	return nil, auth.ErrInvalidToken
}

// recordingNotifier captures welcome/cancellation sends for assertions.
type recordingNotifier struct {
	mu            sync.Mutex
	welcomes      []string
	cancellations []string
}

func (n *recordingNotifier) SendWelcome(email, _ string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.welcomes = append(n.welcomes, email)
}

func (n *recordingNotifier) SendCancellation(email, _ string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.cancellations = append(n.cancellations, email)
}

func (n *recordingNotifier) welcomed() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]string(nil), n.welcomes...)
}

func (n *recordingNotifier) cancelled() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]string(nil), n.cancellations...)
}

func newTestUser(t *testing.T) *domain.User {
	t.Helper()
	user, err := domain.NewUser("Ada", "ada@example.com", "correct-horse")
	require.NoError(t, err)
	return user
}

func newAuthHandler(userStore store.UserStore, notifier *recordingNotifier) *AuthHandler {
	if notifier == nil {
		notifier = &recordingNotifier{}
	}
	return NewAuthHandler(userStore, &mockJWTService{}, auth.NewBcryptVerifier(), notifier, nil)
}

func TestAuthHandlerRegister(t *testing.T) {
	t.Parallel()

	t.Run("creates user, returns token and sends welcome email", func(t *testing.T) {
		t.Parallel()

		var created *domain.User
		userStore := &mockUserStore{
			createFunc: func(_ context.Context, user *domain.User) error {
				created = user
				return nil
			},
		}
		notifier := &recordingNotifier{}
		handler := newAuthHandler(userStore, notifier)

		body := bytes.NewBufferString(`{"name":"Ada","email":"Ada@Example.com","password":"correct-horse"}`)
		req := httptest.NewRequest(http.MethodPost, "/users", body)
		rec := httptest.NewRecorder()

		handler.Register(rec, req)

		require.Equal(t, http.StatusCreated, rec.Code)
		require.NotNil(t, created)
		assert.Equal(t, "ada@example.com", created.Email)

		var resp AuthResponse
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
		assert.Equal(t, "test-token", resp.Token)
		assert.Equal(t, created.ID, resp.User.ID)
		assert.NotContains(t, rec.Body.String(), "password")

		assert.Equal(t, []string{"ada@example.com"}, notifier.welcomed())
	})

	t.Run("duplicate email is a conflict without a welcome email", func(t *testing.T) {
		t.Parallel()

		userStore := &mockUserStore{
			createFunc: func(context.Context, *domain.User) error {
				return store.ErrEmailExists
			},
		}
		notifier := &recordingNotifier{}
		handler := newAuthHandler(userStore, notifier)

		body := bytes.NewBufferString(`{"name":"Ada","email":"ada@example.com","password":"correct-horse"}`)
		req := httptest.NewRequest(http.MethodPost, "/users", body)
		rec := httptest.NewRecorder()

		handler.Register(rec, req)

		assert.Equal(t, http.StatusConflict, rec.Code)
		assert.Empty(t, notifier.welcomed())
	})

	t.Run("short password is rejected", func(t *testing.T) {
		t.Parallel()

		storeCalled := false
		userStore := &mockUserStore{
			createFunc: func(context.Context, *domain.User) error {
				storeCalled = true
				return nil
			},
		}
		handler := newAuthHandler(userStore, nil)

		body := bytes.NewBufferString(`{"name":"Ada","email":"ada@example.com","password":"short"}`)
		req := httptest.NewRequest(http.MethodPost, "/users", body)
		rec := httptest.NewRecorder()

		handler.Register(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.False(t, storeCalled)
	})
}

func TestAuthHandlerLogin(t *testing.T) {
	t.Parallel()

	password := "correct-horse"
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)

	storedUser := func(t *testing.T) *domain.User {
		user := newTestUser(t)
		user.Password = ""
		user.HashedPassword = string(hashed)
		return user
	}

	t.Run("valid credentials return user and token", func(t *testing.T) {
		t.Parallel()

		user := storedUser(t)
		userStore := &mockUserStore{
			getByEmailFunc: func(_ context.Context, email string) (*domain.User, error) {
				require.Equal(t, user.Email, email)
				return user, nil
			},
		}
		handler := newAuthHandler(userStore, nil)

		body := bytes.NewBufferString(`{"email":"ada@example.com","password":"correct-horse"}`)
		req := httptest.NewRequest(http.MethodPost, "/users/login", body)
		rec := httptest.NewRecorder()

		handler.Login(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)

		var resp AuthResponse
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
		assert.Equal(t, "test-token", resp.Token)
		assert.Equal(t, user.ID, resp.User.ID)
	})

	t.Run("store failure is a sanitized 500, not a credential rejection", func(t *testing.T) {
		t.Parallel()

		userStore := &mockUserStore{
			getByEmailFunc: func(context.Context, string) (*domain.User, error) {
				return nil, errors.New("dial tcp 10.0.0.3:5432: connection refused")
			},
		}
		handler := newAuthHandler(userStore, nil)

		body := bytes.NewBufferString(`{"email":"ada@example.com","password":"correct-horse"}`)
		req := httptest.NewRequest(http.MethodPost, "/users/login", body)
		rec := httptest.NewRecorder()

		handler.Login(rec, req)

		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		assert.Contains(t, rec.Body.String(), "an internal error occurred")
		assert.NotContains(t, rec.Body.String(), "10.0.0.3")
	})

	t.Run("wrong password and unknown email are indistinguishable", func(t *testing.T) {
		t.Parallel()

		user := storedUser(t)
		knownEmailStore := &mockUserStore{
			getByEmailFunc: func(context.Context, string) (*domain.User, error) {
				return user, nil
			},
		}

		wrongPassword := bytes.NewBufferString(`{"email":"ada@example.com","password":"wrong-horse"}`)
		reqWrong := httptest.NewRequest(http.MethodPost, "/users/login", wrongPassword)
		recWrong := httptest.NewRecorder()
		newAuthHandler(knownEmailStore, nil).Login(recWrong, reqWrong)

		unknownEmail := bytes.NewBufferString(`{"email":"nobody@example.com","password":"correct-horse"}`)
		reqUnknown := httptest.NewRequest(http.MethodPost, "/users/login", unknownEmail)
		recUnknown := httptest.NewRecorder()
		newAuthHandler(&mockUserStore{}, nil).Login(recUnknown, reqUnknown)

		assert.Equal(t, http.StatusUnauthorized, recWrong.Code)
		assert.Equal(t, http.StatusUnauthorized, recUnknown.Code)
		assert.JSONEq(t, recWrong.Body.String(), recUnknown.Body.String())
	})
}

func TestAuthHandlerGetMe(t *testing.T) {
	t.Parallel()

	user := newTestUser(t)
	userStore := &mockUserStore{
		getByIDFunc: func(_ context.Context, id uuid.UUID) (*domain.User, error) {
			require.Equal(t, user.ID, id)
			return user, nil
		},
	}
	handler := newAuthHandler(userStore, nil)

	req := authedRequest(t, http.MethodGet, "/users/me", nil, user.ID, nil)
	rec := httptest.NewRecorder()

	handler.GetMe(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp UserResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, user.ID, resp.ID)
	assert.Equal(t, user.Email, resp.Email)
}

func TestAuthHandlerDeleteMe(t *testing.T) {
	t.Parallel()

	t.Run("deletes the account and sends cancellation email", func(t *testing.T) {
		t.Parallel()

		user := newTestUser(t)
		userStore := &mockUserStore{
			deleteFunc: func(_ context.Context, id uuid.UUID) (*domain.User, error) {
				require.Equal(t, user.ID, id)
				return user, nil
			},
		}
		notifier := &recordingNotifier{}
		handler := newAuthHandler(userStore, notifier)

		req := authedRequest(t, http.MethodDelete, "/users/me", nil, user.ID, nil)
		rec := httptest.NewRecorder()

		handler.DeleteMe(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, []string{user.Email}, notifier.cancelled())
	})

	t.Run("missing account is 404", func(t *testing.T) {
		t.Parallel()

		notifier := &recordingNotifier{}
		handler := newAuthHandler(&mockUserStore{}, notifier)

		req := authedRequest(t, http.MethodDelete, "/users/me", nil, uuid.New(), nil)
		rec := httptest.NewRecorder()

		handler.DeleteMe(rec, req)

		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.Empty(t, notifier.cancelled())
	})
}
