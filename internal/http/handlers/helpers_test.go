package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/hongminglow/care-admin/internal/auth"
	"github.com/hongminglow/care-admin/internal/middleware"
	"github.com/hongminglow/care-admin/internal/models"
	"github.com/hongminglow/care-admin/internal/storage/memory"
)

type testEnv struct {
	router http.Handler
	store  *memory.Store
	tokens *auth.TokenManager
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	logger := zap.NewNop()
	store := memory.NewUserStore()
	tokens := auth.NewTokenManager("handler-test-secret", "care-admin-test", time.Hour)
	mw := middleware.NewAuth(tokens, logger)

	r := chi.NewRouter()
	r.Use(mw.Authenticate)
	NewHealthHandler(time.Now(), store).Register(r)
	NewAuthHandler(store, tokens, "Staff", logger).Register(r, mw)
	NewAccessHandler(store, logger).Register(r, mw)
	NewUsersHandler(store, logger).Register(r, mw)

	return &testEnv{router: r, store: store, tokens: tokens}
}

// seedUser stores a user with password "password123" and returns it with a token.
func (e *testEnv) seedUser(t *testing.T, username string, roles ...string) (models.User, string) {
	t.Helper()
	hash, err := hashPassword("password123")
	require.NoError(t, err)
	user, err := e.store.CreateUser(context.Background(), models.User{
		Username:     username,
		Email:        username + "@example.com",
		Phone:        "+61400000000",
		Roles:        roles,
		PasswordHash: hash,
	})
	require.NoError(t, err)
	token, err := e.tokens.Generate(user)
	require.NoError(t, err)
	return user, token
}

func (e *testEnv) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

type envelope[T any] struct {
	Success bool     `json:"success"`
	Message string   `json:"message"`
	Data    T        `json:"data"`
	Errors  []string `json:"errors"`
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) envelope[T] {
	t.Helper()
	var out envelope[T]
	require.NoError(t, json.NewDecoder(w.Body).Decode(&out), w.Body.String())
	return out
}
