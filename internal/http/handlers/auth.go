package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/hongminglow/care-admin/internal/auth"
	"github.com/hongminglow/care-admin/internal/http/respond"
	"github.com/hongminglow/care-admin/internal/middleware"
	"github.com/hongminglow/care-admin/internal/models"
	"github.com/hongminglow/care-admin/internal/models/dto"
	"github.com/hongminglow/care-admin/internal/rbac"
	"github.com/hongminglow/care-admin/internal/session"
	"github.com/hongminglow/care-admin/internal/storage"
)

// AuthHandler owns register/login/refresh endpoints backed by Postgres.
type AuthHandler struct {
	store       storage.UserStore
	tokens      *auth.TokenManager
	defaultRole string
	logger      *zap.Logger
}

// NewAuthHandler constructs the handler. New accounts receive defaultRole.
func NewAuthHandler(store storage.UserStore, tokens *auth.TokenManager, defaultRole string, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{store: store, tokens: tokens, defaultRole: defaultRole, logger: logger}
}

// Register attaches auth routes to the router.
func (h *AuthHandler) Register(r chi.Router, mw *middleware.Auth) {
	r.Post("/register", h.handleRegister)
	r.Post("/login", h.handleLogin)
	r.With(mw.RequireAuthenticated).Post("/refresh", h.handleRefresh)
}

func (h *AuthHandler) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req dto.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Error(w, http.StatusBadRequest, "invalid JSON payload")
		return
	}
	req.Phone = normalizePhone(req)
	if problems := validateStruct(req); len(problems) > 0 {
		respond.Error(w, http.StatusBadRequest, "validation failed", problems...)
		return
	}
	passwordHash, err := hashPassword(req.Password)
	if err != nil {
		h.logger.Error("hash password", zap.Error(err))
		respond.Error(w, http.StatusInternalServerError, "failed to hash password")
		return
	}

	user := models.User{
		Username:     strings.TrimSpace(req.Username),
		Email:        strings.TrimSpace(req.Email),
		Phone:        req.Phone,
		Roles:        []string{h.defaultRole},
		PasswordHash: passwordHash,
	}
	created, err := h.store.CreateUser(r.Context(), user)
	if err != nil {
		switch {
		case errors.Is(err, storage.ErrAlreadyExists):
			respond.Error(w, http.StatusConflict, "user already exists")
		default:
			h.logger.Error("create user", zap.String("username", user.Username), zap.Error(err))
			respond.Error(w, http.StatusInternalServerError, "failed to create user")
		}
		return
	}

	respond.JSON(w, http.StatusCreated, "user created", created)
}

func (h *AuthHandler) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req dto.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Error(w, http.StatusBadRequest, "invalid JSON payload")
		return
	}
	req.Identifier = strings.TrimSpace(req.Identifier)
	if problems := validateStruct(req); len(problems) > 0 {
		respond.Error(w, http.StatusBadRequest, "identifier and password are required", problems...)
		return
	}
	user, err := h.store.FindByUsernameOrEmail(r.Context(), req.Identifier)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			respond.Error(w, http.StatusUnauthorized, "invalid credentials")
			return
		}
		h.logger.Error("login: fetch user", zap.String("identifier", req.Identifier), zap.Error(err))
		respond.Error(w, http.StatusInternalServerError, "failed to fetch user")
		return
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		respond.Error(w, http.StatusUnauthorized, "invalid credentials")
		return
	}
	h.issue(w, user, "login successful")
}

// handleRefresh reloads the caller from the store so role changes take effect.
func (h *AuthHandler) handleRefresh(w http.ResponseWriter, r *http.Request) {
	current := session.User(r.Context())
	user, err := h.store.FindByID(r.Context(), current.ID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			respond.Error(w, http.StatusUnauthorized, "account no longer exists")
			return
		}
		h.logger.Error("refresh: fetch user", zap.Int64("user_id", current.ID), zap.Error(err))
		respond.Error(w, http.StatusInternalServerError, "failed to fetch user")
		return
	}
	h.issue(w, user, "token refreshed")
}

func (h *AuthHandler) issue(w http.ResponseWriter, user models.User, message string) {
	token, err := h.tokens.Generate(user)
	if err != nil {
		h.logger.Error("generate token", zap.Int64("user_id", user.ID), zap.Error(err))
		respond.Error(w, http.StatusInternalServerError, "failed to generate token")
		return
	}
	respond.JSON(w, http.StatusOK, message, dto.LoginResponse{
		Token:          token,
		ExpiresIn:      int64(h.tokens.TTL().Seconds()),
		User:           user,
		PrivilegeLevel: rbac.Resolve(&user),
	})
}

func normalizePhone(req dto.RegisterRequest) string {
	if trimmed := strings.TrimSpace(req.Phone); trimmed != "" {
		return trimmed
	}
	return strings.TrimSpace(req.PhoneNumber)
}

func hashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}
