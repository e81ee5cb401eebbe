package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/hongminglow/care-admin/internal/http/respond"
	"github.com/hongminglow/care-admin/internal/middleware"
	"github.com/hongminglow/care-admin/internal/models/dto"
	"github.com/hongminglow/care-admin/internal/rbac"
	"github.com/hongminglow/care-admin/internal/session"
	"github.com/hongminglow/care-admin/internal/storage"
)

// AccessHandler exposes the role registry, permission table and gate decisions
// so the front-end can render the same choices the API enforces.
type AccessHandler struct {
	store  storage.UserStore
	logger *zap.Logger
}

// NewAccessHandler constructs the handler.
func NewAccessHandler(store storage.UserStore, logger *zap.Logger) *AccessHandler {
	return &AccessHandler{store: store, logger: logger}
}

// Register attaches access routes to the router.
func (h *AccessHandler) Register(r chi.Router, mw *middleware.Auth) {
	r.With(mw.RequireAuthenticated).Get("/me", h.handleMe)
	r.Route("/rbac", func(r chi.Router) {
		r.Get("/roles", h.handleRoles)
		r.Get("/permissions", h.handlePermissions)
		r.Post("/check", h.handleCheck)
	})
}

func (h *AccessHandler) handleMe(w http.ResponseWriter, r *http.Request) {
	current := session.User(r.Context())
	user, err := h.store.FindByID(r.Context(), current.ID)
	switch {
	case errors.Is(err, storage.ErrNotFound):
		respond.Error(w, http.StatusUnauthorized, "account no longer exists")
		return
	case err != nil:
		h.logger.Error("me: fetch user", zap.Int64("user_id", current.ID), zap.Error(err))
		respond.Error(w, http.StatusInternalServerError, "failed to fetch user")
		return
	}

	profile := dto.ProfileResponse{
		User:           user,
		PrivilegeLevel: rbac.Resolve(&user),
		Actions:        rbac.AllowedActions(&user),
	}
	if def, ok := rbac.Describe(&user); ok {
		profile.Role = &def
	}
	respond.JSON(w, http.StatusOK, "ok", profile)
}

func (h *AccessHandler) handleRoles(w http.ResponseWriter, r *http.Request) {
	respond.JSON(w, http.StatusOK, "ok", rbac.Default().Definitions())
}

func (h *AccessHandler) handlePermissions(w http.ResponseWriter, r *http.Request) {
	respond.JSON(w, http.StatusOK, "ok", rbac.Permissions())
}

// handleCheck evaluates against the caller's token identity, which may be absent.
func (h *AccessHandler) handleCheck(w http.ResponseWriter, r *http.Request) {
	var req dto.CheckRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		respond.Error(w, http.StatusBadRequest, "invalid JSON payload")
		return
	}
	if !req.RequiredPrivilegeLevel.Valid() {
		respond.Error(w, http.StatusBadRequest, "required_privilege_level must be between 0 and 4")
		return
	}

	user := session.User(r.Context())
	var allowed bool
	if action := rbac.Action(strings.TrimSpace(req.Action)); action != "" {
		if _, err := rbac.MinimumLevel(action); err != nil {
			h.logger.Warn("check: unknown action",
				zap.String("request_id", session.RequestID(r.Context())),
				zap.String("action", string(action)))
		}
		allowed = rbac.CanPerformAction(user, action)
	} else {
		allowed = rbac.Check(user, req.Requirement)
	}

	branch := rbac.BranchFallback
	if allowed {
		branch = rbac.BranchChildren
	}
	respond.JSON(w, http.StatusOK, "ok", dto.CheckResponse{
		Allowed:        allowed,
		Branch:         branch,
		PrivilegeLevel: rbac.Resolve(user),
	})
}
