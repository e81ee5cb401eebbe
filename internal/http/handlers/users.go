package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/hongminglow/care-admin/internal/http/respond"
	"github.com/hongminglow/care-admin/internal/identity"
	"github.com/hongminglow/care-admin/internal/middleware"
	"github.com/hongminglow/care-admin/internal/models/dto"
	"github.com/hongminglow/care-admin/internal/rbac"
	"github.com/hongminglow/care-admin/internal/session"
	"github.com/hongminglow/care-admin/internal/storage"
)

const (
	defaultPageSize = 50
	maxPageSize     = 200
)

// UsersHandler administers user accounts and their roles.
type UsersHandler struct {
	store  storage.UserStore
	logger *zap.Logger
}

// NewUsersHandler constructs the handler.
func NewUsersHandler(store storage.UserStore, logger *zap.Logger) *UsersHandler {
	return &UsersHandler{store: store, logger: logger}
}

// Register attaches user administration routes, each gated by its action.
func (h *UsersHandler) Register(r chi.Router, mw *middleware.Auth) {
	r.Route("/users", func(r chi.Router) {
		r.With(mw.RequireAction(rbac.UserView)).Get("/", h.handleList)
		r.With(mw.RequireAction(rbac.UserUpdate)).Put("/{id}/roles", h.handleUpdateRoles)
		r.With(mw.RequireAction(rbac.UserDelete)).Delete("/{id}", h.handleDelete)
	})
}

func (h *UsersHandler) handleList(w http.ResponseWriter, r *http.Request) {
	limit := queryInt(r, "limit", defaultPageSize)
	if limit <= 0 || limit > maxPageSize {
		limit = defaultPageSize
	}
	offset := queryInt(r, "offset", 0)
	if offset < 0 {
		offset = 0
	}

	users, err := h.store.ListUsers(r.Context(), limit, offset)
	if err != nil {
		h.logger.Error("list users", zap.Error(err))
		respond.Error(w, http.StatusInternalServerError, "failed to list users")
		return
	}
	respond.JSON(w, http.StatusOK, "ok", dto.ListUsersResponse{Users: users, Limit: limit, Offset: offset})
}

func (h *UsersHandler) handleUpdateRoles(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var req dto.UpdateRolesRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Error(w, http.StatusBadRequest, "invalid JSON payload")
		return
	}
	req.Roles = identity.CanonicalRoles(req.Roles, "", nil)
	if problems := validateStruct(req); len(problems) > 0 {
		respond.Error(w, http.StatusBadRequest, "validation failed", problems...)
		return
	}

	updated, err := h.store.UpdateRoles(r.Context(), id, req.Roles)
	switch {
	case errors.Is(err, storage.ErrNotFound):
		respond.Error(w, http.StatusNotFound, "user not found")
		return
	case err != nil:
		h.logger.Error("update roles", zap.Int64("user_id", id), zap.Error(err))
		respond.Error(w, http.StatusInternalServerError, "failed to update roles")
		return
	}

	h.logger.Info("roles updated",
		zap.String("request_id", session.RequestID(r.Context())),
		zap.Int64("actor_id", session.User(r.Context()).ID),
		zap.Int64("user_id", id),
		zap.Strings("roles", updated.Roles))
	respond.JSON(w, http.StatusOK, "roles updated", updated)
}

func (h *UsersHandler) handleDelete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if actor := session.User(r.Context()); actor.ID == id {
		respond.Error(w, http.StatusConflict, "cannot delete your own account")
		return
	}

	err := h.store.DeleteUser(r.Context(), id)
	switch {
	case errors.Is(err, storage.ErrNotFound):
		respond.Error(w, http.StatusNotFound, "user not found")
		return
	case err != nil:
		h.logger.Error("delete user", zap.Int64("user_id", id), zap.Error(err))
		respond.Error(w, http.StatusInternalServerError, "failed to delete user")
		return
	}
	respond.JSON(w, http.StatusOK, "user deleted", nil)
}

func pathID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		respond.Error(w, http.StatusBadRequest, "invalid user id")
		return 0, false
	}
	return id, true
}

func queryInt(r *http.Request, key string, def int) int {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return def
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return def
	}
	return n
}
