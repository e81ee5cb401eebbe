package handlers

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hongminglow/care-admin/internal/models/dto"
	"github.com/hongminglow/care-admin/internal/rbac"
)

func TestMe(t *testing.T) {
	env := newTestEnv(t)
	_, token := env.seedUser(t, "alex", "Support_Worker", "Manager")

	w := env.do(t, http.MethodGet, "/me", token, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	resp := decode[dto.ProfileResponse](t, w)
	assert.Equal(t, rbac.LevelManager, resp.Data.PrivilegeLevel)
	require.NotNil(t, resp.Data.Role)
	assert.Equal(t, "Manager", resp.Data.Role.Name)
	assert.Contains(t, resp.Data.Actions, rbac.StaffCreate)
	assert.NotContains(t, resp.Data.Actions, rbac.UserDelete)
}

func TestMeRequiresAuthentication(t *testing.T) {
	env := newTestEnv(t)
	assert.Equal(t, http.StatusUnauthorized, env.do(t, http.MethodGet, "/me", "", nil).Code)
	assert.Equal(t, http.StatusUnauthorized, env.do(t, http.MethodGet, "/me", "garbage", nil).Code)
}

func TestMeDeletedAccount(t *testing.T) {
	env := newTestEnv(t)
	user, token := env.seedUser(t, "gone", "Staff")
	require.NoError(t, env.store.DeleteUser(context.Background(), user.ID))

	assert.Equal(t, http.StatusUnauthorized, env.do(t, http.MethodGet, "/me", token, nil).Code)
}

func TestRolesAndPermissions(t *testing.T) {
	env := newTestEnv(t)

	roles := decode[[]rbac.RoleDefinition](t, env.do(t, http.MethodGet, "/rbac/roles", "", nil))
	assert.Len(t, roles.Data, len(rbac.Default().Definitions()))

	perms := decode[[]rbac.Permission](t, env.do(t, http.MethodGet, "/rbac/permissions", "", nil))
	assert.Contains(t, perms.Data, rbac.Permission{Action: rbac.UserDelete, MinLevel: rbac.LevelAdmin})
}

func TestCheck(t *testing.T) {
	env := newTestEnv(t)
	_, coordinator := env.seedUser(t, "cory", "Care_Coordinator")
	_, staff := env.seedUser(t, "sky", "Staff")

	tests := []struct {
		name   string
		token  string
		body   map[string]any
		branch rbac.Branch
		level  rbac.Level
	}{
		{"level below requirement", coordinator, map[string]any{"required_privilege_level": 3}, rbac.BranchFallback, rbac.LevelCoordinator},
		{"level meets requirement", coordinator, map[string]any{"required_privilege_level": 2}, rbac.BranchChildren, rbac.LevelCoordinator},
		{"show for all authenticated", staff, map[string]any{"show_for_all": true}, rbac.BranchChildren, rbac.LevelStaff},
		{"show for all anonymous", "", map[string]any{"show_for_all": true}, rbac.BranchFallback, rbac.LevelNone},
		{"required roles", coordinator, map[string]any{"required_roles": []string{"Care_Coordinator"}}, rbac.BranchChildren, rbac.LevelCoordinator},
		{"default pass anonymous", "", map[string]any{}, rbac.BranchChildren, rbac.LevelNone},
		{"action allowed", coordinator, map[string]any{"action": "ROSTER_CREATE"}, rbac.BranchChildren, rbac.LevelCoordinator},
		{"action denied", staff, map[string]any{"action": "USER_DELETE"}, rbac.BranchFallback, rbac.LevelStaff},
		{"unknown action denied", coordinator, map[string]any{"action": "NOT_REAL"}, rbac.BranchFallback, rbac.LevelCoordinator},
		{"anonymous action denied", "", map[string]any{"action": "CLIENT_VIEW"}, rbac.BranchFallback, rbac.LevelNone},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := env.do(t, http.MethodPost, "/rbac/check", tt.token, tt.body)
			require.Equal(t, http.StatusOK, w.Code, w.Body.String())
			resp := decode[dto.CheckResponse](t, w)
			assert.Equal(t, tt.branch, resp.Data.Branch)
			assert.Equal(t, tt.branch == rbac.BranchChildren, resp.Data.Allowed)
			assert.Equal(t, tt.level, resp.Data.PrivilegeLevel)
		})
	}
}

func TestCheckRejectsOutOfRangeLevel(t *testing.T) {
	env := newTestEnv(t)
	w := env.do(t, http.MethodPost, "/rbac/check", "", map[string]any{"required_privilege_level": 9})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
