package rbac

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hongminglow/care-admin/internal/models"
)

func TestManagerScenario(t *testing.T) {
	user := &models.User{Roles: []string{"Manager"}}

	assert.Equal(t, LevelManager, Resolve(user))
	assert.True(t, CanPerformAction(user, StaffCreate))
	assert.False(t, CanPerformAction(user, UserDelete))
}

func TestUserDeleteRequiresAdmin(t *testing.T) {
	for level := LevelNone; level <= LevelAdmin; level++ {
		var user *models.User
		switch level {
		case LevelNone:
		case LevelStaff:
			user = &models.User{}
		case LevelCoordinator:
			user = &models.User{Roles: []string{"Coordinator"}}
		case LevelManager:
			user = &models.User{Roles: []string{"Manager"}}
		case LevelAdmin:
			user = &models.User{Roles: []string{"Admin"}}
		}
		require.Equal(t, level, Resolve(user))
		assert.Equal(t, level >= LevelAdmin, CanPerformAction(user, UserDelete), level.String())
	}
}

func TestNilUserCannotPerformAnyAction(t *testing.T) {
	for _, p := range Permissions() {
		assert.False(t, CanPerformAction(nil, p.Action), p.Action)
	}
	assert.Empty(t, AllowedActions(nil))
}

func TestUnknownActionDenied(t *testing.T) {
	admin := &models.User{Roles: []string{"Admin"}}
	assert.False(t, CanPerformAction(admin, Action("LAUNCH_ROCKETS")))

	_, err := MinimumLevel(Action("LAUNCH_ROCKETS"))
	assert.True(t, errors.Is(err, ErrUnknownAction))
}

func TestMinimumLevel(t *testing.T) {
	level, err := MinimumLevel(StaffCreate)
	require.NoError(t, err)
	assert.Equal(t, LevelManager, level)

	level, err = MinimumLevel(NoteCreate)
	require.NoError(t, err)
	assert.Equal(t, LevelStaff, level)
}

func TestAllowedActions(t *testing.T) {
	staff := AllowedActions(&models.User{Roles: []string{"Support_Worker"}})
	assert.Contains(t, staff, ClientView)
	assert.Contains(t, staff, LeaveRequest)
	assert.NotContains(t, staff, LeaveApprove)
	assert.NotContains(t, staff, BillingView)
	assert.IsIncreasing(t, staff)

	admin := AllowedActions(&models.User{Roles: []string{"Super_Admin"}})
	assert.Len(t, admin, len(Permissions()))
}

func TestPermissionTableLevelsValid(t *testing.T) {
	for _, p := range Permissions() {
		assert.GreaterOrEqual(t, p.MinLevel, LevelStaff, p.Action)
		assert.LessOrEqual(t, p.MinLevel, LevelAdmin, p.Action)
	}
}
