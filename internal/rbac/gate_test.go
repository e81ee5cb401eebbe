package rbac

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/hongminglow/care-admin/internal/models"
)

func TestCheck(t *testing.T) {
	coordinator := &models.User{Roles: []string{"Coordinator"}}
	staff := &models.User{Roles: []string{"Staff"}}
	legacy := &models.User{Roles: []string{"Care_Coordinator"}}

	tests := []struct {
		name string
		user *models.User
		req  Requirement
		want bool
	}{
		{"level met", coordinator, Requirement{RequiredPrivilegeLevel: LevelCoordinator}, true},
		{"level not met", coordinator, Requirement{RequiredPrivilegeLevel: LevelManager}, false},
		{"level with nil user", nil, Requirement{RequiredPrivilegeLevel: LevelStaff}, false},
		{"role intersects", legacy, Requirement{RequiredRoles: []string{"Manager", "Care_Coordinator"}}, true},
		{"role disjoint", staff, Requirement{RequiredRoles: []string{"Manager"}}, false},
		{"role with nil user", nil, Requirement{RequiredRoles: []string{"Staff"}}, false},
		{"show for all authenticated", staff, Requirement{ShowForAll: true}, true},
		{"show for all unauthenticated", nil, Requirement{ShowForAll: true}, false},
		{"default passes authenticated", staff, Requirement{}, true},
		{"default passes unauthenticated", nil, Requirement{}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Check(tt.user, tt.req))
		})
	}
}

func TestCheckPrecedence(t *testing.T) {
	staff := &models.User{Roles: []string{"Staff"}}

	// Level is evaluated before roles, so a matching role cannot rescue a failed level.
	assert.False(t, Check(staff, Requirement{
		RequiredPrivilegeLevel: LevelManager,
		RequiredRoles:          []string{"Staff"},
	}))
	// Roles are evaluated before showForAll.
	assert.False(t, Check(staff, Requirement{
		RequiredRoles: []string{"Manager"},
		ShowForAll:    true,
	}))
	// Level is evaluated before showForAll.
	assert.True(t, Check(staff, Requirement{
		RequiredPrivilegeLevel: LevelStaff,
		ShowForAll:             true,
	}))
}

func TestDecideAndSelect(t *testing.T) {
	coordinator := &models.User{Roles: []string{"Coordinator"}}
	staff := &models.User{Roles: []string{"Staff"}}

	assert.Equal(t, BranchFallback, Decide(coordinator, Requirement{RequiredPrivilegeLevel: LevelManager}))
	assert.Equal(t, BranchChildren, Decide(staff, Requirement{ShowForAll: true}))

	assert.Equal(t, "hidden", Select(coordinator, Requirement{RequiredPrivilegeLevel: LevelManager}, "panel", "hidden"))
	assert.Equal(t, "panel", Select(staff, Requirement{ShowForAll: true}, "panel", "hidden"))
}
