package dto

import (
	"github.com/hongminglow/care-admin/internal/models"
	"github.com/hongminglow/care-admin/internal/rbac"
)

// ProfileResponse is the identity summary shown on the dashboard.
type ProfileResponse struct {
	User           models.User          `json:"user"`
	PrivilegeLevel rbac.Level           `json:"privilege_level"`
	Role           *rbac.RoleDefinition `json:"role,omitempty"`
	Actions        []rbac.Action        `json:"actions"`
}

// CheckRequest asks for a decision on either a named action or a gate requirement.
// Action takes priority when both are set.
type CheckRequest struct {
	Action string `json:"action,omitempty"`
	rbac.Requirement
}

type CheckResponse struct {
	Allowed        bool        `json:"allowed"`
	Branch         rbac.Branch `json:"branch"`
	PrivilegeLevel rbac.Level  `json:"privilege_level"`
}

type UpdateRolesRequest struct {
	Roles []string `json:"roles" validate:"required,min=1,dive,required,knownrole"`
}

type ListUsersResponse struct {
	Users  []models.User `json:"users"`
	Limit  int           `json:"limit"`
	Offset int           `json:"offset"`
}
