package rbac

import (
	"strings"

	"github.com/hongminglow/care-admin/internal/models"
)

// Branch names which content a gate selects.
type Branch string

const (
	BranchChildren Branch = "children"
	BranchFallback Branch = "fallback"
)

// Requirement declares what a gated piece of content needs. The modes are
// evaluated in fixed order: RequiredPrivilegeLevel, RequiredRoles, ShowForAll.
// An empty Requirement passes everyone, including unauthenticated users.
type Requirement struct {
	ShowForAll             bool     `json:"show_for_all,omitempty"`
	RequiredPrivilegeLevel Level    `json:"required_privilege_level,omitempty"`
	RequiredRoles          []string `json:"required_roles,omitempty"`
}

// Check reports whether user satisfies req.
func Check(user *models.User, req Requirement) bool {
	return defaultResolver.Check(user, req)
}

// Decide returns the branch a gate should render for user.
func Decide(user *models.User, req Requirement) Branch {
	if Check(user, req) {
		return BranchChildren
	}
	return BranchFallback
}

// Select returns children when user satisfies req, fallback otherwise.
func Select[T any](user *models.User, req Requirement, children, fallback T) T {
	if Check(user, req) {
		return children
	}
	return fallback
}

// Check is the resolver-scoped form of the package function.
func (r *Resolver) Check(user *models.User, req Requirement) bool {
	switch {
	case req.RequiredPrivilegeLevel > LevelNone:
		return r.Resolve(user) >= req.RequiredPrivilegeLevel
	case len(req.RequiredRoles) > 0:
		return hasAnyRole(user, req.RequiredRoles)
	case req.ShowForAll:
		return user != nil
	default:
		return true
	}
}

func hasAnyRole(user *models.User, required []string) bool {
	if user == nil {
		return false
	}
	for _, want := range required {
		if want = strings.TrimSpace(want); want != "" && user.HasRole(want) {
			return true
		}
	}
	return false
}
