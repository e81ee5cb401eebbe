// Package identity folds the user shapes produced by the current and legacy
// backends into the canonical models.User.
package identity

import (
	"strings"
	"time"

	"github.com/hongminglow/care-admin/internal/models"
)

// RawUser is a user record as it arrives from either backend family. Only one
// of Roles, UserType or Groups is expected to be populated.
type RawUser struct {
	ID        int64     `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone"`
	Roles     []string  `json:"roles,omitempty"`
	UserType  string    `json:"user_type,omitempty"`
	Groups    []string  `json:"groups,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// Normalize converts raw into a models.User. The roles array wins when it has
// any usable entry, then the legacy user_type, then legacy groups.
func Normalize(raw RawUser) models.User {
	return models.User{
		ID:        raw.ID,
		Username:  strings.TrimSpace(raw.Username),
		Email:     strings.TrimSpace(raw.Email),
		Phone:     strings.TrimSpace(raw.Phone),
		Roles:     CanonicalRoles(raw.Roles, raw.UserType, raw.Groups),
		CreatedAt: raw.CreatedAt,
	}
}

// CanonicalRoles picks the first populated role representation.
func CanonicalRoles(roles []string, userType string, groups []string) []string {
	if cleaned := clean(roles); len(cleaned) > 0 {
		return cleaned
	}
	if cleaned := clean([]string{userType}); len(cleaned) > 0 {
		return cleaned
	}
	if cleaned := clean(groups); len(cleaned) > 0 {
		return cleaned
	}
	return []string{}
}

func clean(in []string) []string {
	out := make([]string, 0, len(in))
	seen := make(map[string]struct{}, len(in))
	for _, name := range in {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		if _, dup := seen[name]; dup {
			continue
		}
		seen[name] = struct{}{}
		out = append(out, name)
	}
	return out
}
