package rbac

import "github.com/hongminglow/care-admin/internal/models"

// Resolver reduces a user to a single privilege level.
type Resolver struct {
	registry *Registry
}

// NewResolver creates a resolver backed by registry.
func NewResolver(registry *Registry) *Resolver {
	return &Resolver{registry: registry}
}

var defaultResolver = NewResolver(defaultRegistry)

// Resolve returns the privilege level of user using the built-in registry.
func Resolve(user *models.User) Level {
	return defaultResolver.Resolve(user)
}

// Describe returns the matched role of user using the built-in registry.
func Describe(user *models.User) (RoleDefinition, bool) {
	return defaultResolver.Describe(user)
}

// Resolve returns LevelNone for a nil user. Otherwise the most privileged
// recognized role wins; with none recognized the user gets LevelStaff.
func (r *Resolver) Resolve(user *models.User) Level {
	if user == nil {
		return LevelNone
	}
	if def, ok := r.Describe(user); ok {
		return def.Level
	}
	return LevelStaff
}

// Describe returns the highest-level definition among the user's roles. Ties
// keep the earliest role in the user's order.
func (r *Resolver) Describe(user *models.User) (RoleDefinition, bool) {
	if user == nil {
		return RoleDefinition{}, false
	}
	var (
		best  RoleDefinition
		found bool
	)
	for _, name := range user.Roles {
		def, ok := r.registry.Lookup(name)
		if !ok {
			continue
		}
		if !found || def.Level > best.Level {
			best, found = def, true
		}
	}
	return best, found
}
