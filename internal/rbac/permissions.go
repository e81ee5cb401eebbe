package rbac

import (
	"errors"
	"fmt"
	"sort"

	"github.com/hongminglow/care-admin/internal/models"
)

// ErrUnknownAction indicates an action name with no configured minimum level.
var ErrUnknownAction = errors.New("unknown action")

// Action names a gated operation.
type Action string

const (
	ClientView   Action = "CLIENT_VIEW"
	ClientCreate Action = "CLIENT_CREATE"
	ClientUpdate Action = "CLIENT_UPDATE"
	ClientDelete Action = "CLIENT_DELETE"

	StaffView   Action = "STAFF_VIEW"
	StaffCreate Action = "STAFF_CREATE"
	StaffUpdate Action = "STAFF_UPDATE"
	StaffDelete Action = "STAFF_DELETE"

	RosterView   Action = "ROSTER_VIEW"
	RosterCreate Action = "ROSTER_CREATE"
	RosterUpdate Action = "ROSTER_UPDATE"
	RosterDelete Action = "ROSTER_DELETE"

	NoteView   Action = "NOTE_VIEW"
	NoteCreate Action = "NOTE_CREATE"
	NoteUpdate Action = "NOTE_UPDATE"
	NoteDelete Action = "NOTE_DELETE"

	LeaveView    Action = "LEAVE_VIEW"
	LeaveRequest Action = "LEAVE_REQUEST"
	LeaveApprove Action = "LEAVE_APPROVE"
	LeaveDelete  Action = "LEAVE_DELETE"

	BillingView   Action = "BILLING_VIEW"
	BillingCreate Action = "BILLING_CREATE"
	BillingUpdate Action = "BILLING_UPDATE"
	BillingDelete Action = "BILLING_DELETE"

	UserView   Action = "USER_VIEW"
	UserCreate Action = "USER_CREATE"
	UserUpdate Action = "USER_UPDATE"
	UserDelete Action = "USER_DELETE"
)

var permissionTable = map[Action]Level{
	ClientView:   LevelStaff,
	ClientCreate: LevelCoordinator,
	ClientUpdate: LevelCoordinator,
	ClientDelete: LevelManager,

	StaffView:   LevelStaff,
	StaffCreate: LevelManager,
	StaffUpdate: LevelManager,
	StaffDelete: LevelAdmin,

	RosterView:   LevelStaff,
	RosterCreate: LevelCoordinator,
	RosterUpdate: LevelCoordinator,
	RosterDelete: LevelManager,

	NoteView:   LevelStaff,
	NoteCreate: LevelStaff,
	NoteUpdate: LevelCoordinator,
	NoteDelete: LevelManager,

	LeaveView:    LevelStaff,
	LeaveRequest: LevelStaff,
	LeaveApprove: LevelManager,
	LeaveDelete:  LevelManager,

	BillingView:   LevelManager,
	BillingCreate: LevelManager,
	BillingUpdate: LevelAdmin,
	BillingDelete: LevelAdmin,

	UserView:   LevelManager,
	UserCreate: LevelAdmin,
	UserUpdate: LevelAdmin,
	UserDelete: LevelAdmin,
}

// Permission pairs an action with its minimum level.
type Permission struct {
	Action   Action `json:"action"`
	MinLevel Level  `json:"min_level"`
}

// MinimumLevel returns the level required for action.
func MinimumLevel(action Action) (Level, error) {
	level, ok := permissionTable[action]
	if !ok {
		return LevelNone, fmt.Errorf("%w: %q", ErrUnknownAction, string(action))
	}
	return level, nil
}

// CanPerformAction reports whether user may perform action. Unknown actions are denied.
func CanPerformAction(user *models.User, action Action) bool {
	return defaultResolver.CanPerformAction(user, action)
}

// AllowedActions lists every action user may perform, sorted by name.
func AllowedActions(user *models.User) []Action {
	return defaultResolver.AllowedActions(user)
}

// CanPerformAction is the resolver-scoped form of the package function.
func (r *Resolver) CanPerformAction(user *models.User, action Action) bool {
	required, err := MinimumLevel(action)
	if err != nil {
		return false
	}
	return r.Resolve(user) >= required
}

// AllowedActions is the resolver-scoped form of the package function.
func (r *Resolver) AllowedActions(user *models.User) []Action {
	level := r.Resolve(user)
	out := make([]Action, 0, len(permissionTable))
	for action, required := range permissionTable {
		if level >= required {
			out = append(out, action)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Permissions returns the full action table sorted by action name.
func Permissions() []Permission {
	out := make([]Permission, 0, len(permissionTable))
	for action, required := range permissionTable {
		out = append(out, Permission{Action: action, MinLevel: required})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Action < out[j].Action })
	return out
}
