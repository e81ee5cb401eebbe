package rbac

import "fmt"

// Level is an ordered privilege tier. Higher values grant more access.
type Level int

const (
	LevelNone        Level = 0 // unauthenticated
	LevelStaff       Level = 1 // default for any authenticated user
	LevelCoordinator Level = 2
	LevelManager     Level = 3
	LevelAdmin       Level = 4
)

// Valid reports whether l lies within the defined tiers.
func (l Level) Valid() bool {
	return l >= LevelNone && l <= LevelAdmin
}

func (l Level) String() string {
	switch l {
	case LevelNone:
		return "none"
	case LevelStaff:
		return "staff"
	case LevelCoordinator:
		return "coordinator"
	case LevelManager:
		return "manager"
	case LevelAdmin:
		return "admin"
	default:
		return fmt.Sprintf("level(%d)", int(l))
	}
}
