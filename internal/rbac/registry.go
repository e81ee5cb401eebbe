package rbac

import (
	"sort"
	"strings"
)

// Source tags the identity system a role name originates from.
type Source string

const (
	// SourceCore is the vocabulary of the current API's roles array.
	SourceCore Source = "core"
	// SourceLegacy is the vocabulary of the legacy user_type and groups fields.
	SourceLegacy Source = "legacy"
)

// precedence decides which entry wins when two sources define the same name.
var precedence = map[Source]int{
	SourceCore:   2,
	SourceLegacy: 1,
}

// RoleDefinition describes one named role.
type RoleDefinition struct {
	Name        string `json:"name"`
	Level       Level  `json:"level"`
	Description string `json:"description"`
	Source      Source `json:"source"`
}

var builtinRoles = []RoleDefinition{
	{Name: "Admin", Level: LevelAdmin, Description: "Full system administrator", Source: SourceCore},
	{Name: "Manager", Level: LevelManager, Description: "Manages staff, clients and rosters", Source: SourceCore},
	{Name: "Coordinator", Level: LevelCoordinator, Description: "Coordinates client care and rosters", Source: SourceCore},
	{Name: "Staff", Level: LevelStaff, Description: "Care staff member", Source: SourceCore},

	{Name: "Super_Admin", Level: LevelAdmin, Description: "Super administrator", Source: SourceLegacy},
	{Name: "Admin", Level: LevelAdmin, Description: "Administrator", Source: SourceLegacy},
	{Name: "Manager", Level: LevelManager, Description: "Service manager", Source: SourceLegacy},
	{Name: "Care_Coordinator", Level: LevelCoordinator, Description: "Care coordinator", Source: SourceLegacy},
	{Name: "Rostering_Officer", Level: LevelCoordinator, Description: "Rostering officer", Source: SourceLegacy},
	{Name: "Support_Worker", Level: LevelStaff, Description: "Support worker", Source: SourceLegacy},
}

// Registry is a read-only lookup from role name to definition across all sources.
type Registry struct {
	merged   map[string]RoleDefinition
	bySource map[Source]map[string]RoleDefinition
	all      []RoleDefinition
}

// NewRegistry merges defs into one table. When a name appears in more than one
// source the higher-precedence source wins regardless of argument order.
func NewRegistry(defs ...RoleDefinition) *Registry {
	r := &Registry{
		merged:   make(map[string]RoleDefinition, len(defs)),
		bySource: make(map[Source]map[string]RoleDefinition),
	}
	for _, def := range defs {
		def.Name = strings.TrimSpace(def.Name)
		if def.Name == "" || !def.Level.Valid() {
			continue
		}
		if r.bySource[def.Source] == nil {
			r.bySource[def.Source] = make(map[string]RoleDefinition)
		}
		r.bySource[def.Source][def.Name] = def
		r.all = append(r.all, def)

		if existing, ok := r.merged[def.Name]; ok && precedence[existing.Source] > precedence[def.Source] {
			continue
		}
		r.merged[def.Name] = def
	}
	return r
}

// Default returns the registry holding the built-in core and legacy roles.
func Default() *Registry {
	return defaultRegistry
}

var defaultRegistry = NewRegistry(builtinRoles...)

// Lookup finds name in the merged table.
func (r *Registry) Lookup(name string) (RoleDefinition, bool) {
	def, ok := r.merged[strings.TrimSpace(name)]
	return def, ok
}

// LookupIn finds name within a single source's vocabulary.
func (r *Registry) LookupIn(source Source, name string) (RoleDefinition, bool) {
	def, ok := r.bySource[source][strings.TrimSpace(name)]
	return def, ok
}

// Definitions lists every registered entry, ordered by level descending then name.
func (r *Registry) Definitions() []RoleDefinition {
	out := make([]RoleDefinition, len(r.all))
	copy(out, r.all)
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Level != out[j].Level {
			return out[i].Level > out[j].Level
		}
		if out[i].Name != out[j].Name {
			return out[i].Name < out[j].Name
		}
		return precedence[out[i].Source] > precedence[out[j].Source]
	})
	return out
}
