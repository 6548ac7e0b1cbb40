package registry

import (
	"sort"

	"github.com/samber/lo"

	"github.com/nomoslang/nomos/internal/ast"
)

// StructureRegistry stores structure definitions by name. Structures are
// loaded once; re-loading a name is a non-fatal skip, never an overwrite.
type StructureRegistry struct {
	structures map[string]*ast.StructureDef
}

func NewStructureRegistry() *StructureRegistry {
	return &StructureRegistry{structures: make(map[string]*ast.StructureDef)}
}

// Register inserts a structure definition, reporting a skip when the
// name is already taken.
func (r *StructureRegistry) Register(def *ast.StructureDef) (skipped bool) {
	if _, ok := r.structures[def.Name]; ok {
		return true
	}
	r.structures[def.Name] = def
	return false
}

// Get looks up a structure definition by name.
func (r *StructureRegistry) Get(name string) (*ast.StructureDef, bool) {
	def, ok := r.structures[name]
	return def, ok
}

// Names returns all registered structure names, sorted.
func (r *StructureRegistry) Names() []string {
	names := lo.Keys(r.structures)
	sort.Strings(names)
	return names
}
