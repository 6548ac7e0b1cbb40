package registry

import (
	"sort"

	"github.com/samber/lo"

	"github.com/nomoslang/nomos/internal/ast"
	"github.com/nomoslang/nomos/internal/diagnostics"
)

// OperationRegistry indexes which structure owns each operation name.
// Ownership is exclusive across a merged program: two unrelated
// structures claiming the same operation is a hard conflict, never a
// silent override.
type OperationRegistry struct {
	opOwner    map[string]string
	structOps  map[string][]string
	toplevel   map[string]ast.TypeExpr
	implements map[string][]ast.ImplementsDef
}

func NewOperationRegistry() *OperationRegistry {
	return &OperationRegistry{
		opOwner:    make(map[string]string),
		structOps:  make(map[string][]string),
		toplevel:   make(map[string]ast.TypeExpr),
		implements: make(map[string][]ast.ImplementsDef),
	}
}

// RegisterOperation records that structure owns the named operation.
// Registering the same pair twice is idempotent; a different owner is an
// OperationConflict.
func (r *OperationRegistry) RegisterOperation(structure, operation string) error {
	if owner, ok := r.opOwner[operation]; ok {
		if owner == structure {
			return nil
		}
		return diagnostics.NewError(diagnostics.ErrOperationConflict,
			"operation %q defined in both %q and %q", operation, owner, structure)
	}
	r.opOwner[operation] = structure
	r.structOps[structure] = append(r.structOps[structure], operation)
	return nil
}

// RegisterTopLevel records a free-standing operation declaration such as
// operation sin : Scalar → Scalar.
func (r *OperationRegistry) RegisterTopLevel(name string, sig ast.TypeExpr) {
	r.toplevel[name] = sig
}

// TopLevel returns the signature of a top-level operation.
func (r *OperationRegistry) TopLevel(name string) (ast.TypeExpr, bool) {
	sig, ok := r.toplevel[name]
	return sig, ok
}

// StructureFor returns the structure that owns an operation.
func (r *OperationRegistry) StructureFor(operation string) (string, bool) {
	owner, ok := r.opOwner[operation]
	return owner, ok
}

// OperationsOf returns the operations owned by a structure, sorted.
func (r *OperationRegistry) OperationsOf(structure string) []string {
	ops := append([]string(nil), r.structOps[structure]...)
	sort.Strings(ops)
	return ops
}

// OperationNames returns every known operation name (owned and
// top-level), sorted. Used for did-you-mean suggestions.
func (r *OperationRegistry) OperationNames() []string {
	names := lo.Uniq(append(lo.Keys(r.opOwner), lo.Keys(r.toplevel)...))
	sort.Strings(names)
	return names
}

// RegisterImplements records an implements binding for its structure.
func (r *OperationRegistry) RegisterImplements(def ast.ImplementsDef) {
	r.implements[def.StructureName] = append(r.implements[def.StructureName], def)
}

// Implementations returns the bindings recorded for a structure.
func (r *OperationRegistry) Implementations(structure string) []ast.ImplementsDef {
	return r.implements[structure]
}

// HasImplementation reports whether the named structure has a binding
// whose first type argument names the given type.
func (r *OperationRegistry) HasImplementation(structure, typeName string) bool {
	return lo.SomeBy(r.implements[structure], func(def ast.ImplementsDef) bool {
		if len(def.TypeArgs) == 0 {
			return false
		}
		switch arg := def.TypeArgs[0].(type) {
		case ast.NamedType:
			return arg.Name == typeName
		case ast.ParametricType:
			return arg.Name == typeName
		default:
			return false
		}
	})
}

// Merge folds another operation registry into this one. Operation
// ownership conflicts abort the merge; nothing else can fail.
func (r *OperationRegistry) Merge(other *OperationRegistry) error {
	ops := lo.Keys(other.opOwner)
	sort.Strings(ops)
	for _, op := range ops {
		if err := r.RegisterOperation(other.opOwner[op], op); err != nil {
			return err
		}
	}
	for name, sig := range other.toplevel {
		if _, ok := r.toplevel[name]; !ok {
			r.toplevel[name] = sig
		}
	}
	for _, defs := range other.implements {
		for _, def := range defs {
			r.RegisterImplements(def)
		}
	}
	return nil
}
