// Package context implements the context builder: it merges loaded
// definition sets into one queryable registry and resolves operations
// and parametric types against it. The builder is the single dispatch
// path for operation typing; nothing about a particular operation name
// is hardcoded here beyond the documented literal-constructor set.
package context

import (
	"github.com/nomoslang/nomos/internal/ast"
	"github.com/nomoslang/nomos/internal/diagnostics"
	"github.com/nomoslang/nomos/internal/registry"
)

// Builder owns the merged registries for one checking context. It is
// built during a load phase and treated as read-only afterward; separate
// checks may then share it freely.
type Builder struct {
	Data    *registry.DataRegistry
	Structs *registry.StructureRegistry
	Ops     *registry.OperationRegistry

	functions map[string]*ast.FunctionDef
}

func NewBuilder() *Builder {
	return &Builder{
		Data:      registry.NewDataRegistry(),
		Structs:   registry.NewStructureRegistry(),
		Ops:       registry.NewOperationRegistry(),
		functions: make(map[string]*ast.FunctionDef),
	}
}

// Load inserts already-parsed top-level items. Hard errors leave the
// registries untouched by the offending item; duplicate definitions are
// skipped and reported as warnings so definition sources stay additive.
func (b *Builder) Load(items []ast.TopLevel) ([]diagnostics.Diagnostic, error) {
	var warnings []diagnostics.Diagnostic

	for _, item := range items {
		switch def := item.(type) {
		case *ast.DataDef:
			skipped, err := b.Data.Register(def)
			if err != nil {
				return warnings, err
			}
			if skipped {
				warnings = append(warnings, diagnostics.Warn(diagnostics.WarnDuplicateData,
					"data type %q already defined, keeping first definition", def.Name))
			}

		case *ast.StructureDef:
			if _, ok := b.Structs.Get(def.Name); ok {
				warnings = append(warnings, diagnostics.Warn(diagnostics.WarnDuplicateStructure,
					"structure %q already defined, keeping first definition", def.Name))
				continue
			}
			// Validate every operation before committing anything, so a
			// conflict leaves neither the structure nor a subset of its
			// operations behind.
			for _, op := range def.Operations {
				if owner, ok := b.Ops.StructureFor(op.Name); ok && owner != def.Name {
					return warnings, diagnostics.NewError(diagnostics.ErrOperationConflict,
						"operation %q defined in both %q and %q", op.Name, owner, def.Name)
				}
			}
			b.Structs.Register(def)
			for _, op := range def.Operations {
				if err := b.Ops.RegisterOperation(def.Name, op.Name); err != nil {
					return warnings, err
				}
			}

		case *ast.OperationDecl:
			b.Ops.RegisterTopLevel(def.Name, def.Signature)

		case *ast.ImplementsDef:
			if _, ok := b.Structs.Get(def.StructureName); !ok {
				return warnings, diagnostics.NewError(diagnostics.ErrUnknownType,
					"implements binding names unknown structure %q", def.StructureName)
			}
			if b.hasImplements(def) {
				warnings = append(warnings, diagnostics.Warn(diagnostics.WarnDuplicateImplements,
					"duplicate implements binding for %q", def.StructureName))
				continue
			}
			b.Ops.RegisterImplements(*def)

		case *ast.FunctionDef:
			b.functions[def.Name] = def
		}
	}

	return warnings, nil
}

func (b *Builder) hasImplements(def *ast.ImplementsDef) bool {
	want := renderImplements(def)
	for _, existing := range b.Ops.Implementations(def.StructureName) {
		if renderImplements(&existing) == want {
			return true
		}
	}
	return false
}

func renderImplements(def *ast.ImplementsDef) string {
	s := def.StructureName + "("
	for i, arg := range def.TypeArgs {
		if i > 0 {
			s += ", "
		}
		s += arg.String()
	}
	return s + ")"
}

// Function looks up a loaded function definition.
func (b *Builder) Function(name string) (*ast.FunctionDef, bool) {
	def, ok := b.functions[name]
	return def, ok
}

// Merge combines another already-built context into this one: duplicate
// structures and data types are skipped with a warning, an operation
// claimed by two unrelated structures rejects the merge before anything
// is mutated.
func (b *Builder) Merge(other *Builder) ([]diagnostics.Diagnostic, error) {
	// Conflict pre-check so a failed merge leaves this builder intact.
	for _, op := range other.Ops.OperationNames() {
		theirs, ok := other.Ops.StructureFor(op)
		if !ok {
			continue
		}
		if ours, ok := b.Ops.StructureFor(op); ok && ours != theirs {
			return nil, diagnostics.NewError(diagnostics.ErrOperationConflict,
				"operation %q defined in both %q and %q", op, ours, theirs)
		}
	}

	warnings, err := b.Data.Merge(other.Data)
	if err != nil {
		return warnings, err
	}

	for _, name := range other.Structs.Names() {
		def, _ := other.Structs.Get(name)
		if b.Structs.Register(def) {
			warnings = append(warnings, diagnostics.Warn(diagnostics.WarnDuplicateStructure,
				"structure %q already defined, keeping first definition", name))
		}
	}

	if err := b.Ops.Merge(other.Ops); err != nil {
		return warnings, err
	}

	for name, def := range other.functions {
		if _, ok := b.functions[name]; !ok {
			b.functions[name] = def
		}
	}

	return warnings, nil
}
