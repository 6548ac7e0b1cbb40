// Package registry owns the canonical record of loaded data types,
// structures, and implementation bindings, and provides lookup by name.
// It stores already-parsed items; no syntax is handled here.
package registry

import (
	"sort"

	"github.com/samber/lo"

	"github.com/nomoslang/nomos/internal/ast"
	"github.com/nomoslang/nomos/internal/diagnostics"
)

type variantEntry struct {
	TypeName string
	Variant  ast.DataVariant
}

// DataRegistry stores algebraic data type definitions and indexes their
// constructors. Constructor names are global: two data types may not
// declare the same constructor.
type DataRegistry struct {
	types    map[string]*ast.DataDef
	variants map[string]variantEntry
}

func NewDataRegistry() *DataRegistry {
	return &DataRegistry{
		types:    make(map[string]*ast.DataDef),
		variants: make(map[string]variantEntry),
	}
}

// Register inserts a data type definition. Re-registering an already
// loaded name is a skip, reported via skipped so the caller can warn.
// A constructor clashing with one owned by a different type is an error.
func (r *DataRegistry) Register(def *ast.DataDef) (skipped bool, err error) {
	if _, ok := r.types[def.Name]; ok {
		return true, nil
	}

	for _, v := range def.Variants {
		if existing, ok := r.variants[v.Name]; ok {
			return false, diagnostics.NewError(diagnostics.ErrOperationConflict,
				"constructor %q of data type %q conflicts with constructor of %q",
				v.Name, def.Name, existing.TypeName)
		}
	}

	for _, v := range def.Variants {
		r.variants[v.Name] = variantEntry{TypeName: def.Name, Variant: v}
	}
	r.types[def.Name] = def
	return false, nil
}

// Type looks up a data type definition by name.
func (r *DataRegistry) Type(name string) (*ast.DataDef, bool) {
	def, ok := r.types[name]
	return def, ok
}

// Variant looks up a constructor by name, returning the owning type name
// and the variant definition.
func (r *DataRegistry) Variant(name string) (string, ast.DataVariant, bool) {
	e, ok := r.variants[name]
	return e.TypeName, e.Variant, ok
}

// HasVariant reports whether name is a registered constructor.
func (r *DataRegistry) HasVariant(name string) bool {
	_, ok := r.variants[name]
	return ok
}

// TypeNames returns all registered type names, sorted.
func (r *DataRegistry) TypeNames() []string {
	names := lo.Keys(r.types)
	sort.Strings(names)
	return names
}

// Merge folds another data registry into this one, keeping the first
// definition on duplicates and reporting each skip as a warning. A
// constructor conflict rejects the merge before anything is copied.
func (r *DataRegistry) Merge(other *DataRegistry) ([]diagnostics.Diagnostic, error) {
	names := other.TypeNames()
	for _, name := range names {
		if _, ok := r.types[name]; ok {
			continue
		}
		for _, v := range other.types[name].Variants {
			if existing, ok := r.variants[v.Name]; ok {
				return nil, diagnostics.NewError(diagnostics.ErrOperationConflict,
					"constructor %q of data type %q conflicts with constructor of %q",
					v.Name, name, existing.TypeName)
			}
		}
	}

	var warnings []diagnostics.Diagnostic
	for _, name := range names {
		skipped, err := r.Register(other.types[name])
		if err != nil {
			return warnings, err
		}
		if skipped {
			warnings = append(warnings, diagnostics.Warn(diagnostics.WarnDuplicateData,
				"data type %q already defined, keeping first definition", name))
		}
	}
	return warnings, nil
}
