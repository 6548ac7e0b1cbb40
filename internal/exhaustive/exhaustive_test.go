package exhaustive

import (
	"errors"
	"reflect"
	"testing"

	"github.com/nomoslang/nomos/internal/ast"
	"github.com/nomoslang/nomos/internal/diagnostics"
	"github.com/nomoslang/nomos/internal/patterns"
	"github.com/nomoslang/nomos/internal/registry"
	"github.com/nomoslang/nomos/internal/typesystem"
)

func boolDef() *ast.DataDef {
	return &ast.DataDef{Name: "Bool", Variants: []ast.DataVariant{
		{Name: "True"}, {Name: "False"},
	}}
}

func optionDef() *ast.DataDef {
	return &ast.DataDef{
		Name:       "Option",
		TypeParams: []ast.TypeParam{{Name: "T"}},
		Variants: []ast.DataVariant{
			{Name: "None"},
			{Name: "Some", Fields: []ast.TypeExpr{ast.NamedType{Name: "T"}}},
		},
	}
}

func testData(t *testing.T, defs ...*ast.DataDef) *registry.DataRegistry {
	t.Helper()
	r := registry.NewDataRegistry()
	for _, def := range defs {
		if _, err := r.Register(def); err != nil {
			t.Fatalf("register %s: %v", def.Name, err)
		}
	}
	return r
}

func freshSource() func() typesystem.TVar {
	n := 100
	return func() typesystem.TVar {
		n++
		return typesystem.TVar{ID: n}
	}
}

func TestExhaustive(t *testing.T) {
	tests := []struct {
		name    string
		cases   []Case
		missing []string
	}{
		{
			name:    "single constructor leaves the rest missing",
			cases:   []Case{{Pattern: patterns.Constructor{Name: "True"}}},
			missing: []string{"False"},
		},
		{
			name: "all constructors covered",
			cases: []Case{
				{Pattern: patterns.Constructor{Name: "True"}},
				{Pattern: patterns.Constructor{Name: "False"}},
			},
			missing: nil,
		},
		{
			name: "wildcard covers everything",
			cases: []Case{
				{Pattern: patterns.Constructor{Name: "True"}},
				{Pattern: patterns.Wildcard{}},
			},
			missing: nil,
		},
		{
			name: "variable counts as catch-all",
			cases: []Case{
				{Pattern: patterns.Variable{Name: "x"}},
			},
			missing: nil,
		},
		{
			name: "guarded catch-all does not cover",
			cases: []Case{
				{Pattern: patterns.Constructor{Name: "True"}},
				{Pattern: patterns.Wildcard{}, Guarded: true},
			},
			missing: []string{"False"},
		},
		{
			name: "guarded constructor does not cover",
			cases: []Case{
				{Pattern: patterns.Constructor{Name: "True"}, Guarded: true},
				{Pattern: patterns.Constructor{Name: "False"}},
			},
			missing: []string{"True"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CheckExhaustive(tt.cases, boolDef())
			if !reflect.DeepEqual(got, tt.missing) {
				t.Errorf("expected missing %v, got %v", tt.missing, got)
			}
		})
	}
}

func TestReachability(t *testing.T) {
	tests := []struct {
		name        string
		cases       []Case
		unreachable []int
	}{
		{
			name: "wildcard shadows later constructor",
			cases: []Case{
				{Pattern: patterns.Wildcard{}},
				{Pattern: patterns.Constructor{Name: "True"}},
			},
			unreachable: []int{1},
		},
		{
			name: "guarded wildcard shadows nothing",
			cases: []Case{
				{Pattern: patterns.Wildcard{}, Guarded: true},
				{Pattern: patterns.Constructor{Name: "True"}},
			},
			unreachable: nil,
		},
		{
			name: "same constructor repeated",
			cases: []Case{
				{Pattern: patterns.Constructor{Name: "Some", Args: []patterns.Pattern{patterns.Wildcard{}}}},
				{Pattern: patterns.Constructor{Name: "Some", Args: []patterns.Pattern{patterns.Variable{Name: "x"}}}},
			},
			unreachable: []int{1},
		},
		{
			name: "distinct constructors all reachable",
			cases: []Case{
				{Pattern: patterns.Constructor{Name: "True"}},
				{Pattern: patterns.Constructor{Name: "False"}},
			},
			unreachable: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CheckReachable(tt.cases)
			if !reflect.DeepEqual(got, tt.unreachable) {
				t.Errorf("expected unreachable %v, got %v", tt.unreachable, got)
			}
		})
	}
}

func TestCheckPatternBindsFieldType(t *testing.T) {
	data := testData(t, optionDef(), &ast.DataDef{Name: "Scalar"})
	scrutinee := typesystem.TData{TypeName: "Option", Constructor: "Option",
		Args: []typesystem.Type{typesystem.TData{TypeName: "Scalar", Constructor: "Scalar"}}}

	pat := patterns.Constructor{Name: "Some", Args: []patterns.Pattern{patterns.Variable{Name: "x"}}}
	bindings, _, err := CheckPattern(pat, scrutinee, data, freshSource())
	if err != nil {
		t.Fatalf("check: %v", err)
	}
	if got := bindings["x"].String(); got != "Scalar" {
		t.Errorf("expected x: Scalar, got %s", got)
	}
}

func TestCheckPatternPinsVariableScrutinee(t *testing.T) {
	data := testData(t, optionDef())
	scrutinee := typesystem.TVar{ID: 1}

	pat := patterns.Constructor{Name: "Some", Args: []patterns.Pattern{patterns.Variable{Name: "x"}}}
	bindings, subst, err := CheckPattern(pat, scrutinee, data, freshSource())
	if err != nil {
		t.Fatalf("check: %v", err)
	}
	pinned, ok := subst[1].(typesystem.TData)
	if !ok || pinned.TypeName != "Option" {
		t.Fatalf("scrutinee should be pinned to Option, got %v", subst[1])
	}
	if !reflect.DeepEqual(bindings["x"], pinned.Args[0]) {
		t.Errorf("x should share the instantiated parameter, got %v vs %v", bindings["x"], pinned.Args[0])
	}
}

func TestCheckPatternWrongOwner(t *testing.T) {
	data := testData(t, optionDef(), boolDef())
	scrutinee := typesystem.TData{TypeName: "Option", Constructor: "Option",
		Args: []typesystem.Type{typesystem.TVar{ID: 1}}}

	_, _, err := CheckPattern(patterns.Constructor{Name: "True"}, scrutinee, data, freshSource())
	var de *diagnostics.DiagnosticError
	if !errors.As(err, &de) || de.Code != diagnostics.ErrBadPattern {
		t.Fatalf("expected bad-pattern error, got %v", err)
	}
}

func TestCheckPatternArity(t *testing.T) {
	data := testData(t, optionDef())
	scrutinee := typesystem.TData{TypeName: "Option", Constructor: "Option",
		Args: []typesystem.Type{typesystem.TVar{ID: 1}}}

	_, _, err := CheckPattern(patterns.Constructor{Name: "Some"}, scrutinee, data, freshSource())
	var de *diagnostics.DiagnosticError
	if !errors.As(err, &de) || de.Code != diagnostics.ErrArityMismatch {
		t.Fatalf("expected arity error, got %v", err)
	}
}

func TestCheckPatternUnknownConstructor(t *testing.T) {
	data := testData(t, optionDef())
	_, _, err := CheckPattern(patterns.Constructor{Name: "Sum"}, typesystem.TVar{ID: 1}, data, freshSource())
	var de *diagnostics.DiagnosticError
	if !errors.As(err, &de) || de.Code != diagnostics.ErrBadPattern {
		t.Fatalf("expected bad-pattern error, got %v", err)
	}
}

func TestCheckPatternAsBindsWhole(t *testing.T) {
	data := testData(t, optionDef(), &ast.DataDef{Name: "Scalar"})
	scrutinee := typesystem.TData{TypeName: "Option", Constructor: "Option",
		Args: []typesystem.Type{typesystem.TData{TypeName: "Scalar", Constructor: "Scalar"}}}

	pat := patterns.As{Name: "whole", Pattern: patterns.Constructor{
		Name: "Some", Args: []patterns.Pattern{patterns.Variable{Name: "x"}}}}
	bindings, _, err := CheckPattern(pat, scrutinee, data, freshSource())
	if err != nil {
		t.Fatalf("check: %v", err)
	}
	if bindings["whole"].String() != "Option(Scalar)" {
		t.Errorf("expected whole: Option(Scalar), got %s", bindings["whole"])
	}
	if bindings["x"].String() != "Scalar" {
		t.Errorf("expected x: Scalar, got %s", bindings["x"])
	}
}
