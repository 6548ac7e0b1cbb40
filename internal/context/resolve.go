package context

import (
	"strconv"

	"github.com/nomoslang/nomos/internal/ast"
	"github.com/nomoslang/nomos/internal/diagnostics"
	"github.com/nomoslang/nomos/internal/typesystem"
)

// typeAliases maps mathematical notation to registered type names.
// Resolution normalizes names through this table before lookup.
var typeAliases = map[string]string{
	"ℝ":    "Scalar",
	"Real": "Scalar",
	"ℕ":    "Nat",
	"ℤ":    "Int",
	"ℂ":    "Complex",
	"𝔹":    "Bool",
}

func normalizeTypeName(name string) string {
	if canonical, ok := typeAliases[name]; ok {
		return canonical
	}
	return name
}

// typeParamsOf finds the declared formal parameters for a named type,
// looking at data types first and then structures.
func (b *Builder) typeParamsOf(name string) ([]ast.TypeParam, bool) {
	if def, ok := b.Data.Type(name); ok {
		return def.TypeParams, true
	}
	if def, ok := b.Structs.Get(name); ok {
		return def.TypeParams, true
	}
	return nil, false
}

// ResolveParametricType resolves a parametric type application against
// the registered definition of name. Each actual argument is read under
// the kind its formal parameter declares: Nat arguments become dimension
// values, String arguments become labels, Type arguments resolve
// recursively. Unknown names and arity mismatches are hard errors.
func (b *Builder) ResolveParametricType(name string, args []ast.TypeExpr) (typesystem.Type, error) {
	name = normalizeTypeName(name)
	params, ok := b.typeParamsOf(name)
	if !ok {
		return nil, diagnostics.NewError(diagnostics.ErrUnknownType,
			"unknown parametric type %q", name)
	}
	if len(args) != len(params) {
		return nil, diagnostics.WrapError(diagnostics.ErrArityMismatch,
			&typesystem.ArityError{Name: name, Expected: len(params), Actual: len(args)})
	}

	resolved := make([]typesystem.Type, len(args))
	for i, arg := range args {
		t, err := b.resolveUnderKind(arg, params[i].Kind)
		if err != nil {
			return nil, err
		}
		resolved[i] = t
	}
	return typesystem.TData{TypeName: name, Constructor: name, Args: resolved}, nil
}

func (b *Builder) resolveUnderKind(arg ast.TypeExpr, kind ast.Kind) (typesystem.Type, error) {
	switch kind {
	case ast.KindNat:
		n, err := evalNatExpr(arg, nil)
		if err != nil {
			return nil, err
		}
		return typesystem.TNat{Value: n}, nil
	case ast.KindString:
		lit, ok := arg.(ast.StringLit)
		if !ok {
			return nil, diagnostics.NewError(diagnostics.ErrTypeMismatch,
				"expected string argument, got %s", arg)
		}
		return typesystem.TStr{Value: lit.Value}, nil
	default:
		return b.ResolveTypeExpr(arg)
	}
}

// ResolveTypeExpr resolves a plain type expression with no parameter
// bindings in scope. Function types resolve to their final codomain.
func (b *Builder) ResolveTypeExpr(expr ast.TypeExpr) (typesystem.Type, error) {
	switch t := expr.(type) {
	case ast.NamedType:
		name := normalizeTypeName(t.Name)
		params, ok := b.typeParamsOf(name)
		if !ok {
			return nil, diagnostics.NewError(diagnostics.ErrUnknownType,
				"unknown type %q", name)
		}
		if len(params) != 0 {
			return nil, diagnostics.WrapError(diagnostics.ErrArityMismatch,
				&typesystem.ArityError{Name: name, Expected: len(params), Actual: 0})
		}
		return typesystem.TData{TypeName: name, Constructor: name}, nil
	case ast.ParametricType:
		return b.ResolveParametricType(t.Name, t.Args)
	case ast.NumberLit:
		return typesystem.TNat{Value: t.Value}, nil
	case ast.StringLit:
		return typesystem.TStr{Value: t.Value}, nil
	case ast.FunctionType:
		_, result := ast.ArrowSignature(t)
		return b.ResolveTypeExpr(result)
	default:
		return nil, diagnostics.NewError(diagnostics.ErrUnknownType,
			"cannot resolve type expression %s", expr)
	}
}

// evalNatExpr reads a type expression as a natural-number dimension.
// Named references are looked up in nats when provided, and bare numeric
// names parse as literals.
func evalNatExpr(expr ast.TypeExpr, nats map[string]int) (int, error) {
	switch t := expr.(type) {
	case ast.NumberLit:
		return t.Value, nil
	case ast.NamedType:
		if nats != nil {
			if n, ok := nats[t.Name]; ok {
				return n, nil
			}
		}
		if n, err := strconv.Atoi(t.Name); err == nil {
			return n, nil
		}
		return 0, diagnostics.NewError(diagnostics.ErrTypeMismatch,
			"dimension parameter %q is not bound to a value", t.Name)
	default:
		return 0, diagnostics.NewError(diagnostics.ErrTypeMismatch,
			"expected dimension value, got %s", expr)
	}
}
