package exhaustive

import (
	"strconv"

	"github.com/nomoslang/nomos/internal/ast"
	"github.com/nomoslang/nomos/internal/diagnostics"
	"github.com/nomoslang/nomos/internal/patterns"
	"github.com/nomoslang/nomos/internal/registry"
	"github.com/nomoslang/nomos/internal/typesystem"
)

// CheckPattern types a pattern against the scrutinee type it matches.
// It returns the types bound for the pattern's variables and any
// substitution learned about the scrutinee (a constructor pattern pins
// an unconstrained scrutinee variable to its owning type).
func CheckPattern(p patterns.Pattern, expected typesystem.Type, data *registry.DataRegistry, fresh func() typesystem.TVar) (map[string]typesystem.Type, typesystem.Subst, error) {
	c := &patternChecker{data: data, fresh: fresh, bindings: make(map[string]typesystem.Type), subst: typesystem.Subst{}}
	if err := c.check(p, expected); err != nil {
		return nil, nil, err
	}
	return c.bindings, c.subst, nil
}

// FieldType resolves a declared constructor field type under a parameter
// instantiation. Shared with inference, which needs the same resolution
// when typing constructor applications.
func FieldType(expr ast.TypeExpr, paramTypes map[string]typesystem.Type, data *registry.DataRegistry, fresh func() typesystem.TVar) typesystem.Type {
	c := &patternChecker{data: data, fresh: fresh}
	return c.resolveField(expr, paramTypes)
}

type patternChecker struct {
	data     *registry.DataRegistry
	fresh    func() typesystem.TVar
	bindings map[string]typesystem.Type
	subst    typesystem.Subst
}

func (c *patternChecker) check(p patterns.Pattern, expected typesystem.Type) error {
	switch pat := p.(type) {
	case patterns.Wildcard:
		return nil

	case patterns.Variable:
		c.bindings[pat.Name] = expected
		return nil

	case patterns.Constant:
		want := "String"
		if _, err := strconv.ParseFloat(pat.Literal, 64); err == nil {
			want = "Scalar"
		}
		s, err := typesystem.Unify(expected, typesystem.TData{TypeName: want, Constructor: want})
		if err != nil {
			return diagnostics.NewError(diagnostics.ErrTypeMismatch,
				"constant pattern %s does not match scrutinee type %s", pat.Literal, expected)
		}
		c.subst = c.subst.Compose(s)
		return nil

	case patterns.Constructor:
		return c.checkConstructor(pat, expected)

	case patterns.As:
		c.bindings[pat.Name] = expected
		return c.check(pat.Pattern, expected)

	default:
		return diagnostics.NewError(diagnostics.ErrBadPattern, "unsupported pattern %s", p)
	}
}

func (c *patternChecker) checkConstructor(pat patterns.Constructor, expected typesystem.Type) error {
	owner, variant, ok := c.data.Variant(pat.Name)
	if !ok {
		return diagnostics.NewError(diagnostics.ErrBadPattern,
			"unknown constructor %q in pattern", pat.Name)
	}
	if len(pat.Args) != len(variant.Fields) {
		return diagnostics.NewError(diagnostics.ErrArityMismatch,
			"constructor %q takes %d arguments, pattern has %d",
			pat.Name, len(variant.Fields), len(pat.Args))
	}
	def, _ := c.data.Type(owner)

	paramTypes := make(map[string]typesystem.Type, len(def.TypeParams))
	switch scrut := expected.(type) {
	case typesystem.TData:
		if scrut.TypeName != owner {
			return diagnostics.NewError(diagnostics.ErrBadPattern,
				"constructor %q belongs to %q, scrutinee has type %s",
				pat.Name, owner, expected)
		}
		for i, param := range def.TypeParams {
			if i < len(scrut.Args) {
				paramTypes[param.Name] = scrut.Args[i]
			}
		}
	case typesystem.TVar:
		// Unconstrained scrutinee: the pattern pins it to the owning
		// type with fresh parameters.
		args := make([]typesystem.Type, len(def.TypeParams))
		for i, param := range def.TypeParams {
			v := c.fresh()
			args[i] = v
			paramTypes[param.Name] = v
		}
		inst := typesystem.TData{TypeName: owner, Constructor: owner, Args: args}
		c.subst = c.subst.Compose(typesystem.Subst{scrut.ID: inst})
	default:
		return diagnostics.NewError(diagnostics.ErrTypeMismatch,
			"constructor pattern %s does not match scrutinee type %s", pat, expected)
	}

	for i, sub := range pat.Args {
		fieldType := c.resolveField(variant.Fields[i], paramTypes)
		if err := c.check(sub, fieldType); err != nil {
			return err
		}
	}
	return nil
}

// resolveField turns a declared field type into a concrete type under
// the scrutinee's parameter instantiation: Some(T) matched against
// Option(Scalar) gives the field the type Scalar.
func (c *patternChecker) resolveField(expr ast.TypeExpr, paramTypes map[string]typesystem.Type) typesystem.Type {
	switch t := expr.(type) {
	case ast.NamedType:
		if bound, ok := paramTypes[t.Name]; ok {
			return bound
		}
		if def, ok := c.data.Type(t.Name); ok && len(def.TypeParams) == 0 {
			return typesystem.TData{TypeName: t.Name, Constructor: t.Name}
		}
		if n, err := strconv.Atoi(t.Name); err == nil {
			return typesystem.TNat{Value: n}
		}
		return c.fresh()
	case ast.ParametricType:
		args := make([]typesystem.Type, len(t.Args))
		for i, a := range t.Args {
			args[i] = c.resolveField(a, paramTypes)
		}
		return typesystem.TData{TypeName: t.Name, Constructor: t.Name, Args: args}
	case ast.NumberLit:
		return typesystem.TNat{Value: t.Value}
	case ast.StringLit:
		return typesystem.TStr{Value: t.Value}
	default:
		return c.fresh()
	}
}
