// Package infer implements type inference over expressions. A Session
// holds the mutable state of one inference run: the variable counter,
// the environment, and the accumulated substitution. Each top-level
// definition gets its own session, so a failure in one definition can
// never poison the constraints of another.
package infer

import (
	"fmt"
	"strings"

	"github.com/benbjohnson/immutable"

	"github.com/nomoslang/nomos/internal/ast"
	"github.com/nomoslang/nomos/internal/context"
	"github.com/nomoslang/nomos/internal/diagnostics"
	"github.com/nomoslang/nomos/internal/exhaustive"
	"github.com/nomoslang/nomos/internal/registry"
	"github.com/nomoslang/nomos/internal/typesystem"
)

func scalarType() typesystem.Type {
	return typesystem.TData{TypeName: "Scalar", Constructor: "Scalar"}
}

func stringType() typesystem.Type {
	return typesystem.TData{TypeName: "String", Constructor: "String"}
}

func boolType() typesystem.Type {
	return typesystem.TData{TypeName: "Bool", Constructor: "Bool"}
}

// Session is one inference run. The environment is an immutable map so
// match cases can extend it locally without copying: restoring the
// outer scope is keeping the old pointer.
type Session struct {
	builder *context.Builder
	counter int
	env     *immutable.Map[string, typesystem.Type]
	subst   typesystem.Subst
	diags   []diagnostics.Diagnostic
}

// NewSession creates a session over a built context. builder may be nil,
// in which case every operation application gets a fresh result variable
// and constructor patterns cannot be validated.
func NewSession(builder *context.Builder) *Session {
	return &Session{
		builder: builder,
		env:     immutable.NewMap[string, typesystem.Type](nil),
		subst:   typesystem.Subst{},
	}
}

// Fresh returns a new inference variable, unique within the session.
func (s *Session) Fresh() typesystem.TVar {
	s.counter++
	return typesystem.TVar{ID: s.counter}
}

// Bind introduces a name with a known type, e.g. a function parameter.
func (s *Session) Bind(name string, t typesystem.Type) {
	s.env = s.env.Set(name, t)
}

// Diagnostics returns the warnings collected so far, in emission order.
func (s *Session) Diagnostics() []diagnostics.Diagnostic {
	return s.diags
}

// Subst returns the substitution accumulated so far.
func (s *Session) Subst() typesystem.Subst {
	return s.subst
}

// Infer infers the type of an expression and returns it in normal form
// under the session's substitution.
func (s *Session) Infer(expr ast.Expression) (typesystem.Type, error) {
	t, err := s.infer(expr)
	if err != nil {
		return nil, err
	}
	return t.Apply(s.subst), nil
}

func (s *Session) infer(expr ast.Expression) (typesystem.Type, error) {
	switch e := expr.(type) {
	case ast.Const:
		return scalarType(), nil
	case ast.Str:
		return stringType(), nil
	case ast.Placeholder:
		return s.Fresh(), nil
	case ast.Ident:
		return s.inferIdent(e)
	case ast.Operation:
		return s.inferOperation(e)
	case ast.Match:
		return s.inferMatch(e)
	default:
		return nil, diagnostics.NewError(diagnostics.ErrTypeMismatch,
			"cannot infer type of expression %s", expr)
	}
}

// inferIdent decides whether a bare identifier is a nullary constructor
// or a variable. Constructors win; everything else is looked up in the
// environment and bound to a fresh variable on first sight.
func (s *Session) inferIdent(e ast.Ident) (typesystem.Type, error) {
	if s.builder != nil {
		if owner, variant, ok := s.builder.Data.Variant(e.Name); ok && len(variant.Fields) == 0 {
			t, _ := s.instantiate(owner)
			return t, nil
		}
	}
	if t, ok := s.env.Get(e.Name); ok {
		return t, nil
	}
	v := s.Fresh()
	s.env = s.env.Set(e.Name, v)
	return v, nil
}

// instantiate builds the owning type of a constructor with fresh
// variables for each declared parameter, returning the parameter
// instantiation alongside.
func (s *Session) instantiate(owner string) (typesystem.Type, map[string]typesystem.Type) {
	def, _ := s.builder.Data.Type(owner)
	paramTypes := make(map[string]typesystem.Type, len(def.TypeParams))
	args := make([]typesystem.Type, len(def.TypeParams))
	for i, p := range def.TypeParams {
		v := s.Fresh()
		args[i] = v
		paramTypes[p.Name] = v
	}
	return typesystem.TData{TypeName: owner, Constructor: owner, Args: args}, paramTypes
}

func (s *Session) inferOperation(e ast.Operation) (typesystem.Type, error) {
	if t, handled, err := s.inferLiteral(e); handled {
		return t, err
	}

	if s.builder != nil && s.builder.Data.HasVariant(e.Name) {
		return s.inferConstructorApp(e)
	}

	argTypes := make([]typesystem.Type, len(e.Args))
	for i, arg := range e.Args {
		t, err := s.infer(arg)
		if err != nil {
			return nil, err
		}
		argTypes[i] = t.Apply(s.subst)
	}

	if s.builder == nil {
		return s.Fresh(), nil
	}
	return s.builder.InferOperationType(e.Name, argTypes, s.Fresh)
}

// inferConstructorApp types an application of a registered constructor,
// e.g. Some(x): the owner type is instantiated with fresh parameters and
// each argument unifies with its declared field type.
func (s *Session) inferConstructorApp(e ast.Operation) (typesystem.Type, error) {
	owner, variant, _ := s.builder.Data.Variant(e.Name)
	if len(e.Args) != len(variant.Fields) {
		return nil, diagnostics.NewError(diagnostics.ErrArityMismatch,
			"constructor %q takes %d arguments, got %d", e.Name, len(variant.Fields), len(e.Args))
	}
	result, paramTypes := s.instantiate(owner)

	for i, arg := range e.Args {
		argType, err := s.infer(arg)
		if err != nil {
			return nil, err
		}
		fieldType := exhaustive.FieldType(variant.Fields[i], paramTypes, s.builder.Data, s.Fresh)
		if err := s.unify(argType, fieldType); err != nil {
			return nil, diagnostics.WrapError(diagnostics.ErrTypeMismatch,
				fmt.Errorf("argument %d of %s: %w", i+1, e.Name, err))
		}
	}
	return result, nil
}

func (s *Session) inferMatch(e ast.Match) (typesystem.Type, error) {
	if len(e.Cases) == 0 {
		return nil, diagnostics.NewError(diagnostics.ErrBadPattern,
			"match on %s has no cases", e.Scrutinee)
	}
	scrutType, err := s.infer(e.Scrutinee)
	if err != nil {
		return nil, err
	}

	data := s.dataRegistry()
	cases := make([]exhaustive.Case, len(e.Cases))
	var result typesystem.Type

	for i, c := range e.Cases {
		cases[i] = exhaustive.Case{Pattern: c.Pattern, Guarded: c.Guard != nil}

		outer := s.env
		bindings, sub, err := exhaustive.CheckPattern(c.Pattern, scrutType.Apply(s.subst), data, s.Fresh)
		if err != nil {
			return nil, fmt.Errorf("case %d: %w", i+1, err)
		}
		s.subst = s.subst.Compose(sub)
		for name, t := range bindings {
			s.env = s.env.Set(name, t)
		}

		if c.Guard != nil {
			guardType, err := s.infer(c.Guard)
			if err != nil {
				return nil, err
			}
			if err := s.unify(guardType, boolType()); err != nil {
				return nil, diagnostics.WrapError(diagnostics.ErrTypeMismatch,
					fmt.Errorf("guard of case %d: %w", i+1, err))
			}
		}

		bodyType, err := s.infer(c.Body)
		if err != nil {
			return nil, err
		}
		s.env = outer

		if result == nil {
			result = bodyType
			continue
		}
		if err := s.unify(result, bodyType); err != nil {
			return nil, diagnostics.WrapError(diagnostics.ErrTypeMismatch,
				fmt.Errorf("case %d: %w", i+1, err))
		}
	}

	s.warnMatch(e, cases, scrutType)
	return result, nil
}

// warnMatch emits the advisory coverage diagnostics for a match: missing
// constructors when the scrutinee's data type is known, and cases
// shadowed by an earlier one.
func (s *Session) warnMatch(e ast.Match, cases []exhaustive.Case, scrutType typesystem.Type) {
	if data, ok := scrutType.Apply(s.subst).(typesystem.TData); ok && s.builder != nil {
		if def, ok := s.builder.Data.Type(data.TypeName); ok {
			if missing := exhaustive.CheckExhaustive(cases, def); len(missing) > 0 {
				s.diags = append(s.diags, diagnostics.Warn(diagnostics.WarnNonExhaustiveMatch,
					"match on %s is not exhaustive, missing: %s",
					data.TypeName, strings.Join(missing, ", ")))
			}
		}
	}
	for _, idx := range exhaustive.CheckReachable(cases) {
		s.diags = append(s.diags, diagnostics.Warn(diagnostics.WarnUnreachablePattern,
			"case %d of match on %s is unreachable", idx+1, e.Scrutinee))
	}
}

func (s *Session) dataRegistry() *registry.DataRegistry {
	if s.builder != nil {
		return s.builder.Data
	}
	return registry.NewDataRegistry()
}

func (s *Session) unify(a, b typesystem.Type) error {
	sub, err := typesystem.Unify(a.Apply(s.subst), b.Apply(s.subst))
	if err != nil {
		return err
	}
	s.subst = s.subst.Compose(sub)
	return nil
}
