// Package nomos is the type-checking core of a structure-oriented
// mathematical specification language. A Context holds the registered
// data types, structures and operations; expressions are checked
// against it with Hindley-Milner inference. The package never prints:
// every finding comes back as a value.
package nomos

import (
	stdcontext "context"
	"fmt"

	"github.com/nomoslang/nomos/internal/ast"
	typectx "github.com/nomoslang/nomos/internal/context"
	"github.com/nomoslang/nomos/internal/infer"
	"github.com/nomoslang/nomos/internal/prelude"
	"github.com/nomoslang/nomos/internal/solver"
	"github.com/nomoslang/nomos/internal/typesystem"
)

// Context is an immutable-after-load checking context. There is no
// global registry: callers create as many independent contexts as they
// need and merge them explicitly.
type Context struct {
	builder *typectx.Builder
}

// NewContext returns an empty context with nothing registered.
func NewContext() *Context {
	return &Context{builder: typectx.NewBuilder()}
}

// Bootstrap returns a context preloaded with the standard prelude: the
// base data types, arithmetic and ordering structures, and the usual
// analytic operations.
func Bootstrap() (*Context, []Diagnostic, error) {
	defs, err := prelude.Definitions()
	if err != nil {
		return nil, nil, err
	}
	c := NewContext()
	warnings, err := c.Load(defs)
	if err != nil {
		return nil, warnings, err
	}
	return c, warnings, nil
}

// Load registers already-parsed top-level items. Duplicates are skipped
// with a warning; conflicting operation ownership is a hard error that
// leaves the offending item out.
func (c *Context) Load(items []TopLevel) ([]Diagnostic, error) {
	return c.builder.Load(items)
}

// Merge folds another context into this one under the same duplicate
// and conflict rules as Load.
func (c *Context) Merge(other *Context) ([]Diagnostic, error) {
	return c.builder.Merge(other.builder)
}

// Infer types a single expression in a fresh inference session. The
// returned diagnostics are advisory warnings; a non-nil error means the
// expression does not type.
func (c *Context) Infer(expr Expression) (Type, []Diagnostic, error) {
	return c.InferWith(nil, expr)
}

// InferWith types an expression with some names pre-bound, e.g. the
// free variables of an axiom under test.
func (c *Context) InferWith(env map[string]Type, expr Expression) (Type, []Diagnostic, error) {
	session := infer.NewSession(c.builder)
	for name, t := range env {
		session.Bind(name, t)
	}
	got, err := session.Infer(expr)
	return got, session.Diagnostics(), err
}

// ResolveType resolves a type expression against the registered
// definitions, e.g. for rendering a user annotation.
func (c *Context) ResolveType(expr TypeExpr) (Type, error) {
	return c.builder.ResolveTypeExpr(expr)
}

// DefinitionResult is the outcome of checking one function definition.
type DefinitionResult struct {
	Name        string
	Type        Type
	Diagnostics []Diagnostic
	Err         error
}

// CheckDefinitions checks each definition in its own session, so one
// failing definition cannot contaminate the constraints of another.
// Results come back in input order.
func (c *Context) CheckDefinitions(defs []*FunctionDef) []DefinitionResult {
	results := make([]DefinitionResult, len(defs))
	for i, def := range defs {
		t, diags, err := c.checkDefinition(def)
		results[i] = DefinitionResult{Name: def.Name, Type: t, Diagnostics: diags, Err: err}
	}
	return results
}

func (c *Context) checkDefinition(def *ast.FunctionDef) (typesystem.Type, []Diagnostic, error) {
	session := infer.NewSession(c.builder)

	var declared typesystem.Type
	if def.Annotation != nil {
		argExprs, resultExpr := ast.ArrowSignature(def.Annotation)
		if len(argExprs) != len(def.Params) {
			return nil, nil, fmt.Errorf("definition %s: annotation has %d parameters, function has %d",
				def.Name, len(argExprs), len(def.Params))
		}
		for i, param := range def.Params {
			t, err := c.builder.ResolveTypeExpr(argExprs[i])
			if err != nil {
				return nil, nil, fmt.Errorf("definition %s: %w", def.Name, err)
			}
			session.Bind(param, t)
		}
		t, err := c.builder.ResolveTypeExpr(resultExpr)
		if err != nil {
			return nil, nil, fmt.Errorf("definition %s: %w", def.Name, err)
		}
		declared = t
	} else {
		for _, param := range def.Params {
			session.Bind(param, session.Fresh())
		}
	}

	got, err := session.Infer(def.Body)
	if err != nil {
		return nil, session.Diagnostics(), fmt.Errorf("definition %s: %w", def.Name, err)
	}
	if declared != nil {
		if _, err := typesystem.Unify(got, declared); err != nil {
			return nil, session.Diagnostics(),
				fmt.Errorf("definition %s: body type %s does not match declared %s: %w",
					def.Name, got, declared, err)
		}
		return declared, session.Diagnostics(), nil
	}
	return got, session.Diagnostics(), nil
}

// Axioms enumerates the axioms of every registered structure.
func (c *Context) Axioms() []solver.AxiomRef {
	return solver.Axioms(c.builder)
}

// Verify runs every registered axiom through a verification backend.
func (c *Context) Verify(ctx stdcontext.Context, backend solver.Backend) ([]solver.Report, error) {
	return solver.VerifyAll(ctx, backend, c.builder)
}
