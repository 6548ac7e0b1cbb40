// Package solver defines the contract between the checker and an
// external verification backend. The checker itself never evaluates or
// proves anything: it stores axioms, enumerates them, and hands them to
// whatever backend the caller plugs in.
package solver

import (
	"context"

	"github.com/nomoslang/nomos/internal/ast"
	typectx "github.com/nomoslang/nomos/internal/context"
)

// Verdict is the outcome of one verification attempt. The zero value is
// Unknown: a backend that cannot decide must not claim validity.
type Verdict int

const (
	VerdictUnknown Verdict = iota
	VerdictValid
	VerdictInvalid
)

func (v Verdict) String() string {
	switch v {
	case VerdictValid:
		return "valid"
	case VerdictInvalid:
		return "invalid"
	default:
		return "unknown"
	}
}

// Result is a backend's answer for one proposition. Counterexample is
// set only when the verdict is Invalid and the backend found a witness.
type Result struct {
	Verdict        Verdict
	Counterexample ast.Expression
}

// AxiomRef is one axiom together with the structure that declares it.
type AxiomRef struct {
	Structure   string
	Name        string
	Proposition ast.Expression
}

// Backend is an external prover or computer-algebra system. All calls
// take a context: backends are expected to be slow and cancellable.
type Backend interface {
	VerifyAxiom(ctx context.Context, axiom AxiomRef) (Result, error)
	Evaluate(ctx context.Context, expr ast.Expression) (ast.Expression, error)
	Simplify(ctx context.Context, expr ast.Expression) (ast.Expression, error)
	AreEquivalent(ctx context.Context, a, b ast.Expression) (Result, error)
}

// Axioms enumerates every axiom of every registered structure, in
// structure name order and declaration order within a structure.
func Axioms(b *typectx.Builder) []AxiomRef {
	var refs []AxiomRef
	for _, name := range b.Structs.Names() {
		def, _ := b.Structs.Get(name)
		for _, ax := range def.Axioms {
			refs = append(refs, AxiomRef{
				Structure:   name,
				Name:        ax.Name,
				Proposition: ax.Proposition,
			})
		}
	}
	return refs
}

// Report pairs an axiom with its verification outcome.
type Report struct {
	Axiom  AxiomRef
	Result Result
	Err    error
}

// VerifyAll runs every axiom of the context through the backend,
// stopping early when the context is cancelled. Backend errors are
// recorded per axiom, never fatal to the sweep.
func VerifyAll(ctx context.Context, backend Backend, b *typectx.Builder) ([]Report, error) {
	var reports []Report
	for _, ax := range Axioms(b) {
		if err := ctx.Err(); err != nil {
			return reports, err
		}
		res, err := backend.VerifyAxiom(ctx, ax)
		reports = append(reports, Report{Axiom: ax, Result: res, Err: err})
	}
	return reports, nil
}

// Unverified is the backend used when no prover is configured: every
// question comes back Unknown.
type Unverified struct{}

func (Unverified) VerifyAxiom(context.Context, AxiomRef) (Result, error) {
	return Result{Verdict: VerdictUnknown}, nil
}

func (Unverified) Evaluate(_ context.Context, expr ast.Expression) (ast.Expression, error) {
	return expr, nil
}

func (Unverified) Simplify(_ context.Context, expr ast.Expression) (ast.Expression, error) {
	return expr, nil
}

func (Unverified) AreEquivalent(context.Context, ast.Expression, ast.Expression) (Result, error) {
	return Result{Verdict: VerdictUnknown}, nil
}
