// Package ast holds the expression tree and top-level definition items
// consumed by the checker. The concrete-syntax parser that produces these
// nodes lives outside this module; everything here is already parsed.
package ast

import (
	"fmt"
	"strings"

	"github.com/nomoslang/nomos/internal/patterns"
)

// Expression is the interface for all expression nodes.
type Expression interface {
	String() string
	exprNode()
}

// Const is a numeric literal, kept in source form.
type Const struct {
	Value string
}

func (Const) exprNode()        {}
func (e Const) String() string { return e.Value }

// Str is a string literal.
type Str struct {
	Value string
}

func (Str) exprNode()        {}
func (e Str) String() string { return fmt.Sprintf("%q", e.Value) }

// Ident is an identifier: a variable reference or a nullary data
// constructor. Which of the two it is gets decided during inference, by
// asking the registry.
type Ident struct {
	Name string
}

func (Ident) exprNode()        {}
func (e Ident) String() string { return e.Name }

// Placeholder is an unfilled hole in a document; its type is always a
// fresh variable.
type Placeholder struct {
	Label string
}

func (Placeholder) exprNode() {}
func (e Placeholder) String() string {
	if e.Label != "" {
		return "?" + e.Label
	}
	return "?"
}

// Operation is the application of a named operation to ordered arguments.
type Operation struct {
	Name string
	Args []Expression
}

func (Operation) exprNode() {}
func (e Operation) String() string {
	parts := make([]string, len(e.Args))
	for i, a := range e.Args {
		parts[i] = a.String()
	}
	return fmt.Sprintf("%s(%s)", e.Name, strings.Join(parts, ", "))
}

// MatchCase is one case of a match expression. Guard may be nil.
// Variables bound by Pattern are visible in Guard and Body only.
type MatchCase struct {
	Pattern patterns.Pattern
	Guard   Expression
	Body    Expression
}

// Match is a match expression with at least one case.
type Match struct {
	Scrutinee Expression
	Cases     []MatchCase
}

func (Match) exprNode() {}
func (e Match) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "match %s {", e.Scrutinee)
	for i, c := range e.Cases {
		if i > 0 {
			b.WriteString(" |")
		}
		fmt.Fprintf(&b, " %s", c.Pattern)
		if c.Guard != nil {
			fmt.Fprintf(&b, " if %s", c.Guard)
		}
		fmt.Fprintf(&b, " => %s", c.Body)
	}
	b.WriteString(" }")
	return b.String()
}

// Terms: expressions present themselves to the pattern matcher as
// constructor applications or atoms.

// Constructor implements patterns.Term.
func (e Operation) Constructor() (string, []patterns.Term, bool) {
	args := make([]patterns.Term, len(e.Args))
	for i, a := range e.Args {
		args[i] = a.(patterns.Term)
	}
	return e.Name, args, true
}

// Atom implements patterns.Term.
func (e Operation) Atom() (string, bool) { return "", false }

// Constructor implements patterns.Term; a bare identifier presents as a
// nullary constructor.
func (e Ident) Constructor() (string, []patterns.Term, bool) { return e.Name, nil, true }

// Atom implements patterns.Term.
func (e Ident) Atom() (string, bool) { return "", false }

// Constructor implements patterns.Term.
func (e Const) Constructor() (string, []patterns.Term, bool) { return "", nil, false }

// Atom implements patterns.Term.
func (e Const) Atom() (string, bool) { return e.Value, true }

// Constructor implements patterns.Term.
func (e Str) Constructor() (string, []patterns.Term, bool) { return "", nil, false }

// Atom implements patterns.Term.
func (e Str) Atom() (string, bool) { return e.Value, true }

// Constructor implements patterns.Term.
func (e Placeholder) Constructor() (string, []patterns.Term, bool) { return "", nil, false }

// Atom implements patterns.Term.
func (e Placeholder) Atom() (string, bool) { return "", false }

// Constructor implements patterns.Term.
func (e Match) Constructor() (string, []patterns.Term, bool) { return "", nil, false }

// Atom implements patterns.Term.
func (e Match) Atom() (string, bool) { return "", false }
