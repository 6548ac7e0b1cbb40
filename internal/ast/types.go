package ast

import (
	"fmt"
	"strconv"
	"strings"
)

// Kind is the interpretation tag of a type parameter. It decides how an
// actual argument in a parametric type application is read: as a nested
// type, a natural-number dimension, or a string label. The zero value is
// KindType, so an unannotated parameter is an ordinary type parameter.
type Kind int

const (
	KindType Kind = iota
	KindNat
	KindString
)

func (k Kind) String() string {
	switch k {
	case KindNat:
		return "Nat"
	case KindString:
		return "String"
	default:
		return "Type"
	}
}

// TypeParam is a declared formal parameter of a data type or structure,
// e.g. the m and n in Matrix(m: Nat, n: Nat).
type TypeParam struct {
	Name string
	Kind Kind
}

// TypeExpr is the interface for parsed type expressions as they appear in
// signatures and definitions, before resolution against the registry.
type TypeExpr interface {
	String() string
	typeExprNode()
}

// NamedType references a type or a signature parameter by name:
// Scalar, Bool, T, m.
type NamedType struct {
	Name string
}

func (NamedType) typeExprNode()    {}
func (t NamedType) String() string { return t.Name }

// ParametricType applies a named type to arguments: Matrix(m, n),
// Option(Scalar), Tensor3D(10, 20, 30).
type ParametricType struct {
	Name string
	Args []TypeExpr
}

func (ParametricType) typeExprNode() {}
func (t ParametricType) String() string {
	parts := make([]string, len(t.Args))
	for i, a := range t.Args {
		parts[i] = a.String()
	}
	return fmt.Sprintf("%s(%s)", t.Name, strings.Join(parts, ", "))
}

// FunctionType is a single (curried) arrow in an operation signature.
// Matrix(m,n) → Matrix(n,p) → Matrix(m,p) parses as two nested arrows.
type FunctionType struct {
	From TypeExpr
	To   TypeExpr
}

func (FunctionType) typeExprNode() {}
func (t FunctionType) String() string {
	return fmt.Sprintf("%s → %s", t.From, t.To)
}

// NumberLit is a literal dimension inside a type application.
type NumberLit struct {
	Value int
}

func (NumberLit) typeExprNode()    {}
func (t NumberLit) String() string { return strconv.Itoa(t.Value) }

// StringLit is a literal string argument inside a type application.
type StringLit struct {
	Value string
}

func (StringLit) typeExprNode()    {}
func (t StringLit) String() string { return strconv.Quote(t.Value) }

// ArrowSignature flattens a curried signature into its expected argument
// types and final result type. A signature without arrows has no expected
// arguments; the expression itself is the result.
func ArrowSignature(sig TypeExpr) (args []TypeExpr, result TypeExpr) {
	result = sig
	for {
		fn, ok := result.(FunctionType)
		if !ok {
			return args, result
		}
		args = append(args, fn.From)
		result = fn.To
	}
}
