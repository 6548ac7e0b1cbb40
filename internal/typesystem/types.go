// Package typesystem implements the type representation and unification
// algorithm for the checker. Types form a small tagged union: inference
// variables, applications of named constructors, and the two value-level
// parameters (natural-number dimensions and string labels) that make
// dimension checking expressible as ordinary unification.
package typesystem

import (
	"fmt"
	"strconv"
	"strings"
)

// Type is the interface for all types in our system.
type Type interface {
	String() string
	Apply(Subst) Type
	FreeTypeVariables() []TVar
}

// TVar represents an inference variable. IDs are unique within one
// inference session.
type TVar struct {
	ID int
}

func (t TVar) String() string { return "t" + strconv.Itoa(t.ID) }

func (t TVar) Apply(s Subst) Type {
	if replacement, ok := s[t.ID]; ok {
		// Chase chains so callers always see the normal form.
		return replacement.Apply(s)
	}
	return t
}

func (t TVar) FreeTypeVariables() []TVar { return []TVar{t} }

// TData represents an application of a named constructor to zero or more
// type arguments: Scalar, Bool, Option(Scalar), Matrix(2, 3).
//
// TypeName is the owning data or structure definition; Constructor is the
// constructor that produced the value. For plain type references the two
// coincide. Args length is validated against the registry by the context
// builder; values built there never carry a wrong arity.
type TData struct {
	TypeName    string
	Constructor string
	Args        []Type
}

func (t TData) String() string {
	if len(t.Args) == 0 {
		return t.Constructor
	}
	parts := make([]string, len(t.Args))
	for i, a := range t.Args {
		parts[i] = a.String()
	}
	return fmt.Sprintf("%s(%s)", t.Constructor, strings.Join(parts, ", "))
}

func (t TData) Apply(s Subst) Type {
	if len(t.Args) == 0 {
		return t
	}
	args := make([]Type, len(t.Args))
	for i, a := range t.Args {
		args[i] = a.Apply(s)
	}
	return TData{TypeName: t.TypeName, Constructor: t.Constructor, Args: args}
}

func (t TData) FreeTypeVariables() []TVar {
	var vars []TVar
	for _, a := range t.Args {
		vars = append(vars, a.FreeTypeVariables()...)
	}
	return uniqueTVars(vars)
}

// TNat is a concrete natural-number dimension, e.g. the 2 and 3 in
// Matrix(2, 3). Two TNat values unify only when equal; the mismatch is
// how dimension errors surface.
type TNat struct {
	Value int
}

func (t TNat) String() string            { return strconv.Itoa(t.Value) }
func (t TNat) Apply(Subst) Type          { return t }
func (t TNat) FreeTypeVariables() []TVar { return nil }

// TStr is a string-valued type parameter, e.g. the unit label in
// Metric("m/s", Scalar).
type TStr struct {
	Value string
}

func (t TStr) String() string            { return strconv.Quote(t.Value) }
func (t TStr) Apply(Subst) Type          { return t }
func (t TStr) FreeTypeVariables() []TVar { return nil }

// Subst is a mapping from type variable IDs to types. Once solved it is
// idempotent: the occurs check at bind time guarantees no variable maps,
// directly or transitively, to a type containing itself.
type Subst map[int]Type

// Compose combines two substitutions so that applying the result equals
// applying s2 first and then s1.
func (s1 Subst) Compose(s2 Subst) Subst {
	subst := Subst{}
	for k, v := range s2 {
		subst[k] = v
	}
	for k, v := range s1 {
		subst[k] = v.Apply(s2)
	}
	return subst
}

func uniqueTVars(vars []TVar) []TVar {
	seen := map[int]bool{}
	unique := make([]TVar, 0, len(vars))
	for _, v := range vars {
		if !seen[v.ID] {
			seen[v.ID] = true
			unique = append(unique, v)
		}
	}
	return unique
}
