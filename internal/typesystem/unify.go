package typesystem

import (
	"errors"
	"fmt"
	"reflect"
)

// Unify attempts to find a substitution that makes t1 and t2 equal.
// It is symmetric: Unify(a, b) succeeds exactly when Unify(b, a) does,
// and the resulting substitution normalizes both sides to the same form.
func Unify(t1, t2 Type) (Subst, error) {
	if reflect.DeepEqual(t1, t2) {
		return Subst{}, nil
	}

	switch a := t1.(type) {
	case TVar:
		return Bind(a, t2)
	case TData:
		switch b := t2.(type) {
		case TVar:
			return Bind(b, t1)
		case TData:
			return unifyData(a, b)
		default:
			return nil, &MismatchError{A: t1, B: t2}
		}
	case TNat:
		switch b := t2.(type) {
		case TVar:
			return Bind(b, t1)
		case TNat:
			if a.Value == b.Value {
				return Subst{}, nil
			}
			return nil, &DimensionError{Expected: a.Value, Actual: b.Value}
		default:
			return nil, &MismatchError{A: t1, B: t2}
		}
	case TStr:
		switch b := t2.(type) {
		case TVar:
			return Bind(b, t1)
		case TStr:
			if a.Value == b.Value {
				return Subst{}, nil
			}
			return nil, &MismatchError{A: t1, B: t2}
		default:
			return nil, &MismatchError{A: t1, B: t2}
		}
	default:
		return nil, &MismatchError{A: t1, B: t2}
	}
}

func unifyData(a, b TData) (Subst, error) {
	if a.TypeName != b.TypeName || a.Constructor != b.Constructor {
		return nil, &MismatchError{A: a, B: b}
	}
	if len(a.Args) != len(b.Args) {
		return nil, &ArityError{Name: a.TypeName, Expected: len(a.Args), Actual: len(b.Args)}
	}

	// Unify every positional argument, collecting all failures so the
	// caller sees each offending index, not just the first.
	subst := Subst{}
	var failures []error
	for i := range a.Args {
		s, err := Unify(a.Args[i].Apply(subst), b.Args[i].Apply(subst))
		if err != nil {
			failures = append(failures, fmt.Errorf("argument %d of %s: %w", i+1, a.TypeName, err))
			continue
		}
		subst = subst.Compose(s)
	}
	if len(failures) > 0 {
		return nil, errors.Join(failures...)
	}
	return subst, nil
}

// Bind binds a type variable to a type, performing the occurs check.
// When both sides are variables the lower ID survives, so substitutions
// are reproducible regardless of argument order.
func Bind(tv TVar, t Type) (Subst, error) {
	if other, ok := t.(TVar); ok {
		if other.ID == tv.ID {
			return Subst{}, nil
		}
		if other.ID < tv.ID {
			return Subst{tv.ID: other}, nil
		}
		return Subst{other.ID: tv}, nil
	}

	if OccursCheck(tv, t) {
		return nil, &OccursError{Var: tv, In: t}
	}
	return Subst{tv.ID: t}, nil
}

// OccursCheck reports whether tv appears free in t.
func OccursCheck(tv TVar, t Type) bool {
	for _, v := range t.FreeTypeVariables() {
		if v.ID == tv.ID {
			return true
		}
	}
	return false
}
