package typesystem

import "fmt"

// MismatchError reports that two types cannot be made equal.
type MismatchError struct {
	A, B Type
}

func (e *MismatchError) Error() string {
	return fmt.Sprintf("cannot unify %s with %s", e.A, e.B)
}

// OccursError reports a failed occurs check: binding the variable would
// create an infinite type.
type OccursError struct {
	Var TVar
	In  Type
}

func (e *OccursError) Error() string {
	return fmt.Sprintf("infinite type: %s occurs in %s", e.Var, e.In)
}

// ArityError reports a type applied to the wrong number of arguments.
type ArityError struct {
	Name     string
	Expected int
	Actual   int
}

func (e *ArityError) Error() string {
	return fmt.Sprintf("%s expects %d type arguments, got %d", e.Name, e.Expected, e.Actual)
}

// DimensionError reports two unequal concrete dimensions. Param names the
// signature parameter involved when known (it may be empty for anonymous
// positions).
type DimensionError struct {
	Param    string
	Expected int
	Actual   int
}

func (e *DimensionError) Error() string {
	if e.Param != "" {
		return fmt.Sprintf("dimension mismatch: %s was bound to %d, got %d", e.Param, e.Expected, e.Actual)
	}
	return fmt.Sprintf("dimension mismatch: %d vs %d", e.Expected, e.Actual)
}
