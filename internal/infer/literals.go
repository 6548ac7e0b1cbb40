package infer

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/nomoslang/nomos/internal/ast"
	"github.com/nomoslang/nomos/internal/diagnostics"
	"github.com/nomoslang/nomos/internal/typesystem"
)

// Literal constructors are the one family of operations typed by a fixed
// rule instead of a registry lookup: the shape of a matrix, vector,
// tensor or list literal is fully determined by the expression itself.

func (s *Session) inferLiteral(e ast.Operation) (typesystem.Type, bool, error) {
	switch e.Name {
	case "Matrix":
		t, err := s.inferDimensionedLiteral(e, 2)
		return t, true, err
	case "Tensor3D":
		t, err := s.inferDimensionedLiteral(e, 3)
		return t, true, err
	case "Vector":
		t, err := s.inferVectorLiteral(e)
		return t, true, err
	case "List":
		t, err := s.inferListLiteral(e)
		return t, true, err
	default:
		return nil, false, nil
	}
}

// inferDimensionedLiteral types Matrix and Tensor3D literals: the
// leading arguments are the literal dimensions, the rest are scalar
// elements. Every failing element is reported, not just the first.
func (s *Session) inferDimensionedLiteral(e ast.Operation, dims int) (typesystem.Type, error) {
	if len(e.Args) < dims {
		return nil, diagnostics.NewError(diagnostics.ErrArityMismatch,
			"%s literal needs %d leading dimensions, got %d arguments", e.Name, dims, len(e.Args))
	}

	args := make([]typesystem.Type, dims)
	for i := 0; i < dims; i++ {
		c, ok := e.Args[i].(ast.Const)
		if !ok {
			return nil, diagnostics.NewError(diagnostics.ErrTypeMismatch,
				"dimension %d of %s literal must be a numeric constant, got %s", i+1, e.Name, e.Args[i])
		}
		n, err := strconv.Atoi(c.Value)
		if err != nil || n < 0 {
			return nil, diagnostics.NewError(diagnostics.ErrTypeMismatch,
				"dimension %d of %s literal must be a natural number, got %s", i+1, e.Name, c.Value)
		}
		args[i] = typesystem.TNat{Value: n}
	}

	if err := s.unifyElements(e.Name, e.Args[dims:], scalarType(), dims); err != nil {
		return nil, err
	}
	return typesystem.TData{TypeName: e.Name, Constructor: e.Name, Args: args}, nil
}

func (s *Session) inferVectorLiteral(e ast.Operation) (typesystem.Type, error) {
	if err := s.unifyElements(e.Name, e.Args, scalarType(), 0); err != nil {
		return nil, err
	}
	return typesystem.TData{TypeName: "Vector", Constructor: "Vector",
		Args: []typesystem.Type{typesystem.TNat{Value: len(e.Args)}}}, nil
}

// inferListLiteral unifies all elements into one element type; an empty
// list stays polymorphic.
func (s *Session) inferListLiteral(e ast.Operation) (typesystem.Type, error) {
	elem := typesystem.Type(s.Fresh())
	if err := s.unifyElements(e.Name, e.Args, elem, 0); err != nil {
		return nil, err
	}
	return typesystem.TData{TypeName: "List", Constructor: "List",
		Args: []typesystem.Type{elem.Apply(s.subst)}}, nil
}

// unifyElements unifies each element with the expected type, collecting
// every failure with its 1-based position in the literal.
func (s *Session) unifyElements(literal string, elems []ast.Expression, expected typesystem.Type, offset int) error {
	var errs []error
	for i, el := range elems {
		t, err := s.infer(el)
		if err != nil {
			return err
		}
		if err := s.unify(t, expected); err != nil {
			errs = append(errs, fmt.Errorf("element %d of %s literal: %w", offset+i+1, literal, err))
		}
	}
	if len(errs) > 0 {
		return diagnostics.WrapError(diagnostics.ErrTypeMismatch, errors.Join(errs...))
	}
	return nil
}
