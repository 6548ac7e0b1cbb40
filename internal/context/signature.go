package context

import (
	"fmt"
	"strconv"

	"github.com/nomoslang/nomos/internal/ast"
	"github.com/nomoslang/nomos/internal/diagnostics"
	"github.com/nomoslang/nomos/internal/typesystem"
)

// formattingOps are presentation markers (ẋ, x̄, 𝐯) that never change the
// type of their operand. They are the one family resolved without a
// registry lookup, alongside the literal constructors in the inference
// layer.
var formattingOps = map[string]bool{
	"hat": true, "bar": true, "vec": true, "dot": true, "ddot": true,
	"tilde": true, "overline": true, "underline": true,
	"mathbf": true, "mathcal": true, "subscript": true,
}

// orderingOps are comparison operations that require an implements
// binding for the owning structure when any binding is declared at all.
var orderingOps = map[string]bool{
	"less_than": true, "greater_than": true,
	"less_equal": true, "greater_equal": true,
}

// InferOperationType resolves an operation application to its result
// type by interpreting the owning signature against the actual argument
// types. fresh supplies type variables for unconstrained signature
// parameters; callers normally pass their inference session's source.
func (b *Builder) InferOperationType(name string, argTypes []typesystem.Type, fresh func() typesystem.TVar) (typesystem.Type, error) {
	if fresh == nil {
		counter := 0
		fresh = func() typesystem.TVar {
			counter--
			return typesystem.TVar{ID: counter}
		}
	}

	if formattingOps[name] {
		if len(argTypes) > 0 {
			return argTypes[0], nil
		}
		return typesystem.TData{TypeName: "Scalar", Constructor: "Scalar"}, nil
	}

	// Equality is polymorphic over every type: the comparison takes the
	// type of its right-hand side.
	if name == "equals" || name == "not_equals" {
		if len(argTypes) == 0 {
			return nil, diagnostics.NewError(diagnostics.ErrArityMismatch,
				"operation %q needs at least one argument", name)
		}
		return argTypes[len(argTypes)-1], nil
	}

	if sig, ok := b.Ops.TopLevel(name); ok {
		in := &interp{b: b, fresh: fresh}
		return in.interpret(name, sig, argTypes)
	}

	owner, ok := b.Ops.StructureFor(name)
	if !ok {
		return nil, b.unknownOperation(name)
	}
	structure, ok := b.Structs.Get(owner)
	if !ok {
		return nil, diagnostics.NewError(diagnostics.ErrUnknownType,
			"operation %q owned by unregistered structure %q", name, owner)
	}
	op, ok := structure.Operation(name)
	if !ok {
		return nil, diagnostics.NewError(diagnostics.ErrUnknownOperation,
			"operation %q missing from structure %q", name, owner)
	}

	if err := b.checkOrderingImplementation(name, owner, argTypes); err != nil {
		return nil, err
	}

	in := &interp{b: b, fresh: fresh, paramKinds: paramKinds(structure.TypeParams)}
	return in.interpret(name, op.Signature, argTypes)
}

func (b *Builder) checkOrderingImplementation(name, owner string, argTypes []typesystem.Type) error {
	if !orderingOps[name] || len(argTypes) == 0 {
		return nil
	}
	if len(b.Ops.Implementations(owner)) == 0 {
		return nil
	}
	arg, ok := argTypes[0].(typesystem.TData)
	if !ok {
		return nil
	}
	if !b.Ops.HasImplementation(owner, arg.TypeName) {
		return diagnostics.NewError(diagnostics.ErrTypeMismatch,
			"type %q does not implement %q, required by %q", arg.TypeName, owner, name)
	}
	return nil
}

func (b *Builder) unknownOperation(name string) error {
	if hint, ok := closestName(name, b.Ops.OperationNames()); ok {
		return diagnostics.NewError(diagnostics.ErrUnknownOperation,
			"unknown operation %q, did you mean %q?", name, hint)
	}
	return diagnostics.NewError(diagnostics.ErrUnknownOperation,
		"unknown operation %q", name)
}

func paramKinds(params []ast.TypeParam) map[string]ast.Kind {
	kinds := make(map[string]ast.Kind, len(params))
	for _, p := range params {
		kinds[p.Name] = p.Kind
	}
	return kinds
}

// interp interprets one operation signature against actual argument
// types. Named signature parameters bind on first use and check on every
// later use, so a repeated dimension variable enforces agreement across
// arguments.
type interp struct {
	b          *Builder
	fresh      func() typesystem.TVar
	paramKinds map[string]ast.Kind

	nats  map[string]int
	strs  map[string]string
	types map[string]typesystem.Type
}

func (in *interp) interpret(opName string, sig ast.TypeExpr, argTypes []typesystem.Type) (typesystem.Type, error) {
	in.nats = make(map[string]int)
	in.strs = make(map[string]string)
	in.types = make(map[string]typesystem.Type)

	expected, result := ast.ArrowSignature(sig)
	if len(argTypes) != len(expected) {
		return nil, diagnostics.WrapError(diagnostics.ErrArityMismatch,
			&typesystem.ArityError{Name: opName, Expected: len(expected), Actual: len(argTypes)})
	}
	for i, exp := range expected {
		if err := in.bindExpected(exp, argTypes[i], i); err != nil {
			return nil, err
		}
	}
	return in.interpretResult(result)
}

func (in *interp) bindExpected(expected ast.TypeExpr, actual typesystem.Type, idx int) error {
	switch e := expected.(type) {
	case ast.NamedType:
		return in.bindNamed(e.Name, actual, idx)

	case ast.ParametricType:
		data, ok := actual.(typesystem.TData)
		if !ok {
			// An unconstrained variable satisfies any shape.
			if _, isVar := actual.(typesystem.TVar); isVar {
				return nil
			}
			return in.argumentError(idx, &typesystem.MismatchError{
				A: actual, B: typesystem.TData{TypeName: e.Name, Constructor: e.Name}})
		}
		if data.TypeName != normalizeTypeName(e.Name) && data.Constructor != e.Name {
			return in.argumentError(idx, &typesystem.MismatchError{
				A: actual, B: typesystem.TData{TypeName: e.Name, Constructor: e.Name}})
		}
		if len(data.Args) != len(e.Args) {
			return in.argumentError(idx, &typesystem.ArityError{
				Name: e.Name, Expected: len(e.Args), Actual: len(data.Args)})
		}
		for j, paramExpr := range e.Args {
			if err := in.bindParamArg(paramExpr, data.Args[j], idx); err != nil {
				return err
			}
		}
		return nil

	case ast.NumberLit:
		if nat, ok := actual.(typesystem.TNat); ok && nat.Value != e.Value {
			return in.argumentError(idx, &typesystem.DimensionError{
				Expected: e.Value, Actual: nat.Value})
		}
		return nil

	case ast.FunctionType:
		// Higher-order arguments are accepted unchecked.
		return nil

	default:
		return nil
	}
}

func (in *interp) bindNamed(name string, actual typesystem.Type, idx int) error {
	if kind, declared := in.paramKinds[name]; declared {
		switch kind {
		case ast.KindNat:
			switch a := actual.(type) {
			case typesystem.TNat:
				return in.bindNat(name, a.Value, idx)
			case typesystem.TVar:
				return nil
			default:
				return in.argumentError(idx, &typesystem.MismatchError{
					A: actual, B: typesystem.TNat{}})
			}
		case ast.KindString:
			switch a := actual.(type) {
			case typesystem.TStr:
				return in.bindStr(name, a.Value, idx)
			case typesystem.TVar:
				return nil
			default:
				return in.argumentError(idx, &typesystem.MismatchError{
					A: actual, B: typesystem.TStr{}})
			}
		default:
			return in.bindType(name, actual, idx)
		}
	}

	normalized := normalizeTypeName(name)
	if _, registered := in.b.typeParamsOf(normalized); registered {
		want := typesystem.TData{TypeName: normalized, Constructor: normalized}
		switch a := actual.(type) {
		case typesystem.TVar:
			return nil
		case typesystem.TData:
			if a.TypeName == normalized {
				return nil
			}
			return in.argumentError(idx, &typesystem.MismatchError{A: actual, B: want})
		default:
			return in.argumentError(idx, &typesystem.MismatchError{A: actual, B: want})
		}
	}

	// Undeclared lowercase-style parameter in a legacy signature: bind it
	// like a type parameter so repeated uses must agree.
	return in.bindType(name, actual, idx)
}

func (in *interp) bindParamArg(paramExpr ast.TypeExpr, actualArg typesystem.Type, idx int) error {
	switch a := actualArg.(type) {
	case typesystem.TNat:
		switch p := paramExpr.(type) {
		case ast.NamedType:
			return in.bindNat(p.Name, a.Value, idx)
		case ast.NumberLit:
			if p.Value != a.Value {
				return in.argumentError(idx, &typesystem.DimensionError{
					Expected: p.Value, Actual: a.Value})
			}
			return nil
		}
		return nil
	case typesystem.TStr:
		switch p := paramExpr.(type) {
		case ast.NamedType:
			return in.bindStr(p.Name, a.Value, idx)
		case ast.StringLit:
			if p.Value != a.Value {
				return in.argumentError(idx, &typesystem.MismatchError{
					A: actualArg, B: typesystem.TStr{Value: p.Value}})
			}
			return nil
		}
		return nil
	case typesystem.TVar:
		return nil
	default:
		switch p := paramExpr.(type) {
		case ast.NamedType:
			return in.bindType(p.Name, actualArg, idx)
		default:
			return in.bindExpected(paramExpr, actualArg, idx)
		}
	}
}

// bindNat binds a dimension parameter on first sight and checks every
// later occurrence, so Matrix(m,n) → Matrix(n,p) rejects mismatched
// inner dimensions by parameter name.
func (in *interp) bindNat(name string, value, idx int) error {
	if prev, ok := in.nats[name]; ok {
		if prev != value {
			return in.argumentError(idx, &typesystem.DimensionError{
				Param: name, Expected: prev, Actual: value})
		}
		return nil
	}
	in.nats[name] = value
	return nil
}

func (in *interp) bindStr(name, value string, idx int) error {
	if prev, ok := in.strs[name]; ok {
		if prev != value {
			return in.argumentError(idx, &typesystem.MismatchError{
				A: typesystem.TStr{Value: value}, B: typesystem.TStr{Value: prev}})
		}
		return nil
	}
	in.strs[name] = value
	return nil
}

func (in *interp) bindType(name string, t typesystem.Type, idx int) error {
	if prev, ok := in.types[name]; ok {
		if _, err := typesystem.Unify(prev, t); err != nil {
			return in.argumentError(idx, err)
		}
		return nil
	}
	in.types[name] = t
	return nil
}

func (in *interp) argumentError(idx int, err error) error {
	code := diagnostics.ErrTypeMismatch
	var dim *typesystem.DimensionError
	var ar *typesystem.ArityError
	switch {
	case asError(err, &dim):
		code = diagnostics.ErrDimensionMismatch
	case asError(err, &ar):
		code = diagnostics.ErrArityMismatch
	}
	return diagnostics.WrapError(code, fmt.Errorf("argument %d: %w", idx+1, err))
}

// interpretResult evaluates the codomain of a signature under the
// bindings collected from the arguments. Parameters that stayed unbound
// become fresh type variables, memoized so repeated uses share one.
func (in *interp) interpretResult(expr ast.TypeExpr) (typesystem.Type, error) {
	switch e := expr.(type) {
	case ast.NamedType:
		if n, ok := in.nats[e.Name]; ok {
			return typesystem.TNat{Value: n}, nil
		}
		if s, ok := in.strs[e.Name]; ok {
			return typesystem.TStr{Value: s}, nil
		}
		if t, ok := in.types[e.Name]; ok {
			return t, nil
		}
		normalized := normalizeTypeName(e.Name)
		if params, ok := in.b.typeParamsOf(normalized); ok && len(params) == 0 {
			return typesystem.TData{TypeName: normalized, Constructor: normalized}, nil
		}
		v := in.fresh()
		in.types[e.Name] = v
		return v, nil

	case ast.ParametricType:
		name := normalizeTypeName(e.Name)
		params, ok := in.b.typeParamsOf(name)
		if !ok {
			return nil, diagnostics.NewError(diagnostics.ErrUnknownType,
				"unknown parametric type %q in result", name)
		}
		if len(params) != len(e.Args) {
			return nil, diagnostics.WrapError(diagnostics.ErrArityMismatch,
				&typesystem.ArityError{Name: name, Expected: len(params), Actual: len(e.Args)})
		}
		args := make([]typesystem.Type, len(e.Args))
		for i, argExpr := range e.Args {
			t, err := in.resultArg(argExpr, params[i].Kind)
			if err != nil {
				return nil, err
			}
			args[i] = t
		}
		return typesystem.TData{TypeName: name, Constructor: name, Args: args}, nil

	case ast.NumberLit:
		return typesystem.TNat{Value: e.Value}, nil
	case ast.StringLit:
		return typesystem.TStr{Value: e.Value}, nil
	case ast.FunctionType:
		_, result := ast.ArrowSignature(e)
		return in.interpretResult(result)
	default:
		return nil, diagnostics.NewError(diagnostics.ErrUnknownType,
			"cannot interpret result type %s", expr)
	}
}

func (in *interp) resultArg(expr ast.TypeExpr, kind ast.Kind) (typesystem.Type, error) {
	switch kind {
	case ast.KindNat:
		if named, ok := expr.(ast.NamedType); ok {
			if n, bound := in.nats[named.Name]; bound {
				return typesystem.TNat{Value: n}, nil
			}
			if n, err := strconv.Atoi(named.Name); err == nil {
				return typesystem.TNat{Value: n}, nil
			}
			if t, bound := in.types[named.Name]; bound {
				return t, nil
			}
			v := in.fresh()
			in.types[named.Name] = v
			return v, nil
		}
		if lit, ok := expr.(ast.NumberLit); ok {
			return typesystem.TNat{Value: lit.Value}, nil
		}
		return nil, diagnostics.NewError(diagnostics.ErrTypeMismatch,
			"expected dimension in result, got %s", expr)
	case ast.KindString:
		if named, ok := expr.(ast.NamedType); ok {
			if s, bound := in.strs[named.Name]; bound {
				return typesystem.TStr{Value: s}, nil
			}
			v := in.fresh()
			in.types[named.Name] = v
			return v, nil
		}
		if lit, ok := expr.(ast.StringLit); ok {
			return typesystem.TStr{Value: lit.Value}, nil
		}
		return nil, diagnostics.NewError(diagnostics.ErrTypeMismatch,
			"expected string label in result, got %s", expr)
	default:
		return in.interpretResult(expr)
	}
}
