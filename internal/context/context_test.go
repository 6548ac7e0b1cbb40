package context

import (
	"errors"
	"strings"
	"testing"

	"github.com/nomoslang/nomos/internal/ast"
	"github.com/nomoslang/nomos/internal/diagnostics"
	"github.com/nomoslang/nomos/internal/typesystem"
)

func natParam(name string) ast.TypeParam {
	return ast.TypeParam{Name: name, Kind: ast.KindNat}
}

func matrixDef() *ast.DataDef {
	return &ast.DataDef{Name: "Matrix", TypeParams: []ast.TypeParam{natParam("m"), natParam("n")}}
}

func tensorDef() *ast.DataDef {
	return &ast.DataDef{Name: "Tensor3D", TypeParams: []ast.TypeParam{natParam("i"), natParam("j"), natParam("k")}}
}

func scalarDef() *ast.DataDef {
	return &ast.DataDef{Name: "Scalar"}
}

func matrixRing() *ast.StructureDef {
	return &ast.StructureDef{
		Name:       "MatrixRing",
		TypeParams: []ast.TypeParam{natParam("m"), natParam("n"), natParam("p")},
		Operations: []ast.OperationDecl{
			{
				Name: "multiply",
				Signature: ast.FunctionType{
					From: ast.ParametricType{Name: "Matrix", Args: []ast.TypeExpr{ast.NamedType{Name: "m"}, ast.NamedType{Name: "n"}}},
					To: ast.FunctionType{
						From: ast.ParametricType{Name: "Matrix", Args: []ast.TypeExpr{ast.NamedType{Name: "n"}, ast.NamedType{Name: "p"}}},
						To:   ast.ParametricType{Name: "Matrix", Args: []ast.TypeExpr{ast.NamedType{Name: "m"}, ast.NamedType{Name: "p"}}},
					},
				},
			},
			{
				Name: "transpose",
				Signature: ast.FunctionType{
					From: ast.ParametricType{Name: "Matrix", Args: []ast.TypeExpr{ast.NamedType{Name: "m"}, ast.NamedType{Name: "n"}}},
					To:   ast.ParametricType{Name: "Matrix", Args: []ast.TypeExpr{ast.NamedType{Name: "n"}, ast.NamedType{Name: "m"}}},
				},
			},
		},
	}
}

func testBuilder(t *testing.T, items ...ast.TopLevel) *Builder {
	t.Helper()
	b := NewBuilder()
	if _, err := b.Load(items); err != nil {
		t.Fatalf("load: %v", err)
	}
	return b
}

func matT(m, n int) typesystem.Type {
	return typesystem.TData{TypeName: "Matrix", Constructor: "Matrix",
		Args: []typesystem.Type{typesystem.TNat{Value: m}, typesystem.TNat{Value: n}}}
}

func scalarT() typesystem.Type {
	return typesystem.TData{TypeName: "Scalar", Constructor: "Scalar"}
}

func assertCode(t *testing.T, err error, code diagnostics.ErrorCode) *diagnostics.DiagnosticError {
	t.Helper()
	if err == nil {
		t.Fatalf("expected error with code %s, got nil", code)
	}
	var de *diagnostics.DiagnosticError
	if !errors.As(err, &de) {
		t.Fatalf("expected DiagnosticError, got %T: %v", err, err)
	}
	if de.Code != code {
		t.Fatalf("expected code %s, got %s (%s)", code, de.Code, de.Message)
	}
	return de
}

func TestResolveParametricType(t *testing.T) {
	b := testBuilder(t, tensorDef(), scalarDef())

	got, err := b.ResolveParametricType("Tensor3D", []ast.TypeExpr{
		ast.NumberLit{Value: 10}, ast.NumberLit{Value: 20}, ast.NumberLit{Value: 30},
	})
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if got.String() != "Tensor3D(10, 20, 30)" {
		t.Errorf("expected Tensor3D(10, 20, 30), got %s", got)
	}
}

func TestResolveArityMismatch(t *testing.T) {
	b := testBuilder(t, tensorDef())

	_, err := b.ResolveParametricType("Tensor3D", []ast.TypeExpr{
		ast.NumberLit{Value: 10}, ast.NumberLit{Value: 20},
	})
	assertCode(t, err, diagnostics.ErrArityMismatch)

	var ae *typesystem.ArityError
	if !errors.As(err, &ae) {
		t.Fatalf("expected ArityError, got %v", err)
	}
	if ae.Expected != 3 || ae.Actual != 2 {
		t.Errorf("expected 3/2, got %d/%d", ae.Expected, ae.Actual)
	}
}

func TestResolveUnknownType(t *testing.T) {
	b := testBuilder(t)
	_, err := b.ResolveParametricType("Vektor", nil)
	assertCode(t, err, diagnostics.ErrUnknownType)
}

func TestSignatureBindAndResolve(t *testing.T) {
	b := testBuilder(t, matrixDef(), matrixRing())

	got, err := b.InferOperationType("multiply", []typesystem.Type{matT(2, 3), matT(3, 4)}, nil)
	if err != nil {
		t.Fatalf("multiply: %v", err)
	}
	if got.String() != "Matrix(2, 4)" {
		t.Errorf("expected Matrix(2, 4), got %s", got)
	}
}

func TestSignatureDimensionConflict(t *testing.T) {
	b := testBuilder(t, matrixDef(), matrixRing())

	_, err := b.InferOperationType("multiply", []typesystem.Type{matT(2, 3), matT(2, 2)}, nil)
	de := assertCode(t, err, diagnostics.ErrDimensionMismatch)

	var dim *typesystem.DimensionError
	if !errors.As(err, &dim) {
		t.Fatalf("expected DimensionError, got %v", err)
	}
	if dim.Param != "n" || dim.Expected != 3 || dim.Actual != 2 {
		t.Errorf("expected n bound to 3 vs 2, got %+v", dim)
	}
	if !strings.Contains(de.Message, "argument 2") {
		t.Errorf("error should name the failing argument: %s", de.Message)
	}
}

func TestSignatureArityMismatch(t *testing.T) {
	b := testBuilder(t, matrixDef(), matrixRing())

	_, err := b.InferOperationType("multiply", []typesystem.Type{matT(2, 3)}, nil)
	assertCode(t, err, diagnostics.ErrArityMismatch)
}

func TestTransposeSwapsDimensions(t *testing.T) {
	b := testBuilder(t, matrixDef(), matrixRing())

	got, err := b.InferOperationType("transpose", []typesystem.Type{matT(2, 5)}, nil)
	if err != nil {
		t.Fatalf("transpose: %v", err)
	}
	if got.String() != "Matrix(5, 2)" {
		t.Errorf("expected Matrix(5, 2), got %s", got)
	}
}

func TestTopLevelOperation(t *testing.T) {
	b := testBuilder(t, scalarDef(), &ast.OperationDecl{
		Name:      "sin",
		Signature: ast.FunctionType{From: ast.NamedType{Name: "Scalar"}, To: ast.NamedType{Name: "Scalar"}},
	})

	got, err := b.InferOperationType("sin", []typesystem.Type{scalarT()}, nil)
	if err != nil {
		t.Fatalf("sin: %v", err)
	}
	if got.String() != "Scalar" {
		t.Errorf("expected Scalar, got %s", got)
	}
}

func TestTopLevelOperationRejectsWrongArgument(t *testing.T) {
	b := testBuilder(t, scalarDef(), matrixDef(), &ast.OperationDecl{
		Name:      "sin",
		Signature: ast.FunctionType{From: ast.NamedType{Name: "Scalar"}, To: ast.NamedType{Name: "Scalar"}},
	})

	_, err := b.InferOperationType("sin", []typesystem.Type{matT(2, 2)}, nil)
	assertCode(t, err, diagnostics.ErrTypeMismatch)
}

func TestEqualsTakesRightHandSide(t *testing.T) {
	b := testBuilder(t, scalarDef(), matrixDef())

	got, err := b.InferOperationType("equals", []typesystem.Type{scalarT(), matT(2, 2)}, nil)
	if err != nil {
		t.Fatalf("equals: %v", err)
	}
	if got.String() != "Matrix(2, 2)" {
		t.Errorf("expected Matrix(2, 2), got %s", got)
	}
}

func TestFormattingOpKeepsOperandType(t *testing.T) {
	b := testBuilder(t, matrixDef())

	got, err := b.InferOperationType("hat", []typesystem.Type{matT(3, 3)}, nil)
	if err != nil {
		t.Fatalf("hat: %v", err)
	}
	if got.String() != "Matrix(3, 3)" {
		t.Errorf("expected Matrix(3, 3), got %s", got)
	}
}

func TestUnknownOperationSuggestion(t *testing.T) {
	b := testBuilder(t, matrixDef(), matrixRing())

	_, err := b.InferOperationType("multiplyy", []typesystem.Type{matT(2, 2), matT(2, 2)}, nil)
	de := assertCode(t, err, diagnostics.ErrUnknownOperation)
	if !strings.Contains(de.Message, `"multiply"`) {
		t.Errorf("expected a did-you-mean hint, got %s", de.Message)
	}
}

func TestLoadDuplicateStructureWarns(t *testing.T) {
	b := NewBuilder()
	warnings, err := b.Load([]ast.TopLevel{matrixDef(), matrixRing(), matrixRing()})
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(warnings) != 1 || warnings[0].Code != diagnostics.WarnDuplicateStructure {
		t.Fatalf("expected one duplicate-structure warning, got %v", warnings)
	}
	if _, err := b.InferOperationType("multiply", []typesystem.Type{matT(2, 3), matT(3, 4)}, nil); err != nil {
		t.Errorf("multiply should still resolve after skipped duplicate: %v", err)
	}
}

func TestLoadOperationConflict(t *testing.T) {
	rival := &ast.StructureDef{
		Name: "VectorSpace",
		Operations: []ast.OperationDecl{
			{Name: "multiply", Signature: ast.NamedType{Name: "Scalar"}},
		},
	}
	b := NewBuilder()
	_, err := b.Load([]ast.TopLevel{matrixDef(), matrixRing(), rival})
	de := assertCode(t, err, diagnostics.ErrOperationConflict)
	if !strings.Contains(de.Message, "MatrixRing") || !strings.Contains(de.Message, "VectorSpace") {
		t.Errorf("conflict should name both structures: %s", de.Message)
	}
}

func TestFailedLoadCanBeRetried(t *testing.T) {
	b := testBuilder(t, matrixDef(), matrixRing())

	rival := &ast.StructureDef{
		Name: "VectorSpace",
		Operations: []ast.OperationDecl{
			{Name: "multiply", Signature: ast.NamedType{Name: "Scalar"}},
		},
	}
	if _, err := b.Load([]ast.TopLevel{rival}); err == nil {
		t.Fatal("expected conflict")
	}
	if _, ok := b.Structs.Get("VectorSpace"); ok {
		t.Fatal("structure whose load failed must not stay registered")
	}

	corrected := &ast.StructureDef{
		Name: "VectorSpace",
		Operations: []ast.OperationDecl{
			{Name: "norm", Signature: ast.FunctionType{
				From: ast.ParametricType{Name: "Matrix", Args: []ast.TypeExpr{ast.NamedType{Name: "m"}, ast.NamedType{Name: "n"}}},
				To:   ast.NamedType{Name: "Scalar"},
			}},
		},
	}
	warnings, err := b.Load([]ast.TopLevel{corrected})
	if err != nil {
		t.Fatalf("corrected reload: %v", err)
	}
	if len(warnings) != 0 {
		t.Fatalf("corrected reload must not be skipped as duplicate: %v", warnings)
	}
	owner, ok := b.Ops.StructureFor("norm")
	if !ok || owner != "VectorSpace" {
		t.Errorf("norm should resolve to VectorSpace, got %q", owner)
	}
}

func TestArrowlessSignatureRejectsArguments(t *testing.T) {
	b := testBuilder(t, scalarDef(), &ast.OperationDecl{
		Name:      "pi",
		Signature: ast.NamedType{Name: "Scalar"},
	})

	got, err := b.InferOperationType("pi", nil, nil)
	if err != nil {
		t.Fatalf("pi: %v", err)
	}
	if got.String() != "Scalar" {
		t.Errorf("expected Scalar, got %s", got)
	}

	_, err = b.InferOperationType("pi", []typesystem.Type{scalarT()}, nil)
	assertCode(t, err, diagnostics.ErrArityMismatch)
}

func TestMergeConflictLeavesBuilderIntact(t *testing.T) {
	b := testBuilder(t, matrixDef(), matrixRing())

	rival := testBuilder(t, &ast.StructureDef{
		Name: "VectorSpace",
		Operations: []ast.OperationDecl{
			{Name: "multiply", Signature: ast.NamedType{Name: "Scalar"}},
		},
	})

	if _, err := b.Merge(rival); err == nil {
		t.Fatal("expected merge conflict")
	}
	owner, ok := b.Ops.StructureFor("multiply")
	if !ok || owner != "MatrixRing" {
		t.Errorf("ownership changed after failed merge: %s", owner)
	}
}

func TestMergeDuplicatesWarn(t *testing.T) {
	b := testBuilder(t, matrixDef(), matrixRing())
	other := testBuilder(t, matrixDef(), matrixRing(), tensorDef())

	warnings, err := b.Merge(other)
	if err != nil {
		t.Fatalf("merge: %v", err)
	}
	if len(warnings) != 2 {
		t.Fatalf("expected duplicate warnings for Matrix and MatrixRing, got %v", warnings)
	}
	if _, ok := b.Data.Type("Tensor3D"); !ok {
		t.Error("Tensor3D should be merged in")
	}
}

func TestUnicodeTypeAlias(t *testing.T) {
	b := testBuilder(t, scalarDef())

	got, err := b.ResolveTypeExpr(ast.NamedType{Name: "ℝ"})
	if err != nil {
		t.Fatalf("resolve ℝ: %v", err)
	}
	if got.String() != "Scalar" {
		t.Errorf("expected Scalar, got %s", got)
	}
}
