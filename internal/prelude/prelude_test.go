package prelude

import (
	"testing"

	"github.com/nomoslang/nomos/internal/ast"
	"github.com/nomoslang/nomos/internal/context"
)

func TestDefinitionsDecode(t *testing.T) {
	items, err := Definitions()
	if err != nil {
		t.Fatalf("definitions: %v", err)
	}
	if len(items) == 0 {
		t.Fatal("prelude is empty")
	}
}

func TestDefinitionsLoadCleanly(t *testing.T) {
	items, err := Definitions()
	if err != nil {
		t.Fatalf("definitions: %v", err)
	}
	b := context.NewBuilder()
	warnings, err := b.Load(items)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(warnings) != 0 {
		t.Errorf("prelude should load without warnings, got %v", warnings)
	}

	for _, name := range []string{"Scalar", "Bool", "Option", "List", "Vector", "Matrix", "Tensor3D"} {
		if _, ok := b.Data.Type(name); !ok {
			t.Errorf("missing data type %s", name)
		}
	}
	for _, name := range []string{"Arithmetic", "Ordered", "MatrixRing", "VectorSpace"} {
		if _, ok := b.Structs.Get(name); !ok {
			t.Errorf("missing structure %s", name)
		}
	}
	for op, owner := range map[string]string{
		"plus":      "Arithmetic",
		"multiply":  "MatrixRing",
		"less_than": "Ordered",
	} {
		got, ok := b.Ops.StructureFor(op)
		if !ok || got != owner {
			t.Errorf("operation %s: expected owner %s, got %s", op, owner, got)
		}
	}
	if _, ok := b.Ops.TopLevel("sin"); !ok {
		t.Error("missing top-level operation sin")
	}
	if !b.Ops.HasImplementation("Ordered", "Scalar") {
		t.Error("Ordered(Scalar) implementation missing")
	}
}

func TestSignatureShape(t *testing.T) {
	items, err := Definitions()
	if err != nil {
		t.Fatalf("definitions: %v", err)
	}
	for _, item := range items {
		def, ok := item.(*ast.StructureDef)
		if !ok || def.Name != "MatrixRing" {
			continue
		}
		op, ok := def.Operation("multiply")
		if !ok {
			t.Fatal("multiply not declared")
		}
		args, result := ast.ArrowSignature(op.Signature)
		if len(args) != 2 {
			t.Fatalf("multiply should take two arguments, got %d", len(args))
		}
		if result.String() != "Matrix(m, p)" {
			t.Errorf("expected Matrix(m, p) result, got %s", result)
		}
		return
	}
	t.Fatal("MatrixRing not found in prelude")
}
