package ast

// TopLevel is a top-level program item as produced by the parser.
type TopLevel interface {
	topLevel()
}

// DataVariant is one constructor of an algebraic data type, with its
// declared field types.
type DataVariant struct {
	Name   string
	Fields []TypeExpr
}

// DataDef is an algebraic data type definition:
//
//	data Option(T) = None | Some(T)
//	data Tensor3D(i: Nat, j: Nat, k: Nat)
//
// A definition is created once when loaded and immutable afterward.
type DataDef struct {
	Name       string
	TypeParams []TypeParam
	Variants   []DataVariant
}

func (*DataDef) topLevel() {}

// OperationDecl declares one operation and its signature, either inside
// a structure or at top level (operation sin : Scalar → Scalar).
type OperationDecl struct {
	Name      string
	Signature TypeExpr
}

func (*OperationDecl) topLevel() {}

// Axiom is a named proposition attached to a structure. The checker
// stores axioms and exposes them to an external verification backend;
// it never evaluates them.
type Axiom struct {
	Name        string
	Proposition Expression
}

// StructureDef is a named, parametric bundle of operation signatures and
// axioms, the interface/typeclass analog:
//
//	structure MatrixRing(m: Nat, n: Nat, p: Nat) {
//	    operation multiply : Matrix(m,n) → Matrix(n,p) → Matrix(m,p)
//	}
type StructureDef struct {
	Name       string
	TypeParams []TypeParam
	Operations []OperationDecl
	Axioms     []Axiom

	// Extends optionally names a parent structure.
	Extends string
}

func (*StructureDef) topLevel() {}

// Operation looks up a declared operation by name.
func (d *StructureDef) Operation(name string) (OperationDecl, bool) {
	for _, op := range d.Operations {
		if op.Name == name {
			return op, true
		}
	}
	return OperationDecl{}, false
}

// ImplementsDef asserts that concrete type arguments satisfy a structure:
//
//	implements Ordered(Scalar)
type ImplementsDef struct {
	StructureName string
	TypeArgs      []TypeExpr
}

func (*ImplementsDef) topLevel() {}

// FunctionDef is a user function definition. Annotation may be nil when
// the type is to be inferred.
type FunctionDef struct {
	Name       string
	Params     []string
	Annotation TypeExpr
	Body       Expression
}

func (*FunctionDef) topLevel() {}
