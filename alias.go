package nomos

import (
	"github.com/nomoslang/nomos/internal/ast"
	"github.com/nomoslang/nomos/internal/diagnostics"
	"github.com/nomoslang/nomos/internal/patterns"
	"github.com/nomoslang/nomos/internal/typesystem"
)

// The checker's node and type representations live in internal packages;
// these aliases are the public names for constructing programs and
// reading results.

// Expressions.
type (
	Expression  = ast.Expression
	Const       = ast.Const
	Str         = ast.Str
	Ident       = ast.Ident
	Placeholder = ast.Placeholder
	Operation   = ast.Operation
	Match       = ast.Match
	MatchCase   = ast.MatchCase
)

// Top-level definitions.
type (
	TopLevel      = ast.TopLevel
	DataDef       = ast.DataDef
	DataVariant   = ast.DataVariant
	StructureDef  = ast.StructureDef
	OperationDecl = ast.OperationDecl
	Axiom         = ast.Axiom
	ImplementsDef = ast.ImplementsDef
	FunctionDef   = ast.FunctionDef
)

// Type expressions and parameters.
type (
	TypeExpr       = ast.TypeExpr
	NamedType      = ast.NamedType
	ParametricType = ast.ParametricType
	FunctionType   = ast.FunctionType
	NumberLit      = ast.NumberLit
	StringLit      = ast.StringLit
	TypeParam      = ast.TypeParam
	Kind           = ast.Kind
)

const (
	KindType   = ast.KindType
	KindNat    = ast.KindNat
	KindString = ast.KindString
)

// Patterns.
type (
	Pattern            = patterns.Pattern
	WildcardPattern    = patterns.Wildcard
	VariablePattern    = patterns.Variable
	ConstantPattern    = patterns.Constant
	ConstructorPattern = patterns.Constructor
	AsPattern          = patterns.As
)

// Types.
type (
	Type  = typesystem.Type
	TVar  = typesystem.TVar
	TData = typesystem.TData
	TNat  = typesystem.TNat
	TStr  = typesystem.TStr
	Subst = typesystem.Subst
)

// Diagnostics.
type (
	Diagnostic      = diagnostics.Diagnostic
	DiagnosticError = diagnostics.DiagnosticError
	ErrorCode       = diagnostics.ErrorCode
	Severity        = diagnostics.Severity
)

const (
	SeverityWarning = diagnostics.SeverityWarning
	SeverityError   = diagnostics.SeverityError
)

const (
	ErrUnknownType       = diagnostics.ErrUnknownType
	ErrArityMismatch     = diagnostics.ErrArityMismatch
	ErrTypeMismatch      = diagnostics.ErrTypeMismatch
	ErrOccursCheck       = diagnostics.ErrOccursCheck
	ErrDimensionMismatch = diagnostics.ErrDimensionMismatch
	ErrOperationConflict = diagnostics.ErrOperationConflict
	ErrUnknownOperation  = diagnostics.ErrUnknownOperation
	ErrBadPattern        = diagnostics.ErrBadPattern

	WarnNonExhaustiveMatch  = diagnostics.WarnNonExhaustiveMatch
	WarnUnreachablePattern  = diagnostics.WarnUnreachablePattern
	WarnDuplicateStructure  = diagnostics.WarnDuplicateStructure
	WarnDuplicateImplements = diagnostics.WarnDuplicateImplements
	WarnDuplicateData       = diagnostics.WarnDuplicateData
)
