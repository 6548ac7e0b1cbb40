// Package prelude ships the standard definitions every bootstrapped
// context starts from: the base data types, the arithmetic and ordering
// structures, and the usual analytic operations. The manifest is
// embedded and already structured; loading it never parses syntax.
package prelude

import (
	_ "embed"
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/nomoslang/nomos/internal/ast"
)

//go:embed manifest.yaml
var manifestYAML []byte

type manifest struct {
	Data       []dataNode       `yaml:"data"`
	Structures []structureNode  `yaml:"structures"`
	Operations []operationNode  `yaml:"operations"`
	Implements []implementsNode `yaml:"implements"`
}

type dataNode struct {
	Name     string        `yaml:"name"`
	Params   []paramNode   `yaml:"params"`
	Variants []variantNode `yaml:"variants"`
}

type variantNode struct {
	Name   string     `yaml:"name"`
	Fields []typeNode `yaml:"fields"`
}

type paramNode struct {
	Name string `yaml:"name"`
	Kind string `yaml:"kind"`
}

type structureNode struct {
	Name       string          `yaml:"name"`
	Params     []paramNode     `yaml:"params"`
	Operations []operationNode `yaml:"operations"`
	Axioms     []axiomNode     `yaml:"axioms"`
}

type operationNode struct {
	Name      string   `yaml:"name"`
	Signature typeNode `yaml:"signature"`
}

type axiomNode struct {
	Name        string   `yaml:"name"`
	Proposition exprNode `yaml:"proposition"`
}

type implementsNode struct {
	Structure string     `yaml:"structure"`
	Args      []typeNode `yaml:"args"`
}

type typeNode struct {
	Named      string     `yaml:"named,omitempty"`
	Number     *int       `yaml:"number,omitempty"`
	Text       *string    `yaml:"string,omitempty"`
	Parametric *applyNode `yaml:"parametric,omitempty"`
	Arrow      []typeNode `yaml:"arrow,omitempty"`
}

type applyNode struct {
	Name string     `yaml:"name"`
	Args []typeNode `yaml:"args"`
}

type exprNode struct {
	Const string    `yaml:"const,omitempty"`
	Text  *string   `yaml:"str,omitempty"`
	Ident string    `yaml:"ident,omitempty"`
	Op    *callNode `yaml:"op,omitempty"`
}

type callNode struct {
	Name string     `yaml:"name"`
	Args []exprNode `yaml:"args"`
}

// Definitions decodes the embedded manifest into loadable top-level
// items, in manifest order.
func Definitions() ([]ast.TopLevel, error) {
	var m manifest
	if err := yaml.Unmarshal(manifestYAML, &m); err != nil {
		return nil, fmt.Errorf("prelude manifest: %w", err)
	}

	var items []ast.TopLevel
	for _, d := range m.Data {
		def, err := d.toDef()
		if err != nil {
			return nil, err
		}
		items = append(items, def)
	}
	for _, s := range m.Structures {
		def, err := s.toDef()
		if err != nil {
			return nil, err
		}
		items = append(items, def)
	}
	for _, op := range m.Operations {
		sig, err := op.Signature.toExpr()
		if err != nil {
			return nil, err
		}
		items = append(items, &ast.OperationDecl{Name: op.Name, Signature: sig})
	}
	for _, impl := range m.Implements {
		args, err := typeExprs(impl.Args)
		if err != nil {
			return nil, err
		}
		items = append(items, &ast.ImplementsDef{StructureName: impl.Structure, TypeArgs: args})
	}
	return items, nil
}

func (d dataNode) toDef() (*ast.DataDef, error) {
	params, err := typeParams(d.Params)
	if err != nil {
		return nil, err
	}
	def := &ast.DataDef{Name: d.Name, TypeParams: params}
	for _, v := range d.Variants {
		fields, err := typeExprs(v.Fields)
		if err != nil {
			return nil, err
		}
		def.Variants = append(def.Variants, ast.DataVariant{Name: v.Name, Fields: fields})
	}
	return def, nil
}

func (s structureNode) toDef() (*ast.StructureDef, error) {
	params, err := typeParams(s.Params)
	if err != nil {
		return nil, err
	}
	def := &ast.StructureDef{Name: s.Name, TypeParams: params}
	for _, op := range s.Operations {
		sig, err := op.Signature.toExpr()
		if err != nil {
			return nil, err
		}
		def.Operations = append(def.Operations, ast.OperationDecl{Name: op.Name, Signature: sig})
	}
	for _, ax := range s.Axioms {
		prop, err := ax.Proposition.toExpr()
		if err != nil {
			return nil, err
		}
		def.Axioms = append(def.Axioms, ast.Axiom{Name: ax.Name, Proposition: prop})
	}
	return def, nil
}

func typeParams(nodes []paramNode) ([]ast.TypeParam, error) {
	params := make([]ast.TypeParam, len(nodes))
	for i, n := range nodes {
		kind, err := parseKind(n.Kind)
		if err != nil {
			return nil, fmt.Errorf("parameter %q: %w", n.Name, err)
		}
		params[i] = ast.TypeParam{Name: n.Name, Kind: kind}
	}
	return params, nil
}

func parseKind(s string) (ast.Kind, error) {
	switch s {
	case "", "Type":
		return ast.KindType, nil
	case "Nat":
		return ast.KindNat, nil
	case "String":
		return ast.KindString, nil
	default:
		return ast.KindType, fmt.Errorf("unknown kind %q", s)
	}
}

func typeExprs(nodes []typeNode) ([]ast.TypeExpr, error) {
	exprs := make([]ast.TypeExpr, len(nodes))
	for i, n := range nodes {
		e, err := n.toExpr()
		if err != nil {
			return nil, err
		}
		exprs[i] = e
	}
	return exprs, nil
}

func (n typeNode) toExpr() (ast.TypeExpr, error) {
	switch {
	case len(n.Arrow) > 0:
		if len(n.Arrow) < 2 {
			return nil, fmt.Errorf("arrow needs at least two entries")
		}
		parts, err := typeExprs(n.Arrow)
		if err != nil {
			return nil, err
		}
		expr := parts[len(parts)-1]
		for i := len(parts) - 2; i >= 0; i-- {
			expr = ast.FunctionType{From: parts[i], To: expr}
		}
		return expr, nil
	case n.Parametric != nil:
		args, err := typeExprs(n.Parametric.Args)
		if err != nil {
			return nil, err
		}
		return ast.ParametricType{Name: n.Parametric.Name, Args: args}, nil
	case n.Number != nil:
		return ast.NumberLit{Value: *n.Number}, nil
	case n.Text != nil:
		return ast.StringLit{Value: *n.Text}, nil
	case n.Named != "":
		return ast.NamedType{Name: n.Named}, nil
	default:
		return nil, fmt.Errorf("empty type expression in manifest")
	}
}

func (n exprNode) toExpr() (ast.Expression, error) {
	switch {
	case n.Op != nil:
		args := make([]ast.Expression, len(n.Op.Args))
		for i, a := range n.Op.Args {
			e, err := a.toExpr()
			if err != nil {
				return nil, err
			}
			args[i] = e
		}
		return ast.Operation{Name: n.Op.Name, Args: args}, nil
	case n.Ident != "":
		return ast.Ident{Name: n.Ident}, nil
	case n.Const != "":
		return ast.Const{Value: n.Const}, nil
	case n.Text != nil:
		return ast.Str{Value: *n.Text}, nil
	default:
		return nil, fmt.Errorf("empty expression in manifest")
	}
}
