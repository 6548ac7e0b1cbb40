// Package patterns defines the match-pattern representation and
// structural matching against constructor-shaped terms. It knows nothing
// about the AST or the registry; a term is anything that can present
// itself as a constructor application or an atomic literal.
package patterns

import (
	"fmt"
	"strings"
)

// Term is the minimal shape a pattern can be matched against: either a
// constructor application (name plus ordered arguments) or an atom.
type Term interface {
	// Constructor returns the constructor name and arguments when the
	// term is constructor-shaped. A bare identifier presents as a
	// nullary constructor.
	Constructor() (name string, args []Term, ok bool)
	// Atom returns the literal text of an atomic term.
	Atom() (lit string, ok bool)
}

// Pattern is the tagged union of match patterns.
type Pattern interface {
	String() string
	patternNode()
}

// Wildcard matches anything and binds nothing.
type Wildcard struct{}

func (Wildcard) patternNode()   {}
func (Wildcard) String() string { return "_" }

// Variable matches anything and binds the matched term to Name.
type Variable struct {
	Name string
}

func (Variable) patternNode()     {}
func (p Variable) String() string { return p.Name }

// Constant matches an atomic term with the same literal.
type Constant struct {
	Literal string
}

func (Constant) patternNode()     {}
func (p Constant) String() string { return p.Literal }

// Constructor matches a constructor application with the same name and
// pairwise-matching arguments. Name must refer to a registered data
// constructor with exactly len(Args) fields; the checker validates this,
// never assumes it.
type Constructor struct {
	Name string
	Args []Pattern
}

func (Constructor) patternNode() {}
func (p Constructor) String() string {
	if len(p.Args) == 0 {
		return p.Name
	}
	parts := make([]string, len(p.Args))
	for i, a := range p.Args {
		parts[i] = a.String()
	}
	return fmt.Sprintf("%s(%s)", p.Name, strings.Join(parts, ", "))
}

// As binds the whole matched term to Name and then matches the inner
// pattern (the `p @ name` form).
type As struct {
	Name    string
	Pattern Pattern
}

func (As) patternNode() {}
func (p As) String() string {
	return fmt.Sprintf("%s @ %s", p.Pattern, p.Name)
}

// Bindings maps pattern variable names to the terms they captured.
// Patterns are not required to be linear: when a name repeats within one
// pattern, the last binding wins.
type Bindings map[string]Term

// Match structurally matches term against pattern. It reports the
// variable bindings on success. This is a symbolic operation used by
// collaborators that reduce expressions; type inference never calls it.
func Match(term Term, pattern Pattern) (Bindings, bool) {
	bindings := Bindings{}
	if !match(term, pattern, bindings) {
		return nil, false
	}
	return bindings, true
}

func match(term Term, pattern Pattern, bindings Bindings) bool {
	switch p := pattern.(type) {
	case Wildcard:
		return true
	case Variable:
		bindings[p.Name] = term
		return true
	case Constant:
		lit, ok := term.Atom()
		return ok && lit == p.Literal
	case Constructor:
		name, args, ok := term.Constructor()
		if !ok || name != p.Name || len(args) != len(p.Args) {
			return false
		}
		for i, sub := range p.Args {
			if !match(args[i], sub, bindings) {
				return false
			}
		}
		return true
	case As:
		bindings[p.Name] = term
		return match(term, p.Pattern, bindings)
	default:
		return false
	}
}

// Subsumes reports whether p1 matches every term that p2 matches. It is
// conservative: guards are not considered, and a Constructor subsumes
// another only for the same constructor with pairwise-subsuming
// sub-patterns.
func Subsumes(p1, p2 Pattern) bool {
	if as, ok := p1.(As); ok {
		return Subsumes(as.Pattern, p2)
	}
	if as, ok := p2.(As); ok {
		return Subsumes(p1, as.Pattern)
	}

	switch a := p1.(type) {
	case Wildcard, Variable:
		return true
	case Constant:
		b, ok := p2.(Constant)
		return ok && a.Literal == b.Literal
	case Constructor:
		b, ok := p2.(Constructor)
		if !ok || a.Name != b.Name || len(a.Args) != len(b.Args) {
			return false
		}
		for i := range a.Args {
			if !Subsumes(a.Args[i], b.Args[i]) {
				return false
			}
		}
		return true
	default:
		return false
	}
}

// IsCatchAll reports whether the pattern matches every possible term:
// a wildcard, a bare variable, or an as-pattern over one.
func IsCatchAll(p Pattern) bool {
	switch p := p.(type) {
	case Wildcard, Variable:
		return true
	case As:
		return IsCatchAll(p.Pattern)
	default:
		return false
	}
}

// BoundNames returns the variable names a pattern binds, in left-to-right
// order with repeats preserved.
func BoundNames(p Pattern) []string {
	var names []string
	collectNames(p, &names)
	return names
}

func collectNames(p Pattern, names *[]string) {
	switch p := p.(type) {
	case Variable:
		*names = append(*names, p.Name)
	case Constructor:
		for _, sub := range p.Args {
			collectNames(sub, names)
		}
	case As:
		*names = append(*names, p.Name)
		collectNames(p.Pattern, names)
	}
}
