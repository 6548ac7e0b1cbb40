// Package exhaustive checks match cases for coverage and reachability
// and types patterns against scrutinee types. Exhaustiveness is decided
// over the top-level constructor set of the scrutinee's data type;
// nested refinement is out of scope and the check stays advisory.
package exhaustive

import (
	"github.com/nomoslang/nomos/internal/ast"
	"github.com/nomoslang/nomos/internal/patterns"
)

// Case is one match arm as seen by the checkers. A guarded case matches
// conditionally, so it never counts toward coverage and never shadows a
// later case.
type Case struct {
	Pattern patterns.Pattern
	Guarded bool
}

// CheckExhaustive reports the constructors of def that no unguarded case
// covers, in declaration order. An unguarded catch-all covers everything.
func CheckExhaustive(cases []Case, def *ast.DataDef) []string {
	covered := make(map[string]bool)
	for _, c := range cases {
		if c.Guarded {
			continue
		}
		p := unwrapAs(c.Pattern)
		if patterns.IsCatchAll(p) {
			return nil
		}
		if ctor, ok := p.(patterns.Constructor); ok {
			covered[ctor.Name] = true
		}
	}

	var missing []string
	for _, v := range def.Variants {
		if !covered[v.Name] {
			missing = append(missing, v.Name)
		}
	}
	return missing
}

// CheckReachable returns the indices of cases shadowed by an earlier
// unguarded case whose pattern subsumes theirs.
func CheckReachable(cases []Case) []int {
	var unreachable []int
	for i := range cases {
		for j := 0; j < i; j++ {
			if cases[j].Guarded {
				continue
			}
			if patterns.Subsumes(cases[j].Pattern, cases[i].Pattern) {
				unreachable = append(unreachable, i)
				break
			}
		}
	}
	return unreachable
}

func unwrapAs(p patterns.Pattern) patterns.Pattern {
	for {
		as, ok := p.(patterns.As)
		if !ok {
			return p
		}
		p = as.Pattern
	}
}
