package context

import (
	"errors"

	"github.com/agnivade/levenshtein"
)

func asError[T error](err error, target *T) bool {
	return errors.As(err, target)
}

// closestName picks the known name nearest to a misspelled one, within
// an edit distance of two. Used for did-you-mean hints on unknown
// operations.
func closestName(name string, known []string) (string, bool) {
	best := ""
	bestDist := 3
	for _, candidate := range known {
		d := levenshtein.ComputeDistance(name, candidate)
		if d < bestDist {
			best, bestDist = candidate, d
		}
	}
	return best, best != ""
}
