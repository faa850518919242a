// Package dice provides the randomness abstraction used by combat rounds,
// damage rolls and behaviour scripts.
package dice

import (
	"fmt"
	"strings"
)

// Source is the randomness provider for every roll in the world.
//
// Implementations used outside the game loop MUST be safe for concurrent use.
type Source interface {
	// Intn returns a non-negative random int in [0, n).
	//
	// Precondition: n > 0.
	Intn(n int) int
}

// RollResult records a single evaluated roll.
//
// Postcondition: Total() == sum(Dice) + Modifier.
type RollResult struct {
	Expression string
	Dice       []int
	Modifier   int
}

// Total returns the sum of all die faces plus the modifier.
func (r RollResult) Total() int {
	total := r.Modifier
	for _, d := range r.Dice {
		total += d
	}
	return total
}

// String renders the roll as "2d6+3: 4+5 (+3) = 12".
func (r RollResult) String() string {
	faces := make([]string, len(r.Dice))
	for i, d := range r.Dice {
		faces[i] = fmt.Sprint(d)
	}
	expr := r.Expression
	if expr == "" {
		expr = "roll"
	}
	return fmt.Sprintf("%s: %s (%+d) = %d", expr, strings.Join(faces, "+"), r.Modifier, r.Total())
}
