package game

import "math/rand/v2"

// Rand is the source of randomness for map layout and hit rolls.
type Rand interface {
	// IntN returns a uniform value in [0,n).
	IntN(n int) int
}

type entropyRand struct{}

func (entropyRand) IntN(n int) int { return rand.IntN(n) }

// DefaultRand draws from the runtime's entropy-seeded generator. It is safe
// for concurrent use.
func DefaultRand() Rand { return entropyRand{} }
