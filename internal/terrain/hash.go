package terrain

import (
	"math"
)

// rand2 hashes two values to [-1, 1). It is symmetric in its arguments.
func rand2(p, q float64) float64 {
	r := (p + math.Pi) * (q + math.Pi)
	return 2*(r-math.Trunc(r)) - 1
}

// cornerSeeds derives the four seed-tetrahedron corner seeds from one scalar.
func cornerSeeds(seed float64) [4]float64 {
	r1 := rand2(seed, seed)
	r2 := rand2(r1, r1)
	r3 := rand2(r1, r2)
	r4 := rand2(r2, r3)
	return [4]float64{r1, r2, r3, r4}
}
