package force

import (
	"hash/fnv"
	"math"
)

const twoPi = 2 * math.Pi

// idHash is the stable 32-bit FNV-1a hash of a node id. All per-node
// variation in the simulation derives from it.
func idHash(id string) uint32 {
	h := fnv.New32a()
	_, _ = h.Write([]byte(id))
	return h.Sum32()
}

// seedPhase returns the initial drift phase in [0, 2π).
func seedPhase(h uint32) float64 {
	return float64(h%1000) / 1000 * twoPi
}

// phaseSpeed is the drift phase advance per second, in [0.3, 0.398].
func phaseSpeed(h uint32) float64 {
	return 0.3 + float64(h%50)/500
}

// wobble returns the per-axis frequency multipliers of the elliptical drift.
func wobble(h uint32) (sx, sy float64) {
	sx = 0.4 + float64(h%20)/100
	sy = 0.5 + float64((h/20)%20)/100
	return sx, sy
}
