// Package channel computes the three independent per-pixel signals of an
// impact composite: population, cropland, and amenity cost. Each computation
// reads layers already warped onto the reference grid and owns its output
// buffer, so the compositor can run all three concurrently.
package channel

// quantize converts a [0,255] float into a byte the way array stores do:
// truncation toward zero, with out-of-range values clamped.
func quantize(v float64) uint8 {
	if v <= 0 {
		return 0
	}
	if v >= 255 {
		return 255
	}
	return uint8(v)
}
