package utils

// Clamp01 clamps x to the interval [0, 1]. NaN clamps to 0.
func Clamp01(x float64) float64 {
	if !(x > 0) {
		return 0
	}
	if x > 1 {
		return 1
	}
	return x
}
