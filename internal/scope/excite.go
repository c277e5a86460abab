package scope

import "math"

const invSqrt2Pi = 0.39894228040143267794

// Excitation is the brightness a beam pass deposits at perpendicular
// distance d: a normalized Gaussian density of spread sigma scaled by
// intensity. Strictly decreasing in d, maximal at d = 0.
func Excitation(d, sigma, intensity float32) float32 {
	u := float64(d) / float64(sigma)
	return float32(float64(intensity) * invSqrt2Pi / float64(sigma) * math.Exp(-0.5*u*u))
}
