package scope

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExcitationPeakAtZero(t *testing.T) {
	sigma, intensity := float32(0.05), float32(2.0)
	want := float64(intensity) / (float64(sigma) * math.Sqrt(2*math.Pi))
	assert.InDelta(t, want, float64(Excitation(0, sigma, intensity)), 1e-6)
}

func TestExcitationStrictlyDecreasing(t *testing.T) {
	sigma, intensity := float32(0.02), float32(1.0)
	prev := Excitation(0, sigma, intensity)
	for d := float32(0.001); d < 0.2; d += 0.001 {
		cur := Excitation(d, sigma, intensity)
		assert.Less(t, cur, prev, "excitation must fall with distance (d=%v)", d)
		prev = cur
	}
}

func TestExcitationScalesWithIntensity(t *testing.T) {
	assert.Equal(t, float32(0), Excitation(0.01, 0.05, 0))
	one := Excitation(0.01, 0.05, 1)
	three := Excitation(0.01, 0.05, 3)
	assert.InDelta(t, 3*float64(one), float64(three), 1e-6)
}
