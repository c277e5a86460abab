package signal

import "math"

// Sweep plays a slowly rising tone on the x axis against a fixed tone on
// the y axis, cycling once the ratio reaches its ceiling. The changing
// ratio walks through the whole family of Lissajous figures.
type Sweep struct {
	rate    int
	base    float64 // y frequency, Hz
	ratio   float64 // current x/y frequency ratio
	ratioHi float64
	rise    float64 // ratio growth per second
	xPhase  float64
	yPhase  float64
}

// NewSweep builds a sweep generator over ratios 1..4.
func NewSweep(rate int) *Sweep {
	if rate <= 0 {
		rate = DefaultRate
	}
	return &Sweep{rate: rate, base: 180, ratio: 1, ratioHi: 4, rise: 0.05}
}

func (s *Sweep) Name() string    { return "sweep" }
func (s *Sweep) SampleRate() int { return s.rate }

func (s *Sweep) Read(dst [][2]float32) int {
	dt := 1 / float64(s.rate)
	for i := range dst {
		dst[i] = [2]float32{
			float32(math.Sin(s.xPhase)),
			float32(math.Sin(s.yPhase)),
		}
		// Advance by phase increments so the sweep stays continuous.
		s.xPhase += 2 * math.Pi * s.base * s.ratio * dt
		s.yPhase += 2 * math.Pi * s.base * dt
		s.ratio += s.rise * dt
		if s.ratio > s.ratioHi {
			s.ratio = 1
		}
	}
	return len(dst)
}

func init() {
	Register("sweep", func(cfg map[string]string) Source {
		return NewSweep(DefaultRate)
	})
}
