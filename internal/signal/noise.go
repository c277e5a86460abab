package signal

import (
	"strconv"

	"glowie/pkg/core"
)

// Noise drives the beam on a low-pass filtered random walk, the scope
// equivalent of tuning between stations.
type Noise struct {
	rate int
	rng  *core.RNG
	x, y float64
	vx   float64
	vy   float64
}

// NewNoise builds a deterministic noise source from the seed.
func NewNoise(rate int, seed int64) *Noise {
	if rate <= 0 {
		rate = DefaultRate
	}
	return &Noise{rate: rate, rng: core.NewRNG(seed)}
}

func (n *Noise) Name() string    { return "noise" }
func (n *Noise) SampleRate() int { return n.rate }

func (n *Noise) Read(dst [][2]float32) int {
	const (
		kick = 0.02 // random velocity injection per sample
		drag = 0.98 // velocity retention per sample
		pull = 1e-4 // spring back toward the center
	)
	for i := range dst {
		n.vx = n.vx*drag + n.rng.Uniform()*kick - n.x*pull
		n.vy = n.vy*drag + n.rng.Uniform()*kick - n.y*pull
		n.x = clamp1(n.x + n.vx)
		n.y = clamp1(n.y + n.vy)
		dst[i] = [2]float32{float32(n.x), float32(n.y)}
	}
	return len(dst)
}

func clamp1(v float64) float64 {
	if v > 1 {
		return 1
	}
	if v < -1 {
		return -1
	}
	return v
}

func init() {
	Register("noise", func(cfg map[string]string) Source {
		seed := int64(1)
		if s, ok := cfg["seed"]; ok {
			if v, err := strconv.ParseInt(s, 10, 64); err == nil {
				seed = v
			}
		}
		return NewNoise(DefaultRate, seed)
	})
}
