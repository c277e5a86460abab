package signal

import "math"

// DefaultRate is the sample rate generators run at, matching CD audio so
// generated traces pace like decoded tracks.
const DefaultRate = 44100

// Lissajous traces the classic two-sine phase figure. The phase offset
// drifts slowly so the figure tumbles instead of freezing.
type Lissajous struct {
	rate  int
	fx    float64 // x frequency, Hz
	fy    float64 // y frequency, Hz
	drift float64 // phase drift, radians per second
	phase float64
	t     float64
}

// NewLissajous builds a generator with a 3:2 frequency ratio.
func NewLissajous(rate int) *Lissajous {
	if rate <= 0 {
		rate = DefaultRate
	}
	return &Lissajous{rate: rate, fx: 330, fy: 220, drift: 0.4}
}

func (l *Lissajous) Name() string    { return "lissajous" }
func (l *Lissajous) SampleRate() int { return l.rate }

func (l *Lissajous) Read(dst [][2]float32) int {
	dt := 1 / float64(l.rate)
	for i := range dst {
		dst[i] = [2]float32{
			float32(math.Sin(2*math.Pi*l.fx*l.t + l.phase)),
			float32(math.Sin(2 * math.Pi * l.fy * l.t)),
		}
		l.t += dt
		l.phase += l.drift * dt
	}
	return len(dst)
}

func init() {
	Register("lissajous", func(cfg map[string]string) Source {
		return NewLissajous(DefaultRate)
	})
}
