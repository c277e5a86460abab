package scope

import (
	"math"
	"runtime"
	"sync"
)

// Frame is the per-pass input assembled by the host-side builder: the
// flattened line list, the chunk table indexing into it, and the frame
// duration in the same time units as the line timestamps. TotalTime must be
// at least the timestamp of the last line in every chunk.
type Frame struct {
	Lines     []Line
	Chunks    ChunkTable
	TotalTime float32
}

const (
	// discardMargin bounds the aspect-corrected coordinates a pixel may
	// have and still be shaded. Pixels beyond it are never written.
	discardMargin = 1.1

	// sigmaFloor is the constant k in the per-line normalization
	// k*sigma + |v|, keeping short segments from over-accumulating
	// relative to long ones.
	sigmaFloor = 1.0

	// maxBrightness caps the accumulator so overlapping excitations
	// cannot run away.
	maxBrightness = 2.0
)

// Renderer runs the decay/excitation pass and owns the ping-pong buffer
// pair plus the tone-mapped RGBA view of the latest frame. A Renderer is
// not safe for concurrent use; it parallelizes internally.
type Renderer struct {
	cfg     Config
	w, h    int
	front   *FrameBuffer // most recently completed frame
	back    *FrameBuffer // written by the next pass
	display []byte       // RGBA, one pixel per buffer cell
	workers int
}

// NewRenderer builds a renderer for the given output resolution. A workers
// count of zero or less selects one worker per CPU.
func NewRenderer(cfg Config, w, h, workers int) *Renderer {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	r := &Renderer{cfg: cfg, workers: workers}
	r.Resize(w, h)
	return r
}

// Resize reallocates both buffers for a new resolution. Accumulated
// persistence does not survive a resize.
func (r *Renderer) Resize(w, h int) {
	if w <= 0 {
		w = 1
	}
	if h <= 0 {
		h = 1
	}
	r.w, r.h = w, h
	r.front = NewFrameBuffer(w, h)
	r.back = NewFrameBuffer(w, h)
	r.display = make([]byte, 4*w*h)
}

// Clear zeroes the accumulated persistence without reallocating.
func (r *Renderer) Clear() {
	r.front.Clear()
	r.back.Clear()
	for i := range r.display {
		r.display[i] = 0
	}
}

// Size returns the buffer dimensions.
func (r *Renderer) Size() (int, int) { return r.w, r.h }

// Config returns the current beam parameters.
func (r *Renderer) Config() Config { return r.cfg }

// SetConfig replaces the beam parameters. Must not be called while a pass
// is running.
func (r *Renderer) SetConfig(cfg Config) { r.cfg = cfg }

// Brightness returns the buffer written by the most recent pass. The next
// pass reads it as its previous frame.
func (r *Renderer) Brightness() *FrameBuffer { return r.front }

// Display returns the RGBA view produced alongside the most recent pass,
// 4 bytes per pixel in row-major order.
func (r *Renderer) Display() []byte { return r.display }

// Step runs one full decay/excitation pass over every pixel and swaps the
// buffer roles so the written frame becomes the next pass's input. Pixel
// rows are fanned out across workers; rows are disjoint and all shared
// state is read-only for the duration of the pass.
func (r *Renderer) Step(frame *Frame) {
	workers := r.workers
	if workers > r.h {
		workers = r.h
	}
	if workers < 1 {
		workers = 1
	}

	var wg sync.WaitGroup
	wg.Add(workers)
	for w := 0; w < workers; w++ {
		go func(wid int) {
			defer wg.Done()
			for y := wid; y < r.h; y += workers {
				r.shadeRow(y, frame)
			}
		}(w)
	}
	wg.Wait()

	r.front, r.back = r.back, r.front
}

// shadeRow applies the per-pixel kernel across one buffer row.
func (r *Renderer) shadeRow(y int, frame *Frame) {
	for x := 0; x < r.w; x++ {
		nx, ny, ok := r.mapPixel(x, y)
		if !ok {
			// Discarded: neither buffer nor display is touched.
			continue
		}
		v := r.shadePixel(nx, ny, r.front.At(x, y), frame)
		r.back.Set(x, y, v)

		// Tone map: green channel, square-root compression.
		g := math.Sqrt(float64(v))
		if g > 1 {
			g = 1
		}
		i := 4 * (y*r.w + x)
		r.display[i+0] = 0
		r.display[i+1] = byte(255*g + 0.5)
		r.display[i+2] = 0
		r.display[i+3] = 0xff
	}
}

// mapPixel converts device coordinates to the aspect-corrected normalized
// square, stretching the longer axis so the visible unit square stays
// square. It reports false for pixels beyond the discard margin. Pure in
// position and buffer dimensions, so a pixel discarded once is discarded
// every frame.
func (r *Renderer) mapPixel(x, y int) (float32, float32, bool) {
	nx := (2*(float32(x)+0.5) - float32(r.w)) / float32(r.w)
	ny := (float32(r.h) - 2*(float32(y)+0.5)) / float32(r.h)
	if r.w > r.h {
		nx *= float32(r.w) / float32(r.h)
	} else if r.h > r.w {
		ny *= float32(r.h) / float32(r.w)
	}
	if nx < -discardMargin || nx > discardMargin || ny < -discardMargin || ny > discardMargin {
		return 0, 0, false
	}
	return nx, ny, true
}

// shadePixel is the time-ordered decay/excitation fold for a single pixel
// at normalized position (px, py) with previous brightness prev. The loop
// is a strict left-to-right reduction: decay is multiplicative between
// events, so reordering lines changes the result.
func (r *Renderer) shadePixel(px, py, prev float32, frame *Frame) float32 {
	ch := frame.Chunks[CellIndex(px, py)]
	lo := int(ch.Offset)
	hi := lo + int(ch.Size)
	// Tolerate a malformed table rather than crash; the output is then
	// unspecified but finite.
	if lo > len(frame.Lines) {
		lo = len(frame.Lines)
	}
	if hi > len(frame.Lines) {
		hi = len(frame.Lines)
	}

	decay := float64(r.cfg.Decay)
	next := float64(prev)
	t := 0.0

	for i := lo; i < hi; i++ {
		ln := &frame.Lines[i]
		lt := float64(ln.Time)
		next *= math.Pow(decay, lt-t)
		t = lt

		// Perpendicular displacement from the pixel to the segment,
		// with the projection clamped so only the span between the
		// endpoints contributes. A zero-length segment degenerates to
		// the distance to its start point.
		ux := float64(px - ln.Start[0])
		uy := float64(py - ln.Start[1])
		vx := float64(ln.V[0])
		vy := float64(ln.V[1])
		vv := vx*vx + vy*vy
		if vv > 0 {
			s := (ux*vx + uy*vy) / vv
			if s < 0 {
				s = 0
			} else if s > 1 {
				s = 1
			}
			ux -= s * vx
			uy -= s * vy
		}
		d := math.Sqrt(ux*ux + uy*uy)

		e := float64(Excitation(float32(d), r.cfg.Sigma, r.cfg.Intensity))
		contrib := e / (sigmaFloor*float64(r.cfg.Sigma) + math.Sqrt(vv))
		// Skip non-finite contributions instead of corrupting the
		// accumulator.
		if !math.IsNaN(contrib) && !math.IsInf(contrib, 0) {
			next += contrib
		}
	}

	// Decay across the remainder of the frame.
	next *= math.Pow(decay, float64(frame.TotalTime)-t)

	if next < 0 || math.IsNaN(next) {
		next = 0
	} else if next > maxBrightness {
		next = maxBrightness
	}
	return float32(next)
}
