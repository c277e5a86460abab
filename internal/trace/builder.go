// Package trace turns a stream of beam position samples into the per-frame
// line lists and chunk tables the scope kernel consumes.
package trace

import (
	"github.com/go-gl/mathgl/mgl32"

	"glowie/internal/scope"
)

const (
	// MaxLines bounds the flattened per-frame line buffer.
	MaxLines = 65536

	// lineHeadroom is kept free below MaxLines so a single segment's
	// chunk assignments never land partially.
	lineHeadroom = 256
)

// Builder accumulates X/Y samples and, once per frame, buckets the segments
// between consecutive samples into the 16x16 chunk grid. Within each chunk
// segments stay in arrival order, so their timestamps are non-decreasing,
// which the kernel's decay recurrence requires. The trailing sample of each
// batch is retained so consecutive frames join without a gap.
type Builder struct {
	cfg     scope.Config
	samples [][2]float32
	chunks  [scope.GridDim * scope.GridDim][]scope.Line
}

// NewBuilder returns a builder seeded with the beam resting at the origin.
func NewBuilder(cfg scope.Config) *Builder {
	return &Builder{cfg: cfg, samples: [][2]float32{{0, 0}}}
}

// SetConfig replaces the beam parameters used for chunk assignment.
func (b *Builder) SetConfig(cfg scope.Config) { b.cfg = cfg }

// Extend appends beam position samples, in [-1,1] per axis, to the pending
// buffer.
func (b *Builder) Extend(samples [][2]float32) {
	b.samples = append(b.samples, samples...)
}

// Pending reports how many samples are waiting to be built.
func (b *Builder) Pending() int { return len(b.samples) }

// reach is the chunk-center distance within which a segment is assigned to
// a chunk, in normalized units: half a cell plus the beam's Gaussian tail.
func (b *Builder) reach() float32 {
	return 1.0/(scope.GridDim/2) + b.cfg.LineRadius*b.cfg.Sigma
}

// BuildFrame consumes the pending samples into a kernel frame. Each sample
// pair becomes one line stamped with its batch index; TotalTime is the
// batch length. If the flattened buffer would outgrow MaxLines the batch is
// cut short and the remaining samples stay pending.
func (b *Builder) BuildFrame() scope.Frame {
	reach := b.reach()
	batch := 0
	total := 0
	for si := 0; si+1 < len(b.samples); si++ {
		start := mgl32.Vec2{b.samples[si][0], b.samples[si][1]}
		end := mgl32.Vec2{b.samples[si+1][0], b.samples[si+1][1]}
		line := scope.Line{Start: start, V: end.Sub(start), Time: float32(batch)}.Quantized()

		total += b.assign(line, start, end, reach)
		batch++

		if total >= MaxLines-lineHeadroom {
			break
		}
	}

	frame := scope.Frame{TotalTime: float32(batch)}
	frame.Lines = make([]scope.Line, 0, total)
	offset := 0
	for i := range b.chunks {
		size := len(b.chunks[i])
		frame.Chunks[i] = scope.Chunk{Offset: uint16(offset), Size: uint16(size)}
		offset += size
		frame.Lines = append(frame.Lines, b.chunks[i]...)
		b.chunks[i] = b.chunks[i][:0]
	}

	// Keep the last consumed sample so the next frame's first segment
	// starts where this one ended.
	if batch > 0 {
		kept := copy(b.samples, b.samples[batch:])
		b.samples = b.samples[:kept]
	}
	return frame
}

// assign adds the line to every chunk whose center the segment approaches
// within reach, returning the number of copies stored.
func (b *Builder) assign(line scope.Line, start, end mgl32.Vec2, reach float32) int {
	n := 0
	for cy := 0; cy < scope.GridDim; cy++ {
		for cx := 0; cx < scope.GridDim; cx++ {
			center := mgl32.Vec2{
				(float32(cx) - 7.5) / 8,
				(float32(cy) - 7.5) / 8,
			}
			if segmentDistance(center, start, end) < reach {
				i := cy*scope.GridDim + cx
				b.chunks[i] = append(b.chunks[i], line)
				n++
			}
		}
	}
	return n
}

// segmentDistance is the clamped-projection distance from p to the segment
// between a and b. For a degenerate segment it is the distance to a.
func segmentDistance(p, a, b mgl32.Vec2) float32 {
	u := p.Sub(a)
	v := b.Sub(a)
	if vv := v.Dot(v); vv > 0 {
		s := u.Dot(v) / vv
		if s < 0 {
			s = 0
		} else if s > 1 {
			s = 1
		}
		u = u.Sub(v.Mul(s))
	}
	return u.Len()
}
