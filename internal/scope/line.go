package scope

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// Line is one increment of beam travel within a frame: a start point, a
// displacement to the end point, and a timestamp in sample units. A zero
// displacement represents a stationary point excitation.
type Line struct {
	Start mgl32.Vec2
	V     mgl32.Vec2
	Time  float32
}

// End returns the segment's far endpoint.
func (l Line) End() mgl32.Vec2 { return l.Start.Add(l.V) }

// Quantized rounds the line's coordinates through the 16-bit snorm wire
// encoding, matching the precision the packed form carries.
func (l Line) Quantized() Line { return l.Pack().Unpack() }

// PackedLine is the quantized external form of a Line: both vectors as
// 2x16snorm words with x in the low half.
type PackedLine struct {
	Start uint32
	V     uint32
	Time  float32
}

// Pack quantizes the line to its external form.
func (l Line) Pack() PackedLine {
	return PackedLine{
		Start: Pack2x16snorm(l.Start[0], l.Start[1]),
		V:     Pack2x16snorm(l.V[0], l.V[1]),
		Time:  l.Time,
	}
}

// Unpack expands a packed line back to float coordinates.
func (p PackedLine) Unpack() Line {
	sx, sy := Unpack2x16snorm(p.Start)
	vx, vy := Unpack2x16snorm(p.V)
	return Line{Start: mgl32.Vec2{sx, sy}, V: mgl32.Vec2{vx, vy}, Time: p.Time}
}

func pack16snorm(e float32) uint16 {
	c := float64(e)
	if c > 1 {
		c = 1
	} else if c < -1 {
		c = -1
	}
	return uint16(int16(math.Floor(0.5 + 32767*c)))
}

func unpack16snorm(u uint16) float32 {
	v := float32(int16(u)) / 32767
	if v < -1 {
		v = -1
	}
	return v
}

// Pack2x16snorm packs two values in [-1,1] into one word, x in the low half.
// Inputs outside the range clamp.
func Pack2x16snorm(x, y float32) uint32 {
	return uint32(pack16snorm(x)) | uint32(pack16snorm(y))<<16
}

// Unpack2x16snorm is the inverse of Pack2x16snorm.
func Unpack2x16snorm(w uint32) (x, y float32) {
	return unpack16snorm(uint16(w)), unpack16snorm(uint16(w >> 16))
}
