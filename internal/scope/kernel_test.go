package scope

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// coverAll builds a frame whose every chunk references the whole line list,
// so any probe position sees all lines.
func coverAll(lines []Line, totalTime float32) *Frame {
	f := &Frame{Lines: lines, TotalTime: totalTime}
	for i := range f.Chunks {
		f.Chunks[i] = Chunk{Offset: 0, Size: uint16(len(lines))}
	}
	return f
}

func TestPureDecayOnEmptyChunk(t *testing.T) {
	cfg := Config{Decay: 0.9, Sigma: 0.05, Intensity: 1}
	r := NewRenderer(cfg, 16, 16, 1)

	frame := &Frame{TotalTime: 2}
	prev := float32(1.5)
	got := r.shadePixel(0, 0, prev, frame)

	want := 1.5 * math.Pow(0.9, 2)
	assert.InDelta(t, want, float64(got), 1e-6)
}

func TestSingleSegmentValue(t *testing.T) {
	// One stationary excitation at the probe position, halfway through
	// the frame. Pre-excitation decay applies before the hit, the rest
	// of the frame's decay after it.
	cfg := Config{Decay: 0.9, Sigma: 0.05, Intensity: 1e-3}
	r := NewRenderer(cfg, 16, 16, 1)

	frame := coverAll([]Line{{Start: mgl32.Vec2{0, 0}, Time: 0.5}}, 1)
	got := r.shadePixel(0, 0, 0, frame)

	peak := 1e-3 / (0.05 * math.Sqrt(2*math.Pi))
	want := peak / (sigmaFloor * 0.05) * math.Pow(0.9, 0.5)
	require.Less(t, want, float64(maxBrightness), "scenario must stay below the clamp")
	assert.InDelta(t, want, float64(got), 1e-5)
}

func TestClampHoldsUnderExtremeInput(t *testing.T) {
	cfg := Config{Decay: 0.9, Sigma: 1e-8, Intensity: 1e6}
	r := NewRenderer(cfg, 16, 16, 1)

	frame := coverAll([]Line{{Start: mgl32.Vec2{0, 0}, Time: 0}}, 1)
	got := r.shadePixel(0, 0, 1.9, frame)
	assert.Equal(t, float32(maxBrightness), got)

	// And the floor: decay can only shrink a non-negative accumulator.
	empty := &Frame{TotalTime: 100}
	assert.GreaterOrEqual(t, r.shadePixel(0, 0, 0, empty), float32(0))
}

func TestFoldIsOrderDependent(t *testing.T) {
	cfg := Config{Decay: 0.5, Sigma: 0.05, Intensity: 1e-4}
	r := NewRenderer(cfg, 16, 16, 1)

	a := Line{Start: mgl32.Vec2{0, 0}, Time: 0.25}
	b := Line{Start: mgl32.Vec2{0.01, 0}, Time: 0.75}

	sorted := r.shadePixel(0, 0, 0, coverAll([]Line{a, b}, 1))
	reversed := r.shadePixel(0, 0, 0, coverAll([]Line{b, a}, 1))

	assert.NotEqual(t, sorted, reversed,
		"decay between events must make the fold order-sensitive")
}

func TestProjectionClampsToSegment(t *testing.T) {
	cfg := Config{Decay: 0.9, Sigma: 0.05, Intensity: 1e-4}
	r := NewRenderer(cfg, 16, 16, 1)

	seg := Line{Start: mgl32.Vec2{0, 0}, V: mgl32.Vec2{0.5, 0}, Time: 0}
	frame := coverAll([]Line{seg}, 1)

	// Past the far endpoint the distance is to the endpoint itself, so a
	// pixel 0.2 beyond the end matches one 0.2 perpendicular to the span.
	beyond := r.shadePixel(0.7, 0, 0, frame)
	beside := r.shadePixel(0.2, 0.2, 0, frame)
	assert.InDelta(t, float64(beside), float64(beyond), 1e-7)

	// Farther means strictly dimmer (outside the clamp region).
	nearer := r.shadePixel(0.2, 0.1, 0, frame)
	assert.Greater(t, nearer, beside)
}

func TestMalformedChunkRangeDoesNotPanic(t *testing.T) {
	cfg := DefaultConfig()
	r := NewRenderer(cfg, 8, 8, 1)

	frame := &Frame{Lines: []Line{{Time: 0}}, TotalTime: 1}
	for i := range frame.Chunks {
		frame.Chunks[i] = Chunk{Offset: 40000, Size: 65535}
	}
	assert.NotPanics(t, func() { r.Step(frame) })
}

func TestStepAppliesFrameDecayEverywhere(t *testing.T) {
	cfg := Config{Decay: 0.8, Sigma: 0.05, Intensity: 1}
	r := NewRenderer(cfg, 24, 24, 2)

	for i := range r.front.Pixels() {
		r.front.Pixels()[i] = 1
	}
	r.Step(&Frame{TotalTime: 3})

	want := float32(math.Pow(0.8, 3))
	buf := r.Brightness()
	for y := 0; y < 24; y++ {
		for x := 0; x < 24; x++ {
			assert.InDelta(t, float64(want), float64(buf.At(x, y)), 1e-6)
		}
	}
}

func TestStepChainsFrames(t *testing.T) {
	cfg := Config{Decay: 0.8, Sigma: 0.05, Intensity: 1}
	r := NewRenderer(cfg, 8, 8, 1)

	for i := range r.front.Pixels() {
		r.front.Pixels()[i] = 1
	}
	r.Step(&Frame{TotalTime: 1})
	r.Step(&Frame{TotalTime: 1})

	want := float32(math.Pow(0.8, 2))
	assert.InDelta(t, float64(want), float64(r.Brightness().At(3, 3)), 1e-6)
}

func TestDiscardOutsideMargin(t *testing.T) {
	// A wide buffer stretches x past the margin at the edges.
	r := NewRenderer(DefaultConfig(), 64, 16, 1)

	_, _, ok := r.mapPixel(0, 8)
	require.False(t, ok, "edge pixel of a 4:1 buffer must be discarded")
	_, _, ok = r.mapPixel(32, 8)
	require.True(t, ok, "central pixel must survive")

	// Discard is a pure function of position: identical across frames.
	for i := 0; i < 3; i++ {
		_, _, ok := r.mapPixel(0, 8)
		assert.False(t, ok)
	}

	// Discarded pixels leave the output buffer untouched.
	r.back.Set(0, 8, 0.7)
	r.Step(&Frame{TotalTime: 1})
	assert.Equal(t, float32(0.7), r.Brightness().At(0, 8))
	i := 4 * r.Brightness().Index(0, 8)
	assert.Equal(t, byte(0), r.Display()[i+3], "discarded pixel writes no display color")
}

func TestParallelMatchesSerial(t *testing.T) {
	cfg := Config{Decay: 0.95, Sigma: 0.03, Intensity: 1e-4}

	lines := make([]Line, 0, 24)
	for i := 0; i < 24; i++ {
		a := float32(i) / 24
		lines = append(lines, Line{
			Start: mgl32.Vec2{2*a - 1, float32(math.Sin(float64(a) * 6))},
			V:     mgl32.Vec2{0.08, -0.05},
			Time:  a,
		})
	}
	frame := coverAll(lines, 1)

	serial := NewRenderer(cfg, 33, 17, 1)
	parallel := NewRenderer(cfg, 33, 17, 7)
	serial.Step(frame)
	parallel.Step(frame)

	require.Equal(t, serial.Brightness().Pixels(), parallel.Brightness().Pixels())
	require.Equal(t, serial.Display(), parallel.Display())
}

func TestDisplayToneMap(t *testing.T) {
	r := NewRenderer(Config{Decay: 0.9, Sigma: 0.05, Intensity: 1}, 9, 9, 1)
	for i := range r.front.Pixels() {
		r.front.Pixels()[i] = 0.25
	}
	r.Step(&Frame{TotalTime: 0})

	// next = 0.25, green = sqrt(0.25) = 0.5
	i := 4 * r.Brightness().Index(4, 4)
	d := r.Display()
	assert.Equal(t, byte(0), d[i+0])
	assert.InDelta(t, 128, float64(d[i+1]), 1)
	assert.Equal(t, byte(0), d[i+2])
	assert.Equal(t, byte(0xff), d[i+3])
}
