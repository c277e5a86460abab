package trace

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"glowie/internal/scope"
)

func TestBuildFramePartition(t *testing.T) {
	b := NewBuilder(scope.DefaultConfig())
	b.Extend([][2]float32{{0.5, 0.5}, {-0.5, -0.5}, {0.5, -0.5}})

	frame := b.BuildFrame()
	require.Equal(t, float32(3), frame.TotalTime)

	// The 256 chunks partition the line buffer contiguously.
	offset := 0
	for i, ch := range frame.Chunks {
		assert.Equal(t, offset, int(ch.Offset), "chunk %d offset", i)
		offset += int(ch.Size)
	}
	assert.Equal(t, offset, len(frame.Lines))

	// Within every chunk timestamps are non-decreasing.
	for i, ch := range frame.Chunks {
		lines := frame.Lines[ch.Offset : int(ch.Offset)+int(ch.Size)]
		for j := 1; j < len(lines); j++ {
			assert.LessOrEqual(t, lines[j-1].Time, lines[j].Time, "chunk %d", i)
		}
		for _, ln := range lines {
			assert.Less(t, ln.Time, frame.TotalTime)
		}
	}
}

func TestKeepsTrailingSample(t *testing.T) {
	b := NewBuilder(scope.DefaultConfig())
	b.Extend([][2]float32{{0.25, 0}, {0.5, 0}})
	require.Equal(t, 3, b.Pending()) // origin seed plus two

	b.BuildFrame()
	assert.Equal(t, 1, b.Pending())

	// The next frame's first segment continues from the retained sample.
	b.Extend([][2]float32{{0.75, 0}})
	frame := b.BuildFrame()
	require.Equal(t, float32(1), frame.TotalTime)
	require.NotEmpty(t, frame.Lines)
	first := frame.Lines[0]
	assert.InDelta(t, 0.5, float64(first.Start[0]), 1e-3)
	assert.InDelta(t, 0.25, float64(first.V[0]), 1e-3)
}

func TestEmptyBatchIsPureDecayFrame(t *testing.T) {
	b := NewBuilder(scope.DefaultConfig())
	frame := b.BuildFrame()
	assert.Zero(t, frame.TotalTime)
	assert.Empty(t, frame.Lines)
	for _, ch := range frame.Chunks {
		assert.Zero(t, ch.Size)
	}
}

func TestAssignmentReach(t *testing.T) {
	b := NewBuilder(scope.DefaultConfig())
	// One full-width horizontal sweep along y=0.
	b.Extend([][2]float32{{-1, 0}, {1, 0}})
	// Drop the origin seed's segment by rebuilding from a fresh builder
	// state: consume the seed first.
	b.samples = b.samples[1:]

	frame := b.BuildFrame()

	// Rows adjacent to y=0 (centers at ±0.0625) are inside the default
	// reach; the next rows out (±0.1875) are not.
	for cx := 0; cx < scope.GridDim; cx++ {
		assert.NotZero(t, frame.Chunks[7*scope.GridDim+cx].Size, "row 7 col %d", cx)
		assert.NotZero(t, frame.Chunks[8*scope.GridDim+cx].Size, "row 8 col %d", cx)
		assert.Zero(t, frame.Chunks[6*scope.GridDim+cx].Size, "row 6 col %d", cx)
		assert.Zero(t, frame.Chunks[9*scope.GridDim+cx].Size, "row 9 col %d", cx)
	}
}

func TestStationaryBeamStaysLocal(t *testing.T) {
	b := NewBuilder(scope.DefaultConfig())
	b.Extend([][2]float32{{0, 0}, {0, 0}, {0, 0}})

	frame := b.BuildFrame()
	require.NotEmpty(t, frame.Lines)
	for _, ln := range frame.Lines {
		assert.Zero(t, ln.V[0])
		assert.Zero(t, ln.V[1])
	}

	// A point at the origin cannot reach a corner chunk.
	assert.Zero(t, frame.Chunks[0].Size)
	assert.Zero(t, frame.Chunks[scope.GridDim*scope.GridDim-1].Size)
}

func TestLineCapCutsBatchShort(t *testing.T) {
	b := NewBuilder(scope.DefaultConfig())
	// Full-screen diagonal sweeps fan each segment out over many chunks,
	// overflowing the flattened buffer quickly.
	samples := make([][2]float32, 6000)
	for i := range samples {
		if i%2 == 0 {
			samples[i] = [2]float32{-1, -1}
		} else {
			samples[i] = [2]float32{1, 1}
		}
	}
	b.Extend(samples)

	frame := b.BuildFrame()
	assert.LessOrEqual(t, len(frame.Lines), MaxLines)
	assert.Less(t, int(frame.TotalTime), len(samples),
		"batch must stop before consuming every sample")
	assert.Greater(t, b.Pending(), 1, "unconsumed samples stay pending")
}
