package scope

import "math"

// GridDim is the edge length of the spatial chunk grid laid over the
// normalized [-1,1] square.
const GridDim = 16

// Chunk addresses one contiguous, time-sorted slice of a frame's line list.
type Chunk struct {
	Offset uint16
	Size   uint16
}

// Packed returns the chunk as a single 2xu16 word, offset in the low half.
func (c Chunk) Packed() uint32 { return uint32(c.Offset) | uint32(c.Size)<<16 }

// UnpackChunk is the inverse of Packed.
func UnpackChunk(w uint32) Chunk {
	return Chunk{Offset: uint16(w), Size: uint16(w >> 16)}
}

// ChunkTable maps every cell of the 16x16 grid to its slice of lines. Cells
// with no nearby beam travel have Size zero. The kernel consumes the table
// read-only; within a chunk the referenced lines must be sorted by
// non-decreasing timestamp, which the builder guarantees.
type ChunkTable [GridDim * GridDim]Chunk

// CellIndex returns the flat table index owning a position in the
// normalized square. Positions outside it clamp to the border cells.
func CellIndex(x, y float32) int {
	cx := cellCoord(x)
	cy := cellCoord(y)
	return cy*GridDim + cx
}

func cellCoord(v float32) int {
	c := int(math.Floor(float64(8 * (v + 1))))
	if c < 0 {
		c = 0
	} else if c > GridDim-1 {
		c = GridDim - 1
	}
	return c
}
