package scope

// FrameBuffer stores one float32 brightness value per pixel in row-major
// order. Two instances ping-pong between pass input and output; no buffer
// is ever read and written in the same pass.
type FrameBuffer struct {
	W, H int
	data []float32
}

// NewFrameBuffer allocates a zeroed buffer with the given dimensions.
func NewFrameBuffer(w, h int) *FrameBuffer {
	if w <= 0 {
		w = 1
	}
	if h <= 0 {
		h = 1
	}
	return &FrameBuffer{W: w, H: h, data: make([]float32, w*h)}
}

// Pixels exposes the backing slice so callers can read values directly.
func (b *FrameBuffer) Pixels() []float32 { return b.data }

// Index returns the linear slice index for coordinates (x, y).
func (b *FrameBuffer) Index(x, y int) int { return y*b.W + x }

// At returns the brightness stored at (x, y).
func (b *FrameBuffer) At(x, y int) float32 { return b.data[y*b.W+x] }

// Set stores a brightness value at (x, y).
func (b *FrameBuffer) Set(x, y int, v float32) { b.data[y*b.W+x] = v }

// Clear fills the buffer with zeros.
func (b *FrameBuffer) Clear() {
	for i := range b.data {
		b.data[i] = 0
	}
}
