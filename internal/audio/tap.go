package audio

import (
	"encoding/binary"
	"sync"
)

// Tap captures the PCM stream flowing to the audio device and converts it
// into beam position frames for the scope. It sits on the playback path as
// the writer side of an io.TeeReader, so the trace stays in lockstep with
// what the device is fed. A bounded FIFO decouples the audio goroutine
// from the render loop; when the consumer falls behind, the oldest frames
// are dropped.
//
// Tap satisfies the signal.Source contract: Read drains buffered frames.
type Tap struct {
	mu      sync.Mutex
	frames  [][2]float32
	w       int // next write slot
	n       int // fill level
	dropped uint64

	rate     int
	channels int
	carry    []byte // partial PCM frame between writes
}

// NewTap builds a tap for the given stream layout holding up to capacity
// frames, with one second of backlog as the floor.
func NewTap(rate, channels, capacity int) *Tap {
	if channels < 1 {
		channels = 1
	}
	if capacity < rate {
		capacity = rate
	}
	return &Tap{
		frames:   make([][2]float32, capacity),
		rate:     rate,
		channels: channels,
	}
}

// Write consumes interleaved 16-bit little-endian PCM. The first channel
// maps to x and the second to y; a mono stream drives both axes. Write
// never fails; it is on the playback path and must not stall it.
func (t *Tap) Write(p []byte) (int, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	data := p
	if len(t.carry) > 0 {
		data = append(t.carry, p...)
	}
	frameBytes := 2 * t.channels
	whole := len(data) / frameBytes * frameBytes
	t.carry = append(t.carry[:0], data[whole:]...)

	for off := 0; off < whole; off += frameBytes {
		x := float32(int16(binary.LittleEndian.Uint16(data[off:]))) / 32768
		y := x
		if t.channels > 1 {
			y = float32(int16(binary.LittleEndian.Uint16(data[off+2:]))) / 32768
		}
		t.frames[t.w] = [2]float32{x, y}
		t.w = (t.w + 1) % len(t.frames)
		if t.n < len(t.frames) {
			t.n++
		} else {
			t.dropped++
		}
	}
	return len(p), nil
}

// Read drains up to len(dst) buffered frames, oldest first.
func (t *Tap) Read(dst [][2]float32) int {
	t.mu.Lock()
	defer t.mu.Unlock()

	n := t.n
	if n > len(dst) {
		n = len(dst)
	}
	start := (t.w - t.n + len(t.frames)) % len(t.frames)
	for i := 0; i < n; i++ {
		dst[i] = t.frames[(start+i)%len(t.frames)]
	}
	t.n -= n
	return n
}

// Name identifies the tap when it stands in as a sample source.
func (t *Tap) Name() string { return "file" }

// SampleRate reports the rate of the tapped stream.
func (t *Tap) SampleRate() int { return t.rate }

// Dropped reports how many frames were lost to consumer backpressure.
func (t *Tap) Dropped() uint64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.dropped
}
