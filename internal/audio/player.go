package audio

import (
	"io"
	"os"
	"sync"

	"github.com/ebitengine/oto/v3"
)

var (
	otoCtx  *oto.Context
	otoOnce sync.Once
	otoErr  error
)

// playbackContext initializes the process-wide audio device on first use.
// oto permits a single context, so the first file's stream layout wins.
func playbackContext(rate, channels int) (*oto.Context, error) {
	otoOnce.Do(func() {
		op := &oto.NewContextOptions{
			SampleRate:   rate,
			ChannelCount: channels,
			Format:       oto.FormatSignedInt16LE,
		}
		var ready chan struct{}
		otoCtx, ready, otoErr = oto.NewContext(op)
		if otoErr == nil {
			<-ready
		}
	})
	return otoCtx, otoErr
}

// Player decodes one file, plays it through the audio device, and taps the
// PCM stream so the scope can trace it.
type Player struct {
	file *os.File
	dec  Decoder
	tap  *Tap
	meta Metadata
	done chan struct{}

	mu     sync.Mutex
	oto    *oto.Player
	paused bool
	volume float64
	closed bool
}

// NewPlayer opens path, starts playback, and begins feeding the tap.
func NewPlayer(path string) (*Player, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}

	dec, err := Open(f)
	if err != nil {
		f.Close()
		return nil, err
	}

	ctx, err := playbackContext(dec.SampleRate(), dec.Channels())
	if err != nil {
		f.Close()
		return nil, err
	}

	p := &Player{
		file:   f,
		dec:    dec,
		tap:    NewTap(dec.SampleRate(), dec.Channels(), dec.SampleRate()),
		meta:   ReadMetadata(path),
		done:   make(chan struct{}),
		volume: 0.8,
	}

	stream := io.TeeReader(dec, p.tap)
	p.oto = ctx.NewPlayer(&eofNotifier{r: stream, done: p.done})
	p.oto.SetVolume(p.volume)
	p.oto.Play()
	return p, nil
}

// eofNotifier closes done once the wrapped stream is exhausted.
type eofNotifier struct {
	r    io.Reader
	done chan struct{}
	once sync.Once
}

func (e *eofNotifier) Read(p []byte) (int, error) {
	n, err := e.r.Read(p)
	if err == io.EOF {
		e.once.Do(func() { close(e.done) })
	}
	return n, err
}

// Tap returns the beam sample source fed by playback.
func (p *Player) Tap() *Tap { return p.tap }

// Metadata returns the track tags read at open time.
func (p *Player) Metadata() Metadata { return p.meta }

// Done closes when the track has been fully decoded.
func (p *Player) Done() <-chan struct{} { return p.done }

// TogglePause switches between playing and paused.
func (p *Player) TogglePause() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return
	}
	if p.paused {
		p.oto.Play()
	} else {
		p.oto.Pause()
	}
	p.paused = !p.paused
}

// Paused reports whether playback is paused.
func (p *Player) Paused() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.paused
}

// Volume returns the current volume in [0,1].
func (p *Player) Volume() float64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.volume
}

// SetVolume sets the volume, clamped to [0,1].
func (p *Player) SetVolume(v float64) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if v < 0 {
		v = 0
	} else if v > 1 {
		v = 1
	}
	p.volume = v
	if !p.closed {
		p.oto.SetVolume(v)
	}
}

// Close stops playback and releases the file.
func (p *Player) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return
	}
	p.closed = true
	p.oto.Pause()
	p.file.Close()
}
