//go:build ebiten

package app

import (
	"fmt"

	"glowie/internal/audio"
	"glowie/internal/render"
	"glowie/internal/scope"
	"glowie/internal/signal"
	"glowie/internal/trace"
	"glowie/internal/ui"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

// Game wires a sample source through the trace builder and the phosphor
// kernel into the ebiten frame loop.
type Game struct {
	cfg      *Config
	scopeCfg scope.Config

	src      signal.Source
	player   *audio.Player // nil for generator sources
	builder  *trace.Builder
	renderer *scope.Renderer
	painter  *render.ScopePainter
	overlay  *ui.Overlay

	scratch [][2]float32
	paused  bool

	lastLines int
	lastTime  float32
}

// New constructs a Game for the configured input. An input file takes
// precedence over a generator source.
func New(cfg *Config) (*Game, error) {
	g := &Game{cfg: cfg, scopeCfg: cfg.Scope()}
	g.renderer = scope.NewRenderer(g.scopeCfg, cfg.Width, cfg.Height, cfg.Workers)
	g.builder = trace.NewBuilder(g.scopeCfg)
	g.painter = render.NewScopePainter(cfg.Width, cfg.Height)
	g.overlay = ui.NewOverlay()

	if cfg.Input != "" {
		p, err := audio.NewPlayer(cfg.Input)
		if err != nil {
			return nil, err
		}
		p.SetVolume(cfg.Volume)
		g.player = p
		g.src = p.Tap()
	} else {
		factory, ok := signal.Sources()[cfg.Source]
		if !ok {
			return nil, fmt.Errorf("unknown source %q", cfg.Source)
		}
		g.src = factory(nil)
	}

	tps := cfg.TPS
	if tps <= 0 {
		tps = 60
	}
	g.scratch = make([][2]float32, g.src.SampleRate()/tps+1)
	return g, nil
}

// Title returns the window title for the current input.
func (g *Game) Title() string {
	if g.player != nil {
		if t := g.player.Metadata().Display(); t != "" {
			return "glowie - " + t
		}
	}
	return "glowie - " + g.src.Name()
}

// Close releases playback resources.
func (g *Game) Close() {
	if g.player != nil {
		g.player.Close()
	}
}

// Update handles input, gathers new beam samples, and runs one kernel pass.
func (g *Game) Update() error {
	if inpututil.IsKeyJustPressed(ebiten.KeyQ) || inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		return ebiten.Termination
	}
	if inpututil.IsKeyJustPressed(ebiten.KeySpace) {
		if g.player != nil {
			g.player.TogglePause()
		} else {
			g.paused = !g.paused
		}
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyR) {
		g.renderer.Clear()
	}
	g.handleParamKeys()
	g.overlay.Update()

	g.gatherSamples()

	frame := g.builder.BuildFrame()
	g.renderer.Step(&frame)
	g.lastLines = len(frame.Lines)
	g.lastTime = frame.TotalTime
	return nil
}

func (g *Game) gatherSamples() {
	if g.player != nil {
		// Drain whatever playback produced since the last tick; a slow
		// tick simply yields a longer trace next frame.
		for {
			n := g.src.Read(g.scratch)
			if n == 0 {
				break
			}
			g.builder.Extend(g.scratch[:n])
			if n < len(g.scratch) {
				break
			}
		}
		return
	}
	if g.paused {
		return
	}
	n := g.src.Read(g.scratch)
	g.builder.Extend(g.scratch[:n])
}

// handleParamKeys adjusts the beam tuning live. Changes apply between
// passes, never during one.
func (g *Game) handleParamKeys() {
	changed := false
	switch {
	case inpututil.IsKeyJustPressed(ebiten.KeyLeftBracket):
		g.scopeCfg.Sigma *= 0.8
		changed = true
	case inpututil.IsKeyJustPressed(ebiten.KeyRightBracket):
		g.scopeCfg.Sigma *= 1.25
		changed = true
	case inpututil.IsKeyJustPressed(ebiten.KeyMinus):
		g.scopeCfg.Intensity /= 1.6
		changed = true
	case inpututil.IsKeyJustPressed(ebiten.KeyEqual):
		g.scopeCfg.Intensity *= 1.6
		changed = true
	case inpututil.IsKeyJustPressed(ebiten.KeyComma):
		g.scopeCfg.Decay = 1 - (1-g.scopeCfg.Decay)*1.25
		changed = true
	case inpututil.IsKeyJustPressed(ebiten.KeyPeriod):
		g.scopeCfg.Decay = 1 - (1-g.scopeCfg.Decay)/1.25
		changed = true
	}
	if changed {
		if g.scopeCfg.Decay < 0 {
			g.scopeCfg.Decay = 0
		}
		g.renderer.SetConfig(g.scopeCfg)
		g.builder.SetConfig(g.scopeCfg)
	}

	if g.player != nil {
		if inpututil.IsKeyJustPressed(ebiten.KeyArrowUp) {
			g.player.SetVolume(g.player.Volume() + 0.05)
		}
		if inpututil.IsKeyJustPressed(ebiten.KeyArrowDown) {
			g.player.SetVolume(g.player.Volume() - 0.05)
		}
	}
}

// Draw renders the scope view and the overlay readout.
func (g *Game) Draw(screen *ebiten.Image) {
	g.painter.Blit(screen, g.renderer.Display(), g.cfg.Scale)
	g.overlay.Draw(screen, g.params())
}

func (g *Game) params() []ui.Param {
	p := []ui.Param{
		{Label: "source", Value: g.src.Name()},
		{Label: "decay", Value: fmt.Sprintf("%.5f", g.scopeCfg.Decay)},
		{Label: "sigma", Value: fmt.Sprintf("%.4f", g.scopeCfg.Sigma)},
		{Label: "intensity", Value: fmt.Sprintf("%.2g", g.scopeCfg.Intensity)},
		{Label: "lines", Value: fmt.Sprintf("%d", g.lastLines)},
		{Label: "batch", Value: fmt.Sprintf("%.0f", g.lastTime)},
	}
	if g.player != nil {
		p = append(p, ui.Param{Label: "dropped", Value: fmt.Sprintf("%d", g.player.Tap().Dropped())})
	}
	return p
}

// Layout returns the logical screen size.
func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	return g.cfg.Width * g.cfg.Scale, g.cfg.Height * g.cfg.Scale
}
