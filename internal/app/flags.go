package app

import (
	"flag"

	"glowie/internal/scope"
)

// Config represents the command-line parameters for the application.
type Config struct {
	Input   string
	Source  string
	Width   int
	Height  int
	Scale   int
	TPS     int
	Workers int

	Decay      float64
	Sigma      float64
	Intensity  float64
	LineRadius float64
	Volume     float64
}

// NewConfig returns a Config populated with the scope's default tuning.
func NewConfig() *Config {
	sc := scope.DefaultConfig()
	return &Config{
		Source:     "lissajous",
		Width:      720,
		Height:     720,
		Scale:      1,
		TPS:        60,
		Decay:      float64(sc.Decay),
		Sigma:      float64(sc.Sigma),
		Intensity:  float64(sc.Intensity),
		LineRadius: float64(sc.LineRadius),
		Volume:     0.8,
	}
}

// Bind attaches the configuration to the provided FlagSet.
func (c *Config) Bind(fs *flag.FlagSet) {
	fs.StringVar(&c.Input, "input", c.Input, "audio file to play and trace (wav, mp3, flac, ogg)")
	fs.StringVar(&c.Source, "source", c.Source, "generator source when no input file is given")
	fs.IntVar(&c.Width, "width", c.Width, "scope buffer width in pixels")
	fs.IntVar(&c.Height, "height", c.Height, "scope buffer height in pixels")
	fs.IntVar(&c.Scale, "scale", c.Scale, "pixel scale multiplier")
	fs.IntVar(&c.TPS, "tps", c.TPS, "ticks per second")
	fs.IntVar(&c.Workers, "workers", c.Workers, "kernel workers (0 = one per CPU)")
	fs.Float64Var(&c.Decay, "decay", c.Decay, "brightness retained per sample of elapsed time")
	fs.Float64Var(&c.Sigma, "sigma", c.Sigma, "beam spot spread in normalized units")
	fs.Float64Var(&c.Intensity, "intensity", c.Intensity, "excitation scale")
	fs.Float64Var(&c.LineRadius, "line-radius", c.LineRadius, "chunk assignment reach in sigmas")
	fs.Float64Var(&c.Volume, "volume", c.Volume, "playback volume (0-1)")
}

// Scope converts the tunables into kernel parameters.
func (c *Config) Scope() scope.Config {
	return scope.Config{
		Decay:      float32(c.Decay),
		Sigma:      float32(c.Sigma),
		Intensity:  float32(c.Intensity),
		LineRadius: float32(c.LineRadius),
	}
}
