// Package signal provides X/Y beam sample sources: synthetic generators
// and a registry the commands select from by name.
package signal

// Source produces beam position samples in [-1,1] per axis at a fixed
// sample rate.
type Source interface {
	Name() string
	SampleRate() int
	// Read fills dst with the next samples and reports how many were
	// produced. Generators always fill dst; finite sources may return
	// fewer, and zero once exhausted.
	Read(dst [][2]float32) int
}

// Factory constructs a Source using an optional configuration map.
type Factory func(cfg map[string]string) Source

var sources = map[string]Factory{}

// Register adds a source factory under the provided name.
func Register(name string, f Factory) {
	if name == "" || f == nil {
		return
	}
	sources[name] = f
}

// Sources exposes the registry of available source factories.
func Sources() map[string]Factory {
	return sources
}
