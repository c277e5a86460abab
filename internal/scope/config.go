package scope

// Config holds the scalar beam parameters shared read-only by every pixel
// task during a render pass. Decay must lie in (0,1) and Sigma must be
// strictly positive; both are caller contracts, not validated here.
type Config struct {
	// Decay is the fraction of accumulated brightness retained per sample
	// of elapsed time.
	Decay float32
	// Sigma is the Gaussian spread of the beam spot in normalized screen
	// units.
	Sigma float32
	// Intensity scales every excitation contribution.
	Intensity float32
	// LineRadius widens the chunk-assignment reach of a segment, in units
	// of Sigma. The kernel itself does not read it.
	LineRadius float32
}

// DefaultConfig returns the tuning the simulator ships with.
func DefaultConfig() Config {
	return Config{
		Decay:      1 - 1e-3,
		Sigma:      2e-3,
		Intensity:  1e-5,
		LineRadius: 5,
	}
}
