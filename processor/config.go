// config.go - processor construction configuration
package processor

// Config is read once by New. The enable flags are copied into per-stage
// atomics that Process consults once per block; no exported method changes
// them after construction, and changing a Config after New has no effect.
type Config struct {
	SampleRate int
	Channels   int

	EnableNoiseReducer bool
	EnableNormalizer   bool
	EnableCompressor   bool
	EnableEQ           bool
	EnableLimiter      bool

	TargetLUFS float64
}

// DefaultConfig returns the spec.md §6 defaults: 48 kHz stereo, every
// stage enabled, target -14 LUFS.
func DefaultConfig() Config {
	return Config{
		SampleRate:         48000,
		Channels:           2,
		EnableNoiseReducer: true,
		EnableNormalizer:   true,
		EnableCompressor:   true,
		EnableEQ:           true,
		EnableLimiter:      true,
		TargetLUFS:         -14,
	}
}
