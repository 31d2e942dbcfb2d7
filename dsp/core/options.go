package core

import (
	"fmt"
	"math"
)

// MaxChannels is the widest channel layout the stereo processors accept.
const MaxChannels = 2

// ProcessorConfig holds the settings a processor is prepared with.
type ProcessorConfig struct {
	SampleRate   float64
	MaxBlockSize int
	Channels     int
}

// ProcessorOption mutates a ProcessorConfig.
type ProcessorOption func(*ProcessorConfig)

// DefaultProcessorConfig returns 48 kHz stereo with 512-sample blocks.
func DefaultProcessorConfig() ProcessorConfig {
	return ProcessorConfig{
		SampleRate:   48000,
		MaxBlockSize: 512,
		Channels:     MaxChannels,
	}
}

// WithSampleRate sets the sample rate. Non-positive or non-finite values are
// ignored.
func WithSampleRate(sampleRate float64) ProcessorOption {
	return func(cfg *ProcessorConfig) {
		if ValidSampleRate(sampleRate) {
			cfg.SampleRate = sampleRate
		}
	}
}

// WithMaxBlockSize sets the largest block the processor will be handed.
func WithMaxBlockSize(n int) ProcessorOption {
	return func(cfg *ProcessorConfig) {
		if n > 0 {
			cfg.MaxBlockSize = n
		}
	}
}

// WithChannels sets the channel count, capped at MaxChannels.
func WithChannels(channels int) ProcessorOption {
	return func(cfg *ProcessorConfig) {
		if channels > 0 {
			cfg.Channels = min(channels, MaxChannels)
		}
	}
}

// ApplyProcessorOptions applies zero or more options to the default config.
func ApplyProcessorOptions(opts ...ProcessorOption) ProcessorConfig {
	cfg := DefaultProcessorConfig()
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	return cfg
}

// Validate reports the first setting a processor would refuse in Prepare.
func (c ProcessorConfig) Validate() error {
	if !ValidSampleRate(c.SampleRate) {
		return fmt.Errorf("sample rate must be > 0: %v", c.SampleRate)
	}
	if c.MaxBlockSize <= 0 {
		return fmt.Errorf("max block size must be > 0: %d", c.MaxBlockSize)
	}
	if c.Channels <= 0 || c.Channels > MaxChannels {
		return fmt.Errorf("channels must be in [1, %d]: %d", MaxChannels, c.Channels)
	}
	return nil
}

// IntegerRate reports whether the sample rate can be written to a WAV header.
func (c ProcessorConfig) IntegerRate() bool {
	return c.SampleRate == math.Trunc(c.SampleRate) && c.SampleRate <= math.MaxInt32
}
