package signal

import (
	"fmt"
	"math"
	"math/rand"
	"strings"

	"github.com/cwbudde/algo-pingpong/dsp/core"
	"github.com/cwbudde/algo-vecmath"
)

// Kind names a test signal.
type Kind int

const (
	KindImpulse Kind = iota
	KindSine
	KindNoise
)

func (k Kind) String() string {
	switch k {
	case KindImpulse:
		return "impulse"
	case KindSine:
		return "sine"
	case KindNoise:
		return "noise"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// ParseKind accepts the names returned by String.
func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "impulse":
		return KindImpulse, nil
	case "sine":
		return KindSine, nil
	case "noise", "white":
		return KindNoise, nil
	default:
		return 0, fmt.Errorf("signal: unknown kind %q", s)
	}
}

// Generator creates deterministic signals from a shared configuration.
type Generator struct {
	cfg  core.ProcessorConfig
	seed int64
}

// Option configures a Generator.
type Option func(*Generator)

// WithSeed sets deterministic random seed for noise generation.
func WithSeed(seed int64) Option {
	return func(g *Generator) {
		g.seed = seed
	}
}

// NewGenerator creates a configured signal generator.
func NewGenerator(opts ...core.ProcessorOption) *Generator {
	return NewGeneratorWithOptions(opts)
}

// NewGeneratorWithOptions creates a generator with signal-specific options.
func NewGeneratorWithOptions(coreOpts []core.ProcessorOption, opts ...Option) *Generator {
	g := &Generator{
		cfg:  core.ApplyProcessorOptions(coreOpts...),
		seed: 1,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(g)
		}
	}
	return g
}

// Config returns the generator processor configuration.
func (g *Generator) Config() core.ProcessorConfig {
	return g.cfg
}

// Seed returns the noise seed.
func (g *Generator) Seed() int64 {
	return g.seed
}

// Impulse returns a unit impulse at pos.
func (g *Generator) Impulse(samples, pos int) ([]float64, error) {
	if samples <= 0 {
		return nil, fmt.Errorf("impulse samples must be > 0: %d", samples)
	}
	if pos < 0 || pos >= samples {
		return nil, fmt.Errorf("impulse position must be in [0, %d): %d", samples, pos)
	}
	out := make([]float64, samples)
	out[pos] = 1
	return out, nil
}

// Sine generates a sine wave.
func (g *Generator) Sine(freqHz, amplitude float64, samples int) ([]float64, error) {
	if samples <= 0 {
		return nil, fmt.Errorf("sine samples must be > 0: %d", samples)
	}
	if freqHz < 0 || freqHz >= g.cfg.SampleRate/2 {
		return nil, fmt.Errorf("sine frequency must be in [0, %f): %f", g.cfg.SampleRate/2, freqHz)
	}
	out := make([]float64, samples)
	step := 2 * math.Pi * freqHz / g.cfg.SampleRate
	for i := range out {
		out[i] = amplitude * math.Sin(step*float64(i))
	}
	return out, nil
}

// WhiteNoise generates deterministic white noise in [-amplitude, amplitude].
func (g *Generator) WhiteNoise(amplitude float64, samples int) ([]float64, error) {
	return g.noise(g.seed, amplitude, samples)
}

func (g *Generator) noise(seed int64, amplitude float64, samples int) ([]float64, error) {
	if samples <= 0 {
		return nil, fmt.Errorf("noise samples must be > 0: %d", samples)
	}
	if amplitude < 0 {
		return nil, fmt.Errorf("noise amplitude must be >= 0: %f", amplitude)
	}
	out := make([]float64, samples)
	rng := rand.New(rand.NewSource(seed))
	for i := range out {
		out[i] = (rng.Float64()*2 - 1) * amplitude
	}
	return out, nil
}

// Block renders kind on every configured channel. The impulse sits at
// sample 0 of channel 0 only, so cross-channel routing shows up in the
// other channels. Sine runs at 440 Hz on every channel. Noise uses a
// different seed per channel.
func (g *Generator) Block(kind Kind, amplitude float64, samples int) ([][]float64, error) {
	if samples <= 0 {
		return nil, fmt.Errorf("block samples must be > 0: %d", samples)
	}
	out := make([][]float64, g.cfg.Channels)
	for ch := range out {
		var (
			data []float64
			err  error
		)
		switch kind {
		case KindImpulse:
			data = make([]float64, samples)
			if ch == 0 {
				data, err = g.Impulse(samples, 0)
				vecmath.ScaleBlockInPlace(data, amplitude)
			}
		case KindSine:
			data, err = g.Sine(440, amplitude, samples)
		case KindNoise:
			data, err = g.noise(g.seed+int64(ch), amplitude, samples)
		default:
			err = fmt.Errorf("signal: unknown kind %v", kind)
		}
		if err != nil {
			return nil, err
		}
		out[ch] = data
	}
	return out, nil
}

// Normalize scales data to target peak amplitude and returns a new slice.
func Normalize(data []float64, targetPeak float64) ([]float64, error) {
	if targetPeak < 0 {
		return nil, fmt.Errorf("normalize target peak must be >= 0: %f", targetPeak)
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("normalize input must not be empty")
	}

	out := make([]float64, len(data))
	peak := vecmath.MaxAbs(data)
	if peak == 0 || targetPeak == 0 {
		return out, nil
	}
	vecmath.ScaleBlock(out, data, targetPeak/peak)
	return out, nil
}
