package delay

import (
	"fmt"

	"github.com/cwbudde/algo-pingpong/dsp/core"
	"github.com/cwbudde/algo-pingpong/dsp/interp"
)

// MaxDelaySamples is the default per-channel capacity: 4 s at 48 kHz.
const MaxDelaySamples = 192000

// headroom keeps the interpolation taps beyond the longest delay inside
// written history.
const headroom = 3

type config struct {
	mode     interp.Mode
	capacity int
}

// Option configures a Line or Bank.
type Option func(*config)

// WithMode selects the interpolation kernel used by fractional reads.
func WithMode(mode interp.Mode) Option {
	return func(c *config) {
		c.mode = mode
	}
}

// WithCapacity sets the maximum representable delay (+1) of a Bank's lines.
func WithCapacity(capacity int) Option {
	return func(c *config) {
		c.capacity = capacity
	}
}

func applyOptions(opts []Option) config {
	cfg := config{mode: interp.Lagrange3, capacity: MaxDelaySamples}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	return cfg
}

// Line is a circular delay line for one channel.
type Line struct {
	buffer   []float64
	writePos int
	capacity int
	mode     interp.Mode

	delay     float64
	delayInt  int
	delayFrac float64
}

// NewLine returns a delay line able to represent delays in [0, capacity-1]
// samples.
func NewLine(capacity int, opts ...Option) (*Line, error) {
	cfg := applyOptions(opts)
	if capacity <= 0 {
		return nil, fmt.Errorf("delay capacity must be > 0: %d", capacity)
	}
	if !cfg.mode.Valid() {
		return nil, fmt.Errorf("delay interpolation mode is invalid: %v", cfg.mode)
	}
	return &Line{
		buffer:   make([]float64, capacity+headroom),
		capacity: capacity,
		mode:     cfg.mode,
	}, nil
}

// Capacity returns the number of representable delay values.
func (d *Line) Capacity() int {
	return d.capacity
}

// Mode returns the interpolation kernel.
func (d *Line) Mode() interp.Mode {
	return d.mode
}

// Delay returns the current (clamped) delay in samples.
func (d *Line) Delay() float64 {
	return d.delay
}

// SetDelay sets the read offset behind the most recent push, in fractional
// samples. Values outside [0, capacity-1] are clamped; NaN maps to 0.
func (d *Line) SetDelay(samples float64) {
	samples = d.clamp(samples)
	d.delay = samples
	d.delayInt = int(samples)
	d.delayFrac = samples - float64(d.delayInt)
}

// Push writes one sample at the cursor and advances the cursor. Values
// below 1e-30 in magnitude are stored as zero.
func (d *Line) Push(sample float64) {
	d.buffer[d.writePos] = core.FlushDenormals(sample)
	d.writePos++
	if d.writePos >= len(d.buffer) {
		d.writePos = 0
	}
}

// Pop reads the sample at the current delay.
func (d *Line) Pop() float64 {
	return d.read(d.delayInt, d.delayFrac)
}

// Tap reads an arbitrary fractional delay without changing the configured one.
func (d *Line) Tap(samples float64) float64 {
	samples = d.clamp(samples)
	p := int(samples)
	return d.read(p, samples-float64(p))
}

// At returns the sample written k pushes before the most recent one.
func (d *Line) At(k int) float64 {
	idx := d.writePos - 1 - k
	if idx < 0 {
		idx += len(d.buffer)
	}
	return d.buffer[idx]
}

// Reset clears line state. The configured delay is kept.
func (d *Line) Reset() {
	for i := range d.buffer {
		d.buffer[i] = 0
	}
	d.writePos = 0
}

func (d *Line) read(p int, t float64) float64 {
	x0 := d.At(p)
	if t == 0 {
		return x0
	}

	x1 := d.At(p + 1)
	if d.mode == interp.Linear {
		return interp.Linear2(t, x0, x1)
	}

	// The tap ahead of the newest sample does not exist yet; hold x0.
	xm1 := x0
	if p > 0 {
		xm1 = d.At(p - 1)
	}
	x2 := d.At(p + 2)

	if d.mode == interp.Hermite {
		return interp.Hermite4(t, xm1, x0, x1, x2)
	}
	return interp.Lagrange4(t, xm1, x0, x1, x2)
}

func (d *Line) clamp(samples float64) float64 {
	maxDelay := float64(d.capacity - 1)
	switch {
	case !(samples > 0):
		return 0
	case samples > maxDelay:
		return maxDelay
	}
	return samples
}
