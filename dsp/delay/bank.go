package delay

import (
	"fmt"

	"github.com/cwbudde/algo-pingpong/dsp/core"
	"github.com/cwbudde/algo-pingpong/dsp/interp"
)

// Bank is a set of independent per-channel delay lines sharing one capacity
// and interpolation mode.
type Bank struct {
	cfg          config
	lines        []*Line
	sampleRate   float64
	maxBlockSize int
}

// NewBank validates the options and returns an unprepared bank.
func NewBank(opts ...Option) (*Bank, error) {
	cfg := applyOptions(opts)
	if cfg.capacity <= 0 {
		return nil, fmt.Errorf("delay capacity must be > 0: %d", cfg.capacity)
	}
	if !cfg.mode.Valid() {
		return nil, fmt.Errorf("delay interpolation mode is invalid: %v", cfg.mode)
	}
	return &Bank{cfg: cfg}, nil
}

// Prepare sizes one line per channel and clears all history. Calling it
// again re-sizes; storage is reused when the channel count is unchanged.
func (b *Bank) Prepare(sampleRate float64, maxBlockSize, channels int) error {
	if !core.ValidSampleRate(sampleRate) {
		return fmt.Errorf("delay sample rate must be > 0: %f", sampleRate)
	}
	if maxBlockSize <= 0 {
		return fmt.Errorf("delay block size must be > 0: %d", maxBlockSize)
	}
	if channels <= 0 {
		return fmt.Errorf("delay channel count must be > 0: %d", channels)
	}

	if len(b.lines) != channels {
		lines := make([]*Line, channels)
		for ch := range lines {
			line, err := NewLine(b.cfg.capacity, WithMode(b.cfg.mode))
			if err != nil {
				return err
			}
			lines[ch] = line
		}
		b.lines = lines
	}

	b.sampleRate = sampleRate
	b.maxBlockSize = maxBlockSize
	b.Reset()
	return nil
}

// Prepared reports whether Prepare has succeeded at least once.
func (b *Bank) Prepared() bool {
	return len(b.lines) > 0
}

// Reset zeroes every line and cursor and sets all delays to 0.
func (b *Bank) Reset() {
	for _, line := range b.lines {
		line.Reset()
		line.SetDelay(0)
	}
}

// Channels returns the prepared channel count.
func (b *Bank) Channels() int {
	return len(b.lines)
}

// Capacity returns the per-channel capacity in samples.
func (b *Bank) Capacity() int {
	return b.cfg.capacity
}

// Mode returns the interpolation kernel.
func (b *Bank) Mode() interp.Mode {
	return b.cfg.mode
}

// SampleRate returns the prepared sample rate, or 0 before Prepare.
func (b *Bank) SampleRate() float64 {
	return b.sampleRate
}

// MaxBlockSize returns the prepared maximum block size.
func (b *Bank) MaxBlockSize() int {
	return b.maxBlockSize
}

// SetDelay sets the delay of one channel in fractional samples, clamped to
// [0, capacity-1].
func (b *Bank) SetDelay(ch int, samples float64) {
	b.line(ch).SetDelay(samples)
}

// Delay returns the current delay of one channel.
func (b *Bank) Delay(ch int) float64 {
	return b.line(ch).Delay()
}

// PushSample writes one sample into a channel.
func (b *Bank) PushSample(ch int, sample float64) {
	b.line(ch).Push(sample)
}

// PopSample reads one delayed sample from a channel.
func (b *Bank) PopSample(ch int) float64 {
	return b.line(ch).Pop()
}

func (b *Bank) line(ch int) *Line {
	if ch < 0 || ch >= len(b.lines) {
		panic(fmt.Sprintf("delay: channel %d out of range [0,%d)", ch, len(b.lines)))
	}
	return b.lines[ch]
}
