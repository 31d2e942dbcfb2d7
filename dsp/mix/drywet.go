package mix

import (
	"errors"
	"fmt"
	"math"

	"github.com/cwbudde/algo-pingpong/dsp/buffer"
	"github.com/cwbudde/algo-pingpong/dsp/core"
	"github.com/cwbudde/algo-vecmath"
)

// Errors reported by DryWet.
var (
	ErrNotPrepared     = errors.New("mix: not prepared")
	ErrChannelMismatch = errors.New("mix: block shape does not match")
	ErrNoDrySnapshot   = errors.New("mix: no dry snapshot pending")
	ErrDryPending      = errors.New("mix: dry snapshot already pending")
)

type config struct {
	law Law
}

// Option configures a DryWet.
type Option func(*config)

// WithLaw selects the mix law. The default is LinearLaw.
func WithLaw(l Law) Option {
	return func(c *config) {
		c.law = l
	}
}

// DryWet captures the dry signal of a block and blends it back after the
// block has been processed in place.
type DryWet struct {
	law     Law
	dry     *buffer.Block
	pending bool
	frames  int
	used    int

	proportion float64
	dryGain    float64
	wetGain    float64
}

// NewDryWet returns an unprepared mixer at proportion 0 (fully dry).
func NewDryWet(opts ...Option) (*DryWet, error) {
	cfg := config{law: LinearLaw}
	for _, opt := range opts {
		opt(&cfg)
	}
	if !cfg.law.Valid() {
		return nil, fmt.Errorf("mix: invalid law: %v", cfg.law)
	}
	m := &DryWet{law: cfg.law, dry: buffer.NewBlock(0, 0)}
	m.SetWetMixProportion(0)
	return m, nil
}

// Prepare sizes the dry storage and drops any pending snapshot.
func (m *DryWet) Prepare(maxBlockSize, channels int) error {
	if maxBlockSize <= 0 {
		return fmt.Errorf("mix block size must be > 0: %d", maxBlockSize)
	}
	if channels <= 0 {
		return fmt.Errorf("mix channel count must be > 0: %d", channels)
	}
	m.dry.Resize(channels, maxBlockSize)
	m.Reset()
	return nil
}

// Law returns the configured law.
func (m *DryWet) Law() Law {
	return m.law
}

// Channels returns the prepared channel count.
func (m *DryWet) Channels() int {
	return m.dry.Channels()
}

// MaxBlockSize returns the prepared per-channel capacity.
func (m *DryWet) MaxBlockSize() int {
	return m.dry.Len()
}

// SetWetMixProportion sets the wet weight, clamped to [0, 1]. NaN is
// ignored.
func (m *DryWet) SetWetMixProportion(p float64) {
	if math.IsNaN(p) {
		return
	}
	m.proportion = core.Clamp(p, 0, 1)
	m.dryGain, m.wetGain = m.law.Gains(m.proportion)
}

// WetMixProportion returns the current wet weight.
func (m *DryWet) WetMixProportion() float64 {
	return m.proportion
}

// Gains returns the dry and wet gains in effect.
func (m *DryWet) Gains() (dry, wet float64) {
	return m.dryGain, m.wetGain
}

// Pending reports whether a dry snapshot is waiting for MixWetSamples.
func (m *DryWet) Pending() bool {
	return m.pending
}

// Reset drops a pending snapshot.
func (m *DryWet) Reset() {
	m.pending = false
	m.frames = 0
	m.used = 0
}

// PushDrySamples copies block into the dry storage. It must run before the
// block is processed in place.
func (m *DryWet) PushDrySamples(block [][]float64) error {
	if m.dry.Channels() == 0 {
		return ErrNotPrepared
	}
	if m.pending {
		return ErrDryPending
	}
	n, err := m.dry.CopyFrom(block)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrChannelMismatch, err)
	}
	m.frames = n
	m.used = len(block)
	m.pending = true
	return nil
}

// MixWetSamples blends the pending dry snapshot into block:
// block[c][n] = dry[c][n]*dryGain + block[c][n]*wetGain.
func (m *DryWet) MixWetSamples(block [][]float64) error {
	if !m.pending {
		return ErrNoDrySnapshot
	}
	if len(block) != m.used {
		return fmt.Errorf("%w: %d channels, snapshot has %d", ErrChannelMismatch, len(block), m.used)
	}
	for ch := range block {
		if len(block[ch]) != m.frames {
			return fmt.Errorf("%w: channel %d has %d frames, snapshot has %d",
				ErrChannelMismatch, ch, len(block[ch]), m.frames)
		}
	}

	m.pending = false
	switch {
	case m.wetGain == 1:
		return nil
	case m.dryGain == 1:
		for ch := range block {
			copy(block[ch], m.dry.Channel(ch)[:m.frames])
		}
		return nil
	}

	for ch := range block {
		dry := m.dry.Channel(ch)[:m.frames]
		vecmath.ScaleBlockInPlace(dry, m.dryGain)
		vecmath.ScaleBlockInPlace(block[ch], m.wetGain)
		vecmath.AddBlockInPlace(block[ch], dry)
	}
	return nil
}
