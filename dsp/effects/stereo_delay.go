package effects

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"

	"github.com/cwbudde/algo-pingpong/dsp/core"
	"github.com/cwbudde/algo-pingpong/dsp/delay"
	"github.com/cwbudde/algo-pingpong/dsp/interp"
	"github.com/cwbudde/algo-pingpong/dsp/mix"
	"github.com/cwbudde/algo-pingpong/dsp/param"
)

// maxChannels is the number of delay slots every variant prepares.
const maxChannels = core.MaxChannels

// ErrUnsupportedLayout is returned by SetLayout for layouts the variant
// cannot process.
var ErrUnsupportedLayout = errors.New("effects: unsupported channel layout")

// Stage is the lifecycle position of a StereoDelay.
type Stage int

const (
	// Uninitialized means Prepare has never succeeded.
	Uninitialized Stage = iota
	// PreparedWithDefaults follows the first successful Prepare. The
	// audio-rate state was seeded from the declared parameters.
	PreparedWithDefaults
	// Prepared follows any later Prepare. Live parameter values were kept.
	Prepared
)

func (s Stage) String() string {
	switch s {
	case Uninitialized:
		return "uninitialized"
	case PreparedWithDefaults:
		return "prepared-with-defaults"
	case Prepared:
		return "prepared"
	default:
		return fmt.Sprintf("Stage(%d)", int(s))
	}
}

type config struct {
	mode     interp.Mode
	modeSet  bool
	law      mix.Law
	capacity int
	logger   *slog.Logger
}

// Option configures a StereoDelay.
type Option func(*config)

// WithInterpolation selects the fractional-delay kernel. CrossFeed defaults
// to Lagrange3 and Independent to Linear.
func WithInterpolation(mode interp.Mode) Option {
	return func(c *config) {
		c.mode = mode
		c.modeSet = true
	}
}

// WithMixLaw selects the dry/wet law. The default is mix.LinearLaw.
func WithMixLaw(law mix.Law) Option {
	return func(c *config) {
		c.law = law
	}
}

// WithCapacity sets the per-channel delay capacity in samples.
func WithCapacity(samples int) Option {
	return func(c *config) {
		c.capacity = samples
	}
}

// WithLogger sets the control-path logger. Nothing is logged while
// processing audio.
func WithLogger(logger *slog.Logger) Option {
	return func(c *config) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// StereoDelay is the delay/mix effect: a delay bank routed per Variant,
// blended with the dry input by a DryWet mixer. Parameters live in a
// param.Bridge and may be changed from any goroutine. Prepare, Reset,
// SetLayout, LoadState and ProcessBlock must not overlap.
type StereoDelay struct {
	variant Variant
	logger  *slog.Logger

	params   *param.Bridge
	delayMs  *param.Value
	mixValue *param.Value

	bank  *delay.Bank
	mixer *mix.DryWet

	layout       Layout
	stage        Stage
	sampleRate   float64
	maxBlockSize int
	mixGen       uint64
	mixSynced    bool
}

// New returns an unprepared effect with its parameters at their defaults.
func New(variant Variant, opts ...Option) (*StereoDelay, error) {
	if !variant.Valid() {
		return nil, fmt.Errorf("effects: invalid variant: %v", variant)
	}

	cfg := config{
		mode:     interp.Lagrange3,
		law:      mix.LinearLaw,
		capacity: delay.MaxDelaySamples,
		logger:   slog.New(slog.DiscardHandler),
	}
	if variant == Independent {
		cfg.mode = interp.Linear
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	bank, err := delay.NewBank(delay.WithMode(cfg.mode), delay.WithCapacity(cfg.capacity))
	if err != nil {
		return nil, err
	}
	mixer, err := mix.NewDryWet(mix.WithLaw(cfg.law))
	if err != nil {
		return nil, err
	}
	params, err := param.NewBridge(Specs(variant)...)
	if err != nil {
		return nil, err
	}

	return &StereoDelay{
		variant:  variant,
		logger:   cfg.logger.With("effect", "stereo-delay", "variant", variant.String()),
		params:   params,
		delayMs:  params.Handle(ParamDelay),
		mixValue: params.Handle(ParamMix),
		bank:     bank,
		mixer:    mixer,
		layout:   LayoutStereo,
	}, nil
}

// Variant returns the routing topology.
func (s *StereoDelay) Variant() Variant {
	return s.variant
}

// Params returns the parameter bridge for host-side reads and writes.
func (s *StereoDelay) Params() *param.Bridge {
	return s.params
}

// SetParameter stores a parameter value, clamped to its declared range.
// It is safe to call while another goroutine runs ProcessBlock.
func (s *StereoDelay) SetParameter(id string, value float64) error {
	return s.params.OnParameterChanged(id, value)
}

// SetChannelParameter stores the value of one channel of a per-channel
// parameter.
func (s *StereoDelay) SetChannelParameter(id string, ch int, value float64) error {
	return s.params.OnChannelParameterChanged(id, ch, value)
}

// IsLayoutSupported reports whether l can be processed by this effect.
func (s *StereoDelay) IsLayoutSupported(l Layout) bool {
	return IsLayoutSupported(s.variant, l)
}

// Layout returns the active layout.
func (s *StereoDelay) Layout() Layout {
	return s.layout
}

// SetLayout selects the bus arrangement used by ProcessBlock.
func (s *StereoDelay) SetLayout(l Layout) error {
	if !s.IsLayoutSupported(l) {
		return fmt.Errorf("%w: %s for %s", ErrUnsupportedLayout, l, s.variant)
	}
	if l != s.layout {
		s.logger.Info("layout changed", "from", s.layout.String(), "to", l.String())
	}
	s.layout = l
	return nil
}

// Stage returns the lifecycle stage.
func (s *StereoDelay) Stage() Stage {
	return s.stage
}

// SampleRate returns the prepared sample rate, or 0 before Prepare.
func (s *StereoDelay) SampleRate() float64 {
	return s.sampleRate
}

// MaxBlockSize returns the prepared maximum block size.
func (s *StereoDelay) MaxBlockSize() int {
	return s.maxBlockSize
}

// Prepare sizes all buffers for sampleRate and maxBlockSize and clears the
// delay history. Parameter values are never touched: values set before the
// first Prepare take effect once the sample rate is known, and values set
// during a session survive later calls.
func (s *StereoDelay) Prepare(sampleRate float64, maxBlockSize int) error {
	if !core.ValidSampleRate(sampleRate) {
		return fmt.Errorf("stereo delay sample rate must be > 0: %f", sampleRate)
	}
	if maxBlockSize <= 0 {
		return fmt.Errorf("stereo delay block size must be > 0: %d", maxBlockSize)
	}

	if err := s.bank.Prepare(sampleRate, maxBlockSize, maxChannels); err != nil {
		return err
	}
	if err := s.mixer.Prepare(maxBlockSize, maxChannels); err != nil {
		return err
	}

	s.sampleRate = sampleRate
	s.maxBlockSize = maxBlockSize
	s.syncDelays()
	s.mixSynced = false
	s.syncMix()

	if s.stage == Uninitialized {
		s.stage = PreparedWithDefaults
		s.logger.Info("prepared",
			"sample_rate", sampleRate, "block_size", maxBlockSize,
			"layout", s.layout.String(), "first_run", true)
		s.logParams(slog.LevelDebug, "initial parameters")
		return nil
	}

	s.stage = Prepared
	s.logger.Info("prepared",
		"sample_rate", sampleRate, "block_size", maxBlockSize,
		"layout", s.layout.String(), "first_run", false)
	return nil
}

// Reset clears the delay history and any pending dry snapshot. Parameters
// persist.
func (s *StereoDelay) Reset() {
	if s.stage == Uninitialized {
		return
	}
	s.bank.Reset()
	s.mixer.Reset()
	s.syncDelays()
	s.logger.Debug("reset")
}

// LatencySamples is always 0: the dry path is not delayed.
func (s *StereoDelay) LatencySamples() int {
	return 0
}

// TailSamples returns how long the output keeps ringing after the input
// stops, i.e. the longest current delay rounded up.
func (s *StereoDelay) TailSamples() int {
	if s.stage == Uninitialized {
		return 0
	}
	tail := 0.0
	for ch := range maxChannels {
		tail = math.Max(tail, s.bank.Delay(ch))
	}
	return int(math.Ceil(tail))
}

// ProcessBlock runs one block in place. buf is channel-major with one slice
// per bus channel of the active layout; all channels share a length of at
// most MaxBlockSize. Before the first Prepare the buffer passes through
// unchanged. A buffer wider or longer than prepared panics.
func (s *StereoDelay) ProcessBlock(buf [][]float64) {
	if s.stage == Uninitialized || len(buf) == 0 {
		return
	}
	frames := s.checkBlock(buf)

	for ch := s.layout.Inputs; ch < len(buf); ch++ {
		clear(buf[ch])
	}

	s.syncMix()
	if err := s.mixer.PushDrySamples(buf); err != nil {
		panic(err)
	}

	switch s.variant {
	case CrossFeed:
		s.processCrossFeed(buf, frames)
	case Independent:
		s.processIndependent(buf, frames)
	}

	if err := s.mixer.MixWetSamples(buf); err != nil {
		panic(err)
	}
}

func (s *StereoDelay) processCrossFeed(buf [][]float64, frames int) {
	left := buf[0]
	var right []float64
	if len(buf) > 1 {
		right = buf[1]
	}

	for n := range frames {
		d := core.MsToSamples(s.delayMs.Load(), s.sampleRate)
		s.bank.SetDelay(0, d)
		s.bank.SetDelay(1, d)

		inL := left[n]
		inR := 0.0
		if right != nil {
			inR = right[n]
		}

		s.bank.PushSample(1, inL)
		s.bank.PushSample(0, -inR)

		left[n] = s.bank.PopSample(0)
		outR := s.bank.PopSample(1)
		if right != nil {
			right[n] = outR
		}
	}
}

func (s *StereoDelay) processIndependent(buf [][]float64, frames int) {
	for ch, samples := range buf {
		for n := range frames {
			s.bank.SetDelay(ch, core.MsToSamples(s.delayMs.LoadChannel(ch), s.sampleRate))
			s.bank.PushSample(ch, samples[n])
			samples[n] = s.bank.PopSample(ch)
		}
	}
}

func (s *StereoDelay) checkBlock(buf [][]float64) int {
	if len(buf) > maxChannels {
		panic(fmt.Sprintf("effects: %d channels exceed %d", len(buf), maxChannels))
	}
	frames := len(buf[0])
	for ch := range buf {
		if len(buf[ch]) != frames {
			panic(fmt.Sprintf("effects: channel %d has %d frames, channel 0 has %d", ch, len(buf[ch]), frames))
		}
	}
	if frames > s.maxBlockSize {
		panic(fmt.Sprintf("effects: block of %d frames exceeds prepared %d", frames, s.maxBlockSize))
	}
	return frames
}

// syncDelays converts the stored delay parameters to samples at the
// prepared rate.
func (s *StereoDelay) syncDelays() {
	for ch := range maxChannels {
		s.bank.SetDelay(ch, core.MsToSamples(s.delayMs.LoadChannel(ch), s.sampleRate))
	}
}

// syncMix refreshes the mixer gains when any parameter changed since the
// last block.
func (s *StereoDelay) syncMix() {
	gen := s.params.Generation()
	if s.mixSynced && gen == s.mixGen {
		return
	}
	s.mixer.SetWetMixProportion(s.mixValue.Load())
	s.mixGen = gen
	s.mixSynced = true
}

func (s *StereoDelay) logParams(level slog.Level, msg string) {
	snap := s.params.Snapshot()
	attrs := make([]any, 0, 2*len(snap))
	for _, spec := range s.params.Specs() {
		attrs = append(attrs, spec.ID, snap[spec.ID])
	}
	s.logger.Log(context.Background(), level, msg, attrs...)
}
