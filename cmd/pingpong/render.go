package main

import (
	"fmt"
	"log/slog"
	"math"
	"os"

	"github.com/cwbudde/algo-pingpong/dsp/buffer"
	"github.com/cwbudde/algo-pingpong/dsp/core"
	"github.com/cwbudde/algo-pingpong/dsp/dither"
	"github.com/cwbudde/algo-pingpong/dsp/effects"
	"github.com/cwbudde/algo-pingpong/dsp/signal"
	"github.com/cwbudde/algo-vecmath"
	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
)

const wavFormatPCM = 1

// pcm is a decoded WAV file.
type pcm struct {
	sampleRate int
	bitDepth   int
	block      *buffer.Block
}

func readWAV(path string) (pcm, error) {
	f, err := os.Open(path)
	if err != nil {
		return pcm{}, err
	}
	defer f.Close()

	dec := wav.NewDecoder(f)
	if !dec.IsValidFile() {
		return pcm{}, fmt.Errorf("%s: not a valid WAV file", path)
	}
	if dec.WavAudioFormat != wavFormatPCM {
		return pcm{}, fmt.Errorf("%s: unsupported WAV format %d (integer PCM only)", path, dec.WavAudioFormat)
	}
	bits := int(dec.BitDepth)
	if bits != 16 && bits != 24 && bits != 32 {
		return pcm{}, fmt.Errorf("%s: unsupported bit depth %d", path, bits)
	}

	ib, err := dec.FullPCMBuffer()
	if err != nil {
		return pcm{}, fmt.Errorf("%s: %w", path, err)
	}
	channels := int(dec.NumChans)
	if channels <= 0 {
		return pcm{}, fmt.Errorf("%s: no channels", path)
	}

	floats := make([]float64, len(ib.Data))
	dither.ToFloat(floats, ib.Data, bits)
	block := buffer.NewBlock(0, 0)
	buffer.Deinterleave(block, floats, channels)

	return pcm{sampleRate: int(dec.SampleRate), bitDepth: bits, block: block}, nil
}

func writeWAV(path string, data pcm, ditherType dither.DitherType) (err error) {
	quant, err := dither.NewQuantizer(dither.WithBitDepth(data.bitDepth), dither.WithDitherType(ditherType))
	if err != nil {
		return err
	}

	channels := data.block.Channels()
	floats := make([]float64, channels*data.block.Len())
	buffer.Interleave(floats, data.block.Data())
	ints := make([]int, len(floats))
	quant.QuantizeBlock(ints, floats)

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()

	enc := wav.NewEncoder(f, data.sampleRate, data.bitDepth, channels, wavFormatPCM)
	ib := &audio.IntBuffer{
		Format:         &audio.Format{NumChannels: channels, SampleRate: data.sampleRate},
		Data:           ints,
		SourceBitDepth: data.bitDepth,
	}
	if err := enc.Write(ib); err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	return enc.Close()
}

// layoutFor picks the bus layout a host would offer for an input with the
// given channel count.
func layoutFor(v effects.Variant, inputs int) (effects.Layout, error) {
	var l effects.Layout
	switch {
	case inputs == 1 && v == effects.CrossFeed:
		l = effects.LayoutMonoToStereo
	case inputs == 1:
		l = effects.LayoutMono
	case inputs == 2:
		l = effects.LayoutStereo
	default:
		l = effects.Layout{Inputs: inputs, Outputs: inputs}
	}
	if !effects.IsLayoutSupported(v, l) {
		return l, fmt.Errorf("%w: %s for %s", effects.ErrUnsupportedLayout, l, v)
	}
	return l, nil
}

// process runs in through fx and returns the output block, including the
// delay tail when tail is set.
func process(fx *effects.StereoDelay, in *buffer.Block, cfg core.ProcessorConfig, tail bool, logger *slog.Logger) (*buffer.Block, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	layout, err := layoutFor(fx.Variant(), cfg.Channels)
	if err != nil {
		return nil, err
	}
	if err := fx.SetLayout(layout); err != nil {
		return nil, err
	}
	blockSize := cfg.MaxBlockSize
	if err := fx.Prepare(cfg.SampleRate, blockSize); err != nil {
		return nil, err
	}

	frames := in.Len()
	if tail {
		frames += fx.TailSamples()
	}
	out := buffer.NewBlock(layout.Channels(), frames)
	if _, err := out.CopyFrom(in.Data()); err != nil {
		return nil, err
	}

	view := make([][]float64, layout.Channels())
	for start := 0; start < frames; start += blockSize {
		end := min(start+blockSize, frames)
		for ch := range view {
			view[ch] = out.Channel(ch)[start:end]
		}
		fx.ProcessBlock(view)
	}

	peak := 0.0
	for _, ch := range out.Data() {
		peak = math.Max(peak, vecmath.MaxAbs(ch))
	}
	logger.Info("processed",
		"frames", frames, "channels", layout.Channels(),
		"duration_ms", core.SamplesToMs(float64(frames), cfg.SampleRate),
		"peak_db", core.LinearToDB(peak))
	return out, nil
}

func renderFile(fx *effects.StereoDelay, opts options, inPath, outPath string, logger *slog.Logger) error {
	in, err := readWAV(inPath)
	if err != nil {
		return err
	}
	logger.Info("read", "path", inPath,
		"sample_rate", in.sampleRate, "bits", in.bitDepth,
		"channels", in.block.Channels(), "frames", in.block.Len())

	cfg := core.ApplyProcessorOptions(
		core.WithSampleRate(float64(in.sampleRate)),
		core.WithMaxBlockSize(opts.block),
		core.WithChannels(in.block.Channels()),
	)
	if in.block.Channels() > core.MaxChannels {
		return fmt.Errorf("%s: %w: %d input channels", inPath, effects.ErrUnsupportedLayout, in.block.Channels())
	}
	out, err := process(fx, in.block, cfg, opts.tail, logger)
	if err != nil {
		return err
	}

	bits := in.bitDepth
	if opts.bits != 0 {
		bits = opts.bits
	}
	return writeOutput(outPath, pcm{sampleRate: in.sampleRate, bitDepth: bits, block: out}, opts, logger)
}

func renderGenerated(fx *effects.StereoDelay, opts options, kind signal.Kind, outPath string, logger *slog.Logger) error {
	cfg := core.ApplyProcessorOptions(core.WithMaxBlockSize(opts.block))
	cfg.SampleRate = opts.rate
	if !core.ValidSampleRate(cfg.SampleRate) || !cfg.IntegerRate() {
		return fmt.Errorf("sample rate must be a positive integer: %v", opts.rate)
	}
	samples := int(math.Round(opts.duration * opts.rate))
	if samples <= 0 {
		return fmt.Errorf("duration must be > 0: %v", opts.duration)
	}

	gen := signal.NewGenerator(core.WithSampleRate(cfg.SampleRate), core.WithChannels(cfg.Channels))
	data, err := gen.Block(kind, 0.5, samples)
	if err != nil {
		return err
	}
	if kind == signal.KindImpulse && fx.Variant() == effects.Independent {
		// No cross routing: put the impulse on both channels.
		copy(data[1], data[0])
	}
	in := buffer.NewBlock(2, samples)
	if _, err := in.CopyFrom(data); err != nil {
		return err
	}

	out, err := process(fx, in, cfg, opts.tail, logger)
	if err != nil {
		return err
	}

	bits := 24
	if opts.bits != 0 {
		bits = opts.bits
	}
	return writeOutput(outPath, pcm{sampleRate: int(opts.rate), bitDepth: bits, block: out}, opts, logger)
}

func writeOutput(path string, data pcm, opts options, logger *slog.Logger) error {
	if data.bitDepth != 16 && data.bitDepth != 24 && data.bitDepth != 32 {
		return fmt.Errorf("output bit depth must be 16, 24 or 32: %d", data.bitDepth)
	}
	dt, err := dither.ParseDitherType(opts.dither)
	if err != nil {
		return err
	}
	if err := writeWAV(path, data, dt); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	logger.Info("wrote", "path", path, "bits", data.bitDepth, "dither", dt.String())
	return nil
}
