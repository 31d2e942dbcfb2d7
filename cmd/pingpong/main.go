// Command pingpong runs the stereo delay/mix effect offline.
//
// Usage:
//
//	pingpong [flags] input.wav output.wav
//	pingpong [flags] -gen noise output.wav
//	pingpong [flags] -impulse
//
// It reads a PCM WAV file (16, 24 or 32 bit), processes it block by block
// the way a plugin host would, and writes the result at the same bit depth.
// With -impulse it prints the impulse response of every input/output
// channel pair instead.
//
// Examples:
//
//	pingpong -delay 40 -mix 0.5 in.wav out.wav
//	pingpong -variant independent -delay-left 120 -delay-right 360 in.wav out.wav
//	pingpong -state preset.json -save-state last.json in.wav out.wav
//	pingpong -impulse -rate 44100 -delay 25
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/cwbudde/algo-pingpong/dsp/effects"
	"github.com/cwbudde/algo-pingpong/dsp/interp"
	"github.com/cwbudde/algo-pingpong/dsp/mix"
	"github.com/cwbudde/algo-pingpong/dsp/signal"
)

type options struct {
	variant   effects.Variant
	interp    string
	law       mix.Law
	block     int
	rate      float64
	impulse   bool
	gen       string
	duration  float64
	bits      int
	dither    string
	tail      bool
	statePath string
	savePath  string
	verbose   bool

	// Parameters given on the command line, applied after -state.
	params   map[string]float64
	channels map[int]float64
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	opts, rest, err := parseFlags(args, stderr)
	if errors.Is(err, flag.ErrHelp) {
		return 0
	}
	if err != nil {
		fmt.Fprintf(stderr, "error: %v\n", err)
		return 2
	}

	level := slog.LevelInfo
	if opts.verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))

	if err := execute(opts, rest, stdout, logger); err != nil {
		logger.Error("pingpong failed", "err", err)
		return 1
	}
	return 0
}

func parseFlags(args []string, stderr io.Writer) (options, []string, error) {
	fs := flag.NewFlagSet("pingpong", flag.ContinueOnError)
	fs.SetOutput(stderr)

	variant := fs.String("variant", "crossfeed", "topology: crossfeed (ping-pong) or independent")
	delay := fs.Float64("delay", 25, "delay in ms for every channel")
	delayLeft := fs.Float64("delay-left", 0, "delay in ms for channel 0 (independent only)")
	delayRight := fs.Float64("delay-right", 0, "delay in ms for channel 1 (independent only)")
	mixAmount := fs.Float64("mix", 0.2, "wet proportion in [0, 1]")
	feedback := fs.Float64("feedback", -6, "feedback in dB (independent only; no effect on audio)")
	interpName := fs.String("interp", "", "fractional delay kernel: linear, hermite, lagrange3 (default per variant)")
	lawName := fs.String("law", "linear", "mix law: linear or equal-power")
	block := fs.Int("block", 512, "processing block size in samples")
	rate := fs.Float64("rate", 48000, "sample rate for -impulse and -gen")
	impulse := fs.Bool("impulse", false, "print the impulse response instead of rendering")
	gen := fs.String("gen", "", "render a test signal (impulse, sine, noise) instead of reading a file")
	duration := fs.Float64("duration", 2, "length of the -gen signal in seconds")
	bits := fs.Int("bits", 0, "output bit depth (default: input bit depth, 24 for -gen)")
	ditherName := fs.String("dither", "triangular", "dither applied when writing: none or triangular")
	tail := fs.Bool("tail", true, "append the delay tail after the input ends")
	statePath := fs.String("state", "", "load parameter state from this JSON file")
	savePath := fs.String("save-state", "", "write parameter state to this JSON file")
	verbose := fs.Bool("v", false, "debug logging")

	fs.Usage = func() {
		fmt.Fprintf(stderr, "Usage: pingpong [flags] input.wav output.wav\n")
		fmt.Fprintf(stderr, "       pingpong [flags] -gen kind output.wav\n")
		fmt.Fprintf(stderr, "       pingpong [flags] -impulse\n\n")
		fmt.Fprintf(stderr, "Runs the stereo delay/mix effect offline.\n\n")
		fmt.Fprintf(stderr, "Flags:\n")
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		return options{}, nil, err
	}

	v, err := effects.ParseVariant(*variant)
	if err != nil {
		return options{}, nil, err
	}
	law, err := mix.ParseLaw(*lawName)
	if err != nil {
		return options{}, nil, err
	}
	if *block <= 0 {
		return options{}, nil, fmt.Errorf("block size must be > 0: %d", *block)
	}

	opts := options{
		variant:   v,
		interp:    *interpName,
		law:       law,
		block:     *block,
		rate:      *rate,
		impulse:   *impulse,
		gen:       *gen,
		duration:  *duration,
		bits:      *bits,
		dither:    *ditherName,
		tail:      *tail,
		statePath: *statePath,
		savePath:  *savePath,
		verbose:   *verbose,
		params:    map[string]float64{},
		channels:  map[int]float64{},
	}

	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "delay":
			opts.params[effects.ParamDelay] = *delay
		case "mix":
			opts.params[effects.ParamMix] = *mixAmount
		case "feedback":
			opts.params[effects.ParamFeedback] = *feedback
		case "delay-left":
			opts.channels[0] = *delayLeft
		case "delay-right":
			opts.channels[1] = *delayRight
		}
	})

	rest := fs.Args()
	switch {
	case opts.impulse && len(rest) != 0:
		return options{}, nil, errors.New("-impulse takes no file arguments")
	case !opts.impulse && opts.gen != "" && len(rest) != 1:
		return options{}, nil, errors.New("-gen needs exactly one output file")
	case !opts.impulse && opts.gen == "" && len(rest) != 2:
		fs.Usage()
		return options{}, nil, errors.New("need an input and an output file")
	}
	return opts, rest, nil
}

// newEffect builds the effect and applies -state, then explicit flags.
func newEffect(opts options, logger *slog.Logger) (*effects.StereoDelay, error) {
	fxOpts := []effects.Option{effects.WithMixLaw(opts.law), effects.WithLogger(logger)}
	if opts.interp != "" {
		mode, err := interp.ParseMode(opts.interp)
		if err != nil {
			return nil, err
		}
		fxOpts = append(fxOpts, effects.WithInterpolation(mode))
	}

	fx, err := effects.New(opts.variant, fxOpts...)
	if err != nil {
		return nil, err
	}

	if opts.statePath != "" {
		f, err := os.Open(opts.statePath)
		if err != nil {
			return nil, err
		}
		err = fx.LoadState(f)
		f.Close()
		if err != nil {
			return nil, fmt.Errorf("load %s: %w", opts.statePath, err)
		}
		logger.Info("state loaded", "path", opts.statePath)
	}

	for _, id := range []string{effects.ParamDelay, effects.ParamMix, effects.ParamFeedback} {
		v, ok := opts.params[id]
		if !ok {
			continue
		}
		if err := fx.SetParameter(id, v); err != nil {
			return nil, fmt.Errorf("-%s: %w", flagName(id), err)
		}
	}
	for ch := range 2 {
		v, ok := opts.channels[ch]
		if !ok {
			continue
		}
		if err := fx.SetChannelParameter(effects.ParamDelay, ch, v); err != nil {
			return nil, fmt.Errorf("delay for channel %d: %w", ch, err)
		}
	}
	return fx, nil
}

func flagName(id string) string {
	switch id {
	case effects.ParamDelay:
		return "delay"
	case effects.ParamMix:
		return "mix"
	default:
		return "feedback"
	}
}

func execute(opts options, files []string, stdout io.Writer, logger *slog.Logger) error {
	fx, err := newEffect(opts, logger)
	if err != nil {
		return err
	}

	switch {
	case opts.impulse:
		err = reportImpulse(fx, opts, stdout)
	case opts.gen != "":
		var kind signal.Kind
		kind, err = signal.ParseKind(opts.gen)
		if err == nil {
			err = renderGenerated(fx, opts, kind, files[0], logger)
		}
	default:
		err = renderFile(fx, opts, files[0], files[1], logger)
	}
	if err != nil {
		return err
	}

	if opts.savePath != "" {
		f, err := os.Create(opts.savePath)
		if err != nil {
			return err
		}
		if err := fx.SaveState(f); err != nil {
			f.Close()
			return err
		}
		if err := f.Close(); err != nil {
			return err
		}
		logger.Info("state saved", "path", opts.savePath)
	}
	return nil
}
