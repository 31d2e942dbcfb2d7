package main

import (
	"fmt"
	"io"
	"math"
	"text/tabwriter"

	"github.com/cwbudde/algo-pingpong/dsp/core"
	"github.com/cwbudde/algo-pingpong/dsp/effects"
	"github.com/cwbudde/algo-pingpong/measure/ir"
	"github.com/cwbudde/algo-vecmath"
)

// reportImpulse prints, for every input channel, where its impulse lands
// on every output channel.
func reportImpulse(fx *effects.StereoDelay, opts options, w io.Writer) error {
	if err := fx.SetLayout(effects.LayoutStereo); err != nil {
		return err
	}
	if err := fx.Prepare(opts.rate, opts.block); err != nil {
		return err
	}

	length := 1024
	for length <= fx.TailSamples()+4 {
		length *= 2
	}

	analyzer := ir.NewAnalyzer(opts.rate)
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "variant\t%s\n", fx.Variant())
	snap := fx.Params().Snapshot()
	for _, spec := range fx.Params().Specs() {
		vals := snap[spec.ID]
		if spec.Unit == "dB" {
			fmt.Fprintf(tw, "%s\t%v\t(gain %.3f, not applied)\n", spec.ID, vals, core.DBToLinear(vals[0]))
			continue
		}
		fmt.Fprintf(tw, "%s\t%v\n", spec.ID, vals)
	}
	fmt.Fprintln(tw)
	fmt.Fprintln(tw, "in\tout\tpeak\tdelay ms\tvalue\tpolarity\t|H| dev")

	for in := range 2 {
		fx.Reset()
		resp, err := ir.Capture(fx, 2, length, opts.block, in)
		if err != nil {
			return err
		}
		for out, data := range resp {
			m, err := analyzer.Analyze(data)
			if err != nil {
				return err
			}
			dev, err := flatness(data, length)
			if err != nil {
				return err
			}
			fmt.Fprintf(tw, "%d\t%d\t%d\t%.3f\t%.4f\t%+d\t%.2e\n",
				in, out, m.PeakIndex, m.DelaySeconds*1000, m.PeakValue, m.Polarity, dev)
		}
	}
	return tw.Flush()
}

// flatness returns the largest deviation of |H| from its mean.
func flatness(data []float64, fftSize int) (float64, error) {
	mag, err := ir.MagnitudeResponse(data, fftSize)
	if err != nil {
		return 0, err
	}
	mean := vecmath.Sum(mag) / float64(len(mag))

	dev := 0.0
	for _, v := range mag {
		dev = math.Max(dev, math.Abs(v-mean))
	}
	return dev, nil
}
