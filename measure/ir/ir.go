package ir

import (
	"errors"
	"fmt"
	"math"

	"github.com/cwbudde/algo-vecmath"
)

// Errors returned by IR analysis functions.
var (
	ErrEmptyIR           = errors.New("ir: impulse response is empty")
	ErrInvalidSampleRate = errors.New("ir: sample rate must be positive")
	ErrInvalidCapture    = errors.New("ir: invalid capture settings")
)

// Processor is anything that transforms a channel-major block in place.
type Processor interface {
	ProcessBlock(buf [][]float64)
}

// Capture feeds a unit impulse at sample 0 of inputChannel through p and
// returns length samples of every output channel. The
// impulse is delivered in blocks of blockSize.
func Capture(p Processor, channels, length, blockSize, inputChannel int) ([][]float64, error) {
	switch {
	case channels <= 0:
		return nil, fmt.Errorf("%w: channels must be > 0: %d", ErrInvalidCapture, channels)
	case length <= 0:
		return nil, fmt.Errorf("%w: length must be > 0: %d", ErrInvalidCapture, length)
	case blockSize <= 0:
		return nil, fmt.Errorf("%w: block size must be > 0: %d", ErrInvalidCapture, blockSize)
	case inputChannel < 0 || inputChannel >= channels:
		return nil, fmt.Errorf("%w: input channel %d outside [0, %d)", ErrInvalidCapture, inputChannel, channels)
	}

	out := make([][]float64, channels)
	for ch := range out {
		out[ch] = make([]float64, length)
	}
	out[inputChannel][0] = 1

	view := make([][]float64, channels)
	for start := 0; start < length; start += blockSize {
		end := min(start+blockSize, length)
		for ch := range out {
			view[ch] = out[ch][start:end]
		}
		p.ProcessBlock(view)
	}
	return out, nil
}

// Metrics holds impulse response analysis results.
type Metrics struct {
	PeakIndex    int     // sample index of the absolute maximum
	PeakValue    float64 // signed value at PeakIndex
	DelaySeconds float64 // PeakIndex in seconds
	Polarity     int     // sign of PeakValue: +1, -1, or 0 for silence
	Energy       float64 // sum of squares
	CenterTime   float64 // energy centroid in seconds
	StartIndex   int     // first sample within -20 dB of the peak
}

// Analyzer computes IR metrics from impulse response data.
type Analyzer struct {
	SampleRate float64
}

// NewAnalyzer creates an IR analyzer with the given sample rate.
func NewAnalyzer(sampleRate float64) *Analyzer {
	return &Analyzer{SampleRate: sampleRate}
}

// Analyze computes all metrics of ir. A silent response is valid and
// reports Polarity 0.
func (a *Analyzer) Analyze(ir []float64) (Metrics, error) {
	if len(ir) == 0 {
		return Metrics{}, ErrEmptyIR
	}
	if a.SampleRate <= 0 {
		return Metrics{}, ErrInvalidSampleRate
	}

	peakIdx := findPeak(ir)
	m := Metrics{
		PeakIndex:    peakIdx,
		PeakValue:    ir[peakIdx],
		DelaySeconds: float64(peakIdx) / a.SampleRate,
		Energy:       vecmath.DotProduct(ir, ir),
		CenterTime:   a.centerTime(ir),
		StartIndex:   findImpulseStart(ir, 0.1),
	}
	switch {
	case m.PeakValue > 0:
		m.Polarity = 1
	case m.PeakValue < 0:
		m.Polarity = -1
	}
	return m, nil
}

// CenterTime computes the temporal energy centroid of the impulse response.
//
//	Ts = ∫₀^∞ τ·h²(τ)dτ / ∫₀^∞ h²(τ)dτ
//
// Returns the center time in seconds.
func (a *Analyzer) CenterTime(ir []float64) (float64, error) {
	if len(ir) == 0 {
		return 0, ErrEmptyIR
	}
	if a.SampleRate <= 0 {
		return 0, ErrInvalidSampleRate
	}
	return a.centerTime(ir), nil
}

func (a *Analyzer) centerTime(ir []float64) float64 {
	var numerator, denominator float64
	for i, v := range ir {
		e := v * v
		numerator += float64(i) / a.SampleRate * e
		denominator += e
	}
	if denominator <= 0 {
		return 0
	}
	return numerator / denominator
}

// FindImpulseStart finds the index of the first sample that exceeds
// a threshold relative to the peak amplitude.
//
// The threshold is -20 dB below the peak (0.1 of peak amplitude).
func FindImpulseStart(ir []float64) (int, error) {
	if len(ir) == 0 {
		return 0, ErrEmptyIR
	}
	return findImpulseStart(ir, 0.1), nil
}

func findImpulseStart(ir []float64, thresholdRatio float64) int {
	peak := vecmath.MaxAbs(ir)
	if peak == 0 {
		return 0
	}
	threshold := peak * thresholdRatio
	for i, v := range ir {
		if math.Abs(v) >= threshold {
			return i
		}
	}
	return 0
}

// findPeak returns the index of the absolute maximum in the IR.
func findPeak(ir []float64) int {
	peakIdx := 0
	peakVal := 0.0
	for i, v := range ir {
		av := math.Abs(v)
		if av > peakVal {
			peakVal = av
			peakIdx = i
		}
	}
	return peakIdx
}
