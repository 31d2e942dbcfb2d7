package dither

import (
	"math"

	"github.com/cwbudde/algo-pingpong/dsp/core"
	"github.com/cwbudde/algo-vecmath"
)

// Quantizer maps samples in [-1, +1) to signed integers of a fixed bit
// depth. Full scale is 2^(bits-1).
type Quantizer struct {
	bitDepth   int
	ditherType DitherType
	limit      bool
	state      *vecmath.DitherState

	fullScale float64
	limitLo   int
	limitHi   int
	scratch   []float64
}

// NewQuantizer creates a new Quantizer. The default configuration is:
// 16-bit, triangular dither, limiting enabled.
func NewQuantizer(opts ...Option) (*Quantizer, error) {
	cfg := defaultConfig()
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		if err := opt(&cfg); err != nil {
			return nil, err
		}
	}

	fullScale := math.Exp2(float64(cfg.bitDepth - 1))
	return &Quantizer{
		bitDepth:   cfg.bitDepth,
		ditherType: cfg.ditherType,
		limit:      cfg.limit,
		state:      vecmath.NewDitherState(cfg.seed),
		fullScale:  fullScale,
		limitLo:    -int(fullScale),
		limitHi:    int(fullScale) - 1,
	}, nil
}

// BitDepth returns the target bit depth.
func (q *Quantizer) BitDepth() int { return q.bitDepth }

// DitherType returns the dither noise PDF.
func (q *Quantizer) DitherType() DitherType { return q.ditherType }

// Limit returns whether output limiting is enabled.
func (q *Quantizer) Limit() bool { return q.limit }

// QuantizeBlock writes the integer form of src into dst and returns the
// number of samples converted, min(len(dst), len(src)).
func (q *Quantizer) QuantizeBlock(dst []int, src []float64) int {
	n := min(len(dst), len(src))
	q.scratch = core.EnsureLen(q.scratch, n)
	vecmath.ScaleBlock(q.scratch, src[:n], q.fullScale)
	if q.ditherType == DitherTriangular {
		vecmath.AddDitherTPDF(q.scratch, 1, q.state)
	}

	for i, v := range q.scratch {
		r := int(math.Round(v))
		if q.limit {
			r = max(q.limitLo, min(q.limitHi, r))
		}
		dst[i] = r
	}
	return n
}

// ToFloat converts integers of the given bit depth to floats in [-1, +1)
// and returns the number of samples converted.
func ToFloat(dst []float64, src []int, bitDepth int) int {
	n := min(len(dst), len(src))
	scale := 1 / math.Exp2(float64(bitDepth-1))
	for i := range n {
		dst[i] = float64(src[i]) * scale
	}
	return n
}
