package mix

import (
	"fmt"
	"strings"

	"github.com/cwbudde/algo-pingpong/dsp/core"
)

// Law maps a wet proportion to a pair of gains.
type Law int

const (
	// LinearLaw uses dry = 1-p and wet = p. The gains sum to one, so a
	// correlated signal keeps its amplitude through the sweep.
	LinearLaw Law = iota
	// EqualPowerLaw uses dry = sqrt(1-p) and wet = sqrt(p). The squared
	// gains sum to one, so uncorrelated signals keep their power.
	EqualPowerLaw
)

func (l Law) String() string {
	switch l {
	case LinearLaw:
		return "linear"
	case EqualPowerLaw:
		return "equal-power"
	default:
		return fmt.Sprintf("Law(%d)", int(l))
	}
}

// ParseLaw accepts the names returned by String.
func ParseLaw(s string) (Law, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "linear", "lin":
		return LinearLaw, nil
	case "equal-power", "equalpower", "power":
		return EqualPowerLaw, nil
	default:
		return 0, fmt.Errorf("mix: unknown law %q", s)
	}
}

// Valid reports whether l is a known law.
func (l Law) Valid() bool {
	return l == LinearLaw || l == EqualPowerLaw
}

// Gains returns the dry and wet gains for wet proportion p. p is clamped to
// [0, 1]. Both laws are exact at the ends: (1, 0) at p=0 and (0, 1) at p=1.
func (l Law) Gains(p float64) (dry, wet float64) {
	p = core.Clamp(p, 0, 1)
	switch p {
	case 0:
		return 1, 0
	case 1:
		return 0, 1
	}
	if l == EqualPowerLaw {
		return mathSqrt(1 - p), mathSqrt(p)
	}
	return 1 - p, p
}
