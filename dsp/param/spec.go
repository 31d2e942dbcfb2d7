package param

import (
	"fmt"
	"math"
	"strings"

	"github.com/cwbudde/algo-pingpong/dsp/core"
)

// Spec declares one parameter.
type Spec struct {
	ID      string
	Label   string
	Unit    string
	Min     float64
	Max     float64
	Step    float64 // 0 means continuous
	Default float64

	// Channels is the number of independently settable slots. 0 and 1 both
	// declare a scalar parameter.
	Channels int
}

// Validate checks the declaration.
func (s Spec) Validate() error {
	switch {
	case strings.TrimSpace(s.ID) == "":
		return fmt.Errorf("%w: empty id", ErrInvalidSpec)
	case !core.IsFinite(s.Min) || !core.IsFinite(s.Max) || s.Min >= s.Max:
		return fmt.Errorf("%w: %s: range [%v, %v] is empty", ErrInvalidSpec, s.ID, s.Min, s.Max)
	case s.Step < 0 || !core.IsFinite(s.Step):
		return fmt.Errorf("%w: %s: step must be >= 0: %v", ErrInvalidSpec, s.ID, s.Step)
	case s.Default < s.Min || s.Default > s.Max || math.IsNaN(s.Default):
		return fmt.Errorf("%w: %s: default %v outside [%v, %v]", ErrInvalidSpec, s.ID, s.Default, s.Min, s.Max)
	case s.Channels < 0:
		return fmt.Errorf("%w: %s: channels must be >= 0: %d", ErrInvalidSpec, s.ID, s.Channels)
	}
	return nil
}

// Slots returns the number of stored values.
func (s Spec) Slots() int {
	if s.Channels < 1 {
		return 1
	}
	return s.Channels
}

// Clamp limits v to the declared range and snaps it to the step grid. NaN
// maps to the default.
func (s Spec) Clamp(v float64) float64 {
	if math.IsNaN(v) {
		return s.Default
	}
	v = core.Clamp(v, s.Min, s.Max)
	if s.Step > 0 {
		v = s.Min + math.Round((v-s.Min)/s.Step)*s.Step
		v = core.Clamp(v, s.Min, s.Max)
	}
	return v
}

// Normalize maps a plain value to [0, 1].
func (s Spec) Normalize(plain float64) float64 {
	return (s.Clamp(plain) - s.Min) / (s.Max - s.Min)
}

// Denormalize maps a normalized value in [0, 1] to the plain range.
func (s Spec) Denormalize(normalized float64) float64 {
	return s.Clamp(s.Min + core.Clamp(normalized, 0, 1)*(s.Max-s.Min))
}

// Format renders a plain value with its unit.
func (s Spec) Format(v float64) string {
	if s.Unit == "" {
		return fmt.Sprintf("%.2f", v)
	}
	return fmt.Sprintf("%.2f %s", v, s.Unit)
}
