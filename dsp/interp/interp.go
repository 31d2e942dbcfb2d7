package interp

import (
	"fmt"
	"strings"
)

// Mode selects an interpolation kernel.
type Mode int

const (
	// Linear uses 2-point linear interpolation.
	Linear Mode = iota
	// Hermite uses 4-point cubic Hermite interpolation.
	Hermite
	// Lagrange3 uses 4-point 3rd-order Lagrange interpolation.
	Lagrange3
)

// String returns the lowercase mode name.
func (m Mode) String() string {
	switch m {
	case Linear:
		return "linear"
	case Hermite:
		return "hermite"
	case Lagrange3:
		return "lagrange3"
	default:
		return fmt.Sprintf("Mode(%d)", int(m))
	}
}

// ParseMode parses a mode name as printed by [Mode.String].
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "linear":
		return Linear, nil
	case "hermite":
		return Hermite, nil
	case "lagrange3", "lagrange":
		return Lagrange3, nil
	default:
		return 0, fmt.Errorf("unknown interpolation mode: %q", s)
	}
}

// Valid reports whether m is a known mode.
func (m Mode) Valid() bool {
	return m >= Linear && m <= Lagrange3
}

// Points returns the number of neighbouring samples the mode reads.
func Points(m Mode) int {
	if m == Linear {
		return 2
	}
	return 4
}

// Linear2 interpolates from x0 to x1 at fraction t in [0,1).
func Linear2(t, x0, x1 float64) float64 {
	return x0 + t*(x1-x0)
}

// Hermite4 computes cubic 4-point interpolation.
// It interpolates from x0 to x1 using neighbor points xm1 and x2.
func Hermite4(t, xm1, x0, x1, x2 float64) float64 {
	c0 := x0
	c1 := 0.5 * (x1 - xm1)
	c2 := xm1 - 2.5*x0 + 2*x1 - 0.5*x2
	c3 := 0.5*(x2-xm1) + 1.5*(x0-x1)
	return ((c3*t+c2)*t+c1)*t + c0
}

// Lagrange4 computes the 3rd-order Lagrange polynomial through the points at
// -1, 0, 1 and 2, evaluated at t in [0,1).
func Lagrange4(t, xm1, x0, x1, x2 float64) float64 {
	tp1 := t + 1
	tm1 := t - 1
	tm2 := t - 2

	return -t*tm1*tm2*xm1/6 +
		tp1*tm1*tm2*x0/2 -
		tp1*t*tm2*x1/2 +
		tp1*t*tm1*x2/6
}
