// Package dither converts floating-point blocks to integer PCM and back,
// with optional TPDF dither on the way down.
package dither

import (
	"fmt"
	"strings"
)

// DitherType selects the probability distribution used for dither noise.
type DitherType int

const (
	// DitherNone applies no dither (plain rounding).
	DitherNone DitherType = iota
	// DitherTriangular uses a triangular PDF (TPDF) spanning 2 LSB
	// peak-to-peak.
	DitherTriangular

	ditherTypeCount // sentinel for validation
)

var ditherTypeNames = [ditherTypeCount]string{"None", "Triangular"}

// String returns the name of the dither type.
func (dt DitherType) String() string {
	if dt.Valid() {
		return ditherTypeNames[dt]
	}
	return fmt.Sprintf("DitherType(%d)", dt)
}

// Valid reports whether dt is a known dither type.
func (dt DitherType) Valid() bool {
	return dt >= 0 && dt < ditherTypeCount
}

// ParseDitherType accepts the names returned by String, case-insensitively,
// plus "tpdf".
func ParseDitherType(s string) (DitherType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "none", "off":
		return DitherNone, nil
	case "triangular", "tpdf":
		return DitherTriangular, nil
	default:
		return 0, fmt.Errorf("dither: unknown dither type %q", s)
	}
}
