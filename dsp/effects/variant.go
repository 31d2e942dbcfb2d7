package effects

import (
	"fmt"
	"strings"

	"github.com/cwbudde/algo-pingpong/dsp/param"
)

// Parameter identifiers.
const (
	ParamDelay    = "DELAY"
	ParamMix      = "MIX"
	ParamFeedback = "FEEDBACK"
)

// Variant selects the routing topology.
type Variant int

const (
	// CrossFeed shares one delay depth across both channels. Input 0 feeds
	// delay slot 1 and the polarity-inverted input 1 feeds slot 0.
	CrossFeed Variant = iota
	// Independent gives each channel its own delay depth with straight
	// routing. It declares FEEDBACK, which does not affect the signal.
	Independent
)

func (v Variant) String() string {
	switch v {
	case CrossFeed:
		return "crossfeed"
	case Independent:
		return "independent"
	default:
		return fmt.Sprintf("Variant(%d)", int(v))
	}
}

// ParseVariant accepts the names returned by String plus the short forms
// "a" and "b".
func ParseVariant(s string) (Variant, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "crossfeed", "cross-feed", "pingpong", "a":
		return CrossFeed, nil
	case "independent", "dual", "b":
		return Independent, nil
	default:
		return 0, fmt.Errorf("effects: unknown variant %q", s)
	}
}

// Valid reports whether v is a known variant.
func (v Variant) Valid() bool {
	return v == CrossFeed || v == Independent
}

// Specs returns the parameter declarations of a variant.
func Specs(v Variant) []param.Spec {
	mixSpec := param.Spec{ID: ParamMix, Label: "Mix", Min: 0, Max: 1, Step: 0.01, Default: 0.20}

	if v == Independent {
		return []param.Spec{
			{ID: ParamDelay, Label: "Delay (MS)", Unit: "ms", Min: 0, Max: 1000, Default: 250, Channels: maxChannels},
			mixSpec,
			{ID: ParamFeedback, Label: "Feedback", Unit: "dB", Min: -60, Max: 0, Default: -6},
		}
	}
	return []param.Spec{
		{ID: ParamDelay, Label: "Delay (MS)", Unit: "ms", Min: 5, Max: 100, Default: 25},
		mixSpec,
	}
}

// Layout is a host bus arrangement.
type Layout struct {
	Inputs  int
	Outputs int
}

// Common layouts.
var (
	LayoutMono         = Layout{Inputs: 1, Outputs: 1}
	LayoutStereo       = Layout{Inputs: 2, Outputs: 2}
	LayoutMonoToStereo = Layout{Inputs: 1, Outputs: 2}
)

func (l Layout) String() string {
	return fmt.Sprintf("%din/%dout", l.Inputs, l.Outputs)
}

// Channels is the width of the in-place buffer the host passes for l.
func (l Layout) Channels() int {
	return max(l.Inputs, l.Outputs)
}

// IsLayoutSupported reports whether variant v can run with layout l. It has
// no side effects.
func IsLayoutSupported(v Variant, l Layout) bool {
	switch v {
	case CrossFeed:
		return l == LayoutMonoToStereo || l == LayoutStereo
	case Independent:
		return l == LayoutMono || l == LayoutStereo
	default:
		return false
	}
}
