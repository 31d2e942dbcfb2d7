package effects

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
)

// StateVersion is the version written by SaveState.
const StateVersion = 1

// ErrInvalidState is returned by LoadState for documents it cannot apply.
var ErrInvalidState = errors.New("effects: invalid state")

type stateDocument struct {
	Version int                  `json:"version"`
	Variant string               `json:"variant"`
	Params  map[string][]float64 `json:"params"`
}

// SaveState writes every parameter value as a JSON document, e.g.
//
//	{"version":1,"variant":"crossfeed","params":{"DELAY":[25],"MIX":[0.2]}}
func (s *StereoDelay) SaveState(w io.Writer) error {
	doc := stateDocument{
		Version: StateVersion,
		Variant: s.variant.String(),
		Params:  s.params.Snapshot(),
	}
	if err := json.NewEncoder(w).Encode(doc); err != nil {
		return fmt.Errorf("effects: write state: %w", err)
	}
	return nil
}

// LoadState applies a document written by SaveState. Values are clamped to
// their declared ranges and unknown parameters are ignored. Nothing is
// applied when the document is malformed, newer than StateVersion, or
// belongs to another variant. Values go through the parameter bridge, so
// LoadState may run during playback.
func (s *StereoDelay) LoadState(r io.Reader) error {
	var doc stateDocument
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidState, err)
	}
	if doc.Version < 1 || doc.Version > StateVersion {
		return fmt.Errorf("%w: unsupported version %d", ErrInvalidState, doc.Version)
	}
	v, err := ParseVariant(doc.Variant)
	if err != nil || v != s.variant {
		return fmt.Errorf("%w: variant %q does not match %s", ErrInvalidState, doc.Variant, s.variant)
	}

	unknown, err := s.params.Restore(doc.Params)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidState, err)
	}
	if len(unknown) > 0 {
		s.logger.Warn("state has unknown parameters", "ids", unknown)
	}
	s.logParams(slog.LevelDebug, "state loaded")
	return nil
}
