package param

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"sync/atomic"
)

// Errors returned by the bridge.
var (
	ErrInvalidSpec        = errors.New("param: invalid spec")
	ErrDuplicateParameter = errors.New("param: duplicate parameter")
	ErrUnknownParameter   = errors.New("param: unknown parameter")
	ErrChannelOutOfRange  = errors.New("param: channel out of range")
)

// Value is the live storage of one declared parameter.
type Value struct {
	spec  Spec
	slots []atomic.Uint64
}

// Spec returns the declaration.
func (v *Value) Spec() Spec {
	return v.spec
}

// Load returns the value of slot 0.
func (v *Value) Load() float64 {
	return math.Float64frombits(v.slots[0].Load())
}

// LoadChannel returns the value of slot ch. Channels beyond the declared
// count read the last slot, so a scalar parameter serves every channel.
func (v *Value) LoadChannel(ch int) float64 {
	if ch >= len(v.slots) {
		ch = len(v.slots) - 1
	}
	if ch < 0 {
		ch = 0
	}
	return math.Float64frombits(v.slots[ch].Load())
}

func (v *Value) store(ch int, x float64) {
	v.slots[ch].Store(math.Float64bits(v.spec.Clamp(x)))
}

// Bridge owns the authoritative values of a fixed parameter set. The set is
// immutable after NewBridge, so lookups need no lock.
type Bridge struct {
	byID       map[string]*Value
	order      []*Value
	generation atomic.Uint64
}

// NewBridge declares the parameters and stores their defaults.
func NewBridge(specs ...Spec) (*Bridge, error) {
	b := &Bridge{byID: make(map[string]*Value, len(specs))}
	for _, s := range specs {
		if err := s.Validate(); err != nil {
			return nil, err
		}
		if _, exists := b.byID[s.ID]; exists {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateParameter, s.ID)
		}
		v := &Value{spec: s, slots: make([]atomic.Uint64, s.Slots())}
		for ch := range v.slots {
			v.store(ch, s.Default)
		}
		b.byID[s.ID] = v
		b.order = append(b.order, v)
	}
	return b, nil
}

// Specs returns the declarations in declaration order.
func (b *Bridge) Specs() []Spec {
	out := make([]Spec, len(b.order))
	for i, v := range b.order {
		out[i] = v.spec
	}
	return out
}

// Handle resolves id once for repeated audio-thread reads. It returns nil
// for an unknown id.
func (b *Bridge) Handle(id string) *Value {
	return b.byID[id]
}

// Generation increments on every successful write. Readers compare it to a
// cached copy to skip work when nothing changed.
func (b *Bridge) Generation() uint64 {
	return b.generation.Load()
}

// OnParameterChanged sets every slot of id to value (clamped to the
// declared range). Safe to call from any goroutine.
func (b *Bridge) OnParameterChanged(id string, value float64) error {
	v, ok := b.byID[id]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownParameter, id)
	}
	for ch := range v.slots {
		v.store(ch, value)
	}
	b.generation.Add(1)
	return nil
}

// OnChannelParameterChanged sets one slot of a per-channel parameter.
func (b *Bridge) OnChannelParameterChanged(id string, ch int, value float64) error {
	v, ok := b.byID[id]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownParameter, id)
	}
	if ch < 0 || ch >= len(v.slots) {
		return fmt.Errorf("%w: %s has %d slots, got %d", ErrChannelOutOfRange, id, len(v.slots), ch)
	}
	v.store(ch, value)
	b.generation.Add(1)
	return nil
}

// Value returns slot 0 of id, or 0 for an unknown id.
func (b *Bridge) Value(id string) float64 {
	if v, ok := b.byID[id]; ok {
		return v.Load()
	}
	return 0
}

// ChannelValue returns slot ch of id, or 0 for an unknown id.
func (b *Bridge) ChannelValue(id string, ch int) float64 {
	if v, ok := b.byID[id]; ok {
		return v.LoadChannel(ch)
	}
	return 0
}

// ResetToDefaults stores every declared default.
func (b *Bridge) ResetToDefaults() {
	for _, v := range b.order {
		for ch := range v.slots {
			v.store(ch, v.spec.Default)
		}
	}
	b.generation.Add(1)
}

// Snapshot copies every value, keyed by id.
func (b *Bridge) Snapshot() map[string][]float64 {
	out := make(map[string][]float64, len(b.order))
	for _, v := range b.order {
		vals := make([]float64, len(v.slots))
		for ch := range v.slots {
			vals[ch] = v.LoadChannel(ch)
		}
		out[v.spec.ID] = vals
	}
	return out
}

// Restore applies a snapshot. A single value is broadcast to every slot of
// a per-channel parameter. Unknown ids are skipped and returned sorted.
// Slot-count mismatches are rejected before anything is written.
func (b *Bridge) Restore(values map[string][]float64) ([]string, error) {
	var unknown []string
	for id, vals := range values {
		v, ok := b.byID[id]
		if !ok {
			unknown = append(unknown, id)
			continue
		}
		if len(vals) != 1 && len(vals) != len(v.slots) {
			return nil, fmt.Errorf("%w: %s has %d slots, got %d values",
				ErrChannelOutOfRange, id, len(v.slots), len(vals))
		}
	}
	sort.Strings(unknown)

	for id, vals := range values {
		v, ok := b.byID[id]
		if !ok {
			continue
		}
		for ch := range v.slots {
			if len(vals) == 1 {
				v.store(ch, vals[0])
			} else {
				v.store(ch, vals[ch])
			}
		}
	}
	b.generation.Add(1)
	return unknown, nil
}
