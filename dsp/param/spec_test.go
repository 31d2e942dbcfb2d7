package param

import (
	"errors"
	"math"
	"testing"
)

var mixSpec = Spec{ID: "MIX", Label: "Mix", Min: 0, Max: 1, Step: 0.01, Default: 0.2}

func TestSpecValidate(t *testing.T) {
	tests := []struct {
		name string
		spec Spec
	}{
		{"empty id", Spec{ID: " ", Min: 0, Max: 1}},
		{"empty range", Spec{ID: "X", Min: 1, Max: 1, Default: 1}},
		{"inverted range", Spec{ID: "X", Min: 2, Max: 1, Default: 1}},
		{"nan bound", Spec{ID: "X", Min: math.NaN(), Max: 1}},
		{"negative step", Spec{ID: "X", Min: 0, Max: 1, Step: -1}},
		{"default outside", Spec{ID: "X", Min: 0, Max: 1, Default: 2}},
		{"negative channels", Spec{ID: "X", Min: 0, Max: 1, Channels: -2}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.spec.Validate()
			if !errors.Is(err, ErrInvalidSpec) {
				t.Fatalf("Validate() = %v, want ErrInvalidSpec", err)
			}
		})
	}

	if err := mixSpec.Validate(); err != nil {
		t.Fatalf("valid spec rejected: %v", err)
	}
}

func TestSpecClamp(t *testing.T) {
	tests := []struct {
		in, want float64
	}{
		{in: -1, want: 0},
		{in: 2, want: 1},
		{in: 0.5, want: 0.5},
		{in: 0.234, want: 0.23},
		{in: 0.236, want: 0.24},
		{in: math.NaN(), want: 0.2},
		{in: math.Inf(1), want: 1},
	}

	for _, tc := range tests {
		got := mixSpec.Clamp(tc.in)
		if math.Abs(got-tc.want) > 1e-12 {
			t.Fatalf("Clamp(%v) = %v, want %v", tc.in, got, tc.want)
		}
	}
}

func TestSpecClampIsIdempotent(t *testing.T) {
	for i := 0; i <= 100; i++ {
		once := mixSpec.Clamp(float64(i) / 100)
		if twice := mixSpec.Clamp(once); twice != once {
			t.Fatalf("Clamp not idempotent at %v: %v != %v", once, twice, once)
		}
	}
}

func TestSpecNormalize(t *testing.T) {
	delay := Spec{ID: "DELAY", Min: 5, Max: 100, Default: 25}
	if got := delay.Normalize(5); got != 0 {
		t.Fatalf("Normalize(min) = %v", got)
	}
	if got := delay.Normalize(100); got != 1 {
		t.Fatalf("Normalize(max) = %v", got)
	}
	if got := delay.Denormalize(delay.Normalize(52.5)); math.Abs(got-52.5) > 1e-12 {
		t.Fatalf("Denormalize(Normalize(52.5)) = %v", got)
	}
	if got := delay.Denormalize(3); got != 100 {
		t.Fatalf("Denormalize(3) = %v, want 100", got)
	}
}

func TestSpecSlotsAndFormat(t *testing.T) {
	if (Spec{}).Slots() != 1 || (Spec{Channels: 2}).Slots() != 2 {
		t.Fatal("unexpected slot counts")
	}
	if got := (Spec{Unit: "ms"}).Format(25); got != "25.00 ms" {
		t.Fatalf("Format = %q", got)
	}
	if got := mixSpec.Format(0.2); got != "0.20" {
		t.Fatalf("Format = %q", got)
	}
}
