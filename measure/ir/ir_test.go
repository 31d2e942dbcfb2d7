package ir

import (
	"errors"
	"math"
	"testing"

	"github.com/cwbudde/algo-pingpong/dsp/effects"
	"github.com/cwbudde/algo-pingpong/internal/testutil"
)

// shift delays channel 0 by n samples across block boundaries.
type shift struct {
	n     int
	hist  []float64
	calls int
}

func (s *shift) ProcessBlock(buf [][]float64) {
	s.calls++
	for i, x := range buf[0] {
		s.hist = append(s.hist, x)
		k := len(s.hist) - 1 - s.n
		if k >= 0 {
			buf[0][i] = s.hist[k]
		} else {
			buf[0][i] = 0
		}
	}
}

func TestCaptureBlocks(t *testing.T) {
	p := &shift{n: 10}
	resp, err := Capture(p, 2, 100, 16, 0)
	if err != nil {
		t.Fatal(err)
	}
	if p.calls != 7 {
		t.Fatalf("calls = %d, want 7", p.calls)
	}
	testutil.RequireSliceNearlyEqual(t, resp[0], testutil.Impulse(100, 10), 0)
	testutil.RequireSliceNearlyEqual(t, resp[1], make([]float64, 100), 0)
}

func TestCaptureValidation(t *testing.T) {
	p := &shift{}
	for _, tc := range []struct{ ch, n, bs, in int }{
		{0, 10, 4, 0}, {1, 0, 4, 0}, {1, 10, 0, 0}, {2, 10, 4, 2}, {2, 10, 4, -1},
	} {
		if _, err := Capture(p, tc.ch, tc.n, tc.bs, tc.in); !errors.Is(err, ErrInvalidCapture) {
			t.Fatalf("%+v: got %v", tc, err)
		}
	}
}

func TestAnalyze(t *testing.T) {
	a := NewAnalyzer(1000)
	m, err := a.Analyze(testutil.ScaledImpulse(64, 25, -0.5))
	if err != nil {
		t.Fatal(err)
	}
	if m.PeakIndex != 25 || m.PeakValue != -0.5 || m.Polarity != -1 {
		t.Fatalf("metrics = %+v", m)
	}
	if math.Abs(m.DelaySeconds-0.025) > 1e-15 || math.Abs(m.CenterTime-0.025) > 1e-15 {
		t.Fatalf("timing = %+v", m)
	}
	if m.Energy != 0.25 || m.StartIndex != 25 {
		t.Fatalf("energy/start = %+v", m)
	}

	silent, err := a.Analyze(make([]float64, 8))
	if err != nil {
		t.Fatal(err)
	}
	if silent.Polarity != 0 || silent.Energy != 0 {
		t.Fatalf("silent = %+v", silent)
	}

	if _, err := a.Analyze(nil); !errors.Is(err, ErrEmptyIR) {
		t.Fatalf("empty: %v", err)
	}
	if _, err := NewAnalyzer(0).Analyze([]float64{1}); !errors.Is(err, ErrInvalidSampleRate) {
		t.Fatalf("rate: %v", err)
	}
}

func TestFindImpulseStart(t *testing.T) {
	ir := []float64{0, 0.01, 0.2, 1, 0.5}
	start, err := FindImpulseStart(ir)
	if err != nil {
		t.Fatal(err)
	}
	if start != 2 {
		t.Fatalf("start = %d, want 2", start)
	}
	if _, err := FindImpulseStart(nil); !errors.Is(err, ErrEmptyIR) {
		t.Fatalf("got %v", err)
	}
}

func TestMagnitudeResponseOfPureDelayIsFlat(t *testing.T) {
	mag, err := MagnitudeResponse(testutil.Impulse(256, 37), 256)
	if err != nil {
		t.Fatal(err)
	}
	if len(mag) != 129 {
		t.Fatalf("bins = %d", len(mag))
	}
	for k, m := range mag {
		if math.Abs(m-1) > 1e-9 {
			t.Fatalf("bin %d: |H| = %v", k, m)
		}
	}

	if _, err := MagnitudeResponse(nil, 256); !errors.Is(err, ErrEmptyIR) {
		t.Fatalf("got %v", err)
	}
	if _, err := MagnitudeResponse([]float64{1}, 100); err == nil {
		t.Fatal("expected power-of-two error")
	}
}

func TestBinFrequency(t *testing.T) {
	if got := BinFrequency(64, 256, 48000); got != 12000 {
		t.Fatalf("got %v", got)
	}
}

func TestStereoDelayResponse(t *testing.T) {
	fx, err := effects.New(effects.CrossFeed)
	if err != nil {
		t.Fatal(err)
	}
	if err := fx.Prepare(48000, 256); err != nil {
		t.Fatal(err)
	}
	_ = fx.SetParameter(effects.ParamMix, 1)
	_ = fx.SetParameter(effects.ParamDelay, 25)

	resp, err := Capture(fx, 2, 2048, 256, 1)
	if err != nil {
		t.Fatal(err)
	}

	m, err := NewAnalyzer(48000).Analyze(resp[0])
	if err != nil {
		t.Fatal(err)
	}
	if m.PeakIndex != 1200 || m.Polarity != -1 {
		t.Fatalf("left from right input: %+v", m)
	}
	if math.Abs(m.DelaySeconds-0.025) > 1e-12 {
		t.Fatalf("delay = %v s", m.DelaySeconds)
	}

	mag, err := MagnitudeResponse(resp[0], 2048)
	if err != nil {
		t.Fatal(err)
	}
	for k, v := range mag {
		if math.Abs(v-1) > 1e-9 {
			t.Fatalf("bin %d: |H| = %v", k, v)
		}
	}
}

func TestFractionalDelayResponse(t *testing.T) {
	fx, _ := effects.New(effects.CrossFeed)
	_ = fx.Prepare(48000, 512)
	_ = fx.SetParameter(effects.ParamMix, 1)
	_ = fx.SetParameter(effects.ParamDelay, 10.01) // 480.48 samples

	resp, err := Capture(fx, 2, 1024, 512, 0)
	if err != nil {
		t.Fatal(err)
	}
	m, _ := NewAnalyzer(48000).Analyze(resp[1])
	if m.PeakIndex != 480 && m.PeakIndex != 481 {
		t.Fatalf("peak at %d", m.PeakIndex)
	}
	if math.Abs(m.CenterTime*48000-480.48) > 0.5 {
		t.Fatalf("centroid at %v samples", m.CenterTime*48000)
	}
}
