package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/cwbudde/algo-pingpong/dsp/buffer"
	"github.com/cwbudde/algo-pingpong/dsp/dither"
)

func runCLI(t *testing.T, args ...string) (int, string, string) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	code := run(args, &stdout, &stderr)
	return code, stdout.String(), stderr.String()
}

func TestImpulseReport(t *testing.T) {
	code, out, errOut := runCLI(t, "-impulse", "-rate", "48000", "-delay", "25")
	if code != 0 {
		t.Fatalf("exit %d: %s", code, errOut)
	}
	for _, want := range []string{"crossfeed", "1200", "25.000", "-1"} {
		if !strings.Contains(out, want) {
			t.Fatalf("report lacks %q:\n%s", want, out)
		}
	}
}

func TestImpulseReportIndependentFeedback(t *testing.T) {
	code, out, errOut := runCLI(t, "-impulse", "-variant", "b", "-feedback", "-20")
	if code != 0 {
		t.Fatalf("exit %d: %s", code, errOut)
	}
	for _, want := range []string{"independent", "FEEDBACK", "gain 0.100, not applied"} {
		if !strings.Contains(out, want) {
			t.Fatalf("report lacks %q:\n%s", want, out)
		}
	}
}

func TestRenderFileCrossFeed(t *testing.T) {
	dir := t.TempDir()
	inPath := filepath.Join(dir, "in.wav")
	outPath := filepath.Join(dir, "out.wav")

	const frames = 1000
	src := buffer.NewBlock(2, frames)
	src.Channel(0)[0] = 0.5
	src.Channel(1)[3] = 0.25
	if err := writeWAV(inPath, pcm{sampleRate: 48000, bitDepth: 16, block: src}, dither.DitherNone); err != nil {
		t.Fatal(err)
	}

	code, _, errOut := runCLI(t, "-mix", "1", "-delay", "10", "-dither", "none", "-block", "128", inPath, outPath)
	if code != 0 {
		t.Fatalf("exit %d: %s", code, errOut)
	}

	got, err := readWAV(outPath)
	if err != nil {
		t.Fatal(err)
	}
	if got.sampleRate != 48000 || got.bitDepth != 16 || got.block.Channels() != 2 {
		t.Fatalf("format = %d Hz %d bit %d ch", got.sampleRate, got.bitDepth, got.block.Channels())
	}
	if got.block.Len() != frames+480 {
		t.Fatalf("frames = %d, want %d (input plus tail)", got.block.Len(), frames+480)
	}
	if v := got.block.Channel(1)[480]; v != 0.5 {
		t.Fatalf("right[480] = %v, want 0.5", v)
	}
	if v := got.block.Channel(0)[483]; v != -0.25 {
		t.Fatalf("left[483] = %v, want -0.25", v)
	}
}

func TestRenderGeneratedIndependent(t *testing.T) {
	dir := t.TempDir()
	outPath := filepath.Join(dir, "gen.wav")

	code, _, errOut := runCLI(t,
		"-variant", "independent", "-gen", "impulse", "-rate", "1000", "-duration", "1",
		"-delay-left", "100", "-delay-right", "500", "-mix", "1", "-dither", "none",
		outPath)
	if code != 0 {
		t.Fatalf("exit %d: %s", code, errOut)
	}

	got, err := readWAV(outPath)
	if err != nil {
		t.Fatal(err)
	}
	if got.bitDepth != 24 {
		t.Fatalf("bits = %d", got.bitDepth)
	}
	if v := got.block.Channel(0)[100]; v != 0.5 {
		t.Fatalf("left[100] = %v", v)
	}
	if v := got.block.Channel(1)[500]; v != 0.5 {
		t.Fatalf("right[500] = %v", v)
	}
}

func TestStateFiles(t *testing.T) {
	dir := t.TempDir()
	saved := filepath.Join(dir, "state.json")

	code, _, errOut := runCLI(t, "-impulse", "-delay", "40", "-mix", "0.5", "-save-state", saved)
	if code != 0 {
		t.Fatalf("exit %d: %s", code, errOut)
	}
	doc, err := os.ReadFile(saved)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(doc), `"DELAY":[40]`) || !strings.Contains(string(doc), `"MIX":[0.5]`) {
		t.Fatalf("state = %s", doc)
	}

	// Loaded values apply; an explicit flag still wins.
	code, out, errOut := runCLI(t, "-impulse", "-state", saved, "-mix", "1")
	if code != 0 {
		t.Fatalf("exit %d: %s", code, errOut)
	}
	if !strings.Contains(out, "1920") {
		t.Fatalf("40 ms state not applied:\n%s", out)
	}
	if !strings.Contains(out, "[1]") {
		t.Fatalf("mix flag not applied:\n%s", out)
	}

	code, _, _ = runCLI(t, "-impulse", "-variant", "independent", "-state", saved)
	if code != 1 {
		t.Fatalf("variant mismatch: exit %d, want 1", code)
	}
}

func TestUsageErrors(t *testing.T) {
	tests := []struct {
		name string
		args []string
		code int
	}{
		{"no files", nil, 2},
		{"bad variant", []string{"-variant", "chorus", "-impulse"}, 2},
		{"bad law", []string{"-law", "cubic", "-impulse"}, 2},
		{"bad block", []string{"-block", "0", "-impulse"}, 2},
		{"impulse with files", []string{"-impulse", "a.wav"}, 2},
		{"missing input", []string{"/nonexistent/in.wav", "/nonexistent/out.wav"}, 1},
		{"bad interp", []string{"-interp", "sinc", "-impulse"}, 1},
		{"bad gen", []string{"-gen", "square", filepath.Join(t.TempDir(), "x.wav")}, 1},
		{"help", []string{"-h"}, 0},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			code, _, _ := runCLI(t, tc.args...)
			if code != tc.code {
				t.Fatalf("exit %d, want %d", code, tc.code)
			}
		})
	}
}

func TestLayoutFor(t *testing.T) {
	if _, err := layoutFor(0, 6); err == nil {
		t.Fatal("6 channels must be rejected")
	}
}
