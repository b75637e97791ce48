// trigger_extractor_test.go - Trigger alignment and trace extraction tests

/*
 ██▓ ███▄    █ ▄▄▄█████▓ █    ██  ██▓▄▄▄█████▓ ██▓ ▒█████   ███▄    █    ▓█████  ███▄    █   ▄████  ██▓ ███▄    █ ▓█████
▓██▒ ██ ▀█   █ ▓  ██▒ ▓▒ ██  ▓██▒▓██▒▓  ██▒ ▓▒▓██▒▒██▒  ██▒ ██ ▀█   █    ▓█   ▀  ██ ▀█   █  ██▒ ▀█▒▓██▒ ██ ▀█   █ ▓█   ▀
▒██▒▓██  ▀█ ██▒▒ ▓██░ ▒░▓██  ▒██░▒██▒▒ ▓██░ ▒░▒██▒▒██░  ██▒▓██  ▀█ ██▒   ▒███   ▓██  ▀█ ██▒▒██░▄▄▄░▒██▒▓██  ▀█ ██▒▒███
░██░▓██▒  ▐▌██▒░ ▓██▓ ░ ▓▓█  ░██░░██░░ ▓██▓ ░ ░██░▒██   ██░▓██▒  ▐▌██▒   ▒▓█  ▄ ▓██▒  ▐▌██▒░▓█  ██▓░██░▓██▒  ▐▌██▒▒▓█  ▄
░██░▒██░   ▓██░  ▒██▒ ░ ▒▒█████▓ ░██░  ▒██▒ ░ ░██░░ ████▓▒░▒██░   ▓██░   ░▒████▒▒██░   ▓██░░▒▓███▀▒░██░▒██░   ▓██░░▒████▒
░▓  ░ ▒░   ▒ ▒   ▒ ░░   ░▒▓▒ ▒ ▒ ░▓    ▒ ░░   ░▓  ░ ▒░▒░▒░ ░ ▒░   ▒ ▒    ░░ ▒░ ░░ ▒░   ▒ ▒  ░▒   ▒ ░▓  ░ ▒░   ▒ ▒ ░░ ▒░ ░
 ▒ ░░ ░░   ░ ▒░    ░    ░░▒░ ░ ░  ▒ ░    ░     ▒ ░  ░ ▒ ▒░ ░ ░░   ░ ▒░    ░ ░  ░░ ░░   ░ ▒░  ░   ░  ▒ ░░ ░░   ░ ▒░ ░ ░  ░
 ▒ ░   ░   ░ ░   ░       ░░░ ░ ░  ▒ ░  ░       ▒ ░░ ░ ░ ▒     ░   ░ ░       ░      ░   ░ ░ ░ ░   ░  ▒ ░   ░   ░ ░    ░
 ░           ░             ░      ░            ░      ░ ░           ░       ░  ░         ░       ░  ░           ░    ░  ░

(c) 2024 - 2026 Zayn Otley
https://github.com/IntuitionAmiga/IntuitionMonotron
License: GPLv3 or later
*/


package main

import (
	"context"
	"math"
	"slices"
	"testing"
	"time"
)

func TestFindTriggerStart_RisingRamp(t *testing.T) {
	samples := rampSamples(101, 50)
	if got := findTriggerStart(samples, 0, len(samples)); got != 50 {
		t.Fatalf("start = %d, want 50", got)
	}
}

func TestFindTriggerStart_Fallbacks(t *testing.T) {
	falling := make([]float32, 100)
	for i := range falling {
		falling[i] = 1 - float32(i)/50
	}
	alwaysAbove := make([]float32, 100)
	for i := range alwaysAbove {
		alwaysAbove[i] = 0.5 + float32(i)*0.001
	}
	flat := make([]float32, 100)
	for i := range flat {
		flat[i] = 0.25
	}

	tests := []struct {
		name      string
		samples   []float32
		threshold float64
	}{
		{"strictly falling", falling, 0},
		{"rising but never below", alwaysAbove, 0},
		{"flat", flat, 0.25},
		{"never reaches level", rampSamples(100, 50), 1.5},
		{"empty", nil, 0},
		{"single sample", []float32{-1}, 0},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := findTriggerStart(tc.samples, tc.threshold, len(tc.samples)); got != 0 {
				t.Fatalf("start = %d, want 0", got)
			}
		})
	}
}

func TestFindTriggerStart_LimitedToWindow(t *testing.T) {
	samples := rampSamples(100, 50)
	if got := findTriggerStart(samples, 0, 50); got != 0 {
		t.Fatalf("crossing at 50 found with limit 50: start = %d", got)
	}
	if got := findTriggerStart(samples, 0, 51); got != 50 {
		t.Fatalf("limit 51: start = %d, want 50", got)
	}
}

func TestFindTriggerStart_NegativeThreshold(t *testing.T) {
	samples := rampSamples(101, 50)
	// -0.5 is reached at index 25.
	if got := findTriggerStart(samples, -0.5, len(samples)); got != 25 {
		t.Fatalf("start = %d, want 25", got)
	}
}

func TestExtractTrace_LengthProperty(t *testing.T) {
	snap := CaptureSnapshot{Samples: rampSamples(100, 50), SampleRate: 48000}
	tests := []struct {
		window    int
		wantStart int
		wantLen   int
	}{
		{0, 0, 0},
		{-5, 0, 0},
		{10, 0, 10},
		{60, 50, 50},
		{100, 50, 50},
		{150, 50, 50},
	}
	for _, tc := range tests {
		p := TriggerParams{Threshold: 0, Window: tc.window}
		points := slices.Collect(ExtractTrace(snap, p))
		if len(points) != tc.wantLen {
			t.Errorf("window %d: %d points, want %d", tc.window, len(points), tc.wantLen)
		}
		if tc.wantLen > 0 {
			if got := TriggerStart(snap, p); got != tc.wantStart {
				t.Errorf("window %d: start %d, want %d", tc.window, got, tc.wantStart)
			}
			if points[0].Amplitude != float64(snap.Samples[tc.wantStart]) {
				t.Errorf("window %d: first amplitude %v, want sample[%d]", tc.window, points[0].Amplitude, tc.wantStart)
			}
		}
		want := min(snap.Capacity()-TriggerStart(snap, p), clampWindow(tc.window, snap.Capacity()))
		if len(points) != want {
			t.Errorf("window %d: length %d breaks min(capacity-start, window) = %d", tc.window, len(points), want)
		}
	}
}

func TestExtractTrace_TimeAxis(t *testing.T) {
	const rate = 48000
	snap := CaptureSnapshot{Samples: rampSamples(200, 100), SampleRate: rate}
	points := slices.Collect(ExtractTrace(snap, TriggerParams{Threshold: 0, Window: 200}))
	if len(points) != 100 {
		t.Fatalf("%d points, want 100", len(points))
	}
	for k, pt := range points {
		want := float64(k) * 1000 / rate
		if math.Abs(pt.TimeMs-want) > 1e-9 {
			t.Fatalf("point %d: time %v ms, want %v", k, pt.TimeMs, want)
		}
		if pt.Amplitude != float64(snap.Samples[100+k]) {
			t.Fatalf("point %d: amplitude %v, want %v", k, pt.Amplitude, snap.Samples[100+k])
		}
	}
}

func TestExtractTrace_Idempotent(t *testing.T) {
	snap := CaptureSnapshot{Samples: rampSamples(300, 120), SampleRate: 96000}
	p := TriggerParams{Threshold: 0.1, Window: 150}
	seq := ExtractTrace(snap, p)
	first := slices.Collect(seq)
	second := slices.Collect(seq)
	third := slices.Collect(ExtractTrace(snap, p))
	if !slices.Equal(first, second) || !slices.Equal(first, third) {
		t.Fatal("repeated extraction of the same snapshot differs")
	}
}

func TestExtractTrace_EarlyBreak(t *testing.T) {
	snap := CaptureSnapshot{Samples: rampSamples(100, 50), SampleRate: 48000}
	n := 0
	for range ExtractTrace(snap, TriggerParams{Window: 100}) {
		n++
		if n == 3 {
			break
		}
	}
	if n != 3 {
		t.Fatalf("iterated %d points, want 3", n)
	}
}

func TestExtractTrace_ZeroSampleRate(t *testing.T) {
	snap := CaptureSnapshot{Samples: rampSamples(10, 5)}
	for pt := range ExtractTrace(snap, TriggerParams{Window: 10}) {
		if pt.TimeMs != 0 {
			t.Fatalf("time %v with unknown rate, want 0", pt.TimeMs)
		}
	}
}

// A captured sine at a zero threshold starts just after an upward zero
// crossing whatever phase the capture began at.
func TestExtractTrace_AlignsCapturedSine(t *testing.T) {
	engine := newTestEngine(t, 48000, 2048)
	params := NewParamChannel(engine.State())
	params.SetSound(true)
	params.SetPitchHz(1000)
	coord := NewCaptureCoordinator(engine)
	startTestProducer(t, engine)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	p := TriggerParams{Threshold: 0, Window: 1024}
	for range 5 {
		snap, err := coord.Capture(ctx, nil)
		if err != nil {
			t.Fatalf("Capture: %v", err)
		}
		start := TriggerStart(snap, p)
		if start == 0 {
			t.Fatal("no trigger found in a 1kHz sine")
		}
		if snap.Samples[start] < 0 || snap.Samples[start-1] >= snap.Samples[start] {
			t.Fatalf("start %d is not a rising crossing: %v -> %v", start, snap.Samples[start-1], snap.Samples[start])
		}
		first := slices.Collect(ExtractTrace(snap, p))[0]
		// One sample of a 1kHz sine at 48kHz and volume 0.5 moves at most ~0.09.
		if first.Amplitude > 0.1 {
			t.Fatalf("trace starts at %v, want near zero", first.Amplitude)
		}
	}
}

func TestTraceFrom_MatchesExtractTrace(t *testing.T) {
	snap := CaptureSnapshot{Samples: rampSamples(200, 80), SampleRate: 1000}
	for _, p := range []TriggerParams{
		{Threshold: 0, Window: 50},
		{Threshold: 0.5, Window: 200},
		{Threshold: 5, Window: 30}, // no crossing, starts at 0
		{Threshold: 0, Window: 0},
	} {
		start := TriggerStart(snap, p)
		got := slices.Collect(traceFrom(snap, p, start))
		want := slices.Collect(ExtractTrace(snap, p))
		if !slices.Equal(got, want) {
			t.Fatalf("params %+v: traceFrom(start=%d) gave %d points, ExtractTrace %d", p, start, len(got), len(want))
		}
	}
}

func TestClampWindow(t *testing.T) {
	tests := []struct{ window, capacity, want int }{
		{-1, 10, 0},
		{0, 10, 0},
		{5, 10, 5},
		{10, 10, 10},
		{11, 10, 10},
	}
	for _, tc := range tests {
		if got := clampWindow(tc.window, tc.capacity); got != tc.want {
			t.Errorf("clampWindow(%d, %d) = %d, want %d", tc.window, tc.capacity, got, tc.want)
		}
	}
}
