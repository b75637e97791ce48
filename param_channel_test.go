// param_channel_test.go - Parameter channel clamping and curve tests

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
	"math"
	"testing"
)

func newTestParams(t *testing.T, rate int) *ParamChannel {
	t.Helper()
	return NewParamChannel(newTestEngine(t, rate, 64).State())
}

func TestParamChannel_StartsAtEngineDefaults(t *testing.T) {
	p := newTestParams(t, DEFAULT_SAMPLE_RATE)
	if p.VolumeControl() != DEFAULT_VOLUME_CONTROL {
		t.Errorf("volume control = %d, want %d", p.VolumeControl(), DEFAULT_VOLUME_CONTROL)
	}
	if p.PitchControl() != DEFAULT_PITCH_CONTROL {
		t.Errorf("pitch control = %d, want %d", p.PitchControl(), DEFAULT_PITCH_CONTROL)
	}
	if p.HarmonicsControl() != DEFAULT_HARMONICS_CONTROL {
		t.Errorf("harmonics control = %d", p.HarmonicsControl())
	}
}

func TestParamChannel_SetVolume(t *testing.T) {
	p := newTestParams(t, 48000)
	tests := []struct {
		raw     int
		want    float64
		wantRaw int
	}{
		{0, 0, 0},
		{37, 0.37, 37},
		{100, 1, 100},
		{150, 1, 100},
		{-3, 0, 0},
	}
	for _, tc := range tests {
		got := p.SetVolume(tc.raw)
		if math.Abs(got-tc.want) > 1e-12 {
			t.Errorf("SetVolume(%d) = %v, want %v", tc.raw, got, tc.want)
		}
		if p.State().Volume() != got {
			t.Errorf("SetVolume(%d): state holds %v", tc.raw, p.State().Volume())
		}
		if p.VolumeControl() != tc.wantRaw {
			t.Errorf("SetVolume(%d): control = %d, want %d", tc.raw, p.VolumeControl(), tc.wantRaw)
		}
	}
}

func TestParamChannel_SetPitchCurve(t *testing.T) {
	p := newTestParams(t, DEFAULT_SAMPLE_RATE)
	tests := []struct {
		raw  int
		want float64
	}{
		{10000, math.Pow(100, 2.15)},
		{5000, math.Pow(50, 2.15)},
		{1000, math.Pow(10, 2.15)},
		{20000, math.Pow(100, 2.15)},
	}
	for _, tc := range tests {
		got := p.SetPitch(tc.raw)
		if math.Abs(got-tc.want) > 1e-9*tc.want {
			t.Errorf("SetPitch(%d) = %v, want %v", tc.raw, got, tc.want)
		}
		if p.State().Pitch() != got {
			t.Errorf("SetPitch(%d): state holds %v", tc.raw, p.State().Pitch())
		}
	}
	if p.PitchControl() != PITCH_CONTROL_MAX {
		t.Errorf("control after over-range = %d, want %d", p.PitchControl(), PITCH_CONTROL_MAX)
	}
}

func TestParamChannel_SetPitchFloor(t *testing.T) {
	p := newTestParams(t, 48000)
	for _, raw := range []int{0, -50, 1} {
		if got := p.SetPitch(raw); got != MIN_PITCH_HZ {
			t.Errorf("SetPitch(%d) = %v, want floor %v", raw, got, MIN_PITCH_HZ)
		}
	}
	if got := p.SetPitchHz(0); got != MIN_PITCH_HZ {
		t.Errorf("SetPitchHz(0) = %v", got)
	}
	if got := p.SetPitchHz(math.NaN()); got != MIN_PITCH_HZ {
		t.Errorf("SetPitchHz(NaN) = %v", got)
	}
}

func TestParamChannel_PitchStaysBelowNyquist(t *testing.T) {
	p := newTestParams(t, 8000)
	got := p.SetPitch(PITCH_CONTROL_MAX)
	if got >= 4000 {
		t.Fatalf("SetPitch(max) at 8kHz = %v, want below Nyquist", got)
	}
	if got < 3999.99 {
		t.Fatalf("SetPitch(max) at 8kHz = %v, want just below Nyquist", got)
	}
	if got := p.SetPitchHz(1e9); got >= 4000 {
		t.Fatalf("SetPitchHz(1e9) = %v", got)
	}
}

func TestParamChannel_PitchControlRoundTrip(t *testing.T) {
	for _, hz := range []float64{27.5, 110, 440, 1000, 8000} {
		raw := pitchToControl(hz)
		back := pitchFromControl(raw)
		// One dial step near hz is 2.15*hz/raw Hz wide.
		tol := 2.15 * hz / float64(raw)
		if math.Abs(back-hz) > tol {
			t.Errorf("%v Hz -> control %d -> %v Hz", hz, raw, back)
		}
	}
	if pitchToControl(-1) != 0 {
		t.Error("negative pitch should map to control 0")
	}
}

func TestParamChannel_SetPitchHzTracksControl(t *testing.T) {
	p := newTestParams(t, DEFAULT_SAMPLE_RATE)
	p.SetPitchHz(1000)
	if p.State().Pitch() != 1000 {
		t.Fatalf("pitch = %v, want exact 1000", p.State().Pitch())
	}
	if p.PitchControl() != pitchToControl(1000) {
		t.Fatalf("control = %d, want %d", p.PitchControl(), pitchToControl(1000))
	}
}

func TestParamChannel_SetHarmonics(t *testing.T) {
	p := newTestParams(t, 48000)
	tests := []struct{ raw, want int }{
		{0, 0},
		{7, 7},
		{100, 100},
		{101, 100},
		{-2, 0},
	}
	for _, tc := range tests {
		if got := p.SetHarmonics(tc.raw); got != tc.want {
			t.Errorf("SetHarmonics(%d) = %d, want %d", tc.raw, got, tc.want)
		}
		if p.State().Harmonics() != tc.want {
			t.Errorf("SetHarmonics(%d): state holds %d", tc.raw, p.State().Harmonics())
		}
	}
}

func TestParamChannel_Sound(t *testing.T) {
	p := newTestParams(t, 48000)
	if !p.ToggleSound() || !p.State().SoundOn() {
		t.Fatal("first toggle should switch sound on")
	}
	if p.ToggleSound() || p.State().SoundOn() {
		t.Fatal("second toggle should switch sound off")
	}
	p.SetSound(true)
	if !p.State().SoundOn() {
		t.Fatal("SetSound(true) ignored")
	}
}

func TestParamChannel_Reset(t *testing.T) {
	p := newTestParams(t, DEFAULT_SAMPLE_RATE)
	p.SetVolume(90)
	p.SetPitch(9000)
	p.SetHarmonics(40)
	p.SetSound(true)

	p.Reset()
	st := p.State()
	if st.Volume() != DEFAULT_VOLUME || p.VolumeControl() != DEFAULT_VOLUME_CONTROL {
		t.Errorf("volume %v control %d after reset", st.Volume(), p.VolumeControl())
	}
	if st.Pitch() != DEFAULT_PITCH_HZ || p.PitchControl() != DEFAULT_PITCH_CONTROL {
		t.Errorf("pitch %v control %d after reset", st.Pitch(), p.PitchControl())
	}
	if st.Harmonics() != DEFAULT_HARMONICS {
		t.Errorf("harmonics %d after reset", st.Harmonics())
	}
	if st.SoundOn() {
		t.Error("sound still on after reset")
	}
}
