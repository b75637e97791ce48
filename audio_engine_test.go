// audio_engine_test.go - Audio engine tick and render tests

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
	"errors"
	"math"
	"testing"
)

func TestNewAudioEngine_RejectsBadConfig(t *testing.T) {
	if _, err := NewAudioEngine(0, 4096); !errors.Is(err, ErrInvalidSampleRate) {
		t.Errorf("rate 0: got %v, want ErrInvalidSampleRate", err)
	}
	if _, err := NewAudioEngine(-48000, 4096); !errors.Is(err, ErrInvalidSampleRate) {
		t.Errorf("negative rate: got %v, want ErrInvalidSampleRate", err)
	}
	if _, err := NewAudioEngine(48000, 0); !errors.Is(err, ErrInvalidCapacity) {
		t.Errorf("capacity 0: got %v, want ErrInvalidCapacity", err)
	}
}

func TestNewAudioEngine_Defaults(t *testing.T) {
	engine := newTestEngine(t, DEFAULT_SAMPLE_RATE, DEFAULT_CAPTURE_CAPACITY)
	st := engine.State()
	if st.Volume() != DEFAULT_VOLUME {
		t.Errorf("volume = %v, want %v", st.Volume(), DEFAULT_VOLUME)
	}
	if st.Pitch() != DEFAULT_PITCH_HZ {
		t.Errorf("pitch = %v, want %v", st.Pitch(), DEFAULT_PITCH_HZ)
	}
	if st.Harmonics() != DEFAULT_HARMONICS {
		t.Errorf("harmonics = %d, want %d", st.Harmonics(), DEFAULT_HARMONICS)
	}
	if st.SoundOn() {
		t.Error("sound should start off")
	}
	if st.SampleIndex() != 0 {
		t.Errorf("sampleIndex = %d, want 0", st.SampleIndex())
	}
	if engine.CaptureBuffer().Capacity() != DEFAULT_CAPTURE_CAPACITY {
		t.Errorf("capacity = %d", engine.CaptureBuffer().Capacity())
	}
}

func TestAudioEngine_SoundOffIsSilentButAdvances(t *testing.T) {
	engine := newTestEngine(t, 48000, 64)
	for i := 0; i < 1000; i++ {
		if s := engine.Tick(); s != 0 {
			t.Fatalf("tick %d: got %v with sound off", i, s)
		}
	}
	if got := engine.State().SampleIndex(); got != 1000 {
		t.Fatalf("sampleIndex = %d, want 1000", got)
	}
}

// 192kHz, 440Hz, fundamental only, full volume: one period of (4/pi)sine
// starting at zero, peaking above device full scale.
func TestAudioEngine_SinePeriodAt440(t *testing.T) {
	const rate = 192000
	engine := newTestEngine(t, rate, 4096)
	params := NewParamChannel(engine.State())
	params.SetVolume(VOLUME_CONTROL_MAX)
	params.SetPitchHz(440)
	params.SetHarmonics(0)
	params.SetSound(true)

	samplesPerPeriod := int(math.Ceil(rate / 440.0)) // 437
	out := make([]float32, samplesPerPeriod)
	for i := range out {
		out[i] = engine.Tick()
	}

	if out[0] != 0 {
		t.Errorf("first sample = %v, want 0", out[0])
	}
	peak := float32(0)
	for i, s := range out {
		want := float32(squareHarmonic(float64(i)/rate, 440, 0))
		if math.Abs(float64(s-want)) > 1e-6 {
			t.Fatalf("sample %d = %v, want %v", i, s, want)
		}
		peak = max(peak, s)
	}
	if math.Abs(float64(peak)-FOUR_OVER_PI) > 1e-3 {
		t.Errorf("peak = %v, want 4/pi", peak)
	}
	for i := 1; i <= 217; i++ {
		if out[i] <= 0 {
			t.Fatalf("sample %d = %v, want positive in first half period", i, out[i])
		}
	}
	for i := 220; i <= 435; i++ {
		if out[i] >= 0 {
			t.Fatalf("sample %d = %v, want negative in second half period", i, out[i])
		}
	}
}

func TestAudioEngine_VolumeScales(t *testing.T) {
	const rate = 48000
	engine := newTestEngine(t, rate, 64)
	params := NewParamChannel(engine.State())
	params.SetVolume(25)
	params.SetPitchHz(1000)
	params.SetHarmonics(3)
	params.SetSound(true)

	for i := 0; i < 200; i++ {
		got := engine.Tick()
		want := float32(0.25 * squareHarmonic(float64(i)/rate, 1000, 3))
		if math.Abs(float64(got-want)) > 1e-6 {
			t.Fatalf("sample %d = %v, want %v", i, got, want)
		}
	}
}

// The device sees full scale; the capture keeps the 4/pi peak so trigger
// levels above 1 still find the rising edge.
func TestAudioEngine_RenderClampsDeviceNotCapture(t *testing.T) {
	const rate = 192000
	engine := newTestEngine(t, rate, 4096)
	params := NewParamChannel(engine.State())
	params.SetVolume(VOLUME_CONTROL_MAX)
	params.SetPitchHz(440)
	params.SetHarmonics(0)
	params.SetSound(true)
	coord := NewCaptureCoordinator(engine)
	if err := coord.Arm(); err != nil {
		t.Fatalf("Arm: %v", err)
	}

	buf := make([]float32, 4096*STEREO_CHANNELS)
	engine.Render(buf)
	if coord.Pending() {
		t.Fatal("capture not complete after a full buffer")
	}

	devicePeak := float32(0)
	for i, s := range buf {
		if s > MAX_SAMPLE || s < MIN_SAMPLE {
			t.Fatalf("device sample %d = %v outside full scale", i, s)
		}
		devicePeak = max(devicePeak, s)
	}
	if devicePeak != MAX_SAMPLE {
		t.Errorf("device peak = %v, want %v", devicePeak, MAX_SAMPLE)
	}

	snap := CaptureSnapshot{Samples: engine.CaptureBuffer().copyTo(nil), SampleRate: rate}
	capturePeak := float32(0)
	for _, s := range snap.Samples {
		capturePeak = max(capturePeak, s)
	}
	if capturePeak < 1.27 {
		t.Fatalf("captured peak = %v, want the unclamped 4/pi", capturePeak)
	}

	p := TriggerParams{Threshold: 1.1, Window: 1024}
	start := TriggerStart(snap, p)
	if start == 0 {
		t.Fatal("no trigger at level 1.1")
	}
	if snap.Samples[start] < 1.1 || snap.Samples[start-1] >= snap.Samples[start] {
		t.Fatalf("start %d is not a rising crossing of 1.1: %v -> %v", start, snap.Samples[start-1], snap.Samples[start])
	}
}

func TestAudioEngine_RenderStereoMirrored(t *testing.T) {
	engine := newTestEngine(t, 48000, 64)
	params := NewParamChannel(engine.State())
	params.SetSound(true)
	params.SetHarmonics(7)

	buf := make([]float32, 513)
	for i := range buf {
		buf[i] = 99
	}
	engine.Render(buf)

	for i := 0; i+1 < 512; i += 2 {
		if buf[i] != buf[i+1] {
			t.Fatalf("frame %d: L=%v R=%v", i/2, buf[i], buf[i+1])
		}
	}
	if buf[512] != 0 {
		t.Errorf("trailing half frame = %v, want 0", buf[512])
	}
	if got := engine.State().SampleIndex(); got != 256 {
		t.Errorf("sampleIndex = %d, want 256 (one tick per frame)", got)
	}
}

func TestAudioEngine_SampleIndexContinuesAcrossBuffers(t *testing.T) {
	a := newTestEngine(t, 48000, 64)
	b := newTestEngine(t, 48000, 64)
	for _, e := range []*AudioEngine{a, b} {
		p := NewParamChannel(e.State())
		p.SetSound(true)
		p.SetHarmonics(2)
	}

	whole := make([]float32, 400)
	a.Render(whole)

	split := make([]float32, 0, 400)
	chunk := make([]float32, 100)
	for range 4 {
		b.Render(chunk)
		split = append(split, chunk...)
	}
	for i := range whole {
		if whole[i] != split[i] {
			t.Fatalf("sample %d differs: %v vs %v", i, whole[i], split[i])
		}
	}
}

func TestAudioEngine_RenderDoesNotAllocate(t *testing.T) {
	engine := newTestEngine(t, 48000, 4096)
	params := NewParamChannel(engine.State())
	params.SetSound(true)
	params.SetHarmonics(20)
	coord := NewCaptureCoordinator(engine)

	buf := make([]float32, 512)
	allocs := testing.AllocsPerRun(200, func() {
		_ = coord.Arm()
		engine.Render(buf)
	})
	if allocs != 0 {
		t.Fatalf("Render allocates: %v allocs/op", allocs)
	}
}

func TestClampSample(t *testing.T) {
	tests := []struct {
		in   float64
		want float32
	}{
		{0, 0},
		{0.5, 0.5},
		{-0.5, -0.5},
		{1.27, 1},
		{-1.27, -1},
		{1, 1},
		{-1, -1},
	}
	for _, tc := range tests {
		if got := clampSample(tc.in); got != tc.want {
			t.Errorf("clampSample(%v) = %v, want %v", tc.in, got, tc.want)
		}
	}
}
