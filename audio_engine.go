// audio_engine.go - Real-time synthesis engine driven by the audio transport

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
	"fmt"
	"math"
	"sync/atomic"
)

const (
	DEFAULT_SAMPLE_RATE      = 192000
	DEFAULT_CAPTURE_CAPACITY = 4096
	DEFAULT_VOLUME           = 0.5
	DEFAULT_PITCH_HZ         = 440.0
	DEFAULT_HARMONICS        = 0

	STEREO_CHANNELS = 2
)

const (
	MAX_SAMPLE = 1.0
	MIN_SAMPLE = -1.0
)

var ErrInvalidSampleRate = errors.New("sample rate must be positive")

// SynthState is the live synthesis state shared between the controller and
// the audio callback. The controller owns volume, pitch, harmonics and
// soundOn; the callback owns sampleIndex. Every field is read independently
// so each one is its own atomic.
type SynthState struct {
	volume      atomic.Uint64 // float64 bits, 0.0-1.0
	pitch       atomic.Uint64 // float64 bits, Hz
	harmonics   atomic.Int32
	soundOn     atomic.Bool
	sampleIndex atomic.Uint64 // wraps after ~3M years at 192kHz
	sampleRate  int
}

func newSynthState(sampleRate int) *SynthState {
	s := &SynthState{sampleRate: sampleRate}
	s.storeVolume(DEFAULT_VOLUME)
	s.storePitch(DEFAULT_PITCH_HZ)
	s.storeHarmonics(DEFAULT_HARMONICS)
	return s
}

func (s *SynthState) Volume() float64 { return math.Float64frombits(s.volume.Load()) }
func (s *SynthState) Pitch() float64 { return math.Float64frombits(s.pitch.Load()) }
func (s *SynthState) Harmonics() int { return int(s.harmonics.Load()) }
func (s *SynthState) SoundOn() bool { return s.soundOn.Load() }
func (s *SynthState) SampleRate() int { return s.sampleRate }
func (s *SynthState) SampleIndex() uint64 { return s.sampleIndex.Load() }

func (s *SynthState) storeVolume(v float64) { s.volume.Store(math.Float64bits(v)) }
func (s *SynthState) storePitch(hz float64) { s.pitch.Store(math.Float64bits(hz)) }
func (s *SynthState) storeHarmonics(h int) { s.harmonics.Store(int32(h)) }
func (s *SynthState) storeSoundOn(on bool) { s.soundOn.Store(on) }

// AudioEngine produces the output signal one tick at a time and mirrors it
// into the capture buffer while a capture is armed.
type AudioEngine struct {
	state   *SynthState
	capture *CaptureBuffer
	invRate float64
}

func NewAudioEngine(sampleRate, captureCapacity int) (*AudioEngine, error) {
	if sampleRate <= 0 {
		return nil, fmt.Errorf("audio engine: %w (got %d)", ErrInvalidSampleRate, sampleRate)
	}
	capture, err := NewCaptureBuffer(captureCapacity)
	if err != nil {
		return nil, fmt.Errorf("audio engine: %w", err)
	}
	return &AudioEngine{
		state:   newSynthState(sampleRate),
		capture: capture,
		invRate: 1.0 / float64(sampleRate),
	}, nil
}

func (e *AudioEngine) State() *SynthState { return e.state }
func (e *AudioEngine) CaptureBuffer() *CaptureBuffer { return e.capture }
func (e *AudioEngine) SampleRate() int { return e.state.sampleRate }

// Tick advances time by one sample and returns the mono output value,
// volume times the harmonic sum. The capture buffer sees the same value,
// so the 4/π peak and the Gibbs overshoot reach the scope intact.
// Runs on the transport's callback: no locks, no allocation, no I/O.
func (e *AudioEngine) Tick() float32 {
	st := e.state
	t := float64(st.sampleIndex.Add(1)-1) * e.invRate

	var out float32
	if st.soundOn.Load() {
		raw := squareHarmonic(t, st.Pitch(), st.Harmonics())
		out = float32(st.Volume() * raw)
	}

	e.capture.record(out)
	return out
}

// Render fills an interleaved stereo buffer, one tick per frame with the
// same value on both channels. Device samples are clamped to full scale;
// the capture keeps the unclamped tick. A trailing half frame is zeroed.
func (e *AudioEngine) Render(out []float32) {
	n := len(out) &^ (STEREO_CHANNELS - 1)
	for i := 0; i < n; i += STEREO_CHANNELS {
		s := clampSample(float64(e.Tick()))
		out[i] = s
		out[i+1] = s
	}
	for i := n; i < len(out); i++ {
		out[i] = 0
	}
}

func clampSample(v float64) float32 {
	if v > MAX_SAMPLE {
		return MAX_SAMPLE
	}
	if v < MIN_SAMPLE {
		return MIN_SAMPLE
	}
	return float32(v)
}
