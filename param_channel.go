// param_channel.go - Controller-side parameter updates for the synthesis engine

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
	"sync/atomic"
)

// Control ranges as presented to the user. Raw positions are integers and
// are converted to engine units here.
const (
	VOLUME_CONTROL_MAX    = 100
	PITCH_CONTROL_MAX     = 10000
	HARMONICS_CONTROL_MAX = 100

	DEFAULT_VOLUME_CONTROL    = 50
	DEFAULT_HARMONICS_CONTROL = DEFAULT_HARMONICS

	PITCH_CURVE_SPAN     = 100.0 // control/max is scaled to 0-100 before the curve
	PITCH_CURVE_EXPONENT = 2.15  // (x*100)^2.15 spans roughly 0-20kHz
	MIN_PITCH_HZ         = 1.0
)

// DEFAULT_PITCH_CONTROL is the dial position closest to DEFAULT_PITCH_HZ.
var DEFAULT_PITCH_CONTROL = pitchToControl(DEFAULT_PITCH_HZ)

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// pitchFromControl maps a dial position onto the perceptual pitch curve.
func pitchFromControl(raw int) float64 {
	raw = clampInt(raw, 0, PITCH_CONTROL_MAX)
	scaled := float64(raw) / PITCH_CONTROL_MAX
	return math.Pow(scaled*PITCH_CURVE_SPAN, PITCH_CURVE_EXPONENT)
}

func pitchToControl(hz float64) int {
	if hz <= 0 {
		return 0
	}
	scaled := math.Pow(hz, 1/PITCH_CURVE_EXPONENT) / PITCH_CURVE_SPAN
	return clampInt(int(math.Round(scaled*PITCH_CONTROL_MAX)), 0, PITCH_CONTROL_MAX)
}

// ParamChannel applies controller edits to a SynthState. Inputs out of
// range are clamped, never rejected. Each setter is one atomic store, so
// it is safe against the audio callback reading concurrently.
type ParamChannel struct {
	state *SynthState

	// Last dial positions, kept so relative edits (keys, scripts) have a
	// reference point.
	volumeRaw    atomic.Int32
	pitchRaw     atomic.Int32
	harmonicsRaw atomic.Int32
}

func NewParamChannel(state *SynthState) *ParamChannel {
	p := &ParamChannel{state: state}
	p.volumeRaw.Store(int32(math.Round(state.Volume() * VOLUME_CONTROL_MAX)))
	p.pitchRaw.Store(int32(pitchToControl(state.Pitch())))
	p.harmonicsRaw.Store(int32(state.Harmonics()))
	return p
}

// SetVolume takes a 0-100 control value and returns the gain applied.
func (p *ParamChannel) SetVolume(raw int) float64 {
	raw = clampInt(raw, 0, VOLUME_CONTROL_MAX)
	p.volumeRaw.Store(int32(raw))
	v := float64(raw) / VOLUME_CONTROL_MAX
	p.state.storeVolume(v)
	return v
}

// SetPitch takes a 0-PITCH_CONTROL_MAX dial value and returns the pitch in
// Hz, kept within [MIN_PITCH_HZ, Nyquist).
func (p *ParamChannel) SetPitch(raw int) float64 {
	raw = clampInt(raw, 0, PITCH_CONTROL_MAX)
	p.pitchRaw.Store(int32(raw))
	hz := p.clampPitch(pitchFromControl(raw))
	p.state.storePitch(hz)
	return hz
}

// SetPitchHz sets the pitch directly, bypassing the dial curve.
func (p *ParamChannel) SetPitchHz(hz float64) float64 {
	hz = p.clampPitch(hz)
	p.pitchRaw.Store(int32(pitchToControl(hz)))
	p.state.storePitch(hz)
	return hz
}

func (p *ParamChannel) clampPitch(hz float64) float64 {
	nyquist := float64(p.state.SampleRate()) / 2
	if hz < MIN_PITCH_HZ || math.IsNaN(hz) {
		return MIN_PITCH_HZ
	}
	if hz >= nyquist {
		return math.Nextafter(nyquist, 0)
	}
	return hz
}

func (p *ParamChannel) SetHarmonics(raw int) int {
	raw = clampInt(raw, 0, HARMONICS_CONTROL_MAX)
	p.harmonicsRaw.Store(int32(raw))
	p.state.storeHarmonics(raw)
	return raw
}

func (p *ParamChannel) SetSound(on bool) {
	p.state.storeSoundOn(on)
}

// ToggleSound flips the sound switch and returns the new state. Only the
// controller writes soundOn, so load-then-store does not race the engine.
func (p *ParamChannel) ToggleSound() bool {
	on := !p.state.SoundOn()
	p.state.storeSoundOn(on)
	return on
}

func (p *ParamChannel) VolumeControl() int { return int(p.volumeRaw.Load()) }
func (p *ParamChannel) PitchControl() int { return int(p.pitchRaw.Load()) }
func (p *ParamChannel) HarmonicsControl() int { return int(p.harmonicsRaw.Load()) }

func (p *ParamChannel) State() *SynthState { return p.state }
