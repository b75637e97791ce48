// scope_settings.go - Consumer-side display controls: refresh, trigger level and window

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
	"sync/atomic"
	"time"
)

const (
	REFRESH_CONTROL_MAX   = 500 // ms
	TRIGGER_CONTROL_MIN   = -200
	TRIGGER_CONTROL_MAX   = 200
	TRIGGER_CONTROL_SCALE = 100.0 // raw/100 -> -2.0..2.0

	// Displays span the full trigger range. It also covers the 4/π peak of
	// the unclamped signal, so every settable level is drawn on screen.
	SCOPE_AMP_RANGE = TRIGGER_CONTROL_MAX / TRIGGER_CONTROL_SCALE

	DEFAULT_REFRESH_MS      = 500
	DEFAULT_TRIGGER_CONTROL = 0
)

// ScopeSettings holds the display controls. Writers are the controller
// front-ends, the reader is the scope loop. Any edit that should redraw
// immediately posts to changed.
type ScopeSettings struct {
	refreshMs  atomic.Int32
	triggerRaw atomic.Int32
	window     atomic.Int32
	capacity   int
	changed    chan struct{}
}

func NewScopeSettings(capacity int) *ScopeSettings {
	s := &ScopeSettings{
		capacity: capacity,
		changed:  make(chan struct{}, 1),
	}
	s.refreshMs.Store(DEFAULT_REFRESH_MS)
	s.triggerRaw.Store(DEFAULT_TRIGGER_CONTROL)
	s.window.Store(int32(capacity))
	return s
}

// SetRefresh sets the auto refresh period. 0 disables the timer; the trace
// then only updates on RequestDisplay or trigger/window edits.
func (s *ScopeSettings) SetRefresh(ms int) int {
	ms = clampInt(ms, 0, REFRESH_CONTROL_MAX)
	s.refreshMs.Store(int32(ms))
	s.notify()
	return ms
}

// SetTrigger takes a raw -200..200 control value and returns the level.
func (s *ScopeSettings) SetTrigger(raw int) float64 {
	raw = clampInt(raw, TRIGGER_CONTROL_MIN, TRIGGER_CONTROL_MAX)
	s.triggerRaw.Store(int32(raw))
	s.notify()
	return float64(raw) / TRIGGER_CONTROL_SCALE
}

// SetWindow sets the number of samples displayed, 0..capacity.
func (s *ScopeSettings) SetWindow(n int) int {
	n = clampInt(n, 0, s.capacity)
	s.window.Store(int32(n))
	s.notify()
	return n
}

// RequestDisplay asks the scope loop for an immediate capture.
func (s *ScopeSettings) RequestDisplay() { s.notify() }

func (s *ScopeSettings) notify() {
	select {
	case s.changed <- struct{}{}:
	default:
	}
}

func (s *ScopeSettings) Changed() <-chan struct{} { return s.changed }

func (s *ScopeSettings) RefreshMs() int { return int(s.refreshMs.Load()) }
func (s *ScopeSettings) TriggerControl() int { return int(s.triggerRaw.Load()) }
func (s *ScopeSettings) Window() int { return int(s.window.Load()) }
func (s *ScopeSettings) Capacity() int { return s.capacity }

func (s *ScopeSettings) RefreshInterval() time.Duration {
	return time.Duration(s.RefreshMs()) * time.Millisecond
}

// Trigger returns the current extractor parameters.
func (s *ScopeSettings) Trigger() TriggerParams {
	return TriggerParams{
		Threshold: float64(s.TriggerControl()) / TRIGGER_CONTROL_SCALE,
		Window:    s.Window(),
	}
}
