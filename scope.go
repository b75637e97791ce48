// scope.go - Display refresh loop: capture, trigger-align and hand off to a renderer

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
	"errors"
	"fmt"
	"os"
	"slices"
	"sync/atomic"
	"time"
)

// Trace is one rendered refresh. It replaces the previous trace in full.
type Trace struct {
	Points     []WaveformPoint
	Start      int
	Params     TriggerParams
	SampleRate int
	CapturedAt time.Time
	Latency    time.Duration // arm to completion
}

// TraceSink renders traces. ShowTrace is called from the scope goroutine
// and must not keep a reference to anything but the Trace itself.
type TraceSink interface {
	ShowTrace(tr *Trace)
}

// Scope owns the consumer side of the capture protocol.
type Scope struct {
	coord    *CaptureCoordinator
	settings *ScopeSettings
	sink     TraceSink

	scratch []float32
	last    atomic.Pointer[Trace]
}

func NewScope(coord *CaptureCoordinator, settings *ScopeSettings, sink TraceSink) *Scope {
	return &Scope{
		coord:    coord,
		settings: settings,
		sink:     sink,
		scratch:  make([]float32, 0, settings.Capacity()),
	}
}

// LastTrace returns the most recent trace, or nil before the first refresh.
func (s *Scope) LastTrace() *Trace { return s.last.Load() }

// Refresh takes one capture and renders it. Not safe for concurrent use;
// Run calls it from a single goroutine.
func (s *Scope) Refresh(ctx context.Context) (*Trace, error) {
	armedAt := time.Now()
	snap, err := s.coord.Capture(ctx, s.scratch)
	if err != nil {
		return nil, err
	}
	s.scratch = snap.Samples

	params := s.settings.Trigger()
	start := TriggerStart(snap, params)
	tr := &Trace{
		Points:     slices.Collect(traceFrom(snap, params, start)),
		Start:      start,
		Params:     params,
		SampleRate: snap.SampleRate,
		CapturedAt: time.Now(),
	}
	tr.Latency = tr.CapturedAt.Sub(armedAt)

	s.last.Store(tr)
	runtimeStatus.recordTrace(tr)
	if s.sink != nil {
		s.sink.ShowTrace(tr)
	}
	return tr, nil
}

// Run refreshes on the settings' timer and on every change notification
// until ctx is done.
func (s *Scope) Run(ctx context.Context) error {
	for {
		var timer *time.Timer
		var tick <-chan time.Time
		if interval := s.settings.RefreshInterval(); interval > 0 {
			timer = time.NewTimer(interval)
			tick = timer.C
		}

		select {
		case <-ctx.Done():
			if timer != nil {
				timer.Stop()
			}
			return nil
		case <-tick:
		case <-s.settings.Changed():
		}
		if timer != nil {
			timer.Stop()
		}

		if _, err := s.Refresh(ctx); err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return nil
			}
			runtimeStatus.recordError(err)
			fmt.Fprintf(os.Stderr, "scope: %v\n", err)
		}
	}
}
