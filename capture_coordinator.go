// capture_coordinator.go - Arm/wait handshake between the scope and the audio callback

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
	"sync"
	"sync/atomic"
	"time"
)

const DEFAULT_CAPTURE_POLL = 10 * time.Millisecond

var ErrCaptureInFlight = errors.New("capture already in flight")

// CaptureSnapshot is a completed capture copied out of the engine.
type CaptureSnapshot struct {
	Samples    []float32
	SampleRate int
}

func (s CaptureSnapshot) Capacity() int { return len(s.Samples) }

// CaptureCoordinator is the consumer half of the capture protocol. It never
// blocks the producer: arming is a single atomic store and completion is a
// non-blocking token send from the callback. Consumers are serialised by mu.
type CaptureCoordinator struct {
	mu           sync.Mutex
	buf          *CaptureBuffer
	sampleRate   int
	pollInterval atomic.Int64 // time.Duration
}

func NewCaptureCoordinator(engine *AudioEngine) *CaptureCoordinator {
	c := &CaptureCoordinator{
		buf:        engine.CaptureBuffer(),
		sampleRate: engine.SampleRate(),
	}
	c.pollInterval.Store(int64(DEFAULT_CAPTURE_POLL))
	return c
}

func (c *CaptureCoordinator) SetPollInterval(d time.Duration) {
	if d <= 0 {
		d = DEFAULT_CAPTURE_POLL
	}
	c.pollInterval.Store(int64(d))
}

// Arm requests a fresh capture. It returns ErrCaptureInFlight rather than
// restarting a capture that is still being written.
func (c *CaptureCoordinator) Arm() error {
	if !c.buf.arm() {
		return ErrCaptureInFlight
	}
	return nil
}

// Pending reports whether a capture is armed and not yet complete.
func (c *CaptureCoordinator) Pending() bool { return c.buf.Armed() }

// Wait blocks until the armed capture completes or ctx is done. The
// completion token wakes it immediately; the poll is a fallback for a token
// consumed by an earlier abandoned wait.
func (c *CaptureCoordinator) Wait(ctx context.Context) error {
	if !c.buf.Armed() {
		return nil
	}
	ticker := time.NewTicker(time.Duration(c.pollInterval.Load()))
	defer ticker.Stop()
	for {
		select {
		case <-c.buf.done:
			return nil
		case <-ticker.C:
			if !c.buf.Armed() {
				return nil
			}
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

// Capture arms, waits and copies the completed buffer into dst (which may
// be nil). A capture already in flight is waited out first and never merged
// with the new one.
func (c *CaptureCoordinator) Capture(ctx context.Context, dst []float32) (CaptureSnapshot, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.buf.Armed() {
		if err := c.Wait(ctx); err != nil {
			return CaptureSnapshot{}, fmt.Errorf("waiting for pending capture: %w", err)
		}
	}
	if err := c.Arm(); err != nil {
		return CaptureSnapshot{}, err
	}
	if err := c.Wait(ctx); err != nil {
		return CaptureSnapshot{}, fmt.Errorf("capture abandoned: %w", err)
	}
	return CaptureSnapshot{
		Samples:    c.buf.copyTo(dst),
		SampleRate: c.sampleRate,
	}, nil
}
