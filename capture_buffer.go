// capture_buffer.go - Fixed-size one-shot capture buffer filled by the audio callback

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
	"sync/atomic"
)

var ErrInvalidCapacity = errors.New("capture capacity must be positive")

// captureCursor is the number of samples written since the buffer was armed.
type captureCursor int

// CaptureBuffer records a snapshot of consecutive output samples.
//
// The audio callback is the only writer and only while armed. Disarming
// happens on the callback after the last sample is stored, so a consumer
// that observes armed == false sees a complete, frozen buffer until it
// arms again. The consumer only touches cursor while disarmed.
type CaptureBuffer struct {
	samples []float32
	cursor  captureCursor
	armed   atomic.Bool
	done    chan struct{} // completion token, cap 1
}

func NewCaptureBuffer(capacity int) (*CaptureBuffer, error) {
	if capacity <= 0 {
		return nil, fmt.Errorf("%w (got %d)", ErrInvalidCapacity, capacity)
	}
	return &CaptureBuffer{
		samples: make([]float32, capacity),
		done:    make(chan struct{}, 1),
	}, nil
}

func (b *CaptureBuffer) Capacity() int { return len(b.samples) }

func (b *CaptureBuffer) Armed() bool { return b.armed.Load() }

// WriteCount is only meaningful once the capture is complete or from the
// audio callback itself.
func (b *CaptureBuffer) WriteCount() int { return int(b.cursor) }

// record is called once per tick.
func (b *CaptureBuffer) record(sample float32) {
	if !b.armed.Load() {
		return
	}
	if int(b.cursor) < len(b.samples) {
		b.samples[b.cursor] = sample
		b.cursor++
	}
	if int(b.cursor) == len(b.samples) {
		b.armed.Store(false)
		select {
		case b.done <- struct{}{}:
		default:
		}
	}
}

// arm starts a new capture. It refuses while one is in flight so the
// cursor is never reset under the writer.
func (b *CaptureBuffer) arm() bool {
	if b.armed.Load() {
		return false
	}
	select {
	case <-b.done:
	default:
	}
	b.cursor = 0
	b.armed.Store(true)
	return true
}

// copyTo appends the frozen samples to dst. Caller must hold a completed
// capture.
func (b *CaptureBuffer) copyTo(dst []float32) []float32 {
	return append(dst[:0], b.samples...)
}
