// audio_output.go - Audio transport interface and the paced software clock

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
	"sync"
	"time"
)

const DEFAULT_FRAMES_PER_BUFFER = 1024

// AudioOutput is an output-only stereo float32 stream that pulls frames from
// an AudioEngine until stopped.
type AudioOutput interface {
	Start() error
	Stop() error
	Close() error
	IsStarted() bool
	Name() string
}

// ClockOutput drives an AudioEngine from a ticker at the engine's sample
// rate without a sound device. Rendered frames are discarded.
type ClockOutput struct {
	engine *AudioEngine
	buf    []float32
	period time.Duration

	mutex   sync.Mutex
	started bool
	stop    chan struct{}
	done    chan struct{}
}

func NewClockOutput(engine *AudioEngine, framesPerBuffer int) *ClockOutput {
	if framesPerBuffer <= 0 {
		framesPerBuffer = DEFAULT_FRAMES_PER_BUFFER
	}
	period := time.Duration(framesPerBuffer) * time.Second / time.Duration(engine.SampleRate())
	if period <= 0 {
		period = time.Millisecond
	}
	return &ClockOutput{
		engine: engine,
		buf:    make([]float32, framesPerBuffer*STEREO_CHANNELS),
		period: period,
	}
}

func (co *ClockOutput) Start() error {
	co.mutex.Lock()
	defer co.mutex.Unlock()
	if co.started {
		return nil
	}
	co.stop = make(chan struct{})
	co.done = make(chan struct{})
	co.started = true

	go co.run(co.stop, co.done)
	return nil
}

func (co *ClockOutput) run(stop <-chan struct{}, done chan<- struct{}) {
	defer close(done)
	ticker := time.NewTicker(co.period)
	defer ticker.Stop()
	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			co.engine.Render(co.buf)
		}
	}
}

// Stop halts the callback goroutine and waits for it to exit, so no tick
// runs after Stop returns.
func (co *ClockOutput) Stop() error {
	co.mutex.Lock()
	defer co.mutex.Unlock()
	if !co.started {
		return nil
	}
	close(co.stop)
	<-co.done
	co.started = false
	return nil
}

func (co *ClockOutput) Close() error { return co.Stop() }

func (co *ClockOutput) IsStarted() bool {
	co.mutex.Lock()
	defer co.mutex.Unlock()
	return co.started
}

func (co *ClockOutput) Name() string { return "clock" }
