//go:build !headless && portaudio

// audio_backend_portaudio.go - PortAudio output stream implementation

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
	"fmt"
	"sync"

	"github.com/gordonklaus/portaudio"
)

func init() {
	compiledFeatures = append(compiledFeatures, "audio:portaudio")
}

type PortAudioOutput struct {
	stream  *portaudio.Stream
	started bool
	closed  bool
	mutex   sync.Mutex
}

// NewAudioOutput initialises PortAudio and opens the default output device:
// no inputs, two interleaved float32 channels, engine.Render as callback.
func NewAudioOutput(engine *AudioEngine, framesPerBuffer int) (AudioOutput, error) {
	if err := portaudio.Initialize(); err != nil {
		return nil, fmt.Errorf("portaudio: initializing: %w", err)
	}

	frames := framesPerBuffer
	if frames <= 0 {
		frames = portaudio.FramesPerBufferUnspecified
	}
	stream, err := portaudio.OpenDefaultStream(0, STEREO_CHANNELS, float64(engine.SampleRate()), frames, engine.Render)
	if err != nil {
		_ = portaudio.Terminate()
		return nil, fmt.Errorf("portaudio: opening stream: %w", err)
	}
	return &PortAudioOutput{stream: stream}, nil
}

func (pa *PortAudioOutput) Start() error {
	pa.mutex.Lock()
	defer pa.mutex.Unlock()

	if pa.started {
		return nil
	}
	if err := pa.stream.Start(); err != nil {
		return fmt.Errorf("portaudio: starting stream: %w", err)
	}
	pa.started = true
	return nil
}

func (pa *PortAudioOutput) Stop() error {
	pa.mutex.Lock()
	defer pa.mutex.Unlock()

	if !pa.started {
		return nil
	}
	pa.started = false
	if err := pa.stream.Stop(); err != nil {
		return fmt.Errorf("portaudio: stopping stream: %w", err)
	}
	return nil
}

// Close stops the callback, closes the stream and terminates PortAudio.
func (pa *PortAudioOutput) Close() error {
	stopErr := pa.Stop()

	pa.mutex.Lock()
	defer pa.mutex.Unlock()
	if pa.closed {
		return stopErr
	}
	pa.closed = true
	if err := pa.stream.Close(); err != nil {
		_ = portaudio.Terminate()
		return fmt.Errorf("portaudio: closing stream: %w", err)
	}
	if err := portaudio.Terminate(); err != nil {
		return fmt.Errorf("portaudio: terminating: %w", err)
	}
	return stopErr
}

func (pa *PortAudioOutput) IsStarted() bool {
	pa.mutex.Lock()
	defer pa.mutex.Unlock()
	return pa.started
}

func (pa *PortAudioOutput) Name() string { return "PortAudio" }
