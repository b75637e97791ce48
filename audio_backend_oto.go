//go:build !headless && !portaudio

// audio_backend_oto.go - OTO v3 audio output implementation

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
	"sync/atomic"
	"time"
	"unsafe"

	"github.com/ebitengine/oto/v3"
)

func init() {
	compiledFeatures = append(compiledFeatures, "audio:oto")
}

const BYTES_PER_SAMPLE = 4 // float32

type OtoPlayer struct {
	ctx       *oto.Context
	player    *oto.Player
	engine    atomic.Pointer[AudioEngine] // Atomic for lock-free Read()
	sampleBuf []float32                   // Pre-allocated sample buffer
	started   bool
	mutex     sync.Mutex // Only for setup/control operations
}

// NewAudioOutput opens the default device as a stereo float32 stream at the
// engine's sample rate.
func NewAudioOutput(engine *AudioEngine, framesPerBuffer int) (AudioOutput, error) {
	frames := framesPerBuffer
	if frames <= 0 {
		frames = DEFAULT_FRAMES_PER_BUFFER
	}

	op := &oto.NewContextOptions{
		SampleRate:   engine.SampleRate(),
		ChannelCount: STEREO_CHANNELS,
		Format:       oto.FormatFloat32LE,
	}
	if framesPerBuffer > 0 {
		op.BufferSize = time.Duration(framesPerBuffer) * time.Second / time.Duration(engine.SampleRate())
	}

	ctx, ready, err := oto.NewContext(op)
	if err != nil {
		return nil, fmt.Errorf("oto: opening output context: %w", err)
	}
	<-ready

	out := &OtoPlayer{
		ctx:       ctx,
		sampleBuf: make([]float32, frames*STEREO_CHANNELS),
	}
	out.engine.Store(engine)
	out.player = ctx.NewPlayer(out)
	if framesPerBuffer > 0 {
		out.player.SetBufferSize(framesPerBuffer * STEREO_CHANNELS * BYTES_PER_SAMPLE)
	}
	return out, nil
}

// Read is oto's pull callback: interleaved little-endian float32 frames.
func (op *OtoPlayer) Read(p []byte) (n int, err error) {
	// Load engine pointer atomically - no lock needed for the hot path
	engine := op.engine.Load()
	numSamples := len(p) / BYTES_PER_SAMPLE
	if engine == nil || numSamples == 0 {
		clear(p)
		return len(p), nil
	}

	// Ensure our pre-allocated buffer is large enough
	// This should rarely happen after the player's buffer size is set
	if len(op.sampleBuf) < numSamples {
		op.sampleBuf = make([]float32, numSamples)
	}
	samples := op.sampleBuf[:numSamples]
	engine.Render(samples)

	raw := unsafe.Slice((*byte)(unsafe.Pointer(&samples[0])), numSamples*BYTES_PER_SAMPLE)
	copied := copy(p, raw)
	clear(p[copied:])
	return len(p), nil
}

func (op *OtoPlayer) Start() error {
	op.mutex.Lock()
	defer op.mutex.Unlock()

	if op.started || op.player == nil {
		return nil
	}
	if err := op.ctx.Err(); err != nil {
		return fmt.Errorf("oto: %w", err)
	}
	op.player.Play()
	op.started = true
	return nil
}

func (op *OtoPlayer) Stop() error {
	op.mutex.Lock()
	defer op.mutex.Unlock()

	if op.started && op.player != nil {
		op.player.Pause()
		op.started = false
	}
	return nil
}

// Close stops pulling from the engine before releasing the player. The oto
// context cannot be destroyed, only suspended.
func (op *OtoPlayer) Close() error {
	if err := op.Stop(); err != nil {
		return err
	}
	op.mutex.Lock()
	defer op.mutex.Unlock()

	op.engine.Store(nil)
	if op.player != nil {
		err := op.player.Close()
		op.player = nil
		if err != nil {
			return fmt.Errorf("oto: closing player: %w", err)
		}
	}
	if err := op.ctx.Suspend(); err != nil {
		return fmt.Errorf("oto: suspending context: %w", err)
	}
	return nil
}

func (op *OtoPlayer) IsStarted() bool {
	op.mutex.Lock()
	defer op.mutex.Unlock()
	return op.started
}

func (op *OtoPlayer) Name() string { return "oto" }
