// synth_test_helpers_test.go - Test helpers for engine and scope tests.

package main

import (
	"runtime"
	"sync"
	"testing"
)

func newTestEngine(t testing.TB, sampleRate, capacity int) *AudioEngine {
	t.Helper()
	engine, err := NewAudioEngine(sampleRate, capacity)
	if err != nil {
		t.Fatalf("NewAudioEngine(%d, %d): %v", sampleRate, capacity, err)
	}
	return engine
}

// startTestProducer renders from engine on its own goroutine, standing in
// for the transport callback, until the returned stop func is called.
func startTestProducer(t testing.TB, engine *AudioEngine) (stop func()) {
	t.Helper()
	done := make(chan struct{})
	var wg sync.WaitGroup
	wg.Go(func() {
		buf := make([]float32, 256*STEREO_CHANNELS)
		for {
			select {
			case <-done:
				return
			default:
			}
			engine.Render(buf)
			runtime.Gosched()
		}
	})
	var once sync.Once
	stop = func() {
		once.Do(func() {
			close(done)
			wg.Wait()
		})
	}
	t.Cleanup(stop)
	return stop
}

// rampSamples returns n samples rising linearly so that index zeroAt is 0
// and the step is 1/zeroAt.
func rampSamples(n, zeroAt int) []float32 {
	s := make([]float32, n)
	for i := range s {
		s[i] = float32(i-zeroAt) / float32(zeroAt)
	}
	return s
}

// recordingSink collects traces handed to it by the scope.
type recordingSink struct {
	traces chan *Trace
}

func newRecordingSink() *recordingSink {
	return &recordingSink{traces: make(chan *Trace, 8)}
}

func (r *recordingSink) ShowTrace(tr *Trace) {
	select {
	case r.traces <- tr:
	default:
	}
}
