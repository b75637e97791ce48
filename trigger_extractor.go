// trigger_extractor.go - Rising-edge trigger alignment of captured samples

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

import "iter"

// TriggerParams are owned by the scope and never touched by the engine.
type TriggerParams struct {
	Threshold float64 // trigger level
	Window    int     // samples to display, clamped to the capture capacity
}

// WaveformPoint is one rendered sample of the trace.
type WaveformPoint struct {
	TimeMs    float64
	Amplitude float64
}

func clampWindow(window, capacity int) int {
	if window < 0 {
		return 0
	}
	if window > capacity {
		return capacity
	}
	return window
}

// findTriggerStart returns the index of the first rising-edge crossing of
// threshold within the first `limit` samples, or 0 when there is none.
//
// A crossing needs a strictly rising pair that was seen at or below the
// threshold before a rising sample at or above it. A signal that never
// approaches the level from below does not trigger.
func findTriggerStart(samples []float32, threshold float64, limit int) int {
	limit = min(limit, len(samples))
	below := false
	for i := 1; i < limit; i++ {
		cur := float64(samples[i])
		if cur <= float64(samples[i-1]) {
			continue
		}
		if cur <= threshold {
			below = true
		}
		if below && cur >= threshold {
			return i
		}
	}
	return 0
}

// TriggerStart is the index the trace for snap and p begins at.
func TriggerStart(snap CaptureSnapshot, p TriggerParams) int {
	window := clampWindow(p.Window, snap.Capacity())
	return findTriggerStart(snap.Samples, p.Threshold, window)
}

// ExtractTrace yields the trigger-aligned trace of snap: at most p.Window
// points starting at the trigger, never running past the end of the
// capture. The sequence is lazy and can be ranged over repeatedly with the
// same result.
func ExtractTrace(snap CaptureSnapshot, p TriggerParams) iter.Seq[WaveformPoint] {
	return func(yield func(WaveformPoint) bool) {
		traceFrom(snap, p, TriggerStart(snap, p))(yield)
	}
}

// traceFrom yields the trace of snap beginning at a trigger index the
// caller has already located.
func traceFrom(snap CaptureSnapshot, p TriggerParams, start int) iter.Seq[WaveformPoint] {
	return func(yield func(WaveformPoint) bool) {
		capacity := snap.Capacity()
		window := clampWindow(p.Window, capacity)
		if window == 0 {
			return
		}
		end := min(capacity, start+window)

		msPerSample := 0.0
		if snap.SampleRate > 0 {
			msPerSample = 1e3 / float64(snap.SampleRate)
		}
		for i := start; i < end; i++ {
			pt := WaveformPoint{
				TimeMs:    float64(i-start) * msPerSample,
				Amplitude: float64(snap.Samples[i]),
			}
			if !yield(pt) {
				return
			}
		}
	}
}
