//go:build headless

package main

func init() {
	compiledFeatures = append(compiledFeatures, "audio:clock")
}

// NewAudioOutput returns the software clock in headless builds.
func NewAudioOutput(engine *AudioEngine, framesPerBuffer int) (AudioOutput, error) {
	return NewClockOutput(engine, framesPerBuffer), nil
}
