// audio_backend.go - Audio output interface and backend factory

package main

import "fmt"

// AudioOutput is the seam between the engine and the platform audio sink.
// Backends pull interleaved stereo float32 periods from MixEngine.RenderPeriod
// on their own render context; the engine never pushes.
type AudioOutput interface {
	Start()
	Stop()
	Close()
	IsStarted() bool
}

// NewAudioOutput selects a backend by discriminator. AUDIO_BACKEND_NONE is a
// device-free output for tests, benchmarks and offline callers that drive
// RenderPeriod themselves.
func NewAudioOutput(backend int, sampleRate int, engine *MixEngine) (AudioOutput, error) {
	switch backend {
	case AUDIO_BACKEND_NONE:
		return &NullOutput{}, nil
	case AUDIO_BACKEND_OTO:
		player, err := NewOtoPlayer(sampleRate)
		if err != nil {
			return nil, err
		}
		player.SetupPlayer(engine)
		return player, nil
	case AUDIO_BACKEND_ALSA:
		player, err := NewALSAPlayer(engine)
		if err != nil {
			return nil, err
		}
		return player, nil
	default:
		return nil, fmt.Errorf("unknown audio backend: %d", backend)
	}
}

// NullOutput fulfils the AudioOutput contract without a device. Whoever owns
// the engine pulls periods directly.
type NullOutput struct {
	started bool
}

func (n *NullOutput) Start() {
	n.started = true
}

func (n *NullOutput) Stop() {
	n.started = false
}

func (n *NullOutput) Close() {
	n.started = false
}

func (n *NullOutput) IsStarted() bool {
	return n.started
}
