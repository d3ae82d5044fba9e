// mixer_common_test.go - Shared helpers for engine tests

package main

import (
	"io"
	"log"
	"math"
	"testing"
)

// newTestEngine builds an engine on the device-free backend with logging
// silenced, so rejection-path tests stay quiet.
func newTestEngine(t *testing.T) *MixEngine {
	t.Helper()
	engine, err := NewMixEngine(AUDIO_BACKEND_NONE)
	if err != nil {
		t.Fatalf("NewMixEngine: %v", err)
	}
	engine.SetLogger(log.New(io.Discard, "", 0))
	return engine
}

// renderOnePeriod runs a single fixed-size period and returns the
// interleaved stereo buffer.
func renderOnePeriod(engine *MixEngine) []float32 {
	out := make([]float32, BUFFER_SIZE*CHANNELS)
	engine.RenderPeriod(out, BUFFER_SIZE)
	return out
}

// channelPeak returns the max absolute sample of one channel (0=L, 1=R)
// from an interleaved buffer.
func channelPeak(buf []float32, channel int) float32 {
	var peak float32
	for i := channel; i < len(buf); i += CHANNELS {
		abs := float32(math.Abs(float64(buf[i])))
		if abs > peak {
			peak = abs
		}
	}
	return peak
}

func allZero(buf []float32) bool {
	for _, s := range buf {
		if s != 0 {
			return false
		}
	}
	return true
}

func approxEqual(a, b, tolerance float32) bool {
	return float32(math.Abs(float64(a-b))) <= tolerance
}
