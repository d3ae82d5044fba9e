// audio_benchmark_test.go - Render-path benchmarks

package main

import (
	"io"
	"log"
	"testing"
)

// BenchmarkRenderPeriod measures a fully-loaded worst case: every track slot
// occupied and every effect slot filled. One period is ~10.7ms of audio at
// 48kHz, so ns/op here reads directly against the real-time budget.
func BenchmarkRenderPeriod(b *testing.B) {
	engine, err := NewMixEngine(AUDIO_BACKEND_NONE)
	if err != nil {
		b.Fatalf("NewMixEngine: %v", err)
	}
	engine.SetLogger(log.New(io.Discard, "", 0))

	kinds := []EffectType{EFFECT_GAIN, EFFECT_LOWPASS, EFFECT_HIGHPASS, EFFECT_DELAY}
	for i := 0; i < MAX_TRACKS; i++ {
		idx := engine.AddTrack("bench", 55.0*float32(i+1))
		engine.Track(idx).SetPlaying(true)
		for j := 0; j < MAX_EFFECTS_PER_TRACK; j++ {
			engine.AddEffect(idx, kinds[j%len(kinds)])
		}
	}
	engine.Start()

	out := make([]float32, BUFFER_SIZE*CHANNELS)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		engine.RenderPeriod(out, BUFFER_SIZE)
	}
}

// BenchmarkRenderPeriodInactive measures the fast silent path.
func BenchmarkRenderPeriodInactive(b *testing.B) {
	engine, err := NewMixEngine(AUDIO_BACKEND_NONE)
	if err != nil {
		b.Fatalf("NewMixEngine: %v", err)
	}
	engine.SetLogger(log.New(io.Discard, "", 0))

	out := make([]float32, BUFFER_SIZE*CHANNELS)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		engine.RenderPeriod(out, BUFFER_SIZE)
	}
}
