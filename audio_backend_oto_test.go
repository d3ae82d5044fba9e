//go:build !headless

// audio_backend_oto_test.go - OTO pull-path tests
//
// These exercise OtoPlayer.Read directly, without an audio device: Read only
// touches the engine pointer and the sample buffer.

package main

import (
	"testing"
)

func newTestOtoPlayer(t *testing.T) *OtoPlayer {
	t.Helper()
	engine := newTestEngine(t)
	idx := engine.AddTrack("osc", 440.0)
	engine.Track(idx).SetPlaying(true)
	engine.Start()

	op := &OtoPlayer{sampleBuf: make([]float32, 4096)}
	op.engine.Store(engine)
	return op
}

func TestOtoReadNilEngineZeroes(t *testing.T) {
	op := &OtoPlayer{}
	p := make([]byte, 64)
	for i := range p {
		p[i] = 0xff
	}

	n, err := op.Read(p)
	if err != nil || n != len(p) {
		t.Fatalf("Read = %d, %v, want %d, nil", n, err, len(p))
	}
	for i, b := range p {
		if b != 0 {
			t.Fatalf("byte %d = %#x, want 0", i, b)
		}
	}
}

// Read must never reach past the last whole float32: a request that is not a
// multiple of 4 bytes gets its tail zeroed, not filled from out-of-bounds
// sample memory.
func TestOtoReadUnalignedTail(t *testing.T) {
	op := newTestOtoPlayer(t)

	p := make([]byte, BUFFER_SIZE*CHANNELS*4+3)
	for i := range p {
		p[i] = 0xff
	}

	n, err := op.Read(p)
	if err != nil || n != len(p) {
		t.Fatalf("Read = %d, %v, want %d, nil", n, err, len(p))
	}
	for i := len(p) - 3; i < len(p); i++ {
		if p[i] != 0 {
			t.Errorf("tail byte %d = %#x, want 0", i, p[i])
		}
	}

	rendered := false
	for _, b := range p[:len(p)-3] {
		if b != 0 {
			rendered = true
			break
		}
	}
	if !rendered {
		t.Error("no samples rendered ahead of the tail")
	}
}

func TestOtoReadBelowOneSample(t *testing.T) {
	op := newTestOtoPlayer(t)

	p := []byte{0xff, 0xff, 0xff}
	n, err := op.Read(p)
	if err != nil || n != len(p) {
		t.Fatalf("Read = %d, %v, want %d, nil", n, err, len(p))
	}
	for i, b := range p {
		if b != 0 {
			t.Errorf("byte %d = %#x, want 0", i, b)
		}
	}
}
