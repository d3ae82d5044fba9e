// audio_backend_test.go - Backend factory and null output tests

package main

import (
	"testing"
)

func TestNullOutputLifecycle(t *testing.T) {
	out := &NullOutput{}
	if out.IsStarted() {
		t.Error("new output reports started")
	}
	out.Start()
	if !out.IsStarted() {
		t.Error("not started after Start")
	}
	out.Stop()
	if out.IsStarted() {
		t.Error("still started after Stop")
	}
	out.Start()
	out.Close()
	if out.IsStarted() {
		t.Error("still started after Close")
	}
}

func TestNewAudioOutputUnknownBackend(t *testing.T) {
	if _, err := NewAudioOutput(-7, SAMPLE_RATE, nil); err == nil {
		t.Fatal("expected error for unknown backend")
	}
}

func TestEngineStartsBackend(t *testing.T) {
	engine := newTestEngine(t)

	engine.Start()
	if !engine.output.IsStarted() {
		t.Error("backend not started with the engine")
	}

	// Stop keeps the device running; only Shutdown releases it
	engine.Stop()
	if !engine.output.IsStarted() {
		t.Error("Stop must not release the backend")
	}

	engine.Shutdown()
	if engine.output.IsStarted() {
		t.Error("backend still started after Shutdown")
	}
}
