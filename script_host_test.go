// script_host_test.go - Lua session scripting tests

package main

import (
	"testing"
)

func TestScriptBuildsSession(t *testing.T) {
	engine := newTestEngine(t)
	host := NewScriptHost(engine)
	defer host.Close()

	err := host.RunString(`
		bass = add_track("Bass", 110)
		lead = add_track("Lead", 440)

		add_effect(bass, "lowpass")
		set_effect_param(bass, 0, 0, 500)
		set_volume(bass, 0.9)
		set_pan(lead, 0.5)
		set_mute(lead, true)
		set_track_playing(bass, true)
		set_master_volume(0.8)
	`)
	if err != nil {
		t.Fatalf("script failed: %v", err)
	}

	if engine.TrackCount() != 2 {
		t.Fatalf("track count = %d, want 2", engine.TrackCount())
	}

	bass := engine.Track(0)
	if bass.Name != "Bass" || bass.Frequency != 110.0 {
		t.Errorf("track 0 = %q/%v, want Bass/110", bass.Name, bass.Frequency)
	}
	if bass.EffectCount() != 1 || bass.Effect(0).Type != EFFECT_LOWPASS {
		t.Fatalf("bass chain = %d effects, want 1 lowpass", bass.EffectCount())
	}
	if bass.Effect(0).Filter.Cutoff != 500.0 {
		t.Errorf("cutoff = %v, want 500", bass.Effect(0).Filter.Cutoff)
	}
	if bass.Volume != 0.9 {
		t.Errorf("bass volume = %v, want 0.9", bass.Volume)
	}
	if !bass.IsPlaying() {
		t.Error("bass should be playing")
	}

	lead := engine.Track(1)
	if lead.Pan != 0.5 || !lead.Mute {
		t.Errorf("lead pan/mute = %v/%v, want 0.5/true", lead.Pan, lead.Mute)
	}
	if engine.MasterVolume != 0.8 {
		t.Errorf("master volume = %v, want 0.8", engine.MasterVolume)
	}
}

func TestScriptTransport(t *testing.T) {
	engine := newTestEngine(t)
	host := NewScriptHost(engine)
	defer host.Close()

	if err := host.RunString(`play()`); err != nil {
		t.Fatalf("play: %v", err)
	}
	if !engine.IsPlaying() {
		t.Error("engine not playing after play()")
	}
	if err := host.RunString(`stop()`); err != nil {
		t.Fatalf("stop: %v", err)
	}
	if engine.IsPlaying() {
		t.Error("engine still playing after stop()")
	}
}

func TestScriptUnknownEffectKind(t *testing.T) {
	engine := newTestEngine(t)
	host := NewScriptHost(engine)
	defer host.Close()

	engine.AddTrack("t", 220.0)
	if err := host.RunString(`add_effect(0, "chorus")`); err == nil {
		t.Fatal("expected an error for an unknown effect kind")
	}
	if engine.Track(0).EffectCount() != 0 {
		t.Error("failed add_effect mutated the chain")
	}
}

func TestScriptCapacitySentinel(t *testing.T) {
	engine := newTestEngine(t)
	host := NewScriptHost(engine)
	defer host.Close()

	err := host.RunString(`
		for i = 1, 16 do
			add_track("t" .. i, 100 + i)
		end
		overflow = add_track("overflow", 999)
	`)
	if err != nil {
		t.Fatalf("script failed: %v", err)
	}

	if engine.TrackCount() != MAX_TRACKS {
		t.Errorf("track count = %d, want %d", engine.TrackCount(), MAX_TRACKS)
	}

	// The sentinel surfaces into Lua as -1
	if err := host.RunString(`assert(overflow == -1, "expected -1 sentinel")`); err != nil {
		t.Errorf("sentinel not visible to script: %v", err)
	}
}
