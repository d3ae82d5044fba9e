// mixer_track.go - Track data model for the MixDesk audio engine

package main

import (
	"sync/atomic"
)

// Track is one signal path: a sine oscillator, mix controls, an insert effect
// chain and meter outputs. Tracks live in the engine's fixed array; a track's
// index is its identity and is never recycled (tracks are only appended).
//
// Field sharing follows the engine-wide contract: Volume, Pan, Mute, Solo,
// Armed and the effect parameters are written by the control thread and read
// by the render thread with no synchronization. These are naturally-aligned
// scalars, so a stale or torn read costs at most one glitched period. The
// playing flag gates control flow and is atomic. Oscillator phase, filter
// state and meters are written only by the render thread.
type Track struct {
	// Mix controls (control thread writes, render thread reads)
	Name   string
	Volume float32 // 0.0 to 1.0
	Pan    float32 // -1.0 (left) to 1.0 (right)
	Mute   bool
	Solo   bool
	Armed  bool

	// Oscillator (render thread owns phase after creation)
	Frequency float32 // Hz
	phase     float32 // radians, wrapped into [0, 2π)

	playing atomic.Bool

	// Effects chain: fixed storage plus count, mutated only on the control
	// thread. Removal compacts by shifting, so effect indices can move.
	effects     [MAX_EFFECTS_PER_TRACK]Effect
	effectCount int

	// Metering, written every mixed period by the render thread and polled
	// by the UI without atomics. Staleness is accepted.
	PeakLevel [2]float32
	RMSLevel  [2]float32

	// Pre-allocated scratch for one period of pre-mix samples. Keeps the
	// render path allocation-free.
	scratchL [BUFFER_SIZE]float32
	scratchR [BUFFER_SIZE]float32
}

// init resets the track slot to its documented creation state. Names longer
// than MAX_TRACK_NAME are truncated, matching the original fixed-size field.
func (t *Track) init(name string, frequency float32) {
	if len(name) > MAX_TRACK_NAME {
		name = name[:MAX_TRACK_NAME]
	}
	t.Name = name
	t.Volume = DEFAULT_TRACK_VOLUME
	t.Pan = 0.0
	t.Mute = false
	t.Solo = false
	t.Armed = false
	t.Frequency = frequency
	t.phase = 0.0
	t.effectCount = 0
	t.PeakLevel = [2]float32{}
	t.RMSLevel = [2]float32{}
	t.playing.Store(false)
}

// SetPlaying gates the track in or out of the mix. Safe from any thread.
func (t *Track) SetPlaying(playing bool) {
	t.playing.Store(playing)
}

func (t *Track) IsPlaying() bool {
	return t.playing.Load()
}

func (t *Track) EffectCount() int {
	return t.effectCount
}

// Effect returns the effect at index i, or nil if out of range. The pointer
// stays valid until a removal shifts the chain.
func (t *Track) Effect(i int) *Effect {
	if i < 0 || i >= t.effectCount {
		return nil
	}
	return &t.effects[i]
}

// processEffects routes one period of pre-mix samples through the chain in
// list order, in place. Render thread only.
func (t *Track) processEffects(left, right []float32) {
	for i := 0; i < t.effectCount && i < MAX_EFFECTS_PER_TRACK; i++ {
		t.effects[i].process(left, right)
	}
}
