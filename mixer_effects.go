// mixer_effects.go - Per-track insert effects for the MixDesk audio engine

package main

// EffectType discriminates the active parameter payload of an Effect.
// Immutable after the effect is created.
type EffectType int

const (
	EFFECT_NONE EffectType = iota
	EFFECT_GAIN
	EFFECT_LOWPASS
	EFFECT_HIGHPASS
	EFFECT_DELAY
	EFFECT_REVERB
)

func (t EffectType) String() string {
	switch t {
	case EFFECT_GAIN:
		return "gain"
	case EFFECT_LOWPASS:
		return "lowpass"
	case EFFECT_HIGHPASS:
		return "highpass"
	case EFFECT_DELAY:
		return "delay"
	case EFFECT_REVERB:
		return "reverb"
	}
	return "none"
}

// ParseEffectType maps the names used by session scripts and the console
// back to a kind tag.
func ParseEffectType(name string) (EffectType, bool) {
	switch name {
	case "gain":
		return EFFECT_GAIN, true
	case "lowpass":
		return EFFECT_LOWPASS, true
	case "highpass":
		return EFFECT_HIGHPASS, true
	case "delay":
		return EFFECT_DELAY, true
	case "reverb":
		return EFFECT_REVERB, true
	}
	return EFFECT_NONE, false
}

type GainParams struct {
	Gain float32
}

type FilterParams struct {
	Cutoff    float32
	Resonance float32
}

type DelayParams struct {
	TimeMS   float32
	Feedback float32
	Mix      float32
}

type ReverbParams struct {
	RoomSize float32
	Damping  float32
	Mix      float32
}

// Effect is a tagged variant: Type selects which parameter block is live, and
// every access path (processing, defaults, SetParam) dispatches on Type so a
// payload inconsistent with the tag is never touched.
//
// The one-pole filter memory lives inside the effect instance, per channel,
// populated at creation time. It is owned exclusively by the render thread;
// the control thread must never read or write it.
type Effect struct {
	Type    EffectType
	Enabled bool

	Gain   GainParams
	Filter FilterParams
	Delay  DelayParams
	Reverb ReverbParams

	stateL float32
	stateR float32
}

// setDefaults installs the per-kind default parameters and clears any
// previous filter memory. Called when the effect slot is (re)assigned.
func (e *Effect) setDefaults() {
	e.Enabled = true
	e.stateL = 0
	e.stateR = 0

	switch e.Type {
	case EFFECT_GAIN:
		e.Gain = GainParams{Gain: 1.0}
	case EFFECT_LOWPASS, EFFECT_HIGHPASS:
		e.Filter = FilterParams{Cutoff: 1000.0, Resonance: 1.0}
	case EFFECT_DELAY:
		e.Delay = DelayParams{TimeMS: 250.0, Feedback: 0.3, Mix: 0.5}
	case EFFECT_REVERB:
		e.Reverb = ReverbParams{RoomSize: 0.5, Damping: 0.5, Mix: 0.3}
	}
}

// SetParam assigns the parameter selected by (Type, paramIndex). An index
// with no meaning for the effect's kind is a silent no-op; there is no error
// path here and callers must not expect one.
func (e *Effect) SetParam(paramIndex int, value float32) {
	switch e.Type {
	case EFFECT_GAIN:
		if paramIndex == 0 {
			e.Gain.Gain = value
		}
	case EFFECT_LOWPASS, EFFECT_HIGHPASS:
		switch paramIndex {
		case 0:
			e.Filter.Cutoff = value
		case 1:
			e.Filter.Resonance = value
		}
	case EFFECT_DELAY:
		switch paramIndex {
		case 0:
			e.Delay.TimeMS = value
		case 1:
			e.Delay.Feedback = value
		case 2:
			e.Delay.Mix = value
		}
	case EFFECT_REVERB:
		switch paramIndex {
		case 0:
			e.Reverb.RoomSize = value
		case 1:
			e.Reverb.Damping = value
		case 2:
			e.Reverb.Mix = value
		}
	}
}

func (e *Effect) applyGain(sample float32) float32 {
	if !e.Enabled {
		return sample
	}
	return sample * e.Gain.Gain
}

// applyLowpass runs a one-pole lowpass: alpha = cutoff/(cutoff+1).
func (e *Effect) applyLowpass(sample float32, state *float32) float32 {
	if !e.Enabled {
		return sample
	}
	cutoff := e.Filter.Cutoff
	alpha := cutoff / (cutoff + 1.0)
	*state = alpha*sample + (1.0-alpha)*(*state)
	return *state
}

// applyHighpass runs a one-pole highpass: alpha = 1/(cutoff+1).
func (e *Effect) applyHighpass(sample float32, state *float32) float32 {
	if !e.Enabled {
		return sample
	}
	alpha := float32(1.0) / (e.Filter.Cutoff + 1.0)
	output := sample - *state
	*state = *state + alpha*output
	return output
}

// process transforms one period of pre-mix samples in place. Runs on the
// render thread; must not allocate or block. Disabled effects still dispatch
// here and pass samples through untouched.
func (e *Effect) process(left, right []float32) {
	switch e.Type {
	case EFFECT_GAIN:
		for i := range left {
			left[i] = e.applyGain(left[i])
			right[i] = e.applyGain(right[i])
		}

	case EFFECT_LOWPASS:
		for i := range left {
			left[i] = e.applyLowpass(left[i], &e.stateL)
			right[i] = e.applyLowpass(right[i], &e.stateR)
		}

	case EFFECT_HIGHPASS:
		for i := range left {
			left[i] = e.applyHighpass(left[i], &e.stateL)
			right[i] = e.applyHighpass(right[i], &e.stateR)
		}

	case EFFECT_DELAY, EFFECT_REVERB:
		// Stubs: parameters are stored and editable but audio passes through
		// unchanged. A real implementation needs a circular buffer sized for
		// the maximum delay time, pre-allocated when the effect is created,
		// so the render path stays allocation-free.

	default:
		// Unknown kinds must never miscompute audio; pass through.
	}
}
