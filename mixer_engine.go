// mixer_engine.go - Multi-track mixing and metering engine for MixDesk

package main

import (
	"log"
	"math"
	"os"
	"sync/atomic"
)

// MixEngine owns the track array and the real-time render path. Exactly two
// contexts touch it: the control/UI thread through the mutation API, and the
// audio backend's render context through RenderPeriod. There is no lock
// anywhere between them; see the per-field comments on Track for the sharing
// contract. Control-surface rejections are logged and leave state untouched.
type MixEngine struct {
	tracks     [MAX_TRACKS]Track
	trackCount int

	// Master section. MasterVolume is a plain scalar under the same
	// torn-read tolerance as track volume; the meters are written by the
	// render thread each period.
	MasterVolume float32
	MasterPeak   [2]float32
	MasterRMS    [2]float32

	playing     atomic.Bool
	initialized atomic.Bool

	output AudioOutput
	logger *log.Logger
}

// NewMixEngine creates the engine and brings up the requested audio backend.
// On backend failure no engine is returned and nothing is left running.
func NewMixEngine(backend int) (*MixEngine, error) {
	engine := &MixEngine{
		MasterVolume: DEFAULT_MASTER_VOLUME,
		logger:       log.New(os.Stderr, "[mixdesk] ", log.LstdFlags),
	}

	output, err := NewAudioOutput(backend, SAMPLE_RATE, engine)
	if err != nil {
		return nil, err
	}
	engine.output = output
	engine.initialized.Store(true)

	engine.logger.Printf("Audio engine initialized: %d Hz, %d channels, %d frame periods",
		SAMPLE_RATE, CHANNELS, BUFFER_SIZE)
	return engine, nil
}

// SetLogger replaces the engine's log handle. Call before the backend starts;
// the render path never logs, so this only affects the control surface.
func (e *MixEngine) SetLogger(logger *log.Logger) {
	e.logger = logger
}

// Start begins playback: the engine flag flips first so the very next period
// produces audio, then the backend is started if it is not already running.
func (e *MixEngine) Start() {
	if !e.initialized.Load() {
		return
	}
	e.playing.Store(true)
	if !e.output.IsStarted() {
		e.output.Start()
	}
}

// Stop silences the engine without releasing the device. The backend keeps
// pulling periods and gets zeros from the fast inactive path.
func (e *MixEngine) Stop() {
	e.playing.Store(false)
}

// Shutdown releases the audio device. Idempotent, and safe to call on an
// engine whose backend failed to start: the initialized flag reflects how far
// bring-up got.
func (e *MixEngine) Shutdown() {
	if !e.initialized.Load() {
		return
	}
	e.logger.Printf("Shutting down audio engine...")
	e.playing.Store(false)
	e.output.Stop()
	e.output.Close()
	e.initialized.Store(false)
	e.logger.Printf("Audio engine shut down")
}

func (e *MixEngine) IsPlaying() bool {
	return e.playing.Load()
}

func (e *MixEngine) IsInitialized() bool {
	return e.initialized.Load()
}

// AddTrack appends a track with the documented defaults and returns its
// index, or -1 when the engine is full. Control thread only.
func (e *MixEngine) AddTrack(name string, frequency float32) int {
	if e.trackCount >= MAX_TRACKS {
		e.logger.Printf("Cannot add track: maximum tracks reached (%d)", MAX_TRACKS)
		return -1
	}

	index := e.trackCount
	e.tracks[index].init(name, frequency)
	e.trackCount++

	e.logger.Printf("Added track %d: %s (%.1f Hz)", index, e.tracks[index].Name, frequency)
	return index
}

func (e *MixEngine) TrackCount() int {
	return e.trackCount
}

// Track returns the track at index i, or nil if out of range. Track pointers
// stay valid for the life of the engine.
func (e *MixEngine) Track(i int) *Track {
	if i < 0 || i >= e.trackCount || i >= MAX_TRACKS {
		return nil
	}
	return &e.tracks[i]
}

// SetMasterVolume clamps to [0,1]. Clamping happens here on the control
// thread so the render path can trust the range.
func (e *MixEngine) SetMasterVolume(volume float32) {
	e.MasterVolume = clampUnit(volume)
}

// SetTrackVolume clamps to [0,1]; out-of-range track indices are logged no-ops.
func (e *MixEngine) SetTrackVolume(track int, volume float32) {
	t := e.Track(track)
	if t == nil {
		e.logger.Printf("Invalid track index: %d", track)
		return
	}
	t.Volume = clampUnit(volume)
}

// SetTrackPan clamps to [-1,1]; out-of-range track indices are logged no-ops.
func (e *MixEngine) SetTrackPan(track int, pan float32) {
	t := e.Track(track)
	if t == nil {
		e.logger.Printf("Invalid track index: %d", track)
		return
	}
	if pan < -1.0 {
		pan = -1.0
	} else if pan > 1.0 {
		pan = 1.0
	}
	t.Pan = pan
}

// AddEffect appends a default-initialized effect of the given kind to the
// track's chain. Full chains and bad track indices are logged no-ops.
func (e *MixEngine) AddEffect(track int, kind EffectType) {
	t := e.Track(track)
	if t == nil {
		e.logger.Printf("Invalid track index: %d", track)
		return
	}
	if t.effectCount >= MAX_EFFECTS_PER_TRACK {
		e.logger.Printf("Cannot add effect: maximum effects reached (%d)", MAX_EFFECTS_PER_TRACK)
		return
	}

	effect := &t.effects[t.effectCount]
	effect.Type = kind
	effect.setDefaults()
	t.effectCount++

	e.logger.Printf("Added %s effect to track '%s'", kind, t.Name)
}

// RemoveEffect deletes by index and compacts the chain by shifting later
// effects down. Indices held by callers may now refer to different effects.
func (e *MixEngine) RemoveEffect(track int, effectIndex int) {
	t := e.Track(track)
	if t == nil {
		e.logger.Printf("Invalid track index: %d", track)
		return
	}
	if effectIndex < 0 || effectIndex >= t.effectCount {
		e.logger.Printf("Invalid effect index: %d", effectIndex)
		return
	}

	for i := effectIndex; i < t.effectCount-1; i++ {
		t.effects[i] = t.effects[i+1]
	}
	t.effectCount--

	e.logger.Printf("Removed effect %d from track '%s'", effectIndex, t.Name)
}

// ToggleEffect flips the enabled flag of the effect at the given index.
func (e *MixEngine) ToggleEffect(track int, effectIndex int) {
	t := e.Track(track)
	if t == nil {
		e.logger.Printf("Invalid track index: %d", track)
		return
	}
	if effectIndex < 0 || effectIndex >= t.effectCount {
		e.logger.Printf("Invalid effect index: %d", effectIndex)
		return
	}

	t.effects[effectIndex].Enabled = !t.effects[effectIndex].Enabled
}

// SetEffectParam dispatches through the effect's (kind, paramIndex) table.
// Bad track/effect indices are logged no-ops; a paramIndex with no meaning
// for the kind is a silent no-op per the Effect.SetParam contract.
func (e *MixEngine) SetEffectParam(track int, effectIndex int, paramIndex int, value float32) {
	t := e.Track(track)
	if t == nil {
		e.logger.Printf("Invalid track index: %d", track)
		return
	}
	if effectIndex < 0 || effectIndex >= t.effectCount {
		e.logger.Printf("Invalid effect index: %d", effectIndex)
		return
	}

	t.effects[effectIndex].SetParam(paramIndex, value)
}

// RenderPeriod is the real-time entry point: it fills one period of
// interleaved stereo float32 into out. Invoked by the audio backend at a
// fixed cadence; must complete within the period budget with bounded work.
// No allocation, no locks, no logging, no syscalls on any path below.
func (e *MixEngine) RenderPeriod(out []float32, frameCount int) {
	// Defensive bounds: never iterate beyond the scratch capacity or the
	// caller's buffer, whatever state the counters are in.
	if frameCount > BUFFER_SIZE {
		frameCount = BUFFER_SIZE
	}
	if frameCount > len(out)/CHANNELS {
		frameCount = len(out) / CHANNELS
	}
	if frameCount <= 0 {
		return
	}
	buf := out[:frameCount*CHANNELS]

	// Fast inactive path.
	if !e.playing.Load() {
		clear(buf)
		return
	}

	clear(buf)
	e.MasterPeak[0] = 0.0
	e.MasterPeak[1] = 0.0
	e.MasterRMS[0] = 0.0
	e.MasterRMS[1] = 0.0

	trackCount := e.trackCount
	if trackCount > MAX_TRACKS {
		trackCount = MAX_TRACKS
	}

	anySolo := false
	for t := 0; t < trackCount; t++ {
		if e.tracks[t].Solo {
			anySolo = true
			break
		}
	}

	for t := 0; t < trackCount; t++ {
		track := &e.tracks[t]

		// Mute always wins for the track itself; solo on any track excludes
		// every non-soloed track. Skipped tracks keep their previous meters.
		if track.Mute || !track.playing.Load() {
			continue
		}
		if anySolo && !track.Solo {
			continue
		}

		track.PeakLevel[0] = 0.0
		track.PeakLevel[1] = 0.0
		track.RMSLevel[0] = 0.0
		track.RMSLevel[1] = 0.0

		left := track.scratchL[:frameCount]
		right := track.scratchR[:frameCount]

		for i := 0; i < frameCount; i++ {
			sample := float32(math.Sin(float64(track.phase))) * track.Volume * MIX_HEADROOM
			track.phase += 2.0 * math.Pi * track.Frequency / SAMPLE_RATE
			if track.phase > 2.0*math.Pi {
				track.phase -= 2.0 * math.Pi
			}
			// A single subtraction only covers increments below one full
			// turn. Negative or super-rate frequencies step further, so
			// fold the remainder to keep phase bounded.
			if track.phase > 2.0*math.Pi || track.phase < 0 {
				track.phase = wrapPhase(track.phase)
			}

			// Constant-power pan, quarter-circle law. Preserved verbatim:
			// pan=-1 → gains (1,0), pan=0 → (~0.707,~0.707), pan=+1 → (0,1).
			pan := track.Pan
			leftGain := float32(math.Cos(float64(pan+1.0) * math.Pi / 4.0))
			rightGain := float32(math.Sin(float64(pan+1.0) * math.Pi / 4.0))

			left[i] = sample * leftGain
			right[i] = sample * rightGain
		}

		if track.effectCount > 0 {
			track.processEffects(left, right)
		}

		for i := 0; i < frameCount; i++ {
			buf[i*2+0] += left[i]
			buf[i*2+1] += right[i]

			absLeft := float32(math.Abs(float64(left[i])))
			absRight := float32(math.Abs(float64(right[i])))
			if absLeft > track.PeakLevel[0] {
				track.PeakLevel[0] = absLeft
			}
			if absRight > track.PeakLevel[1] {
				track.PeakLevel[1] = absRight
			}
			track.RMSLevel[0] += left[i] * left[i]
			track.RMSLevel[1] += right[i] * right[i]
		}

		track.RMSLevel[0] = float32(math.Sqrt(float64(track.RMSLevel[0] / float32(frameCount))))
		track.RMSLevel[1] = float32(math.Sqrt(float64(track.RMSLevel[1] / float32(frameCount))))
	}

	// Master volume scaling, then master meters over the post-scaling buffer.
	masterVolume := e.MasterVolume
	for i := 0; i < frameCount; i++ {
		buf[i*2+0] *= masterVolume
		buf[i*2+1] *= masterVolume

		absLeft := float32(math.Abs(float64(buf[i*2+0])))
		absRight := float32(math.Abs(float64(buf[i*2+1])))
		if absLeft > e.MasterPeak[0] {
			e.MasterPeak[0] = absLeft
		}
		if absRight > e.MasterPeak[1] {
			e.MasterPeak[1] = absRight
		}
		e.MasterRMS[0] += buf[i*2+0] * buf[i*2+0]
		e.MasterRMS[1] += buf[i*2+1] * buf[i*2+1]
	}

	e.MasterRMS[0] = float32(math.Sqrt(float64(e.MasterRMS[0] / float32(frameCount))))
	e.MasterRMS[1] = float32(math.Sqrt(float64(e.MasterRMS[1] / float32(frameCount))))
}

// wrapPhase folds an arbitrary oscillator phase into [0, 2π).
func wrapPhase(phase float32) float32 {
	phase = float32(math.Mod(float64(phase), 2.0*math.Pi))
	if phase < 0 {
		phase += 2.0 * math.Pi
	}
	return phase
}

func clampUnit(v float32) float32 {
	if v < 0.0 {
		return 0.0
	}
	if v > 1.0 {
		return 1.0
	}
	return v
}
