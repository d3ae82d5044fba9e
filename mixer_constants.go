// mixer_constants.go - Shared constants for the MixDesk audio engine

package main

const (
	SAMPLE_RATE = 48000 // Fixed output rate in Hz
	CHANNELS    = 2     // Stereo output
	BUFFER_SIZE = 512   // Frames per render period (~10.7ms at 48kHz)
)

const (
	MAX_TRACKS            = 16
	MAX_EFFECTS_PER_TRACK = 8
	MAX_TRACK_NAME        = 63 // Longer names are truncated, not rejected
)

const (
	// Fixed synthesis headroom so many full-volume tracks can sum without
	// clipping. Not user-configurable.
	MIX_HEADROOM = 0.3

	DEFAULT_TRACK_VOLUME  = 0.75
	DEFAULT_MASTER_VOLUME = 0.75
)

// Audio output backends accepted by NewMixEngine / NewAudioOutput.
const (
	AUDIO_BACKEND_NONE = iota // No device; periods are pulled by the caller
	AUDIO_BACKEND_OTO
	AUDIO_BACKEND_ALSA
)
