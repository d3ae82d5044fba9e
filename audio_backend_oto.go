//go:build !headless

// audio_backend_oto.go - OTO v3 audio output implementation

package main

import (
	"sync"
	"sync/atomic"
	"time"
	"unsafe"

	"github.com/ebitengine/oto/v3"
)

type OtoPlayer struct {
	ctx       *oto.Context
	player    *oto.Player
	engine    atomic.Pointer[MixEngine] // Atomic for lock-free Read()
	sampleBuf []float32                 // Pre-allocated sample buffer
	started   bool
	mutex     sync.Mutex // Only for setup/control operations
}

func NewOtoPlayer(sampleRate int) (*OtoPlayer, error) {
	op := &oto.NewContextOptions{
		SampleRate:   sampleRate,
		ChannelCount: CHANNELS,
		Format:       oto.FormatFloat32LE,
		BufferSize:   time.Duration(BUFFER_SIZE) * time.Second / time.Duration(sampleRate),
	}

	ctx, ready, err := oto.NewContext(op)
	if err != nil {
		return nil, err
	}
	<-ready

	return &OtoPlayer{
		ctx:     ctx,
		started: false,
	}, nil
}

func (op *OtoPlayer) SetupPlayer(engine *MixEngine) {
	op.mutex.Lock()
	defer op.mutex.Unlock()

	op.engine.Store(engine)
	op.player = op.ctx.NewPlayer(op)
	// Pre-allocate for typical oto read sizes (4096 floats = 2048 frames)
	op.sampleBuf = make([]float32, 4096)
}

// Read is oto's pull path and runs on the render context. It renders in
// BUFFER_SIZE-frame periods so the engine sees its fixed period length
// regardless of how much oto asks for.
func (op *OtoPlayer) Read(p []byte) (n int, err error) {
	// Load engine pointer atomically - no lock needed for the hot path
	engine := op.engine.Load()
	if engine == nil {
		for i := range p {
			p[i] = 0
		}
		return len(p), nil
	}

	// Only whole float32 samples are rendered; any trailing partial sample
	// in p is zeroed rather than read past the sample buffer.
	numSamples := len(p) / 4
	if numSamples == 0 {
		for i := range p {
			p[i] = 0
		}
		return len(p), nil
	}

	// Ensure our pre-allocated buffer is large enough
	// This should rarely happen after initial SetupPlayer
	if len(op.sampleBuf) < numSamples {
		op.sampleBuf = make([]float32, numSamples)
	}
	samples := op.sampleBuf[:numSamples]

	frames := numSamples / CHANNELS
	for f := 0; f < frames; f += BUFFER_SIZE {
		chunk := frames - f
		if chunk > BUFFER_SIZE {
			chunk = BUFFER_SIZE
		}
		engine.RenderPeriod(samples[f*CHANNELS:(f+chunk)*CHANNELS], chunk)
	}
	clear(samples[frames*CHANNELS:])

	byteLen := numSamples * 4
	copy(p, (*[1 << 30]byte)(unsafe.Pointer(&samples[0]))[:byteLen])
	for i := byteLen; i < len(p); i++ {
		p[i] = 0
	}
	return len(p), nil
}

func (op *OtoPlayer) Start() {
	op.mutex.Lock()
	defer op.mutex.Unlock()

	if !op.started && op.player != nil {
		op.player.Play()
		op.started = true
	}
}

func (op *OtoPlayer) Stop() {
	op.mutex.Lock()
	defer op.mutex.Unlock()

	if op.started && op.player != nil {
		op.player.Pause()
		op.started = false
	}
}

func (op *OtoPlayer) Close() {
	op.Stop()
	op.mutex.Lock()
	defer op.mutex.Unlock()

	if op.player != nil {
		op.player.Close()
		op.player = nil
	}
}

func (op *OtoPlayer) IsStarted() bool {
	op.mutex.Lock()
	defer op.mutex.Unlock()
	return op.started
}
