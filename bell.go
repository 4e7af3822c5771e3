// bell.go - the audible bell (SPEC_FULL.md §2 Domain Stack).
//
// Grounded on audio_backend_oto.go's oto.Context/oto.Player bring-up
// and Read-callback sample-generation pattern; BellPlayer generates a
// short synthesized tone instead of sourcing from a SoundChip ring
// buffer, since the bell has no upstream audio engine to pull from.

package chordwm

import (
	"math"
	"sync"
	"sync/atomic"

	"github.com/ebitengine/oto/v3"
)

const bellSampleRate = 44100

// BellPlayer synthesizes a short tone each time Ring is called.
// Nothing in the core calls Ring: window kills and renderer denial do
// not ring the bell.
type BellPlayer struct {
	ctx    *oto.Context
	player *oto.Player

	mu       sync.Mutex
	phase    float64
	freq     float64
	remain   atomic.Int64 // samples left to emit this ring
}

// NewBellPlayer brings up a mono float32 oto context. Callers without
// an audio device available should treat a non-nil error as "bell
// disabled" rather than fatal.
func NewBellPlayer() (*BellPlayer, error) {
	op := &oto.NewContextOptions{
		SampleRate:   bellSampleRate,
		ChannelCount: 1,
		Format:       oto.FormatFloat32LE,
		BufferSize:   0,
	}
	ctx, ready, err := oto.NewContext(op)
	if err != nil {
		return nil, newError("NewBellPlayer", "oto context unavailable", err)
	}
	<-ready

	b := &BellPlayer{ctx: ctx, freq: 880}
	b.player = ctx.NewPlayer(b)
	return b, nil
}

// Read implements io.Reader for oto.Player: it emits a sine tone of
// constant amplitude (it does not decay) for Ring's configured
// duration, then silence.
func (b *BellPlayer) Read(p []byte) (int, error) {
	n := len(p) / 4
	samples := make([]float32, n)

	b.mu.Lock()
	freq := b.freq
	phase := b.phase
	remain := b.remain.Load()
	for i := 0; i < n; i++ {
		if remain <= 0 {
			samples[i] = 0
			continue
		}
		samples[i] = float32(0.2 * math.Sin(phase))
		phase += 2 * math.Pi * freq / bellSampleRate
		remain--
	}
	b.phase = math.Mod(phase, 2*math.Pi)
	b.remain.Store(remain)
	b.mu.Unlock()

	for i, s := range samples {
		bits := math.Float32bits(s)
		p[i*4+0] = byte(bits)
		p[i*4+1] = byte(bits >> 8)
		p[i*4+2] = byte(bits >> 16)
		p[i*4+3] = byte(bits >> 24)
	}
	return n * 4, nil
}

// Ring starts (or restarts) a durationMS tone at freqHz.
func (b *BellPlayer) Ring(freqHz float64, durationMS int) {
	b.mu.Lock()
	b.freq = freqHz
	b.mu.Unlock()
	b.remain.Store(int64(bellSampleRate * durationMS / 1000))
	if !b.player.IsPlaying() {
		b.player.Play()
	}
}

func (b *BellPlayer) Close() {
	if b.player != nil {
		b.player.Close()
	}
}
