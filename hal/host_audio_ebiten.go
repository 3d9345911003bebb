//go:build !tinygo && cgo

package hal

import (
	"errors"
	"sync"

	"github.com/hajimehoshi/ebiten/v2/audio"
)

const hostAudioSampleRate = 44100

// hostAudio plays clips through Ebiten's audio package.
//
// Each Play creates a short-lived player from an in-memory buffer, so overlapping
// clips mix naturally and the caller never waits for playback.
type hostAudio struct {
	mu      sync.Mutex
	ctx     *audio.Context
	players []*audio.Player
}

func newHostAudio() Audio {
	return &hostAudio{}
}

func (a *hostAudio) SampleRate() int { return hostAudioSampleRate }

func (a *hostAudio) Play(samples []int16, volume float64) error {
	if len(samples) == 0 {
		return errors.New("host audio: empty clip")
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	if a.ctx == nil {
		a.ctx = audio.CurrentContext()
		if a.ctx == nil {
			a.ctx = audio.NewContext(hostAudioSampleRate)
		}
	}

	// Ebiten audio expects 16-bit little-endian stereo.
	buf := make([]byte, len(samples)*4)
	for i, s := range samples {
		j := i * 4
		buf[j+0] = byte(s)
		buf[j+1] = byte(s >> 8)
		buf[j+2] = byte(s)
		buf[j+3] = byte(s >> 8)
	}

	p := a.ctx.NewPlayerFromBytes(buf)
	if volume < 0 {
		volume = 0
	}
	if volume > 1 {
		volume = 1
	}
	p.SetVolume(volume)
	p.Play()

	a.reapLocked()
	a.players = append(a.players, p)
	return nil
}

// reapLocked closes finished players so their buffers can be collected.
func (a *hostAudio) reapLocked() {
	live := a.players[:0]
	for _, p := range a.players {
		if p.IsPlaying() {
			live = append(live, p)
			continue
		}
		_ = p.Close()
	}
	for i := len(live); i < len(a.players); i++ {
		a.players[i] = nil
	}
	a.players = live
}
