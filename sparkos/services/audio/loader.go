package audio

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"sparkdice/hal"
	clientaudio "sparkdice/sparkos/client/audio"
	"sparkdice/sparkos/tea"
)

// ClipNames lists the clips the loader provides.
var ClipNames = []string{clientaudio.ClipRoll, clientaudio.ClipSettle}

// Loader loads clips on a background goroutine. Lookups before a clip is ready
// simply miss; nothing waits on the loader.
type Loader struct {
	mu    sync.Mutex
	clips map[string][]int16
	errs  map[string]error
	done  chan struct{}
}

// StartLoader begins loading every clip in ClipNames. Clips come from
// <dir>/<name>.tea when dir is set, otherwise they are synthesized. All clips
// are converted to rate.
func StartLoader(dir string, rate int, log hal.Logger) *Loader {
	l := &Loader{
		clips: make(map[string][]int16),
		errs:  make(map[string]error),
		done:  make(chan struct{}),
	}
	go l.run(dir, rate, log)
	return l
}

func (l *Loader) run(dir string, rate int, log hal.Logger) {
	defer close(l.done)
	for _, name := range ClipNames {
		samples, err := loadClip(dir, name, rate)
		l.mu.Lock()
		if err != nil {
			l.errs[name] = err
		} else {
			l.clips[name] = samples
		}
		l.mu.Unlock()

		if log == nil {
			continue
		}
		if err != nil {
			log.WriteLineString(fmt.Sprintf("audio: warn: clip %s unavailable: %v", name, err))
		} else {
			log.WriteLineString(fmt.Sprintf("audio: debug: clip %s ready (%d samples)", name, len(samples)))
		}
	}
}

func loadClip(dir, name string, rate int) ([]int16, error) {
	if dir == "" {
		switch name {
		case clientaudio.ClipRoll:
			return SynthRoll(rate), nil
		case clientaudio.ClipSettle:
			return SynthSettle(rate), nil
		default:
			return nil, fmt.Errorf("no built-in clip %q", name)
		}
	}

	path := filepath.Join(dir, name+".tea")
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	clip, err := tea.ReadAll(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return Resample(clip.Samples, clip.SampleRate, rate), nil
}

// Clip returns the samples for name once loaded.
func (l *Loader) Clip(name string) ([]int16, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	s, ok := l.clips[name]
	return s, ok
}

// Err returns the load error for name, if loading failed.
func (l *Loader) Err(name string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.errs[name]
}

// Done is closed when every clip has been attempted.
func (l *Loader) Done() <-chan struct{} { return l.done }
