// Package app wires the HAL to the kernel, its services and the dice task.
package app

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"sync/atomic"
	"time"

	"sparkdice/hal"
	"sparkdice/internal/buildinfo"
	"sparkdice/internal/config"
	"sparkdice/sparkos/dice"
	"sparkdice/sparkos/kernel"
	"sparkdice/sparkos/prefs"
	audiosvc "sparkdice/sparkos/services/audio"
	"sparkdice/sparkos/services/logger"
	prefsvc "sparkdice/sparkos/services/prefs"
	"sparkdice/sparkos/services/stream"
	"sparkdice/sparkos/tasks/roller"
)

// stepBudget bounds the task steps run per host frame.
const stepBudget = 256

type Config struct {
	Settings config.Config

	// ASCII logs a text die for every result.
	ASCII bool
}

// System is one running instance: kernel, services and host resources.
type System struct {
	h hal.HAL
	k *kernel.Kernel

	store  *prefs.Store
	stream *stream.Server
	roller *roller.Task

	quit   atomic.Bool
	closed bool
}

// New initializes the system and returns its step function.
func New(h hal.HAL, cfg Config) func() error {
	return NewSystem(h, cfg).Step
}

func NewSystem(h hal.HAL, cfg Config) *System {
	s := &System{h: h, k: kernel.New()}
	installPanicHandler(h)

	set := cfg.Settings
	log := h.Logger()
	log.WriteLineString("spark dice " + buildinfo.String())

	snap := prefs.Snapshot{Theme: set.Theme, Sound: set.Sound}
	if set.Prefs != "" {
		store, err := prefs.Open(set.Prefs)
		if err != nil {
			log.WriteLineString(fmt.Sprintf("prefs: warn: %v; using defaults", err))
		} else {
			store.OnError = func(key string, err error) {
				log.WriteLineString(fmt.Sprintf("prefs: error: write %s: %v", key, err))
			}
			s.store = store
			loaded, err := store.Load(snap)
			if err != nil {
				log.WriteLineString(fmt.Sprintf("prefs: warn: %v", err))
			}
			snap = loaded
		}
	}

	seed := set.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	rnd := rand.New(rand.NewSource(seed))

	k := s.k
	logEP := k.NewEndpoint(kernel.RightSend | kernel.RightRecv)
	audioEP := k.NewEndpoint(kernel.RightSend | kernel.RightRecv)
	prefsEP := k.NewEndpoint(kernel.RightSend | kernel.RightRecv)
	logCap := logEP.Restrict(kernel.RightSend)

	k.AddTask(logger.New(log, logEP.Restrict(kernel.RightRecv)))

	rate := 44100
	if a := h.Audio(); a != nil {
		rate = a.SampleRate()
	}
	clips := audiosvc.StartLoader(set.Assets, rate, log)
	k.AddTask(audiosvc.New(audioEP.Restrict(kernel.RightRecv), logCap, h.Audio(), clips, snap.Sound))

	if s.store != nil {
		k.AddTask(prefsvc.New(prefsEP.Restrict(kernel.RightRecv), logCap, s.store))
	}

	var streamCap kernel.Capability
	if set.Listen != "" {
		hub := stream.NewHub()
		srv := stream.NewServer(hub)
		if err := srv.Start(set.Listen); err != nil {
			log.WriteLineString(fmt.Sprintf("stream: warn: %v", err))
		} else {
			s.stream = srv
			streamEP := k.NewEndpoint(kernel.RightSend | kernel.RightRecv)
			k.AddTask(stream.NewService(streamEP.Restrict(kernel.RightRecv), hub))
			streamCap = streamEP.Restrict(kernel.RightSend)
			log.WriteLineString("stream: listening on " + srv.Addr())
		}
	}

	var prefsCap kernel.Capability
	if s.store != nil {
		prefsCap = prefsEP.Restrict(kernel.RightSend)
	}

	tun := set.Tuning
	if tun == (dice.Tuning{}) {
		tun = dice.DefaultTuning()
	}
	s.roller = roller.New(h.Display(), h.Input(), roller.Config{
		Tuning:      tun,
		Rand:        rnd,
		Theme:       snap.Theme,
		Sound:       snap.Sound,
		Rolls:       snap.Rolls,
		LastResult:  snap.LastResult,
		ASCII:       cfg.ASCII,
		TextureSize: set.TextureSize,
		LogCap:      logCap,
		AudioCap:    audioEP.Restrict(kernel.RightSend),
		PrefsCap:    prefsCap,
		StreamCap:   streamCap,
		Quit:        func() { s.quit.Store(true) },
	})
	k.AddTask(s.roller)

	return s
}

// Roller exposes the dice task.
func (s *System) Roller() *roller.Task { return s.roller }

// Step advances the kernel clock to the newest HAL tick and runs the tasks.
// It returns hal.ErrQuit after the user asked to leave.
func (s *System) Step() error {
	if s.closed {
		return hal.ErrQuit
	}
	if ht := s.h.Time(); ht != nil {
		if ch := ht.Ticks(); ch != nil {
		drain:
			for {
				select {
				case seq := <-ch:
					s.k.TickTo(seq)
				default:
					break drain
				}
			}
		}
	}

	if !kernel.InPanicMode() {
		s.k.RunUntilIdle(stepBudget)
	}

	if s.quit.Load() {
		s.Close()
		return hal.ErrQuit
	}
	return nil
}

// Close stops the stream server and flushes and closes the preference store.
func (s *System) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true

	var errs []error
	if s.stream != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		errs = append(errs, s.stream.Shutdown(ctx))
		cancel()
	}
	if s.store != nil {
		errs = append(errs, s.store.Close())
	}
	return errors.Join(errs...)
}
