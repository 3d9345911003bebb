//go:build !tinygo

package hal

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// HeadlessConfig controls the no-window host runner.
type HeadlessConfig struct {
	Enabled bool
	Hz      int
	Ticks   uint64

	// AutoRoll injects a Space press at this interval (0 disables it).
	AutoRoll time.Duration
}

// RunHeadless runs the app without opening a window.
func RunHeadless(ctx context.Context, hostCfg HostConfig, newApp func(HAL) func() error, cfg HeadlessConfig) error {
	if cfg.Hz <= 0 {
		cfg.Hz = 60
	}

	hostCfg.Silent = true
	h := newHost(hostCfg)
	step := newApp(h)

	d := time.Second / time.Duration(cfg.Hz)
	if d <= 0 {
		return fmt.Errorf("invalid headless hz: %d", cfg.Hz)
	}
	t := time.NewTicker(d)
	defer t.Stop()

	var autoC <-chan time.Time
	if cfg.AutoRoll > 0 {
		auto := time.NewTicker(cfg.AutoRoll)
		defer auto.Stop()
		autoC = auto.C
	}

	var tick uint64
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-autoC:
			h.kbd.inject(KeyEvent{Code: KeySpace, Press: true})
		case <-t.C:
			h.t.step(1)
			if step != nil {
				if err := step(); err != nil {
					if errors.Is(err, ErrQuit) {
						return nil
					}
					return err
				}
			}
			tick++
			if cfg.Ticks > 0 && tick >= cfg.Ticks {
				return nil
			}
		}
	}
}
