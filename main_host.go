//go:build !tinygo

package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"

	"sparkdice/app"
	"sparkdice/hal"
	"sparkdice/internal/config"
)

func main() {
	var (
		headless   hal.HeadlessConfig
		configPath string
		seed       int64
		listen     string
		prefsPath  string
		assets     string
		ascii      bool
		logLevel   string
		noPrefs    bool
	)
	flag.BoolVar(&headless.Enabled, "headless", false, "Run without a window.")
	flag.IntVar(&headless.Hz, "hz", 60, "Tick rate in headless mode.")
	flag.Uint64Var(&headless.Ticks, "ticks", 0, "Stop after N ticks in headless mode (0 = run forever).")
	flag.DurationVar(&headless.AutoRoll, "auto-roll", 0, "Headless: press Space at this interval (0 = never).")
	flag.StringVar(&configPath, "config", "", "YAML settings file.")
	flag.Int64Var(&seed, "seed", 0, "Random seed (0 = from clock).")
	flag.StringVar(&listen, "listen", "", "Spectator stream address, e.g. 127.0.0.1:8089.")
	flag.StringVar(&prefsPath, "prefs", "", "Preferences database path.")
	flag.BoolVar(&noPrefs, "no-prefs", false, "Do not load or save preferences.")
	flag.StringVar(&assets, "assets", "", "Directory with roll.tea and settle.tea.")
	flag.BoolVar(&ascii, "ascii", false, "Log a text die for every result.")
	flag.StringVar(&logLevel, "log-level", "", "Log level (debug, info, warn, error).")
	flag.Parse()

	settings := config.Default()
	if configPath != "" {
		var err error
		settings, err = config.Load(configPath)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(2)
		}
	}

	// Flags given on the command line win over the file.
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "seed":
			settings.Seed = seed
		case "listen":
			settings.Listen = listen
		case "prefs":
			settings.Prefs = prefsPath
		case "assets":
			settings.Assets = assets
		case "log-level":
			settings.LogLevel = logLevel
		}
	})
	if noPrefs {
		settings.Prefs = ""
	}

	hostCfg := hal.HostConfig{
		Width:    settings.Window.Width,
		Height:   settings.Window.Height,
		Scale:    settings.Window.Scale,
		TPS:      settings.Window.TPS,
		LogLevel: settings.LogLevel,
		LogJSON:  settings.LogJSON,
	}
	appCfg := app.Config{Settings: settings, ASCII: ascii}

	var sys *app.System
	newApp := func(h hal.HAL) func() error {
		sys = app.NewSystem(h, appCfg)
		return sys.Step
	}

	var err error
	if headless.Enabled {
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		err = hal.RunHeadless(ctx, hostCfg, newApp, headless)
		stop()
		if errors.Is(err, context.Canceled) {
			err = nil
		}
	} else {
		err = hal.RunWindow(hostCfg, newApp)
	}

	if sys != nil {
		if cerr := sys.Close(); cerr != nil {
			fmt.Fprintln(os.Stderr, cerr)
		}
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
