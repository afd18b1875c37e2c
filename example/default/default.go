package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/go-echarts/statsview"
	"github.com/go-echarts/statsview/viewer"
	"github.com/oomph-ac/racesim"
	"github.com/oomph-ac/racesim/settings"
	"github.com/sirupsen/logrus"
)

var (
	settingsPath string
	policyName   string
	debug        bool
)

// The following program runs a number of racing environments headless with a built-in policy and
// reports episode statistics.
func main() {
	flag.StringVar(&settingsPath, "settings", "settings.toml", "path of the settings file, created with defaults if missing")
	flag.StringVar(&policyName, "policy", "follow", "policy driving the cars: follow, random or neutral")
	flag.BoolVar(&debug, "debug", false, "log every finished episode")
	flag.Parse()

	logger := logrus.New()
	logger.SetFormatter(&logrus.TextFormatter{
		ForceColors:     false,
		TimestampFormat: "2006-01-02 15:04:05",
		FullTimestamp:   true,
	})
	if debug {
		logger.SetLevel(logrus.DebugLevel)
	}

	if dsn := os.Getenv("SENTRY_DSN"); dsn != "" {
		if err := sentry.Init(sentry.ClientOptions{Dsn: dsn}); err != nil {
			logger.Fatalf("failed initializing sentry: %v", err)
		}
		defer sentry.Flush(time.Second * 5)
	}

	if os.Getenv("PPROF_ENABLED") != "" {
		// set configurations before calling `statsview.New()` method
		viewer.SetConfiguration(viewer.WithTheme(viewer.ThemeWesteros), viewer.WithAddr("localhost:8080"))

		mgr := statsview.New()
		go mgr.Start()
		defer mgr.Stop()
	}

	if _, err := os.Stat(settingsPath); os.IsNotExist(err) {
		if err := settings.SaveDefault(settingsPath); err != nil {
			logger.Fatalf("failed saving default settings: %v", err)
		}
		logger.Infof("created default settings at %s", settingsPath)
	}
	s, err := settings.Load(settingsPath)
	if err != nil {
		logger.Fatalf("failed loading settings: %v", err)
	}

	var newPolicy func(seed uint64) racesim.Policy
	switch policyName {
	case "follow":
		newPolicy = func(uint64) racesim.Policy { return racesim.FollowPolicy{Throttle: 0.6, Gain: 0.4} }
	case "random":
		newPolicy = func(seed uint64) racesim.Policy { return racesim.NewRandomPolicy(seed) }
	case "neutral":
		newPolicy = func(uint64) racesim.Policy { return racesim.NeutralPolicy }
	default:
		logger.Fatalf("unknown policy %q", policyName)
	}

	r, err := racesim.NewRunner(logger, s, s.Runner.Environments, newPolicy)
	if err != nil {
		logger.Fatalf("failed creating runner: %v", err)
	}
	logger.Infof("running %d environments with the %s policy", len(r.Envs()), policyName)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()
	r.Run(ctx, s.Runner.Episodes)
}
