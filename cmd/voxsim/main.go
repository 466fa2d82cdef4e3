package main

import (
	"context"
	"flag"
	"os"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/go-echarts/statsview"
	"github.com/go-echarts/statsview/viewer"
	"github.com/sirupsen/logrus"
	"github.com/xlab/closer"

	"voxsim/internal/config"
	"voxsim/internal/game"
)

var (
	configPath = flag.String("config", "", "YAML configuration file")
	scriptPath = flag.String("script", "", "YAML agent script (default: built-in walk)")
	seed       = flag.Int64("seed", 0, "world seed (overrides the config when non-zero)")
	ticks      = flag.Uint64("ticks", 600, "number of ticks to run, 0 runs until interrupted")
	tickRate   = flag.Int("tick-rate", -1, "ticks per second, 0 runs unthrottled (overrides the config when >= 0)")
	logLevel   = flag.String("log-level", "info", "log level")
)

func main() {
	flag.Parse()

	log := logrus.StandardLogger()
	log.SetFormatter(&logrus.TextFormatter{
		TimestampFormat: "2006-01-02 15:04:05",
		FullTimestamp:   true,
	})
	if lvl, err := logrus.ParseLevel(*logLevel); err == nil {
		log.SetLevel(lvl)
	} else {
		log.WithError(err).Warn("unknown log level, using info")
	}

	if dsn := os.Getenv("SENTRY_DSN"); dsn != "" {
		if err := sentry.Init(sentry.ClientOptions{Dsn: dsn}); err != nil {
			log.WithError(err).Warn("sentry disabled")
		} else {
			closer.Bind(func() { sentry.Flush(5 * time.Second) })
		}
	}

	if addr := os.Getenv("VOXSIM_STATSVIEW"); addr != "" {
		// set configurations before calling `statsview.New()` method
		viewer.SetConfiguration(viewer.WithTheme(viewer.ThemeWesteros), viewer.WithAddr(addr))
		mgr := statsview.New()
		go mgr.Start()
		closer.Bind(mgr.Stop)
		log.WithField("addr", addr).Info("statsview enabled")
	}

	cfg := config.Default()
	if *configPath != "" {
		var err error
		if cfg, err = config.Load(*configPath); err != nil {
			log.WithError(err).Fatal("load config")
		}
	}
	if *seed != 0 {
		cfg.Seed = *seed
	}
	if *tickRate >= 0 {
		cfg.TickRate = *tickRate
	}

	script := game.DefaultScript()
	if *scriptPath != "" {
		var err error
		if script, err = game.LoadScript(*scriptPath); err != nil {
			log.WithError(err).Fatal("load script")
		}
	}

	session, err := game.NewSession(cfg, log, nil)
	if err != nil {
		log.WithError(err).Fatal("start session")
	}

	ctx, cancel := context.WithCancel(context.Background())
	closer.Bind(cancel)
	closer.Bind(session.Close)

	loop := game.NewLoop(session, cfg.TickRate, log)
	loop.OnTick = func(tick uint64) { script.Apply(session, tick) }

	start := time.Now()
	if err := loop.Run(ctx, *ticks); err != nil {
		log.WithError(err).Info("simulation interrupted")
	}

	agent := session.Agent
	log.WithFields(logrus.Fields{
		"ticks":     session.Ticks(),
		"elapsed":   time.Since(start).Round(time.Millisecond),
		"x":         agent.Position.X(),
		"y":         agent.Feet().Y(),
		"z":         agent.Position.Z(),
		"on_ground": agent.OnGround,
		"chunks":    len(session.World.Chunks()),
	}).Info("simulation finished")

	closer.Close()
}
