// Package main is the entry point for the interactive track editor.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"

	"go.uber.org/zap"

	"github.com/Faultbox/trackforge/internal/config"
	"github.com/Faultbox/trackforge/internal/editor"
	"github.com/Faultbox/trackforge/internal/editor/app"
	"github.com/Faultbox/trackforge/internal/logger"
	"github.com/Faultbox/trackforge/internal/pipeline"
	"github.com/Faultbox/trackforge/internal/scene"
)

var scenePath = flag.String("scene", "", "Open an exported scene in the viewer")

func main() {
	// Parse CLI flags first
	config.ParseFlags()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Config error: %v\n", err)
		os.Exit(1)
	}

	if err := logger.Init(cfg.Logging.Level, cfg.Logging.LogFile); err != nil {
		fmt.Fprintf(os.Stderr, "Logger error: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("=== trackforge editor ===")
	logger.Sugar.Debugf("Config: %+v", cfg)

	if err := run(cfg); err != nil {
		logger.Error("editor error", zap.Error(err))
		logger.Sync()
		os.Exit(1)
	}
	logger.Info("editor closed normally")
}

func run(cfg *config.Config) error {
	opts, err := pipeline.OptionsFromConfig(cfg)
	if err != nil {
		return err
	}
	ed := editor.New(pipeline.New(opts, logger.Named("pipeline")), logger.Named("editor"))

	if *scenePath != "" {
		sc, err := scene.Load(*scenePath)
		if err != nil {
			logger.Warn("scene loaded with errors", zap.String("path", *scenePath), zap.Error(err))
		}
		ed.Open(sc, *scenePath)
	}

	a, err := app.New(cfg, ed)
	if err != nil {
		return err
	}
	defer a.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	return a.Run(ctx)
}
