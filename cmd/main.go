package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"path"
	"syscall"

	"github.com/KotFed0t/isin_resolver/config"
	"github.com/google/subcommands"
)

func main() {
	cfg := config.MustLoad()

	setupLogger(cfg)

	slog.Debug("config", slog.Any("cfg", redactedConfig(cfg)))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	commander := subcommands.NewCommander(flag.CommandLine, path.Base(os.Args[0]))
	commander.Register(commander.HelpCommand(), "")
	commander.Register(commander.FlagsCommand(), "")
	commander.Register(&resolveCmd{cfg: cfg}, "")
	commander.Register(&reconcileCmd{cfg: cfg}, "")

	flag.Parse()
	status := commander.Execute(ctx)
	stop()
	os.Exit(int(status))
}

func setupLogger(cfg *config.Config) {
	var logLevel slog.Level

	switch cfg.LogLevel {
	case "debug":
		logLevel = slog.LevelDebug
	case "info":
		logLevel = slog.LevelInfo
	case "warning":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	default:
		logLevel = slog.LevelInfo
	}

	log := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel}))
	slog.SetDefault(log)
}

func redactedConfig(cfg *config.Config) config.Config {
	c := *cfg
	if c.API.OpenFigi.ApiKey != "" {
		c.API.OpenFigi.ApiKey = "***"
	}
	if c.Redis.Password != "" {
		c.Redis.Password = "***"
	}
	return c
}
