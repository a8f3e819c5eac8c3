package main

import (
	"flag"
	"log/slog"
	"os"

	"github.com/grouplet/grouplet"
)

func main() {
	configPath := flag.String("config", "grouplet.toml", "path to the TOML config file")
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	_, srv, err := grouplet.New(*configPath, logger)
	if err != nil {
		logger.Error("failed to initialize application", "error", err)
		os.Exit(1)
	}

	srv.Run()
}
