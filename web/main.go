package main

import (
	"flag"
	"log/slog"
	"os"

	"github.com/df07/go-fractal-explorer/pkg/core"
	"github.com/df07/go-fractal-explorer/web/server"
)

func main() {
	// Parse command line flags
	port := flag.Int("port", 8080, "Port to serve on")
	workers := flag.Int("workers", 0, "Render workers per request (0 = CPU count)")
	verbose := flag.Bool("verbose", false, "Enable debug logging")
	flag.Parse()

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	core.SetLogger(logger)

	// Create and start web server
	webServer := server.NewServer(*port, logger)
	webServer.SetWorkers(*workers)

	logger.Info("Fractal Explorer Web Server", "port", *port)

	if err := webServer.Start(); err != nil {
		logger.Error("error starting server", "error", err)
		os.Exit(1)
	}
}
