package main

import (
	"os"

	"github.com/yigit/clubsite/internal/pkg/logger"
	"github.com/yigit/clubsite/internal/server"
)

func main() {
	srv, err := server.NewServer()
	if err != nil {
		// The package logger's init defaults are in place before configuration loads
		logger.Error().Err(err).Msg("Failed to initialize server")
		os.Exit(1)
	}

	// Blocks until a shutdown signal
	if err := srv.Run(); err != nil {
		logger.Error().Err(err).Msg("Server execution failed or shutdown encountered errors")
		os.Exit(1)
	}

	logger.Info().Msg("Application finished gracefully.")
}
