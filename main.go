package main

import (
	"context"
	"flag"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"connectfour/experiments"
	"connectfour/server"
)

func main() {
	experiment := flag.Bool("experiment", false, "Run the self-play strength experiment instead of the server")
	debug := flag.Bool("debug", false, "Enable debug logging")
	flag.Parse()

	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	if *debug {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}

	if *experiment {
		experiments.RunStrengthExperiment()
		return
	}

	cfg := server.LoadConfig()
	app, err := server.NewApp(context.Background(), cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to start")
	}
	defer app.Close()

	if err := app.Run(); err != nil {
		log.Fatal().Err(err).Msg("server stopped")
	}
}
