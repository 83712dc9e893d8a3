package main

import (
	"github.com/RoveStack/travel_service/config"
	"github.com/RoveStack/travel_service/internal/api"
	"github.com/RoveStack/travel_service/internal/logger"
)

func main() {
	log := logger.NewLogger("travel-api")

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("config error")
	}

	api.StartServer(cfg)
}
