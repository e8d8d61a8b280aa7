package main

import (
	"hotel/config"
	"hotel/helper"
	"hotel/shared/logger"
	"os"
	"strings"

	"github.com/rs/zerolog/log"
)

func main() {
	logger.InitLogger()

	if len(os.Args) < 2 { //nolint:mnd
		log.Fatal().Msgf("migration action is required: %s", strings.Join(helper.Actions, ", "))
	}

	cfg := config.Get()
	logger.Configure(cfg)

	action := strings.ToLower(os.Args[1])
	if err := helper.Runner(cfg, action); err != nil {
		log.Fatal().Err(err).Str("action", action).Msg("Migration failed")
	}
}
