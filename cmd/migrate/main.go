package main

import (
	"jumuia/config"
	"jumuia/helper"
	"jumuia/shared/logger"
	"os"
	"slices"

	"github.com/rs/zerolog/log"
)

const (
	argLength = 2
)

var actions = []string{
	helper.ActionUp,
	helper.ActionDown,
	helper.ActionDrop,
	helper.ActionStepUp,
	helper.ActionVersion,
}

func main() {
	cfg := config.Get()

	logger.InitLogger(cfg)

	if len(os.Args) < argLength {
		log.Fatal().Strs("actions", actions).Msg("Migration action is required")
	}

	action := os.Args[1]
	if !slices.Contains(actions, action) {
		log.Fatal().Str("action", action).Strs("actions", actions).Msg("Invalid migration action")
	}

	if err := helper.Runner(cfg, action); err != nil {
		log.Fatal().Err(err).Str("action", action).Msg("Migration failed")
	}
}
