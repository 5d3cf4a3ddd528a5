package main

import (
	"os"

	"github.com/robotomize/convq/internal/logging"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		logging.DefaultLogger().Error().Err(err).Msg("command failed")
		os.Exit(1)
	}
}
