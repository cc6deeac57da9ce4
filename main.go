// main is the entry point of the hirecast CLI.
package main

import (
	"os"

	"github.com/huangsam/hirecast/cmd"
	"github.com/huangsam/hirecast/internal/contract"
	"github.com/huangsam/hirecast/internal/iocache"
	"github.com/huangsam/hirecast/internal/logging"
	"github.com/rs/zerolog/log"
)

func main() {
	logging.Setup("info")
	cmd.SetCacheManager(iocache.Manager)

	err := cmd.Execute()

	cmd.CloseRecordSource()
	iocache.CloseStores()
	if stopErr := cmd.StopProfiling(); stopErr != nil {
		contract.LogWarn("Failed to stop profiling", stopErr)
	}

	if err != nil {
		log.Error().Err(err).Msg("Command failed")
		os.Exit(1)
	}
}
