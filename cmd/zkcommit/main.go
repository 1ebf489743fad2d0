// Command zkcommit serves the commit proof API and runs one-shot proofs
package main

import (
	"errors"
	"os"

	"zkcommit/cmd/zkcommit/cli"
	"zkcommit/internal/platform/logger"
)

type exitCoder interface {
	error
	ExitCode() int
}

func main() {
	if err := cli.New().Execute(); err != nil {
		var ec exitCoder
		if errors.As(err, &ec) {
			if ec.ExitCode() > 1 {
				logger.Get().Error().Err(err).Msg("command failed")
			}
			os.Exit(ec.ExitCode())
		}
		logger.Get().Error().Err(err).Msg("command failed")
		os.Exit(2)
	}
}
