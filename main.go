package main

import (
	"os"

	"github.com/firefly-engineering/sandpool-ctl/cmd"
	"github.com/firefly-engineering/sandpool-ctl/internal/errors"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(errors.GetExitCode(err))
	}
}
