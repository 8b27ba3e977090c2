package main

import (
	"fmt"
	"os"

	"github.com/username/bankvisor/backend/src/cmd"
	"github.com/username/bankvisor/backend/src/config"
	"github.com/username/bankvisor/backend/src/logger"
)

func main() {
	config.LoadConfig()
	logger.InitLogger(config.Cfg.LogLevel)

	if err := cmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
