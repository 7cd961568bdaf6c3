package main

import (
	"log"
	"os"

	"github.com/vineshkkmr/job-board/cmd/jobboard/commands"
	"github.com/vineshkkmr/job-board/config"
	"github.com/vineshkkmr/job-board/pkg/logger"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	logger.Init(cfg.LogLevel)
	defer logger.Sync()

	if err := commands.NewRootCmd(commands.DefaultEnv(cfg)).Execute(); err != nil {
		logger.Sync()
		os.Exit(1)
	}
}
