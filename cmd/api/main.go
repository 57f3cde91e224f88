package main

import (
	"log"
	"os"

	"github.com/ethanbaker/ytchat/internal/api"
	"github.com/ethanbaker/ytchat/pkg/utils"
)

// Start the API server
func main() {
	// Find env file
	envFile := ".env"
	if os.Getenv("ENV_FILE") != "" {
		envFile = os.Getenv("ENV_FILE")
	}

	// Load global config
	cfg := utils.NewConfigFromEnv(envFile)

	// Layer an optional YAML config file on top of the environment
	if path := cfg.Get("CONFIG_FILE"); path != "" {
		fileCfg, err := utils.NewConfigFromYAML(path)
		if err != nil {
			log.Fatalf("[MAIN]: Failed to load config file: %v", err)
		}
		cfg.Merge(fileCfg)
	}

	// Start
	api.Start(cfg)
}
