package app

import (
	"log"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"

	"github.com/nexusqa/agents/pkg/config"
)

// getRootDir finds the repository root directory
func getRootDir() string {
	dir, err := os.Getwd()
	if err != nil {
		return "."
	}

	// Walk up the directory tree to find the module root
	for {
		if _, err := os.Stat(filepath.Join(dir, ".git")); err == nil {
			return dir
		}
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			// Reached filesystem root
			return "."
		}
		dir = parent
	}
}

// LoadConfig loads environment variables and application configuration.
// envFile overrides the default .env.local at the repository root.
func LoadConfig(envFile string) (*config.Config, error) {
	envPath := envFile
	if envPath == "" {
		envPath = filepath.Join(getRootDir(), ".env.local")
	}

	if err := godotenv.Load(envPath); err != nil {
		log.Printf("Warning: env file not found at: %s", envPath)
	} else {
		log.Printf("Loaded environment from: %s", envPath)
	}

	return config.Load()
}
