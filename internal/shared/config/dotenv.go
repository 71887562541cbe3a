package config

import (
	"log"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

// envFiles lists the dotenv files Load reads. ENV_FILE, when set, is read
// first so it takes precedence over the defaults.
func envFiles(defaults ...string) []string {
	if explicit := strings.TrimSpace(os.Getenv("ENV_FILE")); explicit != "" {
		return append([]string{explicit}, defaults...)
	}
	return defaults
}

// loadEnvFiles loads KEY=VALUE pairs from the files that exist. Variables
// already in the environment are never overwritten.
func loadEnvFiles(paths ...string) []string {
	var loaded []string
	for _, path := range envFiles(paths...) {
		if _, err := os.Stat(path); err != nil {
			continue
		}
		if err := godotenv.Load(path); err != nil {
			log.Printf("config: skipping %s: %v", path, err)
			continue
		}
		loaded = append(loaded, path)
	}
	return loaded
}
