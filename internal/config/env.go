package config

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
)

// loadEnvFiles loads .env then .env.local when present. Variables already in
// the process environment are not overridden.
func loadEnvFiles() {
	for _, name := range []string{".env", ".env.local"} {
		if _, err := os.Stat(name); err != nil {
			continue
		}
		if err := godotenv.Load(name); err != nil {
			warn(fmt.Sprintf("could not load %s: %v", name, err))
		}
	}
}
