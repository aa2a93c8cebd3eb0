package config

import (
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
)

// LoadEnv loads shell-style env files (KEY=value, export KEY=value, quoted
// values) into the process environment. Variables already set in the
// environment are not overwritten, and a missing file is skipped.
func LoadEnv(paths ...string) {
	for _, p := range paths {
		if p == "" {
			continue
		}
		if fi, err := os.Stat(p); err != nil || fi.IsDir() {
			continue
		}
		if err := godotenv.Load(p); err != nil {
			log.Printf("Config: skipping env file %s: %v", p, err)
		}
	}
}

// LoadDefaultEnv loads env from VOICE_JOURNAL_ENV, ~/.voice-journal.env and
// ./.env (in that order), when present.
func LoadDefaultEnv() {
	if p := strings.TrimSpace(os.Getenv("VOICE_JOURNAL_ENV")); p != "" {
		LoadEnv(p)
	}
	if home, err := os.UserHomeDir(); err == nil {
		LoadEnv(filepath.Join(home, ".voice-journal.env"))
	}
	LoadEnv(".env")
}
