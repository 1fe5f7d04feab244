package main

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"

	"github.com/himanishpuri/karaoke/pkg/karaoke"
	"github.com/himanishpuri/karaoke/pkg/logger"
	"github.com/himanishpuri/karaoke/pkg/utils"
)

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil && n > 0 {
			return n
		}
		logger.Warnf("Ignoring %s=%q: not a positive integer", key, value)
	}
	return defaultValue
}

func getEnvBool(key string) bool {
	switch strings.ToLower(strings.TrimSpace(os.Getenv(key))) {
	case "1", "true", "yes", "on":
		return true
	}
	return false
}

// options builds the service configuration from the environment. Values in
// a .env file in the working directory are loaded first.
func options(log *logger.Logger) []karaoke.Option {
	_, noColor := os.LookupEnv("NO_COLOR")

	return []karaoke.Option{
		karaoke.WithLogger(log),
		karaoke.WithLyricsURL(getEnvOrDefault("KARAOKE_LYRICS_URL", "https://api.lyrics.ovh/v1")),
		karaoke.WithOutputFile(getEnvOrDefault("KARAOKE_OUTPUT", karaoke.DefaultOutputFile)),
		karaoke.WithTempDir(getEnvOrDefault("KARAOKE_TEMP_DIR", os.TempDir())),
		karaoke.WithRecordSeconds(getEnvInt("KARAOKE_RECORD_SECONDS", 5)),
		karaoke.WithLang(getEnvOrDefault("KARAOKE_LANG", "en")),
		karaoke.WithNoColor(noColor || getEnvBool("KARAOKE_NO_COLOR")),
		karaoke.WithGoogleAPIKey(os.Getenv("GOOGLE_API_KEY")),
		karaoke.WithOpenAI(os.Getenv("OPENAI_API_KEY"), os.Getenv("OPENAI_BASE_URL")),
	}
}

func main() {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		fmt.Fprintf(os.Stderr, "Warning: could not read .env: %v\n", err)
	}

	log := logger.GetLogger()
	log.SetLevel(logger.ParseLevel(os.Getenv("LOG_LEVEL"), logger.WARN))
	sessionLog := log.With("[" + utils.NewSessionID() + "]")

	ctx := context.Background()

	svc, err := karaoke.NewService(ctx, options(sessionLog)...)
	if err != nil {
		// Failures are reported, never signalled through the exit status.
		fmt.Printf("Failed to start karaoke session: %v\n", err)
		sessionLog.Errorf("Service initialization failed: %v", err)
		return
	}

	outcome := svc.Run(ctx)
	sessionLog.Infof("Session finished: %s", outcome)
}
