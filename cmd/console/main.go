package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/CyprianDavis/Lost-and-Found-tracking-System-ui/internal/api"
	"github.com/CyprianDavis/Lost-and-Found-tracking-System-ui/internal/console"
	"github.com/CyprianDavis/Lost-and-Found-tracking-System-ui/internal/session"
)

func main() {
	// Setup logger
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	zerolog.SetGlobalLevel(zerolog.WarnLevel)

	if err := godotenv.Load(); err != nil {
		log.Debug().Msg("No .env file found, using environment variables")
	}

	config := loadConfig()
	if config.Debug {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}

	client := api.NewClient(config.APIBaseURL, nil)

	store, err := session.NewFileStore(config.SessionFile)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize session store")
	}
	sess := session.NewManager(client, store)
	defer sess.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		<-quit
		cancel()
	}()

	ui := console.New(os.Stdin, os.Stdout, client, sess)
	if err := ui.Run(ctx); err != nil && ctx.Err() == nil {
		log.Fatal().Err(err).Msg("Console exited with error")
	}
}

type Config struct {
	APIBaseURL  string
	SessionFile string
	Debug       bool
}

// loadConfig loads configuration from environment variables
func loadConfig() *Config {
	return &Config{
		APIBaseURL:  getEnv("LOSTFOUND_API_URL", "http://localhost:8080"),
		SessionFile: getEnv("LOSTFOUND_SESSION_FILE", ""),
		Debug:       getEnv("LOSTFOUND_DEBUG", "false") == "true",
	}
}

// getEnv gets an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
