package api

import (
	"log"
	"os"
	"strings"

	"Chirp/cache"
	"Chirp/controllers"
	"Chirp/seed"

	"github.com/joho/godotenv"
)

var server = controllers.Server{}

func init() {
	// Load .env only outside production. In prod, config comes from the host.
	if os.Getenv("APP_ENV") != "production" {
		_ = godotenv.Load()
	}
}

func Run() {
	server.Initialize(
		os.Getenv("DB_USER"),
		os.Getenv("DB_PASSWORD"),
		os.Getenv("DB_PORT"),
		os.Getenv("DB_HOST"),
		os.Getenv("DB_NAME"),
	)

	// SEED_DB wipes and re-seeds; local development only.
	if os.Getenv("SEED_DB") == "true" && os.Getenv("APP_ENV") != "production" {
		seed.Load(server.DB)
	}

	// The feed cache is optional; a missing redis only disables it.
	if err := cache.InitFromEnv(); err != nil {
		log.Printf("redis unavailable, feed cache disabled: %v", err)
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = os.Getenv("API_PORT")
		if port == "" {
			port = "8888"
		}
	}

	addr := ":" + strings.TrimSpace(port)
	server.Run(addr)
}
