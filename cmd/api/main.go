package main

import (
	"log"
	"log/slog"
	"os"

	"github.com/joho/godotenv"

	"github.com/ryanlallier24/finnysights-sub000/internal/logger"
	"github.com/ryanlallier24/finnysights-sub000/internal/server"
)

func main() {
	// Load .env file
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, reading env vars from system")
	}

	slog.SetDefault(logger.New(os.Getenv("LOG_LEVEL")))

	srv := server.NewServer()
	if err := srv.ListenAndServe(); err != nil {
		log.Fatal(err)
	}
}
