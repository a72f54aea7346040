package main

import (
	"os"

	"github.com/joho/godotenv"

	"github.com/bianoble/flakewatch/cmd/flakewatch/cmd"
	"github.com/bianoble/flakewatch/internal/logging"
)

func main() {
	_ = godotenv.Load()
	logging.Setup()

	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
