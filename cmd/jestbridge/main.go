package main

import (
	"github.com/joho/godotenv"

	"github.com/specvital/jestbridge/internal/cli"
)

func main() {
	// Optional: JESTBRIDGE_COMMAND and friends may live in a .env file.
	_ = godotenv.Load()

	cli.Execute()
}
