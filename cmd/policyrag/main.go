package main

import (
	"github.com/joho/godotenv"

	"policyrag/internal/cli"
)

func main() {
	// Pick up API keys from a .env next to the config, if present.
	_ = godotenv.Load()

	cli.Execute()
}
