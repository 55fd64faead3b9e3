package main

import (
	"github.com/joho/godotenv"

	"github.com/mcoot/steamgames/internal/cli"
)

func main() {
	// A missing .env file is fine; flags and the environment still apply
	_ = godotenv.Load()

	cli.Execute()
}
