package main

import (
	"github.com/joho/godotenv"

	"github.com/mrlokans/bookhive/internal/cli"
)

// Version information - set at build time via ldflags
var (
	Version = "dev"
	Commit  = "unknown"
)

func main() {
	// A .env file is optional; real environment variables win
	_ = godotenv.Load()

	cli.Execute(Version + " (" + Commit + ")")
}
