package main

import (
	"os"

	"alcyxob/reptrack/internal/cli"
)

// @title RepTrack API
// @version 1.0
// @description API for workout programs, progress tracking, workout plans and the social feed.
// @BasePath /api/v1
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.
func main() {
	if err := cli.NewRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}
