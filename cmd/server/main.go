// Package main implements the entry point for the EstateHub API server,
// which retrieves property listings from configured sources on demand and
// serves the collected data and analytics over HTTP.
package main

import (
	"context"
	"log"
	"log/slog"
)

// main is the entry point for the estatehub-api server. It initializes
// configuration, logging, the database connection, the task worker and the
// HTTP server, then blocks until shutdown.
func main() {
	app, err := initializeApp(context.Background())
	if err != nil {
		log.Fatalf("Failed to initialize application: %v", err)
	}

	if err := app.Run(context.Background()); err != nil {
		slog.Error("server exited with error", "error", err)
		app.cleanup()
		log.Fatalf("Server error: %v", err)
	}
}
