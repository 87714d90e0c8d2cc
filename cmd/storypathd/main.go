// Package main initializes and starts the StoryPath dev backend, a local
// stand-in for the hosted REST API: configuration, logging, sqlite,
// repositories, services, handlers and the router.
package main

import (
	"cmp"
	"flag"
	"fmt"
	"os"

	nethttp "net/http"

	"go.uber.org/zap"

	"github.com/storypath/storypath/internal/config"
	"github.com/storypath/storypath/internal/db"
	"github.com/storypath/storypath/internal/logger"
	"github.com/storypath/storypath/internal/middleware"
	"github.com/storypath/storypath/internal/repository"
	"github.com/storypath/storypath/internal/server/handler/http"
	"github.com/storypath/storypath/internal/service"
)

var (
	// version holds the build version set via ldflags.
	version string
	// buildDate holds the build timestamp set via ldflags.
	buildDate string
)

func main() {
	mint := flag.String("mint", "", "print a bearer token for the given username and exit")

	// Parse command-line and environment configuration.
	options := config.Parse()

	// Print build metadata (or "N/A" if unset).
	fmt.Printf("Build version: %s\n", cmp.Or(version, "N/A"))
	fmt.Printf("Build date: %s\n", cmp.Or(buildDate, "N/A"))

	// Initialize structured logging.
	log, err := logger.New("info")
	if err != nil {
		fmt.Fprintln(os.Stderr, "failed to init logger:", err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	if *mint != "" {
		token, err := middleware.SignToken(options.JWTSecret, *mint, 0)
		if err != nil {
			log.Fatal("failed to mint token", zap.Error(err))
		}
		fmt.Println(token)
		return
	}

	// Initialize sqlite and apply the schema.
	sqliteDB, err := db.InitSQLite(options.DatabaseDSN)
	if err != nil {
		log.Fatal("cannot init database", zap.Error(err))
	}

	// Initialize repositories for the catalog and tracking resources.
	catalogRepo := repository.NewSQLiteCatalogRepository(sqliteDB)
	trackingRepo := repository.NewSQLiteTrackingRepository(sqliteDB)

	// Initialize business-logic services.
	catalogService := service.NewCatalogService(catalogRepo)
	trackingService := service.NewTrackingService(trackingRepo)

	// Create HTTP handlers for the three resources.
	catalogHandler := &http.CatalogHandler{CatalogService: catalogService}
	trackingHandler := &http.TrackingHandler{TrackingService: trackingService}

	// Build the router with middleware and routes.
	router := http.NewRouter(catalogHandler, trackingHandler, log, options.JWTSecret)

	server := &nethttp.Server{
		Addr:    options.Addr,
		Handler: router,
	}

	log.Info("starting HTTP server", zap.String("addr", options.Addr))
	if err := server.ListenAndServe(); err != nil {
		log.Fatal("failed to start HTTP server", zap.Error(err))
	}
}
