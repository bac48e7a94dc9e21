package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/sakabe/article-pipeline/internal/transport/server"
)

var (
	Version   string = "dev"
	Commit    string = "unknown"
	BuildTime string = "unknown"
)

func main() {
	var (
		showHelp    = flag.Bool("help", false, "Show help message")
		showVersion = flag.Bool("version", false, "Show version information")
	)
	flag.Parse()

	if *showHelp {
		fmt.Printf("Article Pipeline Server\n\n")
		fmt.Printf("Usage: %s [options]\n\n", os.Args[0])
		fmt.Printf("Options:\n")
		flag.PrintDefaults()
		fmt.Printf("\nEnvironment Variables:\n")
		fmt.Printf("  HUB_API_TOKEN         Inference API token (optional, raises rate limits)\n")
		fmt.Printf("  DEFAULT_MODEL         Summarization model (default: facebook/bart-large-cnn)\n")
		fmt.Printf("  PORT                  Server port (default: 8080)\n")
		fmt.Printf("  HOST                  Server host (default: 0.0.0.0)\n")
		fmt.Printf("  CACHE_TYPE            Cache type: memory or cloud-storage (default: memory)\n")
		fmt.Printf("  CACHE_TTL_HOURS       Result cache TTL in hours (default: 24)\n")
		fmt.Printf("  API_AUTH_TOKEN        Bearer token for mutating endpoints\n")
		fmt.Printf("  CLEANUP_SCHEDULE      Cron spec for cache pruning (default: 0 * * * *)\n")
		os.Exit(0)
	}

	if *showVersion {
		fmt.Printf("Article Pipeline Server\n")
		fmt.Printf("Version: %s\n", Version)
		fmt.Printf("Commit: %s\n", Commit)
		fmt.Printf("Build Time: %s\n", BuildTime)
		os.Exit(0)
	}

	handler, app, cleanup, err := server.CreateHandler()
	if err != nil {
		log.Fatalf("Failed to create server: %v", err)
	}
	defer cleanup()

	cfg := app.Config

	httpServer := &http.Server{
		Addr:         fmt.Sprintf("%s:%s", cfg.Host, cfg.Port),
		Handler:      handler,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Schedule periodic cache pruning
	c := cron.New()
	_, err = c.AddFunc(cfg.CleanupSchedule, func() {
		log.Printf("🕐 Scheduled cache pruning starting")
		if err := app.Results.Prune(ctx); err != nil {
			log.Printf("❌ Cache pruning failed: %v", err)
		} else {
			log.Printf("✅ Cache pruning completed")
		}
	})
	if err != nil {
		log.Printf("❌ Failed to schedule cache pruning: %v", err)
	} else {
		log.Printf("📅 Scheduled cache pruning with cron: %s", cfg.CleanupSchedule)
	}

	c.Start()
	defer c.Stop()

	// Setup graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		log.Printf("🚀 Starting server on %s:%s", cfg.Host, cfg.Port)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed to start: %v", err)
		}
	}()

	<-sigChan
	log.Println("🛑 Shutting down server...")

	cancel()
	c.Stop()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Printf("Server shutdown error: %v", err)
	}

	log.Println("✅ Server stopped")
}
