package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/gin-gonic/gin"

	"github.com/gcbaptista/go-similarity-join/api"
	"github.com/gcbaptista/go-similarity-join/config"
	"github.com/gcbaptista/go-similarity-join/internal/engine"
	"github.com/gcbaptista/go-similarity-join/internal/logger"
)

const version = "1.0.0"

var log = logger.New("main")

func main() {
	// Define command-line flags
	var (
		help       = flag.Bool("help", false, "Show help message")
		showVer    = flag.Bool("version", false, "Show version information")
		configPath = flag.String("config", "", "Path to a TOML config file")
		port       = flag.String("port", "", "Port to run the server on (overrides config)")
		dataDir    = flag.String("data-dir", "", "Directory to store dataset data (overrides config)")
		logLevel   = flag.String("log-level", "", "Log level: debug, info, warn, error (overrides config)")
		maxWorkers = flag.Int("max-workers", 0, "Maximum concurrent background jobs (overrides config)")
	)

	flag.Parse()

	// Handle help flag
	if *help {
		fmt.Printf("Go Similarity Join - an edit-distance similarity self-join service\n\n")
		fmt.Printf("Usage: %s [options]\n\n", os.Args[0])
		fmt.Printf("Options:\n")
		flag.PrintDefaults()
		fmt.Printf("\nExamples:\n")
		fmt.Printf("  %s                          # Start server on default port 8080\n", os.Args[0])
		fmt.Printf("  %s --port 9000              # Start server on port 9000\n", os.Args[0])
		fmt.Printf("  %s --config join.toml       # Load settings from a TOML file\n", os.Args[0])
		return
	}

	// Handle version flag
	if *showVer {
		fmt.Printf("Go Similarity Join v%s\n", version)
		return
	}

	cfg, err := config.LoadServerConfig(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Flags override file values
	if *port != "" {
		cfg.Port = *port
	}
	if *dataDir != "" {
		cfg.DataDir = *dataDir
	}
	if *logLevel != "" {
		cfg.LogLevel = *logLevel
	}
	if *maxWorkers > 0 {
		cfg.MaxWorkers = *maxWorkers
	}

	logger.SetLevel(cfg.LogLevel)

	// Initialize the join engine
	log.Infof("Using data directory: %s", cfg.DataDir)
	joinEngine := engine.NewEngine(cfg.DataDir, cfg.MaxWorkers)
	defer joinEngine.Stop()

	// Initialize Gin router
	router := gin.Default()
	router.Use(api.RequestIDMiddleware())
	router.Use(api.CORSMiddleware())
	router.Use(api.RequestSizeLimitMiddleware(32 << 20)) // 32 MiB

	// Setup API routes
	api.SetupRoutes(router, joinEngine)

	// Start the server
	log.Infof("Starting server on port %s...", cfg.Port)
	if err := router.Run(":" + cfg.Port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
