package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/ironsheep/bbox-estimator/internal/config"
	"github.com/ironsheep/bbox-estimator/internal/debug"
	"github.com/ironsheep/bbox-estimator/internal/estimator"
	"github.com/ironsheep/bbox-estimator/internal/httpapi"
)

const (
	// ServerReadTimeout is the HTTP server read timeout
	ServerReadTimeout = 15 * time.Second

	// ServerWriteTimeout is the HTTP server write timeout
	ServerWriteTimeout = 15 * time.Second

	// ServerIdleTimeout is the HTTP server idle timeout
	ServerIdleTimeout = 60 * time.Second

	// GracefulShutdownTimeout is the timeout for graceful shutdown
	GracefulShutdownTimeout = 10 * time.Second
)

// Version information - set by ldflags during build
var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

func main() {
	if len(os.Args) > 1 {
		switch os.Args[1] {
		case "--version", "-v", "version":
			fmt.Printf("bbox-http %s\n", Version)
			fmt.Printf("  Build time: %s\n", BuildTime)
			fmt.Printf("  Git commit: %s\n", GitCommit)
			return
		case "--help", "-h", "help":
			fmt.Println("bbox-http - HTTP service for bounding-box estimation")
			fmt.Println()
			fmt.Println("Endpoints:")
			fmt.Println("  POST /annotate/estimate-bbox   multipart \"image\" or \"image_path\" under IMAGE_ROOT")
			fmt.Println("  GET  /health")
			fmt.Println()
			fmt.Println("Environment variables:")
			fmt.Println("  PORT=8080                Listen port")
			fmt.Println("  MAX_FILE_SIZE=10485760   Upload limit in bytes")
			fmt.Println("  IMAGE_ROOT=.             Directory image_path is resolved against")
			fmt.Println("  BBOX_LOG_LEVEL=debug     Enable debug logging")
			return
		}
	}

	log.SetFlags(log.Ldate | log.Ltime | log.Lshortfile)

	cfg := config.Load()
	debug.Configure(cfg.LogLevel)
	if !debug.Enabled {
		gin.SetMode(gin.ReleaseMode)
	}

	// No image cache: files under IMAGE_ROOT may be replaced between requests
	// and the process lives indefinitely.
	est := estimator.New(cfg.EstimatorOptions()...)

	r := gin.Default()
	httpapi.SetupRoutes(r, est, &httpapi.Config{
		MaxFileSize: cfg.MaxFileSize,
		ImageRoot:   cfg.ImageRoot,
	})

	// Create HTTP server with timeout settings
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Port),
		Handler:      r,
		ReadTimeout:  ServerReadTimeout,
		WriteTimeout: ServerWriteTimeout,
		IdleTimeout:  ServerIdleTimeout,
	}

	go func() {
		log.Printf("Server starting on %s (backend %s)", srv.Addr, est.Backend().Name())
		log.Printf("Max file size: %d bytes", cfg.MaxFileSize)
		log.Printf("Image root: %s", cfg.ImageRoot)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal for graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), GracefulShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Println("Server exited gracefully")
}
