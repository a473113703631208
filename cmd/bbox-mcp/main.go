package main

import (
	"fmt"
	"log"
	"os"

	"github.com/ironsheep/bbox-estimator/internal/config"
	"github.com/ironsheep/bbox-estimator/internal/debug"
	"github.com/ironsheep/bbox-estimator/internal/server"
)

// Version information - set by ldflags during build
var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

func main() {
	// Handle --version and -v flags
	if len(os.Args) > 1 {
		switch os.Args[1] {
		case "--version", "-v", "version":
			fmt.Printf("bbox-mcp %s\n", Version)
			fmt.Printf("  Build time: %s\n", BuildTime)
			fmt.Printf("  Git commit: %s\n", GitCommit)
			return
		case "--help", "-h", "help":
			fmt.Println("bbox-mcp - MCP server for bounding-box estimation")
			fmt.Println()
			fmt.Println("Usage: bbox-mcp [options]")
			fmt.Println()
			fmt.Println("Options:")
			fmt.Println("  --version, -v    Print version information")
			fmt.Println("  --help, -h       Print this help message")
			fmt.Println()
			fmt.Println("Environment variables:")
			fmt.Println("  BBOX_LOG_LEVEL=debug    Enable debug logging")
			fmt.Println("  BBOX_*                  Detection and threshold overrides (see estimate-bbox --help)")
			fmt.Println()
			fmt.Println("This server communicates via MCP protocol over stdin/stdout.")
			fmt.Println("Configure it in your MCP client.")
			return
		}
	}

	// Configure logging to stderr (stdout is for MCP protocol)
	log.SetOutput(os.Stderr)
	log.SetFlags(log.Ldate | log.Ltime | log.Lshortfile)

	cfg := config.Load()
	debug.Configure(cfg.LogLevel)
	debug.Log("BBox MCP Server v%s (built %s, commit %s)", Version, BuildTime, GitCommit)

	server.Version = Version
	srv := server.New(cfg.EstimatorOptions()...)
	if err := srv.Run(); err != nil {
		log.Fatalf("Server error: %v", err)
	}
}
