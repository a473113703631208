// Command bbox-batch estimates boxes for many images in parallel and prints
// one JSON line per image, in argument order. Directories are searched for
// image files.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/ironsheep/bbox-estimator/internal/batch"
	"github.com/ironsheep/bbox-estimator/internal/config"
	"github.com/ironsheep/bbox-estimator/internal/debug"
	"github.com/ironsheep/bbox-estimator/internal/estimator"
	"github.com/ironsheep/bbox-estimator/internal/report"
)

// Version information - set by ldflags during build
var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

func main() {
	log.SetOutput(os.Stderr)
	log.SetFlags(log.Ldate | log.Ltime | log.Lshortfile)

	cfg := config.Load()

	workers := flag.Int("workers", cfg.Workers, "number of images processed at once")
	version := flag.Bool("version", false, "print version information")
	flag.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: bbox-batch [-workers N] <image or directory>...")
		flag.PrintDefaults()
	}
	flag.Parse()

	if *version {
		fmt.Printf("bbox-batch %s\n", Version)
		fmt.Printf("  Build time: %s\n", BuildTime)
		fmt.Printf("  Git commit: %s\n", GitCommit)
		return
	}
	if flag.NArg() == 0 {
		flag.Usage()
		os.Exit(1)
	}

	debug.Configure(cfg.LogLevel)

	paths, err := batch.Expand(flag.Args())
	if err != nil {
		log.Fatalf("Failed to list images: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	est := estimator.New(cfg.EstimatorOptions()...)
	items, err := batch.Run(ctx, est, paths, *workers)
	if err != nil && !errors.Is(err, context.Canceled) {
		log.Fatalf("Batch failed: %v", err)
	}

	for _, item := range items {
		if !item.Done {
			continue
		}
		if err := report.Encode(os.Stdout, item.Response()); err != nil {
			log.Fatalf("Failed to write result: %v", err)
		}
	}

	if err != nil {
		log.Printf("Interrupted: %v", err)
		os.Exit(130)
	}
}
