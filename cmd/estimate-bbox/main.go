// Command estimate-bbox prints the best bounding box of one image as a
// single JSON line.
//
// The exit status is 1 only for wrong usage. A missing, unreadable or empty
// image still prints {"success": true, "bboxes": []} and exits 0; the reason
// goes to stderr.
package main

import (
	"fmt"
	"io"
	"log"
	"os"

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
	// stdout is reserved for the JSON result
	log.SetOutput(os.Stderr)
	log.SetFlags(log.Ldate | log.Ltime | log.Lshortfile)

	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	if len(args) != 1 {
		fmt.Fprintln(stderr, "Usage: estimate-bbox <image_path>")
		return 1
	}

	// A file that happens to be named like a flag is still an image path.
	if _, err := os.Stat(args[0]); err == nil {
		return estimate(args[0], stdout)
	}

	switch args[0] {
	case "--version", "-v":
		fmt.Fprintf(stdout, "estimate-bbox %s\n", Version)
		fmt.Fprintf(stdout, "  Build time: %s\n", BuildTime)
		fmt.Fprintf(stdout, "  Git commit: %s\n", GitCommit)
		return 0
	case "--help", "-h":
		printHelp(stdout)
		return 0
	}

	return estimate(args[0], stdout)
}

func estimate(path string, stdout io.Writer) int {
	cfg := config.Load()
	debug.Configure(cfg.LogLevel)
	debug.Log("estimate-bbox %s (built %s, commit %s)", Version, BuildTime, GitCommit)

	est := estimator.New(cfg.EstimatorOptions()...)
	resp := report.FromResult(est.EstimatePath(path))
	if err := report.Encode(stdout, resp); err != nil {
		log.Printf("Failed to write result: %v", err)
	}
	return 0
}

func printHelp(w io.Writer) {
	fmt.Fprintln(w, "estimate-bbox - estimate the bounding box of the main object in an image")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Usage: estimate-bbox <image_path>")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Prints one JSON object on stdout:")
	fmt.Fprintln(w, `  {"success": true, "bboxes": [{"x": 10.0, "y": 20.0, "w": 30.0, "h": 40.0}]}`)
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Environment variables:")
	fmt.Fprintln(w, "  BBOX_LOG_LEVEL=debug          Log every pipeline stage to stderr")
	fmt.Fprintln(w, "  BBOX_MIN_SOLIDITY, BBOX_IOU_THRESHOLD, BBOX_MIN_AREA_RATIO, ...")
	fmt.Fprintln(w, "                                Override detection thresholds")
	fmt.Fprintln(w, "  BBOX_BLOCK_SIZE, BBOX_THRESHOLD_OFFSET")
	fmt.Fprintln(w, "                                Override adaptive threshold settings")
}
