// Package config reads runtime settings from the environment.
package config

import (
	"log"
	"os"
	"runtime"
	"strconv"

	"github.com/ironsheep/bbox-estimator/internal/detection"
	"github.com/ironsheep/bbox-estimator/internal/estimator"
	"github.com/ironsheep/bbox-estimator/internal/segment"
)

const (
	// DefaultPort is the default HTTP server port
	DefaultPort = "8080"

	// DefaultMaxFileSize is the default upload limit (10MB)
	DefaultMaxFileSize = 10 * 1024 * 1024

	// DefaultImageRoot is where image_path requests are resolved
	DefaultImageRoot = "."
)

// Config holds every tunable of the estimator and its front ends.
type Config struct {
	LogLevel    string
	Thresholds  detection.Thresholds
	Segment     segment.Options
	Workers     int
	Port        string
	MaxFileSize int64
	ImageRoot   string
}

// Load builds a Config from environment variables. Unset variables take
// their defaults; malformed values are logged and ignored.
func Load() *Config {
	th := detection.DefaultThresholds()
	th.MinRawArea = getEnvFloat("BBOX_MIN_RAW_AREA", th.MinRawArea)
	th.MinAreaRatio = getEnvFloat("BBOX_MIN_AREA_RATIO", th.MinAreaRatio)
	th.MaxAreaRatio = getEnvFloat("BBOX_MAX_AREA_RATIO", th.MaxAreaRatio)
	th.MinAspectRatio = getEnvFloat("BBOX_MIN_ASPECT_RATIO", th.MinAspectRatio)
	th.MaxAspectRatio = getEnvFloat("BBOX_MAX_ASPECT_RATIO", th.MaxAspectRatio)
	th.MinSolidity = getEnvFloat("BBOX_MIN_SOLIDITY", th.MinSolidity)
	th.IoUThreshold = getEnvFloat("BBOX_IOU_THRESHOLD", th.IoUThreshold)
	if err := th.Validate(); err != nil {
		log.Printf("Invalid detection thresholds, using defaults: %v", err)
		th = detection.DefaultThresholds()
	}

	seg := segment.DefaultOptions()
	if size := getEnvInt("BBOX_BLOCK_SIZE", seg.BlockSize()); size >= 3 && size%2 == 1 {
		seg.BlockRadius = (size - 1) / 2
	} else {
		log.Printf("Ignoring BBOX_BLOCK_SIZE=%d: must be an odd number >= 3", size)
	}
	seg.Offset = getEnvFloat("BBOX_THRESHOLD_OFFSET", seg.Offset)

	workers := getEnvInt("BBOX_WORKERS", runtime.NumCPU())
	if workers < 1 {
		log.Printf("Ignoring BBOX_WORKERS=%d: must be positive", workers)
		workers = runtime.NumCPU()
	}

	return &Config{
		LogLevel:    getEnv("BBOX_LOG_LEVEL", "info"),
		Thresholds:  th,
		Segment:     seg,
		Workers:     workers,
		Port:        getEnv("PORT", DefaultPort),
		MaxFileSize: getEnvInt64("MAX_FILE_SIZE", DefaultMaxFileSize),
		ImageRoot:   getEnv("IMAGE_ROOT", DefaultImageRoot),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	return int(getEnvInt64(key, int64(defaultValue)))
}

func getEnvInt64(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		intValue, err := strconv.ParseInt(value, 10, 64)
		if err == nil {
			return intValue
		}
		log.Printf("Ignoring %s=%q: %v", key, value, err)
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		floatValue, err := strconv.ParseFloat(value, 64)
		if err == nil {
			return floatValue
		}
		log.Printf("Ignoring %s=%q: %v", key, value, err)
	}
	return defaultValue
}

// EstimatorOptions returns the estimator options for the configured backend
// and thresholds.
func (c *Config) EstimatorOptions() []estimator.Option {
	return []estimator.Option{
		estimator.WithBackend(segment.New(c.Segment)),
		estimator.WithThresholds(c.Thresholds),
	}
}
