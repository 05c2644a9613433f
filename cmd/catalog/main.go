package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/shpitdev/syllabus-catalog/internal/app"
	"github.com/shpitdev/syllabus-catalog/internal/config"
	"github.com/shpitdev/syllabus-catalog/internal/gen/gemini"
	"github.com/shpitdev/syllabus-catalog/internal/logging"
	"github.com/shpitdev/syllabus-catalog/internal/util"
	"github.com/shpitdev/syllabus-catalog/internal/videos/youtube"
)

func main() {
	ctx := context.Background()
	_ = godotenv.Load()

	if len(os.Args) < 2 {
		usage(os.Stderr)
		os.Exit(2)
	}

	switch os.Args[1] {
	case "help", "-h", "--help":
		usage(os.Stdout)
		return
	case "process":
		os.Exit(runProcess(ctx, os.Args[2:]))
	default:
		_, _ = fmt.Fprintf(os.Stderr, "unknown command: %s\n\n", os.Args[1])
		usage(os.Stderr)
		os.Exit(2)
	}
}

func runProcess(ctx context.Context, args []string) int {
	fs := flag.NewFlagSet("process", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)

	var inputPath string
	var outputPath string
	var configPath string
	var model string
	var baseURL string
	var maxAttempts int
	var requestTimeout time.Duration
	var rateLimitRPS float64
	var videoWorkers int
	var maxVideos int

	fs.StringVar(&inputPath, "input", "", "Syllabus text file path (pre-extracted from PDF)")
	fs.StringVar(&outputPath, "output", "syllabus_content", "Output path; the .json extension is appended")
	fs.StringVar(&configPath, "config", os.Getenv("CATALOG_CONFIG"), "Optional YAML config file (env: CATALOG_CONFIG)")
	fs.StringVar(&model, "gemini-model", "", "Gemini model name (overrides config/env)")
	fs.StringVar(&baseURL, "gemini-base-url", "", "Gemini API base URL override (overrides config/env)")
	fs.IntVar(&maxAttempts, "max-attempts", 0, "Total generation attempts per call (overrides config/env)")
	fs.DurationVar(&requestTimeout, "request-timeout", 0, "Per-attempt generation timeout (overrides config/env)")
	fs.Float64Var(&rateLimitRPS, "rate-limit-rps", 0, "Global generation rate limit in RPS, 0 keeps config/env")
	fs.IntVar(&videoWorkers, "video-workers", 0, "Bounded pool size for video lookups (overrides config/env)")
	fs.IntVar(&maxVideos, "max-videos", 0, "Max videos per topic (overrides config/env)")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if inputPath == "" {
		_, _ = fmt.Fprintln(os.Stderr, "process requires --input")
		return 2
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "config error: %s\n", util.RedactSecrets(err.Error()))
		return 2
	}
	if model != "" {
		cfg.Model = model
	}
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	if maxAttempts > 0 {
		cfg.MaxAttempts = maxAttempts
	}
	if requestTimeout > 0 {
		cfg.RequestTimeout = requestTimeout
	}
	if rateLimitRPS > 0 {
		cfg.RateLimitRPS = rateLimitRPS
	}
	if videoWorkers > 0 {
		cfg.VideoWorkers = videoWorkers
	}
	if maxVideos > 0 {
		cfg.MaxVideos = maxVideos
	}
	if cfg.APIKey == "" {
		_, _ = fmt.Fprintln(os.Stderr, "config error: GEMINI_API_KEY is required")
		return 2
	}

	backend, err := gemini.New(ctx, gemini.Config{
		APIKey:  cfg.APIKey,
		Model:   cfg.Model,
		BaseURL: cfg.BaseURL,
	})
	if err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "gemini config error: %s\n", util.RedactSecrets(err.Error()))
		return 2
	}

	log := logging.New()
	if err := app.Run(ctx, app.Options{
		InputPath:  inputPath,
		OutputPath: outputPath,
		Config:     cfg,
	}, backend, youtube.NewClient(""), log); err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "process run failed: %s\n", util.RedactSecrets(err.Error()))
		return 1
	}
	return 0
}

func usage(w *os.File) {
	_, _ = fmt.Fprintf(w, `catalog: syllabus topic catalog pipeline

Usage:
  catalog <command> [flags]

Commands:
  process  Extract topics from a syllabus text file and write an enriched JSON catalog

Examples:
  catalog process --input syllabus.txt --output syllabus_content

Environment:
  GEMINI_API_KEY   Gemini API key (required)
  GEMINI_MODEL     Gemini model name (default gemini-1.5-flash)
  GEMINI_BASE_URL  Optional base URL override (proxies/testing)
  CATALOG_CONFIG   Optional YAML config file path
  MAX_ATTEMPTS, BASE_DELAY, REQUEST_TIMEOUT, RATE_LIMIT_RPS,
  VIDEO_WORKERS, MAX_VIDEOS
                   Pipeline tuning overrides
  LOG_LEVEL        debug|info|warn|error (default info)

`)
}
