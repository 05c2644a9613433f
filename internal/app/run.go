package app

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/panjf2000/ants/v2"
	"github.com/shpitdev/syllabus-catalog/internal/catalog"
	"github.com/shpitdev/syllabus-catalog/internal/config"
	"github.com/shpitdev/syllabus-catalog/internal/document"
	"github.com/shpitdev/syllabus-catalog/internal/enrich"
	"github.com/shpitdev/syllabus-catalog/internal/extract"
	"github.com/shpitdev/syllabus-catalog/internal/gen"
	"github.com/shpitdev/syllabus-catalog/internal/gen/retry"
	"github.com/shpitdev/syllabus-catalog/internal/logging"
	"github.com/shpitdev/syllabus-catalog/internal/videos"
	"github.com/sirupsen/logrus"
)

type Options struct {
	// InputPath is the pre-extracted syllabus text file.
	InputPath string
	// OutputPath is the catalog destination; the .json extension is appended.
	OutputPath string
	Config     config.Config
}

// Run drives one pipeline run: document text -> topic extraction ->
// concurrent enrichment -> JSON catalog.
//
// Remote flakiness never fails the run; it degrades per-field content. The
// degraded-description count logged at the end is the operator's signal for
// telling "few real topics" apart from "backend unreachable".
func Run(ctx context.Context, opts Options, backend gen.Generator, searcher videos.Searcher, log *logging.Logger) error {
	cfg := opts.Config
	runLog := log.WithRun(uuid.NewString())
	runStart := time.Now()

	text, err := document.Extract(opts.InputPath)
	if err != nil {
		return err
	}
	runLog.WithFields(logrus.Fields{
		"input": opts.InputPath,
		"bytes": len(text),
	}).Info("syllabus text loaded")

	caller := retry.New(backend, runLog.WithField("component", "gen"), retry.Options{
		MaxAttempts:    cfg.MaxAttempts,
		BaseDelay:      cfg.BaseDelay,
		RequestTimeout: cfg.RequestTimeout,
		RateLimitRPS:   cfg.RateLimitRPS,
	})

	topics := extract.New(caller, runLog).Extract(ctx, text)
	runLog.WithField("topics", len(topics)).Info("topic extraction complete")
	if len(topics) == 0 {
		runLog.Warn("no topics extracted, skipping catalog output")
		return nil
	}

	// The pool backs the blocking video lookups for every topic; its
	// lifetime is exactly this run.
	pool, err := ants.NewPool(cfg.VideoWorkers)
	if err != nil {
		return err
	}
	defer pool.Release()

	enricher := enrich.New(caller, searcher, pool, cfg.MaxVideos, runLog)
	results := enrich.All(ctx, topics, enricher)

	degraded := 0
	noVideos := 0
	for _, r := range results {
		if r.Description == enrich.FallbackDescription(r.Topic) {
			degraded++
		}
		if len(r.Videos) == 0 {
			noVideos++
		}
	}
	runLog.WithFields(logrus.Fields{
		"entries":                len(results),
		"degraded_descriptions":  degraded,
		"entries_without_videos": noVideos,
		"duration":               time.Since(runStart).Round(time.Millisecond).String(),
	}).Info("enrichment complete")

	if err := catalog.WriteFile(opts.OutputPath, results); err != nil {
		return err
	}
	runLog.WithField("path", opts.OutputPath+".json").Info("catalog written")
	return nil
}
