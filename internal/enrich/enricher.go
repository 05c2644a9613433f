package enrich

import (
	"context"
	"strings"
	"sync"

	"github.com/panjf2000/ants/v2"
	"github.com/shpitdev/syllabus-catalog/internal/catalog"
	"github.com/shpitdev/syllabus-catalog/internal/gen"
	"github.com/shpitdev/syllabus-catalog/internal/videos"
	"github.com/sirupsen/logrus"
)

const defaultMaxVideos = 5

// FallbackDescription is the description recorded when generation fails for
// a topic. Exposed so callers can count degraded entries.
func FallbackDescription(topic string) string {
	return "Description generation failed for " + topic
}

// Enricher builds one catalog entry per topic: a generated description and
// related tutorial videos, fetched concurrently.
//
// The description path is network-bound and runs on its own goroutine; the
// video lookup is blocking work bridged into the shared bounded pool so it
// cannot stall description fetches for this or any other topic.
type Enricher struct {
	gen       gen.Generator
	searcher  videos.Searcher
	pool      *ants.Pool
	maxVideos int
	log       *logrus.Entry
}

// New constructs an Enricher. The pool is owned by the caller: it is shared
// across every topic's video lookup and released by whoever created it,
// after all enrichment units have joined.
func New(g gen.Generator, s videos.Searcher, pool *ants.Pool, maxVideos int, log *logrus.Entry) *Enricher {
	if maxVideos <= 0 {
		maxVideos = defaultMaxVideos
	}
	return &Enricher{
		gen:       g,
		searcher:  s,
		pool:      pool,
		maxVideos: maxVideos,
		log:       log,
	}
}

// Enrich never fails: both paths degrade to fallback content on error, so a
// topic always yields a complete entry.
func (e *Enricher) Enrich(ctx context.Context, topic string) catalog.TopicContent {
	var (
		desc string
		vids []videos.Record
		wg   sync.WaitGroup
	)
	wg.Add(2)
	go func() {
		defer wg.Done()
		desc = e.describe(ctx, topic)
	}()
	go func() {
		defer wg.Done()
		vids = e.lookupVideos(ctx, topic)
	}()
	wg.Wait()

	return catalog.TopicContent{
		Topic:       topic,
		Description: desc,
		Videos:      vids,
	}
}

func (e *Enricher) describe(ctx context.Context, topic string) string {
	text, err := e.gen.Generate(ctx, buildDescriptionPrompt(topic))
	text = strings.TrimSpace(text)
	if err != nil || text == "" {
		e.log.WithField("topic", topic).WithError(err).Warn("description generation degraded to fallback")
		return FallbackDescription(topic)
	}
	return text
}

// lookupVideos submits the blocking search to the shared pool and waits on a
// completion channel. The channel is buffered so the submitted unit always
// runs to completion and never leaks, even if this caller's context ends
// first. Lookup failures of any kind become an empty list.
func (e *Enricher) lookupVideos(ctx context.Context, topic string) []videos.Record {
	done := make(chan []videos.Record, 1)
	err := e.pool.Submit(func() {
		recs, err := e.searcher.Search(ctx, "tutorial "+topic, e.maxVideos)
		if err != nil {
			e.log.WithField("topic", topic).WithError(err).Debug("video lookup failed, no videos attached")
			done <- nil
			return
		}
		done <- recs
	})
	if err != nil {
		e.log.WithField("topic", topic).WithError(err).Debug("video lookup pool rejected task")
		return nil
	}

	select {
	case recs := <-done:
		return recs
	case <-ctx.Done():
		return nil
	}
}

func buildDescriptionPrompt(topic string) string {
	return "Provide a comprehensive technical description of '" + topic + `' in 5-7 lines.
Focus on:
- Key concepts and fundamentals
- Important applications and use cases
- Technical challenges and considerations
- Best practices and common patterns
- Real-world relevance

Make it educational and suitable for a technical course syllabus.`
}
