package enrich_test

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/panjf2000/ants/v2"
	"github.com/shpitdev/syllabus-catalog/internal/enrich"
	"github.com/shpitdev/syllabus-catalog/internal/videos"
	"github.com/sirupsen/logrus"
)

type fnGenerator func(ctx context.Context, prompt string) (string, error)

func (f fnGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	return f(ctx, prompt)
}

type fnSearcher func(ctx context.Context, query string, maxResults int) ([]videos.Record, error)

func (f fnSearcher) Search(ctx context.Context, query string, maxResults int) ([]videos.Record, error) {
	return f(ctx, query, maxResults)
}

func testLog() *logrus.Entry {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return logrus.NewEntry(l)
}

func newPool(t *testing.T) *ants.Pool {
	t.Helper()
	pool, err := ants.NewPool(10)
	if err != nil {
		t.Fatalf("create pool: %v", err)
	}
	t.Cleanup(pool.Release)
	return pool
}

func TestEnrich_FallbackDescriptionOnTotalGenerationFailure(t *testing.T) {
	t.Parallel()

	g := fnGenerator(func(_ context.Context, _ string) (string, error) {
		return "", errors.New("retries exhausted")
	})
	s := fnSearcher(func(_ context.Context, _ string, _ int) ([]videos.Record, error) {
		return []videos.Record{{URL: "https://youtube.com/watch?v=abc123"}}, nil
	})

	e := enrich.New(g, s, newPool(t), 5, testLog())
	got := e.Enrich(context.Background(), "Recursion")

	if got.Description != "Description generation failed for Recursion" {
		t.Fatalf("unexpected description: %q", got.Description)
	}
	if len(got.Videos) != 1 {
		t.Fatalf("video path should be unaffected, got %#v", got.Videos)
	}
}

func TestEnrich_VideoFailureIsIsolated(t *testing.T) {
	t.Parallel()

	g := fnGenerator(func(_ context.Context, _ string) (string, error) {
		return "desc-R", nil
	})
	s := fnSearcher(func(_ context.Context, _ string, _ int) ([]videos.Record, error) {
		return nil, errors.New("lookup blew up")
	})

	e := enrich.New(g, s, newPool(t), 5, testLog())
	got := e.Enrich(context.Background(), "Recursion")

	if got.Description != "desc-R" {
		t.Fatalf("description affected by video failure: %q", got.Description)
	}
	if len(got.Videos) != 0 {
		t.Fatalf("expected empty video list, got %#v", got.Videos)
	}
}

func TestEnrich_TrimsDescriptionAndBuildsQuery(t *testing.T) {
	t.Parallel()

	var gotPrompt string
	g := fnGenerator(func(_ context.Context, prompt string) (string, error) {
		gotPrompt = prompt
		return "  a trimmed description \n", nil
	})
	var gotQuery string
	var gotMax int
	s := fnSearcher(func(_ context.Context, query string, maxResults int) ([]videos.Record, error) {
		gotQuery = query
		gotMax = maxResults
		return nil, nil
	})

	e := enrich.New(g, s, newPool(t), 5, testLog())
	got := e.Enrich(context.Background(), "Hash Tables")

	if got.Description != "a trimmed description" {
		t.Fatalf("unexpected description: %q", got.Description)
	}
	if gotQuery != "tutorial Hash Tables" || gotMax != 5 {
		t.Fatalf("unexpected search call: query=%q max=%d", gotQuery, gotMax)
	}
	if !strings.Contains(gotPrompt, "'Hash Tables'") {
		t.Fatalf("prompt missing topic: %q", gotPrompt)
	}
}

func TestEnrich_EmptyGenerationFallsBack(t *testing.T) {
	t.Parallel()

	g := fnGenerator(func(_ context.Context, _ string) (string, error) {
		return "   \n", nil
	})
	s := fnSearcher(func(_ context.Context, _ string, _ int) ([]videos.Record, error) {
		return nil, nil
	})

	e := enrich.New(g, s, newPool(t), 5, testLog())
	got := e.Enrich(context.Background(), "Recursion")
	if got.Description != enrich.FallbackDescription("Recursion") {
		t.Fatalf("unexpected description: %q", got.Description)
	}
}

func TestAll_PreservesInputOrder(t *testing.T) {
	t.Parallel()

	topics := []string{"t0", "t1", "t2", "t3", "t4", "t5", "t6", "t7"}

	// Earlier topics finish last: completion order is the reverse of input
	// order, so positional reassembly is what keeps the output aligned.
	g := fnGenerator(func(_ context.Context, prompt string) (string, error) {
		for i, topic := range topics {
			if strings.Contains(prompt, "'"+topic+"'") {
				time.Sleep(time.Duration(len(topics)-i) * 5 * time.Millisecond)
				return "desc-" + topic, nil
			}
		}
		return "", errors.New("unknown topic")
	})
	s := fnSearcher(func(_ context.Context, query string, _ int) ([]videos.Record, error) {
		return []videos.Record{{Title: query}}, nil
	})

	e := enrich.New(g, s, newPool(t), 5, testLog())
	out := enrich.All(context.Background(), topics, e)

	if len(out) != len(topics) {
		t.Fatalf("expected %d entries, got %d", len(topics), len(out))
	}
	for i, topic := range topics {
		if out[i].Topic != topic {
			t.Fatalf("entry %d: topic %q, want %q", i, out[i].Topic, topic)
		}
		if out[i].Description != "desc-"+topic {
			t.Fatalf("entry %d: description %q", i, out[i].Description)
		}
		if len(out[i].Videos) != 1 || out[i].Videos[0].Title != "tutorial "+topic {
			t.Fatalf("entry %d: videos %#v", i, out[i].Videos)
		}
	}
}

func TestAll_CountPreservedWhenEverythingFails(t *testing.T) {
	t.Parallel()

	topics := []string{"a", "b", "c"}
	g := fnGenerator(func(_ context.Context, _ string) (string, error) {
		return "", errors.New("backend unreachable")
	})
	s := fnSearcher(func(_ context.Context, _ string, _ int) ([]videos.Record, error) {
		return nil, errors.New("lookup unreachable")
	})

	e := enrich.New(g, s, newPool(t), 5, testLog())
	out := enrich.All(context.Background(), topics, e)

	if len(out) != len(topics) {
		t.Fatalf("expected %d entries, got %d", len(topics), len(out))
	}
	for i, topic := range topics {
		if out[i].Description != enrich.FallbackDescription(topic) {
			t.Fatalf("entry %d: description %q", i, out[i].Description)
		}
		if len(out[i].Videos) != 0 {
			t.Fatalf("entry %d: expected no videos, got %#v", i, out[i].Videos)
		}
	}
}

func TestAll_DuplicateTopicsEnrichedSeparately(t *testing.T) {
	t.Parallel()

	calls := make(chan string, 4)
	g := fnGenerator(func(_ context.Context, _ string) (string, error) {
		return "desc", nil
	})
	s := fnSearcher(func(_ context.Context, query string, _ int) ([]videos.Record, error) {
		calls <- query
		return nil, nil
	})

	e := enrich.New(g, s, newPool(t), 5, testLog())
	out := enrich.All(context.Background(), []string{"X", "X"}, e)
	close(calls)

	if len(out) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(out))
	}
	n := 0
	for range calls {
		n++
	}
	if n != 2 {
		t.Fatalf("expected 2 lookups for duplicate topics, got %d", n)
	}
}
