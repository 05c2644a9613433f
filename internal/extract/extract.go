package extract

import (
	"context"
	"strings"

	"github.com/shpitdev/syllabus-catalog/internal/gen"
	"github.com/sirupsen/logrus"
)

// topicMarker prefixes every qualifying line in the generation output.
const topicMarker = "Topic:"

const extractionPolicy = `Analyze this text and extract ALL technical topics being taught.
Ignore headings, sections, or administrative text.
Each topic should be a specific concept or skill.
List each topic on a new line starting with 'Topic:'.

Rules:
- Extract every possible topic, even if briefly mentioned
- Break down composite topics into individual components
- Exclude course logistics, grading policies, or administrative text
- Focus on actual learning content
- Each topic should be granular - break larger topics into specific sub-topics`

// Extractor turns raw syllabus text into an ordered topic list via one
// generation call.
type Extractor struct {
	gen gen.Generator
	log *logrus.Entry
}

func New(g gen.Generator, log *logrus.Entry) *Extractor {
	return &Extractor{gen: g, log: log}
}

// Extract returns the topics found in the document text, in source order.
// Duplicates are kept: identity is positional, and every extracted topic
// gets its own enrichment downstream. A degraded or empty generation result
// yields an empty list, never an error.
func (e *Extractor) Extract(ctx context.Context, docText string) []string {
	text, err := e.gen.Generate(ctx, buildPrompt(docText))
	if err != nil {
		e.log.WithError(err).Warn("topic extraction call degraded, no topics")
		return nil
	}
	return parseTopics(text)
}

func buildPrompt(docText string) string {
	return extractionPolicy + "\n\nText to analyze:\n" + docText
}

func parseTopics(text string) []string {
	var topics []string
	for _, line := range strings.Split(text, "\n") {
		if !strings.HasPrefix(line, topicMarker) {
			continue
		}
		topic := strings.TrimSpace(strings.TrimPrefix(line, topicMarker))
		if topic == "" {
			continue
		}
		topics = append(topics, topic)
	}
	return topics
}
