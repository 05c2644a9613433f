package catalog

import (
	"encoding/json"
	"io"
	"os"

	"github.com/shpitdev/syllabus-catalog/internal/videos"
)

// TopicContent is one enriched catalog entry. Created exactly once per
// extracted topic; Description is never empty (a fallback message stands in
// for a failed generation).
type TopicContent struct {
	Topic       string          `json:"topic"`
	Description string          `json:"description"`
	Videos      []videos.Record `json:"videos"`
}

// Collection is the ordered catalog: entry i corresponds to the i-th
// extracted topic.
type Collection []TopicContent

// Write serializes the collection as an indented JSON array. Entries with no
// videos serialize as [] rather than null so consumers see a stable shape.
func Write(w io.Writer, c Collection) error {
	out := make([]TopicContent, len(c))
	copy(out, c)
	for i := range out {
		if out[i].Videos == nil {
			out[i].Videos = []videos.Record{}
		}
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

// WriteFile writes the catalog to outputPath with the fixed .json extension
// appended.
func WriteFile(outputPath string, c Collection) error {
	f, err := os.Create(outputPath + ".json")
	if err != nil {
		return err
	}
	defer func() {
		_ = f.Close()
	}()
	if err := Write(f, c); err != nil {
		return err
	}
	return f.Close()
}
