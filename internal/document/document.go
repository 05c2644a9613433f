package document

import (
	"fmt"
	"os"
	"strings"
)

// Extract returns the plain text of a syllabus document.
//
// PDF-to-text conversion is an external concern handled before this pipeline
// runs; the input here is the already-extracted text (plain text or
// markdown).
func Extract(path string) (string, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return "", fmt.Errorf("syllabus document path is required")
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read syllabus document: %w", err)
	}
	return string(b), nil
}
