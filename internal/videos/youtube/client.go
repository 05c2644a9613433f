package youtube

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/shpitdev/syllabus-catalog/internal/videos"
)

const (
	defaultBaseURL = "https://www.youtube.com"
	watchBaseURL   = "https://youtube.com"
)

// Client scrapes the YouTube search results page. There is no official
// search API surface for anonymous result cards; the page embeds its data
// as a ytInitialData JSON payload that this client decodes.
type Client struct {
	baseURL string
	http    *http.Client
}

// NewClient constructs a search client. baseURL is optional and exists for
// proxies/testing; empty selects the public site.
func NewClient(baseURL string) *Client {
	baseURL = strings.TrimSpace(baseURL)
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http: &http.Client{
			Timeout: 20 * time.Second,
		},
	}
}

func (c *Client) Search(ctx context.Context, query string, maxResults int) ([]videos.Record, error) {
	u := c.baseURL + "/results?search_query=" + url.QueryEscape(query)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept-Language", "en")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	b, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode/100 != 2 {
		return nil, fmt.Errorf("search results page: unexpected status %d", resp.StatusCode)
	}

	payload, err := extractInitialData(b)
	if err != nil {
		return nil, err
	}

	var data initialData
	if err := json.Unmarshal(payload, &data); err != nil {
		return nil, fmt.Errorf("parse ytInitialData: %w", err)
	}
	return collectRecords(data, maxResults), nil
}

// extractInitialData slices the ytInitialData JSON object out of the page.
func extractInitialData(page []byte) ([]byte, error) {
	const marker = "var ytInitialData = "
	i := bytes.Index(page, []byte(marker))
	if i < 0 {
		return nil, fmt.Errorf("ytInitialData payload not found")
	}
	rest := page[i+len(marker):]
	end := bytes.Index(rest, []byte(";</script>"))
	if end < 0 {
		return nil, fmt.Errorf("ytInitialData payload not terminated")
	}
	return rest[:end], nil
}

// initialData mirrors just the slice of the search page payload this client
// needs; everything else is ignored during decoding.
type initialData struct {
	Contents struct {
		TwoColumnSearchResultsRenderer struct {
			PrimaryContents struct {
				SectionListRenderer struct {
					Contents []struct {
						ItemSectionRenderer *struct {
							Contents []struct {
								VideoRenderer *videoRenderer `json:"videoRenderer"`
							} `json:"contents"`
						} `json:"itemSectionRenderer"`
					} `json:"contents"`
				} `json:"sectionListRenderer"`
			} `json:"primaryContents"`
		} `json:"twoColumnSearchResultsRenderer"`
	} `json:"contents"`
}

type videoRenderer struct {
	VideoID string `json:"videoId"`
	Title   struct {
		Runs []struct {
			Text string `json:"text"`
		} `json:"runs"`
	} `json:"title"`
	LengthText    *simpleText `json:"lengthText"`
	ViewCountText *simpleText `json:"viewCountText"`
}

type simpleText struct {
	SimpleText string `json:"simpleText"`
}

func collectRecords(data initialData, maxResults int) []videos.Record {
	var out []videos.Record
	for _, section := range data.Contents.TwoColumnSearchResultsRenderer.PrimaryContents.SectionListRenderer.Contents {
		if section.ItemSectionRenderer == nil {
			continue
		}
		for _, item := range section.ItemSectionRenderer.Contents {
			if maxResults > 0 && len(out) >= maxResults {
				return out
			}
			vr := item.VideoRenderer
			if vr == nil || strings.TrimSpace(vr.VideoID) == "" {
				continue
			}
			out = append(out, recordFromRenderer(vr))
		}
	}
	return out
}

func recordFromRenderer(vr *videoRenderer) videos.Record {
	var title string
	if len(vr.Title.Runs) > 0 {
		title = strings.TrimSpace(vr.Title.Runs[0].Text)
	}
	var duration string
	if vr.LengthText != nil {
		duration = strings.TrimSpace(vr.LengthText.SimpleText)
	}
	views := videos.ViewsUnavailable
	if vr.ViewCountText != nil && strings.TrimSpace(vr.ViewCountText.SimpleText) != "" {
		views = strings.TrimSpace(vr.ViewCountText.SimpleText)
	}
	return videos.Record{
		URL:      watchBaseURL + "/watch?v=" + vr.VideoID,
		Title:    title,
		Duration: duration,
		Views:    views,
	}
}
