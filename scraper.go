package main

import (
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	md "github.com/JohannesKaufmann/html-to-markdown"
)

const (
	defaultAlgoliaURL  = "https://hn.algolia.com/api/v1"
	defaultFirebaseURL = "https://hacker-news.firebaseio.com/v0"
)

// HTTPError represents an HTTP error with status code
type HTTPError struct {
	StatusCode int
	URL        string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("HTTP %d for %s", e.StatusCode, e.URL)
}

// Thread is a "Who is hiring?" story found via the Algolia search API.
type Thread struct {
	ID    string
	Title string
}

// algoliaResponse mirrors the Algolia search response.
type algoliaResponse struct {
	Hits []algoliaHit `json:"hits"`
}

type algoliaHit struct {
	ObjectID string `json:"objectID"`
	Title    string `json:"title"`
}

// firebaseItem mirrors a single item from the HN Firebase API.
type firebaseItem struct {
	ID      int64   `json:"id"`
	Text    string  `json:"text"`
	Time    int64   `json:"time"`
	Deleted bool    `json:"deleted"`
	Dead    bool    `json:"dead"`
	Kids    []int64 `json:"kids"`
}

// HNClient fetches hiring threads and their comments from the public
// Hacker News APIs (Algolia for search, Firebase for items).
type HNClient struct {
	client      *http.Client
	algoliaURL  string
	firebaseURL string
	converter   *md.Converter
}

// NewHNClient constructs a client with a shared HTTP client and an
// HTML-to-markdown converter for comment bodies.
func NewHNClient() *HNClient {
	return &HNClient{
		client:      &http.Client{Timeout: 30 * time.Second},
		algoliaURL:  defaultAlgoliaURL,
		firebaseURL: defaultFirebaseURL,
		converter:   md.NewConverter("", true, nil),
	}
}

// FindHiringThread locates the most recent "Who is hiring?" thread posted
// within the last year.
func (c *HNClient) FindHiringThread() (*Thread, error) {
	cutoff := time.Now().Add(-365 * 24 * time.Hour).Unix()
	url := fmt.Sprintf("%s/search_by_date?tags=story,author_whoishiring&hitsPerPage=50&numericFilters=created_at_i>%d",
		c.algoliaURL, cutoff)

	var result algoliaResponse
	if err := c.getJSON(url, &result); err != nil {
		return nil, fmt.Errorf("searching hiring threads: %w", err)
	}

	for _, hit := range result.Hits {
		if strings.Contains(hit.Title, "Who is hiring") {
			log.Printf("Found thread: %s (ID: %s)", hit.Title, hit.ObjectID)
			return &Thread{ID: hit.ObjectID, Title: hit.Title}, nil
		}
	}

	return nil, fmt.Errorf("no 'Who is hiring' thread found in recent posts")
}

// FetchComments downloads all top-level comments of a thread. A failure on an
// individual comment is logged and skipped; partial results are acceptable.
func (c *HNClient) FetchComments(threadID string) ([]Comment, error) {
	var story firebaseItem
	url := fmt.Sprintf("%s/item/%s.json", c.firebaseURL, threadID)
	if err := c.getJSON(url, &story); err != nil {
		return nil, fmt.Errorf("fetching thread %s: %w", threadID, err)
	}

	log.Printf("Found %d top-level comments. Fetching...", len(story.Kids))

	comments := make([]Comment, 0, len(story.Kids))
	for i, kid := range story.Kids {
		var item firebaseItem
		itemURL := fmt.Sprintf("%s/item/%d.json", c.firebaseURL, kid)
		if err := c.getJSON(itemURL, &item); err != nil {
			log.Printf("Error fetching comment %d: %v", kid, err)
			continue
		}

		if item.Deleted || item.Dead || item.Text == "" {
			continue
		}

		comments = append(comments, Comment{
			ID:   item.ID,
			Text: c.commentText(item.Text),
			Time: item.Time,
		})

		if (i+1)%50 == 0 {
			log.Printf("Fetched %d/%d comments...", i+1, len(story.Kids))
		}
	}

	return comments, nil
}

// commentText converts a comment's HTML body to readable plain text. Falls
// back to the raw body when conversion fails.
func (c *HNClient) commentText(html string) string {
	text, err := c.converter.ConvertString(html)
	if err != nil {
		return html
	}
	return strings.TrimSpace(text)
}

func (c *HNClient) getJSON(url string, v any) error {
	resp, err := c.client.Get(url)
	if err != nil {
		return fmt.Errorf("fetching %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return &HTTPError{StatusCode: resp.StatusCode, URL: url}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("reading response body: %w", err)
	}

	return json.Unmarshal(body, v)
}

// SaveComments writes fetched comments as pretty-printed JSON under dir.
func SaveComments(comments []Comment, threadID, dir string) (string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("creating raw data directory: %w", err)
	}

	data, err := json.MarshalIndent(comments, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshaling comments: %w", err)
	}

	path := filepath.Join(dir, fmt.Sprintf("comments_%s.json", threadID))
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("writing %s: %w", path, err)
	}

	log.Printf("Saved %d comments to %s", len(comments), path)
	return path, nil
}

// LoadComments reads a comments file written by SaveComments.
func LoadComments(path string) ([]Comment, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	var comments []Comment
	if err := json.Unmarshal(data, &comments); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}

	return comments, nil
}

// LatestCommentsFile returns the most recently modified comments_*.json in dir.
func LatestCommentsFile(dir string) (string, error) {
	matches, err := filepath.Glob(filepath.Join(dir, "comments_*.json"))
	if err != nil {
		return "", err
	}
	if len(matches) == 0 {
		return "", fmt.Errorf("no comments files in %s, run fetch first", dir)
	}

	latest := ""
	var latestMod time.Time
	for _, m := range matches {
		info, err := os.Stat(m)
		if err != nil {
			continue
		}
		if latest == "" || info.ModTime().After(latestMod) {
			latest = m
			latestMod = info.ModTime()
		}
	}

	if latest == "" {
		return "", fmt.Errorf("no readable comments files in %s", dir)
	}
	return latest, nil
}
