package main

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	md "github.com/JohannesKaufmann/html-to-markdown"
)

func testHNClient(baseURL string) *HNClient {
	return &HNClient{
		client:      &http.Client{Timeout: 5 * time.Second},
		algoliaURL:  baseURL,
		firebaseURL: baseURL,
		converter:   md.NewConverter("", true, nil),
	}
}

func TestFindHiringThread(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasPrefix(r.URL.Path, "/search_by_date") {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		fmt.Fprint(w, `{"hits": [
			{"objectID": "100", "title": "Ask HN: Who wants to be hired? (September 2025)"},
			{"objectID": "200", "title": "Ask HN: Who is hiring? (September 2025)"},
			{"objectID": "300", "title": "Ask HN: Who is hiring? (August 2025)"}
		]}`)
	}))
	defer server.Close()

	thread, err := testHNClient(server.URL).FindHiringThread()
	if err != nil {
		t.Fatalf("FindHiringThread() error = %v", err)
	}
	if thread.ID != "200" {
		t.Errorf("thread ID = %s, want 200 (first matching hit)", thread.ID)
	}
	if !strings.Contains(thread.Title, "Who is hiring") {
		t.Errorf("thread title = %s", thread.Title)
	}
}

func TestFindHiringThreadNoMatch(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"hits": [{"objectID": "100", "title": "Something else"}]}`)
	}))
	defer server.Close()

	if _, err := testHNClient(server.URL).FindHiringThread(); err == nil {
		t.Error("expected error when no hiring thread matches")
	}
}

func TestFindHiringThreadHTTPError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	_, err := testHNClient(server.URL).FindHiringThread()
	if err == nil {
		t.Fatal("expected error on HTTP 503")
	}

	var httpErr *HTTPError
	if !errors.As(err, &httpErr) {
		t.Fatalf("error = %v, want *HTTPError", err)
	}
	if httpErr.StatusCode != http.StatusServiceUnavailable {
		t.Errorf("StatusCode = %d, want 503", httpErr.StatusCode)
	}
}

func TestFetchComments(t *testing.T) {
	items := map[string]string{
		"/item/99.json": `{"id": 99, "kids": [1, 2, 3, 4, 5]}`,
		"/item/1.json":  `{"id": 1, "text": "Acme | <b>Senior</b> Engineer | Remote", "time": 1725100000}`,
		"/item/2.json":  `{"id": 2, "deleted": true}`,
		"/item/3.json":  `{"id": 3, "dead": true, "text": "spam"}`,
		"/item/4.json":  `{"id": 4, "text": ""}`,
		"/item/5.json":  `{"id": 5, "text": "Globex | Frontend", "time": 1725100100}`,
	}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, ok := items[r.URL.Path]
		if !ok {
			t.Errorf("unexpected path %s", r.URL.Path)
			http.NotFound(w, r)
			return
		}
		fmt.Fprint(w, body)
	}))
	defer server.Close()

	comments, err := testHNClient(server.URL).FetchComments("99")
	if err != nil {
		t.Fatalf("FetchComments() error = %v", err)
	}

	if len(comments) != 2 {
		t.Fatalf("got %d comments, want 2 (deleted, dead, empty skipped)", len(comments))
	}
	if comments[0].ID != 1 || comments[1].ID != 5 {
		t.Errorf("comment IDs = %d, %d, want 1, 5", comments[0].ID, comments[1].ID)
	}
	if comments[0].Time != 1725100000 {
		t.Errorf("comment time = %d, want 1725100000", comments[0].Time)
	}
	if strings.Contains(comments[0].Text, "<b>") {
		t.Errorf("HTML not converted: %s", comments[0].Text)
	}
	if !strings.Contains(comments[0].Text, "Senior") {
		t.Errorf("text content lost: %s", comments[0].Text)
	}
}

func TestFetchCommentsPartialFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/item/99.json":
			fmt.Fprint(w, `{"id": 99, "kids": [1, 2]}`)
		case "/item/1.json":
			w.WriteHeader(http.StatusInternalServerError)
		case "/item/2.json":
			fmt.Fprint(w, `{"id": 2, "text": "Globex | Backend", "time": 1}`)
		}
	}))
	defer server.Close()

	comments, err := testHNClient(server.URL).FetchComments("99")
	if err != nil {
		t.Fatalf("FetchComments() error = %v", err)
	}
	if len(comments) != 1 || comments[0].ID != 2 {
		t.Errorf("comments = %+v, want only item 2", comments)
	}
}

func TestFetchCommentsThreadFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	if _, err := testHNClient(server.URL).FetchComments("99"); err == nil {
		t.Error("expected error when the thread itself cannot be fetched")
	}
}

func TestSaveAndLoadComments(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "raw")
	comments := []Comment{
		{ID: 1, Text: "Acme | Backend", Time: 100},
		{ID: 2, Text: "Globex | Frontend", Time: 200},
	}

	path, err := SaveComments(comments, "99", dir)
	if err != nil {
		t.Fatalf("SaveComments() error = %v", err)
	}
	if filepath.Base(path) != "comments_99.json" {
		t.Errorf("path = %s, want comments_99.json", path)
	}

	loaded, err := LoadComments(path)
	if err != nil {
		t.Fatalf("LoadComments() error = %v", err)
	}
	if len(loaded) != 2 || loaded[0].ID != 1 || loaded[1].Text != "Globex | Frontend" {
		t.Errorf("loaded = %+v", loaded)
	}
}

func TestLatestCommentsFile(t *testing.T) {
	dir := t.TempDir()

	older := filepath.Join(dir, "comments_1.json")
	newer := filepath.Join(dir, "comments_2.json")
	for _, p := range []string{older, newer} {
		if err := os.WriteFile(p, []byte("[]"), 0644); err != nil {
			t.Fatal(err)
		}
	}
	past := time.Now().Add(-time.Hour)
	if err := os.Chtimes(older, past, past); err != nil {
		t.Fatal(err)
	}

	got, err := LatestCommentsFile(dir)
	if err != nil {
		t.Fatalf("LatestCommentsFile() error = %v", err)
	}
	if got != newer {
		t.Errorf("latest = %s, want %s", got, newer)
	}
}

func TestLatestCommentsFileEmpty(t *testing.T) {
	if _, err := LatestCommentsFile(t.TempDir()); err == nil {
		t.Error("expected error for empty directory")
	}
}
