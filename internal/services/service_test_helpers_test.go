package services

import (
	"context"
	"strings"
	"testing"

	"golang.org/x/net/html"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite db: %v", err)
	}

	return db
}

func parseTestHTML(t *testing.T, fragment string) *html.Node {
	t.Helper()

	doc, err := html.Parse(strings.NewReader(fragment))
	if err != nil {
		t.Fatalf("parse html: %v", err)
	}

	return doc
}

type loggedEntry struct {
	eventID *string
	action  string
	outcome string
	message *string
}

type stubLogWriter struct {
	entries []loggedEntry
}

func (s *stubLogWriter) CreateLog(ctx context.Context, eventID *string, action string, outcome string, message *string) error {
	var copiedEvent *string
	if eventID != nil {
		value := *eventID
		copiedEvent = &value
	}
	var copied *string
	if message != nil {
		value := *message
		copied = &value
	}

	s.entries = append(s.entries, loggedEntry{
		eventID: copiedEvent,
		action:  action,
		outcome: outcome,
		message: copied,
	})
	return nil
}

// stubPageFetcher serves the same page for every URL unless a per-URL map
// is provided.
type stubPageFetcher struct {
	page  string
	pages map[string]string
	err   error
	urls  []string
}

func (s *stubPageFetcher) Fetch(ctx context.Context, url string) (*html.Node, error) {
	s.urls = append(s.urls, url)
	if s.err != nil {
		return nil, s.err
	}

	page := s.page
	if s.pages != nil {
		var ok bool
		page, ok = s.pages[url]
		if !ok {
			return nil, ErrFetch
		}
	}

	return html.Parse(strings.NewReader(page))
}
