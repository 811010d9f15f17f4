package services

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"golang.org/x/net/html"
)

type PageService struct {
	client  *http.Client
	timeout time.Duration
}

func NewPageService(client *http.Client, timeout time.Duration) (*PageService, error) {
	if client == nil {
		client = http.DefaultClient
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	return &PageService{client: client, timeout: timeout}, nil
}

// Fetch downloads one results page and parses it into a node tree. Every
// request is bounded by the configured timeout on top of the caller's
// context.
func (s *PageService) Fetch(ctx context.Context, url string) (*html.Node, error) {
	if s == nil {
		return nil, errors.New("page service is nil")
	}
	if s.client == nil {
		return nil, errors.New("http client is nil")
	}
	if url == "" {
		return nil, errors.New("url is empty")
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %v: %w", err, ErrFetch)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("do request: %v: %w", err, ErrFetch)
	}

	root, parseErr := html.Parse(resp.Body)
	closeErr := resp.Body.Close()
	if parseErr != nil {
		return nil, fmt.Errorf("parse response: %v: %w", parseErr, ErrFetch)
	}
	if closeErr != nil {
		return nil, fmt.Errorf("close response: %v: %w", closeErr, ErrFetch)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("page status %d: %w", resp.StatusCode, ErrFetch)
	}

	return root, nil
}
