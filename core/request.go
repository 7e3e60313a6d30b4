package core

import (
	"fmt"
	"io"
	"net/http"
)

const UserAgent = "leocov-dev/mccdl"

// Response is the subset of an HTTP response the downloader needs.
// Body must be closed by the caller.
type Response struct {
	StatusCode    int
	FinalURL      string
	ContentLength int64
	Body          io.ReadCloser
}

// Transport performs blocking GET requests, following redirects.
type Transport interface {
	Get(url string) (*Response, error)
}

type HTTPTransport struct {
	Client    *http.Client
	UserAgent string
}

func NewHTTPTransport(userAgent string) *HTTPTransport {
	return &HTTPTransport{Client: http.DefaultClient, UserAgent: userAgent}
}

func (t *HTTPTransport) Get(url string) (*Response, error) {
	req, err := http.NewRequest("GET", url, nil)
	if err != nil {
		return nil, err
	}
	ua := t.UserAgent
	if ua == "" {
		ua = UserAgent
	}
	req.Header.Set("User-Agent", ua)

	client := t.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to request %s: %w", url, err)
	}

	finalURL := url
	if resp.Request != nil && resp.Request.URL != nil {
		finalURL = resp.Request.URL.String()
	}
	return &Response{
		StatusCode:    resp.StatusCode,
		FinalURL:      finalURL,
		ContentLength: resp.ContentLength,
		Body:          resp.Body,
	}, nil
}
