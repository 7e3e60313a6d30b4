package testutil

import (
	"archive/zip"
	"bytes"
	"io"
	"net/http"
	"strings"
	"sync"

	"github.com/leocov-dev/mccdl/core"
)

type FakeResponse struct {
	Status   int
	Body     string
	FinalURL string
}

// FakeTransport serves canned responses by URL and counts requests.
// Unknown URLs answer 404.
type FakeTransport struct {
	mu        sync.Mutex
	responses map[string]FakeResponse
	calls     map[string]int
}

func NewFakeTransport() *FakeTransport {
	return &FakeTransport{
		responses: make(map[string]FakeResponse),
		calls:     make(map[string]int),
	}
}

func (f *FakeTransport) Add(url string, status int, body string) *FakeTransport {
	return f.AddRedirect(url, url, body, status)
}

func (f *FakeTransport) AddRedirect(url string, finalURL string, body string, status int) *FakeTransport {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.responses[url] = FakeResponse{Status: status, Body: body, FinalURL: finalURL}
	return f
}

func (f *FakeTransport) Get(url string) (*core.Response, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls[url]++

	resp, ok := f.responses[url]
	if !ok {
		resp = FakeResponse{Status: http.StatusNotFound, FinalURL: url}
	}
	return &core.Response{
		StatusCode:    resp.Status,
		FinalURL:      resp.FinalURL,
		ContentLength: int64(len(resp.Body)),
		Body:          io.NopCloser(strings.NewReader(resp.Body)),
	}, nil
}

func (f *FakeTransport) Calls(url string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[url]
}

func (f *FakeTransport) TotalCalls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	total := 0
	for _, n := range f.calls {
		total += n
	}
	return total
}

// ZipBytes builds an in-memory zip archive. Names ending in "/" become directory entries.
func ZipBytes(files map[string]string) []byte {
	buf := &bytes.Buffer{}
	w := zip.NewWriter(buf)
	for name, content := range files {
		fw, err := w.Create(name)
		if err != nil {
			panic(err)
		}
		if !strings.HasSuffix(name, "/") {
			if _, err := fw.Write([]byte(content)); err != nil {
				panic(err)
			}
		}
	}
	if err := w.Close(); err != nil {
		panic(err)
	}
	return buf.Bytes()
}
