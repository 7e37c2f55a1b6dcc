package testsupport

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"songsync/internal/hashprefix"
	"songsync/internal/song"
)

// RangeFormat selects how the fake index lists digests in a range response.
type RangeFormat string

const (
	RangeNewline RangeFormat = "newline"
	RangeConcat  RangeFormat = "concat"
	RangeJSON    RangeFormat = "json"
)

// FakeIndex is an in-process metadata index that follows the public
// server's protocol and counts requests per endpoint.
type FakeIndex struct {
	Server *httptest.Server

	mu           sync.Mutex
	prefixLength int
	records      map[string]song.Info // keyed by identifier
	platform     string
	overrides    map[string]func(http.ResponseWriter)
	counts       map[string]int
	submitted    map[string]song.Info
	rejectPosts  bool
	rangeFormat  RangeFormat
}

// NewFakeIndex starts a fake index with the given prefix length for the
// "youtube" platform. The server is closed on test cleanup.
func NewFakeIndex(t testing.TB, prefixLength int) *FakeIndex {
	t.Helper()
	f := &FakeIndex{
		prefixLength: prefixLength,
		records:      make(map[string]song.Info),
		platform:     "youtube",
		overrides:    make(map[string]func(http.ResponseWriter)),
		counts:       make(map[string]int),
		submitted:    make(map[string]song.Info),
		rangeFormat:  RangeNewline,
	}
	f.Server = httptest.NewServer(http.HandlerFunc(f.serve))
	t.Cleanup(f.Server.Close)
	return f
}

// URL returns the base URL of the fake server.
func (f *FakeIndex) URL() string {
	return f.Server.URL
}

// AddRecord registers a record for identifier.
func (f *FakeIndex) AddRecord(identifier string, info song.Info) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.records[identifier] = info
}

// SetPrefixLength changes the length the server accepts and advertises.
func (f *FakeIndex) SetPrefixLength(n int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.prefixLength = n
}

// SetRangeFormat changes how range responses list digests.
func (f *FakeIndex) SetRangeFormat(format RangeFormat) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.rangeFormat = format
}

// Override replaces the response of an endpoint ("prefix-length", "range",
// "get", "post") for all following requests.
func (f *FakeIndex) Override(endpoint string, respond func(http.ResponseWriter)) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.overrides[endpoint] = respond
}

// RejectSubmissions makes POST requests answer 403.
func (f *FakeIndex) RejectSubmissions() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.rejectPosts = true
}

// Count returns how many requests hit endpoint.
func (f *FakeIndex) Count(endpoint string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.counts[endpoint]
}

// Submitted returns the record posted for identifier.
func (f *FakeIndex) Submitted(identifier string) (song.Info, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	info, ok := f.submitted[identifier]
	return info, ok
}

func (f *FakeIndex) serve(w http.ResponseWriter, r *http.Request) {
	path := r.URL.Path
	videoPrefix := "/v1/" + f.platform + "-video/"

	var endpoint string
	switch {
	case path == "/v1/prefix-length":
		endpoint = "prefix-length"
	case strings.HasPrefix(path, "/v1/range/"):
		endpoint = "range"
	case strings.HasPrefix(path, videoPrefix) && r.Method == http.MethodGet:
		endpoint = "get"
	case strings.HasPrefix(path, videoPrefix) && r.Method == http.MethodPost:
		endpoint = "post"
	default:
		http.NotFound(w, r)
		return
	}

	f.mu.Lock()
	f.counts[endpoint]++
	override := f.overrides[endpoint]
	f.mu.Unlock()
	if override != nil {
		override(w)
		return
	}

	switch endpoint {
	case "prefix-length":
		f.mu.Lock()
		n := f.prefixLength
		f.mu.Unlock()
		_, _ = fmt.Fprintf(w, "%d", n)
	case "range":
		f.serveRange(w, strings.TrimPrefix(path, "/v1/range/"))
	case "get":
		f.serveGet(w, strings.TrimPrefix(path, videoPrefix))
	case "post":
		f.servePost(w, r, strings.TrimPrefix(path, videoPrefix))
	}
}

func (f *FakeIndex) serveRange(w http.ResponseWriter, prefix string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(prefix) != f.prefixLength {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = io.WriteString(w, hashprefix.RejectionMessage)
		return
	}
	var matches []string
	for id := range f.records {
		if digest := hashprefix.Digest(id); strings.HasPrefix(digest, prefix) {
			matches = append(matches, digest)
		}
	}
	_, _ = io.WriteString(w, EncodeRange(matches, f.rangeFormat))
}

// EncodeRange renders digests the way an index using format would.
func EncodeRange(digests []string, format RangeFormat) string {
	switch format {
	case RangeConcat:
		return strings.Join(digests, "")
	case RangeJSON:
		if digests == nil {
			digests = []string{}
		}
		data, _ := json.Marshal(digests)
		return string(data)
	default:
		return strings.Join(digests, "\n")
	}
}

func (f *FakeIndex) serveGet(w http.ResponseWriter, identifier string) {
	f.mu.Lock()
	info, ok := f.records[identifier]
	f.mu.Unlock()
	if !ok {
		http.Error(w, "record not found", http.StatusNotFound)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(info)
}

func (f *FakeIndex) servePost(w http.ResponseWriter, r *http.Request, identifier string) {
	var info song.Info
	if err := json.NewDecoder(r.Body).Decode(&info); err != nil {
		http.Error(w, "invalid body", http.StatusBadRequest)
		return
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.rejectPosts {
		w.WriteHeader(http.StatusForbidden)
		return
	}
	f.submitted[identifier] = info
	w.WriteHeader(http.StatusNoContent)
}
