// Package net loads visual fixtures, scenarios and scripts from disk or over
// HTTP(S).
package net

import (
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"subsel/pkg/html"
)

const userAgent = "subsel/1.0 (compatible; Go)"

// httpClient is a shared HTTP client with reasonable timeouts.
var httpClient = &http.Client{
	Timeout: 30 * time.Second,
}

// Fetch retrieves the content at the given URL via HTTP/HTTPS.
// Returns the response body, content type, and any error.
func Fetch(rawURL string) (body []byte, contentType string, err error) {
	req, err := http.NewRequest("GET", rawURL, nil)
	if err != nil {
		return nil, "", fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := httpClient.Do(req)
	if err != nil {
		return nil, "", fmt.Errorf("fetching %s: %w", rawURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, "", fmt.Errorf("HTTP %d fetching %s", resp.StatusCode, rawURL)
	}

	body, err = io.ReadAll(resp.Body)
	if err != nil {
		return nil, "", fmt.Errorf("reading response body: %w", err)
	}

	contentType = resp.Header.Get("Content-Type")
	return body, contentType, nil
}

// ResolveURL resolves a possibly-relative URI against a base URL.
// If ref is already absolute, it is returned as-is.
func ResolveURL(base, ref string) string {
	baseURL, err := url.Parse(base)
	if err != nil {
		return ref
	}
	refURL, err := url.Parse(ref)
	if err != nil {
		return ref
	}
	return baseURL.ResolveReference(refURL).String()
}

// IsNetworkURL returns true if the string looks like an HTTP or HTTPS URL.
func IsNetworkURL(s string) bool {
	return strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://")
}

// Loader reads references relative to a base, which is either a URL or a
// file path. A fixture named by a scenario file is resolved against the
// scenario's location.
type Loader struct {
	Base string
}

// Resolve returns the location ref points to.
func (l Loader) Resolve(ref string) string {
	switch {
	case IsNetworkURL(ref), l.Base == "":
		return ref
	case IsNetworkURL(l.Base):
		return ResolveURL(l.Base, ref)
	case strings.HasPrefix(ref, "file://"), filepath.IsAbs(ref):
		return ref
	}
	return filepath.Join(filepath.Dir(l.Base), ref)
}

// Load returns the content at ref.
func (l Loader) Load(ref string) ([]byte, error) {
	resolved := l.Resolve(ref)
	if IsNetworkURL(resolved) {
		body, _, err := Fetch(resolved)
		return body, err
	}
	body, err := os.ReadFile(strings.TrimPrefix(resolved, "file://"))
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", resolved, err)
	}
	return body, nil
}

// LoadDocument loads and parses an HTML fixture.
func (l Loader) LoadDocument(ref string) (*html.Document, error) {
	body, err := l.Load(ref)
	if err != nil {
		return nil, err
	}
	doc, err := html.Parse(string(body))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ref, err)
	}
	return doc, nil
}

// Load is Loader{}.Load.
func Load(ref string) ([]byte, error) {
	return Loader{}.Load(ref)
}

// LoadDocument is Loader{}.LoadDocument.
func LoadDocument(ref string) (*html.Document, error) {
	return Loader{}.LoadDocument(ref)
}
