package net

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoaderResolve(t *testing.T) {
	tests := []struct {
		base, ref, want string
	}{
		{"", "chart.html", "chart.html"},
		{"scenarios/click.yaml", "chart.html", filepath.Join("scenarios", "chart.html")},
		{"scenarios/click.yaml", "/abs/chart.html", "/abs/chart.html"},
		{"https://example.com/visuals/click.yaml", "chart.html", "https://example.com/visuals/chart.html"},
		{"scenarios/click.yaml", "http://example.com/chart.html", "http://example.com/chart.html"},
	}
	for _, tt := range tests {
		if got := (Loader{Base: tt.base}).Resolve(tt.ref); got != tt.want {
			t.Errorf("Resolve(%q, %q) = %q, want %q", tt.base, tt.ref, got, tt.want)
		}
	}
}

func TestLoadDocumentFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "chart.html")
	markup := `<div id="host"><span class="sub-selectable"></span></div><script>var x = 1;</script>`
	if err := os.WriteFile(path, []byte(markup), 0o644); err != nil {
		t.Fatal(err)
	}

	doc, err := Loader{Base: filepath.Join(dir, "click.yaml")}.LoadDocument("chart.html")
	if err != nil {
		t.Fatalf("LoadDocument: %v", err)
	}
	if doc.Root.ElementByID("host") == nil {
		t.Error("host element missing")
	}
	if len(doc.Scripts) != 1 {
		t.Errorf("scripts = %d, want 1", len(doc.Scripts))
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.html"))
	if err == nil || !strings.Contains(err.Error(), "missing.html") {
		t.Errorf("err = %v", err)
	}
}

func TestFetch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/chart.html" {
			http.NotFound(w, r)
			return
		}
		if !strings.HasPrefix(r.Header.Get("User-Agent"), "subsel/") {
			t.Errorf("User-Agent = %q", r.Header.Get("User-Agent"))
		}
		w.Header().Set("Content-Type", "text/html")
		w.Write([]byte(`<div id="host"></div>`))
	}))
	defer srv.Close()

	body, ct, err := Fetch(srv.URL + "/chart.html")
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if ct != "text/html" || string(body) != `<div id="host"></div>` {
		t.Errorf("got %q (%s)", body, ct)
	}

	doc, err := Loader{Base: srv.URL + "/scenario.yaml"}.LoadDocument("chart.html")
	if err != nil {
		t.Fatalf("LoadDocument: %v", err)
	}
	if doc.Root.ElementByID("host") == nil {
		t.Error("host element missing")
	}

	if _, _, err := Fetch(srv.URL + "/missing"); err == nil || !strings.Contains(err.Error(), "HTTP 404") {
		t.Errorf("err = %v", err)
	}
}
