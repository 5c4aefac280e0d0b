package serve

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/tstromberg/brickwall/pkg/photo"
	"github.com/tstromberg/brickwall/pkg/site"
)

func newTestServer(t *testing.T) (*Server, *httptest.Server) {
	t.Helper()
	out := t.TempDir()
	if err := os.WriteFile(filepath.Join(out, "index.html"), []byte("hello gallery"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	ps := []*photo.Photo{}
	for i := 0; i < 5; i++ {
		rel := fmt.Sprintf("trip/%d.jpg", i)
		ps = append(ps, &photo.Photo{ID: photo.ID(rel), Width: 300, Height: 200, Album: "trip", URL: rel, ThumbURL: rel})
	}

	c := site.DefaultConfig()
	c.OutDir = out
	c.Gallery.Layout.ItemsPerLoad = 2

	s := New(c, site.Assemble(ps, site.DefaultRecent))
	ts := httptest.NewServer(s.Router())
	t.Cleanup(ts.Close)
	return s, ts
}

func get(t *testing.T, url string) (int, []byte) {
	t.Helper()
	resp, err := http.Get(url)
	if err != nil {
		t.Fatalf("get %s: %v", url, err)
	}
	defer resp.Body.Close()
	bs, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	return resp.StatusCode, bs
}

func getLayout(t *testing.T, url string) LayoutResponse {
	t.Helper()
	code, bs := get(t, url)
	if code != http.StatusOK {
		t.Fatalf("%s: status %d: %s", url, code, bs)
	}
	var lr LayoutResponse
	if err := json.Unmarshal(bs, &lr); err != nil {
		t.Fatalf("decode: %v", err)
	}
	return lr
}

func TestHealthAndStatic(t *testing.T) {
	_, ts := newTestServer(t)

	if code, bs := get(t, ts.URL+"/healthz"); code != http.StatusOK || string(bs) != "ok" {
		t.Errorf("/healthz = %d %q", code, bs)
	}
	if code, bs := get(t, ts.URL+"/"); code != http.StatusOK || string(bs) != "hello gallery" {
		t.Errorf("/ = %d %q", code, bs)
	}
}

func TestAlbums(t *testing.T) {
	_, ts := newTestServer(t)
	code, bs := get(t, ts.URL+"/api/albums")
	if code != http.StatusOK {
		t.Fatalf("status %d", code)
	}
	var as []AlbumSummary
	if err := json.Unmarshal(bs, &as); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(as) != 2 || as[0].Path != "trip" || as[0].Photos != 5 || as[1].Path != site.RecentPath {
		t.Errorf("albums = %+v", as)
	}
	if as[0].Cover != "trip/0.jpg" {
		t.Errorf("cover = %q", as[0].Cover)
	}
}

func TestLayoutPages(t *testing.T) {
	_, ts := newTestServer(t)
	base := ts.URL + "/api/layout?album=trip&strategy=simple&width=250"

	tests := []struct {
		page int
		rows int
		more bool
	}{
		{0, 2, true},
		{1, 2, true},
		{2, 1, false},
		{3, 0, false},
	}
	for _, tc := range tests {
		lr := getLayout(t, fmt.Sprintf("%s&page=%d", base, tc.page))
		if len(lr.Rows) != tc.rows || lr.More != tc.more {
			t.Errorf("page %d: %d rows more=%v, want %d %v", tc.page, len(lr.Rows), lr.More, tc.rows, tc.more)
		}
		if lr.ClassName != "gallery-simple-layout" || lr.Width != 250 {
			t.Errorf("page %d: class=%q width=%d", tc.page, lr.ClassName, lr.Width)
		}
	}
}

func TestLayoutDefaults(t *testing.T) {
	_, ts := newTestServer(t)
	lr := getLayout(t, ts.URL+"/api/layout?album=trip")
	if lr.Strategy != "bricky" || lr.Width != site.DefaultContainerWidth {
		t.Errorf("strategy=%s width=%d", lr.Strategy, lr.Width)
	}
	n := 0
	for _, r := range lr.Rows {
		n += len(r.Items)
	}
	if n != 5 || lr.More {
		t.Errorf("placed %d photos more=%v, want all 5 in one batch", n, lr.More)
	}

	// Narrow widths are clamped to the minimum gallery width.
	if lr := getLayout(t, ts.URL+"/api/layout?album=trip&width=10"); lr.Width != 250 {
		t.Errorf("width=10 laid out at %d", lr.Width)
	}
}

func TestLayoutErrors(t *testing.T) {
	_, ts := newTestServer(t)
	tests := map[string]int{
		"/api/layout?album=nope":                 http.StatusNotFound,
		"/api/layout?album=trip&width=wide":      http.StatusBadRequest,
		"/api/layout?album=trip&page=-1":         http.StatusBadRequest,
		"/api/layout?album=trip&strategy=mosaic": http.StatusBadRequest,
	}
	for path, want := range tests {
		if code, _ := get(t, ts.URL+path); code != want {
			t.Errorf("%s: status %d, want %d", path, code, want)
		}
	}
}

func TestSwap(t *testing.T) {
	s, ts := newTestServer(t)
	s.Swap(site.Assemble(nil, site.DefaultRecent))
	if code, _ := get(t, ts.URL+"/api/layout?album=trip"); code != http.StatusNotFound {
		t.Errorf("album survived the swap: status %d", code)
	}
}
