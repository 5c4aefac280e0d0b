package site

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/tstromberg/brickwall/pkg/photo"
)

func readFile(t *testing.T, path string) string {
	t.Helper()
	bs, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	return string(bs)
}

func TestRender(t *testing.T) {
	in := t.TempDir()
	out := t.TempDir()

	ps := []*photo.Photo{
		testPhoto("Iceland/glacier.jpg", time.Date(2024, 6, 2, 0, 0, 0, 0, time.UTC), "fav"),
		testPhoto("Iceland/geysir.jpg", time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC), "fav"),
	}
	ps[0].Meta = photo.Meta{Camera: "Fujifilm X100V", ISO: 400}
	for _, p := range ps {
		p.Path = filepath.Join(in, filepath.FromSlash(p.RelPath))
		writeFile(t, p.Path, "not really a jpeg")
	}

	c := DefaultConfig()
	c.InDirs = []string{in}
	c.OutDir = out
	c.Collection = "Travels"
	a := Assemble(ps, DefaultRecent)

	if err := Render(c, a); err != nil {
		t.Fatalf("Render: %v", err)
	}

	if got := readFile(t, filepath.Join(out, "iceland", "glacier.jpg")); got != "not really a jpeg" {
		t.Errorf("original copy = %q", got)
	}

	idx := readFile(t, filepath.Join(out, "index.html"))
	for _, want := range []string{"Travels", `href="iceland/"`, `href="tags/all/"`, `href="recent/"`} {
		if !strings.Contains(idx, want) {
			t.Errorf("index.html does not contain %q", want)
		}
	}

	album := readFile(t, filepath.Join(out, "iceland", "index.html"))
	for _, want := range []string{"gallery-bricky-layout", `href="1/"`, `href="2/"`, `src="../iceland/glacier.jpg"`, `data-batch="0"`} {
		if !strings.Contains(album, want) {
			t.Errorf("album page does not contain %q", want)
		}
	}

	var m Manifest
	if err := json.Unmarshal([]byte(readFile(t, filepath.Join(out, "iceland", ManifestName))), &m); err != nil {
		t.Fatalf("manifest: %v", err)
	}
	if m.ClassName != "gallery-bricky-layout" || len(m.Photos) != 2 || m.Photos[0].ID != ps[0].ID {
		t.Errorf("manifest = %+v", m)
	}

	first := readFile(t, filepath.Join(out, "iceland", "1", "index.html"))
	for _, want := range []string{"1 / 2", "Fujifilm X100V", "ISO 400", `src="../../iceland/glacier.jpg"`, `href="../2/"`} {
		if !strings.Contains(first, want) {
			t.Errorf("first viewer page does not contain %q", want)
		}
	}
	last := readFile(t, filepath.Join(out, "tags", "all", "2", "index.html"))
	if !strings.Contains(last, "2 / 2") || !strings.Contains(last, `src="../../../iceland/geysir.jpg"`) {
		t.Errorf("last favourite viewer page is wrong:\n%s", last)
	}

	// A second render over the same output succeeds.
	if err := Render(c, a); err != nil {
		t.Errorf("second Render: %v", err)
	}
}

func TestBatches(t *testing.T) {
	ps := []*photo.Photo{}
	for i := 0; i < 5; i++ {
		ps = append(ps, testPhoto("a/"+string(rune('a'+i))+".jpg", time.Time{}))
	}
	c := DefaultConfig()
	c.Gallery = galleryWith("simple")
	c.Gallery.Layout.ItemsPerLoad = 2
	c.Gallery.Layout.ContainerWidth = 250

	s, err := c.Session(&Album{Photos: ps}, 0, "")
	if err != nil {
		t.Fatalf("Session: %v", err)
	}
	bs := Batches(s)
	if len(bs) != 3 {
		t.Fatalf("got %d batches, want 3", len(bs))
	}
	n := 0
	for i, b := range bs {
		if b.Number != i {
			t.Errorf("batch %d numbered %d", i, b.Number)
		}
		for _, r := range b.Rows {
			n += len(r.Items)
		}
	}
	if n != len(ps) {
		t.Errorf("batches hold %d photos, want %d", n, len(ps))
	}
}

func TestRootFor(t *testing.T) {
	tests := map[string]string{
		"":         "",
		"recent":   "../",
		"tags/all": "../../",
		"/a/b/c/":  "../../../",
	}
	for in, want := range tests {
		if got := rootFor(in); got != want {
			t.Errorf("rootFor(%q) = %q, want %q", in, got, want)
		}
	}
}
