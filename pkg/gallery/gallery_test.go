package gallery

import (
	"fmt"
	"testing"

	"github.com/tstromberg/brickwall/pkg/history"
	"github.com/tstromberg/brickwall/pkg/layout"
	"github.com/tstromberg/brickwall/pkg/lightbox"
	"github.com/tstromberg/brickwall/pkg/photo"
)

type sink struct{ pushes []history.Token }

func (s *sink) Push(t history.Token) { s.pushes = append(s.pushes, t) }

type presenter struct{ views []lightbox.View }

func (p *presenter) Present(v lightbox.View) { p.views = append(p.views, v) }
func (p *presenter) SetVisible(bool)         {}
func (p *presenter) SetFullscreen(bool)      {}

func photos(n int) []*photo.Photo {
	ps := make([]*photo.Photo, n)
	for i := range ps {
		ps[i] = &photo.Photo{ID: fmt.Sprintf("p%d", i), Width: 300, Height: 200}
	}
	return ps
}

// gridOptions yields one thumbnail per row and one row per batch at the minimum width.
func gridOptions() Options {
	return Options{Layout: layout.Options{Strategy: layout.FixedGrid, ItemsPerLoad: 1}}
}

func TestNewRejectsUnknownStrategy(t *testing.T) {
	_, err := New(photos(1), Options{Layout: layout.Options{Strategy: "mosaic"}}, nil, nil, nil)
	if err == nil {
		t.Errorf("New accepted an unknown strategy")
	}
}

func TestMinWidth(t *testing.T) {
	s, err := New(photos(3), Options{}, nil, nil, nil)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if s.Width() != DefaultMinWidth {
		t.Errorf("width = %d, want %d", s.Width(), DefaultMinWidth)
	}
	if s.Layout().Name() != layout.RowPacker {
		t.Errorf("default layout = %s", s.Layout().Name())
	}
}

func TestInitDeepLink(t *testing.T) {
	ps := photos(3)
	sk := &sink{}
	pr := &presenter{}
	s, err := New(ps, gridOptions(), sk, pr, nil)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	rows := s.Init("/trips/iceland/2")
	if len(rows) != 1 {
		t.Errorf("Init returned %d rows, want 1", len(rows))
	}
	lb := s.Lightbox()
	if !lb.Visible() || lb.Current() != ps[1] {
		t.Errorf("deep link: visible=%v index=%d", lb.Visible(), lb.Index())
	}
	if len(sk.pushes) != 0 {
		t.Errorf("deep link pushed history: %v", sk.pushes)
	}
	if len(pr.views) != 1 || pr.views[0].Page() != "2 / 3" {
		t.Errorf("views = %+v", pr.views)
	}
}

func TestInitIgnoresBadLinks(t *testing.T) {
	for _, path := range []string{"/trips/iceland", "/trips/iceland/4", "/trips/iceland/0"} {
		s, err := New(photos(3), gridOptions(), nil, nil, nil)
		if err != nil {
			t.Fatalf("New: %v", err)
		}
		s.Init(path)
		if s.Lightbox().Visible() {
			t.Errorf("Init(%q) opened the viewer", path)
		}
	}
}

func TestResize(t *testing.T) {
	o := gridOptions()
	o.Layout.ItemsPerLoad = 10
	s, err := New(photos(4), o, nil, nil, nil)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if got := len(s.Init("/")); got != 4 {
		t.Fatalf("Init rows = %d, want 4", got)
	}

	if _, changed := s.Resize(100); changed {
		t.Errorf("resize below the minimum width relaid the gallery")
	}
	rows, changed := s.Resize(450)
	if !changed || len(rows) != 2 || s.Width() != 450 {
		t.Errorf("Resize(450): changed=%v rows=%d width=%d", changed, len(rows), s.Width())
	}
	if len(s.Rows()) != 2 {
		t.Errorf("Rows() = %d, want 2", len(s.Rows()))
	}
	if _, changed := s.Resize(450); changed {
		t.Errorf("same width relaid the gallery")
	}
}

func TestShouldLoadMore(t *testing.T) {
	tests := []struct {
		v    Viewport
		want bool
	}{
		{Viewport{ScrollY: 0, WindowHeight: 800, GalleryTop: 100, GalleryHeight: 2000}, false},
		{Viewport{ScrollY: 1100, WindowHeight: 800, GalleryTop: 100, GalleryHeight: 2000}, false},
		{Viewport{ScrollY: 1200, WindowHeight: 800, GalleryTop: 100, GalleryHeight: 2000}, true},
		{Viewport{ScrollY: 0, WindowHeight: 800, GalleryTop: 100, GalleryHeight: 300}, true},
	}
	for _, tc := range tests {
		if got := ShouldLoadMore(tc.v, DefaultThreshold); got != tc.want {
			t.Errorf("ShouldLoadMore(%+v) = %v, want %v", tc.v, got, tc.want)
		}
	}
}

func TestLoadMore(t *testing.T) {
	s, err := New(photos(3), gridOptions(), nil, nil, nil)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	s.Init("/")

	far := Viewport{WindowHeight: 800, GalleryHeight: 5000}
	if rows := s.LoadMore(far); len(rows) != 0 {
		t.Errorf("LoadMore far from the bottom emitted %d rows", len(rows))
	}
	near := Viewport{WindowHeight: 800, GalleryHeight: 900}
	for i := 0; i < 2; i++ {
		if rows := s.LoadMore(near); len(rows) != 1 {
			t.Errorf("LoadMore #%d emitted %d rows, want 1", i, len(rows))
		}
	}
	if rows := s.LoadMore(near); len(rows) != 0 {
		t.Errorf("LoadMore after the end emitted %d rows", len(rows))
	}
	if len(s.Rows()) != 3 {
		t.Errorf("Rows() = %d, want 3", len(s.Rows()))
	}
}

func TestClickAndPop(t *testing.T) {
	ps := photos(3)
	sk := &sink{}
	s, err := New(ps, gridOptions(), sk, nil, nil)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	// No viewer yet: a pop is ignored without creating one.
	s.Popped(history.Selected(0))
	if s.lb != nil {
		t.Errorf("Popped created a viewer")
	}

	if s.Click("nope") {
		t.Errorf("Click on an unknown id succeeded")
	}
	if !s.Click("p2") || s.Lightbox().Index() != 2 {
		t.Errorf("Click(p2) did not open photo 2")
	}
	if len(sk.pushes) != 1 {
		t.Errorf("pushes = %d, want 1", len(sk.pushes))
	}

	s.Popped(history.Selected(0))
	if s.Lightbox().Index() != 0 {
		t.Errorf("pop to index 0 landed on %d", s.Lightbox().Index())
	}
	s.Popped(history.None())
	if s.Lightbox().Visible() {
		t.Errorf("pop to no selection left the viewer open")
	}

	s.Close()
	if s.lb != nil || s.Rows() != nil {
		t.Errorf("Close left state behind")
	}
}
