// Package gallery ties a photo sequence, a layout and a lightbox together
// into one interactive session.
package gallery

import (
	"fmt"

	"github.com/tstromberg/brickwall/pkg/history"
	"github.com/tstromberg/brickwall/pkg/layout"
	"github.com/tstromberg/brickwall/pkg/lightbox"
	"github.com/tstromberg/brickwall/pkg/photo"
	"k8s.io/klog/v2"
)

const (
	DefaultMinWidth  = 250
	DefaultThreshold = 200
)

// Options configure a session.
type Options struct {
	Layout layout.Options `yaml:"layout" json:"layout"`
	// MinWidth is the narrowest container a layout is ever asked to fill.
	MinWidth int `yaml:"min_width" json:"minWidth"`
	// Threshold is how close (in pixels) the viewport bottom may get to the
	// gallery bottom before more rows are loaded.
	Threshold int `yaml:"threshold" json:"threshold"`
}

func (o Options) withDefaults() Options {
	if o.MinWidth <= 0 {
		o.MinWidth = DefaultMinWidth
	}
	if o.Threshold <= 0 {
		o.Threshold = DefaultThreshold
	}
	return o
}

// Viewport describes the scroll position relative to the gallery, in pixels.
type Viewport struct {
	ScrollY       float64
	WindowHeight  float64
	GalleryTop    float64
	GalleryHeight float64
}

// ShouldLoadMore reports whether the bottom of the window is within threshold
// pixels of the bottom of the gallery.
func ShouldLoadMore(v Viewport, threshold int) bool {
	remaining := v.GalleryTop + v.GalleryHeight - (v.ScrollY + v.WindowHeight)
	return remaining < float64(threshold)
}

// Session is one gallery on screen. It is not safe for concurrent use.
type Session struct {
	photos []*photo.Photo
	opts   Options
	layout layout.Layout
	width  int
	rows   []layout.Row

	lb        *lightbox.Lightbox
	sink      history.Sink
	presenter lightbox.Presenter
	loader    lightbox.Loader
}

// New returns a session over ps. The layout strategy is validated here.
func New(ps []*photo.Photo, o Options, sink history.Sink, presenter lightbox.Presenter, loader lightbox.Loader) (*Session, error) {
	o = o.withDefaults()
	s := &Session{
		photos:    ps,
		opts:      o,
		sink:      sink,
		presenter: presenter,
		loader:    loader,
	}
	s.width = s.clamp(o.Layout.ContainerWidth)
	if err := s.relayout(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Session) clamp(w int) int {
	if w < s.opts.MinWidth {
		return s.opts.MinWidth
	}
	return w
}

func (s *Session) relayout() error {
	lo := s.opts.Layout
	lo.ContainerWidth = s.width
	l, err := layout.New(lo)
	if err != nil {
		return fmt.Errorf("layout: %w", err)
	}
	s.layout = l
	return nil
}

// Photos returns the session's photo sequence.
func (s *Session) Photos() []*photo.Photo { return s.photos }

// Width returns the container width the layout currently fills.
func (s *Session) Width() int { return s.width }

// Layout returns the active layout.
func (s *Session) Layout() layout.Layout { return s.layout }

// Rows returns every row emitted since the last full layout.
func (s *Session) Rows() []layout.Row { return s.rows }

// Lightbox returns the session's viewer, creating it on first use.
func (s *Session) Lightbox() *lightbox.Lightbox {
	if s.lb == nil {
		s.lb = lightbox.New(s.photos, s.sink, s.presenter, s.loader)
	}
	return s.lb
}

// Init opens the viewer if path links to a photo, then lays out the first batch.
func (s *Session) Init(path string) []layout.Row {
	if i, ok := history.IndexFromPath(path); ok && i < len(s.photos) {
		klog.V(1).Infof("deep link %q opens photo %d", path, i)
		s.Lightbox().Show(s.photos[i], true)
	}
	return s.load()
}

func (s *Session) load() []layout.Row {
	s.rows = append(s.rows[:0], s.layout.Load(s.photos)...)
	return s.rows
}

// Resize lays the gallery out again if the effective width changed. It
// returns the new first batch and whether anything changed.
func (s *Session) Resize(width int) ([]layout.Row, bool) {
	w := s.clamp(width)
	if w == s.width {
		return nil, false
	}
	klog.V(1).Infof("resize %d -> %d", s.width, w)
	s.width = w
	// The strategy was validated by New.
	_ = s.relayout()
	s.rows = nil
	return s.load(), true
}

// LoadMore emits the next batch of rows if the viewport is near the end of the gallery.
func (s *Session) LoadMore(v Viewport) []layout.Row {
	if !ShouldLoadMore(v, s.opts.Threshold) {
		return nil
	}
	return s.More()
}

// More emits the next batch of rows unconditionally.
func (s *Session) More() []layout.Row {
	batch := s.layout.More()
	s.rows = append(s.rows, batch...)
	return batch
}

// Click opens the viewer on the photo with the given ID.
func (s *Session) Click(id string) bool {
	p := photo.ByID(s.photos, id)
	if p == nil {
		return false
	}
	s.Lightbox().Show(p, false)
	return true
}

// Popped forwards a history navigation to the viewer, if one exists.
func (s *Session) Popped(t history.Token) {
	if s.lb == nil {
		return
	}
	s.lb.Popped(t)
}

// Close tears down the viewer and forgets the emitted rows.
func (s *Session) Close() {
	if s.lb != nil && s.lb.Visible() {
		s.lb.SetFullscreen(false)
		s.lb.Close(true)
	}
	s.lb = nil
	s.rows = nil
}
