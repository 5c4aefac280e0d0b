// Package lightbox implements the full-screen photo viewer: which photo is
// shown, how navigation moves between photos, what gets preloaded, and how the
// viewer stays in step with navigation history.
//
// Rendering, image fetching, and history storage are collaborators supplied by
// the caller. A Lightbox is not safe for concurrent use.
package lightbox

import (
	"fmt"

	"github.com/tstromberg/brickwall/pkg/geom"
	"github.com/tstromberg/brickwall/pkg/history"
	"github.com/tstromberg/brickwall/pkg/photo"
)

// Purpose tells a Loader why an image is requested.
type Purpose int

const (
	// Display is the image currently being shown.
	Display Purpose = iota
	// Preload is a neighbour fetched ahead of navigation.
	Preload
)

func (p Purpose) String() string {
	if p == Preload {
		return "preload"
	}
	return "display"
}

// Loader starts fetching an image. It must not block.
type Loader interface {
	Load(p *photo.Photo, purpose Purpose)
}

// Presenter draws the viewer.
type Presenter interface {
	Present(v View)
	SetVisible(visible bool)
	SetFullscreen(fullscreen bool)
}

// View is everything a presenter needs to draw the viewer.
type View struct {
	Photo       *photo.Photo `json:"photo"`
	Index       int          `json:"index"`
	Position    int          `json:"position"`
	Total       int          `json:"total"`
	HasPrevious bool         `json:"hasPrevious"`
	HasNext     bool         `json:"hasNext"`
	Visible     bool         `json:"visible"`
	Fullscreen  bool         `json:"fullscreen"`
}

// Page returns the "3 / 10" position label.
func (v View) Page() string {
	return fmt.Sprintf("%d / %d", v.Position, v.Total)
}

// Lightbox is the viewer state machine. It is either hidden or visible on one
// photo of its sequence.
type Lightbox struct {
	photos     []*photo.Photo
	current    int
	visible    bool
	fullscreen bool
	// pushed is set once the viewer has added a history entry; pops that
	// arrive before that belong to the page load and are ignored.
	pushed    bool
	preloaded map[*photo.Photo]bool

	sink      history.Sink
	presenter Presenter
	loader    Loader
}

// New returns a hidden lightbox over ps. Nil collaborators are replaced by no-ops.
func New(ps []*photo.Photo, sink history.Sink, presenter Presenter, loader Loader) *Lightbox {
	if sink == nil {
		sink = nopSink{}
	}
	if presenter == nil {
		presenter = nopPresenter{}
	}
	if loader == nil {
		loader = nopLoader{}
	}
	return &Lightbox{
		photos:    ps,
		current:   -1,
		preloaded: map[*photo.Photo]bool{},
		sink:      sink,
		presenter: presenter,
		loader:    loader,
	}
}

// Visible reports whether the viewer is shown.
func (lb *Lightbox) Visible() bool { return lb.visible }

// Fullscreen reports whether the viewer is in fullscreen mode.
func (lb *Lightbox) Fullscreen() bool { return lb.fullscreen }

// Current returns the selected photo, or nil if none was ever shown.
func (lb *Lightbox) Current() *photo.Photo {
	if lb.current < 0 {
		return nil
	}
	return lb.photos[lb.current]
}

// Index returns the position of the selected photo, or -1.
func (lb *Lightbox) Index() int { return lb.current }

// View returns the current viewer state.
func (lb *Lightbox) View() View {
	v := View{
		Index:      lb.current,
		Total:      len(lb.photos),
		Visible:    lb.visible,
		Fullscreen: lb.fullscreen,
	}
	if lb.current >= 0 {
		v.Photo = lb.photos[lb.current]
		v.Position = lb.current + 1
		v.HasPrevious = lb.current > 0
		v.HasNext = lb.current < len(lb.photos)-1
	}
	return v
}

// Show displays p. Photos that are not part of the sequence are ignored.
// Unless fromHistory is set, a history entry is pushed for the new position.
func (lb *Lightbox) Show(p *photo.Photo, fromHistory bool) {
	i := photo.IndexOf(lb.photos, p)
	if i < 0 {
		return
	}
	lb.current = i
	if !lb.visible {
		lb.visible = true
		lb.presenter.SetVisible(true)
		lb.preload(1)
	}
	lb.loader.Load(p, Display)
	if !fromHistory {
		lb.push(history.Selected(i))
	}
	lb.presenter.Present(lb.View())
}

// Next shows the following photo, if any, and preloads the two after it.
func (lb *Lightbox) Next() { lb.step(1) }

// Previous shows the preceding photo, if any, and preloads the two before it.
func (lb *Lightbox) Previous() { lb.step(-1) }

func (lb *Lightbox) step(dir int) {
	if !lb.visible {
		return
	}
	if j := lb.current + dir; j >= 0 && j < len(lb.photos) {
		lb.Show(lb.photos[j], false)
	}
	lb.preload(dir)
	lb.preload(2 * dir)
}

// preload requests the photo at offset d from the current one, at most once per photo.
func (lb *Lightbox) preload(d int) {
	j := lb.current + d
	if j < 0 || j >= len(lb.photos) {
		return
	}
	p := lb.photos[j]
	if lb.preloaded[p] {
		return
	}
	lb.preloaded[p] = true
	lb.loader.Load(p, Preload)
}

// Close leaves fullscreen if active, and otherwise hides the viewer.
func (lb *Lightbox) Close(fromHistory bool) {
	if lb.fullscreen {
		lb.SetFullscreen(false)
		return
	}
	if !lb.visible {
		return
	}
	lb.visible = false
	lb.presenter.SetVisible(false)
	if !fromHistory {
		lb.push(history.None())
	}
}

// Popped applies a history entry the user navigated to.
func (lb *Lightbox) Popped(t history.Token) {
	if !lb.pushed {
		return
	}
	if i, ok := t.Selection(); ok && i >= 0 && i < len(lb.photos) {
		lb.Show(lb.photos[i], true)
		return
	}
	lb.Close(true)
}

// ToggleFullscreen switches fullscreen mode on or off.
func (lb *Lightbox) ToggleFullscreen() {
	lb.SetFullscreen(!lb.fullscreen)
}

// SetFullscreen records a fullscreen change, including ones made outside the viewer.
func (lb *Lightbox) SetFullscreen(on bool) {
	if lb.fullscreen == on {
		return
	}
	lb.fullscreen = on
	lb.presenter.SetFullscreen(on)
	if lb.visible {
		lb.presenter.Present(lb.View())
	}
}

// Fit returns the size at which the current photo fits inside w x h.
func (lb *Lightbox) Fit(w, h float64) (geom.Size, bool) {
	p := lb.Current()
	if p == nil {
		return geom.Size{}, false
	}
	return geom.Fit(p.AspectRatio(), w, h), true
}

// push records t unless the viewer is fullscreen; fullscreen browsing leaves history alone.
func (lb *Lightbox) push(t history.Token) {
	if lb.fullscreen {
		return
	}
	lb.pushed = true
	lb.sink.Push(t)
}

type nopSink struct{}

func (nopSink) Push(history.Token) {}

type nopPresenter struct{}

func (nopPresenter) Present(View)       {}
func (nopPresenter) SetVisible(bool)    {}
func (nopPresenter) SetFullscreen(bool) {}

type nopLoader struct{}

func (nopLoader) Load(*photo.Photo, Purpose) {}
