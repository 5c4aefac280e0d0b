package tui

import (
	"fmt"

	"github.com/tstromberg/brickwall/pkg/lightbox"
	"github.com/tstromberg/brickwall/pkg/photo"
)

// screen is the terminal side of the lightbox: it remembers what the viewer
// asked to be drawn and which images were requested.
type screen struct {
	view       lightbox.View
	visible    bool
	fullscreen bool
	lastLoad   string
	preloads   int
}

func (s *screen) Present(v lightbox.View) { s.view = v }
func (s *screen) SetVisible(on bool)      { s.visible = on }
func (s *screen) SetFullscreen(on bool)   { s.fullscreen = on }

func (s *screen) Load(p *photo.Photo, purpose lightbox.Purpose) {
	if purpose == lightbox.Preload {
		s.preloads++
		return
	}
	s.lastLoad = fmt.Sprintf("loading %s", p.URL)
}
