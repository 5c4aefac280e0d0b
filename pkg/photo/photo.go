// Package photo describes the photographs a gallery is built from.
package photo

import (
	"fmt"
	"math"
	"strings"
	"time"
)

// Orientation is the single-character shape class of a photo.
type Orientation byte

const (
	Portrait  Orientation = 'P'
	Landscape Orientation = 'L'
	Panorama  Orientation = '='
)

func (o Orientation) String() string {
	return string(o)
}

// Meta is the camera metadata shown alongside a photo in the viewer.
type Meta struct {
	DateTime     string `json:"dateTime,omitempty"`
	Camera       string `json:"camera,omitempty"`
	FocalLength  string `json:"focalLength,omitempty"`
	ExposureTime string `json:"exposureTime,omitempty"`
	Aperture     string `json:"aperture,omitempty"`
	ISO          int64  `json:"iso,omitempty"`
	FileSize     int64  `json:"fileSize,omitempty"`
}

// Photo represents a photo with its metadata. Layouts never modify it.
type Photo struct {
	ID          string `json:"id"`
	Width       int64  `json:"width"`
	Height      int64  `json:"height"`
	ThumbURL    string `json:"thumbUrl"`
	URL         string `json:"url"`
	Title       string `json:"title,omitempty"`
	Description string `json:"description,omitempty"`
	Meta        Meta   `json:"meta"`

	Path     string    `json:"-"`
	RelPath  string    `json:"-"`
	Album    string    `json:"-"`
	Keywords []string  `json:"keywords,omitempty"`
	Taken    time.Time `json:"-"`
	ModTime  time.Time `json:"-"`
}

// AspectRatio returns width/height. Photos without usable dimensions are treated as square.
func (p *Photo) AspectRatio() float64 {
	if p.Width <= 0 || p.Height <= 0 {
		return 1
	}
	return float64(p.Width) / float64(p.Height)
}

// IsLandscape reports whether the photo is wider than it is tall.
func (p *Photo) IsLandscape() bool {
	return p.Width > p.Height
}

// IsPanorama reports whether the photo is more than twice as wide as it is tall.
func (p *Photo) IsPanorama() bool {
	return p.AspectRatio() > 2
}

// Orientation classifies the photo. It is computed on every call.
func (p *Photo) Orientation() Orientation {
	switch {
	case p.IsPanorama():
		return Panorama
	case p.IsLandscape():
		return Landscape
	default:
		return Portrait
	}
}

// Pattern returns the concatenated orientation codes of ps, e.g. "PLP".
func Pattern(ps []*Photo) string {
	var b strings.Builder
	for _, p := range ps {
		b.WriteByte(byte(p.Orientation()))
	}
	return b.String()
}

// sizeToken is the placeholder in ThumbURL replaced by a requested size.
const sizeToken = "{0}"

// SquareURL is the URL of a 200x200 square thumbnail.
func (p *Photo) SquareURL() string {
	return strings.Replace(p.ThumbURL, sizeToken, "200x200", 1)
}

// SizedURL is the URL of a thumbnail of the given rendered size.
func (p *Photo) SizedURL(w, h float64) string {
	return strings.Replace(p.ThumbURL, sizeToken, fmt.Sprintf("%dx%d", int(math.Floor(w)), int(math.Floor(h))), 1)
}

// HeightURL is the URL of a thumbnail with a fixed height, e.g. "220x".
func (p *Photo) HeightURL(h int) string {
	return strings.Replace(p.ThumbURL, sizeToken, fmt.Sprintf("%dx", h), 1)
}

// PreviewURL is the URL of the display-resolution image for a viewport of the given width.
func (p *Photo) PreviewURL(viewportWidth int) string {
	size := "1024x"
	if viewportWidth > 1024 {
		size = "1600x"
	}
	return strings.Replace(p.ThumbURL, sizeToken, size, 1)
}

// OriginalURL is the URL of the full-size original.
func (p *Photo) OriginalURL() string {
	return p.URL
}

// AllSizesURL is the URL of the page listing every available size.
func (p *Photo) AllSizesURL() string {
	return strings.Replace(p.URL, "/photos", "/photos/sizes", 1)
}

// ThumbTemplate expands the {path} placeholder of a thumbnail URL template.
// The size placeholder {0} is left for the renderer.
func ThumbTemplate(tmpl string, url string) string {
	if tmpl == "" {
		return url
	}
	return strings.ReplaceAll(tmpl, "{path}", url)
}

// IndexOf returns the position of p in ps by identity, or -1.
func IndexOf(ps []*Photo, p *Photo) int {
	if p == nil {
		return -1
	}
	for i, x := range ps {
		if x == p {
			return i
		}
	}
	return -1
}

// ByID returns the photo with the given ID, or nil.
func ByID(ps []*Photo, id string) *Photo {
	for _, p := range ps {
		if p.ID == id {
			return p
		}
	}
	return nil
}
