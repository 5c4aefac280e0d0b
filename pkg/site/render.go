package site

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"html/template"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/otiai10/copy"
	"k8s.io/klog/v2"

	"github.com/tstromberg/brickwall/pkg/gallery"
	"github.com/tstromberg/brickwall/pkg/geom"
	"github.com/tstromberg/brickwall/pkg/layout"
	"github.com/tstromberg/brickwall/pkg/lightbox"
	"github.com/tstromberg/brickwall/pkg/photo"
)

//go:embed assets/index.tmpl
var idxTmpl string

//go:embed assets/album.tmpl
var albumTmpl string

//go:embed assets/viewer.tmpl
var viewerTmpl string

//go:embed assets/style.css
var styleText string

// ManifestName is the per-album JSON description of its photos.
var ManifestName = "photos.json"

// Manifest is the content of an album's photos.json.
type Manifest struct {
	Title     string          `json:"title"`
	Strategy  layout.Strategy `json:"strategy"`
	ClassName string          `json:"className"`
	Photos    []*photo.Photo  `json:"photos"`
}

// Batch is one lazy-load step of a gallery: Number 0 is the initial load.
type Batch struct {
	Number int          `json:"batch"`
	Rows   []layout.Row `json:"rows"`
}

// Session returns a gallery session over an album at the given width.
func (c *Config) Session(a *Album, width int, st layout.Strategy) (*gallery.Session, error) {
	o := c.Gallery
	if width > 0 {
		o.Layout.ContainerWidth = width
	}
	if st != "" {
		o.Layout.Strategy = st
	}
	return gallery.New(a.Photos, o, nil, nil, nil)
}

// Batches lays out every photo of a session, one entry per lazy-load step.
func Batches(s *gallery.Session) []Batch {
	bs := []Batch{{Number: 0, Rows: s.Init("/")}}
	for rows := s.More(); len(rows) > 0; rows = s.More() {
		bs = append(bs, Batch{Number: len(bs), Rows: rows})
	}
	return bs
}

// Render writes the assembly as a static site below c.OutDir.
func Render(c *Config, a *Assembly) error {
	if err := os.MkdirAll(c.OutDir, 0o755); err != nil {
		return fmt.Errorf("mkdir: %w", err)
	}

	if err := copyOriginals(a.Photos, c.OutDir); err != nil {
		return fmt.Errorf("copy originals: %w", err)
	}

	if c.AssetsDir != "" {
		if err := copyAssets(c.AssetsDir, c.OutDir); err != nil {
			return fmt.Errorf("copyAssets: %w", err)
		}
	}

	if err := writeAlbums(c, a.Albums); err != nil {
		return fmt.Errorf("write albums: %w", err)
	}

	if err := writeAlbums(c, a.Favorites); err != nil {
		return fmt.Errorf("write favorites: %w", err)
	}

	if err := writeAlbums(c, []*Album{a.Recent}); err != nil {
		return fmt.Errorf("write recent: %w", err)
	}

	if err := writeIndex(c, a); err != nil {
		return fmt.Errorf("write index: %w", err)
	}

	return nil
}

// copyOriginals copies photos into the site unless an up to date copy exists.
func copyOriginals(ps []*photo.Photo, outDir string) error {
	for _, p := range ps {
		dst := filepath.Join(outDir, filepath.FromSlash(p.URL))
		sst, err := os.Stat(p.Path)
		if err != nil {
			return fmt.Errorf("stat: %w", err)
		}

		dt, err := os.Stat(dst)
		if err == nil && dt.Size() == sst.Size() && !sst.ModTime().After(dt.ModTime()) {
			continue
		}

		klog.V(1).Infof("copying %s -> %s", p.Path, dst)
		if err := copy.Copy(p.Path, dst); err != nil {
			return fmt.Errorf("copy: %w", err)
		}
	}
	return nil
}

func copyAssets(inDir string, outDir string) error {
	for _, ext := range []string{"png", "css", "jpg", "gif", "svg"} {
		src := fmt.Sprintf("%s/*.%s", inDir, ext)
		ms, err := filepath.Glob(src)
		klog.V(1).Infof("copying %d assets from %s", len(ms), src)
		if err != nil {
			return err
		}
		for _, m := range ms {
			if err := copy.Copy(m, filepath.Join(outDir, "_", filepath.Base(m))); err != nil {
				return err
			}
		}
	}
	return nil
}

func writeIndex(c *Config, a *Assembly) error {
	klog.V(1).Infof("writing album index with %d albums ...", len(a.Albums))
	bs, err := renderIndex(c, a)
	if err != nil {
		return fmt.Errorf("render index: %w", err)
	}

	p := filepath.Join(c.OutDir, "index.html")
	klog.V(1).Infof("Writing album index to %s", p)
	return os.WriteFile(p, bs, 0o644)
}

func writeAlbums(c *Config, as []*Album) error {
	klog.Infof("Writing out %d albums ...", len(as))
	for _, a := range as {
		if err := writeAlbum(c, a); err != nil {
			return fmt.Errorf("%s: %w", a.Path, err)
		}
	}
	return nil
}

func writeAlbum(c *Config, a *Album) error {
	klog.V(1).Infof("rendering album %s [%s] with %d photos ...", a.Title, a.Path, len(a.Photos))
	dir := filepath.Join(c.OutDir, filepath.FromSlash(a.Path))
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("mkdir: %w", err)
	}

	s, err := c.Session(a, 0, "")
	if err != nil {
		return err
	}

	bs, err := renderAlbum(c, a, s)
	if err != nil {
		return fmt.Errorf("render album: %w", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "index.html"), bs, 0o644); err != nil {
		return fmt.Errorf("write file: %w", err)
	}

	m := Manifest{
		Title:     a.Title,
		Strategy:  s.Layout().Name(),
		ClassName: layout.ClassName(s.Layout().Name()),
		Photos:    a.Photos,
	}
	js, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal: %w", err)
	}
	if err := os.WriteFile(filepath.Join(dir, ManifestName), js, 0o644); err != nil {
		return fmt.Errorf("write manifest: %w", err)
	}

	return writeViewers(c, a)
}

// writeViewers writes one lightbox page per photo at <album>/<n>/index.html.
func writeViewers(c *Config, a *Album) error {
	lb := lightbox.New(a.Photos, nil, nil, nil)
	for i, p := range a.Photos {
		lb.Show(p, true)
		bs, err := renderViewer(c, a, lb)
		if err != nil {
			return fmt.Errorf("render viewer: %w", err)
		}

		dir := filepath.Join(c.OutDir, filepath.FromSlash(a.Path), strconv.Itoa(i+1))
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("mkdir: %w", err)
		}
		if err := os.WriteFile(filepath.Join(dir, "index.html"), bs, 0o644); err != nil {
			return fmt.Errorf("write file: %w", err)
		}
	}
	return nil
}

// rootFor returns the relative path from an output directory back to the site root.
func rootFor(dir string) string {
	dir = strings.Trim(dir, "/")
	if dir == "" {
		return ""
	}
	return strings.Repeat("../", strings.Count(dir, "/")+1)
}

func renderAlbum(c *Config, a *Album, s *gallery.Session) ([]byte, error) {
	tmpl, err := template.New("album").Funcs(tmplFunctions()).Parse(albumTmpl)
	if err != nil {
		return nil, fmt.Errorf("parse: %w", err)
	}

	pos := map[string]int{}
	for i, p := range a.Photos {
		pos[p.ID] = i + 1
	}

	data := struct {
		Collection string
		Title      string
		Root       string
		Class      string
		Width      int
		Margin     int
		Batches    []Batch
		Positions  map[string]int
		Style      template.CSS
	}{
		Collection: c.Collection,
		Title:      a.Title,
		Root:       rootFor(a.Path),
		Class:      layout.ClassName(s.Layout().Name()),
		Width:      s.Width(),
		Margin:     c.Gallery.Layout.ItemMargin,
		Batches:    Batches(s),
		Positions:  pos,
		Style:      template.CSS(styleText),
	}

	var tpl bytes.Buffer
	if err = tmpl.Execute(&tpl, data); err != nil {
		return nil, fmt.Errorf("execute: %w", err)
	}
	return tpl.Bytes(), nil
}

func renderViewer(c *Config, a *Album, lb *lightbox.Lightbox) ([]byte, error) {
	tmpl, err := template.New("viewer").Funcs(tmplFunctions()).Parse(viewerTmpl)
	if err != nil {
		return nil, fmt.Errorf("parse: %w", err)
	}

	size, _ := lb.Fit(float64(c.Viewport.Width), float64(c.Viewport.Height))
	data := struct {
		Collection string
		Root       string
		Album      *Album
		View       lightbox.View
		Size       geom.Size
		Image      string
		Style      template.CSS
	}{
		Collection: c.Collection,
		Root:       rootFor(a.Path) + "../",
		Album:      a,
		View:       lb.View(),
		Size:       size,
		Image:      lb.Current().PreviewURL(c.Viewport.Width),
		Style:      template.CSS(styleText),
	}

	var tpl bytes.Buffer
	if err = tmpl.Execute(&tpl, data); err != nil {
		return nil, fmt.Errorf("execute: %w", err)
	}
	return tpl.Bytes(), nil
}

func renderIndex(c *Config, a *Assembly) ([]byte, error) {
	tmpl, err := template.New("album index").Funcs(tmplFunctions()).Parse(idxTmpl)
	if err != nil {
		return nil, fmt.Errorf("parse: %w", err)
	}

	data := struct {
		Collection  string
		Description string
		Albums      []*Album
		Favorites   []*Album
		Recent      *Album
		Style       template.CSS
	}{
		Collection:  c.Collection,
		Description: c.Description,
		Albums:      a.Albums,
		Favorites:   a.Favorites,
		Recent:      a.Recent,
		Style:       template.CSS(styleText),
	}

	var tpl bytes.Buffer
	if err = tmpl.Execute(&tpl, data); err != nil {
		return nil, fmt.Errorf("execute: %w", err)
	}
	return tpl.Bytes(), nil
}

// tmplFunctions are functions available to our templates.
func tmplFunctions() template.FuncMap {
	return template.FuncMap{
		"px": func(v float64) int {
			return int(math.Floor(v))
		},
		"inc": func(i int) int {
			return i + 1
		},
		"scaled": func(it layout.Item) float64 {
			if it.ScaledWidth > 0 {
				return it.ScaledWidth
			}
			return it.Width
		},
		"thumb": func(it layout.Item) string {
			w := it.Width
			if it.ScaledWidth > 0 {
				w = it.ScaledWidth
			}
			return it.Photo.SizedURL(w, it.Height)
		},
		"Month": func(a *Album) string {
			d := a.Newest()
			if d.IsZero() {
				return ""
			}
			return d.Format("Jan 2006")
		},
	}
}
