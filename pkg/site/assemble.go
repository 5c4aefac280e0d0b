package site

import (
	"fmt"
	"path"
	"path/filepath"
	"slices"
	"sort"
	"strings"
	"time"

	"github.com/gosimple/slug"
	"go.uber.org/multierr"
	"k8s.io/klog/v2"

	"github.com/tstromberg/brickwall/pkg/metacache"
	"github.com/tstromberg/brickwall/pkg/photo"
)

var favKeyword = "fav"

// RecentPath is the output path of the album of newest photos.
var RecentPath = "recent"

// Album is an ordered collection of photos rendered as one gallery page.
type Album struct {
	Title string
	// Path is the URL-safe output directory relative to the site root.
	Path   string
	Hier   []string
	Photos []*photo.Photo
}

// Newest returns when the most recent photo of the album was taken.
func (a *Album) Newest() time.Time {
	d := time.Time{}
	for _, p := range a.Photos {
		if p.Taken.After(d) {
			d = p.Taken
		}
	}
	return d
}

// Cover returns the photo representing the album.
func (a *Album) Cover() *photo.Photo {
	if len(a.Photos) == 0 {
		return nil
	}
	return a.Photos[0]
}

// an Assembly is an assembled collection of photos.
type Assembly struct {
	Photos    []*photo.Photo
	Albums    []*Album
	Favorites []*Album
	Recent    *Album
}

// All returns every album of the assembly, the recent album last.
func (a *Assembly) All() []*Album {
	as := slices.Concat(a.Albums, a.Favorites)
	if a.Recent != nil {
		as = append(as, a.Recent)
	}
	return as
}

// Album returns the album with the given output path, or nil.
func (a *Assembly) Album(p string) *Album {
	p = strings.Trim(p, "/")
	for _, al := range a.All() {
		if al.Path == p {
			return al
		}
	}
	return nil
}

// Collect finds the photos of every input directory and assembles them.
// Photos that cannot be read are logged and left out.
func Collect(c *Config) (*Assembly, error) {
	klog.Infof("collect: %s -> %s", c.InDirs, c.OutDir)

	f := &photo.Finder{ThumbTemplate: c.ThumbTemplate}
	if c.CachePath != "" {
		mc, err := metacache.Open(c.CachePath)
		if err != nil {
			return nil, fmt.Errorf("metacache: %w", err)
		}
		defer mc.Close()
		f.Cache = mc
	}

	ps := []*photo.Photo{}
	prefixes := RootPrefixes(c.InDirs)
	for i, d := range c.InDirs {
		f.Prefix = prefixes[i]
		found, err := f.Find(d)
		if found == nil {
			return nil, fmt.Errorf("find %s: %w", d, err)
		}
		if err != nil {
			errs := multierr.Errors(err)
			klog.Warningf("%s: skipped %d unreadable files, first: %v", d, len(errs), errs[0])
		}
		ps = append(ps, found...)
	}
	photo.Sort(ps)

	return Assemble(ps, c.Recent), nil
}

// RootPrefixes returns the path prefix for the photos of each input directory.
// A single directory needs none; otherwise each uses its base name, numbered
// when two directories share one.
func RootPrefixes(dirs []string) []string {
	prefixes := make([]string, len(dirs))
	if len(dirs) < 2 {
		return prefixes
	}
	seen := map[string]int{}
	for i, d := range dirs {
		base := filepath.Base(filepath.Clean(d))
		if base == "." || base == string(filepath.Separator) {
			base = "root"
		}
		seen[base]++
		prefixes[i] = base
		if n := seen[base]; n > 1 {
			prefixes[i] = fmt.Sprintf("%s-%d", base, n)
		}
	}
	return prefixes
}

// Assemble groups photos into directory albums, favourite albums and a recent album.
func Assemble(ps []*photo.Photo, recent int) *Assembly {
	albums := map[string]*Album{}
	favs := map[string]*Album{}

	for _, p := range ps {
		rd := filepath.ToSlash(p.Album)
		if albums[rd] == nil {
			albums[rd] = newDirAlbum(rd)
		}
		albums[rd].Photos = append(albums[rd].Photos, p)

		if !slices.Contains(p.Keywords, favKeyword) {
			continue
		}

		for _, k := range p.Keywords {
			if k == favKeyword {
				k = "all"
			}
			if favs[k] == nil {
				favs[k] = &Album{
					Title: k,
					Path:  path.Join("tags", slug.Make(k)),
					Hier:  []string{"tags", k},
				}
			}
			favs[k].Photos = append(favs[k].Photos, p)
		}
	}

	as := []*Album{}
	for _, a := range albums {
		as = append(as, a)
	}
	sort.Slice(as, func(i, j int) bool {
		return as[i].Path < as[j].Path
	})

	fs := []*Album{}
	for _, f := range favs {
		if len(f.Photos) > 1 {
			fs = append(fs, f)
		}
	}
	sort.Slice(fs, func(i, j int) bool {
		return fs[i].Title < fs[j].Title
	})

	rs := ps
	if recent > 0 && len(rs) > recent {
		rs = rs[:recent]
	}

	return &Assembly{
		Photos:    ps,
		Albums:    as,
		Favorites: fs,
		Recent:    &Album{Title: "Recent", Path: RecentPath, Hier: []string{RecentPath}, Photos: rs},
	}
}

func newDirAlbum(rd string) *Album {
	if rd == "." || rd == "" {
		return &Album{Title: "Unsorted", Path: "unsorted", Hier: []string{"unsorted"}}
	}
	return &Album{
		Title: path.Base(rd),
		Path:  photo.URLSafePath(rd),
		Hier:  strings.Split(rd, "/"),
	}
}
