package photo

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/barasher/go-exiftool"
	"github.com/google/uuid"
	"github.com/gosimple/slug"
	"github.com/karrick/godirwalk"
	"github.com/maruel/natural"
	"go.uber.org/multierr"
	"k8s.io/klog/v2"
)

var exifDate = "2006:01:02 15:04:05"

// DisplayDate is the layout of Meta.DateTime.
var DisplayDate = "2006-01-02 15:04"

// Cache stores previously extracted metadata so rescans can skip exiftool.
type Cache interface {
	Lookup(path string, modTime time.Time, size int64) (*Photo, bool)
	Store(p *Photo, size int64) error
}

// Finder discovers photos below a directory.
type Finder struct {
	// ThumbTemplate is a URL template with {path} and {0} placeholders.
	ThumbTemplate string
	Cache         Cache
	// Prefix is prepended to relative paths so photos from several roots stay distinct.
	Prefix string
}

func isPhoto(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".jpg", ".jpeg":
		return true
	}
	return false
}

// fromMetadata converts exiftool output into a Photo.
func fromMetadata(fi exiftool.FileMetadata) (Photo, error) {
	p := Photo{}
	if fi.Err != nil {
		return p, fmt.Errorf("extract fail for %q: %w", fi.File, fi.Err)
	}

	for k, v := range fi.Fields {
		klog.V(3).Infof("%q=%v", k, v)
	}

	var err error
	p.Height, err = fi.GetInt("ImageHeight")
	if err != nil {
		return p, fmt.Errorf("get ImageHeight: %w", err)
	}

	p.Width, err = fi.GetInt("ImageWidth")
	if err != nil {
		return p, fmt.Errorf("get ImageWidth: %w", err)
	}

	mk, _ := fi.GetString("Make")
	model, err := fi.GetString("Model")
	if err != nil {
		klog.V(1).Infof("unable to get model for %s: %v", fi.File, err)
	}
	p.Meta.Camera = camera(mk, model)

	p.Meta.ISO, err = fi.GetInt("ISO")
	if err != nil {
		klog.V(1).Infof("unable to get ISO for %s: %v", fi.File, err)
	}

	if f, err := fi.GetFloat("FNumber"); err == nil && f > 0 {
		p.Meta.Aperture = fmt.Sprintf("f/%g", f)
	} else if f, err := fi.GetFloat("ApertureValue"); err == nil && f > 0 {
		p.Meta.Aperture = fmt.Sprintf("f/%g", f)
	}

	if s, err := fi.GetString("ExposureTime"); err == nil {
		p.Meta.ExposureTime = s + "s"
	} else if s, err := fi.GetString("ShutterSpeed"); err == nil {
		p.Meta.ExposureTime = s + "s"
	}

	p.Meta.FocalLength, err = fi.GetString("FocalLength")
	if err != nil {
		klog.V(1).Infof("unable to get focal length for %s: %v", fi.File, err)
	}
	p.Meta.FocalLength = strings.ReplaceAll(p.Meta.FocalLength, ".0 ", " ")

	p.Keywords, _ = fi.GetStrings("Keywords")
	p.Description, _ = fi.GetString("ImageDescription")
	p.Title, _ = fi.GetString("Headline")

	ds, err := fi.GetString("DateTimeOriginal")
	if err != nil {
		klog.V(1).Infof("unable to get date time for %s: %v", fi.File, err)
		return p, nil
	}

	p.Taken, err = time.Parse(exifDate, ds)
	if err != nil {
		return p, fmt.Errorf("parse time %q: %w", ds, err)
	}
	p.Meta.DateTime = p.Taken.Format(DisplayDate)

	return p, nil
}

func camera(mk, model string) string {
	if mk == "" || strings.HasPrefix(model, mk) {
		return model
	}
	if model == "" {
		return mk
	}
	return mk + " " + model
}

// URLSafePath returns a URL-friendly version of a relative path.
func URLSafePath(rel string) string {
	parts := strings.Split(filepath.ToSlash(rel), "/")
	for i, s := range parts {
		ext := filepath.Ext(s)
		base := strings.TrimSuffix(s, ext)
		if base == "" || base == "." || base == ".." {
			continue
		}
		parts[i] = slug.Make(base) + strings.ToLower(ext)
	}
	return strings.Join(parts, "/")
}

// ID returns the stable identifier of a photo at a relative path.
func ID(rel string) string {
	return uuid.NewSHA1(uuid.NameSpaceURL, []byte(filepath.ToSlash(rel))).String()
}

// Find returns every photo below root, newest first.
// Unreadable files are skipped; their errors are combined into the returned error.
func (f *Finder) Find(root string) ([]*Photo, error) {
	found := []*Photo{}

	et, err := exiftool.NewExiftool()
	if err != nil {
		return nil, fmt.Errorf("exiftool: %w", err)
	}
	defer et.Close()

	var errs error
	err = godirwalk.Walk(root, &godirwalk.Options{
		Callback: func(path string, de *godirwalk.Dirent) error {
			if path != root && strings.HasPrefix(filepath.Base(path), ".") {
				if de.IsDir() {
					return godirwalk.SkipThis
				}
				return nil
			}

			if de.IsDir() || !isPhoto(path) {
				return nil
			}

			p, err := f.load(root, path, et)
			if err != nil {
				klog.Errorf("read failure: %v", err)
				errs = multierr.Append(errs, err)
				return nil
			}
			klog.V(1).Infof("found %s (%dx%d)", path, p.Width, p.Height)
			found = append(found, p)
			return nil
		},
		Unsorted: true,
	})
	if err != nil {
		errs = multierr.Append(errs, fmt.Errorf("walk: %w", err))
	}

	Sort(found)
	return found, errs
}

func (f *Finder) load(root, path string, et *exiftool.Exiftool) (*Photo, error) {
	st, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("stat: %w", err)
	}

	rel, err := filepath.Rel(root, path)
	if err != nil {
		return nil, fmt.Errorf("rel: %w", err)
	}

	if f.Cache != nil {
		if p, ok := f.Cache.Lookup(path, st.ModTime(), st.Size()); ok {
			klog.V(1).Infof("cache hit: %s", path)
			f.annotate(p, root, rel)
			return p, nil
		}
	}

	fis := et.ExtractMetadata(path)
	if err := CheckMetadata(fis); err != nil {
		return nil, err
	}

	p, err := fromMetadata(fis[0])
	if err != nil {
		return nil, err
	}
	p.Path = path
	p.ModTime = st.ModTime()
	p.Meta.FileSize = st.Size()
	f.annotate(&p, root, rel)

	if f.Cache != nil {
		if err := f.Cache.Store(&p, st.Size()); err != nil {
			klog.Warningf("cache store %s: %v", path, err)
		}
	}
	return &p, nil
}

// CheckMetadata returns an error unless fis holds a usable first result.
func CheckMetadata(fis []exiftool.FileMetadata) error {
	if len(fis) == 0 {
		return errors.New("exiftool returned no metadata")
	}
	if fis[0].Err != nil {
		return fmt.Errorf("exiftool %s: %w", fis[0].File, fis[0].Err)
	}
	return nil
}

// annotate fills in the fields that depend on where the photo was found.
func (f *Finder) annotate(p *Photo, root, rel string) {
	p.Path = filepath.Join(root, rel)
	if f.Prefix != "" {
		rel = filepath.Join(f.Prefix, rel)
	}
	p.RelPath = rel
	p.Album = filepath.Dir(rel)
	p.ID = ID(rel)
	p.URL = URLSafePath(rel)
	p.ThumbURL = ThumbTemplate(f.ThumbTemplate, p.URL)
}

// Sort orders photos newest first, falling back to natural path order.
func Sort(ps []*Photo) {
	sort.SliceStable(ps, func(i, j int) bool {
		if !ps[i].Taken.Equal(ps[j].Taken) {
			return ps[i].Taken.After(ps[j].Taken)
		}
		return natural.Less(ps[i].RelPath, ps[j].RelPath)
	})
}
