// Package site assembles discovered photos into albums and renders them as a
// static gallery.
package site

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/tstromberg/brickwall/pkg/gallery"
	"github.com/tstromberg/brickwall/pkg/layout"
)

const (
	DefaultContainerWidth = 960
	DefaultRecent         = 60
	DefaultViewportWidth  = 1280
	DefaultViewportHeight = 800
)

// Viewport is the screen size viewer pages are prepared for.
type Viewport struct {
	Width  int `yaml:"width"`
	Height int `yaml:"height"`
}

// Config holds configuration for brickwall.
type Config struct {
	InDirs      []string `yaml:"in"`
	OutDir      string   `yaml:"out"`
	AssetsDir   string   `yaml:"assets"`
	Collection  string   `yaml:"title"`
	Description string   `yaml:"description"`
	// ThumbTemplate is a URL template for thumbnails, with {path} for the
	// photo path and {0} for the requested size. Empty means the original.
	ThumbTemplate string          `yaml:"thumb_template"`
	Gallery       gallery.Options `yaml:"gallery"`
	Viewport      Viewport        `yaml:"viewport"`
	CachePath     string          `yaml:"cache"`
	Recent        int             `yaml:"recent"`
}

// DefaultConfig returns a configuration with every default filled in.
func DefaultConfig() *Config {
	c := &Config{Collection: "brickwall"}
	c.applyDefaults()
	return c
}

func (c *Config) applyDefaults() {
	if c.Gallery.Layout.ContainerWidth <= 0 {
		c.Gallery.Layout.ContainerWidth = DefaultContainerWidth
	}
	if c.Gallery.Layout.Strategy == "" {
		c.Gallery.Layout.Strategy = layout.RowPacker
	}
	if c.Viewport.Width <= 0 {
		c.Viewport.Width = DefaultViewportWidth
	}
	if c.Viewport.Height <= 0 {
		c.Viewport.Height = DefaultViewportHeight
	}
	if c.Recent <= 0 {
		c.Recent = DefaultRecent
	}
}

// LoadConfig reads a YAML configuration file. Unknown keys are an error.
func LoadConfig(path string) (*Config, error) {
	bs, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read: %w", err)
	}

	c := &Config{}
	dec := yaml.NewDecoder(bytes.NewReader(bs))
	dec.KnownFields(true)
	if err := dec.Decode(c); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	c.applyDefaults()
	return c, nil
}

// Validate checks that c describes a buildable site.
func (c *Config) Validate() error {
	c.applyDefaults()
	if len(c.InDirs) == 0 {
		return errors.New("no input directories")
	}
	if c.OutDir == "" {
		return errors.New("no output directory")
	}
	for _, d := range c.InDirs {
		if within(c.OutDir, d) {
			return fmt.Errorf("output directory %s is inside input directory %s", c.OutDir, d)
		}
	}
	st, err := layout.ParseStrategy(string(c.Gallery.Layout.Strategy))
	if err != nil {
		return err
	}
	c.Gallery.Layout.Strategy = st
	return nil
}

// within reports whether path is dir or below it.
func within(path, dir string) bool {
	ap, err := filepath.Abs(path)
	if err != nil {
		return false
	}
	ad, err := filepath.Abs(dir)
	if err != nil {
		return false
	}
	rel, err := filepath.Rel(ad, ap)
	if err != nil {
		return false
	}
	return rel == "." || (rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)))
}
