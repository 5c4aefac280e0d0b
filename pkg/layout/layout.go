// Package layout partitions an ordered sequence of photos into gallery rows.
//
// Three strategies are available: a justified row packer that crops rows to
// the exact container width, a pattern grouper that assembles rows from a
// dictionary of pleasing orientation combinations, and a fixed grid of square
// thumbnails. Layouts never modify the photos they are given; all sizes are
// reported in Items.
package layout

import (
	"fmt"
	"strings"

	"github.com/tstromberg/brickwall/pkg/geom"
	"github.com/tstromberg/brickwall/pkg/photo"
)

// Strategy selects a layout algorithm.
type Strategy string

const (
	RowPacker      Strategy = "bricky"
	PatternGrouper Strategy = "gplus"
	FixedGrid      Strategy = "simple"
)

var strategyNames = map[Strategy]string{
	RowPacker:      "BrickyLayout",
	PatternGrouper: "GplusLayout",
	FixedGrid:      "SimpleLayout",
}

const (
	DefaultRowHeight    = 220
	DefaultRowsPerLoad  = 20
	DefaultItemsPerLoad = 120
	DefaultThumbSize    = 200
)

// ParseStrategy accepts either the short name ("bricky") or the class name ("BrickyLayout").
func ParseStrategy(s string) (Strategy, error) {
	if s == "" {
		return RowPacker, nil
	}
	for st, long := range strategyNames {
		if strings.EqualFold(s, string(st)) || strings.EqualFold(s, long) {
			return st, nil
		}
	}
	return "", fmt.Errorf("unknown layout %q", s)
}

// ClassName returns the CSS class identifying a strategy, e.g. "gallery-bricky-layout".
func ClassName(s Strategy) string {
	return "gallery" + geom.Hyphenate(strategyNames[s])
}

// Options configure a layout.
type Options struct {
	Strategy       Strategy `yaml:"strategy" json:"strategy"`
	ContainerWidth int      `yaml:"container_width" json:"containerWidth"`
	ItemMargin     int      `yaml:"item_margin" json:"itemMargin"`
	// RowHeight is the trial height of the row packer.
	RowHeight int `yaml:"row_height" json:"rowHeight"`
	// RowsPerLoad is how many rows each More call emits. Zero means the
	// strategy default: everything for the row packer, 20 for the grouper.
	RowsPerLoad  int `yaml:"rows_per_load" json:"rowsPerLoad"`
	ItemsPerLoad int `yaml:"items_per_load" json:"itemsPerLoad"`
	ThumbSize    int `yaml:"thumb_size" json:"thumbSize"`
}

func (o Options) withDefaults() Options {
	if o.Strategy == "" {
		o.Strategy = RowPacker
	}
	if o.ContainerWidth < 0 {
		o.ContainerWidth = 0
	}
	if o.RowHeight <= 0 {
		o.RowHeight = DefaultRowHeight
	}
	if o.RowsPerLoad <= 0 && o.Strategy == PatternGrouper {
		o.RowsPerLoad = DefaultRowsPerLoad
	}
	if o.ItemsPerLoad <= 0 {
		o.ItemsPerLoad = DefaultItemsPerLoad
	}
	if o.ThumbSize <= 0 {
		o.ThumbSize = DefaultThumbSize
	}
	return o
}

// Item is the rendered placement of one photo.
type Item struct {
	Photo  *photo.Photo `json:"photo"`
	Width  float64      `json:"width"`
	Height float64      `json:"height"`
	// ScaledWidth is the width before cropping (row packer only).
	ScaledWidth float64 `json:"scaledWidth,omitempty"`
	// Offset is how far the image is shifted left to center the crop (row packer only).
	Offset int `json:"offset,omitempty"`
}

// Row is a non-empty run of photos displayed side by side.
type Row struct {
	Index   int    `json:"index"`
	Pattern string `json:"pattern,omitempty"`
	Items   []Item `json:"items"`
}

// Photos returns the photos of the row in order.
func (r Row) Photos() []*photo.Photo {
	ps := make([]*photo.Photo, 0, len(r.Items))
	for _, it := range r.Items {
		ps = append(ps, it.Photo)
	}
	return ps
}

// Width returns the rendered width of the row including margins.
func (r Row) Width(margin int) float64 {
	w := 0.0
	for _, it := range r.Items {
		w += it.Width + float64(margin)
	}
	return w
}

// Height returns the tallest item height of the row.
func (r Row) Height() float64 {
	h := 0.0
	for _, it := range r.Items {
		if it.Height > h {
			h = it.Height
		}
	}
	return h
}

// Cursor tracks how much of the sequence has been emitted (Index) and how much
// is currently eligible (Limit). Both only grow until the next Load.
type Cursor struct {
	Index int `json:"index"`
	Limit int `json:"limit"`
}

// Layout is an incremental renderer.
type Layout interface {
	// Name returns the strategy.
	Name() Strategy
	// Load replaces the photo sequence, recomputes from scratch, and returns the first batch.
	Load(ps []*photo.Photo) []Row
	// More returns the next batch of rows; nothing once everything was emitted.
	More() []Row
	Cursor() Cursor
}

// New returns the layout selected by o.Strategy.
func New(o Options) (Layout, error) {
	o = o.withDefaults()
	switch o.Strategy {
	case RowPacker:
		return NewPacker(o), nil
	case PatternGrouper:
		return NewGrouper(o), nil
	case FixedGrid:
		return NewGrid(o), nil
	}
	return nil, fmt.Errorf("unknown layout %q", o.Strategy)
}

// advance moves c forward by step (clamped to total) and returns the half-open range to emit.
func (c *Cursor) advance(step, total int) (int, int) {
	c.Limit = geom.LimitInt(c.Limit+step, 0, total)
	start := c.Index
	if start > c.Limit {
		start = c.Limit
	}
	c.Index = c.Limit
	return start, c.Limit
}
