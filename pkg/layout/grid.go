package layout

import (
	"github.com/tstromberg/brickwall/pkg/photo"
)

// Grid is a plain grid of square thumbnails. Its cursor counts photos rather than rows.
type Grid struct {
	opts   Options
	photos []*photo.Photo
	cursor Cursor
}

// NewGrid returns a fixed grid layout.
func NewGrid(o Options) *Grid {
	o.Strategy = FixedGrid
	return &Grid{opts: o.withDefaults()}
}

func (g *Grid) Name() Strategy { return FixedGrid }

func (g *Grid) Cursor() Cursor { return g.cursor }

// Columns returns how many thumbnails fit side by side.
func (g *Grid) Columns() int {
	cols := g.opts.ContainerWidth / (g.opts.ThumbSize + g.opts.ItemMargin)
	if cols < 1 {
		cols = 1
	}
	return cols
}

func (g *Grid) Load(ps []*photo.Photo) []Row {
	g.photos = ps
	g.cursor = Cursor{}
	return g.More()
}

// More emits the next ItemsPerLoad photos, rounded up to whole rows.
func (g *Grid) More() []Row {
	cols := g.Columns()
	step := (g.opts.ItemsPerLoad + cols - 1) / cols * cols
	start, end := g.cursor.advance(step, len(g.photos))

	rows := []Row{}
	size := float64(g.opts.ThumbSize)
	for i := start; i < end; i += cols {
		last := i + cols
		if last > end {
			last = end
		}
		r := Row{Index: i / cols}
		for _, p := range g.photos[i:last] {
			r.Items = append(r.Items, Item{Photo: p, Width: size, Height: size})
		}
		rows = append(rows, r)
	}
	return rows
}
