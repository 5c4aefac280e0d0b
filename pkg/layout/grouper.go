package layout

import (
	"github.com/tstromberg/brickwall/pkg/geom"
	"github.com/tstromberg/brickwall/pkg/photo"
)

// patterns are the orientation combinations that make a good-looking row.
// Some four and five image combinations are left out on purpose.
var patterns = map[string]bool{
	// 2 images
	"=L": true,
	"L=": true,

	// 3 images
	"LLL": true,
	"LPL": true,
	"LLP": true,
	"PPL": true,
	"PLP": true,
	"PLL": true,
	"=PP": true,
	"=PL": true,
	"P=P": true,
	"PP=": true,
	"PL=": true,
	"P=L": true,
	"LP=": true,
	"=P=": true,
	"LL=": true,

	// 4 images
	"PPLL": true,
	"PLPL": true,
	"LPLP": true,
	"LPPL": true,
	"LPPP": true,
	"PPPL": true,
	"PPP=": true,

	// 5 images
	"LPPPL": true,
	"PPLPL": true,
	"LPPPP": true,
	"PLPPP": true,
	"PPLPP": true,
	"PPPLP": true,
	"PPPPL": true,

	// 6 images
	"PPPPPP": true,
}

// IsPattern reports whether s is a known row pattern.
func IsPattern(s string) bool {
	return patterns[s]
}

// Patterns returns the number of known row patterns.
func Patterns() int {
	return len(patterns)
}

// Grouper lays photos out in rows that match known orientation patterns.
type Grouper struct {
	opts   Options
	rows   []Row
	cursor Cursor
}

// NewGrouper returns a pattern grouper.
func NewGrouper(o Options) *Grouper {
	o.Strategy = PatternGrouper
	return &Grouper{opts: o.withDefaults()}
}

func (g *Grouper) Name() Strategy { return PatternGrouper }

func (g *Grouper) Cursor() Cursor { return g.cursor }

func (g *Grouper) Load(ps []*photo.Photo) []Row {
	g.rows = Group(ps)
	g.cursor = Cursor{}
	return g.More()
}

// More sizes and returns the next RowsPerLoad rows.
func (g *Grouper) More() []Row {
	start, end := g.cursor.advance(g.opts.RowsPerLoad, len(g.rows))
	out := make([]Row, 0, end-start)
	for i := start; i < end; i++ {
		out = append(out, g.size(i))
	}
	return out
}

// size computes item dimensions for row i. A trailing row that never matched
// a pattern is sized at a quarter of the container width; all others are
// stretched to fill the container exactly.
func (g *Grouper) size(i int) Row {
	r := g.rows[i]
	sized := Row{Index: r.Index, Pattern: r.Pattern, Items: make([]Item, len(r.Items))}
	copy(sized.Items, r.Items)

	cw := float64(g.opts.ContainerWidth)
	if i == len(g.rows)-1 && !IsPattern(r.Pattern) {
		fitHeight(sized.Items, cw/4)
	} else {
		fitWidth(sized.Items, cw, g.opts.ItemMargin)
	}
	return sized
}

// Group partitions ps into rows. A row closes as soon as its orientation
// codes form a known pattern, or at the last photo. Concatenating the rows
// always yields ps.
func Group(ps []*photo.Photo) []Row {
	rows := []Row{}
	pattern := ""
	start := 0
	for i, p := range ps {
		pattern += p.Orientation().String()
		if !IsPattern(pattern) && i != len(ps)-1 {
			continue
		}

		r := Row{Index: len(rows), Pattern: pattern, Items: make([]Item, 0, i+1-start)}
		for _, q := range ps[start : i+1] {
			r.Items = append(r.Items, Item{Photo: q})
		}
		rows = append(rows, r)
		start = i + 1
		pattern = ""
	}
	return rows
}

// fitWidth scales items to equal height so that their widths plus margins fill containerWidth.
func fitWidth(items []Item, containerWidth float64, margin int) {
	available := containerWidth - float64(len(items)*margin)
	if available < 0 {
		available = 0
	}

	// Any starting height works, the widths are rescaled below.
	const trial = 100.0
	total := 0.0
	for _, it := range items {
		total += geom.WidthForHeight(it.Photo.AspectRatio(), trial)
	}
	if total == 0 {
		return
	}

	for i := range items {
		ar := items[i].Photo.AspectRatio()
		items[i].Width = geom.WidthForHeight(ar, trial) * (available / total)
		items[i].Height = geom.HeightForWidth(ar, items[i].Width)
	}
}

// fitHeight scales every item to height h.
func fitHeight(items []Item, h float64) {
	for i := range items {
		items[i].Width = geom.WidthForHeight(items[i].Photo.AspectRatio(), h)
		items[i].Height = h
	}
}
