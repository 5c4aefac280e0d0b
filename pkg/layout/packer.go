package layout

import (
	"math"

	"github.com/tstromberg/brickwall/pkg/geom"
	"github.com/tstromberg/brickwall/pkg/photo"
)

// Packer is the justified row layout: every full row is cropped to exactly
// the container width.
type Packer struct {
	opts   Options
	rows   []Row
	cursor Cursor
}

// NewPacker returns a row packer.
func NewPacker(o Options) *Packer {
	o.Strategy = RowPacker
	return &Packer{opts: o.withDefaults()}
}

func (p *Packer) Name() Strategy { return RowPacker }

func (p *Packer) Cursor() Cursor { return p.cursor }

func (p *Packer) Load(ps []*photo.Photo) []Row {
	p.rows = Pack(ps, p.opts.ContainerWidth, p.opts.ItemMargin, p.opts.RowHeight)
	p.cursor = Cursor{}
	return p.More()
}

func (p *Packer) More() []Row {
	step := p.opts.RowsPerLoad
	if step <= 0 {
		step = len(p.rows)
	}
	start, end := p.cursor.advance(step, len(p.rows))
	return p.rows[start:end]
}

// Pack partitions ps into rows of trial height rowHeight whose widths plus
// margins add up to containerWidth. The final row is left uncropped when it
// does not reach the container width.
func Pack(ps []*photo.Photo, containerWidth, margin, rowHeight int) []Row {
	if containerWidth < 0 {
		containerWidth = 0
	}
	if rowHeight <= 0 {
		rowHeight = DefaultRowHeight
	}

	rows := []Row{}
	for len(ps) > 0 {
		r, n := packRow(ps, containerWidth, margin, rowHeight)
		r.Index = len(rows)
		rows = append(rows, r)
		ps = ps[n:]
	}
	return rows
}

// packRow builds one row from the head of ps and returns it with the number of photos consumed.
func packRow(ps []*photo.Photo, containerWidth, margin, rowHeight int) (Row, int) {
	widths := []int{}
	total := 0

	// At least one photo per row, so a zero-width container still terminates.
	for len(widths) < len(ps) && (len(widths) == 0 || total < containerWidth) {
		p := ps[len(widths)]
		w := int(math.Round(geom.WidthForHeight(p.AspectRatio(), float64(rowHeight))))
		widths = append(widths, w)
		total += w + margin
	}

	cut := make([]int, len(widths))
	if delta := total - containerWidth; delta > 0 {
		cut = cutoff(widths, total, delta)
	}

	r := Row{Items: make([]Item, len(widths))}
	for i, w := range widths {
		r.Items[i] = Item{
			Photo:       ps[i],
			Width:       float64(w - cut[i]),
			Height:      float64(rowHeight),
			ScaledWidth: float64(w),
			Offset:      cut[i] / 2,
		}
	}
	return r, len(widths)
}

// cutoff distributes delta pixels over the row in proportion to each width.
// Pixels lost to truncation are handed out one at a time in row order. No
// item is cut below zero width.
func cutoff(widths []int, total, delta int) []int {
	cut := make([]int, len(widths))
	sum := 0
	for i, w := range widths {
		c := int(math.Floor(float64(w) / float64(total) * float64(delta)))
		cut[i] = geom.LimitInt(c, 0, w)
		sum += cut[i]
	}

	rest := delta - sum
	for rest > 0 {
		progressed := false
		for i := range cut {
			if rest == 0 {
				break
			}
			if cut[i] < widths[i] {
				cut[i]++
				rest--
				progressed = true
			}
		}
		if !progressed {
			break
		}
	}
	return cut
}
