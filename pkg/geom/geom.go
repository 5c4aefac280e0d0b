// Package geom provides the small numeric helpers shared by layouts and viewers.
package geom

import (
	"math"
	"strings"
	"unicode"
)

// Size is a width and height in pixels.
type Size struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// WidthForHeight returns the width of an image with the given aspect ratio scaled to height h.
func WidthForHeight(ratio float64, h float64) float64 {
	return ratio * h
}

// HeightForWidth returns the height of an image with the given aspect ratio scaled to width w.
func HeightForWidth(ratio float64, w float64) float64 {
	if ratio == 0 {
		return 0
	}
	return w / ratio
}

// Limit clamps v to [min, max].
func Limit(v, min, max float64) float64 {
	return math.Min(max, math.Max(min, v))
}

// LimitInt clamps v to [min, max].
func LimitInt(v, min, max int) int {
	if v < min {
		v = min
	}
	if v > max {
		v = max
	}
	return v
}

// Round rounds v to the given number of decimal places. A negative precision
// rounds to tens, hundreds, and so on.
func Round(v float64, precision int) float64 {
	if precision < 0 {
		p := math.Pow(10, float64(-precision))
		return math.Round(v/p) * p
	}
	p := math.Pow(10, float64(precision))
	return math.Round(v*p) / p
}

// Hyphenate converts a CamelCase identifier to its hyphenated form:
// "BrickyLayout" becomes "-bricky-layout".
func Hyphenate(s string) string {
	var b strings.Builder
	for _, r := range s {
		if unicode.IsUpper(r) {
			b.WriteRune('-')
			b.WriteRune(unicode.ToLower(r))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// Fit returns the largest size with the given aspect ratio that fits inside w x h.
//
// Landscape images are first fitted by width. Anything still taller than the
// container is fitted by height, and the width is checked once more afterwards.
func Fit(ratio, w, h float64) Size {
	w = math.Max(w, 0)
	h = math.Max(h, 0)
	if ratio <= 0 || math.IsNaN(ratio) || math.IsInf(ratio, 0) {
		ratio = 1
	}

	s := Size{Width: math.Inf(1), Height: math.Inf(1)}
	if ratio > 1 {
		s.Width = w
		s.Height = HeightForWidth(ratio, w)
	}
	if s.Height > h {
		s.Width = WidthForHeight(ratio, h)
		s.Height = h
	}
	if s.Width > w {
		s.Width = w
		s.Height = HeightForWidth(ratio, w)
	}
	return s
}
