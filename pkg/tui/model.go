// Package tui is a terminal gallery browser built on the layout engine and
// the lightbox state machine.
package tui

import (
	"fmt"
	"path"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/tstromberg/brickwall/pkg/gallery"
	"github.com/tstromberg/brickwall/pkg/history"
	"github.com/tstromberg/brickwall/pkg/layout"
	"github.com/tstromberg/brickwall/pkg/photo"
)

const (
	// CellWidth is how many layout pixels one terminal column stands for.
	CellWidth = 8
	// LineHeight is how many layout pixels one terminal line stands for.
	LineHeight = 16

	rowLines    = 3
	chromeLines = 5
)

// Model is the bubbletea model of the browser.
type Model struct {
	title   string
	session *gallery.Session
	stack   *history.Stack
	scr     *screen

	row, col      int
	top           int
	width, height int
}

// New returns a browser over ps. path works like a gallery URL: ending it in
// /<n> opens the viewer on the n-th photo.
func New(title string, ps []*photo.Photo, o gallery.Options, path string) (*Model, error) {
	scr := &screen{}
	stack := history.NewStack(path)
	s, err := gallery.New(ps, o, stack, scr, scr)
	if err != nil {
		return nil, err
	}
	stack.OnPop(s.Popped)

	m := &Model{title: title, session: s, stack: stack, scr: scr}
	s.Init(path)
	m.follow()
	return m, nil
}

// Init implements tea.Model
func (m *Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)
	case tea.KeyMsg:
		return m, m.key(msg.String())
	}
	return m, nil
}

func (m *Model) key(k string) tea.Cmd {
	switch k {
	case "q", "ctrl+c":
		return tea.Quit
	case "b":
		m.stack.Back()
		m.follow()
		return nil
	case "n":
		m.stack.Forward()
		m.follow()
		return nil
	}

	if lb := m.session.Lightbox(); lb.Visible() {
		lb.Key(k)
		m.follow()
		return nil
	}

	switch k {
	case "left", "h":
		m.move(-1)
	case "right", "l":
		m.move(1)
	case "up", "k":
		m.moveRow(-1)
	case "down", "j":
		m.moveRow(1)
	case "enter", " ":
		if p := m.Selected(); p != nil {
			m.session.Click(p.ID)
		}
	}
	return nil
}

// Selected returns the photo under the grid cursor.
func (m *Model) Selected() *photo.Photo {
	rows := m.session.Rows()
	if m.row >= len(rows) || m.col >= len(rows[m.row].Items) {
		return nil
	}
	return rows[m.row].Items[m.col].Photo
}

func (m *Model) move(d int) {
	rows := m.session.Rows()
	if len(rows) == 0 {
		return
	}
	switch c := m.col + d; {
	case c >= 0 && c < len(rows[m.row].Items):
		m.col = c
	case c < 0 && m.row > 0:
		m.row--
		m.col = len(rows[m.row].Items) - 1
	case c > 0 && m.row < len(rows)-1:
		m.row++
		m.col = 0
	}
	m.loadMore()
	m.scroll()
}

func (m *Model) moveRow(d int) {
	rows := m.session.Rows()
	if len(rows) == 0 {
		return
	}
	m.row = max(0, min(len(rows)-1, m.row+d))
	m.col = min(m.col, len(rows[m.row].Items)-1)
	m.loadMore()
	m.scroll()
}

// loadMore asks the session for more rows once the cursor nears the last loaded row.
func (m *Model) loadMore() {
	rowPx := float64(rowLines * LineHeight)
	m.session.LoadMore(gallery.Viewport{
		ScrollY:       float64(m.row) * rowPx,
		WindowHeight:  rowPx,
		GalleryHeight: float64(len(m.session.Rows())) * rowPx,
	})
}

// follow moves the grid cursor to the photo shown in the viewer, loading rows as needed.
func (m *Model) follow() {
	p := m.session.Lightbox().Current()
	if p == nil {
		return
	}
	m.reselect(p)
}

func (m *Model) reselect(p *photo.Photo) {
	for {
		for i, r := range m.session.Rows() {
			for j, it := range r.Items {
				if it.Photo == p {
					m.row, m.col = i, j
					m.scroll()
					return
				}
			}
		}
		if len(m.session.More()) == 0 {
			return
		}
	}
}

func (m *Model) resize(w, h int) {
	m.width, m.height = w, h
	sel := m.Selected()
	if _, changed := m.session.Resize(w * CellWidth); changed {
		m.row, m.col, m.top = 0, 0, 0
		if sel != nil {
			m.reselect(sel)
		}
	}
	m.loadMore()
	m.scroll()
}

func (m *Model) visibleRows() int {
	return max(1, (m.height-1)/rowLines)
}

func (m *Model) scroll() {
	if m.row < m.top {
		m.top = m.row
	}
	if n := m.visibleRows(); m.row >= m.top+n {
		m.top = m.row - n + 1
	}
}

// View implements tea.Model
func (m *Model) View() string {
	if m.scr.visible {
		return m.viewerView()
	}
	return m.gridView()
}

func (m *Model) gridView() string {
	var b strings.Builder
	rows := m.session.Rows()
	for i := m.top; i < len(rows) && i < m.top+m.visibleRows(); i++ {
		boxes := []string{}
		for j, it := range rows[i].Items {
			w := max(3, int(it.Width)/CellWidth)
			st := itemStyle
			if i == m.row && j == m.col {
				st = selectedStyle
			}
			boxes = append(boxes, st.Width(w-2).Render(truncate(label(it.Photo), w-2)))
		}
		b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, boxes...))
		b.WriteString("\n")
	}

	status := fmt.Sprintf("%s · %s · %d photos · %d rows · enter open · b/n history · q quit",
		m.title, m.session.Layout().Name(), len(m.session.Photos()), len(rows))
	b.WriteString(statusStyle.Render(status))
	return b.String()
}

func (m *Model) viewerView() string {
	v := m.scr.view
	p := v.Photo
	if p == nil {
		return ""
	}

	size, _ := m.session.Lightbox().Fit(float64(m.width*CellWidth), float64(max(1, m.height-chromeLines)*LineHeight))
	cols := max(1, int(size.Width)/CellWidth)
	lines := max(1, int(size.Height)/LineHeight)
	body := titleStyle.Render(label(p))
	if p.Description != "" {
		body += "\n" + p.Description
	}
	box := viewerStyle.Width(cols).Height(lines).Render(body)
	if v.Fullscreen {
		return box
	}

	prev, next := mutedStyle.Render("‹ left"), mutedStyle.Render("right ›")
	if !v.HasPrevious {
		prev = ""
	}
	if !v.HasNext {
		next = ""
	}
	header := strings.Join([]string{prev, v.Page(), next}, "   ")

	meta := []string{}
	for _, s := range []string{p.Meta.DateTime, p.Meta.Camera, p.Meta.FocalLength, p.Meta.ExposureTime, p.Meta.Aperture} {
		if s != "" {
			meta = append(meta, s)
		}
	}
	if p.Meta.ISO > 0 {
		meta = append(meta, fmt.Sprintf("ISO %d", p.Meta.ISO))
	}

	status := fmt.Sprintf("%s · f fullscreen · esc close · b/n history", m.scr.lastLoad)
	return lipgloss.JoinVertical(lipgloss.Left,
		header,
		box,
		mutedStyle.Render(strings.Join(meta, " · ")),
		statusStyle.Render(status),
	)
}

func label(p *photo.Photo) string {
	switch {
	case p.Title != "":
		return p.Title
	case p.URL != "":
		return path.Base(p.URL)
	}
	return p.ID
}

func truncate(s string, n int) string {
	r := []rune(s)
	if n <= 0 {
		return ""
	}
	if len(r) <= n {
		return s
	}
	if n == 1 {
		return "…"
	}
	return string(r[:n-1]) + "…"
}

// Rows returns the rows loaded so far.
func (m *Model) Rows() []layout.Row {
	return m.session.Rows()
}
