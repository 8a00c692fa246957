package demo

import (
	"image/color"
	"strings"

	"charm.land/lipgloss/v2"
	uv "github.com/charmbracelet/ultraviolet"

	"github.com/Gaurav-Gosain/tuitile/internal/geom"
	"github.com/Gaurav-Gosain/tuitile/internal/pool"
)

// Screen is a grid of styled terminal cells. Drawing outside the grid is
// clipped.
type Screen struct {
	buf *uv.Buffer
}

// NewScreen returns a screen filled with blanks in the given colors.
func NewScreen(width, height int, fg, bg color.Color) *Screen {
	s := &Screen{buf: uv.NewBuffer(max(width, 0), max(height, 0))}
	s.Fill(s.Bounds(), ' ', fg, bg)
	return s
}

// Bounds returns the area of the screen.
func (s *Screen) Bounds() geom.Rect {
	return geom.Rect{Width: s.buf.Width(), Height: s.buf.Height()}
}

// Set draws one cell.
func (s *Screen) Set(x, y int, r rune, fg, bg color.Color) {
	if x < 0 || y < 0 || x >= s.buf.Width() || y >= s.buf.Height() {
		return
	}
	s.buf.SetCell(x, y, &uv.Cell{
		Content: string(r),
		Width:   1,
		Style:   uv.Style{Fg: fg, Bg: bg},
	})
}

// CellAt returns the cell at (x, y), or nil outside the screen.
func (s *Screen) CellAt(x, y int) *uv.Cell {
	if x < 0 || y < 0 || x >= s.buf.Width() || y >= s.buf.Height() {
		return nil
	}
	return s.buf.CellAt(x, y)
}

// Fill paints r with ch.
func (s *Screen) Fill(r geom.Rect, ch rune, fg, bg color.Color) {
	for y := r.Y; y < r.Y+r.Height; y++ {
		for x := r.X; x < r.X+r.Width; x++ {
			s.Set(x, y, ch, fg, bg)
		}
	}
}

// Text writes text starting at (x, y). It does not wrap.
func (s *Screen) Text(x, y int, text string, fg, bg color.Color) {
	for _, r := range text {
		s.Set(x, y, r, fg, bg)
		x++
	}
}

// Frame draws a rounded border around r with title on the top edge and
// clears the inside.
func (s *Screen) Frame(r geom.Rect, title string, border, fg, bg color.Color) {
	if r.Width < 2 || r.Height < 2 {
		s.Fill(r, ' ', fg, bg)
		return
	}
	b := lipgloss.RoundedBorder()
	right, bottom := r.X+r.Width-1, r.Y+r.Height-1

	s.Fill(geom.Rect{X: r.X + 1, Y: r.Y + 1, Width: r.Width - 2, Height: r.Height - 2}, ' ', fg, bg)
	for x := r.X + 1; x < right; x++ {
		s.Set(x, r.Y, firstRune(b.Top), border, bg)
		s.Set(x, bottom, firstRune(b.Bottom), border, bg)
	}
	for y := r.Y + 1; y < bottom; y++ {
		s.Set(r.X, y, firstRune(b.Left), border, bg)
		s.Set(right, y, firstRune(b.Right), border, bg)
	}
	s.Set(r.X, r.Y, firstRune(b.TopLeft), border, bg)
	s.Set(right, r.Y, firstRune(b.TopRight), border, bg)
	s.Set(r.X, bottom, firstRune(b.BottomLeft), border, bg)
	s.Set(right, bottom, firstRune(b.BottomRight), border, bg)

	if title != "" && r.Width > 4 {
		title = truncate(" "+title+" ", r.Width-2)
		s.Text(r.X+1, r.Y, title, border, bg)
	}
}

// Line returns row y without styling.
func (s *Screen) Line(y int) string {
	if y < 0 || y >= s.buf.Height() {
		return ""
	}
	sb := pool.GetStringBuilder()
	defer pool.PutStringBuilder(sb)
	for x := range s.buf.Width() {
		sb.WriteString(content(s.buf.CellAt(x, y)))
	}
	return sb.String()
}

// Render returns the screen as styled text, one line per row. Runs of cells
// sharing a style are rendered together.
func (s *Screen) Render() string {
	sb := pool.GetStringBuilder()
	defer pool.PutStringBuilder(sb)
	run := pool.GetStringBuilder()
	defer pool.PutStringBuilder(run)

	var runStyle *uv.Cell
	flush := func() {
		if run.Len() == 0 {
			return
		}
		style := lipgloss.NewStyle()
		if runStyle != nil {
			style = style.Foreground(runStyle.Style.Fg).Background(runStyle.Style.Bg)
		}
		sb.WriteString(style.Render(run.String()))
		run.Reset()
	}

	for y := range s.buf.Height() {
		if y > 0 {
			sb.WriteByte('\n')
		}
		for x := range s.buf.Width() {
			c := s.buf.CellAt(x, y)
			if run.Len() > 0 && !sameStyle(runStyle, c) {
				flush()
			}
			if run.Len() == 0 {
				runStyle = c
			}
			run.WriteString(content(c))
		}
		flush()
	}
	return sb.String()
}

func content(c *uv.Cell) string {
	if c == nil || c.Content == "" {
		return " "
	}
	return c.Content
}

func sameStyle(a, b *uv.Cell) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return colorEquals(a.Style.Fg, b.Style.Fg) &&
		colorEquals(a.Style.Bg, b.Style.Bg) &&
		a.Style.Attrs == b.Style.Attrs
}

func colorEquals(a, b color.Color) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return a == b
}

func firstRune(s string) rune {
	for _, r := range s {
		return r
	}
	return ' '
}

func truncate(s string, n int) string {
	if n <= 0 {
		return ""
	}
	buf := pool.GetRuneSlice()
	defer pool.PutRuneSlice(buf)
	for _, ch := range s {
		*buf = append(*buf, ch)
	}
	r := *buf
	if len(r) <= n {
		return s
	}
	if n == 1 {
		return "…"
	}
	return strings.TrimRight(string(r[:n-1]), " ") + "…"
}
