package view

import (
	"strings"

	"github.com/charmbracelet/x/ansi"

	tuitheme "github.com/glabrego/memegallery/internal/tui/theme"
)

type TileContent struct {
	Title string
	// Preview is pre-rendered terminal art; when empty Status is centred in
	// the tile instead.
	Preview string
	Status  string
}

// RenderTile returns exactly height lines, each exactly width cells wide.
func RenderTile(c TileContent, width, height int, active bool, th tuitheme.Theme) []string {
	if height < 1 {
		return nil
	}
	lines := make([]string, 0, height)
	marker := " "
	if active {
		marker = ">"
	}
	title := strings.TrimSpace(c.Title)
	if title == "" {
		title = "untitled"
	}
	lines = append(lines, th.RenderTileLine(active, fitLine(marker+title, width, "…")))

	body := height - 1
	if body <= 0 {
		return lines
	}
	if c.Preview != "" {
		art := strings.Split(strings.TrimRight(c.Preview, "\n"), "\n")
		for i := 0; i < body; i++ {
			if i < len(art) {
				lines = append(lines, fitLine(art[i], width, ""))
				continue
			}
			lines = append(lines, th.Tile.Render(blank(width)))
		}
		return lines
	}

	mid := body / 2
	for i := 0; i < body; i++ {
		if i == mid && c.Status != "" {
			lines = append(lines, th.Placeholder.Render(centerLine(c.Status, width)))
			continue
		}
		lines = append(lines, th.Placeholder.Render(blank(width)))
	}
	return lines
}

// TileRenderer produces the lines of one tile; see RenderTile.
type TileRenderer func(index int, rect Rect) []string

// RenderGrid renders the content lines [top, top+height) of g. Lines past
// the end of the grid are left empty.
func RenderGrid(g Grid, top, height int, tile TileRenderer) []string {
	out := make([]string, height)
	if height <= 0 {
		return out
	}
	for _, row := range g.Rows {
		if row.Top+row.Height <= top {
			continue
		}
		if row.Top >= top+height {
			break
		}
		rendered := make([][]string, len(row.Tiles))
		for i, t := range row.Tiles {
			rendered[i] = tile(t.Index, t.Rect)
		}
		for y := row.Top; y < row.Top+row.Height; y++ {
			if y < top || y >= top+height {
				continue
			}
			var b strings.Builder
			b.WriteString(blank(GridPadding))
			for i, t := range row.Tiles {
				if i > 0 {
					b.WriteString(blank(TileGap))
				}
				ly := y - t.Rect.Y
				if ly < len(rendered[i]) {
					b.WriteString(fitLine(rendered[i][ly], t.Rect.W, ""))
				} else {
					b.WriteString(blank(t.Rect.W))
				}
			}
			out[y-top] = b.String()
		}
	}
	return out
}

func fitLine(s string, width int, tail string) string {
	if width <= 0 {
		return ""
	}
	s = ansi.Truncate(s, width, tail)
	if pad := width - ansi.StringWidth(s); pad > 0 {
		s += blank(pad)
	}
	return s
}

func centerLine(s string, width int) string {
	s = ansi.Truncate(s, width, "…")
	left := (width - ansi.StringWidth(s)) / 2
	if left < 0 {
		left = 0
	}
	return fitLine(blank(left)+s, width, "")
}

func blank(n int) string {
	if n <= 0 {
		return ""
	}
	return strings.Repeat(" ", n)
}
