package view

import (
	"regexp"
	"strings"
	"testing"

	"github.com/charmbracelet/x/ansi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	tuitheme "github.com/glabrego/memegallery/internal/tui/theme"
)

var ansiStrip = regexp.MustCompile(`\x1b\[[0-9;]*m`)

func stripANSI(s string) string {
	return ansiStrip.ReplaceAllString(s, "")
}

func TestRenderTile_PlaceholderShape(t *testing.T) {
	th := tuitheme.Default()
	lines := RenderTile(TileContent{Title: "A very long meme title that does not fit", Status: "no preview"}, 20, 7, false, th)

	require.Len(t, lines, 7)
	for i, line := range lines {
		assert.Equal(t, 20, ansi.StringWidth(line), "line %d", i)
	}
	assert.True(t, strings.HasSuffix(stripANSI(lines[0]), "…"))
	assert.Contains(t, stripANSI(lines[4]), "no preview")
}

func TestRenderTile_ActiveMarker(t *testing.T) {
	th := tuitheme.Default()
	lines := RenderTile(TileContent{Title: "cat"}, 10, 2, true, th)
	require.Len(t, lines, 2)
	assert.True(t, strings.HasPrefix(stripANSI(lines[0]), ">cat"))
}

func TestRenderTile_PreviewIsCropped(t *testing.T) {
	th := tuitheme.Default()
	art := "abcdefghijklmnop\nqrstuvwxyz\n"
	lines := RenderTile(TileContent{Title: "t", Preview: art}, 8, 4, false, th)

	require.Len(t, lines, 4)
	assert.Equal(t, "abcdefgh", lines[1])
	assert.Equal(t, "qrstuvwx", lines[2])
	assert.Equal(t, strings.Repeat(" ", 8), stripANSI(lines[3]))
}

func TestRenderGrid_Window(t *testing.T) {
	g := LayoutGrid([]int{2, 3, 2}, 52)
	require.Equal(t, 2, g.Columns)

	fill := func(index int, rect Rect) []string {
		lines := make([]string, rect.H)
		for i := range lines {
			lines[i] = strings.Repeat(string(rune('A'+index)), rect.W)
		}
		return lines
	}

	lines := RenderGrid(g, 1, 5, fill)
	require.Len(t, lines, 5)

	a := strings.Repeat("A", g.TileWidth)
	b := strings.Repeat("B", g.TileWidth)
	c := strings.Repeat("C", g.TileWidth)
	empty := strings.Repeat(" ", g.TileWidth)

	assert.Equal(t, " "+a+"  "+b, lines[0])
	assert.Equal(t, " "+empty+"  "+b, lines[1])
	assert.Equal(t, "", lines[2])
	assert.Equal(t, " "+c, lines[3])
	assert.Equal(t, " "+c, lines[4])
}
