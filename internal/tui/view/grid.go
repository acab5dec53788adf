package view

const (
	MinTileWidth = 24
	TileGap      = 2
	RowGap       = 1
	GridPadding  = 1
	MinTileLines = 7
	MaxTileLines = 11
)

type Rect struct {
	X, Y, W, H int
}

func (r Rect) Contains(x, y int) bool {
	return x >= r.X && x < r.X+r.W && y >= r.Y && y < r.Y+r.H
}

type Tile struct {
	Index int
	Rect  Rect
}

type Row struct {
	Top    int
	Height int
	Tiles  []Tile
}

// Grid is a row-major layout of tiles in content coordinates. Y grows down
// from the first grid line; X is the terminal column.
type Grid struct {
	Width     int
	Columns   int
	TileWidth int
	Rows      []Row
	Height    int
}

func GridColumns(width int) int {
	usable := width - 2*GridPadding
	cols := (usable + TileGap) / (MinTileWidth + TileGap)
	if cols < 1 {
		cols = 1
	}
	return cols
}

// LayoutGrid places one tile per height, in order. A row is as tall as its
// tallest tile.
func LayoutGrid(heights []int, width int) Grid {
	cols := GridColumns(width)
	usable := width - 2*GridPadding
	tileWidth := (usable - TileGap*(cols-1)) / cols
	if tileWidth < 1 {
		tileWidth = 1
	}
	g := Grid{Width: width, Columns: cols, TileWidth: tileWidth}

	y := 0
	for start := 0; start < len(heights); start += cols {
		end := start + cols
		if end > len(heights) {
			end = len(heights)
		}
		if start > 0 {
			y += RowGap
		}
		row := Row{Top: y}
		for i := start; i < end; i++ {
			h := heights[i]
			if h < 1 {
				h = 1
			}
			x := GridPadding + (i-start)*(tileWidth+TileGap)
			row.Tiles = append(row.Tiles, Tile{Index: i, Rect: Rect{X: x, Y: y, W: tileWidth, H: h}})
			if h > row.Height {
				row.Height = h
			}
		}
		g.Rows = append(g.Rows, row)
		y += row.Height
	}
	g.Height = y
	return g
}

// TileAt returns the index of the tile covering the content cell (x, y).
func (g Grid) TileAt(x, y int) (int, bool) {
	for _, row := range g.Rows {
		if y < row.Top {
			return 0, false
		}
		if y >= row.Top+row.Height {
			continue
		}
		for _, tile := range row.Tiles {
			if tile.Rect.Contains(x, y) {
				return tile.Index, true
			}
		}
		return 0, false
	}
	return 0, false
}

func (g Grid) TileRect(index int) (Rect, bool) {
	if g.Columns <= 0 || index < 0 {
		return Rect{}, false
	}
	r := index / g.Columns
	if r >= len(g.Rows) {
		return Rect{}, false
	}
	c := index % g.Columns
	if c >= len(g.Rows[r].Tiles) {
		return Rect{}, false
	}
	return g.Rows[r].Tiles[c].Rect, true
}

// VisibleIndices lists the tiles that intersect the lines [top, top+height).
func (g Grid) VisibleIndices(top, height int) []int {
	var out []int
	for _, row := range g.Rows {
		if row.Top+row.Height <= top {
			continue
		}
		if row.Top >= top+height {
			break
		}
		for _, tile := range row.Tiles {
			out = append(out, tile.Index)
		}
	}
	return out
}
