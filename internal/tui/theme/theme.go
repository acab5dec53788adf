package theme

import (
	"github.com/charmbracelet/lipgloss"
)

type Theme struct {
	Header      lipgloss.Style
	Title       lipgloss.Style
	Count       lipgloss.Style
	Tile        lipgloss.Style
	ActiveTile  lipgloss.Style
	Placeholder lipgloss.Style
	Backdrop    lipgloss.Style
	ImageBox    lipgloss.Style
	Caption     lipgloss.Style
	MetaLabel   lipgloss.Style
	MetaValue   lipgloss.Style
	StateIdle   lipgloss.Style
	StateDone   lipgloss.Style
	StateLoad   lipgloss.Style
}

func Default() Theme {
	black := lipgloss.Color("#000000")
	gallery := lipgloss.Color("#121212")
	card := lipgloss.Color("#1E1E1E")
	white := lipgloss.Color("#FFFFFF")
	muted := lipgloss.Color("#9E9E9E")
	dim := lipgloss.Color("#5C5C5C")
	accent := lipgloss.Color("#BB86FC")
	teal := lipgloss.Color("#03DAC6")
	amber := lipgloss.Color("#FFB74D")

	return Theme{
		Header:      lipgloss.NewStyle().Background(card).Foreground(white).Padding(0, 1),
		Title:       lipgloss.NewStyle().Bold(true).Foreground(white),
		Count:       lipgloss.NewStyle().Foreground(accent).Bold(true),
		Tile:        lipgloss.NewStyle().Background(gallery).Foreground(white),
		ActiveTile:  lipgloss.NewStyle().Background(card).Foreground(white).Bold(true),
		Placeholder: lipgloss.NewStyle().Background(gallery).Foreground(dim),
		Backdrop:    lipgloss.NewStyle().Background(black).Foreground(white),
		ImageBox:    lipgloss.NewStyle().Background(gallery),
		Caption:     lipgloss.NewStyle().Bold(true).Foreground(white),
		MetaLabel:   lipgloss.NewStyle().Foreground(dim),
		MetaValue:   lipgloss.NewStyle().Foreground(muted),
		StateIdle:   lipgloss.NewStyle().Foreground(teal),
		StateDone:   lipgloss.NewStyle().Foreground(muted),
		StateLoad:   lipgloss.NewStyle().Foreground(amber),
	}
}

// RenderTileLine styles one line of a grid tile.
func (t Theme) RenderTileLine(active bool, line string) string {
	if active {
		return t.ActiveTile.Render(line)
	}
	return t.Tile.Render(line)
}
