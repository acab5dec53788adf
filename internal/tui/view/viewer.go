package view

import (
	"fmt"
	"strings"

	tuitheme "github.com/glabrego/memegallery/internal/tui/theme"
)

const (
	viewerTopLines    = 2
	viewerBottomLines = 2
)

// ViewerLayout is the screen geometry of the lightbox overlay.
type ViewerLayout struct {
	Width    int
	Height   int
	ImageBox Rect
}

// LayoutViewer centres an image box covering 90% of the width between a
// caption and a hint line.
func LayoutViewer(width, height int) ViewerLayout {
	boxW := width * 9 / 10
	if boxW < 1 {
		boxW = 1
	}
	boxH := height - viewerTopLines - viewerBottomLines
	if boxH < 1 {
		boxH = 1
	}
	return ViewerLayout{
		Width:    width,
		Height:   height,
		ImageBox: Rect{X: (width - boxW) / 2, Y: viewerTopLines, W: boxW, H: boxH},
	}
}

type ViewerInput struct {
	Title   string
	Author  string
	Index   int
	Total   int
	Image   string
	Loading bool
	Spinner string
	Err     string
}

func RenderViewer(layout ViewerLayout, in ViewerInput, th tuitheme.Theme) string {
	if layout.Width <= 0 || layout.Height <= 0 {
		return ""
	}
	box := layout.ImageBox
	lines := make([]string, 0, layout.Height)
	lines = append(lines, th.Backdrop.Render(blank(layout.Width)))
	lines = append(lines, th.Backdrop.Render(th.Caption.Render(centerLine(strings.TrimSpace(in.Title), layout.Width))))

	boxLines := viewerBoxLines(in, box.W, box.H, th)
	left := blank(box.X)
	right := blank(layout.Width - box.X - box.W)
	for _, line := range boxLines {
		lines = append(lines, th.Backdrop.Render(left)+line+th.Backdrop.Render(right))
	}

	meta := fmt.Sprintf("%d / %d", in.Index+1, in.Total)
	if in.Author != "" {
		meta = "u/" + in.Author + "  " + meta
	}
	lines = append(lines, th.Backdrop.Render(th.MetaValue.Render(centerLine(meta, layout.Width))))
	lines = append(lines, th.Backdrop.Render(th.MetaLabel.Render(centerLine("click outside or esc to close", layout.Width))))

	if len(lines) > layout.Height {
		lines = lines[:layout.Height]
	}
	return strings.Join(lines, "\n")
}

func viewerBoxLines(in ViewerInput, width, height int, th tuitheme.Theme) []string {
	out := make([]string, height)
	var msg string
	switch {
	case in.Image != "":
		art := strings.Split(strings.TrimRight(in.Image, "\n"), "\n")
		offset := 0
		if len(art) < height {
			offset = (height - len(art)) / 2
		}
		for i := range out {
			j := i - offset
			if j >= 0 && j < len(art) {
				out[i] = fitLine(art[j], width, "")
				continue
			}
			out[i] = th.ImageBox.Render(blank(width))
		}
		return out
	case in.Loading:
		msg = strings.TrimSpace(in.Spinner + " loading image")
	case in.Err != "":
		msg = in.Err
	default:
		msg = "no image"
	}
	for i := range out {
		if i == height/2 {
			out[i] = th.ImageBox.Render(th.MetaValue.Render(centerLine(msg, width)))
			continue
		}
		out[i] = th.ImageBox.Render(blank(width))
	}
	return out
}
