package view

import (
	"fmt"

	"github.com/charmbracelet/x/ansi"

	tuitheme "github.com/glabrego/memegallery/internal/tui/theme"
)

type HeaderInput struct {
	Width     int
	Count     int
	Loading   bool
	Spinner   string
	Exhausted bool
}

// Header is the single-line title card shown above the grid.
func Header(in HeaderInput, th tuitheme.Theme) string {
	title := th.Title.Render("Meme Gallery")
	count := th.Count.Render(fmt.Sprintf("%d", in.Count)) + th.MetaValue.Render(" memes")
	state := th.StateIdle.Render("scroll for more")
	switch {
	case in.Loading:
		state = th.StateLoad.Render(in.Spinner + " loading")
	case in.Exhausted:
		state = th.StateDone.Render("end of feed")
	}
	left := title + "  " + count
	gap := in.Width - 2 - ansi.StringWidth(left) - ansi.StringWidth(state)
	if gap < 1 {
		gap = 1
	}
	return th.Header.Render(fitLine(left+blank(gap)+state, in.Width-2, "…"))
}

// StatusLine renders a transient status message, or help when there is none.
func StatusLine(status, help string, width int, th tuitheme.Theme) string {
	if status != "" {
		return th.MetaValue.Render(fitLine(status, width, "…"))
	}
	return fitLine(help, width, "…")
}
