package actions

import (
	"context"
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/glabrego/memegallery/internal/gallery"
)

type PageLoadedMsg struct {
	Request  gallery.Request
	Page     gallery.FeedPage
	Duration time.Duration
}

type PageErrorMsg struct {
	Request  gallery.Request
	Err      error
	Duration time.Duration
}

// Previewer renders an image URL to terminal art of the given cell size.
type Previewer interface {
	Render(ctx context.Context, imageURL string, width, height int) (string, error)
}

// PreviewKey identifies one rendering of an image at one size.
type PreviewKey struct {
	URL    string
	Width  int
	Height int
}

type PreviewRenderedMsg struct {
	Key PreviewKey
	Art string
}

type PreviewErrorMsg struct {
	Key PreviewKey
	Err error
}

type OpenURLSuccessMsg struct {
	Status string
	Opened bool
}

type OpenURLErrorMsg struct {
	Err error
}

// LoadPageCmd fetches the page for req. The result message carries req back
// so the model can drop it if the gallery moved on.
func LoadPageCmd(feed gallery.Feed, req gallery.Request, timeout time.Duration) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		start := time.Now()

		page, err := feed.FetchPage(ctx, req.Cursor)
		if err != nil {
			return PageErrorMsg{Request: req, Err: err, Duration: time.Since(start)}
		}
		return PageLoadedMsg{Request: req, Page: page, Duration: time.Since(start)}
	}
}

func RenderPreviewCmd(previewer Previewer, key PreviewKey, timeout time.Duration) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()

		art, err := previewer.Render(ctx, key.URL, key.Width, key.Height)
		if err != nil {
			return PreviewErrorMsg{Key: key, Err: err}
		}
		return PreviewRenderedMsg{Key: key, Art: art}
	}
}

func OpenURLCmd(url string, openFn, copyFn func(string) error) tea.Cmd {
	return func() tea.Msg {
		if openFn != nil {
			if err := openFn(url); err == nil {
				return OpenURLSuccessMsg{Status: "Opened image in browser", Opened: true}
			}
		}
		if copyFn != nil {
			if err := copyFn(url); err == nil {
				return OpenURLSuccessMsg{Status: "Could not open browser, URL copied to clipboard", Opened: false}
			}
		}
		return OpenURLErrorMsg{Err: fmt.Errorf("could not open URL or copy to clipboard")}
	}
}

func CopyURLCmd(url string, copyFn func(string) error) tea.Cmd {
	return func() tea.Msg {
		if copyFn != nil {
			if err := copyFn(url); err == nil {
				return OpenURLSuccessMsg{Status: "URL copied to clipboard"}
			}
		}
		return OpenURLErrorMsg{Err: fmt.Errorf("could not copy URL to clipboard")}
	}
}
