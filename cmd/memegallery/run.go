package main

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/glabrego/memegallery/internal/app"
	"github.com/glabrego/memegallery/internal/config"
	"github.com/glabrego/memegallery/internal/export"
	"github.com/glabrego/memegallery/internal/gallery"
	"github.com/glabrego/memegallery/internal/logging"
	"github.com/glabrego/memegallery/internal/reddit"
	"github.com/glabrego/memegallery/internal/tui"
	"github.com/glabrego/memegallery/internal/tui/actions"
	"github.com/glabrego/memegallery/internal/tui/view"
)

func defaultRunner() runner {
	return runner{browse: runBrowse, export: runExport}
}

func newService(cfg config.Config) (*app.Service, error) {
	client, err := reddit.NewClient(cfg.FeedURL, cfg.UserAgent, &http.Client{Timeout: cfg.RequestTimeout})
	if err != nil {
		return nil, fmt.Errorf("feed client: %w", err)
	}
	return app.NewService(client), nil
}

func runBrowse(cfg config.Config) error {
	closer, err := logging.Setup(cfg.LogPath, cfg.Debug)
	if err != nil {
		return err
	}
	defer closer.Close()

	service, err := newService(cfg)
	if err != nil {
		return err
	}

	var previewer actions.Previewer
	if cfg.Previews {
		previewer = view.NewRenderer(cfg.RenderWorkers, cfg.RequestTimeout)
	}

	log := logging.New("main")
	log.Info().Str("feed", cfg.FeedURL).Bool("previews", cfg.Previews).Msg("starting gallery")

	model := tui.NewModel(service, tui.Options{
		BottomThreshold: cfg.BottomThreshold,
		RequestTimeout:  cfg.RequestTimeout,
		Previewer:       previewer,
		Logger:          logging.New("tui"),
	})
	program := tea.NewProgram(model, tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("tui error: %w", err)
	}
	log.Info().Msg("gallery closed")
	return nil
}

func runExport(cfg config.Config, pages int, out string) error {
	closer, err := logging.Setup(cfg.LogPath, cfg.Debug)
	if err != nil {
		return err
	}
	defer closer.Close()

	service, err := newService(cfg)
	if err != nil {
		return err
	}
	items := collectPages(service, pages, cfg)

	var w io.Writer = os.Stdout
	if out != "-" {
		f, err := os.Create(out)
		if err != nil {
			return fmt.Errorf("create output: %w", err)
		}
		defer f.Close()
		w = f
	}
	if err := export.Page(w, items); err != nil {
		return err
	}
	if out != "-" {
		fmt.Fprintf(os.Stderr, "exported %d memes to %s\n", len(items), out)
	}
	return nil
}

// collectPages loads up to pages pages, stopping early once the feed is
// exhausted or a fetch fails.
func collectPages(feed gallery.Feed, pages int, cfg config.Config) []gallery.FeedItem {
	ctrl := gallery.NewController(feed, logging.New("gallery"))
	for i := 0; i < pages; i++ {
		ctx, cancel := context.WithTimeout(context.Background(), cfg.RequestTimeout)
		result := ctrl.LoadNextPage(ctx)
		cancel()
		if result != gallery.LoadOK {
			logger := logging.New("export")
			logger.Info().Int("page", i+1).Stringer("result", result).Msg("stopped loading")
			break
		}
	}
	return ctrl.Items()
}
