package main

import (
	"fmt"

	"github.com/urfave/cli/v2"

	"github.com/glabrego/memegallery/internal/config"
)

// runner holds the command implementations so the CLI wiring can be tested
// without a terminal or network.
type runner struct {
	browse func(cfg config.Config) error
	export func(cfg config.Config, pages int, out string) error
}

func newApp(r runner) *cli.App {
	return &cli.App{
		Name:  "memegallery",
		Usage: "Browse an image feed in the terminal",
		Description: `An infinite-scroll image gallery for the terminal.

		Settings are read from MEMEGALLERY_* environment variables (a .env
		file in the working directory is loaded first). Flags override them,
		e.g.:

		--feed-url => MEMEGALLERY_FEED_URL=https://www.reddit.com/r/memes.json
		--timeout  => MEMEGALLERY_REQUEST_TIMEOUT=10s
		`,
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "feed-url", Usage: "JSON listing to page through"},
			&cli.StringFlag{Name: "user-agent", Usage: "User-Agent sent with feed requests"},
			&cli.StringFlag{Name: "log-file", Usage: "file that receives diagnostic logs"},
			&cli.BoolFlag{Name: "debug", Usage: "log at debug level"},
			&cli.DurationFlag{Name: "timeout", Usage: "timeout for a single page request"},
			&cli.BoolFlag{Name: "no-previews", Usage: "do not render images with chafa"},
		},
		Commands: []*cli.Command{
			{
				Name:  "browse",
				Usage: "Open the interactive gallery (default)",
				Action: func(c *cli.Context) error {
					cfg, err := configFromContext(c)
					if err != nil {
						return err
					}
					return r.browse(cfg)
				},
			},
			{
				Name:  "export",
				Usage: "Write a static HTML snapshot of the first pages",
				Flags: []cli.Flag{
					&cli.IntFlag{Name: "pages", Usage: "number of pages to fetch", Value: 3},
					&cli.StringFlag{Name: "out", Aliases: []string{"o"}, Usage: "output file, - for stdout", Value: "gallery.html"},
				},
				Action: func(c *cli.Context) error {
					cfg, err := configFromContext(c)
					if err != nil {
						return err
					}
					pages := c.Int("pages")
					if pages < 1 {
						return fmt.Errorf("--pages must be at least 1: %d", pages)
					}
					return r.export(cfg, pages, c.String("out"))
				},
			},
		},
		Action: func(c *cli.Context) error {
			cfg, err := configFromContext(c)
			if err != nil {
				return err
			}
			return r.browse(cfg)
		},
	}
}

// configFromContext loads the environment configuration and applies any
// global flags the user set explicitly.
func configFromContext(c *cli.Context) (config.Config, error) {
	cfg, err := config.LoadFromEnv()
	if err != nil {
		return config.Config{}, fmt.Errorf("config error: %w", err)
	}
	if c.IsSet("feed-url") {
		cfg.FeedURL = c.String("feed-url")
	}
	if c.IsSet("user-agent") {
		cfg.UserAgent = c.String("user-agent")
	}
	if c.IsSet("log-file") {
		cfg.LogPath = c.String("log-file")
	}
	if c.IsSet("debug") {
		cfg.Debug = c.Bool("debug")
	}
	if c.IsSet("timeout") {
		cfg.RequestTimeout = c.Duration("timeout")
	}
	if c.IsSet("no-previews") {
		cfg.Previews = !c.Bool("no-previews")
	}
	if err := cfg.Validate(); err != nil {
		return config.Config{}, fmt.Errorf("config error: %w", err)
	}
	return cfg, nil
}

