package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	defaultFeedURL         = "https://www.reddit.com/r/memes.json"
	defaultUserAgent       = "memegallery/0.1 (terminal image gallery)"
	defaultLogPath         = "memegallery.log"
	defaultRequestTimeout  = 10 * time.Second
	defaultBottomThreshold = 1
	defaultRenderWorkers   = 4
)

// Config holds runtime settings for the gallery.
type Config struct {
	FeedURL         string
	UserAgent       string
	LogPath         string
	Debug           bool
	RequestTimeout  time.Duration
	BottomThreshold int
	Previews        bool
	RenderWorkers   int
}

func Default() Config {
	return Config{
		FeedURL:         defaultFeedURL,
		UserAgent:       defaultUserAgent,
		LogPath:         defaultLogPath,
		RequestTimeout:  defaultRequestTimeout,
		BottomThreshold: defaultBottomThreshold,
		Previews:        true,
		RenderWorkers:   defaultRenderWorkers,
	}
}

func LoadFromEnv() (Config, error) {
	cfg := Default()

	if v := os.Getenv("MEMEGALLERY_FEED_URL"); v != "" {
		cfg.FeedURL = v
	}
	if v := os.Getenv("MEMEGALLERY_USER_AGENT"); v != "" {
		cfg.UserAgent = v
	}
	if v := os.Getenv("MEMEGALLERY_LOG_PATH"); v != "" {
		cfg.LogPath = v
	}
	if v := os.Getenv("MEMEGALLERY_DEBUG"); v != "" {
		debug, err := strconv.ParseBool(v)
		if err != nil {
			return Config{}, fmt.Errorf("MEMEGALLERY_DEBUG must be a boolean: %s", v)
		}
		cfg.Debug = debug
	}
	if v := os.Getenv("MEMEGALLERY_REQUEST_TIMEOUT"); v != "" {
		timeout, err := time.ParseDuration(v)
		if err != nil {
			return Config{}, fmt.Errorf("MEMEGALLERY_REQUEST_TIMEOUT must be a duration: %w", err)
		}
		cfg.RequestTimeout = timeout
	}
	if v := os.Getenv("MEMEGALLERY_BOTTOM_THRESHOLD"); v != "" {
		threshold, err := strconv.Atoi(v)
		if err != nil {
			return Config{}, fmt.Errorf("MEMEGALLERY_BOTTOM_THRESHOLD must be an integer: %s", v)
		}
		cfg.BottomThreshold = threshold
	}
	if v := os.Getenv("MEMEGALLERY_PREVIEWS"); v != "" {
		previews, err := strconv.ParseBool(v)
		if err != nil {
			return Config{}, fmt.Errorf("MEMEGALLERY_PREVIEWS must be a boolean: %s", v)
		}
		cfg.Previews = previews
	}
	if v := os.Getenv("MEMEGALLERY_RENDER_WORKERS"); v != "" {
		workers, err := strconv.Atoi(v)
		if err != nil {
			return Config{}, fmt.Errorf("MEMEGALLERY_RENDER_WORKERS must be an integer: %s", v)
		}
		cfg.RenderWorkers = workers
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	if c.FeedURL == "" {
		return errors.New("FeedURL is required")
	}
	parsed, err := url.Parse(c.FeedURL)
	if err != nil {
		return fmt.Errorf("FeedURL is not a valid URL: %w", err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return fmt.Errorf("FeedURL must use http or https: %s", c.FeedURL)
	}
	if parsed.Host == "" {
		return fmt.Errorf("FeedURL has no host: %s", c.FeedURL)
	}
	if strings.TrimSpace(c.UserAgent) == "" {
		return errors.New("UserAgent is required")
	}
	if c.LogPath == "" {
		return errors.New("LogPath is required")
	}
	if c.RequestTimeout <= 0 {
		return fmt.Errorf("RequestTimeout must be positive: %s", c.RequestTimeout)
	}
	if c.BottomThreshold < 0 {
		return fmt.Errorf("BottomThreshold must not be negative: %d", c.BottomThreshold)
	}
	if c.RenderWorkers < 1 {
		return fmt.Errorf("RenderWorkers must be at least 1: %d", c.RenderWorkers)
	}
	return nil
}
