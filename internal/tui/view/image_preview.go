package view

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os/exec"
	"strings"
	"time"

	"golang.org/x/sync/semaphore"
)

const maxImageBytes = 5 * 1024 * 1024

var ErrNoChafa = errors.New("chafa is not installed")

// Renderer downloads images and converts them to terminal symbols with
// chafa. At most workers renders run at once.
type Renderer struct {
	client   *http.Client
	sem      *semaphore.Weighted
	lookPath func(string) (string, error)
	run      func(ctx context.Context, path string, args []string, stdin []byte) ([]byte, error)
}

func NewRenderer(workers int, timeout time.Duration) *Renderer {
	if workers < 1 {
		workers = 1
	}
	return &Renderer{
		client:   &http.Client{Timeout: timeout},
		sem:      semaphore.NewWeighted(int64(workers)),
		lookPath: exec.LookPath,
		run:      runChafa,
	}
}

func (r *Renderer) Render(ctx context.Context, imageURL string, width, height int) (string, error) {
	if width < 1 || height < 1 {
		return "", fmt.Errorf("invalid preview size %dx%d", width, height)
	}
	if err := r.sem.Acquire(ctx, 1); err != nil {
		return "", err
	}
	defer r.sem.Release(1)

	chafaPath, err := r.lookPath("chafa")
	if err != nil {
		return "", ErrNoChafa
	}

	imageData, err := r.download(ctx, imageURL)
	if err != nil {
		return "", err
	}

	output, err := r.run(ctx, chafaPath, chafaArgs(width, height), imageData)
	trimmed := strings.TrimRight(string(output), "\r\n")
	if err != nil {
		return "", fmt.Errorf("render image via chafa: %w: %s", err, strings.TrimSpace(trimmed))
	}
	if strings.TrimSpace(trimmed) == "" {
		return "", fmt.Errorf("empty output")
	}
	return trimmed, nil
}

func (r *Renderer) download(ctx context.Context, imageURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, imageURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build image request: %w", err)
	}
	resp, err := r.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("download image: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("download image: status %d", resp.StatusCode)
	}

	imageData, err := io.ReadAll(io.LimitReader(resp.Body, maxImageBytes))
	if err != nil {
		return nil, fmt.Errorf("read image: %w", err)
	}
	return imageData, nil
}

func chafaArgs(width, height int) []string {
	return []string{
		"--size", fmt.Sprintf("%dx%d", width, height),
		"--view-size", fmt.Sprintf("%dx%d", width, height),
		"--align", "mid,center",
		"--format", "symbols",
		"-",
	}
}

func runChafa(ctx context.Context, path string, args []string, stdin []byte) ([]byte, error) {
	cmd := exec.CommandContext(ctx, path, args...)
	cmd.Stdin = bytes.NewReader(stdin)
	return cmd.CombinedOutput()
}
