package logging

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

func TestConfigure_TagsComponent(t *testing.T) {
	var buf bytes.Buffer
	Configure(&buf, false)
	t.Cleanup(func() { zerolog.SetGlobalLevel(zerolog.InfoLevel) })

	logger := New("gallery")
	logger.Info().Msg("page loaded")
	logger.Debug().Msg("hidden")

	out := buf.String()
	if !strings.Contains(out, "component=gallery") || !strings.Contains(out, "page loaded") {
		t.Fatalf("unexpected log output: %q", out)
	}
	if strings.Contains(out, "hidden") {
		t.Fatalf("debug line logged at info level: %q", out)
	}
}

func TestSetup_WritesToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "gallery.log")
	closer, err := Setup(path, true)
	if err != nil {
		t.Fatalf("Setup returned error: %v", err)
	}
	t.Cleanup(func() { zerolog.SetGlobalLevel(zerolog.InfoLevel) })

	logger := New("test")
	logger.Debug().Msg("debug enabled")
	if err := closer.Close(); err != nil {
		t.Fatalf("close log file: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	if !strings.Contains(string(data), "debug enabled") {
		t.Fatalf("expected debug line in log file, got %q", data)
	}
}
