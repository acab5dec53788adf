package platform

import (
	"bytes"
	"fmt"
	"net/url"
	"os/exec"
	"runtime"
	"strings"
)

// ValidateImageURL accepts absolute http(s) URLs. Listing thumbnails can be
// placeholders such as "self" or "nsfw"; those are rejected here.
func ValidateImageURL(raw string) (string, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return "", fmt.Errorf("item has no image URL")
	}
	parsed, err := url.Parse(trimmed)
	if err != nil {
		return "", fmt.Errorf("invalid URL format")
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return "", fmt.Errorf("unsupported URL scheme: %q", parsed.Scheme)
	}
	if parsed.Host == "" {
		return "", fmt.Errorf("invalid URL host")
	}
	return trimmed, nil
}

func OpenURLInBrowser(url string) error {
	name, args := browserCommand(runtime.GOOS, url)
	return exec.Command(name, args...).Run()
}

func browserCommand(goos, url string) (string, []string) {
	switch goos {
	case "darwin":
		return "open", []string{url}
	case "windows":
		return "rundll32", []string{"url.dll,FileProtocolHandler", url}
	default:
		return "xdg-open", []string{url}
	}
}

var clipboardCommands = [][]string{
	{"pbcopy"},
	{"xclip", "-selection", "clipboard"},
	{"wl-copy"},
}

func CopyURLToClipboard(url string) error {
	c, err := selectClipboardCommand(exec.LookPath)
	if err != nil {
		return err
	}
	cmd := exec.Command(c[0], c[1:]...)
	cmd.Stdin = bytes.NewBufferString(url)
	return cmd.Run()
}

func selectClipboardCommand(lookPath func(string) (string, error)) ([]string, error) {
	for _, c := range clipboardCommands {
		if _, err := lookPath(c[0]); err == nil {
			return c, nil
		}
	}
	return nil, fmt.Errorf("no clipboard command available")
}
