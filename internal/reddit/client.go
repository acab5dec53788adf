package reddit

import (
	"bytes"
	"compress/gzip"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/andybalholm/brotli"
	"golang.org/x/net/html"
)

// Post is the subset of listing child fields used by the gallery.
type Post struct {
	Name      string `json:"name"`
	Title     string `json:"title"`
	Thumbnail string `json:"thumbnail"`
	URL       string `json:"url"`
	Author    string `json:"author"`
	Permalink string `json:"permalink"`
}

// Listing is one page of a subreddit listing. After is empty when the
// listing has no further pages.
type Listing struct {
	Posts []Post
	After string
}

type listingResponse struct {
	Data struct {
		Children []struct {
			Data Post `json:"data"`
		} `json:"children"`
		After *string `json:"after"`
	} `json:"data"`
}

type Client struct {
	feedURL   *url.URL
	userAgent string
	http      *http.Client
}

func NewClient(feedURL, userAgent string, httpClient *http.Client) (*Client, error) {
	parsed, err := url.Parse(feedURL)
	if err != nil {
		return nil, fmt.Errorf("parse feed URL: %w", err)
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}
	return &Client{
		feedURL:   parsed,
		userAgent: userAgent,
		http:      httpClient,
	}, nil
}

// ListPosts fetches the listing page that follows after, or the first page
// when after is empty.
func (c *Client) ListPosts(ctx context.Context, after string) (Listing, error) {
	req, err := c.newRequest(ctx, after)
	if err != nil {
		return Listing{}, err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return Listing{}, fmt.Errorf("list posts request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return Listing{}, fmt.Errorf("list posts failed with status %d: %s", resp.StatusCode, errorExcerpt(resp))
	}

	body, err := decodedBody(resp.Header.Get("Content-Encoding"), resp.Body)
	if err != nil {
		return Listing{}, err
	}

	var decoded listingResponse
	if err := json.NewDecoder(body).Decode(&decoded); err != nil {
		return Listing{}, fmt.Errorf("decode listing response: %w", err)
	}

	listing := Listing{Posts: make([]Post, 0, len(decoded.Data.Children))}
	for _, child := range decoded.Data.Children {
		post := child.Data
		post.Title = html.UnescapeString(post.Title)
		listing.Posts = append(listing.Posts, post)
	}
	if decoded.Data.After != nil {
		listing.After = *decoded.Data.After
	}
	return listing, nil
}

func (c *Client) newRequest(ctx context.Context, after string) (*http.Request, error) {
	u := *c.feedURL
	if after != "" {
		q := u.Query()
		q.Set("after", after)
		u.RawQuery = q.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Accept-Encoding", "br, gzip")
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}
	return req, nil
}

// decodedBody undoes the content encoding negotiated in newRequest. Setting
// Accept-Encoding by hand turns off the transport's own gzip handling.
func decodedBody(encoding string, r io.Reader) (io.Reader, error) {
	switch strings.ToLower(strings.TrimSpace(encoding)) {
	case "", "identity":
		return r, nil
	case "br":
		return brotli.NewReader(r), nil
	case "gzip":
		zr, err := gzip.NewReader(r)
		if err != nil {
			return nil, fmt.Errorf("open gzip listing body: %w", err)
		}
		return zr, nil
	default:
		return nil, fmt.Errorf("unsupported content encoding %q", encoding)
	}
}

// errorExcerpt returns the start of an error response body, decoded when the
// server compressed it. Undecodable bodies are returned as received.
func errorExcerpt(resp *http.Response) string {
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	r, err := decodedBody(resp.Header.Get("Content-Encoding"), bytes.NewReader(raw))
	if err != nil {
		return strings.TrimSpace(string(raw))
	}
	decoded, err := io.ReadAll(io.LimitReader(r, 4096))
	if err != nil && len(decoded) == 0 {
		return strings.TrimSpace(string(raw))
	}
	return strings.TrimSpace(string(decoded))
}
