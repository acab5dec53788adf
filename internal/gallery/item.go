package gallery

import "errors"

// ErrExhausted is returned when a page is requested past the end of the feed.
var ErrExhausted = errors.New("feed exhausted")

// FeedItem is one displayable post. URLs are kept as received.
type FeedItem struct {
	ID           string
	Title        string
	ThumbnailURL string
	FullImageURL string
	Author       string
	Permalink    string
}

// FeedPage is the result of one listing fetch, in upstream order.
type FeedPage struct {
	Items []FeedItem
	Next  Cursor
}

type CursorState int

const (
	CursorUnfetched CursorState = iota
	CursorHasMore
	CursorExhausted
)

func (s CursorState) String() string {
	switch s {
	case CursorUnfetched:
		return "unfetched"
	case CursorHasMore:
		return "has-more"
	case CursorExhausted:
		return "exhausted"
	default:
		return "unknown"
	}
}

// Cursor is the pagination position. The zero value has not fetched anything.
type Cursor struct {
	state CursorState
	token string
}

func Unfetched() Cursor {
	return Cursor{}
}

func HasMore(token string) Cursor {
	return Cursor{state: CursorHasMore, token: token}
}

func Exhausted() Cursor {
	return Cursor{state: CursorExhausted}
}

// NextCursor maps a listing continuation token to a cursor; an empty token
// means the feed ended.
func NextCursor(after string) Cursor {
	if after == "" {
		return Exhausted()
	}
	return HasMore(after)
}

func (c Cursor) State() CursorState {
	return c.state
}

// Token returns the continuation token, if the cursor carries one.
func (c Cursor) Token() (string, bool) {
	if c.state != CursorHasMore {
		return "", false
	}
	return c.token, true
}

func (c Cursor) Exhausted() bool {
	return c.state == CursorExhausted
}

func (c Cursor) String() string {
	if c.state == CursorHasMore {
		return "has-more(" + c.token + ")"
	}
	return c.state.String()
}
