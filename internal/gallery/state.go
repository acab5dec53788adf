package gallery

// Viewer is the lightbox state. Closing keeps ImageURL and Index.
type Viewer struct {
	Open     bool
	ImageURL string
	Index    int
}

// Request identifies one issued page load.
type Request struct {
	Session uint64
	Seq     uint64
	Cursor  Cursor
}

// State is the gallery of one mounted view: the growing item list, the
// pagination cursor, the viewer and the single in-flight page request.
// It is not safe for concurrent use; Controller adds locking for callers
// outside an event loop.
type State struct {
	items    []FeedItem
	cursor   Cursor
	viewer   Viewer
	session  uint64
	seq      uint64
	pending  Request
	inFlight bool
}

func NewState() State {
	return State{session: 1}
}

// Items returns the current items in display order. Callers must not modify
// the returned slice.
func (s *State) Items() []FeedItem {
	return s.items
}

func (s *State) Len() int {
	return len(s.items)
}

func (s *State) Item(index int) FeedItem {
	return s.items[index]
}

func (s *State) Cursor() Cursor {
	return s.cursor
}

func (s *State) Viewer() Viewer {
	return s.viewer
}

func (s *State) Session() uint64 {
	return s.session
}

// Loading reports whether a page request is outstanding.
func (s *State) Loading() bool {
	return s.inFlight
}

// BeginLoad issues the next page request. It returns false while another
// request is outstanding or once the feed is exhausted.
func (s *State) BeginLoad() (Request, bool) {
	if s.inFlight || s.cursor.Exhausted() {
		return Request{}, false
	}
	s.seq++
	s.pending = Request{Session: s.session, Seq: s.seq, Cursor: s.cursor}
	s.inFlight = true
	return s.pending, true
}

// CompleteLoad applies the page fetched for req. Results for anything other
// than the outstanding request of the current session are dropped.
func (s *State) CompleteLoad(req Request, page FeedPage) bool {
	if !s.isPending(req) {
		return false
	}
	s.items = append(s.items, page.Items...)
	s.cursor = page.Next
	s.inFlight = false
	return true
}

// FailLoad releases the guard for req and leaves items and cursor untouched.
func (s *State) FailLoad(req Request) bool {
	if !s.isPending(req) {
		return false
	}
	s.inFlight = false
	return true
}

func (s *State) isPending(req Request) bool {
	return s.inFlight && req.Session == s.session && req.Seq == s.pending.Seq
}

func (s *State) OpenViewer(index int) {
	s.viewer = Viewer{Open: true, ImageURL: s.items[index].FullImageURL, Index: index}
}

func (s *State) CloseViewer() {
	s.viewer.Open = false
}

// Reset starts a new session. Requests issued before the reset can no longer
// complete.
func (s *State) Reset() {
	s.items = nil
	s.cursor = Unfetched()
	s.viewer = Viewer{}
	s.pending = Request{}
	s.inFlight = false
	s.session++
}
