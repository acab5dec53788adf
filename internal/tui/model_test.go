package tui

import (
	"bytes"
	"context"
	"errors"
	"regexp"
	"strings"
	"sync"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"
	"go.uber.org/goleak"

	"github.com/glabrego/memegallery/internal/gallery"
	"github.com/glabrego/memegallery/internal/tui/actions"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

var ansiScreenStrip = regexp.MustCompile(`\x1b\[[0-9;]*m`)

type pageResult struct {
	page gallery.FeedPage
	err  error
}

// scriptedFeed returns its results in order, one per call.
type scriptedFeed struct {
	mu      sync.Mutex
	results []pageResult
	cursors []gallery.Cursor
}

func (f *scriptedFeed) FetchPage(_ context.Context, cursor gallery.Cursor) (gallery.FeedPage, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.cursors = append(f.cursors, cursor)
	if len(f.results) == 0 {
		return gallery.FeedPage{}, errors.New("no more scripted pages")
	}
	r := f.results[0]
	f.results = f.results[1:]
	return r.page, r.err
}

func (f *scriptedFeed) calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.cursors)
}

type fakePreviewer struct {
	mu   sync.Mutex
	urls []string
}

func (p *fakePreviewer) Render(_ context.Context, imageURL string, width, height int) (string, error) {
	p.mu.Lock()
	p.urls = append(p.urls, imageURL)
	p.mu.Unlock()
	return strings.Repeat("@", width), nil
}

func items(titles ...string) []gallery.FeedItem {
	out := make([]gallery.FeedItem, len(titles))
	for i, title := range titles {
		out[i] = gallery.FeedItem{
			ID:           "t3_" + strings.ToLower(title),
			Title:        title,
			ThumbnailURL: "https://thumbs.example/" + title + ".jpg",
			FullImageURL: "https://i.example/" + title + ".png",
			Author:       "poster",
		}
	}
	return out
}

// runCmd executes cmd and any batches it returns, collecting page and preview
// results. Other messages (spinner ticks, mouse toggles) are dropped.
func runCmd(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}
	msg := cmd()
	if batch, ok := msg.(tea.BatchMsg); ok {
		var out []tea.Msg
		for _, c := range batch {
			out = append(out, runCmd(c)...)
		}
		return out
	}
	switch msg.(type) {
	case actions.PageLoadedMsg, actions.PageErrorMsg, actions.PreviewRenderedMsg, actions.PreviewErrorMsg:
		return []tea.Msg{msg}
	}
	return nil
}

func pageMsgs(msgs []tea.Msg) []tea.Msg {
	var out []tea.Msg
	for _, msg := range msgs {
		switch msg.(type) {
		case actions.PageLoadedMsg, actions.PageErrorMsg:
			out = append(out, msg)
		}
	}
	return out
}

func apply(t *testing.T, m Model, msgs []tea.Msg) Model {
	t.Helper()
	for _, msg := range msgs {
		updated, _ := m.Update(msg)
		m = updated.(Model)
	}
	return m
}

func update(t *testing.T, m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	updated, cmd := m.Update(msg)
	return updated.(Model), cmd
}

func mount(t *testing.T, m Model) (Model, tea.Cmd) {
	t.Helper()
	m, _ = update(t, m, tea.WindowSizeMsg{Width: 80, Height: 24})
	return update(t, m, mountMsg{})
}

var wheelDown = tea.MouseMsg{Button: tea.MouseButtonWheelDown, Action: tea.MouseActionPress}

func runeKey(r rune) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}}
}

func titles(list []gallery.FeedItem) string {
	out := make([]string, len(list))
	for i, item := range list {
		out[i] = item.Title
	}
	return strings.Join(out, ",")
}

func TestModel_FetchesFirstPageOnMount(t *testing.T) {
	feed := &scriptedFeed{results: []pageResult{{page: gallery.FeedPage{Items: items("A", "B"), Next: gallery.HasMore("x")}}}}
	m := NewModel(feed, Options{})

	if m.Init() == nil {
		t.Fatal("expected init command")
	}

	m, cmd := mount(t, m)
	if !m.Loading() {
		t.Fatal("expected a request in flight after mount")
	}
	m = apply(t, m, runCmd(cmd))

	if got := titles(m.Items()); got != "A,B" {
		t.Fatalf("unexpected items after mount: %s", got)
	}
	if m.Loading() {
		t.Fatal("expected guard released after page loaded")
	}
	if feed.cursors[0] != gallery.Unfetched() {
		t.Fatalf("expected first request without cursor, got %s", feed.cursors[0])
	}
}

func TestModel_ScrollToBottomLoadsUntilExhausted(t *testing.T) {
	feed := &scriptedFeed{results: []pageResult{
		{page: gallery.FeedPage{Items: items("A", "B"), Next: gallery.HasMore("x")}},
		{page: gallery.FeedPage{Items: items("C"), Next: gallery.Exhausted()}},
	}}
	m, cmd := mount(t, NewModel(feed, Options{BottomThreshold: 1}))
	m = apply(t, m, runCmd(cmd))

	m, cmd = update(t, m, wheelDown)
	msgs := pageMsgs(runCmd(cmd))
	if len(msgs) != 1 {
		t.Fatalf("expected one page request on scroll to bottom, got %d", len(msgs))
	}
	m = apply(t, m, msgs)
	if got := titles(m.Items()); got != "A,B,C" {
		t.Fatalf("unexpected items after scroll: %s", got)
	}
	if feed.cursors[1] != gallery.HasMore("x") {
		t.Fatalf("expected second request after x, got %s", feed.cursors[1])
	}

	m, cmd = update(t, m, wheelDown)
	if msgs := pageMsgs(runCmd(cmd)); len(msgs) != 0 {
		t.Fatalf("expected no request once exhausted, got %d", len(msgs))
	}
	if got := titles(m.Items()); got != "A,B,C" {
		t.Fatalf("expected items unchanged, got %s", got)
	}
	if feed.calls() != 2 {
		t.Fatalf("expected two fetches, got %d", feed.calls())
	}
	if !strings.Contains(ansiScreenStrip.ReplaceAllString(m.View(), ""), "end of feed") {
		t.Fatal("expected header to show end of feed")
	}
}

func TestModel_OverlappingScrollsIssueOneRequest(t *testing.T) {
	feed := &scriptedFeed{results: []pageResult{
		{page: gallery.FeedPage{Items: items("A"), Next: gallery.HasMore("x")}},
		{page: gallery.FeedPage{Items: items("B"), Next: gallery.HasMore("y")}},
	}}
	m, cmd := mount(t, NewModel(feed, Options{}))
	m = apply(t, m, runCmd(cmd))

	m, first := update(t, m, wheelDown)
	m, second := update(t, m, wheelDown)
	if pending := pageMsgs(runCmd(second)); len(pending) != 0 {
		t.Fatalf("expected second scroll to be dropped by the guard, got %d requests", len(pending))
	}
	m = apply(t, m, pageMsgs(runCmd(first)))

	if got := titles(m.Items()); got != "A,B" {
		t.Fatalf("unexpected items: %s", got)
	}
	if feed.calls() != 2 {
		t.Fatalf("expected exactly two fetches, got %d", feed.calls())
	}
}

func TestModel_FailedFetchIsLoggedAndLeavesGallery(t *testing.T) {
	var logs bytes.Buffer
	feed := &scriptedFeed{results: []pageResult{
		{page: gallery.FeedPage{Items: items("A"), Next: gallery.HasMore("x")}},
		{err: errors.New("status 503")},
		{page: gallery.FeedPage{Items: items("B"), Next: gallery.Exhausted()}},
	}}
	m, cmd := mount(t, NewModel(feed, Options{Logger: zerolog.New(&logs)}))
	m = apply(t, m, runCmd(cmd))

	m, cmd = update(t, m, wheelDown)
	m = apply(t, m, runCmd(cmd))

	if got := titles(m.Items()); got != "A" {
		t.Fatalf("expected items unchanged after failure, got %s", got)
	}
	if m.Loading() {
		t.Fatal("expected guard released after failure")
	}
	if !strings.Contains(logs.String(), "fetch page failed") || !strings.Contains(logs.String(), "status 503") {
		t.Fatalf("expected failure in log, got %q", logs.String())
	}
	if strings.Contains(ansiScreenStrip.ReplaceAllString(m.View(), ""), "503") {
		t.Fatal("fetch failures must not be shown in the grid")
	}

	// The cursor is kept, so the next scroll retries from the same place.
	m, cmd = update(t, m, wheelDown)
	m = apply(t, m, runCmd(cmd))
	if got := titles(m.Items()); got != "A,B" {
		t.Fatalf("unexpected items after next scroll: %s", got)
	}
	if feed.cursors[2] != gallery.HasMore("x") {
		t.Fatalf("expected retry from x, got %s", feed.cursors[2])
	}
}

func TestModel_DiscardsResultsAfterUnmount(t *testing.T) {
	feed := &scriptedFeed{results: []pageResult{{page: gallery.FeedPage{Items: items("A"), Next: gallery.HasMore("x")}}}}
	m, cmd := mount(t, NewModel(feed, Options{}))

	m, quit := update(t, m, runeKey('q'))
	if quit == nil {
		t.Fatal("expected quit command")
	}
	m = apply(t, m, runCmd(cmd))
	if len(m.Items()) != 0 {
		t.Fatalf("expected page after unmount to be discarded, got %s", titles(m.Items()))
	}

	m, cmd = update(t, m, wheelDown)
	if cmd != nil {
		t.Fatal("expected no commands after unmount")
	}
}

func TestModel_ReloadDropsInFlightPage(t *testing.T) {
	feed := &scriptedFeed{results: []pageResult{
		{page: gallery.FeedPage{Items: items("A"), Next: gallery.HasMore("x")}},
		{page: gallery.FeedPage{Items: items("B"), Next: gallery.HasMore("y")}},
		{page: gallery.FeedPage{Items: items("C"), Next: gallery.HasMore("z")}},
	}}
	m, cmd := mount(t, NewModel(feed, Options{}))
	m = apply(t, m, runCmd(cmd))

	m, stale := update(t, m, wheelDown)
	m, fresh := update(t, m, runeKey('r'))
	if len(m.Items()) != 0 {
		t.Fatalf("expected reload to clear items, got %s", titles(m.Items()))
	}

	m = apply(t, m, pageMsgs(runCmd(stale)))
	if len(m.Items()) != 0 {
		t.Fatalf("expected stale page to be dropped, got %s", titles(m.Items()))
	}
	m = apply(t, m, pageMsgs(runCmd(fresh)))
	if got := titles(m.Items()); got != "C" {
		t.Fatalf("unexpected items after reload: %s", got)
	}
	if feed.cursors[2] != gallery.Unfetched() {
		t.Fatalf("expected reload to start from the first page, got %s", feed.cursors[2])
	}
}

func loaded(t *testing.T, titlesList ...string) Model {
	t.Helper()
	feed := &scriptedFeed{results: []pageResult{{page: gallery.FeedPage{Items: items(titlesList...), Next: gallery.HasMore("x")}}}}
	m, cmd := mount(t, NewModel(feed, Options{}))
	return apply(t, m, runCmd(cmd))
}

func TestModel_ClickTileOpensViewer(t *testing.T) {
	m := loaded(t, "A", "B")

	// Second tile of the first row, first grid line (below the two header lines).
	m, _ = update(t, m, tea.MouseMsg{X: 30, Y: headerLines, Button: tea.MouseButtonLeft, Action: tea.MouseActionPress})
	v := m.Viewer()
	if !v.Open || v.Index != 1 || v.ImageURL != "https://i.example/B.png" {
		t.Fatalf("unexpected viewer: %+v", v)
	}
	screen := ansiScreenStrip.ReplaceAllString(m.View(), "")
	if !strings.Contains(screen, "B") || !strings.Contains(screen, "2 / 2") {
		t.Fatalf("expected viewer caption, got:\n%s", screen)
	}
}

func TestModel_ClickOnGapDoesNothing(t *testing.T) {
	m := loaded(t, "A", "B")

	m, _ = update(t, m, tea.MouseMsg{X: 0, Y: headerLines, Button: tea.MouseButtonLeft, Action: tea.MouseActionPress})
	if m.Viewer().Open {
		t.Fatal("expected click on padding to be ignored")
	}
	m, _ = update(t, m, tea.MouseMsg{X: 5, Y: 0, Button: tea.MouseButtonLeft, Action: tea.MouseActionPress})
	if m.Viewer().Open {
		t.Fatal("expected click on header to be ignored")
	}
}

func TestModel_ViewerClicks(t *testing.T) {
	m := loaded(t, "A", "B")
	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	if !m.Viewer().Open || m.Viewer().Index != 0 {
		t.Fatalf("expected enter to open selected tile, got %+v", m.Viewer())
	}

	box := m.viewerLayout().ImageBox
	m, _ = update(t, m, tea.MouseMsg{X: box.X + 1, Y: box.Y + 1, Button: tea.MouseButtonLeft, Action: tea.MouseActionPress})
	if !m.Viewer().Open {
		t.Fatal("expected click inside the image to keep the viewer open")
	}

	m, _ = update(t, m, tea.MouseMsg{X: 0, Y: 0, Button: tea.MouseButtonLeft, Action: tea.MouseActionPress})
	v := m.Viewer()
	if v.Open {
		t.Fatal("expected click on backdrop to close the viewer")
	}
	if v.ImageURL != "https://i.example/A.png" {
		t.Fatalf("expected image URL to be kept after close, got %q", v.ImageURL)
	}

	m, _ = update(t, m, tea.MouseMsg{X: 0, Y: 0, Button: tea.MouseButtonLeft, Action: tea.MouseActionPress})
	if m.Viewer().Open {
		t.Fatal("expected closed viewer to stay closed")
	}
}

func TestModel_ViewerKeys(t *testing.T) {
	m := loaded(t, "A", "B", "C")
	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyRight})
	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	if m.Viewer().Index != 1 {
		t.Fatalf("expected viewer on selected tile, got %+v", m.Viewer())
	}

	m, _ = update(t, m, runeKey(']'))
	if v := m.Viewer(); v.Index != 2 || v.ImageURL != "https://i.example/C.png" {
		t.Fatalf("expected next item, got %+v", v)
	}
	m, _ = update(t, m, runeKey(']'))
	if m.Viewer().Index != 2 {
		t.Fatal("expected next to stop at the last item")
	}
	m, _ = update(t, m, runeKey('['))
	if m.Viewer().Index != 1 {
		t.Fatalf("expected previous item, got %+v", m.Viewer())
	}

	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	if m.Viewer().Open {
		t.Fatal("expected esc to close the viewer")
	}
	if m.selected != 1 {
		t.Fatalf("expected selection to follow the viewer, got %d", m.selected)
	}
}

func TestModel_OpenURLFallsBackToCopy(t *testing.T) {
	m := loaded(t, "A")
	var copied string
	m.openURLFn = func(string) error { return errors.New("no browser") }
	m.copyURLFn = func(url string) error {
		copied = url
		return nil
	}
	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyEnter})

	m, cmd := update(t, m, runeKey('o'))
	if cmd == nil {
		t.Fatal("expected open command")
	}
	msg, ok := cmd().(actions.OpenURLSuccessMsg)
	if !ok || msg.Opened {
		t.Fatalf("expected copy fallback, got %+v", msg)
	}
	if copied != "https://i.example/A.png" {
		t.Fatalf("unexpected copied URL: %q", copied)
	}

	m, _ = update(t, m, msg)
	if !strings.Contains(ansiScreenStrip.ReplaceAllString(m.View(), ""), "URL copied to clipboard") {
		t.Fatal("expected status in viewer footer")
	}
}

func TestModel_PreviewsRenderForVisibleTiles(t *testing.T) {
	previewer := &fakePreviewer{}
	feed := &scriptedFeed{results: []pageResult{{page: gallery.FeedPage{Items: items("A", "B"), Next: gallery.HasMore("x")}}}}
	m, cmd := mount(t, NewModel(feed, Options{Previewer: previewer}))

	msgs := runCmd(cmd)
	m, cmd = update(t, m, msgs[0])
	previews := runCmd(cmd)
	if len(previews) != 2 {
		t.Fatalf("expected two thumbnail renders, got %d", len(previews))
	}
	m = apply(t, m, previews)

	screen := ansiScreenStrip.ReplaceAllString(m.View(), "")
	if !strings.Contains(screen, strings.Repeat("@", 24)) {
		t.Fatalf("expected rendered thumbnails in grid, got:\n%s", screen)
	}

	// Scrolling does not render the same thumbnails twice.
	_, cmd = update(t, m, tea.MouseMsg{Button: tea.MouseButtonWheelUp, Action: tea.MouseActionPress})
	renders := 0
	for _, msg := range runCmd(cmd) {
		if _, ok := msg.(actions.PreviewRenderedMsg); ok {
			renders++
		}
	}
	if renders != 0 {
		t.Fatalf("expected cached thumbnails, got %d renders", renders)
	}
	if len(previewer.urls) != 2 {
		t.Fatalf("expected two render calls in total, got %v", previewer.urls)
	}
}

func TestModel_ViewerRerendersAfterResize(t *testing.T) {
	previewer := &fakePreviewer{}
	feed := &scriptedFeed{results: []pageResult{{page: gallery.FeedPage{Items: items("A"), Next: gallery.HasMore("x")}}}}
	m, cmd := mount(t, NewModel(feed, Options{Previewer: previewer}))
	m = apply(t, m, pageMsgs(runCmd(cmd)))

	m, cmd = update(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	m = apply(t, m, runCmd(cmd))
	screen := ansiScreenStrip.ReplaceAllString(m.View(), "")
	if !strings.Contains(screen, strings.Repeat("@", 72)) {
		t.Fatalf("expected viewer image at 80 columns, got:\n%s", screen)
	}

	m, cmd = update(t, m, tea.WindowSizeMsg{Width: 100, Height: 30})
	if cmd == nil {
		t.Fatal("expected resize to start a viewer render")
	}
	m = apply(t, m, runCmd(cmd))
	screen = ansiScreenStrip.ReplaceAllString(m.View(), "")
	if !strings.Contains(screen, strings.Repeat("@", 90)) {
		t.Fatalf("expected viewer image at the new size, got:\n%s", screen)
	}
	if strings.Contains(screen, "no image") {
		t.Fatalf("expected no placeholder after resize, got:\n%s", screen)
	}
}

func TestModel_ViewShowsHeaderAndTiles(t *testing.T) {
	m := loaded(t, "Distracted", "Drake")
	screen := ansiScreenStrip.ReplaceAllString(m.View(), "")

	for _, want := range []string{"Meme Gallery", "2 memes", "scroll for more", ">Distracted", " Drake", "no preview"} {
		if !strings.Contains(screen, want) {
			t.Fatalf("expected %q in screen, got:\n%s", want, screen)
		}
	}
	if got := strings.Count(screen, "\n") + 1; got != 24 {
		t.Fatalf("expected screen to fill the terminal, got %d lines", got)
	}
}

func TestModel_HelpToggle(t *testing.T) {
	m := loaded(t, "A")
	m, _ = update(t, m, runeKey('?'))
	screen := ansiScreenStrip.ReplaceAllString(m.View(), "")
	if !strings.Contains(screen, "page down") || !strings.Contains(screen, "reload") {
		t.Fatalf("expected full help, got:\n%s", screen)
	}
	m, _ = update(t, m, runeKey('?'))
	if m.showHelp {
		t.Fatal("expected help to toggle off")
	}
}
