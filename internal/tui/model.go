package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"

	"github.com/glabrego/memegallery/internal/gallery"
	"github.com/glabrego/memegallery/internal/tui/actions"
	"github.com/glabrego/memegallery/internal/tui/platform"
	tuistate "github.com/glabrego/memegallery/internal/tui/state"
	tuitheme "github.com/glabrego/memegallery/internal/tui/theme"
	"github.com/glabrego/memegallery/internal/tui/view"
)

const (
	headerLines   = 2
	wheelStep     = 3
	statusTimeout = 3 * time.Second
)

type mountMsg struct{}

type clearStatusMsg struct {
	id int
}

type preview struct {
	loading bool
	art     string
	err     string
}

type Options struct {
	BottomThreshold int
	RequestTimeout  time.Duration
	RenderTimeout   time.Duration
	// Previewer renders thumbnails and full images. Nil disables previews.
	Previewer actions.Previewer
	Logger    zerolog.Logger
}

// Model is the interactive gallery. It owns one gallery.State for as long as
// it is mounted.
type Model struct {
	feed           gallery.Feed
	previewer      actions.Previewer
	log            zerolog.Logger
	gallery        gallery.State
	mounted        bool
	width          int
	height         int
	scrollTop      int
	selected       int
	threshold      int
	requestTimeout time.Duration
	renderTimeout  time.Duration
	keys           keyMap
	help           help.Model
	spinner        spinner.Model
	showHelp       bool
	status         string
	statusID       int
	previews       map[actions.PreviewKey]preview
	theme          tuitheme.Theme
	openURLFn      func(string) error
	copyURLFn      func(string) error
}

func NewModel(feed gallery.Feed, opts Options) Model {
	if opts.RequestTimeout <= 0 {
		opts.RequestTimeout = 10 * time.Second
	}
	if opts.RenderTimeout <= 0 {
		opts.RenderTimeout = 15 * time.Second
	}
	if opts.BottomThreshold < 0 {
		opts.BottomThreshold = 0
	}
	return Model{
		feed:           feed,
		previewer:      opts.Previewer,
		log:            opts.Logger,
		gallery:        gallery.NewState(),
		width:          80,
		height:         24,
		threshold:      opts.BottomThreshold,
		requestTimeout: opts.RequestTimeout,
		renderTimeout:  opts.RenderTimeout,
		keys:           defaultKeyMap(),
		help:           help.New(),
		spinner:        spinner.New(spinner.WithSpinner(spinner.Dot)),
		previews:       make(map[actions.PreviewKey]preview),
		theme:          tuitheme.Default(),
		openURLFn:      platform.OpenURLInBrowser,
		copyURLFn:      platform.CopyURLToClipboard,
	}
}

// Init subscribes to mouse events and mounts the gallery, which triggers
// the first page load.
func (m Model) Init() tea.Cmd {
	return tea.Batch(tea.EnableMouseCellMotion, func() tea.Msg { return mountMsg{} })
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case mountMsg:
		m.mounted = true
		m.log.Debug().Msg("gallery mounted")
		cmd := m.loadNextPage()
		return m, cmd
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.scrollTop = tuistate.ClampScroll(m.scrollTop, m.viewportHeight(), m.grid().Height)
		if m.gallery.Viewer().Open {
			// The image box is sized from the window.
			cmd := m.ensureViewerPreviewCmd()
			return m, cmd
		}
		cmd := m.ensurePreviewsCmd()
		return m, cmd
	case actions.PageLoadedMsg:
		return m.pageLoaded(msg)
	case actions.PageErrorMsg:
		return m.pageFailed(msg)
	case actions.PreviewRenderedMsg:
		if _, ok := m.previews[msg.Key]; ok {
			m.previews[msg.Key] = preview{art: msg.Art}
		}
		return m, nil
	case actions.PreviewErrorMsg:
		if _, ok := m.previews[msg.Key]; ok {
			m.previews[msg.Key] = preview{err: msg.Err.Error()}
			m.log.Debug().Err(msg.Err).Str("url", msg.Key.URL).Msg("preview render failed")
		}
		return m, nil
	case actions.OpenURLSuccessMsg:
		cmd := m.setStatus(msg.Status)
		return m, cmd
	case actions.OpenURLErrorMsg:
		cmd := m.setStatus(msg.Err.Error())
		return m, cmd
	case clearStatusMsg:
		if msg.id == m.statusID {
			m.status = ""
		}
		return m, nil
	case spinner.TickMsg:
		if !m.busy() {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	case tea.MouseMsg:
		if !m.mounted {
			return m, nil
		}
		if m.gallery.Viewer().Open {
			return m.viewerMouse(msg)
		}
		return m.gridMouse(msg)
	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m.unmount()
	case key.Matches(msg, m.keys.Help):
		m.showHelp = !m.showHelp
		m.help.ShowAll = m.showHelp
		m.scrollTop = tuistate.ClampScroll(m.scrollTop, m.viewportHeight(), m.grid().Height)
		return m, nil
	}
	if !m.mounted {
		return m, nil
	}
	if m.gallery.Viewer().Open {
		return m.viewerKey(msg)
	}

	switch {
	case key.Matches(msg, m.keys.Reload):
		return m.reload()
	case key.Matches(msg, m.keys.LineDown):
		return m.scrollBy(1)
	case key.Matches(msg, m.keys.LineUp):
		return m.scrollBy(-1)
	case key.Matches(msg, m.keys.PageDown):
		return m.scrollBy(tuistate.PageStep(m.height, headerLines+m.footerLines()))
	case key.Matches(msg, m.keys.PageUp):
		return m.scrollBy(-tuistate.PageStep(m.height, headerLines+m.footerLines()))
	case key.Matches(msg, m.keys.Top):
		return m.scrollTo(0)
	case key.Matches(msg, m.keys.Bottom):
		return m.scrollTo(m.grid().Height)
	case key.Matches(msg, m.keys.Left):
		return m.moveSelection(-1)
	case key.Matches(msg, m.keys.Right):
		return m.moveSelection(1)
	case key.Matches(msg, m.keys.Up):
		return m.moveSelection(-m.grid().Columns)
	case key.Matches(msg, m.keys.Down):
		return m.moveSelection(m.grid().Columns)
	case key.Matches(msg, m.keys.Open):
		if m.gallery.Len() == 0 {
			return m, nil
		}
		return m.openViewer(m.selected)
	}
	return m, nil
}

func (m Model) viewerKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	viewer := m.gallery.Viewer()
	switch {
	case key.Matches(msg, m.keys.Close):
		m.gallery.CloseViewer()
		cmd := m.ensurePreviewsCmd()
		return m, cmd
	case key.Matches(msg, m.keys.Prev):
		if viewer.Index > 0 {
			return m.openViewer(viewer.Index - 1)
		}
	case key.Matches(msg, m.keys.Next):
		if viewer.Index < m.gallery.Len()-1 {
			return m.openViewer(viewer.Index + 1)
		}
	case key.Matches(msg, m.keys.OpenURL):
		url, err := platform.ValidateImageURL(viewer.ImageURL)
		if err != nil {
			cmd := m.setStatus(err.Error())
			return m, cmd
		}
		return m, actions.OpenURLCmd(url, m.openURLFn, m.copyURLFn)
	case key.Matches(msg, m.keys.CopyURL):
		if strings.TrimSpace(viewer.ImageURL) == "" {
			cmd := m.setStatus("item has no image URL")
			return m, cmd
		}
		return m, actions.CopyURLCmd(viewer.ImageURL, m.copyURLFn)
	}
	return m, nil
}

func (m Model) gridMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	switch {
	case msg.Button == tea.MouseButtonWheelDown:
		return m.scrollBy(wheelStep)
	case msg.Button == tea.MouseButtonWheelUp:
		return m.scrollBy(-wheelStep)
	case msg.Button == tea.MouseButtonLeft && msg.Action == tea.MouseActionPress:
		row := msg.Y - headerLines
		if row < 0 || row >= m.viewportHeight() {
			return m, nil
		}
		index, ok := m.grid().TileAt(msg.X, row+m.scrollTop)
		if !ok {
			return m, nil
		}
		m.selected = index
		return m.openViewer(index)
	}
	return m, nil
}

// viewerMouse closes the overlay on a click outside the image box. Clicks on
// the image itself are swallowed.
func (m Model) viewerMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	if msg.Button != tea.MouseButtonLeft || msg.Action != tea.MouseActionPress {
		return m, nil
	}
	if m.viewerLayout().ImageBox.Contains(msg.X, msg.Y) {
		return m, nil
	}
	m.gallery.CloseViewer()
	cmd := m.ensurePreviewsCmd()
	return m, cmd
}

func (m Model) unmount() (tea.Model, tea.Cmd) {
	m.mounted = false
	m.log.Debug().Int("items", m.gallery.Len()).Msg("gallery unmounted")
	return m, tea.Sequence(tea.DisableMouse, tea.Quit)
}

func (m Model) reload() (tea.Model, tea.Cmd) {
	m.gallery.Reset()
	m.scrollTop = 0
	m.selected = 0
	m.previews = make(map[actions.PreviewKey]preview)
	m.log.Info().Uint64("session", m.gallery.Session()).Msg("gallery reloaded")
	cmd := m.loadNextPage()
	return m, cmd
}

// loadNextPage requests the page after the stored cursor unless a request is
// already outstanding or the feed is exhausted.
func (m *Model) loadNextPage() tea.Cmd {
	if m.feed == nil {
		return nil
	}
	req, ok := m.gallery.BeginLoad()
	if !ok {
		return nil
	}
	m.log.Debug().Str("cursor", req.Cursor.String()).Uint64("seq", req.Seq).Msg("loading page")
	return tea.Batch(actions.LoadPageCmd(m.feed, req, m.requestTimeout), m.spinner.Tick)
}

func (m Model) pageLoaded(msg actions.PageLoadedMsg) (tea.Model, tea.Cmd) {
	if !m.mounted {
		return m, nil
	}
	if !m.gallery.CompleteLoad(msg.Request, msg.Page) {
		m.log.Debug().Uint64("seq", msg.Request.Seq).Msg("dropping stale page")
		return m, nil
	}
	m.log.Debug().
		Int("items", len(msg.Page.Items)).
		Str("next", msg.Page.Next.String()).
		Dur("duration", msg.Duration).
		Msg("page loaded")
	cmd := m.ensurePreviewsCmd()
	return m, cmd
}

func (m Model) pageFailed(msg actions.PageErrorMsg) (tea.Model, tea.Cmd) {
	if !m.mounted {
		return m, nil
	}
	if !m.gallery.FailLoad(msg.Request) {
		return m, nil
	}
	m.log.Error().
		Err(msg.Err).
		Str("cursor", msg.Request.Cursor.String()).
		Dur("duration", msg.Duration).
		Msg("fetch page failed")
	return m, nil
}

func (m Model) scrollBy(delta int) (tea.Model, tea.Cmd) {
	return m.scrollTo(m.scrollTop + delta)
}

// scrollTo moves the grid and then runs the bottom check, loading the next
// page when the viewport reaches the end of the content.
func (m Model) scrollTo(top int) (tea.Model, tea.Cmd) {
	g := m.grid()
	m.scrollTop = tuistate.ClampScroll(top, m.viewportHeight(), g.Height)
	var cmds []tea.Cmd
	if tuistate.AtBottom(m.scrollTop, m.viewportHeight(), g.Height, m.threshold) {
		cmds = append(cmds, m.loadNextPage())
	}
	cmds = append(cmds, m.ensurePreviewsCmd())
	return m, tea.Batch(cmds...)
}

func (m Model) moveSelection(delta int) (tea.Model, tea.Cmd) {
	if m.gallery.Len() == 0 {
		return m, nil
	}
	m.selected = tuistate.ClampCursor(m.selected+delta, m.gallery.Len())
	rect, ok := m.grid().TileRect(m.selected)
	if !ok {
		return m, nil
	}
	return m.scrollTo(tuistate.EnsureVisible(m.scrollTop, m.viewportHeight(), rect.Y, rect.H))
}

func (m Model) openViewer(index int) (tea.Model, tea.Cmd) {
	m.gallery.OpenViewer(index)
	m.selected = index
	cmd := m.ensureViewerPreviewCmd()
	return m, cmd
}

func (m *Model) setStatus(status string) tea.Cmd {
	m.status = status
	m.statusID++
	return clearStatusCmd(m.statusID, statusTimeout)
}

func clearStatusCmd(id int, after time.Duration) tea.Cmd {
	return tea.Tick(after, func(time.Time) tea.Msg {
		return clearStatusMsg{id: id}
	})
}

func (m Model) busy() bool {
	if m.gallery.Loading() {
		return true
	}
	if viewer := m.gallery.Viewer(); viewer.Open {
		return m.previews[m.viewerPreviewKey()].loading
	}
	return false
}

func (m Model) footerLines() int {
	if !m.showHelp {
		return 1
	}
	return strings.Count(m.help.View(m.helpKeys()), "\n") + 1
}

func (m Model) helpKeys() keyMap {
	km := m.keys
	km.inViewer = m.gallery.Viewer().Open
	return km
}

func (m Model) viewportHeight() int {
	h := m.height - headerLines - m.footerLines()
	if h < 1 {
		h = 1
	}
	return h
}

func (m Model) tileHeights() []int {
	items := m.gallery.Items()
	heights := make([]int, len(items))
	for i, item := range items {
		heights[i] = gallery.Stagger(i, item.ID, view.MinTileLines, view.MaxTileLines-view.MinTileLines+1)
	}
	return heights
}

func (m Model) grid() view.Grid {
	return view.LayoutGrid(m.tileHeights(), m.width)
}

func (m Model) viewerLayout() view.ViewerLayout {
	return view.LayoutViewer(m.width, m.height)
}

func (m Model) thumbnailKey(index int, rect view.Rect) (actions.PreviewKey, bool) {
	url, err := platform.ValidateImageURL(m.gallery.Item(index).ThumbnailURL)
	if err != nil || rect.H < 2 {
		return actions.PreviewKey{}, false
	}
	return actions.PreviewKey{URL: url, Width: rect.W, Height: rect.H - 1}, true
}

func (m Model) viewerPreviewKey() actions.PreviewKey {
	box := m.viewerLayout().ImageBox
	return actions.PreviewKey{URL: strings.TrimSpace(m.gallery.Viewer().ImageURL), Width: box.W, Height: box.H}
}

// ensurePreviewsCmd starts thumbnail renders for tiles in the viewport that
// have none yet.
func (m *Model) ensurePreviewsCmd() tea.Cmd {
	if m.previewer == nil || m.gallery.Viewer().Open {
		return nil
	}
	g := m.grid()
	var cmds []tea.Cmd
	for _, index := range g.VisibleIndices(m.scrollTop, m.viewportHeight()) {
		rect, _ := g.TileRect(index)
		k, ok := m.thumbnailKey(index, rect)
		if !ok {
			continue
		}
		if _, seen := m.previews[k]; seen {
			continue
		}
		m.previews[k] = preview{loading: true}
		cmds = append(cmds, actions.RenderPreviewCmd(m.previewer, k, m.renderTimeout))
	}
	return tea.Batch(cmds...)
}

func (m *Model) ensureViewerPreviewCmd() tea.Cmd {
	if m.previewer == nil {
		return nil
	}
	k := m.viewerPreviewKey()
	if _, err := platform.ValidateImageURL(k.URL); err != nil {
		return nil
	}
	if _, seen := m.previews[k]; seen {
		return nil
	}
	m.previews[k] = preview{loading: true}
	return tea.Batch(actions.RenderPreviewCmd(m.previewer, k, m.renderTimeout), m.spinner.Tick)
}

func (m Model) View() string {
	if m.gallery.Viewer().Open {
		return m.viewerView()
	}

	g := m.grid()
	viewport := m.viewportHeight()
	var b strings.Builder
	b.WriteString(view.Header(view.HeaderInput{
		Width:     m.width,
		Count:     m.gallery.Len(),
		Loading:   m.gallery.Loading(),
		Spinner:   m.spinner.View(),
		Exhausted: m.gallery.Cursor().Exhausted(),
	}, m.theme))
	b.WriteString("\n\n")

	lines := view.RenderGrid(g, m.scrollTop, viewport, m.renderTile)
	if m.gallery.Len() == 0 && m.gallery.Cursor().Exhausted() && len(lines) > 0 {
		lines[0] = m.theme.MetaValue.Render(" No memes to show.")
	}
	b.WriteString(strings.Join(lines, "\n"))
	b.WriteString("\n")
	b.WriteString(m.footer())
	return b.String()
}

func (m Model) renderTile(index int, rect view.Rect) []string {
	item := m.gallery.Item(index)
	content := view.TileContent{Title: item.Title, Status: "no preview"}
	if k, ok := m.thumbnailKey(index, rect); ok && m.previewer != nil {
		p := m.previews[k]
		switch {
		case p.art != "":
			content.Preview = p.art
		case p.loading:
			content.Status = "loading…"
		}
	}
	return view.RenderTile(content, rect.W, rect.H, index == m.selected, m.theme)
}

func (m Model) viewerView() string {
	viewer := m.gallery.Viewer()
	item := m.gallery.Item(viewer.Index)
	in := view.ViewerInput{
		Title:   item.Title,
		Author:  item.Author,
		Index:   viewer.Index,
		Total:   m.gallery.Len(),
		Spinner: m.spinner.View(),
	}
	switch {
	case m.previewer == nil:
		in.Err = "previews disabled, press o to open in browser"
	default:
		if _, err := platform.ValidateImageURL(viewer.ImageURL); err != nil {
			in.Err = err.Error()
			break
		}
		p := m.previews[m.viewerPreviewKey()]
		in.Image = p.art
		in.Loading = p.loading
		in.Err = p.err
	}
	out := view.RenderViewer(m.viewerLayout(), in, m.theme)
	if m.showHelp || m.status != "" {
		lines := strings.Split(out, "\n")
		footer := strings.Split(m.footer(), "\n")
		if len(footer) <= len(lines) {
			copy(lines[len(lines)-len(footer):], footer)
		}
		out = strings.Join(lines, "\n")
	}
	return out
}

func (m Model) footer() string {
	km := m.helpKeys()
	if m.showHelp {
		return m.help.View(km)
	}
	return view.StatusLine(m.status, m.help.View(km), m.width, m.theme)
}

// Items returns the loaded items, for tests and headless callers.
func (m Model) Items() []gallery.FeedItem {
	return append([]gallery.FeedItem(nil), m.gallery.Items()...)
}

func (m Model) Viewer() gallery.Viewer {
	return m.gallery.Viewer()
}

func (m Model) Loading() bool {
	return m.gallery.Loading()
}

func (m Model) String() string {
	return fmt.Sprintf("gallery{items=%d cursor=%s loading=%v}", m.gallery.Len(), m.gallery.Cursor(), m.gallery.Loading())
}
