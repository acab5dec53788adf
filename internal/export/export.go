package export

import (
	"fmt"
	"io"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/glabrego/memegallery/internal/gallery"
)

const (
	robotoStylesheet = "https://fonts.googleapis.com/css2?family=Roboto:wght@400;700&display=swap"
	minTileHeightPx  = 150
	tileSpreadPx     = 100
)

const stylesheet = `*,*::before,*::after{box-sizing:border-box}
html,body{margin:0;padding:0}
body{background:#000000;color:#FFFFFF;font-family:Roboto,Arial,sans-serif;min-height:100vh}
.container{max-width:1200px;margin:0 auto;padding:0 24px;background:#000000;min-height:100vh}
.frame{background:#121212;padding:20px;border-radius:24px}
.header{display:flex;flex-direction:column;align-items:center;margin-top:10px;padding:5px;border-radius:15px;background:#1E1E1E;box-shadow:0px 2px 10px rgba(0,0,0,0.1);color:#FFFFFF}
.header h1{font-size:3.5rem;font-family:Arial,sans-serif;font-weight:300;margin:0 0 0.35em}
.gallery{display:grid;grid-template-columns:repeat(auto-fill,minmax(200px,1fr));gap:20px;background:#121212;padding:20px;border-radius:15px}
.gallery a{display:block;position:relative}
.gallery img{width:100%;border-radius:8px;object-fit:cover}`

// Page writes a static HTML snapshot of items: the header card and a lazy
// loading image grid where each tile links to its full image.
func Page(w io.Writer, items []gallery.FeedItem) error {
	doc := &html.Node{Type: html.DocumentNode}
	doc.AppendChild(&html.Node{Type: html.DoctypeNode, Data: "html"})

	root := element(atom.Html, attr("lang", "en"))
	root.AppendChild(head())
	root.AppendChild(body(items))
	doc.AppendChild(root)

	if err := html.Render(w, doc); err != nil {
		return fmt.Errorf("render gallery page: %w", err)
	}
	return nil
}

// TileHeight is the pixel height of the tile at index.
func TileHeight(index int, item gallery.FeedItem) int {
	return gallery.Stagger(index, item.ID, minTileHeightPx, tileSpreadPx)
}

func head() *html.Node {
	h := element(atom.Head)
	h.AppendChild(element(atom.Meta, attr("charset", "utf-8")))
	h.AppendChild(element(atom.Meta, attr("name", "viewport"), attr("content", "width=device-width, initial-scale=1")))
	h.AppendChild(withText(element(atom.Title), "Meme Gallery"))
	h.AppendChild(element(atom.Link, attr("rel", "stylesheet"), attr("href", robotoStylesheet)))
	h.AppendChild(withText(element(atom.Style), stylesheet))
	return h
}

func body(items []gallery.FeedItem) *html.Node {
	b := element(atom.Body)
	container := element(atom.Div, attr("class", "container"))
	frame := element(atom.Div, attr("class", "frame"))

	header := element(atom.Div, attr("class", "header"))
	header.AppendChild(withText(element(atom.H1), "Meme Gallery"))
	frame.AppendChild(header)
	frame.AppendChild(element(atom.Br))
	frame.AppendChild(element(atom.Br))

	grid := element(atom.Div, attr("class", "gallery"))
	for i, item := range items {
		grid.AppendChild(tile(i, item))
	}
	frame.AppendChild(grid)

	container.AppendChild(frame)
	b.AppendChild(container)
	return b
}

func tile(index int, item gallery.FeedItem) *html.Node {
	link := element(atom.A, attr("href", item.FullImageURL), attr("title", item.Title))
	img := element(atom.Img,
		attr("src", item.ThumbnailURL),
		attr("alt", item.Title),
		attr("loading", "lazy"),
		attr("style", fmt.Sprintf("height:%dpx", TileHeight(index, item))),
	)
	link.AppendChild(img)
	return link
}

func element(a atom.Atom, attrs ...html.Attribute) *html.Node {
	return &html.Node{Type: html.ElementNode, DataAtom: a, Data: a.String(), Attr: attrs}
}

func attr(key, val string) html.Attribute {
	return html.Attribute{Key: key, Val: strings.TrimSpace(val)}
}

func withText(n *html.Node, text string) *html.Node {
	n.AppendChild(&html.Node{Type: html.TextNode, Data: text})
	return n
}
