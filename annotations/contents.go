package annotations

import (
	"bytes"
	"strings"

	treeblood "github.com/wyatt915/goldmark-treeblood"
	"github.com/yuin/goldmark"
	"golang.org/x/net/html"
)

var contentsRenderer = goldmark.New(
	goldmark.WithExtensions(treeblood.MathML()),
)

// ContentsHTML renders the annotation contents as HTML for display in a
// popup. Contents are treated as Markdown; inline TeX math is rendered to
// MathML.
func (a *Annotation) ContentsHTML() (string, error) {
	var buf bytes.Buffer
	if err := contentsRenderer.Convert([]byte(a.Contents), &buf); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// PlainContents flattens the annotation contents to plain text for search
// and tooltips. Rich-text markup is stripped; plain contents pass through
// unchanged.
func (a *Annotation) PlainContents() string {
	if !strings.ContainsAny(a.Contents, "<&") {
		return a.Contents
	}
	node, err := html.Parse(strings.NewReader(a.Contents))
	if err != nil {
		return a.Contents
	}
	var b strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			b.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(node)
	return strings.TrimSpace(b.String())
}
