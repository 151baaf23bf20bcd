package loader

import (
	"fmt"
	"io"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// removedElements never contribute text
var removedElements = map[atom.Atom]bool{
	atom.Script:   true,
	atom.Style:    true,
	atom.Nav:      true,
	atom.Footer:   true,
	atom.Header:   true,
	atom.Noscript: true,
}

// removedClasses drops any element carrying one of these class tokens
var removedClasses = map[string]bool{
	"menu":    true,
	"sidebar": true,
	"ad":      true,
}

// ExtractText returns the readable text of an HTML document.
// It skips script, style, nav, footer, header and noscript elements and any
// element whose class list contains menu, sidebar or ad, takes the text of
// <body> (the whole document when there is none), separates text nodes,
// collapses every whitespace run to one space and trims the result.
func ExtractText(r io.Reader) (string, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return "", fmt.Errorf("failed to parse HTML: %w", err)
	}

	root := findBody(doc)
	if root == nil {
		root = doc
	}

	var text strings.Builder
	collectText(root, &text)
	return collapseWhitespace(text.String()), nil
}

func findBody(n *html.Node) *html.Node {
	if n.Type == html.ElementNode && n.DataAtom == atom.Body {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if body := findBody(c); body != nil {
			return body
		}
	}
	return nil
}

func collectText(n *html.Node, text *strings.Builder) {
	switch n.Type {
	case html.TextNode:
		text.WriteString(n.Data)
		text.WriteString(" ")
		return
	case html.CommentNode:
		return
	case html.ElementNode:
		if isRemoved(n) {
			return
		}
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		collectText(c, text)
	}
}

func isRemoved(n *html.Node) bool {
	if removedElements[n.DataAtom] {
		return true
	}
	for _, attr := range n.Attr {
		if attr.Namespace != "" || attr.Key != "class" {
			continue
		}
		for _, class := range strings.Fields(attr.Val) {
			if removedClasses[class] {
				return true
			}
		}
	}
	return false
}

// collapseWhitespace joins whitespace separated fields with single spaces
func collapseWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
