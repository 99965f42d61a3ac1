package html

import (
	"fmt"
	"io"
	"strings"

	xhtml "golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Parse reads an HTML fragment (a visual's markup, without html/head/body
// scaffolding) into a Document. Inline <script> bodies are collected into
// Document.Scripts instead of the tree; whitespace-only text is dropped.
func Parse(markup string) (*Document, error) {
	return ParseReader(strings.NewReader(markup))
}

func ParseReader(r io.Reader) (*Document, error) {
	body := &xhtml.Node{Type: xhtml.ElementNode, Data: "body", DataAtom: atom.Body}
	nodes, err := xhtml.ParseFragment(r, body)
	if err != nil {
		return nil, fmt.Errorf("parsing fragment: %w", err)
	}

	doc := NewDocument()
	for _, n := range nodes {
		convert(doc, doc.Root, n)
	}
	return doc, nil
}

func convert(doc *Document, parent *Node, src *xhtml.Node) {
	switch src.Type {
	case xhtml.TextNode:
		if strings.TrimSpace(src.Data) != "" {
			parent.AppendText(src.Data)
		}
		return
	case xhtml.ElementNode:
	default:
		return
	}

	if src.DataAtom == atom.Script {
		var sb strings.Builder
		for c := src.FirstChild; c != nil; c = c.NextSibling {
			sb.WriteString(c.Data)
		}
		doc.Scripts = append(doc.Scripts, sb.String())
		return
	}

	node := &Node{
		Type:       ElementNode,
		TagName:    src.Data,
		Attributes: make(map[string]string, len(src.Attr)),
		Children:   make([]*Node, 0),
	}
	for _, a := range src.Attr {
		node.Attributes[a.Key] = a.Val
	}
	parent.AddChild(node)

	for c := src.FirstChild; c != nil; c = c.NextSibling {
		convert(doc, node, c)
	}
}
