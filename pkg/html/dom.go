package html

import (
	"strings"
)

// Node is one element or text node of the render tree.
type Node struct {
	Type       NodeType
	TagName    string
	Attributes map[string]string
	Text       string
	Children   []*Node
	Parent     *Node

	// Listeners registered with On, keyed by "type.namespace".
	listeners map[string]Listener
}

type NodeType int

const (
	ElementNode NodeType = iota
	TextNode
)

// Document owns the synthetic root that parsed content hangs from.
type Document struct {
	Root    *Node
	Scripts []string // bodies of inline <script> elements, in document order
}

func NewDocument() *Document {
	return &Document{
		Root: &Node{
			Type:     ElementNode,
			TagName:  "document",
			Children: make([]*Node, 0),
		},
	}
}

// NewElement creates a detached element with the given attributes.
func NewElement(tag string, attrs map[string]string) *Node {
	n := &Node{
		Type:       ElementNode,
		TagName:    tag,
		Attributes: make(map[string]string, len(attrs)),
		Children:   make([]*Node, 0),
	}
	for k, v := range attrs {
		n.Attributes[k] = v
	}
	return n
}

func (n *Node) GetAttribute(name string) (string, bool) {
	if n.Attributes == nil {
		return "", false
	}
	val, ok := n.Attributes[name]
	return val, ok
}

// Attr returns the attribute value or "" when absent.
func (n *Node) Attr(name string) string {
	val, _ := n.GetAttribute(name)
	return val
}

func (n *Node) HasAttribute(name string) bool {
	_, ok := n.GetAttribute(name)
	return ok
}

func (n *Node) SetAttribute(name, value string) {
	if n.Attributes == nil {
		n.Attributes = make(map[string]string)
	}
	n.Attributes[name] = value
}

func (n *Node) RemoveAttribute(name string) {
	delete(n.Attributes, name)
}

// Classes returns the whitespace-separated tokens of the class attribute.
func (n *Node) Classes() []string {
	return strings.Fields(n.Attr("class"))
}

func (n *Node) HasClass(class string) bool {
	for _, c := range n.Classes() {
		if c == class {
			return true
		}
	}
	return false
}

func (n *Node) AddClass(class string) {
	if n.HasClass(class) {
		return
	}
	n.SetAttribute("class", strings.TrimSpace(n.Attr("class")+" "+class))
}

func (n *Node) IsElement() bool {
	return n.Type == ElementNode && n.TagName != "document"
}

// AddChild adds a child node and sets up the parent relationship
func (n *Node) AddChild(child *Node) {
	child.Parent = n
	n.Children = append(n.Children, child)
}

// AppendText creates a text node and adds it as a child
func (n *Node) AppendText(text string) {
	if text == "" {
		return
	}
	n.AddChild(&Node{Type: TextNode, Text: text})
}

// RemoveChild detaches child and returns it, or nil if it is not a child of n.
func (n *Node) RemoveChild(child *Node) *Node {
	for i, c := range n.Children {
		if c == child {
			n.Children = append(n.Children[:i], n.Children[i+1:]...)
			child.Parent = nil
			return child
		}
	}
	return nil
}

// Contains returns true if other is n or one of its descendants.
func (n *Node) Contains(other *Node) bool {
	for cur := other; cur != nil; cur = cur.Parent {
		if cur == n {
			return true
		}
	}
	return false
}

// Closest walks from n (inclusive) towards the root and returns the first
// element for which match returns true.
func (n *Node) Closest(match func(*Node) bool) *Node {
	for cur := n; cur != nil; cur = cur.Parent {
		if cur.IsElement() && match(cur) {
			return cur
		}
	}
	return nil
}

// Ancestors returns n and its ancestors, nearest first.
func (n *Node) Ancestors() []*Node {
	var path []*Node
	for cur := n; cur != nil; cur = cur.Parent {
		path = append(path, cur)
	}
	return path
}

// Walk visits element descendants of n (excluding n) in document order.
// Returning false from fn skips the node's subtree.
func (n *Node) Walk(fn func(*Node) bool) {
	for _, child := range n.Children {
		if child.Type != ElementNode {
			continue
		}
		if fn(child) {
			child.Walk(fn)
		}
	}
}

// Descendants collects element descendants of n matching the predicate in
// document order.
func (n *Node) Descendants(match func(*Node) bool) []*Node {
	var result []*Node
	n.Walk(func(c *Node) bool {
		if match(c) {
			result = append(result, c)
		}
		return true
	})
	return result
}

// ElementByID returns the first descendant with the given id attribute.
func (n *Node) ElementByID(id string) *Node {
	var found *Node
	n.Walk(func(c *Node) bool {
		if found != nil {
			return false
		}
		if v, ok := c.GetAttribute("id"); ok && v == id {
			found = c
			return false
		}
		return true
	})
	return found
}

// TextContent concatenates the text of all descendant text nodes.
func (n *Node) TextContent() string {
	if n.Type == TextNode {
		return n.Text
	}
	var sb strings.Builder
	for _, child := range n.Children {
		sb.WriteString(child.TextContent())
	}
	return sb.String()
}
