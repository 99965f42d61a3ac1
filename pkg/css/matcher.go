package css

import (
	"strings"

	"subsel/pkg/html"
)

// MatchesSelector returns true if the node matches the complex selector.
func MatchesSelector(node *html.Node, selector Selector) bool {
	if node == nil || !node.IsElement() {
		return false
	}
	if len(selector.Parts) == 0 {
		return false
	}

	// Start matching from the rightmost part (the target element)
	return matchesCompoundSelector(node, selector, len(selector.Parts)-1)
}

// matchesCompoundSelector checks if the node matches the selector at the given part index
// and all ancestor requirements
func matchesCompoundSelector(node *html.Node, selector Selector, partIndex int) bool {
	if !matchesSelectorPart(node, selector.Parts[partIndex]) {
		return false
	}
	if partIndex == 0 {
		return true
	}

	prevPartIndex := partIndex - 1
	switch selector.Combinators[prevPartIndex] {
	case DescendantCombinator:
		return matchesAncestor(node, selector, prevPartIndex)
	case ChildCombinator:
		if node.Parent != nil && node.Parent.IsElement() {
			return matchesCompoundSelector(node.Parent, selector, prevPartIndex)
		}
		return false
	}
	return false
}

func matchesSelectorPart(node *html.Node, part SelectorPart) bool {
	if part.Element != "" && part.Element != "*" && node.TagName != part.Element {
		return false
	}
	if part.ID != "" && node.Attr("id") != part.ID {
		return false
	}
	for _, class := range part.Classes {
		if !node.HasClass(class) {
			return false
		}
	}
	for _, attrSel := range part.Attributes {
		if !matchesAttributeSelector(node, attrSel) {
			return false
		}
	}
	return true
}

// matchesAttributeSelector checks if a node matches an attribute selector
func matchesAttributeSelector(node *html.Node, attr AttributeSelector) bool {
	value, ok := node.GetAttribute(attr.Name)
	if !ok {
		return false
	}

	switch attr.Operator {
	case "":
		return true
	case "=":
		return value == attr.Value
	case "^=":
		return strings.HasPrefix(value, attr.Value)
	case "$=":
		return strings.HasSuffix(value, attr.Value)
	case "*=":
		return strings.Contains(value, attr.Value)
	case "~=":
		for _, word := range strings.Fields(value) {
			if word == attr.Value {
				return true
			}
		}
		return false
	case "|=":
		// Language prefix (starts with value or value-)
		return value == attr.Value || strings.HasPrefix(value, attr.Value+"-")
	}
	return false
}

func matchesAncestor(node *html.Node, selector Selector, partIndex int) bool {
	for ancestor := node.Parent; ancestor != nil; ancestor = ancestor.Parent {
		if ancestor.IsElement() && matchesCompoundSelector(ancestor, selector, partIndex) {
			return true
		}
	}
	return false
}

// Closest walks from node up through its ancestors and returns the first
// element matching selector, or nil.
func Closest(node *html.Node, selector Selector) *html.Node {
	return node.Closest(func(n *html.Node) bool { return MatchesSelector(n, selector) })
}

// QueryAll returns the descendants of root matching selector in document order.
func QueryAll(root *html.Node, selector Selector) []*html.Node {
	if root == nil {
		return nil
	}
	return root.Descendants(func(n *html.Node) bool { return MatchesSelector(n, selector) })
}
