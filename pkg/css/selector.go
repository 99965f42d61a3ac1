package css

import (
	"fmt"
	"strings"
)

// Selector is a complex selector: compound parts joined by combinators.
type Selector struct {
	Raw         string
	Parts       []SelectorPart
	Combinators []Combinator // len(Parts)-1 entries
}

// SelectorPart is one compound selector such as div.bar[data-x="1"].
type SelectorPart struct {
	Element    string
	ID         string
	Classes    []string
	Attributes []AttributeSelector
}

// AttributeSelector is [name], [name=value], or one of the substring forms.
type AttributeSelector struct {
	Name     string
	Operator string // "", "=", "^=", "$=", "*=", "~=", "|="
	Value    string
}

type Combinator int

const (
	DescendantCombinator Combinator = iota
	ChildCombinator
)

// ParseSelector parses a selector string. Supported: type, #id, .class,
// attribute selectors with optional quoted values, and the descendant and
// child combinators.
func ParseSelector(raw string) (Selector, error) {
	sel := Selector{Raw: raw}
	p := &selectorParser{input: strings.TrimSpace(raw)}
	if p.input == "" {
		return sel, fmt.Errorf("css: empty selector")
	}

	for {
		part, err := p.compound()
		if err != nil {
			return Selector{}, fmt.Errorf("css: %q: %w", raw, err)
		}
		sel.Parts = append(sel.Parts, part)

		sawSpace := p.skipSpace()
		if p.done() {
			break
		}
		if p.peek() == '>' {
			p.pos++
			p.skipSpace()
			sel.Combinators = append(sel.Combinators, ChildCombinator)
		} else if sawSpace {
			sel.Combinators = append(sel.Combinators, DescendantCombinator)
		} else {
			return Selector{}, fmt.Errorf("css: %q: unexpected %q at %d", raw, p.peek(), p.pos)
		}
	}
	return sel, nil
}

// MustParseSelector is ParseSelector for selectors known at compile time.
func MustParseSelector(raw string) Selector {
	sel, err := ParseSelector(raw)
	if err != nil {
		panic(err)
	}
	return sel
}

// AttributeEquals builds the selector [name="value"].
func AttributeEquals(name, value string) Selector {
	return Selector{
		Raw: fmt.Sprintf("[%s=%q]", name, value),
		Parts: []SelectorPart{{
			Attributes: []AttributeSelector{{Name: name, Operator: "=", Value: value}},
		}},
	}
}

type selectorParser struct {
	input string
	pos   int
}

func (p *selectorParser) done() bool { return p.pos >= len(p.input) }

func (p *selectorParser) peek() byte { return p.input[p.pos] }

func (p *selectorParser) skipSpace() bool {
	start := p.pos
	for !p.done() && (p.peek() == ' ' || p.peek() == '\t' || p.peek() == '\n') {
		p.pos++
	}
	return p.pos > start
}

func (p *selectorParser) compound() (SelectorPart, error) {
	var part SelectorPart
	start := p.pos
	for !p.done() {
		switch c := p.peek(); {
		case c == '*':
			p.pos++
			part.Element = "*"
		case c == '#':
			p.pos++
			part.ID = p.ident()
		case c == '.':
			p.pos++
			part.Classes = append(part.Classes, p.ident())
		case c == '[':
			attr, err := p.attribute()
			if err != nil {
				return part, err
			}
			part.Attributes = append(part.Attributes, attr)
		case isIdentByte(c):
			part.Element = strings.ToLower(p.ident())
		default:
			if p.pos == start {
				return part, fmt.Errorf("unexpected %q at %d", c, p.pos)
			}
			return part, nil
		}
	}
	if p.pos == start {
		return part, fmt.Errorf("empty compound selector")
	}
	return part, nil
}

func (p *selectorParser) ident() string {
	start := p.pos
	for !p.done() && isIdentByte(p.peek()) {
		p.pos++
	}
	return p.input[start:p.pos]
}

func (p *selectorParser) attribute() (AttributeSelector, error) {
	end := strings.IndexByte(p.input[p.pos:], ']')
	if end < 0 {
		return AttributeSelector{}, fmt.Errorf("unterminated attribute selector")
	}
	body := strings.TrimSpace(p.input[p.pos+1 : p.pos+end])
	p.pos += end + 1

	for _, op := range []string{"^=", "$=", "*=", "~=", "|=", "="} {
		if i := strings.Index(body, op); i >= 0 {
			value := strings.TrimSpace(body[i+len(op):])
			value = strings.Trim(value, `"'`)
			return AttributeSelector{
				Name:     strings.TrimSpace(body[:i]),
				Operator: op,
				Value:    value,
			}, nil
		}
	}
	if body == "" {
		return AttributeSelector{}, fmt.Errorf("empty attribute selector")
	}
	return AttributeSelector{Name: body}, nil
}

func isIdentByte(c byte) bool {
	return c == '-' || c == '_' ||
		(c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9')
}
