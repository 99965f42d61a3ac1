package css

import (
	"strconv"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
)

// Style is the property bag parsed from an element's inline style attribute.
type Style struct {
	Properties map[string]string
}

func NewStyle() *Style {
	return &Style{Properties: make(map[string]string)}
}

func (s *Style) Get(property string) (string, bool) {
	val, ok := s.Properties[property]
	return val, ok
}

func (s *Style) Set(property, value string) {
	s.Properties[property] = value
}

func (s *Style) GetLength(property string) (float64, bool) {
	val, ok := s.Get(property)
	if !ok {
		return 0, false
	}
	return ParseLength(val)
}

// ParseLength parses a length value (e.g., "100px" or "100")
func ParseLength(val string) (float64, bool) {
	val = strings.TrimSpace(val)
	val = strings.TrimSuffix(val, "px")
	num, err := strconv.ParseFloat(val, 64)
	if err != nil {
		return 0, false
	}
	return num, true
}

// BoxEdge represents the four sides of a box (top, right, bottom, left)
type BoxEdge struct {
	Top    float64
	Right  float64
	Bottom float64
	Left   float64
}

// GetMargin returns the margin values for all four sides
func (s *Style) GetMargin() BoxEdge {
	return s.edge("margin")
}

// GetPadding returns the padding values for all four sides
func (s *Style) GetPadding() BoxEdge {
	return s.edge("padding")
}

func (s *Style) edge(prefix string) BoxEdge {
	return BoxEdge{
		Top:    s.getLengthOrZero(prefix + "-top"),
		Right:  s.getLengthOrZero(prefix + "-right"),
		Bottom: s.getLengthOrZero(prefix + "-bottom"),
		Left:   s.getLengthOrZero(prefix + "-left"),
	}
}

func (s *Style) getLengthOrZero(property string) float64 {
	val, ok := s.GetLength(property)
	if !ok {
		return 0
	}
	return val
}

// PositionOffset holds the left/top offsets of a positioned element.
type PositionOffset struct {
	Top     float64
	Left    float64
	HasTop  bool
	HasLeft bool
}

func (s *Style) GetPositionOffset() PositionOffset {
	offset := PositionOffset{}
	if top, ok := s.GetLength("top"); ok {
		offset.Top = top
		offset.HasTop = true
	}
	if left, ok := s.GetLength("left"); ok {
		offset.Left = left
		offset.HasLeft = true
	}
	return offset
}

type OverflowType string

const (
	OverflowVisible OverflowType = "visible"
	OverflowHidden  OverflowType = "hidden"
	OverflowScroll  OverflowType = "scroll"
	OverflowAuto    OverflowType = "auto"
)

// GetOverflow returns the overflow mode (default: visible).
func (s *Style) GetOverflow() OverflowType {
	if v, ok := s.Get("overflow"); ok {
		switch OverflowType(strings.ToLower(v)) {
		case OverflowHidden:
			return OverflowHidden
		case OverflowScroll:
			return OverflowScroll
		case OverflowAuto:
			return OverflowAuto
		}
	}
	return OverflowVisible
}

// Clips reports whether descendants are clipped to the element's box.
func (o OverflowType) Clips() bool { return o != OverflowVisible }

// Scrollable reports whether the element accepts scroll offsets.
func (o OverflowType) Scrollable() bool { return o == OverflowScroll || o == OverflowAuto }

// Hidden reports display: none.
func (s *Style) Hidden() bool {
	v, ok := s.Get("display")
	return ok && strings.TrimSpace(v) == "none"
}

func ParseInlineStyle(styleAttr string) *Style {
	style := NewStyle()
	for _, decl := range strings.Split(styleAttr, ";") {
		decl = strings.TrimSpace(decl)
		if decl == "" {
			continue
		}
		property, value, ok := strings.Cut(decl, ":")
		if !ok {
			continue
		}
		property = strings.TrimSpace(strings.ToLower(property))
		value = strings.TrimSpace(value)

		switch property {
		case "margin", "padding":
			expandBoxProperty(style, property, value)
		default:
			style.Set(property, value)
		}
	}
	return style
}

// expandBoxProperty expands margin/padding shorthand
// Supports: "10px" (all), "10px 20px" (vertical horizontal),
//
//	"10px 20px 30px" (top h bottom), "10px 20px 30px 40px" (t r b l)
func expandBoxProperty(style *Style, prefix, value string) {
	parts := strings.Fields(value)

	switch len(parts) {
	case 1:
		style.Set(prefix+"-top", parts[0])
		style.Set(prefix+"-right", parts[0])
		style.Set(prefix+"-bottom", parts[0])
		style.Set(prefix+"-left", parts[0])
	case 2:
		style.Set(prefix+"-top", parts[0])
		style.Set(prefix+"-bottom", parts[0])
		style.Set(prefix+"-right", parts[1])
		style.Set(prefix+"-left", parts[1])
	case 3:
		style.Set(prefix+"-top", parts[0])
		style.Set(prefix+"-right", parts[1])
		style.Set(prefix+"-left", parts[1])
		style.Set(prefix+"-bottom", parts[2])
	case 4:
		style.Set(prefix+"-top", parts[0])
		style.Set(prefix+"-right", parts[1])
		style.Set(prefix+"-bottom", parts[2])
		style.Set(prefix+"-left", parts[3])
	}
}

var namedColors = map[string]string{
	"red":     "#ff0000",
	"green":   "#008000",
	"blue":    "#0000ff",
	"yellow":  "#ffff00",
	"white":   "#ffffff",
	"black":   "#000000",
	"gray":    "#808080",
	"orange":  "#ffa500",
	"purple":  "#800080",
	"navy":    "#000080",
	"teal":    "#008080",
	"silver":  "#c0c0c0",
	"skyblue": "#87ceeb",
}

// ParseColor accepts #rgb/#rrggbb hex values and a handful of named colours.
func ParseColor(value string) (colorful.Color, bool) {
	value = strings.ToLower(strings.TrimSpace(value))
	if hex, ok := namedColors[value]; ok {
		value = hex
	}
	c, err := colorful.Hex(value)
	if err != nil {
		return colorful.Color{}, false
	}
	return c, true
}

// GetBackground returns the background colour when one is set and parseable.
func (s *Style) GetBackground() (colorful.Color, bool) {
	v, ok := s.Get("background-color")
	if !ok {
		v, ok = s.Get("background")
	}
	if !ok {
		return colorful.Color{}, false
	}
	return ParseColor(v)
}
