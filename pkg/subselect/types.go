package subselect

import (
	"encoding/json"
	"fmt"

	"subsel/pkg/html"
	"subsel/pkg/layout"
)

// Visibility of an outline region.
type Visibility int

const (
	VisibilityNone Visibility = iota
	VisibilityHover
	VisibilityActive
)

func (v Visibility) String() string {
	switch v {
	case VisibilityNone:
		return "none"
	case VisibilityHover:
		return "hover"
	case VisibilityActive:
		return "active"
	}
	return fmt.Sprintf("Visibility(%d)", int(v))
}

func (v Visibility) MarshalText() ([]byte, error) {
	return []byte(v.String()), nil
}

// RegionID names an outline region: the object name, suffixed with the
// identity key when one is resolved.
type RegionID string

type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

type OutlineType string

const (
	OutlineRectangle OutlineType = "rectangle"
	OutlineGroup     OutlineType = "group"
	OutlinePolygon   OutlineType = "polygon"
)

// Outline is one of *RectangleOutline, *GroupOutline or *PolygonOutline.
type Outline interface {
	Type() OutlineType
}

type RectangleOutline struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`

	// ClipPath masks the outline when a clip restriction applies.
	ClipPath   *RectangleOutline `json:"clipPath,omitempty"`
	DirectEdit json.RawMessage   `json:"directEdit,omitempty"`
}

func (*RectangleOutline) Type() OutlineType { return OutlineRectangle }

// Rect returns the outline geometry without clip path or payload.
func (o *RectangleOutline) Rect() layout.Rect {
	return layout.Rect{X: o.X, Y: o.Y, Width: o.Width, Height: o.Height}
}

func (o *RectangleOutline) MarshalJSON() ([]byte, error) {
	type alias RectangleOutline
	return json.Marshal(struct {
		Type OutlineType `json:"type"`
		*alias
	}{OutlineRectangle, (*alias)(o)})
}

type GroupOutline struct {
	Outlines []*RectangleOutline `json:"outlines"`
}

func (*GroupOutline) Type() OutlineType { return OutlineGroup }

func (o *GroupOutline) MarshalJSON() ([]byte, error) {
	type alias GroupOutline
	return json.Marshal(struct {
		Type OutlineType `json:"type"`
		*alias
	}{OutlineGroup, (*alias)(o)})
}

// PolygonOutline is only produced by custom outline callbacks.
type PolygonOutline struct {
	Points []Point `json:"points"`
}

func (*PolygonOutline) Type() OutlineType { return OutlinePolygon }

func (o *PolygonOutline) MarshalJSON() ([]byte, error) {
	type alias PolygonOutline
	return json.Marshal(struct {
		Type OutlineType `json:"type"`
		*alias
	}{OutlinePolygon, (*alias)(o)})
}

// RegionOutline is the published state of one region.
type RegionOutline struct {
	ID         RegionID   `json:"id"`
	Visibility Visibility `json:"visibility"`
	Outline    Outline    `json:"outline"`
}

// OutlineFragment is a custom outline supplied by the visual.
type OutlineFragment struct {
	ID      RegionID
	Outline Outline
}

// StylesType selects the formatting pane a sub-selection opens.
type StylesType int

const (
	StylesNone StylesType = iota
	StylesText
	StylesNumericText
	StylesShape
)

func (t StylesType) String() string {
	switch t {
	case StylesNone:
		return "none"
	case StylesText:
		return "text"
	case StylesNumericText:
		return "numeric-text"
	case StylesShape:
		return "shape"
	}
	return fmt.Sprintf("StylesType(%d)", int(t))
}

// Identity distinguishes instances that share an object name, such as the
// data points of one series. Equals must be symmetric.
type Identity interface {
	Equals(other Identity) bool
	Key() string
}

// EqualIdentity compares identities, treating two missing identities as
// equal and exactly one missing as unequal.
func EqualIdentity(a, b Identity) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return a.Equals(b) && b.Equals(a)
}

// KeyIdentity is an Identity compared by its key.
type KeyIdentity string

func (k KeyIdentity) Equals(other Identity) bool {
	o, ok := other.(KeyIdentity)
	return ok && o == k
}

func (k KeyIdentity) Key() string { return string(k) }

// AttributeIdentity returns an IdentityFunc that reads the identity key
// from attr. Elements without the attribute have no identity.
func AttributeIdentity(attr string) IdentityFunc {
	return func(el *html.Node) Identity {
		if v, ok := el.GetAttribute(attr); ok && v != "" {
			return KeyIdentity(v)
		}
		return nil
	}
}

type VisualObject struct {
	ObjectName string
	Identity   Identity
}

func (o VisualObject) MarshalJSON() ([]byte, error) {
	out := struct {
		ObjectName string `json:"objectName"`
		Identity   string `json:"identity,omitempty"`
	}{ObjectName: o.ObjectName}
	if o.Identity != nil {
		out.Identity = o.Identity.Key()
	}
	return json.Marshal(out)
}

type Origin struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Offset *Point  `json:"offset,omitempty"`
}

// SubSelection describes what the user is interacting with. It is the unit
// submitted to the Service and passed to custom outline callbacks.
type SubSelection struct {
	VisualObjects []VisualObject `json:"visualObjects"`
	DisplayName   string         `json:"displayName"`
	Type          StylesType     `json:"type"`
	ShowUI        bool           `json:"showUI"`
	Origin        *Origin        `json:"origin,omitempty"`
	FocusOrder    int            `json:"focusOrder,omitempty"`
	Metadata      any            `json:"metadata,omitempty"`
}

// Source is a resolved pointer target.
type Source struct {
	Element      *html.Node
	SubSelection SubSelection
}

// CreateArgs are the inputs of NewSingleObjectSubSelection.
type CreateArgs struct {
	ObjectName  string
	Type        StylesType
	DisplayName string
	ShowUI      bool
	Identity    Identity
	Origin      *Point
	FocusOrder  int
	Metadata    any
}

// Service persists the selection and paints outlines. SubSelect(nil)
// clears the selection.
type Service interface {
	SubSelect(sub *SubSelection)
	UpdateRegionOutlines(outlines []RegionOutline)
}

// Geometry reports element boxes in client coordinates.
type Geometry interface {
	BoundingClientRect(el *html.Node) layout.Rect
}

// PayloadError reports malformed JSON in a tagging attribute. It is raised
// with panic: a malformed payload is a defect in the code that tagged the
// element.
type PayloadError struct {
	Attribute string
	Value     string
}

func (e *PayloadError) Error() string {
	return fmt.Sprintf("subselect: malformed JSON in %s attribute: %q", e.Attribute, e.Value)
}
