package subselect

import (
	"github.com/tidwall/gjson"

	"subsel/pkg/html"
)

// Insets are signed per-side distances.
type Insets struct {
	Top    float64 `json:"top"`
	Right  float64 `json:"right"`
	Bottom float64 `json:"bottom"`
	Left   float64 `json:"left"`
}

// RestrictionOptions adjust the restricting box for one element: Margin
// moves each edge inward, Padding moves it outward.
type RestrictionOptions struct {
	Margin  *Insets `json:"margin,omitempty"`
	Padding *Insets `json:"padding,omitempty"`
}

// ElementData is per-element configuration attached by the visual.
type ElementData struct {
	RestrictionOptions *RestrictionOptions `json:"outlineRestrictionOptions,omitempty"`
}

// SetDataForElement attaches data to el. It takes precedence over the
// DataAttribute JSON.
func (h *Helper) SetDataForElement(el *html.Node, data ElementData) {
	h.elementData[el] = &data
}

// ClearDataForElement removes data attached with SetDataForElement.
func (h *Helper) ClearDataForElement(el *html.Node) {
	delete(h.elementData, el)
}

// DataForElement returns the data attached to el, falling back to the
// DataAttribute JSON. It returns nil when neither is present and panics
// with *PayloadError when the attribute is not valid JSON.
func (h *Helper) DataForElement(el *html.Node) *ElementData {
	if data, ok := h.elementData[el]; ok {
		return data
	}
	raw, ok := el.GetAttribute(DataAttribute)
	if !ok {
		return nil
	}
	return parseElementData(raw)
}

func parseElementData(raw string) *ElementData {
	if !gjson.Valid(raw) {
		panic(&PayloadError{Attribute: DataAttribute, Value: raw})
	}
	data := &ElementData{}
	opts := gjson.Get(raw, "outlineRestrictionOptions")
	if !opts.IsObject() {
		return data
	}
	data.RestrictionOptions = &RestrictionOptions{
		Margin:  insetsFrom(opts.Get("margin")),
		Padding: insetsFrom(opts.Get("padding")),
	}
	return data
}

func insetsFrom(r gjson.Result) *Insets {
	if !r.IsObject() {
		return nil
	}
	return &Insets{
		Top:    r.Get("top").Float(),
		Right:  r.Get("right").Float(),
		Bottom: r.Get("bottom").Float(),
		Left:   r.Get("left").Float(),
	}
}
