package js

import (
	"encoding/json"
	"fmt"

	"github.com/dop251/goja"

	"subsel/pkg/html"
	"subsel/pkg/subselect"
)

const callbacksGlobal = "subSelection"

// Callbacks are the sub-selection capabilities a visual's scripts defined.
// Unset fields mean the capability is absent.
type Callbacks struct {
	Identity       subselect.IdentityFunc
	CustomOutlines subselect.CustomOutlineFunc
	CustomElements subselect.CustomElementFunc
	Metadata       subselect.MetadataFunc
}

// Apply copies the defined callbacks into opts.
func (c Callbacks) Apply(opts *subselect.Options) {
	opts.Identity = c.Identity
	opts.CustomOutlines = c.CustomOutlines
	opts.CustomElements = c.CustomElements
	opts.Metadata = c.Metadata
}

// Callbacks reads the functions assigned to the subSelection global.
func (e *Engine) Callbacks() (Callbacks, error) {
	var c Callbacks
	obj := e.vm.Get(callbacksGlobal)
	if obj == nil || goja.IsUndefined(obj) || goja.IsNull(obj) {
		return c, nil
	}
	global := obj.ToObject(e.vm)

	lookup := func(name string) (goja.Callable, error) {
		v := global.Get(name)
		if v == nil || goja.IsUndefined(v) || goja.IsNull(v) {
			return nil, nil
		}
		fn, ok := goja.AssertFunction(v)
		if !ok {
			return nil, fmt.Errorf("%s.%s: %w", callbacksGlobal, name, ErrNotFunction)
		}
		return fn, nil
	}

	if fn, err := lookup("identity"); err != nil {
		return c, err
	} else if fn != nil {
		c.Identity = e.identityFunc(fn)
	}
	if fn, err := lookup("customOutlines"); err != nil {
		return c, err
	} else if fn != nil {
		c.CustomOutlines = e.customOutlineFunc(fn)
	}
	if fn, err := lookup("customElements"); err != nil {
		return c, err
	} else if fn != nil {
		c.CustomElements = e.customElementFunc(fn)
	}
	if fn, err := lookup("metadata"); err != nil {
		return c, err
	} else if fn != nil {
		c.Metadata = e.metadataFunc(fn)
	}
	return c, nil
}

// call invokes fn and logs script errors; a failing callback behaves as if
// it returned nothing.
func (e *Engine) call(name string, fn goja.Callable, arg goja.Value) goja.Value {
	v, err := fn(goja.Undefined(), arg)
	if err != nil {
		e.log.Warn("js: callback failed", "callback", name, "error", err)
		return nil
	}
	if v == nil || goja.IsUndefined(v) || goja.IsNull(v) {
		return nil
	}
	return v
}

func (e *Engine) identityFunc(fn goja.Callable) subselect.IdentityFunc {
	return func(el *html.Node) subselect.Identity {
		v := e.call("identity", fn, e.dom.elementProxy(el))
		if v == nil || v.String() == "" {
			return nil
		}
		return subselect.KeyIdentity(v.String())
	}
}

func (e *Engine) metadataFunc(fn goja.Callable) subselect.MetadataFunc {
	return func(el *html.Node) any {
		v := e.call("metadata", fn, e.dom.elementProxy(el))
		if v == nil {
			return nil
		}
		return v.Export()
	}
}

func (e *Engine) customElementFunc(fn goja.Callable) subselect.CustomElementFunc {
	return func(sub subselect.SubSelection) []*html.Node {
		return e.dom.unwrapNodes(e.call("customElements", fn, e.subSelectionValue(sub)))
	}
}

func (e *Engine) customOutlineFunc(fn goja.Callable) subselect.CustomOutlineFunc {
	return func(sub subselect.SubSelection) []subselect.OutlineFragment {
		v := e.call("customOutlines", fn, e.subSelectionValue(sub))
		if v == nil {
			return nil
		}
		fragments, err := decodeFragments(v.Export())
		if err != nil {
			e.log.Warn("js: invalid custom outlines", "object", sub.VisualObjects[0].ObjectName, "error", err)
			return nil
		}
		return fragments
	}
}

// subSelectionValue is the JS view of a sub-selection passed to callbacks.
// Identities are passed by key.
func (e *Engine) subSelectionValue(sub subselect.SubSelection) goja.Value {
	objects := make([]any, len(sub.VisualObjects))
	v := map[string]any{
		"visualObjects": objects,
		"displayName":   sub.DisplayName,
		"type":          int(sub.Type),
		"showUI":        sub.ShowUI,
	}
	for i, o := range sub.VisualObjects {
		obj := map[string]any{"objectName": o.ObjectName, "identity": nil}
		if o.Identity != nil {
			obj["identity"] = o.Identity.Key()
		}
		objects[i] = obj
		if i == 0 {
			v["objectName"] = obj["objectName"]
			v["identity"] = obj["identity"]
		}
	}
	return e.vm.ToValue(v)
}

type outlineJSON struct {
	ID       string            `json:"id"`
	Type     string            `json:"type"`
	X        float64           `json:"x"`
	Y        float64           `json:"y"`
	Width    float64           `json:"width"`
	Height   float64           `json:"height"`
	Points   []subselect.Point `json:"points"`
	Outlines []outlineJSON     `json:"outlines"`
}

// decodeFragments converts the exported result of a customOutlines
// callback: an array of {id, type, ...} objects.
func decodeFragments(exported any) ([]subselect.OutlineFragment, error) {
	raw, err := json.Marshal(exported)
	if err != nil {
		return nil, fmt.Errorf("encoding outlines: %w", err)
	}
	var list []outlineJSON
	if err := json.Unmarshal(raw, &list); err != nil {
		return nil, fmt.Errorf("decoding outlines: %w", err)
	}

	out := make([]subselect.OutlineFragment, 0, len(list))
	for i, o := range list {
		if o.ID == "" {
			return nil, fmt.Errorf("outline %d: missing id", i)
		}
		outline, err := o.outline()
		if err != nil {
			return nil, fmt.Errorf("outline %q: %w", o.ID, err)
		}
		out = append(out, subselect.OutlineFragment{ID: subselect.RegionID(o.ID), Outline: outline})
	}
	return out, nil
}

func (o outlineJSON) rectangle() *subselect.RectangleOutline {
	return &subselect.RectangleOutline{X: o.X, Y: o.Y, Width: o.Width, Height: o.Height}
}

func (o outlineJSON) outline() (subselect.Outline, error) {
	switch subselect.OutlineType(o.Type) {
	case subselect.OutlineRectangle, "":
		return o.rectangle(), nil
	case subselect.OutlinePolygon:
		return &subselect.PolygonOutline{Points: o.Points}, nil
	case subselect.OutlineGroup:
		g := &subselect.GroupOutline{Outlines: make([]*subselect.RectangleOutline, len(o.Outlines))}
		for i, r := range o.Outlines {
			g.Outlines[i] = r.rectangle()
		}
		return g, nil
	}
	return nil, fmt.Errorf("unknown outline type %q", o.Type)
}
