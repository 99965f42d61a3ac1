package js

import (
	"strconv"
	"strings"

	"github.com/dop251/goja"

	"subsel/pkg/html"
	"subsel/pkg/layout"
)

// Geometry lets scripts ask for element boxes. It is implemented by
// *layout.LayoutEngine.
type Geometry interface {
	BoundingClientRect(el *html.Node) layout.Rect
}

// domContext holds shared state for DOM bindings within a single engine.
// It maintains a node-to-proxy cache so the same JS object is returned for
// the same underlying *html.Node (needed for === identity checks).
type domContext struct {
	vm       *goja.Runtime
	doc      *html.Document
	geometry Geometry
	cache    map[*html.Node]goja.Value
}

func newDOMContext(vm *goja.Runtime, doc *html.Document, geometry Geometry) *domContext {
	return &domContext{
		vm:       vm,
		doc:      doc,
		geometry: geometry,
		cache:    make(map[*html.Node]goja.Value),
	}
}

// registerDocument sets up the global `document` object on the goja runtime.
func registerDocument(ctx *domContext) {
	vm, doc := ctx.vm, ctx.doc

	docObj := vm.NewObject()
	docObj.Set("getElementById", func(call goja.FunctionCall) goja.Value {
		if len(call.Arguments) == 0 {
			return goja.Null()
		}
		node := doc.Root.ElementByID(call.Arguments[0].String())
		if node == nil {
			return goja.Null()
		}
		return ctx.elementProxy(node)
	})
	docObj.Set("getElementsByClassName", func(call goja.FunctionCall) goja.Value {
		if len(call.Arguments) == 0 {
			return ctx.elementArray(nil)
		}
		cls := call.Arguments[0].String()
		return ctx.elementArray(doc.Root.Descendants(func(n *html.Node) bool { return n.HasClass(cls) }))
	})
	registerQuerySelectors(ctx, docObj, doc.Root)

	vm.Set("document", docObj)
}

// elementArray creates a JS array of Element proxies.
func (ctx *domContext) elementArray(nodes []*html.Node) goja.Value {
	items := make([]interface{}, len(nodes))
	for i, n := range nodes {
		items[i] = ctx.elementProxy(n)
	}
	return ctx.vm.NewArray(items...)
}

// elementProxy creates (or retrieves from cache) a JS DynamicObject wrapping an html.Node.
func (ctx *domContext) elementProxy(node *html.Node) goja.Value {
	if v, ok := ctx.cache[node]; ok {
		return v
	}
	v := ctx.vm.NewDynamicObject(&elementAccessor{ctx: ctx, node: node})
	ctx.cache[node] = v
	return v
}

// unwrapNode extracts the *html.Node behind an element proxy.
func (ctx *domContext) unwrapNode(val goja.Value) *html.Node {
	if val == nil || goja.IsNull(val) || goja.IsUndefined(val) {
		return nil
	}
	obj := val.ToObject(ctx.vm)
	for node, cached := range ctx.cache {
		if cached.SameAs(obj) {
			return node
		}
	}
	return nil
}

// unwrapNodes converts a JS array (or array-like) of element proxies.
// Entries that are not elements are skipped.
func (ctx *domContext) unwrapNodes(val goja.Value) []*html.Node {
	if val == nil || goja.IsNull(val) || goja.IsUndefined(val) {
		return nil
	}
	obj := val.ToObject(ctx.vm)
	n := int(obj.Get("length").ToInteger())
	var out []*html.Node
	for i := 0; i < n; i++ {
		if node := ctx.unwrapNode(obj.Get(strconv.Itoa(i))); node != nil {
			out = append(out, node)
		}
	}
	return out
}

// elementAccessor implements goja.DynamicObject to intercept property access
// on DOM element proxies.
type elementAccessor struct {
	ctx  *domContext
	node *html.Node
}

var elementKeys = []string{
	"tagName", "id", "className", "textContent",
	"getAttribute", "setAttribute", "hasAttribute", "removeAttribute",
	"parentElement", "children", "classList",
	"querySelector", "querySelectorAll", "matches", "closest", "contains",
	"getBoundingClientRect",
}

func (e *elementAccessor) Get(key string) goja.Value {
	vm := e.ctx.vm

	switch key {
	case "tagName":
		return vm.ToValue(strings.ToUpper(e.node.TagName))
	case "id":
		return vm.ToValue(e.node.Attr("id"))
	case "className":
		return vm.ToValue(e.node.Attr("class"))
	case "textContent":
		return vm.ToValue(e.node.TextContent())
	case "getAttribute":
		return vm.ToValue(func(call goja.FunctionCall) goja.Value {
			if len(call.Arguments) == 0 {
				return goja.Null()
			}
			val, ok := e.node.GetAttribute(call.Arguments[0].String())
			if !ok {
				return goja.Null()
			}
			return vm.ToValue(val)
		})
	case "setAttribute":
		return vm.ToValue(func(call goja.FunctionCall) goja.Value {
			if len(call.Arguments) < 2 {
				return goja.Undefined()
			}
			e.node.SetAttribute(call.Arguments[0].String(), call.Arguments[1].String())
			return goja.Undefined()
		})
	case "hasAttribute":
		return vm.ToValue(func(call goja.FunctionCall) goja.Value {
			if len(call.Arguments) == 0 {
				return vm.ToValue(false)
			}
			return vm.ToValue(e.node.HasAttribute(call.Arguments[0].String()))
		})
	case "removeAttribute":
		return vm.ToValue(func(call goja.FunctionCall) goja.Value {
			if len(call.Arguments) > 0 {
				e.node.RemoveAttribute(call.Arguments[0].String())
			}
			return goja.Undefined()
		})
	case "parentElement":
		if p := e.node.Parent; p != nil && p.Type == html.ElementNode && p.TagName != "document" {
			return e.ctx.elementProxy(p)
		}
		return goja.Null()
	case "children":
		var elChildren []*html.Node
		for _, child := range e.node.Children {
			if child.IsElement() {
				elChildren = append(elChildren, child)
			}
		}
		return e.ctx.elementArray(elChildren)
	case "classList":
		return newClassListProxy(e.ctx, e.node)
	case "querySelector":
		return vm.ToValue(querySelectorFn(e.ctx, e.node))
	case "querySelectorAll":
		return vm.ToValue(querySelectorAllFn(e.ctx, e.node))
	case "matches":
		return vm.ToValue(matchesFn(e.ctx, e.node))
	case "closest":
		return vm.ToValue(closestFn(e.ctx, e.node))
	case "contains":
		return vm.ToValue(func(call goja.FunctionCall) goja.Value {
			if len(call.Arguments) == 0 {
				return vm.ToValue(false)
			}
			other := e.ctx.unwrapNode(call.Arguments[0])
			return vm.ToValue(other != nil && e.node.Contains(other))
		})
	case "getBoundingClientRect":
		return vm.ToValue(func(call goja.FunctionCall) goja.Value {
			var r layout.Rect
			if e.ctx.geometry != nil {
				r = e.ctx.geometry.BoundingClientRect(e.node)
			}
			return vm.ToValue(map[string]float64{
				"x": r.X, "y": r.Y, "width": r.Width, "height": r.Height,
				"left": r.X, "top": r.Y, "right": r.Right(), "bottom": r.Bottom(),
			})
		})
	}
	return goja.Undefined()
}

func (e *elementAccessor) Set(key string, val goja.Value) bool {
	switch key {
	case "className":
		e.node.SetAttribute("class", val.String())
		return true
	case "id":
		e.node.SetAttribute("id", val.String())
		return true
	}
	return false
}

func (e *elementAccessor) Has(key string) bool {
	for _, k := range elementKeys {
		if k == key {
			return true
		}
	}
	return false
}

func (e *elementAccessor) Delete(key string) bool {
	return false
}

func (e *elementAccessor) Keys() []string {
	return elementKeys
}
