package js

import (
	"strings"

	"github.com/dop251/goja"

	"subsel/pkg/css"
	"subsel/pkg/html"
)

// registerQuerySelectors adds querySelector/querySelectorAll to a document object.
func registerQuerySelectors(ctx *domContext, obj *goja.Object, root *html.Node) {
	obj.Set("querySelector", querySelectorFn(ctx, root))
	obj.Set("querySelectorAll", querySelectorAllFn(ctx, root))
}

// parseSelectorGroup parses a comma-separated selector list. Invalid
// selectors throw a SyntaxError in the script, as browsers do.
func parseSelectorGroup(ctx *domContext, call goja.FunctionCall, method string) []css.Selector {
	if len(call.Arguments) == 0 {
		panic(ctx.vm.NewTypeError("Failed to execute '" + method + "': 1 argument required"))
	}
	var group []css.Selector
	for _, raw := range strings.Split(call.Arguments[0].String(), ",") {
		sel, err := css.ParseSelector(raw)
		if err != nil {
			panic(ctx.vm.NewGoError(err))
		}
		group = append(group, sel)
	}
	return group
}

func matchesAny(node *html.Node, group []css.Selector) bool {
	for _, sel := range group {
		if css.MatchesSelector(node, sel) {
			return true
		}
	}
	return false
}

// querySelectorFn returns a JS function implementing querySelector.
func querySelectorFn(ctx *domContext, root *html.Node) func(goja.FunctionCall) goja.Value {
	return func(call goja.FunctionCall) goja.Value {
		group := parseSelectorGroup(ctx, call, "querySelector")

		var result *html.Node
		root.Walk(func(n *html.Node) bool {
			if result != nil {
				return false
			}
			if n != root && n.IsElement() && matchesAny(n, group) {
				result = n
				return false
			}
			return true
		})

		if result == nil {
			return goja.Null()
		}
		return ctx.elementProxy(result)
	}
}

// querySelectorAllFn returns a JS function implementing querySelectorAll.
func querySelectorAllFn(ctx *domContext, root *html.Node) func(goja.FunctionCall) goja.Value {
	return func(call goja.FunctionCall) goja.Value {
		group := parseSelectorGroup(ctx, call, "querySelectorAll")
		results := root.Descendants(func(n *html.Node) bool { return matchesAny(n, group) })
		return ctx.elementArray(results)
	}
}

// matchesFn returns a JS function implementing element.matches(selector).
func matchesFn(ctx *domContext, node *html.Node) func(goja.FunctionCall) goja.Value {
	return func(call goja.FunctionCall) goja.Value {
		group := parseSelectorGroup(ctx, call, "matches")
		return ctx.vm.ToValue(matchesAny(node, group))
	}
}

// closestFn returns a JS function implementing element.closest(selector).
func closestFn(ctx *domContext, node *html.Node) func(goja.FunctionCall) goja.Value {
	return func(call goja.FunctionCall) goja.Value {
		group := parseSelectorGroup(ctx, call, "closest")
		found := node.Closest(func(n *html.Node) bool {
			return n.IsElement() && n.TagName != "document" && matchesAny(n, group)
		})
		if found == nil {
			return goja.Null()
		}
		return ctx.elementProxy(found)
	}
}
