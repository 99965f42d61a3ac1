package js

import (
	"slices"
	"strconv"
	"strings"

	"github.com/dop251/goja"

	"subsel/pkg/html"
)

// newClassListProxy creates a JS DynamicObject implementing the DOMTokenList
// subset visual scripts use on element.classList.
func newClassListProxy(ctx *domContext, node *html.Node) goja.Value {
	return ctx.vm.NewDynamicObject(&classListAccessor{ctx: ctx, node: node})
}

type classListAccessor struct {
	ctx  *domContext
	node *html.Node
}

func (cl *classListAccessor) setClasses(classes []string) {
	cl.node.SetAttribute("class", strings.Join(classes, " "))
}

func (cl *classListAccessor) Get(key string) goja.Value {
	vm := cl.ctx.vm
	classes := cl.node.Classes()

	switch key {
	case "length":
		return vm.ToValue(len(classes))
	case "value":
		return vm.ToValue(strings.Join(classes, " "))
	case "add":
		return vm.ToValue(func(call goja.FunctionCall) goja.Value {
			cls := cl.node.Classes()
			for _, arg := range call.Arguments {
				if token := arg.String(); !slices.Contains(cls, token) {
					cls = append(cls, token)
				}
			}
			cl.setClasses(cls)
			return goja.Undefined()
		})
	case "remove":
		return vm.ToValue(func(call goja.FunctionCall) goja.Value {
			cls := cl.node.Classes()
			for _, arg := range call.Arguments {
				token := arg.String()
				cls = slices.DeleteFunc(cls, func(c string) bool { return c == token })
			}
			cl.setClasses(cls)
			return goja.Undefined()
		})
	case "toggle":
		return vm.ToValue(func(call goja.FunctionCall) goja.Value {
			if len(call.Arguments) == 0 {
				panic(vm.NewTypeError("Failed to execute 'toggle': 1 argument required"))
			}
			token := call.Arguments[0].String()
			cls := cl.node.Classes()
			add := !slices.Contains(cls, token)
			if len(call.Arguments) > 1 {
				add = call.Arguments[1].ToBoolean()
			}
			cls = slices.DeleteFunc(cls, func(c string) bool { return c == token })
			if add {
				cls = append(cls, token)
			}
			cl.setClasses(cls)
			return vm.ToValue(add)
		})
	case "contains":
		return vm.ToValue(func(call goja.FunctionCall) goja.Value {
			if len(call.Arguments) == 0 {
				return vm.ToValue(false)
			}
			return vm.ToValue(slices.Contains(classes, call.Arguments[0].String()))
		})
	default:
		if idx, err := strconv.Atoi(key); err == nil && idx >= 0 && idx < len(classes) {
			return vm.ToValue(classes[idx])
		}
	}
	return goja.Undefined()
}

func (cl *classListAccessor) Set(key string, val goja.Value) bool {
	if key == "value" {
		cl.node.SetAttribute("class", val.String())
		return true
	}
	return false
}

func (cl *classListAccessor) Has(key string) bool {
	switch key {
	case "length", "value", "add", "remove", "toggle", "contains":
		return true
	}
	idx, err := strconv.Atoi(key)
	return err == nil && idx >= 0
}

func (cl *classListAccessor) Delete(key string) bool {
	return false
}

func (cl *classListAccessor) Keys() []string {
	return []string{"length", "value", "add", "remove", "toggle", "contains"}
}
