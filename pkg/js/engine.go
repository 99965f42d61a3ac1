// Package js runs a visual's inline scripts in goja and exposes the
// optional sub-selection callbacks they define.
//
// A script opts into a capability by assigning a function to a property of
// the global subSelection object:
//
//	subSelection.identity = function (el) { return el.getAttribute("data-point"); };
//	subSelection.customOutlines = function (sub) { ... return [{id: ..., type: "polygon", points: [...]}]; };
//	subSelection.customElements = function (sub) { return document.querySelectorAll(".legend-entry"); };
//	subSelection.metadata = function (el) { return {series: el.getAttribute("data-series")}; };
package js

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/dop251/goja"

	"subsel/pkg/html"
)

// ErrNotFunction is returned when a subSelection property is set to
// something other than a function.
var ErrNotFunction = errors.New("not a function")

// Engine executes a visual's scripts against its document.
type Engine struct {
	vm  *goja.Runtime
	log *slog.Logger
	dom *domContext
}

// New creates an engine with a fresh goja runtime. geometry may be nil, in
// which case element.getBoundingClientRect() reports empty boxes.
func New(logger *slog.Logger, geometry Geometry) *Engine {
	if logger == nil {
		logger = slog.Default()
	}
	vm := goja.New()
	e := &Engine{
		vm:  vm,
		log: logger,
		dom: newDOMContext(vm, html.NewDocument(), geometry),
	}

	c := &consoleAPI{log: logger}
	c.register(vm)
	vm.Set(callbacksGlobal, vm.NewObject())

	return e
}

// Execute runs all scripts from the document against the DOM, in document
// order. It stops at the first script that throws.
func (e *Engine) Execute(doc *html.Document) error {
	e.dom = newDOMContext(e.vm, doc, e.dom.geometry)
	registerDocument(e.dom)

	for i, script := range doc.Scripts {
		if _, err := e.vm.RunString(script); err != nil {
			return fmt.Errorf("script %d: %w", i, err)
		}
	}
	return nil
}

// Run evaluates a single script, for scripts loaded from outside the
// document.
func (e *Engine) Run(name, script string) error {
	if _, err := e.vm.RunScript(name, script); err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}
	return nil
}
