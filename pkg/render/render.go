// Package render paints a preview of a laid-out visual with its published
// outline regions on top, for the CLI and the viewer.
package render

import (
	"image"
	"io"

	"github.com/fogleman/gg"
	"github.com/lucasb-eyer/go-colorful"
	"golang.org/x/image/font/basicfont"

	"subsel/pkg/layout"
	"subsel/pkg/subselect"
)

// Theme holds the preview colours.
type Theme struct {
	Background colorful.Color
	Element    colorful.Color // stroke of sub-selectable boxes without a background
	Hover      colorful.Color
	Active     colorful.Color
	Clip       colorful.Color
	LineWidth  float64
	Labels     bool
}

func DefaultTheme() Theme {
	must := func(hex string) colorful.Color {
		c, _ := colorful.Hex(hex)
		return c
	}
	return Theme{
		Background: must("#ffffff"),
		Element:    must("#c8c8c8"),
		Hover:      must("#3c8dde"),
		Active:     must("#e0641a"),
		Clip:       must("#9a9a9a"),
		LineWidth:  2,
		Labels:     true,
	}
}

// Painter draws into an in-memory RGBA image.
type Painter struct {
	context *gg.Context
	theme   Theme
}

func NewPainter(width, height int, theme Theme) *Painter {
	dc := gg.NewContext(width, height)
	dc.SetFontFace(basicfont.Face7x13)
	return &Painter{context: dc, theme: theme}
}

// Paint clears the canvas, draws every element box of the engine's
// document, then the visible outline regions.
func (p *Painter) Paint(engine *layout.LayoutEngine, outlines []subselect.RegionOutline) {
	dc := p.context
	dc.SetColor(p.theme.Background)
	dc.Clear()

	for _, box := range engine.Boxes() {
		p.drawBox(engine, box)
	}
	for _, r := range outlines {
		p.drawRegion(r)
	}
}

func (p *Painter) drawBox(engine *layout.LayoutEngine, box *layout.Box) {
	bb := box.BorderBox()
	if bb.Empty() {
		return
	}
	dc := p.context
	dc.Push()
	defer dc.Pop()

	if clip, ok := engine.ClipRect(box.Node); ok {
		dc.DrawRectangle(clip.X, clip.Y, clip.Width, clip.Height)
		dc.Clip()
	}

	if bg, ok := box.Style.GetBackground(); ok {
		dc.SetColor(bg)
		dc.DrawRectangle(bb.X, bb.Y, bb.Width, bb.Height)
		dc.Fill()
		return
	}
	if box.Node.HasClass(subselect.SubSelectableClass) {
		dc.SetColor(p.theme.Element)
		dc.SetLineWidth(1)
		dc.DrawRectangle(bb.X+0.5, bb.Y+0.5, bb.Width-1, bb.Height-1)
		dc.Stroke()
	}
}

func (p *Painter) drawRegion(r subselect.RegionOutline) {
	if r.Visibility == subselect.VisibilityNone || r.Outline == nil {
		return
	}
	dc := p.context
	dc.Push()
	defer dc.Pop()

	dc.SetLineWidth(p.theme.LineWidth)
	if r.Visibility == subselect.VisibilityHover {
		dc.SetColor(p.theme.Hover)
		dc.SetDash(4, 3)
	} else {
		dc.SetColor(p.theme.Active)
	}

	var labelX, labelY float64
	switch o := r.Outline.(type) {
	case *subselect.RectangleOutline:
		p.drawRectangle(o)
		labelX, labelY = o.X, o.Y
	case *subselect.GroupOutline:
		for i, rect := range o.Outlines {
			p.drawRectangle(rect)
			if i == 0 {
				labelX, labelY = rect.X, rect.Y
			}
		}
		if len(o.Outlines) == 0 {
			return
		}
	case *subselect.PolygonOutline:
		if len(o.Points) == 0 {
			return
		}
		for _, pt := range o.Points {
			dc.LineTo(pt.X, pt.Y)
		}
		dc.ClosePath()
		dc.Stroke()
		labelX, labelY = o.Points[0].X, o.Points[0].Y
	}

	if p.theme.Labels {
		dc.ResetClip()
		dc.DrawStringAnchored(string(r.ID), labelX, labelY-2, 0, 0)
	}
}

// drawRectangle strokes one rectangle, masked by its clip path. The mask
// itself is traced thinly in the clip colour.
func (p *Painter) drawRectangle(o *subselect.RectangleOutline) {
	dc := p.context
	if o.ClipPath != nil {
		c := o.ClipPath
		dc.Push()
		dc.SetColor(p.theme.Clip)
		dc.SetLineWidth(1)
		dc.SetDash(1, 2)
		dc.DrawRectangle(c.X, c.Y, c.Width, c.Height)
		dc.Stroke()
		dc.Pop()

		dc.DrawRectangle(c.X, c.Y, c.Width, c.Height)
		dc.Clip()
	}
	dc.DrawRectangle(o.X, o.Y, o.Width, o.Height)
	dc.Stroke()
	if o.ClipPath != nil {
		dc.ResetClip()
	}
}

func (p *Painter) Image() image.Image {
	return p.context.Image()
}

func (p *Painter) SavePNG(filename string) error {
	return p.context.SavePNG(filename)
}

func (p *Painter) EncodePNG(w io.Writer) error {
	return p.context.EncodePNG(w)
}
