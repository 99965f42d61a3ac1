package main

import (
	"image"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/widget"
)

// pointerHandler receives pointer activity in visual coordinates.
type pointerHandler interface {
	move(x, y float64)
	leave()
	click(x, y float64)
	contextMenu(x, y float64)
	wheel(x, y, dx, dy float64)
}

// surface shows the preview image and forwards pointer input.
type surface struct {
	widget.BaseWidget

	img     *canvas.Image
	handler pointerHandler
	// last pointer position, for wheel events that carry none
	x, y float64
}

var (
	_ desktop.Hoverable      = (*surface)(nil)
	_ fyne.Tappable          = (*surface)(nil)
	_ fyne.SecondaryTappable = (*surface)(nil)
	_ fyne.Scrollable        = (*surface)(nil)
)

func newSurface(width, height int, handler pointerHandler) *surface {
	s := &surface{handler: handler}
	s.img = canvas.NewImageFromImage(image.NewRGBA(image.Rect(0, 0, width, height)))
	s.img.FillMode = canvas.ImageFillOriginal
	s.img.ScaleMode = canvas.ImageScalePixels
	s.ExtendBaseWidget(s)
	return s
}

func (s *surface) CreateRenderer() fyne.WidgetRenderer {
	return widget.NewSimpleRenderer(s.img)
}

func (s *surface) show(img image.Image) {
	s.img.Image = img
	s.img.Refresh()
}

func (s *surface) at(pos fyne.Position) (float64, float64) {
	s.x, s.y = float64(pos.X), float64(pos.Y)
	return s.x, s.y
}

func (s *surface) MouseIn(ev *desktop.MouseEvent) {
	s.handler.move(s.at(ev.Position))
}

func (s *surface) MouseMoved(ev *desktop.MouseEvent) {
	s.handler.move(s.at(ev.Position))
}

func (s *surface) MouseOut() {
	s.handler.leave()
}

func (s *surface) Tapped(ev *fyne.PointEvent) {
	s.handler.click(s.at(ev.Position))
}

func (s *surface) TappedSecondary(ev *fyne.PointEvent) {
	s.handler.contextMenu(s.at(ev.Position))
}

// Scrolled maps wheel deltas to scroll offsets; fyne reports a positive DY
// when scrolling up.
func (s *surface) Scrolled(ev *fyne.ScrollEvent) {
	x, y := s.at(ev.Position)
	s.handler.wheel(x, y, float64(-ev.Scrolled.DX), float64(-ev.Scrolled.DY))
}
