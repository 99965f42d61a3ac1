package subselect

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"subsel/pkg/layout"
)

func restricted(kind string) string {
	return `<div id="host" style="width: 400px; height: 300px">
	<div id="bound" data-sub-selection-restricting-element="` + kind + `" style="left: 0; top: 0; width: 60px; height: 60px">
		<div id="bar" class="sub-selectable" data-sub-selection-object-name="bar" style="left: 10px; top: 20px; width: 100px; height: 50px"></div>
	</div>
</div>`
}

// recovered runs fn and returns the value it panicked with.
func recovered(fn func()) (v any) {
	defer func() { v = recover() }()
	fn()
	return nil
}

func TestRectangleOutline_ExactBox(t *testing.T) {
	f := newFixture(t, chart)

	id := f.helper.UpdateElementOutline(f.el(t, "title"), VisibilityActive, false)

	assert.Equal(t, RegionID("title"), id)
	group := f.region(t, id).Outline.(*GroupOutline)
	require.Len(t, group.Outlines, 1)
	assert.Equal(t, &RectangleOutline{X: 10, Y: 20, Width: 100, Height: 50}, group.Outlines[0])
}

func TestRestriction_Clamp(t *testing.T) {
	f := newFixture(t, restricted("clamp"))

	outline := f.helper.restrictedOutline(f.el(t, "bar"))

	assert.Equal(t, layout.Rect{X: 10, Y: 20, Width: 50, Height: 40}, outline.Rect())
	assert.Nil(t, outline.ClipPath)
}

func TestRestriction_Clip(t *testing.T) {
	f := newFixture(t, restricted("clip"))

	outline := f.helper.restrictedOutline(f.el(t, "bar"))

	assert.Equal(t, layout.Rect{X: 10, Y: 20, Width: 100, Height: 50}, outline.Rect())
	require.NotNil(t, outline.ClipPath)
	assert.Equal(t, layout.Rect{X: 0, Y: 0, Width: 60, Height: 60}, outline.ClipPath.Rect())
}

func TestRestriction_UnknownKindIgnored(t *testing.T) {
	f := newFixture(t, restricted("stretch"))

	outline := f.helper.restrictedOutline(f.el(t, "bar"))
	assert.Equal(t, layout.Rect{X: 10, Y: 20, Width: 100, Height: 50}, outline.Rect())
	assert.Nil(t, outline.ClipPath)
}

func TestRestriction_MarginFromSideTable(t *testing.T) {
	f := newFixture(t, restricted("clamp"))
	bar := f.el(t, "bar")
	f.helper.SetDataForElement(bar, ElementData{RestrictionOptions: &RestrictionOptions{
		Margin: &Insets{Top: 5, Right: 5, Bottom: 5, Left: 5},
	}})

	outline := f.helper.restrictedOutline(bar)
	assert.Equal(t, layout.Rect{X: 10, Y: 20, Width: 45, Height: 35}, outline.Rect())

	f.helper.ClearDataForElement(bar)
	outline = f.helper.restrictedOutline(bar)
	assert.Equal(t, layout.Rect{X: 10, Y: 20, Width: 50, Height: 40}, outline.Rect())
}

func TestRestriction_PaddingFromAttribute(t *testing.T) {
	f := newFixture(t, restricted("clip"))
	bar := f.el(t, "bar")
	bar.SetAttribute(DataAttribute, `{"outlineRestrictionOptions":{"padding":{"top":10,"right":10,"bottom":10,"left":10}}}`)

	outline := f.helper.restrictedOutline(bar)
	require.NotNil(t, outline.ClipPath)
	assert.Equal(t, layout.Rect{X: -10, Y: -10, Width: 80, Height: 80}, outline.ClipPath.Rect())
}

func TestRestriction_Idempotent(t *testing.T) {
	for _, kind := range []string{"clamp", "clip"} {
		t.Run(kind, func(t *testing.T) {
			f := newFixture(t, restricted(kind))
			bar := f.el(t, "bar")
			f.helper.SetDataForElement(bar, ElementData{RestrictionOptions: &RestrictionOptions{
				Margin:  &Insets{Top: 1, Right: 2, Bottom: 3, Left: 4},
				Padding: &Insets{Top: 2},
			}})

			first := f.helper.restrictedOutline(bar)
			second := f.helper.restrictedOutline(bar)
			assert.Equal(t, first, second)
		})
	}
}

func TestClampOutline(t *testing.T) {
	tests := []struct {
		name  string
		in    RectangleOutline
		bound layout.Rect
		want  layout.Rect
	}{
		{"inside", RectangleOutline{X: 10, Y: 10, Width: 20, Height: 20}, layout.Rect{Width: 100, Height: 100}, layout.Rect{X: 10, Y: 10, Width: 20, Height: 20}},
		{"overflows far edges", RectangleOutline{X: 10, Y: 20, Width: 100, Height: 50}, layout.Rect{Width: 60, Height: 60}, layout.Rect{X: 10, Y: 20, Width: 50, Height: 40}},
		{"starts before bound", RectangleOutline{X: -10, Y: -5, Width: 30, Height: 30}, layout.Rect{Width: 100, Height: 100}, layout.Rect{X: 0, Y: 0, Width: 30, Height: 30}},
		{"outside", RectangleOutline{X: 200, Y: 0, Width: 10, Height: 10}, layout.Rect{Width: 100, Height: 100}, layout.Rect{X: 200, Y: 0, Width: -100, Height: 10}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			o := tt.in
			clampOutline(&o, tt.bound)
			assert.Equal(t, tt.want, o.Rect())
		})
	}
}

func TestZeroAreaExcluded(t *testing.T) {
	f := newFixture(t, `<div id="host" style="width: 400px; height: 300px">
		<div id="full" class="sub-selectable" data-sub-selection-object-name="bar" style="left: 0; top: 0; width: 10px; height: 10px"></div>
		<div id="flat" class="sub-selectable" data-sub-selection-object-name="bar" style="left: 20px; top: 0; width: 10px; height: 0"></div>
		<div id="thin" class="sub-selectable" data-sub-selection-object-name="bar" style="left: 40px; top: 0; width: 0; height: 10px"></div>
		<div id="clamped" data-sub-selection-restricting-element="clamp" style="left: 0; top: 100px; width: 10px; height: 10px">
			<div id="away" class="sub-selectable" data-sub-selection-object-name="bar" style="left: 50px; top: 0; width: 10px; height: 10px"></div>
		</div>
	</div>`)

	els := f.helper.ElementsFromSubSelections([]SubSelection{NewSingleObjectSubSelection(CreateArgs{ObjectName: "bar"})})
	require.Len(t, els, 4)
	f.helper.UpdateElementOutlines(els, VisibilityActive, false)

	group := f.region(t, "bar").Outline.(*GroupOutline)
	require.Len(t, group.Outlines, 1)
	assert.Equal(t, layout.Rect{Width: 10, Height: 10}, group.Outlines[0].Rect())
	for _, o := range group.Outlines {
		assert.Positive(t, o.Width)
		assert.Positive(t, o.Height)
	}
}

func TestDirectEditPayload(t *testing.T) {
	f := newFixture(t, chart)
	title := f.el(t, "title")

	title.SetAttribute(DirectEditAttribute, `{"reference":{"cardUID":"title","groupUID":"text"}}`)
	outline := f.helper.rectangleOutline(title)
	assert.JSONEq(t, `{"reference":{"cardUID":"title","groupUID":"text"}}`, string(outline.DirectEdit))

	data, err := json.Marshal(outline)
	require.NoError(t, err)
	assert.JSONEq(t, `{"type":"rectangle","x":10,"y":20,"width":100,"height":50,"directEdit":{"reference":{"cardUID":"title","groupUID":"text"}}}`, string(data))

	title.SetAttribute(DirectEditAttribute, `{"reference":`)
	v := recovered(func() { f.helper.rectangleOutline(title) })
	perr, ok := v.(*PayloadError)
	require.True(t, ok, "expected *PayloadError, got %#v", v)
	assert.Equal(t, DirectEditAttribute, perr.Attribute)
}

func TestDataForElement(t *testing.T) {
	f := newFixture(t, chart)
	legend := f.el(t, "legend")

	assert.Nil(t, f.helper.DataForElement(legend))

	legend.SetAttribute(DataAttribute, `{"outlineRestrictionOptions":{"margin":{"left":3}}}`)
	data := f.helper.DataForElement(legend)
	require.NotNil(t, data)
	require.NotNil(t, data.RestrictionOptions)
	assert.Equal(t, &Insets{Left: 3}, data.RestrictionOptions.Margin)
	assert.Nil(t, data.RestrictionOptions.Padding)

	f.helper.SetDataForElement(legend, ElementData{})
	assert.Nil(t, f.helper.DataForElement(legend).RestrictionOptions, "side table wins over the attribute")

	f.helper.ClearDataForElement(legend)
	legend.SetAttribute(DataAttribute, `not json`)
	v := recovered(func() { f.helper.DataForElement(legend) })
	assert.IsType(t, &PayloadError{}, v)
}
