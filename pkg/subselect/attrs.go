package subselect

import (
	"time"

	"subsel/pkg/css"
)

// Tagging protocol shared with the visual that renders the managed subtree.
const (
	SubSelectableClass = "sub-selectable"

	ObjectNameAttribute    = "data-sub-selection-object-name"
	AltObjectNameAttribute = "data-sub-selection-alt-object-name" // another object drawn by the same element
	DisplayNameAttribute   = "data-sub-selection-display-name"
	TypeAttribute          = "data-sub-selection-type"
	HideOutlineAttribute   = "data-sub-selection-hide-outline"
	SubSelectedAttribute   = "data-sub-selection-sub-selected"
	DirectEditAttribute    = "data-sub-selection-direct-edit"
	UIAnchorAttribute      = "data-sub-selection-ui-anchor"

	// RestrictingElementAttribute marks an ancestor whose box bounds the
	// outlines of its descendants; the value is a RestrictionType.
	RestrictingElementAttribute = "data-sub-selection-restricting-element"

	// DataAttribute holds JSON-encoded ElementData for elements that were
	// not registered through SetDataForElement.
	DataAttribute = "sub-selection-data"

	// HelperHostAttribute is set on the host element of every Helper.
	HelperHostAttribute = "data-helper-host"
	FormatModeAttribute = "format-mode"

	DirectEditPlaceholderClass        = "direct-edit-placeholder"
	DirectEditPlaceholderOutlineClass = "direct-edit-placeholder-outline"
)

const DefaultScrollDebounce = 100 * time.Millisecond

const (
	eventNamespace    = "subselect"
	regionIDSeparator = "___"
)

// RestrictionType is the value of RestrictingElementAttribute.
type RestrictionType string

const (
	RestrictionClamp RestrictionType = "clamp"
	RestrictionClip  RestrictionType = "clip"
)

var (
	subSelectableSelector = css.MustParseSelector("." + SubSelectableClass)
	helperHostSelector    = css.MustParseSelector("[" + HelperHostAttribute + "]")
)

func eventName(eventType string) string {
	return eventType + "." + eventNamespace
}
