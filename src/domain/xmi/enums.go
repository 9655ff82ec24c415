package xmi

import (
	"fmt"
	"strings"
)

// catalogEntry is one (code, label) pair of a closed enum set.
type catalogEntry[T ~int] struct {
	value T
	name  string
	label string
}

type catalog[T ~int] []catalogEntry[T]

func (c catalog[T]) entry(v T) (catalogEntry[T], bool) {
	for _, e := range c {
		if e.value == v {
			return e, true
		}
	}
	return catalogEntry[T]{}, false
}

func (c catalog[T]) label(v T) string {
	if e, ok := c.entry(v); ok {
		return e.label
	}
	return fmt.Sprintf("Unknown(%d)", int(v))
}

// parse looks v up by enum value, numeric code, name or label. Strings match case-insensitively.
func (c catalog[T]) parse(v any) (T, bool) {
	switch x := v.(type) {
	case T:
		_, ok := c.entry(x)
		return x, ok
	case string:
		s := strings.TrimSpace(x)
		for _, e := range c {
			if strings.EqualFold(e.name, s) || strings.EqualFold(e.label, s) {
				return e.value, true
			}
		}
		return 0, false
	}
	if f, ok := toFloat(v); ok && f == float64(int(f)) {
		e, found := c.entry(T(int(f)))
		return e.value, found
	}
	return 0, false
}

// SegmentType tags the geometry family of a curve segment.
type SegmentType int

const (
	SegmentLine SegmentType = iota + 1
	SegmentCircularArc
	SegmentParabolicArc
	SegmentBezier
	SegmentSpline
	SegmentOthers
)

var segmentTypes = catalog[SegmentType]{
	{SegmentLine, "LINE", "Line"},
	{SegmentCircularArc, "CIRCULAR_ARC", "Circular Arc"},
	{SegmentParabolicArc, "PARABOLIC_ARC", "Parabolic Arc"},
	{SegmentBezier, "BEZIER", "Bezier"},
	{SegmentSpline, "SPLINE", "Spline"},
	{SegmentOthers, "OTHERS", "Others"},
}

func (t SegmentType) String() string { return segmentTypes.label(t) }

// ParseSegmentType resolves a SegmentType from its value, code, name or label.
func ParseSegmentType(v any) (SegmentType, error) {
	if t, ok := segmentTypes.parse(v); ok {
		return t, nil
	}
	return 0, fmt.Errorf("%w: unknown segment type %v", ErrInconsistentDataType, v)
}

// CurveMemberType classifies a structural curve member.
type CurveMemberType int

const (
	CurveMemberBeam CurveMemberType = iota + 1
	CurveMemberColumn
	CurveMemberBracing
	CurveMemberOther
)

var curveMemberTypes = catalog[CurveMemberType]{
	{CurveMemberBeam, "BEAM", "Beam"},
	{CurveMemberColumn, "COLUMN", "Column"},
	{CurveMemberBracing, "BRACING", "Bracing"},
	{CurveMemberOther, "OTHER", "Other"},
}

func (t CurveMemberType) String() string { return curveMemberTypes.label(t) }

// ParseCurveMemberType resolves a CurveMemberType from its value, code, name or label.
func ParseCurveMemberType(v any) (CurveMemberType, error) {
	if t, ok := curveMemberTypes.parse(v); ok {
		return t, nil
	}
	return 0, fmt.Errorf("%w: unknown curve member type %v", ErrInconsistentDataType, v)
}

// SystemLine is the cross-section point the member's analytical line runs through.
type SystemLine int

const (
	SystemLineTopLeft SystemLine = iota + 1
	SystemLineTopMiddle
	SystemLineTopRight
	SystemLineMiddleLeft
	SystemLineMiddleMiddle
	SystemLineMiddleRight
	SystemLineBottomLeft
	SystemLineBottomMiddle
	SystemLineBottomRight
)

var systemLines = catalog[SystemLine]{
	{SystemLineTopLeft, "TOP_LEFT", "Top Left"},
	{SystemLineTopMiddle, "TOP_MIDDLE", "Top Middle"},
	{SystemLineTopRight, "TOP_RIGHT", "Top Right"},
	{SystemLineMiddleLeft, "MIDDLE_LEFT", "Middle Left"},
	{SystemLineMiddleMiddle, "MIDDLE_MIDDLE", "Middle Middle"},
	{SystemLineMiddleRight, "MIDDLE_RIGHT", "Middle Right"},
	{SystemLineBottomLeft, "BOTTOM_LEFT", "Bottom Left"},
	{SystemLineBottomMiddle, "BOTTOM_MIDDLE", "Bottom Middle"},
	{SystemLineBottomRight, "BOTTOM_RIGHT", "Bottom Right"},
}

func (l SystemLine) String() string { return systemLines.label(l) }

// ParseSystemLine resolves a SystemLine from its value, code, name or label.
func ParseSystemLine(v any) (SystemLine, error) {
	if l, ok := systemLines.parse(v); ok {
		return l, nil
	}
	return 0, fmt.Errorf("%w: unknown system line %v", ErrInconsistentDataType, v)
}

// MaterialType is the structural material family.
type MaterialType int

const (
	MaterialConcrete MaterialType = iota + 1
	MaterialSteel
	MaterialTimber
	MaterialAluminium
	MaterialComposite
	MaterialMasonry
	MaterialOthers
	MaterialRebar
	MaterialTendon
)

var materialTypes = catalog[MaterialType]{
	{MaterialConcrete, "CONCRETE", "Concrete"},
	{MaterialSteel, "STEEL", "STEEL"},
	{MaterialTimber, "TIMBER", "Timber"},
	{MaterialAluminium, "ALUMINIUM", "Aluminium"},
	{MaterialComposite, "COMPOSITE", "Composite"},
	{MaterialMasonry, "MASONRY", "Masonry"},
	{MaterialOthers, "OTHERS", "Others"},
	// TODO: drop Rebar and Tendon once reinforcement gets its own entity.
	{MaterialRebar, "REBAR", "Rebar"},
	{MaterialTendon, "TENDON", "Tendon"},
}

func (t MaterialType) String() string { return materialTypes.label(t) }

// ParseMaterialType resolves a MaterialType from its value, code, name or label.
func ParseMaterialType(v any) (MaterialType, error) {
	if t, ok := materialTypes.parse(v); ok {
		return t, nil
	}
	return 0, fmt.Errorf("%w: unknown material type %v", ErrInconsistentDataType, v)
}
