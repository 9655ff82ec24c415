package xmi

import (
	"errors"
	"fmt"
	"slices"
)

// CurveMember is a linear structural element such as a beam or a column.
type CurveMember struct {
	BaseEntity
	diagnostics
	crossSection     *CrossSection
	curveMemberType  CurveMemberType
	systemLine       SystemLine
	nodes            []*PointConnection
	segments         []Geometry
	beginNode        *PointConnection
	endNode          *PointConnection
	localAxisX       Axis
	localAxisY       Axis
	localAxisZ       Axis
	beginNodeXOffset float64
	endNodeXOffset   float64
	beginNodeYOffset float64
	endNodeYOffset   float64
	beginNodeZOffset float64
	endNodeZOffset   float64
	endFixityStart   string
	endFixityEnd     string
	length           *float64
	storey           string
}

// CurveMemberParams are the typed construction parameters of a CurveMember. Nil local axes
// default to the global axes. Nil Nodes or Segments mean the list was not given; use an empty
// slice for an empty list.
type CurveMemberParams struct {
	ID              string
	Name            string
	Description     string
	IfcGUID         string
	CrossSection    *CrossSection
	CurveMemberType CurveMemberType
	SystemLine      SystemLine
	Nodes           []*PointConnection
	Segments        []Geometry
	BeginNode       *PointConnection
	EndNode         *PointConnection
	LocalAxisX      *Axis
	LocalAxisY      *Axis
	LocalAxisZ      *Axis

	BeginNodeXOffset float64
	EndNodeXOffset   float64
	BeginNodeYOffset float64
	EndNodeYOffset   float64
	BeginNodeZOffset float64
	EndNodeZOffset   float64

	EndFixityStart string
	EndFixityEnd   string
	Length         *float64
	Storey         string
}

// CurveMemberRefs are already built siblings injected by CurveMemberFromXmiDict in place of
// their foreign keys.
type CurveMemberRefs struct {
	CrossSection *CrossSection
	Nodes        []*PointConnection
	Segments     []Geometry
	BeginNode    *PointConnection
	EndNode      *PointConnection
}

var curveMemberOwnAttributes = []string{
	"cross_section",
	"curve_member_type",
	"system_line",
	"nodes",
	"segments",
	"begin_node",
	"end_node",
	"local_axis_x",
	"local_axis_y",
	"local_axis_z",
	"begin_node_x_offset",
	"end_node_x_offset",
	"begin_node_y_offset",
	"end_node_y_offset",
	"begin_node_z_offset",
	"end_node_z_offset",
	"end_fixity_start",
	"end_fixity_end",
	"length",
	"storey",
}

// CurveMemberAttributes is the closed attribute list of CurveMember.
var CurveMemberAttributes = withIdentity(curveMemberOwnAttributes...)

var curveMemberRequired = []string{"cross_section", "nodes", "segments", "begin_node", "end_node"}

var curveMemberDefaults = Dict{
	"local_axis_x":        GlobalX,
	"local_axis_y":        GlobalY,
	"local_axis_z":        GlobalZ,
	"begin_node_x_offset": 0.0,
	"end_node_x_offset":   0.0,
	"begin_node_y_offset": 0.0,
	"end_node_y_offset":   0.0,
	"begin_node_z_offset": 0.0,
	"end_node_z_offset":   0.0,
}

// NewCurveMember builds a curve member from typed parameters.
func NewCurveMember(params CurveMemberParams) (*CurveMember, error) {
	return NewCurveMemberFromKwargs(params, nil)
}

// NewCurveMemberFromKwargs builds a curve member from a keyword bag. Reference parameters may
// be passed explicitly next to kwargs, identity, length and storey may not. A key present in
// both is rejected.
func NewCurveMemberFromKwargs(params CurveMemberParams, kwargs Dict) (*CurveMember, error) {
	err := checkStandardParams(TypeCurveMember, kwargs,
		params.ID != "", params.Name != "", params.Description != "", params.IfcGUID != "",
		params.Length != nil, params.Storey != "")
	if err != nil {
		return nil, err
	}

	explicit := params.explicit()
	if err := checkOverlap(TypeCurveMember, explicit, kwargs); err != nil {
		return nil, err
	}
	for _, name := range curveMemberRequired {
		if err := requirePresent(TypeCurveMember, name, explicit, kwargs); err != nil {
			return nil, err
		}
	}

	cm := &CurveMember{}
	base, diags := initIdentity(TypeCurveMember, kwargs, params.ID, params.Name, params.Description, params.IfcGUID)
	cm.BaseEntity = base
	cm.record(diags...)
	cm.record(applyAttributes(TypeCurveMember, cm, curveMemberOwnAttributes, kwargs, explicit, curveMemberDefaults)...)
	return cm, nil
}

// explicit collects the parameters that were actually set.
func (p CurveMemberParams) explicit() Dict {
	d := Dict{}
	set := func(name string, value any, ok bool) {
		if ok {
			d[name] = value
		}
	}
	set("cross_section", p.CrossSection, p.CrossSection != nil)
	set("curve_member_type", p.CurveMemberType, p.CurveMemberType != 0)
	set("system_line", p.SystemLine, p.SystemLine != 0)
	set("nodes", p.Nodes, p.Nodes != nil)
	set("segments", p.Segments, p.Segments != nil)
	set("begin_node", p.BeginNode, p.BeginNode != nil)
	set("end_node", p.EndNode, p.EndNode != nil)
	if p.LocalAxisX != nil {
		d["local_axis_x"] = *p.LocalAxisX
	}
	if p.LocalAxisY != nil {
		d["local_axis_y"] = *p.LocalAxisY
	}
	if p.LocalAxisZ != nil {
		d["local_axis_z"] = *p.LocalAxisZ
	}
	set("begin_node_x_offset", p.BeginNodeXOffset, p.BeginNodeXOffset != 0)
	set("end_node_x_offset", p.EndNodeXOffset, p.EndNodeXOffset != 0)
	set("begin_node_y_offset", p.BeginNodeYOffset, p.BeginNodeYOffset != 0)
	set("end_node_y_offset", p.EndNodeYOffset, p.EndNodeYOffset != 0)
	set("begin_node_z_offset", p.BeginNodeZOffset, p.BeginNodeZOffset != 0)
	set("end_node_z_offset", p.EndNodeZOffset, p.EndNodeZOffset != 0)
	set("end_fixity_start", p.EndFixityStart, p.EndFixityStart != "")
	set("end_fixity_end", p.EndFixityEnd, p.EndFixityEnd != "")
	if p.Length != nil {
		d["length"] = *p.Length
	}
	set("storey", p.Storey, p.Storey != "")
	return d
}

// Nodes and Segments return copies. The member only changes through its setters.
func (cm *CurveMember) Nodes() []*PointConnection { return slices.Clone(cm.nodes) }
func (cm *CurveMember) Segments() []Geometry      { return slices.Clone(cm.segments) }

func (cm *CurveMember) EntityType() string               { return TypeCurveMember }
func (cm *CurveMember) CrossSection() *CrossSection      { return cm.crossSection }
func (cm *CurveMember) CurveMemberType() CurveMemberType { return cm.curveMemberType }
func (cm *CurveMember) SystemLine() SystemLine           { return cm.systemLine }
func (cm *CurveMember) BeginNode() *PointConnection      { return cm.beginNode }
func (cm *CurveMember) EndNode() *PointConnection        { return cm.endNode }
func (cm *CurveMember) LocalAxisX() Axis                 { return cm.localAxisX }
func (cm *CurveMember) LocalAxisY() Axis                 { return cm.localAxisY }
func (cm *CurveMember) LocalAxisZ() Axis                 { return cm.localAxisZ }
func (cm *CurveMember) BeginNodeXOffset() float64        { return cm.beginNodeXOffset }
func (cm *CurveMember) EndNodeXOffset() float64          { return cm.endNodeXOffset }
func (cm *CurveMember) BeginNodeYOffset() float64        { return cm.beginNodeYOffset }
func (cm *CurveMember) EndNodeYOffset() float64          { return cm.endNodeYOffset }
func (cm *CurveMember) BeginNodeZOffset() float64        { return cm.beginNodeZOffset }
func (cm *CurveMember) EndNodeZOffset() float64          { return cm.endNodeZOffset }
func (cm *CurveMember) EndFixityStart() string           { return cm.endFixityStart }
func (cm *CurveMember) EndFixityEnd() string             { return cm.endFixityEnd }
func (cm *CurveMember) Length() *float64                 { return cm.length }
func (cm *CurveMember) Storey() string                   { return cm.storey }

// SegmentTypes returns the type tag of every segment, in order.
func (cm *CurveMember) SegmentTypes() []SegmentType {
	out := make([]SegmentType, len(cm.segments))
	for i, s := range cm.segments {
		out[i] = s.SegmentType()
	}
	return out
}

func (cm *CurveMember) SetCrossSection(cs *CrossSection) error {
	if cs == nil {
		return NewTypeError(TypeCurveMember, "cross_section", TypeCrossSection, cs)
	}
	cm.crossSection = cs
	return nil
}

func (cm *CurveMember) SetCurveMemberType(t CurveMemberType) error {
	if _, ok := curveMemberTypes.entry(t); !ok {
		return NewTypeError(TypeCurveMember, "curve_member_type", "CurveMemberType", t)
	}
	cm.curveMemberType = t
	return nil
}

func (cm *CurveMember) SetSystemLine(l SystemLine) error {
	if _, ok := systemLines.entry(l); !ok {
		return NewTypeError(TypeCurveMember, "system_line", "SystemLine", l)
	}
	cm.systemLine = l
	return nil
}

// SetNodes replaces the node list. A nil element is rejected and nothing is stored.
func (cm *CurveMember) SetNodes(nodes []*PointConnection) error {
	for i, n := range nodes {
		if n == nil {
			return nodeElementError(i, n)
		}
	}
	cm.nodes = append([]*PointConnection{}, nodes...)
	return nil
}

// SetSegments replaces the segment list. A nil element is rejected and nothing is stored.
func (cm *CurveMember) SetSegments(segments []Geometry) error {
	for i, s := range segments {
		if s == nil || isNilGeometry(s) {
			return segmentElementError(i, s)
		}
	}
	cm.segments = append([]Geometry{}, segments...)
	return nil
}

func (cm *CurveMember) SetBeginNode(n *PointConnection) error {
	if n == nil {
		return NewTypeError(TypeCurveMember, "begin_node", TypePointConnection, n)
	}
	cm.beginNode = n
	return nil
}

func (cm *CurveMember) SetEndNode(n *PointConnection) error {
	if n == nil {
		return NewTypeError(TypeCurveMember, "end_node", TypePointConnection, n)
	}
	cm.endNode = n
	return nil
}

func (cm *CurveMember) SetLocalAxisX(a Axis) { cm.localAxisX = a }
func (cm *CurveMember) SetLocalAxisY(a Axis) { cm.localAxisY = a }
func (cm *CurveMember) SetLocalAxisZ(a Axis) { cm.localAxisZ = a }

func (cm *CurveMember) SetLength(length *float64) {
	if length == nil {
		cm.length = nil
		return
	}
	l := *length
	cm.length = &l
}

func (cm *CurveMember) SetStorey(storey string) { cm.storey = storey }

func nodeElementError(i int, got any) *AttributeError {
	return newAttributeError(ErrTypeViolation, TypeCurveMember, "nodes",
		"%s 'nodes' attribute should be a list of %s, element %d is %T", TypeCurveMember, TypePointConnection, i, got)
}

func segmentElementError(i int, got any) *AttributeError {
	return newAttributeError(ErrTypeViolation, TypeCurveMember, "segments",
		"%s 'segments' attribute should be a list of geometries, element %d is %T", TypeCurveMember, i, got)
}

func isNilGeometry(g Geometry) bool {
	if l, ok := g.(*Line3D); ok {
		return l == nil
	}
	return false
}

func (cm *CurveMember) axisSlot(name string) *Axis {
	switch name {
	case "local_axis_x":
		return &cm.localAxisX
	case "local_axis_y":
		return &cm.localAxisY
	case "local_axis_z":
		return &cm.localAxisZ
	}
	return nil
}

func (cm *CurveMember) offsetSlot(name string) *float64 {
	switch name {
	case "begin_node_x_offset":
		return &cm.beginNodeXOffset
	case "end_node_x_offset":
		return &cm.endNodeXOffset
	case "begin_node_y_offset":
		return &cm.beginNodeYOffset
	case "end_node_y_offset":
		return &cm.endNodeYOffset
	case "begin_node_z_offset":
		return &cm.beginNodeZOffset
	case "end_node_z_offset":
		return &cm.endNodeZOffset
	}
	return nil
}

func (cm *CurveMember) stringSlot(name string) *string {
	switch name {
	case "end_fixity_start":
		return &cm.endFixityStart
	case "end_fixity_end":
		return &cm.endFixityEnd
	case "storey":
		return &cm.storey
	}
	return nil
}

// SetAttr sets a CurveMember attribute from an untyped value. Enums also accept their code or
// label; node and segment lists may be given as []any.
func (cm *CurveMember) SetAttr(name string, value any) error {
	if ok, err := cm.setIdentity(TypeCurveMember, name, value); ok {
		return err
	}
	if slot := cm.axisSlot(name); slot != nil {
		a, ok := toAxis(value)
		if !ok {
			return NewTypeError(TypeCurveMember, name, "tuple of 3 floats", value)
		}
		*slot = a
		return nil
	}
	if slot := cm.offsetSlot(name); slot != nil {
		f, err := floatOrDefault(TypeCurveMember, name, value, 0)
		if err != nil {
			return err
		}
		*slot = f
		return nil
	}
	if slot := cm.stringSlot(name); slot != nil {
		s, err := optionalString(TypeCurveMember, name, value)
		if err != nil {
			return err
		}
		*slot = s
		return nil
	}

	switch name {
	case "cross_section":
		cs, ok := value.(*CrossSection)
		if !ok {
			return NewTypeError(TypeCurveMember, name, TypeCrossSection, value)
		}
		return cm.SetCrossSection(cs)
	case "curve_member_type":
		t, err := ParseCurveMemberType(value)
		if err != nil {
			return NewTypeError(TypeCurveMember, name, "CurveMemberType", value)
		}
		return cm.SetCurveMemberType(t)
	case "system_line":
		l, err := ParseSystemLine(value)
		if err != nil {
			return NewTypeError(TypeCurveMember, name, "SystemLine", value)
		}
		return cm.SetSystemLine(l)
	case "nodes":
		nodes, err := toNodes(value)
		if err != nil {
			return err
		}
		return cm.SetNodes(nodes)
	case "segments":
		segments, err := toSegments(value)
		if err != nil {
			return err
		}
		return cm.SetSegments(segments)
	case "begin_node", "end_node":
		n, ok := value.(*PointConnection)
		if !ok {
			return NewTypeError(TypeCurveMember, name, TypePointConnection, value)
		}
		if name == "begin_node" {
			return cm.SetBeginNode(n)
		}
		return cm.SetEndNode(n)
	case "length":
		f, err := optionalFloat(TypeCurveMember, name, value)
		if err != nil {
			return err
		}
		cm.length = f
		return nil
	}
	return NewTypeError(TypeCurveMember, name, "known attribute", value)
}

func toNodes(value any) ([]*PointConnection, error) {
	switch list := value.(type) {
	case []*PointConnection:
		return list, nil
	case []any:
		nodes := make([]*PointConnection, len(list))
		for i, item := range list {
			n, ok := item.(*PointConnection)
			if !ok || n == nil {
				return nil, nodeElementError(i, item)
			}
			nodes[i] = n
		}
		return nodes, nil
	}
	return nil, NewTypeError(TypeCurveMember, "nodes", "list of "+TypePointConnection, value)
}

func toSegments(value any) ([]Geometry, error) {
	switch list := value.(type) {
	case []Geometry:
		return list, nil
	case []*Line3D:
		segments := make([]Geometry, len(list))
		for i, l := range list {
			if l == nil {
				return nil, segmentElementError(i, l)
			}
			segments[i] = l
		}
		return segments, nil
	case []any:
		segments := make([]Geometry, len(list))
		for i, item := range list {
			g, ok := item.(Geometry)
			if !ok || isNilGeometry(g) {
				return nil, segmentElementError(i, item)
			}
			segments[i] = g
		}
		return segments, nil
	}
	return nil, NewTypeError(TypeCurveMember, "segments", "list of geometries", value)
}

func (cm *CurveMember) clearAttr(name string) {
	if slot := cm.axisSlot(name); slot != nil {
		*slot = Axis{}
		return
	}
	if slot := cm.offsetSlot(name); slot != nil {
		*slot = 0
		return
	}
	if slot := cm.stringSlot(name); slot != nil {
		*slot = ""
		return
	}
	switch name {
	case "cross_section":
		cm.crossSection = nil
	case "curve_member_type":
		cm.curveMemberType = 0
	case "system_line":
		cm.systemLine = 0
	case "nodes":
		cm.nodes = nil
	case "segments":
		cm.segments = nil
	case "begin_node":
		cm.beginNode = nil
	case "end_node":
		cm.endNode = nil
	case "length":
		cm.length = nil
	}
}

// ToDict returns the canonical mapping of the member. References are kept as objects, so
// CurveMemberFromDict(cm.ToDict()) rebuilds an equal member.
func (cm *CurveMember) ToDict() Dict {
	d := cm.identityDict()
	d["cross_section"] = cm.crossSection
	d["curve_member_type"] = cm.curveMemberType
	d["system_line"] = cm.systemLine
	d["nodes"] = slices.Clone(cm.nodes)
	d["segments"] = slices.Clone(cm.segments)
	d["begin_node"] = cm.beginNode
	d["end_node"] = cm.endNode
	d["local_axis_x"] = cm.localAxisX
	d["local_axis_y"] = cm.localAxisY
	d["local_axis_z"] = cm.localAxisZ
	d["begin_node_x_offset"] = cm.beginNodeXOffset
	d["end_node_x_offset"] = cm.endNodeXOffset
	d["begin_node_y_offset"] = cm.beginNodeYOffset
	d["end_node_y_offset"] = cm.endNodeYOffset
	d["begin_node_z_offset"] = cm.beginNodeZOffset
	d["end_node_z_offset"] = cm.endNodeZOffset
	d["end_fixity_start"] = stringValue(cm.endFixityStart)
	d["end_fixity_end"] = stringValue(cm.endFixityEnd)
	d["length"] = floatValue(cm.length)
	d["storey"] = stringValue(cm.storey)
	return d
}

// ToXmiDict returns the vendor mapping. References are written as ids, node lists as
// ";"-joined ids, segments as ";"-joined type labels and axes as "x;y;z".
func (cm *CurveMember) ToXmiDict() Dict {
	d := cm.identityXmiDict()
	if cm.crossSection != nil {
		d["CrossSection"] = cm.crossSection.ID()
	}
	d["Type"] = cm.curveMemberType.String()
	d["SystemLine"] = cm.systemLine.String()
	d["Nodes"] = joinIDs(cm.nodes)
	d["Segments"] = joinSegmentTypes(cm.SegmentTypes())
	if cm.beginNode != nil {
		d["BeginNode"] = cm.beginNode.ID()
	}
	if cm.endNode != nil {
		d["EndNode"] = cm.endNode.ID()
	}
	d["LocalAxisX"] = cm.localAxisX.String()
	d["LocalAxisY"] = cm.localAxisY.String()
	d["LocalAxisZ"] = cm.localAxisZ.String()
	d["BeginNodeXOffset"] = cm.beginNodeXOffset
	d["EndNodeXOffset"] = cm.endNodeXOffset
	d["BeginNodeYOffset"] = cm.beginNodeYOffset
	d["EndNodeYOffset"] = cm.endNodeYOffset
	d["BeginNodeZOffset"] = cm.beginNodeZOffset
	d["EndNodeZOffset"] = cm.endNodeZOffset
	d["EndFixityStart"] = cm.endFixityStart
	d["EndFixityEnd"] = cm.endFixityEnd
	d["Length"] = floatValue(cm.length)
	d["Storey"] = cm.storey
	return d
}

func joinIDs(nodes []*PointConnection) string {
	s := ""
	for i, n := range nodes {
		if i > 0 {
			s += ";"
		}
		s += n.ID()
	}
	return s
}

func joinSegmentTypes(types []SegmentType) string {
	s := ""
	for i, t := range types {
		if i > 0 {
			s += ";"
		}
		s += t.String()
	}
	return s
}

// CurveMemberFromDict decodes a member from a canonical mapping.
//
// An absent reference field aborts the decode at once. A present but badly typed reference
// field is logged, the remaining reference fields are still checked, and the decode then
// returns nil without constructing anything. Problems on other fields are recorded on the
// built instance and copied into the log.
func CurveMemberFromDict(obj Dict) (*CurveMember, ErrorLog) {
	var log ErrorLog
	working := markMissing(TypeCurveMember, CurveMemberAttributes, obj, &log)
	failed := false
	var params CurveMemberParams

	raw, ok := working.lookup("cross_section")
	if !ok {
		log.Add(NewMissingReferenceError(TypeCurveMember, "cross_section", TypeCrossSection))
		return nil, log
	}
	if cs, isCS := raw.(*CrossSection); isCS && cs != nil {
		params.CrossSection = cs
	} else {
		log.Add(NewInconsistentTypeError(TypeCurveMember, "cross_section", TypeCrossSection, raw))
		failed = true
	}

	raw, ok = working.lookup("nodes")
	if !ok {
		log.Add(NewMissingAttributeError(TypeCurveMember, "nodes"))
		return nil, log
	}
	if nodes, err := toNodes(raw); err == nil {
		params.Nodes = nodes
	} else {
		log.Add(inconsistent(err))
		failed = true
	}

	raw, ok = working.lookup("segments")
	if !ok {
		log.Add(NewMissingAttributeError(TypeCurveMember, "segments"))
		return nil, log
	}
	if segments, err := toSegments(raw); err == nil {
		params.Segments = segments
	} else {
		log.Add(inconsistent(err))
		failed = true
	}

	axes := []**Axis{&params.LocalAxisX, &params.LocalAxisY, &params.LocalAxisZ}
	for i, name := range []string{"local_axis_x", "local_axis_y", "local_axis_z"} {
		raw, ok = working.lookup(name)
		if !ok {
			log.Add(NewMissingAttributeError(TypeCurveMember, name))
			return nil, log
		}
		a, err := decodeAxis(name, raw)
		if err != nil {
			log.Add(err)
			failed = true
			continue
		}
		*axes[i] = &a
	}

	for _, name := range []string{"begin_node", "end_node"} {
		raw, ok = working.lookup(name)
		if !ok {
			log.Add(NewMissingReferenceError(TypeCurveMember, name, TypePointConnection))
			return nil, log
		}
		n, isNode := raw.(*PointConnection)
		if !isNode || n == nil {
			log.Add(NewInconsistentTypeError(TypeCurveMember, name, TypePointConnection, raw))
			failed = true
			continue
		}
		if name == "begin_node" {
			params.BeginNode = n
		} else {
			params.EndNode = n
		}
	}

	if failed {
		return nil, log
	}
	for _, name := range []string{"cross_section", "nodes", "segments", "local_axis_x", "local_axis_y", "local_axis_z", "begin_node", "end_node"} {
		delete(working, name)
	}

	cm, err := NewCurveMemberFromKwargs(params, working)
	if err != nil {
		log.Add(newInstantiationError(TypeCurveMember, obj, err))
		return nil, log
	}
	log.Extend(cm.Diagnostics())
	return cm, log
}

// decodeAxis accepts an Axis, a 3 element list or a "x;y;z" string.
func decodeAxis(name string, raw any) (Axis, error) {
	if s, ok := raw.(string); ok {
		return parseAxis(TypeCurveMember, name, s)
	}
	if a, ok := toAxis(raw); ok {
		return a, nil
	}
	return Axis{}, NewInconsistentTypeError(TypeCurveMember, name, "tuple of 3 floats", raw)
}

// inconsistent re-labels a setter type violation found while decoding.
func inconsistent(err error) error {
	var ae *AttributeError
	if errors.As(err, &ae) {
		return newAttributeError(ErrInconsistentDataType, ae.typeName, ae.attribute, "%s", ae.msg)
	}
	return fmt.Errorf("%w: %v", ErrInconsistentDataType, err)
}

// CurveMemberFromXmiDict decodes a member from a vendor mapping. Every non-nil ref replaces
// the foreign key of the same attribute, provided the vendor mapping carries that key.
func CurveMemberFromXmiDict(obj Dict, refs CurveMemberRefs) (*CurveMember, ErrorLog) {
	working := CurveMemberKeys.Remap(obj)
	inject := func(name string, value any, ok bool) {
		if _, present := working[name]; present && ok {
			working[name] = value
		}
	}
	inject("cross_section", refs.CrossSection, refs.CrossSection != nil)
	inject("nodes", refs.Nodes, refs.Nodes != nil)
	inject("segments", refs.Segments, refs.Segments != nil)
	inject("begin_node", refs.BeginNode, refs.BeginNode != nil)
	inject("end_node", refs.EndNode, refs.EndNode != nil)
	return CurveMemberFromDict(working)
}
