package xmi

// Line3D is a straight curve segment between two points.
type Line3D struct {
	diagnostics
	startPoint *Point3D
	endPoint   *Point3D
}

// Line3DAttributes is the closed attribute list of Line3D. The segment type is a fixed
// discriminant and is not listed.
var Line3DAttributes = []string{"start_point", "end_point"}

// NewLine3D builds a line from its two end points.
func NewLine3D(start, end *Point3D) (*Line3D, error) {
	return NewLine3DFromKwargs(start, end, nil)
}

// NewLine3DFromKwargs builds a line from explicit points and a keyword bag. A point given in
// both places is a mutual exclusivity violation.
func NewLine3DFromKwargs(start, end *Point3D, kwargs Dict) (*Line3D, error) {
	explicit := Dict{}
	if start != nil {
		explicit["start_point"] = start
	}
	if end != nil {
		explicit["end_point"] = end
	}
	if err := checkOverlap(TypeLine3D, explicit, kwargs); err != nil {
		return nil, err
	}
	for _, name := range Line3DAttributes {
		if err := requirePresent(TypeLine3D, name, explicit, kwargs); err != nil {
			return nil, err
		}
	}

	l := &Line3D{}
	l.record(applyAttributes(TypeLine3D, l, Line3DAttributes, kwargs, explicit)...)
	return l, nil
}

func (l *Line3D) SegmentType() SegmentType { return SegmentLine }
func (l *Line3D) StartPoint() *Point3D     { return l.startPoint }
func (l *Line3D) EndPoint() *Point3D       { return l.endPoint }

func (l *Line3D) SetStartPoint(p *Point3D) error {
	if p == nil {
		return NewTypeError(TypeLine3D, "start_point", TypePoint3D, p)
	}
	l.startPoint = p
	return nil
}

func (l *Line3D) SetEndPoint(p *Point3D) error {
	if p == nil {
		return NewTypeError(TypeLine3D, "end_point", TypePoint3D, p)
	}
	l.endPoint = p
	return nil
}

// SetAttr sets a Line3D attribute from an untyped value.
func (l *Line3D) SetAttr(name string, value any) error {
	switch name {
	case "start_point", "end_point":
		p, ok := value.(*Point3D)
		if !ok || p == nil {
			return NewTypeError(TypeLine3D, name, TypePoint3D, value)
		}
		if name == "start_point" {
			return l.SetStartPoint(p)
		}
		return l.SetEndPoint(p)
	}
	return NewTypeError(TypeLine3D, name, "known attribute", value)
}

func (l *Line3D) clearAttr(name string) {
	switch name {
	case "start_point":
		l.startPoint = nil
	case "end_point":
		l.endPoint = nil
	}
}

// ToDict returns the canonical mapping of the line.
func (l *Line3D) ToDict() Dict {
	return Dict{
		"start_point":  l.startPoint,
		"end_point":    l.endPoint,
		"segment_type": l.SegmentType(),
	}
}

// Line3DFromDict decodes a line from a canonical mapping. Points may be given as *Point3D,
// {x,y,z} mappings or "x;y;z" strings. A badly typed point is logged and the other point
// is still checked before nil is returned.
func Line3DFromDict(obj Dict) (*Line3D, ErrorLog) {
	var log ErrorLog
	working := markMissing(TypeLine3D, Line3DAttributes, obj, &log)

	points := make([]*Point3D, 2)
	failed := false
	for i, name := range Line3DAttributes {
		raw, ok := working.lookup(name)
		if !ok {
			log.Add(NewMissingAttributeError(TypeLine3D, name))
			return nil, log
		}
		p, err := toPoint3D(TypeLine3D, name, raw)
		if err != nil {
			log.Add(err)
			failed = true
			continue
		}
		points[i] = p
		delete(working, name)
	}
	if failed {
		return nil, log
	}
	delete(working, "segment_type")

	line, err := NewLine3DFromKwargs(points[0], points[1], working)
	if err != nil {
		log.Add(newInstantiationError(TypeLine3D, obj, err))
		return nil, log
	}
	log.Extend(line.Diagnostics())
	return line, log
}
