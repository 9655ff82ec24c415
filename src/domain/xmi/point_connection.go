package xmi

// PointConnection is a structural node.
type PointConnection struct {
	BaseEntity
	diagnostics
	point  *Point3D
	storey string
}

// PointConnectionParams are the typed construction parameters of a PointConnection.
type PointConnectionParams struct {
	ID          string
	Name        string
	Description string
	IfcGUID     string
	Point       *Point3D
	Storey      string
}

var pointConnectionOwnAttributes = []string{"point", "storey"}

// PointConnectionAttributes is the closed attribute list of PointConnection.
var PointConnectionAttributes = withIdentity(pointConnectionOwnAttributes...)

// NewPointConnection builds a node from typed parameters.
func NewPointConnection(params PointConnectionParams) (*PointConnection, error) {
	return NewPointConnectionFromKwargs(params, nil)
}

// NewPointConnectionFromKwargs builds a node from a keyword bag. Only params.Point may be
// combined with kwargs.
func NewPointConnectionFromKwargs(params PointConnectionParams, kwargs Dict) (*PointConnection, error) {
	err := checkStandardParams(TypePointConnection, kwargs,
		params.ID != "", params.Name != "", params.Description != "", params.IfcGUID != "", params.Storey != "")
	if err != nil {
		return nil, err
	}

	explicit := Dict{}
	if params.Point != nil {
		explicit["point"] = params.Point
	}
	if params.Storey != "" {
		explicit["storey"] = params.Storey
	}
	if err := checkOverlap(TypePointConnection, explicit, kwargs); err != nil {
		return nil, err
	}
	if err := requirePresent(TypePointConnection, "point", explicit, kwargs); err != nil {
		return nil, err
	}

	pc := &PointConnection{}
	base, diags := initIdentity(TypePointConnection, kwargs, params.ID, params.Name, params.Description, params.IfcGUID)
	pc.BaseEntity = base
	pc.record(diags...)
	pc.record(applyAttributes(TypePointConnection, pc, pointConnectionOwnAttributes, kwargs, explicit)...)
	return pc, nil
}

func (pc *PointConnection) EntityType() string { return TypePointConnection }
func (pc *PointConnection) Point() *Point3D    { return pc.point }
func (pc *PointConnection) Storey() string     { return pc.storey }

func (pc *PointConnection) SetPoint(p *Point3D) error {
	if p == nil {
		return NewTypeError(TypePointConnection, "point", TypePoint3D, p)
	}
	pc.point = p
	return nil
}

func (pc *PointConnection) SetStorey(storey string) { pc.storey = storey }

// SetAttr sets a PointConnection attribute from an untyped value.
func (pc *PointConnection) SetAttr(name string, value any) error {
	if ok, err := pc.setIdentity(TypePointConnection, name, value); ok {
		return err
	}
	switch name {
	case "point":
		p, ok := value.(*Point3D)
		if !ok {
			return NewTypeError(TypePointConnection, name, TypePoint3D, value)
		}
		return pc.SetPoint(p)
	case "storey":
		s, err := optionalString(TypePointConnection, name, value)
		if err != nil {
			return err
		}
		pc.storey = s
		return nil
	}
	return NewTypeError(TypePointConnection, name, "known attribute", value)
}

func (pc *PointConnection) clearAttr(name string) {
	switch name {
	case "point":
		pc.point = nil
	case "storey":
		pc.storey = ""
	}
}

// ToDict returns the canonical mapping of the node.
func (pc *PointConnection) ToDict() Dict {
	d := pc.identityDict()
	d["point"] = pc.point
	d["storey"] = stringValue(pc.storey)
	return d
}

// ToXmiDict returns the vendor mapping of the node. The point is written as "x;y;z".
func (pc *PointConnection) ToXmiDict() Dict {
	d := pc.identityXmiDict()
	if pc.point != nil {
		d["Point"] = pc.point.String()
	}
	d["Storey"] = pc.storey
	return d
}

// PointConnectionFromDict decodes a node from a canonical mapping.
func PointConnectionFromDict(obj Dict) (*PointConnection, ErrorLog) {
	var log ErrorLog
	working := markMissing(TypePointConnection, PointConnectionAttributes, obj, &log)

	raw, ok := working.lookup("point")
	if !ok {
		log.Add(NewMissingAttributeError(TypePointConnection, "point"))
		return nil, log
	}
	point, err := toPoint3D(TypePointConnection, "point", raw)
	if err != nil {
		log.Add(err)
		return nil, log
	}
	delete(working, "point")

	pc, err := NewPointConnectionFromKwargs(PointConnectionParams{Point: point}, working)
	if err != nil {
		log.Add(newInstantiationError(TypePointConnection, obj, err))
		return nil, log
	}
	log.Extend(pc.Diagnostics())
	return pc, log
}

// PointConnectionFromXmiDict decodes a node from a vendor mapping.
func PointConnectionFromXmiDict(obj Dict) (*PointConnection, ErrorLog) {
	return PointConnectionFromDict(PointConnectionKeys.Remap(obj))
}
