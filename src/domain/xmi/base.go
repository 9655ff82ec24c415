// Package xmi is the object model of the XMI structural-engineering interchange schema.
//
// Every entity, geometry and relationship follows the same protocol: a closed attribute list,
// validating accessors, a strongly typed constructor for programmatic use, a kwargs constructor
// for data-driven use, FromDict for canonical mappings and FromXmiDict for vendor mappings.
// Decoders never fail on bad data: problems are returned in an ErrorLog next to a possibly nil
// instance.
package xmi

import (
	"reflect"
	"slices"

	"github.com/google/uuid"
)

// Type names, also used as vendor collection names by the importer.
const (
	TypeMaterial        = "StructuralMaterial"
	TypeCrossSection    = "StructuralCrossSection"
	TypePointConnection = "StructuralPointConnection"
	TypeCurveMember     = "StructuralCurveMember"
	TypePoint3D         = "Point3D"
	TypeLine3D          = "Line3D"
)

// Entity is the identity capability shared by every XMI entity.
type Entity interface {
	ID() string
	Name() string
	Description() string
	IfcGUID() string
	EntityType() string
}

// Geometry is the capability of a curve segment.
type Geometry interface {
	SegmentType() SegmentType
	StartPoint() *Point3D
	EndPoint() *Point3D
}

// identityAttributes are the attributes owned by BaseEntity.
var identityAttributes = []string{"id", "name", "description", "ifcguid"}

// BaseEntity holds the identity fields of an entity.
type BaseEntity struct {
	id          string
	name        string
	description string
	ifcguid     string
}

// NewBaseEntity builds an identity, generating an id when none is given.
func NewBaseEntity(id, name, description, ifcguid string) BaseEntity {
	if id == "" {
		id = uuid.NewString()
	}
	return BaseEntity{id: id, name: name, description: description, ifcguid: ifcguid}
}

// baseEntityFromKwargs reads the identity fields out of a keyword bag. Badly typed values are
// reported and left absent.
func baseEntityFromKwargs(typeName string, kwargs Dict) (BaseEntity, []error) {
	var diagnostics []error
	read := func(key string) string {
		s, err := optionalString(typeName, key, kwargs[key])
		if err != nil {
			diagnostics = append(diagnostics, err)
		}
		return s
	}
	b := NewBaseEntity(read("id"), read("name"), read("description"), read("ifcguid"))
	return b, diagnostics
}

func (b *BaseEntity) ID() string          { return b.id }
func (b *BaseEntity) Name() string        { return b.name }
func (b *BaseEntity) Description() string { return b.description }
func (b *BaseEntity) IfcGUID() string     { return b.ifcguid }

// SetID replaces the identifier. An empty id is rejected.
func (b *BaseEntity) SetID(id string) error {
	if id == "" {
		return NewMissingAttributeError("BaseEntity", "id")
	}
	b.id = id
	return nil
}

func (b *BaseEntity) SetName(name string)               { b.name = name }
func (b *BaseEntity) SetDescription(description string) { b.description = description }
func (b *BaseEntity) SetIfcGUID(ifcguid string)         { b.ifcguid = ifcguid }

func (b *BaseEntity) identityDict() Dict {
	return Dict{
		"id":          b.id,
		"name":        stringValue(b.name),
		"description": stringValue(b.description),
		"ifcguid":     stringValue(b.ifcguid),
	}
}

func (b *BaseEntity) identityXmiDict() Dict {
	return Dict{
		"ID":          b.id,
		"Name":        b.name,
		"Description": b.description,
		"IFCGUID":     b.ifcguid,
	}
}

// SameEntity reports whether a and b denote the same entity. Identity is by id.
func SameEntity(a, b Entity) bool {
	if isNilEntity(a) || isNilEntity(b) {
		return false
	}
	return a.ID() == b.ID()
}

// isNilEntity also catches typed nil pointers stored in the interface.
func isNilEntity(e Entity) bool {
	if e == nil {
		return true
	}
	v := reflect.ValueOf(e)
	return v.Kind() == reflect.Pointer && v.IsNil()
}

// diagnostics is embedded by every type built through a kwargs constructor.
type diagnostics struct {
	list []error
}

// Diagnostics returns the per-field problems recorded while the instance was built.
func (d *diagnostics) Diagnostics() []error {
	return slices.Clone(d.list)
}

func (d *diagnostics) record(errs ...error) {
	d.list = append(d.list, errs...)
}

// setIdentity applies an identity attribute through SetAttr. It reports false for any other name.
func (b *BaseEntity) setIdentity(typeName, name string, value any) (bool, error) {
	switch name {
	case "id", "name", "description", "ifcguid":
	default:
		return false, nil
	}
	s, ok := value.(string)
	if !ok {
		return true, NewTypeError(typeName, name, "string", value)
	}
	switch name {
	case "id":
		if s == "" {
			return true, NewMissingAttributeError(typeName, name)
		}
		b.id = s
	case "name":
		b.name = s
	case "description":
		b.description = s
	case "ifcguid":
		b.ifcguid = s
	}
	return true, nil
}

// initIdentity builds the identity from either the explicit values or the keyword bag.
func initIdentity(typeName string, kwargs Dict, id, name, description, ifcguid string) (BaseEntity, []error) {
	if len(kwargs) > 0 {
		return baseEntityFromKwargs(typeName, kwargs)
	}
	return NewBaseEntity(id, name, description, ifcguid), nil
}

func withIdentity(names ...string) []string {
	out := make([]string, 0, len(identityAttributes)+len(names))
	out = append(out, identityAttributes...)
	return append(out, names...)
}
