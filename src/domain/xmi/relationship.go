package xmi

import "github.com/google/uuid"

// Relationship names.
const (
	RelHasCrossSection    = "hasStructuralCrossSection"
	RelHasMaterial        = "hasStructuralMaterial"
	RelHasPointConnection = "hasStructuralPointConnection"
)

// Relationship is a named, directed edge between two entities.
type Relationship interface {
	ID() string
	Name() string
	Source() Entity
	Target() Entity
}

// BaseRelationship holds the endpoints of a relationship. It owns neither of them.
type BaseRelationship struct {
	id     string
	name   string
	source Entity
	target Entity
}

// newBaseRelationship rejects nil endpoints, typed nil pointers included.
func newBaseRelationship(name string, source, target Entity) (BaseRelationship, error) {
	if isNilEntity(source) {
		return BaseRelationship{}, NewTypeError(name, "source", "Entity", source)
	}
	if isNilEntity(target) {
		return BaseRelationship{}, NewTypeError(name, "target", "Entity", target)
	}
	return BaseRelationship{id: uuid.NewString(), name: name, source: source, target: target}, nil
}

func (r *BaseRelationship) ID() string     { return r.id }
func (r *BaseRelationship) Name() string   { return r.name }
func (r *BaseRelationship) Source() Entity { return r.source }
func (r *BaseRelationship) Target() Entity { return r.target }

// ToDict returns {"id", "name", "source", "target"} with the endpoints as objects.
func (r *BaseRelationship) ToDict() Dict {
	return Dict{"id": r.id, "name": r.name, "source": r.source, "target": r.target}
}

// ToXmiDict returns the relationship with the endpoints written as ids.
func (r *BaseRelationship) ToXmiDict() Dict {
	return Dict{"ID": r.id, "Name": r.name, "Source": r.source.ID(), "Target": r.target.ID()}
}

// HasCrossSection links a curve member to its cross section.
type HasCrossSection struct {
	BaseRelationship
}

// NewHasCrossSection links source to target under the fixed name hasStructuralCrossSection.
func NewHasCrossSection(source, target Entity) (*HasCrossSection, error) {
	base, err := newBaseRelationship(RelHasCrossSection, source, target)
	if err != nil {
		return nil, err
	}
	return &HasCrossSection{BaseRelationship: base}, nil
}

// HasMaterial links a cross section to its material.
type HasMaterial struct {
	BaseRelationship
}

func NewHasMaterial(source, target Entity) (*HasMaterial, error) {
	base, err := newBaseRelationship(RelHasMaterial, source, target)
	if err != nil {
		return nil, err
	}
	return &HasMaterial{BaseRelationship: base}, nil
}

// HasPointConnection links a curve member to one of its nodes.
type HasPointConnection struct {
	BaseRelationship
}

func NewHasPointConnection(source, target Entity) (*HasPointConnection, error) {
	base, err := newBaseRelationship(RelHasPointConnection, source, target)
	if err != nil {
		return nil, err
	}
	return &HasPointConnection{BaseRelationship: base}, nil
}
