package xmiimport

import "xmimodel/src/domain/xmi"

// Model is the result of an import: every entity that decoded, in document order, and the
// relationships between them.
type Model struct {
	Materials        []*xmi.Material
	CrossSections    []*xmi.CrossSection
	PointConnections []*xmi.PointConnection
	CurveMembers     []*xmi.CurveMember
	Relationships    []xmi.Relationship

	materials        index[*xmi.Material]
	crossSections    index[*xmi.CrossSection]
	pointConnections index[*xmi.PointConnection]
}

func newModel() *Model {
	return &Model{
		materials:        newIndex[*xmi.Material](),
		crossSections:    newIndex[*xmi.CrossSection](),
		pointConnections: newIndex[*xmi.PointConnection](),
	}
}

// Entities lists every entity in import order.
func (m *Model) Entities() []xmi.Entity {
	entities := make([]xmi.Entity, 0, len(m.Materials)+len(m.CrossSections)+len(m.PointConnections)+len(m.CurveMembers))
	for _, e := range m.Materials {
		entities = append(entities, e)
	}
	for _, e := range m.CrossSections {
		entities = append(entities, e)
	}
	for _, e := range m.PointConnections {
		entities = append(entities, e)
	}
	for _, e := range m.CurveMembers {
		entities = append(entities, e)
	}
	return entities
}

// Counts returns the number of decoded entities per collection plus relationships.
func (m *Model) Counts() map[string]int {
	return map[string]int{
		xmi.TypeMaterial:        len(m.Materials),
		xmi.TypeCrossSection:    len(m.CrossSections),
		xmi.TypePointConnection: len(m.PointConnections),
		xmi.TypeCurveMember:     len(m.CurveMembers),
		"Relationships":         len(m.Relationships),
	}
}

// index resolves vendor references. Records point at siblings by id, and some exporters
// use the name instead, so both are indexed. Ids win over names.
type index[T xmi.Entity] struct {
	byID   map[string]T
	byName map[string]T
}

func newIndex[T xmi.Entity]() index[T] {
	return index[T]{byID: map[string]T{}, byName: map[string]T{}}
}

func (ix index[T]) add(e T) {
	ix.byID[e.ID()] = e
	if name := e.Name(); name != "" {
		if _, taken := ix.byName[name]; !taken {
			ix.byName[name] = e
		}
	}
}

func (ix index[T]) resolve(key string) (T, bool) {
	if e, ok := ix.byID[key]; ok {
		return e, true
	}
	e, ok := ix.byName[key]
	return e, ok
}
