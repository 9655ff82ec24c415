package stubs

import (
	"fmt"
	"strings"

	"xmimodel/src/domain/xmi"

	"github.com/brianvoe/gofakeit/v6"
)

func randomPoint() *xmi.Point3D {
	return xmi.NewPoint3D(
		gofakeit.Float64Range(-100, 100),
		gofakeit.Float64Range(-100, 100),
		gofakeit.Float64Range(0, 50),
	)
}

func must[T any](v T, err error) T {
	if err != nil {
		panic(err)
	}
	return v
}

type MaterialStub struct {
	params xmi.MaterialParams
}

func NewMaterialStub() MaterialStub {
	grade := gofakeit.Float64Range(20, 60)
	return MaterialStub{params: xmi.MaterialParams{
		ID:           gofakeit.UUID(),
		Name:         "C" + fmt.Sprint(int(grade)),
		MaterialType: xmi.MaterialConcrete,
		Grade:        &grade,
	}}
}

func (ms MaterialStub) WithID(id string) MaterialStub {
	ms.params.ID = id
	return ms
}

func (ms MaterialStub) WithMaterialType(t xmi.MaterialType) MaterialStub {
	ms.params.MaterialType = t
	return ms
}

func (ms MaterialStub) Get() *xmi.Material {
	return must(xmi.NewMaterial(ms.params))
}

type CrossSectionStub struct {
	params xmi.CrossSectionParams
}

func NewCrossSectionStub() CrossSectionStub {
	return CrossSectionStub{params: xmi.CrossSectionParams{
		ID:         gofakeit.UUID(),
		Name:       "R" + gofakeit.DigitN(3),
		Material:   NewMaterialStub().Get(),
		Shape:      "Rectangular",
		Parameters: []float64{gofakeit.Float64Range(0.2, 1), gofakeit.Float64Range(0.2, 1)},
	}}
}

func (cs CrossSectionStub) WithMaterial(m *xmi.Material) CrossSectionStub {
	cs.params.Material = m
	return cs
}

func (cs CrossSectionStub) Get() *xmi.CrossSection {
	return must(xmi.NewCrossSection(cs.params))
}

type PointConnectionStub struct {
	params xmi.PointConnectionParams
}

func NewPointConnectionStub() PointConnectionStub {
	return PointConnectionStub{params: xmi.PointConnectionParams{
		ID:     gofakeit.UUID(),
		Name:   "N" + gofakeit.DigitN(4),
		Point:  randomPoint(),
		Storey: "L" + gofakeit.DigitN(1),
	}}
}

func (ps PointConnectionStub) WithPoint(p *xmi.Point3D) PointConnectionStub {
	ps.params.Point = p
	return ps
}

func (ps PointConnectionStub) Get() *xmi.PointConnection {
	return must(xmi.NewPointConnection(ps.params))
}

// CurveMemberStub builds a valid single-segment member with fresh siblings.
type CurveMemberStub struct {
	params xmi.CurveMemberParams
}

func NewCurveMemberStub() CurveMemberStub {
	begin := NewPointConnectionStub().Get()
	end := NewPointConnectionStub().Get()
	segment := must(xmi.NewLine3D(begin.Point(), end.Point()))
	length := gofakeit.Float64Range(1, 20)

	return CurveMemberStub{params: xmi.CurveMemberParams{
		ID:              gofakeit.UUID(),
		Name:            "B" + gofakeit.DigitN(4),
		Description:     gofakeit.Sentence(4),
		IfcGUID:         gofakeit.UUID(),
		CrossSection:    NewCrossSectionStub().Get(),
		CurveMemberType: xmi.CurveMemberBeam,
		SystemLine:      xmi.SystemLineMiddleMiddle,
		Nodes:           []*xmi.PointConnection{begin, end},
		Segments:        []xmi.Geometry{segment},
		BeginNode:       begin,
		EndNode:         end,
		Length:          &length,
		Storey:          begin.Storey(),
	}}
}

func (cs CurveMemberStub) WithCrossSection(c *xmi.CrossSection) CurveMemberStub {
	cs.params.CrossSection = c
	return cs
}

func (cs CurveMemberStub) WithCurveMemberType(t xmi.CurveMemberType) CurveMemberStub {
	cs.params.CurveMemberType = t
	return cs
}

func (cs CurveMemberStub) WithLocalAxes(x, y, z xmi.Axis) CurveMemberStub {
	cs.params.LocalAxisX, cs.params.LocalAxisY, cs.params.LocalAxisZ = &x, &y, &z
	return cs
}

func (cs CurveMemberStub) WithOffsets(begin, end float64) CurveMemberStub {
	cs.params.BeginNodeXOffset, cs.params.EndNodeXOffset = begin, end
	return cs
}

func (cs CurveMemberStub) Params() xmi.CurveMemberParams {
	return cs.params
}

func (cs CurveMemberStub) Get() *xmi.CurveMember {
	return must(xmi.NewCurveMember(cs.params))
}

// XmiDocumentStub builds a vendor document: one material, one cross section, a chain of
// nodes and one beam between every pair of consecutive nodes. Every record carries all the
// vendor keys its type declares, so a decode of the stub logs nothing.
type XmiDocumentStub struct {
	members int
	extra   map[string][]xmi.Dict
}

func NewXmiDocumentStub() XmiDocumentStub {
	return XmiDocumentStub{members: 1, extra: map[string][]xmi.Dict{}}
}

func (ds XmiDocumentStub) WithCurveMembers(n int) XmiDocumentStub {
	ds.members = n
	return ds
}

// WithRecord appends a raw vendor record to a collection.
func (ds XmiDocumentStub) WithRecord(collection string, record xmi.Dict) XmiDocumentStub {
	extra := make(map[string][]xmi.Dict, len(ds.extra))
	for k, v := range ds.extra {
		extra[k] = append([]xmi.Dict(nil), v...)
	}
	extra[collection] = append(extra[collection], record)
	ds.extra = extra
	return ds
}

func (ds XmiDocumentStub) Get() map[string][]xmi.Dict {
	doc := map[string][]xmi.Dict{}

	materialID := gofakeit.UUID()
	doc[xmi.TypeMaterial] = []xmi.Dict{{
		"ID":                 materialID,
		"Name":               "C30/37",
		"Description":        "Normal weight concrete",
		"IFCGUID":            gofakeit.UUID(),
		"Type":               "Concrete",
		"Grade":              30.0,
		"UnitWeight":         25.0,
		"EModulus":           33000.0,
		"GModulus":           13750.0,
		"PoissonRatio":       0.2,
		"ThermalCoefficient": 0.00001,
	}}

	sectionName := "R" + gofakeit.DigitN(3)
	doc[xmi.TypeCrossSection] = []xmi.Dict{{
		"ID":          gofakeit.UUID(),
		"Name":        sectionName,
		"Description": "Rectangular 300x600",
		"IFCGUID":     gofakeit.UUID(),
		"Material":    materialID,
		"Shape":       "Rectangular",
		"Parameters":  "0.3;0.6",
		"Area":        0.18,
	}}

	nodeIDs := make([]string, ds.members+1)
	for i := range nodeIDs {
		nodeIDs[i] = gofakeit.UUID()
		doc[xmi.TypePointConnection] = append(doc[xmi.TypePointConnection], xmi.Dict{
			"ID":          nodeIDs[i],
			"Name":        fmt.Sprintf("N%d", i+1),
			"Description": "Grid node",
			"IFCGUID":     gofakeit.UUID(),
			"Point":       fmt.Sprintf("%d;0;0", i*5),
			"Storey":      "Ground",
		})
	}

	for i := 0; i < ds.members; i++ {
		doc[xmi.TypeCurveMember] = append(doc[xmi.TypeCurveMember], xmi.Dict{
			"ID":               gofakeit.UUID(),
			"Name":             fmt.Sprintf("B%d", i+1),
			"Description":      "Ground floor beam",
			"IFCGUID":          gofakeit.UUID(),
			"CrossSection":     sectionName,
			"Type":             "Beam",
			"SystemLine":       "Middle Middle",
			"Nodes":            strings.Join(nodeIDs[i:i+2], ";"),
			"Segments":         "Line",
			"BeginNode":        nodeIDs[i],
			"EndNode":          nodeIDs[i+1],
			"LocalAxisX":       "1;0;0",
			"LocalAxisY":       "0;1;0",
			"LocalAxisZ":       "0;0;1",
			"BeginNodeXOffset": 0.0,
			"EndNodeXOffset":   0.0,
			"BeginNodeYOffset": 0.0,
			"EndNodeYOffset":   0.0,
			"BeginNodeZOffset": 0.0,
			"EndNodeZOffset":   0.0,
			"EndFixityStart":   "Pinned",
			"EndFixityEnd":     "Pinned",
			"Length":           5.0,
			"Storey":           "Ground",
		})
	}

	for collection, records := range ds.extra {
		doc[collection] = append(doc[collection], records...)
	}
	return doc
}
