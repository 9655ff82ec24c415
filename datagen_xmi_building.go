//go:build datagen_kafka_xmi || datagen_postgres

package main

import (
	"fmt"
	"math/rand"
	"strings"

	"github.com/go-faker/faker/v4"

	"xmimodel/src/domain/xmi"
	"xmimodel/src/services/xmiimport"
)

// BuildingShape is a regular frame: a grid of columns on every storey and beams between
// neighbouring columns in both directions.
type BuildingShape struct {
	Storeys      int
	BaysX        int
	BaysY        int
	Spacing      float64
	StoreyHeight float64
}

func randomShape() BuildingShape {
	return BuildingShape{
		Storeys:      1 + rand.Intn(8),
		BaysX:        1 + rand.Intn(5),
		BaysY:        1 + rand.Intn(4),
		Spacing:      []float64{5, 6, 7.5, 8}[rand.Intn(4)],
		StoreyHeight: []float64{3, 3.5, 4}[rand.Intn(3)],
	}
}

type buildingGenerator struct {
	prefix string
	doc    xmiimport.Document
	nodes  map[[3]int]string
}

// generateBuilding returns a vendor document for one building. Ids are prefixed per
// building so documents never share entities.
func generateBuilding(shape BuildingShape) xmiimport.Document {
	g := &buildingGenerator{
		prefix: strings.ToLower(faker.Word()) + "-" + faker.UUIDDigit()[:8],
		doc:    xmiimport.Document{},
		nodes:  map[[3]int]string{},
	}

	concrete := g.id("mat-concrete")
	steel := g.id("mat-steel")
	g.add(xmi.TypeMaterial, xmi.Dict{"ID": concrete, "Name": "C30/37", "Type": "Concrete", "Grade": 30.0, "EModulus": 33000.0, "UnitWeight": 25.0})
	g.add(xmi.TypeMaterial, xmi.Dict{"ID": steel, "Name": "S355", "Type": "Steel", "Grade": 355.0, "EModulus": 210000.0, "UnitWeight": 78.5})

	column := "C" + faker.UUIDDigit()[:3]
	beam := "B" + faker.UUIDDigit()[:3]
	g.add(xmi.TypeCrossSection, xmi.Dict{"ID": g.id("cs-column"), "Name": column, "Material": concrete, "Shape": "Rectangular", "Parameters": "0.4;0.4"})
	g.add(xmi.TypeCrossSection, xmi.Dict{"ID": g.id("cs-beam"), "Name": beam, "Material": steel, "Shape": "I", "Parameters": "0.3;0.6;0.012;0.02"})

	for level := 0; level <= shape.Storeys; level++ {
		for x := 0; x <= shape.BaysX; x++ {
			for y := 0; y <= shape.BaysY; y++ {
				g.node(shape, x, y, level)
			}
		}
	}

	for level := 1; level <= shape.Storeys; level++ {
		storey := storeyName(level)
		for x := 0; x <= shape.BaysX; x++ {
			for y := 0; y <= shape.BaysY; y++ {
				g.member("col", column, "Column", storey, [3]int{x, y, level - 1}, [3]int{x, y, level}, shape.StoreyHeight, "0;0;1")
				if x < shape.BaysX {
					g.member("bx", beam, "Beam", storey, [3]int{x, y, level}, [3]int{x + 1, y, level}, shape.Spacing, "1;0;0")
				}
				if y < shape.BaysY {
					g.member("by", beam, "Beam", storey, [3]int{x, y, level}, [3]int{x, y + 1, level}, shape.Spacing, "0;1;0")
				}
			}
		}
	}

	return g.doc
}

func storeyName(level int) string {
	if level == 0 {
		return "Ground"
	}
	return fmt.Sprintf("L%02d", level)
}

func (g *buildingGenerator) id(format string, args ...any) string {
	return g.prefix + "-" + fmt.Sprintf(format, args...)
}

func gridKey(k [3]int) string {
	return fmt.Sprintf("%d.%d.%d", k[0], k[1], k[2])
}

func (g *buildingGenerator) add(collection string, record xmi.Dict) {
	g.doc[collection] = append(g.doc[collection], record)
}

func (g *buildingGenerator) node(shape BuildingShape, x, y, level int) {
	key := [3]int{x, y, level}
	id := g.id("n%s", gridKey(key))
	g.nodes[key] = id
	g.add(xmi.TypePointConnection, xmi.Dict{
		"ID":     id,
		"Name":   "N" + gridKey(key),
		"Point":  fmt.Sprintf("%g;%g;%g", float64(x)*shape.Spacing, float64(y)*shape.Spacing, float64(level)*shape.StoreyHeight),
		"Storey": storeyName(level),
	})
}

func (g *buildingGenerator) member(kind, section, memberType, storey string, from, to [3]int, length float64, axisX string) {
	begin, end := g.nodes[from], g.nodes[to]
	localY := "0;1;0"
	if axisX == "0;1;0" {
		localY = "-1;0;0"
	} else if axisX == "0;0;1" {
		localY = "1;0;0"
	}

	g.add(xmi.TypeCurveMember, xmi.Dict{
		"ID":           g.id("%s%s-%s", kind, gridKey(from), gridKey(to)),
		"Name":         fmt.Sprintf("%s %s-%s", strings.ToUpper(kind), gridKey(from), gridKey(to)),
		"CrossSection": section,
		"Type":         memberType,
		"SystemLine":   "Middle Middle",
		"Nodes":        begin + ";" + end,
		"Segments":     "Line",
		"BeginNode":    begin,
		"EndNode":      end,
		"LocalAxisX":   axisX,
		"LocalAxisY":   localY,
		"Length":       length,
		"Storey":       storey,
	})
}
