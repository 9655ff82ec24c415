package xmi_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"xmimodel/src/domain/xmi"
	"xmimodel/src/test_artefacts/comparer"
	"xmimodel/src/test_artefacts/stubs"
)

var _ = Describe("Line3D", func() {
	var start, end *xmi.Point3D

	BeforeEach(func() {
		start = xmi.NewPoint3D(0, 0, 0)
		end = xmi.NewPoint3D(5, 0, 0)
	})

	It("should carry a fixed line segment type", func() {
		// ACT
		line, err := xmi.NewLine3D(start, end)

		// ASSERT
		Expect(err).NotTo(HaveOccurred())
		Expect(line.SegmentType()).To(Equal(xmi.SegmentLine))
		Expect(line.StartPoint().Equal(start)).To(BeTrue())
	})

	It("should require both points", func() {
		// ACT
		_, err := xmi.NewLine3D(start, nil)

		// ASSERT
		Expect(err).To(MatchError(xmi.ErrMissingRequiredAttribute))
		Expect(err.Error()).To(ContainSubstring("end_point"))
	})

	It("should reject a point given both explicitly and in kwargs", func() {
		// ACT
		_, err := xmi.NewLine3DFromKwargs(start, end, xmi.Dict{"start_point": start})

		// ASSERT
		Expect(err).To(MatchError(xmi.ErrMutualExclusivity))
	})

	It("should round trip through its canonical mapping", func() {
		// ARRANGE
		line, _ := xmi.NewLine3D(start, end)

		// ACT
		result, log := xmi.Line3DFromDict(line.ToDict())

		// ASSERT
		Expect(log).To(BeEmpty())
		Expect(result).To(BeComparableTo(line, comparer.XmiEntities()))
	})

	It("should decode points given as strings and mappings", func() {
		// ACT
		result, log := xmi.Line3DFromDict(xmi.Dict{
			"start_point": "0;0;0",
			"end_point":   map[string]any{"X": 5, "Y": 0, "Z": 0},
		})

		// ASSERT
		Expect(log).To(BeEmpty())
		Expect(result.EndPoint().Equal(end)).To(BeTrue())
	})

	It("should check both points before giving up on a badly typed one", func() {
		// ACT
		result, log := xmi.Line3DFromDict(xmi.Dict{"start_point": 1, "end_point": true})

		// ASSERT
		Expect(result).To(BeNil())
		Expect(log).To(HaveLen(2))
		Expect(log.Count(xmi.ErrInconsistentDataType)).To(Equal(2))
		Expect(log.Strings()[1]).To(ContainSubstring("end_point"))
	})

	It("should reject a non-finite coordinate string", func() {
		// ACT
		result, log := xmi.Line3DFromDict(xmi.Dict{"start_point": "0;NaN;0", "end_point": end})

		// ASSERT
		Expect(result).To(BeNil())
		Expect(log.Count(xmi.ErrInconsistentDataType)).To(Equal(1))
	})

	It("should return nil when a point is missing", func() {
		// ACT
		result, log := xmi.Line3DFromDict(xmi.Dict{"start_point": start})

		// ASSERT
		Expect(result).To(BeNil())
		Expect(log.Count(xmi.ErrMissingAttribute)).To(Equal(1))
		Expect(log.Count(xmi.ErrMissingRequiredAttribute)).To(Equal(1))
	})
})

var _ = Describe("PointConnection", func() {
	It("should round trip through both mappings", func() {
		// ARRANGE
		node := stubs.NewPointConnectionStub().Get()

		// ACT
		fromDict, dictLog := xmi.PointConnectionFromDict(node.ToDict())
		fromXmi, xmiLog := xmi.PointConnectionFromXmiDict(node.ToXmiDict())

		// ASSERT
		Expect(dictLog).To(BeEmpty())
		Expect(xmiLog).To(BeEmpty())
		Expect(fromDict).To(BeComparableTo(node, comparer.XmiEntities()))
		Expect(fromXmi.Point().Equal(node.Point())).To(BeTrue())
		Expect(fromXmi.Storey()).To(Equal(node.Storey()))
	})

	It("should reject a point given both explicitly and in kwargs", func() {
		// ARRANGE
		p := xmi.NewPoint3D(1, 2, 3)

		// ACT
		_, err := xmi.NewPointConnectionFromKwargs(xmi.PointConnectionParams{Point: p}, xmi.Dict{"point": p})

		// ASSERT
		Expect(err).To(MatchError(xmi.ErrMutualExclusivity))
	})

	It("should return nil when the point cannot be decoded", func() {
		// ACT
		result, log := xmi.PointConnectionFromXmiDict(xmi.Dict{"ID": "n1", "Point": "1;2"})

		// ASSERT
		Expect(result).To(BeNil())
		Expect(log).To(ContainElement(MatchError(xmi.ErrMissingRequiredAttribute)))
	})
})

var _ = Describe("Material", func() {
	It("should decode the vendor type label", func() {
		// ACT
		material, log := xmi.MaterialFromXmiDict(xmi.Dict{
			"ID":       "m1",
			"Name":     "S355",
			"Type":     "Steel",
			"EModulus": 210000,
		})

		// ASSERT
		Expect(material).NotTo(BeNil())
		Expect(material.MaterialType()).To(Equal(xmi.MaterialSteel))
		Expect(*material.EModulus()).To(Equal(210000.0))
		Expect(log.Count(xmi.ErrMissingAttribute)).To(Equal(7))
		Expect(log.Count(xmi.ErrTypeViolation)).To(BeZero())
	})

	It("should keep an unknown type absent and report it", func() {
		// ACT
		material, log := xmi.MaterialFromDict(xmi.Dict{"id": "m1", "material_type": "Plastic"})

		// ASSERT
		Expect(material).NotTo(BeNil())
		Expect(material.MaterialType()).To(BeZero())
		Expect(log).To(ContainElement(MatchError(xmi.ErrTypeViolation)))
	})

	It("should reject a type given both explicitly and in kwargs", func() {
		// ACT
		_, err := xmi.NewMaterialFromKwargs(
			xmi.MaterialParams{MaterialType: xmi.MaterialTimber},
			xmi.Dict{"material_type": "Timber"},
		)

		// ASSERT
		Expect(err).To(MatchError(xmi.ErrMutualExclusivity))
	})

	It("should round trip through its canonical mapping", func() {
		// ARRANGE
		material := stubs.NewMaterialStub().Get()

		// ACT
		result, log := xmi.MaterialFromDict(material.ToDict())

		// ASSERT
		Expect(log).To(BeEmpty())
		Expect(result).To(BeComparableTo(material, comparer.XmiEntities()))
	})
})

var _ = Describe("CrossSection", func() {
	var material *xmi.Material

	BeforeEach(func() {
		material = stubs.NewMaterialStub().Get()
	})

	It("should inject the material and parse delimited parameters", func() {
		// ACT
		section, log := xmi.CrossSectionFromXmiDict(xmi.Dict{
			"ID":         "cs1",
			"Material":   material.ID(),
			"Shape":      "Rectangular",
			"Parameters": "0.3;0.6",
		}, xmi.CrossSectionRefs{Material: material})

		// ASSERT
		Expect(section).NotTo(BeNil())
		Expect(section.Material()).To(BeIdenticalTo(material))
		Expect(section.Parameters()).To(Equal([]float64{0.3, 0.6}))
		Expect(log.Count(xmi.ErrTypeViolation)).To(BeZero())
	})

	It("should return nil without a material", func() {
		// ACT
		section, log := xmi.CrossSectionFromXmiDict(xmi.Dict{"ID": "cs1", "Shape": "I"}, xmi.CrossSectionRefs{})

		// ASSERT
		Expect(section).To(BeNil())
		Expect(log).To(ContainElement(MatchError(xmi.ErrMissingReferenceInstance)))
	})

	It("should log malformed parameters and keep the section", func() {
		// ACT
		section, log := xmi.CrossSectionFromDict(xmi.Dict{
			"id":         "cs1",
			"material":   material,
			"shape":      "I",
			"parameters": "0.3;;0.6",
		})

		// ASSERT
		Expect(section).NotTo(BeNil())
		Expect(section.Parameters()).To(BeNil())
		Expect(log).To(ContainElement(MatchError(xmi.ErrMissingRequiredAttribute)))
	})

	It("should reject a material given both explicitly and in kwargs", func() {
		// ACT
		section, err := xmi.NewCrossSectionFromKwargs(
			xmi.CrossSectionParams{Material: material},
			xmi.Dict{"material": material, "shape": "I"},
		)

		// ASSERT
		Expect(section).To(BeNil())
		Expect(err).To(MatchError(xmi.ErrMutualExclusivity))
	})

	It("should reject identity parameters combined with kwargs", func() {
		// ACT
		_, err := xmi.NewCrossSectionFromKwargs(
			xmi.CrossSectionParams{ID: "cs1"},
			xmi.Dict{"material": material, "shape": "I"},
		)

		// ASSERT
		Expect(xmi.IsMutualExclusivity(err)).To(BeTrue())
	})

	It("should hand out a copy of its parameters", func() {
		// ARRANGE
		section := stubs.NewCrossSectionStub().WithMaterial(material).Get()
		first := section.Parameters()[0]

		// ACT
		section.Parameters()[0] = -1
		section.ToDict()["parameters"].([]float64)[0] = -1

		// ASSERT
		Expect(section.Parameters()[0]).To(Equal(first))
	})

	It("should round trip through its canonical mapping", func() {
		// ARRANGE
		section := stubs.NewCrossSectionStub().WithMaterial(material).Get()

		// ACT
		result, log := xmi.CrossSectionFromDict(section.ToDict())

		// ASSERT
		Expect(log).To(BeEmpty())
		Expect(result).To(BeComparableTo(section, comparer.XmiEntities()))
	})
})

var _ = Describe("Relationships", func() {
	It("should link a member to its cross section under the fixed name", func() {
		// ARRANGE
		member := stubs.NewCurveMemberStub().Get()

		// ACT
		rel, err := xmi.NewHasCrossSection(member, member.CrossSection())

		// ASSERT
		Expect(err).NotTo(HaveOccurred())
		Expect(rel.Name()).To(Equal("hasStructuralCrossSection"))
		Expect(xmi.SameEntity(rel.Source(), member)).To(BeTrue())
		Expect(xmi.SameEntity(rel.Target(), member.CrossSection())).To(BeTrue())
		Expect(rel.ToXmiDict()["Target"]).To(Equal(member.CrossSection().ID()))
	})

	It("should reject a typed nil endpoint", func() {
		// ARRANGE
		var missing *xmi.CrossSection

		// ACT
		rel, err := xmi.NewHasCrossSection(stubs.NewCurveMemberStub().Get(), missing)

		// ASSERT
		Expect(rel).To(BeNil())
		Expect(err).To(MatchError(xmi.ErrTypeViolation))
	})

	It("should name the material and node relationships", func() {
		// ARRANGE
		section := stubs.NewCrossSectionStub().Get()
		node := stubs.NewPointConnectionStub().Get()
		member := stubs.NewCurveMemberStub().Get()

		// ACT
		hasMaterial, err1 := xmi.NewHasMaterial(section, section.Material())
		hasNode, err2 := xmi.NewHasPointConnection(member, node)

		// ASSERT
		Expect(err1).NotTo(HaveOccurred())
		Expect(err2).NotTo(HaveOccurred())
		Expect(hasMaterial.Name()).To(Equal(xmi.RelHasMaterial))
		Expect(hasNode.Name()).To(Equal(xmi.RelHasPointConnection))
	})
})
