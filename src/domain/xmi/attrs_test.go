package xmi_test

import (
	"errors"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"xmimodel/src/domain/xmi"
)

var _ = Describe("ParseLocalAxis", func() {
	It("should convert a well formed string", func() {
		// ACT
		axis, err := xmi.ParseLocalAxis("1.0;2.0;3.0")

		// ASSERT
		Expect(err).NotTo(HaveOccurred())
		Expect(axis).To(Equal(xmi.Axis{1, 2, 3}))
	})

	It("should reject a string with the wrong arity", func() {
		// ACT
		_, err := xmi.ParseLocalAxis("1.0;2.0")

		// ASSERT
		Expect(err).To(MatchError(xmi.ErrMissingRequiredAttribute))
	})

	It("should reject a blank part", func() {
		// ACT
		_, err := xmi.ParseLocalAxis("1.0; ;3.0")

		// ASSERT
		Expect(err).To(MatchError(xmi.ErrMissingRequiredAttribute))
	})

	It("should reject a non numeric part", func() {
		// ACT
		_, err := xmi.ParseLocalAxis("1.0;x;3.0")

		// ASSERT
		Expect(err).To(MatchError(xmi.ErrInconsistentDataType))
		Expect(err.Error()).To(ContainSubstring("[x]"))
	})

	It("should render back to the vendor form", func() {
		Expect(xmi.Axis{1, 0.5, -2}.String()).To(Equal("1;0.5;-2"))
	})
})

var _ = Describe("KeyMapping", func() {
	It("should rename known vendor keys and pass the rest through", func() {
		// ARRANGE
		vendor := xmi.Dict{
			"CrossSection":      "cs-1",
			"LocalAxisX":        "1;0;0",
			"BeginNodeYOffset":  0.1,
			"IFCGUID":           "guid",
			"StiffnessModifier": 1.0,
		}

		// ACT
		canonical := xmi.CurveMemberKeys.Remap(vendor)

		// ASSERT
		Expect(canonical).To(Equal(xmi.Dict{
			"cross_section":       "cs-1",
			"local_axis_x":        "1;0;0",
			"begin_node_y_offset": 0.1,
			"ifcguid":             "guid",
			"StiffnessModifier":   1.0,
		}))
	})

	It("should cover every curve member attribute", func() {
		for _, name := range xmi.CurveMemberAttributes {
			_, ok := xmi.CurveMemberKeys.VendorKey(name)
			Expect(ok).To(BeTrue(), name)
		}
	})

	It("should cover every attribute of the other entities", func() {
		tables := map[*xmi.KeyMapping][]string{
			&xmi.PointConnectionKeys: xmi.PointConnectionAttributes,
			&xmi.CrossSectionKeys:    xmi.CrossSectionAttributes,
			&xmi.MaterialKeys:        xmi.MaterialAttributes,
		}
		for table, names := range tables {
			for _, name := range names {
				_, ok := table.VendorKey(name)
				Expect(ok).To(BeTrue(), name)
			}
		}
	})

	It("should map vendor keys one to one", func() {
		seen := map[string]string{}
		for vendor, canonical := range xmi.CurveMemberKeys.Keys {
			Expect(seen).NotTo(HaveKey(canonical), vendor)
			seen[canonical] = vendor
		}
	})
})

var _ = Describe("Enums", func() {
	It("should parse by value, code, name and label", func() {
		for _, input := range []any{xmi.SystemLineMiddleMiddle, 5, 5.0, "MIDDLE_MIDDLE", "middle middle"} {
			line, err := xmi.ParseSystemLine(input)
			Expect(err).NotTo(HaveOccurred())
			Expect(line).To(Equal(xmi.SystemLineMiddleMiddle))
		}
	})

	It("should reject unknown values", func() {
		// ACT
		_, err := xmi.ParseMaterialType("Plastic")

		// ASSERT
		Expect(err).To(MatchError(xmi.ErrInconsistentDataType))
	})

	It("should render labels", func() {
		Expect(xmi.MaterialSteel.String()).To(Equal("STEEL"))
		Expect(xmi.SegmentCircularArc.String()).To(Equal("Circular Arc"))
		Expect(xmi.CurveMemberType(42).String()).To(Equal("Unknown(42)"))
	})
})

var _ = Describe("ErrorLog", func() {
	It("should skip nil errors and join the rest", func() {
		// ARRANGE
		var log xmi.ErrorLog
		first := xmi.NewMissingReferenceError(xmi.TypeCurveMember, "cross_section", xmi.TypeCrossSection)

		// ACT
		log.Add(nil)
		log.Add(first)
		log.Add(errors.New("boom"))

		// ASSERT
		Expect(log.HasErrors()).To(BeTrue())
		Expect(log).To(HaveLen(2))
		Expect(log.Err()).To(MatchError(xmi.ErrMissingReferenceInstance))
		Expect(log.Strings()).To(ContainElement("boom"))
		Expect(log.Count(xmi.ErrMissingReferenceInstance)).To(Equal(1))
	})

	It("should expose the attribute of a typed error", func() {
		// ARRANGE
		err := xmi.NewTypeError(xmi.TypeCurveMember, "storey", "string", 42)

		// ACT
		var attrErr *xmi.AttributeError
		ok := errors.As(err, &attrErr)

		// ASSERT
		Expect(ok).To(BeTrue())
		Expect(attrErr.Attribute()).To(Equal("storey"))
		Expect(attrErr.TypeName()).To(Equal(xmi.TypeCurveMember))
		Expect(attrErr.Error()).To(ContainSubstring("got int"))
	})
})
