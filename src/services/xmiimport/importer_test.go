package xmiimport_test

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/prometheus/client_golang/prometheus"

	"xmimodel/src/domain/xmi"
	"xmimodel/src/services/xmiimport"
	"xmimodel/src/test_artefacts/stubs"
)

var _ = Describe("Importer", func() {
	var (
		importer *xmiimport.Importer
		registry *prometheus.Registry
		ctx      context.Context
	)

	BeforeEach(func() {
		ctx = context.Background()
		registry = prometheus.NewRegistry()
		logger := slog.New(slog.NewTextHandler(GinkgoWriter, nil))
		importer = xmiimport.NewImporter(logger, 4, xmiimport.NewMetrics(registry))
	})

	Context("a consistent document", func() {
		It("should decode every record and link them", func() {
			// ARRANGE
			doc := xmiimport.Document(stubs.NewXmiDocumentStub().WithCurveMembers(3).Get())

			// ACT
			model, log, err := importer.Import(ctx, doc)

			// ASSERT
			Expect(err).NotTo(HaveOccurred())
			Expect(model.Materials).To(HaveLen(1))
			Expect(model.CrossSections).To(HaveLen(1))
			Expect(model.PointConnections).To(HaveLen(4))
			Expect(model.CurveMembers).To(HaveLen(3))
			// 1 material link, 3 section links, 2 node links per member
			Expect(model.Relationships).To(HaveLen(10))
			Expect(log.Count(xmi.ErrMissingReferenceInstance)).To(BeZero())
			Expect(log.Count(xmi.ErrMissingRequiredAttribute)).To(BeZero())
			Expect(log.Count(xmi.ErrInconsistentDataType)).To(BeZero())
		})

		It("should resolve the section by name and the material by id", func() {
			// ARRANGE
			doc := xmiimport.Document(stubs.NewXmiDocumentStub().Get())

			// ACT
			model, _, err := importer.Import(ctx, doc)

			// ASSERT
			Expect(err).NotTo(HaveOccurred())
			section := model.CrossSections[0]
			Expect(section.Material()).To(BeIdenticalTo(model.Materials[0]))
			Expect(model.CurveMembers[0].CrossSection()).To(BeIdenticalTo(section))
		})

		It("should build one line per span between consecutive nodes", func() {
			// ARRANGE
			doc := xmiimport.Document(stubs.NewXmiDocumentStub().WithCurveMembers(2).Get())
			nodes := doc[xmi.TypePointConnection]
			member := doc[xmi.TypeCurveMember][0]
			member["Nodes"] = fmt.Sprintf("%s;%s;%s", nodes[0]["ID"], nodes[1]["ID"], nodes[2]["ID"])
			member["EndNode"] = nodes[2]["ID"]

			// ACT
			model, _, err := importer.Import(ctx, doc)

			// ASSERT
			Expect(err).NotTo(HaveOccurred())
			decoded := model.CurveMembers[0]
			Expect(decoded.Nodes()).To(HaveLen(3))
			Expect(decoded.Segments()).To(HaveLen(2))
			Expect(decoded.Segments()[1].StartPoint().Equal(decoded.Nodes()[1].Point())).To(BeTrue())
			Expect(decoded.SegmentTypes()).To(Equal([]xmi.SegmentType{xmi.SegmentLine, xmi.SegmentLine}))
		})

		It("should keep document order when decoding in parallel", func() {
			// ARRANGE
			doc := xmiimport.Document(stubs.NewXmiDocumentStub().WithCurveMembers(40).Get())

			// ACT
			model, _, err := importer.Import(ctx, doc)

			// ASSERT
			Expect(err).NotTo(HaveOccurred())
			Expect(model.CurveMembers).To(HaveLen(40))
			for i, member := range model.CurveMembers {
				Expect(member.Name()).To(Equal(fmt.Sprintf("B%d", i+1)))
			}
		})
	})

	Context("a document with broken references", func() {
		It("should drop a member whose cross section is unknown", func() {
			// ARRANGE
			doc := xmiimport.Document(stubs.NewXmiDocumentStub().WithCurveMembers(2).Get())
			doc[xmi.TypeCurveMember][0]["ID"] = "orphan"
			doc[xmi.TypeCurveMember][0]["CrossSection"] = "unknown-section"

			// ACT
			model, log, err := importer.Import(ctx, doc)

			// ASSERT
			Expect(err).NotTo(HaveOccurred())
			Expect(model.CurveMembers).To(HaveLen(1))

			var recordErr *xmiimport.RecordError
			Expect(log).To(ContainElement(SatisfyAll(
				MatchError(xmi.ErrMissingReferenceInstance),
				WithTransform(func(err error) string {
					if errors.As(err, &recordErr) {
						return recordErr.ID
					}
					return ""
				}, Equal("orphan")),
			)))
		})

		It("should report unknown node ids", func() {
			// ARRANGE
			doc := xmiimport.Document(stubs.NewXmiDocumentStub().Get())
			doc[xmi.TypeCurveMember][0]["Nodes"] = "ghost-1;ghost-2"

			// ACT
			model, log, err := importer.Import(ctx, doc)

			// ASSERT
			Expect(err).NotTo(HaveOccurred())
			Expect(model.CurveMembers).To(BeEmpty())
			Expect(log).To(ContainElement(SatisfyAll(
				MatchError(xmi.ErrMissingReferenceInstance),
				MatchError(ContainSubstring("ghost-1")),
			)))
		})

		It("should reject a segment list that does not match the spans", func() {
			// ARRANGE
			doc := xmiimport.Document(stubs.NewXmiDocumentStub().Get())
			doc[xmi.TypeCurveMember][0]["Segments"] = "Line;Line"

			// ACT
			model, log, err := importer.Import(ctx, doc)

			// ASSERT
			Expect(err).NotTo(HaveOccurred())
			Expect(model.CurveMembers).To(BeEmpty())
			Expect(log).To(ContainElement(MatchError(xmi.ErrInconsistentDataType)))
		})

		It("should drop a section without a material and every member using it", func() {
			// ARRANGE
			doc := xmiimport.Document(stubs.NewXmiDocumentStub().Get())
			doc[xmi.TypeCrossSection][0]["Material"] = "unknown-material"

			// ACT
			model, log, err := importer.Import(ctx, doc)

			// ASSERT
			Expect(err).NotTo(HaveOccurred())
			Expect(model.CrossSections).To(BeEmpty())
			Expect(model.CurveMembers).To(BeEmpty())
			Expect(log.Count(xmi.ErrMissingReferenceInstance)).To(Equal(2))
		})
	})

	It("should stop on a cancelled context", func() {
		// ARRANGE
		cancelled, cancel := context.WithCancel(ctx)
		cancel()

		// ACT
		model, _, err := importer.Import(cancelled, xmiimport.Document(stubs.NewXmiDocumentStub().Get()))

		// ASSERT
		Expect(model).To(BeNil())
		Expect(err).To(MatchError(context.Canceled))
	})

	It("should count records by outcome", func() {
		// ARRANGE
		doc := xmiimport.Document(stubs.NewXmiDocumentStub().WithCurveMembers(2).Get())
		doc[xmi.TypeCurveMember][1]["CrossSection"] = "unknown-section"

		// ACT
		_, _, err := importer.Import(ctx, doc)

		// ASSERT
		Expect(err).NotTo(HaveOccurred())
		families, gatherErr := registry.Gather()
		Expect(gatherErr).NotTo(HaveOccurred())

		outcomes := map[string]float64{}
		for _, family := range families {
			if family.GetName() != "xmi_import_records_total" {
				continue
			}
			for _, metric := range family.GetMetric() {
				labels := map[string]string{}
				for _, pair := range metric.GetLabel() {
					labels[pair.GetName()] = pair.GetValue()
				}
				if labels["collection"] == xmi.TypeCurveMember {
					outcomes[labels["outcome"]] = metric.GetCounter().GetValue()
				}
			}
		}
		Expect(outcomes).To(Equal(map[string]float64{"decoded": 1, "rejected": 1}))
	})
})

var _ = Describe("ToSyncRequest", func() {
	It("should map entities by xmi id and relationships by name", func() {
		// ARRANGE
		importer := xmiimport.NewImporter(slog.New(slog.NewTextHandler(GinkgoWriter, nil)), 2, nil)
		model, _, err := importer.Import(context.Background(), xmiimport.Document(stubs.NewXmiDocumentStub().WithCurveMembers(2).Get()))
		Expect(err).NotTo(HaveOccurred())

		// ACT
		request, err := xmiimport.ToSyncRequest(model)

		// ASSERT
		Expect(err).NotTo(HaveOccurred())
		Expect(request.Entities).To(HaveLen(1 + 1 + 3 + 2))
		Expect(request.Relationships).To(HaveLen(len(model.Relationships)))

		member := model.CurveMembers[0]
		var memberDTO map[string]any
		for _, entity := range request.Entities {
			if entity.Reference == member.ID() {
				Expect(entity.Type).To(Equal(xmi.TypeCurveMember))
				Expect(entity.Name).To(Equal(member.Name()))
				Expect(json.Unmarshal(entity.Properties, &memberDTO)).To(Succeed())
			}
		}
		Expect(memberDTO).To(HaveKeyWithValue("CrossSection", member.CrossSection().ID()))

		Expect(request.Relationships).To(ContainElement(SatisfyAll(
			HaveField("SourceReference", member.ID()),
			HaveField("TargetReference", member.CrossSection().ID()),
			HaveField("RelationshipType", xmi.RelHasCrossSection),
		)))
	})

	It("should keep non-finite numbers out of the stored properties", func() {
		// ARRANGE
		doc := xmiimport.Document(stubs.NewXmiDocumentStub().Get())
		doc[xmi.TypeCurveMember][0]["EndNodeXOffset"] = math.NaN()
		doc[xmi.TypeCurveMember][0]["Length"] = math.Inf(1)
		importer := xmiimport.NewImporter(slog.New(slog.NewTextHandler(GinkgoWriter, nil)), 2, nil)

		// ACT
		model, log, err := importer.Import(context.Background(), doc)
		Expect(err).NotTo(HaveOccurred())
		request, err := xmiimport.ToSyncRequest(model)

		// ASSERT
		Expect(err).NotTo(HaveOccurred())
		Expect(model.CurveMembers).To(HaveLen(1))
		Expect(model.CurveMembers[0].EndNodeXOffset()).To(BeZero())
		Expect(model.CurveMembers[0].Length()).To(BeNil())
		Expect(log.Count(xmi.ErrTypeViolation)).To(Equal(2))
		Expect(request.Entities).To(HaveLen(1 + 1 + 2 + 1))
	})
})

var _ = Describe("DecodeDocument", func() {
	It("should read vendor collections from JSON", func() {
		// ACT
		doc, err := xmiimport.DecodeDocument([]byte(`{"StructuralMaterial":[{"ID":"m1","Type":"Steel"}]}`))

		// ASSERT
		Expect(err).NotTo(HaveOccurred())
		Expect(doc.RecordCount()).To(Equal(1))
		Expect(doc[xmi.TypeMaterial][0]).To(HaveKeyWithValue("Type", "Steel"))
	})

	It("should reject malformed JSON", func() {
		_, err := xmiimport.DecodeDocument([]byte(`{"StructuralMaterial":`))
		Expect(err).To(HaveOccurred())
	})
})

var _ = Describe("DecodeYAMLDocument", func() {
	It("should read vendor collections from YAML", func() {
		// ACT
		doc, err := xmiimport.DecodeYAMLDocument([]byte("StructuralPointConnection:\n  - ID: n1\n    Point:\n      X: 1\n      Y: 2\n      Z: 3\n"))

		// ASSERT
		Expect(err).NotTo(HaveOccurred())
		Expect(doc.RecordCount()).To(Equal(1))
		Expect(doc[xmi.TypePointConnection][0]["Point"]).To(HaveKeyWithValue("X", 1))
	})

	It("should decode .nan as a float", func() {
		// ACT
		doc, err := xmiimport.DecodeYAMLDocument([]byte("StructuralCurveMember:\n  - ID: b1\n    EndNodeXOffset: .nan\n"))

		// ASSERT
		Expect(err).NotTo(HaveOccurred())
		offset, ok := doc[xmi.TypeCurveMember][0]["EndNodeXOffset"].(float64)
		Expect(ok).To(BeTrue())
		Expect(math.IsNaN(offset)).To(BeTrue())
	})

	It("should reject malformed YAML", func() {
		_, err := xmiimport.DecodeYAMLDocument([]byte("StructuralMaterial: [ID: m1"))
		Expect(err).To(HaveOccurred())
	})
})

var _ = Describe("DecoderFor", func() {
	yamlBody := []byte("StructuralMaterial:\n  - ID: m1\n    Type: Steel\n")

	DescribeTable("should read YAML media types as YAML",
		func(contentType string) {
			doc, err := xmiimport.DecoderFor(contentType)(yamlBody)
			Expect(err).NotTo(HaveOccurred())
			Expect(doc.RecordCount()).To(Equal(1))
		},
		Entry("application/yaml", "application/yaml"),
		Entry("application/x-yaml with charset", "application/x-yaml; charset=utf-8"),
		Entry("text/yaml", "text/yaml"),
		Entry("mixed case", "Application/YAML"),
	)

	DescribeTable("should read everything else as JSON",
		func(contentType string) {
			_, err := xmiimport.DecoderFor(contentType)(yamlBody)
			Expect(err).To(HaveOccurred())
		},
		Entry("no header", ""),
		Entry("application/json", "application/json"),
		Entry("malformed", ";;"),
	)
})
