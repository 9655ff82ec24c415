package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	httpadapter "xmimodel/src/adapters/http"
	"xmimodel/src/domain"
	"xmimodel/src/domain/xmi"
	"xmimodel/src/repositories"
	"xmimodel/src/services/graph"
	"xmimodel/src/services/xmiimport"
	"xmimodel/src/test_artefacts/stubs"
)

type stubReader struct {
	nodes      []domain.GraphNode
	err        error
	depthLimit int
}

func (r *stubReader) QueryTree(_ context.Context, _ repositories.FindCondition, depthLimit int) ([]domain.GraphNode, error) {
	r.depthLimit = depthLimit
	return r.nodes, r.err
}

type recordingWriter struct {
	requests []domain.SyncGraphRequest
	err      error
}

func (w *recordingWriter) SyncGraph(_ context.Context, request domain.SyncGraphRequest) error {
	w.requests = append(w.requests, request)
	return w.err
}

type recordingPublisher struct {
	published int
	err       error
}

func (p *recordingPublisher) PublishSync(context.Context, domain.SyncGraphRequest) error {
	p.published++
	return p.err
}

var _ = Describe("Server", func() {
	var (
		reader    *stubReader
		writer    *recordingWriter
		publisher *recordingPublisher
		handler   http.Handler
	)

	BeforeEach(func() {
		reader = &stubReader{}
		writer = &recordingWriter{}
		publisher = &recordingPublisher{}

		logger := slog.New(slog.NewTextHandler(GinkgoWriter, nil))
		registry := prometheus.NewRegistry()
		importer := xmiimport.NewImporter(logger, 2, xmiimport.NewMetrics(registry))
		graphService := graph.NewGraphService(reader, writer)
		handler = httpadapter.NewServer(logger, 0, graphService, importer, publisher,
			promhttp.HandlerFor(registry, promhttp.HandlerOpts{})).Handler()
	})

	serve := func(req *http.Request) *httptest.ResponseRecorder {
		recorder := httptest.NewRecorder()
		handler.ServeHTTP(recorder, req)
		return recorder
	}

	Describe("POST /v1/xmi/import", func() {
		It("should import, sync and publish a consistent document", func() {
			// ARRANGE
			body, _ := json.Marshal(stubs.NewXmiDocumentStub().WithCurveMembers(2).Get())

			// ACT
			res := serve(httptest.NewRequest(http.MethodPost, "/v1/xmi/import", bytes.NewReader(body)))

			// ASSERT
			Expect(res.Code).To(Equal(http.StatusOK))

			var response httpadapter.ImportResponse
			Expect(json.Unmarshal(res.Body.Bytes(), &response)).To(Succeed())
			Expect(response.Counts).To(HaveKeyWithValue(xmi.TypeCurveMember, 2))
			Expect(response.Errors).To(BeEmpty())
			Expect(response.Synced).To(BeTrue())
			Expect(response.EventsPublished).To(BeTrue())
			Expect(writer.requests).To(HaveLen(1))
			Expect(publisher.published).To(Equal(1))
		})

		It("should accept YAML", func() {
			// ARRANGE
			body := "StructuralMaterial:\n  - ID: m1\n    Name: S355\n    Type: Steel\n"
			req := httptest.NewRequest(http.MethodPost, "/v1/xmi/import?dryRun=true", bytes.NewBufferString(body))
			req.Header.Set("Content-Type", "application/yaml")

			// ACT
			res := serve(req)

			// ASSERT
			Expect(res.Code).To(Equal(http.StatusOK))
			Expect(res.Body.String()).To(ContainSubstring(`"StructuralMaterial":1`))
			Expect(writer.requests).To(BeEmpty())
		})

		It("should report record errors without failing the request", func() {
			// ARRANGE
			doc := stubs.NewXmiDocumentStub().
				WithRecord(xmi.TypeCrossSection, xmi.Dict{"ID": "cs-x", "Material": "ghost", "Shape": "I"}).
				Get()
			body, _ := json.Marshal(doc)

			// ACT
			res := serve(httptest.NewRequest(http.MethodPost, "/v1/xmi/import", bytes.NewReader(body)))

			// ASSERT
			Expect(res.Code).To(Equal(http.StatusOK))
			var response httpadapter.ImportResponse
			Expect(json.Unmarshal(res.Body.Bytes(), &response)).To(Succeed())
			Expect(response.Errors).NotTo(BeEmpty())
			Expect(response.Counts).To(HaveKeyWithValue(xmi.TypeCrossSection, 1))
		})

		It("should reject a document where nothing decodes", func() {
			// ACT
			res := serve(httptest.NewRequest(http.MethodPost, "/v1/xmi/import", bytes.NewBufferString(`{}`)))

			// ASSERT
			Expect(res.Code).To(Equal(http.StatusUnprocessableEntity))
			Expect(writer.requests).To(BeEmpty())
		})

		It("should reject malformed JSON", func() {
			// ACT
			res := serve(httptest.NewRequest(http.MethodPost, "/v1/xmi/import", bytes.NewBufferString(`{"StructuralMaterial":`)))

			// ASSERT
			Expect(res.Code).To(Equal(http.StatusBadRequest))
		})

		It("should still succeed when publishing fails", func() {
			// ARRANGE
			publisher.err = errors.New("broker down")
			body, _ := json.Marshal(stubs.NewXmiDocumentStub().Get())

			// ACT
			res := serve(httptest.NewRequest(http.MethodPost, "/v1/xmi/import", bytes.NewReader(body)))

			// ASSERT
			Expect(res.Code).To(Equal(http.StatusOK))
			Expect(res.Body.String()).To(ContainSubstring(`"events_published":false`))
		})
	})

	Describe("GET /v1/graph/{reference}", func() {
		It("should return the tree", func() {
			// ARRANGE
			member := stubs.NewEntityStub().WithType(xmi.TypeCurveMember).WithReference("b1").Get()
			reader.nodes = []domain.GraphNode{{Entity: member}}

			// ACT
			res := serve(httptest.NewRequest(http.MethodGet, "/v1/graph/b1?depthLimit=2", nil))

			// ASSERT
			Expect(res.Code).To(Equal(http.StatusOK))
			Expect(reader.depthLimit).To(Equal(2))

			var tree httpadapter.NodeTreeDTO
			Expect(json.Unmarshal(res.Body.Bytes(), &tree)).To(Succeed())
			Expect(tree.Reference).To(Equal("b1"))
			Expect(tree.Type).To(Equal(xmi.TypeCurveMember))
		})

		It("should return 404 for an unknown reference", func() {
			// ARRANGE
			reader.err = domain.ErrEntityNotFound

			// ACT
			res := serve(httptest.NewRequest(http.MethodGet, "/v1/graph/unknown", nil))

			// ASSERT
			Expect(res.Code).To(Equal(http.StatusNotFound))
		})

		DescribeTable("should reject a bad depthLimit",
			func(depthLimit string) {
				res := serve(httptest.NewRequest(http.MethodGet, "/v1/graph/b1?depthLimit="+depthLimit, nil))
				Expect(res.Code).To(Equal(http.StatusBadRequest))
			},
			Entry("not a number", "deep"),
			Entry("negative", "-1"),
			Entry("too deep", "21"),
		)

		It("should hide internal errors", func() {
			// ARRANGE
			reader.err = errors.New("connection reset")

			// ACT
			res := serve(httptest.NewRequest(http.MethodGet, "/v1/graph/b1", nil))

			// ASSERT
			Expect(res.Code).To(Equal(http.StatusInternalServerError))
			Expect(res.Body.String()).NotTo(ContainSubstring("connection reset"))
		})
	})

	Describe("POST /v1/graph/batch", func() {
		It("should return the known trees", func() {
			// ARRANGE
			reader.nodes = []domain.GraphNode{{Entity: stubs.NewEntityStub().WithReference("n1").Get()}}

			// ACT
			res := serve(httptest.NewRequest(http.MethodPost, "/v1/graph/batch",
				bytes.NewBufferString(`{"references":["n1","n2"],"depth_limit":1}`)))

			// ASSERT
			Expect(res.Code).To(Equal(http.StatusOK))
			var trees []httpadapter.NodeTreeDTO
			Expect(json.Unmarshal(res.Body.Bytes(), &trees)).To(Succeed())
			Expect(trees).To(HaveLen(1))
		})

		It("should require references", func() {
			// ACT
			res := serve(httptest.NewRequest(http.MethodPost, "/v1/graph/batch", bytes.NewBufferString(`{"references":[]}`)))

			// ASSERT
			Expect(res.Code).To(Equal(http.StatusBadRequest))
		})
	})

	Describe("POST /v1/graph/sync", func() {
		It("should reject an empty request", func() {
			// ACT
			res := serve(httptest.NewRequest(http.MethodPost, "/v1/graph/sync", bytes.NewBufferString(`{}`)))

			// ASSERT
			Expect(res.Code).To(Equal(http.StatusBadRequest))
		})
	})

	Describe("GET /metrics", func() {
		It("should expose the import metrics", func() {
			// ARRANGE
			body, _ := json.Marshal(stubs.NewXmiDocumentStub().Get())
			serve(httptest.NewRequest(http.MethodPost, "/v1/xmi/import", bytes.NewReader(body)))

			// ACT
			res := serve(httptest.NewRequest(http.MethodGet, "/metrics", nil))

			// ASSERT
			Expect(res.Code).To(Equal(http.StatusOK))
			Expect(res.Body.String()).To(ContainSubstring("xmi_import_records_total"))
		})
	})
})
