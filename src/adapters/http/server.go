package http

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"time"

	"xmimodel/src/domain"
	"xmimodel/src/services/graph"
	"xmimodel/src/services/xmiimport"
)

// EventPublisher announces what an import wrote.
type EventPublisher interface {
	PublishSync(ctx context.Context, request domain.SyncGraphRequest) error
}

type Server struct {
	logger       *slog.Logger
	server       *http.Server
	mux          *http.ServeMux
	port         int
	graphService *graph.GraphService
	importer     *xmiimport.Importer
	publisher    EventPublisher
}

// NewServer wires the routes. publisher and metricsHandler are optional.
func NewServer(
	logger *slog.Logger,
	port int,
	graphService *graph.GraphService,
	importer *xmiimport.Importer,
	publisher EventPublisher,
	metricsHandler http.Handler,
) *Server {
	server := &Server{
		mux:          http.NewServeMux(),
		port:         port,
		logger:       logger,
		graphService: graphService,
		importer:     importer,
		publisher:    publisher,
	}

	server.server = &http.Server{
		Addr:         fmt.Sprintf(":%d", port),
		Handler:      server.mux,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	// reads
	server.mux.HandleFunc("GET /v1/graph/{reference}", server.GetGraphByReference)
	server.mux.HandleFunc("GET /v1/graph/by-property/{prop}/value/{value}", server.GetGraphsByProperty)
	server.mux.HandleFunc("POST /v1/graph/batch", server.GetGraphsByReferences)

	// writes
	server.mux.HandleFunc("POST /v1/xmi/import", server.ImportDocument)
	server.mux.HandleFunc("POST /v1/graph/sync", server.SyncGraph)

	if metricsHandler != nil {
		server.mux.Handle("GET /metrics", metricsHandler)
	}

	return server
}

// Handler exposes the routes without a listener.
func (s *Server) Handler() http.Handler {
	return s.mux
}

func (s *Server) Start() error {
	s.logger.Info("Server started", "port", s.port)

	return s.server.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	log.Println("Shutting down server...")
	if s.server != nil {
		return s.server.Shutdown(ctx)
	}
	return nil
}
