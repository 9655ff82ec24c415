package http

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"xmimodel/src/domain"
	"xmimodel/src/services/graph"
	"xmimodel/src/services/xmiimport"
)

const maxDocumentBytes = 32 << 20

// ImportDocument decodes a vendor document, stores what decoded and reports the rest.
// With dryRun=true nothing is stored.
func (s *Server) ImportDocument(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxDocumentBytes))
	if err != nil {
		http.Error(w, "Invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}

	doc, err := xmiimport.DecoderFor(r.Header.Get("Content-Type"))(body)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	model, errs, err := s.importer.Import(r.Context(), doc)
	if err != nil {
		s.logger.Warn("Import interrupted", "error", err)
		http.Error(w, domain.ErrUnavailableServer.Error(), http.StatusServiceUnavailable)
		return
	}

	response := ImportResponse{Counts: model.Counts(), Errors: errs.Strings()}
	if response.Errors == nil {
		response.Errors = []string{}
	}

	if r.URL.Query().Get("dryRun") == "true" {
		writeJSON(w, http.StatusOK, response)
		return
	}

	request, err := s.graphService.SyncModel(r.Context(), model)
	if errors.Is(err, graph.ErrEmptySync) {
		writeJSON(w, http.StatusUnprocessableEntity, response)
		return
	}
	if err != nil {
		s.logger.Error("Failed to sync imported model", "error", err)
		http.Error(w, domain.ErrUnavailableServer.Error(), http.StatusInternalServerError)
		return
	}
	response.Synced = true

	if s.publisher != nil {
		if err := s.publisher.PublishSync(r.Context(), request); err != nil {
			s.logger.Error("Failed to publish import events", "error", err)
		} else {
			response.EventsPublished = true
		}
	}

	writeJSON(w, http.StatusOK, response)
}

func (s *Server) SyncGraph(w http.ResponseWriter, r *http.Request) {
	var request domain.SyncGraphRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		http.Error(w, "Invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}

	err := s.graphService.SyncGraph(r.Context(), request)
	if errors.Is(err, graph.ErrEmptySync) {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if err != nil {
		s.logger.Error("Failed to sync graph", "error", err)
		http.Error(w, domain.ErrUnavailableServer.Error(), http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusAccepted, map[string]string{"status": "sync request accepted"})
}
