package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strconv"

	"xmimodel/src/domain"
)

const (
	defaultDepthLimit = 5
	maxDepthLimit     = 20
	maxBatchSize      = 100
)

func parseDepthLimit(raw string) (int, error) {
	if raw == "" {
		return defaultDepthLimit, nil
	}
	depthLimit, err := strconv.Atoi(raw)
	if err != nil {
		return 0, errors.New("Invalid depthLimit format")
	}
	if depthLimit < 0 || depthLimit > maxDepthLimit {
		return 0, fmt.Errorf("depthLimit must be between 0 and %d", maxDepthLimit)
	}
	return depthLimit, nil
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.Printf("ERROR: Failed to write JSON response: %v", err)
	}
}

func (s *Server) GetGraphByReference(w http.ResponseWriter, r *http.Request) {
	reference := r.PathValue("reference")
	if reference == "" {
		http.Error(w, "reference is required", http.StatusBadRequest)
		return
	}

	depthLimit, err := parseDepthLimit(r.URL.Query().Get("depthLimit"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	entityTree, err := s.graphService.GetTreeByReference(r.Context(), reference, depthLimit)
	if err != nil {
		if errors.Is(err, domain.ErrEntityNotFound) {
			http.Error(w, err.Error(), http.StatusNotFound)
			return
		}

		s.logger.Error("Failed to get entity tree", "reference", reference, "error", err)
		http.Error(w, domain.ErrUnavailableServer.Error(), http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, MapDomainToResponse(entityTree))
}

func (s *Server) GetGraphsByProperty(w http.ResponseWriter, r *http.Request) {
	prop := r.PathValue("prop")
	value := r.PathValue("value")
	if prop == "" || value == "" {
		http.Error(w, "prop and value are required", http.StatusBadRequest)
		return
	}

	depthLimit, err := parseDepthLimit(r.URL.Query().Get("depthLimit"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	entityTrees, err := s.graphService.GetTreesByProperty(r.Context(), prop, value, depthLimit)
	if err != nil {
		if errors.Is(err, domain.ErrEntityNotFound) {
			http.Error(w, err.Error(), http.StatusNotFound)
			return
		}

		s.logger.Error("Failed to get entity trees by property", "prop", prop, "value", value, "error", err)
		http.Error(w, domain.ErrUnavailableServer.Error(), http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, mapTrees(entityTrees))
}

func (s *Server) GetGraphsByReferences(w http.ResponseWriter, r *http.Request) {
	var request BatchGraphRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		http.Error(w, "Invalid JSON payload", http.StatusBadRequest)
		return
	}

	if len(request.References) == 0 {
		http.Error(w, "references is required and cannot be empty", http.StatusBadRequest)
		return
	}

	if len(request.References) > maxBatchSize {
		http.Error(w, fmt.Sprintf("maximum %d references allowed per request", maxBatchSize), http.StatusBadRequest)
		return
	}

	depthLimit := defaultDepthLimit
	if request.DepthLimit != nil {
		depthLimit = *request.DepthLimit
	}
	if depthLimit < 0 || depthLimit > maxDepthLimit {
		http.Error(w, fmt.Sprintf("depth_limit must be between 0 and %d", maxDepthLimit), http.StatusBadRequest)
		return
	}

	trees, err := s.graphService.GetTreesByReferences(r.Context(), request.References, depthLimit)
	if err != nil {
		s.logger.Error("Failed to get entity trees", "count", len(request.References), "error", err)
		http.Error(w, domain.ErrUnavailableServer.Error(), http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, mapTrees(trees))
}
