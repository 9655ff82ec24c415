package http

import (
	"encoding/json"
	"time"

	"xmimodel/src/domain"
)

type NodeTreeDTO struct {
	ID         int64           `json:"id"`
	Type       string          `json:"type"`
	Reference  string          `json:"reference"`
	Name       string          `json:"name,omitempty"`
	Properties json.RawMessage `json:"properties"`
	CreatedAt  time.Time       `json:"created_at"`
	UpdatedAt  time.Time       `json:"updated_at"`

	Edges []*NodeTreeEdgeDTO `json:"edges"`
}

type NodeTreeEdgeDTO struct {
	Type   string       `json:"type"`
	Entity *NodeTreeDTO `json:"entity"`
}

type BatchGraphRequest struct {
	References []string `json:"references"`
	DepthLimit *int     `json:"depth_limit,omitempty"`
}

type ImportResponse struct {
	Counts          map[string]int `json:"counts"`
	Errors          []string       `json:"errors"`
	Synced          bool           `json:"synced"`
	EventsPublished bool           `json:"events_published"`
}

func MapDomainToResponse(node *domain.NodeTree) *NodeTreeDTO {
	if node == nil {
		return nil
	}

	nodeTreeDTO := &NodeTreeDTO{
		ID:         node.ID,
		Type:       node.Type,
		Reference:  node.Reference,
		Name:       node.Name,
		Properties: node.Properties,
		CreatedAt:  node.CreatedAt,
		UpdatedAt:  node.UpdatedAt,
		Edges:      make([]*NodeTreeEdgeDTO, 0, len(node.Edges)),
	}

	for _, domainEdge := range node.Edges {
		nodeTreeDTO.Edges = append(nodeTreeDTO.Edges, &NodeTreeEdgeDTO{
			Type:   domainEdge.Type,
			Entity: MapDomainToResponse(domainEdge.Entity),
		})
	}

	return nodeTreeDTO
}

func mapTrees(trees []*domain.NodeTree) []*NodeTreeDTO {
	response := make([]*NodeTreeDTO, 0, len(trees))
	for _, tree := range trees {
		response = append(response, MapDomainToResponse(tree))
	}
	return response
}
