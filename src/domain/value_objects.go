package domain

import (
	"encoding/json"
	"errors"
	"time"

	"xmimodel/src/domain/entities"
)

var (
	ErrEntityNotFound = errors.New("entity not found")

	ErrUnavailableServer = errors.New("Oops, something unexpected happened. Please try again later.")
)

// ############################################################
// ################## GRAPH READ PATH #########################
// ############################################################

// GraphNode is one row of a tree query: the entity plus the edges that reached it.
type GraphNode struct {
	entities.Entity
	ParentsInfo []ParentInfo `json:"parents_info,omitempty"`
}

type ParentInfo struct {
	ParentID int64  `json:"parent_id"`
	Type     string `json:"type"`
}

type NodeTree struct {
	entities.Entity

	Edges []*ModelEdge
}

// ModelEdge points at another NodeTree, named after the xmi relationship.
type ModelEdge struct {
	Type   string
	Entity *NodeTree
}

// ############################################################
// ################## GRAPH WRITE PATH ########################
// ############################################################

// SyncEntityDTO is one xmi entity to upsert. Type is the vendor collection name and
// Reference the xmi id.
type SyncEntityDTO struct {
	Reference  string
	Type       string
	Name       string
	Properties json.RawMessage
}

type SyncRelationshipDTO struct {
	SourceReference  string
	TargetReference  string
	RelationshipType string
}

type SyncGraphRequest struct {
	Entities      []SyncEntityDTO
	Relationships []SyncRelationshipDTO
}

// ############################################################
// ###################### EVENTS ##############################
// ############################################################

const (
	EventEntityImported       = "xmi.entity.imported"
	EventRelationshipImported = "xmi.relationship.imported"
)

// DomainEvent is published once per persisted entity or relationship.
type DomainEvent struct {
	EventID    string          `json:"event_id"`
	EventType  string          `json:"event_type"`
	EntityType string          `json:"entity_type"`
	Reference  string          `json:"reference"`
	Payload    json.RawMessage `json:"payload,omitempty"`
	OccurredAt time.Time       `json:"occurred_at"`
}
