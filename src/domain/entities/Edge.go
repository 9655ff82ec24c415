package entities

import (
	"encoding/json"
	"time"
)

// Edge is a directed xmi relationship, left being the source.
type Edge struct {
	ID               int64           `json:"id"`
	LeftEntityID     int64           `json:"left_entity_id"`
	RightEntityID    int64           `json:"right_entity_id"`
	RelationshipType string          `json:"relationship_type"`
	Metadata         json.RawMessage `json:"metadata,omitempty"`
	CreatedAt        time.Time       `json:"created_at"`
	UpdatedAt        time.Time       `json:"updated_at"`
}
