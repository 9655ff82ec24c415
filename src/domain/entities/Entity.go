package entities

import (
	"encoding/json"
	"time"
)

// Entity is a graph node: one imported xmi entity keyed by (type, reference).
type Entity struct {
	ID        int64  `json:"id"`
	Type      string `json:"type"`
	Reference string `json:"reference"`
	Name      string `json:"name,omitempty"`
	// Vendor mapping of the entity, references as ids.
	Properties json.RawMessage `json:"properties,omitempty"`
	CreatedAt  time.Time       `json:"created_at"`
	UpdatedAt  time.Time       `json:"updated_at"`
}
