package stubs

import (
	"encoding/json"
	"time"

	"github.com/brianvoe/gofakeit/v6"

	"xmimodel/src/domain/entities"
	"xmimodel/src/domain/xmi"
)

// EntityStub builds a persisted graph row for a point connection.
type EntityStub struct {
	entity entities.Entity
}

func NewEntityStub() EntityStub {
	now := time.Now().UTC()
	reference := gofakeit.UUID()
	name := "N" + gofakeit.DigitN(4)

	properties, _ := json.Marshal(map[string]any{
		"ID":     reference,
		"Name":   name,
		"Point":  randomPoint().String(),
		"Storey": "L" + gofakeit.DigitN(1),
	})

	return EntityStub{entity: entities.Entity{
		ID:         gofakeit.Int64(),
		Type:       xmi.TypePointConnection,
		Reference:  reference,
		Name:       name,
		Properties: properties,
		CreatedAt:  now,
		UpdatedAt:  now,
	}}
}

func (es EntityStub) WithType(entityType string) EntityStub {
	es.entity.Type = entityType
	return es
}

func (es EntityStub) WithReference(reference string) EntityStub {
	es.entity.Reference = reference
	return es
}

func (es EntityStub) WithProperties(properties map[string]any) EntityStub {
	es.entity.Properties, _ = json.Marshal(properties)
	return es
}

func (es EntityStub) Get() entities.Entity {
	return es.entity
}
