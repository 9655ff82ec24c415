package stubs

import (
	"time"

	"github.com/brianvoe/gofakeit/v6"

	"xmimodel/src/domain/entities"
	"xmimodel/src/domain/xmi"
)

type EdgeStub struct {
	edge entities.Edge
}

func NewEdgeStub() EdgeStub {
	now := time.Now().UTC()
	return EdgeStub{edge: entities.Edge{
		ID:               gofakeit.Int64(),
		LeftEntityID:     gofakeit.Int64(),
		RightEntityID:    gofakeit.Int64(),
		RelationshipType: xmi.RelHasPointConnection,
		CreatedAt:        now,
		UpdatedAt:        now,
	}}
}

func (es EdgeStub) WithLeftEntityID(leftEntityID int64) EdgeStub {
	es.edge.LeftEntityID = leftEntityID
	return es
}

func (es EdgeStub) WithRightEntityID(rightEntityID int64) EdgeStub {
	es.edge.RightEntityID = rightEntityID
	return es
}

func (es EdgeStub) WithRelationshipType(relationshipType string) EdgeStub {
	es.edge.RelationshipType = relationshipType
	return es
}

func (es EdgeStub) Get() entities.Edge {
	return es.edge
}
