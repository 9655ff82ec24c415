package xmiimport

import (
	"encoding/json"
	"fmt"

	"xmimodel/src/domain"
	"xmimodel/src/domain/xmi"
)

type xmiEncoder interface {
	xmi.Entity
	ToXmiDict() xmi.Dict
}

// ToSyncRequest maps a Model onto the graph store: one entity per xmi entity, typed by its
// collection, referenced by its xmi id and carrying its vendor mapping as properties.
func ToSyncRequest(model *Model) (domain.SyncGraphRequest, error) {
	request := domain.SyncGraphRequest{
		Entities:      make([]domain.SyncEntityDTO, 0, len(model.Entities())),
		Relationships: make([]domain.SyncRelationshipDTO, 0, len(model.Relationships)),
	}

	for _, entity := range model.Entities() {
		encoder, ok := entity.(xmiEncoder)
		if !ok {
			return domain.SyncGraphRequest{}, fmt.Errorf("xmiimport.ToSyncRequest - %s has no vendor mapping", entity.EntityType())
		}

		properties, err := json.Marshal(encoder.ToXmiDict())
		if err != nil {
			return domain.SyncGraphRequest{}, fmt.Errorf("xmiimport.ToSyncRequest - failed to marshal %s %s: %w", entity.EntityType(), entity.ID(), err)
		}

		request.Entities = append(request.Entities, domain.SyncEntityDTO{
			Reference:  entity.ID(),
			Type:       entity.EntityType(),
			Name:       entity.Name(),
			Properties: properties,
		})
	}

	for _, rel := range model.Relationships {
		request.Relationships = append(request.Relationships, domain.SyncRelationshipDTO{
			SourceReference:  rel.Source().ID(),
			TargetReference:  rel.Target().ID(),
			RelationshipType: rel.Name(),
		})
	}

	return request, nil
}
