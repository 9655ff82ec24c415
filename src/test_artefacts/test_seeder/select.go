package test_seeder

import (
	"context"

	"github.com/jackc/pgx/v5"

	"xmimodel/src/domain/entities"
)

func (ts TestSeeder) SelectEntitiesByReferences(ctx context.Context, references []string) ([]entities.Entity, error) {
	rows, err := ts.pool.Query(ctx, `
		SELECT id, type, reference, COALESCE(name, ''), properties, created_at, updated_at
		FROM entities WHERE reference = ANY($1) ORDER BY id`, references)
	if err != nil {
		return nil, err
	}

	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (entities.Entity, error) {
		var e entities.Entity
		err := row.Scan(&e.ID, &e.Type, &e.Reference, &e.Name, &e.Properties, &e.CreatedAt, &e.UpdatedAt)
		return e, err
	})
}

// SelectEdgesByEntityReferences returns every edge touching one of the entities.
func (ts TestSeeder) SelectEdgesByEntityReferences(ctx context.Context, references []string) ([]entities.Edge, error) {
	rows, err := ts.pool.Query(ctx, `
		SELECT DISTINCT e.id, e.left_entity_id, e.right_entity_id, e.relationship_type, e.metadata, e.created_at, e.updated_at
		FROM edges e
		JOIN entities ent ON e.left_entity_id = ent.id OR e.right_entity_id = ent.id
		WHERE ent.reference = ANY($1)
		ORDER BY e.id`, references)
	if err != nil {
		return nil, err
	}

	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (entities.Edge, error) {
		var e entities.Edge
		err := row.Scan(&e.ID, &e.LeftEntityID, &e.RightEntityID, &e.RelationshipType, &e.Metadata, &e.CreatedAt, &e.UpdatedAt)
		return e, err
	})
}
