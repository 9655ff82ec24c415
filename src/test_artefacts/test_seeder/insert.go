package test_seeder

import (
	"context"
	"fmt"

	"xmimodel/src/domain/entities"
	"xmimodel/src/infra/postgres"
)

// InsertEntity stores the entity and writes the generated id back into it.
func (ts TestSeeder) InsertEntity(ctx context.Context, entity *entities.Entity) {
	err := ts.pool.QueryRow(ctx, `
		INSERT INTO entities (type, reference, name, properties, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6) RETURNING id`,
		entity.Type,
		entity.Reference,
		postgres.NewNullString(&entity.Name),
		entity.Properties,
		entity.CreatedAt,
		entity.UpdatedAt,
	).Scan(&entity.ID)

	if err != nil {
		panic(fmt.Sprintf("Seeder.InsertEntity failed: %v", err))
	}
}

// InsertEdge stores the edge and writes the generated id back into it.
func (ts TestSeeder) InsertEdge(ctx context.Context, edge *entities.Edge) {
	err := ts.pool.QueryRow(ctx, `
		INSERT INTO edges (left_entity_id, right_entity_id, relationship_type, metadata, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6) RETURNING id`,
		edge.LeftEntityID,
		edge.RightEntityID,
		edge.RelationshipType,
		edge.Metadata,
		edge.CreatedAt,
		edge.UpdatedAt,
	).Scan(&edge.ID)

	if err != nil {
		panic(fmt.Sprintf("Seeder.InsertEdge failed: %v", err))
	}
}
