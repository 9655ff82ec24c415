package repositories

import (
	"context"
	"fmt"
	"log"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"xmimodel/src/domain"
	"xmimodel/src/infra/postgres"
)

// CacheInvalidator drops cached trees that contain any of the given entities.
type CacheInvalidator interface {
	InvalidateByEntityIDs(ctx context.Context, entityIDs []int64) error
}

type GraphWriteRepository struct {
	writePool   *pgxpool.Pool
	invalidator CacheInvalidator
}

func NewGraphWriteRepository(writePool *pgxpool.Pool, invalidator CacheInvalidator) *GraphWriteRepository {
	return &GraphWriteRepository{writePool: writePool, invalidator: invalidator}
}

var syncColumns = []string{
	"entity_type", "entity_reference", "entity_name", "entity_properties",
	"source_reference", "target_reference", "relationship_type",
}

// SyncGraph upserts an imported model in one transaction. Entities and relationships are
// copied into a temp table and merged by a single statement. An entity's properties are
// replaced, since every import carries its full vendor mapping.
func (r *GraphWriteRepository) SyncGraph(ctx context.Context, request domain.SyncGraphRequest) error {
	rows := make([][]any, 0, len(request.Entities)+len(request.Relationships))

	for _, entity := range request.Entities {
		name := entity.Name
		rows = append(rows, []any{entity.Type, entity.Reference, postgres.NewNullString(&name), entity.Properties, nil, nil, nil})
	}

	for _, rel := range request.Relationships {
		rows = append(rows, []any{nil, nil, nil, nil, rel.SourceReference, rel.TargetReference, rel.RelationshipType})
	}

	if len(rows) == 0 {
		return nil
	}

	tx, err := r.writePool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("GraphWriteRepository.SyncGraph - failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	_, err = tx.Exec(ctx, `CREATE TEMP TABLE temp_sync_data (
		entity_type TEXT, entity_reference TEXT, entity_name TEXT, entity_properties JSONB,
		source_reference TEXT, target_reference TEXT, relationship_type TEXT
	) ON COMMIT DROP;`)
	if err != nil {
		return fmt.Errorf("GraphWriteRepository.SyncGraph - failed to create temp table: %w", err)
	}

	_, err = tx.CopyFrom(ctx, pgx.Identifier{"temp_sync_data"}, syncColumns, pgx.CopyFromRows(rows))
	if err != nil {
		return fmt.Errorf("GraphWriteRepository.SyncGraph - failed to copy rows: %w", err)
	}

	query := `
		WITH
		upserted_entities AS (
			INSERT INTO
				entities (type, reference, name, properties)
			SELECT DISTINCT ON (entity_type, entity_reference)
				entity_type, entity_reference, entity_name, entity_properties
			FROM
				temp_sync_data
			WHERE
				entity_reference IS NOT NULL
			ON CONFLICT (type, reference) DO UPDATE SET
				name = excluded.name,
				properties = excluded.properties,
				updated_at = NOW()
			WHERE
				entities.properties IS DISTINCT FROM excluded.properties
				OR entities.name IS DISTINCT FROM excluded.name
			RETURNING
				id,
				reference
		),
		all_references AS (
			SELECT entity_reference AS ref FROM temp_sync_data WHERE entity_reference IS NOT NULL
			UNION
			SELECT source_reference AS ref FROM temp_sync_data WHERE source_reference IS NOT NULL
			UNION
			SELECT target_reference AS ref FROM temp_sync_data WHERE target_reference IS NOT NULL
		),
		entity_ids AS (
			SELECT id, reference FROM upserted_entities
			UNION
			SELECT e.id, e.reference FROM entities e JOIN all_references ar ON e.reference = ar.ref
		),
		edges_to_create AS (
			SELECT DISTINCT
				src_id.id AS left_entity_id,
				tgt_id.id AS right_entity_id,
				tsd.relationship_type
			FROM
				temp_sync_data tsd
			JOIN
				entity_ids src_id ON tsd.source_reference = src_id.reference
			JOIN
				entity_ids tgt_id ON tsd.target_reference = tgt_id.reference
			WHERE
				tsd.relationship_type IS NOT NULL
		),
		inserted_edges AS (
			INSERT INTO
				edges (left_entity_id, right_entity_id, relationship_type)
			SELECT
				left_entity_id, right_entity_id, relationship_type
			FROM
				edges_to_create
			ON CONFLICT (left_entity_id, right_entity_id, relationship_type) DO NOTHING
		)

		SELECT DISTINCT id FROM entity_ids;
	`

	idRows, err := tx.Query(ctx, query)
	if err != nil {
		return fmt.Errorf("GraphWriteRepository.SyncGraph - sync query failed: %w", err)
	}

	affectedIDs, err := pgx.CollectRows(idRows, pgx.RowTo[int64])
	if err != nil {
		return fmt.Errorf("GraphWriteRepository.SyncGraph - failed to scan entity ids: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("GraphWriteRepository.SyncGraph - commit failed: %w", err)
	}

	if r.invalidator != nil && len(affectedIDs) > 0 {
		go func() {
			if invalidateErr := r.invalidator.InvalidateByEntityIDs(context.Background(), affectedIDs); invalidateErr != nil {
				log.Printf("Failed to invalidate cache: %v", invalidateErr)
			}
		}()
	}

	return nil
}
