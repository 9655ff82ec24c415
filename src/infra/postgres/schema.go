package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Schema is the graph store: one row per imported xmi entity and one per relationship.
const Schema = `
CREATE TABLE IF NOT EXISTS entities (
	id          BIGSERIAL PRIMARY KEY,
	type        TEXT        NOT NULL,
	reference   TEXT        NOT NULL,
	name        TEXT,
	properties  JSONB       NOT NULL DEFAULT '{}'::jsonb,
	created_at  TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	updated_at  TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	UNIQUE (type, reference)
);

CREATE INDEX IF NOT EXISTS entities_reference_idx ON entities (reference);
CREATE INDEX IF NOT EXISTS entities_properties_idx ON entities USING GIN (properties jsonb_path_ops);

CREATE TABLE IF NOT EXISTS edges (
	id                BIGSERIAL PRIMARY KEY,
	left_entity_id    BIGINT      NOT NULL REFERENCES entities (id) ON DELETE CASCADE,
	right_entity_id   BIGINT      NOT NULL REFERENCES entities (id) ON DELETE CASCADE,
	relationship_type TEXT        NOT NULL,
	metadata          JSONB,
	created_at        TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	updated_at        TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	UNIQUE (left_entity_id, right_entity_id, relationship_type)
);
`

func EnsureSchema(ctx context.Context, pool *pgxpool.Pool) error {
	if _, err := pool.Exec(ctx, Schema); err != nil {
		return fmt.Errorf("failed to apply schema: %w", err)
	}
	return nil
}
