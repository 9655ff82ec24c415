package repositories

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"github.com/jackc/pgx/v5/pgxpool"

	"xmimodel/src/domain"
	"xmimodel/src/domain/entities"
	"xmimodel/src/infra/postgres"
)

const (
	OperatorEquals   = "="
	OperatorAny      = "= ANY"
	OperatorContains = "@>"
)

// FindCondition selects the root entities of a tree query.
type FindCondition struct {
	Field    string // column, or a dotted property path for OperatorContains
	Operator string
	Value    any
}

var queryableColumns = map[string]bool{"id": true, "reference": true, "type": true, "name": true}

// where renders the root predicate. Only known columns are interpolated.
func (c FindCondition) where() (string, any, error) {
	switch c.Operator {
	case OperatorContains:
		search, err := postgres.BuildSearchJSON(c.Field, c.Value)
		if err != nil {
			return "", nil, err
		}
		return "properties @> $1::jsonb", search, nil
	case OperatorEquals:
		if !queryableColumns[c.Field] {
			return "", nil, fmt.Errorf("unsupported column %q", c.Field)
		}
		return c.Field + " = $1", c.Value, nil
	case OperatorAny:
		if !queryableColumns[c.Field] {
			return "", nil, fmt.Errorf("unsupported column %q", c.Field)
		}
		return c.Field + " = ANY($1)", c.Value, nil
	default:
		return "", nil, fmt.Errorf("unsupported operator %q", c.Operator)
	}
}

type GraphQueryRepository struct {
	pool *pgxpool.Pool
}

func NewGraphQueryRepository(pool *pgxpool.Pool) *GraphQueryRepository {
	return &GraphQueryRepository{pool: pool}
}

const treeQuery = `
	WITH RECURSIVE entity_graph (entity_id, parent_id, relationship_type, depth) AS (
		SELECT
			id,
			NULL::BIGINT,
			NULL::TEXT,
			0
		FROM
			entities
		WHERE
			%s

		UNION ALL

		SELECT
			e.right_entity_id,
			e.left_entity_id,
			e.relationship_type,
			eg.depth + 1
		FROM
			edges e
		JOIN
			entity_graph eg ON e.left_entity_id = eg.entity_id
		WHERE
			eg.depth < $2
	),
	entities_relation AS (
		SELECT
			entity_id,
			JSONB_AGG(DISTINCT jsonb_build_object('parent_id', parent_id, 'type', relationship_type)) FILTER (WHERE parent_id IS NOT NULL) AS parents_info
		FROM
			entity_graph
		GROUP BY
			entity_id
	)
	SELECT
		e.id,
		e.type,
		e.reference,
		COALESCE(e.name, ''),
		e.properties,
		e.created_at,
		e.updated_at,
		er.parents_info
	FROM
		entities e
	JOIN
		entities_relation er ON e.id = er.entity_id;
`

// QueryTree returns the root entities and everything reachable from them through outgoing
// relationships, up to depthLimit hops.
func (gqr *GraphQueryRepository) QueryTree(ctx context.Context, condition FindCondition, depthLimit int) ([]domain.GraphNode, error) {
	where, value, err := condition.where()
	if err != nil {
		return nil, fmt.Errorf("GraphQueryRepository.QueryTree - invalid condition: %w", err)
	}

	rows, err := gqr.pool.Query(ctx, fmt.Sprintf(treeQuery, where), value, depthLimit)
	if err != nil {
		return nil, fmt.Errorf("GraphQueryRepository.QueryTree - graph query failed: %w", err)
	}
	defer rows.Close()

	var nodes []domain.GraphNode
	for rows.Next() {
		var node domain.GraphNode
		var parentsInfoRaw json.RawMessage

		if err := rows.Scan(&node.ID, &node.Type, &node.Reference, &node.Name, &node.Properties, &node.CreatedAt, &node.UpdatedAt, &parentsInfoRaw); err != nil {
			return nil, fmt.Errorf("GraphQueryRepository.QueryTree - failed to scan entity data: %w", err)
		}

		if len(parentsInfoRaw) > 0 && string(parentsInfoRaw) != "null" {
			if err := json.Unmarshal(parentsInfoRaw, &node.ParentsInfo); err != nil {
				log.Printf("GraphQueryRepository.QueryTree - [WARN] could not unmarshal parents_info for entity %d: %v", node.ID, err)
			}
		}

		nodes = append(nodes, node)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("GraphQueryRepository.QueryTree - error iterating graph rows: %w", err)
	}

	if len(nodes) == 0 {
		return nil, fmt.Errorf("GraphQueryRepository.QueryTree - entity not found: %w", domain.ErrEntityNotFound)
	}

	return nodes, nil
}

// GetEntityByReference reads a single entity without its relationships.
func (gqr *GraphQueryRepository) GetEntityByReference(ctx context.Context, reference string) (entities.Entity, error) {
	var entity entities.Entity
	err := gqr.pool.QueryRow(ctx, `
		SELECT id, type, reference, COALESCE(name, ''), properties, created_at, updated_at
		FROM entities
		WHERE reference = $1
		ORDER BY id
		LIMIT 1`, reference,
	).Scan(&entity.ID, &entity.Type, &entity.Reference, &entity.Name, &entity.Properties, &entity.CreatedAt, &entity.UpdatedAt)

	if postgres.IsNoRows(err) {
		return entities.Entity{}, fmt.Errorf("GraphQueryRepository.GetEntityByReference - %s: %w", reference, domain.ErrEntityNotFound)
	}
	if err != nil {
		return entities.Entity{}, fmt.Errorf("GraphQueryRepository.GetEntityByReference - query failed: %w", err)
	}
	return entity, nil
}
