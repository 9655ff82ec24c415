package graph

import (
	"context"
	"errors"
	"fmt"

	"xmimodel/src/domain"
	"xmimodel/src/services/xmiimport"
)

var ErrEmptySync = errors.New("sync request must contain at least one entity or relationship")

func (gs *GraphService) SyncGraph(ctx context.Context, request domain.SyncGraphRequest) error {
	if len(request.Entities) == 0 && len(request.Relationships) == 0 {
		return ErrEmptySync
	}

	if err := gs.graphWriteRepository.SyncGraph(ctx, request); err != nil {
		return fmt.Errorf("GraphService.SyncGraph - %w", err)
	}
	return nil
}

// SyncModel stores an imported model and returns what was written.
func (gs *GraphService) SyncModel(ctx context.Context, model *xmiimport.Model) (domain.SyncGraphRequest, error) {
	request, err := xmiimport.ToSyncRequest(model)
	if err != nil {
		return domain.SyncGraphRequest{}, fmt.Errorf("GraphService.SyncModel - %w", err)
	}

	if err := gs.SyncGraph(ctx, request); err != nil {
		return domain.SyncGraphRequest{}, err
	}
	return request, nil
}
