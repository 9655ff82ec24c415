package graph

import (
	"context"
	"errors"
	"fmt"

	"xmimodel/src/domain"
	"xmimodel/src/repositories"
)

// GetTreeByReference returns the entity with the given xmi id and everything it points at.
func (gs *GraphService) GetTreeByReference(ctx context.Context, reference string, depthLimit int) (*domain.NodeTree, error) {
	condition := repositories.FindCondition{
		Field:    "reference",
		Operator: repositories.OperatorEquals,
		Value:    reference,
	}

	graphNodes, err := gs.cachedGraphRepository.QueryTree(ctx, condition, depthLimit)
	if err != nil {
		return nil, fmt.Errorf("GraphService.GetTreeByReference - failed to QueryTree from repository: %w", err)
	}

	_, trees := buildNodeTrees(graphNodes, []string{reference})
	if len(trees) == 0 {
		return nil, fmt.Errorf("GraphService.GetTreeByReference - root node (%s) could not be found after assembly: %w", reference, domain.ErrEntityNotFound)
	}

	return trees[0], nil
}

// GetTreesByReferences is the batch form of GetTreeByReference. Unknown references are
// left out.
func (gs *GraphService) GetTreesByReferences(ctx context.Context, references []string, depthLimit int) ([]*domain.NodeTree, error) {
	if len(references) == 0 {
		return []*domain.NodeTree{}, nil
	}

	condition := repositories.FindCondition{
		Field:    "reference",
		Operator: repositories.OperatorAny,
		Value:    references,
	}

	graphNodes, err := gs.cachedGraphRepository.QueryTree(ctx, condition, depthLimit)
	if errors.Is(err, domain.ErrEntityNotFound) {
		return []*domain.NodeTree{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("GraphService.GetTreesByReferences - failed to QueryTree from repository: %w", err)
	}

	_, trees := buildNodeTrees(graphNodes, references)
	return trees, nil
}

// GetTreesByProperty finds entities whose vendor mapping holds prop = value, such as every
// member on a storey, and returns the trees rooted at them.
func (gs *GraphService) GetTreesByProperty(ctx context.Context, prop string, value string, depthLimit int) ([]*domain.NodeTree, error) {
	condition := repositories.FindCondition{
		Field:    prop,
		Operator: repositories.OperatorContains,
		Value:    value,
	}

	graphNodes, err := gs.cachedGraphRepository.QueryTree(ctx, condition, depthLimit)
	if err != nil {
		return nil, fmt.Errorf("GraphService.GetTreesByProperty - failed to QueryTree from repository: %w", err)
	}

	roots, _ := buildNodeTrees(graphNodes, nil)
	if len(roots) == 0 {
		return nil, fmt.Errorf("GraphService.GetTreesByProperty - no entities found for property %s = %s: %w", prop, value, domain.ErrEntityNotFound)
	}

	return roots, nil
}
