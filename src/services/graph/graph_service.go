package graph

import (
	"context"

	"xmimodel/src/domain"
	"xmimodel/src/repositories"
)

type TreeReader interface {
	QueryTree(ctx context.Context, condition repositories.FindCondition, depthLimit int) ([]domain.GraphNode, error)
}

type GraphWriter interface {
	SyncGraph(ctx context.Context, request domain.SyncGraphRequest) error
}

// GraphService stores imported models as a graph and reads them back as trees.
type GraphService struct {
	cachedGraphRepository TreeReader
	graphWriteRepository  GraphWriter
}

func NewGraphService(cachedGraphRepository TreeReader, graphWriteRepository GraphWriter) *GraphService {
	return &GraphService{
		cachedGraphRepository: cachedGraphRepository,
		graphWriteRepository:  graphWriteRepository,
	}
}

// buildNodeTrees links the flat rows of a tree query. It returns the natural roots (rows
// without a parent in the result) and the trees of the requested references, in request
// order. A reference appears in trees only if some row carries it.
func buildNodeTrees(graphNodes []domain.GraphNode, references []string) (roots []*domain.NodeTree, trees []*domain.NodeTree) {
	if len(graphNodes) == 0 {
		return nil, nil
	}

	byID := make(map[int64]*domain.NodeTree, len(graphNodes))
	byReference := make(map[string]*domain.NodeTree, len(graphNodes))
	for _, node := range graphNodes {
		tree := &domain.NodeTree{Entity: node.Entity, Edges: make([]*domain.ModelEdge, 0)}
		byID[node.ID] = tree
		if _, seen := byReference[node.Reference]; !seen {
			byReference[node.Reference] = tree
		}
	}

	for _, node := range graphNodes {
		child := byID[node.ID]
		for _, parent := range node.ParentsInfo {
			if parentTree, ok := byID[parent.ParentID]; ok {
				parentTree.Edges = append(parentTree.Edges, &domain.ModelEdge{Type: parent.Type, Entity: child})
			}
		}
		if len(node.ParentsInfo) == 0 {
			roots = append(roots, child)
		}
	}

	for _, reference := range references {
		if tree, ok := byReference[reference]; ok {
			trees = append(trees, tree)
		}
	}

	return roots, trees
}
