package repositories

import (
	"context"
	"crypto/md5"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"xmimodel/src/domain"
)

// Cache is the key/value store behind CachedGraphRepository. Registries are sets that map an
// entity to every cached tree containing it.
type Cache interface {
	GetKey(ctx context.Context, key string) (string, bool, error)
	SetWithRegistry(ctx context.Context, cacheKey string, cacheValue string, registryKeys []string) error
	GetMultipleSetMembers(ctx context.Context, keys []string) (map[string][]string, error)
	InvalidateEntity(ctx context.Context, keys []string) error
}

type TreeQuerier interface {
	QueryTree(ctx context.Context, condition FindCondition, depthLimit int) ([]domain.GraphNode, error)
}

type CachedGraphRepository struct {
	graphQueryRepository TreeQuerier
	cache                Cache
}

// NewCachedGraphRepository reads through cache. A nil cache disables caching.
func NewCachedGraphRepository(graphQueryRepository TreeQuerier, cache Cache) *CachedGraphRepository {
	return &CachedGraphRepository{graphQueryRepository: graphQueryRepository, cache: cache}
}

type cachedTree struct {
	GraphNodes []domain.GraphNode `json:"graph_nodes"`
}

func (r *CachedGraphRepository) QueryTree(ctx context.Context, condition FindCondition, depthLimit int) ([]domain.GraphNode, error) {
	if r.cache == nil {
		return r.graphQueryRepository.QueryTree(ctx, condition, depthLimit)
	}

	cacheKey := treeCacheKey(condition, depthLimit)

	cached, found, err := r.getFromCache(ctx, cacheKey)
	if err != nil {
		log.Printf("Cache error for key %s: %v", cacheKey, err)
	}
	if found && err == nil {
		log.Printf("Cache HIT for key: %s", cacheKey)
		return cached.GraphNodes, nil
	}

	log.Printf("Cache MISS for key: %s", cacheKey)

	graphNodes, err := r.graphQueryRepository.QueryTree(ctx, condition, depthLimit)
	if err != nil {
		return nil, fmt.Errorf("CachedGraphRepository.QueryTree - postgres query failed: %w", err)
	}

	go func() {
		ctxWithTimeout, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		r.setInCache(ctxWithTimeout, cacheKey, graphNodes)
	}()

	return graphNodes, nil
}

func treeCacheKey(condition FindCondition, depthLimit int) string {
	keyData := fmt.Sprintf("query:%s:%s:%v:depth:%d", condition.Field, condition.Operator, condition.Value, depthLimit)
	return fmt.Sprintf("graph:tree:%x", md5.Sum([]byte(keyData)))
}

func entityRegistryKey(entityID int64) string {
	return fmt.Sprintf("registry:entity:%d", entityID)
}

func (r *CachedGraphRepository) getFromCache(ctx context.Context, cacheKey string) (*cachedTree, bool, error) {
	cachedJSON, found, err := r.cache.GetKey(ctx, cacheKey)
	if !found || err != nil {
		return nil, false, err
	}

	var result cachedTree
	if err := json.Unmarshal([]byte(cachedJSON), &result); err != nil {
		return nil, false, fmt.Errorf("failed to unmarshal cached data: %w", err)
	}
	return &result, true, nil
}

func (r *CachedGraphRepository) setInCache(ctx context.Context, cacheKey string, graphNodes []domain.GraphNode) {
	dataJSON, err := json.Marshal(cachedTree{GraphNodes: graphNodes})
	if err != nil {
		log.Printf("Failed to marshal cache data for key %s: %v", cacheKey, err)
		return
	}

	registryKeys := make([]string, len(graphNodes))
	for i, node := range graphNodes {
		registryKeys[i] = entityRegistryKey(node.ID)
	}

	if err := r.cache.SetWithRegistry(ctx, cacheKey, string(dataJSON), registryKeys); err != nil {
		log.Printf("Failed to set cache with registry for key %s: %v", cacheKey, err)
		return
	}

	log.Printf("Cache SET with registry for key: %s (%d entities)", cacheKey, len(graphNodes))
}

// InvalidateByEntityIDs deletes every cached tree containing one of the entities, along
// with the entities' registries.
func (r *CachedGraphRepository) InvalidateByEntityIDs(ctx context.Context, entityIDs []int64) error {
	if r.cache == nil || len(entityIDs) == 0 {
		return nil
	}

	registryKeys := make([]string, len(entityIDs))
	for i, entityID := range entityIDs {
		registryKeys[i] = entityRegistryKey(entityID)
	}

	registries, err := r.cache.GetMultipleSetMembers(ctx, registryKeys)
	if err != nil {
		return fmt.Errorf("CachedGraphRepository.InvalidateByEntityIDs - failed to read registries: %w", err)
	}

	unique := make(map[string]struct{})
	for registryKey, cacheKeys := range registries {
		unique[registryKey] = struct{}{}
		for _, cacheKey := range cacheKeys {
			unique[cacheKey] = struct{}{}
		}
	}

	keysToDelete := make([]string, 0, len(unique))
	for key := range unique {
		keysToDelete = append(keysToDelete, key)
	}

	if len(keysToDelete) == 0 {
		return nil
	}

	log.Printf("Invalidating %d cache keys for %d entities", len(keysToDelete), len(entityIDs))
	return r.cache.InvalidateEntity(ctx, keysToDelete)
}
