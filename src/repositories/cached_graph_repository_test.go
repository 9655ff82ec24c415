package repositories_test

import (
	"context"
	"sync"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"xmimodel/src/domain"
	"xmimodel/src/repositories"
	"xmimodel/src/test_artefacts/comparer"
	"xmimodel/src/test_artefacts/stubs"
)

type memoryCache struct {
	mu     sync.Mutex
	values map[string]string
	sets   map[string][]string
}

func newMemoryCache() *memoryCache {
	return &memoryCache{values: map[string]string{}, sets: map[string][]string{}}
}

func (c *memoryCache) GetKey(_ context.Context, key string) (string, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	v, ok := c.values[key]
	return v, ok, nil
}

func (c *memoryCache) SetWithRegistry(_ context.Context, key, value string, registryKeys []string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.values[key] = value
	for _, registry := range registryKeys {
		c.sets[registry] = append(c.sets[registry], key)
	}
	return nil
}

func (c *memoryCache) GetMultipleSetMembers(_ context.Context, keys []string) (map[string][]string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	members := map[string][]string{}
	for _, key := range keys {
		members[key] = c.sets[key]
	}
	return members, nil
}

func (c *memoryCache) InvalidateEntity(_ context.Context, keys []string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, key := range keys {
		delete(c.values, key)
		delete(c.sets, key)
	}
	return nil
}

func (c *memoryCache) size() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.values)
}

type countingQuerier struct {
	mu    sync.Mutex
	calls int
	nodes []domain.GraphNode
}

func (q *countingQuerier) QueryTree(context.Context, repositories.FindCondition, int) ([]domain.GraphNode, error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.calls++
	return q.nodes, nil
}

func (q *countingQuerier) callCount() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.calls
}

var _ = Describe("CachedGraphRepository", func() {
	var (
		cache     *memoryCache
		querier   *countingQuerier
		repo      *repositories.CachedGraphRepository
		root      domain.GraphNode
		child     domain.GraphNode
		condition repositories.FindCondition
		ctx       context.Context
	)

	BeforeEach(func() {
		ctx = context.Background()
		root = domain.GraphNode{Entity: stubs.NewEntityStub().Get()}
		child = domain.GraphNode{
			Entity:      stubs.NewEntityStub().Get(),
			ParentsInfo: []domain.ParentInfo{{ParentID: root.ID, Type: "hasStructuralCrossSection"}},
		}
		cache = newMemoryCache()
		querier = &countingQuerier{nodes: []domain.GraphNode{root, child}}
		repo = repositories.NewCachedGraphRepository(querier, cache)
		condition = repositories.FindCondition{Field: "reference", Operator: repositories.OperatorEquals, Value: root.Reference}
	})

	It("should serve the second read from the cache", func() {
		// ARRANGE
		_, err := repo.QueryTree(ctx, condition, 3)
		Expect(err).NotTo(HaveOccurred())
		Eventually(cache.size).Should(Equal(1))

		// ACT
		result, err := repo.QueryTree(ctx, condition, 3)

		// ASSERT
		Expect(err).NotTo(HaveOccurred())
		Expect(querier.callCount()).To(Equal(1))
		Expect(result).To(BeComparableTo(querier.nodes, comparer.TimeWithin(0), comparer.JSONValue()))
	})

	It("should drop cached trees containing an invalidated entity", func() {
		// ARRANGE
		_, err := repo.QueryTree(ctx, condition, 3)
		Expect(err).NotTo(HaveOccurred())
		Eventually(cache.size).Should(Equal(1))

		// ACT
		err = repo.InvalidateByEntityIDs(ctx, []int64{child.ID})

		// ASSERT
		Expect(err).NotTo(HaveOccurred())
		Expect(cache.size()).To(BeZero())

		_, err = repo.QueryTree(ctx, condition, 3)
		Expect(err).NotTo(HaveOccurred())
		Expect(querier.callCount()).To(Equal(2))
	})

	It("should read through when no cache is configured", func() {
		// ARRANGE
		uncached := repositories.NewCachedGraphRepository(querier, nil)

		// ACT
		_, err1 := uncached.QueryTree(ctx, condition, 3)
		_, err2 := uncached.QueryTree(ctx, condition, 3)

		// ASSERT
		Expect(err1).NotTo(HaveOccurred())
		Expect(err2).NotTo(HaveOccurred())
		Expect(querier.callCount()).To(Equal(2))
		Expect(uncached.InvalidateByEntityIDs(ctx, []int64{root.ID})).To(Succeed())
	})
})

var _ = Describe("GraphQueryRepository", func() {
	DescribeTable("should reject conditions it cannot render safely",
		func(condition repositories.FindCondition) {
			// ACT
			_, err := repositories.NewGraphQueryRepository(nil).QueryTree(context.Background(), condition, 1)

			// ASSERT
			Expect(err).To(MatchError(ContainSubstring("invalid condition")))
		},
		Entry("unknown column", repositories.FindCondition{Field: "id; DROP TABLE entities", Operator: repositories.OperatorEquals, Value: 1}),
		Entry("unknown operator", repositories.FindCondition{Field: "id", Operator: "LIKE", Value: "x"}),
	)
})
