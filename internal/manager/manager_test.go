package manager

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/signalmesh/dagengine/pkg/block"
	"github.com/signalmesh/dagengine/pkg/schema"
)

func testRegistry() *block.Registry {
	reg := block.NewRegistry()
	reg.Register(block.NewTemplate("Const", func(ctx context.Context, inst *block.Instance) error {
		return inst.SetInterface("O", &block.Value{})
	}).AddOutput("O"))
	return reg
}

func testManager(t *testing.T) *Manager {
	t.Helper()
	libraries := block.NewManager()
	libraries.RegisterBusiness("biz", testRegistry())

	m, err := New(Config{BlueprintCacheSize: 8, PoolSize: 2, Workers: 2}, libraries)
	require.NoError(t, err)
	return m
}

func sampleDoc() *schema.Schema {
	return &schema.Schema{Nodes: []schema.Node{{ID: "c1", Type: "Const"}}}
}

func TestAcquireUnknownBusiness(t *testing.T) {
	t.Parallel()

	m := testManager(t)
	_, err := m.Acquire(context.Background(), "ghost-business", sampleDoc())
	require.Error(t, err)
}

func TestAcquireReleaseReusesPooledPlan(t *testing.T) {
	t.Parallel()

	m := testManager(t)
	doc := sampleDoc()

	eng1, err := m.Acquire(context.Background(), "biz", doc)
	require.NoError(t, err)
	first := eng1.Plan()
	eng1.Release()

	eng2, err := m.Acquire(context.Background(), "biz", doc)
	require.NoError(t, err)
	require.Same(t, first, eng2.Plan(), "a released plan should be handed back out before cloning a fresh one")
}

func TestAcquirePoolBoundNeverExceeded(t *testing.T) {
	t.Parallel()

	m := testManager(t)
	doc := sampleDoc()

	var engines []*ScopedEngine
	for i := 0; i < 5; i++ {
		eng, err := m.Acquire(context.Background(), "biz", doc)
		require.NoError(t, err)
		engines = append(engines, eng)
	}
	for _, eng := range engines {
		eng.Release()
	}

	key, err := cacheKey("biz", doc)
	require.NoError(t, err)
	entry, ok := m.cache.Get(key)
	require.True(t, ok)
	require.LessOrEqual(t, len(entry.pool.ch), 2)
}

func TestAcquireConcurrentSingleFlight(t *testing.T) {
	// Not parallel: compileHook is package-global, so compiles from other
	// tests running alongside would be counted too.
	libraries := block.NewManager()

	var compiles int32
	reg := block.NewRegistry()
	reg.Register(block.NewTemplate("Const", func(ctx context.Context, inst *block.Instance) error {
		return inst.SetInterface("O", &block.Value{})
	}).AddOutput("O"))
	libraries.RegisterBusiness("biz", reg)

	m, err := New(Config{BlueprintCacheSize: 8, PoolSize: 2, Workers: 2}, libraries)
	require.NoError(t, err)

	doc := sampleDoc()

	var compileCalls int32
	compileHook = func() { atomic.AddInt32(&compileCalls, 1) }
	defer func() { compileHook = nil }()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := m.Acquire(context.Background(), "biz", doc)
			require.NoError(t, err)
			atomic.AddInt32(&compiles, 1)
		}()
	}
	wg.Wait()

	require.Equal(t, int32(20), atomic.LoadInt32(&compiles))
	require.Equal(t, int32(1), atomic.LoadInt32(&compileCalls), "single-flight must collapse concurrent compiles for the same key into exactly one")
}

func TestAcquireWithExtrasBypassesCache(t *testing.T) {
	t.Parallel()

	m := testManager(t)
	extra := block.NewTemplate("Scripted", func(ctx context.Context, inst *block.Instance) error {
		return inst.SetInterface("O", &block.Value{})
	}).AddOutput("O")
	doc := &schema.Schema{Nodes: []schema.Node{{ID: "s1", Type: "Scripted"}}}

	eng, err := m.Acquire(context.Background(), "biz", doc, extra)
	require.NoError(t, err)
	require.NotNil(t, eng.Plan())
	eng.Release()

	key, err := cacheKey("biz", doc)
	require.NoError(t, err)
	_, cached := m.cache.Get(key)
	require.False(t, cached, "a request-scoped plan compiled from extras must never populate the shared blueprint cache")
}

func TestAcquireSyncDoubleCheckedPresence(t *testing.T) {
	t.Parallel()

	m := testManager(t)
	doc := sampleDoc()

	eng1, err := m.AcquireSync("biz", doc)
	require.NoError(t, err)
	eng1.Release()

	eng2, err := m.AcquireSync("biz", doc)
	require.NoError(t, err)
	require.NotNil(t, eng2.Plan())
}
