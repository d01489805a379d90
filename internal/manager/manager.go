// Package manager implements the EngineManager: the long-lived cache of
// compiled blueprints and the bounded pools of ready engines checked out
// against them (§4.5 of the engine design).
package manager

import (
	"context"
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"
	"golang.org/x/sync/singleflight"

	"github.com/signalmesh/dagengine/internal/compiler"
	"github.com/signalmesh/dagengine/pkg/block"
	"github.com/signalmesh/dagengine/pkg/engineerrors"
	"github.com/signalmesh/dagengine/pkg/schema"
)

type blueprintEntry struct {
	plan *compiler.Plan
	pool *enginePool
}

// Manager owns one content-addressed blueprint cache and the bounded
// object pools keyed off it. It is safe for concurrent use.
type Manager struct {
	cfg       Config
	libraries *block.Manager

	mu    sync.Mutex // guards the acquire_sync double-checked-presence path
	cache *lru.Cache[string, *blueprintEntry]
	group singleflight.Group
}

// New builds an EngineManager. libraries supplies the per-business block
// registries; cfg must already have passed Validate.
func New(cfg Config, libraries *block.Manager) (*Manager, error) {
	cache, err := lru.New[string, *blueprintEntry](cfg.BlueprintCacheSize)
	if err != nil {
		return nil, err
	}
	return &Manager{cfg: cfg, libraries: libraries, cache: cache}, nil
}

// RegisterBusiness exposes the underlying library registration so callers
// configure both from one manager instance.
func (m *Manager) RegisterBusiness(businessID string, registry *block.Registry) {
	m.libraries.RegisterBusiness(businessID, registry)
}

// Config returns the manager's configuration, e.g. so a caller can apply
// its Timeout to a run's context.
func (m *Manager) Config() Config {
	return m.cfg
}

// compileHook, when non-nil, is invoked once per actual compile. It
// exists so the package's own tests can verify single-flight collapse
// without exposing a call counter on the public API.
var compileHook func()

func (m *Manager) compile(registry *block.Registry, businessID string, doc *schema.Schema) (*compiler.Plan, error) {
	if compileHook != nil {
		compileHook()
	}
	plan, err := compiler.Compile(registry, doc, nil)
	if err != nil {
		return nil, engineerrors.NewCompileError(businessID, err)
	}
	return plan, nil
}

// acquireScoped handles a request that supplies extras (External
// Interface 2's per-request compiled scripts): the business registry is
// snapshotted with the extras appended via Registry.Snapshot, compiled,
// and handed back uncached. Script templates are request-scoped by
// design (they must not leak into another caller's blueprint), so this
// path never touches the blueprint cache or a pool bigger than one shot;
// it is shared by both Acquire and AcquireSync since caching is skipped
// either way.
func (m *Manager) acquireScoped(businessID string, doc *schema.Schema, extras []*block.Template) (*ScopedEngine, error) {
	registry, err := m.libraries.Library(businessID)
	if err != nil {
		return nil, err
	}
	snapshot := registry.Snapshot(extras...)
	plan, err := m.compile(snapshot, businessID, doc)
	if err != nil {
		return nil, err
	}
	return &ScopedEngine{plan: plan, pool: newEnginePool(0)}, nil
}

// Acquire is the cooperative-scheduling entry point: lazy compilation
// across concurrent callers for the same (business, schema) pair is
// collapsed into one compile via singleflight, so only the caller that
// actually lands the compile pays for it (P6). extras are the compiled
// per-request script templates from External Interface 2; when present
// they bypass the shared blueprint cache entirely (see acquireScoped).
func (m *Manager) Acquire(ctx context.Context, businessID string, doc *schema.Schema, extras ...*block.Template) (*ScopedEngine, error) {
	if len(extras) > 0 {
		return m.acquireScoped(businessID, doc, extras)
	}

	key, err := cacheKey(businessID, doc)
	if err != nil {
		return nil, err
	}

	if entry, ok := m.cache.Get(key); ok {
		return m.checkout(entry), nil
	}

	v, err, _ := m.group.Do(key, func() (any, error) {
		if entry, ok := m.cache.Get(key); ok {
			return entry, nil
		}
		registry, err := m.libraries.Library(businessID)
		if err != nil {
			return nil, err
		}
		plan, err := m.compile(registry, businessID, doc)
		if err != nil {
			return nil, err
		}
		entry := &blueprintEntry{plan: plan, pool: newEnginePool(m.cfg.PoolSize)}
		m.cache.Add(key, entry)
		return entry, nil
	})
	if err != nil {
		return nil, err
	}

	return m.checkout(v.(*blueprintEntry)), nil
}

// AcquireSync is the parallel-threads entry point: instead of
// singleflight it uses a mutex with double-checked presence, since
// Acquire's goroutine-per-waiter model is unnecessary when the caller is
// already inside a worker-pool thread that can simply hold the lock
// across the compile (§4.5.3). extras behave exactly as in Acquire.
func (m *Manager) AcquireSync(businessID string, doc *schema.Schema, extras ...*block.Template) (*ScopedEngine, error) {
	if len(extras) > 0 {
		return m.acquireScoped(businessID, doc, extras)
	}

	key, err := cacheKey(businessID, doc)
	if err != nil {
		return nil, err
	}

	if entry, ok := m.cache.Get(key); ok {
		return m.checkout(entry), nil
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if entry, ok := m.cache.Get(key); ok {
		return m.checkout(entry), nil
	}

	registry, err := m.libraries.Library(businessID)
	if err != nil {
		return nil, err
	}
	plan, err := m.compile(registry, businessID, doc)
	if err != nil {
		return nil, err
	}
	entry := &blueprintEntry{plan: plan, pool: newEnginePool(m.cfg.PoolSize)}
	m.cache.Add(key, entry)
	return m.checkout(entry), nil
}

func (m *Manager) checkout(entry *blueprintEntry) *ScopedEngine {
	if plan := entry.pool.pop(); plan != nil {
		return &ScopedEngine{plan: plan, pool: entry.pool}
	}
	return &ScopedEngine{plan: entry.plan.Clone(), pool: entry.pool}
}

// ScopedEngine is a checked-out, ready-to-run plan. Callers must call
// Release (typically in a defer) when done so the plan can be
// reset and returned to its pool for the next caller (§4.5.2).
type ScopedEngine struct {
	plan *compiler.Plan
	pool *enginePool
}

// Plan exposes the checked-out plan for the executor to run.
func (s *ScopedEngine) Plan() *compiler.Plan { return s.plan }

// Release resets the plan's instance state and returns it to the pool.
// If the pool is already full the plan is discarded (P7).
func (s *ScopedEngine) Release() {
	s.plan.Reset()
	s.pool.push(s.plan)
}
