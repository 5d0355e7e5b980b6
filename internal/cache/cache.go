// Package cache keeps a per-user Workspace in memory so reads and the query
// engine do not hit the store on every request. Workspaces are loaded on
// first use, evicted by an LRU bound and expire after a TTL so changes made by
// other processes become visible. Writers persist first and then apply the
// change to the cached workspace with Apply.
package cache

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/phrazzld/postpone/internal/platform/logger"
	"github.com/phrazzld/postpone/internal/store"
	"golang.org/x/sync/singleflight"
)

// Options bound the cache size and entry lifetime.
type Options struct {
	MaxUsers int
	TTL      time.Duration
}

// Cache maps user IDs to loaded workspaces.
type Cache struct {
	tasks   store.TaskStore
	tags    store.TagStore
	entries *expirable.LRU[uuid.UUID, *Workspace]
	loads   singleflight.Group
	logger  *slog.Logger

	// mu orders Apply against a load storing its result.
	mu       sync.Mutex
	inflight map[uuid.UUID]*pendingLoad
}

// pendingLoad collects writes applied while a user's workspace is loading.
// They are replayed on the loaded snapshot before it is cached.
type pendingLoad struct {
	writes    []func(ws *Workspace)
	discarded bool
}

// New creates a Cache loading workspaces from the given stores.
func New(tasks store.TaskStore, tags store.TagStore, opts Options, logger *slog.Logger) *Cache {
	if tasks == nil || tags == nil {
		panic("cache stores cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	if opts.MaxUsers <= 0 {
		opts.MaxUsers = 1000
	}

	return &Cache{
		tasks:    tasks,
		tags:     tags,
		entries:  expirable.NewLRU[uuid.UUID, *Workspace](opts.MaxUsers, nil, opts.TTL),
		inflight: make(map[uuid.UUID]*pendingLoad),
		logger:   logger.With(slog.String("component", "workspace_cache")),
	}
}

// Workspace returns the cached workspace for userID, loading it from the
// stores if needed. Concurrent first loads of the same user share one query,
// which keeps running when the caller that started it goes away.
func (c *Cache) Workspace(ctx context.Context, userID uuid.UUID) (*Workspace, error) {
	if ws, ok := c.entries.Get(userID); ok {
		return ws, nil
	}

	loadCtx := context.WithoutCancel(ctx)
	ch := c.loads.DoChan(userID.String(), func() (interface{}, error) {
		return c.loadAndStore(loadCtx, userID)
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		if res.Shared {
			logger.FromContextOrDefault(ctx, c.logger).Debug("workspace load shared",
				slog.String("user_id", userID.String()))
		}
		return res.Val.(*Workspace), nil
	}
}

// Apply runs fn against the cached workspace of userID. When the workspace is
// still loading, fn is replayed on the loaded snapshot. Otherwise nothing
// happens and the next read loads fresh state. A replayed fn may find its
// change already present in the snapshot.
func (c *Cache) Apply(userID uuid.UUID, fn func(ws *Workspace)) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if ws, ok := c.entries.Peek(userID); ok {
		fn(ws)
		return
	}
	if p, ok := c.inflight[userID]; ok {
		p.writes = append(p.writes, fn)
	}
}

// Invalidate drops the cached workspace of userID. A load in progress is not
// cached.
func (c *Cache) Invalidate(userID uuid.UUID) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries.Remove(userID)
	if p, ok := c.inflight[userID]; ok {
		p.discarded = true
	}
}

// Len returns the number of cached workspaces.
func (c *Cache) Len() int {
	return c.entries.Len()
}

func (c *Cache) loadAndStore(ctx context.Context, userID uuid.UUID) (*Workspace, error) {
	c.mu.Lock()
	if ws, ok := c.entries.Peek(userID); ok {
		c.mu.Unlock()
		return ws, nil
	}
	p := &pendingLoad{}
	c.inflight[userID] = p
	c.mu.Unlock()

	ws, err := c.load(ctx, userID)

	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.inflight, userID)
	if err != nil {
		return nil, err
	}

	for _, fn := range p.writes {
		fn(ws)
	}
	if len(p.writes) > 0 {
		logger.FromContextOrDefault(ctx, c.logger).Debug("replayed writes on loaded workspace",
			slog.String("user_id", userID.String()),
			slog.Int("writes", len(p.writes)))
	}
	if !p.discarded {
		c.entries.Add(userID, ws)
	}
	return ws, nil
}

func (c *Cache) load(ctx context.Context, userID uuid.UUID) (*Workspace, error) {
	log := logger.FromContextOrDefault(ctx, c.logger)
	start := time.Now()

	tasks, err := c.tasks.ListByUser(ctx, userID)
	if err != nil {
		log.Error("failed to load tasks for workspace",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()))
		return nil, fmt.Errorf("failed to load tasks: %w", err)
	}

	tags, err := c.tags.ListByUser(ctx, userID)
	if err != nil {
		log.Error("failed to load tags for workspace",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()))
		return nil, fmt.Errorf("failed to load tags: %w", err)
	}

	log.Debug("workspace loaded",
		slog.String("user_id", userID.String()),
		slog.Int("task_count", len(tasks)),
		slog.Int("tag_count", len(tags)),
		slog.Int64("duration_ms", time.Since(start).Milliseconds()))

	return NewWorkspace(userID, tasks, tags), nil
}
