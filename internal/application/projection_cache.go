package application

import (
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/example/academic-scheduler/internal/timetable"
)

// projectionCache stores recently computed role-scoped timetable views to
// avoid re-filtering assignments for identical read requests while the
// stored timetable remains unchanged. The timetable version participates in
// the key, so a regeneration naturally misses old entries.
type projectionCache struct {
	mu         sync.RWMutex
	now        func() time.Time
	ttl        time.Duration
	maxEntries int
	entries    map[string]projectionCacheEntry
}

type projectionCacheEntry struct {
	assignments []timetable.Assignment
	expiresAt   time.Time
}

func newProjectionCache(ttl time.Duration, maxEntries int, now func() time.Time) *projectionCache {
	if ttl <= 0 {
		ttl = 30 * time.Second
	}
	if maxEntries <= 0 {
		maxEntries = 128
	}
	if now == nil {
		now = time.Now
	}
	return &projectionCache{
		now:        now,
		ttl:        ttl,
		maxEntries: maxEntries,
		entries:    make(map[string]projectionCacheEntry),
	}
}

func (c *projectionCache) Get(key string) ([]timetable.Assignment, bool) {
	if c == nil {
		return nil, false
	}
	c.mu.RLock()
	entry, ok := c.entries[key]
	c.mu.RUnlock()
	if !ok {
		return nil, false
	}
	if c.now().After(entry.expiresAt) {
		c.mu.Lock()
		delete(c.entries, key)
		c.mu.Unlock()
		return nil, false
	}
	return cloneAssignments(entry.assignments), true
}

func (c *projectionCache) Store(key string, assignments []timetable.Assignment) {
	if c == nil {
		return
	}
	cloned := cloneAssignments(assignments)
	expiry := c.now().Add(c.ttl)

	c.mu.Lock()
	defer c.mu.Unlock()

	c.cleanupLocked()
	if len(c.entries) >= c.maxEntries {
		c.evictOneLocked()
	}
	c.entries[key] = projectionCacheEntry{assignments: cloned, expiresAt: expiry}
}

func (c *projectionCache) Invalidate() {
	if c == nil {
		return
	}
	c.mu.Lock()
	c.entries = make(map[string]projectionCacheEntry)
	c.mu.Unlock()
}

func (c *projectionCache) cleanupLocked() {
	now := c.now()
	for key, entry := range c.entries {
		if now.After(entry.expiresAt) {
			delete(c.entries, key)
		}
	}
}

func (c *projectionCache) evictOneLocked() {
	for key := range c.entries {
		delete(c.entries, key)
		return
	}
}

func cloneAssignments(assignments []timetable.Assignment) []timetable.Assignment {
	if len(assignments) == 0 {
		return nil
	}
	out := make([]timetable.Assignment, len(assignments))
	copy(out, assignments)
	return out
}

func buildProjectionCacheKey(params GetTimetableParams, version int) string {
	courseIDs := make([]string, len(params.CourseIDs))
	copy(courseIDs, params.CourseIDs)
	sort.Strings(courseIDs)

	builder := strings.Builder{}
	builder.WriteString(params.Semester)
	builder.WriteString("|")
	builder.WriteString(params.Department)
	builder.WriteString("|")
	builder.WriteString(strconv.Itoa(params.Year))
	builder.WriteString("|")
	builder.WriteString(strconv.Itoa(version))
	builder.WriteString("|")
	builder.WriteString(string(params.Principal.Role))
	builder.WriteString("|")
	builder.WriteString(params.Principal.UserID)
	builder.WriteString("|")
	builder.WriteString(strings.Join(courseIDs, ","))
	return builder.String()
}
