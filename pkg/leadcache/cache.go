package leadcache

import (
	"sync"

	"leads-manager/pkg/models"
)

// Snapshot is one immutable generation of the cached lead list. Version
// tokens increase monotonically with every write; a snapshot taken before
// an optimistic edit is what a rollback restores.
type Snapshot struct {
	Version uint64
	Leads   []models.Lead
}

// Cache is a versioned, non-authoritative mirror of the remote lead list.
// The remote store always wins: every write here either reflects a remote
// response or is an optimistic guess awaiting one.
type Cache struct {
	mu      sync.Mutex
	version uint64
	leads   []models.Lead
}

func New() *Cache {
	return &Cache{}
}

// Leads returns a deep copy of the current list.
func (c *Cache) Leads() []models.Lead {
	c.mu.Lock()
	defer c.mu.Unlock()
	return models.CloneLeads(c.leads)
}

// Version returns the current generation token.
func (c *Cache) Version() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.version
}

// Snapshot captures the current generation for a later Restore.
func (c *Cache) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return Snapshot{Version: c.version, Leads: models.CloneLeads(c.leads)}
}

// Replace installs an authoritative list, unconditionally.
func (c *Cache) Replace(leads []models.Lead) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.leads = models.CloneLeads(leads)
	c.version++
}

// CompareAndReplace installs leads only if no write happened since the
// given version was observed. Reports whether the swap took place.
func (c *Cache) CompareAndReplace(version uint64, leads []models.Lead) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.version != version {
		return false
	}
	c.leads = models.CloneLeads(leads)
	c.version++
	return true
}

// Apply mutates one lead in place and returns the pre-edit snapshot for a
// possible rollback. The second return is false when the id is not cached,
// in which case nothing changed and the snapshot is still valid to restore.
func (c *Cache) Apply(id string, mutate func(*models.Lead)) (Snapshot, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	prev := Snapshot{Version: c.version, Leads: models.CloneLeads(c.leads)}

	for i := range c.leads {
		if c.leads[i].ID == id {
			mutate(&c.leads[i])
			c.version++
			return prev, true
		}
	}
	return prev, false
}

// Restore rolls the cache back to a previously taken snapshot. The restore
// is unconditional: when edits overlap, the last one to finish wins.
func (c *Cache) Restore(s Snapshot) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.leads = models.CloneLeads(s.Leads)
	c.version++
}

// Len reports how many leads are cached.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.leads)
}
