// Package correlate implements the bounded event-serial correlation table
// that reassembles SYSCALL identity into the file-access domain parser.
package correlate

import "github.com/dmitriimaksimovdevelop/auditsentinel/internal/model"

// Cache maps event serial -> SYSCALL identity. Scoped to one probe: callers
// must Clear it before and after use. Not safe for concurrent probes; each
// probe owns an independent instance.
type Cache struct {
	slots []model.EventContext
	cap   int
}

// New returns an empty cache ready for one probe, bounded at capacity
// slots. A non-positive capacity falls back to model.MaxEventContexts --
// the zero value of Config.MaxEventContexts means "use the package
// default".
func New(capacity int) *Cache {
	if capacity <= 0 {
		capacity = model.MaxEventContexts
	}
	return &Cache{slots: make([]model.EventContext, 0, capacity), cap: capacity}
}

// Clear resets the cache to empty.
func (c *Cache) Clear() {
	c.slots = c.slots[:0]
}

// GetOrCreate returns the slot for eventID, creating one only if capacity
// remains. The second return is false when the cache is full and the
// event was not already present -- the caller must treat that as "no
// context available" rather than an error.
func (c *Cache) GetOrCreate(eventID int) (*model.EventContext, bool) {
	for i := range c.slots {
		if c.slots[i].EventID == eventID {
			return &c.slots[i], true
		}
	}
	if len(c.slots) >= c.cap {
		return nil, false
	}
	c.slots = append(c.slots, model.EventContext{EventID: eventID})
	return &c.slots[len(c.slots)-1], true
}

// Lookup returns the slot for eventID without creating one.
func (c *Cache) Lookup(eventID int) (*model.EventContext, bool) {
	for i := range c.slots {
		if c.slots[i].EventID == eventID {
			return &c.slots[i], true
		}
	}
	return nil, false
}

// Len reports the number of populated slots, for tests and diagnostics.
func (c *Cache) Len() int {
	return len(c.slots)
}
