// Package query caches one server-owned resource and tracks mutation state.
//
// The types are not safe for concurrent use; the TUI drives them from its
// single update loop and results come back as messages carrying a Ticket.
package query

// Ticket identifies one fetch. A result is applied only if its ticket is
// still current when it arrives.
type Ticket struct {
	gen     uint64
	version uint64
}

// Cache holds the last fetched value of a query and decides when to fetch.
type Cache[T any] struct {
	enabled  bool
	gen      uint64 // bumped by Clear
	version  uint64 // bumped by Invalidate
	fetched  uint64 // version the current data was fetched at
	hasData  bool
	data     T
	err      error
	inFlight bool
}

// SetEnabled gates fetching. Disabling does not drop data; use Clear.
func (c *Cache[T]) SetEnabled(on bool) { c.enabled = on }

func (c *Cache[T]) Enabled() bool { return c.enabled }

// Invalidate marks the data stale so the next Begin fetches.
func (c *Cache[T]) Invalidate() { c.version++ }

// Stale reports whether a fetch is due: no data yet, or invalidated since
// the last fetch started.
func (c *Cache[T]) Stale() bool {
	return (!c.hasData && c.err == nil) || c.fetched != c.version
}

// Begin starts a fetch if the cache is enabled, idle and stale. Concurrent
// invalidations collapse into the single fetch that Begin allows.
func (c *Cache[T]) Begin() (Ticket, bool) {
	if !c.enabled || c.inFlight || !c.Stale() {
		return Ticket{}, false
	}
	c.inFlight = true
	c.fetched = c.version
	return Ticket{gen: c.gen, version: c.version}, true
}

// Complete records a fetch result and reports whether it was applied.
// Results from before a Clear are dropped. If the cache was invalidated
// while the fetch ran, the result is stored but the cache stays stale.
func (c *Cache[T]) Complete(t Ticket, data T, err error) bool {
	if t.gen != c.gen {
		return false
	}
	c.inFlight = false
	if err != nil {
		c.err = err
		return true
	}
	c.data = data
	c.hasData = true
	c.err = nil
	return true
}

// Clear drops data, error and any in-flight fetch.
func (c *Cache[T]) Clear() {
	var zero T
	c.gen++
	c.version++
	c.data = zero
	c.hasData = false
	c.err = nil
	c.inFlight = false
}

// Loading is true while the first fetch (or a fetch after an error) is in
// flight and there is nothing to show yet.
func (c *Cache[T]) Loading() bool { return c.inFlight && !c.hasData }

// Fetching is true whenever a fetch is in flight.
func (c *Cache[T]) Fetching() bool { return c.inFlight }

func (c *Cache[T]) Data() (T, bool) { return c.data, c.hasData }

func (c *Cache[T]) Err() error { return c.err }

// Mutation is the pending/error state of one kind of write.
type Mutation struct {
	pending bool
	err     error
}

// Start claims the mutation. It returns false while a previous call is
// still pending, so duplicate submissions are ignored.
func (m *Mutation) Start() bool {
	if m.pending {
		return false
	}
	m.pending = true
	m.err = nil
	return true
}

func (m *Mutation) Finish(err error) {
	m.pending = false
	m.err = err
}

func (m *Mutation) Pending() bool { return m.pending }

func (m *Mutation) Err() error { return m.err }

// Reset clears pending and error state.
func (m *Mutation) Reset() { *m = Mutation{} }
