package session

import "sync"

// Cell holds the current Snapshot and notifies subscribers when the state
// changes. Every check runs under a generation number: the cell reads
// Pending while a check newer than the last resolved one is in flight, and a
// result older than the last resolved one is dropped.
type Cell struct {
	mu        sync.Mutex
	snap      Snapshot
	settled   Snapshot
	gen       uint64
	committed uint64
	inflight  map[uint64]Snapshot
	subs      map[uint64]func(Snapshot)
	nextID    uint64
}

func NewCell() *Cell {
	return &Cell{
		inflight: make(map[uint64]Snapshot),
		subs:     make(map[uint64]func(Snapshot)),
	}
}

// Get returns the current snapshot.
func (c *Cell) Get() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snap
}

// Subscribe registers fn for state changes and returns a function removing
// it. fn runs on the goroutine that resolved the check, outside the cell lock.
func (c *Cell) Subscribe(fn func(Snapshot)) (unsubscribe func()) {
	c.mu.Lock()
	id := c.nextID
	c.nextID++
	c.subs[id] = fn
	c.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			c.mu.Lock()
			delete(c.subs, id)
			c.mu.Unlock()
		})
	}
}

// begin starts a new generation with snap (Pending) as its in-flight state.
// Each generation must end with commit or abandon.
func (c *Cell) begin(snap Snapshot) uint64 {
	c.mu.Lock()
	c.gen++
	gen := c.gen
	c.inflight[gen] = snap
	subs, cur := c.publishLocked()
	c.mu.Unlock()

	notify(subs, cur)
	return gen
}

// commit records snap as the result of gen. It reports false when a newer
// generation has already been resolved.
func (c *Cell) commit(gen uint64, snap Snapshot) bool {
	c.mu.Lock()
	delete(c.inflight, gen)
	ok := gen > c.committed
	if ok {
		c.settled = snap
		c.committed = gen
	}
	subs, cur := c.publishLocked()
	c.mu.Unlock()

	notify(subs, cur)
	return ok
}

// abandon ends gen without a result. The cell falls back to the last
// resolved snapshot unless another check is still in flight.
func (c *Cell) abandon(gen uint64) {
	c.mu.Lock()
	delete(c.inflight, gen)
	subs, cur := c.publishLocked()
	c.mu.Unlock()

	notify(subs, cur)
}

func (c *Cell) publishLocked() ([]func(Snapshot), Snapshot) {
	next := c.settled
	var newest uint64
	for gen, snap := range c.inflight {
		if gen > c.committed && gen > newest {
			newest, next = gen, snap
		}
	}
	changed := c.snap.State != next.State
	c.snap = next
	return c.subscribersLocked(changed), next
}

func (c *Cell) subscribersLocked(changed bool) []func(Snapshot) {
	if !changed || len(c.subs) == 0 {
		return nil
	}
	subs := make([]func(Snapshot), 0, len(c.subs))
	for _, fn := range c.subs {
		subs = append(subs, fn)
	}
	return subs
}

func notify(subs []func(Snapshot), snap Snapshot) {
	for _, fn := range subs {
		fn(snap)
	}
}
