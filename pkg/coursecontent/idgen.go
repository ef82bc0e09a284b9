package coursecontent

import (
	"sync"
	"time"
)

// idGenerator hands out unique int64 ids. Ids are seeded from the wall clock
// in milliseconds (matching ids already present in legacy catalogs) but are
// strictly monotonic within the generator, so rapid creation or a clock step
// backwards can never produce a duplicate.
type idGenerator struct {
	mu   sync.Mutex
	last int64
	now  func() time.Time
}

func newIDGenerator() *idGenerator {
	return &idGenerator{now: time.Now}
}

// Next returns a fresh id strictly greater than any previously returned or
// reserved id.
func (g *idGenerator) Next() int64 {
	g.mu.Lock()
	defer g.mu.Unlock()

	id := g.now().UnixMilli()
	if id <= g.last {
		id = g.last + 1
	}
	g.last = id
	return id
}

// Reserve bumps the floor so that ids at or below min are never handed out.
// Called with the maximum id found in a loaded catalog before assignment.
func (g *idGenerator) Reserve(min int64) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if min > g.last {
		g.last = min
	}
}
