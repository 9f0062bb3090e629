package services

import "sync"

// categoryLocks serializes allocation and release per category. The
// capacity check and the room writes that follow it must act as one unit;
// two concurrent allocations that both pass the count before either inserts
// would overbook the tier. The database transaction still locks the
// category row, but this keeps the critical section honest on stores whose
// row locks are advisory.
type categoryLocks struct {
	mu    sync.Mutex
	locks map[uint]*sync.Mutex
}

func newCategoryLocks() *categoryLocks {
	return &categoryLocks{locks: make(map[uint]*sync.Mutex)}
}

func (c *categoryLocks) lock(categoryID uint) *sync.Mutex {
	c.mu.Lock()
	m, ok := c.locks[categoryID]
	if !ok {
		m = &sync.Mutex{}
		c.locks[categoryID] = m
	}
	c.mu.Unlock()

	m.Lock()
	return m
}
