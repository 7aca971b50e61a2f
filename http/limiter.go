package http

import (
	"context"
	"sync"

	"golang.org/x/sync/semaphore"
)

// connLimiter bounds the number of connections under handling. The accept
// loop takes a permit before every Accept, so at the ceiling new sockets
// wait in the listen backlog instead of being refused.
type connLimiter struct {
	sem *semaphore.Weighted
}

func newConnLimiter(size int) *connLimiter {
	return &connLimiter{sem: semaphore.NewWeighted(int64(size))}
}

// Acquire blocks until a slot frees up or ctx is done.
func (l *connLimiter) Acquire(ctx context.Context) (*permit, error) {
	if err := l.sem.Acquire(ctx, 1); err != nil {
		return nil, err
	}
	return &permit{sem: l.sem}, nil
}

// permit is one held slot. Release may be called any number of times; the
// slot goes back to the pool exactly once.
type permit struct {
	sem  *semaphore.Weighted
	once sync.Once
}

func (p *permit) Release() {
	p.once.Do(func() {
		p.sem.Release(1)
	})
}
