package compiler

import (
	"context"
	"sync"
)

// pathLocks serializes work per key. Entries are dropped once nobody holds or
// waits for them.
type pathLocks struct {
	mu    sync.Mutex
	locks map[string]*pathLock
}

type pathLock struct {
	sem  chan struct{}
	refs int
}

func (l *pathLocks) acquire(ctx context.Context, key string) (func(), error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	l.mu.Lock()
	if l.locks == nil {
		l.locks = make(map[string]*pathLock)
	}
	lock := l.locks[key]
	if lock == nil {
		lock = &pathLock{sem: make(chan struct{}, 1)}
		l.locks[key] = lock
	}
	lock.refs++
	l.mu.Unlock()

	select {
	case lock.sem <- struct{}{}:
	case <-ctx.Done():
		l.drop(key, lock)
		return nil, ctx.Err()
	}
	var once sync.Once
	return func() {
		once.Do(func() {
			<-lock.sem
			l.drop(key, lock)
		})
	}, nil
}

func (l *pathLocks) drop(key string, lock *pathLock) {
	l.mu.Lock()
	lock.refs--
	if lock.refs == 0 && l.locks[key] == lock {
		delete(l.locks, key)
	}
	l.mu.Unlock()
}

func (l *pathLocks) size() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.locks)
}
