// Package keylock provides per-key exclusive locks with bounded acquisition.
//
// Locks for different keys never block each other. Acquiring several keys at once
// takes them in sorted order, so two callers locking overlapping key sets cannot deadlock.
package keylock

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"golang.org/x/sync/semaphore"
)

// ErrTimeout возвращается, когда блокировку не удалось получить за отведённое время
var ErrTimeout = errors.New("keylock: lock acquisition timed out")

// Key формирует ключ блокировки вида "<kind>:<id>"
func Key(kind string, id int64) string {
	return fmt.Sprintf("%s:%d", kind, id)
}

type entry struct {
	sem  *semaphore.Weighted
	refs int
}

// Locker набор именованных блокировок
type Locker struct {
	mu      sync.Mutex
	entries map[string]*entry
	timeout time.Duration
}

// New создает Locker. timeout <= 0 означает ожидание до отмены контекста
func New(timeout time.Duration) *Locker {
	return &Locker{
		entries: make(map[string]*entry),
		timeout: timeout,
	}
}

// Lock захватывает все ключи и возвращает функцию освобождения
// Повторный вызов unlock безопасен
func (l *Locker) Lock(ctx context.Context, keys ...string) (unlock func(), err error) {
	keys = normalize(keys)

	if l.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, l.timeout)
		defer cancel()
	}

	held := make([]string, 0, len(keys))
	for _, key := range keys {
		e := l.acquireRef(key)
		if err := e.sem.Acquire(ctx, 1); err != nil {
			l.releaseRef(key)
			l.release(held)
			if errors.Is(err, context.DeadlineExceeded) {
				return nil, fmt.Errorf("%w: key=%s", ErrTimeout, key)
			}
			return nil, err
		}
		held = append(held, key)
	}

	var once sync.Once
	return func() {
		once.Do(func() { l.release(held) })
	}, nil
}

// Len возвращает количество ключей, по которым есть захват или ожидание
func (l *Locker) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.entries)
}

func (l *Locker) release(keys []string) {
	for i := len(keys) - 1; i >= 0; i-- {
		l.mu.Lock()
		e := l.entries[keys[i]]
		l.mu.Unlock()

		e.sem.Release(1)
		l.releaseRef(keys[i])
	}
}

func (l *Locker) acquireRef(key string) *entry {
	l.mu.Lock()
	defer l.mu.Unlock()

	e, ok := l.entries[key]
	if !ok {
		e = &entry{sem: semaphore.NewWeighted(1)}
		l.entries[key] = e
	}
	e.refs++
	return e
}

func (l *Locker) releaseRef(key string) {
	l.mu.Lock()
	defer l.mu.Unlock()

	e, ok := l.entries[key]
	if !ok {
		return
	}
	e.refs--
	if e.refs == 0 {
		delete(l.entries, key)
	}
}

func normalize(keys []string) []string {
	out := make([]string, 0, len(keys))
	seen := make(map[string]struct{}, len(keys))
	for _, k := range keys {
		if k == "" {
			continue
		}
		if _, dup := seen[k]; dup {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
