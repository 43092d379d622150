// Package calendar keeps, per resource id, the ordered overlap-free set of committed
// booking intervals.
//
// Entries of one resource are kept sorted by start. Because they never overlap they are
// sorted by end as well, which lets QueryOverlap binary-search the single candidate entry
// that could intersect a range.
package calendar

import (
	"fmt"
	"sort"
	"sync"

	"github.com/m04kA/SMC-ClubBookingService/internal/domain"
)

// Entry committed interval of a booking
type Entry struct {
	Range domain.Interval
	Ref   domain.BookingRef
}

// Calendar календарь ресурсов одного вида (тренеры или залы)
type Calendar struct {
	kind domain.ResourceKind

	mu        sync.RWMutex
	resources map[int64][]Entry
}

// New создает пустой календарь для вида ресурса
func New(kind domain.ResourceKind) *Calendar {
	return &Calendar{
		kind:      kind,
		resources: make(map[int64][]Entry),
	}
}

// Kind возвращает вид ресурса календаря
func (c *Calendar) Kind() domain.ResourceKind {
	return c.kind
}

// QueryOverlap сообщает, пересекается ли candidate с какой-либо записью ресурса
func (c *Calendar) QueryOverlap(resourceID int64, candidate domain.Interval) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()

	_, found := firstOverlap(c.resources[resourceID], candidate)
	return found
}

// Commit добавляет интервал брони в календарь ресурса
func (c *Calendar) Commit(resourceID int64, interval domain.Interval, ref domain.BookingRef) error {
	if err := interval.Validate(); err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	entries := c.resources[resourceID]
	for _, e := range entries {
		if e.Ref == ref {
			return fmt.Errorf("%w: %s %d, booking %s", ErrDuplicateRef, c.kind, resourceID, ref)
		}
	}

	if i, found := firstOverlap(entries, interval); found {
		return fmt.Errorf("%w: %s %d, %s conflicts with %s %s",
			ErrOverlap, c.kind, resourceID, interval, entries[i].Ref, entries[i].Range)
	}

	pos := sort.Search(len(entries), func(i int) bool {
		return !entries[i].Range.Start.Before(interval.Start)
	})
	entries = append(entries, Entry{})
	copy(entries[pos+1:], entries[pos:])
	entries[pos] = Entry{Range: interval, Ref: ref}
	c.resources[resourceID] = entries

	return nil
}

// Release удаляет интервал брони из календаря ресурса
// Возвращает false, если бронь не была закоммичена
func (c *Calendar) Release(resourceID int64, ref domain.BookingRef) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	entries := c.resources[resourceID]
	for i, e := range entries {
		if e.Ref != ref {
			continue
		}
		entries = append(entries[:i], entries[i+1:]...)
		if len(entries) == 0 {
			delete(c.resources, resourceID)
		} else {
			c.resources[resourceID] = entries
		}
		return true
	}
	return false
}

// Entries возвращает копию записей ресурса, упорядоченных по началу
func (c *Calendar) Entries(resourceID int64) []Entry {
	c.mu.RLock()
	defer c.mu.RUnlock()

	entries := c.resources[resourceID]
	out := make([]Entry, len(entries))
	copy(out, entries)
	return out
}

// Len возвращает количество записей ресурса
func (c *Calendar) Len(resourceID int64) int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.resources[resourceID])
}

// Reset очищает календарь (перед перестроением проекции)
func (c *Calendar) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.resources = make(map[int64][]Entry)
}

// CheckInvariant проверяет, что записи ресурса упорядочены и не пересекаются
func (c *Calendar) CheckInvariant(resourceID int64) error {
	c.mu.RLock()
	defer c.mu.RUnlock()

	entries := c.resources[resourceID]
	for i := 1; i < len(entries); i++ {
		prev, cur := entries[i-1], entries[i]
		if cur.Range.Start.Before(prev.Range.Start) || prev.Range.Overlaps(cur.Range) {
			return fmt.Errorf("%w: %s %d, %s %s and %s %s",
				ErrOverlap, c.kind, resourceID, prev.Ref, prev.Range, cur.Ref, cur.Range)
		}
	}
	return nil
}

// CheckAll проверяет инвариант для всех ресурсов календаря
func (c *Calendar) CheckAll() error {
	c.mu.RLock()
	ids := make([]int64, 0, len(c.resources))
	for id := range c.resources {
		ids = append(ids, id)
	}
	c.mu.RUnlock()

	for _, id := range ids {
		if err := c.CheckInvariant(id); err != nil {
			return err
		}
	}
	return nil
}

// firstOverlap находит первую запись, которая может пересекаться с candidate:
// первую запись с End > candidate.Start. Пересечение есть, если она начинается до candidate.End
func firstOverlap(entries []Entry, candidate domain.Interval) (int, bool) {
	i := sort.Search(len(entries), func(i int) bool {
		return entries[i].Range.End.After(candidate.Start)
	})
	if i < len(entries) && entries[i].Range.Start.Before(candidate.End) {
		return i, true
	}
	return i, false
}
