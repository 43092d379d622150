// Package capacity counts registered seats of class sessions against their capacity.
package capacity

import (
	"fmt"
	"sync"
)

type seats struct {
	capacity int
	members  map[int64]struct{}
}

// Tracker счётчик мест по занятиям
// Инвариант: количество записанных <= capacity
type Tracker struct {
	mu       sync.Mutex
	sessions map[int64]*seats
}

// NewTracker создает пустой трекер
func NewTracker() *Tracker {
	return &Tracker{sessions: make(map[int64]*seats)}
}

// Open начинает учёт мест занятия. Уже записанные участники передаются при восстановлении
func (t *Tracker) Open(sessionID int64, capacity int, members ...int64) error {
	if capacity <= 0 {
		return fmt.Errorf("%w: session %d, capacity %d", ErrInvalidCapacity, sessionID, capacity)
	}
	if len(members) > capacity {
		return fmt.Errorf("%w: session %d has %d registrations for capacity %d",
			ErrCapacityExceeded, sessionID, len(members), capacity)
	}

	set := make(map[int64]struct{}, len(members))
	for _, m := range members {
		set[m] = struct{}{}
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	t.sessions[sessionID] = &seats{capacity: capacity, members: set}
	return nil
}

// Close прекращает учёт мест занятия
func (t *Tracker) Close(sessionID int64) {
	t.mu.Lock()
	defer t.mu.Unlock()
	delete(t.sessions, sessionID)
}

// TryRegister занимает место для участника
func (t *Tracker) TryRegister(sessionID, memberID int64) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	s, ok := t.sessions[sessionID]
	if !ok {
		return fmt.Errorf("%w: session %d", ErrUnknownSession, sessionID)
	}
	if _, dup := s.members[memberID]; dup {
		return fmt.Errorf("%w: session %d, member %d", ErrAlreadyRegistered, sessionID, memberID)
	}
	if len(s.members) >= s.capacity {
		return fmt.Errorf("%w: session %d, %d/%d seats taken",
			ErrCapacityExceeded, sessionID, len(s.members), s.capacity)
	}

	s.members[memberID] = struct{}{}
	return nil
}

// Release освобождает место участника
func (t *Tracker) Release(sessionID, memberID int64) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	s, ok := t.sessions[sessionID]
	if !ok {
		return fmt.Errorf("%w: session %d", ErrUnknownSession, sessionID)
	}
	if _, ok := s.members[memberID]; !ok {
		return fmt.Errorf("%w: session %d, member %d", ErrNotRegistered, sessionID, memberID)
	}

	delete(s.members, memberID)
	return nil
}

// IsRegistered сообщает, записан ли участник на занятие
func (t *Tracker) IsRegistered(sessionID, memberID int64) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	s, ok := t.sessions[sessionID]
	if !ok {
		return false
	}
	_, registered := s.members[memberID]
	return registered
}

// Count возвращает число занятых мест и вместимость. ok=false, если занятие не отслеживается
func (t *Tracker) Count(sessionID int64) (registered int, capacity int, ok bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	s, ok := t.sessions[sessionID]
	if !ok {
		return 0, 0, false
	}
	return len(s.members), s.capacity, true
}

// Reset очищает трекер (перед перестроением проекции)
func (t *Tracker) Reset() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.sessions = make(map[int64]*seats)
}
