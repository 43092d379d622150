// Package availability holds the in-memory projection of trainer availability windows.
package availability

import (
	"sort"
	"sync"

	"github.com/m04kA/SMC-ClubBookingService/internal/domain"
)

// Store окна доступности тренеров
// Окна одного тренера могут пересекаться между собой
type Store struct {
	mu        sync.RWMutex
	byTrainer map[int64][]domain.AvailabilityWindow
	trainerOf map[int64]int64 // windowID -> trainerID
}

// NewStore создает пустое хранилище окон
func NewStore() *Store {
	return &Store{
		byTrainer: make(map[int64][]domain.AvailabilityWindow),
		trainerOf: make(map[int64]int64),
	}
}

// IsAvailable сообщает, содержится ли candidate целиком хотя бы в одном окне тренера
func (s *Store) IsAvailable(trainerID int64, candidate domain.Interval) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, w := range s.byTrainer[trainerID] {
		if w.Range.Start.After(candidate.Start) {
			// окна отсортированы по началу, дальше только более поздние
			break
		}
		if w.Range.Contains(candidate) {
			return true
		}
	}
	return false
}

// Load заменяет содержимое хранилища переданными окнами
func (s *Store) Load(windows []*domain.AvailabilityWindow) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.byTrainer = make(map[int64][]domain.AvailabilityWindow)
	s.trainerOf = make(map[int64]int64)
	for _, w := range windows {
		s.putLocked(*w)
	}
}

// Put добавляет или заменяет окно
func (s *Store) Put(window domain.AvailabilityWindow) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.removeLocked(window.ID)
	s.putLocked(window)
}

// Remove удаляет окно по ID. Возвращает false, если окна нет
func (s *Store) Remove(windowID int64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.removeLocked(windowID)
}

// Windows возвращает окна тренера, упорядоченные по началу
func (s *Store) Windows(trainerID int64) []domain.AvailabilityWindow {
	s.mu.RLock()
	defer s.mu.RUnlock()

	windows := s.byTrainer[trainerID]
	out := make([]domain.AvailabilityWindow, len(windows))
	copy(out, windows)
	return out
}

func (s *Store) putLocked(w domain.AvailabilityWindow) {
	windows := append(s.byTrainer[w.TrainerID], w)
	sort.SliceStable(windows, func(i, j int) bool {
		return windows[i].Range.Start.Before(windows[j].Range.Start)
	})
	s.byTrainer[w.TrainerID] = windows
	s.trainerOf[w.ID] = w.TrainerID
}

func (s *Store) removeLocked(windowID int64) bool {
	trainerID, ok := s.trainerOf[windowID]
	if !ok {
		return false
	}
	delete(s.trainerOf, windowID)

	windows := s.byTrainer[trainerID]
	for i, w := range windows {
		if w.ID == windowID {
			windows = append(windows[:i], windows[i+1:]...)
			break
		}
	}
	if len(windows) == 0 {
		delete(s.byTrainer, trainerID)
	} else {
		s.byTrainer[trainerID] = windows
	}
	return true
}
