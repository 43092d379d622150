// Package projection rebuilds the in-memory calendars, availability store and seat counters from storage.
package projection

import (
	"context"
	"fmt"

	"github.com/m04kA/SMC-ClubBookingService/internal/domain"
)

// Stats итог перестроения проекции
type Stats struct {
	PersonalSessions int
	ClassSessions    int
	Windows          int
	OpenClasses      int
	Registrations    int
}

// Rebuilder перестраивает проекции после рестарта
type Rebuilder struct {
	sessionRepo      SessionRepository
	windowRepo       WindowRepository
	registrationRepo RegistrationRepository
	trainers         Calendar
	rooms            Calendar
	store            WindowStore
	tracker          CapacityTracker
	txManager        TransactionManager
	logger           Logger
}

// NewRebuilder создает новый экземпляр Rebuilder
func NewRebuilder(
	sessionRepo SessionRepository,
	windowRepo WindowRepository,
	registrationRepo RegistrationRepository,
	trainers Calendar,
	rooms Calendar,
	store WindowStore,
	tracker CapacityTracker,
	txManager TransactionManager,
	logger Logger,
) *Rebuilder {
	return &Rebuilder{
		sessionRepo:      sessionRepo,
		windowRepo:       windowRepo,
		registrationRepo: registrationRepo,
		trainers:         trainers,
		rooms:            rooms,
		store:            store,
		tracker:          tracker,
		txManager:        txManager,
		logger:           logger,
	}
}

type snapshot struct {
	personal []*domain.PersonalSession
	classes  []*domain.ClassSession
	windows  []*domain.AvailabilityWindow
	regs     []*domain.ClassRegistration
}

// Rebuild читает активные брони, окна и записи и заменяет ими содержимое проекций
// Должен вызываться до приёма запросов
func (r *Rebuilder) Rebuild(ctx context.Context) (*Stats, error) {
	r.logger.Info("Rebuild: loading state from storage")

	snap, err := r.load(ctx)
	if err != nil {
		r.logger.Error("Rebuild: %v", err)
		return nil, err
	}

	r.trainers.Reset()
	r.rooms.Reset()
	r.tracker.Reset()
	r.store.Load(snap.windows)

	stats := &Stats{
		PersonalSessions: len(snap.personal),
		ClassSessions:    len(snap.classes),
		Windows:          len(snap.windows),
		Registrations:    len(snap.regs),
	}

	for _, s := range snap.personal {
		trainerID := s.TrainerID
		if err := r.commit(s.Ref(), s.Range, &trainerID, s.RoomID); err != nil {
			return nil, err
		}
	}

	members := make(map[int64][]int64)
	for _, reg := range snap.regs {
		members[reg.ClassSessionID] = append(members[reg.ClassSessionID], reg.MemberID)
	}

	for _, s := range snap.classes {
		if err := r.commit(s.Ref(), s.Range, s.TrainerID, s.RoomID); err != nil {
			return nil, err
		}
		if !s.IsScheduled() {
			continue
		}
		if err := r.tracker.Open(s.ID, s.Capacity, members[s.ID]...); err != nil {
			return nil, fmt.Errorf("%w: class session id=%d: %v", ErrCorrupt, s.ID, err)
		}
		stats.OpenClasses++
	}

	if err := r.trainers.CheckAll(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorrupt, err)
	}
	if err := r.rooms.CheckAll(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorrupt, err)
	}

	r.logger.Info("Rebuild: personal=%d, class=%d (open=%d), windows=%d, registrations=%d",
		stats.PersonalSessions, stats.ClassSessions, stats.OpenClasses, stats.Windows, stats.Registrations)
	return stats, nil
}

func (r *Rebuilder) load(ctx context.Context) (*snapshot, error) {
	snap := &snapshot{}
	err := r.txManager.DoReadOnly(ctx, func(txCtx context.Context) error {
		var err error
		// фильтр по умолчанию отбрасывает отменённые занятия
		if snap.personal, err = r.sessionRepo.ListPersonal(txCtx, domain.ScheduleFilter{}); err != nil {
			return fmt.Errorf("%w: personal sessions: %v", ErrLoad, err)
		}
		if snap.classes, err = r.sessionRepo.ListClass(txCtx, domain.ScheduleFilter{}); err != nil {
			return fmt.Errorf("%w: class sessions: %v", ErrLoad, err)
		}
		if snap.windows, err = r.windowRepo.ListAll(txCtx); err != nil {
			return fmt.Errorf("%w: availability windows: %v", ErrLoad, err)
		}
		if snap.regs, err = r.registrationRepo.ListForScheduledSessions(txCtx); err != nil {
			return fmt.Errorf("%w: registrations: %v", ErrLoad, err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return snap, nil
}

func (r *Rebuilder) commit(ref domain.BookingRef, interval domain.Interval, trainerID, roomID *int64) error {
	if trainerID != nil {
		if err := r.trainers.Commit(*trainerID, interval, ref); err != nil {
			return fmt.Errorf("%w: %s on trainer=%d: %v", ErrCorrupt, ref, *trainerID, err)
		}
	}
	if roomID != nil {
		if err := r.rooms.Commit(*roomID, interval, ref); err != nil {
			return fmt.Errorf("%w: %s on room=%d: %v", ErrCorrupt, ref, *roomID, err)
		}
	}
	return nil
}
