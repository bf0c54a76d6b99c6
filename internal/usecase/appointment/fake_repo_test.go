package appointment

import (
	"context"
	"sync"
	"time"

	"github.com/usmoni713/Style-and-Barber/internal/clock"
	domain "github.com/usmoni713/Style-and-Barber/internal/domain/appointment"
	"github.com/usmoni713/Style-and-Barber/internal/httperr"
	"github.com/usmoni713/Style-and-Barber/internal/models"
	"github.com/usmoni713/Style-and-Barber/internal/schedule"
)

// fakeRepo is an in-memory Repository. InTx takes a single mutex for the
// whole callback, which gives the same effect as the master-row lock the
// real repository takes: concurrent booking transactions serialize.
type fakeRepo struct {
	mu sync.Mutex

	salons   map[uint]*models.Salon
	masters  map[uint]*models.Master
	services map[uint]*models.Service

	masterSalons   map[[2]uint]bool
	masterServices map[[2]uint]bool

	appointments []*models.Appointment
	nextID       uint

	updateCalls int

	// txDeadlocks makes the next n InTx calls fail the way a detected
	// deadlock does, to exercise the bounded retry.
	txDeadlocks int
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		salons:         make(map[uint]*models.Salon),
		masters:        make(map[uint]*models.Master),
		services:       make(map[uint]*models.Service),
		masterSalons:   make(map[[2]uint]bool),
		masterServices: make(map[[2]uint]bool),
		nextID:         1,
	}
}

func (f *fakeRepo) seedSalon(id uint) {
	f.salons[id] = &models.Salon{ID: id, Title: "salon", Active: true}
}

func (f *fakeRepo) seedMaster(id uint, salonIDs, serviceIDs []uint) {
	f.masters[id] = &models.Master{ID: id, Active: true}
	for _, s := range salonIDs {
		f.masterSalons[[2]uint{id, s}] = true
	}
	for _, s := range serviceIDs {
		f.masterServices[[2]uint{id, s}] = true
	}
}

func (f *fakeRepo) seedService(id uint, durationMin int) {
	f.services[id] = &models.Service{ID: id, DurationMinutes: durationMin, Active: true}
}

func (f *fakeRepo) seedAppointment(ap models.Appointment) *models.Appointment {
	cp := ap
	cp.ID = f.nextID
	f.nextID++
	f.appointments = append(f.appointments, &cp)
	return &cp
}

func (f *fakeRepo) GetSalon(_ context.Context, id uint) (*models.Salon, error) {
	if s, ok := f.salons[id]; ok && s.Active {
		return s, nil
	}
	return nil, domain.ErrNotFound
}

func (f *fakeRepo) GetMaster(_ context.Context, id uint) (*models.Master, error) {
	if m, ok := f.masters[id]; ok && m.Active {
		return m, nil
	}
	return nil, domain.ErrNotFound
}

func (f *fakeRepo) GetService(_ context.Context, id uint) (*models.Service, error) {
	if s, ok := f.services[id]; ok && s.Active {
		return s, nil
	}
	return nil, domain.ErrNotFound
}

func (f *fakeRepo) ListSalonMasterIDs(_ context.Context, salonID uint) ([]uint, error) {
	var ids []uint
	for key := range f.masterSalons {
		if key[1] == salonID && f.masters[key[0]] != nil && f.masters[key[0]].Active {
			ids = append(ids, key[0])
		}
	}
	return ids, nil
}

func (f *fakeRepo) MasterWorksAt(_ context.Context, masterID, salonID uint) (bool, error) {
	return f.masterSalons[[2]uint{masterID, salonID}], nil
}

func (f *fakeRepo) MasterOffersService(_ context.Context, masterID, serviceID uint) (bool, error) {
	return f.masterServices[[2]uint{masterID, serviceID}], nil
}

func (f *fakeRepo) listActive(masterID, salonID uint, day time.Time) []schedule.Interval {
	var out []schedule.Interval
	for _, ap := range f.appointments {
		if !ap.Active || ap.MasterID != masterID {
			continue
		}
		if salonID > 0 && ap.SalonID != salonID {
			continue
		}
		if !clock.Day(ap.StartTime).Equal(clock.Day(day)) {
			continue
		}
		out = append(out, schedule.Interval{Start: ap.StartTime, End: ap.EndTime})
	}
	return out
}

func (f *fakeRepo) ListActiveIntervalsForDay(_ context.Context, masterID, salonID uint, day time.Time) ([]schedule.Interval, error) {
	return f.listActive(masterID, salonID, day), nil
}

func (f *fakeRepo) ListActiveIntervalsForUpdate(_ context.Context, masterID, salonID uint, day time.Time) ([]schedule.Interval, error) {
	return f.listActive(masterID, salonID, day), nil
}

func (f *fakeRepo) CreateAppointment(_ context.Context, ap *models.Appointment) error {
	// Mirrors the partial unique index on active (master_id, start_time).
	for _, other := range f.appointments {
		if other.Active && other.MasterID == ap.MasterID && other.StartTime.Equal(ap.StartTime) {
			return httperr.ErrBusiness(httperr.CodeBookingConflict)
		}
	}

	ap.ID = f.nextID
	f.nextID++
	ap.CreatedAt = time.Now()
	f.appointments = append(f.appointments, ap)
	return nil
}

func (f *fakeRepo) GetAppointment(_ context.Context, id uint) (*models.Appointment, error) {
	for _, ap := range f.appointments {
		if ap.ID == id {
			return ap, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (f *fakeRepo) UpdateAppointment(_ context.Context, _ *models.Appointment) error {
	f.updateCalls++
	return nil
}

func (f *fakeRepo) ListAppointmentsForClient(_ context.Context, clientID uint) ([]models.Appointment, error) {
	var out []models.Appointment
	for _, ap := range f.appointments {
		if ap.ClientID == clientID {
			out = append(out, *ap)
		}
	}
	return out, nil
}

func (f *fakeRepo) InTx(_ context.Context, fn func(tx domain.Repository) error) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.txDeadlocks > 0 {
		f.txDeadlocks--
		return httperr.ErrBusiness(httperr.CodeStorageConflict)
	}
	return fn(f)
}

var _ domain.Repository = (*fakeRepo)(nil)

// erroringRepo fails lookups with a storage error instead of absence.
type erroringRepo struct {
	*fakeRepo
	err error
}

func (r *erroringRepo) GetSalon(context.Context, uint) (*models.Salon, error) {
	return nil, r.err
}

func (r *erroringRepo) GetAppointment(context.Context, uint) (*models.Appointment, error) {
	return nil, r.err
}

// staleReadRepo reports an empty busy set to the booking transaction while
// the underlying store still holds its rows, the way a stale snapshot
// would. Only the storage constraint stands between it and a double
// booking.
type staleReadRepo struct {
	*fakeRepo
}

func (r *staleReadRepo) ListActiveIntervalsForUpdate(context.Context, uint, uint, time.Time) ([]schedule.Interval, error) {
	return nil, nil
}

func (r *staleReadRepo) InTx(_ context.Context, fn func(tx domain.Repository) error) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return fn(r)
}
