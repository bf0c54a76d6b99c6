package appointment

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/usmoni713/Style-and-Barber/internal/audit"
	"github.com/usmoni713/Style-and-Barber/internal/clock"
	domain "github.com/usmoni713/Style-and-Barber/internal/domain/appointment"
	"github.com/usmoni713/Style-and-Barber/internal/httperr"
	"github.com/usmoni713/Style-and-Barber/internal/models"
	"github.com/usmoni713/Style-and-Barber/internal/schedule"
	"github.com/usmoni713/Style-and-Barber/internal/slotcache"
)

// Bounded retry for storage serialization failures only. Business conflicts
// are never retried; recomputing nothing would change the outcome.
const maxBookingAttempts = 3

// ======================================================
// INPUT
// ======================================================

type CreateAppointmentInput struct {
	ClientID  uint
	SalonID   uint
	MasterID  uint
	ServiceID uint

	Start   time.Time
	Comment string
}

// ======================================================
// USE CASE
// ======================================================

type CreateAppointment struct {
	repo  domain.Repository
	audit *audit.Dispatcher
	cache *slotcache.Cache
	scope domain.ConflictScope
	log   *zap.Logger
}

func NewCreateAppointment(
	repo domain.Repository,
	auditDispatcher *audit.Dispatcher,
	cache *slotcache.Cache,
	scope domain.ConflictScope,
	log *zap.Logger,
) *CreateAppointment {
	return &CreateAppointment{
		repo:  repo,
		audit: auditDispatcher,
		cache: cache,
		scope: scope,
		log:   log,
	}
}

// ======================================================
// EXECUTE
// ======================================================

func (uc *CreateAppointment) Execute(
	ctx context.Context,
	in CreateAppointmentInput,
) (*models.Appointment, error) {

	salon, err := uc.repo.GetSalon(ctx, in.SalonID)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, httperr.ErrBusiness(httperr.CodeSalonNotFound)
	} else if err != nil {
		return nil, err
	}

	master, err := uc.repo.GetMaster(ctx, in.MasterID)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, httperr.ErrBusiness(httperr.CodeMasterNotFound)
	} else if err != nil {
		return nil, err
	}

	service, err := uc.repo.GetService(ctx, in.ServiceID)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, httperr.ErrBusiness(httperr.CodeServiceNotFound)
	} else if err != nil {
		return nil, err
	}

	worksAt, err := uc.repo.MasterWorksAt(ctx, master.ID, salon.ID)
	if err != nil {
		return nil, err
	}
	offers, err := uc.repo.MasterOffersService(ctx, master.ID, service.ID)
	if err != nil {
		return nil, err
	}
	if !worksAt || !offers {
		return nil, httperr.ErrBusiness(httperr.CodeInvalidRequest)
	}

	if service.DurationMinutes <= 0 {
		return nil, httperr.ErrBusiness(httperr.CodeInvalidRequest)
	}

	// EndTime snapshots the service duration at booking time.
	candidate, err := schedule.NewInterval(
		in.Start,
		in.Start.Add(time.Duration(service.DurationMinutes)*time.Minute),
	)
	if err != nil {
		return nil, httperr.ErrBusiness(httperr.CodeInvalidRequest)
	}

	day := clock.Day(in.Start)
	created, err := uc.reserve(ctx, in, candidate, day)

	if err != nil {
		if httperr.IsBusiness(err, httperr.CodeBookingConflict) {
			uc.audit.Dispatch(audit.Event{
				SalonID:  in.SalonID,
				UserID:   &in.ClientID,
				Action:   "appointment_conflict",
				Entity:   "appointment",
				Metadata: map[string]any{"start": candidate.Start, "end": candidate.End},
			})
		}
		return nil, err
	}

	uc.cache.Invalidate(ctx, in.MasterID, day)

	uc.audit.Dispatch(audit.Event{
		SalonID:  in.SalonID,
		UserID:   &in.ClientID,
		Action:   "appointment_created",
		Entity:   "appointment",
		EntityID: &created.ID,
	})

	uc.log.Info("appointment created",
		zap.Uint("appointment_id", created.ID),
		zap.Uint("master_id", created.MasterID),
		zap.Time("start", created.StartTime),
	)

	return created, nil
}

// reserve runs the check-then-act sequence as one storage transaction: lock
// the master's day, rebuild the calendar, verify the candidate is still free
// and insert. Concurrent overlapping requests serialize on the row lock, so
// at most one of them can commit.
func (uc *CreateAppointment) reserve(
	ctx context.Context,
	in CreateAppointmentInput,
	candidate schedule.Interval,
	day time.Time,
) (*models.Appointment, error) {

	var created *models.Appointment
	var err error

	for attempt := 1; attempt <= maxBookingAttempts; attempt++ {

		err = uc.repo.InTx(ctx, func(tx domain.Repository) error {
			busy, txErr := tx.ListActiveIntervalsForUpdate(
				ctx,
				in.MasterID,
				uc.scope.SalonFilter(in.SalonID),
				day,
			)
			if txErr != nil {
				return txErr
			}

			cal := schedule.NewCalendar(day, busy)
			if !cal.IsFree(candidate) {
				return httperr.ErrBusiness(httperr.CodeBookingConflict)
			}

			ap := &models.Appointment{
				Ref:       uuid.NewString(),
				ClientID:  in.ClientID,
				SalonID:   in.SalonID,
				MasterID:  in.MasterID,
				ServiceID: in.ServiceID,
				StartTime: candidate.Start,
				EndTime:   candidate.End,
				Active:    true,
				Confirmed: true,
				Comment:   in.Comment,
			}

			if txErr := tx.CreateAppointment(ctx, ap); txErr != nil {
				return txErr
			}

			created = ap
			return nil
		})

		if !httperr.IsBusiness(err, httperr.CodeStorageConflict) {
			break
		}
		uc.log.Warn("booking transaction serialization conflict, retrying",
			zap.Uint("master_id", in.MasterID),
			zap.Int("attempt", attempt),
		)
	}

	if httperr.IsBusiness(err, httperr.CodeStorageConflict) {
		return nil, httperr.ErrBusiness(httperr.CodeBookingConflict)
	}
	if err != nil {
		return nil, err
	}
	return created, nil
}
