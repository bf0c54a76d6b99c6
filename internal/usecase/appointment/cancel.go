package appointment

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/usmoni713/Style-and-Barber/internal/audit"
	"github.com/usmoni713/Style-and-Barber/internal/clock"
	domain "github.com/usmoni713/Style-and-Barber/internal/domain/appointment"
	"github.com/usmoni713/Style-and-Barber/internal/httperr"
	"github.com/usmoni713/Style-and-Barber/internal/models"
	"github.com/usmoni713/Style-and-Barber/internal/slotcache"
)

type CancelAppointment struct {
	repo  domain.Repository
	audit *audit.Dispatcher
	cache *slotcache.Cache
	log   *zap.Logger

	now func() time.Time
}

func NewCancelAppointment(
	repo domain.Repository,
	auditDispatcher *audit.Dispatcher,
	cache *slotcache.Cache,
	log *zap.Logger,
) *CancelAppointment {
	return &CancelAppointment{
		repo:  repo,
		audit: auditDispatcher,
		cache: cache,
		log:   log,
		now:   clock.Now,
	}
}

func (uc *CancelAppointment) Execute(
	ctx context.Context,
	appointmentID uint,
	clientID uint,
) (*models.Appointment, error) {

	ap, err := uc.repo.GetAppointment(ctx, appointmentID)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, httperr.ErrBusiness(httperr.CodeAppointmentNotFound)
	} else if err != nil {
		return nil, err
	}

	if err := domain.Cancel(ap, clientID, uc.now()); err != nil {
		return nil, err
	}

	if err := uc.repo.UpdateAppointment(ctx, ap); err != nil {
		return nil, err
	}

	// Availability is derived from active rows; invalidating the slot cache
	// is all it takes to make the interval bookable again.
	uc.cache.Invalidate(ctx, ap.MasterID, clock.Day(ap.StartTime))

	uc.audit.Dispatch(audit.Event{
		SalonID:  ap.SalonID,
		UserID:   &clientID,
		Action:   "appointment_cancelled",
		Entity:   "appointment",
		EntityID: &ap.ID,
	})

	uc.log.Info("appointment cancelled",
		zap.Uint("appointment_id", ap.ID),
		zap.Uint("client_id", clientID),
	)

	return ap, nil
}
