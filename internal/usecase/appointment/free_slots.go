package appointment

import (
	"context"
	"errors"
	"time"

	"github.com/usmoni713/Style-and-Barber/internal/clock"
	domain "github.com/usmoni713/Style-and-Barber/internal/domain/appointment"
	"github.com/usmoni713/Style-and-Barber/internal/httperr"
	"github.com/usmoni713/Style-and-Barber/internal/schedule"
	"github.com/usmoni713/Style-and-Barber/internal/slotcache"
)

type GetFreeSlots struct {
	repo   domain.Repository
	cache  *slotcache.Cache
	policy schedule.Policy
	scope  domain.ConflictScope

	now func() time.Time
}

func NewGetFreeSlots(
	repo domain.Repository,
	cache *slotcache.Cache,
	policy schedule.Policy,
	scope domain.ConflictScope,
) *GetFreeSlots {
	return &GetFreeSlots{
		repo:   repo,
		cache:  cache,
		policy: policy,
		scope:  scope,
		now:    clock.Now,
	}
}

// Execute enumerates the bookable slots per master for one salon, service
// and day. The read is snapshot-only: a returned slot can go stale the
// moment someone books it, and the race is resolved by the booking
// transaction, not here.
func (uc *GetFreeSlots) Execute(
	ctx context.Context,
	in domain.FreeSlotsInput,
) ([]domain.MasterSlots, error) {

	if _, err := uc.repo.GetSalon(ctx, in.SalonID); errors.Is(err, domain.ErrNotFound) {
		return nil, httperr.ErrBusiness(httperr.CodeSalonNotFound)
	} else if err != nil {
		return nil, err
	}

	service, err := uc.repo.GetService(ctx, in.ServiceID)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, httperr.ErrBusiness(httperr.CodeServiceNotFound)
	} else if err != nil {
		return nil, err
	}
	if service.DurationMinutes <= 0 {
		return nil, httperr.ErrBusiness(httperr.CodeInvalidRequest)
	}
	duration := time.Duration(service.DurationMinutes) * time.Minute

	// Having no masters at all is a distinct condition from every master
	// being fully booked.
	masterIDs, err := uc.resolveMasters(ctx, in)
	if err != nil {
		return nil, err
	}

	policy := uc.policy
	if in.MinLeadHours > 0 {
		policy = policy.WithLeadTime(time.Duration(in.MinLeadHours) * time.Hour)
	}

	now := uc.now()
	result := make([]domain.MasterSlots, 0, len(masterIDs))

	for _, masterID := range masterIDs {
		if slots, ok := uc.cache.Get(ctx, in, masterID); ok {
			result = append(result, domain.MasterSlots{MasterID: masterID, Slots: slots})
			continue
		}

		busy, err := uc.repo.ListActiveIntervalsForDay(
			ctx,
			masterID,
			uc.scope.SalonFilter(in.SalonID),
			in.Day,
		)
		if err != nil {
			return nil, err
		}

		cal := schedule.NewCalendar(clock.Day(in.Day), busy)
		free := cal.FreeSlots(policy, duration, now)

		slots := make([]domain.TimeSlot, 0, len(free))
		for _, s := range free {
			slots = append(slots, domain.TimeSlot{
				Start: s.Start.Format(clock.DateTimeLayout),
				End:   s.End.Format(clock.DateTimeLayout),
			})
		}

		uc.cache.Set(ctx, in, masterID, slots)
		result = append(result, domain.MasterSlots{MasterID: masterID, Slots: slots})
	}

	return result, nil
}

func (uc *GetFreeSlots) resolveMasters(
	ctx context.Context,
	in domain.FreeSlotsInput,
) ([]uint, error) {

	if in.MasterID > 0 {
		master, err := uc.repo.GetMaster(ctx, in.MasterID)
		if errors.Is(err, domain.ErrNotFound) {
			return nil, httperr.ErrBusiness(httperr.CodeMastersNotFound)
		} else if err != nil {
			return nil, err
		}
		return []uint{master.ID}, nil
	}

	ids, err := uc.repo.ListSalonMasterIDs(ctx, in.SalonID)
	if err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return nil, httperr.ErrBusiness(httperr.CodeMastersNotFound)
	}
	return ids, nil
}
