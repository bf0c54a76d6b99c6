package appointment

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	domain "github.com/usmoni713/Style-and-Barber/internal/domain/appointment"
	"github.com/usmoni713/Style-and-Barber/internal/httperr"
	"github.com/usmoni713/Style-and-Barber/internal/models"
)

func newCreateUC(repo domain.Repository, scope domain.ConflictScope) *CreateAppointment {
	return NewCreateAppointment(repo, nil, nil, scope, zap.NewNop())
}

func seededRepo() *fakeRepo {
	repo := newFakeRepo()
	repo.seedSalon(1)
	repo.seedService(10, 60)
	repo.seedMaster(100, []uint{1}, []uint{10})
	return repo
}

func createInput(start time.Time) CreateAppointmentInput {
	return CreateAppointmentInput{
		ClientID:  7,
		SalonID:   1,
		MasterID:  100,
		ServiceID: 10,
		Start:     start,
		Comment:   "first visit",
	}
}

func TestCreateAppointmentSuccess(t *testing.T) {
	repo := seededRepo()
	uc := newCreateUC(repo, domain.ScopeMaster)

	start := time.Date(2030, 5, 20, 11, 0, 0, 0, time.UTC)
	ap, err := uc.Execute(context.Background(), createInput(start))
	require.NoError(t, err)

	assert.NotZero(t, ap.ID)
	assert.NotEmpty(t, ap.Ref)
	assert.Equal(t, uint(7), ap.ClientID)
	assert.Equal(t, start, ap.StartTime)
	assert.Equal(t, start.Add(time.Hour), ap.EndTime)
	assert.True(t, ap.Active)
	assert.True(t, ap.Confirmed)
	assert.Equal(t, "first visit", ap.Comment)
}

func TestCreateAppointmentConflict(t *testing.T) {
	repo := seededRepo()
	uc := newCreateUC(repo, domain.ScopeMaster)
	ctx := context.Background()

	start := time.Date(2030, 5, 20, 11, 0, 0, 0, time.UTC)
	_, err := uc.Execute(ctx, createInput(start))
	require.NoError(t, err)

	// fully overlapping
	_, err = uc.Execute(ctx, createInput(start))
	assert.True(t, httperr.IsBusiness(err, httperr.CodeBookingConflict))

	// partially overlapping
	_, err = uc.Execute(ctx, createInput(start.Add(30*time.Minute)))
	assert.True(t, httperr.IsBusiness(err, httperr.CodeBookingConflict))
}

func TestCreateAppointmentBackToBackAllowed(t *testing.T) {
	repo := seededRepo()
	uc := newCreateUC(repo, domain.ScopeMaster)
	ctx := context.Background()

	start := time.Date(2030, 5, 20, 11, 0, 0, 0, time.UTC)
	_, err := uc.Execute(ctx, createInput(start))
	require.NoError(t, err)

	_, err = uc.Execute(ctx, createInput(start.Add(time.Hour)))
	assert.NoError(t, err)

	_, err = uc.Execute(ctx, createInput(start.Add(-time.Hour)))
	assert.NoError(t, err)
}

func TestCreateAppointmentPreconditions(t *testing.T) {
	start := time.Date(2030, 5, 20, 11, 0, 0, 0, time.UTC)

	t.Run("salon missing", func(t *testing.T) {
		repo := seededRepo()
		uc := newCreateUC(repo, domain.ScopeMaster)
		in := createInput(start)
		in.SalonID = 99
		_, err := uc.Execute(context.Background(), in)
		assert.True(t, httperr.IsBusiness(err, httperr.CodeSalonNotFound))
	})

	t.Run("master missing", func(t *testing.T) {
		repo := seededRepo()
		uc := newCreateUC(repo, domain.ScopeMaster)
		in := createInput(start)
		in.MasterID = 99
		_, err := uc.Execute(context.Background(), in)
		assert.True(t, httperr.IsBusiness(err, httperr.CodeMasterNotFound))
	})

	t.Run("service missing", func(t *testing.T) {
		repo := seededRepo()
		uc := newCreateUC(repo, domain.ScopeMaster)
		in := createInput(start)
		in.ServiceID = 99
		_, err := uc.Execute(context.Background(), in)
		assert.True(t, httperr.IsBusiness(err, httperr.CodeServiceNotFound))
	})

	t.Run("inactive service", func(t *testing.T) {
		repo := seededRepo()
		repo.services[10].Active = false
		uc := newCreateUC(repo, domain.ScopeMaster)
		_, err := uc.Execute(context.Background(), createInput(start))
		assert.True(t, httperr.IsBusiness(err, httperr.CodeServiceNotFound))
	})

	t.Run("master not at salon", func(t *testing.T) {
		repo := seededRepo()
		repo.seedSalon(2)
		uc := newCreateUC(repo, domain.ScopeMaster)
		in := createInput(start)
		in.SalonID = 2
		_, err := uc.Execute(context.Background(), in)
		assert.True(t, httperr.IsBusiness(err, httperr.CodeInvalidRequest))
	})

	t.Run("master does not offer service", func(t *testing.T) {
		repo := seededRepo()
		repo.seedService(11, 30)
		uc := newCreateUC(repo, domain.ScopeMaster)
		in := createInput(start)
		in.ServiceID = 11
		_, err := uc.Execute(context.Background(), in)
		assert.True(t, httperr.IsBusiness(err, httperr.CodeInvalidRequest))
	})

	t.Run("non-positive duration", func(t *testing.T) {
		repo := seededRepo()
		repo.services[10].DurationMinutes = 0
		uc := newCreateUC(repo, domain.ScopeMaster)
		_, err := uc.Execute(context.Background(), createInput(start))
		assert.True(t, httperr.IsBusiness(err, httperr.CodeInvalidRequest))
	})
}

func TestCreateAppointmentCrossSalonScope(t *testing.T) {
	start := time.Date(2030, 5, 20, 11, 0, 0, 0, time.UTC)

	setup := func() *fakeRepo {
		repo := seededRepo()
		repo.seedSalon(2)
		repo.masterSalons[[2]uint{100, 2}] = true
		repo.seedAppointment(models.Appointment{
			ClientID: 8, SalonID: 2, MasterID: 100, ServiceID: 10,
			StartTime: start, EndTime: start.Add(time.Hour), Active: true,
		})
		return repo
	}

	// Under master scope the booking at salon 2 blocks salon 1.
	uc := newCreateUC(setup(), domain.ScopeMaster)
	_, err := uc.Execute(context.Background(), createInput(start))
	assert.True(t, httperr.IsBusiness(err, httperr.CodeBookingConflict))

	// The legacy per-salon scope lets it through.
	uc = newCreateUC(setup(), domain.ScopeMasterSalon)
	_, err = uc.Execute(context.Background(), createInput(start))
	assert.NoError(t, err)
}

func TestCreateAppointmentRetriesDeadlocks(t *testing.T) {
	repo := seededRepo()
	repo.txDeadlocks = 2
	uc := newCreateUC(repo, domain.ScopeMaster)

	start := time.Date(2030, 5, 20, 11, 0, 0, 0, time.UTC)
	ap, err := uc.Execute(context.Background(), createInput(start))
	require.NoError(t, err)

	assert.NotZero(t, ap.ID)
	assert.Zero(t, repo.txDeadlocks)
}

func TestCreateAppointmentDeadlockRetriesAreBounded(t *testing.T) {
	repo := seededRepo()
	repo.txDeadlocks = 3
	uc := newCreateUC(repo, domain.ScopeMaster)

	start := time.Date(2030, 5, 20, 11, 0, 0, 0, time.UTC)
	_, err := uc.Execute(context.Background(), createInput(start))

	assert.True(t, httperr.IsBusiness(err, httperr.CodeBookingConflict))
	assert.Empty(t, repo.appointments)
}

func TestCreateAppointmentConstraintBackstop(t *testing.T) {
	base := seededRepo()
	repo := &staleReadRepo{fakeRepo: base}
	uc := newCreateUC(repo, domain.ScopeMaster)
	ctx := context.Background()

	start := time.Date(2030, 5, 20, 11, 0, 0, 0, time.UTC)
	_, err := uc.Execute(ctx, createInput(start))
	require.NoError(t, err)

	// the busy-set read misses the first booking, the storage constraint
	// still rejects the duplicate
	_, err = uc.Execute(ctx, createInput(start))
	assert.True(t, httperr.IsBusiness(err, httperr.CodeBookingConflict))

	var active int
	for _, ap := range base.appointments {
		if ap.Active {
			active++
		}
	}
	assert.Equal(t, 1, active)
}

func TestCreateAppointmentStorageErrorIsNotAbsence(t *testing.T) {
	repo := &erroringRepo{fakeRepo: seededRepo(), err: errors.New("connection refused")}
	uc := newCreateUC(repo, domain.ScopeMaster)

	start := time.Date(2030, 5, 20, 11, 0, 0, 0, time.UTC)
	_, err := uc.Execute(context.Background(), createInput(start))
	require.Error(t, err)

	_, isBusiness := httperr.BusinessCode(err)
	assert.False(t, isBusiness)
}

func TestConcurrentBookingRace(t *testing.T) {
	repo := seededRepo()
	uc := newCreateUC(repo, domain.ScopeMaster)
	start := time.Date(2030, 5, 20, 11, 0, 0, 0, time.UTC)

	results := make(chan error, 2)
	var wg sync.WaitGroup
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := uc.Execute(context.Background(), createInput(start))
			results <- err
		}()
	}
	wg.Wait()
	close(results)

	var successes, conflicts int
	for err := range results {
		switch {
		case err == nil:
			successes++
		case httperr.IsBusiness(err, httperr.CodeBookingConflict):
			conflicts++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}

	assert.Equal(t, 1, successes)
	assert.Equal(t, 1, conflicts)

	// the invariant held: the winner's interval is the only active one
	var active int
	for _, ap := range repo.appointments {
		if ap.Active {
			active++
		}
	}
	assert.Equal(t, 1, active)
}
