package appointment

import (
	"context"
	"errors"
	"time"

	"github.com/usmoni713/Style-and-Barber/internal/models"
	"github.com/usmoni713/Style-and-Barber/internal/schedule"
)

// ErrNotFound is returned by lookups when the row does not exist or is
// inactive. Any other lookup error is a storage failure and must not be
// presented as absence.
var ErrNotFound = errors.New("record not found")

// Repository is the narrow persistence interface the scheduling engine
// consumes. Lookups of salon, master and service only return active rows.
//
// A salonID of zero in the interval listings means "any salon": the busy set
// is then scoped to the master alone, which is what prevents cross-salon
// double booking (see ConflictScope).
type Repository interface {
	// -------- Lookups --------
	GetSalon(
		ctx context.Context,
		id uint,
	) (*models.Salon, error)

	GetMaster(
		ctx context.Context,
		id uint,
	) (*models.Master, error)

	GetService(
		ctx context.Context,
		id uint,
	) (*models.Service, error)

	// -------- Associations --------
	ListSalonMasterIDs(
		ctx context.Context,
		salonID uint,
	) ([]uint, error)

	MasterWorksAt(
		ctx context.Context,
		masterID uint,
		salonID uint,
	) (bool, error)

	MasterOffersService(
		ctx context.Context,
		masterID uint,
		serviceID uint,
	) (bool, error)

	// -------- Busy set --------
	ListActiveIntervalsForDay(
		ctx context.Context,
		masterID uint,
		salonID uint,
		day time.Time,
	) ([]schedule.Interval, error)

	// ListActiveIntervalsForUpdate is the same read taken under a row-level
	// lock. Only meaningful inside InTx, where it serializes concurrent
	// bookings for the same master and day.
	ListActiveIntervalsForUpdate(
		ctx context.Context,
		masterID uint,
		salonID uint,
		day time.Time,
	) ([]schedule.Interval, error)

	// -------- Appointment --------
	CreateAppointment(
		ctx context.Context,
		ap *models.Appointment,
	) error

	GetAppointment(
		ctx context.Context,
		id uint,
	) (*models.Appointment, error)

	UpdateAppointment(
		ctx context.Context,
		ap *models.Appointment,
	) error

	ListAppointmentsForClient(
		ctx context.Context,
		clientID uint,
	) ([]models.Appointment, error)

	// -------- Transaction --------
	// InTx runs fn against a repository bound to one storage transaction.
	// Every read and write inside fn either commits as a unit or not at
	// all; the handle is released on every exit path.
	InTx(
		ctx context.Context,
		fn func(tx Repository) error,
	) error
}
