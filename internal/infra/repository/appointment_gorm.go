package repository

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/usmoni713/Style-and-Barber/internal/clock"
	domain "github.com/usmoni713/Style-and-Barber/internal/domain/appointment"
	"github.com/usmoni713/Style-and-Barber/internal/httperr"
	"github.com/usmoni713/Style-and-Barber/internal/models"
	"github.com/usmoni713/Style-and-Barber/internal/schedule"
)

type AppointmentGormRepository struct {
	db *gorm.DB
}

func NewAppointmentGormRepository(db *gorm.DB) *AppointmentGormRepository {
	return &AppointmentGormRepository{db: db}
}

// --------------------------------------------------
// Lookups (active rows only)
// --------------------------------------------------

// notFoundOr keeps absence distinct from storage failure: only a genuine
// missing row becomes domain.ErrNotFound, anything else stays an infra
// error and surfaces as a 500.
func notFoundOr(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return domain.ErrNotFound
	}
	return err
}

func (r *AppointmentGormRepository) GetSalon(
	ctx context.Context,
	id uint,
) (*models.Salon, error) {

	var salon models.Salon
	if err := r.db.WithContext(ctx).
		Where("id = ? AND active = ?", id, true).
		First(&salon).Error; err != nil {
		return nil, notFoundOr(err)
	}
	return &salon, nil
}

func (r *AppointmentGormRepository) GetMaster(
	ctx context.Context,
	id uint,
) (*models.Master, error) {

	var master models.Master
	if err := r.db.WithContext(ctx).
		Where("id = ? AND active = ?", id, true).
		First(&master).Error; err != nil {
		return nil, notFoundOr(err)
	}
	return &master, nil
}

func (r *AppointmentGormRepository) GetService(
	ctx context.Context,
	id uint,
) (*models.Service, error) {

	var service models.Service
	if err := r.db.WithContext(ctx).
		Where("id = ? AND active = ?", id, true).
		First(&service).Error; err != nil {
		return nil, notFoundOr(err)
	}
	return &service, nil
}

// --------------------------------------------------
// Associations
// --------------------------------------------------

func (r *AppointmentGormRepository) ListSalonMasterIDs(
	ctx context.Context,
	salonID uint,
) ([]uint, error) {

	var ids []uint
	if err := r.db.WithContext(ctx).
		Model(&models.Master{}).
		Joins("JOIN master_salons ON master_salons.master_id = masters.id").
		Where("master_salons.salon_id = ? AND masters.active = ?", salonID, true).
		Order("masters.id ASC").
		Pluck("masters.id", &ids).Error; err != nil {
		return nil, err
	}
	return ids, nil
}

func (r *AppointmentGormRepository) MasterWorksAt(
	ctx context.Context,
	masterID uint,
	salonID uint,
) (bool, error) {

	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.MasterSalon{}).
		Where("master_id = ? AND salon_id = ?", masterID, salonID).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *AppointmentGormRepository) MasterOffersService(
	ctx context.Context,
	masterID uint,
	serviceID uint,
) (bool, error) {

	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.MasterService{}).
		Where("master_id = ? AND service_id = ?", masterID, serviceID).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// --------------------------------------------------
// Busy set
// --------------------------------------------------

func (r *AppointmentGormRepository) listActiveForDay(
	ctx context.Context,
	masterID uint,
	salonID uint,
	day time.Time,
	forUpdate bool,
) ([]schedule.Interval, error) {

	dayStart := clock.Day(day)
	dayEnd := dayStart.Add(24 * time.Hour)

	// FOR UPDATE on the day's appointment rows alone is not enough: an
	// empty day has no rows to lock, and at READ COMMITTED a transaction
	// blocked on those rows re-reads from a snapshot that predates the
	// winner's insert. Locking the master row first serializes concurrent
	// bookings for the master, and the busy-set statement that follows sees
	// everything committed before the lock was granted.
	if forUpdate {
		var master models.Master
		if err := r.db.WithContext(ctx).
			Clauses(clause.Locking{Strength: "UPDATE"}).
			Select("id").
			First(&master, masterID).Error; err != nil {
			return nil, notFoundOr(err)
		}
	}

	q := r.db.WithContext(ctx).
		Model(&models.Appointment{}).
		Select("start_time", "end_time").
		Where(
			"master_id = ? AND active = ? AND start_time >= ? AND start_time < ?",
			masterID, true, dayStart, dayEnd,
		)

	if salonID > 0 {
		q = q.Where("salon_id = ?", salonID)
	}
	if forUpdate {
		q = q.Clauses(clause.Locking{Strength: "UPDATE"})
	}

	var rows []models.Appointment
	if err := q.Order("start_time ASC").Find(&rows).Error; err != nil {
		return nil, err
	}

	intervals := make([]schedule.Interval, 0, len(rows))
	for _, ap := range rows {
		intervals = append(intervals, schedule.Interval{
			Start: ap.StartTime,
			End:   ap.EndTime,
		})
	}
	return intervals, nil
}

func (r *AppointmentGormRepository) ListActiveIntervalsForDay(
	ctx context.Context,
	masterID uint,
	salonID uint,
	day time.Time,
) ([]schedule.Interval, error) {
	return r.listActiveForDay(ctx, masterID, salonID, day, false)
}

func (r *AppointmentGormRepository) ListActiveIntervalsForUpdate(
	ctx context.Context,
	masterID uint,
	salonID uint,
	day time.Time,
) ([]schedule.Interval, error) {
	return r.listActiveForDay(ctx, masterID, salonID, day, true)
}

// --------------------------------------------------
// Appointment
// --------------------------------------------------

func (r *AppointmentGormRepository) CreateAppointment(
	ctx context.Context,
	ap *models.Appointment,
) error {

	if err := r.db.WithContext(ctx).Create(ap).Error; err != nil {
		// A unique or exclusion constraint on the appointment interval is
		// the storage-level backstop for the overlap invariant.
		if isConstraintConflict(err) {
			return httperr.ErrBusiness(httperr.CodeBookingConflict)
		}
		return err
	}
	return nil
}

func (r *AppointmentGormRepository) GetAppointment(
	ctx context.Context,
	id uint,
) (*models.Appointment, error) {

	var ap models.Appointment
	if err := r.db.WithContext(ctx).First(&ap, id).Error; err != nil {
		return nil, notFoundOr(err)
	}
	return &ap, nil
}

func (r *AppointmentGormRepository) UpdateAppointment(
	ctx context.Context,
	ap *models.Appointment,
) error {
	return r.db.WithContext(ctx).Save(ap).Error
}

func (r *AppointmentGormRepository) ListAppointmentsForClient(
	ctx context.Context,
	clientID uint,
) ([]models.Appointment, error) {

	var aps []models.Appointment
	if err := r.db.WithContext(ctx).
		Preload("Salon").
		Preload("Service").
		Where("client_id = ?", clientID).
		Order("start_time ASC").
		Find(&aps).Error; err != nil {
		return nil, err
	}
	return aps, nil
}

// --------------------------------------------------
// Transaction
// --------------------------------------------------

func (r *AppointmentGormRepository) InTx(
	ctx context.Context,
	fn func(tx domain.Repository) error,
) error {

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&AppointmentGormRepository{db: tx})
	})

	if err != nil && isSerializationFailure(err) {
		return httperr.ErrBusiness(httperr.CodeStorageConflict)
	}
	return err
}

// --------------------------------------------------
// Postgres error classification
// --------------------------------------------------

func isSerializationFailure(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		// serialization_failure, deadlock_detected
		return pgErr.Code == "40001" || pgErr.Code == "40P01"
	}
	return false
}

func isConstraintConflict(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		// unique_violation, exclusion_violation
		return pgErr.Code == "23505" || pgErr.Code == "23P01"
	}
	return false
}

// Compile-time check
var _ domain.Repository = (*AppointmentGormRepository)(nil)
