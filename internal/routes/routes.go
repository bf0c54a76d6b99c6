package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/usmoni713/Style-and-Barber/internal/audit"
	"github.com/usmoni713/Style-and-Barber/internal/config"
	"github.com/usmoni713/Style-and-Barber/internal/handlers"
	infraRepo "github.com/usmoni713/Style-and-Barber/internal/infra/repository"
	"github.com/usmoni713/Style-and-Barber/internal/middleware"
	"github.com/usmoni713/Style-and-Barber/internal/slotcache"
	ucAppointment "github.com/usmoni713/Style-and-Barber/internal/usecase/appointment"
)

func RegisterRoutes(
	r *gin.Engine,
	db *gorm.DB,
	rdb *redis.Client,
	cfg *config.Config,
	log *zap.Logger,
) {

	// ======================================================
	// INFRA (SINGLETONS)
	// ======================================================
	appointmentRepo := infraRepo.NewAppointmentGormRepository(db)

	auditLogger := audit.New(db)
	auditDispatcher := audit.NewDispatcher(auditLogger, log)

	slotCache := slotcache.New(rdb, cfg.SlotCacheTTL, log)

	// ======================================================
	// USE CASES — APPOINTMENTS
	// ======================================================
	createAppointmentUC := ucAppointment.NewCreateAppointment(
		appointmentRepo,
		auditDispatcher,
		slotCache,
		cfg.ConflictScope,
		log,
	)

	cancelAppointmentUC := ucAppointment.NewCancelAppointment(
		appointmentRepo,
		auditDispatcher,
		slotCache,
		log,
	)

	freeSlotsUC := ucAppointment.NewGetFreeSlots(
		appointmentRepo,
		slotCache,
		cfg.Policy(),
		cfg.ConflictScope,
	)

	listAppointmentsUC := ucAppointment.NewListClientAppointments(
		appointmentRepo,
	)

	// ======================================================
	// HANDLERS
	// ======================================================
	authHandler := handlers.NewAuthHandler(db, cfg)
	appointmentHandler := handlers.NewAppointmentHandler(
		createAppointmentUC,
		cancelAppointmentUC,
		freeSlotsUC,
		listAppointmentsUC,
	)

	// ======================================================
	// API (JSON)
	// ======================================================
	api := r.Group("/api/v1")
	{
		api.POST("/users/signup", authHandler.Signup)
		api.POST("/users/login", authHandler.Login)

		api.GET("/appointments/free-slots", appointmentHandler.FreeSlots)

		secured := api.Group("/users")
		secured.Use(middleware.AuthMiddleware(cfg))
		{
			secured.GET("/appointments", appointmentHandler.ListMine)
			secured.POST("/appointments", appointmentHandler.Create)
			secured.DELETE("/appointments/:id", appointmentHandler.Cancel)
		}
	}
}
