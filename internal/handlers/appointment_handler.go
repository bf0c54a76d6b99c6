package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/usmoni713/Style-and-Barber/internal/clock"
	domain "github.com/usmoni713/Style-and-Barber/internal/domain/appointment"
	"github.com/usmoni713/Style-and-Barber/internal/httperr"
	"github.com/usmoni713/Style-and-Barber/internal/httpresp"
	"github.com/usmoni713/Style-and-Barber/internal/middleware"
	ucAppointment "github.com/usmoni713/Style-and-Barber/internal/usecase/appointment"
)

// ======================================================
// HANDLER
// ======================================================

type AppointmentHandler struct {
	createUC    *ucAppointment.CreateAppointment
	cancelUC    *ucAppointment.CancelAppointment
	freeSlotsUC *ucAppointment.GetFreeSlots
	listUC      *ucAppointment.ListClientAppointments
}

func NewAppointmentHandler(
	createUC *ucAppointment.CreateAppointment,
	cancelUC *ucAppointment.CancelAppointment,
	freeSlotsUC *ucAppointment.GetFreeSlots,
	listUC *ucAppointment.ListClientAppointments,
) *AppointmentHandler {
	return &AppointmentHandler{
		createUC:    createUC,
		cancelUC:    cancelUC,
		freeSlotsUC: freeSlotsUC,
		listUC:      listUC,
	}
}

// ======================================================
// REQUESTS
// ======================================================

type CreateAppointmentRequest struct {
	SalonID   uint   `json:"salon_id" binding:"required"`
	MasterID  uint   `json:"master_id" binding:"required"`
	ServiceID uint   `json:"service_id" binding:"required"`
	DateTime  string `json:"date_time" binding:"required"`
	Comment   string `json:"comment" binding:"max=300"`
}

// ======================================================
// FREE SLOTS
// ======================================================

func (h *AppointmentHandler) FreeSlots(c *gin.Context) {
	salonID, err1 := strconv.ParseUint(c.Query("salon_id"), 10, 64)
	serviceID, err2 := strconv.ParseUint(c.Query("service_id"), 10, 64)
	if err1 != nil || err2 != nil {
		httperr.BadRequest(c, httperr.CodeInvalidRequest, "salon_id and service_id are required.")
		return
	}

	day, err := clock.ParseDate(c.Query("date"))
	if err != nil {
		httperr.BadRequest(c, httperr.CodeInvalidRequest, "date must be YYYY-MM-DD.")
		return
	}

	masterID, _ := strconv.ParseUint(c.DefaultQuery("master_id", "0"), 10, 64)
	leadHours, err := strconv.Atoi(c.DefaultQuery("min_hours_before", "2"))
	if err != nil || leadHours < 0 {
		httperr.BadRequest(c, httperr.CodeInvalidRequest, "min_hours_before must be a non-negative integer.")
		return
	}

	slots, err := h.freeSlotsUC.Execute(c.Request.Context(), domain.FreeSlotsInput{
		SalonID:      uint(salonID),
		ServiceID:    uint(serviceID),
		MasterID:     uint(masterID),
		Day:          day,
		MinLeadHours: leadHours,
	})
	if err != nil {
		if !httperr.WriteBusiness(c, err) {
			httperr.Internal(c, "failed_to_list_slots", "Could not compute free slots.")
		}
		return
	}

	httpresp.OK(c, gin.H{"masters": slots})
}

// ======================================================
// CREATE
// ======================================================

func (h *AppointmentHandler) Create(c *gin.Context) {
	clientID := c.MustGet(middleware.ContextUserID).(uint)

	var req CreateAppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, httperr.CodeInvalidRequest, "Invalid request body.")
		return
	}

	start, err := clock.ParseDateTime(req.DateTime)
	if err != nil {
		httperr.BadRequest(c, httperr.CodeInvalidRequest, "date_time must be YYYY-MM-DDTHH:MM:SS.")
		return
	}

	ap, err := h.createUC.Execute(c.Request.Context(), ucAppointment.CreateAppointmentInput{
		ClientID:  clientID,
		SalonID:   req.SalonID,
		MasterID:  req.MasterID,
		ServiceID: req.ServiceID,
		Start:     start,
		Comment:   req.Comment,
	})
	if err != nil {
		if !httperr.WriteBusiness(c, err) {
			httperr.Internal(c, "failed_to_create_appointment", "Could not create appointment.")
		}
		return
	}

	httpresp.Created(c, ap)
}

// ======================================================
// CANCEL
// ======================================================

func (h *AppointmentHandler) Cancel(c *gin.Context) {
	clientID := c.MustGet(middleware.ContextUserID).(uint)

	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		httperr.BadRequest(c, httperr.CodeInvalidRequest, "Invalid appointment id.")
		return
	}

	ap, err := h.cancelUC.Execute(c.Request.Context(), uint(id), clientID)
	if err != nil {
		if !httperr.WriteBusiness(c, err) {
			httperr.Internal(c, "failed_to_cancel_appointment", "Could not cancel appointment.")
		}
		return
	}

	httpresp.OK(c, ap)
}

// ======================================================
// LIST (current client)
// ======================================================

func (h *AppointmentHandler) ListMine(c *gin.Context) {
	clientID := c.MustGet(middleware.ContextUserID).(uint)

	aps, err := h.listUC.Execute(c.Request.Context(), clientID)
	if err != nil {
		httperr.Internal(c, "failed_to_list_appointments", "Could not list appointments.")
		return
	}

	httpresp.List(c, aps)
}
