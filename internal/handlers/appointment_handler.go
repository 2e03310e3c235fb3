package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/clinic-scheduler/internal/calendar"
	"github.com/BruksfildServices01/clinic-scheduler/internal/dto"
	"github.com/BruksfildServices01/clinic-scheduler/internal/httpresp"
	"github.com/BruksfildServices01/clinic-scheduler/internal/usecase/scheduling"
)

// ======================================================
// HANDLER
// ======================================================

type AppointmentHandler struct {
	resolver *scheduling.AvailabilityResolver
	ledger   *scheduling.AppointmentLedger
	timezone string
}

func NewAppointmentHandler(
	resolver *scheduling.AvailabilityResolver,
	ledger *scheduling.AppointmentLedger,
	timezone string,
) *AppointmentHandler {
	return &AppointmentHandler{
		resolver: resolver,
		ledger:   ledger,
		timezone: timezone,
	}
}

// ======================================================
// REQUESTS
// ======================================================

type CreateAppointmentRequest struct {
	DoctorID        uint   `json:"doctor_id" binding:"required"`
	PatientName     string `json:"patient_name" binding:"required,max=100"`
	AppointmentDate string `json:"appointment_date" binding:"required"`
	StartTime       string `json:"start_time" binding:"required"`
	EndTime         string `json:"end_time" binding:"required"`
}

// ======================================================
// CREATE
// ======================================================

func (h *AppointmentHandler) Create(c *gin.Context) {
	var req CreateAppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		malformed(c)
		return
	}

	date, err := calendar.ParseDate(req.AppointmentDate)
	if err != nil {
		writeError(c, err)
		return
	}
	interval, err := calendar.ParseInterval(req.StartTime, req.EndTime)
	if err != nil {
		writeError(c, err)
		return
	}

	ap, err := h.resolver.BookAppointment(c.Request.Context(), scheduling.BookAppointmentInput{
		DoctorID:    req.DoctorID,
		PatientName: req.PatientName,
		Date:        date,
		Interval:    interval,
	})
	if err != nil {
		writeError(c, err)
		return
	}

	httpresp.Created(c, dto.FromAppointment(ap))
}

// ======================================================
// LIST
// ======================================================

// List returns appointments dated between start and end whose times lie
// within the start and end times of day.
func (h *AppointmentHandler) List(c *gin.Context) {
	doctorID, err := doctorIDQuery(c)
	if err != nil {
		writeError(c, err)
		return
	}

	start, err := calendar.ParseInstant(c.Query("start"))
	if err != nil {
		writeError(c, err)
		return
	}
	end, err := calendar.ParseInstant(c.Query("end"))
	if err != nil {
		writeError(c, err)
		return
	}

	dates, err := calendar.NewDateRange(start.Date, end.Date)
	if err != nil {
		writeError(c, err)
		return
	}
	times, err := calendar.NewTimeRange(start.Time, end.Time)
	if err != nil {
		writeError(c, err)
		return
	}

	apps, err := h.ledger.FindInRange(c.Request.Context(), doctorID, dates, times)
	if err != nil {
		writeError(c, err)
		return
	}

	httpresp.List(c, dto.FromAppointments(apps))
}

// ======================================================
// FIRST AVAILABLE
// ======================================================

func (h *AppointmentHandler) FirstAvailable(c *gin.Context) {
	doctorID, err := doctorIDQuery(c)
	if err != nil {
		writeError(c, err)
		return
	}

	from, err := instantQuery(c, "start", h.timezone)
	if err != nil {
		writeError(c, err)
		return
	}

	slot, err := h.resolver.FirstAvailableSlot(c.Request.Context(), doctorID, from)
	if err != nil {
		writeError(c, err)
		return
	}

	httpresp.OK(c, dto.FirstAvailableDTO{FirstAvailable: slot})
}

// ======================================================
// AVAILABILITY
// ======================================================

func (h *AppointmentHandler) Availability(c *gin.Context) {
	doctorID, err := doctorIDQuery(c)
	if err != nil {
		writeError(c, err)
		return
	}

	date, err := calendar.ParseDate(c.Query("date"))
	if err != nil {
		writeError(c, err)
		return
	}

	windows, err := h.resolver.FreeWindows(c.Request.Context(), doctorID, date)
	if err != nil {
		writeError(c, err)
		return
	}

	httpresp.OK(c, dto.AvailabilityDTO{
		DoctorID: doctorID,
		Date:     date,
		Windows:  windows,
	})
}
