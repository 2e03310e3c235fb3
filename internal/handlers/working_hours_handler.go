package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/clinic-scheduler/internal/audit"
	"github.com/BruksfildServices01/clinic-scheduler/internal/calendar"
	"github.com/BruksfildServices01/clinic-scheduler/internal/dto"
	"github.com/BruksfildServices01/clinic-scheduler/internal/httpresp"
	"github.com/BruksfildServices01/clinic-scheduler/internal/usecase/scheduling"
)

type WorkingHoursHandler struct {
	calendar *scheduling.WorkingHoursCalendar
	audit    *audit.Dispatcher
}

func NewWorkingHoursHandler(
	cal *scheduling.WorkingHoursCalendar,
	dispatcher *audit.Dispatcher,
) *WorkingHoursHandler {
	return &WorkingHoursHandler{calendar: cal, audit: dispatcher}
}

type UpsertWorkingHoursRequest struct {
	DoctorID  uint   `json:"doctor_id" binding:"required"`
	DayOfWeek string `json:"day_of_week" binding:"required"`
	StartTime string `json:"start_time" binding:"required"`
	EndTime   string `json:"end_time" binding:"required"`
}

// Upsert creates or replaces the doctor's hours for one day of the week.
func (h *WorkingHoursHandler) Upsert(c *gin.Context) {
	var req UpsertWorkingHoursRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		malformed(c)
		return
	}

	day, err := calendar.ParseWeekday(req.DayOfWeek)
	if err != nil {
		writeError(c, err)
		return
	}
	interval, err := calendar.ParseInterval(req.StartTime, req.EndTime)
	if err != nil {
		writeError(c, err)
		return
	}

	ctx := c.Request.Context()
	wh, err := h.calendar.Upsert(ctx, req.DoctorID, day, interval)
	if err != nil {
		writeError(c, err)
		return
	}

	h.audit.Dispatch(audit.Event{
		DoctorID:  &wh.DoctorID,
		Action:    "working_hours_upserted",
		Entity:    "working_hours",
		EntityID:  &wh.ID,
		RequestID: audit.RequestIDFrom(ctx),
		Metadata: map[string]string{
			"day_of_week": string(wh.DayOfWeek),
			"interval":    wh.Interval().String(),
		},
	})

	httpresp.OK(c, dto.FromWorkingHours(wh))
}

func (h *WorkingHoursHandler) List(c *gin.Context) {
	doctorID, err := doctorIDQuery(c)
	if err != nil {
		writeError(c, err)
		return
	}

	hours, err := h.calendar.List(c.Request.Context(), doctorID)
	if err != nil {
		writeError(c, err)
		return
	}

	httpresp.List(c, dto.FromWorkingWeek(hours))
}
