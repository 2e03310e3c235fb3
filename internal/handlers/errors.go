package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/clinic-scheduler/internal/httperr"
)

type errorMapping struct {
	status  int
	message string
}

var businessErrors = map[string]errorMapping{
	"doctor_not_found":      {http.StatusNotFound, "Doctor not found."},
	"invalid_interval":      {http.StatusBadRequest, "Start must be before end."},
	"outside_working_hours": {http.StatusBadRequest, "Appointment is outside of the doctor's working hours."},
	"time_conflict":         {http.StatusConflict, "Doctor already has an appointment at that time."},
	"malformed_input":       {http.StatusBadRequest, "Invalid request. Dates are YYYY-MM-DD and times HH:MM:SS."},
}

// writeError renders err. Unknown errors become a 500 and are attached to
// the gin context for the request logger.
func writeError(c *gin.Context, err error) {
	if code, ok := httperr.CodeOf(err); ok {
		if m, known := businessErrors[code]; known {
			httperr.Write(c, m.status, code, m.message)
			return
		}
	}

	_ = c.Error(err)
	httperr.Internal(c, "internal_error", "Unexpected error.")
}

func malformed(c *gin.Context) {
	writeError(c, errMalformed)
}
