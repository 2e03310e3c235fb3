package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/clinic-scheduler/internal/calendar"
)

var errMalformed = calendar.ErrMalformedInput

func parseID(raw string) (uint, error) {
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		return 0, errMalformed
	}
	return uint(id), nil
}

func doctorIDQuery(c *gin.Context) (uint, error) {
	return parseID(c.Query("doctor_id"))
}

// instantQuery parses key as YYYY-MM-DDTHH:MM:SS, falling back to now in tz
// when the parameter is absent.
func instantQuery(c *gin.Context, key, tz string) (calendar.Instant, error) {
	raw, ok := c.GetQuery(key)
	if !ok || raw == "" {
		return calendar.NowIn(tz), nil
	}
	return calendar.ParseInstant(raw)
}
