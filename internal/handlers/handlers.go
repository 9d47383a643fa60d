package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/vladisc/financial-server/internal/apperrors"
	portsrepo "github.com/vladisc/financial-server/internal/core/ports/repositories"
)

// ErrorResponse is a generic error response structure for handlers.
type ErrorResponse struct {
	Error string `json:"error"`
}

// queryDateLayout is the wire format for start_date / end_date query params.
const queryDateLayout = "2006-01-02"

// parseTimeWindow reads the optional start_date and end_date query parameters.
// start_date anchors to the start of that day, end_date to its last second, so
// a single-day window like start_date=end_date covers the whole day.
func parseTimeWindow(c *gin.Context) (portsrepo.TimeWindow, error) {
	var window portsrepo.TimeWindow

	if raw := c.Query("start_date"); raw != "" {
		day, err := time.Parse(queryDateLayout, raw)
		if err != nil {
			return window, errors.New("start_date must be formatted as yyyy-MM-dd")
		}
		start := day.UTC()
		window.Start = &start
	}
	if raw := c.Query("end_date"); raw != "" {
		day, err := time.Parse(queryDateLayout, raw)
		if err != nil {
			return window, errors.New("end_date must be formatted as yyyy-MM-dd")
		}
		end := day.UTC().Add(24*time.Hour - time.Second)
		window.End = &end
	}
	return window, nil
}

// statusForError maps service errors to HTTP status codes. Anything that is
// not a recognized application error is a 500.
func statusForError(err error) int {
	switch {
	case errors.Is(err, apperrors.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, apperrors.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, apperrors.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, apperrors.ErrDuplicate), errors.Is(err, apperrors.ErrConflict):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
