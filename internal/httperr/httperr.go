package httperr

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type HTTPError struct {
	Code    string `json:"error_code"`
	Message string `json:"message"`
}

func Write(c *gin.Context, status int, code, message string) {
	c.JSON(status, HTTPError{
		Code:    code,
		Message: message,
	})
}

func BadRequest(c *gin.Context, code, message string) {
	Write(c, http.StatusBadRequest, code, message)
}

func NotFound(c *gin.Context, code, message string) {
	Write(c, http.StatusNotFound, code, message)
}

func Internal(c *gin.Context, code, message string) {
	Write(c, http.StatusInternalServerError, code, message)
}

func Unauthorized(c *gin.Context, code, message string) {
	Write(c, http.StatusUnauthorized, code, message)
}

var statusByCode = map[string]int{
	CodeSalonNotFound:       http.StatusNotFound,
	CodeMasterNotFound:      http.StatusNotFound,
	CodeMastersNotFound:     http.StatusNotFound,
	CodeServiceNotFound:     http.StatusNotFound,
	CodeAppointmentNotFound: http.StatusNotFound,
	CodeBookingConflict:     http.StatusConflict,
	CodeForbidden:           http.StatusForbidden,
	CodeAlreadyCancelled:    http.StatusGone,
	CodeInvalidRequest:      http.StatusBadRequest,
}

var messageByCode = map[string]string{
	CodeSalonNotFound:       "Salon not found.",
	CodeMasterNotFound:      "Master not found.",
	CodeMastersNotFound:     "Masters not found.",
	CodeServiceNotFound:     "Service not found.",
	CodeAppointmentNotFound: "Appointment not found.",
	CodeBookingConflict:     "This time slot overlaps with another appointment.",
	CodeForbidden:           "You do not have the right to modify this record.",
	CodeAlreadyCancelled:    "This appointment has already been cancelled.",
	CodeInvalidRequest:      "Invalid request.",
}

// WriteBusiness maps a BusinessError onto its HTTP status and writes it.
// It returns false when err carries no business code so the caller can fall
// back to a 500.
func WriteBusiness(c *gin.Context, err error) bool {
	code, ok := BusinessCode(err)
	if !ok {
		return false
	}

	status, ok := statusByCode[code]
	if !ok {
		return false
	}

	Write(c, status, code, messageByCode[code])
	return true
}
