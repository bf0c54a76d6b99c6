package httperr

import "errors"

// Business error codes surfaced by the scheduling engine.
const (
	CodeSalonNotFound       = "salon_not_found"
	CodeMasterNotFound      = "master_not_found"
	CodeMastersNotFound     = "masters_not_found"
	CodeServiceNotFound     = "service_not_found"
	CodeAppointmentNotFound = "appointment_not_found"
	CodeBookingConflict     = "booking_conflict"
	CodeForbidden           = "forbidden"
	CodeAlreadyCancelled    = "already_cancelled"
	CodeInvalidRequest      = "invalid_request"

	// Storage-level serialization failure. The only condition the booking
	// transaction retries, and only a bounded number of times.
	CodeStorageConflict = "storage_conflict"
)

type BusinessError struct {
	Code string
}

func (e BusinessError) Error() string {
	return e.Code
}

func ErrBusiness(code string) error {
	return BusinessError{Code: code}
}

func IsBusiness(err error, code string) bool {
	var be BusinessError
	if errors.As(err, &be) {
		return be.Code == code
	}
	return false
}

func BusinessCode(err error) (string, bool) {
	var be BusinessError
	if errors.As(err, &be) {
		return be.Code, true
	}
	return "", false
}
