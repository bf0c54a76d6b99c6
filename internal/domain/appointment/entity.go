package appointment

import (
	"time"

	"github.com/usmoni713/Style-and-Barber/internal/httperr"
	"github.com/usmoni713/Style-and-Barber/internal/models"
)

// ===============================
// Domain Actions
// ===============================

// Cancel marks an appointment inactive on behalf of clientID. The interval
// becomes available to future calendar builds by derivation; nothing else
// needs to be freed. Cancelling an already-inactive appointment is a
// distinct condition, never a silent success.
func Cancel(ap *models.Appointment, clientID uint, now time.Time) error {
	if ap.ClientID != clientID {
		return httperr.ErrBusiness(httperr.CodeForbidden)
	}
	if !ap.Active {
		return httperr.ErrBusiness(httperr.CodeAlreadyCancelled)
	}

	ap.Active = false
	ap.Confirmed = false
	ap.CancelledAt = &now
	return nil
}
