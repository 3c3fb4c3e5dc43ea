// Package guard holds the authorization predicates every read/write path
// composes before touching the store. Each predicate fails fast with a typed
// error; none of them return booleans.
package guard

import (
	"github.com/admitd/admitd/internal/platform/apperr"
)

// RequireExists fails with NotFound when the looked-up row is absent.
// The id lands in the message when known (non-zero).
func RequireExists(found bool, label string, id int64) error {
	if found {
		return nil
	}
	if id != 0 {
		return apperr.NotFound("%s with id %d was not found", label, id)
	}
	return apperr.NotFound("%s was not found", label)
}

// RequireSelf fails with Forbidden unless the caller is the resource owner.
func RequireSelf(ownerID, callerID int64) error {
	if ownerID != callerID {
		return apperr.Forbidden("Not authorized to perform this action")
	}
	return nil
}

// RequireDoctorAssignment fails with Forbidden when no admission links the
// calling doctor to the patient.
func RequireDoctorAssignment(found bool) error {
	if !found {
		return apperr.Forbidden("Doctor is not assigned to this patient")
	}
	return nil
}

// RequirePatientAdmission fails with Forbidden when the patient has no
// matching admission row.
func RequirePatientAdmission(found bool) error {
	if !found {
		return apperr.Forbidden("Admission of patient was not found")
	}
	return nil
}

// RequireNonEmptyChangeset fails with BadRequest when a patch resolved to
// zero fields, before anything reaches the store.
func RequireNonEmptyChangeset(fields int) error {
	if fields == 0 {
		return apperr.BadRequest("No data was found for the update")
	}
	return nil
}
