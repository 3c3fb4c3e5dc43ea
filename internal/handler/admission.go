package handler

import (
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/admitd/admitd/internal/domain/admission"
	"github.com/admitd/admitd/internal/platform/apperr"
	"github.com/admitd/admitd/internal/platform/patch"
)

// ListRoster returns the calling doctor's patients, expanded, one entry per
// admission.
func (h *Handler) ListRoster(c echo.Context) error {
	doctorID, err := pathID(c, "doctor_id")
	if err != nil {
		return err
	}
	caller, err := principalID(c)
	if err != nil {
		return err
	}
	ctx := c.Request().Context()

	entries, err := h.patients.Roster(ctx, caller, doctorID)
	if err != nil {
		return err
	}
	details, err := h.expander.Roster(ctx, entries)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, details)
}

// AssignPatient admits an existing patient under the calling doctor.
func (h *Handler) AssignPatient(c echo.Context) error {
	doctorID, err := pathID(c, "doctor_id")
	if err != nil {
		return err
	}
	caller, err := principalID(c)
	if err != nil {
		return err
	}

	var in struct {
		PatientID     int64            `json:"patient_id"`
		Diagnosis     string           `json:"diagnosis"`
		Status        admission.Status `json:"status"`
		AdmissionDate *time.Time       `json:"admission_date"`
	}
	if err := c.Bind(&in); err != nil {
		return apperr.BadRequest("Invalid request body")
	}
	if in.Status != "" && !in.Status.Valid() {
		return apperr.BadRequest("Invalid status")
	}
	ctx := c.Request().Context()

	created, err := h.admissions.Create(ctx, caller, doctorID, in.PatientID, admission.CreateInput{
		Diagnosis:     in.Diagnosis,
		Status:        in.Status,
		AdmissionDate: in.AdmissionDate,
	})
	if err != nil {
		return err
	}
	detail, err := h.expander.Admission(ctx, created)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, detail)
}

// GetRosterPatient returns one patient off the calling doctor's roster.
func (h *Handler) GetRosterPatient(c echo.Context) error {
	doctorID, err := pathID(c, "doctor_id")
	if err != nil {
		return err
	}
	patientID, err := pathID(c, "patient_id")
	if err != nil {
		return err
	}
	caller, err := principalID(c)
	if err != nil {
		return err
	}
	ctx := c.Request().Context()

	entry, err := h.patients.RosterEntry(ctx, caller, doctorID, patientID)
	if err != nil {
		return err
	}
	detail, err := h.expander.RosterEntry(ctx, entry)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, detail)
}

func (h *Handler) ListDoctorAdmissions(c echo.Context) error {
	doctorID, patientID, caller, err := doctorAdmissionScope(c)
	if err != nil {
		return err
	}
	ctx := c.Request().Context()

	admissions, err := h.admissions.ListForDoctor(ctx, caller, doctorID, patientID)
	if err != nil {
		return err
	}
	details, err := h.expander.Admissions(ctx, admissions)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, details)
}

func (h *Handler) CreateAdmission(c echo.Context) error {
	doctorID, patientID, caller, err := doctorAdmissionScope(c)
	if err != nil {
		return err
	}

	var in struct {
		Diagnosis string           `json:"diagnosis"`
		Status    admission.Status `json:"status"`
	}
	if err := c.Bind(&in); err != nil {
		return apperr.BadRequest("Invalid request body")
	}
	if in.Status != "" && !in.Status.Valid() {
		return apperr.BadRequest("Invalid status")
	}
	ctx := c.Request().Context()

	created, err := h.admissions.Create(ctx, caller, doctorID, patientID, admission.CreateInput{
		Diagnosis: in.Diagnosis,
		Status:    in.Status,
	})
	if err != nil {
		return err
	}
	detail, err := h.expander.Admission(ctx, created)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, detail)
}

func (h *Handler) GetDoctorAdmission(c echo.Context) error {
	doctorID, patientID, caller, err := doctorAdmissionScope(c)
	if err != nil {
		return err
	}
	admissionID, err := pathID(c, "admission_id")
	if err != nil {
		return err
	}
	ctx := c.Request().Context()

	a, err := h.admissions.GetForDoctor(ctx, caller, doctorID, patientID, admissionID)
	if err != nil {
		return err
	}
	detail, err := h.expander.Admission(ctx, a)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, detail)
}

func (h *Handler) PutAdmission(c echo.Context) error {
	doctorID, patientID, caller, err := doctorAdmissionScope(c)
	if err != nil {
		return err
	}
	admissionID, err := pathID(c, "admission_id")
	if err != nil {
		return err
	}

	var in admission.ReplaceInput
	if err := c.Bind(&in); err != nil {
		return apperr.BadRequest("Invalid request body")
	}
	if in.Status != "" && !in.Status.Valid() {
		return apperr.BadRequest("Invalid status")
	}
	ctx := c.Request().Context()

	updated, err := h.admissions.Replace(ctx, caller, doctorID, patientID, admissionID, in)
	if err != nil {
		return err
	}
	detail, err := h.expander.Admission(ctx, updated)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, detail)
}

func (h *Handler) PatchAdmission(c echo.Context) error {
	doctorID, patientID, caller, err := doctorAdmissionScope(c)
	if err != nil {
		return err
	}
	admissionID, err := pathID(c, "admission_id")
	if err != nil {
		return err
	}
	cs, err := admissionChangeset(c)
	if err != nil {
		return err
	}
	ctx := c.Request().Context()

	updated, err := h.admissions.Patch(ctx, caller, doctorID, patientID, admissionID, cs)
	if err != nil {
		return err
	}
	detail, err := h.expander.Admission(ctx, updated)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, detail)
}

func (h *Handler) DeleteAdmission(c echo.Context) error {
	doctorID, patientID, caller, err := doctorAdmissionScope(c)
	if err != nil {
		return err
	}
	admissionID, err := pathID(c, "admission_id")
	if err != nil {
		return err
	}
	if err := h.admissions.Delete(c.Request().Context(), caller, doctorID, patientID, admissionID); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

func doctorAdmissionScope(c echo.Context) (doctorID, patientID, caller int64, err error) {
	if doctorID, err = pathID(c, "doctor_id"); err != nil {
		return
	}
	if patientID, err = pathID(c, "patient_id"); err != nil {
		return
	}
	caller, err = principalID(c)
	return
}

func admissionChangeset(c echo.Context) (*patch.Changeset, error) {
	body, err := io.ReadAll(c.Request().Body)
	if err != nil {
		return nil, apperr.BadRequest("Invalid request body")
	}
	present, err := patch.Presence(body)
	if err != nil {
		return nil, apperr.BadRequest("Invalid request body")
	}

	var in struct {
		Diagnosis     *string           `json:"diagnosis"`
		Status        *admission.Status `json:"status"`
		AdmissionDate *time.Time        `json:"admission_date"`
		DischargeDate *time.Time        `json:"discharge_date"`
	}
	if err := json.Unmarshal(body, &in); err != nil {
		return nil, apperr.BadRequest("Invalid request body")
	}

	cs := &patch.Changeset{}
	setString(cs, present, "diagnosis", in.Diagnosis)
	if present["status"] {
		if in.Status == nil || !in.Status.Valid() {
			return nil, apperr.BadRequest("Invalid status")
		}
		cs.Set("status", *in.Status)
	}
	if present["admission_date"] {
		if in.AdmissionDate == nil {
			cs.Set("admission_date", nil)
		} else {
			cs.Set("admission_date", *in.AdmissionDate)
		}
	}
	if present["discharge_date"] {
		if in.DischargeDate == nil {
			cs.Set("discharge_date", (*time.Time)(nil))
		} else {
			cs.Set("discharge_date", in.DischargeDate)
		}
	}
	return cs, nil
}
