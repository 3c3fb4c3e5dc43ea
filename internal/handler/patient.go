package handler

import (
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/admitd/admitd/internal/domain/patient"
	"github.com/admitd/admitd/internal/platform/apperr"
	"github.com/admitd/admitd/internal/platform/patch"
	"github.com/admitd/admitd/pkg/pagination"
)

func (h *Handler) ListPatients(c echo.Context) error {
	ctx := c.Request().Context()
	pg := pagination.FromContext(c)

	patients, err := h.patients.List(ctx, pg.Limit, pg.Offset)
	if err != nil {
		return err
	}
	details, err := h.expander.Patients(ctx, patients)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, details)
}

func (h *Handler) CreatePatient(c echo.Context) error {
	var in patient.Input
	if err := c.Bind(&in); err != nil {
		return apperr.BadRequest("Invalid request body")
	}
	ctx := c.Request().Context()

	created, err := h.patients.Register(ctx, in)
	if err != nil {
		return err
	}
	detail, err := h.expander.Patient(ctx, created)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, detail)
}

func (h *Handler) GetPatient(c echo.Context) error {
	id, err := pathID(c, "patient_id")
	if err != nil {
		return err
	}
	ctx := c.Request().Context()

	p, err := h.patients.Get(ctx, id)
	if err != nil {
		return err
	}
	detail, err := h.expander.Patient(ctx, p)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, detail)
}

func (h *Handler) PutPatient(c echo.Context) error {
	id, err := pathID(c, "patient_id")
	if err != nil {
		return err
	}
	caller, err := principalID(c)
	if err != nil {
		return err
	}
	var in patient.Input
	if err := c.Bind(&in); err != nil {
		return apperr.BadRequest("Invalid request body")
	}
	ctx := c.Request().Context()

	updated, err := h.patients.Replace(ctx, caller, id, in)
	if err != nil {
		return err
	}
	detail, err := h.expander.Patient(ctx, updated)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, detail)
}

func (h *Handler) PatchPatient(c echo.Context) error {
	id, err := pathID(c, "patient_id")
	if err != nil {
		return err
	}
	caller, err := principalID(c)
	if err != nil {
		return err
	}
	cs, err := patientChangeset(c)
	if err != nil {
		return err
	}
	ctx := c.Request().Context()

	updated, err := h.patients.Patch(ctx, caller, id, cs)
	if err != nil {
		return err
	}
	detail, err := h.expander.Patient(ctx, updated)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, detail)
}

func (h *Handler) DeletePatient(c echo.Context) error {
	id, err := pathID(c, "patient_id")
	if err != nil {
		return err
	}
	caller, err := principalID(c)
	if err != nil {
		return err
	}
	if err := h.patients.Delete(c.Request().Context(), caller, id); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// ListPatientAdmissions returns the calling patient's admissions, expanded.
func (h *Handler) ListPatientAdmissions(c echo.Context) error {
	id, err := pathID(c, "patient_id")
	if err != nil {
		return err
	}
	caller, err := principalID(c)
	if err != nil {
		return err
	}
	ctx := c.Request().Context()

	admissions, err := h.admissions.ListForPatient(ctx, caller, id)
	if err != nil {
		return err
	}
	details, err := h.expander.Admissions(ctx, admissions)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, details)
}

func (h *Handler) GetPatientAdmission(c echo.Context) error {
	id, err := pathID(c, "patient_id")
	if err != nil {
		return err
	}
	admissionID, err := pathID(c, "admission_id")
	if err != nil {
		return err
	}
	caller, err := principalID(c)
	if err != nil {
		return err
	}
	ctx := c.Request().Context()

	a, err := h.admissions.GetForPatient(ctx, caller, id, admissionID)
	if err != nil {
		return err
	}
	detail, err := h.expander.Admission(ctx, a)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, detail)
}

func patientChangeset(c echo.Context) (*patch.Changeset, error) {
	body, err := io.ReadAll(c.Request().Body)
	if err != nil {
		return nil, apperr.BadRequest("Invalid request body")
	}
	present, err := patch.Presence(body)
	if err != nil {
		return nil, apperr.BadRequest("Invalid request body")
	}

	var in struct {
		ProvinceID *int64     `json:"province_id"`
		FirstName  *string    `json:"first_name"`
		LastName   *string    `json:"last_name"`
		Email      *string    `json:"email"`
		Password   *string    `json:"password"`
		Gender     *string    `json:"gender"`
		BirthDate  *time.Time `json:"birth_date"`
		Allergies  *string    `json:"allergies"`
		HeightCM   *float64   `json:"height_cm"`
		WeightKG   *float64   `json:"weight_kg"`
	}
	if err := json.Unmarshal(body, &in); err != nil {
		return nil, apperr.BadRequest("Invalid request body")
	}

	cs := &patch.Changeset{}
	if present["province_id"] {
		if in.ProvinceID == nil {
			cs.Set("province_id", nil)
		} else {
			cs.Set("province_id", *in.ProvinceID)
		}
	}
	setString(cs, present, "first_name", in.FirstName)
	setString(cs, present, "last_name", in.LastName)
	setString(cs, present, "email", in.Email)
	setString(cs, present, "password", in.Password)
	setString(cs, present, "gender", in.Gender)
	if present["birth_date"] {
		if in.BirthDate == nil {
			cs.Set("birth_date", nil)
		} else {
			cs.Set("birth_date", *in.BirthDate)
		}
	}
	setString(cs, present, "allergies", in.Allergies)
	setFloat(cs, present, "height_cm", in.HeightCM)
	setFloat(cs, present, "weight_kg", in.WeightKG)
	return cs, nil
}

func setFloat(cs *patch.Changeset, present map[string]bool, key string, v *float64) {
	if !present[key] {
		return
	}
	if v == nil {
		cs.Set(key, nil)
		return
	}
	cs.Set(key, *v)
}
