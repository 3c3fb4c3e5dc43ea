package handler

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/admitd/admitd/internal/domain/doctor"
	"github.com/admitd/admitd/internal/platform/apperr"
	"github.com/admitd/admitd/internal/platform/patch"
	"github.com/admitd/admitd/pkg/pagination"
)

func (h *Handler) ListDoctors(c echo.Context) error {
	ctx := c.Request().Context()
	pg := pagination.FromContext(c)

	doctors, err := h.doctors.List(ctx, pg.Limit, pg.Offset)
	if err != nil {
		return err
	}
	details, err := h.expander.Doctors(ctx, doctors)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, details)
}

func (h *Handler) CreateDoctor(c echo.Context) error {
	var in doctor.Input
	if err := c.Bind(&in); err != nil {
		return apperr.BadRequest("Invalid request body")
	}
	ctx := c.Request().Context()

	created, err := h.doctors.Register(ctx, in)
	if err != nil {
		return err
	}
	detail, err := h.expander.Doctor(ctx, created)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, detail)
}

func (h *Handler) GetDoctor(c echo.Context) error {
	id, err := pathID(c, "doctor_id")
	if err != nil {
		return err
	}
	ctx := c.Request().Context()

	d, err := h.doctors.Get(ctx, id)
	if err != nil {
		return err
	}
	detail, err := h.expander.Doctor(ctx, d)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, detail)
}

func (h *Handler) PutDoctor(c echo.Context) error {
	id, err := pathID(c, "doctor_id")
	if err != nil {
		return err
	}
	caller, err := principalID(c)
	if err != nil {
		return err
	}
	var in doctor.Input
	if err := c.Bind(&in); err != nil {
		return apperr.BadRequest("Invalid request body")
	}
	ctx := c.Request().Context()

	updated, err := h.doctors.Replace(ctx, caller, id, in)
	if err != nil {
		return err
	}
	detail, err := h.expander.Doctor(ctx, updated)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, detail)
}

func (h *Handler) PatchDoctor(c echo.Context) error {
	id, err := pathID(c, "doctor_id")
	if err != nil {
		return err
	}
	caller, err := principalID(c)
	if err != nil {
		return err
	}
	cs, err := doctorChangeset(c)
	if err != nil {
		return err
	}
	ctx := c.Request().Context()

	updated, err := h.doctors.Patch(ctx, caller, id, cs)
	if err != nil {
		return err
	}
	detail, err := h.expander.Doctor(ctx, updated)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, detail)
}

func (h *Handler) DeleteDoctor(c echo.Context) error {
	id, err := pathID(c, "doctor_id")
	if err != nil {
		return err
	}
	caller, err := principalID(c)
	if err != nil {
		return err
	}
	if err := h.doctors.Delete(c.Request().Context(), caller, id); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

func doctorChangeset(c echo.Context) (*patch.Changeset, error) {
	body, err := io.ReadAll(c.Request().Body)
	if err != nil {
		return nil, apperr.BadRequest("Invalid request body")
	}
	present, err := patch.Presence(body)
	if err != nil {
		return nil, apperr.BadRequest("Invalid request body")
	}

	var in struct {
		FirstName *string `json:"first_name"`
		LastName  *string `json:"last_name"`
		Email     *string `json:"email"`
		Password  *string `json:"password"`
		Specialty *string `json:"specialty"`
	}
	if err := json.Unmarshal(body, &in); err != nil {
		return nil, apperr.BadRequest("Invalid request body")
	}

	cs := &patch.Changeset{}
	setString(cs, present, "first_name", in.FirstName)
	setString(cs, present, "last_name", in.LastName)
	setString(cs, present, "email", in.Email)
	setString(cs, present, "password", in.Password)
	setString(cs, present, "specialty", in.Specialty)
	return cs, nil
}
