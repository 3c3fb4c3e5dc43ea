package handler

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/admitd/admitd/internal/domain/province"
	"github.com/admitd/admitd/internal/platform/apperr"
	"github.com/admitd/admitd/internal/platform/patch"
	"github.com/admitd/admitd/pkg/pagination"
)

func (h *Handler) ListProvinces(c echo.Context) error {
	pg := pagination.FromContext(c)
	provinces, err := h.provinces.List(c.Request().Context(), pg.Limit, pg.Offset)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, provinces)
}

func (h *Handler) CreateProvince(c echo.Context) error {
	var in province.Input
	if err := c.Bind(&in); err != nil {
		return apperr.BadRequest("Invalid request body")
	}
	created, err := h.provinces.Create(c.Request().Context(), in)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, created)
}

func (h *Handler) GetProvince(c echo.Context) error {
	id, err := pathID(c, "province_id")
	if err != nil {
		return err
	}
	p, err := h.provinces.Get(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, p)
}

func (h *Handler) PutProvince(c echo.Context) error {
	id, err := pathID(c, "province_id")
	if err != nil {
		return err
	}
	var in province.Input
	if err := c.Bind(&in); err != nil {
		return apperr.BadRequest("Invalid request body")
	}
	updated, err := h.provinces.Replace(c.Request().Context(), id, in)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, updated)
}

func (h *Handler) PatchProvince(c echo.Context) error {
	id, err := pathID(c, "province_id")
	if err != nil {
		return err
	}
	cs, err := provinceChangeset(c)
	if err != nil {
		return err
	}
	updated, err := h.provinces.Patch(c.Request().Context(), id, cs)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, updated)
}

func (h *Handler) DeleteProvince(c echo.Context) error {
	id, err := pathID(c, "province_id")
	if err != nil {
		return err
	}
	if err := h.provinces.Delete(c.Request().Context(), id); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

func provinceChangeset(c echo.Context) (*patch.Changeset, error) {
	body, err := io.ReadAll(c.Request().Body)
	if err != nil {
		return nil, apperr.BadRequest("Invalid request body")
	}
	present, err := patch.Presence(body)
	if err != nil {
		return nil, apperr.BadRequest("Invalid request body")
	}

	var in struct {
		Name *string `json:"name"`
		City *string `json:"city"`
	}
	if err := json.Unmarshal(body, &in); err != nil {
		return nil, apperr.BadRequest("Invalid request body")
	}

	cs := &patch.Changeset{}
	setString(cs, present, "name", in.Name)
	setString(cs, present, "city", in.City)
	return cs, nil
}

// setString records an assignment only when the key appeared in the body,
// keeping explicit null distinct from absent.
func setString(cs *patch.Changeset, present map[string]bool, key string, v *string) {
	if !present[key] {
		return
	}
	if v == nil {
		cs.Set(key, nil)
		return
	}
	cs.Set(key, *v)
}
