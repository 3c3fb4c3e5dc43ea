package handler

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/admitd/admitd/internal/platform/apperr"
	"github.com/admitd/admitd/internal/platform/auth"
)

type credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// readCredentials accepts form-encoded or JSON bodies. The JSON shape takes
// either "username" or "email" for the identifier.
func readCredentials(c echo.Context) (credentials, error) {
	ct := c.Request().Header.Get(echo.HeaderContentType)
	if strings.HasPrefix(ct, echo.MIMEApplicationJSON) {
		var in struct {
			Username string `json:"username"`
			Email    string `json:"email"`
			Password string `json:"password"`
		}
		if err := c.Bind(&in); err != nil {
			return credentials{}, apperr.BadRequest("Invalid request body")
		}
		username := in.Username
		if username == "" {
			username = in.Email
		}
		return credentials{Username: username, Password: in.Password}, nil
	}
	return credentials{
		Username: c.FormValue("username"),
		Password: c.FormValue("password"),
	}, nil
}

// LoginPatient exchanges patient credentials for a bearer token. Unknown
// email and wrong password fail identically.
func (h *Handler) LoginPatient(c echo.Context) error {
	creds, err := readCredentials(c)
	if err != nil {
		return err
	}
	ctx := c.Request().Context()

	p, err := h.patientRepo.GetByEmail(ctx, creds.Username)
	if err != nil {
		return apperr.Internal(err)
	}
	if p == nil {
		return apperr.Forbidden("Invalid credentials.")
	}
	if !auth.VerifyPassword(p.Password, creds.Password) {
		return apperr.Forbidden("Invalid credentials.")
	}

	token, err := h.issuer.Issue(p.ID, auth.KindPatient)
	if err != nil {
		return apperr.Internal(err)
	}
	return c.JSON(http.StatusOK, echo.Map{
		"access_token": token,
		"token_type":   "bearer",
		"patient_id":   p.ID,
	})
}

// LoginDoctor exchanges doctor credentials for a bearer token.
func (h *Handler) LoginDoctor(c echo.Context) error {
	creds, err := readCredentials(c)
	if err != nil {
		return err
	}
	ctx := c.Request().Context()

	d, err := h.doctorRepo.GetByEmail(ctx, creds.Username)
	if err != nil {
		return apperr.Internal(err)
	}
	if d == nil {
		return apperr.Forbidden("Invalid credentials.")
	}
	if !auth.VerifyPassword(d.Password, creds.Password) {
		return apperr.Forbidden("Invalid credentials.")
	}

	token, err := h.issuer.Issue(d.ID, auth.KindDoctor)
	if err != nil {
		return apperr.Internal(err)
	}
	return c.JSON(http.StatusOK, echo.Map{
		"access_token": token,
		"token_type":   "bearer",
		"doctor_id":    d.ID,
	})
}
