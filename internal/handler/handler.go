// Package handler wires the HTTP surface: route registration, request
// decoding, changeset assembly, and the nested response shapes.
package handler

import (
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/admitd/admitd/internal/domain/admission"
	"github.com/admitd/admitd/internal/domain/doctor"
	"github.com/admitd/admitd/internal/domain/expand"
	"github.com/admitd/admitd/internal/domain/patient"
	"github.com/admitd/admitd/internal/domain/province"
	"github.com/admitd/admitd/internal/platform/apperr"
	"github.com/admitd/admitd/internal/platform/auth"
)

type Handler struct {
	provinces  *province.Service
	patients   *patient.Service
	doctors    *doctor.Service
	admissions *admission.Service
	expander   *expand.Expander
	issuer     *auth.Issuer

	// Login resolves principals by email straight off the stores.
	patientRepo patient.Repository
	doctorRepo  doctor.Repository
}

func New(
	provinces *province.Service,
	patients *patient.Service,
	doctors *doctor.Service,
	admissions *admission.Service,
	expander *expand.Expander,
	issuer *auth.Issuer,
	patientRepo patient.Repository,
	doctorRepo doctor.Repository,
) *Handler {
	return &Handler{
		provinces:   provinces,
		patients:    patients,
		doctors:     doctors,
		admissions:  admissions,
		expander:    expander,
		issuer:      issuer,
		patientRepo: patientRepo,
		doctorRepo:  doctorRepo,
	}
}

func (h *Handler) RegisterRoutes(e *echo.Echo) {
	e.POST("/login/patients", h.LoginPatient)
	e.POST("/login/doctors", h.LoginDoctor)

	e.GET("/provinces", h.ListProvinces)
	e.POST("/provinces", h.CreateProvince)
	e.GET("/provinces/:province_id", h.GetProvince)
	e.PUT("/provinces/:province_id", h.PutProvince)
	e.PATCH("/provinces/:province_id", h.PatchProvince)
	e.DELETE("/provinces/:province_id", h.DeleteProvince)

	patientAuth := auth.Require(h.issuer, auth.KindPatient)
	e.GET("/patients", h.ListPatients)
	e.POST("/patients", h.CreatePatient)
	e.GET("/patients/:patient_id", h.GetPatient)
	e.PUT("/patients/:patient_id", h.PutPatient, patientAuth)
	e.PATCH("/patients/:patient_id", h.PatchPatient, patientAuth)
	e.DELETE("/patients/:patient_id", h.DeletePatient, patientAuth)
	e.GET("/patients/:patient_id/admissions", h.ListPatientAdmissions, patientAuth)
	e.GET("/patients/:patient_id/admissions/:admission_id", h.GetPatientAdmission, patientAuth)

	doctorAuth := auth.Require(h.issuer, auth.KindDoctor)
	e.GET("/doctors", h.ListDoctors)
	e.POST("/doctors", h.CreateDoctor)
	e.GET("/doctors/:doctor_id", h.GetDoctor)
	e.PUT("/doctors/:doctor_id", h.PutDoctor, doctorAuth)
	e.PATCH("/doctors/:doctor_id", h.PatchDoctor, doctorAuth)
	e.DELETE("/doctors/:doctor_id", h.DeleteDoctor, doctorAuth)

	e.GET("/doctors/:doctor_id/patients", h.ListRoster, doctorAuth)
	e.POST("/doctors/:doctor_id/patients", h.AssignPatient, doctorAuth)
	e.GET("/doctors/:doctor_id/patients/:patient_id", h.GetRosterPatient, doctorAuth)

	e.GET("/doctors/:doctor_id/patients/:patient_id/admissions", h.ListDoctorAdmissions, doctorAuth)
	e.POST("/doctors/:doctor_id/patients/:patient_id/admissions", h.CreateAdmission, doctorAuth)
	e.GET("/doctors/:doctor_id/patients/:patient_id/admissions/:admission_id", h.GetDoctorAdmission, doctorAuth)
	e.PUT("/doctors/:doctor_id/patients/:patient_id/admissions/:admission_id", h.PutAdmission, doctorAuth)
	e.PATCH("/doctors/:doctor_id/patients/:patient_id/admissions/:admission_id", h.PatchAdmission, doctorAuth)
	e.DELETE("/doctors/:doctor_id/patients/:patient_id/admissions/:admission_id", h.DeleteAdmission, doctorAuth)
}

// pathID parses a numeric path parameter.
func pathID(c echo.Context, name string) (int64, error) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil {
		return 0, apperr.BadRequest("Invalid " + name)
	}
	return id, nil
}

// principalID returns the authenticated principal's id; the auth middleware
// guarantees one is present on protected routes.
func principalID(c echo.Context) (int64, error) {
	p, ok := auth.PrincipalFromContext(c.Request().Context())
	if !ok {
		return 0, apperr.Unauthorized("Not authenticated")
	}
	return p.ID, nil
}
