package main

import (
	"testing"

	"github.com/rs/zerolog"

	"github.com/admitd/admitd/internal/config"
)

func TestNewServerRegistersRoutes(t *testing.T) {
	cfg := &config.Config{
		Port:            "8000",
		Env:             "development",
		TokenTTLMinutes: 60,
		CORSOrigins:     []string{"http://localhost:3000"},
	}

	e := newServer(cfg, nil, zerolog.Nop())

	registered := make(map[string]bool)
	for _, r := range e.Routes() {
		registered[r.Method+" "+r.Path] = true
	}

	for _, want := range []string{
		"GET /health",
		"GET /health/db",
		"POST /login/patients",
		"POST /login/doctors",
		"GET /provinces",
		"POST /patients",
		"PATCH /patients/:patient_id",
		"GET /patients/:patient_id/admissions",
		"POST /doctors/:doctor_id/patients",
		"PATCH /doctors/:doctor_id/patients/:patient_id/admissions/:admission_id",
		"DELETE /doctors/:doctor_id/patients/:patient_id/admissions/:admission_id",
	} {
		if !registered[want] {
			t.Errorf("route %s not registered", want)
		}
	}
}
