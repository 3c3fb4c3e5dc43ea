// Package admission manages admission rows and the status transition that
// drives discharge dates.
package admission

import "time"

// Status is an admission's clinical state.
type Status string

const (
	StatusSick    Status = "sick"
	StatusHealthy Status = "healthy"
)

func (s Status) Valid() bool {
	return s == StatusSick || s == StatusHealthy
}

// Admission links a patient to a doctor. DischargeDate is non-nil exactly
// when the last status-touching write left the admission healthy.
type Admission struct {
	ID            int64      `json:"id"`
	PatientID     int64      `json:"patient_id"`
	DoctorID      int64      `json:"doctor_id"`
	Diagnosis     string     `json:"diagnosis"`
	Status        Status     `json:"status"`
	AdmissionDate time.Time  `json:"admission_date"`
	DischargeDate *time.Time `json:"discharge_date"`
}

// CreateInput carries the fields for a new admission. A nil AdmissionDate
// defers to the store's clock; an empty Status defaults to sick.
type CreateInput struct {
	Diagnosis     string     `json:"diagnosis"`
	Status        Status     `json:"status"`
	AdmissionDate *time.Time `json:"admission_date"`
}

// ReplaceInput carries the full-replace fields. DischargeDate is taken as
// given unless the status transition overrides it.
type ReplaceInput struct {
	Diagnosis     string     `json:"diagnosis"`
	Status        Status     `json:"status"`
	AdmissionDate time.Time  `json:"admission_date"`
	DischargeDate *time.Time `json:"discharge_date"`
}
