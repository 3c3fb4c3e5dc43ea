// Package expand assembles the nested read models the API returns: patients
// with their province and admissions, doctors with their admissions, and
// admissions with both ends. Nesting goes one level deep; an admission
// inside a patient embeds only its doctor, inside a doctor only its patient.
package expand

import (
	"context"

	"github.com/admitd/admitd/internal/domain/admission"
	"github.com/admitd/admitd/internal/domain/doctor"
	"github.com/admitd/admitd/internal/domain/patient"
	"github.com/admitd/admitd/internal/domain/province"
)

type ProvinceGetter interface {
	GetByID(ctx context.Context, id int64) (*province.Province, error)
}

type PatientGetter interface {
	GetByID(ctx context.Context, id int64) (*patient.Patient, error)
}

type DoctorGetter interface {
	GetByID(ctx context.Context, id int64) (*doctor.Doctor, error)
}

type AdmissionLister interface {
	ListByPatient(ctx context.Context, patientID int64) ([]*admission.Admission, error)
	ListByDoctor(ctx context.Context, doctorID int64) ([]*admission.Admission, error)
}

// PatientAdmission is an admission viewed from its patient.
type PatientAdmission struct {
	admission.Admission
	Doctor *doctor.Doctor `json:"doctor"`
}

// DoctorAdmission is an admission viewed from its doctor.
type DoctorAdmission struct {
	admission.Admission
	Patient *patient.Patient `json:"patient"`
}

// AdmissionDetail is an admission with both ends attached.
type AdmissionDetail struct {
	admission.Admission
	Patient *patient.Patient `json:"patient"`
	Doctor  *doctor.Doctor   `json:"doctor"`
}

// PatientDetail is a patient with province and admissions attached.
type PatientDetail struct {
	patient.Patient
	Province   *province.Province  `json:"province"`
	Admissions []*PatientAdmission `json:"admissions"`
}

// DoctorDetail is a doctor with admissions attached.
type DoctorDetail struct {
	doctor.Doctor
	Admissions []*DoctorAdmission `json:"admissions"`
}

// RosterDetail is a roster entry expanded like a patient, keeping the
// admission id that put them on the roster.
type RosterDetail struct {
	PatientDetail
	AdmissionID int64 `json:"admission_id"`
}

// Expander resolves referenced rows by primary key. A dangling reference
// yields a nil sub-object rather than an error.
type Expander struct {
	provinces  ProvinceGetter
	patients   PatientGetter
	doctors    DoctorGetter
	admissions AdmissionLister
}

func New(provinces ProvinceGetter, patients PatientGetter, doctors DoctorGetter, admissions AdmissionLister) *Expander {
	return &Expander{provinces: provinces, patients: patients, doctors: doctors, admissions: admissions}
}

func (e *Expander) Patient(ctx context.Context, p *patient.Patient) (*PatientDetail, error) {
	prov, err := e.provinces.GetByID(ctx, p.ProvinceID)
	if err != nil {
		return nil, err
	}

	admissions, err := e.admissions.ListByPatient(ctx, p.ID)
	if err != nil {
		return nil, err
	}

	detail := &PatientDetail{
		Patient:    *p,
		Province:   prov,
		Admissions: make([]*PatientAdmission, 0, len(admissions)),
	}
	for _, a := range admissions {
		doc, err := e.doctors.GetByID(ctx, a.DoctorID)
		if err != nil {
			return nil, err
		}
		detail.Admissions = append(detail.Admissions, &PatientAdmission{Admission: *a, Doctor: doc})
	}
	return detail, nil
}

func (e *Expander) Patients(ctx context.Context, patients []*patient.Patient) ([]*PatientDetail, error) {
	details := make([]*PatientDetail, 0, len(patients))
	for _, p := range patients {
		d, err := e.Patient(ctx, p)
		if err != nil {
			return nil, err
		}
		details = append(details, d)
	}
	return details, nil
}

func (e *Expander) Doctor(ctx context.Context, d *doctor.Doctor) (*DoctorDetail, error) {
	admissions, err := e.admissions.ListByDoctor(ctx, d.ID)
	if err != nil {
		return nil, err
	}

	detail := &DoctorDetail{
		Doctor:     *d,
		Admissions: make([]*DoctorAdmission, 0, len(admissions)),
	}
	for _, a := range admissions {
		p, err := e.patients.GetByID(ctx, a.PatientID)
		if err != nil {
			return nil, err
		}
		detail.Admissions = append(detail.Admissions, &DoctorAdmission{Admission: *a, Patient: p})
	}
	return detail, nil
}

func (e *Expander) Doctors(ctx context.Context, doctors []*doctor.Doctor) ([]*DoctorDetail, error) {
	details := make([]*DoctorDetail, 0, len(doctors))
	for _, d := range doctors {
		detail, err := e.Doctor(ctx, d)
		if err != nil {
			return nil, err
		}
		details = append(details, detail)
	}
	return details, nil
}

func (e *Expander) Admission(ctx context.Context, a *admission.Admission) (*AdmissionDetail, error) {
	p, err := e.patients.GetByID(ctx, a.PatientID)
	if err != nil {
		return nil, err
	}
	d, err := e.doctors.GetByID(ctx, a.DoctorID)
	if err != nil {
		return nil, err
	}
	return &AdmissionDetail{Admission: *a, Patient: p, Doctor: d}, nil
}

func (e *Expander) Admissions(ctx context.Context, admissions []*admission.Admission) ([]*AdmissionDetail, error) {
	details := make([]*AdmissionDetail, 0, len(admissions))
	for _, a := range admissions {
		d, err := e.Admission(ctx, a)
		if err != nil {
			return nil, err
		}
		details = append(details, d)
	}
	return details, nil
}

func (e *Expander) RosterEntry(ctx context.Context, entry *patient.RosterEntry) (*RosterDetail, error) {
	detail, err := e.Patient(ctx, &entry.Patient)
	if err != nil {
		return nil, err
	}
	return &RosterDetail{PatientDetail: *detail, AdmissionID: entry.AdmissionID}, nil
}

func (e *Expander) Roster(ctx context.Context, entries []*patient.RosterEntry) ([]*RosterDetail, error) {
	details := make([]*RosterDetail, 0, len(entries))
	for _, entry := range entries {
		d, err := e.RosterEntry(ctx, entry)
		if err != nil {
			return nil, err
		}
		details = append(details, d)
	}
	return details, nil
}
