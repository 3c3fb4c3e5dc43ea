package admission

import (
	"context"
	"time"

	"github.com/admitd/admitd/internal/domain/patient"
	"github.com/admitd/admitd/internal/platform/apperr"
	"github.com/admitd/admitd/internal/platform/db"
	"github.com/admitd/admitd/internal/platform/guard"
	"github.com/admitd/admitd/internal/platform/patch"
)

// PatientGetter is the slice of the patient store admission workflows need.
type PatientGetter interface {
	GetByID(ctx context.Context, id int64) (*patient.Patient, error)
}

type Service struct {
	repo     Repository
	patients PatientGetter
	tx       db.Transactor
	now      func() time.Time
}

func NewService(repo Repository, patients PatientGetter, tx db.Transactor) *Service {
	return &Service{repo: repo, patients: patients, tx: tx, now: time.Now}
}

// ListForPatient returns the calling patient's admissions. A patient with no
// admissions gets a Forbidden, not an empty list.
func (s *Service) ListForPatient(ctx context.Context, callerID, patientID int64) ([]*Admission, error) {
	if err := guard.RequireSelf(patientID, callerID); err != nil {
		return nil, err
	}
	if err := s.requirePatient(ctx, patientID); err != nil {
		return nil, err
	}
	admissions, err := s.repo.ListByPatient(ctx, callerID)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	if err := guard.RequirePatientAdmission(len(admissions) > 0); err != nil {
		return nil, err
	}
	return admissions, nil
}

func (s *Service) GetForPatient(ctx context.Context, callerID, patientID, admissionID int64) (*Admission, error) {
	if err := guard.RequireSelf(patientID, callerID); err != nil {
		return nil, err
	}
	if err := s.requirePatient(ctx, patientID); err != nil {
		return nil, err
	}
	a, err := s.repo.GetForPatient(ctx, admissionID, callerID)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	if err := guard.RequirePatientAdmission(a != nil); err != nil {
		return nil, err
	}
	return a, nil
}

// ListForDoctor returns the admissions linking the calling doctor to the
// patient. No link at all is a Forbidden.
func (s *Service) ListForDoctor(ctx context.Context, callerID, doctorID, patientID int64) ([]*Admission, error) {
	if err := guard.RequireSelf(doctorID, callerID); err != nil {
		return nil, err
	}
	if err := s.requirePatient(ctx, patientID); err != nil {
		return nil, err
	}
	admissions, err := s.repo.ListByPatientAndDoctor(ctx, patientID, callerID)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	if err := guard.RequireDoctorAssignment(len(admissions) > 0); err != nil {
		return nil, err
	}
	return admissions, nil
}

func (s *Service) GetForDoctor(ctx context.Context, callerID, doctorID, patientID, admissionID int64) (*Admission, error) {
	if err := guard.RequireSelf(doctorID, callerID); err != nil {
		return nil, err
	}
	if err := s.requirePatient(ctx, patientID); err != nil {
		return nil, err
	}
	a, err := s.repo.GetScoped(ctx, admissionID, patientID, callerID)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	if err := guard.RequireDoctorAssignment(a != nil); err != nil {
		return nil, err
	}
	return a, nil
}

// Create admits the patient under the calling doctor. Status defaults to
// sick; an explicit admission date is honored, otherwise the store stamps
// its own.
func (s *Service) Create(ctx context.Context, callerID, doctorID, patientID int64, in CreateInput) (*Admission, error) {
	if err := guard.RequireSelf(doctorID, callerID); err != nil {
		return nil, err
	}
	if in.Status == "" {
		in.Status = StatusSick
	}

	var created *Admission
	err := s.tx.InTx(ctx, func(ctx context.Context) error {
		if err := s.requirePatient(ctx, patientID); err != nil {
			return err
		}
		a := &Admission{
			PatientID: patientID,
			DoctorID:  callerID,
			Diagnosis: in.Diagnosis,
			Status:    in.Status,
		}
		if in.AdmissionDate != nil {
			a.AdmissionDate = *in.AdmissionDate
		}
		if err := s.repo.Create(ctx, a); err != nil {
			return apperr.Internal(err)
		}
		created = a
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

// Replace overwrites the admission. The status transition decides the
// discharge date: recovery stamps now, relapse clears, same-status writes
// the caller's value through.
func (s *Service) Replace(ctx context.Context, callerID, doctorID, patientID, admissionID int64, in ReplaceInput) (*Admission, error) {
	if err := guard.RequireSelf(doctorID, callerID); err != nil {
		return nil, err
	}
	if in.Status == "" {
		in.Status = StatusSick
	}

	var updated *Admission
	err := s.tx.InTx(ctx, func(ctx context.Context) error {
		if err := s.requirePatient(ctx, patientID); err != nil {
			return err
		}
		existing, err := s.repo.GetScoped(ctx, admissionID, patientID, callerID)
		if err != nil {
			return apperr.Internal(err)
		}
		if err := guard.RequireDoctorAssignment(existing != nil); err != nil {
			return err
		}

		if override, discharge := ApplyStatusTransition(existing.Status, in.Status, s.now()); override {
			in.DischargeDate = discharge
		}

		a := &Admission{
			ID:            admissionID,
			PatientID:     patientID,
			DoctorID:      callerID,
			Diagnosis:     in.Diagnosis,
			Status:        in.Status,
			AdmissionDate: in.AdmissionDate,
			DischargeDate: in.DischargeDate,
		}
		if err := s.repo.Replace(ctx, a); err != nil {
			return apperr.Internal(err)
		}
		updated, err = s.repo.GetScoped(ctx, admissionID, patientID, callerID)
		if err != nil {
			return apperr.Internal(err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// Patch applies the supplied fields. When the changeset carries a status,
// the transition against the current row decides the discharge date and
// overrides any caller-supplied value; a patch without status never touches
// the discharge date.
func (s *Service) Patch(ctx context.Context, callerID, doctorID, patientID, admissionID int64, cs *patch.Changeset) (*Admission, error) {
	if err := guard.RequireSelf(doctorID, callerID); err != nil {
		return nil, err
	}

	var updated *Admission
	err := s.tx.InTx(ctx, func(ctx context.Context) error {
		if err := s.requirePatient(ctx, patientID); err != nil {
			return err
		}
		existing, err := s.repo.GetScoped(ctx, admissionID, patientID, callerID)
		if err != nil {
			return apperr.Internal(err)
		}
		if err := guard.RequireDoctorAssignment(existing != nil); err != nil {
			return err
		}
		if err := guard.RequireNonEmptyChangeset(cs.Len()); err != nil {
			return err
		}

		if v, ok := cs.Get("status"); ok {
			requested, _ := v.(Status)
			if override, discharge := ApplyStatusTransition(existing.Status, requested, s.now()); override {
				cs.Set("discharge_date", discharge)
			}
		}

		if err := s.repo.UpdateFields(ctx, admissionID, patientID, callerID, cs); err != nil {
			return apperr.Internal(err)
		}
		updated, err = s.repo.GetScoped(ctx, admissionID, patientID, callerID)
		if err != nil {
			return apperr.Internal(err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func (s *Service) Delete(ctx context.Context, callerID, doctorID, patientID, admissionID int64) error {
	if err := guard.RequireSelf(doctorID, callerID); err != nil {
		return err
	}
	return s.tx.InTx(ctx, func(ctx context.Context) error {
		if err := s.requirePatient(ctx, patientID); err != nil {
			return err
		}
		existing, err := s.repo.GetScoped(ctx, admissionID, patientID, callerID)
		if err != nil {
			return apperr.Internal(err)
		}
		if err := guard.RequireDoctorAssignment(existing != nil); err != nil {
			return err
		}
		if err := s.repo.Delete(ctx, admissionID, patientID, callerID); err != nil {
			return apperr.Internal(err)
		}
		return nil
	})
}

func (s *Service) requirePatient(ctx context.Context, patientID int64) error {
	p, err := s.patients.GetByID(ctx, patientID)
	if err != nil {
		return apperr.Internal(err)
	}
	return guard.RequireExists(p != nil, "Patient", patientID)
}
