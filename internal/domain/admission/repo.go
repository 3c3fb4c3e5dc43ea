package admission

import (
	"context"

	"github.com/admitd/admitd/internal/platform/patch"
)

// Repository is the admission store. Every doctor-side statement is scoped
// by (id, patient_id, doctor_id) so a guessed primary key cannot reach
// another doctor's rows. Lookups return (nil, nil) when no row matches.
type Repository interface {
	Create(ctx context.Context, a *Admission) error
	GetScoped(ctx context.Context, id, patientID, doctorID int64) (*Admission, error)
	GetForPatient(ctx context.Context, id, patientID int64) (*Admission, error)
	ListByPatient(ctx context.Context, patientID int64) ([]*Admission, error)
	ListByDoctor(ctx context.Context, doctorID int64) ([]*Admission, error)
	ListByPatientAndDoctor(ctx context.Context, patientID, doctorID int64) ([]*Admission, error)
	Replace(ctx context.Context, a *Admission) error
	UpdateFields(ctx context.Context, id, patientID, doctorID int64, cs *patch.Changeset) error
	Delete(ctx context.Context, id, patientID, doctorID int64) error
}
