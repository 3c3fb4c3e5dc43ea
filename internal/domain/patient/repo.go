package patient

import (
	"context"

	"github.com/admitd/admitd/internal/platform/patch"
)

// Repository is the patient store. Lookups return (nil, nil) when no row
// matches; callers turn that into the appropriate typed failure.
type Repository interface {
	Create(ctx context.Context, p *Patient) error
	GetByID(ctx context.Context, id int64) (*Patient, error)
	GetByEmail(ctx context.Context, email string) (*Patient, error)
	List(ctx context.Context, limit, offset int) ([]*Patient, error)
	Replace(ctx context.Context, p *Patient) error
	UpdateFields(ctx context.Context, id int64, cs *patch.Changeset) error
	Delete(ctx context.Context, id int64) error

	// Roster lookups join patients to a doctor through admissions; each row
	// carries the linking admission id, one row per admission.
	ListByDoctor(ctx context.Context, doctorID int64) ([]*RosterEntry, error)
	GetByDoctor(ctx context.Context, doctorID, patientID int64) (*RosterEntry, error)
}
