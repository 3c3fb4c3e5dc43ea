package doctor

import (
	"context"

	"github.com/admitd/admitd/internal/platform/patch"
)

// Repository is the doctor store. Lookups return (nil, nil) when no row
// matches.
type Repository interface {
	Create(ctx context.Context, d *Doctor) error
	GetByID(ctx context.Context, id int64) (*Doctor, error)
	GetByEmail(ctx context.Context, email string) (*Doctor, error)
	List(ctx context.Context, limit, offset int) ([]*Doctor, error)
	Replace(ctx context.Context, d *Doctor) error
	UpdateFields(ctx context.Context, id int64, cs *patch.Changeset) error
	Delete(ctx context.Context, id int64) error
}
