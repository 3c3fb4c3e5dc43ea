package province

import (
	"context"

	"github.com/admitd/admitd/internal/platform/patch"
)

// Repository is the province store. Lookups return (nil, nil) when no row
// matches; callers turn that into a typed not-found failure.
type Repository interface {
	Create(ctx context.Context, in Input) (*Province, error)
	GetByID(ctx context.Context, id int64) (*Province, error)
	List(ctx context.Context, limit, offset int) ([]*Province, error)
	Replace(ctx context.Context, id int64, in Input) error
	UpdateFields(ctx context.Context, id int64, cs *patch.Changeset) error
	Delete(ctx context.Context, id int64) error
}
