package doctor

import (
	"context"

	"github.com/admitd/admitd/internal/platform/apperr"
	"github.com/admitd/admitd/internal/platform/auth"
	"github.com/admitd/admitd/internal/platform/db"
	"github.com/admitd/admitd/internal/platform/guard"
	"github.com/admitd/admitd/internal/platform/patch"
)

type Service struct {
	repo Repository
	tx   db.Transactor
}

func NewService(repo Repository, tx db.Transactor) *Service {
	return &Service{repo: repo, tx: tx}
}

func (s *Service) List(ctx context.Context, limit, offset int) ([]*Doctor, error) {
	doctors, err := s.repo.List(ctx, limit, offset)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	if doctors == nil {
		doctors = []*Doctor{}
	}
	return doctors, nil
}

func (s *Service) Get(ctx context.Context, id int64) (*Doctor, error) {
	d, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	if err := guard.RequireExists(d != nil, "Doctor", id); err != nil {
		return nil, err
	}
	return d, nil
}

// Register creates a doctor with a digested password.
func (s *Service) Register(ctx context.Context, in Input) (*Doctor, error) {
	var created *Doctor
	err := s.tx.InTx(ctx, func(ctx context.Context) error {
		digest, err := auth.HashPassword(in.Password)
		if err != nil {
			return apperr.Internal(err)
		}
		d := &Doctor{
			FirstName: in.FirstName,
			LastName:  in.LastName,
			Email:     in.Email,
			Password:  digest,
			Specialty: in.Specialty,
		}
		if err := s.repo.Create(ctx, d); err != nil {
			return apperr.Internal(err)
		}
		created = d
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

// Replace overwrites every writable field; doctors may only replace
// themselves.
func (s *Service) Replace(ctx context.Context, callerID, id int64, in Input) (*Doctor, error) {
	if err := guard.RequireSelf(id, callerID); err != nil {
		return nil, err
	}

	var updated *Doctor
	err := s.tx.InTx(ctx, func(ctx context.Context) error {
		existing, err := s.repo.GetByID(ctx, id)
		if err != nil {
			return apperr.Internal(err)
		}
		if err := guard.RequireExists(existing != nil, "Doctor", id); err != nil {
			return err
		}

		digest, err := auth.HashPassword(in.Password)
		if err != nil {
			return apperr.Internal(err)
		}
		d := &Doctor{
			ID:        id,
			FirstName: in.FirstName,
			LastName:  in.LastName,
			Email:     in.Email,
			Password:  digest,
			Specialty: in.Specialty,
		}
		if err := s.repo.Replace(ctx, d); err != nil {
			return apperr.Internal(err)
		}
		updated, err = s.repo.GetByID(ctx, id)
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

// Patch applies the supplied fields only, re-digesting a changed password.
func (s *Service) Patch(ctx context.Context, callerID, id int64, cs *patch.Changeset) (*Doctor, error) {
	if err := guard.RequireSelf(id, callerID); err != nil {
		return nil, err
	}

	var updated *Doctor
	err := s.tx.InTx(ctx, func(ctx context.Context) error {
		existing, err := s.repo.GetByID(ctx, id)
		if err != nil {
			return apperr.Internal(err)
		}
		if err := guard.RequireExists(existing != nil, "Doctor", id); err != nil {
			return err
		}

		if v, ok := cs.Get("password"); ok {
			plain, _ := v.(string)
			digest, err := auth.HashPassword(plain)
			if err != nil {
				return apperr.Internal(err)
			}
			cs.Set("password", digest)
		}

		if err := guard.RequireNonEmptyChangeset(cs.Len()); err != nil {
			return err
		}
		if err := s.repo.UpdateFields(ctx, id, cs); err != nil {
			return apperr.Internal(err)
		}
		updated, err = s.repo.GetByID(ctx, id)
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

func (s *Service) Delete(ctx context.Context, callerID, id int64) error {
	if err := guard.RequireSelf(id, callerID); err != nil {
		return err
	}
	return s.tx.InTx(ctx, func(ctx context.Context) error {
		existing, err := s.repo.GetByID(ctx, id)
		if err != nil {
			return apperr.Internal(err)
		}
		if err := guard.RequireExists(existing != nil, "Doctor", id); err != nil {
			return err
		}
		if err := s.repo.Delete(ctx, id); err != nil {
			return apperr.Internal(err)
		}
		return nil
	})
}
