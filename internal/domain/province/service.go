package province

import (
	"context"

	"github.com/admitd/admitd/internal/platform/apperr"
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

func (s *Service) List(ctx context.Context, limit, offset int) ([]*Province, error) {
	provinces, err := s.repo.List(ctx, limit, offset)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	if provinces == nil {
		provinces = []*Province{}
	}
	return provinces, nil
}

func (s *Service) Get(ctx context.Context, id int64) (*Province, error) {
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	if err := guard.RequireExists(p != nil, "Province", id); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *Service) Create(ctx context.Context, in Input) (*Province, error) {
	var created *Province
	err := s.tx.InTx(ctx, func(ctx context.Context) error {
		p, err := s.repo.Create(ctx, in)
		if err != nil {
			return apperr.Internal(err)
		}
		created = p
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

func (s *Service) Replace(ctx context.Context, id int64, in Input) (*Province, error) {
	var updated *Province
	err := s.tx.InTx(ctx, func(ctx context.Context) error {
		existing, err := s.repo.GetByID(ctx, id)
		if err != nil {
			return apperr.Internal(err)
		}
		if err := guard.RequireExists(existing != nil, "Province", id); err != nil {
			return err
		}
		if err := s.repo.Replace(ctx, id, in); err != nil {
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

func (s *Service) Patch(ctx context.Context, id int64, cs *patch.Changeset) (*Province, error) {
	var updated *Province
	err := s.tx.InTx(ctx, func(ctx context.Context) error {
		existing, err := s.repo.GetByID(ctx, id)
		if err != nil {
			return apperr.Internal(err)
		}
		if err := guard.RequireExists(existing != nil, "Province", id); err != nil {
			return err
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

func (s *Service) Delete(ctx context.Context, id int64) error {
	return s.tx.InTx(ctx, func(ctx context.Context) error {
		existing, err := s.repo.GetByID(ctx, id)
		if err != nil {
			return apperr.Internal(err)
		}
		if err := guard.RequireExists(existing != nil, "Province", id); err != nil {
			return err
		}
		if err := s.repo.Delete(ctx, id); err != nil {
			return apperr.Internal(err)
		}
		return nil
	})
}
