package patient

import (
	"context"

	"github.com/admitd/admitd/internal/domain/province"
	"github.com/admitd/admitd/internal/platform/apperr"
	"github.com/admitd/admitd/internal/platform/auth"
	"github.com/admitd/admitd/internal/platform/db"
	"github.com/admitd/admitd/internal/platform/guard"
	"github.com/admitd/admitd/internal/platform/patch"
)

type Service struct {
	repo      Repository
	provinces province.Repository
	tx        db.Transactor
}

func NewService(repo Repository, provinces province.Repository, tx db.Transactor) *Service {
	return &Service{repo: repo, provinces: provinces, tx: tx}
}

func (s *Service) List(ctx context.Context, limit, offset int) ([]*Patient, error) {
	patients, err := s.repo.List(ctx, limit, offset)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	if patients == nil {
		patients = []*Patient{}
	}
	return patients, nil
}

func (s *Service) Get(ctx context.Context, id int64) (*Patient, error) {
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	if err := guard.RequireExists(p != nil, "Patient", id); err != nil {
		return nil, err
	}
	return p, nil
}

// Register creates a patient. The referenced province must exist and the
// password is digested before the row is written.
func (s *Service) Register(ctx context.Context, in Input) (*Patient, error) {
	var created *Patient
	err := s.tx.InTx(ctx, func(ctx context.Context) error {
		if err := s.requireProvince(ctx, in.ProvinceID); err != nil {
			return err
		}

		digest, err := auth.HashPassword(in.Password)
		if err != nil {
			return apperr.Internal(err)
		}

		p := &Patient{
			ProvinceID: in.ProvinceID,
			FirstName:  in.FirstName,
			LastName:   in.LastName,
			Email:      in.Email,
			Password:   digest,
			Gender:     in.Gender,
			BirthDate:  in.BirthDate,
			Allergies:  in.Allergies,
			HeightCM:   in.HeightCM,
			WeightKG:   in.WeightKG,
		}
		if err := s.repo.Create(ctx, p); err != nil {
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

// Replace overwrites every writable field. Only the patient themselves may
// do it; the new province must exist and the password is re-digested.
func (s *Service) Replace(ctx context.Context, callerID, id int64, in Input) (*Patient, error) {
	if err := guard.RequireSelf(id, callerID); err != nil {
		return nil, err
	}

	var updated *Patient
	err := s.tx.InTx(ctx, func(ctx context.Context) error {
		existing, err := s.repo.GetByID(ctx, id)
		if err != nil {
			return apperr.Internal(err)
		}
		if err := guard.RequireExists(existing != nil, "Patient", id); err != nil {
			return err
		}
		if err := s.requireProvince(ctx, in.ProvinceID); err != nil {
			return err
		}

		digest, err := auth.HashPassword(in.Password)
		if err != nil {
			return apperr.Internal(err)
		}

		p := &Patient{
			ID:         id,
			ProvinceID: in.ProvinceID,
			FirstName:  in.FirstName,
			LastName:   in.LastName,
			Email:      in.Email,
			Password:   digest,
			Gender:     in.Gender,
			BirthDate:  in.BirthDate,
			Allergies:  in.Allergies,
			HeightCM:   in.HeightCM,
			WeightKG:   in.WeightKG,
		}
		if err := s.repo.Replace(ctx, p); err != nil {
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

// Patch applies the supplied fields only. A changed province_id is
// re-validated and a changed password re-digested before the update runs.
func (s *Service) Patch(ctx context.Context, callerID, id int64, cs *patch.Changeset) (*Patient, error) {
	if err := guard.RequireSelf(id, callerID); err != nil {
		return nil, err
	}

	var updated *Patient
	err := s.tx.InTx(ctx, func(ctx context.Context) error {
		existing, err := s.repo.GetByID(ctx, id)
		if err != nil {
			return apperr.Internal(err)
		}
		if err := guard.RequireExists(existing != nil, "Patient", id); err != nil {
			return err
		}

		if v, ok := cs.Get("province_id"); ok {
			provinceID, _ := v.(int64)
			if err := s.requireProvince(ctx, provinceID); err != nil {
				return err
			}
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
		if err := guard.RequireExists(existing != nil, "Patient", id); err != nil {
			return err
		}
		if err := s.repo.Delete(ctx, id); err != nil {
			return apperr.Internal(err)
		}
		return nil
	})
}

// Roster lists the calling doctor's patients, one entry per admission.
func (s *Service) Roster(ctx context.Context, callerDoctorID, doctorID int64) ([]*RosterEntry, error) {
	if err := guard.RequireSelf(doctorID, callerDoctorID); err != nil {
		return nil, err
	}
	entries, err := s.repo.ListByDoctor(ctx, callerDoctorID)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	if entries == nil {
		entries = []*RosterEntry{}
	}
	return entries, nil
}

// RosterEntry fetches one patient off the calling doctor's roster. A patient
// that exists but has no admission with this doctor is a Forbidden, not a
// NotFound.
func (s *Service) RosterEntry(ctx context.Context, callerDoctorID, doctorID, patientID int64) (*RosterEntry, error) {
	if err := guard.RequireSelf(doctorID, callerDoctorID); err != nil {
		return nil, err
	}
	p, err := s.repo.GetByID(ctx, patientID)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	if err := guard.RequireExists(p != nil, "Patient", patientID); err != nil {
		return nil, err
	}

	entry, err := s.repo.GetByDoctor(ctx, callerDoctorID, patientID)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	if err := guard.RequireDoctorAssignment(entry != nil); err != nil {
		return nil, err
	}
	return entry, nil
}

func (s *Service) requireProvince(ctx context.Context, provinceID int64) error {
	p, err := s.provinces.GetByID(ctx, provinceID)
	if err != nil {
		return apperr.Internal(err)
	}
	return guard.RequireExists(p != nil, "Province", provinceID)
}
