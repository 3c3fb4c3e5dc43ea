package doctor

import (
	"context"
	"testing"

	"github.com/admitd/admitd/internal/platform/apperr"
	"github.com/admitd/admitd/internal/platform/auth"
	"github.com/admitd/admitd/internal/platform/patch"
)

type mockRepo struct {
	doctors map[int64]*Doctor
	nextID  int64
}

func newMockRepo() *mockRepo {
	return &mockRepo{doctors: make(map[int64]*Doctor), nextID: 1}
}

func (m *mockRepo) Create(ctx context.Context, d *Doctor) error {
	d.ID = m.nextID
	m.nextID++
	m.doctors[d.ID] = d
	return nil
}

func (m *mockRepo) GetByID(ctx context.Context, id int64) (*Doctor, error) {
	return m.doctors[id], nil
}

func (m *mockRepo) GetByEmail(ctx context.Context, email string) (*Doctor, error) {
	for _, d := range m.doctors {
		if d.Email == email {
			return d, nil
		}
	}
	return nil, nil
}

func (m *mockRepo) List(ctx context.Context, limit, offset int) ([]*Doctor, error) {
	var out []*Doctor
	for id := int64(1); id < m.nextID; id++ {
		if d, ok := m.doctors[id]; ok {
			out = append(out, d)
		}
	}
	return out, nil
}

func (m *mockRepo) Replace(ctx context.Context, d *Doctor) error {
	if _, ok := m.doctors[d.ID]; ok {
		m.doctors[d.ID] = d
	}
	return nil
}

func (m *mockRepo) UpdateFields(ctx context.Context, id int64, cs *patch.Changeset) error {
	d, ok := m.doctors[id]
	if !ok {
		return nil
	}
	if v, ok := cs.Get("specialty"); ok {
		d.Specialty = v.(string)
	}
	if v, ok := cs.Get("password"); ok {
		d.Password = v.(string)
	}
	return nil
}

func (m *mockRepo) Delete(ctx context.Context, id int64) error {
	delete(m.doctors, id)
	return nil
}

type passTx struct{}

func (passTx) InTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

func newTestService() (*Service, *mockRepo) {
	repo := newMockRepo()
	return NewService(repo, passTx{}), repo
}

func validInput() Input {
	return Input{
		FirstName: "Luis",
		LastName:  "Serra",
		Email:     "luis@example.com",
		Password:  "hunter2",
		Specialty: "Cardiology",
	}
}

func TestRegister_HashesPassword(t *testing.T) {
	svc, repo := newTestService()

	created, err := svc.Register(context.Background(), validInput())
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	stored := repo.doctors[created.ID]
	if stored.Password == "hunter2" {
		t.Error("password stored in plaintext")
	}
	if !auth.VerifyPassword(stored.Password, "hunter2") {
		t.Error("stored digest does not verify")
	}
}

func TestGet_Missing(t *testing.T) {
	svc, _ := newTestService()

	_, err := svc.Get(context.Background(), 8)
	if !apperr.IsKind(err, apperr.KindNotFound) {
		t.Fatalf("err = %v, want NotFound", err)
	}
	if e, _ := apperr.As(err); e.Message != "Doctor with id 8 was not found" {
		t.Errorf("message = %q", e.Message)
	}
}

func TestReplace_RequiresSelf(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()
	created, _ := svc.Register(ctx, validInput())

	_, err := svc.Replace(ctx, created.ID+1, created.ID, validInput())
	if !apperr.IsKind(err, apperr.KindForbidden) {
		t.Fatalf("err = %v, want Forbidden", err)
	}
}

func TestPatch_SpecialtyOnly(t *testing.T) {
	svc, repo := newTestService()
	ctx := context.Background()
	created, _ := svc.Register(ctx, validInput())
	before := repo.doctors[created.ID].Password

	cs := &patch.Changeset{}
	cs.Set("specialty", "Neurology")
	updated, err := svc.Patch(ctx, created.ID, created.ID, cs)
	if err != nil {
		t.Fatalf("Patch: %v", err)
	}
	if updated.Specialty != "Neurology" {
		t.Errorf("Specialty = %q", updated.Specialty)
	}
	if repo.doctors[created.ID].Password != before {
		t.Error("password changed by a patch that did not touch it")
	}
}

func TestPatch_RehashesPassword(t *testing.T) {
	svc, repo := newTestService()
	ctx := context.Background()
	created, _ := svc.Register(ctx, validInput())

	cs := &patch.Changeset{}
	cs.Set("password", "rotated")
	if _, err := svc.Patch(ctx, created.ID, created.ID, cs); err != nil {
		t.Fatalf("Patch: %v", err)
	}
	if !auth.VerifyPassword(repo.doctors[created.ID].Password, "rotated") {
		t.Error("patched digest does not verify")
	}
}

func TestPatch_EmptyChangeset(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()
	created, _ := svc.Register(ctx, validInput())

	_, err := svc.Patch(ctx, created.ID, created.ID, &patch.Changeset{})
	if !apperr.IsKind(err, apperr.KindBadRequest) {
		t.Fatalf("err = %v, want BadRequest", err)
	}
}

func TestDelete(t *testing.T) {
	svc, repo := newTestService()
	ctx := context.Background()
	created, _ := svc.Register(ctx, validInput())

	if err := svc.Delete(ctx, created.ID+1, created.ID); !apperr.IsKind(err, apperr.KindForbidden) {
		t.Fatalf("cross-doctor delete err = %v, want Forbidden", err)
	}
	if err := svc.Delete(ctx, created.ID, created.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, ok := repo.doctors[created.ID]; ok {
		t.Error("doctor still present after delete")
	}
}
