package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/admitd/admitd/internal/domain/admission"
	"github.com/admitd/admitd/internal/domain/doctor"
	"github.com/admitd/admitd/internal/domain/expand"
	"github.com/admitd/admitd/internal/domain/patient"
	"github.com/admitd/admitd/internal/domain/province"
	"github.com/admitd/admitd/internal/platform/apperr"
	"github.com/admitd/admitd/internal/platform/auth"
	"github.com/admitd/admitd/internal/platform/patch"
)

// In-memory stores standing in for the pg repos.

type provinceStore struct {
	rows   map[int64]*province.Province
	nextID int64
}

func (s *provinceStore) Create(ctx context.Context, in province.Input) (*province.Province, error) {
	p := &province.Province{ID: s.nextID, Name: in.Name, City: in.City}
	s.rows[p.ID] = p
	s.nextID++
	return p, nil
}

func (s *provinceStore) GetByID(ctx context.Context, id int64) (*province.Province, error) {
	return s.rows[id], nil
}

func (s *provinceStore) List(ctx context.Context, limit, offset int) ([]*province.Province, error) {
	var out []*province.Province
	for id := int64(1); id < s.nextID; id++ {
		if p, ok := s.rows[id]; ok {
			out = append(out, p)
		}
	}
	return out, nil
}

func (s *provinceStore) Replace(ctx context.Context, id int64, in province.Input) error {
	if p, ok := s.rows[id]; ok {
		p.Name, p.City = in.Name, in.City
	}
	return nil
}

func (s *provinceStore) UpdateFields(ctx context.Context, id int64, cs *patch.Changeset) error {
	p, ok := s.rows[id]
	if !ok {
		return nil
	}
	if v, ok := cs.Get("name"); ok {
		p.Name = v.(string)
	}
	if v, ok := cs.Get("city"); ok {
		p.City = v.(string)
	}
	return nil
}

func (s *provinceStore) Delete(ctx context.Context, id int64) error {
	delete(s.rows, id)
	return nil
}

type patientStore struct {
	rows       map[int64]*patient.Patient
	admissions *admissionStore
	nextID     int64
}

func (s *patientStore) Create(ctx context.Context, p *patient.Patient) error {
	p.ID = s.nextID
	s.nextID++
	s.rows[p.ID] = p
	return nil
}

func (s *patientStore) GetByID(ctx context.Context, id int64) (*patient.Patient, error) {
	return s.rows[id], nil
}

func (s *patientStore) GetByEmail(ctx context.Context, email string) (*patient.Patient, error) {
	for _, p := range s.rows {
		if p.Email == email {
			return p, nil
		}
	}
	return nil, nil
}

func (s *patientStore) List(ctx context.Context, limit, offset int) ([]*patient.Patient, error) {
	var out []*patient.Patient
	for id := int64(1); id < s.nextID; id++ {
		if p, ok := s.rows[id]; ok {
			out = append(out, p)
		}
	}
	return out, nil
}

func (s *patientStore) Replace(ctx context.Context, p *patient.Patient) error {
	if _, ok := s.rows[p.ID]; ok {
		s.rows[p.ID] = p
	}
	return nil
}

func (s *patientStore) UpdateFields(ctx context.Context, id int64, cs *patch.Changeset) error {
	p, ok := s.rows[id]
	if !ok {
		return nil
	}
	if v, ok := cs.Get("first_name"); ok {
		p.FirstName = v.(string)
	}
	if v, ok := cs.Get("allergies"); ok {
		if v == nil {
			p.Allergies = nil
		} else {
			a := v.(string)
			p.Allergies = &a
		}
	}
	return nil
}

func (s *patientStore) Delete(ctx context.Context, id int64) error {
	delete(s.rows, id)
	return nil
}

func (s *patientStore) ListByDoctor(ctx context.Context, doctorID int64) ([]*patient.RosterEntry, error) {
	var out []*patient.RosterEntry
	for id := int64(1); id < s.admissions.nextID; id++ {
		a, ok := s.admissions.rows[id]
		if !ok || a.DoctorID != doctorID {
			continue
		}
		if p, ok := s.rows[a.PatientID]; ok {
			out = append(out, &patient.RosterEntry{Patient: *p, AdmissionID: a.ID})
		}
	}
	return out, nil
}

func (s *patientStore) GetByDoctor(ctx context.Context, doctorID, patientID int64) (*patient.RosterEntry, error) {
	entries, _ := s.ListByDoctor(ctx, doctorID)
	for _, e := range entries {
		if e.Patient.ID == patientID {
			return e, nil
		}
	}
	return nil, nil
}

type doctorStore struct {
	rows   map[int64]*doctor.Doctor
	nextID int64
}

func (s *doctorStore) Create(ctx context.Context, d *doctor.Doctor) error {
	d.ID = s.nextID
	s.nextID++
	s.rows[d.ID] = d
	return nil
}

func (s *doctorStore) GetByID(ctx context.Context, id int64) (*doctor.Doctor, error) {
	return s.rows[id], nil
}

func (s *doctorStore) GetByEmail(ctx context.Context, email string) (*doctor.Doctor, error) {
	for _, d := range s.rows {
		if d.Email == email {
			return d, nil
		}
	}
	return nil, nil
}

func (s *doctorStore) List(ctx context.Context, limit, offset int) ([]*doctor.Doctor, error) {
	var out []*doctor.Doctor
	for id := int64(1); id < s.nextID; id++ {
		if d, ok := s.rows[id]; ok {
			out = append(out, d)
		}
	}
	return out, nil
}

func (s *doctorStore) Replace(ctx context.Context, d *doctor.Doctor) error {
	if _, ok := s.rows[d.ID]; ok {
		s.rows[d.ID] = d
	}
	return nil
}

func (s *doctorStore) UpdateFields(ctx context.Context, id int64, cs *patch.Changeset) error {
	d, ok := s.rows[id]
	if !ok {
		return nil
	}
	if v, ok := cs.Get("specialty"); ok {
		d.Specialty = v.(string)
	}
	return nil
}

func (s *doctorStore) Delete(ctx context.Context, id int64) error {
	delete(s.rows, id)
	return nil
}

type admissionStore struct {
	rows   map[int64]*admission.Admission
	nextID int64
}

func (s *admissionStore) Create(ctx context.Context, a *admission.Admission) error {
	a.ID = s.nextID
	s.nextID++
	if a.AdmissionDate.IsZero() {
		a.AdmissionDate = time.Now().UTC()
	}
	cp := *a
	s.rows[a.ID] = &cp
	return nil
}

func (s *admissionStore) GetScoped(ctx context.Context, id, patientID, doctorID int64) (*admission.Admission, error) {
	a, ok := s.rows[id]
	if !ok || a.PatientID != patientID || a.DoctorID != doctorID {
		return nil, nil
	}
	cp := *a
	return &cp, nil
}

func (s *admissionStore) GetForPatient(ctx context.Context, id, patientID int64) (*admission.Admission, error) {
	a, ok := s.rows[id]
	if !ok || a.PatientID != patientID {
		return nil, nil
	}
	cp := *a
	return &cp, nil
}

func (s *admissionStore) ListByPatient(ctx context.Context, patientID int64) ([]*admission.Admission, error) {
	return s.filter(func(a *admission.Admission) bool { return a.PatientID == patientID }), nil
}

func (s *admissionStore) ListByDoctor(ctx context.Context, doctorID int64) ([]*admission.Admission, error) {
	return s.filter(func(a *admission.Admission) bool { return a.DoctorID == doctorID }), nil
}

func (s *admissionStore) ListByPatientAndDoctor(ctx context.Context, patientID, doctorID int64) ([]*admission.Admission, error) {
	return s.filter(func(a *admission.Admission) bool {
		return a.PatientID == patientID && a.DoctorID == doctorID
	}), nil
}

func (s *admissionStore) filter(keep func(*admission.Admission) bool) []*admission.Admission {
	var out []*admission.Admission
	for id := int64(1); id < s.nextID; id++ {
		if a, ok := s.rows[id]; ok && keep(a) {
			cp := *a
			out = append(out, &cp)
		}
	}
	return out
}

func (s *admissionStore) Replace(ctx context.Context, a *admission.Admission) error {
	existing, ok := s.rows[a.ID]
	if !ok || existing.PatientID != a.PatientID || existing.DoctorID != a.DoctorID {
		return nil
	}
	cp := *a
	s.rows[a.ID] = &cp
	return nil
}

func (s *admissionStore) UpdateFields(ctx context.Context, id, patientID, doctorID int64, cs *patch.Changeset) error {
	a, ok := s.rows[id]
	if !ok || a.PatientID != patientID || a.DoctorID != doctorID {
		return nil
	}
	if v, ok := cs.Get("diagnosis"); ok {
		a.Diagnosis = v.(string)
	}
	if v, ok := cs.Get("status"); ok {
		a.Status = v.(admission.Status)
	}
	if v, ok := cs.Get("discharge_date"); ok {
		d, _ := v.(*time.Time)
		a.DischargeDate = d
	}
	return nil
}

func (s *admissionStore) Delete(ctx context.Context, id, patientID, doctorID int64) error {
	a, ok := s.rows[id]
	if ok && a.PatientID == patientID && a.DoctorID == doctorID {
		delete(s.rows, id)
	}
	return nil
}

type passTx struct{}

func (passTx) InTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type env struct {
	e          *echo.Echo
	issuer     *auth.Issuer
	provinces  *provinceStore
	patients   *patientStore
	doctors    *doctorStore
	admissions *admissionStore
}

func newEnv(t *testing.T) *env {
	t.Helper()

	admissions := &admissionStore{rows: make(map[int64]*admission.Admission), nextID: 1}
	provinces := &provinceStore{rows: make(map[int64]*province.Province), nextID: 1}
	patients := &patientStore{rows: make(map[int64]*patient.Patient), admissions: admissions, nextID: 1}
	doctors := &doctorStore{rows: make(map[int64]*doctor.Doctor), nextID: 1}

	tx := passTx{}
	issuer := auth.NewIssuer("test-secret", time.Hour)
	expander := expand.New(provinces, patients, doctors, admissions)

	h := New(
		province.NewService(provinces, tx),
		patient.NewService(patients, provinces, tx),
		doctor.NewService(doctors, tx),
		admission.NewService(admissions, patients, tx),
		expander,
		issuer,
		patients,
		doctors,
	)

	e := echo.New()
	e.HTTPErrorHandler = apperr.HTTPErrorHandler(zerolog.Nop())
	h.RegisterRoutes(e)

	return &env{e: e, issuer: issuer, provinces: provinces, patients: patients, doctors: doctors, admissions: admissions}
}

func (env *env) seedProvince() *province.Province {
	p, _ := env.provinces.Create(context.Background(), province.Input{Name: "Santa Fe", City: "Rosario"})
	return p
}

func (env *env) seedPatient(email, password string) *patient.Patient {
	digest, _ := auth.HashPassword(password)
	p := &patient.Patient{
		ProvinceID: 1,
		FirstName:  "Ana",
		LastName:   "Diaz",
		Email:      email,
		Password:   digest,
		BirthDate:  time.Date(1990, 4, 12, 0, 0, 0, 0, time.UTC),
		HeightCM:   168,
		WeightKG:   61,
	}
	_ = env.patients.Create(context.Background(), p)
	return p
}

func (env *env) seedDoctor(email, password string) *doctor.Doctor {
	digest, _ := auth.HashPassword(password)
	d := &doctor.Doctor{
		FirstName: "Luis",
		LastName:  "Serra",
		Email:     email,
		Password:  digest,
		Specialty: "Cardiology",
	}
	_ = env.doctors.Create(context.Background(), d)
	return d
}

func (env *env) seedAdmission(patientID, doctorID int64) *admission.Admission {
	a := &admission.Admission{PatientID: patientID, DoctorID: doctorID, Diagnosis: "flu", Status: admission.StatusSick}
	_ = env.admissions.Create(context.Background(), a)
	return a
}

func (env *env) token(t *testing.T, id int64, kind auth.Kind) string {
	t.Helper()
	token, err := env.issuer.Issue(id, kind)
	if err != nil {
		t.Fatalf("issuing token: %v", err)
	}
	return token
}

func (env *env) do(method, path, token string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	if body != nil {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	env.e.ServeHTTP(rec, req)
	return rec
}

func detail(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body struct {
		Detail string `json:"detail"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decoding error body %q: %v", rec.Body.String(), err)
	}
	return body.Detail
}
