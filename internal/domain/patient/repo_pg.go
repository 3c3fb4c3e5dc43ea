package patient

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/admitd/admitd/internal/platform/db"
	"github.com/admitd/admitd/internal/platform/patch"
)

type repoPG struct {
	pool *pgxpool.Pool
}

func NewRepo(pool *pgxpool.Pool) Repository {
	return &repoPG{pool: pool}
}

type querier interface {
	Exec(ctx context.Context, sql string, args ...interface{}) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row
}

func (r *repoPG) conn(ctx context.Context) querier {
	if tx := db.TxFromContext(ctx); tx != nil {
		return tx
	}
	return r.pool
}

const patientCols = `id, province_id, first_name, last_name, email, password,
	gender, birth_date, allergies, height_cm, weight_kg`

func (r *repoPG) Create(ctx context.Context, p *Patient) error {
	return r.conn(ctx).QueryRow(ctx, `
		INSERT INTO patients (province_id, first_name, last_name, email, password,
			gender, birth_date, allergies, height_cm, weight_kg)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
		RETURNING id`,
		p.ProvinceID, p.FirstName, p.LastName, p.Email, p.Password,
		p.Gender, p.BirthDate, p.Allergies, p.HeightCM, p.WeightKG,
	).Scan(&p.ID)
}

func (r *repoPG) GetByID(ctx context.Context, id int64) (*Patient, error) {
	p, err := scanPatient(r.conn(ctx).QueryRow(ctx,
		`SELECT `+patientCols+` FROM patients WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	return p, err
}

func (r *repoPG) GetByEmail(ctx context.Context, email string) (*Patient, error) {
	p, err := scanPatient(r.conn(ctx).QueryRow(ctx,
		`SELECT `+patientCols+` FROM patients WHERE email = $1`, email))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	return p, err
}

func (r *repoPG) List(ctx context.Context, limit, offset int) ([]*Patient, error) {
	rows, err := r.conn(ctx).Query(ctx,
		`SELECT `+patientCols+` FROM patients ORDER BY id LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var patients []*Patient
	for rows.Next() {
		var p Patient
		if err := rows.Scan(
			&p.ID, &p.ProvinceID, &p.FirstName, &p.LastName, &p.Email, &p.Password,
			&p.Gender, &p.BirthDate, &p.Allergies, &p.HeightCM, &p.WeightKG,
		); err != nil {
			return nil, err
		}
		patients = append(patients, &p)
	}
	return patients, rows.Err()
}

func (r *repoPG) Replace(ctx context.Context, p *Patient) error {
	_, err := r.conn(ctx).Exec(ctx, `
		UPDATE patients SET province_id = $1, first_name = $2, last_name = $3,
			email = $4, password = $5, gender = $6, birth_date = $7,
			allergies = $8, height_cm = $9, weight_kg = $10
		WHERE id = $11`,
		p.ProvinceID, p.FirstName, p.LastName, p.Email, p.Password,
		p.Gender, p.BirthDate, p.Allergies, p.HeightCM, p.WeightKG, p.ID,
	)
	return err
}

func (r *repoPG) UpdateFields(ctx context.Context, id int64, cs *patch.Changeset) error {
	sql, args, err := patch.Build("patients", cs, id)
	if err != nil {
		return err
	}
	_, err = r.conn(ctx).Exec(ctx, sql, args...)
	return err
}

func (r *repoPG) Delete(ctx context.Context, id int64) error {
	_, err := r.conn(ctx).Exec(ctx, `DELETE FROM patients WHERE id = $1`, id)
	return err
}

const rosterCols = `patients.id, patients.province_id, patients.first_name,
	patients.last_name, patients.email, patients.password, patients.gender,
	patients.birth_date, patients.allergies, patients.height_cm,
	patients.weight_kg, admissions.id AS admission_id`

func (r *repoPG) ListByDoctor(ctx context.Context, doctorID int64) ([]*RosterEntry, error) {
	rows, err := r.conn(ctx).Query(ctx, `
		SELECT `+rosterCols+`
		FROM patients
		JOIN admissions ON admissions.patient_id = patients.id
		WHERE admissions.doctor_id = $1
		ORDER BY admissions.id`, doctorID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []*RosterEntry
	for rows.Next() {
		e, err := scanRosterEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

func (r *repoPG) GetByDoctor(ctx context.Context, doctorID, patientID int64) (*RosterEntry, error) {
	e, err := scanRosterEntry(r.conn(ctx).QueryRow(ctx, `
		SELECT `+rosterCols+`
		FROM patients
		JOIN admissions ON admissions.patient_id = patients.id
		WHERE admissions.doctor_id = $1 AND admissions.patient_id = $2
		ORDER BY admissions.id
		LIMIT 1`, doctorID, patientID))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	return e, err
}

func scanPatient(row pgx.Row) (*Patient, error) {
	var p Patient
	err := row.Scan(
		&p.ID, &p.ProvinceID, &p.FirstName, &p.LastName, &p.Email, &p.Password,
		&p.Gender, &p.BirthDate, &p.Allergies, &p.HeightCM, &p.WeightKG,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func scanRosterEntry(row pgx.Row) (*RosterEntry, error) {
	var e RosterEntry
	err := row.Scan(
		&e.ID, &e.ProvinceID, &e.FirstName, &e.LastName, &e.Email, &e.Password,
		&e.Gender, &e.BirthDate, &e.Allergies, &e.HeightCM, &e.WeightKG,
		&e.AdmissionID,
	)
	if err != nil {
		return nil, err
	}
	return &e, nil
}
