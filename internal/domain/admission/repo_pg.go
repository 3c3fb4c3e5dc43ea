package admission

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

const admissionCols = `id, patient_id, doctor_id, diagnosis, status, admission_date, discharge_date`

func (r *repoPG) Create(ctx context.Context, a *Admission) error {
	// A zero admission date defers to the column default.
	if a.AdmissionDate.IsZero() {
		return scanInto(a, r.conn(ctx).QueryRow(ctx, `
			INSERT INTO admissions (patient_id, doctor_id, diagnosis, status)
			VALUES ($1,$2,$3,$4)
			RETURNING `+admissionCols,
			a.PatientID, a.DoctorID, a.Diagnosis, a.Status,
		))
	}
	return scanInto(a, r.conn(ctx).QueryRow(ctx, `
		INSERT INTO admissions (patient_id, doctor_id, diagnosis, status, admission_date)
		VALUES ($1,$2,$3,$4,$5)
		RETURNING `+admissionCols,
		a.PatientID, a.DoctorID, a.Diagnosis, a.Status, a.AdmissionDate,
	))
}

func (r *repoPG) GetScoped(ctx context.Context, id, patientID, doctorID int64) (*Admission, error) {
	a, err := scanAdmission(r.conn(ctx).QueryRow(ctx, `
		SELECT `+admissionCols+` FROM admissions
		WHERE id = $1 AND patient_id = $2 AND doctor_id = $3`,
		id, patientID, doctorID))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	return a, err
}

func (r *repoPG) GetForPatient(ctx context.Context, id, patientID int64) (*Admission, error) {
	a, err := scanAdmission(r.conn(ctx).QueryRow(ctx, `
		SELECT `+admissionCols+` FROM admissions
		WHERE id = $1 AND patient_id = $2`,
		id, patientID))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	return a, err
}

func (r *repoPG) ListByPatient(ctx context.Context, patientID int64) ([]*Admission, error) {
	return r.list(ctx,
		`SELECT `+admissionCols+` FROM admissions WHERE patient_id = $1 ORDER BY id`, patientID)
}

func (r *repoPG) ListByDoctor(ctx context.Context, doctorID int64) ([]*Admission, error) {
	return r.list(ctx,
		`SELECT `+admissionCols+` FROM admissions WHERE doctor_id = $1 ORDER BY id`, doctorID)
}

func (r *repoPG) ListByPatientAndDoctor(ctx context.Context, patientID, doctorID int64) ([]*Admission, error) {
	return r.list(ctx,
		`SELECT `+admissionCols+` FROM admissions WHERE patient_id = $1 AND doctor_id = $2 ORDER BY id`,
		patientID, doctorID)
}

func (r *repoPG) list(ctx context.Context, sql string, args ...interface{}) ([]*Admission, error) {
	rows, err := r.conn(ctx).Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var admissions []*Admission
	for rows.Next() {
		var a Admission
		if err := rows.Scan(&a.ID, &a.PatientID, &a.DoctorID, &a.Diagnosis, &a.Status, &a.AdmissionDate, &a.DischargeDate); err != nil {
			return nil, err
		}
		admissions = append(admissions, &a)
	}
	return admissions, rows.Err()
}

func (r *repoPG) Replace(ctx context.Context, a *Admission) error {
	_, err := r.conn(ctx).Exec(ctx, `
		UPDATE admissions SET diagnosis = $1, status = $2, admission_date = $3, discharge_date = $4
		WHERE id = $5 AND patient_id = $6 AND doctor_id = $7`,
		a.Diagnosis, a.Status, a.AdmissionDate, a.DischargeDate,
		a.ID, a.PatientID, a.DoctorID,
	)
	return err
}

func (r *repoPG) UpdateFields(ctx context.Context, id, patientID, doctorID int64, cs *patch.Changeset) error {
	sql, args, err := patch.BuildScoped("admissions", cs, id, patientID, doctorID)
	if err != nil {
		return err
	}
	_, err = r.conn(ctx).Exec(ctx, sql, args...)
	return err
}

func (r *repoPG) Delete(ctx context.Context, id, patientID, doctorID int64) error {
	_, err := r.conn(ctx).Exec(ctx, `
		DELETE FROM admissions WHERE id = $1 AND patient_id = $2 AND doctor_id = $3`,
		id, patientID, doctorID)
	return err
}

func scanAdmission(row pgx.Row) (*Admission, error) {
	var a Admission
	if err := scanInto(&a, row); err != nil {
		return nil, err
	}
	return &a, nil
}

func scanInto(a *Admission, row pgx.Row) error {
	return row.Scan(&a.ID, &a.PatientID, &a.DoctorID, &a.Diagnosis, &a.Status, &a.AdmissionDate, &a.DischargeDate)
}
