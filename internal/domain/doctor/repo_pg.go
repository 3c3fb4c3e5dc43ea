package doctor

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

const doctorCols = `id, first_name, last_name, email, password, specialty`

func (r *repoPG) Create(ctx context.Context, d *Doctor) error {
	return r.conn(ctx).QueryRow(ctx, `
		INSERT INTO doctors (first_name, last_name, email, password, specialty)
		VALUES ($1,$2,$3,$4,$5)
		RETURNING id`,
		d.FirstName, d.LastName, d.Email, d.Password, d.Specialty,
	).Scan(&d.ID)
}

func (r *repoPG) GetByID(ctx context.Context, id int64) (*Doctor, error) {
	d, err := scanDoctor(r.conn(ctx).QueryRow(ctx,
		`SELECT `+doctorCols+` FROM doctors WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	return d, err
}

func (r *repoPG) GetByEmail(ctx context.Context, email string) (*Doctor, error) {
	d, err := scanDoctor(r.conn(ctx).QueryRow(ctx,
		`SELECT `+doctorCols+` FROM doctors WHERE email = $1`, email))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	return d, err
}

func (r *repoPG) List(ctx context.Context, limit, offset int) ([]*Doctor, error) {
	rows, err := r.conn(ctx).Query(ctx,
		`SELECT `+doctorCols+` FROM doctors ORDER BY id LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var doctors []*Doctor
	for rows.Next() {
		var d Doctor
		if err := rows.Scan(&d.ID, &d.FirstName, &d.LastName, &d.Email, &d.Password, &d.Specialty); err != nil {
			return nil, err
		}
		doctors = append(doctors, &d)
	}
	return doctors, rows.Err()
}

func (r *repoPG) Replace(ctx context.Context, d *Doctor) error {
	_, err := r.conn(ctx).Exec(ctx, `
		UPDATE doctors SET first_name = $1, last_name = $2, email = $3,
			password = $4, specialty = $5
		WHERE id = $6`,
		d.FirstName, d.LastName, d.Email, d.Password, d.Specialty, d.ID,
	)
	return err
}

func (r *repoPG) UpdateFields(ctx context.Context, id int64, cs *patch.Changeset) error {
	sql, args, err := patch.Build("doctors", cs, id)
	if err != nil {
		return err
	}
	_, err = r.conn(ctx).Exec(ctx, sql, args...)
	return err
}

func (r *repoPG) Delete(ctx context.Context, id int64) error {
	_, err := r.conn(ctx).Exec(ctx, `DELETE FROM doctors WHERE id = $1`, id)
	return err
}

func scanDoctor(row pgx.Row) (*Doctor, error) {
	var d Doctor
	if err := row.Scan(&d.ID, &d.FirstName, &d.LastName, &d.Email, &d.Password, &d.Specialty); err != nil {
		return nil, err
	}
	return &d, nil
}
