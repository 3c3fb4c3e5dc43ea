package province

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

const provinceCols = `id, name, city`

func (r *repoPG) Create(ctx context.Context, in Input) (*Province, error) {
	return scanProvince(r.conn(ctx).QueryRow(ctx, `
		INSERT INTO provinces (name, city) VALUES ($1, $2)
		RETURNING `+provinceCols,
		in.Name, in.City,
	))
}

func (r *repoPG) GetByID(ctx context.Context, id int64) (*Province, error) {
	p, err := scanProvince(r.conn(ctx).QueryRow(ctx,
		`SELECT `+provinceCols+` FROM provinces WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	return p, err
}

func (r *repoPG) List(ctx context.Context, limit, offset int) ([]*Province, error) {
	rows, err := r.conn(ctx).Query(ctx,
		`SELECT `+provinceCols+` FROM provinces ORDER BY id LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var provinces []*Province
	for rows.Next() {
		var p Province
		if err := rows.Scan(&p.ID, &p.Name, &p.City); err != nil {
			return nil, err
		}
		provinces = append(provinces, &p)
	}
	return provinces, rows.Err()
}

func (r *repoPG) Replace(ctx context.Context, id int64, in Input) error {
	_, err := r.conn(ctx).Exec(ctx,
		`UPDATE provinces SET name = $1, city = $2 WHERE id = $3`,
		in.Name, in.City, id)
	return err
}

func (r *repoPG) UpdateFields(ctx context.Context, id int64, cs *patch.Changeset) error {
	sql, args, err := patch.Build("provinces", cs, id)
	if err != nil {
		return err
	}
	_, err = r.conn(ctx).Exec(ctx, sql, args...)
	return err
}

func (r *repoPG) Delete(ctx context.Context, id int64) error {
	_, err := r.conn(ctx).Exec(ctx, `DELETE FROM provinces WHERE id = $1`, id)
	return err
}

func scanProvince(row pgx.Row) (*Province, error) {
	var p Province
	if err := row.Scan(&p.ID, &p.Name, &p.City); err != nil {
		return nil, err
	}
	return &p, nil
}
