package finance

import (
	"context"
	"strconv"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/clinic/clinic/internal/platform/db"
)

type queryable interface {
	Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row
	Exec(ctx context.Context, sql string, args ...interface{}) (pgconn.CommandTag, error)
}

type repoPG struct{ pool *pgxpool.Pool }

func NewRepoPG(pool *pgxpool.Pool) Repository {
	return &repoPG{pool: pool}
}

func (r *repoPG) conn(ctx context.Context) queryable {
	if tx := db.TxFromContext(ctx); tx != nil {
		return tx
	}
	return r.pool
}

func (r *repoPG) Create(ctx context.Context, e *Entry) error {
	return r.conn(ctx).QueryRow(ctx, `
		INSERT INTO finance (date, type, amount, notes)
		VALUES ($1, $2, $3, $4)
		RETURNING id`,
		e.Date, e.Type, e.Amount, e.Notes).Scan(&e.ID)
}

func (r *repoPG) Delete(ctx context.Context, id int64) error {
	tag, err := r.conn(ctx).Exec(ctx, `DELETE FROM finance WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrEntryNotFound
	}
	return nil
}

func filterClause(f Filter) (string, []interface{}) {
	where := ``
	var args []interface{}
	and := func(cond string) {
		if where == "" {
			where = ` WHERE ` + cond
		} else {
			where += ` AND ` + cond
		}
	}
	if f.Type != "" {
		args = append(args, f.Type)
		and(`type = $` + strconv.Itoa(len(args)))
	}
	if f.From != "" {
		args = append(args, f.From)
		and(`date >= $` + strconv.Itoa(len(args)) + `::date`)
	}
	if f.To != "" {
		args = append(args, f.To)
		and(`date <= $` + strconv.Itoa(len(args)) + `::date`)
	}
	return where, args
}

func (r *repoPG) List(ctx context.Context, f Filter) ([]*Entry, error) {
	where, args := filterClause(f)
	rows, err := r.conn(ctx).Query(ctx, `
		SELECT id, to_char(date, 'YYYY-MM-DD'), type, amount, notes
		FROM finance`+where+`
		ORDER BY date DESC, id DESC`, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []*Entry
	for rows.Next() {
		var e Entry
		if err := rows.Scan(&e.ID, &e.Date, &e.Type, &e.Amount, &e.Notes); err != nil {
			return nil, err
		}
		result = append(result, &e)
	}
	return result, rows.Err()
}

func (r *repoPG) Summarize(ctx context.Context, f Filter) (*Summary, error) {
	where, args := filterClause(f)
	var s Summary
	err := r.conn(ctx).QueryRow(ctx, `
		SELECT COALESCE(SUM(amount) FILTER (WHERE type = 'Income'), 0),
		       COALESCE(SUM(amount) FILTER (WHERE type = 'Expense'), 0)
		FROM finance`+where, args...).Scan(&s.TotalIncome, &s.TotalExpense)
	if err != nil {
		return nil, err
	}
	s.Net = s.TotalIncome - s.TotalExpense
	return &s, nil
}
