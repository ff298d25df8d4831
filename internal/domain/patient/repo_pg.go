package patient

import (
	"context"
	"errors"
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

const patientCols = `id, name, age, contact, gender, occupation, marital_status, address`

func (r *repoPG) Create(ctx context.Context, p *Patient) error {
	return r.conn(ctx).QueryRow(ctx, `
		INSERT INTO patients (name, age, contact, gender, occupation, marital_status, address)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id`,
		p.Name, p.Age, p.Contact, p.Gender, p.Occupation, p.MaritalStatus, p.Address).Scan(&p.ID)
}

func (r *repoPG) GetByID(ctx context.Context, id int64) (*Patient, error) {
	var p Patient
	err := r.conn(ctx).QueryRow(ctx,
		`SELECT `+patientCols+` FROM patients WHERE id = $1`, id).
		Scan(&p.ID, &p.Name, &p.Age, &p.Contact, &p.Gender, &p.Occupation, &p.MaritalStatus, &p.Address)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrPatientNotFound
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *repoPG) Update(ctx context.Context, p *Patient) error {
	tag, err := r.conn(ctx).Exec(ctx, `
		UPDATE patients
		SET name = $2, age = $3, contact = $4, gender = $5,
		    occupation = $6, marital_status = $7, address = $8
		WHERE id = $1`,
		p.ID, p.Name, p.Age, p.Contact, p.Gender, p.Occupation, p.MaritalStatus, p.Address)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrPatientNotFound
	}
	return nil
}

// Search matches the query against name, contact, address and the numeric id.
func (r *repoPG) Search(ctx context.Context, query string, limit, offset int) ([]*Summary, int, error) {
	where := ``
	args := []interface{}{}
	if query != "" {
		where = `
		WHERE p.name ILIKE '%' || $1 || '%'
		   OR p.contact ILIKE '%' || $1 || '%'
		   OR p.address ILIKE '%' || $1 || '%'
		   OR p.id::text = $1`
		args = append(args, query)
	}

	var total int
	if err := r.conn(ctx).QueryRow(ctx,
		`SELECT COUNT(*) FROM patients p`+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	n := len(args)
	rows, err := r.conn(ctx).Query(ctx, `
		SELECT p.id, p.name, p.age, p.contact, p.gender, p.occupation, p.marital_status, p.address,
		       to_char(MAX(v.date), 'YYYY-MM-DD') AS last_visit
		FROM patients p
		LEFT JOIN visits v ON v.patient_id = p.id`+where+`
		GROUP BY p.id
		ORDER BY p.id DESC
		LIMIT $`+strconv.Itoa(n+1)+` OFFSET $`+strconv.Itoa(n+2),
		append(args, limit, offset)...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var result []*Summary
	for rows.Next() {
		var s Summary
		if err := rows.Scan(&s.ID, &s.Name, &s.Age, &s.Contact, &s.Gender,
			&s.Occupation, &s.MaritalStatus, &s.Address, &s.LastVisit); err != nil {
			return nil, 0, err
		}
		result = append(result, &s)
	}
	return result, total, rows.Err()
}
