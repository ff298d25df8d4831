package inventory

import (
	"context"
	"errors"

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

const itemCols = `id, brand_name, formula, stock, price`

func scanItem(row pgx.Row) (*Item, error) {
	var it Item
	err := row.Scan(&it.ID, &it.BrandName, &it.Formula, &it.Stock, &it.Price)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrItemNotFound
	}
	return &it, err
}

func (r *repoPG) Create(ctx context.Context, item *Item) error {
	return r.conn(ctx).QueryRow(ctx, `
		INSERT INTO inventory (brand_name, formula, stock, price)
		VALUES ($1, $2, $3, $4)
		RETURNING id`,
		item.BrandName, item.Formula, item.Stock, item.Price).Scan(&item.ID)
}

func (r *repoPG) GetByID(ctx context.Context, id int64) (*Item, error) {
	return scanItem(r.conn(ctx).QueryRow(ctx,
		`SELECT `+itemCols+` FROM inventory WHERE id = $1`, id))
}

func (r *repoPG) Update(ctx context.Context, item *Item) error {
	tag, err := r.conn(ctx).Exec(ctx, `
		UPDATE inventory SET brand_name = $2, formula = $3, price = $4
		WHERE id = $1`,
		item.ID, item.BrandName, item.Formula, item.Price)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrItemNotFound
	}
	return nil
}

func (r *repoPG) List(ctx context.Context, search string) ([]*Item, error) {
	var (
		rows pgx.Rows
		err  error
	)
	if search != "" {
		rows, err = r.conn(ctx).Query(ctx, `
			SELECT `+itemCols+` FROM inventory
			WHERE brand_name ILIKE '%' || $1 || '%' OR formula ILIKE '%' || $1 || '%'
			ORDER BY brand_name`, search)
	} else {
		rows, err = r.conn(ctx).Query(ctx,
			`SELECT `+itemCols+` FROM inventory ORDER BY brand_name`)
	}
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []*Item
	for rows.Next() {
		var it Item
		if err := rows.Scan(&it.ID, &it.BrandName, &it.Formula, &it.Stock, &it.Price); err != nil {
			return nil, err
		}
		items = append(items, &it)
	}
	return items, rows.Err()
}

func (r *repoPG) BestMatch(ctx context.Context, query string) (*Item, error) {
	return scanItem(r.conn(ctx).QueryRow(ctx, `
		SELECT `+itemCols+` FROM inventory
		WHERE brand_name ILIKE '%' || $1 || '%' OR formula ILIKE '%' || $1 || '%'
		ORDER BY
			CASE WHEN brand_name ILIKE '%' || $1 || '%' THEN 0 ELSE 1 END,
			brand_name
		LIMIT 1`, query))
}

func (r *repoPG) AlternativesByFormula(ctx context.Context, formula string, excludeID int64) ([]*Item, error) {
	rows, err := r.conn(ctx).Query(ctx, `
		SELECT `+itemCols+` FROM inventory
		WHERE formula = $1 AND id != $2 AND stock > 0
		ORDER BY stock DESC`, formula, excludeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []*Item
	for rows.Next() {
		var it Item
		if err := rows.Scan(&it.ID, &it.BrandName, &it.Formula, &it.Stock, &it.Price); err != nil {
			return nil, err
		}
		items = append(items, &it)
	}
	return items, rows.Err()
}

func (r *repoPG) AddStock(ctx context.Context, id int64, quantity int) error {
	tag, err := r.conn(ctx).Exec(ctx,
		`UPDATE inventory SET stock = stock + $2 WHERE id = $1`, id, quantity)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrItemNotFound
	}
	return nil
}

func (r *repoPG) DecrementStock(ctx context.Context, id int64, quantity int) error {
	tag, err := r.conn(ctx).Exec(ctx,
		`UPDATE inventory SET stock = stock - $2 WHERE id = $1 AND stock >= $2`, id, quantity)
	if err != nil {
		return err
	}
	if tag.RowsAffected() > 0 {
		return nil
	}
	var exists bool
	if err := r.conn(ctx).QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM inventory WHERE id = $1)`, id).Scan(&exists); err != nil {
		return err
	}
	if !exists {
		return ErrItemNotFound
	}
	return ErrInsufficientStock
}
