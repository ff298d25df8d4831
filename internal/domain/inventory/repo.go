package inventory

import (
	"context"
	"errors"
)

var (
	ErrItemNotFound      = errors.New("medicine not found")
	ErrInsufficientStock = errors.New("insufficient stock")
)

type Repository interface {
	Create(ctx context.Context, item *Item) error
	GetByID(ctx context.Context, id int64) (*Item, error)
	// Update changes name, formula and price. Stock is mutated only by
	// dispense and restock.
	Update(ctx context.Context, item *Item) error
	List(ctx context.Context, search string) ([]*Item, error)
	// BestMatch finds the single best match for a free-text query, ranking
	// exact brand-name matches above formula-only matches.
	BestMatch(ctx context.Context, query string) (*Item, error)
	// AlternativesByFormula returns other items with the given formula and
	// positive stock, ordered by descending stock.
	AlternativesByFormula(ctx context.Context, formula string, excludeID int64) ([]*Item, error)
	// AddStock increments an item's stock unconditionally.
	AddStock(ctx context.Context, id int64, quantity int) error
	// DecrementStock subtracts quantity from an item's stock only when
	// enough is on hand, returning ErrInsufficientStock otherwise. The
	// check and the write happen in a single statement.
	DecrementStock(ctx context.Context, id int64, quantity int) error
}
