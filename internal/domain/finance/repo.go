package finance

import (
	"context"
	"errors"
)

var ErrEntryNotFound = errors.New("entry not found")

type Repository interface {
	Create(ctx context.Context, e *Entry) error
	Delete(ctx context.Context, id int64) error
	// List returns entries matching the filter, newest first.
	List(ctx context.Context, f Filter) ([]*Entry, error)
	Summarize(ctx context.Context, f Filter) (*Summary, error)
}
