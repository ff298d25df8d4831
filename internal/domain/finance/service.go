package finance

import (
	"context"
	"time"

	"github.com/clinic/clinic/pkg/validation"
)

type Service struct {
	entries Repository
	now     func() time.Time
}

func NewService(entries Repository) *Service {
	return &Service{entries: entries, now: time.Now}
}

func (s *Service) CreateEntry(ctx context.Context, e *Entry) error {
	if e.Type != TypeIncome && e.Type != TypeExpense {
		return validation.Newf("type must be %s or %s", TypeIncome, TypeExpense)
	}
	if e.Amount <= 0 {
		return validation.Newf("amount must be positive")
	}
	if e.Date == "" {
		e.Date = s.now().Format("2006-01-02")
	} else if _, err := time.Parse("2006-01-02", e.Date); err != nil {
		return validation.Newf("invalid date: %s", e.Date)
	}
	return s.entries.Create(ctx, e)
}

// RecordExpense posts a dated Expense entry. The inventory service calls it
// inside the restock transaction.
func (s *Service) RecordExpense(ctx context.Context, amount float64, description string) error {
	e := &Entry{Type: TypeExpense, Amount: amount}
	if description != "" {
		e.Notes = &description
	}
	return s.CreateEntry(ctx, e)
}

func (s *Service) DeleteEntry(ctx context.Context, id int64) error {
	return s.entries.Delete(ctx, id)
}

func (s *Service) ListEntries(ctx context.Context, f Filter) ([]*Entry, error) {
	if err := validateFilter(f); err != nil {
		return nil, err
	}
	return s.entries.List(ctx, f)
}

func (s *Service) Summarize(ctx context.Context, f Filter) (*Summary, error) {
	if err := validateFilter(f); err != nil {
		return nil, err
	}
	return s.entries.Summarize(ctx, f)
}

func validateFilter(f Filter) error {
	if f.Type != "" && f.Type != TypeIncome && f.Type != TypeExpense {
		return validation.Newf("type must be %s or %s", TypeIncome, TypeExpense)
	}
	for _, d := range []string{f.From, f.To} {
		if d == "" {
			continue
		}
		if _, err := time.Parse("2006-01-02", d); err != nil {
			return validation.Newf("invalid date: %s", d)
		}
	}
	return nil
}
