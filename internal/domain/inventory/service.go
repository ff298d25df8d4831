package inventory

import (
	"context"
	"errors"
	"fmt"

	"github.com/clinic/clinic/pkg/validation"
)

// TxRunner executes fn inside a database transaction. Repository calls made
// with the context fn receives join that transaction.
type TxRunner func(ctx context.Context, fn func(ctx context.Context) error) error

// ExpenseRecorder posts a purchase-cost entry to the finance ledger. It is
// implemented by the finance service and wired in main.
type ExpenseRecorder interface {
	RecordExpense(ctx context.Context, amount float64, description string) error
}

type Service struct {
	items    Repository
	runTx    TxRunner
	expenses ExpenseRecorder
}

func NewService(items Repository, runTx TxRunner, expenses ExpenseRecorder) *Service {
	return &Service{items: items, runTx: runTx, expenses: expenses}
}

func (s *Service) CreateItem(ctx context.Context, item *Item) error {
	if item.BrandName == "" {
		return validation.Newf("brand_name is required")
	}
	if item.Stock < 0 {
		return validation.Newf("stock cannot be negative")
	}
	if item.Price < 0 {
		return validation.Newf("price cannot be negative")
	}
	return s.items.Create(ctx, item)
}

func (s *Service) GetItem(ctx context.Context, id int64) (*Item, error) {
	return s.items.GetByID(ctx, id)
}

func (s *Service) UpdateItem(ctx context.Context, item *Item) error {
	if item.BrandName == "" {
		return validation.Newf("brand_name is required")
	}
	if item.Price < 0 {
		return validation.Newf("price cannot be negative")
	}
	return s.items.Update(ctx, item)
}

func (s *Service) ListItems(ctx context.Context, search string) ([]*Item, error) {
	return s.items.List(ctx, search)
}

// StockIn increases an item's stock and, when a purchase cost is given,
// records a matching Expense entry. Both writes happen in one transaction.
func (s *Service) StockIn(ctx context.Context, in *StockIn) (*Item, error) {
	if in.Quantity <= 0 {
		return nil, validation.Newf("quantity must be positive")
	}
	if in.Cost < 0 {
		return nil, validation.Newf("cost cannot be negative")
	}

	var updated *Item
	err := s.runTx(ctx, func(ctx context.Context) error {
		item, err := s.items.GetByID(ctx, in.ItemID)
		if err != nil {
			return err
		}
		if err := s.items.AddStock(ctx, in.ItemID, in.Quantity); err != nil {
			return err
		}
		if in.Cost > 0 {
			desc := fmt.Sprintf("Stock In: %s x%d", item.BrandName, in.Quantity)
			if in.Notes != "" {
				desc += " - " + in.Notes
			}
			if err := s.expenses.RecordExpense(ctx, in.Cost, desc); err != nil {
				return err
			}
		}
		updated, err = s.items.GetByID(ctx, in.ItemID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// SearchWithAlternatives finds the best matching medicine for a free-text
// query and, when its stock is below LowStockThreshold, lists in-stock
// items sharing the same formula.
func (s *Service) SearchWithAlternatives(ctx context.Context, query string) (*AlternativeResult, error) {
	if query == "" {
		return nil, validation.Newf("query is required")
	}
	item, err := s.items.BestMatch(ctx, query)
	if errors.Is(err, ErrItemNotFound) {
		// No match is an answer, not an error.
		return &AlternativeResult{Alternatives: []*Item{}}, nil
	}
	if err != nil {
		return nil, err
	}
	res := &AlternativeResult{SearchedMedicine: item, Alternatives: []*Item{}}
	if item.Stock >= LowStockThreshold {
		return res, nil
	}
	if item.Formula == nil || *item.Formula == "" {
		return res, nil
	}
	alts, err := s.items.AlternativesByFormula(ctx, *item.Formula, item.ID)
	if err != nil {
		return nil, err
	}
	if alts != nil {
		res.Alternatives = alts
	}
	return res, nil
}
