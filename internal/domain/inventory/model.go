package inventory

// LowStockThreshold is the stock level below which a medicine is considered
// for alternative suggestion.
const LowStockThreshold = 10

// Item maps to the inventory table: one medicine with its formula
// classification, on-hand stock and current unit price.
type Item struct {
	ID        int64   `db:"id" json:"id"`
	BrandName string  `db:"brand_name" json:"brand_name"`
	Formula   *string `db:"formula" json:"formula,omitempty"`
	Stock     int     `db:"stock" json:"stock"`
	Price     float64 `db:"price" json:"price"`
}

// StockIn describes one restock action.
type StockIn struct {
	ItemID   int64   `json:"item_id"`
	Quantity int     `json:"quantity"`
	Cost     float64 `json:"cost"`
	Notes    string  `json:"notes"`
}

// AlternativeResult is the outcome of a medicine lookup: the best match for
// the query plus, when that match is running low, in-stock items sharing the
// same formula.
type AlternativeResult struct {
	SearchedMedicine *Item   `json:"searched_medicine"`
	Alternatives     []*Item `json:"alternatives"`
}
