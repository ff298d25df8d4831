package finance

// Entry types. The ledger holds nothing else.
const (
	TypeIncome  = "Income"
	TypeExpense = "Expense"
)

// Entry is one row in the money ledger. Dates are YYYY-MM-DD.
type Entry struct {
	ID     int64   `db:"id" json:"id"`
	Date   string  `db:"date" json:"date"`
	Type   string  `db:"type" json:"type"`
	Amount float64 `db:"amount" json:"amount"`
	Notes  *string `db:"notes" json:"notes,omitempty"`
}

// Filter narrows a ledger listing. Zero values mean no constraint.
type Filter struct {
	Type string
	From string
	To   string
}

// Summary aggregates the ledger over a period.
type Summary struct {
	TotalIncome  float64 `json:"total_income"`
	TotalExpense float64 `json:"total_expense"`
	Net          float64 `json:"net"`
}
