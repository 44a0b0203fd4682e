package core

// Input rows are what bulk import and capture review receive before any
// validation has run: enum fields arrive as raw strings and dates as raw
// text that may still carry a time component. The validator reports on
// these; only validated rows are converted to their typed counterparts.

// TransactionInput is one submitted transaction row.
type TransactionInput struct {
	Descricao        string   `json:"descricao"`
	Valor            Money    `json:"valor"`
	Tipo             string   `json:"tipo"`
	Data             string   `json:"data"`
	BillingMonth     *Date    `json:"billingMonth,omitempty"`
	Recurring        bool     `json:"recurring,omitempty"`
	InstallmentCount *int     `json:"installmentCount,omitempty"`
	InstallmentIndex *int     `json:"installmentIndex,omitempty"`
	Tags             []string `json:"tags,omitempty"`
	Notes            *string  `json:"notes,omitempty"`
	Ownership        string   `json:"ownership,omitempty"`
	CategoryID       *string  `json:"categoryId,omitempty"`
	AccountID        *string  `json:"accountId,omitempty"`
}

// AccountInput is one submitted account row. Active defaults to true when
// absent, so it is a pointer here.
type AccountInput struct {
	Name    string  `json:"name"`
	Type    string  `json:"type"`
	Bank    *string `json:"bank,omitempty"`
	Balance Money   `json:"balance,omitempty"`
	Color   string  `json:"color,omitempty"`
	Icon    string  `json:"icon,omitempty"`
	Active  *bool   `json:"active,omitempty"`
}

// CategoryInput is one submitted category row.
type CategoryInput struct {
	Name         string  `json:"name"`
	Type         string  `json:"type"`
	Cor          string  `json:"cor"`
	Icon         *string `json:"icon,omitempty"`
	Group        string  `json:"group"`
	MonthlyLimit *Money  `json:"monthlyLimit,omitempty"`
}
