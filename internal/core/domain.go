package core

import "strings"

type (
	// TransactionType classifies a transaction.
	TransactionType string

	// Ownership says whether a transaction belongs to the household or to
	// one member personally.
	Ownership string

	// AccountType classifies an account.
	AccountType string

	// CategoryGroup buckets categories for budgeting purposes.
	CategoryGroup string
)

const (
	Income     TransactionType = "INCOME"
	Expense    TransactionType = "EXPENSE"
	Transfer   TransactionType = "TRANSFER"
	Investment TransactionType = "INVESTMENT"
)

const (
	Household Ownership = "HOUSEHOLD"
	Personal  Ownership = "PERSONAL"
)

const (
	Checking       AccountType = "CHECKING"
	CreditCard     AccountType = "CREDIT_CARD"
	InvestmentAcct AccountType = "INVESTMENT"
	Cash           AccountType = "CASH"
	Savings        AccountType = "SAVINGS"
	OtherAcct      AccountType = "OTHER"
)

const (
	Essential     CategoryGroup = "ESSENTIAL"
	Discretionary CategoryGroup = "DISCRETIONARY"
	InvestGroup   CategoryGroup = "INVESTMENT"
	Debt          CategoryGroup = "DEBT"
	IncomeGroup   CategoryGroup = "INCOME"
)

// IsValid reports whether the value is a known transaction type.
func (t TransactionType) IsValid() bool {
	switch t {
	case Income, Expense, Transfer, Investment:
		return true
	default:
		return false
	}
}

// IsValid reports whether the value is a known ownership.
func (o Ownership) IsValid() bool {
	return o == Household || o == Personal
}

// IsValid reports whether the value is a known account type.
func (a AccountType) IsValid() bool {
	switch a {
	case Checking, CreditCard, InvestmentAcct, Cash, Savings, OtherAcct:
		return true
	default:
		return false
	}
}

// IsValid reports whether the value is a known category group.
func (g CategoryGroup) IsValid() bool {
	switch g {
	case Essential, Discretionary, InvestGroup, Debt, IncomeGroup:
		return true
	default:
		return false
	}
}

// Transaction is one financial record. Wire field names follow the data the
// engine exchanges with its producers, so the core fields keep their
// original Portuguese names.
type Transaction struct {
	ID               string          `json:"id,omitempty"`
	Descricao        string          `json:"descricao"`
	Valor            Money           `json:"valor"`
	Tipo             TransactionType `json:"tipo"`
	Data             Date            `json:"data"`
	BillingMonth     Date            `json:"billingMonth"`
	Recurring        bool            `json:"recurring"`
	InstallmentCount *int            `json:"installmentCount,omitempty"`
	InstallmentIndex *int            `json:"installmentIndex,omitempty"`
	Tags             []string        `json:"tags,omitempty"`
	Notes            *string         `json:"notes,omitempty"`
	Ownership        Ownership       `json:"ownership,omitempty"`
	CategoryID       *string         `json:"categoryId,omitempty"`
	AccountID        *string         `json:"accountId,omitempty"`
	OwnerID          string          `json:"ownerId,omitempty"`
}

// Validate checks the transaction invariants: positive valor, a known type,
// a real date, and a consistent installment pair.
func (t Transaction) Validate() error {
	if strings.TrimSpace(t.Descricao) == "" {
		return ErrEmptyDescription
	}
	if err := t.Valor.Validate(); err != nil {
		return err
	}
	if !t.Tipo.IsValid() {
		return ErrInvalidType
	}
	if err := t.Data.Validate(); err != nil {
		return err
	}
	if (t.InstallmentCount == nil) != (t.InstallmentIndex == nil) {
		return ErrInvalidInstallment
	}
	if t.InstallmentCount != nil {
		if *t.InstallmentIndex < 1 || *t.InstallmentIndex > *t.InstallmentCount {
			return ErrInvalidInstallment
		}
	}
	return nil
}

// Account is a place money lives. Balance may be negative for credit.
type Account struct {
	ID      string      `json:"id,omitempty"`
	Name    string      `json:"name"`
	Type    AccountType `json:"type"`
	Bank    *string     `json:"bank,omitempty"`
	Balance Money       `json:"balance"`
	Color   string      `json:"color,omitempty"`
	Icon    string      `json:"icon,omitempty"`
	Active  bool        `json:"active"`
	OwnerID string      `json:"ownerId,omitempty"`
}

// Category labels transactions. Cor keeps its original wire name.
type Category struct {
	ID           string          `json:"id,omitempty"`
	Name         string          `json:"name"`
	Type         TransactionType `json:"type"`
	Cor          string          `json:"cor"`
	Icon         *string         `json:"icon,omitempty"`
	Group        CategoryGroup   `json:"group"`
	MonthlyLimit *Money          `json:"monthlyLimit,omitempty"`
	OwnerID      string          `json:"ownerId,omitempty"`
}

// User is the denormalized owner snapshot carried inside backup envelopes.
type User struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name,omitempty"`
}

// InvestmentRecord and Goal are carried through backup and restore opaquely;
// the engine moves them but applies no field validation beyond ownership.
type InvestmentRecord map[string]any

// Goal is a savings goal row, carried opaquely like InvestmentRecord.
type Goal map[string]any

// ValidationError is one field-level failure, positioned by the index of the
// row inside the submitted array.
type ValidationError struct {
	Index   int    `json:"index"`
	Field   string `json:"field"`
	Message string `json:"message"`
}
