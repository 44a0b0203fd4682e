// Package installment divides one purchase into a billed series of dated
// sub-transactions whose valores sum back to the original penny-exact.
package installment

import (
	"fmt"

	"financas/internal/core"
)

// MaxCount is the hard ceiling on installments per purchase.
const MaxCount = 48

// SplitInput describes the purchase being split. FirstBillingMonth, when
// set, pins the billing month of the first installment; later installments
// follow month by month. AccountType is the target account's type; it is
// part of the call contract so a credit-card cycle rule has a seam, but it
// does not change the default billing month today.
type SplitInput struct {
	Descricao         string
	Valor             core.Money
	Tipo              core.TransactionType
	Count             int
	StartDate         core.Date
	FirstBillingMonth *core.Date
	AccountType       core.AccountType
	Recurring         bool
	Tags              []string
	Notes             *string
	Ownership         core.Ownership
	CategoryID        *string
	AccountID         *string
}

// Split produces the Count rows of the series. The per-unit valor is the
// cent-floored division of the total; the last row absorbs the remainder so
// the series sums to the original exactly. The count bound is checked before
// anything else.
func Split(in SplitInput) ([]core.Transaction, error) {
	if in.Count > MaxCount {
		return nil, core.ErrTooManyInstallments
	}
	if in.Count < 2 {
		return nil, fmt.Errorf("installment count %d: at least 2 required", in.Count)
	}
	if err := in.Valor.Validate(); err != nil {
		return nil, err
	}
	if err := in.StartDate.Validate(); err != nil {
		return nil, err
	}

	perUnit := in.Valor.Cents / int64(in.Count)
	lastUnit := in.Valor.Cents - perUnit*int64(in.Count-1)

	count := in.Count
	rows := make([]core.Transaction, 0, count)
	for i := 0; i < count; i++ {
		date := in.StartDate.AddMonths(i)
		var billing core.Date
		if in.FirstBillingMonth != nil {
			billing = in.FirstBillingMonth.AddMonths(i).FirstOfMonth()
		} else {
			billing = date.FirstOfMonth()
		}

		valor := perUnit
		if i == count-1 {
			valor = lastUnit
		}
		index := i + 1
		rows = append(rows, core.Transaction{
			Descricao:        fmt.Sprintf("%s (%d/%d)", in.Descricao, index, count),
			Valor:            core.NewMoney(valor),
			Tipo:             in.Tipo,
			Data:             date,
			BillingMonth:     billing,
			Recurring:        in.Recurring,
			InstallmentCount: &count,
			InstallmentIndex: &index,
			Tags:             in.Tags,
			Notes:            in.Notes,
			Ownership:        in.Ownership,
			CategoryID:       in.CategoryID,
			AccountID:        in.AccountID,
		})
	}
	return rows, nil
}

// BillingMonthFor computes the billing month of a single, non-installment
// transaction: the explicit value when the caller supplied one, otherwise
// the first day of the transaction's own month.
func BillingMonthFor(date core.Date, explicit *core.Date) core.Date {
	if explicit != nil && !explicit.IsZero() {
		return explicit.FirstOfMonth()
	}
	return date.FirstOfMonth()
}
