// Package validate holds the pure per-resource field validators used by the
// bulk import and capture paths. Each validator returns one entry per
// violation, positioned by the row's index in the submitted array; an empty
// list means the row is acceptable.
package validate

import (
	"regexp"
	"strings"

	"financas/internal/core"
)

var isoDatePrefix = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}`)

// Transaction validates one submitted transaction row.
func Transaction(row core.TransactionInput, index int) []core.ValidationError {
	var errs []core.ValidationError

	if strings.TrimSpace(row.Descricao) == "" {
		errs = append(errs, fieldError(index, "descricao", "descrição é obrigatória"))
	}
	if row.Valor.Cents <= 0 {
		errs = append(errs, fieldError(index, "valor", "valor deve ser maior que zero"))
	}
	if row.Tipo == "" {
		errs = append(errs, fieldError(index, "tipo", "tipo é obrigatório"))
	} else if !core.TransactionType(row.Tipo).IsValid() {
		errs = append(errs, fieldError(index, "tipo", "tipo deve ser INCOME, EXPENSE, TRANSFER ou INVESTMENT"))
	}
	if row.Data == "" {
		errs = append(errs, fieldError(index, "data", "data é obrigatória"))
	} else if !isoDatePrefix.MatchString(row.Data) {
		errs = append(errs, fieldError(index, "data", "data deve estar no formato YYYY-MM-DD"))
	}
	if row.Ownership != "" && !core.Ownership(row.Ownership).IsValid() {
		errs = append(errs, fieldError(index, "ownership", "ownership deve ser HOUSEHOLD ou PERSONAL"))
	}
	if row.InstallmentIndex != nil && row.InstallmentCount == nil {
		errs = append(errs, fieldError(index, "installmentIndex", "installmentIndex exige installmentCount"))
	}
	if row.InstallmentCount != nil {
		if *row.InstallmentCount < 2 {
			errs = append(errs, fieldError(index, "installmentCount", "número de parcelas deve ser ao menos 2"))
		}
		if row.InstallmentIndex != nil && (*row.InstallmentIndex < 1 || *row.InstallmentIndex > *row.InstallmentCount) {
			errs = append(errs, fieldError(index, "installmentIndex", "installmentIndex deve estar entre 1 e installmentCount"))
		}
	}

	return errs
}

// InstallmentPair enforces the stored shape of an installment row: a row
// carrying installmentCount must also carry its index, and no stored series
// exceeds 48 installments. The capture path skips this rule because there
// the count is a split request and indexes are assigned by the splitter.
func InstallmentPair(row core.TransactionInput, index int) []core.ValidationError {
	if row.InstallmentCount == nil {
		return nil
	}
	var errs []core.ValidationError
	if row.InstallmentIndex == nil {
		errs = append(errs, fieldError(index, "installmentIndex", "installmentIndex é obrigatório quando installmentCount é informado"))
	}
	if *row.InstallmentCount > 48 {
		errs = append(errs, fieldError(index, "installmentCount", "número de parcelas deve ser no máximo 48"))
	}
	return errs
}

// Account validates one submitted account row.
func Account(row core.AccountInput, index int) []core.ValidationError {
	var errs []core.ValidationError

	if strings.TrimSpace(row.Name) == "" {
		errs = append(errs, fieldError(index, "name", "nome é obrigatório"))
	}
	if row.Type == "" {
		errs = append(errs, fieldError(index, "type", "tipo de conta é obrigatório"))
	} else if !core.AccountType(row.Type).IsValid() {
		errs = append(errs, fieldError(index, "type", "tipo de conta inválido"))
	}

	return errs
}

// Category validates one submitted category row.
func Category(row core.CategoryInput, index int) []core.ValidationError {
	var errs []core.ValidationError

	if strings.TrimSpace(row.Name) == "" {
		errs = append(errs, fieldError(index, "name", "nome é obrigatório"))
	}
	if row.Type == "" {
		errs = append(errs, fieldError(index, "type", "tipo é obrigatório"))
	} else if row.Type != string(core.Income) && row.Type != string(core.Expense) {
		errs = append(errs, fieldError(index, "type", "tipo deve ser INCOME ou EXPENSE"))
	}
	if row.Cor == "" {
		errs = append(errs, fieldError(index, "cor", "cor é obrigatória"))
	}
	if row.Group == "" {
		errs = append(errs, fieldError(index, "group", "grupo é obrigatório"))
	} else if !core.CategoryGroup(row.Group).IsValid() {
		errs = append(errs, fieldError(index, "group", "grupo inválido"))
	}

	return errs
}

func fieldError(index int, field, message string) core.ValidationError {
	return core.ValidationError{Index: index, Field: field, Message: message}
}
