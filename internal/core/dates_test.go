package core

import "testing"

func TestParseDate(t *testing.T) {
	cases := []struct {
		in   string
		want string
		ok   bool
	}{
		{"2024-01-15", "2024-01-15", true},
		{"2024-01-15T13:45:00Z", "2024-01-15", true}, // time component ignored
		{"2024-01-15T00:00:00.000-03:00", "2024-01-15", true},
		{"15/01/2024", "", false},
		{"", "", false},
	}
	for _, tc := range cases {
		d, err := ParseDate(tc.in)
		if tc.ok != (err == nil) {
			t.Fatalf("ParseDate(%q) error = %v, want ok=%v", tc.in, err, tc.ok)
		}
		if tc.ok && d.String() != tc.want {
			t.Errorf("ParseDate(%q) = %s, want %s", tc.in, d, tc.want)
		}
	}
}

func TestAddMonths(t *testing.T) {
	cases := []struct {
		in   Date
		k    int
		want string
	}{
		{NewDate(2024, 1, 15), 1, "2024-02-15"},
		{NewDate(2024, 1, 31), 1, "2024-02-29"}, // clamps, leap year
		{NewDate(2023, 1, 31), 1, "2023-02-28"}, // clamps, short month
		{NewDate(2024, 10, 31), 1, "2024-11-30"},
		{NewDate(2024, 11, 30), 3, "2025-02-28"}, // crosses the year boundary
		{NewDate(2024, 3, 31), -1, "2024-02-29"},
		{NewDate(2024, 5, 10), 0, "2024-05-10"},
	}
	for _, tc := range cases {
		if got := tc.in.AddMonths(tc.k); got.String() != tc.want {
			t.Errorf("%s plus %d months = %s, want %s", tc.in, tc.k, got, tc.want)
		}
	}
}

func TestFirstOfMonth(t *testing.T) {
	d := NewDate(2024, 7, 23).FirstOfMonth()
	if d.String() != "2024-07-01" {
		t.Errorf("FirstOfMonth = %s, want 2024-07-01", d)
	}
	if d.FirstOfMonth().String() != "2024-07-01" {
		t.Error("FirstOfMonth must be idempotent")
	}
}

func TestDaysApart(t *testing.T) {
	a := NewDate(2024, 3, 10)
	b := NewDate(2024, 3, 13)
	if got := a.DaysApart(b); got != 3 {
		t.Errorf("DaysApart = %d, want 3", got)
	}
	if got := b.DaysApart(a); got != 3 {
		t.Errorf("DaysApart must be symmetric, got %d", got)
	}
}

func TestTransactionValidate(t *testing.T) {
	idx, count := 2, 6
	tx := Transaction{
		Descricao:        "Notebook",
		Valor:            NewMoney(120000),
		Tipo:             Expense,
		Data:             NewDate(2024, 4, 2),
		InstallmentCount: &count,
		InstallmentIndex: &idx,
	}
	if err := tx.Validate(); err != nil {
		t.Fatalf("expected valid, got %v", err)
	}

	bad := tx
	bad.InstallmentIndex = nil
	if err := bad.Validate(); err == nil {
		t.Error("index must be present iff count is present")
	}

	zero := 0
	bad = tx
	bad.InstallmentIndex = &zero
	if err := bad.Validate(); err == nil {
		t.Error("index below 1 must be rejected")
	}
}
