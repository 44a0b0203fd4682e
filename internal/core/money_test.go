package core

import (
	"encoding/json"
	"testing"
)

func TestParseMoney(t *testing.T) {
	cases := []struct {
		in    string
		cents int64
		ok    bool
	}{
		{"12.34", 1234, true},
		{"12.345", 1235, true}, // rounds half-up on the third decimal
		{"12.344", 1234, true},
		{"5000", 500000, true},
		{"0.01", 1, true},
		{"-3.50", -350, true},
		{"", 0, false},
		{"abc", 0, false},
	}
	for _, tc := range cases {
		m, err := ParseMoney(tc.in)
		if tc.ok && err != nil {
			t.Fatalf("ParseMoney(%q) unexpected error: %v", tc.in, err)
		}
		if !tc.ok {
			if err == nil {
				t.Fatalf("ParseMoney(%q) expected error", tc.in)
			}
			continue
		}
		if m.Cents != tc.cents {
			t.Errorf("ParseMoney(%q) = %d cents, want %d", tc.in, m.Cents, tc.cents)
		}
	}
}

func TestMoneyString(t *testing.T) {
	cases := []struct {
		cents int64
		want  string
	}{
		{5000_00, "5000"},
		{50_50, "50.5"},
		{12_34, "12.34"},
		{1, "0.01"},
		{-350, "-3.5"},
	}
	for _, tc := range cases {
		if got := NewMoney(tc.cents).String(); got != tc.want {
			t.Errorf("Money(%d).String() = %q, want %q", tc.cents, got, tc.want)
		}
	}
}

func TestMoneyJSONRoundTrip(t *testing.T) {
	var m Money
	if err := json.Unmarshal([]byte(`199.99`), &m); err != nil {
		t.Fatalf("unmarshal number: %v", err)
	}
	if m.Cents != 19999 {
		t.Fatalf("got %d cents, want 19999", m.Cents)
	}
	out, err := json.Marshal(m)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(out) != "199.99" {
		t.Errorf("marshal = %s, want 199.99", out)
	}

	// Quoted decimals are accepted too.
	if err := json.Unmarshal([]byte(`"12.5"`), &m); err != nil {
		t.Fatalf("unmarshal string: %v", err)
	}
	if m.Cents != 1250 {
		t.Errorf("got %d cents, want 1250", m.Cents)
	}
}

func TestMoneyValidate(t *testing.T) {
	if err := NewMoney(1).Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}
	if err := NewMoney(0).Validate(); err == nil {
		t.Fatal("expected error for zero")
	}
	if err := NewMoney(-100).Validate(); err == nil {
		t.Fatal("expected error for negative")
	}
}
