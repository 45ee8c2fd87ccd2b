package core

import (
	"encoding/json"
	"errors"
	"math"
	"testing"
	"time"
)

func mustParseRFC3339(t *testing.T, s string) time.Time {
	t.Helper()
	parsed, err := time.Parse(time.RFC3339, s)
	if err != nil {
		t.Fatalf("parse %q: %v", s, err)
	}
	return parsed
}

func validExpense() Expense {
	return Expense{
		ID:        "e1",
		Amount:    250,
		Payer:     PayerMe,
		Category:  CategoryFood,
		Date:      NewDate(2025, 6, 15),
		Timestamp: 1750000000000,
	}
}

func TestExpenseValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Expense)
		wantErr error
	}{
		{"valid", func(e *Expense) {}, nil},
		{"zero amount is allowed", func(e *Expense) { e.Amount = 0 }, nil},
		{"missing id", func(e *Expense) { e.ID = "" }, ErrMissingID},
		{"whitespace id", func(e *Expense) { e.ID = "   " }, ErrMissingID},
		{"negative amount", func(e *Expense) { e.Amount = -5 }, ErrInvalidAmount},
		{"NaN amount", func(e *Expense) { e.Amount = math.NaN() }, ErrInvalidAmount},
		{"Inf amount", func(e *Expense) { e.Amount = math.Inf(1) }, ErrInvalidAmount},
		{"unknown payer", func(e *Expense) { e.Payer = "Neither" }, ErrInvalidPayer},
		{"unknown category", func(e *Expense) { e.Category = "Gadgets" }, ErrInvalidCategory},
		{"zero date", func(e *Expense) { e.Date = Date{} }, ErrInvalidDate},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := validExpense()
			tt.mutate(&e)
			if err := e.Validate(); !errors.Is(err, tt.wantErr) {
				t.Errorf("Validate() = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestBudgetSettingsValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*BudgetSettings)
		wantErr error
	}{
		{"defaults are valid", func(s *BudgetSettings) {}, nil},
		{"zero budget", func(s *BudgetSettings) { s.TotalBudget = 0 }, ErrInvalidBudget},
		{"negative budget", func(s *BudgetSettings) { s.TotalBudget = -100 }, ErrInvalidBudget},
		{"NaN budget", func(s *BudgetSettings) { s.TotalBudget = math.NaN() }, ErrInvalidBudget},
		{"empty symbol", func(s *BudgetSettings) { s.CurrencySymbol = "" }, ErrInvalidSymbol},
		{"oversized symbol", func(s *BudgetSettings) { s.CurrencySymbol = "ABCD" }, ErrInvalidSymbol},
		{"multibyte symbol fits", func(s *BudgetSettings) { s.CurrencySymbol = "€" }, nil},
		{"empty user name", func(s *BudgetSettings) { s.UserName = " " }, ErrEmptyName},
		{"empty partner name", func(s *BudgetSettings) { s.PartnerName = "" }, ErrEmptyName},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := DefaultSettings()
			tt.mutate(&s)
			if err := s.Validate(); !errors.Is(err, tt.wantErr) {
				t.Errorf("Validate() = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestDefaultSettings(t *testing.T) {
	s := DefaultSettings()
	if s.TotalBudget != 15000 {
		t.Errorf("TotalBudget = %v, want 15000", s.TotalBudget)
	}
	if s.CurrencySymbol != "₹" {
		t.Errorf("CurrencySymbol = %q, want ₹", s.CurrencySymbol)
	}
	if s.UserName != "Me" || s.PartnerName != "Partner" {
		t.Errorf("names = %q/%q, want Me/Partner", s.UserName, s.PartnerName)
	}
}

func TestDateRoundTrip(t *testing.T) {
	d, err := ParseDate("2025-06-15")
	if err != nil {
		t.Fatalf("ParseDate: %v", err)
	}
	if d.String() != "2025-06-15" {
		t.Errorf("String() = %q", d.String())
	}

	data, err := json.Marshal(d)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	if string(data) != `"2025-06-15"` {
		t.Errorf("Marshal = %s", data)
	}

	var back Date
	if err := json.Unmarshal(data, &back); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if !back.SameDay(d) {
		t.Errorf("round trip lost the day: %v vs %v", back, d)
	}
}

func TestParseDateRejectsGarbage(t *testing.T) {
	for _, in := range []string{"", "15/06/2025", "2025-13-01", "not a date"} {
		if _, err := ParseDate(in); !errors.Is(err, ErrInvalidDate) {
			t.Errorf("ParseDate(%q) = %v, want ErrInvalidDate", in, err)
		}
	}
}

func TestSameDayIgnoresTime(t *testing.T) {
	morning := DateOf(mustParseRFC3339(t, "2025-06-15T08:00:00Z"))
	evening := DateOf(mustParseRFC3339(t, "2025-06-15T23:59:00Z"))
	nextDay := DateOf(mustParseRFC3339(t, "2025-06-16T00:01:00Z"))

	if !morning.SameDay(evening) {
		t.Error("same calendar day should match regardless of time")
	}
	if morning.SameDay(nextDay) {
		t.Error("different days should not match")
	}
}

func TestExpenseJSONShape(t *testing.T) {
	e := validExpense()
	data, err := json.Marshal(e)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}

	var fields map[string]any
	if err := json.Unmarshal(data, &fields); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	for _, key := range []string{"id", "amount", "payer", "category", "date", "timestamp"} {
		if _, ok := fields[key]; !ok {
			t.Errorf("missing field %q in %s", key, data)
		}
	}
	// Empty note is omitted on the wire.
	if _, ok := fields["note"]; ok {
		t.Errorf("empty note should be omitted: %s", data)
	}
}
