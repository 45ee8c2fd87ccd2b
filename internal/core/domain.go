package core

import (
	"errors"
	"math"
	"strings"
	"time"
	"unicode/utf8"
)

const (
	PayerMe      Payer = "Me"
	PayerPartner Payer = "Partner"
)

const (
	CategoryFood     Category = "Food"
	CategoryTravel   Category = "Travel"
	CategoryShopping Category = "Shopping"
	CategoryBills    Category = "Bills"
	CategoryFun      Category = "Fun"
	CategoryOther    Category = "Other"
)

const (
	DefaultBudget         = 15000
	DefaultCurrencySymbol = "₹"
	DefaultUserName       = "Me"
	DefaultPartnerName    = "Partner"
)

type (
	Payer    string
	Category string

	// Date is a calendar day without a time component. It marshals as
	// "2006-01-02", the wire format of the journal API.
	Date struct {
		time.Time
	}

	Expense struct {
		ID        string   `json:"id"`
		Amount    float64  `json:"amount"`
		Payer     Payer    `json:"payer"`
		Category  Category `json:"category"`
		Date      Date     `json:"date"`
		Note      string   `json:"note,omitempty"`
		Timestamp int64    `json:"timestamp"`
	}

	// BudgetSettings is the singleton configuration record. It is always
	// upserted as one logical row, never duplicated.
	BudgetSettings struct {
		TotalBudget    float64 `json:"totalBudget"`
		CurrencySymbol string  `json:"currencySymbol"`
		UserName       string  `json:"userName"`
		PartnerName    string  `json:"partnerName"`
	}
)

var (
	ErrMissingID       = errors.New("missing expense id")
	ErrInvalidAmount   = errors.New("invalid amount")
	ErrInvalidPayer    = errors.New("invalid payer")
	ErrInvalidCategory = errors.New("invalid category")
	ErrInvalidDate     = errors.New("invalid date")
	ErrInvalidBudget   = errors.New("invalid total budget")
	ErrInvalidSymbol   = errors.New("invalid currency symbol")
	ErrEmptyName       = errors.New("empty display name")
)

// Payers lists the two payer roles.
func Payers() []Payer {
	return []Payer{PayerMe, PayerPartner}
}

// Categories lists the closed category enumeration.
func Categories() []Category {
	return []Category{CategoryFood, CategoryTravel, CategoryShopping, CategoryBills, CategoryFun, CategoryOther}
}

func (p Payer) Valid() bool {
	return p == PayerMe || p == PayerPartner
}

func (c Category) Valid() bool {
	switch c {
	case CategoryFood, CategoryTravel, CategoryShopping, CategoryBills, CategoryFun, CategoryOther:
		return true
	default:
		return false
	}
}

const dateLayout = "2006-01-02"

// NewDate creates a Date from year, month, day.
func NewDate(year, month, day int) Date {
	return Date{Time: time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)}
}

// DateOf truncates t to its calendar day.
func DateOf(t time.Time) Date {
	return NewDate(t.Year(), int(t.Month()), t.Day())
}

// ParseDate parses the "2006-01-02" wire format.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return Date{}, ErrInvalidDate
	}
	return Date{Time: t}, nil
}

func (d Date) String() string {
	return d.Format(dateLayout)
}

// SameDay reports whether two dates fall on the same calendar day.
func (d Date) SameDay(other Date) bool {
	return d.Year() == other.Year() && d.YearDay() == other.YearDay()
}

func (d Date) MarshalJSON() ([]byte, error) {
	return []byte(`"` + d.Format(dateLayout) + `"`), nil
}

func (d *Date) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	parsed, err := ParseDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

func (e Expense) Validate() error {
	if strings.TrimSpace(e.ID) == "" {
		return ErrMissingID
	}
	if math.IsNaN(e.Amount) || math.IsInf(e.Amount, 0) || e.Amount < 0 {
		return ErrInvalidAmount
	}
	if !e.Payer.Valid() {
		return ErrInvalidPayer
	}
	if !e.Category.Valid() {
		return ErrInvalidCategory
	}
	if e.Date.IsZero() {
		return ErrInvalidDate
	}
	return nil
}

func (s BudgetSettings) Validate() error {
	if math.IsNaN(s.TotalBudget) || math.IsInf(s.TotalBudget, 0) || s.TotalBudget <= 0 {
		return ErrInvalidBudget
	}
	if s.CurrencySymbol == "" || utf8.RuneCountInString(s.CurrencySymbol) > 3 {
		return ErrInvalidSymbol
	}
	if strings.TrimSpace(s.UserName) == "" || strings.TrimSpace(s.PartnerName) == "" {
		return ErrEmptyName
	}
	return nil
}

// DefaultSettings returns the settings used before any persisted copy exists.
func DefaultSettings() BudgetSettings {
	return BudgetSettings{
		TotalBudget:    DefaultBudget,
		CurrencySymbol: DefaultCurrencySymbol,
		UserName:       DefaultUserName,
		PartnerName:    DefaultPartnerName,
	}
}
