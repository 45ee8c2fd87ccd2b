// Package stats computes derived projections over the expense journal.
// Everything here is a pure function of (expenses, settings, now): no
// side effects, no stored state.
package stats

import (
	"math"
	"sort"
	"time"

	"pairbudget/internal/core"
)

type Status int

const (
	StatusOnTrack Status = iota
	StatusCaution
	StatusWarning
	StatusOverBudget
)

func (s Status) String() string {
	switch s {
	case StatusCaution:
		return "caution"
	case StatusWarning:
		return "warning"
	case StatusOverBudget:
		return "over-budget"
	default:
		return "on-track"
	}
}

// Summary is the monthly budget overview.
type Summary struct {
	TotalSpent float64
	// Remaining is unclamped and goes negative when over budget.
	Remaining float64
	// PercentUsed is clamped to [0, 100] for display.
	PercentUsed    float64
	DaysLeft       int
	DailyAllowance float64
	Status         Status
}

// Split is the per-payer share of total spending. Percentages sum to
// 100 and default to 50/50 when nothing was spent.
type Split struct {
	MeTotal        float64
	PartnerTotal   float64
	MePercent      float64
	PartnerPercent float64
}

// DayTotals is one day of the weekly series, split by payer.
type DayTotals struct {
	Label   string
	Date    core.Date
	Me      float64
	Partner float64
}

// CategoryTotal is one slice of the category breakdown.
type CategoryTotal struct {
	Category core.Category
	Total    float64
}

// TotalSpent sums every expense amount.
func TotalSpent(expenses []core.Expense) float64 {
	var total float64
	for _, e := range expenses {
		total += e.Amount
	}
	return total
}

// Summarize computes the monthly overview. The status tier is derived
// from the unclamped budget ratio, so over-budget is reported even
// though PercentUsed tops out at 100.
func Summarize(expenses []core.Expense, settings core.BudgetSettings, now time.Time) Summary {
	totalSpent := TotalSpent(expenses)
	remaining := settings.TotalBudget - totalSpent

	rawPercent := 0.0
	if settings.TotalBudget > 0 {
		rawPercent = totalSpent / settings.TotalBudget * 100
	}
	percentUsed := math.Min(rawPercent, 100)
	if percentUsed < 0 {
		percentUsed = 0
	}

	daysLeft := DaysRemainingInMonth(now)
	allowanceDays := daysLeft
	if allowanceDays < 1 {
		allowanceDays = 1
	}
	dailyAllowance := math.Max(remaining/float64(allowanceDays), 0)

	status := StatusOnTrack
	switch {
	case rawPercent > 100:
		status = StatusOverBudget
	case rawPercent > 85:
		status = StatusWarning
	case rawPercent > 65:
		status = StatusCaution
	}

	return Summary{
		TotalSpent:     totalSpent,
		Remaining:      remaining,
		PercentUsed:    percentUsed,
		DaysLeft:       daysLeft,
		DailyAllowance: dailyAllowance,
		Status:         status,
	}
}

// DaysRemainingInMonth counts calendar days from now (inclusive) to the
// last day of the current month, rounding the elapsed difference up.
func DaysRemainingInMonth(now time.Time) int {
	endOfMonth := time.Date(now.Year(), now.Month()+1, 0, 0, 0, 0, 0, now.Location())
	diff := endOfMonth.Sub(now)
	return int(math.Ceil(math.Abs(diff.Hours()) / 24))
}

// PayerSplit groups spending by payer.
func PayerSplit(expenses []core.Expense) Split {
	var split Split
	for _, e := range expenses {
		switch e.Payer {
		case core.PayerMe:
			split.MeTotal += e.Amount
		case core.PayerPartner:
			split.PartnerTotal += e.Amount
		}
	}

	total := split.MeTotal + split.PartnerTotal
	if total == 0 {
		split.MePercent = 50
		split.PartnerPercent = 50
		return split
	}

	split.MePercent = split.MeTotal / total * 100
	split.PartnerPercent = 100 - split.MePercent
	return split
}

// WeeklySeries returns per-day per-payer sums for the five most recent
// calendar days including today, oldest first. Today's label is the
// fixed sentinel "Today"; the others carry the short weekday name.
func WeeklySeries(expenses []core.Expense, now time.Time) []DayTotals {
	series := make([]DayTotals, 0, 5)
	for i := 4; i >= 0; i-- {
		day := core.DateOf(now.AddDate(0, 0, -i))

		label := day.Weekday().String()[:3]
		if i == 0 {
			label = "Today"
		}

		totals := DayTotals{Label: label, Date: day}
		for _, e := range expenses {
			if !e.Date.SameDay(day) {
				continue
			}
			switch e.Payer {
			case core.PayerMe:
				totals.Me += e.Amount
			case core.PayerPartner:
				totals.Partner += e.Amount
			}
		}
		series = append(series, totals)
	}
	return series
}

// HasWeeklyData reports whether any day in the series carries spending.
func HasWeeklyData(series []DayTotals) bool {
	for _, d := range series {
		if d.Me > 0 || d.Partner > 0 {
			return true
		}
	}
	return false
}

// CategoryBreakdown groups spending by category, keeps only positive
// sums, and sorts descending. Ties break on category name so the order
// is deterministic.
func CategoryBreakdown(expenses []core.Expense) []CategoryTotal {
	sums := make(map[core.Category]float64)
	for _, e := range expenses {
		sums[e.Category] += e.Amount
	}

	breakdown := make([]CategoryTotal, 0, len(sums))
	for category, total := range sums {
		if total > 0 {
			breakdown = append(breakdown, CategoryTotal{Category: category, Total: total})
		}
	}

	sort.Slice(breakdown, func(i, j int) bool {
		if breakdown[i].Total != breakdown[j].Total {
			return breakdown[i].Total > breakdown[j].Total
		}
		return breakdown[i].Category < breakdown[j].Category
	})

	return breakdown
}
