package stats

import (
	"testing"
	"time"

	"pairbudget/internal/core"
)

func expense(id string, amount float64, payer core.Payer, category core.Category, date core.Date) core.Expense {
	return core.Expense{
		ID:       id,
		Amount:   amount,
		Payer:    payer,
		Category: category,
		Date:     date,
	}
}

func settingsWithBudget(budget float64) core.BudgetSettings {
	s := core.DefaultSettings()
	s.TotalBudget = budget
	return s
}

func TestSummarizeOverBudget(t *testing.T) {
	// Spent 18000 of a 15000 budget.
	now := time.Date(2025, 6, 20, 12, 0, 0, 0, time.UTC)
	expenses := []core.Expense{
		expense("a", 10000, core.PayerMe, core.CategoryBills, core.NewDate(2025, 6, 5)),
		expense("b", 8000, core.PayerPartner, core.CategoryTravel, core.NewDate(2025, 6, 10)),
	}

	summary := Summarize(expenses, settingsWithBudget(15000), now)

	if summary.TotalSpent != 18000 {
		t.Errorf("TotalSpent = %v, want 18000", summary.TotalSpent)
	}
	if summary.Remaining != -3000 {
		t.Errorf("Remaining = %v, want -3000", summary.Remaining)
	}
	if summary.PercentUsed != 100 {
		t.Errorf("PercentUsed = %v, want clamped 100", summary.PercentUsed)
	}
	if summary.Status != StatusOverBudget {
		t.Errorf("Status = %v, want over-budget", summary.Status)
	}
	if summary.DailyAllowance != 0 {
		t.Errorf("DailyAllowance = %v, want 0 when over budget", summary.DailyAllowance)
	}
}

func TestSummarizeStatusTiers(t *testing.T) {
	now := time.Date(2025, 6, 20, 12, 0, 0, 0, time.UTC)
	cases := []struct {
		spent float64
		want  Status
	}{
		{0, StatusOnTrack},
		{6500, StatusOnTrack},
		{6600, StatusCaution},
		{8500, StatusCaution},
		{8600, StatusWarning},
		{10000, StatusWarning},
		{10100, StatusOverBudget},
	}

	for _, tc := range cases {
		expenses := []core.Expense{
			expense("a", tc.spent, core.PayerMe, core.CategoryOther, core.NewDate(2025, 6, 1)),
		}
		summary := Summarize(expenses, settingsWithBudget(10000), now)
		if summary.Status != tc.want {
			t.Errorf("spent %v of 10000: Status = %v, want %v", tc.spent, summary.Status, tc.want)
		}
	}
}

func TestSummarizeDailyAllowance(t *testing.T) {
	// Ten days to month end, full 10000 remaining.
	now := time.Date(2025, 6, 20, 0, 0, 0, 0, time.UTC)

	summary := Summarize(nil, settingsWithBudget(10000), now)

	if summary.DaysLeft != 10 {
		t.Fatalf("DaysLeft = %d, want 10", summary.DaysLeft)
	}
	if summary.DailyAllowance != 1000 {
		t.Errorf("DailyAllowance = %v, want 1000", summary.DailyAllowance)
	}
	if summary.PercentUsed != 0 {
		t.Errorf("PercentUsed = %v, want 0", summary.PercentUsed)
	}
	if summary.Status != StatusOnTrack {
		t.Errorf("Status = %v, want on-track", summary.Status)
	}
}

func TestSummarizeZeroBudget(t *testing.T) {
	now := time.Date(2025, 6, 20, 12, 0, 0, 0, time.UTC)
	expenses := []core.Expense{
		expense("a", 500, core.PayerMe, core.CategoryFood, core.NewDate(2025, 6, 1)),
	}

	summary := Summarize(expenses, settingsWithBudget(0), now)

	if summary.PercentUsed != 0 {
		t.Errorf("PercentUsed = %v, want 0 with zero budget", summary.PercentUsed)
	}
	if summary.Status != StatusOnTrack {
		t.Errorf("Status = %v, want on-track with zero budget", summary.Status)
	}
}

func TestDaysRemainingInMonth(t *testing.T) {
	cases := []struct {
		now  time.Time
		want int
	}{
		{time.Date(2025, 6, 30, 0, 0, 0, 0, time.UTC), 0},
		{time.Date(2025, 6, 29, 0, 0, 0, 0, time.UTC), 1},
		{time.Date(2025, 6, 29, 18, 0, 0, 0, time.UTC), 1}, // partial day rounds up
		{time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC), 29},
		{time.Date(2025, 2, 27, 0, 0, 0, 0, time.UTC), 1},  // Feb 2025 has 28 days
		{time.Date(2024, 2, 27, 0, 0, 0, 0, time.UTC), 2},  // leap year
		{time.Date(2025, 12, 30, 0, 0, 0, 0, time.UTC), 1}, // year boundary
	}
	for _, tc := range cases {
		if got := DaysRemainingInMonth(tc.now); got != tc.want {
			t.Errorf("DaysRemainingInMonth(%v) = %d, want %d", tc.now, got, tc.want)
		}
	}
}

func TestPayerSplit(t *testing.T) {
	expenses := []core.Expense{
		expense("a", 300, core.PayerMe, core.CategoryFood, core.NewDate(2025, 6, 1)),
		expense("b", 100, core.PayerPartner, core.CategoryFun, core.NewDate(2025, 6, 2)),
	}

	split := PayerSplit(expenses)

	if split.MeTotal != 300 || split.PartnerTotal != 100 {
		t.Fatalf("totals = %v/%v, want 300/100", split.MeTotal, split.PartnerTotal)
	}
	if split.MePercent != 75 || split.PartnerPercent != 25 {
		t.Errorf("percents = %v/%v, want 75/25", split.MePercent, split.PartnerPercent)
	}
	if split.MePercent+split.PartnerPercent != 100 {
		t.Errorf("percents do not sum to 100")
	}
}

func TestPayerSplitEmptyDefaultsToHalf(t *testing.T) {
	split := PayerSplit(nil)
	if split.MePercent != 50 || split.PartnerPercent != 50 {
		t.Errorf("empty journal split = %v/%v, want 50/50", split.MePercent, split.PartnerPercent)
	}
}

func TestWeeklySeries(t *testing.T) {
	// Friday 2025-06-20.
	now := time.Date(2025, 6, 20, 15, 30, 0, 0, time.UTC)
	expenses := []core.Expense{
		expense("a", 100, core.PayerMe, core.CategoryFood, core.NewDate(2025, 6, 20)),
		expense("b", 50, core.PayerPartner, core.CategoryFun, core.NewDate(2025, 6, 20)),
		expense("c", 200, core.PayerMe, core.CategoryBills, core.NewDate(2025, 6, 17)),
		expense("d", 999, core.PayerMe, core.CategoryOther, core.NewDate(2025, 6, 10)), // outside window
	}

	series := WeeklySeries(expenses, now)

	if len(series) != 5 {
		t.Fatalf("len(series) = %d, want 5", len(series))
	}

	wantLabels := []string{"Mon", "Tue", "Wed", "Thu", "Today"}
	for i, want := range wantLabels {
		if series[i].Label != want {
			t.Errorf("series[%d].Label = %q, want %q", i, series[i].Label, want)
		}
	}

	// Tuesday the 17th.
	if series[1].Me != 200 {
		t.Errorf("Tue Me = %v, want 200", series[1].Me)
	}
	// Today.
	today := series[4]
	if today.Me != 100 || today.Partner != 50 {
		t.Errorf("Today = %v/%v, want 100/50", today.Me, today.Partner)
	}

	if !HasWeeklyData(series) {
		t.Error("HasWeeklyData = false, want true")
	}
	if HasWeeklyData(WeeklySeries(nil, now)) {
		t.Error("HasWeeklyData on empty journal = true, want false")
	}
}

func TestCategoryBreakdown(t *testing.T) {
	expenses := []core.Expense{
		expense("a", 100, core.PayerMe, core.CategoryFood, core.NewDate(2025, 6, 1)),
		expense("b", 400, core.PayerPartner, core.CategoryTravel, core.NewDate(2025, 6, 2)),
		expense("c", 150, core.PayerMe, core.CategoryFood, core.NewDate(2025, 6, 3)),
		expense("d", 0, core.PayerMe, core.CategoryFun, core.NewDate(2025, 6, 4)), // zero sum dropped
	}

	breakdown := CategoryBreakdown(expenses)

	if len(breakdown) != 2 {
		t.Fatalf("len(breakdown) = %d, want 2: %+v", len(breakdown), breakdown)
	}
	if breakdown[0].Category != core.CategoryTravel || breakdown[0].Total != 400 {
		t.Errorf("breakdown[0] = %+v, want Travel 400", breakdown[0])
	}
	if breakdown[1].Category != core.CategoryFood || breakdown[1].Total != 250 {
		t.Errorf("breakdown[1] = %+v, want Food 250", breakdown[1])
	}
}

func TestCategoryBreakdownTieBreak(t *testing.T) {
	expenses := []core.Expense{
		expense("a", 100, core.PayerMe, core.CategoryTravel, core.NewDate(2025, 6, 1)),
		expense("b", 100, core.PayerMe, core.CategoryFood, core.NewDate(2025, 6, 1)),
	}

	breakdown := CategoryBreakdown(expenses)
	if len(breakdown) != 2 || breakdown[0].Category != core.CategoryFood {
		t.Errorf("equal totals should order by name: %+v", breakdown)
	}
}
