package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"pairbudget/internal/cli"
	"pairbudget/internal/controller"
	"pairbudget/internal/core"
	"pairbudget/internal/gateway"
	"pairbudget/internal/stats"
)

const usage = `Usage: pairbudget-cli <command> [flags]

Commands:
  summary    Monthly budget overview with payer split and category breakdown
  list       List all expenses
  add        Add an expense
  edit       Edit an existing expense
  delete     Delete an expense by ID
  settings   Show or update budget settings
  reset      Delete every expense for a fresh month
`

func main() {
	cli.LoadEnvFile()
	logger := cli.SetupLogger()

	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}

	cfg := cli.LoadAndValidateConfig(logger)

	fileCache, err := gateway.NewFileCache(cfg.CacheDir)
	if err != nil {
		logger.Error("Failed to initialize local cache", "error", err, "dir", cfg.CacheDir)
		os.Exit(1)
	}

	remote := gateway.NewRemoteStore(cfg.RemoteBaseURL, cfg.RequestTimeout)
	store := gateway.New(remote, fileCache)
	ctrl := controller.New(store, controller.DefaultConfig())

	ctx, cancel := context.WithTimeout(context.Background(), 2*cfg.RequestTimeout)
	defer cancel()

	if err := ctrl.Load(ctx); err != nil {
		logger.Error("Failed to load journal", "error", err)
		os.Exit(1)
	}

	var cmdErr error
	switch os.Args[1] {
	case "summary":
		cmdErr = runSummary(ctrl)
	case "list":
		cmdErr = runList(ctrl)
	case "add":
		cmdErr = runAdd(ctx, ctrl, os.Args[2:])
	case "edit":
		cmdErr = runEdit(ctx, ctrl, os.Args[2:])
	case "delete":
		cmdErr = runDelete(ctx, ctrl, os.Args[2:])
	case "settings":
		cmdErr = runSettings(ctx, ctrl, os.Args[2:])
	case "reset":
		cmdErr = runReset(ctx, ctrl)
	default:
		fmt.Fprintf(os.Stderr, "Unknown command %q\n\n%s", os.Args[1], usage)
		os.Exit(2)
	}

	if cmdErr != nil {
		fmt.Fprintln(os.Stderr, "Error:", cmdErr)
		printNotification(ctrl)
		os.Exit(1)
	}
	printNotification(ctrl)
}

func printNotification(ctrl *controller.Controller) {
	if n, ok := ctrl.Notification(); ok {
		fmt.Println(n.Message)
	}
}

func runSummary(ctrl *controller.Controller) error {
	expenses := ctrl.Expenses()
	settings := ctrl.Settings()
	now := time.Now()

	summary := stats.Summarize(expenses, settings, now)
	symbol := settings.CurrencySymbol

	fmt.Printf("Budget:          %s\n", core.FormatCurrency(settings.TotalBudget, symbol))
	fmt.Printf("Spent:           %s (%.0f%%)\n", core.FormatCurrency(summary.TotalSpent, symbol), summary.PercentUsed)
	fmt.Printf("Remaining:       %s\n", core.FormatCurrency(summary.Remaining, symbol))
	fmt.Printf("Days left:       %d\n", summary.DaysLeft)
	fmt.Printf("Daily allowance: %s\n", core.FormatCurrency(summary.DailyAllowance, symbol))
	fmt.Printf("Status:          %s\n", summary.Status)

	split := stats.PayerSplit(expenses)
	fmt.Printf("\n%s: %s (%.0f%%)  %s: %s (%.0f%%)\n",
		settings.UserName, core.FormatCurrency(split.MeTotal, symbol), split.MePercent,
		settings.PartnerName, core.FormatCurrency(split.PartnerTotal, symbol), split.PartnerPercent)

	series := stats.WeeklySeries(expenses, now)
	if stats.HasWeeklyData(series) {
		fmt.Println("\nLast 5 days:")
		for _, day := range series {
			fmt.Printf("  %-5s %s / %s\n", day.Label,
				core.FormatCurrency(day.Me, symbol), core.FormatCurrency(day.Partner, symbol))
		}
	}

	breakdown := stats.CategoryBreakdown(expenses)
	if len(breakdown) > 0 {
		fmt.Println("\nBy category:")
		for _, entry := range breakdown {
			fmt.Printf("  %-10s %s\n", entry.Category, core.FormatCurrency(entry.Total, symbol))
		}
	}

	return nil
}

func runList(ctrl *controller.Controller) error {
	expenses := ctrl.Expenses()
	if len(expenses) == 0 {
		fmt.Println("No expenses recorded")
		return nil
	}

	symbol := ctrl.Settings().CurrencySymbol
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tDATE\tAMOUNT\tPAYER\tCATEGORY\tNOTE")
	for _, e := range expenses {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
			e.ID, e.Date, core.FormatCurrency(e.Amount, symbol), e.Payer, e.Category, e.Note)
	}
	return w.Flush()
}

func runAdd(ctx context.Context, ctrl *controller.Controller, args []string) error {
	fs := flag.NewFlagSet("add", flag.ExitOnError)
	amount := fs.Float64("amount", 0, "expense amount (required)")
	payer := fs.String("payer", string(core.PayerMe), "who paid: Me or Partner")
	category := fs.String("category", string(core.CategoryOther), "category: Food, Travel, Shopping, Bills, Fun or Other")
	date := fs.String("date", "", "expense date as YYYY-MM-DD (default today)")
	note := fs.String("note", "", "optional note")
	if err := fs.Parse(args); err != nil {
		return err
	}

	day := core.DateOf(time.Now())
	if *date != "" {
		var err error
		day, err = core.ParseDate(*date)
		if err != nil {
			return err
		}
	}

	_, err := ctrl.AddExpense(ctx, controller.Draft{
		Amount:   *amount,
		Payer:    core.Payer(*payer),
		Category: core.Category(*category),
		Date:     day,
		Note:     *note,
	})
	return err
}

func runEdit(ctx context.Context, ctrl *controller.Controller, args []string) error {
	fs := flag.NewFlagSet("edit", flag.ExitOnError)
	id := fs.String("id", "", "expense ID (required)")
	amount := fs.Float64("amount", -1, "new amount")
	payer := fs.String("payer", "", "new payer")
	category := fs.String("category", "", "new category")
	date := fs.String("date", "", "new date as YYYY-MM-DD")
	note := fs.String("note", "", "new note")
	if err := fs.Parse(args); err != nil {
		return err
	}

	noteSet := false
	fs.Visit(func(f *flag.Flag) {
		if f.Name == "note" {
			noteSet = true
		}
	})

	if *id == "" {
		return fmt.Errorf("missing required -id flag")
	}

	var existing *core.Expense
	for _, e := range ctrl.Expenses() {
		if e.ID == *id {
			expense := e
			existing = &expense
			break
		}
	}
	if existing == nil {
		return fmt.Errorf("no expense with ID %q", *id)
	}

	if *amount >= 0 {
		existing.Amount = *amount
	}
	if *payer != "" {
		existing.Payer = core.Payer(*payer)
	}
	if *category != "" {
		existing.Category = core.Category(*category)
	}
	if *date != "" {
		day, err := core.ParseDate(*date)
		if err != nil {
			return err
		}
		existing.Date = day
	}
	if noteSet {
		existing.Note = *note
	}

	return ctrl.UpdateExpense(ctx, *existing)
}

func runDelete(ctx context.Context, ctrl *controller.Controller, args []string) error {
	fs := flag.NewFlagSet("delete", flag.ExitOnError)
	id := fs.String("id", "", "expense ID (required)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *id == "" {
		return fmt.Errorf("missing required -id flag")
	}

	if err := ctrl.DeleteExpense(ctx, *id); err != nil {
		return err
	}
	fmt.Println("Expense deleted")
	return nil
}

func runSettings(ctx context.Context, ctrl *controller.Controller, args []string) error {
	current := ctrl.Settings()

	fs := flag.NewFlagSet("settings", flag.ExitOnError)
	budget := fs.Float64("budget", current.TotalBudget, "total monthly budget")
	symbol := fs.String("symbol", current.CurrencySymbol, "currency symbol")
	name := fs.String("name", current.UserName, "your display name")
	partner := fs.String("partner", current.PartnerName, "partner display name")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if len(args) == 0 {
		fmt.Printf("Total budget:    %s\n", core.FormatCurrency(current.TotalBudget, current.CurrencySymbol))
		fmt.Printf("Currency symbol: %s\n", current.CurrencySymbol)
		fmt.Printf("Names:           %s, %s\n", current.UserName, current.PartnerName)
		return nil
	}

	return ctrl.SaveSettings(ctx, core.BudgetSettings{
		TotalBudget:    *budget,
		CurrencySymbol: *symbol,
		UserName:       *name,
		PartnerName:    *partner,
	})
}

func runReset(ctx context.Context, ctrl *controller.Controller) error {
	err := ctrl.ResetMonth(ctx, func() bool {
		fmt.Print("Delete ALL expenses? This cannot be undone. [y/N] ")
		line, readErr := bufio.NewReader(os.Stdin).ReadString('\n')
		if readErr != nil {
			return false
		}
		answer := strings.ToLower(strings.TrimSpace(line))
		return answer == "y" || answer == "yes"
	})
	if err == controller.ErrResetDeclined {
		fmt.Println("Reset cancelled")
		return nil
	}
	return err
}
