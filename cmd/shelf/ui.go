package main

import (
	"bufio"
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"

	cl "shelfwise/internal/cli"
	"shelfwise/internal/game"
	"shelfwise/internal/inventory"

	"github.com/fatih/color"
	"github.com/shopspring/decimal"
)

var (
	stdinReader = bufio.NewReader(os.Stdin)
	accent      = color.New(color.FgCyan, color.Bold)
	success     = color.New(color.FgGreen, color.Bold)
	warn        = color.New(color.FgYellow, color.Bold)
	danger      = color.New(color.FgRed, color.Bold)
	neutral     = color.New(color.FgHiWhite)
)

func printSuccess(msg string) {
	success.Println(msg)
}

func printWarn(msg string) {
	warn.Println(msg)
}

func printError(msg string) {
	danger.Println(msg)
}

func printInfo(msg string) {
	neutral.Println(msg)
}

func promptRequired(label string) (string, error) {
	for {
		fmt.Printf("%s: ", label)
		text, err := stdinReader.ReadString('\n')
		if err != nil {
			return "", err
		}
		text = strings.TrimSpace(text)
		if text != "" {
			return text, nil
		}
		printWarn(label + " is required.")
	}
}

func promptInt(label string, min int) (int, error) {
	for {
		text, err := promptRequired(label)
		if err != nil {
			return 0, err
		}
		v, err := strconv.Atoi(text)
		if err != nil {
			printWarn("Enter a whole number.")
			continue
		}
		if v < min {
			printWarn(fmt.Sprintf("Value must be >= %d", min))
			continue
		}
		return v, nil
	}
}

func renderState(v game.StateView) {
	accent.Printf("\n== DAY %d ==\n", v.Day)
	st := v.Statistics
	fmt.Printf("Budget:        $%s (started at $%s)\n", v.Budget.StringFixed(2), v.InitialBudget.StringFixed(2))
	fmt.Printf("Profit:        %s\n", colorizeMoney(st.Profit))
	fmt.Printf("ROI:           %s\n", colorizePercent(st.ROI))
	fmt.Printf("Sales:         %d units, %d stockouts\n", st.TotalSales, st.TotalStockouts)
	if v.CurrentEvent != nil {
		fmt.Printf("Last event:    %s\n", eventText(v.CurrentEvent))
	}

	fmt.Println()
	accent.Println("Shelves")
	fmt.Printf("%-18s %7s %8s %8s %8s %8s %-9s\n", "PRODUCT", "STOCK", "DEMAND", "ROP", "EOQ", "DAYS", "STATUS")
	for _, r := range v.Recommendations {
		days := "-"
		if r.DaysOfStock != nil {
			days = strconv.FormatFloat(*r.DaysOfStock, 'f', 1, 64)
		}
		fmt.Printf("%-18s %7d %8.1f %8.1f %8.1f %8s %s\n",
			truncate(r.Product, 18), r.CurrentStock, r.DailyDemand, r.ReorderPoint, r.EOQ, days, colorizeStatus(r.Status))
	}

	if len(v.Alerts) > 0 {
		fmt.Println()
		accent.Println("Alerts")
		renderAlerts(v.Alerts)
	}
	fmt.Println()
}

func renderDaySummary(r game.DayReport) {
	accent.Printf("\n== DAY %d REPORT ==\n", r.Day)
	if r.Event != nil {
		warn.Printf("Event: %s\n", eventText(r.Event))
	}
	fmt.Printf("%-18s %8s %6s %10s %9s\n", "PRODUCT", "DEMAND", "SOLD", "REVENUE", "LEFT")
	for _, s := range r.Sales {
		fmt.Printf("%-18s %8.2f %6d %10s %9d\n", truncate(s.Product, 18), s.Demand, s.Sold, "$"+s.Revenue.StringFixed(2), s.RemainingStock)
	}
	fmt.Printf("Revenue $%s, storage $%s, net %s, budget $%s\n",
		r.Revenue.StringFixed(2), r.StorageCost.StringFixed(2), colorizeMoney(r.NetChange), r.BudgetAfter.StringFixed(2))
	renderAlerts(r.Alerts)
	for _, h := range r.NewUnlocks {
		printInfo(fmt.Sprintf("Within reach: %s (%s) for $%s", h.Name, h.Category, h.UnlockPrice.StringFixed(2)))
	}
}

func renderAlerts(alerts []game.Alert) {
	for _, a := range alerts {
		line := fmt.Sprintf("[%s] %s", a.Severity, a.Message)
		switch a.Severity {
		case game.SeverityCritical, game.SeverityHigh:
			printError(line)
		case game.SeverityMedium:
			printWarn(line)
		default:
			printInfo(line)
		}
	}
}

func renderRestock(r game.RestockResult) {
	printSuccess(fmt.Sprintf("Ordered %d x %s for $%s. Stock now %d, budget $%s.",
		r.Quantity, r.Product, r.Cost.StringFixed(2), r.NewStock, r.BudgetAfter.StringFixed(2)))
	if r.DiscountSaved.IsPositive() {
		printInfo(fmt.Sprintf("Supplier discount saved $%s.", r.DiscountSaved.StringFixed(2)))
	}
	if r.Warning != "" {
		printWarn(r.Warning)
	}
}

func renderUnlock(r game.UnlockResult) {
	printSuccess(fmt.Sprintf("Unlocked %s (%s) for $%s with %d units on the shelf. Budget $%s.",
		r.Item, r.Category, r.Cost.StringFixed(2), r.StartingStock, r.BudgetAfter.StringFixed(2)))
}

func renderStore(v game.StateView) {
	accent.Printf("\n== STORE (budget $%s) ==\n", v.Budget.StringFixed(2))
	fmt.Printf("%-18s %-16s %10s %6s %s\n", "ITEM", "CATEGORY", "PRICE", "STOCK", "STATUS")
	for _, it := range v.StoreItems {
		status := danger.Sprint("too expensive")
		switch {
		case it.Unlocked:
			status = neutral.Sprint("on the shelves")
		case it.Affordable:
			status = success.Sprint("affordable")
		}
		fmt.Printf("%-18s %-16s %10s %6d %s\n",
			truncate(it.Name, 18), truncate(it.Category, 16), "$"+it.UnlockPrice.StringFixed(2), it.StartingStock, status)
	}
	fmt.Println()
}

func renderCatalog(c cl.CatalogResponse) {
	accent.Println("\n== STARTING PRODUCTS ==")
	fmt.Printf("%-18s %6s %9s %9s %9s %7s\n", "PRODUCT", "STOCK", "PRICE", "STORAGE", "RESTOCK", "DEMAND")
	for _, p := range c.Products {
		fmt.Printf("%-18s %6d %9s %9s %9s %7.1f\n", truncate(p.Name, 18), p.Stock,
			p.SalePrice.StringFixed(2), p.CostStorage.StringFixed(2), p.CostRestock.StringFixed(2), p.DailyDemand)
	}
	for _, category := range c.Categories {
		accent.Printf("\n== %s ==\n", strings.ToUpper(category))
		for _, it := range c.StoreItems[category] {
			fmt.Printf("%-18s %10s  %s\n", truncate(it.Name, 18), "$"+it.UnlockPrice.StringFixed(2), it.Description)
		}
	}
	accent.Println("\n== EVENTS ==")
	kinds := make([]string, 0, len(c.Events))
	for k := range c.Events {
		kinds = append(kinds, k)
	}
	sort.Strings(kinds)
	for _, k := range kinds {
		fmt.Printf("%-18s %s\n", k, c.Events[k])
	}
	fmt.Println()
}

func renderRecommendations(recs []inventory.Recommendation) {
	fmt.Printf("%-18s %9s %9s %9s %12s %-9s %s\n", "PRODUCT", "STOCK", "EOQ", "ROP", "TOTAL COST", "STATUS", "ACTION")
	for _, r := range recs {
		fmt.Printf("%-18s %9.1f %9.2f %9.2f %12.2f %s %s\n",
			truncate(r.Name, 18), r.CurrentStock, r.EOQ, r.ReorderPoint, r.TotalInventoryCost, colorizeStatus(r.Status), r.Action)
	}
}

func renderPreview(p game.Preview) {
	accent.Printf("\n== PREVIEW demand x%.2f storage x%.2f restock x%.2f ==\n", p.DemandFactor, p.StorageFactor, p.RestockFactor)
	fmt.Printf("%-18s %15s %17s %17s\n", "PRODUCT", "DEMAND", "STORAGE", "RESTOCK")
	for _, l := range p.Products {
		fmt.Printf("%-18s %6.1f -> %6.1f %7s -> %7s %7s -> %7s\n", truncate(l.Name, 18),
			l.OriginalDemand, l.ModifiedDemand,
			l.OriginalCostStorage.StringFixed(2), l.ModifiedCostStorage.StringFixed(2),
			l.OriginalCostRestock.StringFixed(2), l.ModifiedCostRestock.StringFixed(2))
	}
	fmt.Println()
}

func eventText(ev *game.Event) string {
	if ev.Description != "" {
		return ev.Description
	}
	if ev.Name != "" {
		return ev.Name
	}
	return string(ev.Kind)
}

func colorizeMoney(v decimal.Decimal) string {
	text := "$" + v.StringFixed(2)
	switch v.Sign() {
	case 1:
		return success.Sprint("+" + text)
	case -1:
		return danger.Sprint("-$" + v.Abs().StringFixed(2))
	default:
		return neutral.Sprint(text)
	}
}

func colorizePercent(v decimal.Decimal) string {
	text := v.StringFixed(2) + "%"
	switch v.Sign() {
	case 1:
		return success.Sprint("+" + text)
	case -1:
		return danger.Sprint(text)
	default:
		return neutral.Sprint(text)
	}
}

func colorizeStatus(s inventory.Status) string {
	switch s {
	case inventory.StatusCritical:
		return danger.Sprintf("%-9s", s)
	case inventory.StatusWarning:
		return warn.Sprintf("%-9s", s)
	default:
		return success.Sprintf("%-9s", s)
	}
}

func truncate(s string, n int) string {
	s = strings.TrimSpace(s)
	if n <= 0 || len(s) <= n {
		return s
	}
	if n <= 3 {
		return s[:n]
	}
	return s[:n-3] + "..."
}
