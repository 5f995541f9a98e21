// Package aggregate derives the summary numbers shown on every event view:
// budget totals and progress, category groups, checklist progress and gift
// summaries. All functions are pure and total over their input.
package aggregate

import (
	"fmt"
	"time"

	"utsav/models"
)

// BudgetSummary budget usage of one event
type BudgetSummary struct {
	TotalSpent      float64 `json:"total_spent"`
	BudgetTotal     float64 `json:"budget_total"`
	Remaining       float64 `json:"remaining"`
	Progress        float64 `json:"progress"`
	DisplayProgress float64 `json:"display_progress"`
	OverBudget      bool    `json:"over_budget"`
}

// CategoryGroup expenses sharing one category label
type CategoryGroup struct {
	Category string           `json:"category"`
	Subtotal float64          `json:"subtotal"`
	Expenses []models.Expense `json:"expenses"`
}

// ChecklistSummary completion of an event checklist
type ChecklistSummary struct {
	Completed int     `json:"completed"`
	Total     int     `json:"total"`
	Ratio     float64 `json:"ratio"`
	Percent   float64 `json:"percent"`
	Label     string  `json:"label"`
}

// GiftToGiveSummary totals for gifts the host will give
type GiftToGiveSummary struct {
	Total       int     `json:"total"`
	TotalBudget float64 `json:"total_budget"`
	Purchased   int     `json:"purchased"`
}

// GiftReceivedSummary totals for gifts received from guests
type GiftReceivedSummary struct {
	Total      int     `json:"total"`
	TotalValue float64 `json:"total_value"`
	Returned   int     `json:"returned"`
}

func sum[T any](rows []T, value func(T) float64) float64 {
	var total float64
	for _, r := range rows {
		total += value(r)
	}
	return total
}

func count[T any](rows []T, match func(T) bool) int {
	n := 0
	for _, r := range rows {
		if match(r) {
			n++
		}
	}
	return n
}

// TotalSpent sums expense amounts.
func TotalSpent(expenses []models.Expense) float64 {
	return sum(expenses, func(e models.Expense) float64 { return e.Amount })
}

// ProgressPercent is 100*spent/budgetTotal, or 0 when there is no budget.
// The result is not clamped.
func ProgressPercent(spent, budgetTotal float64) float64 {
	if budgetTotal > 0 {
		return 100 * spent / budgetTotal
	}
	return 0
}

// DisplayPercent clamps a progress value to [0, 100] for progress bars.
func DisplayPercent(p float64) float64 {
	switch {
	case p < 0:
		return 0
	case p > 100:
		return 100
	default:
		return p
	}
}

// Budget summarizes spending against budgetTotal.
func Budget(expenses []models.Expense, budgetTotal float64) BudgetSummary {
	spent := TotalSpent(expenses)
	progress := ProgressPercent(spent, budgetTotal)
	return BudgetSummary{
		TotalSpent:      spent,
		BudgetTotal:     budgetTotal,
		Remaining:       budgetTotal - spent,
		Progress:        progress,
		DisplayProgress: DisplayPercent(progress),
		OverBudget:      progress > 100,
	}
}

// GroupByCategory partitions expenses by category in first-seen order.
// Expenses keep their input order inside each group.
func GroupByCategory(expenses []models.Expense) []CategoryGroup {
	groups := make([]CategoryGroup, 0)
	index := make(map[string]int)
	for _, e := range expenses {
		i, ok := index[e.Category]
		if !ok {
			i = len(groups)
			index[e.Category] = i
			groups = append(groups, CategoryGroup{Category: e.Category})
		}
		groups[i].Expenses = append(groups[i].Expenses, e)
		groups[i].Subtotal += e.Amount
	}
	return groups
}

// Checklist reports completed/total; ratio is 0 for an empty checklist.
func Checklist(items []models.ChecklistItem) ChecklistSummary {
	s := ChecklistSummary{
		Completed: count(items, func(i models.ChecklistItem) bool { return i.IsCompleted }),
		Total:     len(items),
	}
	if s.Total > 0 {
		s.Ratio = float64(s.Completed) / float64(s.Total)
	}
	s.Percent = s.Ratio * 100
	s.Label = fmt.Sprintf("%.0f%%", s.Percent)
	return s
}

// GiftsToGive sums planned gift budgets and counts purchased gifts.
func GiftsToGive(gifts []models.GiftToGive) GiftToGiveSummary {
	return GiftToGiveSummary{
		Total:       len(gifts),
		TotalBudget: sum(gifts, func(g models.GiftToGive) float64 { return g.Budget }),
		Purchased:   count(gifts, func(g models.GiftToGive) bool { return g.Status == models.GiftStatusPurchased }),
	}
}

// GiftsReceived sums received gift values and counts returned gifts.
func GiftsReceived(gifts []models.GiftReceived) GiftReceivedSummary {
	return GiftReceivedSummary{
		Total:      len(gifts),
		TotalValue: sum(gifts, func(g models.GiftReceived) float64 { return g.GiftValue }),
		Returned:   count(gifts, func(g models.GiftReceived) bool { return g.ReturnStatus == models.ReturnStatusDone }),
	}
}

// EventProgress one dashboard card
type EventProgress struct {
	Event    models.Event `json:"event"`
	Spent    float64      `json:"spent"`
	Progress float64      `json:"progress"`
}

// DashboardSummary the user's events with spend and headline counts
type DashboardSummary struct {
	TotalEvents int             `json:"total_events"`
	Upcoming    int             `json:"upcoming"`
	TotalBudget float64         `json:"total_budget"`
	Events      []EventProgress `json:"events"`
}

// Dashboard builds the dashboard from events and their expenses.
// An event is upcoming when its date is today or later; the card progress is
// clamped like the bar it feeds.
func Dashboard(events []models.Event, expenses []models.Expense, today time.Time) DashboardSummary {
	byEvent := make(map[uint][]models.Expense, len(events))
	for _, e := range expenses {
		byEvent[e.EventID] = append(byEvent[e.EventID], e)
	}

	start := time.Date(today.Year(), today.Month(), today.Day(), 0, 0, 0, 0, today.Location())
	d := DashboardSummary{
		TotalEvents: len(events),
		TotalBudget: sum(events, func(e models.Event) float64 { return e.BudgetTotal }),
		Events:      make([]EventProgress, 0, len(events)),
	}
	for _, ev := range events {
		spent := TotalSpent(byEvent[ev.ID])
		d.Events = append(d.Events, EventProgress{
			Event:    ev,
			Spent:    spent,
			Progress: DisplayPercent(ProgressPercent(spent, ev.BudgetTotal)),
		})
		if !dateOnly(ev.EventDate, start.Location()).Before(start) {
			d.Upcoming++
		}
	}
	return d
}

func dateOnly(t time.Time, loc *time.Location) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc)
}
