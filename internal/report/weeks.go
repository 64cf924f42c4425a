package report

import (
	"fmt"
	"time"

	"github.com/ivanoskov/finance_tracker/internal/model"
)

const weekLabelLayout = "02/01"

// WeekPeriod is a labelled seven day window.
type WeekPeriod struct {
	Label  string
	Window Window
}

// RecentWeeks returns count consecutive seven day windows ending at today,
// most recent first.
func RecentWeeks(today time.Time, count int) []WeekPeriod {
	if count <= 0 {
		return []WeekPeriod{}
	}
	endOfToday := EndOfDay(today)
	weeks := make([]WeekPeriod, 0, count)
	for i := 0; i < count; i++ {
		end := endOfToday.AddDate(0, 0, -7*i)
		start := StartOfDay(end.AddDate(0, 0, -6))
		weeks = append(weeks, WeekPeriod{
			Label:  fmt.Sprintf("%s – %s", start.Format(weekLabelLayout), end.Format(weekLabelLayout)),
			Window: Window{Start: start, End: end},
		})
	}
	return weeks
}

// DailyTotal holds the income and expense of a single day.
type DailyTotal struct {
	Date    time.Time
	Income  int64
	Expense int64
}

// DailyTotals groups the transactions of window by day. Every day of the
// window is present, including days without transactions.
func DailyTotals(transactions []model.Transaction, window Window) []DailyTotal {
	byDay := make(map[string]*DailyTotal)
	days := make([]DailyTotal, 0)
	for d := StartOfDay(window.Start); !d.After(window.End); d = d.AddDate(0, 0, 1) {
		days = append(days, DailyTotal{Date: d})
	}
	for i := range days {
		byDay[days[i].Date.Format(time.DateOnly)] = &days[i]
	}

	for _, t := range FilterByPeriod(transactions, window) {
		day, ok := byDay[t.Date.In(window.Start.Location()).Format(time.DateOnly)]
		if !ok {
			continue
		}
		switch t.Type {
		case model.Income:
			day.Income += t.Amount
		case model.Expense:
			day.Expense += t.Amount
		}
	}
	return days
}

func StartOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

func EndOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 23, 59, 59, 999999999, t.Location())
}
