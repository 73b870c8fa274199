// Package calendar builds the month grid and groups tasks onto its days.
package calendar

import (
	"fmt"
	"time"
)

const (
	// DateLayout is the task date encoding, zero padded with no timezone
	DateLayout = "2006-01-02"
	// MonthLayout is used to name a month on the command line
	MonthLayout = "2006-01"

	// GridCells is six Sunday-first weeks
	GridCells = 42
)

// Month is a reference month in the proleptic Gregorian calendar
type Month struct {
	Year  int
	Month time.Month
}

// MonthOf returns the month containing t
func MonthOf(t time.Time) Month {
	return Month{Year: t.Year(), Month: t.Month()}
}

// ParseMonth parses "YYYY-MM"
func ParseMonth(s string) (Month, error) {
	t, err := time.Parse(MonthLayout, s)
	if err != nil {
		return Month{}, fmt.Errorf("month must be YYYY-MM: %w", err)
	}
	return MonthOf(t), nil
}

// First is midnight UTC on the first day of the month
func (m Month) First() time.Time {
	return time.Date(m.Year, m.Month, 1, 0, 0, 0, 0, time.UTC)
}

// Last is midnight UTC on the last day of the month
func (m Month) Last() time.Time {
	return m.First().AddDate(0, 1, -1)
}

func (m Month) Days() int {
	return m.Last().Day()
}

// Add steps n months forward (or back when n is negative). Stepping a
// year+month value never overflows into a neighbouring month.
func (m Month) Add(n int) Month {
	return MonthOf(m.First().AddDate(0, n, 0))
}

func (m Month) Next() Month { return m.Add(1) }
func (m Month) Prev() Month { return m.Add(-1) }

func (m Month) Contains(t time.Time) bool {
	return t.Year() == m.Year && t.Month() == m.Month
}

func (m Month) String() string {
	return m.First().Format(MonthLayout)
}

// Title is the grid heading, e.g. "February 2024"
func (m Month) Title() string {
	return m.First().Format("January 2006")
}

// Cell is one position of the month grid
type Cell struct {
	Date    time.Time
	InMonth bool
}

// Key is the cell date in task date encoding
func (c Cell) Key() string {
	return FormatDate(c.Date)
}

// Grid returns the 42 Sunday-first cells showing m: the tail of the previous
// month, every day of m, then the head of the next month.
func Grid(m Month) []Cell {
	first := m.First()
	lead := int(first.Weekday())

	cells := make([]Cell, 0, GridCells)
	for i := lead; i > 0; i-- {
		cells = append(cells, Cell{Date: first.AddDate(0, 0, -i)})
	}
	for d := 0; d < m.Days(); d++ {
		cells = append(cells, Cell{Date: first.AddDate(0, 0, d), InMonth: true})
	}
	next := m.Next().First()
	for i := 0; len(cells) < GridCells; i++ {
		cells = append(cells, Cell{Date: next.AddDate(0, 0, i)})
	}
	return cells
}

// Weekdays are the column headings of the grid
var Weekdays = [7]string{"Sun", "Mon", "Tue", "Wed", "Thu", "Fri", "Sat"}

// FormatDate encodes t as YYYY-MM-DD using t's own calendar day
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

// ParseDate decodes a YYYY-MM-DD task date as midnight UTC
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("date must be YYYY-MM-DD: %w", err)
	}
	return t, nil
}

// AddMonths moves t by n months with the runtime's normalisation, so
// Jan 31 + 1 month lands in early March.
func AddMonths(t time.Time, n int) time.Time {
	return t.AddDate(0, n, 0)
}

// IsToday reports whether date falls on the same calendar day as now in now's location
func IsToday(date, now time.Time) bool {
	return FormatDate(date) == FormatDate(now)
}
