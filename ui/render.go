package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/CrowderSoup/couple-calendar/calendar"
	"github.com/CrowderSoup/couple-calendar/database"
)

const (
	cellWidth    = 12
	previewCount = 2
)

var (
	nutColor  = lipgloss.Color("153")
	niceColor = lipgloss.Color("218")
	bothColor = lipgloss.Color("183")

	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("238")).
			Background(niceColor).
			Padding(0, 1)

	weekdayStyle = lipgloss.NewStyle().
			Width(cellWidth + 2).
			Align(lipgloss.Center).
			Foreground(lipgloss.Color("245"))

	cellStyle = lipgloss.NewStyle().
			Width(cellWidth).
			Height(4).
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("181"))

	outsideCellStyle = cellStyle.
				BorderForeground(lipgloss.Color("238")).
				Foreground(lipgloss.Color("243"))

	cursorCellStyle = cellStyle.BorderForeground(nutColor).BorderStyle(lipgloss.ThickBorder())
	todayStyle      = lipgloss.NewStyle().Bold(true).Foreground(nutColor)

	nutDot  = lipgloss.NewStyle().Foreground(nutColor).Render("●")
	niceDot = lipgloss.NewStyle().Foreground(niceColor).Render("●")

	modalStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(niceColor).
			Padding(1, 2)

	headerStyle  = lipgloss.NewStyle().Bold(true).MarginBottom(1)
	focusStyle   = lipgloss.NewStyle().Foreground(nutColor).Bold(true)
	mutedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	helpStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	selectedItem = lipgloss.NewStyle().Reverse(true)
)

func personStyle(p database.Person) lipgloss.Style {
	switch p {
	case database.PersonNut:
		return lipgloss.NewStyle().Foreground(nutColor)
	case database.PersonNice:
		return lipgloss.NewStyle().Foreground(niceColor)
	default:
		return lipgloss.NewStyle().Foreground(bothColor)
	}
}

// MonthView controls how a month grid is drawn
type MonthView struct {
	Month calendar.Month
	Tasks []database.Task
	// Cursor is the highlighted grid index, or -1 for none
	Cursor int
	Now    time.Time
}

// RenderMonth draws the 6x7 grid with per-person dots and a short preview of
// each day's activities
func RenderMonth(v MonthView) string {
	byDate := calendar.GroupByDate(v.Tasks)
	cells := calendar.Grid(v.Month)

	var b strings.Builder
	b.WriteString(titleStyle.Render(v.Month.Title()))
	b.WriteString("\n\n")

	labels := make([]string, 0, len(calendar.Weekdays))
	for _, d := range calendar.Weekdays {
		labels = append(labels, weekdayStyle.Render(d))
	}
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, labels...))
	b.WriteString("\n")

	rows := make([]string, 0, len(cells)/7)
	for week := 0; week < len(cells)/7; week++ {
		row := make([]string, 0, 7)
		for i := week * 7; i < week*7+7; i++ {
			row = append(row, renderCell(cells[i], byDate[cells[i].Key()], i == v.Cursor, v.Now))
		}
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, row...))
	}
	b.WriteString(lipgloss.JoinVertical(lipgloss.Left, rows...))

	if len(v.Tasks) == 0 {
		b.WriteString("\n\n")
		b.WriteString(RenderEmptyState())
	}
	return b.String()
}

func renderCell(c calendar.Cell, tasks []database.Task, cursor bool, now time.Time) string {
	day := fmt.Sprintf("%*d", cellWidth, c.Date.Day())
	if !now.IsZero() && calendar.IsToday(c.Date, now) {
		day = todayStyle.Render(day)
	}

	marks := calendar.MarksFor(tasks)
	dots := ""
	if marks.HasNut {
		dots += nutDot
	}
	if marks.HasNice {
		dots += niceDot
	}

	lines := []string{day, dots}
	shown, more := calendar.Preview(tasks, previewCount)
	for _, t := range shown {
		lines = append(lines, personStyle(t.Person).Render(truncate(t.Title, cellWidth)))
	}
	if more > 0 {
		lines = append(lines, mutedStyle.Render(fmt.Sprintf("+%d more", more)))
	}

	style := cellStyle
	switch {
	case cursor:
		style = cursorCellStyle
	case !c.InMonth:
		style = outsideCellStyle
	}
	return style.Render(strings.Join(lines, "\n"))
}

// RenderEmptyState is shown when there are no activities at all
func RenderEmptyState() string {
	return headerStyle.Render("No activities planned yet") + "\n" +
		mutedStyle.Render("Pick a day to create your first activity together")
}

// DayView controls how the day modal is drawn
type DayView struct {
	State State
	// Focus is the focused form element; see focus* constants
	Focus int
	// Selected is the highlighted task in the list
	Selected int
}

// Focusable elements of the day modal, in tab order
const (
	focusTitle = iota
	focusDescription
	focusTime
	focusPerson
	focusList
	focusCount
)

// RenderDay draws the modal: the add form above the day's activities
func RenderDay(v DayView) string {
	s := v.State

	heading := s.SelectedDate
	if d, err := calendar.ParseDate(s.SelectedDate); err == nil {
		heading = d.Format("January 2, 2006")
	}

	var b strings.Builder
	b.WriteString(headerStyle.Render(heading))
	b.WriteString("\n")
	b.WriteString(headerStyle.Render("Add New Activity"))
	b.WriteString("\n")
	b.WriteString(renderInput("Activity", s.Form.Title, v.Focus == focusTitle))
	b.WriteString(renderInput("Description", s.Form.Description, v.Focus == focusDescription))
	b.WriteString(renderInput("Time", s.Form.Time, v.Focus == focusTime))
	b.WriteString(renderPeople(s.Form.Person, v.Focus == focusPerson))
	b.WriteString("\n")

	b.WriteString(headerStyle.Render("Activities Today"))
	b.WriteString("\n")
	tasks := s.SelectedTasks()
	if len(tasks) == 0 {
		b.WriteString(mutedStyle.Render("No activities yet for this day"))
		b.WriteString("\n")
	}
	for i, t := range tasks {
		line := personStyle(t.Person).Render("● ") + t.Title
		if t.Description != "" {
			line += mutedStyle.Render(" - " + t.Description)
		}
		if t.Time != "" {
			line += mutedStyle.Render(" ⏰ " + t.Time)
		}
		if v.Focus == focusList && i == v.Selected {
			line = selectedItem.Render(line)
		}
		b.WriteString(line)
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(helpStyle.Render("tab: next field | ←/→ on people: toggle | enter: add | d: delete | esc: close"))
	return modalStyle.Render(b.String())
}

func renderInput(label, value string, focused bool) string {
	prefix := "  "
	if focused {
		prefix = focusStyle.Render("> ")
		value += "_"
	}
	return fmt.Sprintf("%s%-12s %s\n", prefix, label+":", value)
}

func renderPeople(p database.Person, focused bool) string {
	button := func(who database.Person, label string) string {
		if p.Includes(who) {
			return personStyle(who).Reverse(true).Render(" " + label + " ")
		}
		return mutedStyle.Render("[" + label + "]")
	}

	prefix := "  "
	if focused {
		prefix = focusStyle.Render("> ")
	}
	return fmt.Sprintf("%s%-12s %s %s\n", prefix, "With:", button(database.PersonNut, "Nut"), button(database.PersonNice, "Nice"))
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	if n <= 1 {
		return string(r[:n])
	}
	return string(r[:n-1]) + "…"
}
