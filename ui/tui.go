package ui

import (
	"context"
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/CrowderSoup/couple-calendar/calendar"
	"github.com/CrowderSoup/couple-calendar/database"
)

const requestTimeout = 15 * time.Second

// stateChangedMsg is sent after a controller round-trip finishes. Failures
// were already logged by the controller and are not shown.
type stateChangedMsg struct{}

// Model is the interactive page: the month grid with the day modal on top
type Model struct {
	ctrl   *Controller
	month  calendar.Month
	cursor int
	now    func() time.Time

	focus    int
	selected int
}

func NewModel(ctrl *Controller, now func() time.Time) Model {
	if now == nil {
		now = time.Now
	}
	m := Model{ctrl: ctrl, now: now}
	m.month = calendar.MonthOf(now())
	m.cursor = m.indexOf(calendar.FormatDate(now()))
	return m
}

func (m Model) Init() tea.Cmd {
	ctrl := m.ctrl
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		ctrl.Mount(ctx)
		return stateChangedMsg{}
	}
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case stateChangedMsg:
		if n := len(m.ctrl.State().SelectedTasks()); m.selected >= n && n > 0 {
			m.selected = n - 1
		}
		return m, nil
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			return m, tea.Quit
		}
		if m.ctrl.State().ModalOpen {
			return m.updateModal(msg)
		}
		return m.updateGrid(msg)
	}
	return m, nil
}

func (m Model) updateGrid(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "esc":
		return m, tea.Quit
	case "left", "h":
		m.moveCursor(-1)
	case "right", "l":
		m.moveCursor(1)
	case "up", "k":
		m.moveCursor(-7)
	case "down", "j":
		m.moveCursor(7)
	case "n", "]", "pgdown":
		m.setMonth(m.month.Next())
	case "p", "[", "pgup":
		m.setMonth(m.month.Prev())
	case "t":
		m.month = calendar.MonthOf(m.now())
		m.cursor = m.indexOf(calendar.FormatDate(m.now()))
	case "r":
		return m, m.Init()
	case "enter", " ":
		m.ctrl.SelectDay(calendar.Grid(m.month)[m.cursor].Key())
		m.focus = focusTitle
		m.selected = 0
	}
	return m, nil
}

func (m Model) updateModal(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.ctrl.CloseModal()
		return m, nil
	case tea.KeyTab:
		m.focus = (m.focus + 1) % focusCount
		return m, nil
	case tea.KeyShiftTab:
		m.focus = (m.focus - 1 + focusCount) % focusCount
		return m, nil
	case tea.KeyEnter:
		if m.focus == focusList {
			return m, nil
		}
		return m, m.submit()
	}

	switch m.focus {
	case focusPerson:
		switch msg.String() {
		case "left":
			m.ctrl.Dispatch(PersonToggled{Person: database.PersonNut})
		case "right":
			m.ctrl.Dispatch(PersonToggled{Person: database.PersonNice})
		}
	case focusList:
		tasks := m.ctrl.State().SelectedTasks()
		switch msg.String() {
		case "up", "k":
			if m.selected > 0 {
				m.selected--
			}
		case "down", "j":
			if m.selected < len(tasks)-1 {
				m.selected++
			}
		case "d", "delete", "x":
			if m.selected < len(tasks) {
				return m, m.delete(tasks[m.selected].ID)
			}
		}
	default:
		m.edit(msg)
	}
	return m, nil
}

// edit applies a keystroke to the focused text field
func (m Model) edit(msg tea.KeyMsg) {
	field := Field(m.focus)
	form := m.ctrl.State().Form
	value := map[Field]string{
		FieldTitle:       form.Title,
		FieldDescription: form.Description,
		FieldTime:        form.Time,
	}[field]

	switch msg.Type {
	case tea.KeyBackspace:
		if r := []rune(value); len(r) > 0 {
			value = string(r[:len(r)-1])
		}
	case tea.KeySpace:
		value += " "
	case tea.KeyRunes:
		value += string(msg.Runes)
	default:
		return
	}
	m.ctrl.Dispatch(FieldChanged{Field: field, Value: value})
}

func (m Model) submit() tea.Cmd {
	ctrl := m.ctrl
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		_, _ = ctrl.Submit(ctx)
		return stateChangedMsg{}
	}
}

func (m Model) delete(id string) tea.Cmd {
	ctrl := m.ctrl
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		_, _ = ctrl.Delete(ctx, id)
		return stateChangedMsg{}
	}
}

func (m *Model) moveCursor(delta int) {
	next := m.cursor + delta
	if next < 0 || next >= calendar.GridCells {
		return
	}
	m.cursor = next
}

// setMonth switches month, keeping the cursor on the same day number when the month has it
func (m *Model) setMonth(month calendar.Month) {
	day := calendar.Grid(m.month)[m.cursor].Date.Day()
	if day > month.Days() {
		day = month.Days()
	}
	m.month = month
	m.cursor = m.indexOf(calendar.FormatDate(time.Date(month.Year, month.Month, day, 0, 0, 0, 0, time.UTC)))
}

func (m Model) indexOf(date string) int {
	cells := calendar.Grid(m.month)
	for i, c := range cells {
		if c.InMonth && c.Key() == date {
			return i
		}
	}
	return int(m.month.First().Weekday())
}

func (m Model) View() string {
	s := m.ctrl.State()
	if s.Loading {
		return "\n  Loading your calendar...\n"
	}

	if s.ModalOpen {
		return RenderDay(DayView{State: s, Focus: m.focus, Selected: m.selected})
	}

	view := RenderMonth(MonthView{Month: m.month, Tasks: s.Tasks, Cursor: m.cursor, Now: m.now()})
	help := helpStyle.Render("arrows: move | n/p: month | t: today | enter: open day | r: reload | q: quit")
	return fmt.Sprintf("%s\n\n%s", view, help)
}

// Run starts the interactive calendar
func Run(ctrl *Controller) error {
	_, err := tea.NewProgram(NewModel(ctrl, nil), tea.WithAltScreen()).Run()
	return err
}
