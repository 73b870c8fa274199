package ui

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"pgregory.net/rapid"

	"github.com/CrowderSoup/couple-calendar/database"
)

func TestTogglePerson(t *testing.T) {
	tests := []struct {
		current, toggled, want database.Person
	}{
		{database.PersonNut, database.PersonNut, database.PersonNut},
		{database.PersonNut, database.PersonNice, database.PersonBoth},
		{database.PersonNice, database.PersonNut, database.PersonBoth},
		{database.PersonNice, database.PersonNice, database.PersonNice},
		{database.PersonBoth, database.PersonNut, database.PersonNice},
		{database.PersonBoth, database.PersonNice, database.PersonNut},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("%s toggles %s", tt.current, tt.toggled), func(t *testing.T) {
			assert.Equal(t, tt.want, TogglePerson(tt.current, tt.toggled))
		})
	}
}

func TestReduce_LoadLifecycle(t *testing.T) {
	s := Reduce(InitialState(), LoadStarted{})
	assert.True(t, s.Loading)

	loaded := Reduce(s, LoadSucceeded{Tasks: []database.Task{{ID: "a"}}})
	assert.False(t, loaded.Loading)
	assert.Len(t, loaded.Tasks, 1)

	failed := Reduce(loaded, LoadFailed{})
	assert.False(t, failed.Loading)
	assert.Empty(t, failed.Tasks)
}

func TestReduce_DaySelectionAndForm(t *testing.T) {
	s := Reduce(InitialState(), DaySelected{Date: "2024-06-15"})
	assert.Equal(t, "2024-06-15", s.SelectedDate)
	assert.True(t, s.ModalOpen)

	s = Reduce(s, FieldChanged{Field: FieldTitle, Value: "Picnic"})
	s = Reduce(s, FieldChanged{Field: FieldDescription, Value: "in the park"})
	s = Reduce(s, FieldChanged{Field: FieldTime, Value: "12:30"})
	s = Reduce(s, PersonToggled{Person: database.PersonNice})
	assert.Equal(t, Form{Title: "Picnic", Description: "in the park", Time: "12:30", Person: database.PersonBoth}, s.Form)

	closed := Reduce(s, ModalClosed{})
	assert.False(t, closed.ModalOpen)
	assert.Equal(t, s.Form, closed.Form)
	assert.Equal(t, "2024-06-15", closed.SelectedDate)
}

func TestReduce_TaskAddedClosesModalAndResetsForm(t *testing.T) {
	s := InitialState()
	s = Reduce(s, DaySelected{Date: "2024-06-15"})
	s = Reduce(s, FieldChanged{Field: FieldTitle, Value: "Picnic"})
	s = Reduce(s, PersonToggled{Person: database.PersonNice})

	s = Reduce(s, TaskAdded{Task: database.Task{ID: "x", Title: "Picnic", Date: "2024-06-15"}})
	assert.False(t, s.ModalOpen)
	assert.Equal(t, emptyForm(), s.Form)
	assert.Equal(t, []database.Task{{ID: "x", Title: "Picnic", Date: "2024-06-15"}}, s.Tasks)
	assert.Len(t, s.SelectedTasks(), 1)
}

func TestReduce_TaskRemoved(t *testing.T) {
	s := Reduce(InitialState(), LoadSucceeded{Tasks: []database.Task{{ID: "a"}, {ID: "b"}, {ID: "c"}}})

	s = Reduce(s, TaskRemoved{ID: "b"})
	assert.Equal(t, []database.Task{{ID: "a"}, {ID: "c"}}, s.Tasks)

	s = Reduce(s, TaskRemoved{ID: "missing"})
	assert.Len(t, s.Tasks, 2)
}

func TestSelectedTasks_NoSelection(t *testing.T) {
	s := Reduce(InitialState(), LoadSucceeded{Tasks: []database.Task{{ID: "a", Date: "2024-06-15"}}})
	assert.Empty(t, s.SelectedTasks())
}

func TestReduce_NeverMutatesInput(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		n := rapid.IntRange(0, 8).Draw(rt, "n")
		tasks := make([]database.Task, 0, n+4)
		for i := 0; i < n; i++ {
			tasks = append(tasks, database.Task{ID: fmt.Sprintf("t%d", i), Date: "2024-06-15"})
		}
		before := Reduce(InitialState(), LoadSucceeded{Tasks: tasks})
		snapshot := append([]database.Task(nil), before.Tasks...)

		var action Action
		switch rapid.IntRange(0, 2).Draw(rt, "kind") {
		case 0:
			action = TaskAdded{Task: database.Task{ID: "new"}}
		case 1:
			action = TaskRemoved{ID: fmt.Sprintf("t%d", rapid.IntRange(0, 9).Draw(rt, "id"))}
		default:
			action = LoadSucceeded{Tasks: []database.Task{{ID: "other"}}}
		}

		after := Reduce(before, action)
		if len(before.Tasks) != len(snapshot) {
			rt.Fatalf("input task count changed from %d to %d", len(snapshot), len(before.Tasks))
		}
		for i := range snapshot {
			if before.Tasks[i] != snapshot[i] {
				rt.Fatalf("input task %d changed", i)
			}
		}
		// writing through the result must not reach the input either
		if len(after.Tasks) > 0 && len(before.Tasks) > 0 {
			after.Tasks[0].Title = "mutated"
			if before.Tasks[0].Title == "mutated" {
				rt.Fatalf("result shares backing array with input")
			}
		}
	})
}
