package calendar

import "github.com/CrowderSoup/couple-calendar/database"

// Marks says which people have at least one activity on a day
type Marks struct {
	HasNut  bool
	HasNice bool
}

// MarksFor computes the day indicators. A "both" task marks both people.
func MarksFor(tasks []database.Task) Marks {
	var m Marks
	for _, t := range tasks {
		if t.Person.Includes(database.PersonNut) {
			m.HasNut = true
		}
		if t.Person.Includes(database.PersonNice) {
			m.HasNice = true
		}
	}
	return m
}

// GroupByDate buckets tasks by their date string, keeping input order inside each bucket
func GroupByDate(tasks []database.Task) map[string][]database.Task {
	groups := make(map[string][]database.Task)
	for _, t := range tasks {
		groups[t.Date] = append(groups[t.Date], t)
	}
	return groups
}

// FilterByDate returns the tasks whose date equals date exactly, in input order
func FilterByDate(tasks []database.Task, date string) []database.Task {
	out := []database.Task{}
	for _, t := range tasks {
		if t.Date == date {
			out = append(out, t)
		}
	}
	return out
}

// Preview returns at most n tasks for a cell and how many were left out
func Preview(tasks []database.Task, n int) ([]database.Task, int) {
	if n < 0 {
		n = 0
	}
	if len(tasks) <= n {
		return tasks, 0
	}
	return tasks[:n], len(tasks) - n
}
