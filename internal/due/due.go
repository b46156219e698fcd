// Package due scans todos for upcoming or missed due dates.
package due

import (
	"fmt"
	"math"
	"time"

	"github.com/charmbracelet/log"

	"github.com/Makepad-fr/tadalists/internal/model"
)

// Threshold is how many (rounded-up) days ahead a due date triggers a warning.
const Threshold = 1

type Warning struct {
	Todo    model.Todo
	DueDate model.Date
	// Days until the due date, rounded up. Zero or negative means due today or overdue.
	Days int
}

func (w Warning) String() string {
	return fmt.Sprintf("%q is due %s", w.Todo.Text, w.DueDate)
}

// Notifier receives due-date warnings.
type Notifier interface {
	Notify(Warning)
}

// NotifierFunc adapts a function to Notifier.
type NotifierFunc func(Warning)

func (f NotifierFunc) Notify(w Warning) { f(w) }

// LogNotifier logs warnings at warn level.
type LogNotifier struct {
	Logger *log.Logger
}

func (n LogNotifier) Notify(w Warning) {
	if n.Logger == nil {
		return
	}
	n.Logger.Warn("todo due soon", "todo", w.Todo.Text, "due", w.DueDate.String(), "days", w.Days)
}

// DaysUntil returns ceil((due - now) / 24h).
func DaysUntil(due, now time.Time) int {
	return int(math.Ceil(due.Sub(now).Hours() / 24))
}

// Scan returns one warning for every incomplete todo with a due date at most
// Threshold days away, overdue ones included, in input order.
func Scan(todos []model.Todo, now time.Time) []Warning {
	var out []Warning
	for _, td := range todos {
		if td.Completed || td.DueDate.IsZero() {
			continue
		}
		days := DaysUntil(td.DueDate.Time, now)
		if days <= Threshold {
			out = append(out, Warning{Todo: td, DueDate: td.DueDate, Days: days})
		}
	}
	return out
}

// Notify scans todos and hands each warning to n. It returns the warnings.
func Notify(n Notifier, todos []model.Todo, now time.Time) []Warning {
	ws := Scan(todos, now)
	if n != nil {
		for _, w := range ws {
			n.Notify(w)
		}
	}
	return ws
}
