package task

import (
	"time"
)

// Task is a validated value; ID is zero until storage assigns it.
type Task struct {
	ID          int64     `json:"id" db:"id"`
	Title       string    `json:"title" db:"title" validate:"required"`
	Description string    `json:"description" db:"description"`
	Status      Status    `json:"status" db:"status" validate:"task_status"`
	DueDate     time.Time `json:"due_date" db:"due_date" validate:"due_date"`
}

type Status string

const StatusPending Status = "pendiente"
const StatusInProgress Status = "en progreso"
const StatusCompleted Status = "completada"

// DefaultStatus is used whenever a caller omits the status.
const DefaultStatus = StatusPending

var statuses = []Status{StatusPending, StatusInProgress, StatusCompleted}

// Statuses returns the accepted values in display order.
func Statuses() []Status {
	out := make([]Status, len(statuses))
	copy(out, statuses)
	return out
}

func (s Status) Valid() bool {
	for _, v := range statuses {
		if s == v {
			return true
		}
	}
	return false
}

// WithID returns a copy carrying the storage-assigned id.
func (t Task) WithID(id int64) Task {
	t.ID = id
	return t
}
