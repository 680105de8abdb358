package task

import (
	"time"
)

type TaskOption func(*Task)

func WithDescription(description string) TaskOption {
	return func(task *Task) {
		task.Description = description
	}
}

// WithStatus leaves the default in place for an empty value.
func WithStatus(status Status) TaskOption {
	if status == "" {
		return nil
	}
	return func(task *Task) {
		task.Status = status
	}
}

// New builds and validates a task. The due date is truncated to its calendar day.
func New(title string, dueDate time.Time, opts ...TaskOption) (Task, error) {
	t := Task{
		Title:  title,
		Status: DefaultStatus,
	}
	if !dueDate.IsZero() {
		t.DueDate = DateOf(dueDate)
	}

	for _, opt := range opts {
		if opt != nil {
			opt(&t)
		}
	}

	if err := t.Validate(); err != nil {
		return Task{}, err
	}
	return t, nil
}

// Parse builds a task from raw text fields, as typed at the console or read from JSON.
func Parse(title, description, status, dueDate string) (Task, error) {
	due, err := ParseDate(dueDate)
	if err != nil {
		return Task{}, dateError(dueDate, err)
	}
	return New(title, due, WithDescription(description), WithStatus(Status(status)))
}
