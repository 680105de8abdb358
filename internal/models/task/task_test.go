package task_test

import (
	"testing"
	"time"

	"taskManager/internal/apperr"
	"taskManager/internal/models/task"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// TestNew_ValidInputs checks that fields come back exactly as given
func TestNew_ValidInputs(t *testing.T) {
	for _, status := range task.Statuses() {
		t.Run(string(status), func(t *testing.T) {
			got, err := task.New("Pay rent", date(2025, 1, 10),
				task.WithDescription("  monthly  "),
				task.WithStatus(status),
			)
			require.NoError(t, err)

			assert.Zero(t, got.ID)
			assert.Equal(t, "Pay rent", got.Title)
			assert.Equal(t, "  monthly  ", got.Description)
			assert.Equal(t, status, got.Status)
			assert.Equal(t, date(2025, 1, 10), got.DueDate)
		})
	}
}

func TestNew_DefaultStatus(t *testing.T) {
	got, err := task.New("Pay rent", date(2025, 1, 10))
	require.NoError(t, err)
	assert.Equal(t, task.StatusPending, got.Status)
	assert.Empty(t, got.Description)

	got, err = task.New("Pay rent", date(2025, 1, 10), task.WithStatus(""))
	require.NoError(t, err)
	assert.Equal(t, task.DefaultStatus, got.Status)
}

func TestNew_TruncatesClock(t *testing.T) {
	loc := time.FixedZone("UTC-5", -5*3600)
	got, err := task.New("Call bank", time.Date(2025, 3, 9, 23, 30, 0, 0, loc))
	require.NoError(t, err)
	assert.Equal(t, date(2025, 3, 9), got.DueDate)
}

func TestNew_Invalid(t *testing.T) {
	tests := []struct {
		name  string
		title string
		due   time.Time
		opts  []task.TaskOption
		field string
	}{
		{"empty title", "", date(2025, 1, 10), nil, "title"},
		{"unknown status", "Pay rent", date(2025, 1, 10), []task.TaskOption{task.WithStatus("done")}, "status"},
		{"english pending", "Pay rent", date(2025, 1, 10), []task.TaskOption{task.WithStatus("pending")}, "status"},
		{"case mismatch", "Pay rent", date(2025, 1, 10), []task.TaskOption{task.WithStatus("Pendiente")}, "status"},
		{"zero due date", "Pay rent", time.Time{}, nil, "due_date"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := task.New(tt.title, tt.due, tt.opts...)
			require.Error(t, err)
			assert.ErrorIs(t, err, apperr.ErrValidation)
			assert.Equal(t, tt.field, apperr.Field(err))
		})
	}
}

func TestNew_SeveralInvalidFields(t *testing.T) {
	_, err := task.New("", date(2025, 1, 10), task.WithStatus("done"))
	require.Error(t, err)
	assert.ErrorIs(t, err, apperr.ErrValidation)
	assert.Contains(t, err.Error(), "'title'")
	assert.Contains(t, err.Error(), "'status'")
}

func TestParse(t *testing.T) {
	tests := []struct {
		name    string
		status  string
		due     string
		wantErr string
		want    task.Status
	}{
		{name: "valid", status: "en progreso", due: "2025-01-10", want: task.StatusInProgress},
		{name: "omitted status", status: "", due: "2025-01-10", want: task.StatusPending},
		{name: "leap day", status: "completada", due: "2024-02-29", want: task.StatusCompleted},
		{name: "impossible day", status: "pendiente", due: "2024-02-30", wantErr: "due_date"},
		{name: "month out of range", status: "pendiente", due: "2024-13-01", wantErr: "due_date"},
		{name: "wrong layout", status: "pendiente", due: "10/01/2025", wantErr: "due_date"},
		{name: "empty date", status: "pendiente", due: "", wantErr: "due_date"},
		{name: "bad status", status: "done", due: "2025-01-10", wantErr: "status"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := task.Parse("Pay rent", "", tt.status, tt.due)
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.ErrorIs(t, err, apperr.ErrValidation)
				assert.Equal(t, tt.wantErr, apperr.Field(err))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got.Status)
			assert.Equal(t, tt.due, task.FormatDate(got.DueDate))
		})
	}
}

func TestTask_ValidateLiteral(t *testing.T) {
	err := task.Task{Status: task.StatusPending, DueDate: date(2025, 1, 10)}.Validate()
	assert.ErrorIs(t, err, apperr.ErrValidation)

	ok := task.Task{Title: "x", Status: task.StatusPending, DueDate: date(2025, 1, 10)}
	assert.NoError(t, ok.Validate())
	assert.Equal(t, int64(7), ok.WithID(7).ID)
	assert.Zero(t, ok.ID)
}

func TestStatus_Valid(t *testing.T) {
	assert.True(t, task.StatusPending.Valid())
	assert.True(t, task.StatusInProgress.Valid())
	assert.True(t, task.StatusCompleted.Valid())
	assert.False(t, task.Status("").Valid())
	assert.False(t, task.Status("en  progreso").Valid())

	list := task.Statuses()
	list[0] = "mutated"
	assert.Equal(t, task.StatusPending, task.Statuses()[0])
}

func TestAddDays(t *testing.T) {
	assert.Equal(t, date(2025, 1, 11), task.AddDays(date(2025, 1, 8), 3))
	assert.Equal(t, date(2024, 3, 1), task.AddDays(date(2024, 2, 28), 2))
	assert.Equal(t, date(2025, 1, 8), task.AddDays(time.Date(2025, 1, 8, 18, 0, 0, 0, time.UTC), 0))
}
