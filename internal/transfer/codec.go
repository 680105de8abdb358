package transfer

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"taskManager/internal/apperr"
	"taskManager/internal/models/task"
)

// Record is the on-disk shape of one task. ID is written on export and ignored on import.
type Record struct {
	ID          *int64 `json:"id,omitempty"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Status      string `json:"status"`
	DueDate     string `json:"due_date"`
}

func FromTask(t task.Task) Record {
	r := Record{
		Title:       t.Title,
		Description: t.Description,
		Status:      string(t.Status),
		DueDate:     task.FormatDate(t.DueDate),
	}
	if t.ID != 0 {
		id := t.ID
		r.ID = &id
	}
	return r
}

// ToTask applies the full model validation, including re-parsing due_date.
func (r Record) ToTask() (task.Task, error) {
	return task.Parse(r.Title, r.Description, r.Status, r.DueDate)
}

// Encode writes tasks as a JSON array indented by four spaces.
func Encode(w io.Writer, tasks []task.Task) error {
	records := make([]Record, 0, len(tasks))
	for _, t := range tasks {
		records = append(records, FromTask(t))
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "    ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(records); err != nil {
		return fmt.Errorf("encode tasks: %w", err)
	}
	return nil
}

// Decode splits a JSON array into its raw elements so one bad element cannot spoil the rest.
// Anything other than a well-formed array is a FormatError.
func Decode(r io.Reader, source string) ([]json.RawMessage, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", source, err)
	}

	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return nil, apperr.NewFormatError(source, errors.New("document is empty"))
	}
	if trimmed[0] != '[' {
		return nil, apperr.NewFormatError(source, errors.New("top-level value must be an array"))
	}

	var elems []json.RawMessage
	if err := json.Unmarshal(trimmed, &elems); err != nil {
		return nil, apperr.NewFormatError(source, err)
	}
	return elems, nil
}

// wireRecord distinguishes a missing key from an empty one; unknown keys, id included, are ignored.
type wireRecord struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	Status      *string `json:"status"`
	DueDate     *string `json:"due_date"`
}

// DecodeRecord turns one element into a Record. Missing required keys and type mismatches
// surface as ValidationError; a missing status falls back to the default later on.
func DecodeRecord(raw json.RawMessage) (Record, error) {
	var w wireRecord
	if err := json.Unmarshal(raw, &w); err != nil {
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) && typeErr.Field != "" {
			return Record{}, apperr.NewValidationError(typeErr.Field, fmt.Sprintf("expected %s, got %s", typeErr.Type, typeErr.Value))
		}
		return Record{}, apperr.NewValidationError("record", err.Error())
	}

	var missing []string
	reasons := map[string]string{}
	for _, f := range []struct {
		name string
		val  *string
	}{
		{"title", w.Title},
		{"description", w.Description},
		{"due_date", w.DueDate},
	} {
		if f.val == nil {
			missing = append(missing, f.name)
			reasons[f.name] = "is required"
		}
	}
	if len(missing) > 0 {
		return Record{}, apperr.NewValidationErrors(missing, reasons)
	}

	rec := Record{
		Title:       *w.Title,
		Description: *w.Description,
		DueDate:     *w.DueDate,
	}
	if w.Status != nil {
		rec.Status = *w.Status
	}
	return rec, nil
}
