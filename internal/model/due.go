package model

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

var ErrInvalidDueDate = errors.New("model: invalid due date")

// DueDateLayout is the date-only form accepted for due dates.
const DueDateLayout = "2006-01-02"

// ParseDueDate accepts an RFC 3339 timestamp or a bare YYYY-MM-DD date. Bare
// dates are midnight UTC.
func ParseDueDate(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if t, err := time.Parse(time.RFC3339Nano, raw); err == nil {
		return t, nil
	}
	if t, err := time.ParseInLocation(DueDateLayout, raw, time.UTC); err == nil {
		return t, nil
	}
	return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDueDate, raw)
}

// DecodeDueDateJSON reads a JSON dueDate value. null, an empty string and an
// absent value give no due date. Anything that is not a parseable date string
// also gives no due date, and ok reports false so callers can log it.
func DecodeDueDateJSON(raw []byte) (due *time.Time, ok bool) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return nil, true
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return nil, false
	}
	if strings.TrimSpace(s) == "" {
		return nil, true
	}
	t, err := ParseDueDate(s)
	if err != nil {
		return nil, false
	}
	return &t, true
}

type lenientDue struct {
	at *time.Time
}

func (d *lenientDue) UnmarshalJSON(raw []byte) error {
	d.at, _ = DecodeDueDateJSON(raw)
	return nil
}

func (d *lenientDue) UnmarshalYAML(node *yaml.Node) error {
	d.at = nil
	if node.Kind != yaml.ScalarNode || node.Tag == "!!null" || strings.TrimSpace(node.Value) == "" {
		return nil
	}
	if t, err := ParseDueDate(node.Value); err == nil {
		d.at = &t
	}
	return nil
}

// taskWire mirrors Task for decoding with a forgiving dueDate.
type taskWire struct {
	ID          string     `json:"id" yaml:"id"`
	Title       string     `json:"title" yaml:"title"`
	Description string     `json:"description" yaml:"description"`
	Completed   bool       `json:"completed" yaml:"completed"`
	CreatedAt   time.Time  `json:"createdAt" yaml:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt" yaml:"updatedAt"`
	Priority    Priority   `json:"priority" yaml:"priority"`
	DueDate     lenientDue `json:"dueDate" yaml:"dueDate"`
	Location    Location   `json:"location" yaml:"location"`
}

func (w taskWire) task() Task {
	return Task{
		ID:          w.ID,
		Title:       w.Title,
		Description: w.Description,
		Completed:   w.Completed,
		CreatedAt:   w.CreatedAt,
		UpdatedAt:   w.UpdatedAt,
		Priority:    w.Priority,
		DueDate:     w.DueDate.at,
		Location:    w.Location,
	}
}

// UnmarshalJSON drops a dueDate that is not a date instead of failing, so one
// bad value cannot make a whole saved state unreadable.
func (t *Task) UnmarshalJSON(raw []byte) error {
	var w taskWire
	if err := json.Unmarshal(raw, &w); err != nil {
		return err
	}
	*t = w.task()
	return nil
}

func (t *Task) UnmarshalYAML(node *yaml.Node) error {
	var w taskWire
	if err := node.Decode(&w); err != nil {
		return err
	}
	*t = w.task()
	return nil
}
