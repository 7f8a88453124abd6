package model

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"
)

var ErrInvalidInput = errors.New("invalid input")

type Priority string

const (
	PriorityHigh   Priority = "High"
	PriorityMedium Priority = "Medium"
	PriorityLow    Priority = "Low"
)

// Numeric codes accepted on input, in declaration order.
var priorityCodes = []Priority{PriorityHigh, PriorityMedium, PriorityLow}

func ParsePriority(s string) (Priority, error) {
	for _, p := range priorityCodes {
		if strings.EqualFold(s, string(p)) {
			return p, nil
		}
	}
	return "", fmt.Errorf("%w: unknown priority %q", ErrInvalidInput, s)
}

func (p Priority) Valid() bool {
	switch p {
	case PriorityHigh, PriorityMedium, PriorityLow:
		return true
	}
	return false
}

func (p *Priority) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		return nil
	}

	var name string
	if err := json.Unmarshal(data, &name); err == nil {
		parsed, err := ParsePriority(name)
		if err != nil {
			return err
		}
		*p = parsed
		return nil
	}

	var code int
	if err := json.Unmarshal(data, &code); err != nil {
		return fmt.Errorf("%w: priority must be a name or a number", ErrInvalidInput)
	}
	if code < 0 || code >= len(priorityCodes) {
		return fmt.Errorf("%w: unknown priority code %d", ErrInvalidInput, code)
	}
	*p = priorityCodes[code]
	return nil
}

type TodoItem struct {
	ID       int64     `json:"id"`
	Title    string    `json:"title"`
	IsDone   bool      `json:"isDone"`
	DueAt    time.Time `json:"dueAt"`
	Priority Priority  `json:"priority"`
}

// NewTodoItem builds the stored form of an input. The id always comes from the store.
func NewTodoItem(id int64, in TodoInput) TodoItem {
	return TodoItem{
		ID:       id,
		Title:    in.Title,
		IsDone:   in.IsDone,
		DueAt:    in.DueAt.UTC(),
		Priority: in.Priority,
	}
}

// TodoInput is the body of create and update requests.
type TodoInput struct {
	Title    string    `json:"title"`
	IsDone   bool      `json:"isDone"`
	DueAt    time.Time `json:"dueAt"`
	Priority Priority  `json:"priority"`
}

var dueAtLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
}

func ParseDueAt(s string) (time.Time, error) {
	for _, layout := range dueAtLayouts {
		// Zone-less layouts parse as UTC.
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: dueAt %q is not an ISO-8601 timestamp", ErrInvalidInput, s)
}

func (in *TodoInput) UnmarshalJSON(data []byte) error {
	var raw struct {
		Title    string   `json:"title"`
		IsDone   bool     `json:"isDone"`
		DueAt    *string  `json:"dueAt"`
		Priority Priority `json:"priority"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	out := TodoInput{
		Title:    raw.Title,
		IsDone:   raw.IsDone,
		Priority: raw.Priority,
	}
	if raw.DueAt != nil {
		t, err := ParseDueAt(*raw.DueAt)
		if err != nil {
			return err
		}
		out.DueAt = t
	}
	*in = out
	return nil
}

func (in TodoInput) Validate() error {
	if strings.TrimSpace(in.Title) == "" {
		return fmt.Errorf("%w: title is required", ErrInvalidInput)
	}
	if in.DueAt.IsZero() {
		return fmt.Errorf("%w: dueAt is required", ErrInvalidInput)
	}
	if in.Priority == "" {
		return fmt.Errorf("%w: priority is required", ErrInvalidInput)
	}
	if !in.Priority.Valid() {
		return fmt.Errorf("%w: unknown priority %q", ErrInvalidInput, in.Priority)
	}
	return nil
}
