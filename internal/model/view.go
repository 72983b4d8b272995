package model

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrInvalidFilter   = errors.New("model: invalid filter")
	ErrInvalidSortMode = errors.New("model: invalid sort mode")
)

type Filter string

const (
	FilterAll        Filter = "all"
	FilterCompleted  Filter = "completed"
	FilterIncomplete Filter = "incomplete"
)

// Filters is the order the filter buttons are shown in.
var Filters = []Filter{FilterAll, FilterIncomplete, FilterCompleted}

func (f Filter) IsValid() bool {
	switch f {
	case FilterAll, FilterCompleted, FilterIncomplete:
		return true
	default:
		return false
	}
}

func (f Filter) Label() string { return capitalize(string(f)) }

// Next cycles through Filters.
func (f Filter) Next() Filter {
	for i, v := range Filters {
		if v == f {
			return Filters[(i+1)%len(Filters)]
		}
	}
	return FilterAll
}

func ParseFilter(raw string) (Filter, error) {
	f := Filter(strings.ToLower(strings.TrimSpace(raw)))
	if !f.IsValid() {
		return FilterAll, fmt.Errorf("%w: %q", ErrInvalidFilter, raw)
	}
	return f, nil
}

type SortMode string

const (
	SortRecent  SortMode = "recent"
	SortOldest  SortMode = "oldest"
	SortDueDate SortMode = "dueDate"
)

var SortModes = []SortMode{SortRecent, SortOldest, SortDueDate}

func (s SortMode) IsValid() bool {
	switch s {
	case SortRecent, SortOldest, SortDueDate:
		return true
	default:
		return false
	}
}

func (s SortMode) Label() string { return capitalize(string(s)) }

func (s SortMode) Next() SortMode {
	for i, v := range SortModes {
		if v == s {
			return SortModes[(i+1)%len(SortModes)]
		}
	}
	return SortRecent
}

// ParseSortMode accepts the canonical names case-insensitively, so "duedate"
// and "due-date" both resolve to SortDueDate.
func ParseSortMode(raw string) (SortMode, error) {
	key := strings.ToLower(strings.ReplaceAll(strings.TrimSpace(raw), "-", ""))
	for _, s := range SortModes {
		if strings.ToLower(string(s)) == key {
			return s, nil
		}
	}
	return SortRecent, fmt.Errorf("%w: %q", ErrInvalidSortMode, raw)
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
