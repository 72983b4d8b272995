package commands

import (
	"fmt"
	"strings"

	"github.com/sandeepkv93/todo/internal/model"
)

type Type string

const (
	TypeAdd     Type = "add"
	TypeFilter  Type = "filter"
	TypeSort    Type = "sort"
	TypeSearch  Type = "search"
	TypeTrash   Type = "trash"
	TypeRestore Type = "restore"
	TypeEmpty   Type = "empty"
	TypeTheme   Type = "theme"
)

type ErrorCode string

const (
	ErrCodeEmptyInput      ErrorCode = "empty_input"
	ErrCodeUnknownCommand  ErrorCode = "unknown_command"
	ErrCodeInvalidArgument ErrorCode = "invalid_argument"
	ErrCodeHandlerMissing  ErrorCode = "handler_missing"
)

type CommandError struct {
	Code    ErrorCode
	Message string
}

func (e *CommandError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func invalid(format string, args ...any) error {
	return &CommandError{Code: ErrCodeInvalidArgument, Message: fmt.Sprintf(format, args...)}
}

type AddArgs struct {
	Title    string
	Priority model.Priority
}

type FilterArgs struct {
	Filter model.Filter
}

type SortArgs struct {
	Sort model.SortMode
}

// SearchArgs with an empty Query clears the search.
type SearchArgs struct {
	Query string
}

// TargetArgs addresses a task by id, or the selected task when ID is empty.
type TargetArgs struct {
	ID string
}

// ThemeArgs with an empty Scheme toggles.
type ThemeArgs struct {
	Scheme string
}

type Command struct {
	Type   Type
	Raw    string
	Add    *AddArgs
	Filter *FilterArgs
	Sort   *SortArgs
	Search *SearchArgs
	Target *TargetArgs
	Theme  *ThemeArgs
}

func Parse(input string) (Command, error) {
	raw := strings.TrimSpace(input)
	raw = strings.TrimSpace(strings.TrimLeft(raw, ":/"))
	if raw == "" {
		return Command{}, &CommandError{Code: ErrCodeEmptyInput, Message: "command is empty"}
	}

	parts := strings.Fields(raw)
	head := strings.ToLower(parts[0])
	args := parts[1:]

	switch Type(head) {
	case TypeAdd:
		return parseAdd(input, args)
	case TypeFilter:
		return parseFilter(input, args)
	case TypeSort:
		return parseSort(input, args)
	case TypeSearch:
		return Command{Type: TypeSearch, Raw: input, Search: &SearchArgs{Query: strings.Join(args, " ")}}, nil
	case TypeTrash, TypeRestore:
		return parseTarget(input, Type(head), args)
	case TypeEmpty:
		if len(args) > 0 && strings.ToLower(args[0]) != "trash" {
			return Command{}, invalid("empty takes no arguments besides 'trash'")
		}
		return Command{Type: TypeEmpty, Raw: input}, nil
	case TypeTheme:
		return parseTheme(input, args)
	default:
		return Command{}, &CommandError{Code: ErrCodeUnknownCommand, Message: fmt.Sprintf("unsupported command: %s", head)}
	}
}

// parseAdd accepts an optional trailing "!low", "!medium" or "!high".
func parseAdd(raw string, args []string) (Command, error) {
	priority := model.PriorityNone
	if n := len(args); n > 0 && strings.HasPrefix(args[n-1], "!") {
		p, err := model.ParsePriority(strings.TrimPrefix(args[n-1], "!"))
		if err != nil {
			return Command{}, invalid("unknown priority %q", args[n-1])
		}
		priority = p
		args = args[:n-1]
	}
	title := strings.TrimSpace(strings.Join(args, " "))
	if title == "" {
		return Command{}, invalid("add requires a title")
	}
	return Command{Type: TypeAdd, Raw: raw, Add: &AddArgs{Title: title, Priority: priority}}, nil
}

func parseFilter(raw string, args []string) (Command, error) {
	if len(args) != 1 {
		return Command{}, invalid("filter requires one of all, incomplete, completed")
	}
	f, err := model.ParseFilter(args[0])
	if err != nil {
		return Command{}, invalid("unknown filter %q", args[0])
	}
	return Command{Type: TypeFilter, Raw: raw, Filter: &FilterArgs{Filter: f}}, nil
}

func parseSort(raw string, args []string) (Command, error) {
	if len(args) != 1 {
		return Command{}, invalid("sort requires one of recent, oldest, dueDate")
	}
	s, err := model.ParseSortMode(args[0])
	if err != nil {
		return Command{}, invalid("unknown sort %q", args[0])
	}
	return Command{Type: TypeSort, Raw: raw, Sort: &SortArgs{Sort: s}}, nil
}

func parseTarget(raw string, t Type, args []string) (Command, error) {
	if len(args) > 1 {
		return Command{}, invalid("%s takes at most one task id", t)
	}
	id := ""
	if len(args) == 1 {
		id = args[0]
	}
	return Command{Type: t, Raw: raw, Target: &TargetArgs{ID: id}}, nil
}

func parseTheme(raw string, args []string) (Command, error) {
	if len(args) > 1 {
		return Command{}, invalid("theme takes light, dark or toggle")
	}
	scheme := ""
	if len(args) == 1 {
		scheme = strings.ToLower(args[0])
		switch scheme {
		case "toggle":
			scheme = ""
		case "light", "dark":
		default:
			return Command{}, invalid("unknown theme %q", args[0])
		}
	}
	return Command{Type: TypeTheme, Raw: raw, Theme: &ThemeArgs{Scheme: scheme}}, nil
}
