package commands

import "fmt"

type Result struct {
	Message string
}

type Handlers struct {
	Add     func(AddArgs) (Result, error)
	Filter  func(FilterArgs) (Result, error)
	Sort    func(SortArgs) (Result, error)
	Search  func(SearchArgs) (Result, error)
	Trash   func(TargetArgs) (Result, error)
	Restore func(TargetArgs) (Result, error)
	Empty   func() (Result, error)
	Theme   func(ThemeArgs) (Result, error)
}

func missing(name string) error {
	return &CommandError{Code: ErrCodeHandlerMissing, Message: name + " handler not configured"}
}

func Execute(cmd Command, handlers Handlers) (Result, error) {
	switch cmd.Type {
	case TypeAdd:
		if handlers.Add == nil {
			return Result{}, missing("add")
		}
		return handlers.Add(*cmd.Add)
	case TypeFilter:
		if handlers.Filter == nil {
			return Result{}, missing("filter")
		}
		return handlers.Filter(*cmd.Filter)
	case TypeSort:
		if handlers.Sort == nil {
			return Result{}, missing("sort")
		}
		return handlers.Sort(*cmd.Sort)
	case TypeSearch:
		if handlers.Search == nil {
			return Result{}, missing("search")
		}
		return handlers.Search(*cmd.Search)
	case TypeTrash:
		if handlers.Trash == nil {
			return Result{}, missing("trash")
		}
		return handlers.Trash(*cmd.Target)
	case TypeRestore:
		if handlers.Restore == nil {
			return Result{}, missing("restore")
		}
		return handlers.Restore(*cmd.Target)
	case TypeEmpty:
		if handlers.Empty == nil {
			return Result{}, missing("empty")
		}
		return handlers.Empty()
	case TypeTheme:
		if handlers.Theme == nil {
			return Result{}, missing("theme")
		}
		return handlers.Theme(*cmd.Theme)
	default:
		return Result{}, &CommandError{Code: ErrCodeUnknownCommand, Message: fmt.Sprintf("unknown command type: %s", cmd.Type)}
	}
}
