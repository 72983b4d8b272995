package update

import (
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/sandeepkv93/todo/internal/model"
	"github.com/sandeepkv93/todo/internal/storage"
	"github.com/sandeepkv93/todo/internal/store"
	"github.com/sandeepkv93/todo/internal/theme"
)

type Screen string

const (
	ScreenList   Screen = "List"
	ScreenCreate Screen = "Create"
	ScreenTrash  Screen = "Trash"
)

type CreateField int

const (
	FieldTitle CreateField = iota
	FieldDescription
	FieldDueDate
	FieldPriority
	numCreateFields
)

const (
	minTitleLen   = 3
	dueDateLayout = "2006-01-02"
)

type StatusBar struct {
	Text    string
	IsError bool
}

type GlobalKeyMap struct {
	Palette string
	Theme   string
	Help    string
	Quit    string
}

type CommandPaletteState struct {
	Active bool
	Input  string
}

type CreateForm struct {
	Focus    CreateField
	Priority model.Priority
	Err      string
}

// SaveStatus reports the outcome of background saves.
type SaveStatus interface {
	LastError() error
}

type Options struct {
	Store *store.Store
	Theme *theme.Store
	Saves SaveStatus
	// Keys overrides the global bindings field by field.
	Keys GlobalKeyMap
}

type Model struct {
	Screen       Screen
	Store        *store.Store
	Theme        *theme.Store
	Scheme       theme.Scheme
	Cursor       int
	TrashCursor  int
	Searching    bool
	ConfirmEmpty bool
	Create       CreateForm
	Palette      CommandPaletteState
	HelpVisible  bool
	Status       StatusBar
	Keys         GlobalKeyMap
	Quitting     bool
	LastError    error

	saves            SaveStatus
	themeEvents      chan theme.Scheme
	unsubscribeTheme func()

	searchInput  textinput.Model
	commandInput textinput.Model
	titleInput   textinput.Model
	descInput    textinput.Model
	dueInput     textinput.Model
	helpModel    help.Model
}

type SetStatusMsg struct {
	Text    string
	IsError bool
}

type ClearStatusMsg struct{}

type AppErrorMsg struct {
	Err error
}

type ThemeChangedMsg struct {
	Scheme theme.Scheme
}

func NewModel(opts Options) Model {
	st := opts.Store
	if st == nil {
		st = store.New(storage.DefaultSnapshot(), store.Options{})
	}
	th := opts.Theme
	if th == nil {
		th = theme.NewStore(theme.Light)
	}
	m := Model{
		Screen: ScreenList,
		Store:  st,
		Theme:  th,
		Scheme: th.Theme(),
		Create: CreateForm{Priority: model.PriorityMedium},
		Keys: GlobalKeyMap{
			Palette: ":",
			Theme:   "T",
			Help:    "?",
			Quit:    "q",
		},
		saves:       opts.Saves,
		themeEvents: make(chan theme.Scheme, 1),
	}
	m.Keys = mergeKeys(m.Keys, opts.Keys)
	m.unsubscribeTheme = th.Subscribe(latestScheme(m.themeEvents))
	m.initBubbleComponents()
	setInput(&m.searchInput, st.Search())
	return m
}

func (m *Model) initBubbleComponents() {
	m.searchInput = textinput.New()
	m.searchInput.Prompt = ""
	m.searchInput.Placeholder = "Search tasks"
	m.searchInput.CharLimit = 256
	m.searchInput.Width = 40

	m.commandInput = textinput.New()
	m.commandInput.Prompt = ":"
	m.commandInput.CharLimit = 256
	m.commandInput.Width = 40

	m.titleInput = textinput.New()
	m.titleInput.Placeholder = "What needs doing?"
	m.titleInput.CharLimit = 200
	m.titleInput.Width = 40

	m.descInput = textinput.New()
	m.descInput.Placeholder = "Optional, markdown allowed"
	m.descInput.CharLimit = 1000
	m.descInput.Width = 40

	m.dueInput = textinput.New()
	m.dueInput.Placeholder = dueDateLayout
	m.dueInput.CharLimit = len(dueDateLayout)
	m.dueInput.Width = 12

	m.helpModel = help.New()
	m.helpModel.ShowAll = true
}

// latestScheme forwards theme changes into ch, keeping only the newest one
// when the UI has not caught up.
func latestScheme(ch chan theme.Scheme) func(theme.Scheme) {
	return func(s theme.Scheme) {
		for {
			select {
			case ch <- s:
				return
			default:
			}
			select {
			case <-ch:
			default:
			}
		}
	}
}

func mergeKeys(base, override GlobalKeyMap) GlobalKeyMap {
	if override.Palette != "" {
		base.Palette = override.Palette
	}
	if override.Theme != "" {
		base.Theme = override.Theme
	}
	if override.Help != "" {
		base.Help = override.Help
	}
	if override.Quit != "" {
		base.Quit = override.Quit
	}
	return base
}
