package theme

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/charmbracelet/lipgloss"
)

var ErrInvalidScheme = errors.New("theme: invalid scheme")

type Scheme string

const (
	Light Scheme = "light"
	Dark  Scheme = "dark"
)

func (s Scheme) IsValid() bool { return s == Light || s == Dark }

func (s Scheme) Toggle() Scheme {
	if s == Dark {
		return Light
	}
	return Dark
}

func ParseScheme(raw string) (Scheme, error) {
	s := Scheme(strings.ToLower(strings.TrimSpace(raw)))
	if !s.IsValid() {
		return Light, fmt.Errorf("%w: %q", ErrInvalidScheme, raw)
	}
	return s, nil
}

// DetectSystem asks the terminal for its background colour.
func DetectSystem() Scheme {
	if lipgloss.HasDarkBackground() {
		return Dark
	}
	return Light
}

// Store holds the active scheme and fans changes out to subscribers.
type Store struct {
	mu     sync.Mutex
	scheme Scheme
	subs   map[int]func(Scheme)
	nextID int
}

func NewStore(initial Scheme) *Store {
	if !initial.IsValid() {
		initial = Light
	}
	return &Store{scheme: initial, subs: make(map[int]func(Scheme))}
}

func (s *Store) Theme() Scheme {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.scheme
}

// SetTheme ignores invalid schemes and does not notify when nothing changed.
func (s *Store) SetTheme(next Scheme) {
	if !next.IsValid() {
		return
	}
	s.mu.Lock()
	if s.scheme == next {
		s.mu.Unlock()
		return
	}
	s.scheme = next
	subs := make([]func(Scheme), 0, len(s.subs))
	for _, fn := range s.subs {
		subs = append(subs, fn)
	}
	s.mu.Unlock()
	for _, fn := range subs {
		fn(next)
	}
}

func (s *Store) Toggle() Scheme {
	next := s.Theme().Toggle()
	s.SetTheme(next)
	return next
}

func (s *Store) Subscribe(fn func(Scheme)) (unsubscribe func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.nextID
	s.nextID++
	s.subs[id] = fn
	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.subs, id)
	}
}

// Source is the system appearance signal.
type Source interface {
	Current() Scheme
	Subscribe(fn func(Scheme)) (unsubscribe func())
}

type StaticSource struct {
	Scheme Scheme
}

func (s StaticSource) Current() Scheme {
	if !s.Scheme.IsValid() {
		return Light
	}
	return s.Scheme
}

func (StaticSource) Subscribe(func(Scheme)) func() { return func() {} }

// SyncWithSystem makes store follow src until the returned stop is called.
func SyncWithSystem(store *Store, src Source) (stop func()) {
	store.SetTheme(src.Current())
	return src.Subscribe(func(s Scheme) {
		if !s.IsValid() {
			s = Light
		}
		store.SetTheme(s)
	})
}
