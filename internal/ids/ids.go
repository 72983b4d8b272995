package ids

import (
	"crypto/rand"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/oklog/ulid/v2"
)

const (
	SchemeUUID = "uuid"
	SchemeULID = "ulid"
)

// Generator produces collision-free task identifiers.
type Generator interface {
	NewID() string
}

type UUID struct{}

func (UUID) NewID() string { return uuid.NewString() }

// ULID yields lexically sortable ids. Entropy is monotonic within a
// millisecond so ids created in a burst still sort in creation order. When a
// millisecond's entropy runs out the timestamp moves to the next millisecond,
// and it never moves backwards.
type ULID struct {
	mu      sync.Mutex
	now     func() time.Time
	entropy io.Reader
	last    uint64
}

func NewULID(now func() time.Time) *ULID {
	if now == nil {
		now = func() time.Time { return time.Now().UTC() }
	}
	return &ULID{now: now, entropy: ulid.Monotonic(rand.Reader, 0)}
}

func (g *ULID) NewID() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	ms := max(ulid.Timestamp(g.now()), g.last)
	for {
		id, err := ulid.New(ms, g.entropy)
		if err == nil {
			g.last = ms
			return id.String()
		}
		if !errors.Is(err, ulid.ErrMonotonicOverflow) {
			return uuid.NewString()
		}
		ms++
	}
}

func New(scheme string) (Generator, error) {
	switch strings.ToLower(strings.TrimSpace(scheme)) {
	case "", SchemeUUID:
		return UUID{}, nil
	case SchemeULID:
		return NewULID(nil), nil
	default:
		return nil, fmt.Errorf("ids: unknown scheme %q", scheme)
	}
}
