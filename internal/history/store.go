package history

import (
	"context"
	"errors"
	"slices"
	"strings"
	"sync"

	"github.com/goccy/go-json"
	"github.com/qmuntal/stateless"

	"github.com/comigor/tradutor-go/internal/logger"
)

var (
	// ErrNotReady is returned by mutations issued before Load.
	ErrNotReady = errors.New("history: store not loaded")
	// ErrAlreadyLoaded is returned by a second Load.
	ErrAlreadyLoaded = errors.New("history: store already loaded")
	// ErrDuplicateID is returned when inserting an id that is already stored.
	ErrDuplicateID = errors.New("history: duplicate entry id")
)

// Lifecycle states and triggers.
const (
	StateUninitialized = "Uninitialized"
	StateReady         = "Ready"

	triggerLoad = "Load"
)

// DefaultKey is the storage key used when none is configured.
const DefaultKey = "tradutor.history.v1"

// Store is the in-memory history plus its persistence. All methods are safe
// for concurrent use. Mutations persist the full list in the background.
type Store struct {
	backend Backend
	key     string

	mu      sync.Mutex
	entries []Entry
	fsm     *stateless.StateMachine

	wmu     sync.Mutex
	next    []Entry
	queued  uint64
	saved   uint64
	waiters []flushWaiter
	closed  bool
	wake    chan struct{}
	quit    chan struct{}
	stopped chan struct{}
}

type flushWaiter struct {
	seq  uint64
	done chan struct{}
}

// NewStore creates an uninitialized store persisting under key. Call Load
// before mutating it, and Close when done.
func NewStore(backend Backend, key string) *Store {
	if key == "" {
		key = DefaultKey
	}
	fsm := stateless.NewStateMachine(StateUninitialized)
	fsm.Configure(StateUninitialized).Permit(triggerLoad, StateReady)
	fsm.Configure(StateReady)

	s := &Store{
		backend: backend,
		key:     key,
		fsm:     fsm,
		wake:    make(chan struct{}, 1),
		quit:    make(chan struct{}),
		stopped: make(chan struct{}),
	}
	go s.run()
	return s
}

// State reports the lifecycle phase.
func (s *Store) State() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.fsm.MustState().(string)
}

// Load reads the persisted history and moves the store to Ready. Missing or
// unreadable content loads as an empty history.
func (s *Store) Load(ctx context.Context) ([]Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if ready, _ := s.fsm.IsInState(StateReady); ready {
		return nil, ErrAlreadyLoaded
	}
	s.entries = s.read(ctx)
	if err := s.fsm.FireCtx(ctx, triggerLoad); err != nil {
		return nil, err
	}
	logger.L.Debug("history loaded", "key", s.key, "entries", len(s.entries))
	return slices.Clone(s.entries), nil
}

func (s *Store) read(ctx context.Context) []Entry {
	data, err := s.backend.Get(ctx, s.key)
	if errors.Is(err, ErrNotFound) {
		return []Entry{}
	}
	if err != nil {
		logger.L.Warn("history read failed; starting empty", "key", s.key, "error", err)
		return []Entry{}
	}
	entries, err := Decode(data)
	if err != nil {
		logger.L.Warn("history content unreadable; starting empty", "key", s.key, "error", err)
		return []Entry{}
	}
	return entries
}

// Decode parses persisted content, truncating to MaxEntries and dropping
// repeated ids (the newest occurrence wins).
func Decode(data []byte) ([]Entry, error) {
	var raw []Entry
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, err
	}
	entries := make([]Entry, 0, min(len(raw), MaxEntries))
	seen := make(map[string]struct{}, len(raw))
	for _, e := range raw {
		if _, dup := seen[e.ID]; dup {
			continue
		}
		seen[e.ID] = struct{}{}
		entries = append(entries, e)
		if len(entries) == MaxEntries {
			break
		}
	}
	return entries, nil
}

// Encode serializes entries in persisted form.
func Encode(entries []Entry) ([]byte, error) {
	if entries == nil {
		entries = []Entry{}
	}
	return json.Marshal(entries)
}

// Save writes entries synchronously, replacing prior content. Failures are
// logged and swallowed.
func (s *Store) Save(ctx context.Context, entries []Entry) {
	data, err := Encode(entries)
	if err != nil {
		logger.L.Error("history encode failed", "error", err)
		return
	}
	if err := s.backend.Set(ctx, s.key, data); err != nil {
		logger.L.Warn("history save failed", "key", s.key, "error", err)
		return
	}
	logger.L.Debug("history saved", "key", s.key, "entries", len(entries))
}

// Insert prepends e, keeps the newest MaxEntries and schedules a save.
func (s *Store) Insert(e Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.ensureReady(); err != nil {
		return err
	}
	if slices.ContainsFunc(s.entries, func(x Entry) bool { return x.ID == e.ID }) {
		return ErrDuplicateID
	}

	next := make([]Entry, 0, min(len(s.entries)+1, MaxEntries))
	next = append(next, e)
	next = append(next, s.entries[:min(len(s.entries), MaxEntries-1)]...)
	s.entries = next
	s.schedule(next)
	return nil
}

// Clear drops every entry and schedules a save of the empty list. Callers
// are responsible for confirming with the user first.
func (s *Store) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.ensureReady(); err != nil {
		return err
	}
	s.entries = []Entry{}
	s.schedule(s.entries)
	return nil
}

// Entries returns a copy of the current history, newest first.
func (s *Store) Entries() []Entry {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.entries)
}

// Len returns the number of entries.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

// Get looks an entry up by id.
func (s *Store) Get(id string) (Entry, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := slices.IndexFunc(s.entries, func(e Entry) bool { return e.ID == id })
	if i < 0 {
		return Entry{}, false
	}
	return s.entries[i], true
}

// Search returns entries whose src or dst contains query, ignoring case and
// surrounding whitespace. A blank query matches everything.
func (s *Store) Search(query string) []Entry {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Filter(s.entries, query)
}

// Filter is the matching rule behind Search.
func Filter(entries []Entry, query string) []Entry {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return slices.Clone(entries)
	}
	out := make([]Entry, 0)
	for _, e := range entries {
		if strings.Contains(strings.ToLower(e.Src), q) || strings.Contains(strings.ToLower(e.Dst), q) {
			out = append(out, e)
		}
	}
	return out
}

func (s *Store) ensureReady() error {
	if ready, _ := s.fsm.IsInState(StateReady); !ready {
		return ErrNotReady
	}
	return nil
}

// schedule hands a snapshot to the writer goroutine. Only the latest
// snapshot is kept; the caller never waits for the write.
func (s *Store) schedule(snapshot []Entry) {
	s.wmu.Lock()
	if s.closed {
		s.wmu.Unlock()
		s.Save(context.Background(), snapshot)
		return
	}
	s.next = slices.Clone(snapshot)
	s.queued++
	s.wmu.Unlock()

	select {
	case s.wake <- struct{}{}:
	default:
	}
}

func (s *Store) run() {
	defer close(s.stopped)
	for {
		select {
		case <-s.wake:
			s.persistPending()
		case <-s.quit:
			s.persistPending()
			return
		}
	}
}

func (s *Store) persistPending() {
	s.wmu.Lock()
	if s.saved == s.queued {
		s.wmu.Unlock()
		return
	}
	snapshot, seq := s.next, s.queued
	s.wmu.Unlock()

	s.Save(context.Background(), snapshot)

	s.wmu.Lock()
	s.saved = seq
	waiters := s.waiters[:0]
	for _, w := range s.waiters {
		if w.seq <= seq {
			close(w.done)
			continue
		}
		waiters = append(waiters, w)
	}
	s.waiters = waiters
	s.wmu.Unlock()
}

// Flush blocks until every snapshot scheduled so far has been written (or
// its write has failed).
func (s *Store) Flush(ctx context.Context) error {
	s.wmu.Lock()
	if s.saved == s.queued {
		s.wmu.Unlock()
		return nil
	}
	w := flushWaiter{seq: s.queued, done: make(chan struct{})}
	s.waiters = append(s.waiters, w)
	s.wmu.Unlock()

	select {
	case s.wake <- struct{}{}:
	default:
	}

	select {
	case <-w.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Close writes any pending snapshot and stops the writer. Later mutations
// are saved synchronously.
func (s *Store) Close() error {
	s.wmu.Lock()
	if s.closed {
		s.wmu.Unlock()
		return nil
	}
	s.closed = true
	s.wmu.Unlock()

	close(s.quit)
	<-s.stopped
	return nil
}
