// Package store holds the in-memory task list and the transient filter,
// search and add-mode state. A Store has a single owner and no locking: every
// method must be called from the goroutine that owns it. Only Fetch is safe to
// run elsewhere.
package store

import (
	"context"
	"io"
	"slices"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"sakura/internal/task"
)

// Source supplies the initial task list.
type Source interface {
	Load(ctx context.Context) ([]task.Task, error)
}

// Result is what a fetch produced; Finish applies it.
type Result struct {
	Tasks []task.Task
	Err   error
}

type Option func(*Store)

func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		if now != nil {
			s.now = now
		}
	}
}

func WithLogger(logger *log.Logger) Option {
	return func(s *Store) {
		if logger != nil {
			s.logger = logger
		}
	}
}

type Store struct {
	source Source
	now    func() time.Time
	logger *log.Logger

	tasks    []task.Task
	revision uint64
	filter   task.Filter
	query    string
	adding   bool
	draft    string
	status   task.Status
	message  string
	lastID   int64

	view      viewCache
	progress  progressCache
	observers map[int]func(Event)
	nextObs   int
}

type viewCache struct {
	valid    bool
	revision uint64
	filter   task.Filter
	query    string
	tasks    []task.Task
}

type progressCache struct {
	valid    bool
	revision uint64
	value    int
}

func New(src Source, opts ...Option) *Store {
	s := &Store{
		source:    src,
		now:       time.Now,
		logger:    log.New(io.Discard),
		filter:    task.FilterAll,
		status:    task.StatusUninitialized,
		observers: map[int]func(Event){},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Initialize loads the collection. It runs from the uninitialized and errored
// states only and returns the load error, which is also reflected in Status
// and Message.
func (s *Store) Initialize(ctx context.Context) error {
	if !s.Begin() {
		return nil
	}
	res := s.Fetch(ctx)
	s.Finish(res)
	return res.Err
}

// Retry re-runs Initialize from the errored state. Other states are a no-op.
func (s *Store) Retry(ctx context.Context) error {
	if s.status != task.StatusErrored {
		return nil
	}
	return s.Initialize(ctx)
}

// Begin moves the store into loading. It reports false when a load is not
// allowed from the current status.
func (s *Store) Begin() bool {
	switch s.status {
	case task.StatusUninitialized:
	case task.StatusErrored:
		// retry path
	default:
		return false
	}
	s.status = task.StatusLoading
	s.message = ""
	s.logger.Debug("task source loading")
	s.notify(Event{Kind: EventLoading})
	return true
}

// Fetch calls the source without touching store state.
func (s *Store) Fetch(ctx context.Context) Result {
	if s.source == nil {
		return Result{Err: task.Unavailable(nil)}
	}
	tasks, err := s.source.Load(ctx)
	if err != nil {
		return Result{Err: err}
	}
	return Result{Tasks: tasks}
}

// Finish applies a fetch result. It is ignored unless the store is loading.
func (s *Store) Finish(res Result) {
	if s.status != task.StatusLoading {
		return
	}
	if res.Err != nil {
		s.status = task.StatusErrored
		s.message = task.DisplayMessage(res.Err)
		s.logger.Warn("task source failed", "err", res.Err)
		s.notify(Event{Kind: EventErrored})
		return
	}
	loaded := task.Normalize(res.Tasks)
	s.replace(loaded)
	for _, t := range loaded {
		if t.ID > s.lastID {
			s.lastID = t.ID
		}
	}
	s.status = task.StatusReady
	s.logger.Debug("task source ready", "count", len(loaded))
	s.notify(Event{Kind: EventReady})
}

func (s *Store) Add(title string) {
	if strings.TrimSpace(title) == "" {
		return
	}
	t := task.Task{ID: s.nextID(), Title: title}
	next := make([]task.Task, 0, len(s.tasks)+1)
	next = append(next, t)
	next = append(next, s.tasks...)
	s.replace(next)
	s.draft = ""
	s.adding = false
	s.notify(Event{Kind: EventAdded, ID: t.ID})
}

func (s *Store) Toggle(id int64) {
	idx := s.indexOf(id)
	if idx < 0 {
		return
	}
	next := slices.Clone(s.tasks)
	next[idx].Completed = !next[idx].Completed
	s.replace(next)
	s.notify(Event{Kind: EventToggled, ID: id})
}

func (s *Store) Delete(id int64) {
	idx := s.indexOf(id)
	if idx < 0 {
		return
	}
	next := make([]task.Task, 0, len(s.tasks)-1)
	next = append(next, s.tasks[:idx]...)
	next = append(next, s.tasks[idx+1:]...)
	s.replace(next)
	s.notify(Event{Kind: EventDeleted, ID: id})
}

func (s *Store) SetFilter(f task.Filter) {
	if f == s.filter {
		return
	}
	s.filter = f
	s.notify(Event{Kind: EventFilter})
}

func (s *Store) SetSearchQuery(q string) {
	if q == s.query {
		return
	}
	s.query = q
	s.notify(Event{Kind: EventQuery})
}

func (s *Store) BeginAdd() {
	if s.adding {
		return
	}
	s.adding = true
	s.notify(Event{Kind: EventAddMode})
}

func (s *Store) SetDraft(text string) {
	s.draft = text
}

func (s *Store) CancelAdd() {
	if !s.adding && s.draft == "" {
		return
	}
	s.adding = false
	s.draft = ""
	s.notify(Event{Kind: EventAddMode})
}

// SubmitDraft adds the pending draft as a task.
func (s *Store) SubmitDraft() {
	s.Add(s.draft)
}

// DerivedView returns the filtered tasks and the completion percentage. The
// result is cached until the collection, filter or query changes.
func (s *Store) DerivedView() task.View {
	c := &s.view
	if !c.valid || c.revision != s.revision || c.filter != s.filter || c.query != s.query {
		c.tasks = task.Select(s.tasks, s.filter, s.query)
		c.revision = s.revision
		c.filter = s.filter
		c.query = s.query
		c.valid = true
	}
	return task.View{
		Tasks:    slices.Clone(c.tasks),
		Progress: s.Progress(),
	}
}

func (s *Store) Progress() int {
	p := &s.progress
	if !p.valid || p.revision != s.revision {
		p.value = task.Progress(s.tasks)
		p.revision = s.revision
		p.valid = true
	}
	return p.value
}

func (s *Store) Status() task.Status { return s.status }

// Message is the user-facing error text while errored.
func (s *Store) Message() string { return s.message }

func (s *Store) Filter() task.Filter { return s.filter }
func (s *Store) Query() string       { return s.query }
func (s *Store) Adding() bool        { return s.adding }
func (s *Store) Draft() string       { return s.draft }
func (s *Store) Len() int            { return len(s.tasks) }

func (s *Store) Tasks() []task.Task {
	return slices.Clone(s.tasks)
}

func (s *Store) replace(next []task.Task) {
	s.tasks = next
	s.revision++
}

func (s *Store) indexOf(id int64) int {
	return slices.IndexFunc(s.tasks, func(t task.Task) bool { return t.ID == id })
}

// nextID returns a millisecond timestamp, moved forward past every id issued
// or held so far.
func (s *Store) nextID() int64 {
	id := s.now().UnixMilli()
	if id <= s.lastID {
		id = s.lastID + 1
	}
	for s.indexOf(id) >= 0 {
		id++
	}
	s.lastID = id
	return id
}
