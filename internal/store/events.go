package store

type EventKind string

const (
	EventLoading EventKind = "loading"
	EventReady   EventKind = "ready"
	EventErrored EventKind = "errored"
	EventAdded   EventKind = "added"
	EventToggled EventKind = "toggled"
	EventDeleted EventKind = "deleted"
	EventFilter  EventKind = "filter"
	EventQuery   EventKind = "query"
	EventAddMode EventKind = "add_mode"
)

// Event describes one effective state change. ID is set for task mutations.
type Event struct {
	Kind EventKind
	ID   int64
}

// Subscribe registers fn to run after every state change and returns a func
// that removes it.
func (s *Store) Subscribe(fn func(Event)) func() {
	if fn == nil {
		return func() {}
	}
	key := s.nextObs
	s.nextObs++
	s.observers[key] = fn
	return func() {
		delete(s.observers, key)
	}
}

func (s *Store) notify(ev Event) {
	for key := 0; key < s.nextObs; key++ {
		if fn, ok := s.observers[key]; ok {
			fn(ev)
		}
	}
}
