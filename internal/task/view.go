package task

import (
	"math"
	"strings"
)

type Status int

const (
	StatusUninitialized Status = iota
	StatusLoading
	StatusReady
	StatusErrored
)

func (s Status) String() string {
	switch s {
	case StatusLoading:
		return "loading"
	case StatusReady:
		return "ready"
	case StatusErrored:
		return "errored"
	default:
		return "uninitialized"
	}
}

// View is the read-only projection handed to the rendering layer.
type View struct {
	Tasks    []Task
	Progress int
}

// Select returns the tasks whose title contains query (case-insensitive) and
// which pass the filter. The input slice is not modified.
func Select(tasks []Task, filter Filter, query string) []Task {
	needle := strings.ToLower(query)
	out := make([]Task, 0, len(tasks))
	for _, t := range tasks {
		if !strings.Contains(strings.ToLower(t.Title), needle) {
			continue
		}
		if !filter.Match(t) {
			continue
		}
		out = append(out, t)
	}
	return out
}

// Progress is the rounded completion percentage, 0 for an empty list.
func Progress(tasks []Task) int {
	if len(tasks) == 0 {
		return 0
	}
	done := 0
	for _, t := range tasks {
		if t.Completed {
			done++
		}
	}
	return int(math.Round(float64(done) * 100 / float64(len(tasks))))
}
