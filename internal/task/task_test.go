package task

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFilter(t *testing.T) {
	cases := map[string]Filter{
		"":          FilterAll,
		"all":       FilterAll,
		" Pending ": FilterPending,
		"COMPLETED": FilterCompleted,
	}
	for in, want := range cases {
		got, err := ParseFilter(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err := ParseFilter("done")
	assert.Error(t, err)
}

func TestSelectFilterAndSearch(t *testing.T) {
	tasks := []Task{
		{ID: 1, Title: "Alpha"},
		{ID: 2, Title: "Beta", Completed: true},
	}

	assert.Equal(t, []Task{tasks[0]}, Select(tasks, FilterPending, ""))
	assert.Equal(t, []Task{tasks[1]}, Select(tasks, FilterCompleted, ""))
	assert.Equal(t, []Task{tasks[0]}, Select(tasks, FilterAll, "al"))
	assert.Equal(t, []Task{tasks[0]}, Select(tasks, FilterAll, "ALP"))
	assert.Empty(t, Select(tasks, FilterCompleted, "al"))
	assert.Len(t, Select(tasks, FilterAll, ""), 2)
}

func TestSelectQueryIsNotTrimmed(t *testing.T) {
	tasks := []Task{{ID: 1, Title: "water plants"}, {ID: 2, Title: "plants"}}
	assert.Equal(t, []Task{tasks[0]}, Select(tasks, FilterAll, " plants"))
}

func TestProgress(t *testing.T) {
	assert.Equal(t, 0, Progress(nil))
	assert.Equal(t, 25, Progress([]Task{{ID: 1, Completed: true}, {ID: 2}, {ID: 3}, {ID: 4}}))
	assert.Equal(t, 33, Progress([]Task{{ID: 1, Completed: true}, {ID: 2}, {ID: 3}}))
	assert.Equal(t, 67, Progress([]Task{{ID: 1, Completed: true}, {ID: 2, Completed: true}, {ID: 3}}))
	assert.Equal(t, 100, Progress([]Task{{ID: 1, Completed: true}}))
}

func TestNormalizeDropsBlankAndDuplicateIDs(t *testing.T) {
	got := Normalize([]Task{
		{ID: 1, Title: "first"},
		{ID: 2, Title: "   "},
		{ID: 1, Title: "again"},
		{ID: 3, Title: "third", Completed: true},
	})
	assert.Equal(t, []Task{{ID: 1, Title: "first"}, {ID: 3, Title: "third", Completed: true}}, got)
}

func TestSourceError(t *testing.T) {
	cause := errors.New("dial tcp: refused")
	err := fmt.Errorf("load: %w", Unavailable(cause))

	assert.ErrorIs(t, err, ErrSourceUnavailable)
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, UnavailableMessage, DisplayMessage(err))
	assert.Equal(t, UnavailableMessage, DisplayMessage(errors.New("other")))
	assert.Equal(t, "custom", DisplayMessage(&SourceError{Message: "custom"}))
}

func TestStatusString(t *testing.T) {
	assert.Equal(t, "uninitialized", StatusUninitialized.String())
	assert.Equal(t, "loading", StatusLoading.String())
	assert.Equal(t, "ready", StatusReady.String())
	assert.Equal(t, "errored", StatusErrored.String())
}
