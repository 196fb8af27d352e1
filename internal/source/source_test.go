package source

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"

	"sakura/internal/config"
	"sakura/internal/task"
)

func TestHTTPSourceLoadsAndIgnoresExtraFields(t *testing.T) {
	var gotLimit string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotLimit = r.URL.Query().Get("_limit")
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `[
			{"userId": 1, "id": 1, "title": "delectus aut autem", "completed": false},
			{"userId": 1, "id": 2, "title": "quis ut nam", "completed": true}
		]`)
	}))
	defer srv.Close()

	src := NewHTTP(srv.URL+"/todos", 8, time.Second, nil)
	tasks, err := src.Load(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "8", gotLimit)
	assert.Equal(t, []task.Task{
		{ID: 1, Title: "delectus aut autem"},
		{ID: 2, Title: "quis ut nam", Completed: true},
	}, tasks)
}

func TestHTTPSourceCapsToLimit(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, `[{"id":1,"title":"a"},{"id":2,"title":"b"},{"id":3,"title":"c"}]`)
	}))
	defer srv.Close()

	tasks, err := NewHTTP(srv.URL, 2, time.Second, nil).Load(context.Background())
	require.NoError(t, err)
	assert.Len(t, tasks, 2)
}

func TestHTTPSourceKeepsExistingQuery(t *testing.T) {
	var got string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.URL.RawQuery
		fmt.Fprint(w, `[]`)
	}))
	defer srv.Close()

	_, err := NewHTTP(srv.URL+"?userId=3", 4, time.Second, nil).Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "_limit=4&userId=3", got)
}

func TestHTTPSourceNon2xxIsUnavailable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "nope", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	_, err := NewHTTP(srv.URL, 8, time.Second, nil).Load(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, task.ErrSourceUnavailable)
	assert.Equal(t, task.UnavailableMessage, task.DisplayMessage(err))
}

func TestHTTPSourceBadBodyIsUnavailable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, `{"not": "a list"}`)
	}))
	defer srv.Close()

	_, err := NewHTTP(srv.URL, 8, time.Second, nil).Load(context.Background())
	assert.ErrorIs(t, err, task.ErrSourceUnavailable)
}

func TestHTTPSourceTransportFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	url := srv.URL
	srv.Close()

	_, err := NewHTTP(url, 8, time.Second, nil).Load(context.Background())
	assert.ErrorIs(t, err, task.ErrSourceUnavailable)
}

func TestHTTPSourceHonoursContext(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, `[]`)
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := NewHTTP(srv.URL, 8, time.Second, nil).Load(ctx)
	assert.ErrorIs(t, err, context.Canceled)
	assert.ErrorIs(t, err, task.ErrSourceUnavailable)
}

func TestNewHTTPDefaults(t *testing.T) {
	src := NewHTTP("", 0, 0, nil)
	assert.Equal(t, DefaultEndpoint, src.Endpoint)
	assert.Equal(t, DefaultLimit, src.Limit)
	assert.Equal(t, DefaultTimeout, src.Client.Timeout)
}

func TestSeedHasThreeTasks(t *testing.T) {
	src := Seed()
	tasks, err := src.Load(context.Background())
	require.NoError(t, err)
	require.Len(t, tasks, 3)
	assert.Len(t, task.Normalize(tasks), 3)

	tasks[0].Title = "changed"
	again, _ := src.Load(context.Background())
	assert.NotEqual(t, "changed", again[0].Title)
}

func writeTodoDB(t *testing.T, rows ...task.Task) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "todo.db")
	db, err := sql.Open("sqlite", path)
	require.NoError(t, err)
	defer db.Close()

	_, err = db.Exec(`
CREATE TABLE tasks (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	title TEXT NOT NULL,
	done INTEGER NOT NULL DEFAULT 0,
	project TEXT DEFAULT '',
	created_at TEXT NOT NULL
);`)
	require.NoError(t, err)
	for _, r := range rows {
		done := 0
		if r.Completed {
			done = 1
		}
		_, err := db.Exec(`INSERT INTO tasks (id, title, done, created_at) VALUES (?, ?, ?, ?);`,
			r.ID, r.Title, done, time.Now().UTC().Format(time.RFC3339))
		require.NoError(t, err)
	}
	return path
}

func TestSQLiteSourceImportsTasks(t *testing.T) {
	path := writeTodoDB(t,
		task.Task{ID: 2, Title: "second", Completed: true},
		task.Task{ID: 1, Title: "first"},
		task.Task{ID: 3, Title: "third"},
	)

	tasks, err := NewSQLite(path, 2, nil).Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []task.Task{
		{ID: 1, Title: "first"},
		{ID: 2, Title: "second", Completed: true},
	}, tasks)
}

func TestSQLiteSourceMissingFile(t *testing.T) {
	_, err := NewSQLite(filepath.Join(t.TempDir(), "missing.db"), 8, nil).Load(context.Background())
	assert.ErrorIs(t, err, task.ErrSourceUnavailable)
}

func TestSQLiteSourceWithoutTable(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.db")
	db, err := sql.Open("sqlite", path)
	require.NoError(t, err)
	_, err = db.Exec(`CREATE TABLE other (id INTEGER);`)
	require.NoError(t, err)
	require.NoError(t, db.Close())

	_, err = NewSQLite(path, 8, nil).Load(context.Background())
	assert.ErrorIs(t, err, task.ErrSourceUnavailable)
}

func TestNewPicksSourceByKind(t *testing.T) {
	cfg := config.Default().Source

	src, err := New(cfg, nil)
	require.NoError(t, err)
	assert.IsType(t, &HTTPSource{}, src)

	cfg.Kind = KindSeed
	src, err = New(cfg, nil)
	require.NoError(t, err)
	assert.IsType(t, &SeedSource{}, src)

	cfg.Kind = KindSQLite
	src, err = New(cfg, nil)
	require.NoError(t, err)
	assert.IsType(t, &SQLiteSource{}, src)

	cfg.Kind = "ftp"
	_, err = New(cfg, nil)
	assert.Error(t, err)
}
