package source

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	_ "modernc.org/sqlite"

	"sakura/internal/task"
)

// SQLiteSource imports the tasks table of a bada-style todo database. The
// database is opened read-only and never written.
type SQLiteSource struct {
	DBPath string
	Limit  int
	logger *log.Logger
}

func NewSQLite(dbPath string, limit int, logger *log.Logger) *SQLiteSource {
	if limit <= 0 {
		limit = DefaultLimit
	}
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &SQLiteSource{DBPath: dbPath, Limit: limit, logger: logger}
}

func (s *SQLiteSource) Load(ctx context.Context) ([]task.Task, error) {
	if s.DBPath == "" {
		return nil, task.Unavailable(errors.New("db path is empty"))
	}
	if _, err := os.Stat(s.DBPath); err != nil {
		return nil, task.Unavailable(err)
	}
	db, err := sql.Open("sqlite", sqliteDSN(s.DBPath))
	if err != nil {
		return nil, task.Unavailable(err)
	}
	defer db.Close()
	db.SetMaxOpenConns(1)

	s.logger.Debug("reading tasks", "db_path", s.DBPath)
	rows, err := db.QueryContext(ctx, `SELECT id, title, done FROM tasks ORDER BY id LIMIT ?;`, s.Limit)
	if err != nil {
		return nil, task.Unavailable(fmt.Errorf("query tasks: %w", err))
	}
	defer rows.Close()

	var tasks []task.Task
	for rows.Next() {
		var t task.Task
		var doneInt int
		if err := rows.Scan(&t.ID, &t.Title, &doneInt); err != nil {
			return nil, task.Unavailable(err)
		}
		t.Completed = doneInt == 1
		tasks = append(tasks, t)
	}
	if err := rows.Err(); err != nil {
		return nil, task.Unavailable(err)
	}
	return tasks, nil
}

func sqliteDSN(path string) string {
	if strings.HasPrefix(path, "file:") {
		return path
	}
	abs, err := filepath.Abs(path)
	if err == nil {
		path = abs
	}
	u := url.URL{
		Scheme: "file",
		Path:   path,
	}
	q := u.Query()
	q.Set("mode", "ro")
	q.Set("_pragma", "busy_timeout(5000)")
	u.RawQuery = q.Encode()
	return u.String()
}
