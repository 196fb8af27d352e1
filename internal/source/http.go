package source

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/charmbracelet/log"

	"sakura/internal/task"
)

const (
	DefaultEndpoint = "https://jsonplaceholder.typicode.com/todos"
	DefaultLimit    = 8
	DefaultTimeout  = 10 * time.Second

	maxBodyBytes = 1 << 20
)

type HTTPSource struct {
	Endpoint string
	Limit    int
	Client   *http.Client
	logger   *log.Logger
}

func NewHTTP(endpoint string, limit int, timeout time.Duration, logger *log.Logger) *HTTPSource {
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}
	if limit <= 0 {
		limit = DefaultLimit
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &HTTPSource{
		Endpoint: endpoint,
		Limit:    limit,
		Client:   &http.Client{Timeout: timeout},
		logger:   logger,
	}
}

// record is the wire shape; any other fields in the payload are ignored.
type record struct {
	ID        int64  `json:"id"`
	Title     string `json:"title"`
	Completed bool   `json:"completed"`
}

func (s *HTTPSource) Load(ctx context.Context) ([]task.Task, error) {
	u, err := s.requestURL()
	if err != nil {
		return nil, task.Unavailable(err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, task.Unavailable(err)
	}
	req.Header.Set("Accept", "application/json")

	s.logger.Debug("fetching tasks", "url", u)
	resp, err := s.Client.Do(req)
	if err != nil {
		return nil, task.Unavailable(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, task.Unavailable(fmt.Errorf("unexpected status %d", resp.StatusCode))
	}

	var records []record
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxBodyBytes)).Decode(&records); err != nil {
		return nil, task.Unavailable(fmt.Errorf("decode tasks: %w", err))
	}
	if len(records) > s.Limit {
		records = records[:s.Limit]
	}

	tasks := make([]task.Task, 0, len(records))
	for _, r := range records {
		tasks = append(tasks, task.Task{ID: r.ID, Title: r.Title, Completed: r.Completed})
	}
	s.logger.Debug("fetched tasks", "count", len(tasks))
	return tasks, nil
}

func (s *HTTPSource) requestURL() (string, error) {
	u, err := url.Parse(s.Endpoint)
	if err != nil {
		return "", fmt.Errorf("parse endpoint: %w", err)
	}
	q := u.Query()
	q.Set("_limit", strconv.Itoa(s.Limit))
	u.RawQuery = q.Encode()
	return u.String(), nil
}
