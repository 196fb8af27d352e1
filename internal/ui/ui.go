package ui

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"sakura/internal/config"
	"sakura/internal/store"
	"sakura/internal/task"
)

type mode int

const (
	modeList mode = iota
	modeAdd
	modeSearch
)

// loadedMsg carries a finished fetch back to the update loop.
type loadedMsg store.Result

type Model struct {
	ctx        context.Context
	store      *store.Store
	cfg        config.Config
	logger     *log.Logger
	cursor     int
	mode       mode
	input      textinput.Model
	search     textinput.Model
	spinner    spinner.Model
	status     string
	confirmDel bool
	pendingDel *task.Task
	width      int
}

func New(ctx context.Context, st *store.Store, cfg config.Config, logger *log.Logger) Model {
	if ctx == nil {
		ctx = context.Background()
	}
	if logger == nil {
		logger = log.New(io.Discard)
	}

	ti := textinput.New()
	ti.Placeholder = "What is your next goal?"
	ti.CharLimit = 256
	ti.Width = 40

	si := textinput.New()
	si.Placeholder = "Search a task..."
	si.Prompt = "/ "
	si.CharLimit = 128
	si.Width = 40
	si.SetValue(st.Query())

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = accentStyle

	return Model{
		ctx:     ctx,
		store:   st,
		cfg:     cfg,
		logger:  logger,
		input:   ti,
		search:  si,
		spinner: sp,
		mode:    modeList,
		status:  fmt.Sprintf("Press '%s' to plant a seed, '%s' to search.", cfg.Keys.Add, cfg.Keys.Search),
	}
}

func Run(ctx context.Context, st *store.Store, cfg config.Config, logger *log.Logger) error {
	program := tea.NewProgram(New(ctx, st, cfg, logger), tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := program.Run()
	return err
}

func (m Model) Init() tea.Cmd {
	if !m.store.Begin() {
		return nil
	}
	return tea.Batch(m.spinner.Tick, m.fetch())
}

func (m Model) fetch() tea.Cmd {
	st, ctx := m.store, m.ctx
	return func() tea.Msg {
		return loadedMsg(st.Fetch(ctx))
	}
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case loadedMsg:
		m.store.Finish(store.Result(msg))
		if m.store.Status() == task.StatusReady {
			m.cursor = clampCursor(0, m.visibleCount())
			m.logger.Info("garden ready", "tasks", m.store.Len())
		} else {
			m.logger.Warn("garden unavailable", "message", m.store.Message())
		}
		return m, nil
	case spinner.TickMsg:
		if m.store.Status() != task.StatusLoading {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.input.Width = max(msg.Width-10, 10)
		m.search.Width = max(msg.Width-10, 10)
		return m, nil
	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()
	if key == "ctrl+c" {
		return m, tea.Quit
	}
	switch m.store.Status() {
	case task.StatusErrored:
		return m.updateErrored(key)
	case task.StatusLoading, task.StatusUninitialized:
		if key == m.cfg.Keys.Quit {
			return m, tea.Quit
		}
		return m, nil
	}
	if m.confirmDel {
		return m.updateDeleteConfirm(key)
	}
	switch m.mode {
	case modeAdd:
		return m.updateAddMode(key, msg)
	case modeSearch:
		return m.updateSearchMode(key, msg)
	}
	return m.updateListMode(key)
}

func (m Model) updateErrored(key string) (tea.Model, tea.Cmd) {
	switch key {
	case m.cfg.Keys.Quit:
		return m, tea.Quit
	case m.cfg.Keys.Retry:
		if !m.store.Begin() {
			return m, nil
		}
		m.status = "Retrying..."
		m.logger.Info("retrying task source")
		return m, tea.Batch(m.spinner.Tick, m.fetch())
	}
	return m, nil
}

func (m Model) updateAddMode(key string, msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch key {
	case m.cfg.Keys.Cancel:
		m.store.CancelAdd()
		m.mode = modeList
		m.input.SetValue("")
		m.input.Blur()
		m.status = "Cancelled"
		return m, nil
	case m.cfg.Keys.Confirm:
		if strings.TrimSpace(m.store.Draft()) == "" {
			m.status = "Title cannot be empty"
			return m, nil
		}
		m.store.SubmitDraft()
		m.input.SetValue("")
		m.input.Blur()
		m.mode = modeList
		m.cursor = 0
		m.status = "Seed planted"
		return m, nil
	default:
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		m.store.SetDraft(m.input.Value())
		return m, cmd
	}
}

func (m Model) updateSearchMode(key string, msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch key {
	case m.cfg.Keys.Cancel:
		m.search.SetValue("")
		m.search.Blur()
		m.store.SetSearchQuery("")
		m.mode = modeList
		m.cursor = clampCursor(m.cursor, m.visibleCount())
		m.status = "Search cleared"
		return m, nil
	case m.cfg.Keys.Confirm:
		m.search.Blur()
		m.mode = modeList
		m.cursor = clampCursor(m.cursor, m.visibleCount())
		m.status = fmt.Sprintf("%d matching", m.visibleCount())
		return m, nil
	default:
		var cmd tea.Cmd
		m.search, cmd = m.search.Update(msg)
		m.store.SetSearchQuery(m.search.Value())
		m.cursor = clampCursor(m.cursor, m.visibleCount())
		return m, cmd
	}
}

func (m Model) updateListMode(key string) (tea.Model, tea.Cmd) {
	switch key {
	case m.cfg.Keys.Quit:
		return m, tea.Quit
	case m.cfg.Keys.Down, "down":
		m.cursor = clampCursor(m.cursor+1, m.visibleCount())
	case m.cfg.Keys.Up, "up":
		m.cursor = clampCursor(m.cursor-1, m.visibleCount())
	case m.cfg.Keys.Add:
		m.store.BeginAdd()
		m.mode = modeAdd
		m.input.SetValue("")
		m.input.Focus()
		m.status = "Add mode: type a title and press Enter"
	case m.cfg.Keys.Search:
		m.mode = modeSearch
		m.search.SetValue(m.store.Query())
		m.search.CursorEnd()
		m.search.Focus()
		m.status = "Search: type to filter, Enter to keep, Esc to clear"
	case m.cfg.Keys.Filter:
		m.setFilter(nextFilter(m.store.Filter()))
	case "1":
		m.setFilter(task.FilterAll)
	case "2":
		m.setFilter(task.FilterPending)
	case "3":
		m.setFilter(task.FilterCompleted)
	case m.cfg.Keys.Toggle:
		t, ok := m.selected()
		if !ok {
			return m, nil
		}
		m.store.Toggle(t.ID)
		m.cursor = clampCursor(m.cursor, m.visibleCount())
		if t.Completed {
			m.status = "Growing again"
		} else {
			m.status = "Blossomed"
		}
	case m.cfg.Keys.Delete:
		t, ok := m.selected()
		if !ok {
			return m, nil
		}
		m.confirmDel = true
		m.pendingDel = &t
		m.status = fmt.Sprintf("Delete \"%s\"? y/n", t.Title)
	}
	return m, nil
}

func (m *Model) setFilter(f task.Filter) {
	m.store.SetFilter(f)
	m.cursor = clampCursor(m.cursor, m.visibleCount())
	m.status = "Showing " + filterLabel(f)
}

func (m Model) updateDeleteConfirm(key string) (tea.Model, tea.Cmd) {
	switch key {
	case "n", "N", m.cfg.Keys.Cancel:
		m.status = "Delete cancelled"
	case "y", "Y":
		if m.pendingDel == nil {
			m.status = "Nothing to delete"
			break
		}
		m.store.Delete(m.pendingDel.ID)
		m.cursor = clampCursor(m.cursor, m.visibleCount())
		m.status = "Deleted task"
	default:
		return m, nil
	}
	m.confirmDel = false
	m.pendingDel = nil
	return m, nil
}

func (m Model) selected() (task.Task, bool) {
	tasks := m.store.DerivedView().Tasks
	if len(tasks) == 0 {
		return task.Task{}, false
	}
	return tasks[clampCursor(m.cursor, len(tasks))], true
}

func (m Model) visibleCount() int {
	return len(m.store.DerivedView().Tasks)
}

func nextFilter(f task.Filter) task.Filter {
	all := task.Filters()
	for i, candidate := range all {
		if candidate == f {
			return all[(i+1)%len(all)]
		}
	}
	return task.FilterAll
}

func clampCursor(cur, n int) int {
	if n <= 0 {
		return 0
	}
	if cur < 0 {
		return 0
	}
	if cur >= n {
		return n - 1
	}
	return cur
}
