package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"sakura/internal/config"
	"sakura/internal/task"
)

const progressWidth = 24

var (
	pink        = lipgloss.Color("#F472B6")
	softPink    = lipgloss.Color("#FBCFE8")
	rose        = lipgloss.Color("#FB7185")
	emerald     = lipgloss.Color("#10B981")
	muted       = lipgloss.Color("#9CA3AF")
	accentStyle = lipgloss.NewStyle().Foreground(pink)

	titleStyle   = lipgloss.NewStyle().Bold(true)
	kickerStyle  = lipgloss.NewStyle().Foreground(pink).Bold(true)
	mutedStyle   = lipgloss.NewStyle().Foreground(muted)
	doneStyle    = lipgloss.NewStyle().Foreground(muted).Strikethrough(true)
	checkStyle   = lipgloss.NewStyle().Foreground(emerald)
	cursorStyle  = lipgloss.NewStyle().Foreground(pink).Bold(true)
	activeTab    = lipgloss.NewStyle().Foreground(lipgloss.Color("#FFFFFF")).Background(pink).Padding(0, 1)
	inactiveTab  = lipgloss.NewStyle().Foreground(muted).Padding(0, 1)
	barFull      = lipgloss.NewStyle().Foreground(pink)
	barEmpty     = lipgloss.NewStyle().Foreground(softPink)
	errorTitle   = lipgloss.NewStyle().Foreground(rose).Bold(true)
	formBoxStyle = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(softPink).Padding(0, 1)
)

func (m Model) View() string {
	var b strings.Builder

	b.WriteString(m.renderHeader())
	b.WriteString("\n\n")

	switch m.store.Status() {
	case task.StatusErrored:
		b.WriteString(m.renderError())
		return b.String()
	case task.StatusLoading, task.StatusUninitialized:
		b.WriteString(m.spinner.View() + " " + mutedStyle.Render("Arranging the petals..."))
		b.WriteString("\n")
		return b.String()
	}

	b.WriteString(m.renderFilters())
	b.WriteString("\n")
	if m.mode == modeSearch || m.store.Query() != "" {
		b.WriteString(m.search.View())
		b.WriteString("\n")
	}
	if m.mode == modeAdd {
		b.WriteString(formBoxStyle.Render(m.input.View()))
		b.WriteString("\n")
	}
	b.WriteString("\n")

	view := m.store.DerivedView()
	if len(view.Tasks) == 0 {
		b.WriteString(mutedStyle.Italic(true).Render("Empty garden. Plant some seeds!"))
		b.WriteString("\n")
	} else {
		b.WriteString(m.renderTaskList(view.Tasks))
	}

	b.WriteString("\n")
	b.WriteString(m.status)
	b.WriteString("\n")
	b.WriteString(mutedStyle.Render(renderHelp(m.cfg.Keys)))

	return b.String()
}

func (m Model) renderHeader() string {
	heading := kickerStyle.Render("BLOOMING SEASON") + "\n" +
		titleStyle.Render("Sakura ") + accentStyle.Bold(true).Render("Zen")
	if m.store.Status() != task.StatusReady {
		return heading
	}
	progress := m.store.Progress()
	return heading + "\n" +
		mutedStyle.Render("Daily progress ") + accentStyle.Bold(true).Render(fmt.Sprintf("%d%%", progress)) + "\n" +
		renderBar(progress, progressWidth)
}

func (m Model) renderError() string {
	var b strings.Builder
	b.WriteString(errorTitle.Render("Rain in the garden"))
	b.WriteString("\n")
	b.WriteString(m.store.Message())
	b.WriteString("\n\n")
	b.WriteString(mutedStyle.Render(fmt.Sprintf("press %s to try again • %s quit", m.cfg.Keys.Retry, m.cfg.Keys.Quit)))
	if m.status != "" {
		b.WriteString("\n")
		b.WriteString(m.status)
	}
	return b.String()
}

func (m Model) renderFilters() string {
	tabs := make([]string, 0, len(task.Filters()))
	for i, f := range task.Filters() {
		label := fmt.Sprintf("%d %s", i+1, filterLabel(f))
		if f == m.store.Filter() {
			tabs = append(tabs, activeTab.Render(label))
		} else {
			tabs = append(tabs, inactiveTab.Render(label))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, tabs...)
}

func (m Model) renderTaskList(tasks []task.Task) string {
	var b strings.Builder
	for i, t := range tasks {
		cursor := " "
		if m.cursor == i && m.mode == modeList {
			cursor = cursorStyle.Render(">")
		}

		checkbox := "[ ]"
		title := m.displayTitle(t.Title)
		if t.Completed {
			checkbox = checkStyle.Render("[x]")
			title = doneStyle.Render(title)
		}

		b.WriteString(fmt.Sprintf("%s %s %s", cursor, checkbox, title))
		b.WriteString("\n")
	}
	return b.String()
}

// displayTitle applies the optional upper-case presentation; stored titles are
// never changed.
func (m Model) displayTitle(title string) string {
	if m.cfg.UppercaseTitles {
		return strings.ToUpper(title)
	}
	return title
}

func renderBar(percent, width int) string {
	percent = min(max(percent, 0), 100)
	filled := percent * width / 100
	return barFull.Render(strings.Repeat("█", filled)) + barEmpty.Render(strings.Repeat("░", width-filled))
}

func renderHelp(k config.Keymap) string {
	return fmt.Sprintf("%s/%s move • %s add • %s toggle • %s delete • %s search • %s/1-3 filter • %s quit",
		k.Up, k.Down, k.Add, keyLabel(k.Toggle), k.Delete, k.Search, k.Filter, k.Quit)
}

func keyLabel(k string) string {
	if k == " " {
		return "space"
	}
	return k
}

func filterLabel(f task.Filter) string {
	switch f {
	case task.FilterPending:
		return "Growing"
	case task.FilterCompleted:
		return "Blossomed"
	default:
		return "All"
	}
}
