package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/valter-silva-au/todo/internal/core"
	"github.com/valter-silva-au/todo/pkg/models"
)

type boardMode int

const (
	modeBrowse boardMode = iota
	modeAdd
)

// Add form fields.
const (
	fieldText = iota
	fieldDue
	fieldCount
)

// seedRunner is the part of core.SeedImporter the board needs.
type seedRunner interface {
	Run(ctx context.Context) (core.SeedResult, error)
}

type boardModel struct {
	ctx        context.Context
	dispatcher *core.Dispatcher
	seeder     seedRunner
	now        func() time.Time

	view   core.View
	cursor int
	mode   boardMode

	fields [fieldCount]string
	focus  int

	status    string
	statusErr bool
	seeding   bool

	width  int
	height int
}

// seedDoneMsg carries the result of the startup seed back to the model.
type seedDoneMsg struct {
	result core.SeedResult
	err    error
}

// storeChangedMsg is sent when the store changes outside Update.
type storeChangedMsg struct{}

// Style definitions.
var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("230")).
			Background(lipgloss.Color("62")).
			Padding(0, 1)

	tabStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Padding(0, 1)
	activeTabStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("62")).Underline(true).Padding(0, 1)

	cursorStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("212")).Bold(true)
	doneStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("240")).Strikethrough(true)
	overdueStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	dueTodayStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("226"))
	dueStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	formLabelStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("62")).Bold(true)
	formBoxStyle   = lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("62")).
			Padding(0, 1)

	statusOKStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("46"))
	statusErrStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	helpStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)

func newBoardModel(ctx context.Context, d *core.Dispatcher, seeder seedRunner) boardModel {
	return boardModel{
		ctx:        ctx,
		dispatcher: d,
		seeder:     seeder,
		now:        time.Now,
		view:       d.View(),
		seeding:    seeder != nil,
	}
}

func (m boardModel) Init() tea.Cmd {
	if m.seeder == nil {
		return nil
	}
	seeder, ctx := m.seeder, m.ctx
	return func() tea.Msg {
		result, err := seeder.Run(ctx)
		return seedDoneMsg{result: result, err: err}
	}
}

func (m boardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			return m, tea.Quit
		}
		if m.mode == modeAdd {
			return m.updateForm(msg)
		}
		return m.updateBrowse(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case seedDoneMsg:
		m.seeding = false
		switch {
		case msg.err != nil:
			m.setError("Could not load example tasks: " + msg.err.Error())
		case msg.result.Imported > 0:
			m.setStatus(fmt.Sprintf("Loaded %d example tasks", msg.result.Imported))
		}
		m.refresh()
		return m, nil

	case storeChangedMsg:
		m.refresh()
		return m, nil
	}

	return m, nil
}

func (m boardModel) updateBrowse(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "esc":
		return m, tea.Quit
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(m.view.Tasks)-1 {
			m.cursor++
		}
	case " ", "x", "enter":
		if task, ok := m.selected(); ok {
			m.dispatch(core.ToggleCmd{ID: task.ID})
		}
	case "d", "delete":
		if task, ok := m.selected(); ok {
			if m.dispatch(core.DeleteCmd{ID: task.ID}) {
				m.setStatus(fmt.Sprintf("Deleted %q", task.Text))
			}
		}
	case "f", "tab":
		m.dispatch(core.SetFilterCmd{Filter: m.view.Filter.Next()})
		m.cursor = 0
	case "s":
		m.dispatch(core.ToggleSortCmd{})
	case "S":
		if m.dispatch(core.SortAndSaveCmd{}) {
			m.setStatus("Saved list in due-date order")
		}
	case "n", "a":
		m.mode = modeAdd
		m.focus = fieldText
		m.fields = [fieldCount]string{fieldDue: core.Today(m.now())}
		m.status = ""
	case "r":
		m.refresh()
	}
	return m, nil
}

func (m boardModel) updateForm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.mode = modeBrowse
		m.status = ""
		return m, nil
	case tea.KeyTab, tea.KeyDown, tea.KeyShiftTab, tea.KeyUp:
		m.focus = (m.focus + 1) % fieldCount
		return m, nil
	case tea.KeyEnter:
		if m.focus == fieldText {
			m.focus = fieldDue
			return m, nil
		}
		return m.submitForm(), nil
	case tea.KeyBackspace:
		f := []rune(m.fields[m.focus])
		if len(f) > 0 {
			m.fields[m.focus] = string(f[:len(f)-1])
		}
		return m, nil
	case tea.KeyCtrlU:
		m.fields[m.focus] = ""
		return m, nil
	case tea.KeySpace:
		m.fields[m.focus] += " "
		return m, nil
	case tea.KeyRunes:
		m.fields[m.focus] += string(msg.Runes)
		return m, nil
	}
	return m, nil
}

func (m boardModel) submitForm() boardModel {
	out, err := m.dispatcher.Dispatch(m.ctx, core.AddTaskCmd{
		Text:    m.fields[fieldText],
		DueDate: m.fields[fieldDue],
	})
	if err != nil {
		if errors.Is(err, core.ErrValidation) {
			m.setError("Please enter both a task and a due date")
			if strings.TrimSpace(m.fields[fieldText]) == "" {
				m.focus = fieldText
			} else {
				m.focus = fieldDue
			}
		} else {
			m.setError(err.Error())
		}
		return m
	}

	m.view = out.View
	m.mode = modeBrowse
	m.fields = [fieldCount]string{}
	m.setStatus(fmt.Sprintf("Added %q", out.Task.Text))
	for i, t := range m.view.Tasks {
		if t.ID == out.Task.ID {
			m.cursor = i
		}
	}
	return m
}

// dispatch runs cmd and installs the resulting view. It reports success.
func (m *boardModel) dispatch(cmd core.Command) bool {
	out, err := m.dispatcher.Dispatch(m.ctx, cmd)
	m.view = out.View
	m.clampCursor()
	if err != nil {
		m.setError(err.Error())
		return false
	}
	return true
}

func (m *boardModel) refresh() {
	m.view = m.dispatcher.View()
	m.clampCursor()
}

func (m *boardModel) clampCursor() {
	if m.cursor >= len(m.view.Tasks) {
		m.cursor = len(m.view.Tasks) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

func (m boardModel) selected() (models.Task, bool) {
	if m.cursor < 0 || m.cursor >= len(m.view.Tasks) {
		return models.Task{}, false
	}
	return m.view.Tasks[m.cursor], true
}

func (m *boardModel) setStatus(s string) {
	m.status, m.statusErr = s, false
}

func (m *boardModel) setError(s string) {
	m.status, m.statusErr = s, true
}

func (m boardModel) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render(" To-Do List "))
	b.WriteString("\n\n")
	b.WriteString(m.renderTabs())
	b.WriteString("\n\n")

	if m.mode == modeAdd {
		b.WriteString(m.renderForm())
		b.WriteString("\n\n")
	}

	b.WriteString(m.renderTasks())
	b.WriteString("\n")

	if m.status != "" {
		style := statusOKStyle
		if m.statusErr {
			style = statusErrStyle
		}
		b.WriteString("\n" + style.Render(m.status) + "\n")
	}

	b.WriteString("\n" + helpStyle.Render(m.helpLine()))
	return b.String()
}

func (m boardModel) renderTabs() string {
	var tabs []string
	for _, f := range models.Filters() {
		label := strings.ToUpper(string(f[:1])) + string(f[1:])
		if f == m.view.Filter {
			tabs = append(tabs, activeTabStyle.Render(label))
		} else {
			tabs = append(tabs, tabStyle.Render(label))
		}
	}
	line := lipgloss.JoinHorizontal(lipgloss.Top, tabs...)
	if m.view.SortByDate {
		line += helpStyle.Render("  sorted by due date")
	}
	return line + helpStyle.Render(fmt.Sprintf("  %d active, %d completed", m.view.Active, m.view.Completed))
}

func (m boardModel) renderTasks() string {
	if m.seeding && m.view.Total == 0 {
		return "  Loading example tasks..."
	}
	if len(m.view.Tasks) == 0 {
		if m.view.Total == 0 {
			return "  No tasks yet. Press n to add one."
		}
		return fmt.Sprintf("  No %s tasks.", m.view.Filter)
	}

	today, _ := core.ParseDueDate(core.Today(m.now()))
	var b strings.Builder
	for i, t := range m.view.Tasks {
		pointer := "  "
		if i == m.cursor {
			pointer = cursorStyle.Render("> ")
		}

		text := t.Text
		if t.Completed {
			text = doneStyle.Render(text)
		}

		due := dueStyle.Render(t.DueDate)
		if d, ok := core.ParseDueDate(t.DueDate); ok && !t.Completed {
			switch {
			case d.Before(today):
				due = overdueStyle.Render(t.DueDate + " overdue")
			case d.Equal(today):
				due = dueTodayStyle.Render(t.DueDate + " today")
			}
		}

		fmt.Fprintf(&b, "%s%s %s  %s\n", pointer, checkbox(t.Completed), text, due)
	}
	return strings.TrimSuffix(b.String(), "\n")
}

func (m boardModel) renderForm() string {
	labels := [fieldCount]string{fieldText: "Task", fieldDue: "Due "}
	var lines []string
	for i := 0; i < fieldCount; i++ {
		value := m.fields[i]
		if i == m.focus {
			value += cursorStyle.Render("_")
		}
		lines = append(lines, formLabelStyle.Render(labels[i])+"  "+value)
	}
	return formBoxStyle.Render(strings.Join(lines, "\n"))
}

func (m boardModel) helpLine() string {
	if m.mode == modeAdd {
		return "tab: next field | enter: save | ctrl+u: clear field | esc: cancel"
	}
	return "j/k: move | space: toggle | d: delete | n: add | f: filter | s: sort view | S: save sorted | q: quit"
}

var tuiCmd = &cobra.Command{
	Use:         "tui",
	Aliases:     []string{"dashboard", "ui"},
	Short:       "Open the interactive task board",
	Long:        "Browse, add, complete and delete tasks in a full-screen terminal board.",
	Args:        cobra.NoArgs,
	Annotations: map[string]string{annotationNoSeed: "true"},
	RunE: func(cmd *cobra.Command, args []string) error {
		if Store == nil {
			return errStoreNotInitialized
		}

		var seeder seedRunner
		if SeedOnStart && Seeder != nil {
			seeder = Seeder
		}

		ctx := cmd.Context()
		m := newBoardModel(ctx, core.NewDispatcher(Store), seeder)
		p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))

		// Listeners run on the mutating goroutine, which may be the program's
		// own event loop, so the message is sent asynchronously.
		Store.Subscribe(func(models.ChangeEvent) {
			go p.Send(storeChangedMsg{})
		})

		if _, err := p.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
			return fmt.Errorf("running task board: %w", err)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(tuiCmd)
}
