// Package tui is the interactive rendering surface: a Bubble Tea list
// over the session, dispatching user intents (add, edit, toggle,
// delete) through the same validation pipeline as the CLI.
package tui

import (
	"fmt"
	"io"
	"os"
	"syscall"
	"unsafe"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/idilsaglam/taskpad/internal/model"
	"github.com/idilsaglam/taskpad/internal/session"
	"github.com/idilsaglam/taskpad/internal/ui"
	"github.com/idilsaglam/taskpad/internal/validate"
)

// listItem adapts a task to bubbles/list.Item
type listItem struct {
	Text string
	Done bool
}

func (i listItem) line() string {
	box := ui.Current().BoxUnchecked
	if i.Done {
		box = ui.Current().BoxChecked
	}
	return fmt.Sprintf("%s %s", box, i.Text)
}

// Implement list.Item interface
func (i listItem) Title() string       { return i.line() }
func (i listItem) Description() string { return "" }
func (i listItem) FilterValue() string { return i.Text }

type uiModel struct {
	list    list.Model
	changed bool

	// Inline add
	adding bool            // true when inline add is active
	ti     textinput.Model // shared text input model (used for add & edit)
	addErr string          // last add validation error

	// Inline edit
	editing   bool
	editIndex int
	editErr   string

	// Undo support (single-level, visual only)
	canUndo   bool
	undoIndex int
	undoItem  *listItem
}

// Custom delegate to control how items render (single line)
type itemDelegate struct{}

func (d itemDelegate) Height() int                               { return 1 }
func (d itemDelegate) Spacing() int                              { return 0 }
func (d itemDelegate) Update(msg tea.Msg, m *list.Model) tea.Cmd { return nil }
func (d itemDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	it, _ := item.(listItem)
	box := ui.MutedStyle.Render(ui.Current().BoxUnchecked)
	text := it.Text
	if it.Done {
		box = ui.SuccessStyle.Render(ui.Current().BoxChecked)
		text = ui.DoneStyle.Render(text)
	}
	prefix := "  "
	if index == m.Index() {
		prefix = ui.SelectedStyle.Render("> ")
	}
	fmt.Fprintln(w, prefix+box+" "+text)
}

// Run starts the interactive list and persists changes through the
// session when quitting.
func Run(sess *session.Session) error {
	tasks := sess.Tasks()
	li := make([]list.Item, 0, len(tasks))
	for _, t := range tasks {
		li = append(li, listItem{Text: t.Text, Done: t.Done})
	}

	l := list.New(li, itemDelegate{}, 0, 0)

	dn, pn := stats(tasks)
	l.Title = fmt.Sprintf("%s   %s %d  %s %d  %s %d",
		ui.TitleStyle.Render("Tasks"),
		ui.SuccessStyle.Render("✔"), dn,
		ui.PendingStyle.Render("•"), pn,
		ui.AccentStyle.Render("Total"), len(tasks),
	)
	l.SetShowHelp(true)
	l.SetShowPagination(true)
	l.SetShowStatusBar(true)
	l.SetFilteringEnabled(true)
	l.Styles.Title = ui.TitleStyle
	l.Styles.HelpStyle = ui.HelpStyle
	l.Styles.PaginationStyle = ui.HelpStyle
	l.FilterInput.Prompt = "/ "
	l.SetStatusBarItemName("task", "tasks")

	// Extend help with Add / Edit / Undo bindings
	addBind := key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "add"))
	editBind := key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "edit"))
	undoBind := key.NewBinding(key.WithKeys("u"), key.WithHelp("u", "undo"))
	l.AdditionalShortHelpKeys = func() []key.Binding { return []key.Binding{addBind, editBind, undoBind} }
	l.AdditionalFullHelpKeys = func() []key.Binding { return []key.Binding{addBind, editBind, undoBind} }

	m := uiModel{list: l}
	m.ti = textinput.New()
	m.ti.Prompt = "> "
	m.ti.Placeholder = "New task..."
	m.ti.CharLimit = 200

	p := tea.NewProgram(m, tea.WithAltScreen())
	finalModel, err := p.Run()
	if err != nil {
		return err
	}
	fm, okModel := finalModel.(uiModel)
	if !okModel {
		return nil
	}

	// Write back list state to the session and persist if changed
	if fm.changed {
		out := make([]model.Task, 0, len(fm.list.Items()))
		for _, it := range fm.list.Items() {
			if li, ok := it.(listItem); ok {
				out = append(out, model.Task{Text: li.Text, Done: li.Done})
			}
		}
		sess.Replace(out)
		if sess.Dirty() {
			ui.Fail("changes kept in memory only (persistence off or save failed)")
		} else {
			ui.OK("saved")
		}
	}
	return nil
}

func (m uiModel) Init() tea.Cmd { return nil }

// tasksExcept snapshots the list items as tasks, skipping one index
// (the item being edited) so edits don't collide with themselves.
func (m uiModel) tasksExcept(skip int) []model.Task {
	items := m.list.Items()
	out := make([]model.Task, 0, len(items))
	for i, it := range items {
		if i == skip {
			continue
		}
		if li, ok := it.(listItem); ok {
			out = append(out, model.Task{Text: li.Text, Done: li.Done})
		}
	}
	return out
}

func (m uiModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	// add mode
	if m.adding {
		var cmd tea.Cmd
		switch x := msg.(type) {
		case tea.KeyMsg:
			switch x.String() {
			case "enter":
				text, err := validate.Text(m.ti.Value(), m.tasksExcept(-1))
				if err != nil {
					m.addErr = err.Error()
					return m, nil
				}
				m.addErr = ""
				m.list.InsertItem(m.list.Index()+1, listItem{Text: text, Done: false})
				m.changed = true
				m.ti.SetValue("")
				m.ti.Blur()
				m.adding = false
				return m, nil
			case "esc":
				m.adding = false
				m.addErr = ""
				m.ti.SetValue("")
				m.ti.Blur()
				return m, nil
			}
		}
		m.ti, cmd = m.ti.Update(msg)
		return m, cmd
	}

	// edit mode
	if m.editing {
		var cmd tea.Cmd
		switch x := msg.(type) {
		case tea.KeyMsg:
			switch x.String() {
			case "enter":
				text, err := validate.Text(m.ti.Value(), m.tasksExcept(m.editIndex))
				if err != nil {
					m.editErr = err.Error()
					return m, nil
				}
				m.editErr = ""
				if m.editIndex >= 0 && m.editIndex < len(m.list.Items()) {
					if li, ok := m.list.Items()[m.editIndex].(listItem); ok {
						li.Text = text
						m.list.SetItem(m.editIndex, li)
						m.changed = true
					}
				}
				m.ti.SetValue("")
				m.ti.Blur()
				m.editing = false
				return m, nil
			case "esc":
				m.editing = false
				m.editErr = ""
				m.ti.SetValue("")
				m.ti.Blur()
				return m, nil
			}
		}
		m.ti, cmd = m.ti.Update(msg)
		return m, cmd
	}

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "esc":
			return m, tea.Quit
		case " ":
			i := m.list.Index()
			if i >= 0 && i < len(m.list.Items()) {
				if li, ok := m.list.Items()[i].(listItem); ok {
					li.Done = !li.Done
					m.list.SetItem(i, li)
					m.changed = true
				}
			}
			return m, nil
		case "d":
			i := m.list.Index()
			if i >= 0 && i < len(m.list.Items()) {
				if li, ok := m.list.Items()[i].(listItem); ok {
					tmp := li
					m.undoItem = &tmp
					m.undoIndex = i
					m.canUndo = true
				}
				m.list.RemoveItem(i)
				m.changed = true
			}
			return m, nil
		case "a":
			m.adding = true
			m.ti.SetValue("")
			m.ti.Placeholder = "New task..."
			m.ti.Focus()
			return m, nil
		case "e":
			i := m.list.Index()
			if i >= 0 && i < len(m.list.Items()) {
				if li, ok := m.list.Items()[i].(listItem); ok {
					m.editing = true
					m.editIndex = i
					m.ti.SetValue(li.Text)
					m.ti.CursorEnd()
					m.ti.Placeholder = "Edit task..."
					m.ti.Focus()
					return m, nil
				}
			}
			return m, nil
		case "u":
			if m.canUndo && m.undoItem != nil {
				idx := m.undoIndex
				if idx < 0 {
					idx = 0
				}
				if idx > len(m.list.Items()) {
					idx = len(m.list.Items())
				}
				m.list.InsertItem(idx, *m.undoItem)
				m.changed = true
				m.canUndo = false
				m.undoItem = nil
			}
			return m, nil
		}
	}
	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m uiModel) View() string {
	w, h := widthHeight()
	listHeight := h - 4
	if m.adding || m.editing {
		listHeight = h - 6
	}
	m.list.SetSize(w-2, listHeight)

	content := m.list.View()
	if m.adding || m.editing {
		title := "Add task"
		if m.editing {
			title = "Edit task"
		}
		if m.addErr != "" && m.adding {
			title += " — " + ui.ErrorStyle.Render(m.addErr)
		}
		if m.editErr != "" && m.editing {
			title += " — " + ui.ErrorStyle.Render(m.editErr)
		}
		inputLine := title + "\n" + m.ti.View()
		content = content + "\n" + ui.PanelStyle.Render(inputLine)
	}
	return ui.PanelStyle.Render(content)
}

func widthHeight() (int, int) {
	w, h := 80, 24
	if tw, th, err := termSize(); err == nil {
		w, h = tw, th
	}
	return w, h
}

// portable terminal size
func termSize() (int, int, error) {
	fd := int(os.Stdout.Fd())
	type winsize struct {
		Row, Col, Xpixel, Ypixel uint16
	}
	ws := &winsize{}
	_, _, err := syscall.Syscall(syscall.SYS_IOCTL,
		uintptr(fd), uintptr(syscall.TIOCGWINSZ), uintptr(unsafe.Pointer(ws)))
	if err != 0 {
		return 0, 0, fmt.Errorf("ioctl: %v", err)
	}
	return int(ws.Col), int(ws.Row), nil
}

// small list stats used for the header
func stats(tasks []model.Task) (done, pending int) {
	for _, t := range tasks {
		if t.Done {
			done++
		} else {
			pending++
		}
	}
	return
}
