package terminal

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/ericfisherdev/prreviewer/internal/domain/port/driven"
)

// checklistModel is a multi-select list.
type checklistModel struct {
	title   string
	options []driven.SelectOption
	checked []bool
	cursor  int
	done    bool
	aborted bool
	st      styles
}

func newChecklist(title string, options []driven.SelectOption, st styles) checklistModel {
	checked := make([]bool, len(options))
	for i, o := range options {
		checked[i] = o.Selected
	}
	return checklistModel{title: title, options: options, checked: checked, st: st}
}

func (m checklistModel) Init() tea.Cmd {
	return nil
}

func (m checklistModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch key.String() {
	case "ctrl+c", "esc", "q":
		m.aborted = true
		return m, tea.Quit
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(m.options)-1 {
			m.cursor++
		}
	case " ", "space", "x":
		if len(m.checked) > 0 {
			m.checked[m.cursor] = !m.checked[m.cursor]
		}
	case "a":
		all := m.allChecked()
		for i := range m.checked {
			m.checked[i] = !all
		}
	case "enter":
		m.done = true
		return m, tea.Quit
	}
	return m, nil
}

func (m checklistModel) allChecked() bool {
	for _, c := range m.checked {
		if !c {
			return false
		}
	}
	return true
}

// selected returns checked indexes in option order.
func (m checklistModel) selected() []int {
	out := []int{}
	for i, c := range m.checked {
		if c {
			out = append(out, i)
		}
	}
	return out
}

func (m checklistModel) View() string {
	if m.done || m.aborted {
		return ""
	}

	var b strings.Builder
	b.WriteString(m.st.title.Render(m.title))
	b.WriteString("\n\n")
	for i, o := range m.options {
		cursor := "  "
		if i == m.cursor {
			cursor = m.st.cursor.Render("> ")
		}
		box := "[ ]"
		if m.checked[i] {
			box = m.st.ok.Render("[x]")
		}
		fmt.Fprintf(&b, "%s%s %s", cursor, box, m.st.label.Render(o.Label))
		if o.Detail != "" {
			b.WriteString("  " + m.st.dim.Render(o.Detail))
		}
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(m.st.help.Render("↑/↓ move • space toggle • a all/none • enter confirm • q quit"))
	b.WriteString("\n")
	return b.String()
}
