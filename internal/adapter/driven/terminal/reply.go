package terminal

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textarea"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/ericfisherdev/prreviewer/internal/domain/model"
)

// replyModel shows a generated reply and collects use, edit or discard.
type replyModel struct {
	subject  string
	draft    string
	editing  bool
	editor   textarea.Model
	decision model.ReplyDecision
	done     bool
	aborted  bool
	st       styles
}

var (
	saveEdit   = key.NewBinding(key.WithKeys("enter", "ctrl+s"))
	cancelEdit = key.NewBinding(key.WithKeys("esc"))
)

func newReplyModel(subject, draft string, st styles) replyModel {
	return replyModel{subject: subject, draft: draft, editor: newEditor(), st: st}
}

// newEditor returns a multi-line editor. Enter saves, so newlines are typed
// with ctrl+j or alt+enter.
func newEditor() textarea.Model {
	ta := textarea.New()
	ta.ShowLineNumbers = false
	ta.Prompt = ""
	ta.CharLimit = 0
	ta.KeyMap.InsertNewline = key.NewBinding(key.WithKeys("ctrl+j", "alt+enter"))
	ta.SetWidth(72)
	ta.SetHeight(6)
	return ta
}

func (m replyModel) Init() tea.Cmd {
	return nil
}

func (m replyModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	k, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	if k.Type == tea.KeyCtrlC {
		m.aborted = true
		return m, tea.Quit
	}
	if m.editing {
		return m.updateEditor(k)
	}

	switch k.String() {
	case "esc", "q":
		m.aborted = true
		return m, tea.Quit
	case "u", "y", "enter":
		m.decision = model.ReplyUse
		m.done = true
		return m, tea.Quit
	case "e":
		m.editing = true
		m.editor.SetValue(m.draft)
		return m, m.editor.Focus()
	case "d", "n":
		m.decision = model.ReplyDiscard
		m.done = true
		return m, tea.Quit
	}
	return m, nil
}

func (m replyModel) updateEditor(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, saveEdit):
		m.decision = model.ReplyEdit
		m.done = true
		m.editor.Blur()
		return m, tea.Quit
	case key.Matches(msg, cancelEdit):
		m.editing = false
		m.editor.Blur()
		m.editor.Reset()
		return m, nil
	}

	var cmd tea.Cmd
	m.editor, cmd = m.editor.Update(msg)
	return m, cmd
}

func (m replyModel) edited() string {
	return strings.TrimSpace(m.editor.Value())
}

func (m replyModel) View() string {
	if m.done || m.aborted {
		return ""
	}

	var b strings.Builder
	b.WriteString(m.st.title.Render("Reply to " + m.subject))
	b.WriteString("\n")
	if m.editing {
		b.WriteString(m.st.box.Render(m.editor.View()))
		b.WriteString("\n")
		b.WriteString(m.st.help.Render("enter save • ctrl+j newline • esc cancel edit • ctrl+u clear line"))
	} else {
		b.WriteString(m.st.box.Render(m.draft))
		b.WriteString("\n")
		b.WriteString(m.st.help.Render("u use • e edit • d discard • q quit"))
	}
	b.WriteString("\n")
	return b.String()
}
