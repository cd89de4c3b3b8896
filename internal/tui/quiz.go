package tui

import (
	"fmt"
	"strings"

	"bjj-foundation/internal/quiz"

	tea "github.com/charmbracelet/bubbletea"
)

// QuizModel runs one quiz attempt at a time in the terminal.
type QuizModel struct {
	engine *quiz.Engine
	lang   string
	labels quiz.Labels

	state   quiz.State
	cursor  int
	outcome *quiz.Outcome
	err     error

	styles Styles
}

func NewQuizModel(engine *quiz.Engine, lang string) (*QuizModel, error) {
	m := &QuizModel{
		engine: engine,
		lang:   lang,
		labels: engine.Bank().LabelsIn(lang),
		styles: DefaultStyles(),
	}
	if err := m.restart(); err != nil {
		return nil, err
	}
	return m, nil
}

func (m *QuizModel) restart() error {
	s, err := m.engine.Start()
	if err != nil {
		return err
	}
	m.state = s
	m.cursor = 0
	m.outcome = nil
	m.err = nil
	return nil
}

func (m *QuizModel) Init() tea.Cmd {
	return nil
}

func (m *QuizModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch key.String() {
	case "ctrl+c", "q":
		return m, tea.Quit
	case "up", "k":
		if m.state.Stage == quiz.StageDisplaying {
			m.cursor = (m.cursor + quiz.OptionCount - 1) % quiz.OptionCount
		}
	case "down", "j":
		if m.state.Stage == quiz.StageDisplaying {
			m.cursor = (m.cursor + 1) % quiz.OptionCount
		}
	case "1", "2", "3", "4":
		if m.state.Stage == quiz.StageDisplaying {
			m.cursor = int(key.Runes[0] - '1')
			m.submit()
		}
	case "enter", " ":
		switch m.state.Stage {
		case quiz.StageDisplaying:
			m.submit()
		case quiz.StageAnswered:
			m.next()
		case quiz.StageResults:
			m.err = m.restart()
		}
	case "r":
		if m.state.Stage == quiz.StageResults {
			m.err = m.restart()
		}
	}
	return m, nil
}

func (m *QuizModel) submit() {
	s, err := m.engine.Answer(m.state, m.cursor)
	if err != nil {
		m.err = err
		return
	}
	m.state = s
}

func (m *QuizModel) next() {
	s, err := m.engine.Next(m.state)
	if err != nil {
		m.err = err
		return
	}
	m.state = s
	m.cursor = 0
	if s.Stage == quiz.StageResults {
		out, err := m.engine.Outcome(s)
		if err != nil {
			m.err = err
			return
		}
		m.outcome = &out
	}
}

// State returns the current attempt.
func (m *QuizModel) State() quiz.State {
	return m.state
}

func (m *QuizModel) View() string {
	var sb strings.Builder
	sb.WriteString(m.styles.Header.Render("🎯 IBJJF Rules Quiz"))
	sb.WriteString("\n\n")

	if m.err != nil {
		sb.WriteString(m.styles.Error.Render("⚠️ " + m.err.Error()))
		sb.WriteString("\n")
		return sb.String()
	}

	if m.outcome != nil {
		t := m.outcome.Tier
		sb.WriteString(fmt.Sprintf("%s\n\n", t.Emoji))
		sb.WriteString(m.styles.Title.Render(fmt.Sprintf("%d/%d (%d%%)", m.outcome.Score, m.outcome.Total, m.outcome.Percentage)))
		sb.WriteString("\n")
		sb.WriteString(t.Message.In(m.lang))
		sb.WriteString("\n\n")
		sb.WriteString(m.styles.Muted.Render("enter/r: " + m.labels.TryAgain + " • q: quit"))
		return sb.String()
	}

	q, err := m.engine.Current(m.state)
	if err != nil {
		sb.WriteString(m.styles.Error.Render("⚠️ " + err.Error()))
		return sb.String()
	}

	sb.WriteString(m.styles.Muted.Render(quiz.Header(m.labels, m.state) + "  •  " + quiz.ScoreLine(m.labels, m.state)))
	sb.WriteString("\n\n")
	sb.WriteString(m.styles.Title.Render(q.Text.In(m.lang)))
	sb.WriteString("\n\n")

	answered := m.state.Stage == quiz.StageAnswered
	for i, opt := range q.OptionsIn(m.lang) {
		marker := "  "
		if i == m.cursor {
			marker = "▸ "
		}
		line := fmt.Sprintf("%s%d. %s", marker, i+1, opt)
		switch {
		case answered && i == q.Correct:
			line = m.styles.Success.Render(line + " ✓")
		case answered && i == m.state.Selected:
			line = m.styles.Error.Render(line + " ✗")
		case i == m.cursor:
			line = m.styles.Selected.Render(line)
		}
		sb.WriteString(line)
		sb.WriteString("\n")
	}

	sb.WriteString("\n")
	if answered {
		sb.WriteString(m.styles.Muted.Render("enter: " + m.labels.Next + " • q: quit"))
	} else {
		sb.WriteString(m.styles.Muted.Render("↑/↓ or 1-4 • enter: " + m.labels.Submit + " • q: quit"))
	}
	return sb.String()
}
