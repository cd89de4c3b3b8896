package tui

import (
	"math/rand/v2"
	"testing"

	"bjj-foundation/internal/quiz"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newQuizModel(t *testing.T, lang string) *QuizModel {
	t.Helper()
	bank, err := quiz.DefaultBank()
	require.NoError(t, err)
	m, err := NewQuizModel(quiz.NewEngine(bank, rand.NewPCG(5, 6)), lang)
	require.NoError(t, err)
	return m
}

func TestQuizModel_PlayThrough(t *testing.T) {
	m := newQuizModel(t, "en")
	assert.Contains(t, m.View(), "Question 1/15")
	assert.Contains(t, m.View(), "Score: 0/0")

	for i := 0; i < 15; i++ {
		q, err := m.engine.Current(m.State())
		require.NoError(t, err)
		for m.cursor != q.Correct {
			m.Update(tea.KeyMsg{Type: tea.KeyDown})
		}
		m.Update(tea.KeyMsg{Type: tea.KeyEnter})
		require.Equal(t, quiz.StageAnswered, m.State().Stage)
		assert.Contains(t, m.View(), "✓")

		m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	}

	assert.Equal(t, quiz.StageResults, m.State().Stage)
	view := m.View()
	assert.Contains(t, view, "🏆")
	assert.Contains(t, view, "15/15 (100%)")
	assert.Contains(t, view, "Outstanding!")

	m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'r'}})
	assert.Equal(t, quiz.StageDisplaying, m.State().Stage)
	assert.Equal(t, 0, m.State().Score)
}

func TestQuizModel_NumberKeysAnswer(t *testing.T) {
	m := newQuizModel(t, "fr")
	q, err := m.engine.Current(m.State())
	require.NoError(t, err)

	wrong := (q.Correct + 1) % quiz.OptionCount
	m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{rune('1' + wrong)}})

	assert.Equal(t, quiz.StageAnswered, m.State().Stage)
	assert.False(t, m.State().Correct)
	view := m.View()
	assert.Contains(t, view, "✗")
	assert.Contains(t, view, q.Text.In("fr"))
	assert.Contains(t, view, "Question Suivante")
}

func TestQuizModel_Quit(t *testing.T) {
	m := newQuizModel(t, "en")
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}})
	require.NotNil(t, cmd)
	assert.Equal(t, tea.Quit(), cmd())
}
