package quiz

import (
	"errors"
	"math/rand/v2"
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestEngine(t *testing.T) *Engine {
	t.Helper()
	bank, err := DefaultBank()
	require.NoError(t, err)
	e := NewEngine(bank, rand.NewPCG(1, 2))
	e.newID = func() (string, error) { return "attempt-1", nil }
	return e
}

func TestDefaultBank(t *testing.T) {
	bank, err := DefaultBank()
	require.NoError(t, err)

	assert.Equal(t, 15, bank.Len())
	for _, q := range bank.Questions {
		assert.Len(t, q.OptionsIn("en"), OptionCount, "question %d", q.ID)
		assert.Len(t, q.OptionsIn("fr"), OptionCount, "question %d", q.ID)
		assert.NotEmpty(t, q.Text.In("fr"))
	}

	first := bank.Questions[0]
	assert.Equal(t, "How many points is a successful guard pass worth?", first.Text.In("en"))
	assert.Equal(t, "3 points", first.OptionsIn("en")[first.Correct])
	assert.Equal(t, first.Text.In("en"), first.Text.In("de"), "unknown language falls back to english")

	assert.Equal(t, "Score:", bank.LabelsIn("en").Score)
	assert.Equal(t, "Score :", bank.LabelsIn("fr").Score)
	assert.Equal(t, "Score:", bank.LabelsIn("pt").Score)
}

func TestParseBank_Invalid(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{"empty", "questions: []\nresults: [{min: 0}]"},
		{"three options", `
questions:
  - id: 1
    correct: 0
    text: {en: "q"}
    options: {en: ["a", "b", "c"]}
results: [{min: 0}]`},
		{"correct out of range", `
questions:
  - id: 1
    correct: 4
    text: {en: "q"}
    options: {en: ["a", "b", "c", "d"]}
results: [{min: 0}]`},
		{"tiers without floor", `
questions:
  - id: 1
    correct: 0
    text: {en: "q"}
    options: {en: ["a", "b", "c", "d"]}
results: [{min: 50}]`},
		{"malformed", "questions: {"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseBank([]byte(tt.yaml))
			assert.Error(t, err)
		})
	}
}

func TestStart_ShufflesPermutation(t *testing.T) {
	e := newTestEngine(t)

	s, err := e.Start()
	require.NoError(t, err)
	assert.Equal(t, "attempt-1", s.AttemptID)
	assert.Equal(t, StageDisplaying, s.Stage)
	assert.Equal(t, 0, s.Index)
	assert.Equal(t, 0, s.Score)

	sorted := slices.Clone(s.Order)
	slices.Sort(sorted)
	want := make([]int, 15)
	for i := range want {
		want[i] = i
	}
	assert.Equal(t, want, sorted)
	assert.NoError(t, e.Validate(s))
}

func TestStart_Uniform(t *testing.T) {
	bank := &Bank{
		Questions: make([]Question, 3),
		Results:   []Tier{{Min: 0}},
	}
	e := NewEngine(bank, rand.NewPCG(3, 4))

	counts := map[[3]int]int{}
	const runs = 6000
	for range runs {
		s, err := e.Start()
		require.NoError(t, err)
		counts[[3]int(s.Order)]++
	}

	require.Len(t, counts, 6)
	for perm, n := range counts {
		assert.InDelta(t, runs/6, n, 150, "permutation %v", perm)
	}
}

func TestFullAttempt(t *testing.T) {
	e := newTestEngine(t)
	s, err := e.Start()
	require.NoError(t, err)

	for i := range s.Order {
		q, err := e.Current(s)
		require.NoError(t, err)

		option := q.Correct
		if i%3 == 0 {
			option = (q.Correct + 1) % OptionCount
		}
		s, err = e.Answer(s, option)
		require.NoError(t, err)
		assert.Equal(t, StageAnswered, s.Stage)
		assert.Equal(t, option == q.Correct, s.Correct)
		assert.Equal(t, i+1, s.Answered())

		s, err = e.Next(s)
		require.NoError(t, err)
	}

	assert.Equal(t, StageResults, s.Stage)
	assert.Equal(t, 10, s.Score)

	out, err := e.Outcome(s)
	require.NoError(t, err)
	assert.Equal(t, Outcome{Score: 10, Total: 15, Percentage: 67, Tier: out.Tier}, out)
	assert.Equal(t, "🥉", out.Tier.Emoji)
	assert.Equal(t, "Score: 10/15", ScoreLine(e.Bank().LabelsIn("en"), s))
}

func TestAnswer_DoesNotMutateInput(t *testing.T) {
	e := newTestEngine(t)
	s, err := e.Start()
	require.NoError(t, err)
	before := slices.Clone(s.Order)

	q, err := e.Current(s)
	require.NoError(t, err)
	next, err := e.Answer(s, q.Correct)
	require.NoError(t, err)

	assert.Equal(t, StageDisplaying, s.Stage)
	assert.Equal(t, 0, s.Score)
	assert.Equal(t, 1, next.Score)
	next.Order[0] = -1
	assert.Equal(t, before, s.Order)
}

func TestTransitions_Errors(t *testing.T) {
	e := newTestEngine(t)
	s, err := e.Start()
	require.NoError(t, err)

	_, err = e.Answer(s, 4)
	assert.ErrorIs(t, err, ErrInvalidOption)
	_, err = e.Answer(s, -1)
	assert.ErrorIs(t, err, ErrInvalidOption)

	_, err = e.Next(s)
	assert.ErrorIs(t, err, ErrInvalidStage)

	answered, err := e.Answer(s, 0)
	require.NoError(t, err)
	_, err = e.Answer(answered, 0)
	assert.ErrorIs(t, err, ErrInvalidStage)

	_, err = e.Outcome(answered)
	assert.ErrorIs(t, err, ErrInvalidStage)

	_, err = e.Answer(State{}, 0)
	assert.ErrorIs(t, err, ErrInvalidStage)
}

func TestValidate(t *testing.T) {
	e := newTestEngine(t)
	s, err := e.Start()
	require.NoError(t, err)

	tests := []struct {
		name   string
		mutate func(*State)
	}{
		{"short order", func(s *State) { s.Order = s.Order[:3] }},
		{"duplicate", func(s *State) { s.Order[1] = s.Order[0] }},
		{"out of range entry", func(s *State) { s.Order[0] = 99 }},
		{"index", func(s *State) { s.Index = 15 }},
		{"score above answered", func(s *State) { s.Score = 1 }},
		{"unknown stage", func(s *State) { s.Stage = "paused" }},
		{"early results", func(s *State) { s.Stage = StageResults; s.Index = 2 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bad := s.clone()
			tt.mutate(&bad)
			err := e.Validate(bad)
			assert.True(t, errors.Is(err, ErrInvalidState), "got %v", err)
		})
	}
}

func TestPercentageAndTiers(t *testing.T) {
	bank, err := DefaultBank()
	require.NoError(t, err)

	tests := []struct {
		score, total int
		pct          int
		emoji        string
	}{
		{15, 15, 100, "🏆"},
		{14, 15, 93, "🏆"},
		{13, 15, 87, "🥈"},
		{12, 15, 80, "🥈"},
		{9, 15, 60, "🥉"},
		{8, 15, 53, "📚"},
		{0, 15, 0, "📚"},
		{1, 2, 50, "📚"},
		{0, 0, 0, "📚"},
	}
	for _, tt := range tests {
		pct := Percentage(tt.score, tt.total)
		assert.Equal(t, tt.pct, pct, "%d/%d", tt.score, tt.total)
		assert.Equal(t, tt.emoji, bank.TierFor(pct).Emoji, "%d%%", pct)
	}

	assert.Equal(t, "Keep studying! The rules take time to master!", bank.TierFor(10).Message.In("en"))
	assert.Equal(t, "Keep studying! The rules take time to master!", bank.TierFor(10).Message.In("es"))
}

func TestHeader(t *testing.T) {
	bank, err := DefaultBank()
	require.NoError(t, err)
	s := State{Stage: StageDisplaying, Order: make([]int, 15), Index: 4, Score: 3}

	assert.Equal(t, "Question 5/15", Header(bank.LabelsIn("en"), s))
	assert.Equal(t, "Score : 3/4", ScoreLine(bank.LabelsIn("fr"), s))
}
