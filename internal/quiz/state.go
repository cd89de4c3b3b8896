package quiz

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"sync"

	gonanoid "github.com/matoous/go-nanoid/v2"
)

var (
	ErrInvalidStage  = errors.New("transition not allowed in current stage")
	ErrInvalidOption = errors.New("option out of range")
	ErrInvalidState  = errors.New("quiz state does not match the question bank")
)

type Stage string

const (
	StageNotStarted Stage = "not_started"
	StageDisplaying Stage = "displaying"
	StageAnswered   Stage = "answered"
	StageResults    Stage = "results"
)

// State is one quiz attempt. Order is the shuffled permutation of bank
// indexes; Index points into Order. Selected and Correct describe the last
// answer and are only meaningful in StageAnswered.
type State struct {
	AttemptID string `json:"attemptId"`
	Stage     Stage  `json:"stage"`
	Order     []int  `json:"order"`
	Index     int    `json:"index"`
	Score     int    `json:"score"`
	Selected  int    `json:"selected"`
	Correct   bool   `json:"correct"`
}

// Answered returns how many questions have been answered so far.
func (s State) Answered() int {
	switch s.Stage {
	case StageAnswered:
		return s.Index + 1
	case StageResults:
		return len(s.Order)
	case StageDisplaying:
		return s.Index
	default:
		return 0
	}
}

// Outcome is the terminal summary of an attempt.
type Outcome struct {
	Score      int  `json:"score"`
	Total      int  `json:"total"`
	Percentage int  `json:"percentage"`
	Tier       Tier `json:"-"`
}

// Engine drives attempts over a bank. Only Start draws randomness; the other
// transitions are pure functions of their input state.
type Engine struct {
	bank  *Bank
	mu    sync.Mutex
	rng   *rand.Rand
	newID func() (string, error)
}

// NewEngine returns an engine shuffling with src. A nil src seeds from the
// runtime's random source.
func NewEngine(bank *Bank, src rand.Source) *Engine {
	if src == nil {
		src = rand.NewPCG(rand.Uint64(), rand.Uint64())
	}
	return &Engine{
		bank:  bank,
		rng:   rand.New(src),
		newID: func() (string, error) { return gonanoid.New() },
	}
}

func (e *Engine) Bank() *Bank {
	return e.bank
}

// Start begins a new attempt on a freshly shuffled question order.
func (e *Engine) Start() (State, error) {
	id, err := e.newID()
	if err != nil {
		return State{}, fmt.Errorf("failed to generate attempt id: %w", err)
	}

	order := make([]int, e.bank.Len())
	for i := range order {
		order[i] = i
	}

	e.mu.Lock()
	// Fisher-Yates
	for i := len(order) - 1; i > 0; i-- {
		j := e.rng.IntN(i + 1)
		order[i], order[j] = order[j], order[i]
	}
	e.mu.Unlock()

	return State{
		AttemptID: id,
		Stage:     StageDisplaying,
		Order:     order,
	}, nil
}

// Current returns the question at the state's position.
func (e *Engine) Current(s State) (Question, error) {
	if err := e.Validate(s); err != nil {
		return Question{}, err
	}
	if s.Stage != StageDisplaying && s.Stage != StageAnswered {
		return Question{}, fmt.Errorf("%w: no current question in stage %s", ErrInvalidStage, s.Stage)
	}
	return e.bank.Questions[s.Order[s.Index]], nil
}

// Answer records option for the displayed question.
func (e *Engine) Answer(s State, option int) (State, error) {
	q, err := e.Current(s)
	if err != nil {
		return s, err
	}
	if s.Stage != StageDisplaying {
		return s, fmt.Errorf("%w: cannot answer in stage %s", ErrInvalidStage, s.Stage)
	}
	if option < 0 || option >= OptionCount {
		return s, fmt.Errorf("%w: %d", ErrInvalidOption, option)
	}

	next := s.clone()
	next.Stage = StageAnswered
	next.Selected = option
	next.Correct = option == q.Correct
	if next.Correct {
		next.Score++
	}
	return next, nil
}

// Next moves past an answered question, to the results after the last one.
func (e *Engine) Next(s State) (State, error) {
	if err := e.Validate(s); err != nil {
		return s, err
	}
	if s.Stage != StageAnswered {
		return s, fmt.Errorf("%w: cannot advance in stage %s", ErrInvalidStage, s.Stage)
	}

	next := s.clone()
	next.Selected = 0
	next.Correct = false
	if s.Index+1 < len(s.Order) {
		next.Index++
		next.Stage = StageDisplaying
	} else {
		next.Stage = StageResults
	}
	return next, nil
}

// Outcome computes the final percentage and tier of a finished attempt.
func (e *Engine) Outcome(s State) (Outcome, error) {
	if err := e.Validate(s); err != nil {
		return Outcome{}, err
	}
	if s.Stage != StageResults {
		return Outcome{}, fmt.Errorf("%w: attempt not finished", ErrInvalidStage)
	}
	total := len(s.Order)
	pct := Percentage(s.Score, total)
	return Outcome{
		Score:      s.Score,
		Total:      total,
		Percentage: pct,
		Tier:       e.bank.TierFor(pct),
	}, nil
}

// Validate checks that s is a reachable state for this bank.
func (e *Engine) Validate(s State) error {
	switch s.Stage {
	case StageNotStarted, "":
		return fmt.Errorf("%w: attempt not started", ErrInvalidStage)
	case StageDisplaying, StageAnswered, StageResults:
	default:
		return fmt.Errorf("%w: unknown stage %q", ErrInvalidState, s.Stage)
	}

	n := e.bank.Len()
	if len(s.Order) != n {
		return fmt.Errorf("%w: order has %d entries, want %d", ErrInvalidState, len(s.Order), n)
	}
	seen := make([]bool, n)
	for _, i := range s.Order {
		if i < 0 || i >= n || seen[i] {
			return fmt.Errorf("%w: order is not a permutation", ErrInvalidState)
		}
		seen[i] = true
	}
	if s.Index < 0 || s.Index >= n {
		return fmt.Errorf("%w: index %d out of range", ErrInvalidState, s.Index)
	}
	if s.Stage == StageResults && s.Index != n-1 {
		return fmt.Errorf("%w: results before the last question", ErrInvalidState)
	}
	if s.Score < 0 || s.Score > s.Answered() {
		return fmt.Errorf("%w: score %d with %d answered", ErrInvalidState, s.Score, s.Answered())
	}
	return nil
}

func (s State) clone() State {
	s.Order = append([]int(nil), s.Order...)
	return s
}

// Percentage rounds 100*score/total half up.
func Percentage(score, total int) int {
	if total <= 0 {
		return 0
	}
	return (200*score + total) / (2 * total)
}

// TierFor returns the first tier whose minimum pct reaches.
func (b *Bank) TierFor(pct int) Tier {
	for _, t := range b.Results {
		if pct >= t.Min {
			return t
		}
	}
	return b.Results[len(b.Results)-1]
}

// ScoreLine renders the running "Score: s/answered" line.
func ScoreLine(l Labels, s State) string {
	return fmt.Sprintf("%s %d/%d", l.Score, s.Score, s.Answered())
}

// Header renders "Question i/n" for the displayed question.
func Header(l Labels, s State) string {
	return fmt.Sprintf("%s %d/%d", l.Question, s.Index+1, len(s.Order))
}
