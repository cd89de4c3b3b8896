package quiz

import (
	_ "embed"
	"fmt"
	"sync"

	"gopkg.in/yaml.v3"
)

// OptionCount is the number of options every question carries.
const OptionCount = 4

const defaultLanguage = "en"

// Text is a string keyed by language code.
type Text map[string]string

// In returns the text for lang, falling back to English.
func (t Text) In(lang string) string {
	if s, ok := t[lang]; ok {
		return s
	}
	return t[defaultLanguage]
}

// Question is one bank entry. Correct indexes into the options.
type Question struct {
	ID      int                 `yaml:"id"`
	Text    Text                `yaml:"text"`
	Options map[string][]string `yaml:"options"`
	Correct int                 `yaml:"correct"`
}

// OptionsIn returns the options for lang, falling back to English.
func (q Question) OptionsIn(lang string) []string {
	if opts, ok := q.Options[lang]; ok {
		return opts
	}
	return q.Options[defaultLanguage]
}

// Tier is one rung of the result ladder.
type Tier struct {
	Min     int    `yaml:"min"`
	Emoji   string `yaml:"emoji"`
	Message Text   `yaml:"message"`
}

// Labels are the fixed UI strings shown around the questions.
type Labels struct {
	Score        string `yaml:"score" json:"score"`
	Question     string `yaml:"question" json:"question"`
	Submit       string `yaml:"submit" json:"submit"`
	Next         string `yaml:"next" json:"next"`
	TryAgain     string `yaml:"try_again" json:"tryAgain"`
	SelectAnswer string `yaml:"select_answer" json:"selectAnswer"`
}

// Bank is the fixed question bank with its result tiers, ordered by
// descending Min.
type Bank struct {
	Questions []Question        `yaml:"questions"`
	Results   []Tier            `yaml:"results"`
	Labels    map[string]Labels `yaml:"labels"`
}

// Len returns the number of questions.
func (b *Bank) Len() int {
	return len(b.Questions)
}

// LabelsIn returns the UI labels for lang, falling back to English.
func (b *Bank) LabelsIn(lang string) Labels {
	if l, ok := b.Labels[lang]; ok {
		return l
	}
	return b.Labels[defaultLanguage]
}

func (b *Bank) validate() error {
	if len(b.Questions) == 0 {
		return fmt.Errorf("question bank is empty")
	}
	for _, q := range b.Questions {
		if q.Text.In(defaultLanguage) == "" {
			return fmt.Errorf("question %d has no english text", q.ID)
		}
		for lang, opts := range q.Options {
			if len(opts) != OptionCount {
				return fmt.Errorf("question %d has %d %s options, want %d", q.ID, len(opts), lang, OptionCount)
			}
		}
		if len(q.OptionsIn(defaultLanguage)) != OptionCount {
			return fmt.Errorf("question %d has no english options", q.ID)
		}
		if q.Correct < 0 || q.Correct >= OptionCount {
			return fmt.Errorf("question %d has correct index %d out of range", q.ID, q.Correct)
		}
	}
	if len(b.Results) == 0 || b.Results[len(b.Results)-1].Min != 0 {
		return fmt.Errorf("result tiers must end with a zero minimum")
	}
	for i := 1; i < len(b.Results); i++ {
		if b.Results[i].Min >= b.Results[i-1].Min {
			return fmt.Errorf("result tiers must be ordered by descending minimum")
		}
	}
	return nil
}

// ParseBank decodes and validates a YAML question bank.
func ParseBank(data []byte) (*Bank, error) {
	var b Bank
	if err := yaml.Unmarshal(data, &b); err != nil {
		return nil, fmt.Errorf("failed to parse question bank: %w", err)
	}
	if err := b.validate(); err != nil {
		return nil, fmt.Errorf("invalid question bank: %w", err)
	}
	return &b, nil
}

//go:embed questions.yaml
var questionsYAML []byte

var loadBank = sync.OnceValues(func() (*Bank, error) {
	return ParseBank(questionsYAML)
})

// DefaultBank returns the embedded IBJJF rules bank. The result is shared and
// must not be modified.
func DefaultBank() (*Bank, error) {
	return loadBank()
}
