package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"bjj-foundation/internal/catalog"
	"bjj-foundation/internal/debounce"
	"bjj-foundation/internal/service"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

// Searcher is the catalog surface the browser needs.
type Searcher interface {
	Search(ctx context.Context, req service.SearchRequest) (*service.SearchResult, error)
	Facets(ctx context.Context) (catalog.FacetIndex, error)
}

// queryMsg delivers a debounced search query. seq identifies the input that
// scheduled it; a message from before the latest input or clear is stale.
type queryMsg struct {
	value string
	seq   uint64
}

type selector struct {
	key   string
	label string
}

var selectors = []selector{
	{"category", "Category"},
	{"guard", "Guard"},
	{"pass", "Pass"},
	{"sweep", "Sweep"},
	{"position", "Position"},
	{"submission", "Submission"},
	{"takedown", "Takedown"},
	{"channel", "Channel"},
	{"athlete", "Athlete"},
}

// BrowseModel is the interactive catalog browser. Typing edits the search
// query, which is applied once input pauses for the debounce delay.
type BrowseModel struct {
	searcher Searcher
	index    catalog.FacetIndex
	state    catalog.FilterState
	result   *service.SearchResult
	err      error

	input   textinput.Model
	query   *debounce.Query
	queries chan queryMsg
	seq     uint64

	active int
	offset int
	width  int
	height int
	passes int

	styles Styles
}

// NewBrowseModel loads the facet index and runs the initial unfiltered pass.
func NewBrowseModel(searcher Searcher, delay time.Duration) (*BrowseModel, error) {
	idx, err := searcher.Facets(context.Background())
	if err != nil {
		return nil, fmt.Errorf("failed to load facets: %w", err)
	}

	in := textinput.New()
	in.Placeholder = "Search techniques..."
	in.Prompt = "🔍 "
	in.CharLimit = 100
	in.Width = 40
	in.Focus()

	m := &BrowseModel{
		searcher: searcher,
		index:    idx,
		input:    in,
		query:    debounce.NewQuery(delay),
		queries:  make(chan queryMsg, 1),
		height:   24,
		width:    100,
		styles:   DefaultStyles(),
	}
	m.refresh()
	return m, nil
}

func (m *BrowseModel) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.waitForQuery())
}

// waitForQuery blocks until the debouncer delivers a query. It is re-armed
// after every delivery so exactly one waiter is outstanding.
func (m *BrowseModel) waitForQuery() tea.Cmd {
	ch := m.queries
	return func() tea.Msg {
		return <-ch
	}
}

// deliver replaces any undelivered query with v.
func (m *BrowseModel) deliver(v queryMsg) {
	for {
		select {
		case m.queries <- v:
			return
		default:
		}
		select {
		case <-m.queries:
		default:
		}
	}
}

func (m *BrowseModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.input.Width = max(20, msg.Width/2)
		return m, nil

	case queryMsg:
		if msg.seq == m.seq {
			m.applyQuery(msg.value)
		}
		return m, m.waitForQuery()

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			m.query.Cancel()
			return m, tea.Quit
		case "esc":
			m.seq++
			m.query.Clear(func(string) {})
			m.input.SetValue("")
			m.applyQuery("")
			return m, nil
		case "ctrl+r":
			m.seq++
			m.query.Clear(func(string) {})
			m.input.SetValue("")
			m.state = catalog.FilterState{}
			m.refresh()
			return m, nil
		case "tab":
			m.active = (m.active + 1) % len(selectors)
			return m, nil
		case "shift+tab":
			m.active = (m.active + len(selectors) - 1) % len(selectors)
			return m, nil
		case "down":
			m.cycle(1)
			return m, nil
		case "up":
			m.cycle(-1)
			return m, nil
		case "pgdown":
			m.scroll(m.pageSize())
			return m, nil
		case "pgup":
			m.scroll(-m.pageSize())
			return m, nil
		}

		before := m.input.Value()
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		if v := m.input.Value(); v != before {
			m.seq++
			if m.query.Delay() <= 0 {
				m.applyQuery(v)
			} else {
				seq := m.seq
				m.query.Input(v, func(v string) { m.deliver(queryMsg{value: v, seq: seq}) })
			}
		}
		return m, cmd
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *BrowseModel) applyQuery(v string) {
	m.state.SearchQuery = v
	m.refresh()
}

// cycle steps the active selector through its options, with "" as All.
func (m *BrowseModel) cycle(step int) {
	key := selectors[m.active].key
	opts := m.index.Options(key)
	values := make([]string, 0, len(opts)+1)
	values = append(values, "")
	for _, o := range opts {
		values = append(values, o.Value)
	}

	cur := 0
	for i, v := range values {
		if v == m.selected(key) {
			cur = i
			break
		}
	}
	next := (cur + step + len(values)) % len(values)
	m.setSelected(key, values[next])
	m.refresh()
}

func (m *BrowseModel) selected(key string) string {
	switch key {
	case "channel":
		return m.state.Channel
	case "athlete":
		return m.state.Athlete
	}
	if ff, ok := catalog.LookupFacetFilter(key); ok {
		return ff.Value(&m.state)
	}
	return ""
}

func (m *BrowseModel) setSelected(key, v string) {
	switch key {
	case "channel":
		m.state.Channel = v
		return
	case "athlete":
		m.state.Athlete = v
		return
	}
	if ff, ok := catalog.LookupFacetFilter(key); ok {
		ff.Set(&m.state, v)
	}
}

// refresh runs one filter/rank pass for the current state.
func (m *BrowseModel) refresh() {
	m.passes++
	m.offset = 0
	res, err := m.searcher.Search(context.Background(), service.SearchRequest{FilterState: m.state})
	if err != nil {
		m.err = err
		m.result = nil
		return
	}
	m.err = nil
	m.result = res
}

func (m *BrowseModel) pageSize() int {
	// header, input box, selectors, summary and footer
	return max(1, m.height-10)
}

func (m *BrowseModel) scroll(n int) {
	if m.result == nil {
		return
	}
	m.offset = min(max(0, m.offset+n), max(0, len(m.result.Cards)-m.pageSize()))
}

// State returns the filter state of the last pass.
func (m *BrowseModel) State() catalog.FilterState {
	return m.state
}

// Result returns the page of the last pass.
func (m *BrowseModel) Result() *service.SearchResult {
	return m.result
}

// Passes counts filter passes run so far, including the initial one.
func (m *BrowseModel) Passes() int {
	return m.passes
}

func (m *BrowseModel) View() string {
	var sb strings.Builder

	sb.WriteString(m.styles.Header.Render("🥋 BJJ Foundation"))
	sb.WriteString("\n\n")
	sb.WriteString(m.styles.Input.Render(m.input.View()))
	sb.WriteString("\n")
	sb.WriteString(m.renderSelectors())
	sb.WriteString("\n\n")

	if m.err != nil {
		sb.WriteString(m.styles.Error.Render("⚠️ " + m.err.Error()))
		sb.WriteString("\n")
		return sb.String()
	}

	sb.WriteString(m.styles.Muted.Render(m.result.Summary))
	sb.WriteString("\n")

	if len(m.result.Cards) == 0 {
		sb.WriteString("No videos match your filters.\n")
	}
	end := min(len(m.result.Cards), m.offset+m.pageSize())
	for _, c := range m.result.Cards[m.offset:end] {
		line := m.styles.Title.Render(truncate(c.Title, max(20, m.width/2)))
		if c.Views != "" {
			line += m.styles.Muted.Render("  👁️ " + c.Views)
		}
		if c.Flag != "" {
			line += " " + c.Flag
		}
		for _, chip := range c.Chips {
			line += " " + m.styles.Chip.Render("["+chip.Label+"]")
		}
		sb.WriteString(line)
		sb.WriteString("\n")
	}

	if m.result.Hint != "" {
		sb.WriteString(m.styles.Hint.Render(m.result.Hint))
		sb.WriteString("\n")
	}

	sb.WriteString(m.styles.Muted.Render("tab: next filter • ↑/↓: change value • esc: clear search • ctrl+r: reset • pgup/pgdn: scroll • ctrl+c: quit"))
	return sb.String()
}

func (m *BrowseModel) renderSelectors() string {
	parts := make([]string, 0, len(selectors))
	for i, s := range selectors {
		value := "All"
		if v := m.selected(s.key); v != "" {
			value = v
			for _, o := range m.index.Options(s.key) {
				if o.Value == v {
					value = o.Label
					break
				}
			}
		}
		text := s.label + ": " + value
		if i == m.active {
			parts = append(parts, m.styles.Selected.Render("▸ "+text))
		} else {
			parts = append(parts, m.styles.Muted.Render("  "+text))
		}
	}
	return strings.Join(parts, "  ")
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
