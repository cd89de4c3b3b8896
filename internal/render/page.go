package render

import (
	"fmt"

	"bjj-foundation/internal/domain"
)

type Page struct {
	Cards   []Card `json:"cards"`
	Total   int    `json:"total"`
	Matched int    `json:"matched"`
	Shown   int    `json:"shown"`
	Capped  bool   `json:"capped"`
	Hint    string `json:"hint,omitempty"`
	Summary string `json:"summary"`
}

// BuildPage renders at most maxCards cards unless searching. maxCards <= 0
// means no cap. total is the size of the whole working set.
func BuildPage(results []domain.VideoRecord, total int, searching bool, maxCards int) Page {
	shown := len(results)
	capped := false
	if !searching && maxCards > 0 && shown > maxCards {
		shown = maxCards
		capped = true
	}

	p := Page{
		Cards:   make([]Card, 0, shown),
		Total:   total,
		Matched: len(results),
		Shown:   shown,
		Capped:  capped,
	}
	for i := 0; i < shown; i++ {
		p.Cards = append(p.Cards, NewCard(&results[i]))
	}

	if capped {
		p.Hint = fmt.Sprintf("Showing %d of %d matches - refine search or filters to see more", shown, p.Matched)
	}

	switch {
	case p.Matched == total:
		p.Summary = fmt.Sprintf("Showing all %d techniques", total)
	case capped:
		p.Summary = fmt.Sprintf("Showing %d of %d matching techniques (refine search to see more)", shown, p.Matched)
	default:
		p.Summary = fmt.Sprintf("Showing %d of %d techniques", p.Matched, total)
	}
	return p
}
