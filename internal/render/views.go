package render

import (
	"fmt"

	"github.com/dustin/go-humanize"
)

// FormatViews abbreviates large counts to one decimal (1.2M, 3.4K) and groups
// smaller ones with thousands separators.
func FormatViews(views int64) string {
	switch {
	case views >= 1_000_000:
		return fmt.Sprintf("%.1fM", float64(views)/1_000_000)
	case views >= 1_000:
		return fmt.Sprintf("%.1fK", float64(views)/1_000)
	default:
		return humanize.Comma(views)
	}
}
