package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"bjj-foundation/internal/catalog"
	"bjj-foundation/internal/service"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
)

func newSearchCmd(a *app) *cobra.Command {
	var (
		state   catalog.FilterState
		asJSON  bool
		filters = map[string]*string{}
	)

	cmd := &cobra.Command{
		Use:   "search [query]",
		Short: "Filter and rank the catalog",
		Long: `Prints the matching videos, most viewed first.

Facet values match case-insensitively against the classification tags.
--category only checks that the named facet is present on a video.
Fight videos are excluded as soon as any facet filter is set, and
--athlete matches fight videos only.

Example:
  catalog search armbar --guard "closed guard"
  catalog search --athlete gordon`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 1 {
				state.SearchQuery = args[0]
			}
			for _, ff := range catalog.FacetFilters {
				ff.Set(&state, *filters[ff.Key])
			}

			svc, cleanup, err := a.loadCatalog()
			if err != nil {
				return err
			}
			defer cleanup()

			res, err := svc.Search(cmd.Context(), service.SearchRequest{FilterState: state})
			if err != nil {
				return err
			}

			if asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(res)
			}
			writeResults(cmd.OutOrStdout(), res, svc.MaxCards())
			return nil
		},
	}

	f := cmd.Flags()
	for _, ff := range catalog.FacetFilters {
		filters[ff.Key] = f.String(ff.Key, "", fmt.Sprintf("%s filter", ff.Key))
	}
	f.StringVar(&state.Channel, "channel", "", "channel name")
	f.StringVar(&state.Athlete, "athlete", "", "fight athlete (substring)")
	f.BoolVar(&asJSON, "json", false, "print the result page as JSON")
	return cmd
}

func writeResults(w io.Writer, res *service.SearchResult, maxCards int) {
	fmt.Fprintln(w, res.Summary)
	if len(res.Cards) == 0 {
		fmt.Fprintln(w, "No videos match your filters.")
		return
	}

	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("#", "TITLE", "VIEWS", "LANG", "TAGS")
	for i, c := range res.Cards {
		tags := make([]string, 0, len(c.Chips))
		for _, chip := range c.Chips {
			tags = append(tags, chip.Label)
		}
		t.Row(humanize.Comma(int64(i+1)), c.Title, c.Views, c.Flag, strings.Join(tags, ", "))
	}
	fmt.Fprintln(w, t.Render())

	if res.Hint != "" {
		fmt.Fprintln(w, res.Hint)
	}
	if res.Capped {
		fmt.Fprintf(w, "Listing is capped at %s cards; --max-cards 0 lists every match.\n", humanize.Comma(int64(maxCards)))
	}
}

func newFacetsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "facets",
		Short: "List the selectable filter values",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, cleanup, err := a.loadCatalog()
			if err != nil {
				return err
			}
			defer cleanup()

			idx, err := svc.Facets(cmd.Context())
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "%s videos\n", humanize.Comma(int64(svc.Total())))
			for _, key := range []string{"category", "guard", "pass", "sweep", "position", "submission", "takedown", "channel", "athlete"} {
				opts := idx.Options(key)
				labels := make([]string, 0, len(opts))
				for _, o := range opts {
					labels = append(labels, o.Label)
				}
				fmt.Fprintf(w, "\n%s (%s)\n", key, humanize.Comma(int64(len(opts))))
				if len(labels) > 0 {
					fmt.Fprintf(w, "  %s\n", strings.Join(labels, ", "))
				}
			}
			return nil
		},
	}
}
