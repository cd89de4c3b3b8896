package main

import (
	"fmt"

	"bjj-foundation/internal/quiz"
	"bjj-foundation/internal/rules"
	"bjj-foundation/internal/tui"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
)

func newBrowseCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "browse",
		Short: "Interactive catalog browser",
		Long: `Opens a terminal browser over the catalog. Typing searches once input
pauses for the --debounce delay; Esc clears the search at once.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, cleanup, err := a.loadCatalog()
			if err != nil {
				return err
			}
			defer cleanup()

			m, err := tui.NewBrowseModel(svc, a.cfg.SearchDebounce)
			if err != nil {
				return err
			}
			_, err = tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(cmd.Context())).Run()
			return err
		},
	}
}

func newQuizCmd(a *app) *cobra.Command {
	var lang string
	cmd := &cobra.Command{
		Use:   "quiz",
		Short: "Test your knowledge of the IBJJF rules",
		Args:  cobra.NoArgs,
		// the quiz needs no catalog or configuration
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error { return nil },
		RunE: func(cmd *cobra.Command, args []string) error {
			bank, err := quiz.DefaultBank()
			if err != nil {
				return err
			}
			m, err := tui.NewQuizModel(quiz.NewEngine(bank, nil), lang)
			if err != nil {
				return err
			}
			_, err = tea.NewProgram(m, tea.WithContext(cmd.Context())).Run()
			return err
		},
	}
	cmd.Flags().StringVar(&lang, "lang", "en", "question language (en, fr)")
	return cmd
}

func newRulesCmd(a *app) *cobra.Command {
	var (
		width int
		style string
	)
	cmd := &cobra.Command{
		Use:               "rules",
		Short:             "Show the IBJJF rules reference",
		Args:              cobra.NoArgs,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error { return nil },
		RunE: func(cmd *cobra.Command, args []string) error {
			out, err := rules.Render(width, style)
			if err != nil {
				return err
			}
			_, err = fmt.Fprint(cmd.OutOrStdout(), out)
			return err
		},
	}
	cmd.Flags().IntVar(&width, "width", 80, "word wrap width")
	cmd.Flags().StringVar(&style, "style", "", "glamour style (dark, light, notty); default detects the terminal")
	return cmd
}
