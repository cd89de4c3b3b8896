package main

import (
	"errors"
	"fmt"
	"io"

	"bjj-foundation/internal/database"
	"bjj-foundation/internal/dataset"
	"bjj-foundation/internal/repository"
	"bjj-foundation/internal/service"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
)

func newImportCmd(a *app) *cobra.Command {
	var status bool
	cmd := &cobra.Command{
		Use:   "import",
		Short: "Write the source collections into a sqlite snapshot",
		Long: `Loads the technique and fight collections from their sources and
replaces the contents of the --snapshot database with them in one transaction.
Later commands and the server read the snapshot when SNAPSHOT_PATH or
--snapshot is set.

Example:
  catalog import --techniques bjj_simple_processed.json --snapshot catalog.db`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if a.cfg.SnapshotPath == "" {
				return errors.New("--snapshot (or SNAPSHOT_PATH) is required")
			}

			db, err := database.Open(a.cfg.SnapshotPath, a.logger)
			if err != nil {
				return err
			}
			defer db.Close()

			// read from the sources, never from the snapshot being replaced
			loader := dataset.NewConfiguredLoader(a.cfg, nil, dataset.NewHTTPClient(), a.logger)
			snap := service.NewSnapshotService(loader, repository.NewVideoRepository(db, a.logger), a.logger)
			w := cmd.OutOrStdout()

			if status {
				meta, err := snap.Meta(cmd.Context())
				if errors.Is(err, repository.ErrSnapshotEmpty) {
					fmt.Fprintln(w, "snapshot is empty")
					return nil
				}
				if err != nil {
					return err
				}
				writeMeta(w, meta)
				return nil
			}

			meta, err := snap.Import(cmd.Context())
			if err != nil {
				return err
			}
			writeMeta(w, meta)
			return nil
		},
	}
	cmd.Flags().BoolVar(&status, "status", false, "describe the current snapshot instead of importing")
	return cmd
}

func writeMeta(w io.Writer, meta *repository.SnapshotMeta) {
	fmt.Fprintf(w, "snapshot %s: %s techniques, %s fights, imported %s\n",
		meta.ImportID,
		humanize.Comma(int64(meta.Techniques)),
		humanize.Comma(int64(meta.Fights)),
		humanize.Time(meta.ImportedAt),
	)
}
