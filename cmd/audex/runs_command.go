package main

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"audex/internal/manifest"
)

func newRunsCommand(cmdCtx *commandContext) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "runs",
		Short: "List recent extraction runs from the manifest",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := cmdCtx.ensureConfig()
			if err != nil {
				return err
			}
			if cfg.Paths.ManifestDB == "" {
				return errors.New("no manifest configured; set paths.manifest_db to record run history")
			}

			store, err := manifest.Open(cfg.Paths.ManifestDB)
			if err != nil {
				return err
			}
			defer store.Close()

			runs, err := store.ListRuns(cmd.Context(), limit)
			if err != nil {
				return err
			}
			if len(runs) == 0 {
				fmt.Println("no runs recorded")
				return nil
			}

			headers := []string{"Started", "Mode", "Input", "Format", "Rows", "OK", "Failed"}
			rows := make([][]string, 0, len(runs))
			for _, run := range runs {
				started := ""
				if !run.StartedAt.IsZero() {
					started = run.StartedAt.Local().Format(time.DateTime)
				}
				rows = append(rows, []string{
					started,
					run.Mode,
					run.Input,
					run.Format,
					strconv.FormatInt(run.TotalRows, 10),
					strconv.FormatInt(run.FilesOK, 10),
					strconv.FormatInt(run.FilesFailed, 10),
				})
			}
			fmt.Println(renderTable(headers, rows, 5, 6, 7))
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "Maximum number of runs to show")
	return cmd
}
