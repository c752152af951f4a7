package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/meigma/pack"
)

func newExtractCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "extract <container> <dir>",
		Short: "Extract the entries of a container into dir",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := a.open(args[0])
			if err != nil {
				return err
			}

			stats, err := r.CopyDir(cmd.Context(), args[1],
				pack.CopyWithOverwrite(a.cfg.Overwrite),
				pack.CopyWithPrefix(a.cfg.Prefix),
				pack.CopyWithWorkers(a.cfg.Workers),
				pack.CopyWithProgress(func(ev pack.ProgressEvent) {
					slog.Debug("extracted", "path", ev.Path, "done", ev.EntriesDone, "total", ev.EntriesTotal)
				}),
			)
			if err != nil {
				return fmt.Errorf("extract %s: %w", args[0], err)
			}

			slog.Info("extraction complete", "dest", args[1], "written", stats.Written, "skipped", stats.Skipped, "bytes", stats.Bytes)
			return nil
		},
	}
	cmd.Flags().Bool("overwrite", false, "replace files that already exist")
	cmd.Flags().String("prefix", "", "only extract entries whose path starts with prefix")
	cmd.Flags().Int("workers", 4, "number of entries extracted in parallel")
	return cmd
}
