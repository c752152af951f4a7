package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/meigma/pack"
)

func newCreateCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "create <dir> <output>",
		Short: "Pack every regular file under dir into a container",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.create(cmd.Context(), args[0], args[1])
		},
	}
	cmd.Flags().StringP("compression", "c", "deflate", "compression method (store, deflate, zstd)")
	cmd.Flags().IntP("level", "l", -1, "compression level 0-9, -1 for the default")
	cmd.Flags().Int("skip-below", 0, "store blobs smaller than this many bytes and already-compressed files uncompressed")
	cmd.Flags().Int("max-entries", 0, "maximum number of files (0 = default limit, negative = unlimited)")
	cmd.Flags().Int64("max-file-size", 0, "reject files larger than this many bytes (0 = unlimited)")
	return cmd
}

func (a *app) create(ctx context.Context, dir, out string) error {
	method, err := a.cfg.Method()
	if err != nil {
		return err
	}

	opts := []pack.Option{
		pack.WithCompression(method),
		pack.WithCompressionLevel(a.cfg.Level),
		pack.WithLogger(slog.Default()),
	}
	if a.cfg.SkipBelow > 0 {
		opts = append(opts, pack.WithSkipCompression(pack.DefaultSkipCompression(a.cfg.SkipBelow)))
	}
	w := pack.NewWriter(opts...)

	err = pack.Create(ctx, dir, w,
		pack.CreateWithMaxEntries(a.cfg.MaxEntries),
		pack.CreateWithMaxFileSize(a.cfg.MaxFileSize),
		pack.CreateWithProgress(func(ev pack.ProgressEvent) {
			slog.Debug("packed", "stage", ev.Stage.String(), "path", ev.Path, "entries", ev.EntriesDone, "bytes", ev.BytesDone)
		}),
	)
	if err != nil {
		return fmt.Errorf("pack %s: %w", dir, err)
	}

	entries := w.Len()
	buf, err := w.Close()
	if err != nil {
		return err
	}
	if err := os.WriteFile(out, buf, 0o644); err != nil {
		return fmt.Errorf("write container: %w", err)
	}

	slog.Info("container written", "path", out, "entries", entries, "size", len(buf))
	return nil
}
