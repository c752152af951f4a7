package main

import (
	"fmt"
	"log/slog"
	"os"
	"text/tabwriter"

	"github.com/opencontainers/go-digest"
	"github.com/spf13/cobra"

	"github.com/meigma/pack"
)

func newListCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list <container>",
		Short: "List the entries of a container",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.list(cmd, args[0])
		},
	}
	cmd.Flags().Bool("digest", false, "decompress every entry and print its sha256 digest")
	cmd.Flags().String("prefix", "", "only list entries whose path starts with prefix")
	return cmd
}

func (a *app) list(cmd *cobra.Command, path string) error {
	r, err := a.open(path)
	if err != nil {
		return err
	}

	tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	if a.cfg.Digest {
		fmt.Fprintln(tw, "PATH\tMETHOD\tSTORED\tDIGEST")
	} else {
		fmt.Fprintln(tw, "PATH\tMETHOD\tSTORED")
	}

	for e := range r.EntriesWithPrefix(a.cfg.Prefix) {
		if !a.cfg.Digest {
			fmt.Fprintf(tw, "%s\t%s\t%d\n", e.Path(), e.Compression(), e.CompressedSize())
			continue
		}
		data, err := r.Read(e)
		if err != nil {
			return err
		}
		fmt.Fprintf(tw, "%s\t%s\t%d\t%s\n", e.Path(), e.Compression(), e.CompressedSize(), digest.FromBytes(data))
	}
	return tw.Flush()
}

// open reads and parses a container file.
func (a *app) open(path string) (*pack.Reader, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read container: %w", err)
	}
	r, err := pack.FromData(data,
		pack.WithMaxEntrySize(a.cfg.MaxEntrySize),
		pack.WithReaderLogger(slog.Default()),
	)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return r, nil
}
