package main

import (
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/meigma/pack"
	"github.com/meigma/pack/internal/checksum"
)

func newCRC32Cmd(*app) *cobra.Command {
	var expect string
	cmd := &cobra.Command{
		Use:   "crc32 <file>...",
		Short: "Print the CRC-32 of the concatenated contents of the files",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ranges := make([][]byte, 0, len(args))
			for _, name := range args {
				data, err := os.ReadFile(name)
				if err != nil {
					return err
				}
				ranges = append(ranges, data)
			}

			if expect != "" {
				want, err := strconv.ParseUint(expect, 0, 32)
				if err != nil {
					return fmt.Errorf("%w: --expect %q: %w", pack.ErrInvalidArgument, expect, err)
				}
				if !checksum.Verify(uint32(want), ranges...) {
					got := pack.CRC32(ranges...)
					return fmt.Errorf("crc32 mismatch: got %08x, want %08x", got, uint32(want))
				}
			}

			sum := pack.CRC32(ranges...)
			_, err := fmt.Fprintf(cmd.OutOrStdout(), "%08x %d\n", sum, sum)
			return err
		},
	}
	cmd.Flags().StringVar(&expect, "expect", "", "fail unless the checksum equals this value (decimal or 0x-prefixed hex)")
	return cmd
}
