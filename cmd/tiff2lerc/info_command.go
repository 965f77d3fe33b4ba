package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"tiff2lerc/contracts"
	"tiff2lerc/converter"
	"tiff2lerc/report"
)

func newInfoCommand(_ *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "info <file.lerc>...",
		Short: "Print the header of LERC blobs",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			enc := converter.NewEncoder(newCodec())
			entries := make([]report.BlobEntry, 0, len(args))
			failed := 0
			for _, path := range args {
				entry := report.BlobEntry{Path: path}
				data, err := os.ReadFile(path)
				if err != nil {
					entry.Err = fmt.Errorf("%w: %v", contracts.ErrIO, err)
				} else {
					entry.Info, entry.Err = enc.BlobInfo(data)
				}
				if entry.Err != nil {
					failed++
				}
				entries = append(entries, entry)
			}
			fmt.Fprint(cmd.OutOrStdout(), report.BlobInfo(entries))
			if failed > 0 {
				return fmt.Errorf("%d of %d blobs could not be read", failed, len(args))
			}
			return nil
		},
	}
}
