package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/wippyai/textconv/transcoder"
)

func newCodePagesCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "codepages",
		Short: "List supported code pages",
		RunE: func(cmd *cobra.Command, args []string) error {
			active := a.conv.Transcoder()
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tNAME\tMAX BYTES\t")
			for _, info := range transcoder.Supported() {
				mark := ""
				if cp, ok := active.(*transcoder.CodePage); ok && cp.Info().ID == info.ID {
					mark = "*"
				}
				fmt.Fprintf(tw, "%d\t%s\t%d\t%s\n", info.ID, info.Name, info.MaxCharSize, mark)
			}
			return tw.Flush()
		},
	}
}
