package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/go-drift/controls/pkg/markup"
)

func newVersionCmd(version string) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the ctltree version",
		// Skip config loading so version works anywhere.
		PersistentPreRunE: func(*cobra.Command, []string) error { return nil },
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "ctltree version %s (markup %s)\n", version, markup.CurrentVersion)
		},
	}
}
