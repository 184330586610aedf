package cmd

import (
	"github.com/spf13/cobra"

	"github.com/go-drift/controls/pkg/diagnostics"
)

func newSnapshotCmd(env *env) *cobra.Command {
	var (
		keepOpen bool
		output   string
	)

	cmd := &cobra.Command{
		Use:   "snapshot FILE",
		Short: "Print a JSON snapshot of the attached tree",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, res, err := env.mount(args[0], keepOpen)
			if err != nil {
				return err
			}
			snap := diagnostics.Capture(res.Root)
			if output != "" {
				env.logger.Info("writing snapshot", "path", output, "nodes", snap.Count())
				return snap.UpdateFile(output)
			}
			data, err := snap.JSON()
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(data)
			return err
		},
	}

	cmd.Flags().BoolVar(&keepOpen, "keep-open", false, "Leave deferInit scopes open")
	cmd.Flags().StringVarP(&output, "output", "o", "", "Write the snapshot to a file instead of stdout")
	return cmd
}
