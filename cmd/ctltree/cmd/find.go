package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/go-drift/controls/pkg/tree"
)

func newFindCmd(env *env) *cobra.Command {
	var (
		kind     string
		class    string
		keepOpen bool
	)

	cmd := &cobra.Command{
		Use:   "find FILE NAME",
		Short: "Look up a named control in the attached tree",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			tr, _, err := env.mount(args[0], keepOpen)
			if err != nil {
				return err
			}
			var filters []tree.Filter
			if kind != "" {
				filters = append(filters, tree.OfKind(kind))
			}
			if class != "" {
				filters = append(filters, tree.WithClass(class))
			}
			n, ok := tr.Find(args[1], filters...)
			if !ok {
				return fmt.Errorf("no initialized control named %q", args[1])
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s parent=%s\n", n, n.Phase(), n.Parent())
			return nil
		},
	}

	cmd.Flags().StringVar(&kind, "kind", "", "Only match controls of this kind")
	cmd.Flags().StringVar(&class, "class", "", "Only match controls carrying this class")
	cmd.Flags().BoolVar(&keepOpen, "keep-open", false, "Leave deferInit scopes open")
	return cmd
}
