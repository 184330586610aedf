package cmd

import (
	"fmt"
	"io"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"
	"github.com/spf13/cobra"

	"github.com/go-drift/controls/pkg/diagnostics"
)

func newTraceCmd(env *env) *cobra.Command {
	var (
		keepOpen bool
		metrics  bool
	)

	cmd := &cobra.Command{
		Use:   "trace FILE",
		Short: "Print the lifecycle events of loading and attaching a document",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := env.load(args[0])
			if err != nil {
				return err
			}

			reg := prometheus.NewRegistry()
			m, err := diagnostics.NewMetrics(reg)
			if err != nil {
				return err
			}
			rec := diagnostics.NewRecorder()
			rec.TrackSubtree(res.Root)
			defer rec.Stop()

			tr := env.newTree(rec, m)
			if err := res.AttachTo(tr.Root()); err != nil {
				return err
			}
			if !keepOpen {
				if err := res.Close(); err != nil {
					return err
				}
			}

			out := cmd.OutOrStdout()
			for _, line := range rec.Strings() {
				fmt.Fprintln(out, line)
			}
			if metrics {
				return writeMetrics(out, reg)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&keepOpen, "keep-open", false, "Leave deferInit scopes open")
	cmd.Flags().BoolVar(&metrics, "metrics", false, "Also print lifecycle metrics")
	return cmd
}

func writeMetrics(w io.Writer, g prometheus.Gatherer) error {
	families, err := g.Gather()
	if err != nil {
		return fmt.Errorf("failed to gather metrics: %w", err)
	}
	enc := expfmt.NewEncoder(w, expfmt.NewFormat(expfmt.TypeTextPlain))
	for _, mf := range families {
		if err := enc.Encode(mf); err != nil {
			return fmt.Errorf("failed to encode %s: %w", mf.GetName(), err)
		}
	}
	return nil
}
