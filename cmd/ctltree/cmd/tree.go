package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/go-drift/controls/pkg/tree"
)

var (
	nameStyle   = lipgloss.NewStyle().Bold(true)
	classStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("6"))
	branchStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))

	phaseStyles = map[tree.Phase]lipgloss.Style{
		tree.PhaseDetached:            lipgloss.NewStyle().Foreground(lipgloss.Color("1")),
		tree.PhaseDetachedInitialized: lipgloss.NewStyle().Foreground(lipgloss.Color("5")),
		tree.PhasePending:             lipgloss.NewStyle().Foreground(lipgloss.Color("3")),
		tree.PhaseInitialized:         lipgloss.NewStyle().Foreground(lipgloss.Color("4")),
		tree.PhaseStyled:              lipgloss.NewStyle().Foreground(lipgloss.Color("2")),
	}
)

func newTreeCmd(env *env) *cobra.Command {
	var (
		keepOpen bool
		withRoot bool
	)

	cmd := &cobra.Command{
		Use:   "tree FILE",
		Short: "Render the attached tree with lifecycle phases",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			tr, res, err := env.mount(args[0], keepOpen)
			if err != nil {
				return err
			}
			top := res.Root
			if withRoot {
				top = tr.Root()
			}
			renderTree(cmd.OutOrStdout(), top)
			return nil
		},
	}

	cmd.Flags().BoolVar(&keepOpen, "keep-open", false, "Leave deferInit scopes open")
	cmd.Flags().BoolVar(&withRoot, "root", false, "Include the tree root")
	return cmd
}

// renderTree writes one line per node using box-drawing branches.
func renderTree(w io.Writer, n *tree.Node) {
	fmt.Fprintln(w, nodeLabel(n))
	renderChildren(w, n, "")
}

func renderChildren(w io.Writer, n *tree.Node, prefix string) {
	children := n.Children()
	for i, child := range children {
		branch, indent := "├── ", "│   "
		if i == len(children)-1 {
			branch, indent = "└── ", "    "
		}
		fmt.Fprintln(w, branchStyle.Render(prefix+branch)+nodeLabel(child))
		renderChildren(w, child, prefix+indent)
	}
}

func nodeLabel(n *tree.Node) string {
	var b strings.Builder
	b.WriteString(nameStyle.Render(n.String()))
	if n.Classes().Len() > 0 {
		b.WriteString(" ")
		b.WriteString(classStyle.Render("." + strings.Join(n.Classes().Items(), ".")))
	}
	b.WriteString(" ")
	b.WriteString(phaseStyles[n.Phase()].Render(n.Phase().String()))
	if depth := n.InitDepth(); depth > 0 {
		fmt.Fprintf(&b, " (open scopes: %d)", depth)
	}
	if ip := n.InheritanceParent(); ip != nil && ip != n.Parent() {
		fmt.Fprintf(&b, " inherits %s", ip)
	}
	return b.String()
}
