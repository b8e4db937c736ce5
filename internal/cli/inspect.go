package cli

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/stackdiagram/pkg/diagram"
)

// inspectCommand creates the inspect command, which prints the structure of
// a built diagram.
func (c *CLI) inspectCommand() *cobra.Command {
	var syntax string
	var showEdges bool

	cmd := &cobra.Command{
		Use:   "inspect <manifest|->",
		Short: "Show the nodes, clusters and edges of a manifest",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := c.buildDiagram(cmd.Context(), args[0], syntax, cmd.InOrStdin())
			if err != nil {
				return err
			}

			o := d.Options()
			fmt.Fprintln(stdout, StyleTitle.Render(d.Name()))
			printKeyValue("Title", o.Title)
			printKeyValue("Filename", o.Filename)
			printKeyValue("Direction", string(o.Direction))
			printKeyValue("Formats", strings.Join(o.Formats, ", "))
			printStats(diagramStats{
				nodes:    len(d.Nodes()),
				edges:    len(d.Edges()),
				clusters: len(d.Clusters()),
			})
			printNewline()

			fmt.Fprintln(stdout, nodeTable(d.Nodes()))
			if showEdges && len(d.Edges()) > 0 {
				printNewline()
				fmt.Fprintln(stdout, edgeTable(d.Edges()))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&syntax, "syntax", "", "syntax of a manifest read from stdin")
	cmd.Flags().BoolVarP(&showEdges, "edges", "e", false, "also list every edge")

	return cmd
}

func nodeTable(nodes diagram.Nodes) string {
	rows := make([][]string, 0, len(nodes))
	for _, n := range nodes {
		kind := n.Category()
		if kind == "" {
			kind = "—"
		}
		rows = append(rows, []string{n.ID(), n.Label(), kind, scopePath(n.Scope())})
	}
	return newTable("ID", "Label", "Kind", "Cluster").Rows(rows...).Render()
}

func edgeTable(edges diagram.Edges) string {
	rows := make([][]string, 0, len(edges))
	for _, e := range edges {
		rows = append(rows, []string{e.Source().Label(), iconArrow, e.Target().Label(), e.Attrs().Label})
	}
	return newTable("From", "", "To", "Label").Rows(rows...).Render()
}

func newTable(headers ...string) *table.Table {
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers(headers...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return styleHeader
			}
			if col == 0 {
				return lipgloss.NewStyle().Foreground(colorDim)
			}
			return lipgloss.NewStyle()
		})
}

// scopePath returns the cluster labels from the root down to s, joined by
// " / ". The diagram itself is the empty path.
func scopePath(s diagram.Scope) string {
	var labels []string
	for {
		c, ok := s.(*diagram.Cluster)
		if !ok {
			break
		}
		labels = append([]string{c.Label()}, labels...)
		s = c.Parent()
	}
	if len(labels) == 0 {
		return "—"
	}
	return strings.Join(labels, " / ")
}
