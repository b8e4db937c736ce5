package cli

import (
	"context"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/stackdiagram/pkg/diagram"
	"github.com/matzehuels/stackdiagram/pkg/errors"
	pkgio "github.com/matzehuels/stackdiagram/pkg/io"
	"github.com/matzehuels/stackdiagram/pkg/pipeline"
	"github.com/matzehuels/stackdiagram/pkg/render/dot"
)

// dotCommand creates the dot command, which prints the DOT text of a
// manifest without rendering it.
func (c *CLI) dotCommand() *cobra.Command {
	var output, syntax, direction string

	cmd := &cobra.Command{
		Use:   "dot <manifest|->",
		Short: "Print the Graphviz DOT text of a manifest",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := c.buildDiagram(cmd.Context(), args[0], syntax, cmd.InOrStdin(), c.diagramOptions(direction)...)
			if err != nil {
				return err
			}
			text, err := dot.ToDOT(d)
			if err != nil {
				return err
			}
			if output == "" {
				_, err = io.WriteString(cmd.OutOrStdout(), text)
				return err
			}
			if err := os.WriteFile(output, []byte(text), 0o644); err != nil {
				return errors.Wrap(errors.ErrCodeWriteFailure, err, "write %s", output)
			}
			printFile(output)
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "write to file instead of stdout")
	cmd.Flags().StringVar(&syntax, "syntax", "", "syntax of a manifest read from stdin")
	cmd.Flags().StringVarP(&direction, "direction", "d", "", "rank direction: TB, BT, LR, RL")

	return cmd
}

// buildDiagram loads and builds one manifest, reporting the build to the
// pipeline hooks.
func (c *CLI) buildDiagram(ctx context.Context, path, syntax string, stdin io.Reader, opts ...diagram.Option) (*diagram.Diagram, error) {
	m, err := loadManifest(path, syntax, stdin)
	if err != nil {
		return nil, err
	}
	return c.builder().Build(ctx, m, opts...)
}

// builder returns a runner used only for its Build stage.
func (c *CLI) builder() *pipeline.Runner {
	return pipeline.NewRunner(nil, nil, nil, c.Logger)
}

// exportCommand creates the export command, which writes a manifest back
// out in normalized form.
func (c *CLI) exportCommand() *cobra.Command {
	var output, syntax, to string

	cmd := &cobra.Command{
		Use:   "export <manifest|->",
		Short: "Convert a manifest to normalized JSON or YAML",
		Long: `Export builds a manifest and writes the resulting diagram back as a
manifest: every node gets an explicit ref and every edge is a single
source and target pair. This is useful to convert HCL or TOML manifests
and to see how fan-out edges were expanded.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := c.buildDiagram(cmd.Context(), args[0], syntax, cmd.InOrStdin())
			if err != nil {
				return err
			}

			switch to {
			case "json":
				if output != "" {
					if err := pkgio.ExportJSON(d, output); err != nil {
						return errors.Wrap(errors.ErrCodeWriteFailure, err, "export")
					}
					printFile(output)
					return nil
				}
				return pkgio.WriteJSON(d, cmd.OutOrStdout())
			case "yaml", "yml":
				w := cmd.OutOrStdout()
				if output != "" {
					f, err := os.Create(output)
					if err != nil {
						return errors.Wrap(errors.ErrCodeWriteFailure, err, "create %s", output)
					}
					defer f.Close()
					w = f
				}
				if err := pkgio.WriteYAML(d, w); err != nil {
					return errors.Wrap(errors.ErrCodeWriteFailure, err, "export")
				}
				if output != "" {
					printFile(output)
				}
				return nil
			}
			return errors.New(errors.ErrCodeInvalidFormat, "unsupported export format %q (want json or yaml)", to)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "write to file instead of stdout")
	cmd.Flags().StringVar(&syntax, "syntax", "", "syntax of a manifest read from stdin")
	cmd.Flags().StringVarP(&to, "to", "t", "json", "export format: json, yaml")

	return cmd
}
