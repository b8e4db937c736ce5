package cli

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/stackdiagram/pkg/diagram"
	"github.com/matzehuels/stackdiagram/pkg/pipeline"
)

// renderOpts holds the command-line flags for the render command.
type renderOpts struct {
	output    string // output directory
	formats   string // comma-separated formats; empty keeps config or manifest formats
	syntax    string // syntax of a manifest read from stdin
	direction string // rank direction override
	backend   string // render backend override
	noCache   bool   // bypass the artifact cache entirely
	refresh   bool   // skip cache reads but store fresh artifacts
}

// renderCommand creates the render command.
func (c *CLI) renderCommand() *cobra.Command {
	var opts renderOpts

	cmd := &cobra.Command{
		Use:   "render [manifest|dir|-]...",
		Short: "Render manifests to PNG, JPG, SVG, PDF or DOT",
		Long: `Render builds each manifest, serializes it to DOT and renders every
requested format with the configured backend. Artifacts are written to the
output directory as <filename>.<ext>.

A directory argument renders every manifest in it; on a terminal, a
directory holding several manifests opens a picker instead. "-" reads one
manifest from stdin (see --syntax).`,
		Example: `  stackdiagram render web.yaml
  stackdiagram render -f svg,png -o out/ diagrams/
  cat web.hcl | stackdiagram render --syntax hcl -`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runRender(cmd.Context(), cmd.InOrStdin(), args, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output directory (default render.out_dir or .)")
	cmd.Flags().StringVarP(&opts.formats, "format", "f", "", "output format(s): png, jpg, svg, pdf, dot (comma-separated)")
	cmd.Flags().StringVar(&opts.syntax, "syntax", "", "syntax of a manifest read from stdin: yaml (default), json, toml, hcl")
	cmd.Flags().StringVarP(&opts.direction, "direction", "d", "", "rank direction: TB, BT, LR, RL")
	cmd.Flags().StringVar(&opts.backend, "backend", "", "render backend: graphviz, exec")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable the artifact cache")
	cmd.Flags().BoolVar(&opts.refresh, "refresh", false, "re-render even when cached")

	return cmd
}

func (c *CLI) runRender(ctx context.Context, stdin io.Reader, args []string, opts renderOpts) error {
	paths, err := resolveManifests(ctx, args, true)
	if err != nil {
		return err
	}

	runner, err := c.newRunner(ctx, runnerOptions{noCache: opts.noCache, backend: opts.backend})
	if err != nil {
		return err
	}
	defer runner.Close()

	outDir := opts.output
	if outDir == "" {
		outDir = c.Config.Render.OutDir
	}
	if outDir == "" {
		outDir = "."
	}

	popts := pipeline.Options{
		Formats:        parseFormats(opts.formats, c.Config.Render.Formats),
		OutDir:         outDir,
		Refresh:        opts.refresh,
		DiagramOptions: c.diagramOptions(opts.direction),
		Logger:         c.Logger,
	}

	for _, path := range paths {
		m, err := loadManifest(path, opts.syntax, stdin)
		if err != nil {
			return err
		}

		mopts := popts
		mopts.Logger = manifestLogger(c.Logger, path)

		spinner := newSpinnerWithContext(ctx, fmt.Sprintf("Rendering %s...", m.Name))
		spinner.Start()
		res, err := runner.Execute(ctx, m, mopts)
		if err != nil {
			spinner.Stop()
			return err
		}
		spinner.StopWithSuccess("Rendered " + StyleHighlight.Render(m.Name))

		for _, f := range res.Files {
			printFile(f)
		}
		printStats(diagramStats{
			nodes:    res.Stats.NodeCount,
			edges:    res.Stats.EdgeCount,
			clusters: res.Stats.ClusterCount,
			elapsed:  res.Stats.BuildTime + res.Stats.RenderTime,
			cached:   res.CacheInfo.RenderHit(),
		})
	}
	return nil
}

// diagramOptions returns the diagram overrides from flags and config. A
// flag wins over the config value.
func (c *CLI) diagramOptions(direction string) []diagram.Option {
	if direction == "" {
		direction = c.Config.Render.Direction
	}
	if direction == "" {
		return nil
	}
	return []diagram.Option{diagram.WithDirection(diagram.Direction(strings.ToUpper(direction)))}
}
