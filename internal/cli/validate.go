package cli

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/matzehuels/stackdiagram/pkg/errors"
)

// validateCommand creates the validate command. It builds every manifest
// without rendering and reports each failure.
func (c *CLI) validateCommand() *cobra.Command {
	var syntax string

	cmd := &cobra.Command{
		Use:   "validate [manifest|dir|-]...",
		Short: "Check manifests without rendering them",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			paths, err := resolveManifests(ctx, args, false)
			if err != nil {
				return err
			}

			logger := loggerFromContext(ctx)
			start := time.Now()
			failed := 0
			for _, path := range paths {
				d, err := c.buildDiagram(ctx, path, syntax, cmd.InOrStdin())
				if err != nil {
					manifestLogger(logger, path).Debug("validation failed", "code", errors.GetCode(err))
					failed++
					printError("%s", path)
					printDetail("%v", err)
					continue
				}
				printSuccess("%s %s", path, StyleDim.Render("("+d.Name()+")"))
			}

			logElapsed(logger, start, "validated manifests", "count", len(paths), "failed", failed)
			if failed > 0 {
				return errors.New(errors.ErrCodeInvalidManifest, "%d of %d manifests failed validation", failed, len(paths))
			}
			if len(paths) == 1 {
				printNextStep("Render it", appName+" render "+paths[0])
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&syntax, "syntax", "", "syntax of a manifest read from stdin")

	return cmd
}
