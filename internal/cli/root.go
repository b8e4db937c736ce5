package cli

import (
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/stackdiagram/pkg/config"
)

// setup runs before every command. It loads the configuration file, applies
// its log level unless the level was already changed (e.g. by --verbose),
// and attaches the logger to the command context.
func (c *CLI) setup(cmd *cobra.Command, _ []string) error {
	path := c.configPath
	if path == "" {
		p, err := config.Path()
		if err != nil {
			c.Logger.Debug("no config path", "error", err)
		}
		path = p
	}

	if path != "" {
		cfg, err := config.Load(path)
		if err != nil {
			return err
		}
		c.Config = cfg
		c.configPath = path
	}

	if c.Logger.GetLevel() == LogInfo && c.Config.Log.Level != "" {
		level, err := log.ParseLevel(c.Config.Log.Level)
		if err != nil {
			return err
		}
		c.SetLogLevel(level)
	}

	c.Logger.Debug("configuration loaded", "path", c.configPath)
	cmd.SetContext(withLogger(cmd.Context(), c.Logger))
	return nil
}
