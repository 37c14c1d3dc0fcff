package cli

import (
	"github.com/spf13/cobra"

	"github.com/Arch-Mind/frontend-sub001/pkg/buildinfo"
	"github.com/Arch-Mind/frontend-sub001/pkg/config"
)

// RootCommand creates the root cobra command with all subcommands
// registered. Persistent flags:
//
//	-v, --verbose   debug logging
//	    --config    config file (default ~/.config/archmind/config.toml)
func (c *CLI) RootCommand() *cobra.Command {
	var (
		verbose    bool
		configPath string
	)

	root := &cobra.Command{
		Use:   appName,
		Short: "archmind lays out code architecture graphs",
		Long: `archmind turns raw code graphs from an analysis backend into positioned
node/edge data: it normalizes identifiers, rebuilds the directory hierarchy,
groups large directories into collapsible clusters and computes a layout.`,
		Version:      buildinfo.Get().Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			level := LogInfo
			if verbose {
				level = LogDebug
			}
			c.SetLogLevel(level)

			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}
			c.Config = cfg
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
			return nil
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")
	root.PersistentFlags().StringVar(&configPath, "config", "", "config file (default ~/.config/archmind/config.toml)")

	root.AddCommand(c.layoutCommand())
	root.AddCommand(c.clustersCommand())
	root.AddCommand(c.browseCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.versionCommand())

	return root
}

func (c *CLI) versionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print build information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			cmd.Println(buildinfo.String())
		},
	}
}
