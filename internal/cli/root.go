package cli

import (
	"github.com/spf13/cobra"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	ConfigDir string
}

// NewRootCommand creates the root command for the reptrack binary.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "reptrack",
		Short: "RepTrack fitness and social API",
		Long: `RepTrack serves workout programs, progress logs, workout plans and a social
feed of posts, likes, comments and follows over an HTTP API.`,
		SilenceUsage: true,
	}

	cmd.PersistentFlags().StringVar(&opts.ConfigDir, "config", ".", "directory containing config.yaml")

	cmd.AddCommand(NewServeCommand(opts))
	cmd.AddCommand(NewReconcileCommand(opts))

	return cmd
}
