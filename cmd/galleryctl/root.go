package main

import (
	"mosaic-gallery/internal/logging"
	"mosaic-gallery/internal/startup"

	"github.com/spf13/cobra"
)

type rootOptions struct {
	json    bool
	envFile string
	verbose bool
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:   "galleryctl",
		Short: "Inspect and drive the mosaic gallery pipeline",
		Long: `galleryctl resolves size tiers, CDN URLs, author folders and layout
budgets with the same code the server uses, and can index the source tree
or render tier derivatives without starting the server.`,
		Version:       startup.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if opts.verbose {
				logging.SetLevel(logging.LevelDebug)
			}
			return startup.LoadDotEnv(opts.envFile)
		},
	}

	cmd.PersistentFlags().BoolVar(&opts.json, "json", false, "Always print JSON")
	cmd.PersistentFlags().StringVar(&opts.envFile, "env-file", ".env", "Environment file to load before reading configuration")
	cmd.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "Enable debug logging")

	cmd.AddCommand(
		newTierCmd(opts),
		newURLCmd(opts),
		newSlugCmd(opts),
		newLayoutCmd(opts),
		newGalleryCmd(opts),
		newIndexCmd(opts),
		newRenderCmd(opts),
	)

	return cmd
}
