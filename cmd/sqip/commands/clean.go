package commands

import (
	"github.com/spf13/cobra"
	"go.trai.ch/sqip/internal/app"
)

func (c *CLI) newCleanCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "clean",
		Short: "Remove stored preview artifacts and on-disk cache entries",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cacheDir, _ := cmd.Flags().GetString("cache-dir")

			_, err := c.app.Clean(cmd.Context(), app.CleanOptions{CacheDir: cacheDir})
			return err
		},
	}

	cmd.Flags().String("cache-dir", "", "Artifact directory to clean (defaults to the configured cache_dir)")

	return cmd
}
