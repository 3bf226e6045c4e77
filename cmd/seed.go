package cmd

import (
	"fmt"

	"quote-templater/internal/repository"

	"github.com/spf13/cobra"
)

var seedCmd = &cobra.Command{
	Use:   "seed <fixtures.yaml>",
	Short: "Load quotes, destinations, sites and users into the configured store",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := GetConfig()
		f, err := repository.LoadFixtures(args[0])
		if err != nil {
			return err
		}
		store, err := repository.Open(cmd.Context(), cfg)
		if err != nil {
			return err
		}
		defer store.Close()
		if err := store.Seed(cmd.Context(), f); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Seeded %s store: %d quotes, %d destinations, %d sites, %d users\n",
			cfg.Store.Backend, len(f.Quotes), len(f.Destinations), len(f.Sites), len(f.Users))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(seedCmd)
}
