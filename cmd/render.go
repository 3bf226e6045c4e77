package cmd

import (
	"context"
	"fmt"
	"time"

	"quote-templater/internal/repository"
	"quote-templater/internal/session"

	"github.com/spf13/cobra"
)

var (
	renderFlags refFlags
	renderAs    int64
)

var renderCmd = &cobra.Command{
	Use:   "render <template>",
	Short: "Interpolate a template and print subject and content",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := GetConfig()
		ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
		defer cancel()

		store, err := repository.Open(ctx, cfg)
		if err != nil {
			return err
		}
		defer store.Close()

		if renderAs != 0 {
			u, err := store.UserByID(ctx, renderAs)
			if err != nil {
				return fmt.Errorf("current user %d: %w", renderAs, err)
			}
			ctx = session.WithUser(ctx, u)
		}

		msg, err := renderTemplate(ctx, cfg, store, args[0], renderFlags.refs())
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Subject: %s\n\n", msg.Subject)
		fmt.Fprint(out, msg.Content)
		return nil
	},
}

func init() {
	renderFlags.bind(renderCmd)
	renderCmd.Flags().Int64Var(&renderAs, "as-user", 0, "render as the signed-in user with this id")
	rootCmd.AddCommand(renderCmd)
}
