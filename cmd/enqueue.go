package cmd

import (
	"fmt"

	"quote-templater/internal/redisclient"
	"quote-templater/internal/storage"

	"github.com/spf13/cobra"
)

var (
	enqueueFlags   refFlags
	enqueueChannel string
)

var enqueueCmd = &cobra.Command{
	Use:   "enqueue <template>",
	Short: "Queue a message for the serve dispatcher",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := GetConfig()
		rdb := redisclient.New(cfg.Redis)
		defer rdb.Close()

		job, err := storage.NewRedisStore(rdb).Enqueue(cmd.Context(), storage.Job{
			Template: args[0],
			Channel:  enqueueChannel,
			Refs:     enqueueFlags.refs(),
		})
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Queued job %s (template %s)\n", job.ID, job.Template)
		return nil
	},
}

func init() {
	enqueueFlags.bind(enqueueCmd)
	enqueueCmd.Flags().StringVar(&enqueueChannel, "channel", "", "channel slug (default: quaily.channel)")
	rootCmd.AddCommand(enqueueCmd)
}
