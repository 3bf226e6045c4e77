package cmd

import (
	"context"
	"errors"
	"fmt"
	"time"

	"quote-templater/internal/quaily"
	"quote-templater/internal/repository"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

var (
	sendFlags   refFlags
	sendChannel string
	sendSlug    string
)

var sendCmd = &cobra.Command{
	Use:   "send <template>",
	Short: "Render a template and deliver it through Quaily",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := GetConfig()
		cli := newQuaily(cfg)
		if cli == nil {
			return errors.New("quaily config missing: set quaily.base_url and quaily.api_key in config.yaml")
		}
		channel := sendChannel
		if channel == "" {
			channel = cfg.Quaily.Channel
		}
		slug := sendSlug
		if slug == "" {
			slug = uuid.NewString()
		}

		ctx, cancel := context.WithTimeout(cmd.Context(), time.Minute)
		defer cancel()
		store, err := repository.Open(ctx, cfg)
		if err != nil {
			return err
		}
		defer store.Close()

		msg, err := renderTemplate(ctx, cfg, store, args[0], sendFlags.refs())
		if err != nil {
			return err
		}
		if err := quaily.SendMessage(ctx, cli, channel, slug, msg); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Delivered '%s' as post %s on channel %s\n", msg.Subject, slug, channel)
		return nil
	},
}

func init() {
	sendFlags.bind(sendCmd)
	sendCmd.Flags().StringVar(&sendChannel, "channel", "", "channel slug (default: quaily.channel)")
	sendCmd.Flags().StringVar(&sendSlug, "slug", "", "post slug (default: random)")
	rootCmd.AddCommand(sendCmd)
}
