package quaily

import (
	"context"
	"errors"
	"strings"

	"quote-templater/internal/placeholder"
)

// SendMessage posts a computed message to a channel and delivers it.
// The subject becomes the post title and slug identifies the post.
func SendMessage(ctx context.Context, c *Client, channelSlug, slug string, msg *placeholder.Template) error {
	if msg == nil {
		return placeholder.ErrMissingTemplate
	}
	if strings.TrimSpace(channelSlug) == "" {
		return errors.New("empty channel slug")
	}
	params := map[string]any{
		"channel_slug": channelSlug,
		"slug":         slug,
		"title":        msg.Subject,
		"content":      msg.Content,
	}
	if _, err := c.CreatePost(ctx, channelSlug, params); err != nil {
		return err
	}
	return c.DeliverPost(ctx, channelSlug, slug)
}
