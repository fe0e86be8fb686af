package slack

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/slack-go/slack"

	"anonboard/clients"
)

// SlackMessenger implements the clients.Messenger interface using the
// slack-go/slack SDK.
type SlackMessenger struct {
	api *slack.Client

	// Slack accepts chat.update calls whose payload is identical to the
	// current message, so no-op pushes are detected locally: the fingerprint
	// of the last controls sent per message is kept and compared before
	// calling the API.
	mu           sync.Mutex
	lastControls map[clients.MessageHandle]string
}

func NewSlackMessenger(botToken string) *SlackMessenger {
	return &SlackMessenger{
		api:          slack.New(botToken),
		lastControls: make(map[clients.MessageHandle]string),
	}
}

func (c *SlackMessenger) SendChannelMessage(
	ctx context.Context,
	channel string,
	content clients.MessageContent,
	controls []clients.Control,
) (*clients.MessageHandle, error) {
	options := []slack.MsgOption{
		slack.MsgOptionText(content.Text, false),
	}
	if len(controls) > 0 {
		options = append(options, slack.MsgOptionBlocks(controlBlocks(content.Text, controls)...))
	}

	channelID, timestamp, err := c.api.PostMessageContext(ctx, channel, options...)
	if err != nil {
		return nil, fmt.Errorf("failed to post channel message: %w", err)
	}

	handle := clients.MessageHandle{Channel: channelID, Ref: timestamp}
	c.remember(handle, controls)
	return &handle, nil
}

func (c *SlackMessenger) UpdateControls(
	ctx context.Context,
	handle clients.MessageHandle,
	controls []clients.Control,
) (clients.ControlUpdateResult, error) {
	fingerprint := controlFingerprint(controls)

	c.mu.Lock()
	if c.lastControls[handle] == fingerprint {
		c.mu.Unlock()
		return clients.ControlUnchanged, nil
	}
	c.mu.Unlock()

	_, _, _, err := c.api.UpdateMessageContext(
		ctx,
		handle.Channel,
		handle.Ref,
		slack.MsgOptionBlocks(controlBlocks("", controls)...),
	)
	if err != nil {
		return "", fmt.Errorf("failed to update message controls: %w", err)
	}

	c.remember(handle, controls)
	return clients.ControlUpdated, nil
}

func (c *SlackMessenger) SendDirectMessage(ctx context.Context, userID string, text string) error {
	channel, _, _, err := c.api.OpenConversationContext(ctx, &slack.OpenConversationParameters{
		Users: []string{userID},
	})
	if err != nil {
		return fmt.Errorf("failed to open direct conversation: %w", err)
	}

	if _, _, err := c.api.PostMessageContext(ctx, channel.ID, slack.MsgOptionText(text, false)); err != nil {
		return fmt.Errorf("failed to send direct message: %w", err)
	}
	return nil
}

func (c *SlackMessenger) remember(handle clients.MessageHandle, controls []clients.Control) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.lastControls[handle] = controlFingerprint(controls)
}

func controlFingerprint(controls []clients.Control) string {
	parts := make([]string, 0, len(controls))
	for _, control := range controls {
		parts = append(parts, control.Label+"|"+control.URL)
	}
	return strings.Join(parts, "\x00")
}

func controlBlocks(text string, controls []clients.Control) []slack.Block {
	var blocks []slack.Block
	if text != "" {
		blocks = append(blocks, slack.NewSectionBlock(
			slack.NewTextBlockObject(slack.MarkdownType, text, false, false), nil, nil,
		))
	}

	var elements []slack.BlockElement
	for _, control := range controls {
		button := slack.NewButtonBlockElement(
			"",
			control.URL,
			slack.NewTextBlockObject(slack.PlainTextType, control.Label, true, false),
		)
		button.URL = control.URL
		elements = append(elements, button)
	}
	if len(elements) > 0 {
		blocks = append(blocks, slack.NewActionBlock("controls", elements...))
	}
	return blocks
}
