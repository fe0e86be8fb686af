package discord

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/bwmarrin/discordgo"

	"anonboard/clients"
)

// DiscordMessenger implements the clients.Messenger interface using the
// bwmarrin/discordgo SDK.
type DiscordMessenger struct {
	session *discordgo.Session

	// Discord happily re-applies identical edits, so no-op pushes are
	// detected locally against the last controls sent per message.
	mu           sync.Mutex
	lastControls map[clients.MessageHandle]string
}

func NewDiscordMessenger(botToken string) (*DiscordMessenger, error) {
	session, err := discordgo.New("Bot " + botToken)
	if err != nil {
		return nil, fmt.Errorf("failed to create discord session: %w", err)
	}
	return &DiscordMessenger{
		session:      session,
		lastControls: make(map[clients.MessageHandle]string),
	}, nil
}

func (c *DiscordMessenger) SendChannelMessage(
	ctx context.Context,
	channel string,
	content clients.MessageContent,
	controls []clients.Control,
) (*clients.MessageHandle, error) {
	send := &discordgo.MessageSend{
		Content:    content.Text,
		Components: controlComponents(controls),
	}

	message, err := c.session.ChannelMessageSendComplex(channel, send, discordgo.WithContext(ctx))
	if err != nil {
		return nil, fmt.Errorf("failed to send channel message: %w", err)
	}

	handle := clients.MessageHandle{Channel: channel, Ref: message.ID}
	c.remember(handle, controls)
	return &handle, nil
}

func (c *DiscordMessenger) UpdateControls(
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

	components := controlComponents(controls)
	edit := &discordgo.MessageEdit{
		Channel:    handle.Channel,
		ID:         handle.Ref,
		Components: &components,
	}

	if _, err := c.session.ChannelMessageEditComplex(edit, discordgo.WithContext(ctx)); err != nil {
		return "", fmt.Errorf("failed to edit message controls: %w", err)
	}

	c.remember(handle, controls)
	return clients.ControlUpdated, nil
}

func (c *DiscordMessenger) SendDirectMessage(ctx context.Context, userID string, text string) error {
	channel, err := c.session.UserChannelCreate(userID, discordgo.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("failed to create direct channel: %w", err)
	}

	if _, err := c.session.ChannelMessageSend(channel.ID, text, discordgo.WithContext(ctx)); err != nil {
		return fmt.Errorf("failed to send direct message: %w", err)
	}
	return nil
}

func (c *DiscordMessenger) remember(handle clients.MessageHandle, controls []clients.Control) {
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

func controlComponents(controls []clients.Control) []discordgo.MessageComponent {
	if len(controls) == 0 {
		return nil
	}

	buttons := make([]discordgo.MessageComponent, 0, len(controls))
	for _, control := range controls {
		buttons = append(buttons, discordgo.Button{
			Label: control.Label,
			Style: discordgo.LinkButton,
			URL:   control.URL,
		})
	}
	return []discordgo.MessageComponent{
		discordgo.ActionsRow{Components: buttons},
	}
}
