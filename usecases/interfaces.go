package usecases

import (
	"context"

	"anonboard/models"
)

// DiscussionUseCaseInterface is the single entry point the transport layer
// invokes for every inbound user event.
type DiscussionUseCaseInterface interface {
	HandleUserInput(ctx context.Context, userID string, input models.UserInput) (*models.Outcome, error)
}
