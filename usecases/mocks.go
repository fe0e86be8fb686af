package usecases

import (
	"context"

	"github.com/stretchr/testify/mock"

	"anonboard/models"
)

// MockDiscussionUseCase is a mock implementation of DiscussionUseCaseInterface
type MockDiscussionUseCase struct {
	mock.Mock
}

func (m *MockDiscussionUseCase) HandleUserInput(
	ctx context.Context,
	userID string,
	input models.UserInput,
) (*models.Outcome, error) {
	args := m.Called(ctx, userID, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Outcome), args.Error(1)
}
