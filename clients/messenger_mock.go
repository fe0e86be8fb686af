package clients

import (
	"context"

	"github.com/stretchr/testify/mock"
)

// MockMessenger is a mock implementation of the Messenger interface
type MockMessenger struct {
	mock.Mock
}

func (m *MockMessenger) SendChannelMessage(
	ctx context.Context,
	channel string,
	content MessageContent,
	controls []Control,
) (*MessageHandle, error) {
	args := m.Called(ctx, channel, content, controls)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*MessageHandle), args.Error(1)
}

func (m *MockMessenger) UpdateControls(
	ctx context.Context,
	handle MessageHandle,
	controls []Control,
) (ControlUpdateResult, error) {
	args := m.Called(ctx, handle, controls)
	return args.Get(0).(ControlUpdateResult), args.Error(1)
}

func (m *MockMessenger) SendDirectMessage(ctx context.Context, userID string, text string) error {
	args := m.Called(ctx, userID, text)
	return args.Error(0)
}
