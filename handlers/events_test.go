package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"anonboard/models"
	"anonboard/services"
	"anonboard/usecases"
)

func TestHandleUserEvent(t *testing.T) {
	t.Run("returns the outcome for a valid event", func(t *testing.T) {
		usecase := &usecases.MockDiscussionUseCase{}
		handler := NewEventsHandler(usecase, &services.MockPostsService{}, &services.MockRatingService{})

		input := models.TextInput("hello")
		usecase.On("HandleUserInput", mock.Anything, "u-1", input).
			Return(&models.Outcome{Kind: models.OutcomeMenu}, nil)

		body, err := json.Marshal(map[string]any{"user_id": "u-1", "input": input})
		require.NoError(t, err)
		req := httptest.NewRequest(http.MethodPost, "/v1/events", bytes.NewReader(body))
		rec := httptest.NewRecorder()

		handler.HandleUserEvent(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
		var outcome models.Outcome
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &outcome))
		assert.Equal(t, models.OutcomeMenu, outcome.Kind)
		usecase.AssertExpectations(t)
	})

	t.Run("rejects a missing user id", func(t *testing.T) {
		usecase := &usecases.MockDiscussionUseCase{}
		handler := NewEventsHandler(usecase, &services.MockPostsService{}, &services.MockRatingService{})

		req := httptest.NewRequest(http.MethodPost, "/v1/events", bytes.NewReader([]byte(`{"input":{"kind":"message"}}`)))
		rec := httptest.NewRecorder()

		handler.HandleUserEvent(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		usecase.AssertNotCalled(t, "HandleUserInput", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("rejects a malformed body", func(t *testing.T) {
		usecase := &usecases.MockDiscussionUseCase{}
		handler := NewEventsHandler(usecase, &services.MockPostsService{}, &services.MockRatingService{})

		req := httptest.NewRequest(http.MethodPost, "/v1/events", bytes.NewReader([]byte(`{not json`)))
		rec := httptest.NewRecorder()

		handler.HandleUserEvent(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("still renders the outcome when the engine reports a fault", func(t *testing.T) {
		usecase := &usecases.MockDiscussionUseCase{}
		handler := NewEventsHandler(usecase, &services.MockPostsService{}, &services.MockRatingService{})

		input := models.TextInput("hello")
		usecase.On("HandleUserInput", mock.Anything, "u-1", input).
			Return(&models.Outcome{Kind: models.OutcomeError, ErrorCode: models.ErrCodeTryAgain}, assert.AnError)

		body, err := json.Marshal(map[string]any{"user_id": "u-1", "input": input})
		require.NoError(t, err)
		req := httptest.NewRequest(http.MethodPost, "/v1/events", bytes.NewReader(body))
		rec := httptest.NewRecorder()

		handler.HandleUserEvent(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
		var outcome models.Outcome
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &outcome))
		assert.Equal(t, models.ErrCodeTryAgain, outcome.ErrorCode)
	})
}

func TestHandleLeaderboard(t *testing.T) {
	rating := &services.MockRatingService{}
	handler := NewEventsHandler(&usecases.MockDiscussionUseCase{}, &services.MockPostsService{}, rating)

	entries := []*models.LeaderboardEntry{{User: &models.User{ID: "u-1"}, Score: 5}}
	rating.On("Leaderboard", mock.Anything, 3).Return(entries, nil)

	req := httptest.NewRequest(http.MethodGet, "/v1/leaderboard?limit=3", nil)
	rec := httptest.NewRecorder()

	handler.HandleLeaderboard(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var response struct {
		Leaderboard []*models.LeaderboardEntry `json:"leaderboard"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &response))
	require.Len(t, response.Leaderboard, 1)
	assert.Equal(t, "u-1", response.Leaderboard[0].User.ID)
	assert.Equal(t, 5, response.Leaderboard[0].Score)
}

func TestHandleBoardStats(t *testing.T) {
	posts := &services.MockPostsService{}
	handler := NewEventsHandler(&usecases.MockDiscussionUseCase{}, posts, &services.MockRatingService{})

	stats := &models.BoardStats{TotalUsers: 4, ApprovedPosts: 2, PendingPosts: 1, TotalComments: 9}
	posts.On("GetBoardStats", mock.Anything).Return(stats, nil)

	req := httptest.NewRequest(http.MethodGet, "/v1/stats", nil)
	rec := httptest.NewRecorder()

	handler.HandleBoardStats(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var got models.BoardStats
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, *stats, got)
}
