package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"anonboard/clients"
	"anonboard/core"
	"anonboard/db/memory"
	"anonboard/models"
	"anonboard/services/follows"
	"anonboard/services/notifications"
	"anonboard/services/privatemsgs"
	"anonboard/services/rating"
	"anonboard/services/users"
	"anonboard/testutils"
)

type profilesEnv struct {
	store   *memory.Store
	handler http.Handler
}

func newProfilesEnv() *profilesEnv {
	store := memory.NewStore()
	usersService := users.NewUsersService(store.Users())
	followsService := follows.NewFollowsService(store.Users(), store.Social())
	ratingService := rating.NewRatingService(store.Users(), store.Posts(), store.Comments())
	notificationsService := notifications.NewNotificationsService(
		store.Users(),
		store.Social(),
		&clients.MockMessenger{},
	)
	privateMsgsService := privatemsgs.NewPrivateMessagesService(
		store.Users(),
		store.Social(),
		store.PrivateMessages(),
		notificationsService,
	)

	profiles := NewProfilesHandler(usersService, followsService, ratingService, privateMsgsService)
	events := NewEventsHandler(nil, nil, ratingService)
	router := SetupRouter(events, profiles, "*")
	return &profilesEnv{store: store, handler: router}
}

func (e *profilesEnv) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(encoded)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	rec := httptest.NewRecorder()
	e.handler.ServeHTTP(rec, req)
	return rec
}

func TestHandleGetProfile(t *testing.T) {
	t.Run("returns the public profile with followers and score", func(t *testing.T) {
		env := newProfilesEnv()
		user := testutils.CreateTestUser(t, env.store.Users())
		follower := testutils.CreateTestUser(t, env.store.Users())
		require.NoError(t, env.store.Social().CreateFollow(context.Background(), follower.ID, user.ID))
		testutils.CreateApprovedPost(t, env.store.Posts(), user.ID, user.ID)

		rec := env.do(t, http.MethodGet, fmt.Sprintf("/v1/users/%s/profile", user.ID), nil)

		require.Equal(t, http.StatusOK, rec.Code)
		var response struct {
			User      *models.User `json:"user"`
			Followers int          `json:"followers"`
			Score     int          `json:"score"`
			Rank      *int         `json:"rank"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &response))
		assert.Equal(t, user.ID, response.User.ID)
		assert.Equal(t, 1, response.Followers)
		assert.Equal(t, 1, response.Score)
		require.NotNil(t, response.Rank)
		assert.Equal(t, 1, *response.Rank)
	})

	t.Run("hides a private profile", func(t *testing.T) {
		env := newProfilesEnv()
		user := testutils.CreateTestUser(t, env.store.Users())
		require.NoError(t, env.store.Users().UpdatePrivacyPublic(context.Background(), user.ID, false))

		rec := env.do(t, http.MethodGet, fmt.Sprintf("/v1/users/%s/profile", user.ID), nil)
		assert.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("unknown user is a 404", func(t *testing.T) {
		env := newProfilesEnv()
		rec := env.do(t, http.MethodGet, "/v1/users/u-missing/profile", nil)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestHandleInbox(t *testing.T) {
	seedMessage := func(t *testing.T, env *profilesEnv, senderID, receiverID, content string) *models.PrivateMessage {
		t.Helper()
		message := &models.PrivateMessage{
			ID:         core.NewID("pm"),
			SenderID:   senderID,
			ReceiverID: receiverID,
			Content:    content,
		}
		require.NoError(t, env.store.PrivateMessages().CreateMessage(context.Background(), message))
		return message
	}

	t.Run("returns messages newest first with the unread count", func(t *testing.T) {
		env := newProfilesEnv()
		sender := testutils.CreateTestUser(t, env.store.Users())
		receiver := testutils.CreateTestUser(t, env.store.Users())
		first := seedMessage(t, env, sender.ID, receiver.ID, "first")
		second := seedMessage(t, env, sender.ID, receiver.ID, "second")

		rec := env.do(t, http.MethodGet, fmt.Sprintf("/v1/users/%s/inbox", receiver.ID), nil)

		require.Equal(t, http.StatusOK, rec.Code)
		var response struct {
			Messages []*models.PrivateMessage `json:"messages"`
			Unread   int                      `json:"unread"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &response))
		require.Len(t, response.Messages, 2)
		assert.Equal(t, second.ID, response.Messages[0].ID)
		assert.Equal(t, first.ID, response.Messages[1].ID)
		assert.Equal(t, 2, response.Unread)
	})

	t.Run("reading the inbox marks it read", func(t *testing.T) {
		env := newProfilesEnv()
		sender := testutils.CreateTestUser(t, env.store.Users())
		receiver := testutils.CreateTestUser(t, env.store.Users())
		seedMessage(t, env, sender.ID, receiver.ID, "hello")

		path := fmt.Sprintf("/v1/users/%s/inbox", receiver.ID)
		rec := env.do(t, http.MethodGet, path, nil)
		require.Equal(t, http.StatusOK, rec.Code)

		rec = env.do(t, http.MethodGet, path, nil)
		require.Equal(t, http.StatusOK, rec.Code)
		var response struct {
			Unread int `json:"unread"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &response))
		assert.Equal(t, 0, response.Unread)
	})

	t.Run("pages the inbox", func(t *testing.T) {
		env := newProfilesEnv()
		sender := testutils.CreateTestUser(t, env.store.Users())
		receiver := testutils.CreateTestUser(t, env.store.Users())
		for i := 0; i < 5; i++ {
			seedMessage(t, env, sender.ID, receiver.ID, "ping")
		}

		rec := env.do(t, http.MethodGet,
			fmt.Sprintf("/v1/users/%s/inbox?page=3&page_size=2", receiver.ID), nil)

		require.Equal(t, http.StatusOK, rec.Code)
		var response struct {
			Messages []*models.PrivateMessage `json:"messages"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &response))
		assert.Len(t, response.Messages, 1)
	})
}

func TestHandleFollowRoutes(t *testing.T) {
	t.Run("follow and unfollow through the API", func(t *testing.T) {
		env := newProfilesEnv()
		follower := testutils.CreateTestUser(t, env.store.Users())
		followed := testutils.CreateTestUser(t, env.store.Users())

		rec := env.do(t, http.MethodPost, fmt.Sprintf("/v1/users/%s/follow", followed.ID),
			map[string]string{"follower_id": follower.ID})
		require.Equal(t, http.StatusOK, rec.Code)

		following, err := env.store.Social().IsFollowing(context.Background(), follower.ID, followed.ID)
		require.NoError(t, err)
		assert.True(t, following)

		rec = env.do(t, http.MethodPost, fmt.Sprintf("/v1/users/%s/unfollow", followed.ID),
			map[string]string{"follower_id": follower.ID})
		require.Equal(t, http.StatusOK, rec.Code)

		following, err = env.store.Social().IsFollowing(context.Background(), follower.ID, followed.ID)
		require.NoError(t, err)
		assert.False(t, following)
	})

	t.Run("self-follow is a 400", func(t *testing.T) {
		env := newProfilesEnv()
		user := testutils.CreateTestUser(t, env.store.Users())

		rec := env.do(t, http.MethodPost, fmt.Sprintf("/v1/users/%s/follow", user.ID),
			map[string]string{"follower_id": user.ID})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("following an unknown user is a 404", func(t *testing.T) {
		env := newProfilesEnv()
		follower := testutils.CreateTestUser(t, env.store.Users())

		rec := env.do(t, http.MethodPost, "/v1/users/u-missing/follow",
			map[string]string{"follower_id": follower.ID})
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("missing follower id is a 400", func(t *testing.T) {
		env := newProfilesEnv()
		followed := testutils.CreateTestUser(t, env.store.Users())

		rec := env.do(t, http.MethodPost, fmt.Sprintf("/v1/users/%s/follow", followed.ID),
			map[string]string{})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("block through the API", func(t *testing.T) {
		env := newProfilesEnv()
		blocker := testutils.CreateTestUser(t, env.store.Users())
		blocked := testutils.CreateTestUser(t, env.store.Users())

		rec := env.do(t, http.MethodPost, fmt.Sprintf("/v1/users/%s/block", blocked.ID),
			map[string]string{"blocker_id": blocker.ID})
		require.Equal(t, http.StatusOK, rec.Code)

		isBlocked, err := env.store.Social().IsBlocked(context.Background(), blocker.ID, blocked.ID)
		require.NoError(t, err)
		assert.True(t, isBlocked)
	})
}
