package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/gorilla/mux"

	"anonboard/core"
	"anonboard/models"
	"anonboard/services"
)

// ProfilesHandler serves the profile surface: who a user is, how many
// followers they have and where they sit on the leaderboard, plus the
// follow/block mutations and the private-message inbox.
type ProfilesHandler struct {
	usersService       services.UsersService
	followsService     services.FollowsService
	ratingService      services.RatingService
	privateMsgsService services.PrivateMessagesService
}

func NewProfilesHandler(
	usersService services.UsersService,
	followsService services.FollowsService,
	ratingService services.RatingService,
	privateMsgsService services.PrivateMessagesService,
) *ProfilesHandler {
	return &ProfilesHandler{
		usersService:       usersService,
		followsService:     followsService,
		ratingService:      ratingService,
		privateMsgsService: privateMsgsService,
	}
}

type profileResponse struct {
	User      *models.User `json:"user"`
	Followers int          `json:"followers"`
	Score     int          `json:"score"`
	Rank      *int         `json:"rank,omitempty"`
}

func (h *ProfilesHandler) HandleGetProfile(w http.ResponseWriter, r *http.Request) {
	userID := mux.Vars(r)["id"]

	maybeUser, err := h.usersService.GetUserByID(r.Context(), userID)
	if err != nil {
		log.Printf("❌ Failed to get user %s: %v", userID, err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	user, ok := maybeUser.Get()
	if !ok {
		http.Error(w, "user not found", http.StatusNotFound)
		return
	}
	if !user.PrivacyPublic {
		http.Error(w, "profile is private", http.StatusForbidden)
		return
	}

	followers, err := h.followsService.CountFollowers(r.Context(), userID)
	if err != nil {
		log.Printf("❌ Failed to count followers for %s: %v", userID, err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	score, err := h.ratingService.Score(r.Context(), userID)
	if err != nil {
		log.Printf("❌ Failed to score user %s: %v", userID, err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	response := profileResponse{User: user, Followers: followers, Score: score}
	maybeRank, err := h.ratingService.Rank(r.Context(), userID)
	if err != nil {
		log.Printf("❌ Failed to rank user %s: %v", userID, err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	if rank, ok := maybeRank.Get(); ok {
		response.Rank = &rank
	}

	writeJSON(w, http.StatusOK, response)
}

type inboxResponse struct {
	Messages []*models.PrivateMessage `json:"messages"`
	Unread   int                      `json:"unread"`
}

// HandleInbox returns the user's private messages, newest first. Reading the
// inbox marks it read, so the unread count reflects the state before this
// request.
func (h *ProfilesHandler) HandleInbox(w http.ResponseWriter, r *http.Request) {
	userID := mux.Vars(r)["id"]
	page := queryInt(r, "page", 1)
	pageSize := queryInt(r, "page_size", 20)

	unread, err := h.privateMsgsService.CountUnread(r.Context(), userID)
	if err != nil {
		log.Printf("❌ Failed to count unread messages for %s: %v", userID, err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	messages, err := h.privateMsgsService.ListInbox(r.Context(), userID, page, pageSize)
	if err != nil {
		log.Printf("❌ Failed to list inbox for %s: %v", userID, err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, inboxResponse{Messages: messages, Unread: unread})
}

type followRequest struct {
	FollowerID string `json:"follower_id"`
}

func (h *ProfilesHandler) HandleFollow(w http.ResponseWriter, r *http.Request) {
	targetID := mux.Vars(r)["id"]

	var req followRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.FollowerID == "" {
		http.Error(w, "follower_id is required", http.StatusBadRequest)
		return
	}

	if err := h.followsService.Follow(r.Context(), req.FollowerID, targetID); err != nil {
		writeFollowError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "following"})
}

func (h *ProfilesHandler) HandleUnfollow(w http.ResponseWriter, r *http.Request) {
	targetID := mux.Vars(r)["id"]

	var req followRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.FollowerID == "" {
		http.Error(w, "follower_id is required", http.StatusBadRequest)
		return
	}

	if err := h.followsService.Unfollow(r.Context(), req.FollowerID, targetID); err != nil {
		writeFollowError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "not_following"})
}

type blockRequest struct {
	BlockerID string `json:"blocker_id"`
}

func (h *ProfilesHandler) HandleBlock(w http.ResponseWriter, r *http.Request) {
	targetID := mux.Vars(r)["id"]

	var req blockRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.BlockerID == "" {
		http.Error(w, "blocker_id is required", http.StatusBadRequest)
		return
	}

	if err := h.followsService.Block(r.Context(), req.BlockerID, targetID); err != nil {
		writeFollowError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "blocked"})
}

func writeFollowError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, core.ErrUserNotFound):
		http.Error(w, "user not found", http.StatusNotFound)
	case core.IsValidationError(err):
		http.Error(w, err.Error(), http.StatusBadRequest)
	default:
		log.Printf("❌ Follow operation failed: %v", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
	}
}
