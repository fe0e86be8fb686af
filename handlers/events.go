package handlers

import (
	"encoding/json"
	"log"
	"net/http"
	"strconv"

	"anonboard/models"
	"anonboard/services"
	"anonboard/usecases"
)

// EventsHandler translates inbound webhook events into discussion engine
// calls. The transport layer (bot commands, keyboards, formatting) lives
// outside this process; it posts the already-parsed user input here and
// renders the returned outcome.
type EventsHandler struct {
	discussionUseCase usecases.DiscussionUseCaseInterface
	postsService      services.PostsService
	ratingService     services.RatingService
}

func NewEventsHandler(
	discussionUseCase usecases.DiscussionUseCaseInterface,
	postsService services.PostsService,
	ratingService services.RatingService,
) *EventsHandler {
	return &EventsHandler{
		discussionUseCase: discussionUseCase,
		postsService:      postsService,
		ratingService:     ratingService,
	}
}

type userEventRequest struct {
	UserID string           `json:"user_id"`
	Input  models.UserInput `json:"input"`
}

// HandleUserEvent processes one inbound user event and responds with the
// outcome to render.
func (h *EventsHandler) HandleUserEvent(w http.ResponseWriter, r *http.Request) {
	var req userEventRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if req.UserID == "" {
		http.Error(w, "user_id is required", http.StatusBadRequest)
		return
	}

	outcome, err := h.discussionUseCase.HandleUserInput(r.Context(), req.UserID, req.Input)
	if err != nil {
		// The outcome already collapsed the fault to a generic retry
		// message; the error itself only matters for the logs.
		log.Printf("❌ User event from %s failed: %v", req.UserID, err)
	}

	writeJSON(w, http.StatusOK, outcome)
}

// HandlePendingPosts lists posts awaiting moderation.
func (h *EventsHandler) HandlePendingPosts(w http.ResponseWriter, r *http.Request) {
	limit := queryInt(r, "limit", 20)

	posts, err := h.postsService.ListPendingPosts(r.Context(), limit)
	if err != nil {
		log.Printf("❌ Failed to list pending posts: %v", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"posts": posts})
}

// HandleBoardStats returns the aggregate counters for the admin surface.
func (h *EventsHandler) HandleBoardStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.postsService.GetBoardStats(r.Context())
	if err != nil {
		log.Printf("❌ Failed to compute board stats: %v", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

// HandleLeaderboard returns the top contributors.
func (h *EventsHandler) HandleLeaderboard(w http.ResponseWriter, r *http.Request) {
	limit := queryInt(r, "limit", 10)

	entries, err := h.ratingService.Leaderboard(r.Context(), limit)
	if err != nil {
		log.Printf("❌ Failed to build leaderboard: %v", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"leaderboard": entries})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.Printf("❌ Failed to encode response: %v", err)
	}
}

func queryInt(r *http.Request, key string, fallback int) int {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return fallback
	}
	value, err := strconv.Atoi(raw)
	if err != nil || value < 1 {
		return fallback
	}
	return value
}
