package models

// LeaderboardEntry pairs a user with their contribution score. Score is
// recomputed from repository state on demand and never cached durably.
type LeaderboardEntry struct {
	User  *User `json:"user"`
	Score int   `json:"score"`
}
