package models

// Follow is a (follower, followed) pair. A follows B independently of
// B follows A.
type Follow struct {
	FollowerID string `db:"follower_id" json:"follower_id"`
	FollowedID string `db:"followed_id" json:"followed_id"`
}

// Block suppresses private messages and notifications from the blocked
// user towards the blocker.
type Block struct {
	BlockerID string `db:"blocker_id" json:"blocker_id"`
	BlockedID string `db:"blocked_id" json:"blocked_id"`
}
