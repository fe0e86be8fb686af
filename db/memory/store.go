// Package memory provides map-backed implementations of the db repository
// interfaces. They enforce the same invariants as the Postgres adapters
// (unique reaction pairs, write-once mirror handles, CAS pending swaps) and
// back the unit tests and local runs that don't want a database.
package memory

import (
	"sync"

	"anonboard/models"
)

// Store is the shared backing state for one set of repositories. All
// repositories created from the same Store see the same data; the mutex
// is the store's transaction boundary.
type Store struct {
	mu sync.RWMutex

	users    map[string]*models.User
	posts    map[string]*models.Post
	comments map[string]*models.Comment
	// reactions is keyed by commentID + "\x00" + userID, mirroring the
	// unique (comment_id, user_id) constraint.
	reactions       map[string]*models.Reaction
	follows         map[string]models.Follow
	blocks          map[string]models.Block
	privateMessages map[string]*models.PrivateMessage

	// seq assigns a monotonically increasing insertion order so that
	// ordering stays deterministic even when timestamps collide.
	seq     int64
	seqByID map[string]int64
}

func NewStore() *Store {
	return &Store{
		users:           make(map[string]*models.User),
		posts:           make(map[string]*models.Post),
		comments:        make(map[string]*models.Comment),
		reactions:       make(map[string]*models.Reaction),
		follows:         make(map[string]models.Follow),
		blocks:          make(map[string]models.Block),
		privateMessages: make(map[string]*models.PrivateMessage),
		seqByID:         make(map[string]int64),
	}
}

func (s *Store) nextSeq(id string) {
	s.seq++
	s.seqByID[id] = s.seq
}

func pairKey(a, b string) string {
	return a + "\x00" + b
}

func (s *Store) Users() *UsersRepository {
	return &UsersRepository{store: s}
}

func (s *Store) Posts() *PostsRepository {
	return &PostsRepository{store: s}
}

func (s *Store) Comments() *CommentsRepository {
	return &CommentsRepository{store: s}
}

func (s *Store) Reactions() *ReactionsRepository {
	return &ReactionsRepository{store: s}
}

func (s *Store) Social() *SocialRepository {
	return &SocialRepository{store: s}
}

func (s *Store) PrivateMessages() *PrivateMessagesRepository {
	return &PrivateMessagesRepository{store: s}
}
