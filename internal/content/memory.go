package content

import (
	"context"
	"slices"
	"sync"
)

// MemoryStore is an in-process Store used for tests and throwaway demos.
type MemoryStore struct {
	mu        sync.RWMutex
	postTypes []PostType
	users     []User
	posts     []Post
	comments  []Comment
	nextID    int64

	// FailInsertAt makes the n-th InsertComment call (1-based) fail. Zero disables.
	FailInsertAt int
	insertCalls  int
}

// NewMemoryStore creates a store with the given post types, or DefaultPostTypes if none.
func NewMemoryStore(types ...PostType) *MemoryStore {
	if len(types) == 0 {
		types = DefaultPostTypes
	}
	return &MemoryStore{
		postTypes: slices.Clone(types),
		nextID:    1,
	}
}

func (s *MemoryStore) PostTypes(ctx context.Context) ([]PostType, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.postTypes), nil
}

func (s *MemoryStore) PublishedPostIDs(ctx context.Context, types []string) ([]int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var ids []int64
	for _, p := range s.posts {
		if p.Status == StatusPublish && slices.Contains(types, p.Type) {
			ids = append(ids, p.ID)
		}
	}
	return ids, nil
}

func (s *MemoryStore) CommentIDs(ctx context.Context, postID int64) ([]int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var ids []int64
	for _, c := range s.comments {
		if c.PostID == postID {
			ids = append(ids, c.ID)
		}
	}
	return ids, nil
}

func (s *MemoryStore) Users(ctx context.Context) ([]User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.users), nil
}

func (s *MemoryStore) InsertComment(ctx context.Context, c Comment) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.insertCalls++
	if s.FailInsertAt > 0 && s.insertCalls == s.FailInsertAt {
		return 0, storeErr("insert_comment", "comment_refused", map[string]int{"attempt": s.insertCalls}, nil)
	}
	if !s.hasPost(c.PostID) {
		return 0, storeErr("insert_comment", "invalid_post", map[string]int64{"post_id": c.PostID}, ErrNotFound)
	}

	c.ID = s.allocID()
	s.comments = append(s.comments, c)
	return c.ID, nil
}

func (s *MemoryStore) InsertPost(ctx context.Context, p Post) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p.ID = s.allocID()
	s.posts = append(s.posts, p)
	return p.ID, nil
}

func (s *MemoryStore) InsertUser(ctx context.Context, u User) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.users {
		if existing.Login == u.Login {
			return 0, storeErr("insert_user", "existing_user_login", map[string]string{"login": u.Login}, nil)
		}
	}
	u.ID = s.allocID()
	s.users = append(s.users, u)
	return u.ID, nil
}

func (s *MemoryStore) Close() error { return nil }

// Comments returns a copy of every stored comment.
func (s *MemoryStore) Comments() []Comment {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.comments)
}

// InsertCalls reports how many times InsertComment has been called.
func (s *MemoryStore) InsertCalls() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.insertCalls
}

func (s *MemoryStore) hasPost(id int64) bool {
	for _, p := range s.posts {
		if p.ID == id {
			return true
		}
	}
	return false
}

func (s *MemoryStore) allocID() int64 {
	id := s.nextID
	s.nextID++
	return id
}
