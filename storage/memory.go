package storage

import (
	"context"
	"slices"
	"sort"
	"sync"
	"time"

	"p9e.in/leakwatch/models"
)

// MemoryStore keeps everything in maps. Ids come from per-entity counters that
// start at 1 and are never reused. Returned records are copies.
type MemoryStore struct {
	mu sync.RWMutex

	users    map[int]models.User
	leaks    map[int]models.Leak
	comments map[int]models.Comment

	nextUserID    int
	nextLeakID    int
	nextCommentID int

	now func() time.Time
}

var _ Store = (*MemoryStore)(nil)

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		users:         make(map[int]models.User),
		leaks:         make(map[int]models.Leak),
		comments:      make(map[int]models.Comment),
		nextUserID:    1,
		nextLeakID:    1,
		nextCommentID: 1,
		now:           time.Now,
	}
}

func (s *MemoryStore) GetUser(_ context.Context, id int) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	u, ok := s.users[id]
	if !ok {
		return nil, nil
	}
	return &u, nil
}

func (s *MemoryStore) GetUserByUsername(_ context.Context, username string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	// lowest id wins when duplicates exist
	var found *models.User
	for _, u := range s.users {
		if u.Username != username {
			continue
		}
		if found == nil || u.ID < found.ID {
			found = &u
		}
	}
	return found, nil
}

// CreateUser does not enforce username uniqueness.
func (s *MemoryStore) CreateUser(_ context.Context, in models.UserInput) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	u := newUserRecord(in, s.now())
	u.ID = s.nextUserID
	s.nextUserID++
	s.users[u.ID] = u
	return &u, nil
}

func (s *MemoryStore) GetLeaks(_ context.Context) ([]models.Leak, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.Leak, 0, len(s.leaks))
	for _, l := range s.leaks {
		out = append(out, cloneLeak(l))
	}
	sortNewestFirst(out)
	return out, nil
}

func (s *MemoryStore) GetLeak(_ context.Context, id int) (*models.Leak, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	l, ok := s.leaks[id]
	if !ok {
		return nil, nil
	}
	l = cloneLeak(l)
	return &l, nil
}

func (s *MemoryStore) GetLeaksByUserID(_ context.Context, userID int) ([]models.Leak, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.Leak, 0)
	for _, l := range s.leaks {
		if l.UserID != nil && *l.UserID == userID {
			out = append(out, cloneLeak(l))
		}
	}
	sortNewestFirst(out)
	return out, nil
}

func (s *MemoryStore) CreateLeak(_ context.Context, in models.LeakInput, userID *int) (*models.Leak, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	l := newLeakRecord(in, userID, s.now())
	l.ID = s.nextLeakID
	s.nextLeakID++
	s.leaks[l.ID] = l

	l = cloneLeak(l)
	return &l, nil
}

func (s *MemoryStore) UpdateLeakStatus(_ context.Context, id int, status string) (*models.Leak, error) {
	return s.updateLeak(id, func(l *models.Leak) {
		if status != "" {
			l.Status = status
		}
	})
}

func (s *MemoryStore) UpdateLeakValidation(_ context.Context, id int, validated bool) (*models.Leak, error) {
	return s.updateLeak(id, func(l *models.Leak) {
		l.IsValidated = validated
	})
}

func (s *MemoryStore) updateLeak(id int, mutate func(*models.Leak)) (*models.Leak, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	l, ok := s.leaks[id]
	if !ok {
		return nil, nil
	}
	mutate(&l)
	l.UpdatedAt = s.now()
	s.leaks[id] = l

	l = cloneLeak(l)
	return &l, nil
}

func (s *MemoryStore) GetCommentsByLeakID(_ context.Context, leakID int) ([]models.Comment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.Comment, 0)
	for _, c := range s.comments {
		if c.LeakID == leakID {
			c.UserID = copyIntPtr(c.UserID)
			out = append(out, c)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (s *MemoryStore) CreateComment(_ context.Context, in models.CommentInput) (*models.Comment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c := newCommentRecord(in, s.now())
	c.ID = s.nextCommentID
	s.nextCommentID++
	s.comments[c.ID] = c

	c.UserID = copyIntPtr(c.UserID)
	return &c, nil
}

func cloneLeak(l models.Leak) models.Leak {
	l.UserID = copyIntPtr(l.UserID)
	l.Images = slices.Clone(l.Images)
	return l
}

func sortNewestFirst(leaks []models.Leak) {
	sort.SliceStable(leaks, func(i, j int) bool {
		if !leaks[i].CreatedAt.Equal(leaks[j].CreatedAt) {
			return leaks[i].CreatedAt.After(leaks[j].CreatedAt)
		}
		return leaks[i].ID > leaks[j].ID
	})
}
