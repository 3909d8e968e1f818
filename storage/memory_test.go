package storage

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"p9e.in/leakwatch/models"
)

// fixedClock returns t0, t0+1s, t0+2s, ... on successive calls.
func fixedClock(t0 time.Time) func() time.Time {
	var mu sync.Mutex
	n := 0
	return func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		ts := t0.Add(time.Duration(n) * time.Second)
		n++
		return ts
	}
}

func ptr[T any](v T) *T { return &v }

func TestMemoryStore_CreateLeakDefaults(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	l, err := s.CreateLeak(ctx, models.LeakInput{}, nil)
	require.NoError(t, err)

	assert.Equal(t, 1, l.ID)
	assert.Equal(t, models.DefaultLeakTitle, l.Title)
	assert.Equal(t, models.DefaultLeakDescription, l.Description)
	assert.Equal(t, models.DefaultLeakLocation, l.Location)
	assert.Equal(t, models.StatusPending, l.Status)
	assert.Equal(t, models.LeakTypeOther, l.LeakType)
	assert.Equal(t, 3, l.Severity)
	assert.Equal(t, models.DefaultCoordinates, l.Point())
	assert.NotNil(t, l.Images)
	assert.Empty(t, l.Images)
	assert.False(t, l.IsValidated)
	assert.Nil(t, l.UserID)
	assert.Equal(t, l.CreatedAt, l.UpdatedAt)
}

func TestMemoryStore_CreateLeakKeepsPayload(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	in := models.LeakInput{
		Title:       "Burst main",
		Description: "Water everywhere",
		Location:    "5th Ave",
		Coordinates: &models.CoordinatesInput{Lat: ptr(1.5), Lng: ptr(-2.5)},
		Status:      "some-unknown-status",
		LeakType:    models.LeakTypePipe,
		Severity:    5,
		Images:      []string{"/uploads/a.jpg"},
	}
	l, err := s.CreateLeak(ctx, in, ptr(7))
	require.NoError(t, err)

	assert.Equal(t, "Burst main", l.Title)
	assert.Equal(t, "some-unknown-status", l.Status, "stores accept any status")
	assert.Equal(t, 5, l.Severity)
	assert.Equal(t, models.Coordinates{Lat: 1.5, Lng: -2.5}, l.Point())
	assert.Equal(t, []string{"/uploads/a.jpg"}, []string(l.Images))
	require.NotNil(t, l.UserID)
	assert.Equal(t, 7, *l.UserID)
	assert.False(t, l.IsValidated)
}

func TestMemoryStore_GetLeaksNewestFirst(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	s.now = fixedClock(time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC))

	for _, title := range []string{"a", "b", "c"} {
		_, err := s.CreateLeak(ctx, models.LeakInput{Title: title}, nil)
		require.NoError(t, err)
	}

	leaks, err := s.GetLeaks(ctx)
	require.NoError(t, err)
	require.Len(t, leaks, 3)
	assert.Equal(t, []string{"c", "b", "a"}, []string{leaks[0].Title, leaks[1].Title, leaks[2].Title})
}

func TestMemoryStore_GetLeaksTieBreaksOnID(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	same := time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return same }

	for i := 0; i < 3; i++ {
		_, err := s.CreateLeak(ctx, models.LeakInput{}, nil)
		require.NoError(t, err)
	}

	leaks, err := s.GetLeaks(ctx)
	require.NoError(t, err)
	require.Len(t, leaks, 3)
	assert.Equal(t, []int{3, 2, 1}, []int{leaks[0].ID, leaks[1].ID, leaks[2].ID})
}

func TestMemoryStore_GetLeaksEmpty(t *testing.T) {
	leaks, err := NewMemoryStore().GetLeaks(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, leaks)
	assert.Empty(t, leaks)
}

func TestMemoryStore_GetLeaksByUserID(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	s.now = fixedClock(time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC))

	_, _ = s.CreateLeak(ctx, models.LeakInput{Title: "mine-1"}, ptr(1))
	_, _ = s.CreateLeak(ctx, models.LeakInput{Title: "theirs"}, ptr(2))
	_, _ = s.CreateLeak(ctx, models.LeakInput{Title: "anon"}, nil)
	_, _ = s.CreateLeak(ctx, models.LeakInput{Title: "mine-2"}, ptr(1))

	leaks, err := s.GetLeaksByUserID(ctx, 1)
	require.NoError(t, err)
	require.Len(t, leaks, 2)
	assert.Equal(t, "mine-2", leaks[0].Title)
	assert.Equal(t, "mine-1", leaks[1].Title)

	none, err := s.GetLeaksByUserID(ctx, 99)
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestMemoryStore_GetLeakAbsent(t *testing.T) {
	l, err := NewMemoryStore().GetLeak(context.Background(), 42)
	require.NoError(t, err)
	assert.Nil(t, l)
}

func TestMemoryStore_ReturnsCopies(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	created, err := s.CreateLeak(ctx, models.LeakInput{Title: "orig", Images: []string{"x"}}, nil)
	require.NoError(t, err)

	created.Title = "mutated"
	created.Images[0] = "mutated"

	got, err := s.GetLeak(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "orig", got.Title)
	assert.Equal(t, []string{"x"}, []string(got.Images))
}

func TestMemoryStore_UpdateLeakStatus(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	s.now = fixedClock(time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC))

	created, err := s.CreateLeak(ctx, models.LeakInput{}, nil)
	require.NoError(t, err)

	updated, err := s.UpdateLeakStatus(ctx, created.ID, models.StatusResolved)
	require.NoError(t, err)
	require.NotNil(t, updated)
	assert.Equal(t, models.StatusResolved, updated.Status)
	assert.True(t, updated.UpdatedAt.After(created.UpdatedAt))
	assert.Equal(t, created.CreatedAt, updated.CreatedAt)

	// empty status keeps the current one but still bumps updatedAt
	again, err := s.UpdateLeakStatus(ctx, created.ID, "")
	require.NoError(t, err)
	assert.Equal(t, models.StatusResolved, again.Status)
	assert.True(t, again.UpdatedAt.After(updated.UpdatedAt))

	got, err := s.GetLeak(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusResolved, got.Status)
}

func TestMemoryStore_UpdateAbsentLeak(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	l, err := s.UpdateLeakStatus(ctx, 5, models.StatusResolved)
	require.NoError(t, err)
	assert.Nil(t, l)

	l, err = s.UpdateLeakValidation(ctx, 5, true)
	require.NoError(t, err)
	assert.Nil(t, l)

	leaks, _ := s.GetLeaks(ctx)
	assert.Empty(t, leaks)
}

func TestMemoryStore_UpdateLeakValidation(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	created, _ := s.CreateLeak(ctx, models.LeakInput{}, nil)
	updated, err := s.UpdateLeakValidation(ctx, created.ID, true)
	require.NoError(t, err)
	assert.True(t, updated.IsValidated)

	updated, err = s.UpdateLeakValidation(ctx, created.ID, false)
	require.NoError(t, err)
	assert.False(t, updated.IsValidated)
}

func TestMemoryStore_Users(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	u1, err := s.CreateUser(ctx, models.UserInput{Username: "alice", Password: "pw"})
	require.NoError(t, err)
	assert.Equal(t, 1, u1.ID)
	assert.False(t, u1.IsAdmin)
	assert.Equal(t, "pw", u1.Password)

	// no uniqueness enforcement in memory
	u2, err := s.CreateUser(ctx, models.UserInput{Username: "alice", Password: "other", IsAdmin: ptr(true)})
	require.NoError(t, err)
	assert.Equal(t, 2, u2.ID)
	assert.True(t, u2.IsAdmin)

	byName, err := s.GetUserByUsername(ctx, "alice")
	require.NoError(t, err)
	require.NotNil(t, byName)
	assert.Equal(t, 1, byName.ID)

	byID, err := s.GetUser(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, "other", byID.Password)

	missing, err := s.GetUserByUsername(ctx, "bob")
	require.NoError(t, err)
	assert.Nil(t, missing)

	missing, err = s.GetUser(ctx, 9)
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestMemoryStore_Comments(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	s.now = fixedClock(time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC))

	// leak existence is not checked by the store
	c1, err := s.CreateComment(ctx, models.CommentInput{LeakID: 10, Content: ptr("first")})
	require.NoError(t, err)
	c2, err := s.CreateComment(ctx, models.CommentInput{LeakID: 10, Content: ptr("second"), UserID: ptr(3)})
	require.NoError(t, err)
	_, err = s.CreateComment(ctx, models.CommentInput{LeakID: 11, Content: ptr("elsewhere")})
	require.NoError(t, err)

	assert.Equal(t, 1, c1.ID)
	assert.Equal(t, 2, c2.ID)
	assert.Nil(t, c1.UserID)

	comments, err := s.GetCommentsByLeakID(ctx, 10)
	require.NoError(t, err)
	require.Len(t, comments, 2)
	assert.Equal(t, "first", comments[0].Content)
	assert.Equal(t, "second", comments[1].Content)
	assert.Equal(t, 3, *comments[1].UserID)

	none, err := s.GetCommentsByLeakID(ctx, 404)
	require.NoError(t, err)
	assert.NotNil(t, none)
	assert.Empty(t, none)
}

func TestMemoryStore_IDsNeverReused(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = s.CreateLeak(ctx, models.LeakInput{}, nil)
		}()
	}
	wg.Wait()

	leaks, err := s.GetLeaks(ctx)
	require.NoError(t, err)
	require.Len(t, leaks, 50)

	seen := make(map[int]bool)
	for _, l := range leaks {
		assert.False(t, seen[l.ID], "duplicate id %d", l.ID)
		seen[l.ID] = true
		assert.True(t, l.ID >= 1 && l.ID <= 50)
	}
}

func TestMemoryStore_CreateLeakPartialCoordinates(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	tests := []struct {
		name  string
		input *models.CoordinatesInput
	}{
		{"lat only", &models.CoordinatesInput{Lat: ptr(1.0)}},
		{"lng only", &models.CoordinatesInput{Lng: ptr(2.0)}},
		{"empty object", &models.CoordinatesInput{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l, err := s.CreateLeak(ctx, models.LeakInput{Coordinates: tt.input}, nil)
			require.NoError(t, err)
			assert.Equal(t, models.DefaultCoordinates, l.Point())
		})
	}
}
