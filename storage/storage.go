// Package storage persists users, leaks and comments.
//
// Two implementations satisfy Store: MemoryStore (process-local, used for
// ephemeral runs and tests) and GormStore (PostgreSQL, the durable source of
// truth). Lookups that find nothing return (nil, nil).
//
// Known divergence: GormStore rejects a duplicate username with
// ErrDuplicateUsername, MemoryStore silently creates a second user. Callers
// must check GetUserByUsername themselves.
package storage

import (
	"context"
	"errors"
	"slices"
	"time"

	"gorm.io/datatypes"

	"p9e.in/leakwatch/models"
)

var ErrDuplicateUsername = errors.New("username already exists")

type Store interface {
	GetUser(ctx context.Context, id int) (*models.User, error)
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)
	CreateUser(ctx context.Context, in models.UserInput) (*models.User, error)

	// GetLeaks returns every leak, newest first.
	GetLeaks(ctx context.Context) ([]models.Leak, error)
	GetLeak(ctx context.Context, id int) (*models.Leak, error)
	// GetLeaksByUserID returns the user's leaks, newest first.
	GetLeaksByUserID(ctx context.Context, userID int) ([]models.Leak, error)
	// CreateLeak fills empty fields with defaults and always stores
	// IsValidated=false.
	CreateLeak(ctx context.Context, in models.LeakInput, userID *int) (*models.Leak, error)
	// UpdateLeakStatus stores status verbatim; an empty status keeps the
	// current one. UpdatedAt is bumped either way.
	UpdateLeakStatus(ctx context.Context, id int, status string) (*models.Leak, error)
	UpdateLeakValidation(ctx context.Context, id int, validated bool) (*models.Leak, error)

	// GetCommentsByLeakID returns comments oldest first. The leak is not
	// required to exist.
	GetCommentsByLeakID(ctx context.Context, leakID int) ([]models.Comment, error)
	// CreateComment does not check that the leak exists.
	CreateComment(ctx context.Context, in models.CommentInput) (*models.Comment, error)
}

func newLeakRecord(in models.LeakInput, userID *int, now time.Time) models.Leak {
	leak := models.Leak{
		Title:       orDefault(in.Title, models.DefaultLeakTitle),
		Description: orDefault(in.Description, models.DefaultLeakDescription),
		UserID:      copyIntPtr(userID),
		Location:    orDefault(in.Location, models.DefaultLeakLocation),
		Coordinates: datatypes.NewJSONType(in.CoordinatesOrDefault()),
		Status:      orDefault(in.Status, models.DefaultLeakStatus),
		LeakType:    orDefault(in.LeakType, models.DefaultLeakType),
		Severity:    in.Severity,
		Images:      datatypes.JSONSlice[string]{},
		IsValidated: false,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if leak.Severity == 0 {
		leak.Severity = models.DefaultLeakSeverity
	}
	if in.Images != nil {
		leak.Images = datatypes.JSONSlice[string](slices.Clone(in.Images))
	}
	return leak
}

func newCommentRecord(in models.CommentInput, now time.Time) models.Comment {
	c := models.Comment{
		LeakID:    in.LeakID,
		UserID:    copyIntPtr(in.UserID),
		CreatedAt: now,
	}
	if in.Content != nil {
		c.Content = *in.Content
	}
	return c
}

func newUserRecord(in models.UserInput, now time.Time) models.User {
	u := models.User{
		Username:  in.Username,
		Password:  in.Password,
		CreatedAt: now,
	}
	if in.IsAdmin != nil {
		u.IsAdmin = *in.IsAdmin
	}
	return u
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}

func copyIntPtr(p *int) *int {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}
