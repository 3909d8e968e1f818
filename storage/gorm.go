package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
	"gorm.io/gorm"

	"p9e.in/leakwatch/models"
)

const uniqueViolation = "23505"

// GormStore is the relational Store backed by the users, leaks and comments
// tables created in config.Migrations.
type GormStore struct {
	db  *gorm.DB
	now func() time.Time
}

var _ Store = (*GormStore)(nil)

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db, now: time.Now}
}

func (s *GormStore) GetUser(ctx context.Context, id int) (*models.User, error) {
	var u models.User
	if err := s.db.WithContext(ctx).First(&u, id).Error; err != nil {
		return nil, absentOrErr(err)
	}
	return &u, nil
}

func (s *GormStore) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	var u models.User
	if err := s.db.WithContext(ctx).Where("username = ?", username).First(&u).Error; err != nil {
		return nil, absentOrErr(err)
	}
	return &u, nil
}

func (s *GormStore) CreateUser(ctx context.Context, in models.UserInput) (*models.User, error) {
	u := newUserRecord(in, s.now())
	if err := s.db.WithContext(ctx).Create(&u).Error; err != nil {
		if isUniqueViolation(err) {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateUsername, in.Username)
		}
		return nil, fmt.Errorf("create user: %w", err)
	}
	return &u, nil
}

func (s *GormStore) GetLeaks(ctx context.Context) ([]models.Leak, error) {
	leaks := make([]models.Leak, 0)
	err := s.db.WithContext(ctx).
		Order("created_at DESC, id DESC").
		Find(&leaks).Error
	if err != nil {
		return nil, fmt.Errorf("list leaks: %w", err)
	}
	return leaks, nil
}

func (s *GormStore) GetLeak(ctx context.Context, id int) (*models.Leak, error) {
	var l models.Leak
	if err := s.db.WithContext(ctx).First(&l, id).Error; err != nil {
		return nil, absentOrErr(err)
	}
	return &l, nil
}

func (s *GormStore) GetLeaksByUserID(ctx context.Context, userID int) ([]models.Leak, error) {
	leaks := make([]models.Leak, 0)
	err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC, id DESC").
		Find(&leaks).Error
	if err != nil {
		return nil, fmt.Errorf("list leaks for user %d: %w", userID, err)
	}
	return leaks, nil
}

func (s *GormStore) CreateLeak(ctx context.Context, in models.LeakInput, userID *int) (*models.Leak, error) {
	l := newLeakRecord(in, userID, s.now())
	if err := s.db.WithContext(ctx).Create(&l).Error; err != nil {
		return nil, fmt.Errorf("create leak: %w", err)
	}
	return &l, nil
}

func (s *GormStore) UpdateLeakStatus(ctx context.Context, id int, status string) (*models.Leak, error) {
	return s.updateLeak(ctx, id, func(l *models.Leak) map[string]interface{} {
		if status != "" {
			l.Status = status
		}
		return map[string]interface{}{"status": l.Status}
	})
}

func (s *GormStore) UpdateLeakValidation(ctx context.Context, id int, validated bool) (*models.Leak, error) {
	return s.updateLeak(ctx, id, func(l *models.Leak) map[string]interface{} {
		l.IsValidated = validated
		return map[string]interface{}{"is_validated": validated}
	})
}

func (s *GormStore) updateLeak(ctx context.Context, id int, mutate func(*models.Leak) map[string]interface{}) (*models.Leak, error) {
	db := s.db.WithContext(ctx)

	var l models.Leak
	if err := db.First(&l, id).Error; err != nil {
		return nil, absentOrErr(err)
	}

	changes := mutate(&l)
	l.UpdatedAt = s.now()
	changes["updated_at"] = l.UpdatedAt

	if err := db.Model(&models.Leak{}).Where("id = ?", id).Updates(changes).Error; err != nil {
		return nil, fmt.Errorf("update leak %d: %w", id, err)
	}
	return &l, nil
}

func (s *GormStore) GetCommentsByLeakID(ctx context.Context, leakID int) ([]models.Comment, error) {
	comments := make([]models.Comment, 0)
	err := s.db.WithContext(ctx).
		Where("leak_id = ?", leakID).
		Order("created_at ASC, id ASC").
		Find(&comments).Error
	if err != nil {
		return nil, fmt.Errorf("list comments for leak %d: %w", leakID, err)
	}
	return comments, nil
}

func (s *GormStore) CreateComment(ctx context.Context, in models.CommentInput) (*models.Comment, error) {
	c := newCommentRecord(in, s.now())
	if err := s.db.WithContext(ctx).Create(&c).Error; err != nil {
		return nil, fmt.Errorf("create comment: %w", err)
	}
	return &c, nil
}

func absentOrErr(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil
	}
	return err
}

// isUniqueViolation covers the translated gorm error as well as raw errors
// from either the pgx or the lib/pq driver.
func isUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == uniqueViolation
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return string(pqErr.Code) == uniqueViolation
	}
	return false
}
