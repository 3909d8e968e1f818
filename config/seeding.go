package config

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"p9e.in/leakwatch/models"
	"p9e.in/leakwatch/storage"
)

const (
	AdminUsername = "admin"
	// AdminPassword is stored in plaintext like every other password.
	AdminPassword = "adminpass"
)

type sampleLeak struct {
	input     models.LeakInput
	image     string
	validated bool
	comments  []string
}

func float(v float64) *float64 { return &v }

func coords(lat, lng float64) *models.CoordinatesInput {
	return &models.CoordinatesInput{Lat: float(lat), Lng: float(lng)}
}

var sampleLeaks = []sampleLeak{
	{
		input: models.LeakInput{
			Title:       "Fire Hydrant Leak",
			Description: "Large leak from hydrant on Main St causing sidewalk flooding and potential road damage.",
			Location:    "1234 Main St, Central District",
			Coordinates: coords(40.7128, -74.0060),
			Status:      models.StatusInProgress,
			LeakType:    models.LeakTypeFireHydrant,
			Severity:    4,
		},
		image:     "sample-hydrant.jpg",
		validated: true,
		comments: []string{
			"Maintenance team has been dispatched and will arrive by 3pm today.",
			"This is the third time this hydrant has leaked this year. Please consider a full replacement.",
		},
	},
	{
		input: models.LeakInput{
			Title:       "Water Main Break",
			Description: "Major water main break causing flooding on Oak Street. Water pressure issues reported in nearby buildings.",
			Location:    "567 Oak St, Westside",
			Coordinates: coords(40.7328, -74.0060),
			Status:      models.StatusPending,
			LeakType:    models.LeakTypeWaterMain,
			Severity:    5,
		},
		image:     "sample-water-main.jpg",
		validated: true,
		comments: []string{
			"Emergency crew is on site. Expect water service disruption for next 4-6 hours.",
		},
	},
	{
		input: models.LeakInput{
			Title:       "Underground Pipe Leak",
			Description: "Water continuously seeping through sidewalk cracks, creating slippery conditions for pedestrians.",
			Location:    "789 Pine Ave, Eastside",
			Coordinates: coords(40.7228, -73.9860),
			Status:      models.StatusResolved,
			LeakType:    models.LeakTypePipe,
			Severity:    2,
		},
		image:     "sample-pipe.jpg",
		validated: true,
		comments: []string{
			"Repair completed on May 12. Area has been monitored for 48 hours with no further leaks detected.",
		},
	},
	{
		input: models.LeakInput{
			Title:       "Bridge Infrastructure Damage",
			Description: "Significant structural damage and water seepage on the north side of Johnson Bridge. Poses safety hazard.",
			Location:    "Johnson Bridge, River District",
			Coordinates: coords(40.7048, -73.9860),
			Status:      models.StatusPending,
			LeakType:    models.LeakTypeInfrastructure,
			Severity:    4,
		},
		image: "sample-bridge.jpg",
	},
}

// SampleLeakCount is the number of leaks inserted into an empty store.
var SampleLeakCount = len(sampleLeaks)

// RunAllSeeding makes sure the admin account and the sample data exist.
// Each step is guarded by an existence check, so running it on every start
// does not duplicate rows. It is not transactional.
func RunAllSeeding(ctx context.Context, store storage.Store, uploadDir string, log *zap.Logger) error {
	if log == nil {
		log = zap.NewNop()
	}
	log.Info("=== Starting Database Seeding ===")

	var errs []error
	if err := SeedAdmin(ctx, store, log); err != nil {
		errs = append(errs, err)
	}
	if err := SeedSampleLeaks(ctx, store, uploadDir, log); err != nil {
		errs = append(errs, err)
	}

	log.Info("=== Database Seeding Complete ===")
	return errors.Join(errs...)
}

// SeedAdmin creates the admin user unless one with that username exists.
func SeedAdmin(ctx context.Context, store storage.Store, log *zap.Logger) error {
	existing, err := store.GetUserByUsername(ctx, AdminUsername)
	if err != nil {
		return fmt.Errorf("look up admin user: %w", err)
	}
	if existing != nil {
		log.Debug("admin user already exists", zap.Int("id", existing.ID))
		return nil
	}

	isAdmin := true
	admin, err := store.CreateUser(ctx, models.UserInput{
		Username: AdminUsername,
		Password: AdminPassword,
		IsAdmin:  &isAdmin,
	})
	if err != nil {
		return fmt.Errorf("create admin user: %w", err)
	}
	log.Info("✅ Admin user created", zap.Int("id", admin.ID))
	return nil
}

// SeedSampleLeaks inserts the sample leaks and their comments when the store
// holds no leaks at all.
func SeedSampleLeaks(ctx context.Context, store storage.Store, uploadDir string, log *zap.Logger) error {
	existing, err := store.GetLeaks(ctx)
	if err != nil {
		return fmt.Errorf("list leaks: %w", err)
	}
	if len(existing) > 0 {
		log.Debug("leaks already present, skipping sample data", zap.Int("count", len(existing)))
		return nil
	}

	log.Info("🔄 Creating sample leak data...")
	for _, s := range sampleLeaks {
		url, err := ensureSampleImage(uploadDir, s.image, log)
		if err != nil {
			return err
		}

		in := s.input
		in.Images = []string{url}
		leak, err := store.CreateLeak(ctx, in, nil)
		if err != nil {
			return fmt.Errorf("create sample leak %q: %w", in.Title, err)
		}

		if s.validated {
			if _, err := store.UpdateLeakValidation(ctx, leak.ID, true); err != nil {
				return fmt.Errorf("validate sample leak %d: %w", leak.ID, err)
			}
		}

		for _, text := range s.comments {
			content := text
			if _, err := store.CreateComment(ctx, models.CommentInput{LeakID: leak.ID, Content: &content}); err != nil {
				return fmt.Errorf("create sample comment on leak %d: %w", leak.ID, err)
			}
		}
	}
	log.Info("✅ Sample leak data created", zap.Int("count", len(sampleLeaks)))
	return nil
}

// ensureSampleImage writes a placeholder file for a sample image unless one
// is already there, and returns its /uploads/ URL.
func ensureSampleImage(uploadDir, name string, log *zap.Logger) (string, error) {
	if err := os.MkdirAll(uploadDir, 0755); err != nil {
		return "", fmt.Errorf("create upload directory: %w", err)
	}

	path := filepath.Join(uploadDir, name)
	if _, err := os.Stat(path); err == nil {
		log.Debug("sample image already exists", zap.String("file", name))
	} else if errors.Is(err, os.ErrNotExist) {
		if err := os.WriteFile(path, []byte("Sample Image Placeholder"), 0644); err != nil {
			return "", fmt.Errorf("write placeholder %s: %w", name, err)
		}
		log.Info("created placeholder image", zap.String("file", name))
	} else {
		return "", err
	}

	return "/uploads/" + name, nil
}
