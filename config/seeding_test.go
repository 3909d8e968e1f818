package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"p9e.in/leakwatch/storage"
)

func TestRunAllSeeding_Idempotent(t *testing.T) {
	ctx := context.Background()
	store := storage.NewMemoryStore()
	dir := t.TempDir()

	require.NoError(t, RunAllSeeding(ctx, store, dir, nil))
	require.NoError(t, RunAllSeeding(ctx, store, dir, nil))

	admin, err := store.GetUserByUsername(ctx, AdminUsername)
	require.NoError(t, err)
	require.NotNil(t, admin)
	assert.True(t, admin.IsAdmin)
	assert.True(t, admin.PasswordMatches(AdminPassword))

	// a second admin would have taken id 2
	second, err := store.GetUser(ctx, 2)
	require.NoError(t, err)
	assert.Nil(t, second)

	leaks, err := store.GetLeaks(ctx)
	require.NoError(t, err)
	assert.Len(t, leaks, SampleLeakCount)

	validated := 0
	comments := 0
	for _, l := range leaks {
		if l.IsValidated {
			validated++
		}
		require.Len(t, l.Images, 1)
		name := filepath.Base(l.Images[0])
		_, err := os.Stat(filepath.Join(dir, name))
		assert.NoError(t, err, "placeholder for %s", name)

		cs, err := store.GetCommentsByLeakID(ctx, l.ID)
		require.NoError(t, err)
		comments += len(cs)
	}
	assert.Equal(t, 3, validated)
	assert.Equal(t, 4, comments)
}

func TestSeedSampleLeaks_SkipsNonEmptyStore(t *testing.T) {
	ctx := context.Background()
	store := storage.NewMemoryStore()
	dir := t.TempDir()

	require.NoError(t, SeedSampleLeaks(ctx, store, dir, zapNop()))
	leaks, _ := store.GetLeaks(ctx)
	require.Len(t, leaks, SampleLeakCount)

	_, err := store.UpdateLeakStatus(ctx, leaks[0].ID, "resolved")
	require.NoError(t, err)

	require.NoError(t, SeedSampleLeaks(ctx, store, dir, zapNop()))
	again, _ := store.GetLeaks(ctx)
	assert.Len(t, again, SampleLeakCount)
}

func TestEnsureSampleImage_KeepsExistingFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "sample-pipe.jpg")
	require.NoError(t, os.WriteFile(path, []byte("real photo"), 0644))

	url, err := ensureSampleImage(dir, "sample-pipe.jpg", zapNop())
	require.NoError(t, err)
	assert.Equal(t, "/uploads/sample-pipe.jpg", url)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "real photo", string(data))
}
