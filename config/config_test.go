package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func zapNop() *zap.Logger { return zap.NewNop() }

func TestLoad_Defaults(t *testing.T) {
	for _, k := range []string{"PORT", "APP_ENV", "STORAGE_BACKEND", "DB_DSN", "DB_DRIVER", "UPLOAD_DIR", "USE_GCS", "GCS_BUCKET", "K_SERVICE", "JWT_SECRET", "SEED_DATA"} {
		t.Setenv(k, "")
	}

	cfg := Load(zapNop())
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, BackendMemory, cfg.StorageBackend)
	assert.Equal(t, "pgx", cfg.DBDriver)
	assert.Equal(t, "./uploads", cfg.UploadDir)
	assert.False(t, cfg.UseGCS)
	assert.True(t, cfg.SeedData)
	assert.NoError(t, cfg.Validate())
}

func TestLoad_PostgresWhenDSNSet(t *testing.T) {
	t.Setenv("STORAGE_BACKEND", "")
	t.Setenv("DB_DSN", "postgres://localhost/leakwatch")

	cfg := Load(zapNop())
	assert.Equal(t, BackendPostgres, cfg.StorageBackend)
}

func TestLoad_GCSOnCloudRun(t *testing.T) {
	t.Setenv("USE_GCS", "")
	t.Setenv("K_SERVICE", "leakwatch")
	t.Setenv("GCS_BUCKET", "leak-photos")

	cfg := Load(zapNop())
	assert.True(t, cfg.UseGCS)
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{"memory", Config{StorageBackend: BackendMemory, DBDriver: "pgx"}, false},
		{"postgres with dsn", Config{StorageBackend: BackendPostgres, DSN: "x", DBDriver: "pq"}, false},
		{"postgres without dsn", Config{StorageBackend: BackendPostgres, DBDriver: "pgx"}, true},
		{"unknown backend", Config{StorageBackend: "sqlite", DBDriver: "pgx"}, true},
		{"unknown driver", Config{StorageBackend: BackendMemory, DBDriver: "mysql"}, true},
		{"gcs without bucket", Config{StorageBackend: BackendMemory, DBDriver: "pgx", UseGCS: true}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
