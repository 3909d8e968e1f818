package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"

	"go.uber.org/zap"

	"p9e.in/leakwatch/config"
	"p9e.in/leakwatch/handlers"
	"p9e.in/leakwatch/logger"
	"p9e.in/leakwatch/middleware"
	"p9e.in/leakwatch/pkg/filestore"
	"p9e.in/leakwatch/routes"
	"p9e.in/leakwatch/storage"
)

var (
	Version   = "dev"
	BuildTime = ""
)

const devJWTSecret = "leakwatch-dev-secret"

func main() {

	versionFlag := flag.Bool("version", false, "Print version info and exit")
	flag.Parse()

	if *versionFlag {
		fmt.Printf("Version:   %s\n", Version)
		fmt.Printf("BuildTime: %s\n", BuildTime)
		os.Exit(0)
	}

	log, err := logger.New(os.Getenv("APP_ENV"))
	if err != nil {
		fmt.Fprintf(os.Stderr, "init logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	cfg := config.Load(log)
	if err := cfg.Validate(); err != nil {
		log.Fatal("invalid configuration", zap.Error(err))
	}

	ctx := context.Background()

	store, err := openStore(cfg, log)
	if err != nil {
		log.Fatal("could not open storage", zap.Error(err))
	}

	var files filestore.Publisher = filestore.NewLocal()
	if cfg.UseGCS {
		gcs, err := filestore.NewGCS(ctx, cfg.GCSBucket)
		if err != nil {
			log.Fatal("could not create GCS client", zap.Error(err))
		}
		defer gcs.Close()
		files = gcs
		log.Info("publishing uploads to GCS", zap.String("bucket", cfg.GCSBucket))
	}

	if err := os.MkdirAll(cfg.UploadDir, 0755); err != nil {
		log.Fatal("could not create upload directory", zap.Error(err))
	}

	secret := cfg.JWTSecret
	if secret == "" {
		log.Warn("JWT_SECRET not set, using development secret")
		secret = devJWTSecret
	}
	tokens := middleware.NewJWT(secret)

	metrics, err := middleware.NewHTTPMetrics(middleware.HTTPMetricsOptions{})
	if err != nil {
		log.Fatal("could not register metrics", zap.Error(err))
	}

	// Run seeding (will skip if data already exists)
	if cfg.SeedData {
		if err := config.RunAllSeeding(ctx, store, cfg.UploadDir, log); err != nil {
			log.Warn("seeding encountered issues", zap.Error(err))
		}
	}

	h := handlers.New(handlers.Options{
		Store:     store,
		Files:     files,
		UploadDir: cfg.UploadDir,
		Tokens:    tokens,
		Metrics:   metrics,
		Log:       log,
	})

	handler := routes.RegisterRoutes(routes.Deps{
		Handler:   h,
		Tokens:    tokens,
		Metrics:   metrics,
		UploadDir: cfg.UploadDir,
		Log:       log,
	})
	handlerWithCORS := enableCORS(handler)

	log.Info("Server starting",
		zap.String("port", cfg.Port),
		zap.String("storage", cfg.StorageBackend),
		zap.String("version", Version),
	)
	if err := http.ListenAndServe(":"+cfg.Port, handlerWithCORS); err != nil {
		log.Fatal("server stopped", zap.Error(err))
	}
}

func openStore(cfg config.Config, log *zap.Logger) (storage.Store, error) {
	if cfg.StorageBackend == config.BackendMemory {
		log.Info("using in-memory storage")
		return storage.NewMemoryStore(), nil
	}

	db, err := config.Connect(cfg)
	if err != nil {
		return nil, err
	}
	log.Info("connected to postgres", zap.String("driver", cfg.DBDriver))
	return storage.NewGormStore(db), nil
}

func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, X-Request-ID, X-Requested-With")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PATCH, OPTIONS")

		// Handle preflight (OPTIONS)
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}
