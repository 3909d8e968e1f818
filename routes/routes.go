package routes

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/swaggo/swag"
	"go.uber.org/zap"

	_ "p9e.in/leakwatch/docs"
	"p9e.in/leakwatch/handlers"
	"p9e.in/leakwatch/middleware"
	"p9e.in/leakwatch/pkg/filestore"
)

// Deps are the collaborators the router is built from.
type Deps struct {
	Handler   *handlers.Handler
	Tokens    *middleware.JWT
	Metrics   *middleware.HTTPMetrics
	Gatherer  prometheus.Gatherer
	UploadDir string
	Log       *zap.Logger
}

// RegisterRoutes sets up all application routes
func RegisterRoutes(d Deps) http.Handler {
	r := mux.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RequestLogger(d.Log))
	r.Use(d.Metrics.Handler)

	h := d.Handler

	// =====================================================
	// Operational endpoints
	// =====================================================
	r.HandleFunc("/healthz", handlers.Health).Methods("GET")
	gatherer := d.Gatherer
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}
	r.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})).Methods("GET")
	r.HandleFunc("/swagger/doc.json", serveSwaggerDoc).Methods("GET")

	uploadDir := d.UploadDir
	if uploadDir == "" {
		uploadDir = "./uploads"
	}
	r.PathPrefix("/uploads/").Handler(
		http.StripPrefix("/uploads/", http.FileServer(filestore.PublicDir(uploadDir))),
	).Methods("GET", "HEAD")

	// =====================================================
	// Public API
	// =====================================================
	api := r.PathPrefix("/api").Subrouter()
	registerLeakRoutes(api, h)

	api.HandleFunc("/users", h.CreateUser).Methods("POST")
	api.HandleFunc("/users/{id}/leaks", h.GetUserLeaks).Methods("GET")
	api.HandleFunc("/login", h.Login).Methods("POST")
	api.HandleFunc("/stats", h.GetStats).Methods("GET")

	// =====================================================
	// Admin API (bearer token with isAdmin)
	// =====================================================
	admin := api.PathPrefix("/admin").Subrouter()
	admin.Use(d.Tokens.Middleware)
	admin.Use(middleware.RequireAdmin)
	admin.HandleFunc("/leaks/export", h.ExportLeaks).Methods("GET")

	return r
}

// registerLeakRoutes registers the leak and comment routes. The literal
// /leaks/geojson route must precede /leaks/{id}.
func registerLeakRoutes(api *mux.Router, h *handlers.Handler) {
	api.HandleFunc("/leaks", h.GetLeaks).Methods("GET")
	api.HandleFunc("/leaks", h.CreateLeak).Methods("POST")
	api.HandleFunc("/leaks/geojson", h.GetLeaksGeoJSON).Methods("GET")
	api.HandleFunc("/leaks/{id}", h.GetLeak).Methods("GET")
	api.HandleFunc("/leaks/{id}/status", h.UpdateLeakStatus).Methods("PATCH")
	api.HandleFunc("/leaks/{id}/validation", h.UpdateLeakValidation).Methods("PATCH")
	api.HandleFunc("/leaks/{id}/comments", h.GetComments).Methods("GET")
	api.HandleFunc("/leaks/{id}/comments", h.CreateComment).Methods("POST")
}

func serveSwaggerDoc(w http.ResponseWriter, r *http.Request) {
	doc, err := swag.ReadDoc()
	if err != nil {
		http.Error(w, "swagger doc unavailable", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(doc))
}
