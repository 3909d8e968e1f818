package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"p9e.in/leakwatch/middleware"
	"p9e.in/leakwatch/pkg/filestore"
	"p9e.in/leakwatch/storage"
)

// Handler serves the REST API on top of a Store.
type Handler struct {
	store     storage.Store
	files     filestore.Publisher
	uploadDir string
	tokens    *middleware.JWT
	metrics   *middleware.HTTPMetrics
	log       *zap.Logger
	validate  *validator.Validate
}

type Options struct {
	Store     storage.Store
	Files     filestore.Publisher
	UploadDir string
	Tokens    *middleware.JWT
	Metrics   *middleware.HTTPMetrics
	Log       *zap.Logger
}

func New(opts Options) *Handler {
	h := &Handler{
		store:     opts.Store,
		files:     opts.Files,
		uploadDir: opts.UploadDir,
		tokens:    opts.Tokens,
		metrics:   opts.Metrics,
		log:       opts.Log,
		validate:  validator.New(),
	}
	if h.files == nil {
		h.files = filestore.NewLocal()
	}
	if h.uploadDir == "" {
		h.uploadDir = "./uploads"
	}
	if h.log == nil {
		h.log = zap.NewNop()
	}
	return h
}

type messageResponse struct {
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, code int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(v)
}

func writeMessage(w http.ResponseWriter, code int, msg string) {
	writeJSON(w, code, messageResponse{Message: msg})
}

// pathID parses a mux path variable as a base-10 integer.
func pathID(r *http.Request, name string) (int, bool) {
	id, err := strconv.Atoi(mux.Vars(r)[name])
	if err != nil {
		return 0, false
	}
	return id, true
}

// decodeBody decodes a JSON body into v. An empty body leaves v untouched.
func decodeBody(r *http.Request, v interface{}) error {
	err := json.NewDecoder(r.Body).Decode(v)
	if errors.Is(err, io.EOF) {
		return nil
	}
	return err
}

// Health answers liveness checks.
func Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
