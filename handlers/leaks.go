package handlers

import (
	"encoding/json"
	"errors"
	"mime"
	"mime/multipart"
	"net/http"
	"strconv"

	"go.uber.org/zap"

	"p9e.in/leakwatch/logger"
	"p9e.in/leakwatch/models"
	"p9e.in/leakwatch/pkg/filestore"
	"p9e.in/leakwatch/utils"
)

// DefaultLeakImage is attached to reports submitted without photos.
const DefaultLeakImage = "/uploads/sample-hydrant.jpg"

const multipartMemory = 32 << 20

// GetLeaks godoc
// @Summary List leaks, newest first
// @Param status query string false "exact status filter"
// @Param leakType query string false "exact leak type filter"
// @Success 200 {array} models.Leak
// @Router /api/leaks [get]
func (h *Handler) GetLeaks(w http.ResponseWriter, r *http.Request) {
	leaks, err := h.store.GetLeaks(r.Context())
	if err != nil {
		logger.WithContext(r.Context(), h.log).Error("fetch leaks", zap.Error(err))
		writeMessage(w, http.StatusInternalServerError, "Failed to fetch leaks")
		return
	}

	status := r.URL.Query().Get("status")
	leakType := r.URL.Query().Get("leakType")
	if status != "" || leakType != "" {
		filtered := make([]models.Leak, 0, len(leaks))
		for _, l := range leaks {
			if status != "" && l.Status != status {
				continue
			}
			if leakType != "" && l.LeakType != leakType {
				continue
			}
			filtered = append(filtered, l)
		}
		leaks = filtered
	}

	writeJSON(w, http.StatusOK, leaks)
}

// GetLeak godoc
// @Summary Get one leak
// @Param id path int true "leak id"
// @Success 200 {object} models.Leak
// @Failure 400,404 {object} messageResponse
// @Router /api/leaks/{id} [get]
func (h *Handler) GetLeak(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		writeMessage(w, http.StatusBadRequest, "Invalid leak ID")
		return
	}

	leak, err := h.store.GetLeak(r.Context(), id)
	if err != nil {
		logger.WithContext(r.Context(), h.log).Error("fetch leak", zap.Int("id", id), zap.Error(err))
		writeMessage(w, http.StatusInternalServerError, "Failed to fetch leak")
		return
	}
	if leak == nil {
		writeMessage(w, http.StatusNotFound, "Leak not found")
		return
	}

	writeJSON(w, http.StatusOK, leak)
}

// CreateLeak godoc
//
// Malformed fields are defaulted rather than rejected. When the assembled
// payload fails schema validation the error is logged and the payload is
// inserted anyway. That path never applies the image validation outcome.
//
// @Summary Submit a leak report
// @Accept multipart/form-data,json
// @Param files formData file false "up to 5 photos"
// @Param coordinates formData string false "JSON {lat,lng}"
// @Success 201 {object} models.Leak
// @Failure 400 {object} messageResponse
// @Router /api/leaks [post]
func (h *Handler) CreateLeak(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.WithContext(ctx, h.log)

	r.Body = http.MaxBytesReader(w, r.Body, filestore.MaxFilesCount*filestore.MaxFileSize+multipartMemory)
	fields, err := readLeakFields(r)
	if err != nil {
		log.Warn("parse leak submission", zap.Error(err))
		writeMessage(w, http.StatusBadRequest, "Failed to create leak report")
		return
	}

	var files []*multipart.FileHeader
	if r.MultipartForm != nil {
		defer r.MultipartForm.RemoveAll()
		files = r.MultipartForm.File["files"]
	}
	if len(files) > filestore.MaxFilesCount {
		writeMessage(w, http.StatusBadRequest, "Too many files: at most 5 images are allowed")
		return
	}

	images, validated, err := h.storeImages(r, files, log)
	if err != nil {
		log.Error("store leak images", zap.Error(err))
		writeMessage(w, http.StatusBadRequest, "Failed to create leak report")
		return
	}

	in := fields.input()
	in.Images = images
	reporter := fields.reporter()

	if verr := h.validate.Struct(in); verr != nil {
		log.Warn("leak payload failed schema validation, inserting unvalidated payload", zap.Error(verr))
		leak, err := h.store.CreateLeak(ctx, in, reporter)
		if err != nil {
			log.Error("create leak", zap.Error(err))
			writeMessage(w, http.StatusBadRequest, "Failed to create leak report")
			return
		}
		h.metrics.ObserveLeakReport(leak.IsValidated)
		writeJSON(w, http.StatusCreated, leak)
		return
	}

	leak, err := h.store.CreateLeak(ctx, in, reporter)
	if err != nil {
		log.Error("create leak", zap.Error(err))
		writeMessage(w, http.StatusBadRequest, "Failed to create leak report")
		return
	}

	if validated {
		updated, err := h.store.UpdateLeakValidation(ctx, leak.ID, true)
		if err != nil {
			log.Error("mark leak validated", zap.Int("id", leak.ID), zap.Error(err))
			writeMessage(w, http.StatusBadRequest, "Failed to create leak report")
			return
		}
		if updated != nil {
			leak = updated
		}
	}

	h.metrics.ObserveLeakReport(leak.IsValidated)
	writeJSON(w, http.StatusCreated, leak)
}

// storeImages saves the uploads and returns their URLs together with the
// acceptance result of the first file. Without uploads the placeholder image
// is used and the report counts as validated.
func (h *Handler) storeImages(r *http.Request, files []*multipart.FileHeader, log *zap.Logger) ([]string, bool, error) {
	if len(files) == 0 {
		return []string{DefaultLeakImage}, true, nil
	}

	urls := make([]string, 0, len(files))
	validated := false
	for i, fh := range files {
		path, err := filestore.SaveUpload(h.uploadDir, fh)
		if err != nil {
			return nil, false, err
		}
		if i == 0 {
			validated = utils.ValidateLeakImage(path, log)
		}

		url, err := h.files.Publish(r.Context(), path)
		if err != nil {
			return nil, false, err
		}
		urls = append(urls, url)
	}
	return urls, validated, nil
}

// leakFields are the submitted values before defaults are applied.
type leakFields struct {
	title       string
	description string
	location    string
	coordinates string
	status      string
	leakType    string
	severity    string
	userID      string
}

// readLeakFields accepts a JSON body, a multipart form or a URL-encoded form.
func readLeakFields(r *http.Request) (leakFields, error) {
	if isJSONRequest(r) {
		return leakFieldsFromJSON(r)
	}

	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		if !errors.Is(err, http.ErrNotMultipart) {
			return leakFields{}, err
		}
		if err := r.ParseForm(); err != nil {
			return leakFields{}, err
		}
	}

	return leakFields{
		title:       r.FormValue("title"),
		description: r.FormValue("description"),
		location:    r.FormValue("location"),
		coordinates: r.FormValue("coordinates"),
		status:      r.FormValue("status"),
		leakType:    r.FormValue("leakType"),
		severity:    r.FormValue("severity"),
		userID:      r.FormValue("userId"),
	}, nil
}

func isJSONRequest(r *http.Request) bool {
	mediaType, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	return err == nil && mediaType == "application/json"
}

// leakFieldsFromJSON reads a JSON object. coordinates may be an object or a
// string holding one; severity and userId may be numbers or strings.
func leakFieldsFromJSON(r *http.Request) (leakFields, error) {
	var body map[string]json.RawMessage
	if err := decodeBody(r, &body); err != nil {
		return leakFields{}, err
	}

	return leakFields{
		title:       jsonText(body["title"]),
		description: jsonText(body["description"]),
		location:    jsonText(body["location"]),
		coordinates: jsonText(body["coordinates"]),
		status:      jsonText(body["status"]),
		leakType:    jsonText(body["leakType"]),
		severity:    jsonText(body["severity"]),
		userID:      jsonText(body["userId"]),
	}, nil
}

// jsonText returns the contents of a JSON string, the literal text of any
// other value, and "" for null or a missing key.
func jsonText(raw json.RawMessage) string {
	if len(raw) == 0 || string(raw) == "null" {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	return string(raw)
}

func (f leakFields) input() models.LeakInput {
	severity, err := strconv.Atoi(f.severity)
	if err != nil || severity == 0 {
		severity = models.DefaultLeakSeverity
	}

	return models.LeakInput{
		Title:       valueOr(f.title, models.DefaultLeakTitle),
		Description: valueOr(f.description, models.DefaultLeakDescription),
		Location:    valueOr(f.location, models.DefaultLeakLocation),
		Coordinates: parseCoordinates(f.coordinates),
		Status:      valueOr(f.status, models.DefaultLeakStatus),
		LeakType:    valueOr(f.leakType, models.DefaultLeakType),
		Severity:    severity,
	}
}

// reporter returns the submitting user's id, or nil when userId is absent
// or not a positive integer.
func (f leakFields) reporter() *int {
	id, err := strconv.Atoi(f.userID)
	if err != nil || id <= 0 {
		return nil
	}
	return &id
}

// parseCoordinates decodes the JSON coordinates field. Missing or unparsable
// input yields DefaultCoordinates; a JSON null yields nil.
func parseCoordinates(raw string) *models.CoordinatesInput {
	fallback := func() *models.CoordinatesInput {
		lat, lng := models.DefaultCoordinates.Lat, models.DefaultCoordinates.Lng
		return &models.CoordinatesInput{Lat: &lat, Lng: &lng}
	}
	if raw == "" {
		return fallback()
	}

	var c *models.CoordinatesInput
	if err := json.Unmarshal([]byte(raw), &c); err != nil {
		return fallback()
	}
	return c
}

func valueOr(v, def string) string {
	if v != "" {
		return v
	}
	return def
}

type statusRequest struct {
	Status string `json:"status"`
}

// UpdateLeakStatus godoc
// @Summary Set a leak's status (any value is stored verbatim)
// @Param id path int true "leak id"
// @Success 200 {object} models.Leak
// @Failure 400,404 {object} messageResponse
// @Router /api/leaks/{id}/status [patch]
func (h *Handler) UpdateLeakStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		writeMessage(w, http.StatusBadRequest, "Invalid leak ID")
		return
	}

	var req statusRequest
	if err := decodeBody(r, &req); err != nil {
		writeMessage(w, http.StatusBadRequest, "invalid JSON")
		return
	}

	leak, err := h.store.UpdateLeakStatus(r.Context(), id, req.Status)
	if err != nil {
		logger.WithContext(r.Context(), h.log).Error("update leak status", zap.Int("id", id), zap.Error(err))
		writeMessage(w, http.StatusInternalServerError, "Failed to update leak status")
		return
	}
	if leak == nil {
		writeMessage(w, http.StatusNotFound, "Leak not found")
		return
	}

	writeJSON(w, http.StatusOK, leak)
}

type validationRequest struct {
	IsValidated *bool `json:"isValidated"`
}

// UpdateLeakValidation godoc
// @Summary Override a leak's image validation flag
// @Param id path int true "leak id"
// @Success 200 {object} models.Leak
// @Failure 400,404 {object} messageResponse
// @Router /api/leaks/{id}/validation [patch]
func (h *Handler) UpdateLeakValidation(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		writeMessage(w, http.StatusBadRequest, "Invalid leak ID")
		return
	}

	var req validationRequest
	if err := decodeBody(r, &req); err != nil || req.IsValidated == nil {
		writeMessage(w, http.StatusBadRequest, "isValidated must be a boolean")
		return
	}

	leak, err := h.store.UpdateLeakValidation(r.Context(), id, *req.IsValidated)
	if err != nil {
		logger.WithContext(r.Context(), h.log).Error("update leak validation", zap.Int("id", id), zap.Error(err))
		writeMessage(w, http.StatusInternalServerError, "Failed to update leak validation")
		return
	}
	if leak == nil {
		writeMessage(w, http.StatusNotFound, "Leak not found")
		return
	}

	writeJSON(w, http.StatusOK, leak)
}

// GetUserLeaks godoc
// @Summary List one user's leaks, newest first
// @Param id path int true "user id"
// @Success 200 {array} models.Leak
// @Router /api/users/{id}/leaks [get]
func (h *Handler) GetUserLeaks(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		writeMessage(w, http.StatusBadRequest, "Invalid user ID")
		return
	}

	leaks, err := h.store.GetLeaksByUserID(r.Context(), id)
	if err != nil {
		logger.WithContext(r.Context(), h.log).Error("fetch user leaks", zap.Int("user_id", id), zap.Error(err))
		writeMessage(w, http.StatusInternalServerError, "Failed to fetch leaks")
		return
	}

	writeJSON(w, http.StatusOK, leaks)
}

// LeakStats are the admin dashboard counters.
type LeakStats struct {
	Total      int `json:"total"`
	Pending    int `json:"pending"`
	InProgress int `json:"inProgress"`
	Urgent     int `json:"urgent"`
	Resolved   int `json:"resolved"`
	Rejected   int `json:"rejected"`
	Validated  int `json:"validated"`
}

// GetStats godoc
// @Summary Dashboard counters
// @Success 200 {object} LeakStats
// @Router /api/stats [get]
func (h *Handler) GetStats(w http.ResponseWriter, r *http.Request) {
	leaks, err := h.store.GetLeaks(r.Context())
	if err != nil {
		logger.WithContext(r.Context(), h.log).Error("fetch leaks for stats", zap.Error(err))
		writeMessage(w, http.StatusInternalServerError, "Failed to fetch stats")
		return
	}

	stats := LeakStats{Total: len(leaks)}
	for _, l := range leaks {
		switch l.Status {
		case models.StatusPending:
			stats.Pending++
		case models.StatusInProgress:
			stats.InProgress++
		case models.StatusUrgent:
			stats.Urgent++
		case models.StatusResolved:
			stats.Resolved++
		case models.StatusRejected:
			stats.Rejected++
		}
		if l.IsValidated {
			stats.Validated++
		}
	}

	writeJSON(w, http.StatusOK, stats)
}
