package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/paulmach/orb"
	"go.uber.org/zap"

	"p9e.in/leakwatch/logger"
	"p9e.in/leakwatch/utils"
)

// GetLeaksGeoJSON godoc
// @Summary Leaks as a GeoJSON FeatureCollection for the map view
// @Param bbox query string false "minLng,minLat,maxLng,maxLat"
// @Success 200 {object} object
// @Failure 400 {object} messageResponse
// @Router /api/leaks/geojson [get]
func (h *Handler) GetLeaksGeoJSON(w http.ResponseWriter, r *http.Request) {
	var bound *orb.Bound
	if raw := r.URL.Query().Get("bbox"); raw != "" {
		b, err := utils.ParseBBox(raw)
		if err != nil {
			writeMessage(w, http.StatusBadRequest, "Invalid bbox: "+err.Error())
			return
		}
		bound = &b
	}

	leaks, err := h.store.GetLeaks(r.Context())
	if err != nil {
		logger.WithContext(r.Context(), h.log).Error("fetch leaks for map", zap.Error(err))
		writeMessage(w, http.StatusInternalServerError, "Failed to fetch leaks")
		return
	}

	body, err := json.Marshal(utils.LeaksToFeatureCollection(leaks, bound))
	if err != nil {
		logger.WithContext(r.Context(), h.log).Error("encode geojson", zap.Error(err))
		writeMessage(w, http.StatusInternalServerError, "Failed to fetch leaks")
		return
	}

	w.Header().Set("Content-Type", "application/geo+json")
	w.WriteHeader(http.StatusOK)
	w.Write(body)
}
