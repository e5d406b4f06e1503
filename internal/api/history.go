package api

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/conduitiot/conduit-core/internal/device"
)

func (s *Server) handleGetDevice(w http.ResponseWriter, r *http.Request) {
	deviceID := chi.URLParam(r, "deviceID")

	dev, err := s.devices.GetByID(r.Context(), deviceID)
	if err != nil {
		if errors.Is(err, device.ErrDeviceNotFound) {
			writeNotFound(w, "device not found")
			return
		}
		s.logger.Error("getting device", "device_id", deviceID, "error", err)
		writeInternalError(w, "failed to get device")
		return
	}

	writeJSON(w, http.StatusOK, dev)
}

// handleListActuations returns the actuation history for a device,
// newest first. Supports from/to (RFC 3339) and limit query parameters.
func (s *Server) handleListActuations(w http.ResponseWriter, r *http.Request) {
	deviceID := chi.URLParam(r, "deviceID")

	var from, to time.Time
	var err error
	if v := r.URL.Query().Get("from"); v != "" {
		from, err = time.Parse(time.RFC3339, v)
		if err != nil {
			writeBadRequest(w, "from must be an RFC 3339 timestamp")
			return
		}
	}
	if v := r.URL.Query().Get("to"); v != "" {
		to, err = time.Parse(time.RFC3339, v)
		if err != nil {
			writeBadRequest(w, "to must be an RFC 3339 timestamp")
			return
		}
	}

	limit := 0
	if v := r.URL.Query().Get("limit"); v != "" {
		limit, err = strconv.Atoi(v)
		if err != nil || limit < 0 {
			writeBadRequest(w, "limit must be a non-negative integer")
			return
		}
	}

	records, err := s.history.ListByDevice(r.Context(), deviceID, from, to, limit)
	if err != nil {
		s.logger.Error("listing actuations", "device_id", deviceID, "error", err)
		writeInternalError(w, "failed to list actuations")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"actuations": records,
		"count":      len(records),
	})
}
