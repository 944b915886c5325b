package api

import (
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/loadhound/trafficgen/internal/geo"
)

type errorResponse struct {
	Error string `json:"error"`
}

type updateIntervalRequest struct {
	MinInterval float64 `json:"min_interval"`
	MaxInterval float64 `json:"max_interval"`
}

type simulateDDoSRequest struct {
	DurationSeconds int    `json:"duration_seconds"`
	Region          string `json:"region,omitempty"`
}

type statusResponse struct {
	TrafficEnabled       bool    `json:"traffic_enabled"`
	MinInterval          float64 `json:"min_interval"`
	MaxInterval          float64 `json:"max_interval"`
	DDoSActive           bool    `json:"ddos_active"`
	DDoSRegion           string  `json:"ddos_region,omitempty"`
	DDoSRemainingSeconds float64 `json:"ddos_remaining_seconds"`
	ActiveFlowsTotal     int     `json:"active_flows_total"`
}

func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	cfg, ov := s.ctrl.Snapshot()
	state := "running"
	if !s.ctrl.Enabled() {
		state = "paused"
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"service": "trafficgen",
		"status":  state,
		"config": map[string]any{
			"traffic_enabled": s.ctrl.Enabled(),
			"min_interval":    cfg.MinInterval,
			"max_interval":    cfg.MaxInterval,
			"ddos_active":     ov.Active,
			"ddos_region":     regionOrEmpty(ov.Active, ov.Region),
		},
	})
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	cfg, ov := s.ctrl.Snapshot()
	writeJSON(w, http.StatusOK, statusResponse{
		TrafficEnabled:       s.ctrl.Enabled(),
		MinInterval:          cfg.MinInterval,
		MaxInterval:          cfg.MaxInterval,
		DDoSActive:           ov.Active,
		DDoSRegion:           regionOrEmpty(ov.Active, ov.Region),
		DDoSRemainingSeconds: ov.Remaining.Seconds(),
		ActiveFlowsTotal:     s.activeFlows(),
	})
}

func (s *Server) handleUpdateInterval(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	var req updateIntervalRequest
	if err := s.decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	if err := s.ctrl.SetInterval(req.MinInterval, req.MaxInterval); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	cfg, _ := s.ctrl.Snapshot()
	s.metrics.Interval.WithLabelValues("min").Set(cfg.MinInterval)
	s.metrics.Interval.WithLabelValues("max").Set(cfg.MaxInterval)
	s.log.Info().Float64("min", cfg.MinInterval).Float64("max", cfg.MaxInterval).Msg("generation interval updated")
	writeJSON(w, http.StatusOK, map[string]any{
		"status":       "success",
		"message":      "Interval updated",
		"min_interval": cfg.MinInterval,
		"max_interval": cfg.MaxInterval,
	})
}

func (s *Server) handleSimulateDDoS(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	var req simulateDDoSRequest
	if err := s.decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	var region *geo.Region
	if req.Region != "" {
		parsed, err := geo.ParseRegion(req.Region)
		if err != nil {
			writeError(w, http.StatusBadRequest, err)
			return
		}
		region = &parsed
	}
	duration := time.Duration(req.DurationSeconds) * time.Second
	selected, err := s.ctrl.StartOverload(duration, region)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	s.metrics.DDoSActive.Set(1)
	s.log.Warn().Str("region", string(selected)).Int("duration_seconds", req.DurationSeconds).Msg("ddos simulation started")
	writeJSON(w, http.StatusOK, map[string]any{
		"status":           "success",
		"message":          "DDoS simulation started from " + string(selected),
		"region":           string(selected),
		"duration_seconds": req.DurationSeconds,
		"end_time":         time.Now().Add(duration).UTC().Format(time.RFC3339),
	})
}

func (s *Server) handleTraffic(enable bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		verb := "stopped"
		if enable {
			verb = "started"
		}
		if !s.ctrl.SetEnabled(enable) {
			writeJSON(w, http.StatusOK, map[string]any{
				"status":  "info",
				"message": "Traffic generation is already " + verb,
			})
			return
		}
		s.log.Info().Bool("enabled", enable).Msg("traffic generation toggled")
		writeJSON(w, http.StatusOK, map[string]any{
			"status":          "success",
			"message":         "Traffic generation " + verb,
			"traffic_enabled": enable,
		})
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}

func (s *Server) decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	r.Body = http.MaxBytesReader(w, r.Body, defaultMaxBodyBytes)
	defer func() {
		_, _ = io.Copy(io.Discard, r.Body)
	}()
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, errorResponse{Error: err.Error()})
}

func regionOrEmpty(active bool, region geo.Region) string {
	if !active {
		return ""
	}
	return string(region)
}
