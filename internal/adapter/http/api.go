package http

import (
	"errors"
	"fmt"
	"math"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/couchcryptid/ocean-hazard-engine/internal/domain"
	"github.com/couchcryptid/ocean-hazard-engine/internal/forecast"
	sharedobs "github.com/couchcryptid/storm-data-shared/observability"
)

const (
	defaultCount = 5
	maxCount     = 100

	responseCacheSize = 256
	responseCacheTTL  = time.Minute

	defaultMaxWind   = 50.0
	defaultRMaxKm    = 30.0
	defaultHalfWidth = 3.0
	maxHalfWidth     = 10.0
)

type hazardSummary struct {
	Type domain.HazardType `json:"type"`
	domain.HazardConfig
}

// forecastResponse carries one event together with the artifacts derived for
// its hazard type at the requested hour.
type forecastResponse struct {
	Event     domain.HazardEvent       `json:"event"`
	Hour      int                      `json:"hour"`
	Active    domain.TimedPolygon      `json:"active_polygon"`
	Alert     *domain.CAPAlert         `json:"alert,omitempty"`
	Particles *domain.ParticleEnsemble `json:"particles,omitempty"`
	Track     *domain.CycloneTrack     `json:"track,omitempty"`
	Bloom     *domain.HABForecast      `json:"bloom,omitempty"`
}

func (s *Server) handleHazards(w http.ResponseWriter, _ *http.Request) {
	out := make([]hazardSummary, 0, len(domain.HazardTypes()))
	for _, h := range domain.HazardTypes() {
		out = append(out, hazardSummary{Type: h, HazardConfig: h.Config()})
	}
	sharedobs.WriteJSON(w, http.StatusOK, out)
}

// genRequest is the parsed form of a generation request.
type genRequest struct {
	hazard domain.HazardType
	count  int
	seed   uint64
	seeded bool
	gen    *forecast.Generator
}

func (req genRequest) cacheKey(route string, extra ...any) string {
	return fmt.Sprint(route, "|", req.hazard, "|", req.count, "|", req.seed, extra)
}

func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request) {
	req, ok := s.generatorFor(w, r)
	if !ok || !parseCount(w, r, &req) {
		return
	}
	s.writeCached(w, req.cacheKey("events"), req.seeded, func() any {
		return req.gen.GenerateEvents(req.hazard, req.count)
	})
}

func (s *Server) handleAlerts(w http.ResponseWriter, r *http.Request) {
	req, ok := s.generatorFor(w, r)
	if !ok || !parseCount(w, r, &req) {
		return
	}
	s.writeCached(w, req.cacheKey("alerts"), req.seeded, func() any {
		return req.gen.GenerateAlerts(req.gen.GenerateEvents(req.hazard, req.count))
	})
}

// handleForecast always generates a single event, so it ignores count. The
// hour cursor is clamped to the hazard's forecast horizon.
func (s *Server) handleForecast(w http.ResponseWriter, r *http.Request) {
	req, ok := s.generatorFor(w, r)
	if !ok {
		return
	}
	hour, err := intParam(r.URL.Query(), "hour", 0)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	cfg := req.hazard.Config()
	hour = min(max(hour, 0), max(cfg.ForecastHours, cfg.UpdateIntervalHours))
	s.writeCached(w, req.cacheKey("forecast", hour), req.seeded, func() any {
		return buildForecast(req.gen, req.hazard, hour)
	})
}

func buildForecast(g *forecast.Generator, h domain.HazardType, hour int) forecastResponse {
	e := g.GenerateEvents(h, 1)[0]
	active, _ := forecast.PolygonAt(e, hour)
	resp := forecastResponse{Event: e, Hour: hour, Active: active}
	if alerts := forecast.ToAlerts([]domain.HazardEvent{e}); len(alerts) == 1 {
		resp.Alert = &alerts[0]
	}
	switch h {
	case domain.HazardOilSpill:
		resp.Particles = g.GenerateParticleEnsemble(e, hour)
	case domain.HazardCyclone:
		resp.Track = g.GenerateCycloneTrack(e, hour)
	case domain.HazardHAB:
		resp.Bloom = g.GenerateHABGrid(e)
	}
	return resp
}

func (s *Server) handleWindField(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	lon, errLon := requiredFloat(q, "lon")
	lat, errLat := requiredFloat(q, "lat")
	maxWind, errWind := floatParam(q, "max_wind", defaultMaxWind)
	rMax, errR := floatParam(q, "r_max", defaultRMaxKm)
	half, errHalf := floatParam(q, "half_width", defaultHalfWidth)
	if err := errors.Join(errLon, errLat, errWind, errR, errHalf); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	switch {
	case lon < -180 || lon > 180 || lat < -90 || lat > 90:
		writeError(w, http.StatusBadRequest, errors.New("lon/lat out of range"))
		return
	case maxWind < 0 || rMax <= 0:
		writeError(w, http.StatusBadRequest, errors.New("max_wind must be >= 0 and r_max > 0"))
		return
	case half < 0 || half > maxHalfWidth:
		writeError(w, http.StatusBadRequest, fmt.Errorf("half_width must be within [0, %g]", maxHalfWidth))
		return
	}
	key := fmt.Sprint("windfield|", lon, "|", lat, "|", maxWind, "|", rMax, "|", half)
	s.writeCached(w, key, true, func() any {
		return forecast.GenerateCycloneWindField(lon, lat, maxWind, rMax, half)
	})
}

// writeCached renders build() as a 200 response. Cacheable responses are
// served from and stored in the response cache.
func (s *Server) writeCached(w http.ResponseWriter, key string, cacheable bool, build func() any) {
	if !cacheable {
		sharedobs.WriteJSON(w, http.StatusOK, build())
		return
	}
	if v, ok := s.cache.get(key); ok {
		s.metrics.APICache.WithLabelValues("hit").Inc()
		sharedobs.WriteJSON(w, http.StatusOK, v)
		return
	}
	s.metrics.APICache.WithLabelValues("miss").Inc()
	v := build()
	s.cache.put(key, v)
	sharedobs.WriteJSON(w, http.StatusOK, v)
}

// generatorFor resolves the {type} path value and a generator seeded from the
// seed parameter or the clock. It writes the error response itself and
// reports ok=false on bad input.
func (s *Server) generatorFor(w http.ResponseWriter, r *http.Request) (genRequest, bool) {
	h, err := domain.ParseHazardType(r.PathValue("type"))
	if err != nil {
		writeError(w, http.StatusNotFound, err)
		return genRequest{}, false
	}
	req := genRequest{hazard: h, seed: uint64(s.clock.Now().UnixNano())}
	if v := r.URL.Query().Get("seed"); v != "" {
		req.seed, err = strconv.ParseUint(v, 10, 64)
		if err != nil {
			writeError(w, http.StatusBadRequest, fmt.Errorf("invalid seed %q", v))
			return genRequest{}, false
		}
		req.seeded = true
	}
	req.gen = forecast.NewSeededGenerator(req.seed, s.clock)
	return req, true
}

// parseCount reads the count parameter into req, writing a 400 when it is
// malformed or outside 1-maxCount.
func parseCount(w http.ResponseWriter, r *http.Request, req *genRequest) bool {
	count, err := intParam(r.URL.Query(), "count", defaultCount)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return false
	}
	if count < 1 || count > maxCount {
		writeError(w, http.StatusBadRequest, fmt.Errorf("count must be 1-%d", maxCount))
		return false
	}
	req.count = count
	return true
}

func intParam(q url.Values, key string, fallback int) (int, error) {
	v := q.Get(key)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q", key, v)
	}
	return n, nil
}

func floatParam(q url.Values, key string, fallback float64) (float64, error) {
	v := q.Get(key)
	if v == "" {
		return fallback, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, fmt.Errorf("invalid %s %q", key, v)
	}
	return f, nil
}

func requiredFloat(q url.Values, key string) (float64, error) {
	if q.Get(key) == "" {
		return 0, fmt.Errorf("%s is required", key)
	}
	return floatParam(q, key, 0)
}

func writeError(w http.ResponseWriter, status int, err error) {
	sharedobs.WriteJSON(w, status, map[string]string{"error": err.Error()})
}
