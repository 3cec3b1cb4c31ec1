package main

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/WessleyAI/carhub/engine/activity"
	"github.com/WessleyAI/carhub/engine/catalog"
	"github.com/WessleyAI/carhub/engine/domain"
	"github.com/WessleyAI/carhub/engine/relevance"
	"github.com/WessleyAI/carhub/engine/remote"
	"github.com/WessleyAI/carhub/engine/similar"
	"github.com/WessleyAI/carhub/engine/tunability"
	"github.com/WessleyAI/carhub/pkg/metrics"
)

// similarFinder is the part of similar.Index the API needs.
type similarFinder interface {
	Similar(ctx context.Context, slug string, k int) ([]similar.Match, error)
}

type server struct {
	catalog  *catalog.Service
	similar  similarFinder
	tracker  *activity.Tracker
	recorder *activity.Recorder
	metrics  *metrics.Registry
	logger   *slog.Logger
}

func (s *server) routes() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/health", handleHealth)
	mux.HandleFunc("GET /api/cars", s.handleCars)
	mux.HandleFunc("GET /api/cars/search", s.handleSearch)
	mux.HandleFunc("GET /api/cars/{slug}", s.handleCar)
	mux.HandleFunc("GET /api/cars/{slug}/detail", s.handleDetail)
	mux.HandleFunc("GET /api/cars/{slug}/tunability", s.handleTunability)
	mux.HandleFunc("GET /api/cars/{slug}/similar", s.handleSimilar)
	mux.HandleFunc("POST /api/relevance", s.handleRelevance)
	mux.HandleFunc("POST /api/activity", s.handleActivity)
	mux.HandleFunc("GET /api/activity/stats", s.handleActivityStats)
	if s.metrics != nil {
		mux.Handle("GET /metrics", s.metrics.Handler())
	}
	return mux
}

// --- Helpers ---

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, code int, msg string) {
	writeJSON(w, code, map[string]string{"error": msg})
}

// dataHeaders exposes where a catalog read came from.
func dataHeaders[T any](w http.ResponseWriter, r catalog.Resolution[T]) {
	w.Header().Set("X-Data-Source", string(r.Source))
	w.Header().Set("X-Data-Status", r.Status().String())
}

// unavailable reports a miss caused by a failing remote store rather than
// an unknown slug. An unconfigured store is not a failure.
func unavailable[T any](r catalog.Resolution[T]) bool {
	c := r.Cause()
	return r.IsDegraded() && c != nil && !errors.Is(c, remote.ErrNotConfigured)
}

// resolveCar writes a 404 or 503 and returns nil when slug cannot be served.
func (s *server) resolveCar(w http.ResponseWriter, r *http.Request, slug string) *domain.Vehicle {
	res := s.catalog.FetchBySlug(r.Context(), slug)
	dataHeaders(w, res)
	car := res.Value()
	if car != nil {
		return car
	}
	if unavailable(res) {
		writeError(w, http.StatusServiceUnavailable, "catalog unavailable")
		return nil
	}
	writeError(w, http.StatusNotFound, "car not found")
	return nil
}

// --- Handlers ---

func handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *server) handleCars(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	var res catalog.Resolution[[]domain.Vehicle]
	switch {
	case q.Get("tier") != "":
		tier := domain.Tier(q.Get("tier"))
		if !domain.ValidTiers[tier] {
			writeError(w, http.StatusBadRequest, "unknown tier")
			return
		}
		res = s.catalog.FetchByTier(r.Context(), tier)
	case q.Get("category") != "":
		res = s.catalog.FetchByCategory(r.Context(), domain.Category(q.Get("category")))
	default:
		res = s.catalog.FetchAll(r.Context())
	}
	dataHeaders(w, res)
	writeJSON(w, http.StatusOK, nonNil(res.Value()))
}

func (s *server) handleSearch(w http.ResponseWriter, r *http.Request) {
	res := s.catalog.Search(r.Context(), r.URL.Query().Get("q"))
	dataHeaders(w, res)
	writeJSON(w, http.StatusOK, nonNil(res.Value()))
}

func (s *server) handleCar(w http.ResponseWriter, r *http.Request) {
	if car := s.resolveCar(w, r, r.PathValue("slug")); car != nil {
		writeJSON(w, http.StatusOK, car)
	}
}

// DetailResponse is the JSON response for GET /api/cars/{slug}/detail.
type DetailResponse struct {
	*catalog.Detail
	Warnings []string `json:"warnings,omitempty"`
}

func (s *server) handleDetail(w http.ResponseWriter, r *http.Request) {
	res := s.catalog.FetchDetail(r.Context(), r.PathValue("slug"))
	dataHeaders(w, res)
	d := res.Value()
	if d == nil {
		if unavailable(res) {
			writeError(w, http.StatusServiceUnavailable, "catalog unavailable")
			return
		}
		writeError(w, http.StatusNotFound, "car not found")
		return
	}
	writeJSON(w, http.StatusOK, DetailResponse{Detail: d, Warnings: res.Warnings})
}

func (s *server) handleTunability(w http.ResponseWriter, r *http.Request) {
	if car := s.resolveCar(w, r, r.PathValue("slug")); car != nil {
		writeJSON(w, http.StatusOK, tunability.Score(*car))
	}
}

func (s *server) handleSimilar(w http.ResponseWriter, r *http.Request) {
	if s.similar == nil {
		writeError(w, http.StatusServiceUnavailable, "similar cars not configured")
		return
	}
	k, _ := strconv.Atoi(r.URL.Query().Get("k"))
	matches, err := s.similar.Similar(r.Context(), r.PathValue("slug"), k)
	switch {
	case errors.Is(err, similar.ErrUnknownCar):
		writeError(w, http.StatusNotFound, "car not indexed")
	case err != nil:
		s.logger.Error("similar search failed", "slug", r.PathValue("slug"), "err", err)
		writeError(w, http.StatusBadGateway, "similar search failed")
	default:
		writeJSON(w, http.StatusOK, nonNil(matches))
	}
}

// RelevanceRequest is the JSON body for POST /api/relevance.
type RelevanceRequest struct {
	Metadata relevance.Metadata `json:"metadata"`
	CarSlug  string             `json:"carSlug,omitempty"`
}

func (s *server) handleRelevance(w http.ResponseWriter, r *http.Request) {
	var req RelevanceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	var car *domain.Vehicle
	if req.CarSlug != "" {
		if car = s.resolveCar(w, r, req.CarSlug); car == nil {
			return
		}
	}
	writeJSON(w, http.StatusOK, relevance.Classify(req.Metadata, car))
}

// ActivityResponse is the JSON response for POST /api/activity.
type ActivityResponse struct {
	SessionID string `json:"sessionId"`
}

// session resumes the caller's session from X-Session-ID or starts a new one.
func session(r *http.Request) activity.Session {
	user := strings.TrimSpace(r.Header.Get("X-User-ID"))
	if id := r.Header.Get("X-Session-ID"); id != "" {
		if s, err := activity.ResumeSession(id, user); err == nil {
			return s
		}
	}
	return activity.NewSession(user)
}

func (s *server) handleActivity(w http.ResponseWriter, r *http.Request) {
	var ev activity.Event
	if err := json.NewDecoder(r.Body).Decode(&ev); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if !ev.Kind.Valid() {
		writeError(w, http.StatusBadRequest, "unknown activity kind")
		return
	}
	sess := session(r)
	if s.tracker.Enabled() {
		s.tracker.Track(r.Context(), sess, ev)
	} else {
		s.recorder.Record(r.Context(), activity.Record{
			Kind: ev.Kind, SessionID: sess.ID, UserID: sess.UserID,
			CarSlug: ev.CarSlug, Query: ev.Query, Meta: ev.Meta,
		})
	}
	w.Header().Set("X-Session-ID", sess.ID)
	writeJSON(w, http.StatusAccepted, ActivityResponse{SessionID: sess.ID})
}

func (s *server) handleActivityStats(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.recorder.Stats())
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
