package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/sells-group/tripscore/internal/compare"
	"github.com/sells-group/tripscore/internal/extract"
	"github.com/sells-group/tripscore/internal/itinerary"
	"github.com/sells-group/tripscore/internal/model"
	"github.com/sells-group/tripscore/internal/planner"
	"github.com/sells-group/tripscore/internal/provider"
	"github.com/sells-group/tripscore/internal/scorer"
)

func (s *Server) health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// getWeights handles GET /api/weights/{user}.
func (s *Server) getWeights(w http.ResponseWriter, r *http.Request) {
	sess, err := s.planner.Session(r.Context(), chi.URLParam(r, "user"))
	if err != nil {
		s.fail(w, err, "load weights failed")
		return
	}
	writeJSON(w, http.StatusOK, sess)
}

// putWeights handles PUT /api/weights/{user}. The body is a loose object of
// slider values; numeric strings are accepted.
func (s *Server) putWeights(w http.ResponseWriter, r *http.Request) {
	var body map[string]any
	if !s.decode(w, r, &body) {
		return
	}
	sess, err := s.planner.UpdateWeights(r.Context(), chi.URLParam(r, "user"), scorer.RawFromAny(body))
	if err != nil {
		s.fail(w, err, "save weights failed")
		return
	}
	writeJSON(w, http.StatusOK, sess)
}

// lastItinerary handles GET /api/itinerary/{user}.
func (s *Server) lastItinerary(w http.ResponseWriter, r *http.Request) {
	it, err := s.planner.LastItinerary(r.Context(), chi.URLParam(r, "user"))
	if err != nil {
		s.fail(w, err, "load itinerary failed")
		return
	}
	if it == nil {
		writeError(w, http.StatusNotFound, "no itinerary", "")
		return
	}
	writeJSON(w, http.StatusOK, it)
}

type extractRequest struct {
	Markdown string `json:"markdown"`
}

// extractMarkdown handles POST /api/extract/markdown.
func (s *Server) extractMarkdown(w http.ResponseWriter, r *http.Request) {
	var req extractRequest
	if !s.decode(w, r, &req) {
		return
	}
	writeJSON(w, http.StatusOK, extract.FromMarkdown(req.Markdown))
}

type scoreRequest struct {
	User       string                 `json:"user,omitempty"`
	Weights    *model.RawWeights      `json:"weights,omitempty"`
	Rank       bool                   `json:"rank,omitempty"`
	Flights    []model.FlightOption   `json:"flights,omitempty"`
	Hotels     []model.HotelOption    `json:"hotels,omitempty"`
	Activities []model.ActivityOption `json:"activities,omitempty"`
}

type scoreResponse[T model.Candidate] struct {
	Weights model.PreferenceWeights    `json:"weights"`
	Results []model.ScoredCandidate[T] `json:"results"`
}

// score handles POST /api/score/{kind}. Results keep input order unless rank
// is set.
func (s *Server) score(w http.ResponseWriter, r *http.Request) {
	var req scoreRequest
	if !s.decode(w, r, &req) {
		return
	}
	weights, err := s.weights(r.Context(), req.User, req.Weights)
	if err != nil {
		s.fail(w, err, "load weights failed")
		return
	}

	switch kind := chi.URLParam(r, "kind"); kind {
	case "flights":
		flights := scorer.MarkOptimal(req.Flights, s.opts.Scoring)
		writeJSON(w, http.StatusOK, scored(weights, scorer.ScoreFlights(flights, weights), req.Rank))
	case "hotels":
		writeJSON(w, http.StatusOK, scored(weights, scorer.ScoreHotels(req.Hotels, weights), req.Rank))
	case "activities":
		writeJSON(w, http.StatusOK, scored(weights, scorer.ScoreActivities(req.Activities, weights), req.Rank))
	default:
		writeError(w, http.StatusNotFound, "unknown option kind", kind)
	}
}

func scored[T model.Candidate](w model.PreferenceWeights, results []model.ScoredCandidate[T], rank bool) scoreResponse[T] {
	if rank {
		results = scorer.Rank(results)
	}
	return scoreResponse[T]{Weights: w, Results: results}
}

type compareRequest struct {
	Candidates []model.ScoredCandidate[model.FlightOption] `json:"candidates,omitempty"`
	Flights    []model.FlightOption                        `json:"flights,omitempty"`
	User       string                                      `json:"user,omitempty"`
	Weights    *model.RawWeights                           `json:"weights,omitempty"`
}

// compare handles POST /api/compare. Pre-scored candidates are compared as
// given; plain flights are scored first and the top three compared.
func (s *Server) compare(w http.ResponseWriter, r *http.Request) {
	var req compareRequest
	if !s.decode(w, r, &req) {
		return
	}
	candidates := req.Candidates
	if len(candidates) == 0 && len(req.Flights) > 0 {
		weights, err := s.weights(r.Context(), req.User, req.Weights)
		if err != nil {
			s.fail(w, err, "load weights failed")
			return
		}
		candidates = scorer.Top(scorer.ScoreFlights(req.Flights, weights), compare.MaxCandidates)
	}
	writeJSON(w, http.StatusOK, compare.Compare(candidates))
}

type itineraryRequest struct {
	Flight       *model.FlightOption    `json:"flight,omitempty"`
	ReturnFlight *model.FlightOption    `json:"return_flight,omitempty"`
	Hotel        *model.HotelOption     `json:"hotel,omitempty"`
	Activities   []model.ActivityOption `json:"activities,omitempty"`
	StartDate    string                 `json:"start_date"`
	EndDate      string                 `json:"end_date,omitempty"`
	ReturnDate   string                 `json:"return_date,omitempty"`
	Locale       string                 `json:"locale,omitempty"`
}

type itineraryResponse struct {
	Days []model.ItineraryDay `json:"days"`
}

// itinerary handles POST /api/itinerary.
func (s *Server) itinerary(w http.ResponseWriter, r *http.Request) {
	var req itineraryRequest
	if !s.decode(w, r, &req) {
		return
	}
	start, end, ret, err := itinerary.ResolveDates(req.StartDate, req.EndDate, req.ReturnDate)
	if err != nil {
		s.fail(w, err, "assemble itinerary failed")
		return
	}
	locale := req.Locale
	if locale == "" {
		locale = s.opts.Locale
	}
	days, err := itinerary.Assemble(itinerary.Input{
		Flight:           req.Flight,
		ReturnFlight:     req.ReturnFlight,
		Hotel:            req.Hotel,
		Activities:       req.Activities,
		Start:            start,
		End:              end,
		Return:           ret,
		Locale:           locale,
		ActivitiesPerDay: s.opts.ActivitiesPerDay,
	})
	if err != nil {
		s.fail(w, err, "assemble itinerary failed")
		return
	}
	writeJSON(w, http.StatusOK, itineraryResponse{Days: days})
}

type planRequest struct {
	User    string            `json:"user"`
	Query   provider.Query    `json:"query"`
	EndDate string            `json:"end_date,omitempty"`
	Weights *model.RawWeights `json:"weights,omitempty"`
}

// plan handles POST /api/plan.
func (s *Server) plan(w http.ResponseWriter, r *http.Request) {
	var req planRequest
	if !s.decode(w, r, &req) {
		return
	}
	if req.User == "" {
		writeError(w, http.StatusBadRequest, "user is required", "")
		return
	}
	res, err := s.planner.Plan(r.Context(), req.User, planner.Request{
		Query:   req.Query,
		EndDate: req.EndDate,
		Weights: req.Weights,
	})
	if err != nil {
		s.fail(w, err, "plan failed")
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// weights resolves the weights for a stateless request: an explicit override,
// then the user's session, then the configured default.
func (s *Server) weights(ctx context.Context, user string, raw *model.RawWeights) (model.PreferenceWeights, error) {
	if raw != nil {
		return scorer.Normalize(*raw), nil
	}
	if user == "" {
		return s.opts.Scoring.SessionDefault(), nil
	}
	sess, err := s.planner.Session(ctx, user)
	if err != nil {
		return model.PreferenceWeights{}, err
	}
	return sess.Weights, nil
}

func (s *Server) decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, s.opts.MaxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return false
	}
	return true
}

// fail maps an error to a response. A missing date range is the caller's
// mistake; everything else is logged and reported as 500.
func (s *Server) fail(w http.ResponseWriter, err error, message string) {
	if errors.Is(err, itinerary.ErrMissingDateRange) {
		writeError(w, http.StatusUnprocessableEntity, "missing date range", "a valid start date is required")
		return
	}
	zap.L().Error(message, zap.Error(err))
	writeError(w, http.StatusInternalServerError, message, err.Error())
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v) //nolint:errcheck
}

func writeError(w http.ResponseWriter, status int, message, detail string) {
	resp := map[string]string{
		"error":   message,
		"message": message,
	}
	if detail != "" {
		resp["detail"] = detail
	}
	writeJSON(w, status, resp)
}
