package web

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"go.uber.org/zap"

	"github.com/intelligrit/gtd-map/internal/aggregator"
	"github.com/intelligrit/gtd-map/internal/model"
	"github.com/intelligrit/gtd-map/internal/monthindex"
	"github.com/intelligrit/gtd-map/internal/options"
	"github.com/intelligrit/gtd-map/internal/query"
)

type monthEntry struct {
	Position int    `json:"position"`
	Label    string `json:"label"`
}

type monthsResponse struct {
	Months       []monthEntry `json:"months"`
	DefaultStart int          `json:"default_start"`
	DefaultEnd   int          `json:"default_end"`
}

func (s *Server) handleCountries(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, options.Countries(s.Dashboard.Dataset))
}

func (s *Server) handleOptions(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	field := model.Field(q.Get("field"))
	if !field.Valid() || field == model.FieldCountry {
		http.Error(w, "invalid 'field' parameter", http.StatusBadRequest)
		return
	}
	writeJSON(w, options.For(s.Dashboard.Dataset, q.Get("country"), field))
}

func (s *Server) handleMonths(w http.ResponseWriter, r *http.Request) {
	idx := s.Dashboard.Index
	resp := monthsResponse{
		Months:       make([]monthEntry, 0, idx.Len()),
		DefaultStart: s.DefaultStart,
		DefaultEnd:   s.DefaultEnd,
	}
	for i := range idx.Len() {
		label, err := idx.Label(i)
		if err != nil {
			s.fail(w, r, err)
			return
		}
		resp.Months = append(resp.Months, monthEntry{Position: i, Label: label})
	}
	writeJSON(w, resp)
}

func (s *Server) handleDateLabel(w http.ResponseWriter, r *http.Request) {
	start, end, err := s.monthRange(r.URL.Query())
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	label, err := s.Dashboard.DateLabel(start, end)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, map[string]string{"label": label})
}

func (s *Server) handleTitle(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, map[string]string{"title": s.Dashboard.PageTitle(r.URL.Query().Get("country"))})
}

func (s *Server) handleCountryMap(w http.ResponseWriter, r *http.Request) {
	sel, err := s.selector(r.URL.Query())
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	chart, err := s.Dashboard.PlaceMap(sel)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, chart)
}

func (s *Server) handleCountryBars(w http.ResponseWriter, r *http.Request) {
	sel, err := s.selector(r.URL.Query())
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	chart, err := s.Dashboard.PlaceBars(sel)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, chart)
}

func (s *Server) handleCountryActors(w http.ResponseWriter, r *http.Request) {
	sel, err := s.selector(r.URL.Query())
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	chart, err := s.Dashboard.ActorMap(sel)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, chart)
}

func (s *Server) handleWorldMap(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	from, to, err := s.yearRange(q)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	chart, err := s.Dashboard.WorldMap(q["country"], from, to)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, chart)
}

func (s *Server) handleWorldBars(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	from, to, err := s.yearRange(q)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	chart, err := s.Dashboard.WorldBars(q["country"], from, to)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, chart)
}

func (s *Server) handleWorldTop(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	metric, err := aggregator.ParseMetric(q.Get("metric"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	from, to, err := s.yearRange(q)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	chart, err := s.Dashboard.TopCountries(metric, from, to)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, chart)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, map[string]any{"status": "ok", "events": s.Dashboard.Dataset.Len()})
}

// selector reads the country page parameters. Repeated province, city and
// actor parameters form the selection sets.
func (s *Server) selector(q url.Values) (query.Selector, error) {
	start, end, err := s.monthRange(q)
	if err != nil {
		return query.Selector{}, err
	}
	return query.Selector{
		Country:   q.Get("country"),
		Provinces: q["province"],
		Cities:    q["city"],
		Actors:    q["actor"],
		Start:     start,
		End:       end,
	}, nil
}

func (s *Server) monthRange(q url.Values) (int, int, error) {
	start, err := intParam(q, "start", s.DefaultStart)
	if err != nil {
		return 0, 0, err
	}
	end, err := intParam(q, "end", s.DefaultEnd)
	if err != nil {
		return 0, 0, err
	}
	return start, end, nil
}

func (s *Server) yearRange(q url.Values) (int, int, error) {
	minYear, maxYear := s.DefaultFromYear, s.DefaultToYear
	if minYear == 0 && maxYear == 0 {
		minYear, maxYear = s.Dashboard.Dataset.YearSpan()
	}
	from, err := intParam(q, "from", minYear)
	if err != nil {
		return 0, 0, err
	}
	to, err := intParam(q, "to", maxYear)
	if err != nil {
		return 0, 0, err
	}
	return from, to, nil
}

func intParam(q url.Values, name string, def int) (int, error) {
	v := q.Get(name)
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("invalid '%s' parameter", name)
	}
	return n, nil
}

// fail maps range errors to 400 and everything else to 500.
func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, monthindex.ErrOutOfRange) || errors.Is(err, monthindex.ErrInverted) {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	s.logger().Error("request failed", zap.String("path", r.URL.Path), zap.Error(err))
	http.Error(w, err.Error(), http.StatusInternalServerError)
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	// Wildcard CORS, the dashboard front end may be served from elsewhere.
	w.Header().Set("Access-Control-Allow-Origin", "*")
	if v == nil {
		_, _ = w.Write([]byte("[]"))
		return
	}
	_ = json.NewEncoder(w).Encode(v)
}
