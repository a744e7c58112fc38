package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gustycube/neoview/internal/aggregate"
	"github.com/gustycube/neoview/internal/catalog"
	"github.com/gustycube/neoview/internal/metrics"
	"github.com/gustycube/neoview/internal/neo"
)

const maxTopN = 1000

type summary struct {
	Loaded    bool       `json:"loaded"`
	DatasetID string     `json:"dataset_id,omitempty"`
	Source    string     `json:"source,omitempty"`
	FetchedAt *time.Time `json:"fetched_at,omitempty"`
	Counts    neo.Counts `json:"counts"`
	Dates     []string   `json:"dates"`
}

func summarize(ds *neo.Dataset) summary {
	out := summary{Dates: []string{}}
	if ds == nil {
		return out
	}
	fetched := ds.FetchedAt()
	out.Loaded = true
	out.DatasetID = ds.ID()
	out.Source = ds.Source()
	out.FetchedAt = &fetched
	out.Counts = ds.Counts()
	if dates := ds.Dates(); len(dates) > 0 {
		out.Dates = dates
	}
	return out
}

func datasetID(ds *neo.Dataset) string {
	if ds == nil {
		return ""
	}
	return ds.ID()
}

func (s *Server) handleCharts(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"charts":   s.catalog.IDs(),
		"sections": s.catalog.Sections(),
		"entries":  s.catalog.Entries(),
	})
}

func (s *Server) handleViews(w http.ResponseWriter, r *http.Request) {
	ds := s.snapshots.Current()
	views, err := s.catalog.Materialize(ds)
	if err != nil {
		s.log.Errorw("materializing views", "dataset", datasetID(ds), "err", err)
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	for id := range views {
		metrics.ViewBuildsTotal.WithLabelValues(string(id)).Inc()
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"dataset_id": datasetID(ds),
		"views":      views,
	})
}

func (s *Server) handleView(w http.ResponseWriter, r *http.Request) {
	id := catalog.ChartID(r.PathValue("chart"))
	if _, ok := s.catalog.Lookup(id); !ok {
		writeError(w, http.StatusNotFound, catalog.ErrUnknownChart)
		return
	}
	ds := s.snapshots.Current()
	view, err := s.catalog.Build(ds, id)
	if err != nil {
		s.log.Errorw("building view", "chart", id, "dataset", datasetID(ds), "err", err)
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	metrics.ViewBuildsTotal.WithLabelValues(string(id)).Inc()
	writeJSON(w, http.StatusOK, map[string]any{
		"chart":      id,
		"dataset_id": datasetID(ds),
		"data":       view,
	})
}

func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, summarize(s.snapshots.Current()))
}

// handleStats reports one metric when ?metric= is given, otherwise all of
// them. A dataset with no usable values yields zero statistics.
func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	ds := s.snapshots.Current()

	metricsWanted := aggregate.Metrics()
	if name := r.URL.Query().Get("metric"); name != "" {
		m, err := aggregate.ParseMetric(name)
		if err != nil {
			writeError(w, http.StatusBadRequest, err)
			return
		}
		metricsWanted = []aggregate.Metric{m}
	}

	out := make([]aggregate.Stats, 0, len(metricsWanted))
	for _, m := range metricsWanted {
		st, err := aggregate.Statistics(ds, m)
		if err != nil && !errors.Is(err, aggregate.ErrEmptyDataset) {
			writeError(w, http.StatusInternalServerError, err)
			return
		}
		out = append(out, st)
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"dataset_id": datasetID(ds),
		"stats":      out,
	})
}

func (s *Server) handleTop(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	m := aggregate.DiameterAvg
	if name := q.Get("metric"); name != "" {
		var err error
		if m, err = aggregate.ParseMetric(name); err != nil {
			writeError(w, http.StatusBadRequest, err)
			return
		}
	}

	n := aggregate.DefaultTopN
	if raw := q.Get("n"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil || v < 1 || v > maxTopN {
			writeError(w, http.StatusBadRequest, errors.New("n must be an integer between 1 and 1000"))
			return
		}
		n = v
	}

	ds := s.snapshots.Current()
	recs, err := aggregate.TopN(ds, m, n)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"dataset_id": datasetID(ds),
		"metric":     m,
		"n":          n,
		"records":    recs,
	})
}

func (s *Server) handleRefresh(w http.ResponseWriter, r *http.Request) {
	ds, err := s.refresher.Reload(r.Context())
	if err != nil {
		status := http.StatusBadGateway
		var ie *neo.IngestionError
		if errors.As(err, &ie) && ie.StatusCode == http.StatusTooManyRequests {
			status = http.StatusServiceUnavailable
		}
		writeError(w, status, err)
		return
	}
	writeJSON(w, http.StatusOK, summarize(ds))
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, map[string]string{"error": err.Error()})
}
