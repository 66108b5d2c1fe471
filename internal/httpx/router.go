// Package httpx is the thin serving surface over the analytics engine:
// dataset uploads, mappings, goals, and the computed snapshot. All behavior
// lives in the library packages; handlers only translate HTTP.
package httpx

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rotisserie/eris"

	"github.com/agencypulse/agencypulse/internal/analytics"
	"github.com/agencypulse/agencypulse/internal/ingest"
	"github.com/agencypulse/agencypulse/internal/models"
	"github.com/agencypulse/agencypulse/internal/schema"
	"github.com/agencypulse/agencypulse/internal/store"
	"github.com/agencypulse/agencypulse/internal/timeframe"
)

type Options struct {
	WeekStart      time.Weekday
	MaxUploadBytes int64
}

type server struct {
	log  *slog.Logger
	st   *store.SessionStore
	opts Options
	col  *metricSet
}

func NewRouter(log *slog.Logger, st *store.SessionStore, opts Options) http.Handler {
	if opts.MaxUploadBytes <= 0 {
		opts.MaxUploadBytes = 32 << 20
	}
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector())
	s := &server{log: log, st: st, opts: opts, col: newMetricSet(reg)}

	mux := chi.NewRouter()
	mux.Use(RequestID)
	mux.Use(Logger(log))

	mux.Get("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200); w.Write([]byte("ok")) })
	mux.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))

	mux.Get("/datasets", s.handleDatasetStatus)
	mux.Post("/datasets/{kind}", s.handleUpload)
	mux.Put("/datasets/{kind}/mapping", s.handleSetMapping)
	mux.Get("/datasets/{kind}/mapping/suggest", s.handleSuggestMapping)
	mux.Delete("/datasets", s.handleReset)

	mux.Get("/goals", s.handleGetGoals)
	mux.Put("/goals", s.handleSetGoals)

	mux.Get("/analytics", s.handleAnalytics)
	mux.Get("/analytics/coverage", s.handleCoverage)

	return mux
}

func kindParam(r *http.Request) (models.DatasetKind, bool) {
	kind := models.DatasetKind(chi.URLParam(r, "kind"))
	_, ok := schema.For(kind)
	return kind, ok
}

func (s *server) handleUpload(w http.ResponseWriter, r *http.Request) {
	kind, ok := kindParam(r)
	if !ok {
		http.Error(w, "unknown dataset kind", http.StatusNotFound)
		return
	}
	body := io.LimitReader(r.Body, s.opts.MaxUploadBytes)
	headers, rows, err := ingest.ParseCSV(body)
	if err != nil {
		s.log.Warn("upload rejected", slog.String("kind", string(kind)), slog.String("err", eris.ToString(err, false)))
		http.Error(w, "unparseable csv", http.StatusBadRequest)
		return
	}
	ds := s.st.PutDataset(kind, r.URL.Query().Get("filename"), headers, rows)
	s.col.rowsUploaded.WithLabelValues(string(kind)).Add(float64(len(rows)))
	s.log.Info("dataset uploaded",
		slog.String("kind", string(kind)),
		slog.String("id", ds.ID),
		slog.Int("rows", len(rows)))
	writeJSON(w, map[string]any{"id": ds.ID, "row_count": len(rows), "headers": headers})
}

func (s *server) handleDatasetStatus(w http.ResponseWriter, r *http.Request) {
	type status struct {
		Uploaded bool     `json:"uploaded"`
		ID       string   `json:"id,omitempty"`
		FileName string   `json:"file_name,omitempty"`
		RowCount int      `json:"row_count"`
		Missing  []string `json:"missing_fields"`
	}
	out := map[models.DatasetKind]status{}
	for _, kind := range models.Kinds() {
		st := status{Missing: []string{}}
		if ds, ok := s.st.Dataset(kind); ok {
			st.Uploaded = true
			st.ID = ds.ID
			st.FileName = ds.FileName
			st.RowCount = len(ds.Rows)
		}
		sch, _ := schema.For(kind)
		for _, f := range sch.MissingFields(s.st.Mapping(kind)) {
			st.Missing = append(st.Missing, f.Key)
		}
		out[kind] = st
	}
	writeJSON(w, out)
}

func (s *server) handleSetMapping(w http.ResponseWriter, r *http.Request) {
	kind, ok := kindParam(r)
	if !ok {
		http.Error(w, "unknown dataset kind", http.StatusNotFound)
		return
	}
	var m models.Mapping
	if err := json.NewDecoder(r.Body).Decode(&m); err != nil {
		http.Error(w, "bad mapping body", http.StatusBadRequest)
		return
	}
	s.st.SetMapping(kind, m)

	// missing required fields are reported, not fatal: unmapped fields
	// normalize to blank and surface in health diagnostics
	sch, _ := schema.For(kind)
	missing := []string{}
	for _, f := range sch.MissingFields(m) {
		missing = append(missing, f.Key)
	}
	writeJSON(w, map[string]any{"ok": len(missing) == 0, "missing_fields": missing})
}

func (s *server) handleSuggestMapping(w http.ResponseWriter, r *http.Request) {
	kind, ok := kindParam(r)
	if !ok {
		http.Error(w, "unknown dataset kind", http.StatusNotFound)
		return
	}
	ds, ok := s.st.Dataset(kind)
	if !ok {
		http.Error(w, "dataset not uploaded", http.StatusConflict)
		return
	}
	sch, _ := schema.For(kind)
	writeJSON(w, sch.SuggestMapping(ds.Headers))
}

func (s *server) handleReset(w http.ResponseWriter, r *http.Request) {
	s.st.Reset()
	w.WriteHeader(http.StatusNoContent)
}

func (s *server) handleGetGoals(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, s.st.Goals())
}

func (s *server) handleSetGoals(w http.ResponseWriter, r *http.Request) {
	var g models.GoalTargets
	if err := json.NewDecoder(r.Body).Decode(&g); err != nil {
		http.Error(w, "bad goals body", http.StatusBadRequest)
		return
	}
	writeJSON(w, s.st.SetGoals(g))
}

func (s *server) normalizedInput(snap store.Snapshot) analytics.Input {
	in := analytics.Input{Goals: snap.Goals, WeekStart: s.opts.WeekStart}
	if ds, ok := snap.Datasets[models.KindActivity]; ok {
		in.Activity = ingest.NormalizeActivity(ds.Rows, snap.Mappings[models.KindActivity])
	}
	if ds, ok := snap.Datasets[models.KindQuotesSales]; ok {
		in.QuoteSales = ingest.NormalizeQuoteSales(ds.Rows, snap.Mappings[models.KindQuotesSales])
	}
	if ds, ok := snap.Datasets[models.KindPaidLeads]; ok {
		in.PaidLeads = ingest.NormalizePaidLeads(ds.Rows, snap.Mappings[models.KindPaidLeads])
	}
	return in
}

func (s *server) handleAnalytics(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	in := s.normalizedInput(s.st.Snapshot())
	in.Mode = timeframe.Mode(q.Get("range"))
	if in.Mode == "" {
		in.Mode = timeframe.ModeAll
	}
	in.CustomStart = q.Get("start")
	in.CustomEnd = q.Get("end")
	switch g := timeframe.Granularity(q.Get("granularity")); g {
	case timeframe.Day, timeframe.Week, timeframe.Month:
		in.Granularity = g
	}

	started := time.Now()
	res := analytics.Compute(in)
	s.col.computeDuration.Observe(time.Since(started).Seconds())

	writeJSON(w, res)
}

func (s *server) handleCoverage(w http.ResponseWriter, r *http.Request) {
	in := s.normalizedInput(s.st.Snapshot())
	writeJSON(w, map[string]any{"coverage": analytics.Coverage(in.Activity, in.QuoteSales, in.PaidLeads)})
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	enc := json.NewEncoder(w)
	enc.SetIndent("", " ")
	enc.Encode(v)
}
