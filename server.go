package main

import (
	"encoding/json"
	"log"
	"net/http"
	"strconv"
	"strings"
)

// JobServer is a read-only view over the output table. The CSV is re-read on
// every request, so checkpoints from a running pipeline become visible
// without a restart.
type JobServer struct {
	store *CSVStore
	mux   *http.ServeMux
}

// NewJobServer builds the server and its routes.
func NewJobServer(store *CSVStore) *JobServer {
	s := &JobServer{store: store, mux: http.NewServeMux()}
	s.routes()
	return s
}

func (s *JobServer) routes() {
	s.mux.HandleFunc("GET /health", s.handleHealth)
	s.mux.HandleFunc("GET /jobs", s.handleJobs)
	s.mux.HandleFunc("GET /stats", s.handleStats)
}

func (s *JobServer) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

func (s *JobServer) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *JobServer) handleJobs(w http.ResponseWriter, r *http.Request) {
	records, err := s.store.Load()
	if err != nil {
		log.Printf("loading jobs table: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "jobs table unavailable"})
		return
	}

	filter, err := filterFromQuery(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	filtered := filter.apply(records)
	writeJSON(w, http.StatusOK, map[string]any{
		"count": len(filtered),
		"jobs":  filtered,
	})
}

func (s *JobServer) handleStats(w http.ResponseWriter, r *http.Request) {
	records, err := s.store.Load()
	if err != nil {
		log.Printf("loading jobs table: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "jobs table unavailable"})
		return
	}

	remote := 0
	salarySum, salaryCount := 0, 0
	for _, rec := range records {
		switch rec.RemoteType {
		case RemoteGlobal, RemoteUSOnly, RemoteEUOnly:
			remote++
		}
		if rec.SalaryYearUSD != nil {
			salarySum += *rec.SalaryYearUSD
			salaryCount++
		}
	}

	avg := 0.0
	if salaryCount > 0 {
		avg = float64(salarySum) / float64(salaryCount)
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"total_jobs":     len(records),
		"remote_jobs":    remote,
		"avg_salary_usd": avg,
	})
}

// jobFilter holds the query-side filters over the output table.
type jobFilter struct {
	RemoteType      string
	ExperienceLevel string
	JobRole         string
	Industry        string
	Tech            string
	Visa            *bool
}

// filterFromQuery parses filters from request query parameters.
func filterFromQuery(r *http.Request) (*jobFilter, error) {
	q := r.URL.Query()
	f := &jobFilter{
		RemoteType:      q.Get("remote_type"),
		ExperienceLevel: q.Get("experience_level"),
		JobRole:         q.Get("job_role"),
		Industry:        q.Get("industry"),
		Tech:            q.Get("tech"),
	}

	if raw := q.Get("visa"); raw != "" {
		v, err := strconv.ParseBool(raw)
		if err != nil {
			return nil, &filterError{param: "visa", value: raw}
		}
		f.Visa = &v
	}

	return f, nil
}

type filterError struct {
	param, value string
}

func (e *filterError) Error() string {
	return "invalid value " + strconv.Quote(e.value) + " for " + e.param
}

func (f *jobFilter) apply(records []JobRecord) []JobRecord {
	out := make([]JobRecord, 0, len(records))
	for _, rec := range records {
		if f.matches(rec) {
			out = append(out, rec)
		}
	}
	return out
}

func (f *jobFilter) matches(rec JobRecord) bool {
	if f.RemoteType != "" && rec.RemoteType != f.RemoteType {
		return false
	}
	if f.ExperienceLevel != "" && rec.ExperienceLevel != f.ExperienceLevel {
		return false
	}
	if f.JobRole != "" && rec.JobRole != f.JobRole {
		return false
	}
	if f.Industry != "" && !strings.Contains(strings.ToLower(rec.CompanyIndustry), strings.ToLower(f.Industry)) {
		return false
	}
	if f.Tech != "" && !hasTech(rec.TechStack, f.Tech) {
		return false
	}
	if f.Visa != nil && rec.VisaSponsorship != *f.Visa {
		return false
	}
	return true
}

func hasTech(stack []string, tech string) bool {
	for _, t := range stack {
		if strings.EqualFold(t, tech) {
			return true
		}
	}
	return false
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("encoding response: %v", err)
	}
}
