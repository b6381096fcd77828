package main

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
)

// jobColumns is the output table header, in order. Column names match the
// JobRecord JSON field names exactly.
var jobColumns = []string{
	"company",
	"tech_stack",
	"remote_type",
	"salary_year_usd",
	"visa_sponsorship",
	"experience_level",
	"job_role",
	"company_industry",
	"application_url",
	"hn_id",
	"timestamp",
}

// CSVStore persists the result table as a flat CSV file. Every Save is a
// full overwrite, so at most one writer may target a given path at a time.
// A concurrent reader may observe a partially written file mid-checkpoint.
type CSVStore struct {
	path string
}

// NewCSVStore creates a store writing to path.
func NewCSVStore(path string) *CSVStore {
	return &CSVStore{path: path}
}

// Path returns the output file path.
func (s *CSVStore) Path() string {
	return s.path
}

// Save overwrites the output file with the given records.
func (s *CSVStore) Save(records []JobRecord) error {
	if dir := filepath.Dir(s.path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("creating output directory: %w", err)
		}
	}

	f, err := os.Create(s.path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", s.path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(jobColumns); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}

	for _, rec := range records {
		if err := w.Write(recordToRow(rec)); err != nil {
			return fmt.Errorf("writing row for item %s: %w", rec.HNID, err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("flushing %s: %w", s.path, err)
	}
	return nil
}

// Load reads the output file back. The reader is lenient the way a dashboard
// consumer is: malformed cells degrade to zero values instead of failing the
// whole table.
func (s *CSVStore) Load() ([]JobRecord, error) {
	f, err := os.Open(s.path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", s.path, err)
	}
	defer f.Close()

	rows, err := csv.NewReader(f).ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", s.path, err)
	}
	if len(rows) == 0 {
		return nil, nil
	}

	col := make(map[string]int, len(rows[0]))
	for i, name := range rows[0] {
		col[name] = i
	}

	cell := func(row []string, name string) string {
		idx, ok := col[name]
		if !ok || idx >= len(row) {
			return ""
		}
		return row[idx]
	}

	records := make([]JobRecord, 0, len(rows)-1)
	for _, row := range rows[1:] {
		rec := JobRecord{
			Company:         cell(row, "company"),
			RemoteType:      cell(row, "remote_type"),
			ExperienceLevel: cell(row, "experience_level"),
			JobRole:         cell(row, "job_role"),
			CompanyIndustry: cell(row, "company_industry"),
			ApplicationURL:  cell(row, "application_url"),
			HNID:            cell(row, "hn_id"),
		}

		if raw := cell(row, "tech_stack"); raw != "" {
			var stack []string
			if err := json.Unmarshal([]byte(raw), &stack); err == nil {
				rec.TechStack = stack
			}
		}
		if raw := cell(row, "salary_year_usd"); raw != "" {
			if v, err := strconv.Atoi(raw); err == nil {
				rec.SalaryYearUSD = &v
			}
		}
		if raw := cell(row, "visa_sponsorship"); raw != "" {
			rec.VisaSponsorship, _ = strconv.ParseBool(raw)
		}
		if raw := cell(row, "timestamp"); raw != "" {
			rec.Timestamp, _ = strconv.ParseInt(raw, 10, 64)
		}

		records = append(records, rec)
	}

	return records, nil
}

// recordToRow serializes one record in jobColumns order. The tech stack is
// stored as a JSON array string the consuming layer parses back.
func recordToRow(rec JobRecord) []string {
	stack := "[]"
	if rec.TechStack != nil {
		if data, err := json.Marshal(rec.TechStack); err == nil {
			stack = string(data)
		}
	}

	salary := ""
	if rec.SalaryYearUSD != nil {
		salary = strconv.Itoa(*rec.SalaryYearUSD)
	}

	return []string{
		rec.Company,
		stack,
		rec.RemoteType,
		salary,
		strconv.FormatBool(rec.VisaSponsorship),
		rec.ExperienceLevel,
		rec.JobRole,
		rec.CompanyIndustry,
		rec.ApplicationURL,
		rec.HNID,
		strconv.FormatInt(rec.Timestamp, 10),
	}
}
