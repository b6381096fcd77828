package main

// Comment is one top-level comment from the hiring thread. Text is plain
// text (comment HTML is converted at fetch time). Immutable once fetched.
type Comment struct {
	ID   int64  `json:"id"`
	Text string `json:"text"`
	Time int64  `json:"time"`
}

// JobRecord is the structured record extracted from one comment.
// Field names match the output table columns exactly.
type JobRecord struct {
	Company         string   `json:"company"`
	TechStack       []string `json:"tech_stack"`
	RemoteType      string   `json:"remote_type"`
	SalaryYearUSD   *int     `json:"salary_year_usd"`
	VisaSponsorship bool     `json:"visa_sponsorship"`
	ExperienceLevel string   `json:"experience_level"`
	JobRole         string   `json:"job_role"`
	CompanyIndustry string   `json:"company_industry"`
	ApplicationURL  string   `json:"application_url"`
	HNID            string   `json:"hn_id"`
	Timestamp       int64    `json:"timestamp"`
}

// Remote type values the extraction prompt allows.
const (
	RemoteGlobal  = "GLOBAL"
	RemoteUSOnly  = "US_ONLY"
	RemoteEUOnly  = "EU_ONLY"
	RemoteOnsite  = "ONSITE"
	RemoteUnknown = "UNKNOWN"
)

// ItemStatus is the outcome of processing a single comment
type ItemStatus string

const (
	StatusExtracted    ItemStatus = "extracted"
	StatusSkipped      ItemStatus = "skipped"
	StatusFailed       ItemStatus = "failed"
	StatusBudgetHalted ItemStatus = "budget-halted"
)

// ItemResult tracks the outcome of processing each comment
type ItemResult struct {
	ID     int64
	Status ItemStatus
	Error  error
}
