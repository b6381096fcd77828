package main

import (
	"strconv"
	"strings"
)

const salaryPlausibleFloor = 20000

// Normalizer applies deterministic correction rules to extracted records.
// Every rule is total: implausible values are corrected or nulled, never
// surfaced as errors. Applying the normalizer twice yields the same record.
type Normalizer struct {
	techBlacklist []string
	remoteMarkers []string
}

// NewNormalizer builds a Normalizer from the configured vocabularies.
func NewNormalizer(techBlacklist, remoteMarkers []string) *Normalizer {
	return &Normalizer{techBlacklist: techBlacklist, remoteMarkers: remoteMarkers}
}

// Apply runs all normalization rules on rec in place and stamps the source
// comment's metadata. The stamped fields are never model-derived.
func (n *Normalizer) Apply(rec *JobRecord, comment Comment) {
	rec.SalaryYearUSD = normalizeSalary(rec.SalaryYearUSD)
	rec.TechStack = n.filterTechStack(rec.TechStack)
	rec.RemoteType = n.overrideRemoteType(rec.RemoteType, comment.Text)

	rec.HNID = strconv.FormatInt(comment.ID, 10)
	rec.Timestamp = comment.Time
}

// normalizeSalary fixes the common scale mistake ("150" meaning 150k) and
// nulls anything below the plausibility floor for an annual USD figure.
func normalizeSalary(salary *int) *int {
	if salary == nil {
		return nil
	}

	v := *salary
	if v < 1000 {
		v *= 1000
	}
	if v < salaryPlausibleFloor {
		return nil
	}
	return &v
}

// filterTechStack drops generic terms (e.g., "backend", "cloud") from the
// stack, preserving the order of the remaining entries.
func (n *Normalizer) filterTechStack(stack []string) []string {
	if len(stack) == 0 {
		return stack
	}

	clean := make([]string, 0, len(stack))
	for _, item := range stack {
		if !n.isBlacklisted(item) {
			clean = append(clean, item)
		}
	}
	return clean
}

func (n *Normalizer) isBlacklisted(item string) bool {
	lower := strings.ToLower(item)
	for _, b := range n.techBlacklist {
		if lower == strings.ToLower(b) {
			return true
		}
	}
	return false
}

// overrideRemoteType forces GLOBAL when the source text carries a broad-remote
// marker the model tends to under-detect ("anywhere", "APAC", ...).
func (n *Normalizer) overrideRemoteType(remoteType, sourceText string) string {
	if remoteType == RemoteGlobal {
		return remoteType
	}

	lower := strings.ToLower(sourceText)
	for _, marker := range n.remoteMarkers {
		if marker == "" {
			continue
		}
		if strings.Contains(lower, strings.ToLower(marker)) {
			return RemoteGlobal
		}
	}
	return remoteType
}
