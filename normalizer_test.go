package main

import (
	"reflect"
	"testing"
)

func testNormalizer() *Normalizer {
	return NewNormalizer(
		[]string{"frontend", "backend", "cloud", "ui"},
		[]string{"asia", "apac", "vietnam", "world", "anywhere"},
	)
}

func intPtr(v int) *int { return &v }

func TestNormalizeSalary(t *testing.T) {
	tests := []struct {
		name   string
		salary *int
		want   *int
	}{
		{"nil stays nil", nil, nil},
		{"thousands shorthand", intPtr(150), intPtr(150000)},
		{"below plausibility floor", intPtr(15000), nil},
		{"plausible value unchanged", intPtr(95000), intPtr(95000)},
		{"shorthand below floor", intPtr(15), nil},
		{"exactly at floor", intPtr(20000), intPtr(20000)},
		{"just below floor", intPtr(19999), nil},
		{"shorthand at floor boundary", intPtr(20), intPtr(20000)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := normalizeSalary(tt.salary)

			if (got == nil) != (tt.want == nil) {
				t.Fatalf("normalizeSalary() = %v, want %v", got, tt.want)
			}
			if got != nil && *got != *tt.want {
				t.Errorf("normalizeSalary() = %d, want %d", *got, *tt.want)
			}
		})
	}
}

func TestFilterTechStack(t *testing.T) {
	tests := []struct {
		name  string
		stack []string
		want  []string
	}{
		{
			"drops generic terms",
			[]string{"Python", "Backend", "React", "Cloud"},
			[]string{"Python", "React"},
		},
		{
			"case-insensitive match",
			[]string{"UI", "Go", "FRONTEND"},
			[]string{"Go"},
		},
		{
			"preserves order",
			[]string{"Rust", "Kubernetes", "Postgres"},
			[]string{"Rust", "Kubernetes", "Postgres"},
		},
		{
			"empty stack",
			nil,
			nil,
		},
		{
			"duplicates kept",
			[]string{"Go", "Go"},
			[]string{"Go", "Go"},
		},
	}

	n := testNormalizer()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := n.filterTechStack(tt.stack)
			if len(got) != len(tt.want) {
				t.Fatalf("filterTechStack() = %v, want %v", got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("filterTechStack()[%d] = %q, want %q", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestOverrideRemoteType(t *testing.T) {
	tests := []struct {
		name       string
		remoteType string
		sourceText string
		want       string
	}{
		{"anywhere forces GLOBAL", RemoteUnknown, "Remote, work from anywhere", RemoteGlobal},
		{"apac forces GLOBAL", RemoteUSOnly, "Remote (APAC timezones welcome)", RemoteGlobal},
		{"already GLOBAL untouched", RemoteGlobal, "fully remote worldwide", RemoteGlobal},
		{"no marker untouched", RemoteOnsite, "On-site in Berlin only", RemoteOnsite},
		{"unknown without marker", RemoteUnknown, "Remote position", RemoteUnknown},
	}

	n := testNormalizer()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := n.overrideRemoteType(tt.remoteType, tt.sourceText)
			if got != tt.want {
				t.Errorf("overrideRemoteType(%q, %q) = %q, want %q",
					tt.remoteType, tt.sourceText, got, tt.want)
			}
		})
	}
}

func TestApplyStampsMetadata(t *testing.T) {
	n := testNormalizer()
	comment := Comment{ID: 41234567, Text: "Senior Go engineer, remote anywhere", Time: 1725100000}

	rec := &JobRecord{
		RemoteType: RemoteUnknown,
		// Model output must never decide these.
		HNID:      "bogus",
		Timestamp: 1,
	}
	n.Apply(rec, comment)

	if rec.HNID != "41234567" {
		t.Errorf("HNID = %q, want %q", rec.HNID, "41234567")
	}
	if rec.Timestamp != 1725100000 {
		t.Errorf("Timestamp = %d, want %d", rec.Timestamp, 1725100000)
	}
	if rec.RemoteType != RemoteGlobal {
		t.Errorf("RemoteType = %q, want %q (source text says anywhere)", rec.RemoteType, RemoteGlobal)
	}
}

func TestApplyIdempotent(t *testing.T) {
	n := testNormalizer()
	comment := Comment{ID: 7, Text: "Hiring Python engineers, remote anywhere, $150k", Time: 1700000000}

	rec := &JobRecord{
		Company:       "Acme",
		TechStack:     []string{"Python", "Backend", "Django"},
		RemoteType:    RemoteUnknown,
		SalaryYearUSD: intPtr(150),
	}
	n.Apply(rec, comment)

	first := *rec
	firstStack := append([]string(nil), rec.TechStack...)

	n.Apply(rec, comment)

	if !reflect.DeepEqual(rec.TechStack, firstStack) {
		t.Errorf("second Apply changed tech stack: %v -> %v", firstStack, rec.TechStack)
	}
	if rec.RemoteType != first.RemoteType {
		t.Errorf("second Apply changed remote type: %q -> %q", first.RemoteType, rec.RemoteType)
	}
	if *rec.SalaryYearUSD != *first.SalaryYearUSD {
		t.Errorf("second Apply changed salary: %d -> %d", *first.SalaryYearUSD, *rec.SalaryYearUSD)
	}
	if *rec.SalaryYearUSD != 150000 {
		t.Errorf("salary = %d, want 150000", *rec.SalaryYearUSD)
	}
}
