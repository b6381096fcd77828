package main

import "strings"

// Gatekeeper is a cheap pre-filter deciding whether a comment is worth a paid
// extraction call. Pure function of the text and the configured keyword list.
type Gatekeeper struct {
	minLength int
	keywords  []string
}

// NewGatekeeper builds a Gatekeeper from the filter settings.
func NewGatekeeper(minLength int, keywords []string) *Gatekeeper {
	return &Gatekeeper{minLength: minLength, keywords: keywords}
}

// IsJunk returns true when the text is too short to be a job post or contains
// none of the role/technology/employment keywords (case-insensitive).
func (g *Gatekeeper) IsJunk(text string) bool {
	if len(text) < g.minLength {
		return true
	}

	lower := strings.ToLower(text)
	for _, kw := range g.keywords {
		if kw == "" {
			continue
		}
		if strings.Contains(lower, strings.ToLower(kw)) {
			return false
		}
	}
	return true
}
