package main

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/aktagon/llmkit/anthropic"
	"github.com/aktagon/llmkit/anthropic/types"
)

// Completer is the extraction-service boundary: one synchronous completion
// request for a system/user prompt pair.
type Completer interface {
	Complete(systemPrompt, userPrompt string) (string, error)
}

// anthropicCompleter calls the Anthropic API through llmkit.
type anthropicCompleter struct {
	apiKey      string
	model       string
	maxTokens   int
	temperature float64
}

// newAnthropicCompleter builds the real completer. Missing credentials fail
// here, at construction time, not mid-run.
func newAnthropicCompleter(apiKey, model string, maxTokens int, temperature float64) (*anthropicCompleter, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("API key required: set ANTHROPIC_API_KEY or use --api-key")
	}
	return &anthropicCompleter{
		apiKey:      apiKey,
		model:       model,
		maxTokens:   maxTokens,
		temperature: temperature,
	}, nil
}

func (c *anthropicCompleter) Complete(systemPrompt, userPrompt string) (string, error) {
	settings := types.RequestSettings{
		Model:       c.model,
		MaxTokens:   c.maxTokens,
		Temperature: c.temperature,
	}

	response, err := anthropic.PromptWithSettings(systemPrompt, userPrompt, "", c.apiKey, settings)
	if err != nil {
		return "", fmt.Errorf("completion request failed: %w", err)
	}

	if len(response.Content) == 0 {
		return "", fmt.Errorf("no content in response")
	}
	return response.Content[0].Text, nil
}

// retryPolicy retries an operation with exponential backoff. Invoked
// explicitly by callers instead of hiding retries inside the transport.
type retryPolicy struct {
	attempts int
	initial  time.Duration
	max      time.Duration
}

func (rp retryPolicy) do(op func() error) error {
	delay := rp.initial
	var lastErr error

	for attempt := 0; attempt < rp.attempts; attempt++ {
		if attempt > 0 {
			time.Sleep(delay)
			delay *= 2
			if delay > rp.max {
				delay = rp.max
			}
		}
		lastErr = op()
		if lastErr == nil {
			return nil
		}
	}

	return fmt.Errorf("exceeded max retries after %d attempts: %w", rp.attempts, lastErr)
}

// JobExtractor wraps one extraction call: truncate, prompt, retry on
// transport failure, sanitize, decode.
type JobExtractor struct {
	completer    Completer
	systemPrompt string
	maxChars     int
	retry        retryPolicy
}

// NewJobExtractor builds an extractor with the fixed retry policy.
func NewJobExtractor(completer Completer, systemPrompt string, maxChars int) *JobExtractor {
	return &JobExtractor{
		completer:    completer,
		systemPrompt: systemPrompt,
		maxChars:     maxChars,
		retry:        retryPolicy{attempts: 3, initial: time.Second, max: 10 * time.Second},
	}
}

// jobExtraction mirrors the JSON the model returns. Salary is decoded as a
// float because models occasionally emit "150000.0".
type jobExtraction struct {
	Company         string   `json:"company"`
	TechStack       []string `json:"tech_stack"`
	RemoteType      string   `json:"remote_type"`
	SalaryYearUSD   *float64 `json:"salary_year_usd"`
	VisaSponsorship bool     `json:"visa_sponsorship"`
	ExperienceLevel string   `json:"experience_level"`
	JobRole         string   `json:"job_role"`
	CompanyIndustry string   `json:"company_industry"`
	ApplicationURL  string   `json:"application_url"`
}

// Analyze extracts a structured record from one job post. The input is
// truncated to the configured character budget before submission; longer
// input raises per-call cost and lowers the sustainable request rate.
// Returns a record without metadata stamped (the orchestrator normalizes
// and stamps) or an error; never a partial record.
func (e *JobExtractor) Analyze(text string) (*JobRecord, error) {
	truncated := truncateText(text, e.maxChars)
	userPrompt := "Job post:\n" + truncated

	var completion string
	err := e.retry.do(func() error {
		out, err := e.completer.Complete(e.systemPrompt, userPrompt)
		if err != nil {
			return err
		}
		completion = out
		return nil
	})
	if err != nil {
		return nil, err
	}

	clean, err := sanitizeJSON(completion)
	if err != nil {
		return nil, err
	}

	var wire jobExtraction
	if err := json.Unmarshal(clean, &wire); err != nil {
		return nil, &ParseError{Raw: completion, Err: err}
	}

	rec := &JobRecord{
		Company:         wire.Company,
		TechStack:       wire.TechStack,
		RemoteType:      wire.RemoteType,
		VisaSponsorship: wire.VisaSponsorship,
		ExperienceLevel: wire.ExperienceLevel,
		JobRole:         wire.JobRole,
		CompanyIndustry: wire.CompanyIndustry,
		ApplicationURL:  wire.ApplicationURL,
	}
	if wire.SalaryYearUSD != nil {
		v := int(*wire.SalaryYearUSD)
		rec.SalaryYearUSD = &v
	}

	return rec, nil
}

// truncateText limits text to maxChars bytes.
func truncateText(text string, maxChars int) string {
	if len(text) <= maxChars {
		return text
	}
	return text[:maxChars]
}
