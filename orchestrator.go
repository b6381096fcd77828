package main

import (
	"log"
	"time"
)

// Pipeline drives gatekeeping, extraction and normalization over a batch of
// comments, strictly sequentially, under a per-run token budget.
type Pipeline struct {
	gate       *Gatekeeper
	extractor  *JobExtractor
	normalizer *Normalizer
	store      *CSVStore

	perCallTokens   int
	pace            time.Duration
	checkpointEvery int
}

// NewPipeline wires the pipeline components together. store may be nil to
// disable checkpointing.
func NewPipeline(gate *Gatekeeper, extractor *JobExtractor, normalizer *Normalizer, store *CSVStore, settings *Settings) *Pipeline {
	return &Pipeline{
		gate:            gate,
		extractor:       extractor,
		normalizer:      normalizer,
		store:           store,
		perCallTokens:   settings.Analyzer.PerCallTokens,
		pace:            time.Duration(settings.Analyzer.PaceSeconds) * time.Second,
		checkpointEvery: settings.Analyzer.CheckpointEvery,
	}
}

// RunReport summarizes one batch run.
type RunReport struct {
	Items        []ItemResult
	TokensSpent  int
	BudgetHalted bool
}

// Count returns the number of items that finished with the given status.
func (r *RunReport) Count(status ItemStatus) int {
	n := 0
	for _, item := range r.Items {
		if item.Status == status {
			n++
		}
	}
	return n
}

// Run processes comments in order. A failed item never aborts the run; the
// run stops early only when the projected token spend would exceed
// tokenBudget, and that is a graceful halt: everything accumulated so far
// is returned and remains persisted.
func (p *Pipeline) Run(comments []Comment, tokenBudget int) ([]JobRecord, RunReport) {
	results := make([]JobRecord, 0, len(comments))
	report := RunReport{Items: make([]ItemResult, 0, len(comments))}

	log.Printf("Processing %d comments (token budget %d)...", len(comments), tokenBudget)

	for i, comment := range comments {
		if report.TokensSpent+p.perCallTokens > tokenBudget {
			report.BudgetHalted = true
			log.Printf("Token budget reached after %d items (%d tokens spent), halting", i, report.TokensSpent)
			break
		}

		if p.gate.IsJunk(comment.Text) {
			report.Items = append(report.Items, ItemResult{ID: comment.ID, Status: StatusSkipped})
			continue
		}

		rec, err := p.extractor.Analyze(comment.Text)
		if err != nil {
			report.Items = append(report.Items, ItemResult{ID: comment.ID, Status: StatusFailed, Error: err})
			log.Printf("✗ [%d/%d] item %d: %v", i+1, len(comments), comment.ID, err)
		} else {
			p.normalizer.Apply(rec, comment)
			results = append(results, *rec)
			report.TokensSpent += p.perCallTokens
			report.Items = append(report.Items, ItemResult{ID: comment.ID, Status: StatusExtracted})
			log.Printf("✓ [%d/%d] item %d extracted", i+1, len(comments), comment.ID)

			if p.store != nil && len(results)%p.checkpointEvery == 0 {
				log.Printf("→ Checkpointing %d results to %s", len(results), p.store.Path())
				if err := p.store.Save(results); err != nil {
					log.Printf("Checkpoint write failed: %v", err)
				}
			}
		}

		// Every attempted extraction counts against the service's request
		// rate, whether it succeeded or not. Gatekept skips don't.
		if p.pace > 0 {
			time.Sleep(p.pace)
		}
	}

	log.Printf("Run complete: extracted=%d skipped=%d failed=%d tokens=%d",
		report.Count(StatusExtracted), report.Count(StatusSkipped), report.Count(StatusFailed), report.TokensSpent)

	return results, report
}
