package models

import "time"

// Result summarizes a debounced session: how many triggers arrived and what
// each settled burst did.
type Result struct {
	Triggers int
	Runs     []Run
	// Skipped counts settled bursts that left the content unchanged.
	Skipped  int
	Duration time.Duration
}

// Run is one settled burst.
type Run struct {
	Trigger  string
	Error    error
	ExitCode int
	Duration time.Duration
}

func (r *Result) Failed() []Run {
	var failed []Run
	for _, run := range r.Runs {
		if run.Error != nil {
			failed = append(failed, run)
		}
	}
	return failed
}
