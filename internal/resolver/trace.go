package resolver

import (
	"time"

	"codeberg.org/snonux/hanzirecall/internal/hanzi"
	"codeberg.org/snonux/hanzirecall/internal/provider"
)

// Chain names used in traces, logs and metrics
const (
	ChainLookup   = "lookup"
	ChainMnemonic = "mnemonic"
)

// Status is the outcome of one provider attempt
type Status string

const (
	StatusSkipped   Status = "skipped"
	StatusFailed    Status = "failed"
	StatusSucceeded Status = "succeeded"
)

// Attempt records what happened when the resolver reached one provider
type Attempt struct {
	Provider hanzi.ProviderID `json:"provider"`
	Status   Status           `json:"status"`
	Kind     provider.Kind    `json:"kind,omitempty"`
	Err      error            `json:"-"`
	Duration time.Duration    `json:"duration"`
}

// Trace is the provenance of one resolution
type Trace struct {
	Chain    string    `json:"chain"`
	Attempts []Attempt `json:"attempts"`
}

// Succeeded returns the provider that produced the result, if any
func (t Trace) Succeeded() (hanzi.ProviderID, bool) {
	for _, a := range t.Attempts {
		if a.Status == StatusSucceeded {
			return a.Provider, true
		}
	}
	return "", false
}

// Failures returns the failed attempts in chain order
func (t Trace) Failures() []Attempt {
	var failed []Attempt
	for _, a := range t.Attempts {
		if a.Status == StatusFailed {
			failed = append(failed, a)
		}
	}
	return failed
}
