// Package health summarizes provider availability for status endpoints.
package health

import (
	"time"

	"codeberg.org/snonux/hanzirecall/internal/hanzi"
	"codeberg.org/snonux/hanzirecall/internal/provider"
)

// Overall is the aggregate health verdict
type Overall string

const (
	Healthy   Overall = "healthy"
	Degraded  Overall = "degraded"
	Unhealthy Overall = "unhealthy"
)

// Snapshot is the availability of every provider at one instant
type Snapshot struct {
	Providers []hanzi.ProviderStatus `json:"providers"`
	Overall   Overall                `json:"status"`
	CheckedAt time.Time              `json:"timestamp"`
}

// Available returns the ids of the available providers
func (s Snapshot) Available() []hanzi.ProviderID {
	ids := []hanzi.ProviderID{}
	for _, p := range s.Providers {
		if p.Available {
			ids = append(ids, p.ProviderID)
		}
	}
	return ids
}

// Aggregator polls the local availability check of each provider
type Aggregator struct {
	providers []provider.Provider
	now       func() time.Time
}

// NewAggregator creates an aggregator over providers. Duplicate names
// are dropped, keeping the first.
func NewAggregator(providers []provider.Provider) *Aggregator {
	seen := make(map[hanzi.ProviderID]bool)
	unique := make([]provider.Provider, 0, len(providers))
	for _, p := range providers {
		if seen[p.Name()] {
			continue
		}
		seen[p.Name()] = true
		unique = append(unique, p)
	}
	return &Aggregator{providers: unique, now: time.Now}
}

// SetClock replaces the time source
func (a *Aggregator) SetClock(now func() time.Time) {
	a.now = now
}

// Status checks every provider now. Nothing is cached between calls.
func (a *Aggregator) Status() Snapshot {
	checkedAt := a.now()
	snap := Snapshot{
		Providers: make([]hanzi.ProviderStatus, 0, len(a.providers)),
		CheckedAt: checkedAt,
	}

	available := 0
	for _, p := range a.providers {
		status := hanzi.ProviderStatus{
			ProviderID:    p.Name(),
			Available:     true,
			LastCheckedAt: checkedAt,
		}
		if err := p.IsAvailable(); err != nil {
			status.Available = false
			status.Reason = err.Error()
		} else {
			available++
		}
		snap.Providers = append(snap.Providers, status)
	}

	switch {
	case available == 0:
		snap.Overall = Unhealthy
	case available == len(a.providers):
		snap.Overall = Healthy
	default:
		snap.Overall = Degraded
	}
	return snap
}
