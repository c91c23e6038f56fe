// Package ledger provides the run-scoped audit ledger: the single shared
// mutable structure of a normalization run. Workers process records
// independently and append to the ledger exactly once per record, so a plain
// mutex around the append is all the coordination the pipeline needs.
package ledger

import (
	"sort"
	"sync"

	"github.com/google/uuid"

	"invnorm/internal/domain"
)

// Ledger accumulates anomalies and aggregate counters for one run.
type Ledger struct {
	runID string

	mu        sync.Mutex
	anomalies []domain.Anomaly
	byKind    map[domain.AnomalyKind]int
	records   int
}

// New creates an empty ledger with a fresh run ID.
func New() *Ledger {
	return &Ledger{
		runID:  uuid.NewString(),
		byKind: make(map[domain.AnomalyKind]int),
	}
}

// RunID identifies this run in persisted output.
func (l *Ledger) RunID() string {
	return l.runID
}

// Append records one processed record's issues. Called once per record.
func (l *Ledger) Append(recordID string, issues []domain.Issue) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.records++
	for _, issue := range issues {
		l.anomalies = append(l.anomalies, domain.Anomaly{
			ID:                uuid.NewString(),
			RecordID:          recordID,
			Field:             issue.Field,
			Kind:              issue.Kind,
			Detail:            issue.Detail,
			RecommendedAction: issue.RecommendedAction,
		})
		l.byKind[issue.Kind]++
	}
}

// Anomalies returns a copy of the accumulated anomaly list.
func (l *Ledger) Anomalies() []domain.Anomaly {
	l.mu.Lock()
	defer l.mu.Unlock()

	out := make([]domain.Anomaly, len(l.anomalies))
	copy(out, l.anomalies)
	return out
}

// Records reports how many records have been appended.
func (l *Ledger) Records() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.records
}

// CountsByKind returns the anomaly tally per kind, keys sorted for stable
// reporting.
func (l *Ledger) CountsByKind() []KindCount {
	l.mu.Lock()
	defer l.mu.Unlock()

	out := make([]KindCount, 0, len(l.byKind))
	for kind, n := range l.byKind {
		out = append(out, KindCount{Kind: kind, Count: n})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Kind < out[j].Kind })
	return out
}

// KindCount pairs an anomaly kind with its occurrence count.
type KindCount struct {
	Kind  domain.AnomalyKind
	Count int
}
