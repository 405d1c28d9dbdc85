package querylog

// Report holds rolling aggregates over logged queries for one owner scope.
type Report struct {
	totalQueries       int
	avgExecutionTimeMs float64
	avgResultCount     float64
	recentQueries      []Entry
}

// NewReport computes aggregates over a set of entries. An empty set yields
// all-zero aggregates; recent holds the newest entries (caller-ordered,
// newest first).
func NewReport(entries []Entry, recentLimit int) Report {
	if len(entries) == 0 {
		return Report{}
	}

	var totalMs, totalResults int64
	for i := range entries {
		totalMs += entries[i].ExecutionTimeMs()
		totalResults += int64(entries[i].ResultCount())
	}

	n := len(entries)
	recent := entries
	if recentLimit > 0 && len(recent) > recentLimit {
		recent = recent[:recentLimit]
	}

	return Report{
		totalQueries:       n,
		avgExecutionTimeMs: float64(totalMs) / float64(n),
		avgResultCount:     float64(totalResults) / float64(n),
		recentQueries:      recent,
	}
}

// TotalQueries returns the number of queries in range.
func (r *Report) TotalQueries() int { return r.totalQueries }

// AvgExecutionTimeMs returns the mean search duration.
func (r *Report) AvgExecutionTimeMs() float64 { return r.avgExecutionTimeMs }

// AvgResultCount returns the mean result-set size.
func (r *Report) AvgResultCount() float64 { return r.avgResultCount }

// RecentQueries returns the newest entries in range.
func (r *Report) RecentQueries() []Entry { return r.recentQueries }
