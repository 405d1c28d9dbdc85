package analytics

import (
	"context"
	"time"

	domlog "github.com/casevault/semsearch/internal/domain/querylog"
)

// Repository defines the storage contract for the query log.
type Repository interface {
	Save(ctx context.Context, e domlog.Entry) (domlog.Entry, error)
	ListByScope(ctx context.Context, ownerScope string, from, to time.Time) ([]domlog.Entry, error)
}

// Recorder counts query log outcomes for observability.
type Recorder interface {
	QueryLogged()
	QueryLogFailed()
	QueryLogDropped()
}
