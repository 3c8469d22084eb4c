// Package store persists completed business analyses.
//
// Two drivers are provided: PostgresStore for shared deployments and
// SQLiteStore for single-machine use. Both implement Store and are selected
// by configuration at startup.
package store

import (
	"context"

	"github.com/sells-group/bizintel/internal/model"
)

// defaultListLimit caps ListAnalyses when the caller passes no limit.
const defaultListLimit = 100

// Store is the persistence interface for analysis records.
type Store interface {
	// InsertAnalysis saves a completed analysis record.
	InsertAnalysis(ctx context.Context, rec *model.AnalysisRecord) error

	// GetAnalysis returns the record with the given analysis ID, or
	// (nil, nil) when no such record exists.
	GetAnalysis(ctx context.Context, analysisID string) (*model.AnalysisRecord, error)

	// ListAnalyses returns stored records sorted by creation time
	// descending. A limit of 0 applies the default; a negative limit
	// returns every record.
	ListAnalyses(ctx context.Context, limit int) ([]model.AnalysisRecord, error)

	// Ping verifies the backing database is reachable.
	Ping(ctx context.Context) error

	// Migrate creates or updates the schema.
	Migrate(ctx context.Context) error

	// Close releases the underlying connections.
	Close() error
}
