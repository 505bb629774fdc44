// Package repository provides the engine's optional run ledger: a GORM-
// backed store of post-hoc run summaries (never intermediate traversal
// state, per the non-goal in spec §5). Grounded on the teacher's
// internal/repository GORM-based persistence layer for connection
// handling and dialect selection, rewritten around a single RunRecord
// table instead of the teacher's task/result/suggestion schema.
package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// RunRecord is a single completed driver invocation, persisted once the
// run finishes. Never stores intermediate frontiers or per-vertex arrays
// — only the summary a caller would want to look up later.
type RunRecord struct {
	ID           string `gorm:"primaryKey"`
	Algorithm    string `gorm:"index"`
	GraphPath    string
	Source       uint32
	Iterations   int
	ElapsedNanos int64
	ResultDigest string
	CreatedAt    time.Time
}

// NewRunRecord constructs a RunRecord with a fresh id and CreatedAt.
func NewRunRecord(algorithm, graphPath string, source uint32, iterations int, elapsed time.Duration, digest string) *RunRecord {
	return &RunRecord{
		ID:           uuid.NewString(),
		Algorithm:    algorithm,
		GraphPath:    graphPath,
		Source:       source,
		Iterations:   iterations,
		ElapsedNanos: elapsed.Nanoseconds(),
		ResultDigest: digest,
		CreatedAt:    time.Now(),
	}
}

// RunRepository persists and retrieves RunRecords.
type RunRepository interface {
	SaveRun(ctx context.Context, run *RunRecord) error
	GetRun(ctx context.Context, id string) (*RunRecord, error)
	ListRuns(ctx context.Context, algorithm string, limit int) ([]*RunRecord, error)
}
