package model

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// ReportArchive keeps a copy of every committed batch run.
type ReportArchive interface {
	Save(ctx context.Context, report RunReport) error
	Load(ctx context.Context, runID uuid.UUID) (RunReport, error)
}

// RunReport is the archived summary of a batch run.
type RunReport struct {
	RunID      uuid.UUID       `json:"run_id"`
	StartedAt  time.Time       `json:"started_at"`
	FinishedAt time.Time       `json:"finished_at"`
	Scanned    int             `json:"scanned"`
	Upgraded   []UpgradedEntry `json:"upgraded"`
}

// UpgradedEntry describes one upgraded user in a RunReport.
type UpgradedEntry struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Level string `json:"level"`
}

// NewRunReport builds the archived form of result.
func NewRunReport(result UpgradeResult) RunReport {
	entries := make([]UpgradedEntry, 0, len(result.Upgraded))
	for _, u := range result.Upgraded {
		entries = append(entries, UpgradedEntry{ID: u.ID, Email: u.Email, Level: u.Level.String()})
	}
	return RunReport{
		RunID:      result.RunID,
		StartedAt:  result.StartedAt,
		FinishedAt: result.FinishedAt,
		Scanned:    result.Scanned,
		Upgraded:   entries,
	}
}
