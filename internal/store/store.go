// Package store persists prospects, pipeline results, and the
// outreach log behind a driver-agnostic interface.
package store

import (
	"context"
	"time"

	"github.com/rotisserie/eris"

	"github.com/sells-group/outreach-cli/internal/model"
)

// OutreachEntry is one row in the outreach log.
type OutreachEntry struct {
	LeadID     string    `json:"lead_id"`
	Channel    string    `json:"channel"` // "email" or "linkedin_dm"
	Subject    string    `json:"subject,omitempty"`
	Preview    string    `json:"preview,omitempty"`
	SendStatus string    `json:"send_status"` // "sent" or "failed"
	Error      string    `json:"error,omitempty"`
	SentAt     time.Time `json:"sent_at"`
}

// ProspectFilter specifies criteria for listing prospects.
type ProspectFilter struct {
	Status   model.Status   `json:"status,omitempty"`
	Platform model.Platform `json:"platform,omitempty"`
	Limit    int            `json:"limit,omitempty"`
	Offset   int            `json:"offset,omitempty"`
}

// Store defines the persistence interface for the outreach pipeline.
type Store interface {
	// Prospects
	UpsertProspect(ctx context.Context, lead *model.Lead) error
	GetProspectByEmail(ctx context.Context, email string) (*model.Lead, error)
	ListProspects(ctx context.Context, filter ProspectFilter) ([]model.Lead, error)

	// Results
	SaveResult(ctx context.Context, lead *model.Lead, result *model.PipelineResult) error

	// Outreach log
	LogOutreach(ctx context.Context, entry OutreachEntry) error

	// Lifecycle
	Migrate(ctx context.Context) error
	Close() error
}

// Open creates a Store for the configured driver.
func Open(ctx context.Context, driver, dsn string) (Store, error) {
	switch driver {
	case "postgres":
		return NewPostgres(ctx, dsn, nil)
	case "sqlite", "":
		return NewSQLite(dsn)
	default:
		return nil, eris.Errorf("store: unknown driver %q", driver)
	}
}
