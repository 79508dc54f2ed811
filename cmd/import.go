package main

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/outreach-cli/internal/db"
	"github.com/sells-group/outreach-cli/internal/model"
	"github.com/sells-group/outreach-cli/internal/sheet"
	"github.com/sells-group/outreach-cli/internal/store"
)

var importCSVPath string

var importCmd = &cobra.Command{
	Use:   "import",
	Short: "Import leads from CSV into the prospect store",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		if err := cfg.Validate("import"); err != nil {
			return err
		}

		headers, raws, err := readQueueCSV(importCSVPath)
		if err != nil {
			return err
		}

		rows := sheet.RowsToLeads(headers, raws)
		if skipped := len(raws) - len(rows); skipped > 0 {
			zap.L().Warn("skipping rows without a handle or name",
				zap.Int("skipped", skipped),
			)
		}
		if len(rows) == 0 {
			zap.L().Info("no importable rows found", zap.String("csv", importCSVPath))
			return nil
		}

		st, err := store.Open(ctx, cfg.Store.Driver, cfg.Store.DatabaseURL)
		if err != nil {
			return err
		}
		defer st.Close()

		if err := st.Migrate(ctx); err != nil {
			return eris.Wrap(err, "migrate store")
		}

		var imported int64
		if ps, ok := st.(*store.PostgresStore); ok {
			imported, err = bulkImport(ctx, ps, rows)
		} else {
			imported, err = rowImport(ctx, st, rows)
		}
		if err != nil {
			return err
		}

		zap.L().Info("import complete",
			zap.Int64("imported", imported),
			zap.String("csv", importCSVPath),
		)
		return nil
	},
}

func init() {
	importCmd.Flags().StringVar(&importCSVPath, "csv", "", "path to CSV file (required)")
	_ = importCmd.MarkFlagRequired("csv")
	rootCmd.AddCommand(importCmd)
}

func rowImport(ctx context.Context, st store.Store, rows []sheet.Row) (int64, error) {
	var n int64
	for _, row := range rows {
		if row.Lead.Status == "" {
			row.Lead.Status = model.StatusPending
		}
		if err := st.UpsertProspect(ctx, row.Lead); err != nil {
			return n, eris.Wrapf(err, "import row %d", row.Index)
		}
		n++
	}
	return n, nil
}

// bulkImport pushes all rows through one COPY-backed upsert instead of
// a round trip per lead.
func bulkImport(ctx context.Context, ps *store.PostgresStore, rows []sheet.Row) (int64, error) {
	now := time.Now().UTC()
	records := make([][]any, 0, len(rows))
	for _, row := range rows {
		lead := row.Lead
		status := lead.Status
		if status == "" {
			status = model.StatusPending
		}
		records = append(records, []any{
			uuid.NewString(),
			lead.Name,
			lead.Handle,
			string(lead.Platform),
			lead.ProfileURL,
			lead.Email,
			lead.LinkedInURL,
			lead.Bio,
			string(status),
			now,
			now,
		})
	}

	return db.BulkUpsert(ctx, ps.Pool(), db.UpsertConfig{
		Table: "prospects",
		Columns: []string{
			"id", "name", "handle", "platform", "profile_url",
			"email", "linkedin_url", "bio", "status", "created_at", "updated_at",
		},
		ConflictKeys: []string{"platform", "handle"},
		UpdateCols: []string{
			"name", "profile_url", "email", "linkedin_url", "bio", "updated_at",
		},
	}, records)
}
