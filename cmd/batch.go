package main

import (
	"context"
	"encoding/csv"
	"os"
	"os/signal"
	"syscall"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/sells-group/outreach-cli/internal/model"
	"github.com/sells-group/outreach-cli/internal/sheet"
	"github.com/sells-group/outreach-cli/pkg/gsheets"
)

var batchLimit int

var batchCmd = &cobra.Command{
	Use:   "batch",
	Short: "Process unprocessed leads from the record sheet",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		env, err := initPipeline(ctx)
		if err != nil {
			return err
		}
		defer env.Close()

		headers, raws, fromSheet, err := loadBatchRows(ctx, env.Sheets, cfg.Batch.QueueFile)
		if err != nil {
			return err
		}

		limit := batchLimit
		if limit <= 0 {
			limit = cfg.Batch.MaxLeads
		}
		rows := pickRows(headers, raws, limit)
		if len(rows) == 0 {
			zap.L().Info("no unprocessed leads found")
			return nil
		}

		zap.L().Info("processing batch",
			zap.Int("leads", len(rows)),
			zap.Bool("from_sheet", fromSheet),
			zap.Float64("leads_per_minute", cfg.Batch.LeadsPerMinute),
		)

		// Sends pace out so the vendor APIs never see a burst.
		limiter := rate.NewLimiter(rate.Limit(cfg.Batch.LeadsPerMinute/60.0), 1)

		counts := map[model.Status]int{}
		for _, row := range rows {
			if err := limiter.Wait(ctx); err != nil {
				return eris.Wrap(err, "batch: rate wait")
			}

			result := env.Pipeline.Process(ctx, row.Lead)
			counts[result.Status]++

			if fromSheet {
				fields := sheet.ResultFields(row.Lead, result)
				updated := sheet.ApplyFields(headers, raws[row.Index-2], fields)
				if err := env.Sheets.UpdateRow(ctx, row.Index, updated); err != nil {
					zap.L().Warn("batch: sheet write-back failed",
						zap.Int("row", row.Index),
						zap.Error(err),
					)
				}
			}
		}

		zap.L().Info("batch complete",
			zap.Int("completed", counts[model.StatusCompleted]),
			zap.Int("failed", counts[model.StatusFailed]),
			zap.Int("skipped", counts[model.StatusSkipped]),
			zap.Int("errors", counts[model.StatusError]),
		)
		return nil
	},
}

func init() {
	batchCmd.Flags().IntVar(&batchLimit, "limit", 0, "max leads this run (default from config)")
	rootCmd.AddCommand(batchCmd)
}

// loadBatchRows reads the record sheet, falling back to the local CSV
// queue when the sheet is unconfigured or unreadable.
func loadBatchRows(ctx context.Context, sheets gsheets.Client, queueFile string) (headers []string, raws [][]string, fromSheet bool, err error) {
	if sheets != nil {
		all, readErr := sheets.ReadRows(ctx, "A:Z")
		if readErr == nil && len(all) > 0 {
			return all[0], all[1:], true, nil
		}
		zap.L().Warn("batch: sheet read failed, falling back to csv queue",
			zap.String("queue_file", queueFile),
			zap.Error(readErr),
		)
	}

	headers, raws, err = readQueueCSV(queueFile)
	if err != nil {
		return nil, nil, false, err
	}
	return headers, raws, false, nil
}

// readQueueCSV reads the local lead queue: a headers row followed by
// one lead per row, same columns as the record sheet.
func readQueueCSV(path string) ([]string, [][]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, eris.Wrapf(err, "batch: open queue file %s", path)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	records, err := r.ReadAll()
	if err != nil {
		return nil, nil, eris.Wrapf(err, "batch: parse queue file %s", path)
	}
	if len(records) == 0 {
		return nil, nil, eris.Errorf("batch: queue file %s is empty", path)
	}
	return records[0], records[1:], nil
}

// pickRows maps raw rows to leads, keeps the unprocessed ones, and
// caps the batch.
func pickRows(headers []string, raws [][]string, limit int) []sheet.Row {
	rows := sheet.Unprocessed(sheet.RowsToLeads(headers, raws))
	if limit > 0 && len(rows) > limit {
		rows = rows[:limit]
	}
	return rows
}
