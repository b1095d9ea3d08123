// Package app runs one full collection cycle: fetch every source,
// persist, expire, export and render the digest.
package app

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"callwatch/internal/call"
	"callwatch/internal/config"
	"callwatch/internal/digest"
	"callwatch/internal/export"
	"callwatch/internal/extract"
	"callwatch/internal/fetch"
	"callwatch/internal/metrics"
	"callwatch/internal/store"
)

// Result summarizes one run for the caller.
type Result struct {
	Inserted   int
	Expired    int
	Rows       int
	CSVPath    string
	XLSXPath   string
	DigestPath string
	Digest     string
}

// Run executes one collection cycle. A failing source is logged and
// skipped; only storage and export failures abort the run.
func Run(ctx context.Context, cfg *config.Config, sources []config.Source) (*Result, error) {
	started := time.Now()
	now := started.UTC()

	st, err := store.Open(cfg.Settings.SQLitePath)
	if err != nil {
		metrics.Global.SetError(err.Error())
		return nil, err
	}
	defer st.Close()

	client := fetch.NewClient(time.Duration(cfg.Settings.TimeoutSeconds)*time.Second, cfg.Settings.UserAgent)
	classifier := extract.NewClassifier(cfg.Keywords.ES, cfg.Keywords.EN)
	fetcher := fetch.New(client, classifier, cfg.AllKeywords(), cfg.Settings.MaxItemsPerSource)

	var collected []call.Call
	for _, src := range sources {
		items, err := fetcher.Fetch(ctx, fetch.Source{
			Name:      src.Name,
			Type:      src.Type,
			URL:       src.URL,
			AllowList: src.IncludeIfURLContains,
		}, now)
		if err != nil {
			slog.Warn("source failed, skipping", "source", src.Name, "error", err)
			metrics.Global.IncrementSourcesFailed()
			continue
		}
		slog.Info("source fetched", "source", src.Name, "items", len(items))
		metrics.Global.IncrementSourcesFetched()
		collected = append(collected, items...)
	}

	collected = filterFutureDeadlines(collected, now)
	metrics.Global.AddItemsCollected(int64(len(collected)))

	inserted, err := st.Upsert(collected, now)
	if err != nil {
		metrics.Global.SetError(err.Error())
		return nil, fmt.Errorf("persist calls: %w", err)
	}
	metrics.Global.AddItemsInserted(int64(inserted))

	expired, err := st.Cleanup(cfg.Settings.OnlyKeepDays, now)
	if err != nil {
		metrics.Global.SetError(err.Error())
		return nil, fmt.Errorf("expire old calls: %w", err)
	}
	metrics.Global.AddRowsExpired(int64(expired))

	snapshot, err := st.Snapshot()
	if err != nil {
		metrics.Global.SetError(err.Error())
		return nil, fmt.Errorf("read snapshot: %w", err)
	}

	if err := export.WriteCSV(cfg.Settings.OutputCSV, snapshot); err != nil {
		metrics.Global.SetError(err.Error())
		return nil, err
	}
	if cfg.Settings.OutputXLSX != "" {
		if err := export.WriteXLSX(cfg.Settings.OutputXLSX, snapshot); err != nil {
			metrics.Global.SetError(err.Error())
			return nil, err
		}
	}

	md := digest.Build(snapshot, now)
	if err := os.WriteFile(cfg.Settings.OutputMD, []byte(md), 0o644); err != nil {
		metrics.Global.SetError(err.Error())
		return nil, fmt.Errorf("write digest: %w", err)
	}

	metrics.Global.RecordRun(time.Since(started))

	return &Result{
		Inserted:   inserted,
		Expired:    expired,
		Rows:       len(snapshot),
		CSVPath:    cfg.Settings.OutputCSV,
		XLSXPath:   cfg.Settings.OutputXLSX,
		DigestPath: cfg.Settings.OutputMD,
		Digest:     md,
	}, nil
}

// filterFutureDeadlines drops candidates whose detected deadline is
// already past. Items without a parseable deadline are kept; the
// comparison is at day granularity.
func filterFutureDeadlines(candidates []call.Call, now time.Time) []call.Call {
	today := now.Truncate(24 * time.Hour)
	out := candidates[:0]
	for _, c := range candidates {
		if c.DetectedDeadline != "" {
			deadline, err := time.Parse("2006-01-02", c.DetectedDeadline)
			if err == nil && deadline.Before(today) {
				continue
			}
		}
		out = append(out, c)
	}
	return out
}
