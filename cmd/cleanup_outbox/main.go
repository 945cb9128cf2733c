package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"time"

	"cloud.google.com/go/spanner"

	"github.com/voyantra/pricing-engine/internal/models/m_outbox"
	"github.com/voyantra/pricing-engine/internal/pkg/query"
)

// retention policy for processed rule-change events
type config struct {
	SpannerDB          string
	CompletedRetention int
	FailedRetention    int
	DryRun             bool
}

func main() {
	var cfg config
	flag.StringVar(&cfg.SpannerDB, "database", "", "Spanner database (required, format: projects/PROJECT/instances/INSTANCE/databases/DATABASE)")
	flag.IntVar(&cfg.CompletedRetention, "completed-retention", 30, "Retention days for completed events")
	flag.IntVar(&cfg.FailedRetention, "failed-retention", 90, "Retention days for failed events")
	flag.BoolVar(&cfg.DryRun, "dry-run", false, "Show what would be deleted without actually deleting")
	flag.Parse()

	if cfg.SpannerDB == "" {
		log.Fatal("Error: -database flag is required")
	}

	if err := cleanup(context.Background(), cfg); err != nil {
		log.Fatalf("Cleanup failed: %v", err)
	}
	log.Println("Cleanup completed successfully")
}

func cleanup(ctx context.Context, cfg config) error {
	client, err := spanner.NewClient(ctx, cfg.SpannerDB)
	if err != nil {
		return fmt.Errorf("failed to create Spanner client: %w", err)
	}
	defer client.Close()

	now := time.Now().UTC()
	retentionClasses := []struct {
		status string
		cutoff time.Time
	}{
		{m_outbox.StatusCompleted, now.AddDate(0, 0, -cfg.CompletedRetention)},
		{m_outbox.StatusFailed, now.AddDate(0, 0, -cfg.FailedRetention)},
	}

	log.Printf("Outbox cleanup: completed before %s, failed before %s, dry-run=%v",
		retentionClasses[0].cutoff.Format(time.RFC3339),
		retentionClasses[1].cutoff.Format(time.RFC3339), cfg.DryRun)

	var total int64
	for _, class := range retentionClasses {
		if cfg.DryRun {
			count, err := countCandidates(ctx, client, class.status, class.cutoff)
			if err != nil {
				return err
			}
			log.Printf("  would delete %d %s events", count, class.status)
			total += count
			continue
		}

		deleted, err := deleteEvents(ctx, client, class.status, class.cutoff)
		if err != nil {
			return err
		}
		log.Printf("  deleted %d %s events", deleted, class.status)
		total += deleted
	}

	if cfg.DryRun {
		log.Printf("DRY RUN: would delete %d events in total", total)
	} else {
		log.Printf("Deleted %d events in total", total)
	}
	return nil
}

func countCandidates(ctx context.Context, client *spanner.Client, status string, cutoff time.Time) (int64, error) {
	stmt := query.From(m_outbox.TableName).
		Where(query.Eq(m_outbox.Status, status)).
		Where(query.Lt(m_outbox.ProcessedAt, cutoff)).
		Count().
		Build()

	iter := client.Single().Query(ctx, stmt)
	defer iter.Stop()

	row, err := iter.Next()
	if err != nil {
		return 0, fmt.Errorf("failed to count %s events: %w", status, err)
	}

	var count int64
	if err := row.Column(0, &count); err != nil {
		return 0, fmt.Errorf("failed to parse count: %w", err)
	}
	return count, nil
}

func deleteEvents(ctx context.Context, client *spanner.Client, status string, cutoff time.Time) (int64, error) {
	var deleted int64
	_, err := client.ReadWriteTransaction(ctx, func(ctx context.Context, txn *spanner.ReadWriteTransaction) error {
		stmt := spanner.Statement{
			SQL: fmt.Sprintf("DELETE FROM %s WHERE %s = @status AND %s < @cutoff",
				m_outbox.TableName, m_outbox.Status, m_outbox.ProcessedAt),
			Params: map[string]interface{}{
				"status": status,
				"cutoff": cutoff,
			},
		}
		var err error
		deleted, err = txn.Update(ctx, stmt)
		return err
	})
	if err != nil {
		return 0, fmt.Errorf("failed to delete %s events: %w", status, err)
	}
	return deleted, nil
}
