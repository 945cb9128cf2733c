package testutil

import (
	"context"
	"fmt"
	"os"
	"testing"

	"cloud.google.com/go/spanner"
	"github.com/stretchr/testify/require"
)

// SetupSpannerTest creates a test Spanner client and returns a cleanup function.
// Requires SPANNER_EMULATOR_HOST to point at a running emulator with the
// pricing schema applied (see cmd/migrate).
func SetupSpannerTest(t *testing.T) (*spanner.Client, func()) {
	t.Helper()

	ctx := context.Background()
	client, err := spanner.NewClient(ctx, GetTestSpannerDB())
	require.NoError(t, err, "failed to create Spanner client")

	CleanDatabase(t, client)

	cleanup := func() {
		CleanDatabase(t, client)
		client.Close()
	}

	return client, cleanup
}

// GetTestSpannerDB returns the test Spanner database string.
func GetTestSpannerDB() string {
	if db := os.Getenv("TEST_SPANNER_DB"); db != "" {
		return db
	}
	return "projects/test-project/instances/test-instance/databases/pricing-test"
}

// CleanDatabase truncates all pricing tables for test isolation.
func CleanDatabase(t *testing.T, client *spanner.Client) {
	t.Helper()

	mutations := []*spanner.Mutation{
		spanner.Delete("outbox_events", spanner.AllKeys()),
		spanner.Delete("rule_history", spanner.AllKeys()),
		spanner.Delete("country_pricing_rules", spanner.AllKeys()),
		spanner.Delete("enhanced_markup_rules", spanner.AllKeys()),
		spanner.Delete("tax_configurations", spanner.AllKeys()),
		spanner.Delete("regional_pricing_templates", spanner.AllKeys()),
		spanner.Delete("conversion_settings", spanner.AllKeys()),
	}

	_, err := client.Apply(context.Background(), mutations)
	require.NoError(t, err, "failed to clean database")
}

// AssertRowCount asserts the number of rows in a table.
func AssertRowCount(t *testing.T, client *spanner.Client, table string, expectedCount int) {
	t.Helper()

	stmt := spanner.Statement{
		SQL: fmt.Sprintf("SELECT COUNT(*) FROM %s", table),
	}

	iter := client.Single().Query(context.Background(), stmt)
	defer iter.Stop()

	row, err := iter.Next()
	require.NoError(t, err, "failed to count rows")

	var count int64
	require.NoError(t, row.Columns(&count))
	require.Equal(t, int64(expectedCount), count, "unexpected row count in %s", table)
}
