package storage

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zenzer0s/crawlbase/internal/domain"
)

// setupTestDB opens a BadgerDB in a temp dir and returns it with a cleanup func.
func setupTestDB(t *testing.T) (*BadgerRepository, func()) {
	t.Helper()

	testLogger := logrus.New()
	testLogger.SetOutput(os.Stderr)
	testLogger.SetLevel(logrus.ErrorLevel)

	repo, err := NewBadgerRepository(t.TempDir(), testLogger)
	require.NoError(t, err, "Failed to create test BadgerDB repository")

	cleanup := func() {
		assert.NoError(t, repo.Close(), "Failed to close test BadgerDB repository")
	}
	return repo, cleanup
}

func TestBadgerRepository_SaveAndGetRecords(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	older := domain.Record{
		UserID:     1,
		Variant:    "crawling",
		Target:     "https://example.com/a",
		StatusCode: 200,
		Body:       "<html>a</html>",
		Timestamp:  time.Now().Add(-time.Hour),
	}
	newer := domain.Record{
		UserID:            1,
		Variant:           "scraper",
		Target:            "https://example.com/a",
		StatusCode:        200,
		RemainingRequests: 9,
		Body:              `{"title":"A"}`,
		Timestamp:         time.Now(),
	}
	otherUser := domain.Record{
		UserID:    12,
		Variant:   "leads",
		Target:    "example.com",
		Body:      `{"leads":[]}`,
		Timestamp: time.Now(),
	}

	require.NoError(t, repo.SaveRecord(ctx, older))
	require.NoError(t, repo.SaveRecord(ctx, newer))
	require.NoError(t, repo.SaveRecord(ctx, otherUser))

	// --- Same target through two endpoints gives two records ---
	recs, err := repo.GetRecordsByUser(ctx, 1)
	require.NoError(t, err)
	require.Len(t, recs, 2)
	assert.Equal(t, "scraper", recs[0].Variant, "newest first")
	assert.Equal(t, 9, recs[0].RemainingRequests)
	assert.Equal(t, "crawling", recs[1].Variant)
	assert.Equal(t, "<html>a</html>", recs[1].Body)

	// --- User 12 must not bleed into user 1 (and vice versa) ---
	recs, err = repo.GetRecordsByUser(ctx, 12)
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.Equal(t, "example.com", recs[0].Target)

	recs, err = repo.GetRecordsByUser(ctx, 999)
	require.NoError(t, err)
	assert.Empty(t, recs)

	// --- Saving the same endpoint+target replaces the record ---
	replaced := older
	replaced.StatusCode = 404
	replaced.Timestamp = time.Now().Add(time.Minute)
	require.NoError(t, repo.SaveRecord(ctx, replaced))

	recs, err = repo.GetRecordsByUser(ctx, 1)
	require.NoError(t, err)
	require.Len(t, recs, 2)
	assert.Equal(t, "crawling", recs[0].Variant)
	assert.Equal(t, 404, recs[0].StatusCode)
}

func TestBadgerRepository_SaveSetsTimestamp(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	require.NoError(t, repo.SaveRecord(ctx, domain.Record{Variant: "crawling", Target: "https://x.test"}))

	recs, err := repo.GetRecordsByUser(ctx, 0)
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.False(t, recs[0].Timestamp.IsZero())
}

func TestBadgerRepository_DeleteRecord(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	require.NoError(t, repo.SaveRecord(ctx, domain.Record{UserID: 5, Variant: "crawling", Target: "https://delete.me"}))
	require.NoError(t, repo.SaveRecord(ctx, domain.Record{UserID: 5, Variant: "crawling", Target: "https://keep.me"}))

	require.NoError(t, repo.DeleteRecord(ctx, 5, "crawling", "https://delete.me"))

	recs, err := repo.GetRecordsByUser(ctx, 5)
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.Equal(t, "https://keep.me", recs[0].Target)

	// Deleting twice, or something that never existed, is fine.
	assert.NoError(t, repo.DeleteRecord(ctx, 5, "crawling", "https://delete.me"))
	assert.NoError(t, repo.DeleteRecord(ctx, 5, "screenshots", "https://never.saved"))

	recs, err = repo.GetRecordsByUser(ctx, 5)
	require.NoError(t, err)
	assert.Len(t, recs, 1)
}
