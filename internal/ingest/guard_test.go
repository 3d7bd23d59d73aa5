package ingest

import (
	"testing"

	"salesreport-backend/internal/models"

	"github.com/stretchr/testify/require"
)

func countOf(n int64) PeriodCount {
	return func(year, month int) int64 { return n }
}

func TestEnsurePeriodEmpty(t *testing.T) {
	require.NoError(t, EnsurePeriodEmpty(countOf(0), 2024, 6))
	require.ErrorIs(t, EnsurePeriodEmpty(countOf(3), 2024, 6), ErrPeriodPopulated)
}

func TestEnsurePeriodPopulated(t *testing.T) {
	require.NoError(t, EnsurePeriodPopulated(countOf(3), 2024, 6))
	require.ErrorIs(t, EnsurePeriodPopulated(countOf(0), 2024, 6), ErrPeriodEmpty)
}

func TestEnsurePeriodEmptyQueriesTheRequestedPeriod(t *testing.T) {
	var gotYear, gotMonth int
	count := func(year, month int) int64 {
		gotYear, gotMonth = year, month
		return 0
	}

	require.NoError(t, EnsurePeriodEmpty(count, 2024, 11))
	require.Equal(t, 2024, gotYear)
	require.Equal(t, 11, gotMonth)
}

func TestEnsureNoDuplicate(t *testing.T) {
	taken := map[uint]bool{1: true}
	exists := func(branchID uint, year, month int) bool {
		return taken[branchID]
	}

	require.ErrorIs(t, EnsureNoDuplicate(exists, 1, 2024, 1), ErrDuplicateRecord)
	require.NoError(t, EnsureNoDuplicate(exists, 2, 2024, 1))
}

// A failed period guard must short-circuit the upload before anything is
// built, leaving whatever is already stored for the period untouched.
func TestPopulatedPeriodBlocksUploadWithoutChanges(t *testing.T) {
	stored := []models.Target{
		{Amount: dec("10000"), Year: 2024, Month: 6, BranchID: 1},
	}
	count := func(year, month int) int64 {
		var n int64
		for _, rec := range stored {
			if rec.Year == year && rec.Month == month {
				n++
			}
		}
		return n
	}

	err := EnsurePeriodEmpty(count, 2024, 6)
	require.ErrorIs(t, err, ErrPeriodPopulated)

	// the handler returns Conflict here; BuildTargets is never reached
	require.Len(t, stored, 1)
	require.True(t, stored[0].Amount.Equal(dec("10000")))
}
