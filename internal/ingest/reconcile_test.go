package ingest

import (
	"testing"

	"salesreport-backend/internal/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

var testUser = &models.User{ID: 7, Username: "admin"}

func branchMap(names map[string]uint) BranchLookup {
	return func(name string) (*models.Branch, bool) {
		id, ok := names[name]
		if !ok {
			return nil, false
		}
		return &models.Branch{ID: id, Name: name}, true
	}
}

func TestBuildTargets(t *testing.T) {
	rows := []Row{
		{BranchName: "KADIKOY", Amount: dec("10000")},
		{BranchName: "BESIKTAS", Amount: dec("7500")},
	}
	lookup := branchMap(map[string]uint{"KADIKOY": 1, "BESIKTAS": 2})

	targets, err := BuildTargets(rows, 2024, 6, lookup, testUser)
	require.NoError(t, err)
	require.Len(t, targets, 2)
	require.Equal(t, uint(1), targets[0].BranchID)
	require.Equal(t, 2024, targets[0].Year)
	require.Equal(t, 6, targets[0].Month)
	require.Equal(t, testUser.ID, targets[0].CreatedByID)
	require.True(t, targets[1].Amount.Equal(dec("7500")))
}

func TestBuildTargetsUnknownBranchAborts(t *testing.T) {
	rows := []Row{
		{BranchName: "KADIKOY", Amount: dec("10000")},
		{BranchName: "NOWHERE", Amount: dec("1")},
	}
	lookup := branchMap(map[string]uint{"KADIKOY": 1})

	targets, err := BuildTargets(rows, 2024, 6, lookup, testUser)
	require.ErrorIs(t, err, ErrUnknownBranch)
	require.Nil(t, targets)
}

func TestBuildCollectionsWithTarget(t *testing.T) {
	rows := []Row{{BranchName: "KADIKOY", Amount: dec("2500")}}
	branches := branchMap(map[string]uint{"KADIKOY": 1})
	targets := func(branchID uint, year, month int) (decimal.Decimal, bool) {
		require.Equal(t, uint(1), branchID)
		return dec("10000"), true
	}

	collections, err := BuildCollections(rows, 2024, 6, branches, targets, testUser)
	require.NoError(t, err)
	require.Len(t, collections, 1)

	c := collections[0]
	require.True(t, c.Target.Equal(dec("10000")))
	require.True(t, c.CollectionAmount.Equal(dec("2500")))
	require.True(t, c.Due.Equal(dec("7500")))
	require.True(t, c.Percentage.Equal(dec("25")))
}

func TestBuildCollectionsWithoutTarget(t *testing.T) {
	rows := []Row{{BranchName: "KADIKOY", Amount: dec("2500")}}
	branches := branchMap(map[string]uint{"KADIKOY": 1})
	targets := func(uint, int, int) (decimal.Decimal, bool) {
		return decimal.Zero, false
	}

	collections, err := BuildCollections(rows, 2024, 6, branches, targets, testUser)
	require.NoError(t, err)
	require.Len(t, collections, 1)

	c := collections[0]
	require.True(t, c.Target.IsZero())
	require.True(t, c.Due.IsZero())
	require.True(t, c.Percentage.IsZero())
	require.True(t, c.CollectionAmount.Equal(dec("2500")))
}

func TestApplyCollectionUpdatesRecomputes(t *testing.T) {
	rows := []Row{{BranchName: "KADIKOY", Amount: dec("9000")}}
	branches := branchMap(map[string]uint{"KADIKOY": 1})

	stored := &models.Collection{
		Target:           dec("10000"),
		CollectionAmount: dec("2500"),
		Due:              dec("7500"),
		Percentage:       dec("25"),
		Year:             2024,
		Month:            6,
		BranchID:         1,
	}
	records := func(branchID uint, year, month int) (*models.Collection, bool) {
		return stored, true
	}

	updated := ApplyCollectionUpdates(rows, 2024, 6, branches, records, testUser)
	require.Len(t, updated, 1)

	c := updated[0]
	require.True(t, c.CollectionAmount.Equal(dec("9000")))
	require.True(t, c.Target.Equal(dec("10000")), "stored target must not change")
	require.True(t, c.Due.Equal(dec("1000")))
	require.True(t, c.Percentage.Equal(dec("90")))
	require.NotNil(t, c.ModifiedByID)
	require.Equal(t, testUser.ID, *c.ModifiedByID)
}

func TestApplyCollectionUpdatesNegativeDueWithoutTarget(t *testing.T) {
	rows := []Row{{BranchName: "KADIKOY", Amount: dec("400")}}
	branches := branchMap(map[string]uint{"KADIKOY": 1})
	records := func(uint, int, int) (*models.Collection, bool) {
		return &models.Collection{Target: decimal.Zero, BranchID: 1, Year: 2024, Month: 6}, true
	}

	updated := ApplyCollectionUpdates(rows, 2024, 6, branches, records, testUser)
	require.Len(t, updated, 1)
	require.True(t, updated[0].Due.Equal(dec("-400")))
	require.True(t, updated[0].Percentage.IsZero())
}

func TestApplyCollectionUpdatesSkipsUnmatchedRows(t *testing.T) {
	rows := []Row{
		{BranchName: "NOWHERE", Amount: dec("100")},
		{BranchName: "KADIKOY", Amount: dec("100")},
	}
	branches := branchMap(map[string]uint{"KADIKOY": 1})
	records := func(uint, int, int) (*models.Collection, bool) {
		return nil, false // branch known but nothing ingested for the period
	}

	updated := ApplyCollectionUpdates(rows, 2024, 6, branches, records, testUser)
	require.Empty(t, updated)
}
