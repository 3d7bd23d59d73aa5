package branch

import (
	"testing"
	"time"

	"salesreport-backend/internal/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func TestBuildBranchResponse(t *testing.T) {
	created := time.Date(2024, 6, 1, 9, 30, 0, 0, time.UTC)
	b := &models.Branch{
		ID:          2,
		Name:        "KADIKOY",
		Description: "Kadikoy branch",
		Region: models.Region{
			ID:          1,
			Name:        "MARMARA",
			Description: "Marmara region",
		},
	}
	target := &models.Target{
		ID:        10,
		Amount:    decimal.RequireFromString("10000"),
		Year:      2024,
		Month:     6,
		CreatedAt: created,
	}
	collection := &models.Collection{
		ID:               20,
		Target:           decimal.RequireFromString("10000"),
		Due:              decimal.RequireFromString("7500"),
		CollectionAmount: decimal.RequireFromString("2500"),
		Percentage:       decimal.RequireFromString("25"),
		Year:             2024,
		Month:            6,
		CreatedAt:        created,
	}

	resp := buildBranchResponse(b, target, collection)

	require.Equal(t, uint(2), resp.ID)
	require.Equal(t, "KADIKOY", resp.Name)
	require.Equal(t, "MARMARA", resp.Region.Name)

	require.NotNil(t, resp.Target)
	require.Equal(t, uint(10), resp.Target.ID)
	require.True(t, resp.Target.Target.Equal(decimal.RequireFromString("10000")))
	require.Equal(t, "2024-06-01 09:30:00", resp.Target.CreatedDatetime)

	require.NotNil(t, resp.Collection)
	require.True(t, resp.Collection.Due.Equal(decimal.RequireFromString("7500")))
	require.True(t, resp.Collection.Percentage.Equal(decimal.RequireFromString("25")))
}

func TestBuildBranchResponseWithoutRecords(t *testing.T) {
	b := &models.Branch{ID: 3, Name: "BESIKTAS", Region: models.Region{ID: 1, Name: "MARMARA"}}

	resp := buildBranchResponse(b, nil, nil)

	require.Nil(t, resp.Target)
	require.Nil(t, resp.Collection)
	require.Equal(t, "BESIKTAS", resp.Name)
}
