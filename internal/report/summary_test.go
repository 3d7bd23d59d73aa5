package report

import (
	"testing"

	"salesreport-backend/internal/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestPercentage(t *testing.T) {
	tests := []struct {
		name   string
		amount string
		target string
		want   string
	}{
		{"quarter", "2500", "10000", "25"},
		{"two thirds of three hundred", "250", "300", "83.33"},
		{"rounds half up", "1", "3200", "0.03"}, // 0.03125 -> 0.03
		{"over target", "150", "100", "150"},
		{"zero amount", "0", "100", "0"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Percentage(dec(tt.amount), dec(tt.target))
			require.True(t, dec(tt.want).Equal(got), "got %s, want %s", got, tt.want)
		})
	}
}

func TestPercentageZeroTarget(t *testing.T) {
	require.True(t, Percentage(dec("500"), decimal.Zero).IsZero())
	require.True(t, Percentage(dec("500"), dec("-100")).IsZero())
}

func collectionRecord(branchID uint, month int, target, amount string) models.Collection {
	tgt := dec(target)
	amt := dec(amount)
	return models.Collection{
		Target:           tgt,
		CollectionAmount: amt,
		Due:              tgt.Sub(amt),
		Percentage:       Percentage(amt, tgt),
		Year:             2024,
		Month:            month,
		BranchID:         branchID,
	}
}

func TestMonthlyCollectionSummaryTotals(t *testing.T) {
	records := []models.Collection{
		collectionRecord(1, 3, "100", "50"),
		collectionRecord(2, 3, "200", "200"),
	}

	summary := MonthlyCollectionSummaryOf(2024, 3, records)

	require.Equal(t, 2024, summary.Year)
	require.Equal(t, 3, summary.Month)
	require.Equal(t, 2, summary.BranchCount)
	require.True(t, dec("300").Equal(summary.TotalTarget))
	require.True(t, dec("250").Equal(summary.TotalCollection))
	require.True(t, dec("50").Equal(summary.TotalDue))
	require.True(t, dec("83.33").Equal(summary.OverallPercentage))
	require.Len(t, summary.Collections, 2)
}

func TestMonthlyCollectionSummaryEmpty(t *testing.T) {
	summary := MonthlyCollectionSummaryOf(2024, 1, nil)

	require.Zero(t, summary.BranchCount)
	require.True(t, summary.TotalTarget.IsZero())
	require.True(t, summary.TotalCollection.IsZero())
	require.True(t, summary.TotalDue.IsZero())
	require.True(t, summary.OverallPercentage.IsZero())
	require.Empty(t, summary.Collections)
}

func TestYearlyCollectionSummaryGroupsAndSorts(t *testing.T) {
	records := []models.Collection{
		collectionRecord(1, 7, "100", "80"),
		collectionRecord(1, 2, "100", "40"),
		collectionRecord(2, 7, "300", "150"),
		collectionRecord(2, 2, "300", "300"),
	}

	summary := YearlyCollectionSummaryOf(2024, records)

	require.Equal(t, 2, summary.TotalBranches)
	require.True(t, dec("800").Equal(summary.TotalTarget))
	require.True(t, dec("570").Equal(summary.TotalCollection))

	// monthly data ascending by month, and the groups partition the input
	require.Len(t, summary.MonthlyData, 2)
	require.Equal(t, 2, summary.MonthlyData[0].Month)
	require.Equal(t, 7, summary.MonthlyData[1].Month)

	total := 0
	for _, m := range summary.MonthlyData {
		total += len(m.Collections)
	}
	require.Equal(t, len(records), total)
}

func TestYearlyTargetSummary(t *testing.T) {
	targets := []models.Target{
		{Amount: dec("1000"), Year: 2024, Month: 5, BranchID: 1},
		{Amount: dec("1500"), Year: 2024, Month: 1, BranchID: 2},
		{Amount: dec("500"), Year: 2024, Month: 5, BranchID: 2},
	}

	summary := YearlyTargetSummaryOf(2024, targets)

	require.True(t, dec("3000").Equal(summary.TotalTarget))
	require.Equal(t, 2, summary.TotalBranches)
	require.Len(t, summary.MonthlyData, 2)
	require.Equal(t, 1, summary.MonthlyData[0].Month)
	require.Equal(t, 5, summary.MonthlyData[1].Month)
	require.Equal(t, 2, summary.MonthlyData[1].BranchCount)
	require.True(t, dec("1500").Equal(summary.MonthlyData[1].TotalTarget))
}

func TestYearlyTargetSummaryEmpty(t *testing.T) {
	summary := YearlyTargetSummaryOf(2024, nil)

	require.True(t, summary.TotalTarget.IsZero())
	require.Zero(t, summary.TotalBranches)
	require.Empty(t, summary.MonthlyData)
}

func TestMonthName(t *testing.T) {
	require.Equal(t, "January", MonthName(1))
	require.Equal(t, "December", MonthName(12))
	require.Equal(t, "month 13", MonthName(13))
}
