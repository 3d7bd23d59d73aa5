package report

import (
	"fmt"
	"sort"

	"salesreport-backend/internal/models"

	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

var monthNames = [...]string{"", "January", "February", "March", "April", "May", "June",
	"July", "August", "September", "October", "November", "December"}

func MonthName(month int) string {
	if month < 1 || month > 12 {
		return fmt.Sprintf("month %d", month)
	}
	return monthNames[month]
}

// Percentage returns amount/target*100 rounded half-up to two decimal
// places, or zero when there is no meaningful target.
func Percentage(amount, target decimal.Decimal) decimal.Decimal {
	if !target.IsPositive() {
		return decimal.Zero
	}
	return amount.Mul(hundred).DivRound(target, 2)
}

type MonthlyTargetSummary struct {
	Year        int              `json:"year"`
	Month       int              `json:"month"`
	BranchCount int              `json:"branchCount"`
	TotalTarget decimal.Decimal  `json:"totalTarget"`
	Targets     []TargetResponse `json:"targets"`
}

type YearlyTargetSummary struct {
	Year          int                    `json:"year"`
	TotalTarget   decimal.Decimal        `json:"totalTarget"`
	TotalBranches int                    `json:"totalBranches"`
	MonthlyData   []MonthlyTargetSummary `json:"monthlyData"`
}

type MonthlyCollectionSummary struct {
	Year              int                  `json:"year"`
	Month             int                  `json:"month"`
	BranchCount       int                  `json:"branchCount"`
	TotalTarget       decimal.Decimal      `json:"totalTarget"`
	TotalCollection   decimal.Decimal      `json:"totalCollection"`
	TotalDue          decimal.Decimal      `json:"totalDue"`
	OverallPercentage decimal.Decimal      `json:"overallPercentage"`
	Collections       []CollectionResponse `json:"collections"`
}

type YearlyCollectionSummary struct {
	Year              int                        `json:"year"`
	TotalTarget       decimal.Decimal            `json:"totalTarget"`
	TotalCollection   decimal.Decimal            `json:"totalCollection"`
	TotalDue          decimal.Decimal            `json:"totalDue"`
	OverallPercentage decimal.Decimal            `json:"overallPercentage"`
	TotalBranches     int                        `json:"totalBranches"`
	MonthlyData       []MonthlyCollectionSummary `json:"monthlyData"`
}

// MonthlyTargetSummaryOf sums the given month's target records. The record
// count doubles as the branch count, one target per branch per month.
func MonthlyTargetSummaryOf(year, month int, targets []models.Target) MonthlyTargetSummary {
	summary := MonthlyTargetSummary{
		Year:        year,
		Month:       month,
		BranchCount: len(targets),
		TotalTarget: decimal.Zero,
		Targets:     make([]TargetResponse, 0, len(targets)),
	}

	for i := range targets {
		summary.TotalTarget = summary.TotalTarget.Add(targets[i].Amount)
		summary.Targets = append(summary.Targets, ToTargetResponse(&targets[i]))
	}

	return summary
}

// YearlyTargetSummaryOf groups the year's targets by month and rolls each
// group up with MonthlyTargetSummaryOf. MonthlyData is sorted ascending.
func YearlyTargetSummaryOf(year int, targets []models.Target) YearlyTargetSummary {
	summary := YearlyTargetSummary{
		Year:        year,
		TotalTarget: decimal.Zero,
		MonthlyData: []MonthlyTargetSummary{},
	}

	byMonth := make(map[int][]models.Target)
	branches := make(map[uint]struct{})
	for i := range targets {
		t := targets[i]
		summary.TotalTarget = summary.TotalTarget.Add(t.Amount)
		byMonth[t.Month] = append(byMonth[t.Month], t)
		branches[t.BranchID] = struct{}{}
	}
	summary.TotalBranches = len(branches)

	for month, group := range byMonth {
		summary.MonthlyData = append(summary.MonthlyData, MonthlyTargetSummaryOf(year, month, group))
	}
	sort.Slice(summary.MonthlyData, func(i, j int) bool {
		return summary.MonthlyData[i].Month < summary.MonthlyData[j].Month
	})

	return summary
}

func MonthlyCollectionSummaryOf(year, month int, collections []models.Collection) MonthlyCollectionSummary {
	summary := MonthlyCollectionSummary{
		Year:            year,
		Month:           month,
		BranchCount:     len(collections),
		TotalTarget:     decimal.Zero,
		TotalCollection: decimal.Zero,
		TotalDue:        decimal.Zero,
		Collections:     make([]CollectionResponse, 0, len(collections)),
	}

	for i := range collections {
		c := collections[i]
		summary.TotalTarget = summary.TotalTarget.Add(c.Target)
		summary.TotalCollection = summary.TotalCollection.Add(c.CollectionAmount)
		summary.TotalDue = summary.TotalDue.Add(c.Due)
		summary.Collections = append(summary.Collections, ToCollectionResponse(&collections[i]))
	}

	summary.OverallPercentage = Percentage(summary.TotalCollection, summary.TotalTarget)

	return summary
}

func YearlyCollectionSummaryOf(year int, collections []models.Collection) YearlyCollectionSummary {
	summary := YearlyCollectionSummary{
		Year:            year,
		TotalTarget:     decimal.Zero,
		TotalCollection: decimal.Zero,
		TotalDue:        decimal.Zero,
		MonthlyData:     []MonthlyCollectionSummary{},
	}

	byMonth := make(map[int][]models.Collection)
	branches := make(map[uint]struct{})
	for i := range collections {
		c := collections[i]
		summary.TotalTarget = summary.TotalTarget.Add(c.Target)
		summary.TotalCollection = summary.TotalCollection.Add(c.CollectionAmount)
		summary.TotalDue = summary.TotalDue.Add(c.Due)
		byMonth[c.Month] = append(byMonth[c.Month], c)
		branches[c.BranchID] = struct{}{}
	}
	summary.TotalBranches = len(branches)
	summary.OverallPercentage = Percentage(summary.TotalCollection, summary.TotalTarget)

	for month, group := range byMonth {
		summary.MonthlyData = append(summary.MonthlyData, MonthlyCollectionSummaryOf(year, month, group))
	}
	sort.Slice(summary.MonthlyData, func(i, j int) bool {
		return summary.MonthlyData[i].Month < summary.MonthlyData[j].Month
	})

	return summary
}
