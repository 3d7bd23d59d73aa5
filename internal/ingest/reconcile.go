package ingest

import (
	"fmt"
	"time"

	"salesreport-backend/internal/models"
	"salesreport-backend/internal/report"

	"github.com/shopspring/decimal"
)

// Lookups are passed in as functions so the engine stays independent of the
// store; handlers close over gorm queries, tests close over maps.
type (
	BranchLookup func(name string) (*models.Branch, bool)
	TargetLookup func(branchID uint, year, month int) (decimal.Decimal, bool)
	RecordLookup func(branchID uint, year, month int) (*models.Collection, bool)
)

// BuildTargets transforms upload rows into Target records for the given
// period. An unknown branch name aborts the whole batch.
func BuildTargets(rows []Row, year, month int, branchByName BranchLookup, createdBy *models.User) ([]models.Target, error) {
	targets := make([]models.Target, 0, len(rows))

	for _, row := range rows {
		branch, ok := branchByName(row.BranchName)
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrUnknownBranch, row.BranchName)
		}

		targets = append(targets, models.Target{
			Amount:      row.Amount,
			Year:        year,
			Month:       month,
			BranchID:    branch.ID,
			CreatedByID: createdBy.ID,
		})
	}

	return targets, nil
}

// BuildCollections transforms upload rows into Collection records. When the
// branch has a Target for the period, target/due/percentage are derived from
// it; when it does not, all three are zero. That degenerate case is allowed,
// the row is still ingested.
func BuildCollections(rows []Row, year, month int, branchByName BranchLookup, targetAmount TargetLookup, createdBy *models.User) ([]models.Collection, error) {
	collections := make([]models.Collection, 0, len(rows))

	for _, row := range rows {
		branch, ok := branchByName(row.BranchName)
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrUnknownBranch, row.BranchName)
		}

		c := models.Collection{
			CollectionAmount: row.Amount,
			Year:             year,
			Month:            month,
			BranchID:         branch.ID,
			CreatedByID:      createdBy.ID,
			Target:           decimal.Zero,
			Due:              decimal.Zero,
			Percentage:       decimal.Zero,
		}

		if target, found := targetAmount(branch.ID, year, month); found {
			c.Target = target
			c.Due = target.Sub(row.Amount)
			c.Percentage = report.Percentage(row.Amount, target)
		}

		collections = append(collections, c)
	}

	return collections, nil
}

// ApplyCollectionUpdates overwrites the collection amount of existing records
// for the period and recomputes due/percentage from the *stored* target.
// Rows that match no branch or no existing record are silently skipped.
func ApplyCollectionUpdates(rows []Row, year, month int, branchByName BranchLookup, existing RecordLookup, modifiedBy *models.User) []models.Collection {
	updated := make([]models.Collection, 0, len(rows))
	now := time.Now()

	for _, row := range rows {
		branch, ok := branchByName(row.BranchName)
		if !ok {
			continue
		}

		record, ok := existing(branch.ID, year, month)
		if !ok {
			continue
		}

		record.CollectionAmount = row.Amount
		if record.Target.IsPositive() {
			record.Percentage = report.Percentage(row.Amount, record.Target)
			record.Due = record.Target.Sub(row.Amount)
		} else {
			record.Percentage = decimal.Zero
			record.Due = row.Amount.Neg() // negative due when there is no stored target
		}
		record.ModifiedByID = &modifiedBy.ID
		record.UpdatedAt = now

		updated = append(updated, *record)
	}

	return updated
}
