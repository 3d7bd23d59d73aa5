package collection

import (
	"errors"
	"fmt"
	"strings"

	"salesreport-backend/internal/audit"
	"salesreport-backend/internal/auth"
	"salesreport-backend/internal/database"
	"salesreport-backend/internal/ingest"
	"salesreport-backend/internal/models"
	"salesreport-backend/internal/report"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
)

func branchByName(name string) (*models.Branch, bool) {
	var branch models.Branch
	if err := database.DB.Where("name = ?", name).First(&branch).Error; err != nil {
		return nil, false
	}
	return &branch, true
}

func targetAmount(branchID uint, year, month int) (decimal.Decimal, bool) {
	var target models.Target
	err := database.DB.
		Where("branch_id = ? AND year = ? AND month = ?", branchID, year, month).
		First(&target).Error
	if err != nil {
		return decimal.Zero, false
	}
	return target.Amount, true
}

func countCollections(year, month int) int64 {
	var count int64
	database.DB.Model(&models.Collection{}).Where("year = ? AND month = ?", year, month).Count(&count)
	return count
}

func existingCollection(branchID uint, year, month int) (*models.Collection, bool) {
	var collection models.Collection
	err := database.DB.
		Where("branch_id = ? AND year = ? AND month = ?", branchID, year, month).
		First(&collection).Error
	if err != nil {
		return nil, false
	}
	return &collection, true
}

func openUploadedSheet(c *fiber.Ctx) ([]ingest.Row, error) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		return nil, fiber.NewError(fiber.StatusBadRequest, "Could not read uploaded file: "+err.Error())
	}
	if !strings.HasSuffix(strings.ToLower(fileHeader.Filename), ".xlsx") {
		return nil, fiber.NewError(fiber.StatusBadRequest, "Invalid Excel file format")
	}

	file, err := fileHeader.Open()
	if err != nil {
		return nil, fiber.NewError(fiber.StatusInternalServerError, "Could not open uploaded file")
	}
	defer file.Close()

	rows, err := ingest.ReadSheetRows(file, ingest.CollectionSheet)
	if err != nil {
		return nil, fiber.NewError(fiber.StatusBadRequest, err.Error())
	}
	return rows, nil
}

// POST /api/v1/collections/upload/:year/:month
// Bulk create from an xlsx file with a "collections" sheet. Rows whose branch
// has no target for the period are still ingested with zero target/due/
// percentage.
func UploadCollectionsHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		year, _ := c.ParamsInt("year")
		month, _ := c.ParamsInt("month")
		if err := validPeriod(year, month); err != nil {
			return err
		}

		if err := ingest.EnsurePeriodEmpty(countCollections, year, month); err != nil {
			return fiber.NewError(fiber.StatusConflict, fmt.Sprintf(
				"Collections for %s %d already exist. Please use update instead of save.",
				report.MonthName(month), year))
		}

		user, err := auth.CurrentUser(c)
		if err != nil {
			return err
		}

		rows, err := openUploadedSheet(c)
		if err != nil {
			return err
		}

		collections, err := ingest.BuildCollections(rows, year, month, branchByName, targetAmount, user)
		if err != nil {
			if errors.Is(err, ingest.ErrUnknownBranch) {
				return fiber.NewError(fiber.StatusBadRequest, err.Error())
			}
			return fiber.NewError(fiber.StatusInternalServerError, "Failed to process Excel file")
		}
		if len(collections) == 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Excel file contains no data rows")
		}

		if err := database.DB.Create(&collections).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Failed to save uploaded collections")
		}

		_ = audit.WriteLog(audit.LogOptions{
			UserID:      user.ID,
			UserName:    user.Username,
			EntityType:  "collection",
			Action:      models.AuditActionCreate,
			Description: fmt.Sprintf("Uploaded %d collections for %s %d", len(collections), report.MonthName(month), year),
		})

		return c.Status(fiber.StatusCreated).JSON(fiber.Map{
			"message": fmt.Sprintf("Uploaded %d collections for %s %d", len(collections), report.MonthName(month), year),
		})
	}
}

// POST /api/v1/collections/upload/update/:year/:month
// Bulk update of collection amounts for a period that was already ingested.
// Only the amount is overwritten; due/percentage are recomputed from each
// record's stored target. Rows without a matching record are skipped.
func UploadCollectionUpdatesHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		year, _ := c.ParamsInt("year")
		month, _ := c.ParamsInt("month")
		if err := validPeriod(year, month); err != nil {
			return err
		}

		if err := ingest.EnsurePeriodPopulated(countCollections, year, month); err != nil {
			return fiber.NewError(fiber.StatusConflict, fmt.Sprintf(
				"No collections found for %s %d. Please use save instead of update.",
				report.MonthName(month), year))
		}

		user, err := auth.CurrentUser(c)
		if err != nil {
			return err
		}

		rows, err := openUploadedSheet(c)
		if err != nil {
			return err
		}

		updated := ingest.ApplyCollectionUpdates(rows, year, month, branchByName, existingCollection, user)
		if len(updated) == 0 {
			return c.JSON(fiber.Map{"message": fmt.Sprintf("No matching collections to update for %s %d",
				report.MonthName(month), year)})
		}

		if err := database.DB.Save(&updated).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Failed to save updated collections")
		}

		_ = audit.WriteLog(audit.LogOptions{
			UserID:      user.ID,
			UserName:    user.Username,
			EntityType:  "collection",
			Action:      models.AuditActionUpdate,
			Description: fmt.Sprintf("Updated %d collections for %s %d via upload", len(updated), report.MonthName(month), year),
		})

		return c.JSON(fiber.Map{
			"message": fmt.Sprintf("Updated %d collections for %s %d", len(updated), report.MonthName(month), year),
		})
	}
}
