package target

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
)

// POST /api/v1/targets/upload/:year/:month
// Bulk create from an xlsx file with a "targets" sheet. The period must be
// empty: uploads never overwrite existing targets.
func UploadTargetsHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		year, _ := c.ParamsInt("year")
		month, _ := c.ParamsInt("month")
		if err := validPeriod(year, month); err != nil {
			return err
		}

		fileHeader, err := c.FormFile("file")
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Could not read uploaded file: "+err.Error())
		}
		if !strings.HasSuffix(strings.ToLower(fileHeader.Filename), ".xlsx") {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid Excel file format")
		}

		if err := ingest.EnsurePeriodEmpty(countTargets, year, month); err != nil {
			return fiber.NewError(fiber.StatusConflict, fmt.Sprintf(
				"Targets for %s %d already exist. Please delete existing targets before uploading new ones.",
				report.MonthName(month), year))
		}

		user, err := auth.CurrentUser(c)
		if err != nil {
			return err
		}

		file, err := fileHeader.Open()
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not open uploaded file")
		}
		defer file.Close()

		rows, err := ingest.ReadSheetRows(file, ingest.TargetSheet)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		targets, err := ingest.BuildTargets(rows, year, month, branchByName, user)
		if err != nil {
			if errors.Is(err, ingest.ErrUnknownBranch) {
				return fiber.NewError(fiber.StatusBadRequest, err.Error())
			}
			return fiber.NewError(fiber.StatusInternalServerError, "Failed to process Excel file")
		}
		if len(targets) == 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Excel file contains no data rows")
		}

		if err := database.DB.Create(&targets).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Failed to save uploaded targets")
		}

		_ = audit.WriteLog(audit.LogOptions{
			UserID:      user.ID,
			UserName:    user.Username,
			EntityType:  "target",
			Action:      models.AuditActionCreate,
			Description: fmt.Sprintf("Uploaded %d targets for %s %d", len(targets), report.MonthName(month), year),
		})

		return c.Status(fiber.StatusCreated).JSON(fiber.Map{
			"message": fmt.Sprintf("Uploaded %d targets for %s %d", len(targets), report.MonthName(month), year),
		})
	}
}

func countTargets(year, month int) int64 {
	var count int64
	database.DB.Model(&models.Target{}).Where("year = ? AND month = ?", year, month).Count(&count)
	return count
}

// branchByName matches the first upload cell against branch names exactly
// (names are stored upper-case, so sheets must use upper-case names too).
func branchByName(name string) (*models.Branch, bool) {
	var branch models.Branch
	if err := database.DB.Where("name = ?", name).First(&branch).Error; err != nil {
		return nil, false
	}
	return &branch, true
}
