package target

import (
	"errors"
	"fmt"

	"salesreport-backend/internal/audit"
	"salesreport-backend/internal/auth"
	"salesreport-backend/internal/database"
	"salesreport-backend/internal/ingest"
	"salesreport-backend/internal/models"
	"salesreport-backend/internal/report"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type SaveTargetRequest struct {
	Target      decimal.Decimal `json:"target"`
	BranchID    uint            `json:"branchId"`
	TargetYear  int             `json:"targetYear"`
	TargetMonth int             `json:"targetMonth"`
}

type UpdateTargetRequest struct {
	Target      decimal.Decimal `json:"target"`
	TargetYear  *int            `json:"targetYear"`
	TargetMonth *int            `json:"targetMonth"`
}

func targetExists(branchID uint, year, month int) bool {
	var count int64
	database.DB.Model(&models.Target{}).
		Where("branch_id = ? AND year = ? AND month = ?", branchID, year, month).
		Count(&count)
	return count > 0
}

// withResponseAssociations preloads everything ToTargetResponse reads.
func withResponseAssociations(db *gorm.DB) *gorm.DB {
	return db.Preload("Branch.Region").Preload("CreatedBy").Preload("ModifiedBy")
}

func toResponses(targets []models.Target) []report.TargetResponse {
	res := make([]report.TargetResponse, 0, len(targets))
	for i := range targets {
		res = append(res, report.ToTargetResponse(&targets[i]))
	}
	return res
}

func validPeriod(year, month int) error {
	if year < 2000 || year > 2100 {
		return fiber.NewError(fiber.StatusBadRequest, "Target year must be between 2000 and 2100")
	}
	if month < 1 || month > 12 {
		return fiber.NewError(fiber.StatusBadRequest, "Target month must be between 1 and 12")
	}
	return nil
}

func CreateTargetHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body SaveTargetRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}

		if !body.Target.IsPositive() {
			return fiber.NewError(fiber.StatusBadRequest, "Target amount must be greater than zero")
		}
		if body.BranchID == 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Branch ID cannot be null")
		}
		if err := validPeriod(body.TargetYear, body.TargetMonth); err != nil {
			return err
		}

		var branch models.Branch
		if err := database.DB.First(&branch, body.BranchID).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Branch not found")
		}

		if err := ingest.EnsureNoDuplicate(targetExists, body.BranchID, body.TargetYear, body.TargetMonth); err != nil {
			return fiber.NewError(fiber.StatusConflict, fmt.Sprintf("Target already exists for this branch in %s %d",
				report.MonthName(body.TargetMonth), body.TargetYear))
		}

		user, err := auth.CurrentUser(c)
		if err != nil {
			return err
		}

		target := models.Target{
			Amount:      body.Target,
			Year:        body.TargetYear,
			Month:       body.TargetMonth,
			BranchID:    branch.ID,
			CreatedByID: user.ID,
		}
		if err := database.DB.Create(&target).Error; err != nil {
			// the unique index closes the check-then-insert race
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return fiber.NewError(fiber.StatusConflict, fmt.Sprintf("Target already exists for this branch in %s %d",
					report.MonthName(body.TargetMonth), body.TargetYear))
			}
			return fiber.NewError(fiber.StatusInternalServerError, "Error saving target")
		}

		_ = audit.WriteLog(audit.LogOptions{
			UserID:      user.ID,
			UserName:    user.Username,
			EntityType:  "target",
			EntityID:    target.ID,
			Action:      models.AuditActionCreate,
			Description: fmt.Sprintf("Created target for %s %s %d", branch.Name, report.MonthName(target.Month), target.Year),
			After:       target,
		})

		return c.Status(fiber.StatusCreated).JSON(fiber.Map{"message": "Target saved successfully"})
	}
}

func UpdateTargetHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := c.ParamsInt("id")
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid target id")
		}

		var body UpdateTargetRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}

		if !body.Target.IsPositive() {
			return fiber.NewError(fiber.StatusBadRequest, "Target amount must be greater than zero")
		}
		if body.TargetYear != nil && (*body.TargetYear < 2000 || *body.TargetYear > 2100) {
			return fiber.NewError(fiber.StatusBadRequest, "Target year must be between 2000 and 2100")
		}
		if body.TargetMonth != nil && (*body.TargetMonth < 1 || *body.TargetMonth > 12) {
			return fiber.NewError(fiber.StatusBadRequest, "Target month must be between 1 and 12")
		}

		var target models.Target
		if err := database.DB.First(&target, id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Target not found")
		}

		user, err := auth.CurrentUser(c)
		if err != nil {
			return err
		}

		before := target
		target.Amount = body.Target
		if body.TargetYear != nil {
			target.Year = *body.TargetYear
		}
		if body.TargetMonth != nil {
			target.Month = *body.TargetMonth
		}
		target.ModifiedByID = &user.ID

		if err := database.DB.Save(&target).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return fiber.NewError(fiber.StatusConflict, fmt.Sprintf("Target already exists for this branch in %s %d",
					report.MonthName(target.Month), target.Year))
			}
			return fiber.NewError(fiber.StatusInternalServerError, "Error updating target")
		}

		_ = audit.WriteLog(audit.LogOptions{
			UserID:      user.ID,
			UserName:    user.Username,
			EntityType:  "target",
			EntityID:    target.ID,
			Action:      models.AuditActionUpdate,
			Description: fmt.Sprintf("Updated target %d", target.ID),
			Before:      before,
			After:       target,
		})

		return c.JSON(fiber.Map{"message": "Target updated successfully"})
	}
}

func DeleteTargetHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := c.ParamsInt("id")
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid target id")
		}

		var target models.Target
		if err := database.DB.First(&target, id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Target not found")
		}

		user, err := auth.CurrentUser(c)
		if err != nil {
			return err
		}

		if err := database.DB.Delete(&target).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Error deleting target")
		}

		_ = audit.WriteLog(audit.LogOptions{
			UserID:      user.ID,
			UserName:    user.Username,
			EntityType:  "target",
			EntityID:    target.ID,
			Action:      models.AuditActionDelete,
			Description: fmt.Sprintf("Deleted target %d", target.ID),
			Before:      target,
		})

		return c.JSON(fiber.Map{"message": "Target deleted successfully"})
	}
}

// ----------------------------------------
// Queries
// ----------------------------------------

func ListTargetsHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var targets []models.Target
		if err := withResponseAssociations(database.DB).Find(&targets).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not list targets")
		}
		return c.JSON(toResponses(targets))
	}
}

func GetTargetHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")

		var target models.Target
		if err := withResponseAssociations(database.DB).First(&target, "targets.id = ?", id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Target not found with id: "+id)
		}
		return c.JSON(report.ToTargetResponse(&target))
	}
}

// GetLatestTargetByBranchHandler keeps the legacy one-target-per-branch
// endpoint alive by returning the most recently created record.
func GetLatestTargetByBranchHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		branchID := c.Params("branchId")

		var target models.Target
		err := withResponseAssociations(database.DB).
			Where("branch_id = ?", branchID).
			Order("created_at DESC").
			First(&target).Error
		if err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Target not found for branch id: "+branchID)
		}
		return c.JSON(report.ToTargetResponse(&target))
	}
}

func GetTargetByBranchPeriodHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		branchID := c.Params("branchId")
		year, _ := c.ParamsInt("year")
		month, _ := c.ParamsInt("month")

		var target models.Target
		err := withResponseAssociations(database.DB).
			Where("branch_id = ? AND year = ? AND month = ?", branchID, year, month).
			First(&target).Error
		if err != nil {
			return fiber.NewError(fiber.StatusNotFound,
				fmt.Sprintf("Target not found for branch id: %s in %s %d", branchID, report.MonthName(month), year))
		}
		return c.JSON(report.ToTargetResponse(&target))
	}
}

func GetTargetsByBranchYearHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		branchID := c.Params("branchId")
		year, _ := c.ParamsInt("year")

		var targets []models.Target
		err := withResponseAssociations(database.DB).
			Where("branch_id = ? AND year = ?", branchID, year).
			Find(&targets).Error
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not list targets")
		}
		return c.JSON(toResponses(targets))
	}
}

func regionScope(db *gorm.DB, regionID string) *gorm.DB {
	return db.Joins("JOIN branches ON branches.id = targets.branch_id").
		Where("branches.region_id = ?", regionID)
}

func GetTargetsByRegionHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		regionID := c.Params("regionId")

		var targets []models.Target
		if err := regionScope(withResponseAssociations(database.DB), regionID).Find(&targets).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not list targets")
		}
		return c.JSON(toResponses(targets))
	}
}

func GetTargetsByRegionPeriodHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		regionID := c.Params("regionId")
		year, _ := c.ParamsInt("year")
		month, _ := c.ParamsInt("month")

		var targets []models.Target
		err := regionScope(withResponseAssociations(database.DB), regionID).
			Where("targets.year = ? AND targets.month = ?", year, month).
			Find(&targets).Error
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not list targets")
		}
		return c.JSON(toResponses(targets))
	}
}

func GetTargetsByYearHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		year, _ := c.ParamsInt("year")

		var targets []models.Target
		if err := withResponseAssociations(database.DB).Where("year = ?", year).Find(&targets).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not list targets")
		}
		return c.JSON(toResponses(targets))
	}
}

func GetTargetsByPeriodHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		year, _ := c.ParamsInt("year")
		month, _ := c.ParamsInt("month")

		var targets []models.Target
		err := withResponseAssociations(database.DB).
			Where("year = ? AND month = ?", year, month).
			Find(&targets).Error
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not list targets")
		}
		return c.JSON(toResponses(targets))
	}
}

func GetTargetsByMinimumAmountHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		minimum, err := decimal.NewFromString(c.Params("amount"))
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid minimum amount")
		}

		var targets []models.Target
		if err := withResponseAssociations(database.DB).Where("amount >= ?", minimum).Find(&targets).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not list targets")
		}
		return c.JSON(toResponses(targets))
	}
}

func GetRegionTotalHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		regionID := c.Params("regionId")
		year, _ := c.ParamsInt("year")
		month, _ := c.ParamsInt("month")

		var total decimal.NullDecimal
		err := database.DB.Model(&models.Target{}).
			Select("SUM(targets.amount)").
			Joins("JOIN branches ON branches.id = targets.branch_id").
			Where("branches.region_id = ? AND targets.year = ? AND targets.month = ?", regionID, year, month).
			Scan(&total).Error
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not compute total")
		}

		if !total.Valid {
			return c.JSON(decimal.Zero)
		}
		return c.JSON(total.Decimal)
	}
}

// GetRegionAllTimeTotalHandler sums target amounts for a region across every
// period. Zero when the region has no targets at all.
func GetRegionAllTimeTotalHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		regionID := c.Params("regionId")

		var total decimal.NullDecimal
		err := database.DB.Model(&models.Target{}).
			Select("SUM(targets.amount)").
			Joins("JOIN branches ON branches.id = targets.branch_id").
			Where("branches.region_id = ?", regionID).
			Scan(&total).Error
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not compute total")
		}

		if !total.Valid {
			return c.JSON(decimal.Zero)
		}
		return c.JSON(total.Decimal)
	}
}

// ----------------------------------------
// Summaries
// ----------------------------------------

func MonthlySummaryHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		year, _ := c.ParamsInt("year")
		month, _ := c.ParamsInt("month")

		var targets []models.Target
		err := withResponseAssociations(database.DB).
			Where("year = ? AND month = ?", year, month).
			Find(&targets).Error
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not load targets")
		}
		return c.JSON(report.MonthlyTargetSummaryOf(year, month, targets))
	}
}

func MonthlySummaryByRegionHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		regionID := c.Params("regionId")
		year, _ := c.ParamsInt("year")
		month, _ := c.ParamsInt("month")

		var targets []models.Target
		err := regionScope(withResponseAssociations(database.DB), regionID).
			Where("targets.year = ? AND targets.month = ?", year, month).
			Find(&targets).Error
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not load targets")
		}
		return c.JSON(report.MonthlyTargetSummaryOf(year, month, targets))
	}
}

func YearlySummaryHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		year, _ := c.ParamsInt("year")

		var targets []models.Target
		if err := withResponseAssociations(database.DB).Where("year = ?", year).Find(&targets).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not load targets")
		}
		return c.JSON(report.YearlyTargetSummaryOf(year, targets))
	}
}

func YearlySummaryByRegionHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		regionID := c.Params("regionId")
		year, _ := c.ParamsInt("year")

		var targets []models.Target
		err := regionScope(withResponseAssociations(database.DB), regionID).
			Where("targets.year = ?", year).
			Find(&targets).Error
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not load targets")
		}
		return c.JSON(report.YearlyTargetSummaryOf(year, targets))
	}
}
