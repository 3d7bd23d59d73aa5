package collection

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

type SaveCollectionRequest struct {
	CollectionAmount decimal.Decimal `json:"collectionAmount"`
	BranchID         uint            `json:"branchId"`
	CollectionYear   int             `json:"collectionYear"`
	CollectionMonth  int             `json:"collectionMonth"`
}

type UpdateCollectionRequest struct {
	Target           decimal.Decimal `json:"target"`
	Due              decimal.Decimal `json:"due"`
	CollectionAmount decimal.Decimal `json:"collectionAmount"`
	CollectionYear   *int            `json:"collectionYear"`
	CollectionMonth  *int            `json:"collectionMonth"`
}

func collectionExists(branchID uint, year, month int) bool {
	var count int64
	database.DB.Model(&models.Collection{}).
		Where("branch_id = ? AND year = ? AND month = ?", branchID, year, month).
		Count(&count)
	return count > 0
}

func withResponseAssociations(db *gorm.DB) *gorm.DB {
	return db.Preload("Branch.Region").Preload("CreatedBy").Preload("ModifiedBy")
}

func toResponses(collections []models.Collection) []report.CollectionResponse {
	res := make([]report.CollectionResponse, 0, len(collections))
	for i := range collections {
		res = append(res, report.ToCollectionResponse(&collections[i]))
	}
	return res
}

func validPeriod(year, month int) error {
	if year < 2000 || year > 2100 {
		return fiber.NewError(fiber.StatusBadRequest, "Collection year must be between 2000 and 2100")
	}
	if month < 1 || month > 12 {
		return fiber.NewError(fiber.StatusBadRequest, "Collection month must be between 1 and 12")
	}
	return nil
}

// CreateCollectionHandler records the actual collected amount for a branch
// and period. The matching Target must already exist; its amount is copied
// onto the record and due/percentage are derived from it.
func CreateCollectionHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body SaveCollectionRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}

		if body.CollectionAmount.IsNegative() {
			return fiber.NewError(fiber.StatusBadRequest, "Collection amount cannot be negative")
		}
		if body.BranchID == 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Branch ID cannot be null")
		}
		if err := validPeriod(body.CollectionYear, body.CollectionMonth); err != nil {
			return err
		}

		var branch models.Branch
		if err := database.DB.First(&branch, body.BranchID).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Branch not found")
		}

		var target models.Target
		err := database.DB.
			Where("branch_id = ? AND year = ? AND month = ?", body.BranchID, body.CollectionYear, body.CollectionMonth).
			First(&target).Error
		if err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Target not found for this branch, year and month")
		}

		if err := ingest.EnsureNoDuplicate(collectionExists, body.BranchID, body.CollectionYear, body.CollectionMonth); err != nil {
			return fiber.NewError(fiber.StatusConflict, fmt.Sprintf("Collection already exists for this branch in %s %d",
				report.MonthName(body.CollectionMonth), body.CollectionYear))
		}

		user, err := auth.CurrentUser(c)
		if err != nil {
			return err
		}

		collection := models.Collection{
			Target:           target.Amount,
			Due:              target.Amount.Sub(body.CollectionAmount),
			CollectionAmount: body.CollectionAmount,
			Percentage:       report.Percentage(body.CollectionAmount, target.Amount),
			Year:             body.CollectionYear,
			Month:            body.CollectionMonth,
			BranchID:         branch.ID,
			CreatedByID:      user.ID,
		}
		if err := database.DB.Create(&collection).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return fiber.NewError(fiber.StatusConflict, fmt.Sprintf("Collection already exists for this branch in %s %d",
					report.MonthName(body.CollectionMonth), body.CollectionYear))
			}
			return fiber.NewError(fiber.StatusInternalServerError, "Error saving collection")
		}

		_ = audit.WriteLog(audit.LogOptions{
			UserID:      user.ID,
			UserName:    user.Username,
			EntityType:  "collection",
			EntityID:    collection.ID,
			Action:      models.AuditActionCreate,
			Description: fmt.Sprintf("Created collection for %s %s %d", branch.Name, report.MonthName(collection.Month), collection.Year),
			After:       collection,
		})

		return c.Status(fiber.StatusCreated).JSON(fiber.Map{"message": "Collection saved successfully"})
	}
}

func UpdateCollectionHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := c.ParamsInt("id")
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid collection id")
		}

		var body UpdateCollectionRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}

		if !body.Target.IsPositive() {
			return fiber.NewError(fiber.StatusBadRequest, "Target amount must be greater than zero")
		}
		if body.Due.IsNegative() {
			return fiber.NewError(fiber.StatusBadRequest, "Due amount cannot be negative")
		}
		if body.CollectionAmount.IsNegative() {
			return fiber.NewError(fiber.StatusBadRequest, "Collection amount cannot be negative")
		}
		if body.CollectionYear != nil && (*body.CollectionYear < 2000 || *body.CollectionYear > 2100) {
			return fiber.NewError(fiber.StatusBadRequest, "Collection year must be between 2000 and 2100")
		}
		if body.CollectionMonth != nil && (*body.CollectionMonth < 1 || *body.CollectionMonth > 12) {
			return fiber.NewError(fiber.StatusBadRequest, "Collection month must be between 1 and 12")
		}

		var collection models.Collection
		if err := database.DB.First(&collection, id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Collection not found")
		}

		user, err := auth.CurrentUser(c)
		if err != nil {
			return err
		}

		before := collection
		collection.Target = body.Target
		collection.Due = body.Due
		collection.CollectionAmount = body.CollectionAmount
		collection.Percentage = report.Percentage(body.CollectionAmount, body.Target)
		if body.CollectionYear != nil {
			collection.Year = *body.CollectionYear
		}
		if body.CollectionMonth != nil {
			collection.Month = *body.CollectionMonth
		}
		collection.ModifiedByID = &user.ID

		if err := database.DB.Save(&collection).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return fiber.NewError(fiber.StatusConflict, fmt.Sprintf("Collection already exists for this branch in %s %d",
					report.MonthName(collection.Month), collection.Year))
			}
			return fiber.NewError(fiber.StatusInternalServerError, "Error updating collection")
		}

		_ = audit.WriteLog(audit.LogOptions{
			UserID:      user.ID,
			UserName:    user.Username,
			EntityType:  "collection",
			EntityID:    collection.ID,
			Action:      models.AuditActionUpdate,
			Description: fmt.Sprintf("Updated collection %d", collection.ID),
			Before:      before,
			After:       collection,
		})

		return c.JSON(fiber.Map{"message": "Collection updated successfully"})
	}
}

func DeleteCollectionHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := c.ParamsInt("id")
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid collection id")
		}

		var collection models.Collection
		if err := database.DB.First(&collection, id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Collection not found")
		}

		user, err := auth.CurrentUser(c)
		if err != nil {
			return err
		}

		if err := database.DB.Delete(&collection).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Error deleting collection")
		}

		_ = audit.WriteLog(audit.LogOptions{
			UserID:      user.ID,
			UserName:    user.Username,
			EntityType:  "collection",
			EntityID:    collection.ID,
			Action:      models.AuditActionDelete,
			Description: fmt.Sprintf("Deleted collection %d", collection.ID),
			Before:      collection,
		})

		return c.JSON(fiber.Map{"message": "Collection deleted successfully"})
	}
}

// ----------------------------------------
// Queries
// ----------------------------------------

func ListCollectionsHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var collections []models.Collection
		if err := withResponseAssociations(database.DB).Find(&collections).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not list collections")
		}
		return c.JSON(toResponses(collections))
	}
}

func GetCollectionHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")

		var collection models.Collection
		if err := withResponseAssociations(database.DB).First(&collection, "collections.id = ?", id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Collection not found with id: "+id)
		}
		return c.JSON(report.ToCollectionResponse(&collection))
	}
}

func GetLatestCollectionByBranchHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		branchID := c.Params("branchId")

		var collection models.Collection
		err := withResponseAssociations(database.DB).
			Where("branch_id = ?", branchID).
			Order("created_at DESC").
			First(&collection).Error
		if err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Collection not found for branch id: "+branchID)
		}
		return c.JSON(report.ToCollectionResponse(&collection))
	}
}

func GetCollectionByBranchPeriodHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		branchID := c.Params("branchId")
		year, _ := c.ParamsInt("year")
		month, _ := c.ParamsInt("month")

		var collection models.Collection
		err := withResponseAssociations(database.DB).
			Where("branch_id = ? AND year = ? AND month = ?", branchID, year, month).
			First(&collection).Error
		if err != nil {
			return fiber.NewError(fiber.StatusNotFound,
				fmt.Sprintf("Collection not found for branch id: %s in %s %d", branchID, report.MonthName(month), year))
		}
		return c.JSON(report.ToCollectionResponse(&collection))
	}
}

func GetCollectionsByBranchYearHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		branchID := c.Params("branchId")
		year, _ := c.ParamsInt("year")

		var collections []models.Collection
		err := withResponseAssociations(database.DB).
			Where("branch_id = ? AND year = ?", branchID, year).
			Find(&collections).Error
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not list collections")
		}
		return c.JSON(toResponses(collections))
	}
}

func regionScope(db *gorm.DB, regionID string) *gorm.DB {
	return db.Joins("JOIN branches ON branches.id = collections.branch_id").
		Where("branches.region_id = ?", regionID)
}

func GetCollectionsByRegionHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		regionID := c.Params("regionId")

		var collections []models.Collection
		if err := regionScope(withResponseAssociations(database.DB), regionID).Find(&collections).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not list collections")
		}
		return c.JSON(toResponses(collections))
	}
}

func GetCollectionsByRegionPeriodHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		regionID := c.Params("regionId")
		year, _ := c.ParamsInt("year")
		month, _ := c.ParamsInt("month")

		var collections []models.Collection
		err := regionScope(withResponseAssociations(database.DB), regionID).
			Where("collections.year = ? AND collections.month = ?", year, month).
			Find(&collections).Error
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not list collections")
		}
		return c.JSON(toResponses(collections))
	}
}

func GetCollectionsByRegionYearHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		regionID := c.Params("regionId")
		year, _ := c.ParamsInt("year")

		var collections []models.Collection
		err := regionScope(withResponseAssociations(database.DB), regionID).
			Where("collections.year = ?", year).
			Find(&collections).Error
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not list collections")
		}
		return c.JSON(toResponses(collections))
	}
}

func GetCollectionsByYearHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		year, _ := c.ParamsInt("year")

		var collections []models.Collection
		if err := withResponseAssociations(database.DB).Where("year = ?", year).Find(&collections).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not list collections")
		}
		return c.JSON(toResponses(collections))
	}
}

func GetCollectionsByPeriodHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		year, _ := c.ParamsInt("year")
		month, _ := c.ParamsInt("month")

		var collections []models.Collection
		err := withResponseAssociations(database.DB).
			Where("year = ? AND month = ?", year, month).
			Find(&collections).Error
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not list collections")
		}
		return c.JSON(toResponses(collections))
	}
}

func GetCollectionsByPercentageThresholdHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		threshold, err := decimal.NewFromString(c.Params("threshold"))
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid percentage threshold")
		}

		var collections []models.Collection
		if err := withResponseAssociations(database.DB).Where("percentage >= ?", threshold).Find(&collections).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not list collections")
		}
		return c.JSON(toResponses(collections))
	}
}

func GetRegionTotalHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		regionID := c.Params("regionId")
		year, _ := c.ParamsInt("year")
		month, _ := c.ParamsInt("month")

		var total decimal.NullDecimal
		err := database.DB.Model(&models.Collection{}).
			Select("SUM(collections.collection)").
			Joins("JOIN branches ON branches.id = collections.branch_id").
			Where("branches.region_id = ? AND collections.year = ? AND collections.month = ?", regionID, year, month).
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

		var collections []models.Collection
		err := withResponseAssociations(database.DB).
			Where("year = ? AND month = ?", year, month).
			Find(&collections).Error
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not load collections")
		}
		return c.JSON(report.MonthlyCollectionSummaryOf(year, month, collections))
	}
}

func MonthlySummaryByRegionHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		regionID := c.Params("regionId")
		year, _ := c.ParamsInt("year")
		month, _ := c.ParamsInt("month")

		var collections []models.Collection
		err := regionScope(withResponseAssociations(database.DB), regionID).
			Where("collections.year = ? AND collections.month = ?", year, month).
			Find(&collections).Error
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not load collections")
		}
		return c.JSON(report.MonthlyCollectionSummaryOf(year, month, collections))
	}
}

func YearlySummaryHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		year, _ := c.ParamsInt("year")

		var collections []models.Collection
		if err := withResponseAssociations(database.DB).Where("year = ?", year).Find(&collections).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not load collections")
		}
		return c.JSON(report.YearlyCollectionSummaryOf(year, collections))
	}
}

func YearlySummaryByRegionHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		regionID := c.Params("regionId")
		year, _ := c.ParamsInt("year")

		var collections []models.Collection
		err := regionScope(withResponseAssociations(database.DB), regionID).
			Where("collections.year = ?", year).
			Find(&collections).Error
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not load collections")
		}
		return c.JSON(report.YearlyCollectionSummaryOf(year, collections))
	}
}
