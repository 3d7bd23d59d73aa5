package branch

import (
	"strings"

	"salesreport-backend/internal/audit"
	"salesreport-backend/internal/auth"
	"salesreport-backend/internal/database"
	"salesreport-backend/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
)

type SaveBranchRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Region      string `json:"region"` // region name, matched case-insensitively
}

type RegionInfo struct {
	ID          uint   `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

type TargetInfo struct {
	ID              uint            `json:"id"`
	Target          decimal.Decimal `json:"target"`
	Year            int             `json:"year"`
	Month           int             `json:"month"`
	CreatedDatetime string          `json:"createdDatetime"`
}

type CollectionInfo struct {
	ID               uint            `json:"id"`
	Target           decimal.Decimal `json:"target"`
	Due              decimal.Decimal `json:"due"`
	CollectionAmount decimal.Decimal `json:"collectionAmount"`
	Percentage       decimal.Decimal `json:"percentage"`
	Year             int             `json:"year"`
	Month            int             `json:"month"`
	CreatedDatetime  string          `json:"createdDatetime"`
}

type BranchResponse struct {
	ID          uint            `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Region      RegionInfo      `json:"region"`
	Target      *TargetInfo     `json:"target,omitempty"`
	Collection  *CollectionInfo `json:"collection,omitempty"`
}

type BranchSummaryResponse struct {
	ID            uint   `json:"id"`
	Name          string `json:"name"`
	Description   string `json:"description"`
	RegionName    string `json:"regionName"`
	HasTarget     bool   `json:"hasTarget"`
	HasCollection bool   `json:"hasCollection"`
}

const timeFormat = "2006-01-02 15:04:05"

// buildBranchResponse projects a branch (Region preloaded) and its most
// recent target/collection records into the response DTO. Nil records leave
// the optional sections out.
func buildBranchResponse(b *models.Branch, target *models.Target, collection *models.Collection) BranchResponse {
	resp := BranchResponse{
		ID:          b.ID,
		Name:        b.Name,
		Description: b.Description,
		Region: RegionInfo{
			ID:          b.Region.ID,
			Name:        b.Region.Name,
			Description: b.Region.Description,
		},
	}

	if target != nil {
		resp.Target = &TargetInfo{
			ID:              target.ID,
			Target:          target.Amount,
			Year:            target.Year,
			Month:           target.Month,
			CreatedDatetime: target.CreatedAt.Format(timeFormat),
		}
	}
	if collection != nil {
		resp.Collection = &CollectionInfo{
			ID:               collection.ID,
			Target:           collection.Target,
			Due:              collection.Due,
			CollectionAmount: collection.CollectionAmount,
			Percentage:       collection.Percentage,
			Year:             collection.Year,
			Month:            collection.Month,
			CreatedDatetime:  collection.CreatedAt.Format(timeFormat),
		}
	}

	return resp
}

func latestTarget(branchID uint) *models.Target {
	var target models.Target
	if err := database.DB.Where("branch_id = ?", branchID).Order("created_at DESC").First(&target).Error; err != nil {
		return nil
	}
	return &target
}

func latestCollection(branchID uint) *models.Collection {
	var collection models.Collection
	if err := database.DB.Where("branch_id = ?", branchID).Order("created_at DESC").First(&collection).Error; err != nil {
		return nil
	}
	return &collection
}

func toBranchResponses(branches []models.Branch) []BranchResponse {
	res := make([]BranchResponse, 0, len(branches))
	for i := range branches {
		b := &branches[i]
		res = append(res, buildBranchResponse(b, latestTarget(b.ID), latestCollection(b.ID)))
	}
	return res
}

func CreateBranchHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body SaveBranchRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}

		body.Name = strings.ToUpper(strings.TrimSpace(body.Name))
		if body.Name == "" {
			return fiber.NewError(fiber.StatusBadRequest, "Branch name cannot be empty")
		}
		if strings.TrimSpace(body.Description) == "" {
			return fiber.NewError(fiber.StatusBadRequest, "Branch description cannot be empty")
		}
		regionName := strings.ToUpper(strings.TrimSpace(body.Region))
		if regionName == "" {
			return fiber.NewError(fiber.StatusBadRequest, "Region cannot be empty")
		}

		var count int64
		database.DB.Model(&models.Branch{}).Where("name = ?", body.Name).Count(&count)
		if count > 0 {
			return fiber.NewError(fiber.StatusConflict, "Branch already exists")
		}

		var region models.Region
		if err := database.DB.Where("name = ?", regionName).First(&region).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Region with name "+regionName+" does not exist")
		}

		user, err := auth.CurrentUser(c)
		if err != nil {
			return err
		}

		branch := models.Branch{
			Name:        body.Name,
			Description: body.Description,
			RegionID:    region.ID,
		}
		if err := database.DB.Create(&branch).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Error saving branch")
		}

		_ = audit.WriteLog(audit.LogOptions{
			UserID:      user.ID,
			UserName:    user.Username,
			EntityType:  "branch",
			EntityID:    branch.ID,
			Action:      models.AuditActionCreate,
			Description: "Created branch " + branch.Name + " in region " + region.Name,
			After:       branch,
		})

		return c.Status(fiber.StatusCreated).JSON(fiber.Map{"message": "Branch saved successfully"})
	}
}

func ListBranchesHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var branches []models.Branch
		if err := database.DB.Preload("Region").Find(&branches).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not list branches")
		}
		return c.JSON(branches)
	}
}

func BranchSummariesHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var branches []models.Branch
		if err := database.DB.Preload("Region").Find(&branches).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not list branches")
		}

		res := make([]BranchSummaryResponse, 0, len(branches))
		for _, b := range branches {
			var targetCount, collectionCount int64
			database.DB.Model(&models.Target{}).Where("branch_id = ?", b.ID).Count(&targetCount)
			database.DB.Model(&models.Collection{}).Where("branch_id = ?", b.ID).Count(&collectionCount)
			res = append(res, BranchSummaryResponse{
				ID:            b.ID,
				Name:          b.Name,
				Description:   b.Description,
				RegionName:    b.Region.Name,
				HasTarget:     targetCount > 0,
				HasCollection: collectionCount > 0,
			})
		}
		return c.JSON(res)
	}
}

// ListBranchResponsesHandler lists every branch as a full response DTO with
// region and latest target/collection info, unlike the raw listing in /all.
func ListBranchResponsesHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var branches []models.Branch
		if err := database.DB.Preload("Region").Find(&branches).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not list branches")
		}
		return c.JSON(toBranchResponses(branches))
	}
}

// GetBranchHandler returns the branch with its region and, when present, the
// most recent target and collection records.
func GetBranchHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")

		var branch models.Branch
		if err := database.DB.Preload("Region").First(&branch, "id = ?", id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Branch not found")
		}

		return c.JSON(buildBranchResponse(&branch, latestTarget(branch.ID), latestCollection(branch.ID)))
	}
}

func BranchesByRegionHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		regionID := c.Params("regionId")

		var region models.Region
		if err := database.DB.First(&region, "id = ?", regionID).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Region not found")
		}

		var branches []models.Branch
		if err := database.DB.Preload("Region").Where("region_id = ?", region.ID).Find(&branches).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not list branches")
		}
		return c.JSON(toBranchResponses(branches))
	}
}

func DeleteBranchHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")

		var branch models.Branch
		if err := database.DB.First(&branch, "id = ?", id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Branch not found")
		}

		user, err := auth.CurrentUser(c)
		if err != nil {
			return err
		}

		if err := database.DB.Delete(&branch).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Error deleting branch")
		}

		_ = audit.WriteLog(audit.LogOptions{
			UserID:      user.ID,
			UserName:    user.Username,
			EntityType:  "branch",
			EntityID:    branch.ID,
			Action:      models.AuditActionDelete,
			Description: "Deleted branch " + branch.Name,
			Before:      branch,
		})

		return c.JSON(fiber.Map{"message": "Branch deleted successfully"})
	}
}
