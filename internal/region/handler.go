package region

import (
	"strings"

	"salesreport-backend/internal/audit"
	"salesreport-backend/internal/auth"
	"salesreport-backend/internal/database"
	"salesreport-backend/internal/models"

	"github.com/gofiber/fiber/v2"
)

type SaveRegionRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

type UpdateDescriptionRequest struct {
	Description string `json:"description"`
}

type RegionSummary struct {
	ID            uint   `json:"id"`
	Name          string `json:"name"`
	Description   string `json:"description"`
	TotalBranches int    `json:"totalBranches"`
}

type BranchSummary struct {
	ID            uint   `json:"id"`
	Name          string `json:"name"`
	Description   string `json:"description"`
	HasTarget     bool   `json:"hasTarget"`
	HasCollection bool   `json:"hasCollection"`
}

type RegionResponse struct {
	ID            uint            `json:"id"`
	Name          string          `json:"name"`
	Description   string          `json:"description"`
	TotalBranches int             `json:"totalBranches"`
	Branches      []BranchSummary `json:"branches"`
}

func CreateRegionHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body SaveRegionRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}

		body.Name = strings.ToUpper(strings.TrimSpace(body.Name))
		if body.Name == "" {
			return fiber.NewError(fiber.StatusBadRequest, "Region name cannot be empty")
		}
		if strings.TrimSpace(body.Description) == "" {
			return fiber.NewError(fiber.StatusBadRequest, "Region description cannot be empty")
		}
		if nameTaken(body.Name) {
			return fiber.NewError(fiber.StatusConflict, "Region already exists")
		}

		user, err := auth.CurrentUser(c)
		if err != nil {
			return err
		}

		region := models.Region{
			Name:        body.Name,
			Description: body.Description,
		}
		if err := database.DB.Create(&region).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Error saving region")
		}

		_ = audit.WriteLog(audit.LogOptions{
			UserID:      user.ID,
			UserName:    user.Username,
			EntityType:  "region",
			EntityID:    region.ID,
			Action:      models.AuditActionCreate,
			Description: "Created region " + region.Name,
			After:       region,
		})

		return c.Status(fiber.StatusCreated).JSON(fiber.Map{"message": "Region saved successfully"})
	}
}

func ListRegionsHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var regions []models.Region
		if err := database.DB.Find(&regions).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not list regions")
		}
		return c.JSON(regions)
	}
}

func RegionSummariesHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var regions []models.Region
		if err := database.DB.Find(&regions).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not list regions")
		}

		res := make([]RegionSummary, 0, len(regions))
		for _, r := range regions {
			var branchCount int64
			database.DB.Model(&models.Branch{}).Where("region_id = ?", r.ID).Count(&branchCount)
			res = append(res, RegionSummary{
				ID:            r.ID,
				Name:          r.Name,
				Description:   r.Description,
				TotalBranches: int(branchCount),
			})
		}
		return c.JSON(res)
	}
}

func GetRegionHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")

		var region models.Region
		if err := database.DB.First(&region, "id = ?", id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Region not found")
		}

		var branches []models.Branch
		database.DB.Where("region_id = ?", region.ID).Find(&branches)

		resp := RegionResponse{
			ID:            region.ID,
			Name:          region.Name,
			Description:   region.Description,
			TotalBranches: len(branches),
			Branches:      make([]BranchSummary, 0, len(branches)),
		}
		for _, b := range branches {
			var targetCount, collectionCount int64
			database.DB.Model(&models.Target{}).Where("branch_id = ?", b.ID).Count(&targetCount)
			database.DB.Model(&models.Collection{}).Where("branch_id = ?", b.ID).Count(&collectionCount)
			resp.Branches = append(resp.Branches, BranchSummary{
				ID:            b.ID,
				Name:          b.Name,
				Description:   b.Description,
				HasTarget:     targetCount > 0,
				HasCollection: collectionCount > 0,
			})
		}

		return c.JSON(resp)
	}
}

func UpdateRegionHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")

		var body SaveRegionRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}

		body.Name = strings.ToUpper(strings.TrimSpace(body.Name))
		if body.Name == "" {
			return fiber.NewError(fiber.StatusBadRequest, "Region name cannot be empty")
		}
		if strings.TrimSpace(body.Description) == "" {
			return fiber.NewError(fiber.StatusBadRequest, "Region description cannot be empty")
		}

		var region models.Region
		if err := database.DB.First(&region, "id = ?", id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Region not found")
		}

		if body.Name != region.Name && nameTaken(body.Name) {
			return fiber.NewError(fiber.StatusConflict, "Region already exists")
		}

		user, err := auth.CurrentUser(c)
		if err != nil {
			return err
		}

		before := region
		region.Name = body.Name
		region.Description = body.Description
		if err := database.DB.Save(&region).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Error updating region")
		}

		_ = audit.WriteLog(audit.LogOptions{
			UserID:      user.ID,
			UserName:    user.Username,
			EntityType:  "region",
			EntityID:    region.ID,
			Action:      models.AuditActionUpdate,
			Description: "Updated region " + region.Name,
			Before:      before,
			After:       region,
		})

		return c.JSON(fiber.Map{"message": "Region updated successfully"})
	}
}

func UpdateRegionDescriptionHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")

		var body UpdateDescriptionRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}
		if strings.TrimSpace(body.Description) == "" {
			return fiber.NewError(fiber.StatusBadRequest, "Region description cannot be empty")
		}

		var region models.Region
		if err := database.DB.First(&region, "id = ?", id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Region not found")
		}

		user, err := auth.CurrentUser(c)
		if err != nil {
			return err
		}

		before := region
		region.Description = body.Description
		if err := database.DB.Save(&region).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Error updating region description")
		}

		_ = audit.WriteLog(audit.LogOptions{
			UserID:      user.ID,
			UserName:    user.Username,
			EntityType:  "region",
			EntityID:    region.ID,
			Action:      models.AuditActionUpdate,
			Description: "Updated description of region " + region.Name,
			Before:      before,
			After:       region,
		})

		return c.JSON(fiber.Map{"message": "Region description updated successfully"})
	}
}

// DeleteRegionHandler hard-deletes the region; branches under it go with it
// via the FK cascade.
func DeleteRegionHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")

		var region models.Region
		if err := database.DB.First(&region, "id = ?", id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Region not found")
		}

		user, err := auth.CurrentUser(c)
		if err != nil {
			return err
		}

		if err := database.DB.Delete(&region).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Error deleting region")
		}

		_ = audit.WriteLog(audit.LogOptions{
			UserID:      user.ID,
			UserName:    user.Username,
			EntityType:  "region",
			EntityID:    region.ID,
			Action:      models.AuditActionDelete,
			Description: "Deleted region " + region.Name,
			Before:      region,
		})

		return c.JSON(fiber.Map{"message": "Region deleted successfully"})
	}
}

func nameTaken(name string) bool {
	var count int64
	database.DB.Model(&models.Region{}).Where("name = ?", name).Count(&count)
	return count > 0
}
