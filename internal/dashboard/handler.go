package dashboard

import (
	"salesreport-backend/internal/database"
	"salesreport-backend/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
)

type ChartData struct {
	BranchName  string          `json:"branchName"`
	Target      decimal.Decimal `json:"target"`
	Collection  decimal.Decimal `json:"collection"`
	Achievement decimal.Decimal `json:"achievement"`
}

// Achievement mirrors the summary percentage but keeps the intermediate
// ratio at four places before scaling to a percent.
func achievement(collection, target decimal.Decimal) decimal.Decimal {
	if !target.IsPositive() {
		return decimal.Zero
	}
	return collection.DivRound(target, 4).Mul(decimal.NewFromInt(100))
}

// GET /api/dashboard?year=
// One chart row per branch: yearly target and collection totals plus the
// achievement percentage. Branches without data appear with zeros.
func ChartDataHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		year := c.QueryInt("year")
		if year < 2000 || year > 2100 {
			return fiber.NewError(fiber.StatusBadRequest, "Year must be between 2000 and 2100")
		}

		var branches []models.Branch
		if err := database.DB.Find(&branches).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not list branches")
		}

		res := make([]ChartData, 0, len(branches))
		for _, b := range branches {
			var totalTarget, totalCollection decimal.NullDecimal

			database.DB.Model(&models.Target{}).
				Select("SUM(amount)").
				Where("branch_id = ? AND year = ?", b.ID, year).
				Scan(&totalTarget)
			database.DB.Model(&models.Collection{}).
				Select("SUM(collection)").
				Where("branch_id = ? AND year = ?", b.ID, year).
				Scan(&totalCollection)

			target := decimal.Zero
			if totalTarget.Valid {
				target = totalTarget.Decimal
			}
			collection := decimal.Zero
			if totalCollection.Valid {
				collection = totalCollection.Decimal
			}

			res = append(res, ChartData{
				BranchName:  b.Name,
				Target:      target,
				Collection:  collection,
				Achievement: achievement(collection, target),
			})
		}

		return c.JSON(res)
	}
}
