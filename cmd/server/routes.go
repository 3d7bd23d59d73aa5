package main

import (
	"salesreport-backend/internal/audit"
	"salesreport-backend/internal/auth"
	"salesreport-backend/internal/branch"
	"salesreport-backend/internal/collection"
	"salesreport-backend/internal/config"
	"salesreport-backend/internal/dashboard"
	"salesreport-backend/internal/models"
	"salesreport-backend/internal/region"
	"salesreport-backend/internal/target"

	"github.com/gofiber/fiber/v2"
)

func registerRoutes(app *fiber.App, cfg *config.Config) {
	api := app.Group("/api/v1")

	// Public auth
	api.Post("/auth/login", auth.LoginHandler(cfg))
	api.Post("/auth/register", auth.RegisterHandler())

	// Protected
	protected := api.Group("")
	protected.Use(auth.JWTMiddleware(cfg))

	protected.Get("/auth/current-user", auth.CurrentUserHandler())

	// User management (ADMIN)
	userAdmin := protected.Group("/auth/admin")
	userAdmin.Use(auth.RequireRole(models.RoleAdmin))
	userAdmin.Get("/users", auth.ListUsersHandler())
	userAdmin.Post("/create-admin", auth.CreateAdminHandler())
	userAdmin.Post("/create-user", auth.CreateBranchUserHandler())
	userAdmin.Delete("/delete-user/:userId", auth.DeleteUserHandler())
	userAdmin.Put("/update-role/:userId", auth.UpdateUserRoleHandler())

	// Regions
	regions := protected.Group("/regions")
	regions.Get("/all", region.ListRegionsHandler())
	regions.Get("/summaries", region.RegionSummariesHandler())
	regions.Get("/response/:id", region.GetRegionHandler())
	regions.Post("/create", auth.RequireRole(models.RoleAdmin), region.CreateRegionHandler())
	regions.Put("/update/:id", auth.RequireRole(models.RoleAdmin), region.UpdateRegionHandler())
	regions.Put("/updateRegionDescription/:id", auth.RequireRole(models.RoleAdmin), region.UpdateRegionDescriptionHandler())
	regions.Delete("/delete/:id", auth.RequireRole(models.RoleAdmin), region.DeleteRegionHandler())

	// Branches
	branches := protected.Group("/branches")
	branches.Get("/all", branch.ListBranchesHandler())
	branches.Get("/responses", branch.ListBranchResponsesHandler())
	branches.Get("/summaries", branch.BranchSummariesHandler())
	branches.Get("/:id/response", branch.GetBranchHandler())
	branches.Get("/region/:regionId/responses", branch.BranchesByRegionHandler())
	branches.Post("/create", auth.RequireRole(models.RoleAdmin), branch.CreateBranchHandler())
	branches.Delete("/delete/:id", auth.RequireRole(models.RoleAdmin), branch.DeleteBranchHandler())

	// Targets
	targets := protected.Group("/targets")
	targets.Post("/create", target.CreateTargetHandler())
	targets.Post("/upload/:year/:month", target.UploadTargetsHandler())
	targets.Put("/update/:id", target.UpdateTargetHandler())
	targets.Delete("/delete/:id", auth.RequireRole(models.RoleAdmin), target.DeleteTargetHandler())
	targets.Get("/all", target.ListTargetsHandler())
	targets.Get("/targetById/:id", target.GetTargetHandler())
	targets.Get("/branch/:branchId/year/:year/month/:month", target.GetTargetByBranchPeriodHandler())
	targets.Get("/branch/:branchId/year/:year", target.GetTargetsByBranchYearHandler())
	targets.Get("/branch/:branchId", target.GetLatestTargetByBranchHandler())
	targets.Get("/region/:regionId/total/year/:year/month/:month", target.GetRegionTotalHandler())
	targets.Get("/region/:regionId/total", target.GetRegionAllTimeTotalHandler())
	targets.Get("/region/:regionId/year/:year/month/:month", target.GetTargetsByRegionPeriodHandler())
	targets.Get("/region/:regionId", target.GetTargetsByRegionHandler())
	targets.Get("/minimum/:amount", target.GetTargetsByMinimumAmountHandler())
	targets.Get("/year/:year/month/:month", target.GetTargetsByPeriodHandler())
	targets.Get("/year/:year", target.GetTargetsByYearHandler())
	targets.Get("/summary/monthly/year/:year/month/:month", target.MonthlySummaryHandler())
	targets.Get("/summary/monthly/region/:regionId/year/:year/month/:month", target.MonthlySummaryByRegionHandler())
	targets.Get("/summary/yearly/year/:year", target.YearlySummaryHandler())
	targets.Get("/summary/yearly/region/:regionId/year/:year", target.YearlySummaryByRegionHandler())

	// Collections
	collections := protected.Group("/collections")
	collections.Post("/create", collection.CreateCollectionHandler())
	collections.Post("/upload/update/:year/:month", collection.UploadCollectionUpdatesHandler())
	collections.Post("/upload/:year/:month", collection.UploadCollectionsHandler())
	collections.Put("/update/:id", collection.UpdateCollectionHandler())
	collections.Delete("/delete/:id", auth.RequireRole(models.RoleAdmin), collection.DeleteCollectionHandler())
	collections.Get("/all", collection.ListCollectionsHandler())
	collections.Get("/getCollectionById/:id", collection.GetCollectionHandler())
	collections.Get("/getCollectionByBranchId/:branchId", collection.GetLatestCollectionByBranchHandler())
	collections.Get("/branch/:branchId/year/:year/month/:month", collection.GetCollectionByBranchPeriodHandler())
	collections.Get("/branch/:branchId/year/:year", collection.GetCollectionsByBranchYearHandler())
	collections.Get("/region/:regionId/total/year/:year/month/:month", collection.GetRegionTotalHandler())
	collections.Get("/region/:regionId/year/:year/month/:month", collection.GetCollectionsByRegionPeriodHandler())
	collections.Get("/region/:regionId/year/:year", collection.GetCollectionsByRegionYearHandler())
	collections.Get("/getCollectionsByRegionId/:regionId", collection.GetCollectionsByRegionHandler())
	collections.Get("/getCollectionsByPercentageThreshold/:threshold", collection.GetCollectionsByPercentageThresholdHandler())
	collections.Get("/year/:year/month/:month", collection.GetCollectionsByPeriodHandler())
	collections.Get("/year/:year", collection.GetCollectionsByYearHandler())
	collections.Get("/summary/monthly/year/:year/month/:month", collection.MonthlySummaryHandler())
	collections.Get("/summary/monthly/region/:regionId/year/:year/month/:month", collection.MonthlySummaryByRegionHandler())
	collections.Get("/summary/yearly/year/:year", collection.YearlySummaryHandler())
	collections.Get("/summary/yearly/region/:regionId/year/:year", collection.YearlySummaryByRegionHandler())

	// Dashboard
	dash := app.Group("/api/dashboard")
	dash.Use(auth.JWTMiddleware(cfg))
	dash.Get("/", dashboard.ChartDataHandler())

	// Audit logs (ADMIN)
	logs := app.Group("/api/audit-logs")
	logs.Use(auth.JWTMiddleware(cfg), auth.RequireRole(models.RoleAdmin))
	logs.Get("/", audit.ListAuditLogsHandler())
}
