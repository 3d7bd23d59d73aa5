package main

import (
	"testing"

	"salesreport-backend/internal/config"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"
)

func testApp() *fiber.App {
	app := fiber.New()
	registerRoutes(app, &config.Config{JWTSecret: "0123456789abcdef0123456789abcdef"})
	return app
}

func routePaths(app *fiber.App, method string) []string {
	paths := make([]string, 0)
	for _, r := range app.GetRoutes(true) {
		if r.Method == method {
			paths = append(paths, r.Path)
		}
	}
	return paths
}

func TestRegionTotalRoutes(t *testing.T) {
	paths := routePaths(testApp(), fiber.MethodGet)

	// both the all-time and the period-scoped target totals
	require.Contains(t, paths, "/api/v1/targets/region/:regionId/total")
	require.Contains(t, paths, "/api/v1/targets/region/:regionId/total/year/:year/month/:month")
	require.Contains(t, paths, "/api/v1/collections/region/:regionId/total/year/:year/month/:month")
}

func TestBranchResponseRoutes(t *testing.T) {
	paths := routePaths(testApp(), fiber.MethodGet)

	require.Contains(t, paths, "/api/v1/branches/responses")
	require.Contains(t, paths, "/api/v1/branches/:id/response")
	require.Contains(t, paths, "/api/v1/branches/region/:regionId/responses")
}

// The literal upload/update segment must win over the parametrized upload
// route, so it has to be registered first.
func TestUploadUpdateRegisteredBeforeUpload(t *testing.T) {
	paths := routePaths(testApp(), fiber.MethodPost)

	updateIdx, uploadIdx := -1, -1
	for i, p := range paths {
		switch p {
		case "/api/v1/collections/upload/update/:year/:month":
			updateIdx = i
		case "/api/v1/collections/upload/:year/:month":
			uploadIdx = i
		}
	}

	require.NotEqual(t, -1, updateIdx)
	require.NotEqual(t, -1, uploadIdx)
	require.Less(t, updateIdx, uploadIdx)
}
