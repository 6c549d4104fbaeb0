package server

import (
	"github.com/tomei-lab/tomei/internal/server/middleware"
	"github.com/tomei-lab/tomei/internal/server/routes"

	"github.com/labstack/echo/v4"
)

func RegisterRoutes(e *echo.Echo) {
	// Health check route
	e.GET("/health", func(c echo.Context) error {
		return c.String(200, "OK")
	})

	apiRoutes := e.Group("/api", middleware.AuthMiddleware)

	// Analysis routes
	apiRoutes.POST("/analyze", routes.AnalyzeHandler)
	apiRoutes.POST("/analyze/async", routes.AnalyzeAsyncHandler)
	apiRoutes.POST("/basic-analysis", routes.BasicAnalysisHandler)
	apiRoutes.POST("/japan-company", routes.JapanCompanyHandler)
	apiRoutes.POST("/financial-data", routes.FinancialDataHandler)

	// Report routes
	apiRoutes.GET("/reports", routes.GetReportsHandler)
	apiRoutes.GET("/reports/:id", routes.GetReportHandler)
	apiRoutes.GET("/reports/:id/download", routes.GetReportDownloadLinkHandler)
}
