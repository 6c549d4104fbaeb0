package routes

import (
	"net/http"

	"github.com/tomei-lab/tomei/internal/server/middleware"
	"github.com/tomei-lab/tomei/internal/storage"
	"github.com/tomei-lab/tomei/pkg/logger"

	"github.com/labstack/echo/v4"
)

// GetReportsHandler lists stored reports, newest first.
func GetReportsHandler(c echo.Context) error {
	type getReportsResponse struct {
		Message string          `json:"message"`
		Reports []storage.Entry `json:"reports"`
	}

	app := c.(*middleware.AppContext).App
	entries, err := app.Store.List()
	if err != nil {
		logger.Error("Failed to list reports", "err", err)
		return c.JSON(http.StatusInternalServerError, getReportsResponse{
			Message: "Internal server error",
		})
	}

	return c.JSON(http.StatusOK, getReportsResponse{
		Message: "Reports listed successfully",
		Reports: entries,
	})
}

// GetReportHandler returns one stored report document by ID.
func GetReportHandler(c echo.Context) error {
	type getReportParams struct {
		ID string `param:"id" validate:"required"`
	}

	params := new(getReportParams)
	if err := c.Bind(params); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"message": "Invalid report id"})
	}
	if err := c.Validate(params); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"message": "Invalid report id"})
	}

	app := c.(*middleware.AppContext).App
	data, err := app.Store.Load(params.ID)
	if err != nil {
		return c.JSON(http.StatusNotFound, map[string]string{"message": "Report not found"})
	}

	return c.JSONBlob(http.StatusOK, data)
}

// GetReportDownloadLinkHandler presigns a download URL for an archived
// report. Only available when the S3 archive is configured.
func GetReportDownloadLinkHandler(c echo.Context) error {
	type getReportParams struct {
		ID string `param:"id" validate:"required"`
	}

	type downloadLinkResponse struct {
		Message string `json:"message"`
		URL     string `json:"url,omitempty"`
	}

	params := new(getReportParams)
	if err := c.Bind(params); err != nil {
		return c.JSON(http.StatusBadRequest, downloadLinkResponse{Message: "Invalid report id"})
	}
	if err := c.Validate(params); err != nil {
		return c.JSON(http.StatusBadRequest, downloadLinkResponse{Message: "Invalid report id"})
	}

	app := c.(*middleware.AppContext).App
	if app.Archive == nil {
		return c.JSON(http.StatusServiceUnavailable, downloadLinkResponse{
			Message: "Report archive is not configured",
		})
	}

	url, err := app.Archive.DownloadLink(c.Request().Context(), params.ID)
	if err != nil {
		logger.Error("Failed to presign report download", "id", params.ID, "err", err)
		return c.JSON(http.StatusInternalServerError, downloadLinkResponse{
			Message: "Internal server error",
		})
	}

	return c.JSON(http.StatusOK, downloadLinkResponse{
		Message: "Download link generated successfully",
		URL:     url,
	})
}
