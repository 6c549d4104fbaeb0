package routes

import (
	"net/http"

	"github.com/tomei-lab/tomei/internal/analysis"
	"github.com/tomei-lab/tomei/internal/server/middleware"
	"github.com/tomei-lab/tomei/pkg/logger"

	"github.com/labstack/echo/v4"
)

// BasicAnalysisHandler runs the EDGAR-only flow: every company name
// variant is searched and all hits are returned, without merging.
func BasicAnalysisHandler(c echo.Context) error {
	type basicAnalysisBody struct {
		Company string `json:"company" validate:"required"`
		Officer string `json:"officer"`
	}

	type basicAnalysisResponse struct {
		Message string                `json:"message"`
		Result  *analysis.BasicResult `json:"result,omitempty"`
	}

	data := new(basicAnalysisBody)
	if err := c.Bind(data); err != nil {
		return c.JSON(http.StatusBadRequest, basicAnalysisResponse{
			Message: "Invalid request body",
		})
	}
	if err := c.Validate(data); err != nil {
		return c.JSON(http.StatusBadRequest, basicAnalysisResponse{
			Message: "Invalid request body",
		})
	}

	app := c.(*middleware.AppContext).App
	result, err := app.Pipeline.RunBasic(c.Request().Context(), data.Company, data.Officer)
	if err != nil {
		logger.Error("Basic analysis failed", "company", data.Company, "err", err)
		return c.JSON(http.StatusInternalServerError, basicAnalysisResponse{
			Message: "Internal server error",
		})
	}

	return c.JSON(http.StatusOK, basicAnalysisResponse{
		Message: "Basic analysis completed successfully",
		Result:  result,
	})
}
