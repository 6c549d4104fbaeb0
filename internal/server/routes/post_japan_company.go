package routes

import (
	"net/http"

	"github.com/tomei-lab/tomei/internal/server/middleware"
	"github.com/tomei-lab/tomei/pkg/common"

	"github.com/labstack/echo/v4"
)

// JapanCompanyHandler fetches the Japanese registry, website, and
// financial data for a company without running the full merge.
func JapanCompanyHandler(c echo.Context) error {
	type japanCompanyBody struct {
		Company string `json:"company" validate:"required"`
		Website string `json:"website" validate:"omitempty,url"`
	}

	type japanCompanyResponse struct {
		Message string              `json:"message"`
		Result  *common.JapanRecord `json:"result,omitempty"`
	}

	data := new(japanCompanyBody)
	if err := c.Bind(data); err != nil {
		return c.JSON(http.StatusBadRequest, japanCompanyResponse{
			Message: "Invalid request body",
		})
	}
	if err := c.Validate(data); err != nil {
		return c.JSON(http.StatusBadRequest, japanCompanyResponse{
			Message: "Invalid request body",
		})
	}

	app := c.(*middleware.AppContext).App
	result := app.Pipeline.AnalyzeJapaneseCompany(c.Request().Context(), data.Company, data.Website)

	return c.JSON(http.StatusOK, japanCompanyResponse{
		Message: "Japanese company analysis completed successfully",
		Result:  result,
	})
}
