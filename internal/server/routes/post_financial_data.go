package routes

import (
	"net/http"

	"github.com/tomei-lab/tomei/internal/server/middleware"
	"github.com/tomei-lab/tomei/pkg/common"
	"github.com/tomei-lab/tomei/pkg/logger"

	"github.com/labstack/echo/v4"
)

// FinancialDataHandler looks up financial figures for a company,
// optionally narrowed by its 13-digit corporate number.
func FinancialDataHandler(c echo.Context) error {
	type financialDataBody struct {
		Company         string `json:"company" validate:"required"`
		CorporateNumber string `json:"corporate_number" validate:"omitempty,len=13,numeric"`
	}

	type financialDataResponse struct {
		Message string                  `json:"message"`
		Result  *common.FinancialRecord `json:"result,omitempty"`
	}

	data := new(financialDataBody)
	if err := c.Bind(data); err != nil {
		return c.JSON(http.StatusBadRequest, financialDataResponse{
			Message: "Invalid request body",
		})
	}
	if err := c.Validate(data); err != nil {
		return c.JSON(http.StatusBadRequest, financialDataResponse{
			Message: "Invalid request body",
		})
	}

	app := c.(*middleware.AppContext).App
	result, err := app.Pipeline.GetFinancialData(c.Request().Context(), data.Company, data.CorporateNumber)
	if err != nil {
		logger.Debug("Financial data lookup failed", "company", data.Company, "err", err)
		return c.JSON(http.StatusNotFound, financialDataResponse{
			Message: "No financial data found",
		})
	}

	return c.JSON(http.StatusOK, financialDataResponse{
		Message: "Financial data retrieved successfully",
		Result:  result,
	})
}
