package routes

import (
	"encoding/json"
	"net/http"

	"github.com/tomei-lab/tomei/internal/analysis"
	"github.com/tomei-lab/tomei/internal/queue"
	"github.com/tomei-lab/tomei/internal/server/middleware"
	"github.com/tomei-lab/tomei/pkg/logger"
	"github.com/tomei-lab/tomei/pkg/report"

	"github.com/labstack/echo/v4"
	gonanoid "github.com/matoous/go-nanoid/v2"
)

// AnalyzeHandler runs the integrated analysis synchronously and returns
// the finished report.
func AnalyzeHandler(c echo.Context) error {
	type analyzeBody struct {
		Company string `json:"company" validate:"required"`
		Country string `json:"country" validate:"omitempty,oneof=US UK JP"`
		Officer string `json:"officer"`
		Website string `json:"website" validate:"omitempty,url"`
	}

	type analyzeResponse struct {
		Message string         `json:"message"`
		Report  *report.Report `json:"report,omitempty"`
	}

	data := new(analyzeBody)
	if err := c.Bind(data); err != nil {
		return c.JSON(http.StatusBadRequest, analyzeResponse{
			Message: "Invalid request body",
		})
	}
	if err := c.Validate(data); err != nil {
		return c.JSON(http.StatusBadRequest, analyzeResponse{
			Message: "Invalid request body",
		})
	}

	ctx := c.Request().Context()
	app := c.(*middleware.AppContext).App

	result, err := app.Pipeline.Run(ctx, analysis.Request{
		Company: data.Company,
		Country: data.Country,
		Officer: data.Officer,
		Website: data.Website,
	})
	if err != nil {
		logger.Error("Analysis failed", "company", data.Company, "err", err)
		return c.JSON(http.StatusInternalServerError, analyzeResponse{
			Message: "Internal server error",
		})
	}

	if app.Store != nil {
		if _, err := app.Store.Save(result); err != nil {
			logger.Error("Failed to store report", "id", result.ID, "err", err)
		}
	}

	return c.JSON(http.StatusOK, analyzeResponse{
		Message: "Analysis completed successfully",
		Report:  result,
	})
}

// AnalyzeAsyncHandler queues an analysis job and returns its ID. The
// finished report becomes available under /api/reports/:id.
func AnalyzeAsyncHandler(c echo.Context) error {
	type analyzeBody struct {
		Company string `json:"company" validate:"required"`
		Country string `json:"country" validate:"omitempty,oneof=US UK JP"`
		Officer string `json:"officer"`
		Website string `json:"website" validate:"omitempty,url"`
	}

	type analyzeAsyncResponse struct {
		Message string `json:"message"`
		JobID   string `json:"job_id,omitempty"`
	}

	data := new(analyzeBody)
	if err := c.Bind(data); err != nil {
		return c.JSON(http.StatusBadRequest, analyzeAsyncResponse{
			Message: "Invalid request body",
		})
	}
	if err := c.Validate(data); err != nil {
		return c.JSON(http.StatusBadRequest, analyzeAsyncResponse{
			Message: "Invalid request body",
		})
	}

	app := c.(*middleware.AppContext).App
	if app.Queue == nil {
		return c.JSON(http.StatusServiceUnavailable, analyzeAsyncResponse{
			Message: "Async analysis is not available",
		})
	}

	jobID, err := gonanoid.New()
	if err != nil {
		return c.JSON(http.StatusInternalServerError, analyzeAsyncResponse{
			Message: "Internal server error",
		})
	}

	msg := queue.AnalysisJobMsg{
		JobID:   jobID,
		Company: data.Company,
		Country: data.Country,
		Officer: data.Officer,
		Website: data.Website,
	}
	msgBytes, err := json.Marshal(msg)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, analyzeAsyncResponse{
			Message: "Internal server error",
		})
	}

	if err := queue.PublishFIFO(app.Queue, queue.AnalysisQueue, msgBytes); err != nil {
		logger.Error("Failed to publish analysis job", "job_id", jobID, "err", err)
		return c.JSON(http.StatusInternalServerError, analyzeAsyncResponse{
			Message: "Internal server error",
		})
	}

	return c.JSON(http.StatusAccepted, analyzeAsyncResponse{
		Message: "Analysis queued",
		JobID:   jobID,
	})
}
