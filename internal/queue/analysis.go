package queue

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/tomei-lab/tomei/internal/analysis"
	"github.com/tomei-lab/tomei/internal/storage"
	"github.com/tomei-lab/tomei/pkg/logger"
)

// AnalysisJobMsg is the payload published to the analysis queue. JobID
// is minted by the API so callers can correlate the finished report.
type AnalysisJobMsg struct {
	JobID   string `json:"job_id"`
	Company string `json:"company"`
	Country string `json:"country"`
	Officer string `json:"officer,omitempty"`
	Website string `json:"website,omitempty"`
}

// ProcessAnalysisMessage runs the full pipeline for one queued job and
// stores the report locally, plus in the archive when one is
// configured. The report keeps the job's ID so it can be fetched under
// the ID the API handed out.
func ProcessAnalysisMessage(
	ctx context.Context,
	pipeline *analysis.Pipeline,
	store *storage.LocalStore,
	archive *storage.Archive,
	msg string,
) error {
	data := new(AnalysisJobMsg)
	if err := json.Unmarshal([]byte(msg), &data); err != nil {
		return fmt.Errorf("failed to unmarshal analysis job: %w", err)
	}
	if data.Company == "" {
		return fmt.Errorf("analysis job without company name")
	}

	result, err := pipeline.Run(ctx, analysis.Request{
		Company: data.Company,
		Country: data.Country,
		Officer: data.Officer,
		Website: data.Website,
	})
	if err != nil {
		return fmt.Errorf("analysis failed for %q: %w", data.Company, err)
	}

	if data.JobID != "" {
		result.ID = data.JobID
	}

	path, err := store.Save(result)
	if err != nil {
		return fmt.Errorf("failed to store report: %w", err)
	}
	logger.Info("[Queue] Report stored", "job_id", result.ID, "path", path)

	if archive != nil {
		key, err := archive.PutReport(ctx, result)
		if err != nil {
			logger.Warn("[Queue] Failed to archive report", "job_id", result.ID, "err", err)
		} else {
			logger.Info("[Queue] Report archived", "job_id", result.ID, "key", key)
		}
	}

	return nil
}
