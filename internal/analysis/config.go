package analysis

import (
	"github.com/tomei-lab/tomei/internal/util"
	"github.com/tomei-lab/tomei/pkg/fetch/companieshouse"
	"github.com/tomei-lab/tomei/pkg/fetch/edgar"
	"github.com/tomei-lab/tomei/pkg/fetch/fec"
	"github.com/tomei-lab/tomei/pkg/fetch/gbizinfo"
	"github.com/tomei-lab/tomei/pkg/fetch/japanregistry"
	"github.com/tomei-lab/tomei/pkg/fetch/website"
	"github.com/tomei-lab/tomei/pkg/logger"
)

// NewPipelineFromEnv assembles a Pipeline from environment variables.
// Sources whose credentials are missing are left out; the pipeline
// treats them as absent.
func NewPipelineFromEnv() *Pipeline {
	params := PipelineParams{}

	params.Edgar = edgar.NewClient(edgar.ClientParams{
		UserAgent:  util.GetEnv("EDGAR_USER_AGENT"),
		MaxResults: util.GetEnvInt("EDGAR_MAX_RESULTS", 10),
	})

	if apiKey := util.GetEnv("COMPANIES_HOUSE_API_KEY"); apiKey != "" {
		params.CompaniesHouse = companieshouse.NewClient(companieshouse.ClientParams{
			APIKey: apiKey,
		})
	} else {
		logger.Debug("COMPANIES_HOUSE_API_KEY not set, Companies House source disabled")
	}

	if appID := util.GetEnv("HOUJIN_BANGOU_APP_ID"); appID != "" {
		params.JapanRegistry = japanregistry.NewClient(japanregistry.ClientParams{
			AppID: appID,
		})
	} else {
		logger.Debug("HOUJIN_BANGOU_APP_ID not set, corporate number source disabled")
	}

	params.Website = website.NewFetcher(website.FetcherParams{})

	if apiKey := util.GetEnv("FEC_API_KEY"); apiKey != "" {
		client, err := fec.NewClient(fec.ClientParams{APIKey: apiKey})
		if err != nil {
			logger.Warn("Failed to create FEC client", "err", err)
		} else {
			params.Political = client
		}
	} else {
		logger.Debug("FEC_API_KEY not set, political contributions source disabled")
	}

	params.Financial = gbizinfo.NewClient(gbizinfo.ClientParams{
		APIToken: util.GetEnv("GBIZINFO_API_KEY"),
	})

	return NewPipeline(params)
}
