package analysis

import (
	"context"
	"fmt"
	"time"

	"github.com/tomei-lab/tomei/pkg/common"
	"github.com/tomei-lab/tomei/pkg/graph"
	"github.com/tomei-lab/tomei/pkg/logger"
	"github.com/tomei-lab/tomei/pkg/namevariant"
	"github.com/tomei-lab/tomei/pkg/report"
)

// Fetcher interfaces, one per source. A nil fetcher means the source is
// unavailable (missing credentials, disabled by config); the pipeline
// treats it like a fetch that returned nothing. Availability never
// reaches the merge step.

type EdgarFetcher interface {
	SearchCompany(ctx context.Context, companyName string) (*common.EdgarRecord, error)
}

type CompaniesHouseFetcher interface {
	SearchCompany(ctx context.Context, companyName string) (*common.CompaniesHouseRecord, error)
}

type JapanRegistryFetcher interface {
	LookupCompany(ctx context.Context, companyName string) (*common.CorporateInfo, error)
}

type WebsiteFetcher interface {
	Fetch(ctx context.Context, companyName, websiteURL string) (*common.WebsiteInfo, error)
}

type PoliticalFetcher interface {
	GetContributions(ctx context.Context, companyName string) (*common.PoliticalRecord, error)
}

type FinancialFetcher interface {
	GetFinancialData(ctx context.Context, companyName, corporateNumber string) (*common.FinancialRecord, error)
}

// Pipeline runs the full analysis flow: name variants, per-source
// best-effort fetches, network merge, report assembly.
type Pipeline struct {
	edgar          EdgarFetcher
	companiesHouse CompaniesHouseFetcher
	japanRegistry  JapanRegistryFetcher
	website        WebsiteFetcher
	political      PoliticalFetcher
	financial      FinancialFetcher
}

// PipelineParams contains the per-source fetchers to assemble a
// Pipeline from. Any of them may be nil.
type PipelineParams struct {
	Edgar          EdgarFetcher
	CompaniesHouse CompaniesHouseFetcher
	JapanRegistry  JapanRegistryFetcher
	Website        WebsiteFetcher
	Political      PoliticalFetcher
	Financial      FinancialFetcher
}

func NewPipeline(params PipelineParams) *Pipeline {
	return &Pipeline{
		edgar:          params.Edgar,
		companiesHouse: params.CompaniesHouse,
		japanRegistry:  params.JapanRegistry,
		website:        params.Website,
		political:      params.Political,
		financial:      params.Financial,
	}
}

// Request describes one analysis run.
type Request struct {
	Company string `json:"company" validate:"required"`
	Country string `json:"country" validate:"omitempty,oneof=US UK JP"`
	Officer string `json:"officer,omitempty"`
	Website string `json:"website,omitempty" validate:"omitempty,url"`
}

// Run executes the integrated analysis. Sources are fetched
// sequentially in a fixed order; each fetch failure is logged and
// treated as "no data from that source". Country selects which
// registries apply: EDGAR for US, Companies House for UK, the corporate
// number registry plus website and financials for JP. Political
// contributions are attempted regardless of country.
func (p *Pipeline) Run(ctx context.Context, req Request) (*report.Report, error) {
	if req.Company == "" {
		return nil, fmt.Errorf("company name is required")
	}
	country := req.Country
	if country == "" {
		country = "US"
	}

	companyVariants := namevariant.Generate(req.Company)
	allVariants := companyVariants
	if req.Officer != "" {
		allVariants = append(append([]string{}, companyVariants...), namevariant.Generate(req.Officer)...)
	}

	var edgarData *common.EdgarRecord
	if country == "US" && p.edgar != nil {
		edgarData = p.fetchEdgar(ctx, companyVariants)
	}

	var companiesHouseData *common.CompaniesHouseRecord
	if country == "UK" && p.companiesHouse != nil {
		companiesHouseData = p.fetchCompaniesHouse(ctx, companyVariants)
	}

	var japanData *common.JapanRecord
	if country == "JP" {
		japanData = p.AnalyzeJapaneseCompany(ctx, req.Company, req.Website)
	}

	var politicalData *common.PoliticalRecord
	if p.political != nil {
		record, err := p.political.GetContributions(ctx, req.Company)
		if err != nil {
			logger.Debug("[Analysis] Political fetch failed", "company", req.Company, "err", err)
		} else {
			politicalData = record
			if edgarData != nil {
				politicalData.CIK = edgarData.CIK
			}
		}
	}

	network := graph.Merge(edgarData, companiesHouseData, japanData, allVariants, politicalData)
	return report.Assemble(req.Company, edgarData, companiesHouseData, japanData, politicalData, network), nil
}

// fetchEdgar walks the name variants until one search yields a record.
func (p *Pipeline) fetchEdgar(ctx context.Context, variants []string) *common.EdgarRecord {
	for _, variant := range variants {
		record, err := p.edgar.SearchCompany(ctx, variant)
		if err != nil {
			logger.Debug("[Analysis] EDGAR fetch failed", "name", variant, "err", err)
			continue
		}
		return record
	}
	return nil
}

func (p *Pipeline) fetchCompaniesHouse(ctx context.Context, variants []string) *common.CompaniesHouseRecord {
	for _, variant := range variants {
		record, err := p.companiesHouse.SearchCompany(ctx, variant)
		if err != nil {
			logger.Debug("[Analysis] Companies House fetch failed", "name", variant, "err", err)
			continue
		}
		return record
	}
	return nil
}

// AnalyzeJapaneseCompany combines the corporate number registry, the
// company website, and financial data into one record. Each sub-source
// is independent; the record is returned even when all three failed,
// with the source flags saying so.
func (p *Pipeline) AnalyzeJapaneseCompany(ctx context.Context, companyName, websiteURL string) *common.JapanRecord {
	record := &common.JapanRecord{
		CompanyName:  companyName,
		Country:      "JP",
		AnalysisDate: time.Now().UTC(),
	}

	if p.japanRegistry != nil {
		info, err := p.japanRegistry.LookupCompany(ctx, companyName)
		if err != nil {
			logger.Debug("[Analysis] Corporate number lookup failed", "company", companyName, "err", err)
		} else {
			record.CorporateInfo = info
			record.Sources.CorporateNumberAPI = true
		}
	}

	if p.website != nil {
		info, err := p.website.Fetch(ctx, companyName, websiteURL)
		if err != nil {
			logger.Debug("[Analysis] Website fetch failed", "company", companyName, "err", err)
		} else {
			record.WebsiteInfo = info
			record.Sources.Website = true
		}
	}

	if p.financial != nil {
		corporateNumber := ""
		if record.CorporateInfo != nil {
			corporateNumber = record.CorporateInfo.CorporateNumber
		}
		data, err := p.financial.GetFinancialData(ctx, companyName, corporateNumber)
		if err != nil {
			logger.Debug("[Analysis] Financial fetch failed", "company", companyName, "err", err)
		} else {
			record.FinancialData = data
			record.Sources.FinancialData = true
		}
	}

	return record
}

// BasicResult is the response of the lightweight analysis flow: EDGAR
// hits per surviving name variant, no merge.
type BasicResult struct {
	Company         string                `json:"company"`
	CompanyVariants []string              `json:"company_variants"`
	OfficerVariants []string              `json:"officer_variants"`
	EdgarData       []*common.EdgarRecord `json:"edgar_data"`
	Timestamp       time.Time             `json:"timestamp"`
}

// RunBasic searches EDGAR under every company name variant and collects
// all records instead of stopping at the first hit.
func (p *Pipeline) RunBasic(ctx context.Context, company, officer string) (*BasicResult, error) {
	if company == "" {
		return nil, fmt.Errorf("company name is required")
	}

	result := &BasicResult{
		Company:         company,
		CompanyVariants: namevariant.Generate(company),
		OfficerVariants: []string{},
		EdgarData:       []*common.EdgarRecord{},
		Timestamp:       time.Now().UTC(),
	}
	if officer != "" {
		result.OfficerVariants = namevariant.Generate(officer)
	}

	if p.edgar == nil {
		return result, nil
	}

	for _, variant := range result.CompanyVariants {
		record, err := p.edgar.SearchCompany(ctx, variant)
		if err != nil {
			logger.Debug("[Analysis] EDGAR fetch failed", "name", variant, "err", err)
			continue
		}
		result.EdgarData = append(result.EdgarData, record)
	}

	return result, nil
}

// GetFinancialData exposes the financial source directly.
func (p *Pipeline) GetFinancialData(ctx context.Context, companyName, corporateNumber string) (*common.FinancialRecord, error) {
	if p.financial == nil {
		return nil, fmt.Errorf("financial data source is not configured")
	}
	return p.financial.GetFinancialData(ctx, companyName, corporateNumber)
}
